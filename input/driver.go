package input

import (
	"maps"
	"slices"

	xr "github.com/pmndrs/xr-sub001"
)

// touchSlot is one touch contact mapped to a pointer.
type touchSlot struct {
	used    bool
	id      int
	x, y    float64
	pointer *xr.Pointer
}

// Driver owns the screen pointers of one camera view.
type Driver struct {
	scene  *xr.Scene
	camera *xr.Camera
	source Source
	cfg    DriverConfig

	mouse       *xr.Pointer
	mouseX      float64
	mouseY      float64
	mouseMoved  bool
	mouseButton [len(mouseButtons)]bool

	touches  []touchSlot
	touchBuf []int

	// injected state replaces the source while synthetic events are queued
	injectQueue   []syntheticEvent
	injectTouches map[int][2]float64
	runner        *ScriptRunner
}

// NewDriver creates a driver for scene viewed through camera. source may be
// nil, in which case only injected input reaches the pointers.
func NewDriver(scene *xr.Scene, camera *xr.Camera, source Source, cfg DriverConfig) *Driver {
	if scene == nil || camera == nil {
		panic("xr/input: driver needs a scene and a camera")
	}
	cfg = cfg.withDefaults()
	d := &Driver{
		scene:         scene,
		camera:        camera,
		source:        source,
		cfg:           cfg,
		touches:       make([]touchSlot, cfg.MaxTouches),
		injectTouches: make(map[int][2]float64),
	}
	d.mouse = d.newPointer(xr.PointerTypeMouse)
	return d
}

func (d *Driver) newPointer(typ xr.PointerType) *xr.Pointer {
	return xr.NewPointer(d.scene, typ, xr.NewScreenRayIntersector(d.camera), d.cfg.PointerOptions)
}

// Mouse returns the mouse pointer.
func (d *Driver) Mouse() *xr.Pointer { return d.mouse }

// Pointers returns the mouse pointer followed by the active touch pointers.
func (d *Driver) Pointers() []*xr.Pointer {
	out := []*xr.Pointer{d.mouse}
	for _, t := range d.touches {
		if t.used {
			out = append(out, t.pointer)
		}
	}
	return out
}

// SetScriptRunner attaches a script runner. It advances one step per Update
// before input is read.
func (d *Driver) SetScriptRunner(r *ScriptRunner) {
	d.runner = r
}

func (d *Driver) native(x, y float64, button int, mods KeyModifiers) xr.NativeEvent {
	ndc := d.camera.ScreenToNDC(x, y)
	return xr.NativeEvent{
		Button:    button,
		TimeStamp: d.cfg.Now(),
		ScreenX:   ndc[0],
		ScreenY:   ndc[1],
		Data:      mods,
	}
}

// Update processes one frame of input. While synthetic events are queued
// they replace the real mouse, one event per frame.
func (d *Driver) Update() {
	if d.runner != nil {
		d.runner.step(d)
	}
	var mods KeyModifiers
	if d.source != nil {
		mods = d.source.Modifiers()
	}
	if !d.processInjected(mods) && d.source != nil {
		x, y := d.source.CursorPosition()
		var pressed [len(mouseButtons)]bool
		for i, b := range mouseButtons {
			pressed[i] = d.source.IsMouseButtonPressed(b)
		}
		d.processMouse(x, y, pressed, mods)
		if wx, wy := d.source.Wheel(); wx != 0 || wy != 0 {
			d.wheel(x, y, -wx*d.cfg.WheelLineHeight, -wy*d.cfg.WheelLineHeight, mods)
		}
	}
	d.processTouches(mods)
}

// processMouse moves the mouse pointer when it moved, then emits down and
// up for every button that changed.
func (d *Driver) processMouse(x, y float64, pressed [len(mouseButtons)]bool, mods KeyModifiers) {
	if !d.mouseMoved || x != d.mouseX || y != d.mouseY {
		d.mouseX, d.mouseY, d.mouseMoved = x, y, true
		d.mouse.Move(d.native(x, y, 0, mods))
	}
	for i, b := range mouseButtons {
		switch {
		case pressed[i] && !d.mouseButton[i]:
			d.mouse.Down(d.native(x, y, b, mods))
		case !pressed[i] && d.mouseButton[i]:
			d.mouse.Up(d.native(x, y, b, mods))
		}
		d.mouseButton[i] = pressed[i]
	}
}

func (d *Driver) wheel(x, y, dx, dy float64, mods KeyModifiers) {
	native := d.native(x, y, 0, mods)
	native.DeltaX, native.DeltaY = dx, dy
	d.mouse.Wheel(native, d.cfg.WheelUsesMoveIntersection)
}

// processTouches merges source and injected touches, then runs each slot:
// a new contact creates a pointer and presses it, a moved one moves it and
// a lifted one releases it and exits.
func (d *Driver) processTouches(mods KeyModifiers) {
	active := make([]bool, len(d.touches))
	if d.source != nil {
		d.touchBuf = d.source.AppendTouchIDs(d.touchBuf[:0])
		for _, id := range d.touchBuf {
			x, y := d.source.TouchPosition(id)
			if slot := d.touchSlot(id); slot >= 0 {
				active[slot] = true
				d.processTouch(slot, x, y, mods)
			}
		}
	}
	for _, id := range slices.Sorted(maps.Keys(d.injectTouches)) {
		p := d.injectTouches[id]
		if slot := d.touchSlot(injectedTouchID(id)); slot >= 0 {
			active[slot] = true
			d.processTouch(slot, p[0], p[1], mods)
		}
	}
	for i := range d.touches {
		t := &d.touches[i]
		if t.used && !active[i] {
			native := d.native(t.x, t.y, xr.ButtonPrimary, mods)
			t.pointer.Up(native)
			t.pointer.Exit(native)
			*t = touchSlot{}
		}
	}
}

func (d *Driver) processTouch(slot int, x, y float64, mods KeyModifiers) {
	t := &d.touches[slot]
	if t.pointer == nil {
		t.pointer = d.newPointer(xr.PointerTypeScreenTouch)
		t.x, t.y = x, y
		t.pointer.Move(d.native(x, y, 0, mods))
		t.pointer.Down(d.native(x, y, xr.ButtonPrimary, mods))
		xr.Logger().Debug("xr/input: touch started", "touch", t.id, "pointer", t.pointer.ID)
		return
	}
	if x != t.x || y != t.y {
		t.x, t.y = x, y
		t.pointer.Move(d.native(x, y, 0, mods))
	}
}

// touchSlot returns the slot of touch id, allocating one for a new contact.
// It returns -1 when every slot is taken.
func (d *Driver) touchSlot(id int) int {
	for i := range d.touches {
		if d.touches[i].used && d.touches[i].id == id {
			return i
		}
	}
	for i := range d.touches {
		if !d.touches[i].used {
			d.touches[i] = touchSlot{used: true, id: id}
			return i
		}
	}
	return -1
}
