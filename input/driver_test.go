package input

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	xr "github.com/pmndrs/xr-sub001"
)

// fakeSource is a scriptable Source.
type fakeSource struct {
	x, y    float64
	buttons map[int]bool
	wheelY  float64
	touches map[int][2]float64
	order   []int
	mods    KeyModifiers
}

func newFakeSource() *fakeSource {
	return &fakeSource{buttons: map[int]bool{}, touches: map[int][2]float64{}}
}

func (f *fakeSource) CursorPosition() (float64, float64)      { return f.x, f.y }
func (f *fakeSource) IsMouseButtonPressed(button int) bool    { return f.buttons[button] }
func (f *fakeSource) Modifiers() KeyModifiers                 { return f.mods }
func (f *fakeSource) TouchPosition(id int) (float64, float64) { p := f.touches[id]; return p[0], p[1] }

func (f *fakeSource) Wheel() (float64, float64) {
	dy := f.wheelY
	f.wheelY = 0
	return 0, dy
}

func (f *fakeSource) AppendTouchIDs(ids []int) []int {
	for _, id := range f.order {
		if _, ok := f.touches[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (f *fakeSource) touch(id int, x, y float64) {
	if _, ok := f.touches[id]; !ok {
		f.order = append(f.order, id)
	}
	f.touches[id] = [2]float64{x, y}
}

// driverRig is an 800x600 view of a unit box five units in front of the
// camera. The box logs "kind:pointerType" for button and wheel events.
type driverRig struct {
	scene  *xr.Scene
	camera *xr.Camera
	box    *xr.Node
	source *fakeSource
	driver *Driver
	events []string
}

func newDriverRig(cfg DriverConfig) *driverRig {
	r := &driverRig{scene: xr.NewScene(), camera: xr.NewCamera(xr.Rect{Width: 800, Height: 600}), source: newFakeSource()}
	r.box = xr.NewMesh("box", xr.NewHitBox(1, 1, 1))
	r.box.SetPosition(0, 0, -5)
	r.scene.Root().AddChild(r.box)
	for _, k := range []xr.EventKind{xr.EventPointerDown, xr.EventPointerUp, xr.EventClick, xr.EventWheel, xr.EventContextMenu} {
		r.box.AddEventListener(k, func(e *xr.PointerEvent) {
			r.events = append(r.events, fmt.Sprintf("%s:%s", e.Kind, e.PointerType))
		})
	}
	r.driver = NewDriver(r.scene, r.camera, r.source, cfg)
	return r
}

func (r *driverRig) take() []string {
	out := r.events
	r.events = nil
	return out
}

func assertEvents(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}

// --- Mouse ---

func TestDriverMouseClick(t *testing.T) {
	r := newDriverRig(DriverConfig{})
	r.source.x, r.source.y = 400, 300
	r.driver.Update()
	if got := r.driver.Mouse().GetIntersection(); got == nil || got.Object != r.box {
		t.Fatal("mouse at the screen centre should hit the box")
	}

	r.source.buttons[xr.ButtonPrimary] = true
	r.driver.Update()
	r.source.buttons[xr.ButtonPrimary] = false
	r.driver.Update()
	assertEvents(t, r.take(), "pointerdown:mouse", "pointerup:mouse", "click:mouse")
}

func TestDriverMouseRightButton(t *testing.T) {
	r := newDriverRig(DriverConfig{})
	r.source.x, r.source.y = 400, 300
	r.source.buttons[xr.ButtonSecondary] = true
	r.driver.Update()
	r.source.buttons[xr.ButtonSecondary] = false
	r.driver.Update()
	assertEvents(t, r.take(), "pointerdown:mouse", "pointerup:mouse", "contextmenu:mouse")
}

func TestDriverMouseMissesOffscreenBox(t *testing.T) {
	r := newDriverRig(DriverConfig{})
	r.source.x, r.source.y = 10, 10
	r.driver.Update()
	if !r.driver.Mouse().GetIntersection().IsVoid() {
		t.Error("corner of the screen should miss the box")
	}
}

func TestDriverWheel(t *testing.T) {
	r := newDriverRig(DriverConfig{WheelUsesMoveIntersection: true})
	var deltas []float64
	r.box.AddEventListener(xr.EventWheel, func(e *xr.PointerEvent) { deltas = append(deltas, e.DeltaY) })
	r.source.x, r.source.y = 400, 300
	r.source.wheelY = 1
	r.driver.Update()
	if len(deltas) != 1 || deltas[0] != -100 {
		t.Errorf("wheel deltas = %v, want [-100]", deltas)
	}
}

func TestDriverModifiers(t *testing.T) {
	r := newDriverRig(DriverConfig{})
	var mods KeyModifiers
	r.box.AddEventListener(xr.EventPointerDown, func(e *xr.PointerEvent) {
		mods, _ = e.Native.Data.(KeyModifiers)
	})
	r.source.x, r.source.y = 400, 300
	r.source.mods = ModShift | ModCtrl
	r.source.buttons[xr.ButtonPrimary] = true
	r.driver.Update()
	if mods != ModShift|ModCtrl {
		t.Errorf("modifiers = %b, want shift|ctrl", mods)
	}
}

// --- Touch ---

func TestDriverTouchLifecycle(t *testing.T) {
	r := newDriverRig(DriverConfig{})
	r.source.touch(7, 400, 300)
	r.source.touch(9, 10, 10)
	r.driver.Update()
	if n := len(r.driver.Pointers()); n != 3 {
		t.Fatalf("pointers = %d, want mouse and two touches", n)
	}
	assertEvents(t, r.take(), "pointerdown:screen-touch")

	touch := r.driver.Pointers()[1]
	delete(r.source.touches, 7)
	r.driver.Update()
	assertEvents(t, r.take(), "pointerup:screen-touch", "click:screen-touch")
	if touch.State() != xr.PointerExited {
		t.Errorf("lifted touch state = %s, want exited", touch.State())
	}
	if n := len(r.driver.Pointers()); n != 2 {
		t.Errorf("pointers = %d after lift, want 2", n)
	}
}

func TestDriverMaxTouches(t *testing.T) {
	r := newDriverRig(DriverConfig{MaxTouches: 2})
	for i := range 4 {
		r.source.touch(i, 10, 10)
	}
	r.driver.Update()
	if n := len(r.driver.Pointers()); n != 3 {
		t.Errorf("pointers = %d, want mouse and two touches", n)
	}
}

func TestDriverWithoutSource(t *testing.T) {
	r := newDriverRig(DriverConfig{})
	d := NewDriver(r.scene, r.camera, nil, DriverConfig{})
	d.Update()
	d.InjectClick(400, 300, xr.ButtonPrimary)
	d.Update()
	d.Update()
	assertEvents(t, r.take(), "pointerdown:mouse", "pointerup:mouse", "click:mouse")
}

func TestDriverNDC(t *testing.T) {
	r := newDriverRig(DriverConfig{})
	r.source.x, r.source.y = 600, 150
	r.driver.Update()
	d, ok := r.driver.Mouse().GetIntersection().Details.(xr.ScreenRayDetails)
	if !ok {
		t.Fatal("mouse intersection should carry screen-ray details")
	}
	if d.ScreenPoint != (mgl64.Vec2{0.5, 0.5}) {
		t.Errorf("screen point = %v, want (0.5, 0.5)", d.ScreenPoint)
	}
}
