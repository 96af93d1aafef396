package xr

import (
	"sync/atomic"
	"time"
)

const (
	defaultDblClickThreshold = 500 * time.Millisecond
	defaultContextMenuButton = ButtonSecondary
)

var pointerIDCounter atomic.Int64

// NextPointerID returns a process-unique pointer id.
func NextPointerID() int {
	return int(pointerIDCounter.Add(1))
}

// PointerOptions configures click synthesis. The zero value is usable.
type PointerOptions struct {
	// ClickThreshold is the longest down-to-up interval still counted as a
	// click. Zero means unlimited.
	ClickThreshold time.Duration
	// DblClickThreshold is the longest interval between two clicks forming a
	// double click. Zero means 500ms.
	DblClickThreshold time.Duration
	// ContextMenuButton emits contextmenu instead of click. Zero means
	// ButtonSecondary; a negative value disables contextmenu.
	ContextMenuButton int
}

func (o PointerOptions) withDefaults() PointerOptions {
	if o.DblClickThreshold <= 0 {
		o.DblClickThreshold = defaultDblClickThreshold
	}
	if o.ContextMenuButton == 0 {
		o.ContextMenuButton = defaultContextMenuButton
	}
	return o
}

// PointerState is the coarse state of a Pointer.
type PointerState uint8

const (
	PointerIdle     PointerState = iota // no intersection committed
	PointerHovering                     // intersection committed, no button held
	PointerDown                         // at least one button held
	PointerCaptured                     // capture established
	PointerExited                       // input source removed
)

func (s PointerState) String() string {
	switch s {
	case PointerIdle:
		return "idle"
	case PointerHovering:
		return "hovering"
	case PointerDown:
		return "down"
	case PointerCaptured:
		return "captured"
	case PointerExited:
		return "exited"
	default:
		return "unknown"
	}
}

type buttonPress struct {
	target *Node
	time   time.Time
}

type lastClick struct {
	target *Node
	button int
	time   time.Time
}

// Pointer is the state machine of one input device. It turns intersections
// into enter/leave/over/out/move/down/up/click/wheel events on scene nodes.
type Pointer struct {
	ID   int
	Type PointerType

	scene       *Scene
	intersector Intersector
	opts        PointerOptions
	enabled     bool
	exited      bool

	// intersection is the last computed hit; committed is the one events
	// were last emitted for.
	intersection *Intersection
	committed    *Intersection
	capture      *PointerCapture

	buttons   map[int]buttonPress
	lastClick lastClick
	hovered   []*Node
	pathBuf   []*Node
}

// NewPointer creates an enabled pointer with a fresh id.
func NewPointer(scene *Scene, typ PointerType, intersector Intersector, opts PointerOptions) *Pointer {
	if scene == nil {
		panic("xr: pointer needs a scene")
	}
	if intersector == nil {
		panic("xr: pointer needs an intersector")
	}
	return &Pointer{
		ID:          NextPointerID(),
		Type:        typ,
		scene:       scene,
		intersector: intersector,
		opts:        opts.withDefaults(),
		enabled:     true,
		buttons:     make(map[int]buttonPress),
	}
}

// Scene returns the scene the pointer hit-tests.
func (p *Pointer) Scene() *Scene { return p.scene }

// Intersector returns the pointer's intersector.
func (p *Pointer) Intersector() Intersector { return p.intersector }

// Enabled reports whether the pointer emits events.
func (p *Pointer) Enabled() bool { return p.enabled }

// GetIntersection returns the last computed intersection, or nil.
func (p *Pointer) GetIntersection() *Intersection { return p.intersection }

// GetPointerCapture returns the active capture, or nil.
func (p *Pointer) GetPointerCapture() *PointerCapture { return p.capture }

// ButtonsDown returns the number of buttons currently held.
func (p *Pointer) ButtonsDown() int { return len(p.buttons) }

// State returns the pointer's coarse state.
func (p *Pointer) State() PointerState {
	switch {
	case p.exited:
		return PointerExited
	case p.capture != nil:
		return PointerCaptured
	case len(p.buttons) > 0:
		return PointerDown
	case p.committed != nil:
		return PointerHovering
	default:
		return PointerIdle
	}
}

// SetPointerCapture binds the pointer to obj. intersection is the hit active
// when capture starts; nil uses the current intersection.
func (p *Pointer) SetPointerCapture(obj *Node, intersection *Intersection) {
	if obj == nil {
		return
	}
	if intersection == nil {
		intersection = p.intersection
	}
	if intersection == nil {
		return
	}
	p.capture = newPointerCapture(obj, intersection)
	Logger().Debug("xr: pointer captured", "pointer", p.ID, "node", obj.Name)
}

// ReleasePointerCapture drops the active capture, if any.
func (p *Pointer) ReleasePointerCapture() {
	if p.capture == nil {
		return
	}
	Logger().Debug("xr: pointer capture released", "pointer", p.ID, "node", p.capture.Object.Name)
	p.capture = nil
}

// Move computes the intersection for this frame and commits it, emitting a
// pointermove. Disabled pointers do nothing.
func (p *Pointer) Move(native NativeEvent) {
	if !p.enabled || p.exited {
		return
	}
	computeIntersections(FamilyPointer, p.scene, []*Pointer{p}, native, true)
	p.Commit(native, true)
}

// computeIntersections runs the capture short-circuit for captured pointers
// and one batched scene pass for the others. With allowLive false the batched
// pass is skipped whenever a pointer is captured.
func computeIntersections(family EventFamily, scene *Scene, pointers []*Pointer, native NativeEvent, allowLive bool) (anyCaptured bool) {
	live := make([]*Pointer, 0, len(pointers))
	for _, p := range pointers {
		if p.exited {
			p.intersection = nil
			continue
		}
		if p.capture != nil {
			p.intersection = p.intersectCapture(native)
			anyCaptured = anyCaptured || p.capture != nil
			continue
		}
		live = append(live, p)
	}
	if anyCaptured && !allowLive {
		for _, p := range live {
			p.intersection = nil
		}
		return anyCaptured
	}
	for _, p := range live {
		p.intersector.StartIntersection(native)
	}
	IntersectPointerEventTargets(family, scene, live)
	return anyCaptured
}

// intersectCapture recomputes the intersection against the captured node.
// A captured node no longer in the scene releases the capture and yields nil.
// When the intersector cannot track the pointer this frame the last captured
// intersection is kept.
func (p *Pointer) intersectCapture(native NativeEvent) *Intersection {
	c := p.capture
	obj := c.Object
	if obj.disposed || !obj.IsDescendantOf(p.scene.root) {
		Logger().Debug("xr: captured node left the scene", "pointer", p.ID, "node", obj.Name)
		p.capture = nil
		return nil
	}
	if i := p.intersector.IntersectPointerCapture(c, native); i != nil {
		return i
	}
	if p.intersection != nil && p.intersection.Object == obj {
		return p.intersection
	}
	return c.Intersection
}

// Commit emits the events for the change between the committed and the
// current intersection: out, leave (leaf first), over, enter (root first),
// then move when emitMove is set.
func (p *Pointer) Commit(native NativeEvent, emitMove bool) {
	next := p.intersection
	if !p.enabled {
		next = nil
	}
	prev := p.committed
	var prevObj, nextObj *Node
	if prev != nil {
		prevObj = prev.Object
	}
	if next != nil {
		nextObj = next.Object
	}

	if prevObj != nextObj {
		p.pathBuf = nodePath(nextObj, p.pathBuf)
		newPath := p.pathBuf
		if prevObj != nil {
			p.dispatch(EventPointerOut, prevObj, prev, native)
			for _, n := range p.hovered {
				if !containsNode(newPath, n) {
					p.dispatch(EventPointerLeave, n, prev, native)
				}
			}
		}
		if nextObj != nil {
			p.dispatch(EventPointerOver, nextObj, next, native)
			for i := len(newPath) - 1; i >= 0; i-- {
				if !containsNode(p.hovered, newPath[i]) {
					p.dispatch(EventPointerEnter, newPath[i], next, native)
				}
			}
		}
		p.hovered = append(p.hovered[:0], newPath...)
	}
	p.committed = next

	if emitMove && next != nil {
		p.dispatch(EventPointerMove, nextObj, next, native)
	}
}

// Down emits pointerdown on the committed target and records the press.
// Listeners may capture the pointer through the event.
func (p *Pointer) Down(native NativeEvent) {
	if !p.enabled || p.exited || p.committed == nil {
		return
	}
	if _, held := p.buttons[native.Button]; held {
		return
	}
	p.buttons[native.Button] = buttonPress{target: p.committed.Object, time: native.timeStamp()}
	p.dispatch(EventPointerDown, p.committed.Object, p.committed, native)
}

// Up emits pointerup, then click, dblclick or contextmenu when the press
// started on the same target. Any capture is released.
func (p *Pointer) Up(native NativeEvent) {
	press, held := p.buttons[native.Button]
	if !held {
		return
	}
	delete(p.buttons, native.Button)
	defer p.ReleasePointerCapture()

	target := p.committed
	if target == nil || !p.enabled {
		return
	}
	p.dispatch(EventPointerUp, target.Object, target, native)

	now := native.timeStamp()
	if press.target != target.Object {
		return
	}
	if p.opts.ClickThreshold > 0 && now.Sub(press.time) > p.opts.ClickThreshold {
		return
	}
	if native.Button == p.opts.ContextMenuButton {
		p.dispatch(EventContextMenu, target.Object, target, native)
		return
	}
	p.dispatch(EventClick, target.Object, target, native)
	lc := p.lastClick
	if lc.target == target.Object && lc.button == native.Button && now.Sub(lc.time) <= p.opts.DblClickThreshold {
		p.dispatch(EventDblClick, target.Object, target, native)
		p.lastClick = lastClick{}
		return
	}
	p.lastClick = lastClick{target: target.Object, button: native.Button, time: now}
}

// Cancel aborts the current interaction: pointercancel is emitted on the
// committed target when a button is held, held buttons are forgotten and the
// capture is released.
func (p *Pointer) Cancel(native NativeEvent) {
	if len(p.buttons) > 0 && p.committed != nil {
		p.dispatch(EventPointerCancel, p.committed.Object, p.committed, native)
	}
	clear(p.buttons)
	p.ReleasePointerCapture()
}

// Wheel emits a wheel event. With useMoveIntersection the committed
// intersection is the target; otherwise a fresh intersection is computed
// against wheel listeners only.
func (p *Pointer) Wheel(native NativeEvent, useMoveIntersection bool) {
	if !p.enabled || p.exited {
		return
	}
	target := p.committed
	if !useMoveIntersection {
		prev := p.intersection
		computeIntersections(FamilyWheel, p.scene, []*Pointer{p}, native, true)
		target = p.intersection
		p.intersection = prev
	}
	if target == nil {
		return
	}
	p.dispatch(EventWheel, target.Object, target, native)
}

// Exit cancels any interaction and emits the terminal out and leave events.
// The pointer stays inert afterwards.
func (p *Pointer) Exit(native NativeEvent) {
	if p.exited {
		return
	}
	p.Cancel(native)
	p.intersection = nil
	p.Commit(native, false)
	p.exited = true
}

// SetEnabled toggles event emission. Disabling cancels held buttons and
// emits out and leave for the committed target.
func (p *Pointer) SetEnabled(enabled bool, native NativeEvent) {
	if p.enabled == enabled {
		return
	}
	if enabled {
		p.enabled = true
		return
	}
	p.Cancel(native)
	p.enabled = false
	p.Commit(native, false)
}

func (p *Pointer) dispatch(kind EventKind, target *Node, i *Intersection, native NativeEvent) {
	e := &PointerEvent{
		Kind:         kind,
		PointerID:    p.ID,
		PointerType:  p.Type,
		Target:       target,
		Intersection: i,
		Button:       native.Button,
		TimeStamp:    native.timeStamp(),
		Native:       native,
		pointer:      p,
	}
	if kind == EventWheel {
		e.DeltaX, e.DeltaY, e.DeltaZ = native.DeltaX, native.DeltaY, native.DeltaZ
	}
	dispatch(e, p.scene)
}
