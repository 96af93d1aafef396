package screen

import (
	"github.com/go-gl/mathgl/mgl64"

	xr "github.com/pmndrs/xr-sub001"
)

// ScreenPointer is one pointer engaged with a ScreenHandleStore. Positions
// are normalized device coordinates.
type ScreenPointer struct {
	ID      int
	Button  int
	Initial mgl64.Vec2
	Current mgl64.Vec2
}

// Delta returns Current - Initial.
func (p ScreenPointer) Delta() mgl64.Vec2 {
	return p.Current.Sub(p.Initial)
}

// ScreenHandleStore tracks the screen positions of the pointers pressed on a
// node. Whenever the set of pointers changes, the initial value is taken
// again from getInitial and every pointer's initial position is reset to its
// current one, so gestures continue without jumps. Update calls apply with
// the initial value and the pointers once per frame after movement.
type ScreenHandleStore[T any] struct {
	getInitial func() T
	apply      func(initial T, pointers []ScreenPointer)

	initial  T
	pointers []ScreenPointer
	handles  []*xr.Pointer
	dirty    bool
}

// NewScreenHandleStore creates a store. Both functions are required.
func NewScreenHandleStore[T any](getInitial func() T, apply func(initial T, pointers []ScreenPointer)) *ScreenHandleStore[T] {
	if getInitial == nil || apply == nil {
		panic("xr/screen: handle store needs getInitial and apply")
	}
	return &ScreenHandleStore[T]{getInitial: getInitial, apply: apply}
}

// Bind registers the store's listeners on node, usually the scene root. The
// returned function unbinds.
func (s *ScreenHandleStore[T]) Bind(node *xr.Node) (unbind func()) {
	if node == nil {
		panic("xr/screen: cannot bind nil node")
	}
	handles := []xr.CallbackHandle{
		node.AddEventListener(xr.EventPointerDown, s.onDown),
		node.AddEventListener(xr.EventPointerMove, s.onMove),
		node.AddEventListener(xr.EventPointerUp, s.onUp),
		node.AddEventListener(xr.EventPointerCancel, s.onCancel),
	}
	return func() {
		for _, h := range handles {
			h.Remove()
		}
	}
}

// Pointers returns the engaged pointers in press order.
func (s *ScreenHandleStore[T]) Pointers() []ScreenPointer { return s.pointers }

// Initial returns the value captured at the last change of pointers.
func (s *ScreenHandleStore[T]) Initial() T { return s.initial }

func (s *ScreenHandleStore[T]) indexOf(id int) int {
	for i := range s.pointers {
		if s.pointers[i].ID == id {
			return i
		}
	}
	return -1
}

func screenPoint(e *xr.PointerEvent) (mgl64.Vec2, bool) {
	if e.Intersection == nil {
		return mgl64.Vec2{}, false
	}
	d, ok := e.Intersection.Details.(xr.ScreenRayDetails)
	return d.ScreenPoint, ok
}

func (s *ScreenHandleStore[T]) onDown(e *xr.PointerEvent) {
	p, ok := screenPoint(e)
	if !ok || s.indexOf(e.PointerID) >= 0 {
		return
	}
	// A pointer already captured by another node belongs to that node.
	if c := e.Pointer().GetPointerCapture(); c != nil && c.Object != e.CurrentTarget {
		return
	}
	if !e.HasPointerCapture() {
		e.SetPointerCapture()
	}
	s.flush()
	s.pointers = append(s.pointers, ScreenPointer{ID: e.PointerID, Button: e.Button, Initial: p, Current: p})
	s.handles = append(s.handles, e.Pointer())
	s.rebase()
}

func (s *ScreenHandleStore[T]) onMove(e *xr.PointerEvent) {
	i := s.indexOf(e.PointerID)
	if i < 0 {
		return
	}
	if p, ok := screenPoint(e); ok {
		s.pointers[i].Current = p
		s.dirty = true
	}
}

func (s *ScreenHandleStore[T]) onUp(e *xr.PointerEvent) {
	i := s.indexOf(e.PointerID)
	if i < 0 || s.pointers[i].Button != e.Button {
		return
	}
	s.remove(i)
}

func (s *ScreenHandleStore[T]) onCancel(e *xr.PointerEvent) {
	if i := s.indexOf(e.PointerID); i >= 0 {
		s.remove(i)
	}
}

func (s *ScreenHandleStore[T]) remove(i int) {
	s.flush()
	s.pointers = append(s.pointers[:i], s.pointers[i+1:]...)
	s.handles = append(s.handles[:i], s.handles[i+1:]...)
	s.rebase()
}

// flush applies movement not yet seen by Update.
func (s *ScreenHandleStore[T]) flush() {
	if s.dirty && len(s.pointers) > 0 {
		s.apply(s.initial, s.pointers)
	}
	s.dirty = false
}

func (s *ScreenHandleStore[T]) rebase() {
	for i := range s.pointers {
		s.pointers[i].Initial = s.pointers[i].Current
	}
	if len(s.pointers) > 0 {
		s.initial = s.getInitial()
	}
	xr.Logger().Debug("xr/screen: pointers changed", "count", len(s.pointers))
}

// Update calls apply when a pointer moved since the last call.
func (s *ScreenHandleStore[T]) Update() {
	s.flush()
}

// Cancel drops every engaged pointer and releases their captures without
// applying pending movement.
func (s *ScreenHandleStore[T]) Cancel() {
	for _, p := range s.handles {
		if p != nil && p.GetPointerCapture() != nil {
			p.ReleasePointerCapture()
		}
	}
	s.pointers = s.pointers[:0]
	s.handles = s.handles[:0]
	s.dirty = false
}
