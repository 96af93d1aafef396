package handle

import (
	"time"

	xr "github.com/pmndrs/xr-sub001"
)

// handlePointer is a pointer engaged with the handle.
type handlePointer struct {
	id      int
	pointer *xr.Pointer
	initial PointerSample
	current PointerSample
}

// HandleStore turns pointer events on a handle node into transform updates
// of a target node. Bind the handle, then call Update once per frame.
type HandleStore struct {
	target *xr.Node
	opts   HandleOptions

	state    HandleState
	pointers []handlePointer
	baseline TargetInfo
	session  TargetInfo
	dirty    bool
	last     *xr.PointerEvent
	now      time.Duration
}

// NewHandleStore creates a store that edits target.
func NewHandleStore(target *xr.Node, opts HandleOptions) *HandleStore {
	if target == nil {
		panic("xr/handle: store needs a target")
	}
	s := &HandleStore{target: target, opts: opts}
	s.state.cancel = s.Cancel
	return s
}

// Target returns the node being edited.
func (s *HandleStore) Target() *xr.Node { return s.target }

// Options returns the store's options.
func (s *HandleStore) Options() *HandleOptions { return &s.opts }

// GetState returns the open session, or nil when idle.
func (s *HandleStore) GetState() *HandleState {
	if !s.state.Active() {
		return nil
	}
	return &s.state
}

// Bind registers the pointer listeners on handle, which may be the target
// itself or a separate gizmo node. The returned function unbinds.
func (s *HandleStore) Bind(handle *xr.Node) (unbind func()) {
	if handle == nil {
		panic("xr/handle: cannot bind nil node")
	}
	handles := []xr.CallbackHandle{
		handle.AddEventListener(xr.EventPointerDown, s.onDown),
		handle.AddEventListener(xr.EventPointerMove, s.onMove),
		handle.AddEventListener(xr.EventPointerUp, s.onUp),
		handle.AddEventListener(xr.EventPointerCancel, s.onUp),
	}
	return func() {
		for _, h := range handles {
			h.Remove()
		}
	}
}

func (s *HandleStore) maxPointers() int {
	if s.opts.Multitouch {
		return 2
	}
	return 1
}

func (s *HandleStore) indexOf(id int) int {
	for i := range s.pointers {
		if s.pointers[i].id == id {
			return i
		}
	}
	return -1
}

func (s *HandleStore) onDown(e *xr.PointerEvent) {
	if e.Intersection == nil || e.Intersection.IsVoid() {
		return
	}
	if s.indexOf(e.PointerID) >= 0 || len(s.pointers) >= s.maxPointers() {
		return
	}
	if s.opts.StopPropagation {
		e.StopPropagation()
	}
	e.SetPointerCapture()
	sample := SampleFromIntersection(e.Intersection)
	if s.dirty && len(s.pointers) > 0 {
		s.solveAndApply(false)
	}
	if len(s.pointers) == 0 {
		s.session = TargetInfoOf(s.target)
	}
	s.rebase()
	s.pointers = append(s.pointers, handlePointer{
		id:      e.PointerID,
		pointer: e.Pointer(),
		initial: sample,
		current: sample,
	})
	s.last = e
	if len(s.pointers) == 1 {
		order := RotateOrderFromOptions(s.opts.Rotate, s.target.RotationOrder)
		s.state.Start(e, NewTransformState(s.now, s.target.Position, s.target.Rotation, s.target.Scale, order, 1))
		xr.Logger().Debug("xr/handle: session started", "session", s.state.SessionID, "target", s.target.Name)
	}
	s.dirty = true
}

func (s *HandleStore) onMove(e *xr.PointerEvent) {
	i := s.indexOf(e.PointerID)
	if i < 0 || e.Intersection == nil {
		return
	}
	if s.opts.StopPropagation {
		e.StopPropagation()
	}
	s.pointers[i].current = SampleFromIntersection(e.Intersection)
	s.last = e
	s.dirty = true
}

func (s *HandleStore) onUp(e *xr.PointerEvent) {
	i := s.indexOf(e.PointerID)
	if i < 0 {
		return
	}
	if s.opts.StopPropagation {
		e.StopPropagation()
	}
	s.last = e
	if len(s.pointers) == 1 {
		s.solveAndApply(true)
		s.pointers = s.pointers[:0]
		xr.Logger().Debug("xr/handle: session ended", "session", s.state.SessionID, "target", s.target.Name)
		return
	}
	s.solveAndApply(false)
	s.pointers = append(s.pointers[:i], s.pointers[i+1:]...)
	s.rebase()
}

// rebase restarts the solver from the target's current transform so the
// remaining pointers continue without a jump. Locks and ranges stay relative
// to the transform the session started from.
func (s *HandleStore) rebase() {
	s.baseline = TargetInfoOf(s.target)
	s.baseline.Session = &s.session
	for i := range s.pointers {
		s.pointers[i].initial = s.pointers[i].current
	}
}

// Update solves and applies a new state when a pointer moved since the last
// call, or every call with AlwaysUpdate.
func (s *HandleStore) Update(now time.Duration) {
	s.now = now
	if len(s.pointers) == 0 || !s.state.Active() {
		return
	}
	if !s.dirty && !s.opts.AlwaysUpdate {
		return
	}
	s.solveAndApply(false)
}

func (s *HandleStore) solveAndApply(last bool) {
	initial := make([]PointerSample, len(s.pointers))
	current := make([]PointerSample, len(s.pointers))
	for i, p := range s.pointers {
		initial[i], current[i] = p.initial, p.current
	}
	next := ComputeHandleTransformState(s.now, initial, current, s.baseline, &s.opts)
	if last {
		s.state.End(s.last, next)
	} else {
		s.state.Update(s.last, next)
	}
	s.apply()
	s.dirty = false
}

func (s *HandleStore) apply() {
	if s.opts.Apply != nil {
		s.state.Memo = s.opts.Apply(&s.state, s.target)
		return
	}
	s.state.Memo = defaultApply(&s.state, s.target)
}

// defaultApply writes the current transform into the target.
func defaultApply(state *HandleState, target *xr.Node) any {
	c := state.Current
	target.SetTransform(c.Position(), c.Quaternion(), c.Scale())
	return nil
}

// Cancel aborts the session, restoring the initial transform and releasing
// the pointers.
func (s *HandleStore) Cancel() {
	if !s.state.Active() {
		return
	}
	for _, p := range s.pointers {
		if p.pointer != nil && p.pointer.GetPointerCapture() != nil {
			p.pointer.ReleasePointerCapture()
		}
	}
	s.pointers = s.pointers[:0]
	s.state.End(s.last, s.state.Initial)
	s.apply()
	s.dirty = false
	xr.Logger().Debug("xr/handle: session cancelled", "session", s.state.SessionID, "target", s.target.Name)
}
