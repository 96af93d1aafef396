package handle

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	xr "github.com/pmndrs/xr-sub001"
)

// HandleTransformState is an immutable snapshot of a target's local
// transform. When built from a matrix the decomposition runs on first
// access and is cached.
type HandleTransformState struct {
	Time          time.Duration
	PointerAmount int

	matrix     mgl64.Mat4
	order      xr.EulerOrder
	decomposed bool
	eulerReady bool

	position   mgl64.Vec3
	quaternion mgl64.Quat
	scale      mgl64.Vec3
	rotation   xr.Euler
}

// NewTransformStateFromMatrix wraps a local matrix; decomposition is lazy.
func NewTransformStateFromMatrix(t time.Duration, local mgl64.Mat4, order xr.EulerOrder, pointerAmount int) *HandleTransformState {
	return &HandleTransformState{Time: t, PointerAmount: pointerAmount, matrix: local, order: order}
}

// NewTransformState builds a snapshot from its parts.
func NewTransformState(t time.Duration, position mgl64.Vec3, quaternion mgl64.Quat, scale mgl64.Vec3, order xr.EulerOrder, pointerAmount int) *HandleTransformState {
	return &HandleTransformState{
		Time:          t,
		PointerAmount: pointerAmount,
		order:         order,
		decomposed:    true,
		position:      position,
		quaternion:    quaternion,
		scale:         scale,
	}
}

// newTransformStateWithEuler also seeds the Euler angles, so constrained
// angles survive without a round trip through the quaternion.
func newTransformStateWithEuler(t time.Duration, position mgl64.Vec3, rotation xr.Euler, quaternion mgl64.Quat, scale mgl64.Vec3, pointerAmount int) *HandleTransformState {
	s := NewTransformState(t, position, quaternion, scale, rotation.Order, pointerAmount)
	s.rotation = rotation
	s.eulerReady = true
	return s
}

// StateOfNode snapshots n's current local transform.
func StateOfNode(t time.Duration, n *xr.Node, pointerAmount int) *HandleTransformState {
	return NewTransformState(t, n.Position, n.Rotation, n.Scale, n.RotationOrder, pointerAmount)
}

func (s *HandleTransformState) decompose() {
	if s.decomposed {
		return
	}
	s.position, s.quaternion, s.scale = xr.DecomposeMatrix(s.matrix)
	s.decomposed = true
}

// Position returns the local position.
func (s *HandleTransformState) Position() mgl64.Vec3 {
	s.decompose()
	return s.position
}

// Quaternion returns the local rotation.
func (s *HandleTransformState) Quaternion() mgl64.Quat {
	s.decompose()
	return s.quaternion
}

// Scale returns the local scale.
func (s *HandleTransformState) Scale() mgl64.Vec3 {
	s.decompose()
	return s.scale
}

// Rotation returns the local rotation as Euler angles.
func (s *HandleTransformState) Rotation() xr.Euler {
	if !s.eulerReady {
		s.rotation = xr.EulerFromQuat(s.Quaternion(), s.order)
		s.eulerReady = true
	}
	return s.rotation
}

// SubtractedTransformState is the difference a - b of two snapshots,
// computed on first access.
type SubtractedTransformState struct {
	a, b *HandleTransformState

	ready      bool
	position   mgl64.Vec3
	quaternion mgl64.Quat
	rotation   xr.Euler
	scale      mgl64.Vec3
}

// Subtract returns the lazy difference a - b.
func Subtract(a, b *HandleTransformState) *SubtractedTransformState {
	return &SubtractedTransformState{a: a, b: b}
}

func (d *SubtractedTransformState) compute() {
	if d.ready {
		return
	}
	d.ready = true
	d.position = d.a.Position().Sub(d.b.Position())
	d.quaternion = d.a.Quaternion().Mul(d.b.Quaternion().Inverse())
	ea := d.a.Rotation()
	eb := d.b.Rotation().Reorder(ea.Order)
	d.rotation = xr.Euler{X: ea.X - eb.X, Y: ea.Y - eb.Y, Z: ea.Z - eb.Z, Order: ea.Order}
	sa, sb := d.a.Scale(), d.b.Scale()
	for i := 0; i < 3; i++ {
		if sb[i] == 0 {
			d.scale[i] = 1
		} else {
			d.scale[i] = sa[i] / sb[i]
		}
	}
}

// Time returns the elapsed time between the snapshots.
func (d *SubtractedTransformState) Time() time.Duration {
	return d.a.Time - d.b.Time
}

// Position returns the position difference.
func (d *SubtractedTransformState) Position() mgl64.Vec3 {
	d.compute()
	return d.position
}

// Quaternion returns the rotation taking b to a.
func (d *SubtractedTransformState) Quaternion() mgl64.Quat {
	d.compute()
	return d.quaternion
}

// Rotation returns the per-axis Euler difference.
func (d *SubtractedTransformState) Rotation() xr.Euler {
	d.compute()
	return d.rotation
}

// Scale returns the per-axis scale ratio; axes with zero reference scale report 1.
func (d *SubtractedTransformState) Scale() mgl64.Vec3 {
	d.compute()
	return d.scale
}

// HandleState is one interaction session, from the first pointer down to
// the last pointer up or a cancel.
type HandleState struct {
	SessionID uuid.UUID
	// Event is the pointer event that produced the latest snapshot.
	Event    *xr.PointerEvent
	Initial  *HandleTransformState
	Previous *HandleTransformState
	Current  *HandleTransformState
	First    bool
	Last     bool
	// Memo is whatever the last Apply returned.
	Memo any

	delta  *SubtractedTransformState
	offset *SubtractedTransformState
	cancel func()
}

// Start opens a session at current.
func (s *HandleState) Start(event *xr.PointerEvent, current *HandleTransformState) {
	*s = HandleState{
		SessionID: uuid.New(),
		Event:     event,
		Initial:   current,
		Current:   current,
		First:     true,
		cancel:    s.cancel,
	}
}

// Update shifts Current into Previous. It is a no-op once the session ended.
func (s *HandleState) Update(event *xr.PointerEvent, current *HandleTransformState) {
	if s.Last || s.Initial == nil {
		return
	}
	s.Event = event
	s.Previous = s.Current
	s.Current = current
	s.First = false
	s.delta = nil
	s.offset = nil
}

// End closes the session with a final snapshot.
func (s *HandleState) End(event *xr.PointerEvent, current *HandleTransformState) {
	if s.Last || s.Initial == nil {
		return
	}
	s.Update(event, current)
	s.Last = true
}

// Delta returns Current - Previous, or nil before the first update.
func (s *HandleState) Delta() *SubtractedTransformState {
	if s.Previous == nil {
		return nil
	}
	if s.delta == nil {
		s.delta = Subtract(s.Current, s.Previous)
	}
	return s.delta
}

// Offset returns Current - Initial.
func (s *HandleState) Offset() *SubtractedTransformState {
	if s.Initial == nil {
		return nil
	}
	if s.offset == nil {
		s.offset = Subtract(s.Current, s.Initial)
	}
	return s.offset
}

// Active reports whether a session is open.
func (s *HandleState) Active() bool {
	return s.Initial != nil && !s.Last
}

// Cancel aborts the session through the owning store.
func (s *HandleState) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}
