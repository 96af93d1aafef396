package handle

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	xr "github.com/pmndrs/xr-sub001"
)

var unitScale = mgl64.Vec3{1, 1, 1}

// TargetInfo is the target's transform when the pointers engaged.
type TargetInfo struct {
	Position   mgl64.Vec3
	Quaternion mgl64.Quat
	Scale      mgl64.Vec3
	Order      xr.EulerOrder
	// ParentWorld is the parent's world matrix, identity for a root node.
	ParentWorld mgl64.Mat4
	// Session is the transform the interaction started from. Locks and
	// ranges apply against it; nil means the target itself.
	Session *TargetInfo
}

// TargetInfoOf snapshots n.
func TargetInfoOf(n *xr.Node) TargetInfo {
	parent := mgl64.Ident4()
	if n.Parent != nil {
		parent = n.Parent.WorldMatrix()
	}
	return TargetInfo{
		Position:    n.Position,
		Quaternion:  n.Rotation,
		Scale:       n.Scale,
		Order:       n.RotationOrder,
		ParentWorld: parent,
	}
}

// World returns the target's world matrix.
func (t TargetInfo) World() mgl64.Mat4 {
	return t.ParentWorld.Mul4(xr.ComposeMatrix(t.Position, t.Quaternion, t.Scale))
}

func (t TargetInfo) reference() TargetInfo {
	if t.Session != nil {
		return *t.Session
	}
	return t
}

func (t TargetInfo) parentQuaternion() mgl64.Quat {
	_, q, _ := xr.DecomposeMatrix(t.ParentWorld)
	return q
}

// toLocal converts a world matrix into the target's parent space.
func (t TargetInfo) toLocal(world mgl64.Mat4) mgl64.Mat4 {
	return xr.InvertMatrix(t.ParentWorld).Mul4(world)
}

// ComputeOnePointer solves the target transform for a single pointer moving
// from initial to current.
func ComputeOnePointer(t time.Duration, initial, current PointerSample, target TargetInfo, opts *HandleOptions) *HandleTransformState {
	order := RotateOrderFromOptions(opts.Rotate, target.Order)
	parentQuat := target.parentQuaternion()
	if opts.TranslateMode != TranslateLiteral {
		return computeTranslateAs(t, initial, current, target, opts, parentQuat, order)
	}

	projected := newSpace(opts.Translate.EnabledAxes(), parentQuat).project(current, initial.Point)

	// The target rides on the pointer: keep its initial offset from the
	// pointer frame and move that frame to the projected point.
	pointerInitial := xr.ComposeMatrix(initial.Point, initial.Quaternion, unitScale)
	offset := xr.InvertMatrix(pointerInitial).Mul4(target.World())
	delta := current.Quaternion.Mul(initial.Quaternion.Inverse())
	q := constrainRotation(delta, target, opts, order).Mul(initial.Quaternion).Normalize()
	world := xr.ComposeMatrix(projected, q, unitScale).Mul4(offset)
	pos, quat, _ := xr.DecomposeMatrix(target.toLocal(world))
	return finish(t, pos, quat, target.Scale, target, opts, order, 1)
}

// computeTranslateAs reinterprets pointer motion around the target's centre
// as rotation and/or scale. The position never changes.
func computeTranslateAs(t time.Duration, initial, current PointerSample, target TargetInfo, opts *HandleOptions, parentQuat mgl64.Quat, order xr.EulerOrder) *HandleTransformState {
	world := target.World()
	center := mgl64.Vec3{world[12], world[13], world[14]}
	quat := target.Quaternion
	scale := target.Scale

	if opts.TranslateMode.rotates() && !opts.Rotate.IsDisabled() {
		if axes := opts.Rotate.EnabledAxes(); len(axes) == 1 {
			axisWorld := parentQuat.Rotate(axes[0].Unit())
			p := planeSpace(axisWorld).project(current, initial.Point)
			angle := signedAngle(initial.Point.Sub(center), p.Sub(center), axisWorld)
			quat = mgl64.QuatRotate(angle, axes[0].Unit()).Mul(target.Quaternion).Normalize()
		} else {
			p := newSpace(opts.Translate.EnabledAxes(), parentQuat).project(current, initial.Point)
			worldDelta := rotationBetween(initial.Point.Sub(center), p.Sub(center))
			localDelta := parentQuat.Inverse().Mul(worldDelta).Mul(parentQuat)
			quat = localDelta.Mul(target.Quaternion).Normalize()
		}
	}

	if opts.TranslateMode.scales() {
		sp := newSpace(opts.Translate.EnabledAxes(), parentQuat)
		p := sp.project(current, initial.Point)
		var d0, d1 float64
		if len(sp.axes) == 1 {
			d0 = initial.Point.Sub(center).Dot(sp.axes[0])
			d1 = p.Sub(center).Dot(sp.axes[0])
		} else {
			d0 = initial.Point.Sub(center).Len()
			d1 = p.Sub(center).Len()
		}
		factor := 1.0
		if d0 > epsilon || d0 < -epsilon {
			factor = d1 / d0
		}
		scale = target.Scale.Mul(factor)
	}
	return finish(t, target.Position, quat, scale, target, opts, order, 1)
}

// ComputeTwoPointer solves a two-pointer gesture: the segment between the
// pointers rotates the target, its length ratio scales it uniformly when
// scaling is allowed (otherwise the scale factor is 1), and its midpoint
// shift translates it.
func ComputeTwoPointer(t time.Duration, initial, current [2]PointerSample, target TargetInfo, opts *HandleOptions) *HandleTransformState {
	order := RotateOrderFromOptions(opts.Rotate, target.Order)
	parentQuat := target.parentQuaternion()

	d0 := initial[1].Point.Sub(initial[0].Point)
	d1 := current[1].Point.Sub(current[0].Point)

	rot := mgl64.QuatIdent()
	if !opts.Rotate.IsDisabled() {
		if axes := opts.Rotate.EnabledAxes(); len(axes) == 1 {
			axisWorld := parentQuat.Rotate(axes[0].Unit())
			rot = mgl64.QuatRotate(signedAngle(d0, d1, axisWorld), axisWorld)
		} else {
			rot = rotationBetween(d0, d1)
		}
		rot = constrainRotation(rot, target, opts, order)
	}

	s := 1.0
	if !opts.Scale.IsDisabled() && d0.Len() > epsilon {
		s = d1.Len() / d0.Len()
	}

	sp := newSpace(opts.Translate.EnabledAxes(), parentQuat)
	m0 := initial[0].Point.Add(initial[1].Point).Mul(0.5)
	m1 := sp.project(current[0], initial[0].Point).Add(sp.project(current[1], initial[1].Point)).Mul(0.5)

	gesture := mgl64.Translate3D(m1[0], m1[1], m1[2]).
		Mul4(rot.Mat4()).
		Mul4(mgl64.Scale3D(s, s, s)).
		Mul4(mgl64.Translate3D(-m0[0], -m0[1], -m0[2]))
	pos, quat, scale := xr.DecomposeMatrix(target.toLocal(gesture.Mul4(target.World())))
	return finish(t, pos, quat, scale, target, opts, order, 2)
}

// ComputeHandleTransformState dispatches on the number of samples.
func ComputeHandleTransformState(t time.Duration, initial, current []PointerSample, target TargetInfo, opts *HandleOptions) *HandleTransformState {
	switch {
	case len(initial) >= 2 && len(current) >= 2:
		return ComputeTwoPointer(t, [2]PointerSample{initial[0], initial[1]}, [2]PointerSample{current[0], current[1]}, target, opts)
	case len(initial) == 1 && len(current) == 1:
		return ComputeOnePointer(t, initial[0], current[0], target, opts)
	default:
		return NewTransformState(t, target.Position, target.Quaternion, target.Scale, target.Order, 0)
	}
}

// constrainRotation limits a world-space rotation delta applied to the
// target to the part opts.Rotate allows, so a pointer's swing into a locked
// axis neither turns nor displaces the target.
func constrainRotation(delta mgl64.Quat, target TargetInfo, opts *HandleOptions, order xr.EulerOrder) mgl64.Quat {
	switch {
	case opts.Rotate.IsDisabled():
		return mgl64.QuatIdent()
	case opts.Rotate.Kind == OptionEnabled:
		return delta
	}
	parentQuat := target.parentQuaternion()
	local := parentQuat.Inverse().Mul(delta).Mul(parentQuat).Mul(target.Quaternion).Normalize()
	allowed, _ := ApplyRotateOptions(local, target.reference().Quaternion, opts.Rotate, order)
	return parentQuat.Mul(allowed).Mul(target.Quaternion.Inverse()).Mul(parentQuat.Inverse()).Normalize()
}

// finish re-applies the options against the session's initial transform so
// locked axes keep their initial value exactly and ranges clamp the total
// change.
func finish(t time.Duration, pos mgl64.Vec3, quat mgl64.Quat, scale mgl64.Vec3, target TargetInfo, opts *HandleOptions, order xr.EulerOrder, pointerAmount int) *HandleTransformState {
	ref := target.reference()
	if opts.TranslateMode == TranslateLiteral {
		pos = ApplyTransformOptions(pos, ref.Position, opts.Translate)
	} else {
		pos = target.Position
	}
	quat, euler := ApplyRotateOptions(quat, ref.Quaternion, opts.Rotate, order)
	scale = ApplyScaleOptions(scale, ref.Scale, opts.Scale)
	return newTransformStateWithEuler(t, pos, euler, quat, scale, pointerAmount)
}
