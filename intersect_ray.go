package xr

import (
	"github.com/go-gl/mathgl/mgl64"
)

// RayIntersector hit-tests along a straight ray from the pointer pose, the
// way an XR controller or hand ray does.
type RayIntersector struct {
	pose PoseFunc

	// MinDistance and MaxDistance bound accepted hits. MaxDistance <= 0 means
	// unbounded.
	MinDistance float64
	MaxDistance float64
	// Direction is the ray direction in the pointer's local frame. Zero means Forward.
	Direction mgl64.Vec3
	// Less overrides IntersectionLess.
	Less func(a, b *Intersection) bool

	ready     bool
	origin    mgl64.Vec3
	direction mgl64.Vec3
	rotation  mgl64.Quat
	cands     candidates
}

// NewRayIntersector returns a ray intersector driven by pose.
func NewRayIntersector(pose PoseFunc) *RayIntersector {
	if pose == nil {
		panic("xr: ray intersector needs a pose")
	}
	return &RayIntersector{pose: pose}
}

// IsReady reports whether the last StartIntersection found a pose.
func (r *RayIntersector) IsReady() bool {
	return r.ready
}

func (r *RayIntersector) readPose() bool {
	pos, rot, ok := r.pose()
	r.ready = ok
	if !ok {
		return false
	}
	local := r.Direction
	if local == (mgl64.Vec3{}) {
		local = Forward
	}
	r.origin = pos
	r.rotation = rot.Normalize()
	r.direction = NormalizeOr(r.rotation.Rotate(local), Forward)
	return true
}

// StartIntersection samples the pose and clears last frame's candidates.
func (r *RayIntersector) StartIntersection(NativeEvent) {
	r.cands.less = r.Less
	r.cands.reset()
	r.readPose()
}

// ExecuteIntersection tests the ray against node's shape.
func (r *RayIntersector) ExecuteIntersection(node *Node, order int) {
	if !r.ready {
		return
	}
	world, hit, ok := rayHit(node, r.origin, r.direction)
	if !ok {
		return
	}
	point := TransformPoint(world, hit.Point)
	dist := point.Sub(r.origin).Dot(r.direction)
	if dist < r.MinDistance || (r.MaxDistance > 0 && dist > r.MaxDistance) {
		return
	}
	r.cands.offer(&Intersection{
		Object:             node,
		Distance:           dist,
		Point:              point,
		LocalPoint:         hit.Point,
		Normal:             worldNormal(world, hit.Normal),
		HasNormal:          true,
		PointerPosition:    r.origin,
		PointerQuaternion:  r.rotation,
		PointerEventsOrder: order,
		Details:            RayDetails{},
	})
}

// FinalizeIntersection returns the nearest hit, or a void hit.
func (r *RayIntersector) FinalizeIntersection(scene *Scene) *Intersection {
	if !r.ready {
		return nil
	}
	if r.cands.best != nil {
		return r.cands.best
	}
	return voidIntersection(scene, r.origin, r.rotation, RayDetails{})
}

// IntersectPointerCapture re-derives the captured hit from the current ray
// without a scene traversal.
func (r *RayIntersector) IntersectPointerCapture(c *PointerCapture, _ NativeEvent) *Intersection {
	if !r.readPose() {
		return nil
	}
	point, dist := c.rayCapture(r.origin, r.direction)
	return c.capturedIntersection(point, dist, r.origin, r.rotation, nil)
}
