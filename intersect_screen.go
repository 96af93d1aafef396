package xr

import (
	"github.com/go-gl/mathgl/mgl64"
)

// ScreenRayIntersector casts a ray from a Camera through the native event's
// NDC position. It backs mouse and screen-touch pointers. The reported pointer
// orientation is the camera's, so dragging does not rotate handles.
type ScreenRayIntersector struct {
	Camera *Camera
	Less   func(a, b *Intersection) bool

	ready     bool
	ndc       mgl64.Vec2
	origin    mgl64.Vec3
	direction mgl64.Vec3
	rotation  mgl64.Quat
	cands     candidates
}

// NewScreenRayIntersector returns a screen-ray intersector for cam.
func NewScreenRayIntersector(cam *Camera) *ScreenRayIntersector {
	if cam == nil {
		panic("xr: screen-ray intersector needs a camera")
	}
	return &ScreenRayIntersector{Camera: cam}
}

func (s *ScreenRayIntersector) IsReady() bool {
	return s.ready
}

func (s *ScreenRayIntersector) readRay(native NativeEvent) {
	s.ndc = mgl64.Vec2{native.ScreenX, native.ScreenY}
	s.origin, s.direction = s.Camera.RayFromNDC(s.ndc)
	s.rotation = s.Camera.Rotation.Normalize()
	s.ready = true
}

func (s *ScreenRayIntersector) StartIntersection(native NativeEvent) {
	s.cands.less = s.Less
	s.cands.reset()
	s.readRay(native)
}

func (s *ScreenRayIntersector) ExecuteIntersection(node *Node, order int) {
	if !s.ready {
		return
	}
	world, hit, ok := rayHit(node, s.origin, s.direction)
	if !ok {
		return
	}
	point := TransformPoint(world, hit.Point)
	s.cands.offer(&Intersection{
		Object:             node,
		Distance:           point.Sub(s.origin).Dot(s.direction),
		Point:              point,
		LocalPoint:         hit.Point,
		Normal:             worldNormal(world, hit.Normal),
		HasNormal:          true,
		PointerPosition:    s.origin,
		PointerQuaternion:  s.rotation,
		PointerEventsOrder: order,
		Details: ScreenRayDetails{
			ScreenPoint:       s.ndc,
			DistanceViewPlane: s.Camera.ViewDistance(point),
		},
	})
}

func (s *ScreenRayIntersector) FinalizeIntersection(scene *Scene) *Intersection {
	if !s.ready {
		return nil
	}
	if s.cands.best != nil {
		return s.cands.best
	}
	return voidIntersection(scene, s.origin, s.rotation, ScreenRayDetails{ScreenPoint: s.ndc})
}

// IntersectPointerCapture keeps the captured point at its original view-plane
// depth under the new screen position. For the void object only the screen
// point is updated.
func (s *ScreenRayIntersector) IntersectPointerCapture(c *PointerCapture, native NativeEvent) *Intersection {
	s.readRay(native)
	details, _ := c.Intersection.Details.(ScreenRayDetails)
	details.ScreenPoint = s.ndc
	if c.isVoid() {
		return c.capturedIntersection(s.origin, posInf, s.origin, s.rotation, details)
	}
	point := s.Camera.Unproject(s.ndc, details.DistanceViewPlane)
	return c.capturedIntersection(point, point.Sub(s.origin).Len(), s.origin, s.rotation, details)
}
