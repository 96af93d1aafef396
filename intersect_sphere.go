package xr

import (
	"github.com/go-gl/mathgl/mgl64"
)

// SphereIntersector hit-tests a sphere centred on the pointer position. It
// backs grab and touch pointers.
type SphereIntersector struct {
	pose PoseFunc

	// Radius is the world-space reach of the sphere.
	Radius float64
	Less   func(a, b *Intersection) bool

	ready    bool
	center   mgl64.Vec3
	rotation mgl64.Quat
	cands    candidates
}

// NewSphereIntersector returns a sphere intersector of the given radius.
func NewSphereIntersector(pose PoseFunc, radius float64) *SphereIntersector {
	if pose == nil {
		panic("xr: sphere intersector needs a pose")
	}
	if radius < 0 {
		panic("xr: sphere radius must be non-negative")
	}
	return &SphereIntersector{pose: pose, Radius: radius}
}

func (s *SphereIntersector) IsReady() bool {
	return s.ready
}

func (s *SphereIntersector) readPose() bool {
	pos, rot, ok := s.pose()
	s.ready = ok
	if ok {
		s.center = pos
		s.rotation = rot.Normalize()
	}
	return ok
}

func (s *SphereIntersector) StartIntersection(NativeEvent) {
	s.cands.less = s.Less
	s.cands.reset()
	s.readPose()
}

// ExecuteIntersection finds the point of node's shape closest to the sphere
// centre. Distance is zero when the centre is inside the shape.
func (s *SphereIntersector) ExecuteIntersection(node *Node, order int) {
	if !s.ready || node.Shape == nil {
		return
	}
	world := node.WorldMatrix()
	inv := InvertMatrix(world)
	localPoint, localNormal, inside := node.Shape.ClosestPoint(TransformPoint(inv, s.center))
	point := TransformPoint(world, localPoint)
	faceDist := point.Sub(s.center).Len()
	dist := faceDist
	if inside {
		dist = 0
		faceDist = -faceDist
	}
	if dist > s.Radius {
		return
	}
	s.cands.offer(&Intersection{
		Object:             node,
		Distance:           dist,
		Point:              point,
		LocalPoint:         localPoint,
		Normal:             worldNormal(world, localNormal),
		HasNormal:          true,
		PointerPosition:    s.center,
		PointerQuaternion:  s.rotation,
		PointerEventsOrder: order,
		Details:            SphereDetails{DistanceToFace: faceDist, HasDistanceToFace: true},
	})
}

func (s *SphereIntersector) FinalizeIntersection(scene *Scene) *Intersection {
	if !s.ready {
		return nil
	}
	if s.cands.best != nil {
		return s.cands.best
	}
	return voidIntersection(scene, s.center, s.rotation, SphereDetails{})
}

// IntersectPointerCapture moves the captured point rigidly with the pointer
// pose.
func (s *SphereIntersector) IntersectPointerCapture(c *PointerCapture, _ NativeEvent) *Intersection {
	if !s.readPose() {
		return nil
	}
	if c.isVoid() {
		return c.capturedIntersection(s.center, posInf, s.center, s.rotation, nil)
	}
	point := s.center.Add(s.rotation.Rotate(c.pointerOffset))
	details := SphereDetails{}
	if c.Object.Shape != nil {
		world := c.Object.WorldMatrix()
		local := TransformPoint(InvertMatrix(world), s.center)
		face, _, inside := c.Object.Shape.ClosestPoint(local)
		d := TransformPoint(world, face).Sub(s.center).Len()
		if inside {
			d = -d
		}
		details = SphereDetails{DistanceToFace: d, HasDistanceToFace: true}
	}
	return c.capturedIntersection(point, point.Sub(s.center).Len(), s.center, s.rotation, details)
}
