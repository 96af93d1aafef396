package xr

import (
	"github.com/go-gl/mathgl/mgl64"
)

// IntersectionDetails is the intersector-specific part of an Intersection.
// It is one of RayDetails, SphereDetails, LinesDetails or ScreenRayDetails.
type IntersectionDetails interface {
	detailsKind() string
}

// RayDetails marks an intersection produced by a RayIntersector.
type RayDetails struct{}

// SphereDetails marks an intersection produced by a SphereIntersector.
// DistanceToFace is negative while the sphere centre is inside the object.
type SphereDetails struct {
	DistanceToFace    float64
	HasDistanceToFace bool
}

// LinesDetails marks an intersection produced by a LinesIntersector.
type LinesDetails struct {
	// DistanceOnLine is the distance travelled along the polyline up to the hit.
	DistanceOnLine float64
	LineIndex      int
}

// ScreenRayDetails marks an intersection produced by a ScreenRayIntersector.
type ScreenRayDetails struct {
	// ScreenPoint is the pointer position in normalized device coordinates.
	ScreenPoint mgl64.Vec2
	// DistanceViewPlane is the hit depth measured along the camera's forward axis.
	DistanceViewPlane float64
}

func (RayDetails) detailsKind() string       { return "ray" }
func (SphereDetails) detailsKind() string    { return "sphere" }
func (LinesDetails) detailsKind() string     { return "lines" }
func (ScreenRayDetails) detailsKind() string { return "screen-ray" }

// Intersection is the result of a hit test.
type Intersection struct {
	Object *Node
	// Distance is in the units of the intersector that produced it and only
	// comparable within that intersector family.
	Distance   float64
	Point      mgl64.Vec3
	LocalPoint mgl64.Vec3
	Normal     mgl64.Vec3
	HasNormal  bool
	// Pointer pose at hit time.
	PointerPosition   mgl64.Vec3
	PointerQuaternion mgl64.Quat
	// PointerEventsOrder of the hit object, used by the default ordering.
	PointerEventsOrder int
	Details            IntersectionDetails
}

// IsVoid reports whether the intersection targets a scene's void object.
func (i *Intersection) IsVoid() bool {
	return i != nil && i.Object != nil && i.Object.isVoid
}

// PointerDirection returns the pointer's forward direction at hit time.
func (i *Intersection) PointerDirection() mgl64.Vec3 {
	return i.PointerQuaternion.Rotate(Forward)
}

// IntersectionLess is the default ordering: higher PointerEventsOrder first,
// then smaller distance.
func IntersectionLess(a, b *Intersection) bool {
	if a.PointerEventsOrder != b.PointerEventsOrder {
		return a.PointerEventsOrder > b.PointerEventsOrder
	}
	return a.Distance < b.Distance
}

// voidIntersection builds the synthetic hit used when nothing was hit.
func voidIntersection(scene *Scene, pointerPosition mgl64.Vec3, pointerQuaternion mgl64.Quat, details IntersectionDetails) *Intersection {
	return &Intersection{
		Object:            scene.void,
		Distance:          posInf,
		Point:             pointerPosition,
		PointerPosition:   pointerPosition,
		PointerQuaternion: pointerQuaternion,
		Details:           details,
	}
}

// PointerCapture binds a pointer to a target node, together with the
// intersection active when capture was established.
type PointerCapture struct {
	Object       *Node
	Intersection *Intersection

	frame captureFrame
	// pointerOffset is the captured point in the pointer's local frame.
	pointerOffset mgl64.Vec3
}

func newPointerCapture(obj *Node, i *Intersection) *PointerCapture {
	c := &PointerCapture{Object: obj, Intersection: i}
	if i == nil {
		return c
	}
	if !i.IsVoid() {
		c.frame = captureFrameOf(obj, i)
	}
	c.pointerOffset = i.PointerQuaternion.Inverse().Rotate(i.Point.Sub(i.PointerPosition))
	return c
}

// isVoid reports whether the capture was taken over empty space, either on
// the void object itself or on an ancestor it bubbled to.
func (c *PointerCapture) isVoid() bool {
	return c.Object.isVoid || c.Intersection.IsVoid()
}

// capturedIntersection copies the captured intersection with the fields that
// change per frame replaced. Its object is the capturing node.
func (c *PointerCapture) capturedIntersection(point mgl64.Vec3, distance float64, pos mgl64.Vec3, quat mgl64.Quat, details IntersectionDetails) *Intersection {
	i := *c.Intersection
	i.Object = c.Object
	i.Point = point
	i.Distance = distance
	i.PointerPosition = pos
	i.PointerQuaternion = quat
	if details != nil {
		i.Details = details
	}
	if !c.isVoid() {
		i.LocalPoint = c.Object.WorldToLocal(point)
		if i.HasNormal {
			_, n := c.frame.worldPlane(c.Object)
			i.Normal = n
		}
	}
	return &i
}

// rayCapture recomputes a captured ray hit: the ray meets the capture plane
// carried by the object, falling back to the captured distance along the ray.
func (c *PointerCapture) rayCapture(origin, dir mgl64.Vec3) (mgl64.Vec3, float64) {
	if c.isVoid() {
		return origin, posInf
	}
	planePoint, planeNormal := c.frame.worldPlane(c.Object)
	if t, ok := intersectRayPlane(origin, dir, planePoint, planeNormal); ok {
		return origin.Add(dir.Mul(t)), t
	}
	d := c.Intersection.Distance
	return origin.Add(dir.Mul(d)), d
}

// captureFrame stores the captured hit in the object's local space so it
// follows the object when it moves.
type captureFrame struct {
	localPoint  mgl64.Vec3
	localNormal mgl64.Vec3
}

// captureFrameOf derives the local capture plane of an intersection. The plane
// normal is the face normal when present, else the reversed pointer direction.
func captureFrameOf(obj *Node, i *Intersection) captureFrame {
	world := obj.WorldMatrix()
	inv := InvertMatrix(world)
	normal := i.Normal
	if !i.HasNormal {
		normal = i.PointerDirection().Mul(-1)
	}
	// World normals map back to local space through the transpose.
	return captureFrame{
		localPoint:  TransformPoint(inv, i.Point),
		localNormal: NormalizeOr(TransformDirection(world.Transpose(), normal), normal),
	}
}

// worldPlane returns the capture plane (point, normal) in world space.
func (f captureFrame) worldPlane(obj *Node) (mgl64.Vec3, mgl64.Vec3) {
	world := obj.WorldMatrix()
	normalMatrix := InvertMatrix(world).Transpose()
	return TransformPoint(world, f.localPoint),
		NormalizeOr(TransformDirection(normalMatrix, f.localNormal), mgl64.Vec3{0, 0, 1})
}

// intersectRayPlane returns the ray parameter where origin + dir*t meets the plane.
func intersectRayPlane(origin, dir, planePoint, planeNormal mgl64.Vec3) (float64, bool) {
	denom := planeNormal.Dot(dir)
	if denom > -1e-9 && denom < 1e-9 {
		return 0, false
	}
	t := planePoint.Sub(origin).Dot(planeNormal) / denom
	if t < 0 {
		return 0, false
	}
	return t, true
}
