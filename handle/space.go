package handle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	xr "github.com/pmndrs/xr-sub001"
)

const epsilon = 1e-9

// PointerSample is the part of a pointer intersection the solver reads.
type PointerSample struct {
	// Point is the world point the pointer grabs.
	Point mgl64.Vec3
	// Origin and Quaternion are the pointer pose.
	Origin     mgl64.Vec3
	Quaternion mgl64.Quat
	// Direction is the pointer ray, valid when HasRay is set.
	Direction mgl64.Vec3
	HasRay    bool
}

// SampleFromIntersection extracts a sample. Ray and screen-ray hits carry
// their ray so constrained projections can follow it.
func SampleFromIntersection(i *xr.Intersection) PointerSample {
	s := PointerSample{
		Point:      i.Point,
		Origin:     i.PointerPosition,
		Quaternion: i.PointerQuaternion,
	}
	switch i.Details.(type) {
	case xr.RayDetails, xr.ScreenRayDetails:
		s.HasRay = true
		s.Direction = xr.NormalizeOr(i.Point.Sub(i.PointerPosition), i.PointerDirection())
	}
	return s
}

// space is the set of world directions pointer motion is projected onto.
type space struct {
	axes []mgl64.Vec3
}

// newSpace rotates the given local axes into world space by frame.
func newSpace(axes []Axis, frame mgl64.Quat) space {
	s := space{axes: make([]mgl64.Vec3, len(axes))}
	for i, a := range axes {
		s.axes[i] = frame.Rotate(a.Unit())
	}
	return s
}

// planeSpace spans the plane perpendicular to normal.
func planeSpace(normal mgl64.Vec3) space {
	n := xr.NormalizeOr(normal, xr.Up)
	ref := mgl64.Vec3{1, 0, 0}
	if math.Abs(n.Dot(ref)) > 0.9 {
		ref = mgl64.Vec3{0, 1, 0}
	}
	u := n.Cross(ref).Normalize()
	return space{axes: []mgl64.Vec3{u, n.Cross(u)}}
}

// project maps a sample into the space anchored at anchor: the anchor itself
// with no axes, a point on the axis line with one, a point on the plane with
// two, and the raw point with three. Ray samples intersect the constraint
// instead of projecting their point when the geometry allows.
func (s space) project(sample PointerSample, anchor mgl64.Vec3) mgl64.Vec3 {
	switch len(s.axes) {
	case 0:
		return anchor
	case 1:
		axis := s.axes[0]
		if sample.HasRay {
			if p, ok := closestPointOnLineToRay(anchor, axis, sample.Origin, sample.Direction); ok {
				return p
			}
		}
		return anchor.Add(axis.Mul(sample.Point.Sub(anchor).Dot(axis)))
	case 2:
		normal := xr.NormalizeOr(s.axes[0].Cross(s.axes[1]), xr.Up)
		if sample.HasRay {
			if t, ok := rayPlane(sample.Origin, sample.Direction, anchor, normal); ok {
				return sample.Origin.Add(sample.Direction.Mul(t))
			}
		}
		return sample.Point.Sub(normal.Mul(sample.Point.Sub(anchor).Dot(normal)))
	default:
		return sample.Point
	}
}

// closestPointOnLineToRay returns the point on the line anchor + axis*s
// closest to the ray. ok is false when they are parallel.
func closestPointOnLineToRay(anchor, axis, origin, dir mgl64.Vec3) (mgl64.Vec3, bool) {
	w0 := anchor.Sub(origin)
	a := axis.Dot(axis)
	b := axis.Dot(dir)
	c := dir.Dot(dir)
	d := axis.Dot(w0)
	e := dir.Dot(w0)
	denom := a*c - b*b
	if math.Abs(denom) < epsilon {
		return mgl64.Vec3{}, false
	}
	s := (b*e - c*d) / denom
	return anchor.Add(axis.Mul(s)), true
}

func rayPlane(origin, dir, planePoint, normal mgl64.Vec3) (float64, bool) {
	denom := normal.Dot(dir)
	if math.Abs(denom) < epsilon {
		return 0, false
	}
	t := planePoint.Sub(origin).Dot(normal) / denom
	return t, t >= 0
}

// signedAngle returns the angle from a to b around axis, both first
// projected onto the plane perpendicular to axis. Degenerate inputs give 0.
func signedAngle(a, b, axis mgl64.Vec3) float64 {
	n := xr.NormalizeOr(axis, xr.Up)
	a = a.Sub(n.Mul(a.Dot(n)))
	b = b.Sub(n.Mul(b.Dot(n)))
	if a.Len() < epsilon || b.Len() < epsilon {
		return 0
	}
	return math.Atan2(n.Dot(a.Cross(b)), a.Dot(b))
}

// rotationBetween returns the shortest rotation turning a onto b, or the
// identity when either vector is degenerate. Antiparallel vectors turn half
// way around an arbitrary perpendicular axis.
func rotationBetween(a, b mgl64.Vec3) mgl64.Quat {
	la, lb := a.Len(), b.Len()
	if la < epsilon || lb < epsilon {
		return mgl64.QuatIdent()
	}
	axis := a.Cross(b)
	angle := math.Atan2(axis.Len(), a.Dot(b))
	if axis.Len() < epsilon*la*lb {
		if a.Dot(b) > 0 {
			return mgl64.QuatIdent()
		}
		axis = planeSpace(a).axes[0]
	}
	return mgl64.QuatRotate(angle, axis.Normalize())
}
