package xr

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Shape is hit-test geometry in a node's local space. The host engine may
// provide its own implementations (mesh BVHs, colliders); the built-in ones
// cover boxes, spheres and triangle soups.
type Shape interface {
	// IntersectRay returns the nearest hit of the ray origin + dir*t, t >= 0.
	// dir need not be normalized; Param is expressed in units of dir.
	IntersectRay(origin, dir mgl64.Vec3) (ShapeHit, bool)
	// ClosestPoint returns the surface point closest to p, the surface normal
	// there, and whether p lies inside the shape.
	ClosestPoint(p mgl64.Vec3) (point, normal mgl64.Vec3, inside bool)
}

// ShapeHit is a local-space ray hit.
type ShapeHit struct {
	Param  float64
	Point  mgl64.Vec3
	Normal mgl64.Vec3
}

// --- Built-in Shape types ---

// HitBox is an axis-aligned box in local coordinates.
type HitBox struct {
	Min, Max mgl64.Vec3
}

// NewHitBox returns a box of the given size centred on the local origin.
func NewHitBox(width, height, depth float64) HitBox {
	h := mgl64.Vec3{width / 2, height / 2, depth / 2}
	return HitBox{Min: h.Mul(-1), Max: h}
}

// Contains reports whether p lies inside or on the box.
func (b HitBox) Contains(p mgl64.Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// IntersectRay uses the slab method. A ray starting inside the box reports
// the exit face.
func (b HitBox) IntersectRay(origin, dir mgl64.Vec3) (ShapeHit, bool) {
	const eps = 1e-12
	tmin, tmax := negInf, posInf
	enterAxis, exitAxis := -1, -1
	var enterSign, exitSign float64
	for axis := 0; axis < 3; axis++ {
		if math.Abs(dir[axis]) < eps {
			if origin[axis] < b.Min[axis] || origin[axis] > b.Max[axis] {
				return ShapeHit{}, false
			}
			continue
		}
		t1 := (b.Min[axis] - origin[axis]) / dir[axis]
		t2 := (b.Max[axis] - origin[axis]) / dir[axis]
		sign := -1.0 // entering through the min face
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tmin {
			tmin, enterAxis, enterSign = t1, axis, sign
		}
		if t2 < tmax {
			tmax, exitAxis, exitSign = t2, axis, -sign
		}
		if tmin > tmax {
			return ShapeHit{}, false
		}
	}
	if tmax < 0 {
		return ShapeHit{}, false
	}
	t, axis, sign := tmin, enterAxis, enterSign
	if t < 0 {
		t, axis, sign = tmax, exitAxis, exitSign
	}
	var normal mgl64.Vec3
	if axis >= 0 {
		normal[axis] = sign
	}
	return ShapeHit{Param: t, Point: origin.Add(dir.Mul(t)), Normal: normal}, true
}

// ClosestPoint clamps p to the box; for interior points it projects onto the
// nearest face.
func (b HitBox) ClosestPoint(p mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3, bool) {
	if !b.Contains(p) {
		var c, n mgl64.Vec3
		for i := 0; i < 3; i++ {
			c[i] = mgl64.Clamp(p[i], b.Min[i], b.Max[i])
		}
		n = NormalizeOr(p.Sub(c), mgl64.Vec3{0, 1, 0})
		return c, n, false
	}
	best, bestAxis, bestSign := posInf, 1, 1.0
	for i := 0; i < 3; i++ {
		if d := p[i] - b.Min[i]; d < best {
			best, bestAxis, bestSign = d, i, -1
		}
		if d := b.Max[i] - p[i]; d < best {
			best, bestAxis, bestSign = d, i, 1
		}
	}
	c := p
	var n mgl64.Vec3
	if bestSign < 0 {
		c[bestAxis] = b.Min[bestAxis]
	} else {
		c[bestAxis] = b.Max[bestAxis]
	}
	n[bestAxis] = bestSign
	return c, n, true
}

// HitSphere is a sphere in local coordinates.
type HitSphere struct {
	Center mgl64.Vec3
	Radius float64
}

// IntersectRay solves the ray/sphere quadratic. A ray starting inside the
// sphere reports the exit point.
func (s HitSphere) IntersectRay(origin, dir mgl64.Vec3) (ShapeHit, bool) {
	oc := origin.Sub(s.Center)
	a := dir.Dot(dir)
	if a == 0 {
		return ShapeHit{}, false
	}
	halfB := oc.Dot(dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := halfB*halfB - a*c
	if disc < 0 {
		return ShapeHit{}, false
	}
	sq := math.Sqrt(disc)
	t := (-halfB - sq) / a
	if t < 0 {
		t = (-halfB + sq) / a
		if t < 0 {
			return ShapeHit{}, false
		}
	}
	p := origin.Add(dir.Mul(t))
	return ShapeHit{Param: t, Point: p, Normal: NormalizeOr(p.Sub(s.Center), mgl64.Vec3{0, 1, 0})}, true
}

// ClosestPoint projects p onto the sphere surface.
func (s HitSphere) ClosestPoint(p mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3, bool) {
	d := p.Sub(s.Center)
	n := NormalizeOr(d, mgl64.Vec3{0, 1, 0})
	return s.Center.Add(n.Mul(s.Radius)), n, d.Len() <= s.Radius
}

// Triangle is a single face in local coordinates, counter-clockwise front.
type Triangle struct {
	A, B, C mgl64.Vec3
}

func (tri Triangle) normal() mgl64.Vec3 {
	return NormalizeOr(tri.B.Sub(tri.A).Cross(tri.C.Sub(tri.A)), mgl64.Vec3{0, 0, 1})
}

// HitTriangles is an unindexed triangle soup (double sided).
type HitTriangles struct {
	Triangles []Triangle
}

// IntersectRay runs Möller–Trumbore against every triangle and keeps the nearest.
func (m HitTriangles) IntersectRay(origin, dir mgl64.Vec3) (ShapeHit, bool) {
	const eps = 1e-12
	best := ShapeHit{Param: posInf}
	found := false
	for _, tri := range m.Triangles {
		e1 := tri.B.Sub(tri.A)
		e2 := tri.C.Sub(tri.A)
		pvec := dir.Cross(e2)
		det := e1.Dot(pvec)
		if det > -eps && det < eps {
			continue
		}
		invDet := 1 / det
		tvec := origin.Sub(tri.A)
		u := tvec.Dot(pvec) * invDet
		if u < 0 || u > 1 {
			continue
		}
		qvec := tvec.Cross(e1)
		v := dir.Dot(qvec) * invDet
		if v < 0 || u+v > 1 {
			continue
		}
		t := e2.Dot(qvec) * invDet
		if t < 0 || t >= best.Param {
			continue
		}
		n := tri.normal()
		if n.Dot(dir) > 0 {
			n = n.Mul(-1)
		}
		best = ShapeHit{Param: t, Point: origin.Add(dir.Mul(t)), Normal: n}
		found = true
	}
	return best, found
}

// ClosestPoint returns the nearest point over all triangles. Triangle soups
// have no interior.
func (m HitTriangles) ClosestPoint(p mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3, bool) {
	bestDist := posInf
	var bestPoint, bestNormal mgl64.Vec3
	for _, tri := range m.Triangles {
		c := closestPointOnTriangle(p, tri)
		if d := c.Sub(p).LenSqr(); d < bestDist {
			bestDist, bestPoint = d, c
			bestNormal = tri.normal()
			if bestNormal.Dot(p.Sub(c)) < 0 {
				bestNormal = bestNormal.Mul(-1)
			}
		}
	}
	return bestPoint, bestNormal, false
}

// closestPointOnTriangle uses the Voronoi region walk from Ericson,
// Real-Time Collision Detection 5.1.5.
func closestPointOnTriangle(p mgl64.Vec3, tri Triangle) mgl64.Vec3 {
	a, b, c := tri.A, tri.B, tri.C
	ab, ac, ap := b.Sub(a), c.Sub(a), p.Sub(a)
	d1, d2 := ab.Dot(ap), ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}
	bp := p.Sub(b)
	d3, d4 := ab.Dot(bp), ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}
	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		return a.Add(ab.Mul(d1 / (d1 - d3)))
	}
	cp := p.Sub(c)
	d5, d6 := ab.Dot(cp), ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}
	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		return a.Add(ac.Mul(d2 / (d2 - d6)))
	}
	va := d3*d6 - d5*d4
	if va <= 0 && d4-d3 >= 0 && d5-d6 >= 0 {
		return b.Add(c.Sub(b).Mul((d4 - d3) / ((d4 - d3) + (d5 - d6))))
	}
	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w))
}
