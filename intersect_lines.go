package xr

import (
	"github.com/go-gl/mathgl/mgl64"
)

// LinesIntersector hit-tests along a polyline given in the pointer's local
// frame, such as a teleport arc.
type LinesIntersector struct {
	pose PoseFunc

	// Points are the polyline vertices in pointer-local space. At least two
	// are needed for any hit.
	Points []mgl64.Vec3
	Less   func(a, b *Intersection) bool

	ready    bool
	position mgl64.Vec3
	rotation mgl64.Quat
	world    []mgl64.Vec3
	// cumulative[i] is the polyline length up to world[i].
	cumulative []float64
	cands      candidates
}

// NewLinesIntersector returns a lines intersector over the given local points.
func NewLinesIntersector(pose PoseFunc, points []mgl64.Vec3) *LinesIntersector {
	if pose == nil {
		panic("xr: lines intersector needs a pose")
	}
	return &LinesIntersector{pose: pose, Points: points}
}

func (l *LinesIntersector) IsReady() bool {
	return l.ready
}

func (l *LinesIntersector) readPose() bool {
	pos, rot, ok := l.pose()
	l.ready = ok && len(l.Points) >= 2
	if !l.ready {
		return false
	}
	l.position = pos
	l.rotation = rot.Normalize()
	l.world = l.world[:0]
	l.cumulative = l.cumulative[:0]
	total := 0.0
	for i, p := range l.Points {
		wp := pos.Add(l.rotation.Rotate(p))
		if i > 0 {
			total += wp.Sub(l.world[i-1]).Len()
		}
		l.world = append(l.world, wp)
		l.cumulative = append(l.cumulative, total)
	}
	return true
}

func (l *LinesIntersector) StartIntersection(NativeEvent) {
	l.cands.less = l.Less
	l.cands.reset()
	l.readPose()
}

// ExecuteIntersection walks the segments in order and keeps the first one
// that hits node.
func (l *LinesIntersector) ExecuteIntersection(node *Node, order int) {
	if !l.ready {
		return
	}
	for i := 0; i+1 < len(l.world); i++ {
		start := l.world[i]
		seg := l.world[i+1].Sub(start)
		world, hit, ok := rayHit(node, start, seg)
		if !ok || hit.Param > 1 {
			continue
		}
		point := TransformPoint(world, hit.Point)
		onLine := l.cumulative[i] + point.Sub(start).Len()
		l.cands.offer(&Intersection{
			Object:             node,
			Distance:           onLine,
			Point:              point,
			LocalPoint:         hit.Point,
			Normal:             worldNormal(world, hit.Normal),
			HasNormal:          true,
			PointerPosition:    l.position,
			PointerQuaternion:  l.rotation,
			PointerEventsOrder: order,
			Details:            LinesDetails{DistanceOnLine: onLine, LineIndex: i},
		})
		return
	}
}

func (l *LinesIntersector) FinalizeIntersection(scene *Scene) *Intersection {
	if !l.ready {
		return nil
	}
	if l.cands.best != nil {
		return l.cands.best
	}
	return voidIntersection(scene, l.position, l.rotation, LinesDetails{LineIndex: -1})
}

// IntersectPointerCapture intersects the captured segment's line with the
// capture plane carried by the object.
func (l *LinesIntersector) IntersectPointerCapture(c *PointerCapture, _ NativeEvent) *Intersection {
	if !l.readPose() {
		return nil
	}
	details, _ := c.Intersection.Details.(LinesDetails)
	idx := details.LineIndex
	if idx < 0 || idx+1 >= len(l.world) {
		idx = 0
	}
	start := l.world[idx]
	dir := NormalizeOr(l.world[idx+1].Sub(start), Forward)
	point, dist := c.rayCapture(start, dir)
	if c.isVoid() {
		return c.capturedIntersection(l.position, posInf, l.position, l.rotation, nil)
	}
	onLine := l.cumulative[idx] + dist
	return c.capturedIntersection(point, onLine, l.position, l.rotation,
		LinesDetails{DistanceOnLine: onLine, LineIndex: idx})
}
