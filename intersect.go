package xr

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// EventFamily selects which listeners make a node hit-testable in
// PointerEventsListener mode.
type EventFamily uint8

const (
	FamilyPointer EventFamily = iota // every kind except wheel
	FamilyWheel                      // wheel listeners only
)

func (n *Node) listensTo(family EventFamily) bool {
	if family == FamilyWheel {
		return n.HasListeners(EventWheel)
	}
	return n.listenerTotal-len(n.listeners[EventWheel]) > 0
}

// Intersector performs the hit tests of one pointer. A frame runs
// StartIntersection, then ExecuteIntersection for every candidate node, then
// FinalizeIntersection. Captured pointers call IntersectPointerCapture instead.
type Intersector interface {
	// IsReady reports whether the pointer has a pose this frame.
	IsReady() bool
	StartIntersection(native NativeEvent)
	ExecuteIntersection(node *Node, order int)
	// FinalizeIntersection returns the best hit, a void hit when nothing was
	// hit, or nil when the intersector is not ready.
	FinalizeIntersection(scene *Scene) *Intersection
	IntersectPointerCapture(capture *PointerCapture, native NativeEvent) *Intersection
}

// PoseFunc reports a pointer's world pose for the current frame.
type PoseFunc func() (position mgl64.Vec3, rotation mgl64.Quat, ok bool)

// StaticPose returns a PoseFunc that always reports the same pose.
func StaticPose(position mgl64.Vec3, rotation mgl64.Quat) PoseFunc {
	return func() (mgl64.Vec3, mgl64.Quat, bool) { return position, rotation, true }
}

// candidates keeps the best intersection seen during one frame.
type candidates struct {
	less func(a, b *Intersection) bool
	best *Intersection
}

func (c *candidates) reset() {
	c.best = nil
}

func (c *candidates) offer(i *Intersection) {
	less := c.less
	if less == nil {
		less = IntersectionLess
	}
	if c.best == nil || less(i, c.best) {
		c.best = i
	}
}

type traversalState struct {
	mode       PointerEventsMode
	typeFilter PointerEventsType
	order      int
	listening  bool
}

// IntersectPointerEventTargets runs one batched scene traversal shared by all
// pointers, then stores each pointer's finalized intersection. Pointers must
// have run StartIntersection for this frame.
func IntersectPointerEventTargets(family EventFamily, scene *Scene, pointers []*Pointer) {
	if len(pointers) == 0 {
		return
	}
	var t0 time.Time
	if scene.debug {
		t0 = time.Now()
	}
	visited := scene.intersectNode(scene.root, family, traversalState{mode: scene.DefaultPointerEvents}, pointers)
	for _, p := range pointers {
		p.intersection = p.intersector.FinalizeIntersection(scene)
	}
	if scene.debug {
		scene.debugLog(debugStats{
			intersectTime: time.Since(t0),
			nodesVisited:  visited,
			pointerCount:  len(pointers),
		})
	}
}

// intersectNode offers n to every pointer and recurses into its children.
// Invisible subtrees are skipped. Returns the number of nodes visited.
func (s *Scene) intersectNode(n *Node, family EventFamily, inherited traversalState, pointers []*Pointer) int {
	if !n.Visible {
		return 0
	}
	state := inherited
	if n.PointerEvents != PointerEventsInherit {
		state.mode = n.PointerEvents
	}
	if !n.PointerEventsType.isZero() {
		state.typeFilter = n.PointerEventsType
	}
	if n.PointerEventsOrder != 0 {
		state.order = n.PointerEventsOrder
	}
	state.listening = state.listening || n.listensTo(family)

	hittable := n.Shape != nil &&
		(state.mode == PointerEventsAuto || (state.mode == PointerEventsListener && state.listening))
	if hittable {
		for _, p := range pointers {
			if state.typeFilter.accepts(p.Type) {
				p.intersector.ExecuteIntersection(n, state.order)
			}
		}
	}
	visited := 1
	for _, child := range n.children {
		visited += s.intersectNode(child, family, state, pointers)
	}
	return visited
}

// rayHit converts a local-space shape hit into a world-space intersection.
// Returns false when the node has no shape or the ray misses.
func rayHit(node *Node, origin, dir mgl64.Vec3) (world mgl64.Mat4, hit ShapeHit, ok bool) {
	if node.Shape == nil {
		return world, hit, false
	}
	world = node.WorldMatrix()
	inv := InvertMatrix(world)
	hit, ok = node.Shape.IntersectRay(TransformPoint(inv, origin), TransformDirection(inv, dir))
	return world, hit, ok
}

// worldNormal maps a local normal to world space.
func worldNormal(world mgl64.Mat4, n mgl64.Vec3) mgl64.Vec3 {
	return NormalizeOr(TransformDirection(InvertMatrix(world).Transpose(), n), n)
}
