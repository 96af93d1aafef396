package xr

import (
	"github.com/go-gl/mathgl/mgl64"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, dispatched pointer events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries pointer event data for the ECS bridge. It is sent
// once per dispatched event, for the target node, when the target has a
// non-zero EntityID.
type InteractionEvent struct {
	Kind        EventKind
	EntityID    uint32
	PointerID   int
	PointerType PointerType
	Button      int
	Point       mgl64.Vec3
	LocalPoint  mgl64.Vec3
	Distance    float64
	// Wheel deltas (valid for EventWheel)
	DeltaX, DeltaY, DeltaZ float64
}

// Scene owns the node tree that pointers hit-test, plus the void object
// targeted when nothing is hit.
type Scene struct {
	root  *Node
	void  *Node
	store EntityStore
	debug bool

	// DefaultPointerEvents is the mode nodes resolve to when they and all
	// their ancestors inherit.
	DefaultPointerEvents PointerEventsMode
}

// NewScene creates a new scene with a pre-created root node.
func NewScene() *Scene {
	root := NewNode("root")
	void := NewNode("void")
	void.isVoid = true
	// The void object is not a child of root, but events on it bubble to root.
	void.Parent = root
	return &Scene{
		root:                 root,
		void:                 void,
		DefaultPointerEvents: PointerEventsListener,
	}
}

// Root returns the scene's root node.
func (s *Scene) Root() *Node {
	return s.root
}

// Void returns the node targeted by intersections that hit nothing.
func (s *Scene) Void() *Node {
	return s.void
}

// UpdateWorldMatrices refreshes every dirty world matrix in the tree.
func (s *Scene) UpdateWorldMatrices() {
	updateWorldMatrices(s.root)
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are logged, and
// per-frame intersection stats are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene; multiple Scenes with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool

// emit forwards a dispatched event to the entity store.
func (s *Scene) emit(e *PointerEvent) {
	if s == nil || s.store == nil || e.Target == nil || e.Target.EntityID == 0 {
		return
	}
	ev := InteractionEvent{
		Kind:        e.Kind,
		EntityID:    e.Target.EntityID,
		PointerID:   e.PointerID,
		PointerType: e.PointerType,
		Button:      e.Button,
		DeltaX:      e.DeltaX,
		DeltaY:      e.DeltaY,
		DeltaZ:      e.DeltaZ,
	}
	if e.Intersection != nil {
		ev.Point = e.Intersection.Point
		ev.LocalPoint = e.Intersection.LocalPoint
		ev.Distance = e.Intersection.Distance
	}
	s.store.EmitEvent(ev)
}
