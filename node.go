package xr

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
)

// nodeIDCounter hands out node IDs. Nodes may be built on a loader goroutine
// before being attached, so the counter is atomic.
var nodeIDCounter atomic.Uint32

func nextNodeID() uint32 {
	return nodeIDCounter.Add(1)
}

// Listener receives a pointer event retargeted to the node it is registered on.
type Listener func(e *PointerEvent)

type listenerEntry struct {
	id uint32
	fn Listener
}

// CallbackHandle allows removing a registered listener.
type CallbackHandle struct {
	id   uint32
	node *Node
	kind EventKind
}

// Remove unregisters the listener so it no longer fires. Removing twice is a no-op.
func (h CallbackHandle) Remove() {
	if h.node == nil {
		return
	}
	h.node.removeListener(h.kind, h.id)
}

// Node is the scene graph element the pointer core hit-tests and dispatches
// events on. Parent is a non-owning back-reference used for upward traversal
// (bubbling and world matrix composition); children are owned by their parent.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local, relative to Parent)
	Position      mgl64.Vec3
	Rotation      mgl64.Quat
	Scale         mgl64.Vec3
	RotationOrder EulerOrder

	// Computed
	worldMatrix    mgl64.Mat4
	transformDirty bool

	// Visibility & interaction
	Visible            bool
	PointerEvents      PointerEventsMode
	PointerEventsType  PointerEventsType
	PointerEventsOrder int

	// Hit testing geometry in local space. Nodes without a Shape are never hit
	// but still take part in bubbling.
	Shape Shape

	// Metadata
	UserData any
	EntityID uint32

	listeners      [eventKindCount][]listenerEntry
	nextListenerID uint32
	listenerTotal  int

	isVoid   bool
	disposed bool
}

// NewNode creates a node with identity transform.
func NewNode(name string) *Node {
	return &Node{
		ID:             nextNodeID(),
		Name:           name,
		Rotation:       mgl64.QuatIdent(),
		Scale:          mgl64.Vec3{1, 1, 1},
		RotationOrder:  EulerXYZ,
		worldMatrix:    mgl64.Ident4(),
		transformDirty: true,
		Visible:        true,
	}
}

// NewMesh creates a hit-testable node with the given local shape.
func NewMesh(name string, shape Shape) *Node {
	n := NewNode(name)
	n.Shape = shape
	return n
}

// IsVoidObject reports whether n is a scene's synthetic "nothing was hit" target.
func (n *Node) IsVoidObject() bool {
	return n.isVoid
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("xr: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("xr: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	if child == nil {
		panic("xr: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("xr: adding child would create a cycle")
	}
	if index < 0 || index > len(n.children) {
		panic("xr: child index out of range")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
		if index > len(n.children) {
			index = len(n.children)
		}
	}
	child.Parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	markSubtreeDirty(child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("xr: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed.
func (n *Node) RemoveChildren() {
	for _, child := range n.children {
		child.Parent = nil
		markSubtreeDirty(child)
	}
	clear(n.children)
	n.children = n.children[:0]
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Root returns the topmost ancestor of n (n itself when it has no parent).
func (n *Node) Root() *Node {
	r := n
	for r.Parent != nil {
		r = r.Parent
	}
	return r
}

// IsDescendantOf reports whether ancestor is n or one of n's ancestors.
func (n *Node) IsDescendantOf(ancestor *Node) bool {
	return isAncestor(ancestor, n)
}

// --- Listeners ---

// AddEventListener registers fn for events of the given kind dispatched to n,
// either directly or bubbling up from a descendant.
func (n *Node) AddEventListener(kind EventKind, fn Listener) CallbackHandle {
	if fn == nil {
		panic("xr: cannot add nil listener")
	}
	n.nextListenerID++
	id := n.nextListenerID
	n.listeners[kind] = append(n.listeners[kind], listenerEntry{id: id, fn: fn})
	n.listenerTotal++
	return CallbackHandle{id: id, node: n, kind: kind}
}

// HasListeners reports whether n has at least one listener for kind.
func (n *Node) HasListeners(kind EventKind) bool {
	return len(n.listeners[kind]) > 0
}

// hasAnyListener reports whether n listens to any event kind.
func (n *Node) hasAnyListener() bool {
	return n.listenerTotal > 0
}

// removeListener deletes the entry from the slice to avoid nil iteration waste.
func (n *Node) removeListener(kind EventKind, id uint32) {
	s := n.listeners[kind]
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = listenerEntry{}
			n.listeners[kind] = s[:len(s)-1]
			n.listenerTotal--
			return
		}
	}
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Shape = nil
	n.UserData = nil
	n.listeners = [eventKindCount][]listenerEntry{}
	n.listenerTotal = 0
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
// A dirty node always has dirty descendants, so an already dirty node ends
// the walk.
func markSubtreeDirty(node *Node) {
	if node.transformDirty {
		return
	}
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
