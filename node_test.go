package xr

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// --- Constructor defaults ---

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode("test")
	if n.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if n.Name != "test" {
		t.Errorf("Name = %q, want %q", n.Name, "test")
	}
	if n.Scale != (mgl64.Vec3{1, 1, 1}) {
		t.Errorf("Scale = %v, want (1, 1, 1)", n.Scale)
	}
	if n.Rotation != mgl64.QuatIdent() {
		t.Errorf("Rotation = %v, want identity", n.Rotation)
	}
	if !n.Visible {
		t.Error("Visible should be true")
	}
	if n.PointerEvents != PointerEventsInherit {
		t.Errorf("PointerEvents = %d, want inherit", n.PointerEvents)
	}
	if !n.transformDirty {
		t.Error("transformDirty should be true")
	}
}

func TestUniqueIDs(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	if a.ID == b.ID {
		t.Errorf("IDs should differ, both = %d", a.ID)
	}
}

// --- Tree manipulation ---

func TestAddChildReparents(t *testing.T) {
	a, b := NewNode("a"), NewNode("b")
	child := NewNode("child")
	a.AddChild(child)
	b.AddChild(child)
	if child.Parent != b {
		t.Error("child should belong to b")
	}
	if a.NumChildren() != 0 || b.NumChildren() != 1 {
		t.Errorf("children: a=%d b=%d, want 0 and 1", a.NumChildren(), b.NumChildren())
	}
}

func TestAddChildCyclePanics(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	parent.AddChild(child)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for cycle")
		}
	}()
	child.AddChild(parent)
}

func TestAddChildAt(t *testing.T) {
	parent := NewNode("parent")
	a, b, c := NewNode("a"), NewNode("b"), NewNode("c")
	parent.AddChild(a)
	parent.AddChild(c)
	parent.AddChildAt(b, 1)
	got := parent.Children()
	if got[0] != a || got[1] != b || got[2] != c {
		t.Errorf("order = %s %s %s, want a b c", got[0].Name, got[1].Name, got[2].Name)
	}
}

func TestRemoveChildWrongParentPanics(t *testing.T) {
	a, b := NewNode("a"), NewNode("b")
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	a.RemoveChild(b)
}

func TestRemoveChildren(t *testing.T) {
	parent := NewNode("parent")
	kids := []*Node{NewNode("a"), NewNode("b")}
	for _, k := range kids {
		parent.AddChild(k)
	}
	parent.RemoveChildren()
	if parent.NumChildren() != 0 {
		t.Errorf("NumChildren = %d, want 0", parent.NumChildren())
	}
	for _, k := range kids {
		if k.Parent != nil {
			t.Errorf("%s still has a parent", k.Name)
		}
	}
}

func TestIsDescendantOf(t *testing.T) {
	root := NewNode("root")
	mid := NewNode("mid")
	leaf := NewNode("leaf")
	root.AddChild(mid)
	mid.AddChild(leaf)
	if !leaf.IsDescendantOf(root) || !leaf.IsDescendantOf(leaf) {
		t.Error("leaf should descend from root and itself")
	}
	if root.IsDescendantOf(leaf) {
		t.Error("root should not descend from leaf")
	}
	if leaf.Root() != root {
		t.Error("Root() should walk to the top")
	}
}

// --- Disposal ---

func TestDisposeRecursive(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	grandchild := NewNode("grandchild")
	parent.AddChild(child)
	child.AddChild(grandchild)
	child.AddEventListener(EventClick, func(*PointerEvent) {})

	child.Dispose()
	if !child.IsDisposed() || !grandchild.IsDisposed() {
		t.Error("subtree should be disposed")
	}
	if parent.NumChildren() != 0 {
		t.Error("disposed child should be detached")
	}
	if child.HasListeners(EventClick) {
		t.Error("dispose should drop listeners")
	}
	child.Dispose()
}

// --- Listeners ---

func TestListenerRemove(t *testing.T) {
	n := NewNode("n")
	h1 := n.AddEventListener(EventClick, func(*PointerEvent) {})
	h2 := n.AddEventListener(EventWheel, func(*PointerEvent) {})
	if !n.listensTo(FamilyPointer) || !n.listensTo(FamilyWheel) {
		t.Fatal("node should listen to both families")
	}
	h1.Remove()
	if n.listensTo(FamilyPointer) {
		t.Error("pointer family should be empty after removing click")
	}
	if !n.listensTo(FamilyWheel) {
		t.Error("wheel listener should remain")
	}
	h2.Remove()
	h2.Remove()
	if n.hasAnyListener() {
		t.Error("no listeners should remain")
	}
	CallbackHandle{}.Remove()
}

func TestAddNilListenerPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil listener")
		}
	}()
	NewNode("n").AddEventListener(EventClick, nil)
}
