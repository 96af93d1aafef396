package xr

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNewScene(t *testing.T) {
	s := NewScene()
	if s.Root() == nil || s.Root().Name != "root" {
		t.Fatal("scene should have a root node")
	}
	if !s.Void().IsVoidObject() {
		t.Error("Void() should be the void object")
	}
	if s.Void().Parent != s.Root() {
		t.Error("void events should bubble to root")
	}
	if s.Root().NumChildren() != 0 {
		t.Error("void object should not be a child of root")
	}
	if s.DefaultPointerEvents != PointerEventsListener {
		t.Errorf("DefaultPointerEvents = %d, want listener", s.DefaultPointerEvents)
	}
}

func TestSceneSetDebugMode(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	if !s.debug || !globalDebug {
		t.Error("debug should be true")
	}
	s.SetDebugMode(false)
	if s.debug || globalDebug {
		t.Error("debug should be false")
	}
}

type recordingStore struct {
	events []InteractionEvent
}

func (r *recordingStore) EmitEvent(e InteractionEvent) {
	r.events = append(r.events, e)
}

func TestSceneEmitsToEntityStore(t *testing.T) {
	s := NewScene()
	store := &recordingStore{}
	s.SetEntityStore(store)

	box := NewMesh("box", NewHitBox(1, 1, 1))
	box.SetPosition(0, 0, -3)
	box.PointerEvents = PointerEventsAuto
	box.EntityID = 42
	s.Root().AddChild(box)

	p := NewPointer(s, PointerTypeRay, NewRayIntersector(StaticPose(mgl64.Vec3{}, mgl64.QuatIdent())), PointerOptions{})
	p.Move(NativeEvent{})
	p.Down(NativeEvent{Button: ButtonPrimary})

	if len(store.events) == 0 {
		t.Fatal("store received no events")
	}
	var sawDown bool
	for _, e := range store.events {
		if e.EntityID != 42 {
			t.Errorf("EntityID = %d, want 42", e.EntityID)
		}
		if e.Kind == EventPointerDown {
			sawDown = true
			assertNear(t, "distance", e.Distance, 2.5)
			assertVec3Near(t, "point", e.Point, mgl64.Vec3{0, 0, -2.5})
		}
	}
	if !sawDown {
		t.Error("pointerdown was not forwarded")
	}
}

func TestSceneEmitSkipsNodesWithoutEntity(t *testing.T) {
	s := NewScene()
	store := &recordingStore{}
	s.SetEntityStore(store)
	s.Root().AddEventListener(EventPointerMove, func(*PointerEvent) {})

	p := NewPointer(s, PointerTypeRay, NewRayIntersector(StaticPose(mgl64.Vec3{}, mgl64.QuatIdent())), PointerOptions{})
	p.Move(NativeEvent{})
	if i := p.GetIntersection(); i == nil || !math.IsInf(i.Distance, 1) {
		t.Fatalf("expected a void intersection, got %+v", i)
	}
	if len(store.events) != 0 {
		t.Errorf("store received %d events for the void object", len(store.events))
	}
}
