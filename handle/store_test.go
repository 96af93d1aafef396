package handle

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	xr "github.com/pmndrs/xr-sub001"
)

// handleRig is a box at (0,0,-5) and a ray pointer at the origin whose
// position the test moves.
type handleRig struct {
	scene   *xr.Scene
	box     *xr.Node
	origin  mgl64.Vec3
	pointer *xr.Pointer
}

func newHandleRig(t *testing.T) *handleRig {
	t.Helper()
	r := &handleRig{scene: xr.NewScene()}
	r.box = xr.NewMesh("box", xr.NewHitBox(1, 1, 1))
	r.box.SetPosition(0, 0, -5)
	r.scene.Root().AddChild(r.box)
	r.pointer = r.newPointer(&r.origin)
	return r
}

func (r *handleRig) newPointer(origin *mgl64.Vec3) *xr.Pointer {
	pose := func() (mgl64.Vec3, mgl64.Quat, bool) { return *origin, mgl64.QuatIdent(), true }
	return xr.NewPointer(r.scene, xr.PointerTypeRay, xr.NewRayIntersector(pose), xr.PointerOptions{})
}

func TestHandleStoreTranslateOnlyX(t *testing.T) {
	r := newHandleRig(t)
	opts := DefaultHandleOptions()
	opts.Translate = Only(AxisX)
	store := NewHandleStore(r.box, opts)
	store.Bind(r.box)

	r.pointer.Move(xr.NativeEvent{})
	r.pointer.Down(xr.NativeEvent{})
	if store.GetState() == nil {
		t.Fatal("pointer down should open a session")
	}
	if c := r.pointer.GetPointerCapture(); c == nil || c.Object != r.box {
		t.Fatal("pointer should be captured by the handle")
	}

	r.origin = mgl64.Vec3{1, 0.5, 0}
	r.pointer.Move(xr.NativeEvent{})
	store.Update(16 * time.Millisecond)

	pos := r.box.Position
	assertNear(t, "x", pos[0], 1)
	if pos[1] != 0 || pos[2] != -5 {
		t.Errorf("locked axes moved: %v", pos)
	}
	state := store.GetState()
	if state == nil || state.Delta() == nil {
		t.Fatal("update should record a delta")
	}
	assertNear(t, "delta x", state.Delta().Position()[0], 1)

	r.pointer.Up(xr.NativeEvent{})
	if store.GetState() != nil {
		t.Error("session should end on the last pointer up")
	}
	if r.pointer.GetPointerCapture() != nil {
		t.Error("capture should be released on up")
	}
}

func TestHandleStoreCancelRestores(t *testing.T) {
	r := newHandleRig(t)
	store := NewHandleStore(r.box, DefaultHandleOptions())
	store.Bind(r.box)

	r.pointer.Move(xr.NativeEvent{})
	r.pointer.Down(xr.NativeEvent{})
	r.origin = mgl64.Vec3{0.25, 0.25, 0}
	r.pointer.Move(xr.NativeEvent{})
	store.Update(time.Millisecond)
	if r.box.Position == (mgl64.Vec3{0, 0, -5}) {
		t.Fatal("box should have moved before cancel")
	}

	store.GetState().Cancel()
	if r.box.Position != (mgl64.Vec3{0, 0, -5}) {
		t.Errorf("position after cancel = %v, want initial", r.box.Position)
	}
	if store.GetState() != nil {
		t.Error("cancel should close the session")
	}
	if r.pointer.GetPointerCapture() != nil {
		t.Error("cancel should release the capture")
	}
}

func TestHandleStoreWithoutMultitouch(t *testing.T) {
	r := newHandleRig(t)
	opts := DefaultHandleOptions()
	opts.Multitouch = false
	store := NewHandleStore(r.box, opts)
	store.Bind(r.box)

	second := mgl64.Vec3{0.1, 0, 0}
	other := r.newPointer(&second)
	r.pointer.Move(xr.NativeEvent{})
	other.Move(xr.NativeEvent{})
	r.pointer.Down(xr.NativeEvent{})
	other.Down(xr.NativeEvent{})

	if r.pointer.GetPointerCapture() == nil {
		t.Error("first pointer should be captured")
	}
	if other.GetPointerCapture() != nil {
		t.Error("second pointer should be ignored without multitouch")
	}
	if n := store.GetState().Current.PointerAmount; n != 1 {
		t.Errorf("PointerAmount = %d, want 1", n)
	}
}

func TestHandleStoreStopsPropagation(t *testing.T) {
	r := newHandleRig(t)
	store := NewHandleStore(r.box, DefaultHandleOptions())
	store.Bind(r.box)

	var rootDowns int
	r.scene.Root().AddEventListener(xr.EventPointerDown, func(*xr.PointerEvent) { rootDowns++ })

	r.pointer.Move(xr.NativeEvent{})
	r.pointer.Down(xr.NativeEvent{})
	if rootDowns != 0 {
		t.Errorf("root saw %d pointerdown events, want 0", rootDowns)
	}
}

func TestHandleStoreCustomApply(t *testing.T) {
	r := newHandleRig(t)
	opts := DefaultHandleOptions()
	var applied int
	opts.Apply = func(state *HandleState, target *xr.Node) any {
		applied++
		return state.Current.Position()
	}
	store := NewHandleStore(r.box, opts)
	unbind := store.Bind(r.box)

	r.pointer.Move(xr.NativeEvent{})
	r.pointer.Down(xr.NativeEvent{})
	r.origin = mgl64.Vec3{0.5, 0, 0}
	r.pointer.Move(xr.NativeEvent{})
	store.Update(time.Millisecond)

	if applied != 1 {
		t.Fatalf("apply called %d times, want 1", applied)
	}
	if r.box.Position != (mgl64.Vec3{0, 0, -5}) {
		t.Error("custom apply should replace the default transform write")
	}
	memo, ok := store.GetState().Memo.(mgl64.Vec3)
	if !ok {
		t.Fatal("memo should hold the apply result")
	}
	assertNear(t, "memo x", memo[0], 0.5)

	store.Update(2 * time.Millisecond)
	if applied != 1 {
		t.Error("update without movement should not apply")
	}
	unbind()
	if r.box.HasListeners(xr.EventPointerDown) {
		t.Error("unbind should remove the listeners")
	}
}

func TestHandleStoreRangeHoldsAcrossSecondPointer(t *testing.T) {
	r := newHandleRig(t)
	opts := DefaultHandleOptions()
	opts.Translate = PerAxis(Ranged(-1, 1), Locked(), Locked())
	opts.Rotate = Disabled()
	opts.Scale = Disabled()
	store := NewHandleStore(r.box, opts)
	store.Bind(r.box)

	r.pointer.Move(xr.NativeEvent{})
	r.pointer.Down(xr.NativeEvent{})
	r.origin = mgl64.Vec3{3, 0, 0}
	r.pointer.Move(xr.NativeEvent{})
	store.Update(time.Millisecond)
	assertNear(t, "x after first drag", r.box.Position[0], 1)

	second := mgl64.Vec3{1, 0, 0}
	other := r.newPointer(&second)
	other.Move(xr.NativeEvent{})
	other.Down(xr.NativeEvent{})
	if c := other.GetPointerCapture(); c == nil || c.Object != r.box {
		t.Fatal("second pointer should join the session")
	}
	store.Update(2 * time.Millisecond)
	if n := store.GetState().Current.PointerAmount; n != 2 {
		t.Errorf("PointerAmount = %d, want 2", n)
	}
	other.Up(xr.NativeEvent{})
	assertNear(t, "x after second pointer", r.box.Position[0], 1)

	r.origin = mgl64.Vec3{8, 0, 0}
	r.pointer.Move(xr.NativeEvent{})
	store.Update(3 * time.Millisecond)
	pos := r.box.Position
	assertNear(t, "x after rebase", pos[0], 1)
	if pos[1] != 0 || pos[2] != -5 {
		t.Errorf("locked axes moved: %v", pos)
	}
	assertNear(t, "offset x", store.GetState().Offset().Position()[0], 1)

	r.origin = mgl64.Vec3{-1, 0, 0}
	r.pointer.Move(xr.NativeEvent{})
	store.Update(4 * time.Millisecond)
	assertNear(t, "x at lower bound", r.box.Position[0], -1)
}
