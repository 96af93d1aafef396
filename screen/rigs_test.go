package screen

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	xr "github.com/pmndrs/xr-sub001"
)

// rigScene is an empty scene viewed by an 800x600 camera at distance 10,
// with orbit handles bound on the root.
type rigScene struct {
	scene   *xr.Scene
	camera  *xr.Camera
	store   *CameraStore
	handles *OrbitHandles
}

func newRigScene(opts OrbitHandlesOptions) *rigScene {
	scene := xr.NewScene()
	cam := xr.NewCamera(xr.Rect{Width: 800, Height: 600})
	store := NewCameraStore(cam, CameraState{Distance: 10})
	h := NewOrbitHandles(store, opts)
	h.Bind(scene.Root())
	return &rigScene{scene: scene, camera: cam, store: store, handles: h}
}

func (r *rigScene) newPointer(typ xr.PointerType) *xr.Pointer {
	return xr.NewPointer(r.scene, typ, xr.NewScreenRayIntersector(r.camera), xr.PointerOptions{})
}

func moveTo(p *xr.Pointer, x, y float64) {
	p.Move(xr.NativeEvent{ScreenX: x, ScreenY: y})
}

func press(p *xr.Pointer, button int, x, y float64) {
	moveTo(p, x, y)
	p.Down(xr.NativeEvent{Button: button, ScreenX: x, ScreenY: y})
}

func release(p *xr.Pointer, button int) {
	p.Up(xr.NativeEvent{Button: button})
}

// --- Orbit ---

func TestOrbitRigRotates(t *testing.T) {
	r := newRigScene(OrbitHandlesOptions{})
	mouse := r.newPointer(xr.PointerTypeMouse)
	press(mouse, xr.ButtonPrimary, 0, 0)
	moveTo(mouse, 0.5, 0.25)
	r.handles.Update(0)

	s := r.store.State()
	assertNear(t, "yaw", s.RotationY, -0.5*math.Pi, 1e-9)
	assertNear(t, "pitch", s.RotationX, 0.25*math.Pi, 1e-9)
	assertNear(t, "distance", s.Distance, 10, testEpsilon)
	assertVec3Near(t, "camera", r.camera.Position, s.Position(), 1e-9)

	release(mouse, xr.ButtonPrimary)
	moveTo(mouse, -0.5, 0)
	r.handles.Update(0)
	assertNear(t, "yaw after release", r.store.State().RotationY, -0.5*math.Pi, 1e-9)
}

func TestOrbitRigClampsPitch(t *testing.T) {
	r := newRigScene(OrbitHandlesOptions{})
	mouse := r.newPointer(xr.PointerTypeMouse)
	press(mouse, xr.ButtonPrimary, 0, -0.5)
	moveTo(mouse, 0, 0.5)
	r.handles.Update(0)
	assertNear(t, "pitch", r.store.State().RotationX, math.Pi/2, testEpsilon)
}

func TestOrbitRigCustomApply(t *testing.T) {
	var updates []CameraState
	r := newRigScene(OrbitHandlesOptions{
		Rotate: RigOptions{
			Speed: 2,
			Apply: func(update CameraState, store *CameraStore) {
				updates = append(updates, update)
				store.SetState(update)
			},
		},
	})
	mouse := r.newPointer(xr.PointerTypeMouse)
	press(mouse, xr.ButtonPrimary, 0, 0)
	moveTo(mouse, 0, 0.5)
	r.handles.Update(0)
	if len(updates) != 1 {
		t.Fatalf("apply ran %d times, want 1", len(updates))
	}
	// Unclamped: speed 2 turns half the screen into a full turn.
	assertNear(t, "pitch", r.store.State().RotationX, math.Pi, 1e-9)

	r.handles.Update(0)
	if len(updates) != 1 {
		t.Errorf("apply ran again without movement")
	}
}

func TestOrbitRigIgnoresSecondaryButton(t *testing.T) {
	r := newRigScene(OrbitHandlesOptions{})
	mouse := r.newPointer(xr.PointerTypeMouse)
	press(mouse, xr.ButtonSecondary, 0, 0)
	moveTo(mouse, 0.5, 0)
	r.handles.Update(0)
	if r.store.State().RotationY != 0 {
		t.Errorf("secondary drag rotated the camera")
	}
}

func TestDisabledRig(t *testing.T) {
	r := newRigScene(OrbitHandlesOptions{Rotate: RigOptions{Disabled: true}})
	mouse := r.newPointer(xr.PointerTypeMouse)
	press(mouse, xr.ButtonPrimary, 0, 0)
	moveTo(mouse, 0.5, 0)
	r.handles.Update(0)
	if r.store.State().RotationY != 0 {
		t.Errorf("disabled rig rotated the camera")
	}
}

// --- Pan ---

func TestPanRigKeepsPointUnderPointer(t *testing.T) {
	r := newRigScene(OrbitHandlesOptions{})
	mouse := r.newPointer(xr.PointerTypeMouse)
	press(mouse, xr.ButtonSecondary, 0, 0)
	moveTo(mouse, 0.5, -0.25)
	r.handles.Update(0)

	h := 10 * math.Tan(r.camera.FOV/2)
	want := mgl64.Vec3{-0.5 * h * r.camera.Aspect(), 0.25 * h, 0}
	assertVec3Near(t, "origin", r.store.State().Origin, want, 1e-9)

	ndc, ok := r.camera.WorldToNDC(mgl64.Vec3{})
	if !ok {
		t.Fatal("old origin went behind the camera")
	}
	assertNear(t, "ndc x", ndc[0], 0.5, 1e-9)
	assertNear(t, "ndc y", ndc[1], -0.25, 1e-9)
}

func TestPanRigFollowsRotation(t *testing.T) {
	r := newRigScene(OrbitHandlesOptions{})
	r.store.SetState(CameraState{Distance: 10, RotationY: math.Pi / 2, RotationX: -0.3})
	mouse := r.newPointer(xr.PointerTypeMouse)
	press(mouse, xr.ButtonSecondary, 0.1, 0.1)
	moveTo(mouse, -0.3, 0.4)
	r.handles.Update(0)

	ndc, _ := r.camera.WorldToNDC(mgl64.Vec3{})
	assertNear(t, "ndc x", ndc[0], -0.4, 1e-9)
	assertNear(t, "ndc y", ndc[1], 0.3, 1e-9)
}

// --- Pinch ---

func TestPinchScaleExact(t *testing.T) {
	tests := []struct {
		name                   string
		from0, from1, to0, to1 mgl64.Vec2
		wantDistance           float64
	}{
		{"spread horizontal", mgl64.Vec2{-0.2, 0}, mgl64.Vec2{0.2, 0}, mgl64.Vec2{-0.4, 0}, mgl64.Vec2{0.4, 0}, 5},
		{"pinch vertical", mgl64.Vec2{0, -0.2}, mgl64.Vec2{0, 0.2}, mgl64.Vec2{0, -0.1}, mgl64.Vec2{0, 0.1}, 20},
		{"spread one finger", mgl64.Vec2{0, 0}, mgl64.Vec2{0.3, 0}, mgl64.Vec2{0, 0}, mgl64.Vec2{0.9, 0}, 10.0 / 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRigScene(OrbitHandlesOptions{})
			a := r.newPointer(xr.PointerTypeScreenTouch)
			b := r.newPointer(xr.PointerTypeScreenTouch)
			press(a, xr.ButtonPrimary, tt.from0[0], tt.from0[1])
			press(b, xr.ButtonPrimary, tt.from1[0], tt.from1[1])
			moveTo(a, tt.to0[0], tt.to0[1])
			moveTo(b, tt.to1[0], tt.to1[1])
			r.handles.Update(0)
			assertNear(t, "distance", r.store.State().Distance, tt.wantDistance, 1e-6)
			if r.store.State().RotationY != 0 {
				t.Errorf("two-finger gesture rotated the camera")
			}
		})
	}
}

func TestPinchRebasesOnLift(t *testing.T) {
	r := newRigScene(OrbitHandlesOptions{})
	a := r.newPointer(xr.PointerTypeScreenTouch)
	b := r.newPointer(xr.PointerTypeScreenTouch)
	press(a, xr.ButtonPrimary, -0.2, 0)
	press(b, xr.ButtonPrimary, 0.2, 0)
	moveTo(b, 0.6, 0)
	release(b, xr.ButtonPrimary)
	// Lifting applied the pending spread before rebasing.
	assertNear(t, "distance", r.store.State().Distance, 5, 1e-6)

	// The remaining finger orbits from where it is now.
	moveTo(a, -0.2, 0.1)
	r.handles.Update(0)
	assertNear(t, "yaw", r.store.State().RotationY, 0, 1e-9)
	assertNear(t, "pitch", r.store.State().RotationX, 0.1*math.Pi, 1e-9)
}

// --- Wheel ---

func TestWheelZoom(t *testing.T) {
	r := newRigScene(OrbitHandlesOptions{})
	mouse := r.newPointer(xr.PointerTypeMouse)
	moveTo(mouse, 0, 0)
	mouse.Wheel(xr.NativeEvent{DeltaY: 100}, true)
	assertNear(t, "distance", r.store.State().Distance, 10*math.Exp(0.1), 1e-9)
	mouse.Wheel(xr.NativeEvent{DeltaY: -100}, true)
	assertNear(t, "distance", r.store.State().Distance, 10, 1e-9)
}

func TestWheelZoomToPointer(t *testing.T) {
	r := newRigScene(OrbitHandlesOptions{Zoom: ZoomOptions{ZoomToPointer: true, WheelSpeed: 0.01}})
	mouse := r.newPointer(xr.PointerTypeMouse)
	moveTo(mouse, 0.5, 0.2)
	q := r.camera.Unproject(mgl64.Vec2{0.5, 0.2}, 10)
	mouse.Wheel(xr.NativeEvent{DeltaY: -50, ScreenX: 0.5, ScreenY: 0.2}, true)

	assertNear(t, "distance", r.store.State().Distance, 10*math.Exp(-0.5), 1e-9)
	ndc, ok := r.camera.WorldToNDC(q)
	if !ok {
		t.Fatal("zoom point went behind the camera")
	}
	assertNear(t, "ndc x", ndc[0], 0.5, 1e-9)
	assertNear(t, "ndc y", ndc[1], 0.2, 1e-9)
}

func TestWheelZoomToHit(t *testing.T) {
	r := newRigScene(OrbitHandlesOptions{Zoom: ZoomOptions{ZoomToPointer: true}})
	box := xr.NewMesh("box", xr.NewHitBox(2, 2, 2))
	box.SetPosition(1, 0, 0)
	box.PointerEvents = xr.PointerEventsAuto
	r.scene.Root().AddChild(box)

	mouse := r.newPointer(xr.PointerTypeMouse)
	ndc, _ := r.camera.WorldToNDC(mgl64.Vec3{1, 0, 1})
	moveTo(mouse, ndc[0], ndc[1])
	hit := mouse.GetIntersection()
	if hit.Object != box {
		t.Fatalf("pointer hit %s, want box", hit.Object.Name)
	}
	mouse.Wheel(xr.NativeEvent{DeltaY: -300}, true)
	got, _ := r.camera.WorldToNDC(hit.Point)
	assertNear(t, "ndc x", got[0], ndc[0], 1e-9)
	assertNear(t, "ndc y", got[1], ndc[1], 1e-9)
}

// --- ScreenHandleStore ---

func TestScreenHandleStoreRebase(t *testing.T) {
	scene := xr.NewScene()
	cam := xr.NewCamera(xr.Rect{Width: 100, Height: 100})
	gen := 0
	var seen [][]ScreenPointer
	var initials []int
	s := NewScreenHandleStore(
		func() int { gen++; return gen },
		func(initial int, ps []ScreenPointer) {
			initials = append(initials, initial)
			seen = append(seen, append([]ScreenPointer(nil), ps...))
		},
	)
	unbind := s.Bind(scene.Root())

	a := xr.NewPointer(scene, xr.PointerTypeScreenTouch, xr.NewScreenRayIntersector(cam), xr.PointerOptions{})
	b := xr.NewPointer(scene, xr.PointerTypeScreenTouch, xr.NewScreenRayIntersector(cam), xr.PointerOptions{})
	press(a, xr.ButtonPrimary, 0, 0)
	moveTo(a, 0.1, 0)
	press(b, xr.ButtonPrimary, 0.5, 0.5)
	if s.Initial() != 2 {
		t.Errorf("initial = %d, want 2 after the second press", s.Initial())
	}
	if len(seen) != 1 || initials[0] != 1 || seen[0][0].Delta() != (mgl64.Vec2{0.1, 0}) {
		t.Fatalf("pending move was not flushed before rebase: %v %v", initials, seen)
	}
	for _, p := range s.Pointers() {
		if p.Delta() != (mgl64.Vec2{}) {
			t.Errorf("pointer %d delta = %v after rebase, want zero", p.ID, p.Delta())
		}
	}
	if a.GetPointerCapture() == nil || a.GetPointerCapture().Object != scene.Root() {
		t.Error("press should capture the pointer on the bound node")
	}

	s.Cancel()
	if len(s.Pointers()) != 0 || a.GetPointerCapture() != nil || b.GetPointerCapture() != nil {
		t.Error("cancel should drop pointers and release captures")
	}

	unbind()
	press(a, xr.ButtonSecondary, 0, 0)
	if len(s.Pointers()) != 0 {
		t.Error("unbound store still tracks pointers")
	}
}

func TestScreenHandleStoreLeavesCapturedPointers(t *testing.T) {
	r := newRigScene(OrbitHandlesOptions{})
	box := xr.NewMesh("box", xr.NewHitBox(2, 2, 2))
	r.scene.Root().AddChild(box)
	box.AddEventListener(xr.EventPointerDown, func(e *xr.PointerEvent) { e.SetPointerCapture() })
	var boxMoves int
	box.AddEventListener(xr.EventPointerMove, func(*xr.PointerEvent) { boxMoves++ })

	mouse := r.newPointer(xr.PointerTypeMouse)
	press(mouse, xr.ButtonPrimary, 0, 0)
	boxMoves = 0
	moveTo(mouse, 0.5, 0.25)
	r.handles.Update(0)

	if c := mouse.GetPointerCapture(); c == nil || c.Object != box {
		t.Fatal("box should keep the capture")
	}
	if boxMoves != 1 {
		t.Errorf("box saw %d moves, want 1", boxMoves)
	}
	if n := len(r.handles.Rotate.Handle().Pointers()); n != 0 {
		t.Errorf("orbit rig tracks %d pointers, want 0", n)
	}
	s := r.store.State()
	if s.RotationX != 0 || s.RotationY != 0 {
		t.Errorf("camera rotated to %v/%v while the box held the pointer", s.RotationX, s.RotationY)
	}
}

func TestScreenHandleStoreIgnoresRayPointers(t *testing.T) {
	scene := xr.NewScene()
	s := NewScreenHandleStore(func() int { return 0 }, func(int, []ScreenPointer) {})
	s.Bind(scene.Root())
	p := xr.NewPointer(scene, xr.PointerTypeRay, xr.NewRayIntersector(xr.StaticPose(mgl64.Vec3{}, mgl64.QuatIdent())), xr.PointerOptions{})
	p.Move(xr.NativeEvent{})
	p.Down(xr.NativeEvent{})
	if len(s.Pointers()) != 0 {
		t.Error("ray pointer engaged a screen handle")
	}
}
