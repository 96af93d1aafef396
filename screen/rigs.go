package screen

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	xr "github.com/pmndrs/xr-sub001"
)

const defaultWheelSpeed = 0.001

// RigOptions configures one camera rig. The zero value is enabled with
// speed 1 and commits clamped updates.
type RigOptions struct {
	Disabled bool
	// Speed scales the gesture. Zero means 1.
	Speed float64
	// Apply commits an update. Nil clamps the update with the store's limits
	// and sets it.
	Apply func(update CameraState, store *CameraStore)
}

func (o RigOptions) speed() float64 {
	if o.Speed == 0 {
		return 1
	}
	return o.Speed
}

// ZoomOptions configures a ZoomRig.
type ZoomOptions struct {
	RigOptions
	// WheelSpeed converts wheel delta into the exponent of the distance
	// factor. Zero means 0.001.
	WheelSpeed float64
	// ZoomToPointer keeps the point under the pointer fixed on screen while
	// wheel zooming.
	ZoomToPointer bool
}

// rig is the part shared by the camera rigs.
type rig struct {
	store  *CameraStore
	handle *ScreenHandleStore[CameraState]
}

func newRig(store *CameraStore, apply func(initial CameraState, pointers []ScreenPointer)) rig {
	if store == nil {
		panic("xr/screen: rig needs a camera store")
	}
	return rig{store: store, handle: NewScreenHandleStore(store.State, apply)}
}

// Bind registers the rig on node, usually the scene root.
func (r *rig) Bind(node *xr.Node) (unbind func()) { return r.handle.Bind(node) }

// Update applies pointer movement since the last call.
func (r *rig) Update() { r.handle.Update() }

// Cancel drops the engaged pointers.
func (r *rig) Cancel() { r.handle.Cancel() }

// Handle returns the underlying screen handle store.
func (r *rig) Handle() *ScreenHandleStore[CameraState] { return r.handle }

func averageDelta(pointers []ScreenPointer) mgl64.Vec2 {
	var sum mgl64.Vec2
	for _, p := range pointers {
		sum = sum.Add(p.Delta())
	}
	return sum.Mul(1 / float64(len(pointers)))
}

func (s *CameraStore) aspect() float64 {
	if s.camera == nil {
		return 1
	}
	return s.camera.Aspect()
}

func (s *CameraStore) tanHalfFOV() float64 {
	if s.camera == nil {
		return math.Tan(math.Pi / 6)
	}
	return math.Tan(s.camera.FOV / 2)
}

// OrbitRig turns the camera around its origin while one pointer drags with
// the primary button.
type OrbitRig struct {
	rig
	opts RigOptions
}

// NewOrbitRig creates an orbit rig for store.
func NewOrbitRig(store *CameraStore, opts RigOptions) *OrbitRig {
	r := &OrbitRig{opts: opts}
	r.rig = newRig(store, r.apply)
	return r
}

func (r *OrbitRig) apply(initial CameraState, pointers []ScreenPointer) {
	if r.opts.Disabled || len(pointers) != 1 || pointers[0].Button != xr.ButtonPrimary {
		return
	}
	d := pointers[0].Delta().Mul(math.Pi * r.opts.speed())
	update := r.store.State()
	update.RotationY = initial.RotationY - d[0]
	update.RotationX = initial.RotationX + d[1]
	r.store.applyUpdate(update, r.opts.Apply)
}

// PanRig shifts the camera origin so the origin plane follows the pointer.
// It engages with one pointer on the secondary button or with two pointers,
// which pan by their average movement.
type PanRig struct {
	rig
	opts RigOptions
}

// NewPanRig creates a pan rig for store.
func NewPanRig(store *CameraStore, opts RigOptions) *PanRig {
	r := &PanRig{opts: opts}
	r.rig = newRig(store, r.apply)
	return r
}

func (r *PanRig) apply(initial CameraState, pointers []ScreenPointer) {
	if r.opts.Disabled {
		return
	}
	switch {
	case len(pointers) == 1 && pointers[0].Button == xr.ButtonSecondary:
	case len(pointers) == 2:
	default:
		return
	}
	update := r.store.State()
	d := averageDelta(pointers)
	h := update.Distance * r.store.tanHalfFOV() * r.opts.speed()
	shift := update.Rotation().Rotate(mgl64.Vec3{-d[0] * h * r.store.aspect(), -d[1] * h, 0})
	update.Origin = initial.Origin.Add(shift)
	r.store.applyUpdate(update, r.opts.Apply)
}

// ZoomRig changes the camera distance by pinching with two pointers or with
// the wheel.
type ZoomRig struct {
	rig
	opts ZoomOptions
}

// NewZoomRig creates a zoom rig for store.
func NewZoomRig(store *CameraStore, opts ZoomOptions) *ZoomRig {
	r := &ZoomRig{opts: opts}
	r.rig = newRig(store, r.apply)
	return r
}

// Bind registers the pinch and wheel listeners on node.
func (r *ZoomRig) Bind(node *xr.Node) (unbind func()) {
	unbindPinch := r.handle.Bind(node)
	wheel := node.AddEventListener(xr.EventWheel, r.onWheel)
	return func() {
		unbindPinch()
		wheel.Remove()
	}
}

// pinchDistance measures the pointers' separation with x scaled by the
// aspect ratio, so horizontal and vertical pinches agree.
func (r *ZoomRig) pinchDistance(a, b mgl64.Vec2) float64 {
	d := a.Sub(b)
	d[0] *= r.store.aspect()
	return d.Len()
}

func (r *ZoomRig) apply(initial CameraState, pointers []ScreenPointer) {
	if r.opts.Disabled || len(pointers) != 2 {
		return
	}
	d0 := r.pinchDistance(pointers[0].Initial, pointers[1].Initial)
	d1 := r.pinchDistance(pointers[0].Current, pointers[1].Current)
	if d0 < 1e-9 || d1 < 1e-9 {
		return
	}
	update := r.store.State()
	update.Distance = initial.Distance * d0 / d1
	r.store.applyUpdate(update, r.opts.Apply)
}

func (r *ZoomRig) wheelSpeed() float64 {
	if r.opts.WheelSpeed == 0 {
		return defaultWheelSpeed
	}
	return r.opts.WheelSpeed
}

func (r *ZoomRig) onWheel(e *xr.PointerEvent) {
	if r.opts.Disabled || e.DeltaY == 0 {
		return
	}
	current := r.store.State()
	update := current
	update.Distance = current.Distance * math.Exp(e.DeltaY*r.wheelSpeed()*r.opts.speed())
	if r.opts.ZoomToPointer && current.Distance > 0 {
		if q, ok := r.zoomPoint(e, current); ok {
			k := r.store.Clamp(update).Distance / current.Distance
			update.Origin = q.Add(current.Origin.Sub(q).Mul(k))
		}
	}
	r.store.applyUpdate(update, r.opts.Apply)
}

// zoomPoint returns the world point the wheel zooms towards: the hit point,
// or the point on the origin's view plane under the pointer.
func (r *ZoomRig) zoomPoint(e *xr.PointerEvent, state CameraState) (mgl64.Vec3, bool) {
	i := e.Intersection
	if i == nil {
		return mgl64.Vec3{}, false
	}
	if !i.IsVoid() && !math.IsInf(i.Distance, 0) {
		return i.Point, true
	}
	ndc, ok := screenPoint(e)
	if !ok || r.store.camera == nil {
		return mgl64.Vec3{}, false
	}
	return r.store.camera.Unproject(ndc, state.Distance), true
}
