package screen

import (
	xr "github.com/pmndrs/xr-sub001"
)

// CameraStore holds the camera state shared by the rigs and writes it into
// a camera on every change.
type CameraStore struct {
	Limits CameraLimits

	state      CameraState
	camera     *xr.Camera
	anim       *cameraTween
	animTarget CameraState
	listeners  []func(CameraState)
}

// NewCameraStore creates a store for camera starting at initial. camera may
// be nil; the state is then only reported to subscribers.
func NewCameraStore(camera *xr.Camera, initial CameraState) *CameraStore {
	s := &CameraStore{Limits: DefaultCameraLimits(), camera: camera}
	s.SetState(initial)
	return s
}

// Camera returns the driven camera, or nil.
func (s *CameraStore) Camera() *xr.Camera { return s.camera }

// State returns the current camera state.
func (s *CameraStore) State() CameraState { return s.state }

// Clamp returns state bounded by the store's limits.
func (s *CameraStore) Clamp(state CameraState) CameraState {
	return s.Limits.Clamp(state)
}

// SetState commits state unchanged, applies it to the camera and notifies
// subscribers. A running animation is stopped.
func (s *CameraStore) SetState(state CameraState) {
	s.anim = nil
	s.commit(state)
}

func (s *CameraStore) commit(state CameraState) {
	s.state = state
	if s.camera != nil {
		s.camera.SetPose(state.Position(), state.Rotation())
	}
	for _, fn := range s.listeners {
		fn(state)
	}
}

// Subscribe registers fn to run after every committed state. The returned
// function unsubscribes.
func (s *CameraStore) Subscribe(fn func(CameraState)) (unsubscribe func()) {
	if fn == nil {
		panic("xr/screen: nil subscriber")
	}
	s.listeners = append(s.listeners, fn)
	idx := len(s.listeners) - 1
	return func() {
		if idx < len(s.listeners) {
			s.listeners[idx] = func(CameraState) {}
		}
	}
}

// applyUpdate commits a rig's update through apply, or clamps and commits it
// when apply is nil.
func (s *CameraStore) applyUpdate(update CameraState, apply func(CameraState, *CameraStore)) {
	if apply != nil {
		apply(update, s)
		return
	}
	s.SetState(s.Clamp(update))
}
