package screen

import (
	xr "github.com/pmndrs/xr-sub001"
)

// OrbitHandlesOptions configures the rigs of an OrbitHandles.
type OrbitHandlesOptions struct {
	Rotate RigOptions
	Pan    RigOptions
	Zoom   ZoomOptions
}

// OrbitHandles combines rotate, pan and zoom rigs on one camera store, the
// usual orbit camera for a mouse or touch screen.
type OrbitHandles struct {
	Store  *CameraStore
	Rotate *OrbitRig
	Pan    *PanRig
	Zoom   *ZoomRig
}

// NewOrbitHandles creates the three rigs for store.
func NewOrbitHandles(store *CameraStore, opts OrbitHandlesOptions) *OrbitHandles {
	return &OrbitHandles{
		Store:  store,
		Rotate: NewOrbitRig(store, opts.Rotate),
		Pan:    NewPanRig(store, opts.Pan),
		Zoom:   NewZoomRig(store, opts.Zoom),
	}
}

// Bind registers every rig on node.
func (h *OrbitHandles) Bind(node *xr.Node) (unbind func()) {
	unbinds := []func(){
		h.Rotate.Bind(node),
		h.Pan.Bind(node),
		h.Zoom.Bind(node),
	}
	return func() {
		for _, fn := range unbinds {
			fn()
		}
	}
}

// Update advances a running camera animation by dt seconds, then applies
// pointer movement.
func (h *OrbitHandles) Update(dt float32) {
	h.Store.Update(dt)
	h.Rotate.Update()
	h.Pan.Update()
	h.Zoom.Update()
}

// Cancel drops the pointers engaged with any rig.
func (h *OrbitHandles) Cancel() {
	h.Rotate.Cancel()
	h.Pan.Cancel()
	h.Zoom.Cancel()
}
