package xr

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a perspective camera used by screen-ray pointers to turn screen
// positions into world rays.
type Camera struct {
	// Position is the camera's world position.
	Position mgl64.Vec3
	// Rotation is the camera's world orientation; it looks along Forward.
	Rotation mgl64.Quat
	// FOV is the vertical field of view in radians.
	FOV float64
	// Near and Far are the clip distances.
	Near, Far float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	viewMatrix    mgl64.Mat4
	invViewMatrix mgl64.Mat4
	projection    mgl64.Mat4
	dirty         bool
}

// NewCamera creates a camera at the origin looking down -Z with a 60 degree
// vertical field of view.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		Rotation: mgl64.QuatIdent(),
		FOV:      mgl64.DegToRad(60),
		Near:     0.1,
		Far:      1000,
		Viewport: viewport,
		dirty:    true,
	}
}

// Aspect returns the viewport aspect ratio, 1 for an empty viewport.
func (c *Camera) Aspect() float64 {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return 1
	}
	return c.Viewport.Width / c.Viewport.Height
}

// SetPose sets position and rotation in one call.
func (c *Camera) SetPose(position mgl64.Vec3, rotation mgl64.Quat) {
	c.Position = position
	c.Rotation = rotation
	c.dirty = true
}

// LookAt orients the camera towards target.
func (c *Camera) LookAt(target mgl64.Vec3) {
	view := mgl64.LookAtV(c.Position, target, Up)
	_, q, _ := DecomposeMatrix(InvertMatrix(view))
	c.Rotation = q
	c.dirty = true
}

// MarkDirty forces a recomputation of the cached matrices. Needed after
// writing fields directly.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

func (c *Camera) computeMatrices() {
	if !c.dirty {
		return
	}
	c.dirty = false
	world := ComposeMatrix(c.Position, c.Rotation, mgl64.Vec3{1, 1, 1})
	c.invViewMatrix = world
	c.viewMatrix = InvertMatrix(world)
	c.projection = mgl64.Perspective(c.FOV, c.Aspect(), c.Near, c.Far)
}

// ViewMatrix returns the world-to-view transform.
func (c *Camera) ViewMatrix() mgl64.Mat4 {
	c.computeMatrices()
	return c.viewMatrix
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() mgl64.Mat4 {
	c.computeMatrices()
	return c.projection
}

// ScreenToNDC converts a screen position to normalized device coordinates.
func (c *Camera) ScreenToNDC(sx, sy float64) mgl64.Vec2 {
	w, h := c.Viewport.Width, c.Viewport.Height
	if w <= 0 || h <= 0 {
		return mgl64.Vec2{}
	}
	return mgl64.Vec2{
		(sx-c.Viewport.X)/w*2 - 1,
		1 - (sy-c.Viewport.Y)/h*2,
	}
}

// NDCToScreen converts normalized device coordinates to a screen position.
func (c *Camera) NDCToScreen(ndc mgl64.Vec2) (sx, sy float64) {
	sx = c.Viewport.X + (ndc[0]+1)/2*c.Viewport.Width
	sy = c.Viewport.Y + (1-ndc[1])/2*c.Viewport.Height
	return
}

// viewDirection returns the unnormalized view-space direction through ndc
// whose z component is -1.
func (c *Camera) viewDirection(ndc mgl64.Vec2) mgl64.Vec3 {
	tanHalf := math.Tan(c.FOV / 2)
	return mgl64.Vec3{ndc[0] * tanHalf * c.Aspect(), ndc[1] * tanHalf, -1}
}

// RayFromNDC returns the world ray through the given NDC position. The
// direction is normalized.
func (c *Camera) RayFromNDC(ndc mgl64.Vec2) (origin, direction mgl64.Vec3) {
	c.computeMatrices()
	d := c.Rotation.Rotate(c.viewDirection(ndc))
	return c.Position, NormalizeOr(d, c.Rotation.Rotate(Forward))
}

// Unproject returns the world point under ndc at the given distance from the
// camera measured along its forward axis.
func (c *Camera) Unproject(ndc mgl64.Vec2, viewDistance float64) mgl64.Vec3 {
	c.computeMatrices()
	return TransformPoint(c.invViewMatrix, c.viewDirection(ndc).Mul(viewDistance))
}

// ViewDistance returns the depth of p along the camera's forward axis.
func (c *Camera) ViewDistance(p mgl64.Vec3) float64 {
	return -TransformPoint(c.ViewMatrix(), p)[2]
}

// WorldToNDC projects p. ok is false when p is behind the camera.
func (c *Camera) WorldToNDC(p mgl64.Vec3) (ndc mgl64.Vec2, ok bool) {
	v := TransformPoint(c.ViewMatrix(), p)
	if v[2] >= 0 {
		return mgl64.Vec2{}, false
	}
	tanHalf := math.Tan(c.FOV / 2)
	depth := -v[2]
	return mgl64.Vec2{v[0] / (depth * tanHalf * c.Aspect()), v[1] / (depth * tanHalf)}, true
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(p mgl64.Vec3) (sx, sy float64, ok bool) {
	ndc, ok := c.WorldToNDC(p)
	if !ok {
		return 0, 0, false
	}
	sx, sy = c.NDCToScreen(ndc)
	return sx, sy, true
}

// ScreenToWorld returns the world point under a screen position at the given
// view distance.
func (c *Camera) ScreenToWorld(sx, sy, viewDistance float64) mgl64.Vec3 {
	return c.Unproject(c.ScreenToNDC(sx, sy), viewDistance)
}
