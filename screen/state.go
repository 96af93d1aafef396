// Package screen drives a perspective camera from screen pointers: orbit,
// pan and zoom rigs share one spherical camera state held by a CameraStore.
package screen

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	xr "github.com/pmndrs/xr-sub001"
)

// CameraState is a camera orbiting Origin at Distance. RotationX is the
// pitch and RotationY the yaw, both in radians.
type CameraState struct {
	Distance  float64
	Origin    mgl64.Vec3
	RotationX float64
	RotationY float64
}

// Rotation returns the camera orientation: yaw first, then pitch.
func (s CameraState) Rotation() mgl64.Quat {
	return xr.Euler{X: s.RotationX, Y: s.RotationY, Order: xr.EulerYXZ}.Quat()
}

// Position returns the camera position, Distance behind Origin along the
// camera's view axis.
func (s CameraState) Position() mgl64.Vec3 {
	return s.Origin.Add(s.Rotation().Rotate(mgl64.Vec3{0, 0, s.Distance}))
}

// CameraStateFromPose returns the state of a camera at position looking at
// origin.
func CameraStateFromPose(position, origin mgl64.Vec3) CameraState {
	offset := position.Sub(origin)
	d := offset.Len()
	s := CameraState{Distance: d, Origin: origin}
	if d == 0 {
		return s
	}
	s.RotationX = -math.Asin(mgl64.Clamp(offset[1]/d, -1, 1))
	s.RotationY = math.Atan2(offset[0], offset[2])
	return s
}

// CameraLimits bounds a CameraState.
type CameraLimits struct {
	MinDistance, MaxDistance float64
	MinPitch, MaxPitch       float64
}

// DefaultCameraLimits keeps the pitch within a quarter turn and the distance
// positive.
func DefaultCameraLimits() CameraLimits {
	return CameraLimits{
		MinDistance: 0.01,
		MaxDistance: math.Inf(1),
		MinPitch:    -math.Pi / 2,
		MaxPitch:    math.Pi / 2,
	}
}

// Clamp returns s with distance and pitch inside the limits.
func (l CameraLimits) Clamp(s CameraState) CameraState {
	s.Distance = mgl64.Clamp(s.Distance, l.MinDistance, l.MaxDistance)
	s.RotationX = mgl64.Clamp(s.RotationX, l.MinPitch, l.MaxPitch)
	return s
}
