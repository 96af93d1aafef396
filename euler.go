package xr

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// EulerOrder is the order in which intrinsic axis rotations are applied.
// EulerXYZ means the matrix is Rx * Ry * Rz.
type EulerOrder uint8

const (
	EulerXYZ EulerOrder = iota
	EulerYXZ
	EulerZXY
	EulerZYX
	EulerYZX
	EulerXZY
)

var eulerOrderNames = [...]string{"XYZ", "YXZ", "ZXY", "ZYX", "YZX", "XZY"}

func (o EulerOrder) String() string {
	if int(o) < len(eulerOrderNames) {
		return eulerOrderNames[o]
	}
	return "XYZ"
}

// EulerOrderFromAxes builds the order whose axes appear in the given sequence,
// e.g. "YXZ". Unknown strings return EulerXYZ.
func EulerOrderFromAxes(axes string) EulerOrder {
	for i, name := range eulerOrderNames {
		if name == axes {
			return EulerOrder(i)
		}
	}
	return EulerXYZ
}

// Euler is a rotation expressed as three angles in radians plus their order.
type Euler struct {
	X, Y, Z float64
	Order   EulerOrder
}

// Axis returns the angle for axis index 0 (x), 1 (y) or 2 (z).
func (e Euler) Axis(i int) float64 {
	switch i {
	case 0:
		return e.X
	case 1:
		return e.Y
	default:
		return e.Z
	}
}

// SetAxis sets the angle for axis index i.
func (e *Euler) SetAxis(i int, v float64) {
	switch i {
	case 0:
		e.X = v
	case 1:
		e.Y = v
	default:
		e.Z = v
	}
}

// Quat converts the Euler angles to a unit quaternion.
func (e Euler) Quat() mgl64.Quat {
	s1, c1 := math.Sincos(e.X / 2)
	s2, c2 := math.Sincos(e.Y / 2)
	s3, c3 := math.Sincos(e.Z / 2)

	var x, y, z, w float64
	switch e.Order {
	case EulerYXZ:
		x = s1*c2*c3 + c1*s2*s3
		y = c1*s2*c3 - s1*c2*s3
		z = c1*c2*s3 - s1*s2*c3
		w = c1*c2*c3 + s1*s2*s3
	case EulerZXY:
		x = s1*c2*c3 - c1*s2*s3
		y = c1*s2*c3 + s1*c2*s3
		z = c1*c2*s3 + s1*s2*c3
		w = c1*c2*c3 - s1*s2*s3
	case EulerZYX:
		x = s1*c2*c3 - c1*s2*s3
		y = c1*s2*c3 + s1*c2*s3
		z = c1*c2*s3 - s1*s2*c3
		w = c1*c2*c3 + s1*s2*s3
	case EulerYZX:
		x = s1*c2*c3 + c1*s2*s3
		y = c1*s2*c3 + s1*c2*s3
		z = c1*c2*s3 - s1*s2*c3
		w = c1*c2*c3 - s1*s2*s3
	case EulerXZY:
		x = s1*c2*c3 - c1*s2*s3
		y = c1*s2*c3 - s1*c2*s3
		z = c1*c2*s3 + s1*s2*c3
		w = c1*c2*c3 + s1*s2*s3
	default: // XYZ
		x = s1*c2*c3 + c1*s2*s3
		y = c1*s2*c3 - s1*c2*s3
		z = c1*c2*s3 + s1*s2*c3
		w = c1*c2*c3 - s1*s2*s3
	}
	return mgl64.Quat{W: w, V: mgl64.Vec3{x, y, z}}
}

// EulerFromQuat decomposes a rotation into Euler angles of the given order.
func EulerFromQuat(q mgl64.Quat, order EulerOrder) Euler {
	return EulerFromMatrix(q.Normalize().Mat4(), order)
}

// EulerFromMatrix decomposes the (unscaled) rotation part of m.
func EulerFromMatrix(m mgl64.Mat4, order EulerOrder) Euler {
	m11, m12, m13 := m[0], m[4], m[8]
	m21, m22, m23 := m[1], m[5], m[9]
	m31, m32, m33 := m[2], m[6], m[10]

	const gimbal = 0.9999999
	e := Euler{Order: order}
	switch order {
	case EulerYXZ:
		e.X = math.Asin(-mgl64.Clamp(m23, -1, 1))
		if math.Abs(m23) < gimbal {
			e.Y = math.Atan2(m13, m33)
			e.Z = math.Atan2(m21, m22)
		} else {
			e.Y = math.Atan2(-m31, m11)
		}
	case EulerZXY:
		e.X = math.Asin(mgl64.Clamp(m32, -1, 1))
		if math.Abs(m32) < gimbal {
			e.Y = math.Atan2(-m31, m33)
			e.Z = math.Atan2(-m12, m22)
		} else {
			e.Z = math.Atan2(m21, m11)
		}
	case EulerZYX:
		e.Y = math.Asin(-mgl64.Clamp(m31, -1, 1))
		if math.Abs(m31) < gimbal {
			e.X = math.Atan2(m32, m33)
			e.Z = math.Atan2(m21, m11)
		} else {
			e.Z = math.Atan2(-m12, m22)
		}
	case EulerYZX:
		e.Z = math.Asin(mgl64.Clamp(m21, -1, 1))
		if math.Abs(m21) < gimbal {
			e.X = math.Atan2(-m23, m22)
			e.Y = math.Atan2(-m31, m11)
		} else {
			e.Y = math.Atan2(m13, m33)
		}
	case EulerXZY:
		e.Z = math.Asin(-mgl64.Clamp(m12, -1, 1))
		if math.Abs(m12) < gimbal {
			e.X = math.Atan2(m32, m22)
			e.Y = math.Atan2(m13, m11)
		} else {
			e.X = math.Atan2(-m23, m33)
		}
	default: // XYZ
		e.Y = math.Asin(mgl64.Clamp(m13, -1, 1))
		if math.Abs(m13) < gimbal {
			e.X = math.Atan2(-m23, m33)
			e.Z = math.Atan2(-m12, m11)
		} else {
			e.X = math.Atan2(m32, m22)
		}
	}
	return e
}

// Reorder returns the same rotation expressed in another order.
func (e Euler) Reorder(order EulerOrder) Euler {
	if e.Order == order {
		return e
	}
	return EulerFromQuat(e.Quat(), order)
}
