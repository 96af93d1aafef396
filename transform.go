package xr

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ComposeMatrix builds T * R * S from a position, rotation and scale.
// The translation column is written verbatim, so decomposing the result
// returns the exact input position.
func ComposeMatrix(position mgl64.Vec3, rotation mgl64.Quat, scale mgl64.Vec3) mgl64.Mat4 {
	m := rotation.Normalize().Mat4()
	for row := 0; row < 3; row++ {
		m[row] *= scale[0]
		m[4+row] *= scale[1]
		m[8+row] *= scale[2]
	}
	m[12], m[13], m[14] = position[0], position[1], position[2]
	return m
}

// DecomposeMatrix splits an affine matrix into position, rotation and scale.
// A negative determinant is folded into the X scale.
func DecomposeMatrix(m mgl64.Mat4) (position mgl64.Vec3, rotation mgl64.Quat, scale mgl64.Vec3) {
	sx := mgl64.Vec3{m[0], m[1], m[2]}.Len()
	sy := mgl64.Vec3{m[4], m[5], m[6]}.Len()
	sz := mgl64.Vec3{m[8], m[9], m[10]}.Len()
	if m.Det() < 0 {
		sx = -sx
	}
	position = mgl64.Vec3{m[12], m[13], m[14]}
	scale = mgl64.Vec3{sx, sy, sz}

	r := mgl64.Ident4()
	if sx != 0 {
		r[0], r[1], r[2] = m[0]/sx, m[1]/sx, m[2]/sx
	}
	if sy != 0 {
		r[4], r[5], r[6] = m[4]/sy, m[5]/sy, m[6]/sy
	}
	if sz != 0 {
		r[8], r[9], r[10] = m[8]/sz, m[9]/sz, m[10]/sz
	}
	rotation = mgl64.Mat4ToQuat(r).Normalize()
	return position, rotation, scale
}

// InvertMatrix inverts m, returning the identity for singular matrices.
func InvertMatrix(m mgl64.Mat4) mgl64.Mat4 {
	det := m.Det()
	if det > -1e-12 && det < 1e-12 {
		return mgl64.Ident4()
	}
	return m.Inv()
}

// TransformPoint applies an affine matrix to a point.
func TransformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, m)
}

// TransformDirection applies the linear part of m to a direction.
func TransformDirection(m mgl64.Mat4, d mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		m[0]*d[0] + m[4]*d[1] + m[8]*d[2],
		m[1]*d[0] + m[5]*d[1] + m[9]*d[2],
		m[2]*d[0] + m[6]*d[1] + m[10]*d[2],
	}
}

// LocalMatrix computes the node's local matrix from Position, Rotation and Scale.
func (n *Node) LocalMatrix() mgl64.Mat4 {
	return ComposeMatrix(n.Position, n.Rotation, n.Scale)
}

// WorldMatrix returns the node's world matrix, recomputing it (and any dirty
// ancestors) when a transform changed since the last call.
func (n *Node) WorldMatrix() mgl64.Mat4 {
	if !n.transformDirty {
		return n.worldMatrix
	}
	local := n.LocalMatrix()
	if n.Parent != nil {
		n.worldMatrix = n.Parent.WorldMatrix().Mul4(local)
	} else {
		n.worldMatrix = local
	}
	n.transformDirty = false
	return n.worldMatrix
}

// WorldPosition returns the node's origin in world space.
func (n *Node) WorldPosition() mgl64.Vec3 {
	m := n.WorldMatrix()
	return mgl64.Vec3{m[12], m[13], m[14]}
}

// WorldQuaternion returns the node's rotation in world space.
func (n *Node) WorldQuaternion() mgl64.Quat {
	_, q, _ := DecomposeMatrix(n.WorldMatrix())
	return q
}

// updateWorldMatrices refreshes every dirty world matrix below n and returns
// the number of nodes visited.
func updateWorldMatrices(n *Node) int {
	n.WorldMatrix()
	count := 1
	for _, child := range n.children {
		count += updateWorldMatrices(child)
	}
	return count
}

// --- Transform property setters ---

// SetPosition sets the node's local position and marks the subtree dirty.
func (n *Node) SetPosition(x, y, z float64) {
	n.Position = mgl64.Vec3{x, y, z}
	markSubtreeDirty(n)
}

// SetRotation sets the node's local rotation and marks the subtree dirty.
func (n *Node) SetRotation(q mgl64.Quat) {
	n.Rotation = q
	markSubtreeDirty(n)
}

// SetRotationEuler sets the local rotation from Euler angles (radians) and
// records the order for later decomposition.
func (n *Node) SetRotationEuler(e Euler) {
	n.Rotation = e.Quat()
	n.RotationOrder = e.Order
	markSubtreeDirty(n)
}

// SetScale sets the node's local scale and marks the subtree dirty.
func (n *Node) SetScale(x, y, z float64) {
	n.Scale = mgl64.Vec3{x, y, z}
	markSubtreeDirty(n)
}

// SetTransform sets position, rotation and scale in one call.
func (n *Node) SetTransform(position mgl64.Vec3, rotation mgl64.Quat, scale mgl64.Vec3) {
	n.Position = position
	n.Rotation = rotation
	n.Scale = scale
	markSubtreeDirty(n)
}

// MarkDirty marks the node's transform as dirty, forcing recomputation of its
// world matrix. Needed after writing Position/Rotation/Scale fields directly.
func (n *Node) MarkDirty() {
	markSubtreeDirty(n)
}

// --- Coordinate conversion ---

// WorldToLocal converts a world-space point to this node's local coordinate space.
func (n *Node) WorldToLocal(p mgl64.Vec3) mgl64.Vec3 {
	return TransformPoint(InvertMatrix(n.WorldMatrix()), p)
}

// LocalToWorld converts a local-space point to world-space.
func (n *Node) LocalToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return TransformPoint(n.WorldMatrix(), p)
}

// NormalizeOr returns v normalized, or fallback when v has (near) zero length.
func NormalizeOr(v, fallback mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < 1e-12 || math.IsNaN(l) {
		return fallback
	}
	return v.Mul(1 / l)
}
