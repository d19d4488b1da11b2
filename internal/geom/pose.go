package geom

import "math"

// Quat is a unit quaternion (W + Xi + Yj + Zk) representing a rotation.
type Quat struct {
	W, X, Y, Z float64
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat { return Quat{W: 1} }

// QuatFromAxisAngle builds a rotation of angle radians about axis. The axis
// does not need to be unit length; a zero axis yields the identity.
func QuatFromAxisAngle(axis Vec3, angleRad float64) Quat {
	a := axis.Normalize()
	if a.Norm() == 0 {
		return QuatIdentity()
	}
	half := angleRad / 2
	s := math.Sin(half)
	return Quat{
		W: math.Cos(half),
		X: a.X * s,
		Y: a.Y * s,
		Z: a.Z * s,
	}
}

// Mul returns the composed rotation q then r applied as q*r (r first).
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
	}
}

// Conj returns the conjugate (inverse for unit quaternions).
func (q Quat) Conj() Quat { return Quat{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z} }

// Rotate applies the rotation to vector v.
func (q Quat) Rotate(v Vec3) Vec3 {
	// v' = q * (0,v) * q⁻¹ expanded to avoid two full quaternion products.
	u := Vec3{q.X, q.Y, q.Z}
	s := q.W
	return u.Scale(2 * u.Dot(v)).
		Add(v.Scale(s*s - u.Dot(u))).
		Add(u.Cross(v).Scale(2 * s))
}

// Pose is a rigid transform: rotate by Rot, then translate by Pos.
type Pose struct {
	Pos Vec3
	Rot Quat
}

// PoseIdentity returns the identity transform.
func PoseIdentity() Pose { return Pose{Rot: QuatIdentity()} }

// Transform maps a point from the pose's local frame to its parent frame.
func (p Pose) Transform(pt Vec3) Vec3 {
	return p.Rot.Rotate(pt).Add(p.Pos)
}

// TransformDir maps a direction (rotation only, no translation).
func (p Pose) TransformDir(d Vec3) Vec3 {
	return p.Rot.Rotate(d)
}

// Compose returns the transform equivalent to applying child first, then p.
// Typical use: bodyPose.Compose(mountOffset) maps sensor-local coordinates
// into the world frame.
func (p Pose) Compose(child Pose) Pose {
	return Pose{
		Pos: p.Transform(child.Pos),
		Rot: p.Rot.Mul(child.Rot),
	}
}

// Inverse returns the transform mapping parent-frame coordinates back into
// the pose's local frame.
func (p Pose) Inverse() Pose {
	inv := p.Rot.Conj()
	return Pose{
		Pos: inv.Rotate(p.Pos).Scale(-1),
		Rot: inv,
	}
}
