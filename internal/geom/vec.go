// Package geom provides the small fixed-size vector and rigid-transform
// types used by the scene and sensor packages. Convention throughout:
// X=right, Y=forward, Z=up, right-handed.
package geom

import "math"

// Vec3 is a 3-component vector of float64.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec3) Normalize() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// SphericalDir converts an azimuth/elevation pair (radians) into a unit
// direction. Azimuth 0 points along +Y (forward) and increases toward +X;
// elevation is measured up from the horizontal plane.
func SphericalDir(azimuthRad, elevationRad float64) Vec3 {
	cosElevation := math.Cos(elevationRad)
	return Vec3{
		X: cosElevation * math.Sin(azimuthRad),
		Y: cosElevation * math.Cos(azimuthRad),
		Z: math.Sin(elevationRad),
	}
}

// OrthonormalBasis returns two unit vectors u, v such that (u, v, d) form a
// right-handed orthonormal frame for unit direction d. Used to offset
// sub-rays on a disc perpendicular to a beam.
func OrthonormalBasis(d Vec3) (u, v Vec3) {
	// Pick the world axis least aligned with d to avoid degeneracy.
	ref := Vec3{Z: 1}
	if math.Abs(d.Z) > 0.9 {
		ref = Vec3{X: 1}
	}
	u = d.Cross(ref).Normalize()
	v = d.Cross(u)
	return u, v
}
