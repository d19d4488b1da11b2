package geom

import (
	"math"
	"testing"
)

const tol = 1e-12

func vecClose(a, b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

func TestSphericalDirConvention(t *testing.T) {
	// Azimuth 0, elevation 0 points along +Y (forward).
	if d := SphericalDir(0, 0); !vecClose(d, Vec3{Y: 1}, tol) {
		t.Fatalf("forward direction wrong: %+v", d)
	}
	// Azimuth +90° points along +X (right).
	if d := SphericalDir(math.Pi/2, 0); !vecClose(d, Vec3{X: 1}, 1e-9) {
		t.Fatalf("right direction wrong: %+v", d)
	}
	// Elevation +90° points straight up.
	if d := SphericalDir(0, math.Pi/2); !vecClose(d, Vec3{Z: 1}, 1e-9) {
		t.Fatalf("up direction wrong: %+v", d)
	}
}

func TestSphericalDirUnitLength(t *testing.T) {
	for az := 0.0; az < 2*math.Pi; az += 0.37 {
		for el := -1.5; el < 1.5; el += 0.29 {
			d := SphericalDir(az, el)
			if math.Abs(d.Norm()-1) > 1e-12 {
				t.Fatalf("non-unit direction at az=%v el=%v: |d|=%v", az, el, d.Norm())
			}
		}
	}
}

func TestOrthonormalBasis(t *testing.T) {
	dirs := []Vec3{
		{Y: 1},
		{Z: 1},
		{Z: -1},
		{X: 0.3, Y: 0.5, Z: -0.8},
	}
	for _, d := range dirs {
		d = d.Normalize()
		u, v := OrthonormalBasis(d)
		if math.Abs(u.Norm()-1) > 1e-12 || math.Abs(v.Norm()-1) > 1e-12 {
			t.Fatalf("basis not unit length for %+v", d)
		}
		if math.Abs(u.Dot(d)) > 1e-12 || math.Abs(v.Dot(d)) > 1e-12 || math.Abs(u.Dot(v)) > 1e-12 {
			t.Fatalf("basis not orthogonal for %+v", d)
		}
	}
}

func TestQuatRotateAxisAngle(t *testing.T) {
	// 90° about Z maps +Y to -X in this convention (right-handed).
	q := QuatFromAxisAngle(Vec3{Z: 1}, math.Pi/2)
	got := q.Rotate(Vec3{Y: 1})
	if !vecClose(got, Vec3{X: -1}, 1e-9) {
		t.Fatalf("rotation wrong: %+v", got)
	}
}

func TestQuatMulComposition(t *testing.T) {
	a := QuatFromAxisAngle(Vec3{Z: 1}, math.Pi/4)
	b := QuatFromAxisAngle(Vec3{Z: 1}, math.Pi/4)
	half := a.Mul(b)
	full := QuatFromAxisAngle(Vec3{Z: 1}, math.Pi/2)
	v := Vec3{X: 1, Y: 2, Z: 3}
	if !vecClose(half.Rotate(v), full.Rotate(v), 1e-9) {
		t.Fatalf("composed rotation differs from direct rotation")
	}
}

func TestPoseComposeAndInverse(t *testing.T) {
	body := Pose{
		Pos: Vec3{X: 1, Y: 2, Z: 3},
		Rot: QuatFromAxisAngle(Vec3{Z: 1}, math.Pi/3),
	}
	mount := Pose{
		Pos: Vec3{X: -4, Z: 4},
		Rot: QuatFromAxisAngle(Vec3{Y: 1}, 0.2),
	}
	world := body.Compose(mount)

	pt := Vec3{X: 0.5, Y: -0.25, Z: 1.5}
	// Composing then transforming equals transforming twice.
	want := body.Transform(mount.Transform(pt))
	if got := world.Transform(pt); !vecClose(got, want, 1e-9) {
		t.Fatalf("compose mismatch: got %+v want %+v", got, want)
	}

	// Inverse round-trips points.
	back := world.Inverse().Transform(world.Transform(pt))
	if !vecClose(back, pt, 1e-9) {
		t.Fatalf("inverse round-trip failed: %+v", back)
	}
}

func TestPoseIdentity(t *testing.T) {
	pt := Vec3{X: 9, Y: -4, Z: 2}
	if got := PoseIdentity().Transform(pt); !vecClose(got, pt, tol) {
		t.Fatalf("identity transform moved point: %+v", got)
	}
}
