package scene

import (
	"math"

	"github.com/banshee-data/scansim/internal/geom"
)

// Shape is an analytic surface that can be intersected by a ray expressed in
// the owning body's local frame. Intersect returns the distance along the
// (unit) direction to the nearest hit in front of the origin, or ok=false
// when the ray misses.
type Shape interface {
	Intersect(origin, dir geom.Vec3) (rangeMeters float64, ok bool)
}

// minHitRange rejects hits closer than this to avoid self-intersection when a
// sensor sits exactly on a surface.
const minHitRange = 1e-6

// Plane is an infinite plane through Point with the given Normal.
type Plane struct {
	Point  geom.Vec3
	Normal geom.Vec3
}

// Intersect implements Shape.
func (p Plane) Intersect(origin, dir geom.Vec3) (float64, bool) {
	n := p.Normal.Normalize()
	denom := dir.Dot(n)
	if math.Abs(denom) < 1e-12 {
		return 0, false // parallel
	}
	t := p.Point.Sub(origin).Dot(n) / denom
	if t < minHitRange {
		return 0, false
	}
	return t, true
}

// Box is an axis-aligned box in the body frame, centred on the origin, with
// the given half extents.
type Box struct {
	HalfExtents geom.Vec3
}

// Intersect implements Shape using the slab method.
func (b Box) Intersect(origin, dir geom.Vec3) (float64, bool) {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	o := [3]float64{origin.X, origin.Y, origin.Z}
	d := [3]float64{dir.X, dir.Y, dir.Z}
	h := [3]float64{b.HalfExtents.X, b.HalfExtents.Y, b.HalfExtents.Z}

	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < 1e-12 {
			if o[i] < -h[i] || o[i] > h[i] {
				return 0, false
			}
			continue
		}
		t1 := (-h[i] - o[i]) / d[i]
		t2 := (h[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, false
		}
	}

	switch {
	case tMin >= minHitRange:
		return tMin, true
	case tMax >= minHitRange:
		// Origin inside the box; report the exit face.
		return tMax, true
	default:
		return 0, false
	}
}

// Sphere is a sphere of the given radius centred on the body origin.
type Sphere struct {
	Radius float64
}

// Intersect implements Shape.
func (s Sphere) Intersect(origin, dir geom.Vec3) (float64, bool) {
	// |O + tD|² = r² with unit D reduces to t² + 2(O·D)t + O·O - r² = 0.
	b := origin.Dot(dir)
	c := origin.Dot(origin) - s.Radius*s.Radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	if t := -b - sq; t >= minHitRange {
		return t, true
	}
	if t := -b + sq; t >= minHitRange {
		return t, true
	}
	return 0, false
}
