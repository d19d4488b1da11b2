package lidar

import (
	"math"

	"github.com/banshee-data/scansim/internal/geom"
)

// BeamDirections computes the full H×V grid of unit beam directions in the
// sensor frame, laid out row-major with row = vertical channel and column =
// horizontal step. Row 0 is the lowest channel (MinVerticalRadians).
//
// The horizontal angle spans [0, fov) in H steps so that a 2π scan wraps
// without duplicating its first column; the vertical angle spans
// [min, max] inclusive in V steps. The result is a pure function of the
// configuration and is reproducible bit for bit.
func BeamDirections(cfg *ScanConfig) []geom.Vec3 {
	h := cfg.HorizontalSamples
	v := cfg.VerticalSamples

	azStep := cfg.HorizontalFOVRadians / float64(h)
	elStep := 0.0
	if v > 1 {
		elStep = (cfg.MaxVerticalRadians - cfg.MinVerticalRadians) / float64(v-1)
	}

	dirs := make([]geom.Vec3, 0, h*v)
	for row := 0; row < v; row++ {
		el := cfg.MinVerticalRadians + float64(row)*elStep
		for col := 0; col < h; col++ {
			az := float64(col) * azStep
			dirs = append(dirs, geom.SphericalDir(az, el))
		}
	}
	return dirs
}

// subRayOffset is one entry of the fixed sub-ray disc pattern: an angular
// radius (fraction of the divergence angle) and a disc angle.
type subRayOffset struct {
	radialFraction float64
	discAngleRad   float64
}

// subRayPattern returns the deterministic disc pattern for a sample radius:
// one centre ray plus concentric rings of 8k rays at fractional radius
// k/(r-1), totalling (2r-1)² sub-rays. Radius 1 yields only the centre ray.
func subRayPattern(sampleRadius int) []subRayOffset {
	offsets := []subRayOffset{{0, 0}}
	if sampleRadius <= 1 {
		return offsets
	}
	for ring := 1; ring < sampleRadius; ring++ {
		count := 8 * ring
		frac := float64(ring) / float64(sampleRadius-1)
		for j := 0; j < count; j++ {
			offsets = append(offsets, subRayOffset{
				radialFraction: frac,
				discAngleRad:   2 * math.Pi * float64(j) / float64(count),
			})
		}
	}
	return offsets
}

// subRayDirections expands one nominal beam direction into its sub-ray
// directions using the precomputed disc pattern. The offsets tilt the beam
// within the divergence cone; all returned directions are unit length.
func subRayDirections(nominal geom.Vec3, divergenceRad float64, pattern []subRayOffset, out []geom.Vec3) []geom.Vec3 {
	out = out[:0]
	if len(pattern) == 1 {
		return append(out, nominal)
	}
	u, v := geom.OrthonormalBasis(nominal)
	for _, off := range pattern {
		if off.radialFraction == 0 {
			out = append(out, nominal)
			continue
		}
		tilt := math.Tan(divergenceRad * off.radialFraction)
		d := nominal.
			Add(u.Scale(tilt * math.Cos(off.discAngleRad))).
			Add(v.Scale(tilt * math.Sin(off.discAngleRad)))
		out = append(out, d.Normalize())
	}
	return out
}
