package lidar

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeDIBuffer(w, h int, rangeM, intensity float32) *DIBuffer {
	buf := &DIBuffer{Width: w, Height: h, Valid: true, Data: make([]DISample, w*h)}
	for i := range buf.Data {
		buf.Data[i] = DISample{RangeMeters: rangeM, Intensity: intensity}
	}
	return buf
}

func makeXYZIBuffer(w, h int, v, intensity float32) *XYZIBuffer {
	buf := &XYZIBuffer{Width: w, Height: h, Valid: true, Data: make([]XYZISample, w*h)}
	for i := range buf.Data {
		buf.Data[i] = XYZISample{X: v, Y: v, Z: v, Intensity: intensity}
	}
	return buf
}

func TestNoiseNoneIsIdentity(t *testing.T) {
	di := makeDIBuffer(4, 2, 10, 0.5)
	want := di.Clone()
	NoiseNone{}.PerturbDI(di)
	assert.Empty(t, cmp.Diff(want, di))
}

func TestConstNormalZeroSigmaIsIdentity(t *testing.T) {
	n := NewNoiseConstNormal(0, 0, 0, 0, 1)

	di := makeDIBuffer(8, 4, 10, 0.5)
	want := di.Clone()
	n.PerturbDI(di)
	assert.Empty(t, cmp.Diff(want, di), "zero-sigma zero-mean noise must not change DI buffers")

	xyzi := makeXYZIBuffer(8, 4, 3, 0.5)
	wantXYZI := xyzi.Clone()
	n.PerturbXYZI(xyzi)
	assert.Empty(t, cmp.Diff(wantXYZI, xyzi), "zero-sigma zero-mean noise must not change XYZI buffers")
}

func TestConstNormalZeroSigmaAppliesMean(t *testing.T) {
	// Sigma 0 with a non-zero mean is a deterministic bias.
	n := NewNoiseConstNormal(0.25, 0, -0.1, 0, 1)
	di := makeDIBuffer(2, 1, 10, 0.5)
	n.PerturbDI(di)
	for _, s := range di.Data {
		assert.InDelta(t, 10.25, float64(s.RangeMeters), 1e-6)
		assert.InDelta(t, 0.4, float64(s.Intensity), 1e-6)
	}
}

func TestConstNormalPerturbsPerChannel(t *testing.T) {
	n := NewNoiseConstNormal(0, 0.05, 0, 0.01, 42)
	di := makeDIBuffer(16, 8, 10, 0.5)
	n.PerturbDI(di)

	changed := 0
	for _, s := range di.Data {
		if s.RangeMeters != 10 || s.Intensity != 0.5 {
			changed++
		}
	}
	require.Greater(t, changed, len(di.Data)/2, "noise should perturb most samples")
}

func TestConstNormalReproducibleAcrossRuns(t *testing.T) {
	a := makeDIBuffer(8, 4, 10, 0.5)
	b := makeDIBuffer(8, 4, 10, 0.5)
	NewNoiseConstNormal(0, 0.05, 0, 0.01, 7).PerturbDI(a)
	NewNoiseConstNormal(0, 0.05, 0, 0.01, 7).PerturbDI(b)
	assert.Empty(t, cmp.Diff(a, b), "same seed must give identical perturbations")
}

func TestNoiseSkipsNoReturnSamples(t *testing.T) {
	di := makeDIBuffer(4, 1, 10, 0.5)
	di.Data[2] = DISample{RangeMeters: NoReturnRange, Intensity: 0}

	n := NewNoiseConstNormal(0.5, 0.1, 0.5, 0.1, 3)
	n.PerturbDI(di)

	require.True(t, di.Data[2].NoReturn(), "no-return sample must stay no-return after noise")
	assert.Zero(t, di.Data[2].Intensity)
}
