package lidar

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// NoiseModel perturbs a buffer in place. Implementations must leave
// no-return samples untouched so downstream stages can still recognise
// them.
type NoiseModel interface {
	// PerturbDI mutates range/intensity per element.
	PerturbDI(buf *DIBuffer)
	// PerturbXYZI mutates xyz/intensity per element.
	PerturbXYZI(buf *XYZIBuffer)
}

// NoiseNone is the identity noise model.
type NoiseNone struct{}

// PerturbDI implements NoiseModel.
func (NoiseNone) PerturbDI(*DIBuffer) {}

// PerturbXYZI implements NoiseModel.
func (NoiseNone) PerturbXYZI(*XYZIBuffer) {}

// NoiseConstNormal applies independent Gaussian perturbations with constant
// mean and standard deviation: one distribution for the spatial channels
// (range, or each of x/y/z) and one for intensity. Zero standard deviation
// and zero mean is the identity.
type NoiseConstNormal struct {
	spatial   distuv.Normal
	intensity distuv.Normal
}

// NewNoiseConstNormal builds a constant-normal noise model. The seed fixes
// the underlying random source so simulation runs are reproducible.
func NewNoiseConstNormal(meanSpatial, stdSpatial, meanIntensity, stdIntensity float64, seed uint64) *NoiseConstNormal {
	src := rand.NewSource(seed)
	return &NoiseConstNormal{
		spatial:   distuv.Normal{Mu: meanSpatial, Sigma: stdSpatial, Src: src},
		intensity: distuv.Normal{Mu: meanIntensity, Sigma: stdIntensity, Src: src},
	}
}

func (n *NoiseConstNormal) identity() bool {
	return n.spatial.Mu == 0 && n.spatial.Sigma == 0 &&
		n.intensity.Mu == 0 && n.intensity.Sigma == 0
}

func (n *NoiseConstNormal) draw(d *distuv.Normal) float32 {
	if d.Sigma == 0 {
		return float32(d.Mu)
	}
	return float32(d.Rand())
}

// PerturbDI implements NoiseModel.
func (n *NoiseConstNormal) PerturbDI(buf *DIBuffer) {
	if n.identity() {
		return
	}
	for i := range buf.Data {
		if buf.Data[i].NoReturn() {
			continue
		}
		buf.Data[i].RangeMeters += n.draw(&n.spatial)
		buf.Data[i].Intensity += n.draw(&n.intensity)
	}
}

// PerturbXYZI implements NoiseModel.
func (n *NoiseConstNormal) PerturbXYZI(buf *XYZIBuffer) {
	if n.identity() {
		return
	}
	for i := range buf.Data {
		if buf.Data[i].NoReturn() {
			continue
		}
		buf.Data[i].X += n.draw(&n.spatial)
		buf.Data[i].Y += n.draw(&n.spatial)
		buf.Data[i].Z += n.draw(&n.spatial)
		buf.Data[i].Intensity += n.draw(&n.intensity)
	}
}
