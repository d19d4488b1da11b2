package lidar

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig wraps all sensor construction failures so callers can
// test with errors.Is.
var ErrInvalidConfig = errors.New("lidar: invalid configuration")

// ReturnMode selects how multiple sub-ray hits within one beam are reduced
// to a single measurement.
type ReturnMode int

const (
	// StrongestReturn keeps the sub-ray with the highest intensity.
	StrongestReturn ReturnMode = iota
	// MeanReturn averages range and intensity across all sub-ray hits.
	MeanReturn
	// FirstReturn keeps the nearest sub-ray hit.
	FirstReturn
	// LastReturn keeps the farthest sub-ray hit.
	LastReturn
)

// String returns a short lower-case name for logging.
func (m ReturnMode) String() string {
	switch m {
	case StrongestReturn:
		return "strongest"
	case MeanReturn:
		return "mean"
	case FirstReturn:
		return "first"
	case LastReturn:
		return "last"
	default:
		return fmt.Sprintf("returnmode(%d)", int(m))
	}
}

// ModelType selects the sampling method for generating measurements.
type ModelType int

const (
	// ModelRayCast samples the scene with analytic ray casts.
	ModelRayCast ModelType = iota
	// ModelPathTrace is reserved; constructors reject it as unsupported.
	ModelPathTrace
)

// ScanConfig describes the scan geometry and beam model of one sensor.
// It is immutable after sensor construction.
type ScanConfig struct {
	// HorizontalSamples is the number of azimuth steps per scan. The
	// horizontal angle spans [0, HorizontalFOVRadians) so a 360° scan does
	// not duplicate its first column.
	HorizontalSamples int
	// VerticalSamples is the number of vertical channels.
	VerticalSamples int
	// HorizontalFOVRadians is the total horizontal field of view, in
	// (0, 2π].
	HorizontalFOVRadians float64
	// MinVerticalRadians and MaxVerticalRadians bound the vertical scan
	// fan, measured up from horizontal. Min must not exceed Max.
	MinVerticalRadians float64
	MaxVerticalRadians float64

	// SampleRadius controls beam super-sampling: radius r casts (2r-1)²
	// sub-rays per beam on a fixed disc pattern. Radius 1 is a single ray.
	SampleRadius int
	// DivergenceAngleRadians is the half-angle of the beam cone the
	// sub-ray disc spans. Ignored when SampleRadius is 1.
	DivergenceAngleRadians float64
	// Mode selects the sub-ray reduction policy.
	Mode ReturnMode
	// Model selects the sampling method. Only ModelRayCast is supported.
	Model ModelType
}

// Default beam model values matching common spinning-lidar spot sizes.
const (
	DefaultSampleRadius    = 1
	DefaultDivergenceAngle = 0.003 // radians
)

// Validate checks the configuration. All construction-time failures wrap
// ErrInvalidConfig.
func (c *ScanConfig) Validate() error {
	if c.HorizontalSamples <= 0 {
		return fmt.Errorf("%w: horizontal samples must be positive, got %d", ErrInvalidConfig, c.HorizontalSamples)
	}
	if c.VerticalSamples <= 0 {
		return fmt.Errorf("%w: vertical samples must be positive, got %d", ErrInvalidConfig, c.VerticalSamples)
	}
	if c.HorizontalFOVRadians <= 0 || c.HorizontalFOVRadians > 2*math.Pi+1e-9 {
		return fmt.Errorf("%w: horizontal FOV must be in (0, 2π], got %v", ErrInvalidConfig, c.HorizontalFOVRadians)
	}
	if c.MinVerticalRadians > c.MaxVerticalRadians {
		return fmt.Errorf("%w: inverted vertical range [%v, %v]", ErrInvalidConfig, c.MinVerticalRadians, c.MaxVerticalRadians)
	}
	if c.SampleRadius < 1 {
		return fmt.Errorf("%w: sample radius must be >= 1, got %d", ErrInvalidConfig, c.SampleRadius)
	}
	if c.SampleRadius > 1 && c.DivergenceAngleRadians <= 0 {
		return fmt.Errorf("%w: divergence angle must be positive for multi-sample beams", ErrInvalidConfig)
	}
	if c.Model != ModelRayCast {
		return fmt.Errorf("%w: only the ray-cast model is supported", ErrInvalidConfig)
	}
	return nil
}

// BeamCount returns HorizontalSamples × VerticalSamples.
func (c *ScanConfig) BeamCount() int {
	return c.HorizontalSamples * c.VerticalSamples
}

// SubRayCount returns the number of rays cast per beam: (2r-1)².
func (c *ScanConfig) SubRayCount() int {
	n := 2*c.SampleRadius - 1
	return n * n
}
