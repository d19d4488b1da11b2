package lidar

import (
	"fmt"
	"math"
)

// NoReturnEpsilon is the intensity threshold below which a sample is
// treated as "no return". The range of a no-return sample is NaN.
const NoReturnEpsilon = 1e-3

// NoReturnRange is the sentinel range for beams without a valid hit.
var NoReturnRange = float32(math.NaN())

// DISample is one depth/intensity measurement for a single beam.
type DISample struct {
	RangeMeters float32
	Intensity   float32
}

// NoReturn reports whether the sample carries no valid hit.
func (s DISample) NoReturn() bool { return s.Intensity <= NoReturnEpsilon }

// XYZISample is one back-projected point with intensity, in the sensor
// frame at collection time.
type XYZISample struct {
	X, Y, Z   float32
	Intensity float32
}

// NoReturn reports whether the sample carries no valid hit.
func (s XYZISample) NoReturn() bool { return s.Intensity <= NoReturnEpsilon }

// DIBuffer is a timestamped width×height grid of depth/intensity samples.
// Data is row-major with row = vertical channel. A zero DIBuffer is the
// "nothing published yet" value: Valid is false and Data is nil.
type DIBuffer struct {
	Width  int
	Height int
	// LaunchSeconds is the simulation time at which the producing scan
	// cycle began.
	LaunchSeconds float64
	Valid         bool
	Data          []DISample
}

// At returns the sample at (row, col). Callers must check bounds via
// Width/Height; this is a hot path and does not re-validate.
func (b *DIBuffer) At(row, col int) DISample { return b.Data[row*b.Width+col] }

// Clone returns a deep copy. Used by access filters so that published
// snapshots never alias the working buffer.
func (b *DIBuffer) Clone() *DIBuffer {
	c := *b
	c.Data = append([]DISample(nil), b.Data...)
	return &c
}

// checkDims validates that the buffer matches the expected scan dimensions.
func (b *DIBuffer) checkDims(width, height int) error {
	if b == nil || !b.Valid {
		return fmt.Errorf("%w: no depth/intensity buffer available", ErrFilterTypeMismatch)
	}
	if b.Width != width || b.Height != height {
		return fmt.Errorf("%w: depth buffer is %dx%d, scan is %dx%d",
			ErrFilterTypeMismatch, b.Width, b.Height, width, height)
	}
	if len(b.Data) != b.Width*b.Height {
		return fmt.Errorf("%w: depth buffer data length %d does not match %dx%d",
			ErrFilterTypeMismatch, len(b.Data), b.Width, b.Height)
	}
	return nil
}

// XYZIBuffer is a timestamped width×height grid of back-projected points.
// Layout and validity semantics match DIBuffer.
type XYZIBuffer struct {
	Width         int
	Height        int
	LaunchSeconds float64
	Valid         bool
	Data          []XYZISample
}

// At returns the sample at (row, col).
func (b *XYZIBuffer) At(row, col int) XYZISample { return b.Data[row*b.Width+col] }

// Clone returns a deep copy.
func (b *XYZIBuffer) Clone() *XYZIBuffer {
	c := *b
	c.Data = append([]XYZISample(nil), b.Data...)
	return &c
}

func (b *XYZIBuffer) checkDims(width, height int) error {
	if b == nil || !b.Valid {
		return fmt.Errorf("%w: no point cloud buffer available", ErrFilterTypeMismatch)
	}
	if b.Width != width || b.Height != height {
		return fmt.Errorf("%w: point cloud buffer is %dx%d, scan is %dx%d",
			ErrFilterTypeMismatch, b.Width, b.Height, width, height)
	}
	if len(b.Data) != b.Width*b.Height {
		return fmt.Errorf("%w: point cloud data length %d does not match %dx%d",
			ErrFilterTypeMismatch, len(b.Data), b.Width, b.Height)
	}
	return nil
}
