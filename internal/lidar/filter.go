package lidar

import (
	"errors"
	"fmt"

	"github.com/banshee-data/scansim/internal/geom"
)

// ErrFilterTypeMismatch marks a filter receiving a buffer it cannot
// consume. The offending sensor's cycle is aborted; other sensors are
// unaffected.
var ErrFilterTypeMismatch = errors.New("lidar: filter type mismatch")

// ErrSinkFailure marks a visualization or persistence sink that could not
// complete. Sink failures are reported but never abort a cycle.
var ErrSinkFailure = errors.New("lidar: sink failure")

// State is the working set one scan cycle threads through the filter chain.
// Filters read and replace the working buffers in list order; access
// filters stage read-only snapshots for publication.
type State struct {
	SensorName string
	// CycleID identifies the producing cycle (uuid), for sinks.
	CycleID string
	// CycleIndex counts completed cycles per sensor, starting at 0.
	CycleIndex int64
	// LaunchSeconds is the simulation time the cycle began.
	LaunchSeconds float64

	// Width/Height are the current working dimensions. They start at the
	// scan dimensions and change only through reduction filters.
	Width  int
	Height int

	// Beams holds the sensor-frame unit direction per beam for the
	// original scan grid; PCFromDepth uses it for back-projection.
	Beams []geom.Vec3

	// DI and XYZI are the evolving working buffers. DI is set by the
	// sampling kernel before the chain runs; XYZI appears once a
	// projection filter has run.
	DI   *DIBuffer
	XYZI *XYZIBuffer

	// OutDI and OutXYZI are snapshots staged by access filters. The
	// scheduler publishes them once the cycle's lag has elapsed.
	OutDI   *DIBuffer
	OutXYZI *XYZIBuffer
}

// Filter is one stage of a sensor's processing chain. Apply may mutate the
// state's working buffers or stage output snapshots. Returning an error
// aborts the remainder of this cycle's chain for this sensor only.
type Filter interface {
	Name() string
	Apply(st *State) error
}

// runChain executes filters strictly in list order, wrapping any failure
// with the offending filter's name.
func runChain(filters []Filter, st *State) error {
	for _, f := range filters {
		if err := f.Apply(st); err != nil {
			return fmt.Errorf("filter %q: %w", f.Name(), err)
		}
	}
	return nil
}
