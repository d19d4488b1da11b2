package lidar

import "fmt"

// PCFromDepth back-projects the working depth/intensity buffer into a
// sensor-frame XYZI point cloud using the scan geometry's beam directions.
// It is the geometric inverse of the scan pattern: a measurement at range d
// along beam v becomes the point d·v. No-return samples map to zero points
// with zero intensity.
type PCFromDepth struct{}

// Name implements Filter.
func (PCFromDepth) Name() string { return "pc-from-depth" }

// Apply implements Filter.
func (PCFromDepth) Apply(st *State) error {
	if err := st.DI.checkDims(st.Width, st.Height); err != nil {
		return err
	}
	// Back-projection needs one known direction per working sample, so it
	// must run before any reduction filter rewrites the grid.
	if len(st.Beams) != st.Width*st.Height {
		return fmt.Errorf("%w: beam grid has %d directions, working buffer is %dx%d",
			ErrFilterTypeMismatch, len(st.Beams), st.Width, st.Height)
	}

	out := &XYZIBuffer{
		Width:         st.Width,
		Height:        st.Height,
		LaunchSeconds: st.DI.LaunchSeconds,
		Valid:         true,
		Data:          make([]XYZISample, len(st.DI.Data)),
	}
	for i, s := range st.DI.Data {
		if s.NoReturn() {
			continue // zero value: origin point, zero intensity
		}
		d := st.Beams[i]
		r := float64(s.RangeMeters)
		out.Data[i] = XYZISample{
			X:         float32(d.X * r),
			Y:         float32(d.Y * r),
			Z:         float32(d.Z * r),
			Intensity: s.Intensity,
		}
	}
	st.XYZI = out
	return nil
}
