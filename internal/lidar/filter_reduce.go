package lidar

import "fmt"

// Reduce downsamples the working buffers by integer strides, keeping every
// HStride-th column and VStride-th row. It rewrites the cycle's working
// dimensions, so projection filters must run before it.
type Reduce struct {
	HStride int
	VStride int
}

// Name implements Filter.
func (Reduce) Name() string { return "reduce" }

// Apply implements Filter.
func (f Reduce) Apply(st *State) error {
	if f.HStride < 1 || f.VStride < 1 {
		return fmt.Errorf("%w: reduce strides must be >= 1, got %dx%d",
			ErrFilterTypeMismatch, f.HStride, f.VStride)
	}
	if f.HStride == 1 && f.VStride == 1 {
		return nil
	}

	newW := (st.Width + f.HStride - 1) / f.HStride
	newH := (st.Height + f.VStride - 1) / f.VStride

	if st.DI != nil && st.DI.Valid {
		if err := st.DI.checkDims(st.Width, st.Height); err != nil {
			return err
		}
		out := &DIBuffer{
			Width:         newW,
			Height:        newH,
			LaunchSeconds: st.DI.LaunchSeconds,
			Valid:         true,
			Data:          make([]DISample, 0, newW*newH),
		}
		for row := 0; row < st.Height; row += f.VStride {
			for col := 0; col < st.Width; col += f.HStride {
				out.Data = append(out.Data, st.DI.At(row, col))
			}
		}
		st.DI = out
	}

	if st.XYZI != nil && st.XYZI.Valid {
		if err := st.XYZI.checkDims(st.Width, st.Height); err != nil {
			return err
		}
		out := &XYZIBuffer{
			Width:         newW,
			Height:        newH,
			LaunchSeconds: st.XYZI.LaunchSeconds,
			Valid:         true,
			Data:          make([]XYZISample, 0, newW*newH),
		}
		for row := 0; row < st.Height; row += f.VStride {
			for col := 0; col < st.Width; col += f.HStride {
				out.Data = append(out.Data, st.XYZI.At(row, col))
			}
		}
		st.XYZI = out
	}

	st.Width = newW
	st.Height = newH
	// The beam grid no longer matches the working dimensions; drop it so a
	// later projection filter fails loudly instead of mis-projecting.
	st.Beams = nil
	return nil
}
