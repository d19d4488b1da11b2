package lidar

// NoiseFilter applies a NoiseModel to the working buffers in place. Placed
// before a projection filter it perturbs range/intensity; placed after, it
// perturbs the point cloud as well. Buffers that do not exist yet are
// skipped rather than treated as a mismatch, so one noise stage can serve
// either chain position.
type NoiseFilter struct {
	Model NoiseModel
}

// Name implements Filter.
func (NoiseFilter) Name() string { return "noise" }

// Apply implements Filter.
func (f NoiseFilter) Apply(st *State) error {
	if f.Model == nil {
		return nil
	}
	if st.DI != nil && st.DI.Valid {
		f.Model.PerturbDI(st.DI)
	}
	if st.XYZI != nil && st.XYZI.Valid {
		f.Model.PerturbXYZI(st.XYZI)
	}
	return nil
}
