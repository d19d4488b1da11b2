package lidar

// DIAccess stages a read-only snapshot of the current depth/intensity
// buffer for publication. A sensor must run this filter before consumers
// can query most-recent depth buffers.
type DIAccess struct{}

// Name implements Filter.
func (DIAccess) Name() string { return "di-access" }

// Apply implements Filter.
func (DIAccess) Apply(st *State) error {
	if err := st.DI.checkDims(st.Width, st.Height); err != nil {
		return err
	}
	st.OutDI = st.DI.Clone()
	return nil
}

// XYZIAccess stages a read-only snapshot of the current point cloud buffer
// for publication. It must run after a projection filter has produced a
// point cloud.
type XYZIAccess struct{}

// Name implements Filter.
func (XYZIAccess) Name() string { return "xyzi-access" }

// Apply implements Filter.
func (XYZIAccess) Apply(st *State) error {
	if err := st.XYZI.checkDims(st.Width, st.Height); err != nil {
		return err
	}
	st.OutXYZI = st.XYZI.Clone()
	return nil
}
