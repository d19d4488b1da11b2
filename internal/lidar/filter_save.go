package lidar

// CloudWriter persists one published point cloud. Implementations live in
// internal/lidar/store (sqlite, CSV).
type CloudWriter interface {
	WriteCloud(sensorName, cycleID string, launchSeconds float64, buf *XYZIBuffer) error
}

// SavePointCloud is a pass-through persistence stage: it hands the working
// point cloud to a CloudWriter. Write failures are reported and otherwise
// ignored so best-effort I/O never stalls the simulation.
type SavePointCloud struct {
	Writer CloudWriter
}

// Name implements Filter.
func (SavePointCloud) Name() string { return "save-cloud" }

// Apply implements Filter.
func (f SavePointCloud) Apply(st *State) error {
	if f.Writer == nil {
		return nil
	}
	if err := st.XYZI.checkDims(st.Width, st.Height); err != nil {
		return err
	}
	if err := f.Writer.WriteCloud(st.SensorName, st.CycleID, st.LaunchSeconds, st.XYZI); err != nil {
		Logf("sensor %s cycle %d: point cloud save failed: %v",
			st.SensorName, st.CycleIndex, err)
	}
	return nil
}
