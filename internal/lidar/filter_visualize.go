package lidar

// DepthRenderer renders a depth/intensity buffer under a display label.
// Fire-and-forget: the core never consumes a return value beyond logging.
type DepthRenderer interface {
	RenderDepth(buf *DIBuffer, label string) error
}

// CloudRenderer renders a point cloud buffer under a display label.
type CloudRenderer interface {
	RenderCloud(buf *XYZIBuffer, label string) error
}

// VisualizeDepth is a pass-through visualization stage for the working
// depth buffer. Renderer failures are reported and otherwise ignored; the
// buffer contents are never altered.
type VisualizeDepth struct {
	Label    string
	Renderer DepthRenderer
}

// Name implements Filter.
func (f VisualizeDepth) Name() string { return "visualize-depth" }

// Apply implements Filter.
func (f VisualizeDepth) Apply(st *State) error {
	if f.Renderer == nil {
		return nil
	}
	if err := st.DI.checkDims(st.Width, st.Height); err != nil {
		return err
	}
	if err := f.Renderer.RenderDepth(st.DI, f.Label); err != nil {
		Logf("sensor %s cycle %d: depth visualization %q failed: %v",
			st.SensorName, st.CycleIndex, f.Label, err)
	}
	return nil
}

// VisualizeCloud is a pass-through visualization stage for the working
// point cloud buffer.
type VisualizeCloud struct {
	Label    string
	Renderer CloudRenderer
}

// Name implements Filter.
func (f VisualizeCloud) Name() string { return "visualize-cloud" }

// Apply implements Filter.
func (f VisualizeCloud) Apply(st *State) error {
	if f.Renderer == nil {
		return nil
	}
	if err := st.XYZI.checkDims(st.Width, st.Height); err != nil {
		return err
	}
	if err := f.Renderer.RenderCloud(st.XYZI, f.Label); err != nil {
		Logf("sensor %s cycle %d: cloud visualization %q failed: %v",
			st.SensorName, st.CycleIndex, f.Label, err)
	}
	return nil
}
