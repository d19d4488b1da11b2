package visual

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/scansim/internal/lidar"
)

func testDIBuffer() *lidar.DIBuffer {
	buf := &lidar.DIBuffer{
		Width: 8, Height: 4, LaunchSeconds: 0.2, Valid: true,
		Data: make([]lidar.DISample, 32),
	}
	for i := range buf.Data {
		buf.Data[i] = lidar.DISample{RangeMeters: float32(3 + i%5), Intensity: 0.5}
	}
	buf.Data[3] = lidar.DISample{RangeMeters: lidar.NoReturnRange, Intensity: 0}
	return buf
}

func testXYZIBuffer() *lidar.XYZIBuffer {
	buf := &lidar.XYZIBuffer{
		Width: 8, Height: 4, LaunchSeconds: 0.2, Valid: true,
		Data: make([]lidar.XYZISample, 32),
	}
	for i := range buf.Data {
		buf.Data[i] = lidar.XYZISample{X: float32(i), Y: float32(-i), Z: 1, Intensity: 0.5}
	}
	return buf
}

func TestDepthPlotterWritesPNG(t *testing.T) {
	dir := t.TempDir()
	dp, err := NewDepthPlotter(dir)
	require.NoError(t, err)

	require.NoError(t, dp.RenderDepth(testDIBuffer(), "Raw Lidar Depth Data"))
	require.NoError(t, dp.RenderDepth(testDIBuffer(), "Raw Lidar Depth Data"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "raw-lidar-depth-data_000000.png", entries[0].Name())

	info, err := entries[0].Info()
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestDepthPlotterRejectsInvalidBuffer(t *testing.T) {
	dp, err := NewDepthPlotter(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, dp.RenderDepth(&lidar.DIBuffer{}, "x"))
	assert.Error(t, dp.RenderDepth(nil, "x"))
}

func TestCloudScatterWritesHTML(t *testing.T) {
	dir := t.TempDir()
	cv, err := NewCloudScatter(dir)
	require.NoError(t, err)

	require.NoError(t, cv.RenderCloud(testXYZIBuffer(), "Lidar Point Cloud"))

	data, err := os.ReadFile(filepath.Join(dir, "lidar-point-cloud_000000.html"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "echarts"), "rendered page should embed echarts")
}

func TestCloudScatterRejectsInvalidBuffer(t *testing.T) {
	cv, err := NewCloudScatter(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, cv.RenderCloud(&lidar.XYZIBuffer{}, "x"))
}

func TestSanitizeLabel(t *testing.T) {
	assert.Equal(t, "raw-lidar-depth-data", sanitizeLabel("Raw Lidar Depth Data"))
	assert.Equal(t, "unnamed", sanitizeLabel(""))
	assert.Equal(t, "a-b", sanitizeLabel("!a/b?"))
}
