// Package visual renders published sensor buffers for offline inspection:
// depth heatmap PNGs via gonum/plot and interactive point cloud scatter
// pages via go-echarts. Renderers satisfy the visualization filter
// contracts in the lidar package and are strictly side-effecting; they
// never modify buffer contents.
package visual

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/scansim/internal/lidar"
)

// DepthPlotter renders depth/intensity buffers as heatmap PNGs, one file
// per rendered cycle.
type DepthPlotter struct {
	outputDir string

	mu  sync.Mutex
	seq int
}

// NewDepthPlotter creates the output directory if needed.
func NewDepthPlotter(outputDir string) (*DepthPlotter, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("visual: creating output dir: %w", err)
	}
	return &DepthPlotter{outputDir: outputDir}, nil
}

// depthGrid adapts a DIBuffer to the plotter.GridXYZ interface. No-return
// samples render as zero range.
type depthGrid struct {
	buf *lidar.DIBuffer
}

func (g depthGrid) Dims() (c, r int) { return g.buf.Width, g.buf.Height }
func (g depthGrid) X(c int) float64  { return float64(c) }
func (g depthGrid) Y(r int) float64  { return float64(r) }

func (g depthGrid) Z(c, r int) float64 {
	s := g.buf.At(r, c)
	if s.NoReturn() || math.IsNaN(float64(s.RangeMeters)) {
		return 0
	}
	return float64(s.RangeMeters)
}

// RenderDepth implements lidar.DepthRenderer.
func (dp *DepthPlotter) RenderDepth(buf *lidar.DIBuffer, label string) error {
	if buf == nil || !buf.Valid {
		return fmt.Errorf("visual: no depth buffer to render")
	}

	dp.mu.Lock()
	seq := dp.seq
	dp.seq++
	dp.mu.Unlock()

	p := plot.New()
	p.Title.Text = label
	p.X.Label.Text = "horizontal sample"
	p.Y.Label.Text = "vertical channel"

	hm := plotter.NewHeatMap(depthGrid{buf: buf}, palette.Heat(16, 1))
	p.Add(hm)

	name := fmt.Sprintf("%s_%06d.png", sanitizeLabel(label), seq)
	out := filepath.Join(dp.outputDir, name)
	if err := p.Save(8*vg.Inch, 3*vg.Inch, out); err != nil {
		return fmt.Errorf("visual: saving %s: %w", name, err)
	}
	return nil
}

// sanitizeLabel turns a display label into a usable file name component.
func sanitizeLabel(label string) string {
	if label == "" {
		return "unnamed"
	}
	out := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, label)
	return strings.Trim(out, "-")
}
