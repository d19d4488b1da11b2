package visual

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/scansim/internal/lidar"
)

// CloudScatter renders point cloud buffers as interactive top-down scatter
// pages (X/Y plane, intensity as the color dimension), one HTML file per
// rendered cycle.
type CloudScatter struct {
	outputDir string
	maxPoints int

	mu  sync.Mutex
	seq int
}

// defaultMaxScatterPoints bounds the HTML payload size; larger clouds are
// downsampled by stride.
const defaultMaxScatterPoints = 8000

// NewCloudScatter creates the output directory if needed.
func NewCloudScatter(outputDir string) (*CloudScatter, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("visual: creating output dir: %w", err)
	}
	return &CloudScatter{outputDir: outputDir, maxPoints: defaultMaxScatterPoints}, nil
}

// RenderCloud implements lidar.CloudRenderer.
func (cv *CloudScatter) RenderCloud(buf *lidar.XYZIBuffer, label string) error {
	if buf == nil || !buf.Valid {
		return fmt.Errorf("visual: no point cloud buffer to render")
	}

	cv.mu.Lock()
	seq := cv.seq
	cv.seq++
	cv.mu.Unlock()

	// Downsample by stride to stay within maxPoints.
	stride := 1
	if len(buf.Data) > cv.maxPoints {
		stride = int(math.Ceil(float64(len(buf.Data)) / float64(cv.maxPoints)))
	}

	data := make([]opts.ScatterData, 0, len(buf.Data)/stride+1)
	maxAbs := 0.0
	maxInt := 0.0
	for i := 0; i < len(buf.Data); i += stride {
		p := buf.Data[i]
		if p.NoReturn() {
			continue
		}
		x, y := float64(p.X), float64(p.Y)
		if math.Abs(x) > maxAbs {
			maxAbs = math.Abs(x)
		}
		if math.Abs(y) > maxAbs {
			maxAbs = math.Abs(y)
		}
		if float64(p.Intensity) > maxInt {
			maxInt = float64(p.Intensity)
		}
		data = append(data, opts.ScatterData{Value: []interface{}{x, y, float64(p.Intensity)}})
	}

	pad := maxAbs * 1.05
	if pad == 0 {
		pad = 1.0
	}
	if maxInt == 0 {
		maxInt = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: label, Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: label, Subtitle: fmt.Sprintf("t=%.3fs points=%d stride=%d", buf.LaunchSeconds, len(data), stride)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxInt),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#3e4989", "#26828e", "#35b779", "#b5de2b", "#fde725"}},
		}),
	)
	scatter.AddSeries("cloud", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))

	name := fmt.Sprintf("%s_%06d.html", sanitizeLabel(label), seq)
	f, err := os.Create(filepath.Join(cv.outputDir, name))
	if err != nil {
		return fmt.Errorf("visual: creating %s: %w", name, err)
	}
	defer f.Close()

	if err := scatter.Render(f); err != nil {
		return fmt.Errorf("visual: rendering %s: %w", name, err)
	}
	return nil
}
