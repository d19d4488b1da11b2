package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/banshee-data/scansim/internal/lidar"
)

// CSVWriter writes one CSV file per published cycle into a directory, named
// by sensor and cycle sequence. Files carry an x,y,z,intensity header.
type CSVWriter struct {
	dir string

	mu   sync.Mutex
	seqs map[string]int // per-sensor file counter
}

// NewCSVWriter creates the output directory if needed.
func NewCSVWriter(dir string) (*CSVWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: creating csv output dir: %w", err)
	}
	return &CSVWriter{dir: dir, seqs: make(map[string]int)}, nil
}

// WriteCloud implements lidar.CloudWriter. No-return samples are skipped.
func (w *CSVWriter) WriteCloud(sensorName, cycleID string, launchSeconds float64, buf *lidar.XYZIBuffer) error {
	if buf == nil || !buf.Valid {
		return fmt.Errorf("store: refusing to persist invalid buffer")
	}

	w.mu.Lock()
	seq := w.seqs[sensorName]
	w.seqs[sensorName] = seq + 1
	w.mu.Unlock()

	name := fmt.Sprintf("%s_frame_%06d.csv", sensorName, seq)
	f, err := os.Create(filepath.Join(w.dir, name))
	if err != nil {
		return fmt.Errorf("store: creating %s: %w", name, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"x", "y", "z", "intensity"}); err != nil {
		return err
	}
	for _, p := range buf.Data {
		if p.NoReturn() {
			continue
		}
		rec := []string{
			strconv.FormatFloat(float64(p.X), 'g', -1, 32),
			strconv.FormatFloat(float64(p.Y), 'g', -1, 32),
			strconv.FormatFloat(float64(p.Z), 'g', -1, 32),
			strconv.FormatFloat(float64(p.Intensity), 'g', -1, 32),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("store: writing %s: %w", name, err)
	}
	return f.Sync()
}
