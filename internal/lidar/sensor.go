package lidar

import (
	"fmt"

	"github.com/banshee-data/scansim/internal/geom"
	"github.com/banshee-data/scansim/internal/scene"
	"github.com/banshee-data/scansim/internal/units"
)

// SensorConfig bundles everything needed to construct a Sensor.
type SensorConfig struct {
	// Name identifies the sensor in logs and persistence.
	Name string
	// Body is the scene body the sensor is mounted on.
	Body scene.BodyID
	// Offset is the sensor's pose relative to the mount body.
	Offset geom.Pose
	// Scan is the scan geometry and beam model.
	Scan ScanConfig
	// UpdateRateHz is the scan cycle rate; the cycle period is its
	// inverse.
	UpdateRateHz float64
	// CollectionWindowSeconds is the simulated duration over which a
	// cycle's samples are considered captured. Zero defaults to the full
	// cycle period. Must not exceed the period.
	CollectionWindowSeconds float64
	// LagSeconds delays a completed buffer's visibility to consumers,
	// modeling processing latency. Must be non-negative.
	LagSeconds float64
}

// Sensor is one simulated scanning lidar: immutable scan configuration, a
// mount on a scene body, an ordered filter chain and scheduling
// parameters. Create with NewSensor, attach filters with PushFilter, then
// register with a SensorManager before the first Update.
type Sensor struct {
	name             string
	body             scene.BodyID
	offset           geom.Pose
	scan             ScanConfig
	updateRateHz     float64
	collectionWindow float64
	lag              float64

	filters []Filter
	beams   []geom.Vec3
	pattern []subRayOffset

	sched *scheduler
}

// NewSensor validates the configuration and precomputes the scan pattern.
// Configuration errors are fatal: they reject construction and wrap
// ErrInvalidConfig.
func NewSensor(cfg SensorConfig) (*Sensor, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("%w: sensor name must not be empty", ErrInvalidConfig)
	}
	if cfg.Scan.SampleRadius == 0 {
		cfg.Scan.SampleRadius = DefaultSampleRadius
	}
	if cfg.Scan.SampleRadius > 1 && cfg.Scan.DivergenceAngleRadians == 0 {
		cfg.Scan.DivergenceAngleRadians = DefaultDivergenceAngle
	}
	if err := cfg.Scan.Validate(); err != nil {
		return nil, err
	}
	if cfg.UpdateRateHz <= 0 {
		return nil, fmt.Errorf("%w: update rate must be positive, got %v", ErrInvalidConfig, cfg.UpdateRateHz)
	}
	period := units.PeriodSeconds(cfg.UpdateRateHz)
	if cfg.CollectionWindowSeconds == 0 {
		cfg.CollectionWindowSeconds = period
	}
	if cfg.CollectionWindowSeconds < 0 || cfg.CollectionWindowSeconds > period+1e-12 {
		return nil, fmt.Errorf("%w: collection window %vs must be in [0, %vs]",
			ErrInvalidConfig, cfg.CollectionWindowSeconds, period)
	}
	if cfg.LagSeconds < 0 {
		return nil, fmt.Errorf("%w: lag must be non-negative, got %v", ErrInvalidConfig, cfg.LagSeconds)
	}
	if cfg.Offset.Rot == (geom.Quat{}) {
		cfg.Offset.Rot = geom.QuatIdentity()
	}

	return &Sensor{
		name:             cfg.Name,
		body:             cfg.Body,
		offset:           cfg.Offset,
		scan:             cfg.Scan,
		updateRateHz:     cfg.UpdateRateHz,
		collectionWindow: cfg.CollectionWindowSeconds,
		lag:              cfg.LagSeconds,
		beams:            BeamDirections(&cfg.Scan),
		pattern:          subRayPattern(cfg.Scan.SampleRadius),
	}, nil
}

// Name returns the sensor's identifier.
func (s *Sensor) Name() string { return s.name }

// Scan returns a copy of the immutable scan configuration.
func (s *Sensor) Scan() ScanConfig { return s.scan }

// PeriodSeconds returns the scan cycle period.
func (s *Sensor) PeriodSeconds() float64 { return units.PeriodSeconds(s.updateRateHz) }

// PushFilter appends a stage to the sensor's filter chain. Stages run
// strictly in push order once per scan cycle. Must not be called after the
// sensor has been registered with a manager.
func (s *Sensor) PushFilter(f Filter) {
	if f == nil {
		return
	}
	if s.sched != nil {
		Logf("sensor %s: PushFilter after registration ignored", s.name)
		return
	}
	s.filters = append(s.filters, f)
}

// Phase returns the sensor's current cycle phase. PhaseIdle before
// registration.
func (s *Sensor) Phase() CyclePhase {
	if s.sched == nil {
		return PhaseIdle
	}
	return s.sched.phase
}

// MostRecentDIBuffer returns the latest published depth/intensity buffer.
// Non-blocking and safe to call from any goroutine; before the first
// publication it returns an invalid zero buffer. The returned buffer is a
// published snapshot and must be treated as read-only.
func (s *Sensor) MostRecentDIBuffer() *DIBuffer {
	if s.sched == nil {
		return &DIBuffer{}
	}
	if buf := s.sched.slots.di.Load(); buf != nil {
		return buf
	}
	return &DIBuffer{}
}

// MostRecentXYZIBuffer returns the latest published point cloud buffer,
// with the same semantics as MostRecentDIBuffer.
func (s *Sensor) MostRecentXYZIBuffer() *XYZIBuffer {
	if s.sched == nil {
		return &XYZIBuffer{}
	}
	if buf := s.sched.slots.xyzi.Load(); buf != nil {
		return buf
	}
	return &XYZIBuffer{}
}
