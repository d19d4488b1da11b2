package lidar

import (
	"fmt"
	"sync"
)

// SensorManager owns the simulation clock and a set of registered sensors,
// advancing them in lockstep with the physics loop. Update order is
// registration order, so runs are reproducible. Buffer queries go through
// the sensors' publish slots and never block.
type SensorManager struct {
	scene Scene

	mu          sync.Mutex
	sensors     []*Sensor
	timeSeconds float64
	closed      bool
}

// NewSensorManager creates a manager over the given scene collaborator.
func NewSensorManager(sc Scene) *SensorManager {
	return &SensorManager{scene: sc}
}

// AddSensor registers a sensor. The sensor's first cycle boundary is the
// current simulation time. A sensor can belong to at most one manager.
func (m *SensorManager) AddSensor(s *Sensor) error {
	if s == nil {
		return fmt.Errorf("lidar: cannot register nil sensor")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("lidar: manager is closed")
	}
	if s.sched != nil {
		return fmt.Errorf("lidar: sensor %s is already registered", s.name)
	}
	s.sched = newScheduler(s, m.timeSeconds)
	m.sensors = append(m.sensors, s)
	return nil
}

// Update advances simulation time by stepSeconds and drives every sensor
// whose cycle boundary has been crossed: ray sampling, filter chain
// execution and lag-delayed publication all happen here, against the
// simulated clock. Call once per physics step.
func (m *SensorManager) Update(stepSeconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || stepSeconds <= 0 {
		return
	}
	m.timeSeconds += stepSeconds
	for _, s := range m.sensors {
		s.sched.advance(m.scene, m.timeSeconds)
	}
}

// TimeSeconds returns the current simulation time.
func (m *SensorManager) TimeSeconds() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timeSeconds
}

// Sensors returns the registered sensors in registration order.
func (m *SensorManager) Sensors() []*Sensor {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Sensor, len(m.sensors))
	copy(out, m.sensors)
	return out
}

// MostRecentDIBuffer returns the latest published depth/intensity buffer
// for a sensor; an invalid zero buffer before the first publication.
// Non-blocking.
func (m *SensorManager) MostRecentDIBuffer(s *Sensor) *DIBuffer {
	if s == nil {
		return &DIBuffer{}
	}
	return s.MostRecentDIBuffer()
}

// MostRecentXYZIBuffer returns the latest published point cloud buffer for
// a sensor; an invalid zero buffer before the first publication.
// Non-blocking.
func (m *SensorManager) MostRecentXYZIBuffer(s *Sensor) *XYZIBuffer {
	if s == nil {
		return &XYZIBuffer{}
	}
	return s.MostRecentXYZIBuffer()
}

// Close stops the manager. In-flight (lagged, unpublished) cycle results
// are discarded; already-published buffers remain readable. Subsequent
// Update and AddSensor calls are no-ops/errors.
func (m *SensorManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	for _, s := range m.sensors {
		s.sched.discardPending()
	}
}
