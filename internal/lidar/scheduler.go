package lidar

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// CyclePhase is the externally observable state of a sensor's scan cycle.
type CyclePhase int

const (
	// PhaseIdle means the next cycle boundary has not been reached.
	PhaseIdle CyclePhase = iota
	// PhaseCollecting means a cycle has launched but its collection
	// window has not yet elapsed.
	PhaseCollecting
	// PhaseProcessing means samples are collected and at least one
	// completed buffer is waiting out its lag before publication.
	PhaseProcessing
	// PhasePublished means the most recent cycle's buffers are visible.
	PhasePublished
)

// String returns a short lower-case name for logging.
func (p CyclePhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCollecting:
		return "collecting"
	case PhaseProcessing:
		return "processing"
	case PhasePublished:
		return "published"
	default:
		return "unknown"
	}
}

// publishSlots are the single-writer multi-reader most-recent-buffer slots.
// The scheduler swaps whole buffers in; readers load atomically and never
// observe a partial write.
type publishSlots struct {
	di   atomic.Pointer[DIBuffer]
	xyzi atomic.Pointer[XYZIBuffer]
}

// pendingResult is a completed cycle waiting out its lag before it becomes
// visible to consumers.
type pendingResult struct {
	launchSeconds    float64
	visibleAtSeconds float64
	di               *DIBuffer
	xyzi             *XYZIBuffer
}

// scheduler owns one sensor's cycle timing. Timing model: a cycle launches
// when simulation time crosses a cycle boundary (multiples of the period
// from registration time); the scene is sampled once at launch +
// collection window, collapsing the window to its end instant; the
// resulting buffers become visible lag seconds after collection ends.
// Publication order is monotone in launch time per sensor.
type scheduler struct {
	sensor *Sensor

	nextLaunchSeconds float64
	cycleIndex        int64
	phase             CyclePhase
	pending           []pendingResult
	slots             publishSlots

	// lastPublishedLaunch guards the monotone publication invariant.
	lastPublishedLaunch float64
	publishedAny        bool
}

// timeEpsilon absorbs the accumulation error of summed fixed physics steps
// so a cycle boundary is not missed by one step's rounding.
const timeEpsilon = 1e-9

func newScheduler(s *Sensor, firstLaunchSeconds float64) *scheduler {
	return &scheduler{
		sensor:            s,
		nextLaunchSeconds: firstLaunchSeconds,
		phase:             PhaseIdle,
	}
}

// advance drives the cycle state machine up to simulation time now. It runs
// every collection whose window has elapsed, then publishes every pending
// result whose lag has elapsed. A filter chain failure aborts that cycle
// for this sensor only.
func (sch *scheduler) advance(sc Scene, nowSeconds float64) {
	s := sch.sensor
	period := s.PeriodSeconds()

	for nowSeconds+timeEpsilon >= sch.nextLaunchSeconds+s.collectionWindow {
		launch := sch.nextLaunchSeconds
		sch.runCycle(sc, launch)
		sch.nextLaunchSeconds = launch + period
	}

	if nowSeconds+timeEpsilon >= sch.nextLaunchSeconds {
		sch.phase = PhaseCollecting
	}

	sch.flush(nowSeconds)
}

// runCycle samples the scene at the cycle's collection instant and executes
// the filter chain.
func (sch *scheduler) runCycle(sc Scene, launchSeconds float64) {
	s := sch.sensor
	sampleTime := launchSeconds + s.collectionWindow
	sch.phase = PhaseProcessing

	bodyPose, err := sc.BodyPose(s.body, sampleTime)
	if err != nil {
		// Without a mount pose every beam is a no-return; treat the whole
		// cycle as a degraded scene query rather than aborting.
		Logf("sensor %s cycle %d: mount pose unavailable: %v", s.name, sch.cycleIndex, err)
		bodyPose = s.offset // best effort: sensor frame only
	}
	sensorPose := bodyPose.Compose(s.offset)

	di := &DIBuffer{
		Width:         s.scan.HorizontalSamples,
		Height:        s.scan.VerticalSamples,
		LaunchSeconds: launchSeconds,
		Valid:         true,
		Data:          make([]DISample, s.scan.BeamCount()),
	}
	if failures := sampleScan(sc, sensorPose, &s.scan, s.beams, s.pattern, sampleTime, di.Data); failures > 0 {
		Logf("sensor %s cycle %d: %d scene queries failed, affected sub-rays recorded as no-return",
			s.name, sch.cycleIndex, failures)
	}

	st := &State{
		SensorName:    s.name,
		CycleID:       uuid.NewString(),
		CycleIndex:    sch.cycleIndex,
		LaunchSeconds: launchSeconds,
		Width:         di.Width,
		Height:        di.Height,
		Beams:         s.beams,
		DI:            di,
	}
	sch.cycleIndex++

	if err := runChain(s.filters, st); err != nil {
		Logf("sensor %s cycle %d aborted: %v", s.name, st.CycleIndex, err)
		sch.phase = PhaseIdle
		return
	}

	if st.OutDI == nil && st.OutXYZI == nil {
		// No access filter staged anything; nothing becomes visible.
		sch.phase = PhaseIdle
		return
	}
	sch.pending = append(sch.pending, pendingResult{
		launchSeconds:    launchSeconds,
		visibleAtSeconds: sampleTime + s.lag,
		di:               st.OutDI,
		xyzi:             st.OutXYZI,
	})
}

// flush publishes pending results whose visibility time has arrived, in
// launch order.
func (sch *scheduler) flush(nowSeconds float64) {
	n := 0
	for _, p := range sch.pending {
		if p.visibleAtSeconds > nowSeconds+timeEpsilon {
			break
		}
		sch.publish(p)
		n++
	}
	if n > 0 {
		sch.pending = append(sch.pending[:0], sch.pending[n:]...)
		sch.phase = PhasePublished
	} else if len(sch.pending) > 0 && sch.phase != PhaseCollecting {
		sch.phase = PhaseProcessing
	}
}

func (sch *scheduler) publish(p pendingResult) {
	if sch.publishedAny && p.launchSeconds < sch.lastPublishedLaunch {
		// pending is kept in launch order; an earlier launch here is a
		// scheduler bug. Drop it rather than break publication ordering.
		Logf("sensor %s: dropping out-of-order buffer (launch %v < %v)",
			sch.sensor.name, p.launchSeconds, sch.lastPublishedLaunch)
		return
	}
	if p.di != nil {
		sch.slots.di.Store(p.di)
	}
	if p.xyzi != nil {
		sch.slots.xyzi.Store(p.xyzi)
	}
	sch.lastPublishedLaunch = p.launchSeconds
	sch.publishedAny = true
}

// discardPending drops in-flight results during teardown. Published slots
// stay valid for readers.
func (sch *scheduler) discardPending() {
	sch.pending = nil
	sch.phase = PhaseIdle
}
