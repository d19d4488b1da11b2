package lidar

import (
	"errors"
	"math"
	"testing"

	"github.com/banshee-data/scansim/internal/geom"
	"github.com/banshee-data/scansim/internal/scene"
)

// shellScene reports every ray hitting at a fixed range, like a spherical
// shell centred on the sensor. Useful for all-beam range assertions.
type shellScene struct {
	rangeMeters float64
	reflectance float64
}

func (s shellScene) CastRay(timeSeconds float64, origin, dir geom.Vec3) (scene.Hit, bool, error) {
	return scene.Hit{RangeMeters: s.rangeMeters, Reflectance: s.reflectance}, true, nil
}

func (s shellScene) BodyPose(id scene.BodyID, timeSeconds float64) (geom.Pose, error) {
	return geom.PoseIdentity(), nil
}

// missScene never hits anything.
type missScene struct{}

func (missScene) CastRay(timeSeconds float64, origin, dir geom.Vec3) (scene.Hit, bool, error) {
	return scene.Hit{}, false, nil
}

func (missScene) BodyPose(id scene.BodyID, timeSeconds float64) (geom.Pose, error) {
	return geom.PoseIdentity(), nil
}

// scriptScene answers casts from a fixed script in call order; entries with
// fail=true return an error, entries with miss=true return no hit.
type scriptScene struct {
	script []scriptEntry
	calls  int
}

type scriptEntry struct {
	rangeMeters float64
	reflectance float64
	miss        bool
	fail        bool
}

func (s *scriptScene) CastRay(timeSeconds float64, origin, dir geom.Vec3) (scene.Hit, bool, error) {
	e := s.script[s.calls%len(s.script)]
	s.calls++
	if e.fail {
		return scene.Hit{}, false, errors.New("scene query failed")
	}
	if e.miss {
		return scene.Hit{}, false, nil
	}
	return scene.Hit{RangeMeters: e.rangeMeters, Reflectance: e.reflectance}, true, nil
}

func (s *scriptScene) BodyPose(id scene.BodyID, timeSeconds float64) (geom.Pose, error) {
	return geom.PoseIdentity(), nil
}

func runKernel(t *testing.T, sc Scene, cfg ScanConfig) []DISample {
	t.Helper()
	if cfg.SampleRadius == 0 {
		cfg.SampleRadius = 1
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}
	beams := BeamDirections(&cfg)
	out := make([]DISample, len(beams))
	sampleScan(sc, geom.PoseIdentity(), &cfg, beams, subRayPattern(cfg.SampleRadius), 0, out)
	return out
}

func TestSingleRayKernelMatchesDirectCast(t *testing.T) {
	// Radius 1 must be exactly a single ray cast per beam: compare the
	// kernel against direct scene queries over a real world.
	w := scene.NewWorld()
	w.AddBody(scene.Body{
		Name:        "ground",
		Shape:       scene.Plane{Point: geom.Vec3{Z: -3}, Normal: geom.Vec3{Z: 1}},
		Reflectance: 0.8,
	})

	cfg := testScan(36, 4)
	out := runKernel(t, w, cfg)

	beams := BeamDirections(&cfg)
	for i, d := range beams {
		hit, ok, err := w.CastRay(0, geom.Vec3{}, d)
		if err != nil {
			t.Fatalf("direct cast: %v", err)
		}
		if !ok {
			if !out[i].NoReturn() {
				t.Fatalf("beam %d: kernel hit where direct cast missed", i)
			}
			continue
		}
		if math.Abs(float64(out[i].RangeMeters)-hit.RangeMeters) > 1e-6 {
			t.Fatalf("beam %d: kernel range %v, direct cast %v", i, out[i].RangeMeters, hit.RangeMeters)
		}
		if out[i].Intensity != hitIntensity(hit.Reflectance, hit.RangeMeters) {
			t.Fatalf("beam %d: kernel intensity %v differs from direct cast", i, out[i].Intensity)
		}
	}
}

func TestAllBeamsReportShellRange(t *testing.T) {
	const d = 5.0
	cfg := testScan(90, 16)
	out := runKernel(t, shellScene{rangeMeters: d, reflectance: 0.9}, cfg)

	for i, s := range out {
		if s.NoReturn() {
			t.Fatalf("beam %d: unexpected no-return", i)
		}
		if math.Abs(float64(s.RangeMeters)-d) > 1e-5 {
			t.Fatalf("beam %d: range %v, want %v", i, s.RangeMeters, d)
		}
		if s.Intensity <= NoReturnEpsilon {
			t.Fatalf("beam %d: intensity %v not above no-return epsilon", i, s.Intensity)
		}
	}
}

func TestReturnModeReduction(t *testing.T) {
	// Radius 2 casts 9 sub-rays per beam. Script 9 distinct hits; the
	// nearest is not the strongest so the modes disagree.
	script := []scriptEntry{
		{rangeMeters: 9, reflectance: 0.1},
		{rangeMeters: 1, reflectance: 0.2},
		{rangeMeters: 2, reflectance: 0.3},
		{rangeMeters: 3, reflectance: 0.95}, // strongest: close and bright
		{rangeMeters: 4, reflectance: 0.1},
		{rangeMeters: 5, reflectance: 0.1},
		{rangeMeters: 6, reflectance: 0.1},
		{rangeMeters: 7, reflectance: 0.1},
		{rangeMeters: 8, reflectance: 0.1},
	}

	base := ScanConfig{
		HorizontalSamples:      1,
		VerticalSamples:        1,
		HorizontalFOVRadians:   math.Pi,
		SampleRadius:           2,
		DivergenceAngleRadians: 0.003,
	}

	cases := []struct {
		mode      ReturnMode
		wantRange float32
	}{
		{FirstReturn, 1},
		{LastReturn, 9},
		{StrongestReturn, 3},
	}
	for _, c := range cases {
		cfg := base
		cfg.Mode = c.mode
		out := runKernel(t, &scriptScene{script: script}, cfg)
		if out[0].RangeMeters != c.wantRange {
			t.Errorf("mode %v: range %v, want %v", c.mode, out[0].RangeMeters, c.wantRange)
		}
	}

	// Mean: averages of all 9 hits.
	cfg := base
	cfg.Mode = MeanReturn
	out := runKernel(t, &scriptScene{script: script}, cfg)
	var wantRange, wantInt float64
	for _, e := range script {
		wantRange += e.rangeMeters
		wantInt += float64(hitIntensity(e.reflectance, e.rangeMeters))
	}
	wantRange /= 9
	wantInt /= 9
	if math.Abs(float64(out[0].RangeMeters)-wantRange) > 1e-5 {
		t.Errorf("mean range %v, want %v", out[0].RangeMeters, wantRange)
	}
	if math.Abs(float64(out[0].Intensity)-wantInt) > 1e-5 {
		t.Errorf("mean intensity %v, want %v", out[0].Intensity, wantInt)
	}
}

func TestMeanReturnOverIdenticalHits(t *testing.T) {
	cfg := ScanConfig{
		HorizontalSamples:      2,
		VerticalSamples:        1,
		HorizontalFOVRadians:   math.Pi,
		SampleRadius:           3,
		DivergenceAngleRadians: 0.003,
		Mode:                   MeanReturn,
	}
	out := runKernel(t, shellScene{rangeMeters: 7.5, reflectance: 0.6}, cfg)

	want := hitIntensity(0.6, 7.5)
	for i, s := range out {
		if math.Abs(float64(s.RangeMeters)-7.5) > 1e-5 {
			t.Fatalf("beam %d: mean over identical hits changed range: %v", i, s.RangeMeters)
		}
		if math.Abs(float64(s.Intensity-want)) > 1e-6 {
			t.Fatalf("beam %d: mean over identical hits changed intensity: %v", i, s.Intensity)
		}
	}
}

func TestNoHitsYieldNoReturn(t *testing.T) {
	cfg := testScan(8, 2)
	cfg.SampleRadius = 2
	cfg.DivergenceAngleRadians = 0.003
	cfg.Mode = MeanReturn
	out := runKernel(t, missScene{}, cfg)

	for i, s := range out {
		if !s.NoReturn() {
			t.Fatalf("beam %d: expected no-return, got %+v", i, s)
		}
		if !math.IsNaN(float64(s.RangeMeters)) {
			t.Fatalf("beam %d: no-return range should be NaN, got %v", i, s.RangeMeters)
		}
	}
}

func TestSceneQueryFailureDegradesToNoReturn(t *testing.T) {
	// First sub-ray of each beam fails, the rest hit. The beam must still
	// produce a measurement and the failure must be counted, not fatal.
	script := make([]scriptEntry, 9)
	script[0] = scriptEntry{fail: true}
	for i := 1; i < 9; i++ {
		script[i] = scriptEntry{rangeMeters: 4, reflectance: 0.5}
	}

	cfg := ScanConfig{
		HorizontalSamples:      1,
		VerticalSamples:        1,
		HorizontalFOVRadians:   math.Pi,
		SampleRadius:           2,
		DivergenceAngleRadians: 0.003,
		Mode:                   MeanReturn,
	}
	beams := BeamDirections(&cfg)
	out := make([]DISample, 1)
	failures := sampleScan(&scriptScene{script: script}, geom.PoseIdentity(), &cfg, beams, subRayPattern(2), 0, out)

	if failures != 1 {
		t.Fatalf("expected 1 counted failure, got %d", failures)
	}
	if out[0].NoReturn() {
		t.Fatal("beam should still measure from the surviving sub-rays")
	}
	if math.Abs(float64(out[0].RangeMeters)-4) > 1e-6 {
		t.Fatalf("range %v, want 4", out[0].RangeMeters)
	}

	// All sub-rays failing degrades the beam to no-return.
	allFail := []scriptEntry{{fail: true}}
	failures = sampleScan(&scriptScene{script: allFail}, geom.PoseIdentity(), &cfg, beams, subRayPattern(2), 0, out)
	if failures != 9 {
		t.Fatalf("expected 9 counted failures, got %d", failures)
	}
	if !out[0].NoReturn() {
		t.Fatal("beam with no surviving sub-rays should be no-return")
	}
}
