package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sim.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestEmptyConfigDefaults(t *testing.T) {
	cfg := EmptySimConfig()

	if got := cfg.GetStepDuration(); got != time.Millisecond {
		t.Errorf("GetStepDuration() = %v, want 1ms", got)
	}
	if got := cfg.GetUpdateRateHz(); got != 5.0 {
		t.Errorf("GetUpdateRateHz() = %v, want 5", got)
	}
	if got := cfg.GetHorizontalSamples(); got != 900 {
		t.Errorf("GetHorizontalSamples() = %v, want 900", got)
	}
	if got := cfg.GetDivergenceAngleRadians(); got != 0.003 {
		t.Errorf("GetDivergenceAngleRadians() = %v, want 0.003", got)
	}
	if got := cfg.GetOutputDir(); got != "scansim_out" {
		t.Errorf("GetOutputDir() = %q, want scansim_out", got)
	}
	if cfg.GetSaveClouds() || cfg.GetVisualize() {
		t.Error("persistence and visualization should default off")
	}
}

func TestLoadPartialConfig(t *testing.T) {
	path := writeConfigFile(t, `{
		"update_rate_hz": 10,
		"sample_radius": 3,
		"step_duration": "2ms"
	}`)

	cfg, err := LoadSimConfig(path)
	if err != nil {
		t.Fatalf("LoadSimConfig: %v", err)
	}

	if got := cfg.GetUpdateRateHz(); got != 10 {
		t.Errorf("GetUpdateRateHz() = %v, want 10", got)
	}
	if got := cfg.GetSampleRadius(); got != 3 {
		t.Errorf("GetSampleRadius() = %v, want 3", got)
	}
	if got := cfg.GetStepDuration(); got != 2*time.Millisecond {
		t.Errorf("GetStepDuration() = %v, want 2ms", got)
	}
	// Omitted fields keep their defaults.
	if got := cfg.GetVerticalSamples(); got != 30 {
		t.Errorf("GetVerticalSamples() = %v, want 30", got)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name     string
		contents string
	}{
		{"negative rate", `{"update_rate_hz": -1}`},
		{"zero samples", `{"horizontal_samples": 0}`},
		{"fov too wide", `{"horizontal_fov_degrees": 400}`},
		{"inverted vertical span", `{"min_vertical_degrees": 10, "max_vertical_degrees": -10}`},
		{"zero radius", `{"sample_radius": 0}`},
		{"negative lag", `{"lag_seconds": -0.1}`},
		{"bad duration", `{"step_duration": "fast"}`},
		{"malformed json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfigFile(t, tc.contents)
			if _, err := LoadSimConfig(path); err == nil {
				t.Errorf("LoadSimConfig accepted %s", tc.contents)
			}
		})
	}
}

func TestLoadRejectsNonJSONExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSimConfig(path); err == nil {
		t.Error("LoadSimConfig accepted a non-JSON extension")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := LoadSimConfig(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("LoadSimConfig accepted a missing file")
	}
}
