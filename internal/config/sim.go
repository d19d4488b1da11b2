// Package config loads simulation tuning parameters from JSON files.
// All fields are pointers so partial configs are safe: omitted fields
// fall back to the defaults baked into the Get* accessors.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SimConfig represents the root configuration for a simulation run. The
// same schema covers the demo binary and test fixtures.
type SimConfig struct {
	// Simulation loop params
	StepDuration    *string  `json:"step_duration,omitempty"` // duration string like "1ms"
	DurationSeconds *float64 `json:"duration_seconds,omitempty"`

	// Sensor timing params
	UpdateRateHz            *float64 `json:"update_rate_hz,omitempty"`
	CollectionWindowSeconds *float64 `json:"collection_window_seconds,omitempty"`
	LagSeconds              *float64 `json:"lag_seconds,omitempty"`

	// Scan pattern params
	HorizontalSamples      *int     `json:"horizontal_samples,omitempty"`
	VerticalSamples        *int     `json:"vertical_samples,omitempty"`
	HorizontalFOVDegrees   *float64 `json:"horizontal_fov_degrees,omitempty"`
	MinVerticalDegrees     *float64 `json:"min_vertical_degrees,omitempty"`
	MaxVerticalDegrees     *float64 `json:"max_vertical_degrees,omitempty"`
	SampleRadius           *int     `json:"sample_radius,omitempty"`
	DivergenceAngleRadians *float64 `json:"divergence_angle_radians,omitempty"`

	// Noise params
	RangeNoiseStdDev     *float64 `json:"range_noise_std_dev,omitempty"`
	IntensityNoiseStdDev *float64 `json:"intensity_noise_std_dev,omitempty"`
	NoiseSeed            *int64   `json:"noise_seed,omitempty"`

	// Output params
	OutputDir   *string `json:"output_dir,omitempty"`
	SaveClouds  *bool   `json:"save_clouds,omitempty"`
	Visualize   *bool   `json:"visualize,omitempty"`
	DatabaseDSN *string `json:"database_dsn,omitempty"` // empty disables sqlite persistence
}

// EmptySimConfig returns a SimConfig with all fields set to nil.
func EmptySimConfig() *SimConfig {
	return &SimConfig{}
}

// LoadSimConfig loads a SimConfig from a JSON file. The file must have
// a .json extension and stay under the max file size. Fields omitted
// from the JSON retain their accessor defaults.
func LoadSimConfig(path string) (*SimConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptySimConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *SimConfig) Validate() error {
	if c.StepDuration != nil && *c.StepDuration != "" {
		if _, err := time.ParseDuration(*c.StepDuration); err != nil {
			return fmt.Errorf("invalid step_duration '%s': %w", *c.StepDuration, err)
		}
	}

	if c.DurationSeconds != nil && *c.DurationSeconds <= 0 {
		return fmt.Errorf("duration_seconds must be positive, got %f", *c.DurationSeconds)
	}

	if c.UpdateRateHz != nil && *c.UpdateRateHz <= 0 {
		return fmt.Errorf("update_rate_hz must be positive, got %f", *c.UpdateRateHz)
	}

	if c.CollectionWindowSeconds != nil && *c.CollectionWindowSeconds < 0 {
		return fmt.Errorf("collection_window_seconds must be non-negative, got %f", *c.CollectionWindowSeconds)
	}

	if c.LagSeconds != nil && *c.LagSeconds < 0 {
		return fmt.Errorf("lag_seconds must be non-negative, got %f", *c.LagSeconds)
	}

	if c.HorizontalSamples != nil && *c.HorizontalSamples <= 0 {
		return fmt.Errorf("horizontal_samples must be positive, got %d", *c.HorizontalSamples)
	}

	if c.VerticalSamples != nil && *c.VerticalSamples <= 0 {
		return fmt.Errorf("vertical_samples must be positive, got %d", *c.VerticalSamples)
	}

	if c.HorizontalFOVDegrees != nil {
		if *c.HorizontalFOVDegrees <= 0 || *c.HorizontalFOVDegrees > 360 {
			return fmt.Errorf("horizontal_fov_degrees must be in (0, 360], got %f", *c.HorizontalFOVDegrees)
		}
	}

	if c.MinVerticalDegrees != nil && c.MaxVerticalDegrees != nil {
		if *c.MaxVerticalDegrees < *c.MinVerticalDegrees {
			return fmt.Errorf("max_vertical_degrees %f below min_vertical_degrees %f",
				*c.MaxVerticalDegrees, *c.MinVerticalDegrees)
		}
	}

	if c.SampleRadius != nil && *c.SampleRadius < 1 {
		return fmt.Errorf("sample_radius must be at least 1, got %d", *c.SampleRadius)
	}

	if c.RangeNoiseStdDev != nil && *c.RangeNoiseStdDev < 0 {
		return fmt.Errorf("range_noise_std_dev must be non-negative, got %f", *c.RangeNoiseStdDev)
	}

	if c.IntensityNoiseStdDev != nil && *c.IntensityNoiseStdDev < 0 {
		return fmt.Errorf("intensity_noise_std_dev must be non-negative, got %f", *c.IntensityNoiseStdDev)
	}

	return nil
}

// GetStepDuration parses and returns the StepDuration as a time.Duration.
func (c *SimConfig) GetStepDuration() time.Duration {
	if c.StepDuration == nil || *c.StepDuration == "" {
		return time.Millisecond // default
	}
	d, err := time.ParseDuration(*c.StepDuration)
	if err != nil {
		return time.Millisecond // default on parse error
	}
	return d
}

// GetDurationSeconds returns the duration_seconds value or the default.
func (c *SimConfig) GetDurationSeconds() float64 {
	if c.DurationSeconds == nil {
		return 20.0
	}
	return *c.DurationSeconds
}

// GetUpdateRateHz returns the update_rate_hz value or the default.
func (c *SimConfig) GetUpdateRateHz() float64 {
	if c.UpdateRateHz == nil {
		return 5.0
	}
	return *c.UpdateRateHz
}

// GetCollectionWindowSeconds returns the collection_window_seconds value
// or the default. Zero means a full scan period.
func (c *SimConfig) GetCollectionWindowSeconds() float64 {
	if c.CollectionWindowSeconds == nil {
		return 0
	}
	return *c.CollectionWindowSeconds
}

// GetLagSeconds returns the lag_seconds value or the default.
func (c *SimConfig) GetLagSeconds() float64 {
	if c.LagSeconds == nil {
		return 0
	}
	return *c.LagSeconds
}

// GetHorizontalSamples returns the horizontal_samples value or the default.
func (c *SimConfig) GetHorizontalSamples() int {
	if c.HorizontalSamples == nil {
		return 900
	}
	return *c.HorizontalSamples
}

// GetVerticalSamples returns the vertical_samples value or the default.
func (c *SimConfig) GetVerticalSamples() int {
	if c.VerticalSamples == nil {
		return 30
	}
	return *c.VerticalSamples
}

// GetHorizontalFOVDegrees returns the horizontal_fov_degrees value or the default.
func (c *SimConfig) GetHorizontalFOVDegrees() float64 {
	if c.HorizontalFOVDegrees == nil {
		return 360.0
	}
	return *c.HorizontalFOVDegrees
}

// GetMinVerticalDegrees returns the min_vertical_degrees value or the default.
func (c *SimConfig) GetMinVerticalDegrees() float64 {
	if c.MinVerticalDegrees == nil {
		return -30.0
	}
	return *c.MinVerticalDegrees
}

// GetMaxVerticalDegrees returns the max_vertical_degrees value or the default.
func (c *SimConfig) GetMaxVerticalDegrees() float64 {
	if c.MaxVerticalDegrees == nil {
		return 15.0
	}
	return *c.MaxVerticalDegrees
}

// GetSampleRadius returns the sample_radius value or the default.
func (c *SimConfig) GetSampleRadius() int {
	if c.SampleRadius == nil {
		return 2
	}
	return *c.SampleRadius
}

// GetDivergenceAngleRadians returns the divergence_angle_radians value or the default.
func (c *SimConfig) GetDivergenceAngleRadians() float64 {
	if c.DivergenceAngleRadians == nil {
		return 0.003
	}
	return *c.DivergenceAngleRadians
}

// GetRangeNoiseStdDev returns the range_noise_std_dev value or the default.
func (c *SimConfig) GetRangeNoiseStdDev() float64 {
	if c.RangeNoiseStdDev == nil {
		return 0.01
	}
	return *c.RangeNoiseStdDev
}

// GetIntensityNoiseStdDev returns the intensity_noise_std_dev value or the default.
func (c *SimConfig) GetIntensityNoiseStdDev() float64 {
	if c.IntensityNoiseStdDev == nil {
		return 0
	}
	return *c.IntensityNoiseStdDev
}

// GetNoiseSeed returns the noise_seed value or the default.
func (c *SimConfig) GetNoiseSeed() int64 {
	if c.NoiseSeed == nil {
		return 1
	}
	return *c.NoiseSeed
}

// GetOutputDir returns the output_dir value or the default.
func (c *SimConfig) GetOutputDir() string {
	if c.OutputDir == nil || *c.OutputDir == "" {
		return "scansim_out"
	}
	return *c.OutputDir
}

// GetSaveClouds returns the save_clouds value or the default.
func (c *SimConfig) GetSaveClouds() bool {
	if c.SaveClouds == nil {
		return false
	}
	return *c.SaveClouds
}

// GetVisualize returns the visualize value or the default.
func (c *SimConfig) GetVisualize() bool {
	if c.Visualize == nil {
		return false
	}
	return *c.Visualize
}

// GetDatabaseDSN returns the database_dsn value or the default.
func (c *SimConfig) GetDatabaseDSN() string {
	if c.DatabaseDSN == nil {
		return ""
	}
	return *c.DatabaseDSN
}
