// Package config holds the planner's construction-time configuration.
//
// Values are compiled-in defaults optionally overlaid by a YAML file. Configuration is
// read once at startup; nothing here changes while the control loop runs.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cxd309/longplan/internal/blend"
	"github.com/cxd309/longplan/internal/transition"
)

// AccelMin is the most negative acceleration the vehicle interface allows (m/s²).
const AccelMin = -3.5

// AccelMax is the most positive acceleration the vehicle interface allows (m/s²).
const AccelMax = 2.0

// ModelDT is the control period of the planning loop in seconds.
const ModelDT = 0.05

// ErrAccelMinUnset is returned when accel_min is zero or missing.
var ErrAccelMinUnset = errors.New("accel_min is zero or unset")

// Config is the planner configuration.
type Config struct {
	// Smoothing window length in control cycles.
	TransitionSteps int `yaml:"transition_steps" json:"transition_steps"`

	// Blend law parameters.
	Steepness      float64 `yaml:"steepness" json:"steepness"`
	Midpoint       float64 `yaml:"midpoint" json:"midpoint"`
	SpeedThreshold float64 `yaml:"speed_threshold" json:"speed_threshold"` // m/s

	AccelMin float64 `yaml:"accel_min" json:"accel_min"` // m/s², negative
	AccelMax float64 `yaml:"accel_max" json:"accel_max"` // m/s²

	DT float64 `yaml:"dt" json:"dt"` // seconds per control cycle
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		TransitionSteps: transition.DefaultSteps,
		Steepness:       blend.DefaultSteepness,
		Midpoint:        blend.DefaultMidpoint,
		SpeedThreshold:  blend.DefaultSpeedThreshold,
		AccelMin:        AccelMin,
		AccelMax:        AccelMax,
		DT:              ModelDT,
	}
}

// Load reads a YAML file and overlays it on Default. The result is validated.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse overlays YAML data on Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first configuration error found.
func (c Config) Validate() error {
	switch {
	case c.AccelMin == 0 || math.IsNaN(c.AccelMin):
		return ErrAccelMinUnset
	case c.AccelMin > 0:
		return fmt.Errorf("accel_min must be negative, got %v", c.AccelMin)
	case c.AccelMax <= 0:
		return fmt.Errorf("accel_max must be positive, got %v", c.AccelMax)
	case c.TransitionSteps <= 0:
		return fmt.Errorf("transition_steps must be positive, got %d", c.TransitionSteps)
	case c.Steepness <= 0:
		return fmt.Errorf("steepness must be positive, got %v", c.Steepness)
	case c.Midpoint < 0 || c.Midpoint > 1:
		return fmt.Errorf("midpoint must be within [0, 1], got %v", c.Midpoint)
	case c.SpeedThreshold < 0:
		return fmt.Errorf("speed_threshold must not be negative, got %v", c.SpeedThreshold)
	case c.DT <= 0:
		return fmt.Errorf("dt must be positive, got %v", c.DT)
	}
	return nil
}

// BlendLaw returns the blend parameters described by c.
func (c Config) BlendLaw() blend.Law {
	return blend.Law{
		Steepness:      c.Steepness,
		Midpoint:       c.Midpoint,
		SpeedThreshold: c.SpeedThreshold,
		AccelMin:       c.AccelMin,
	}
}
