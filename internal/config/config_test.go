package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 20, cfg.TransitionSteps)
	assert.Equal(t, 3.0, cfg.Steepness)
	assert.Equal(t, 0.5, cfg.Midpoint)
	assert.Equal(t, 5.0, cfg.SpeedThreshold)
	assert.Equal(t, -3.5, cfg.AccelMin)

	law := cfg.BlendLaw()
	assert.Equal(t, cfg.AccelMin, law.AccelMin)
	assert.Equal(t, cfg.Steepness, law.Steepness)
	require.NoError(t, law.Validate())
}

func TestParse_OverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte("transition_steps: 40\naccel_min: -4.0\n"))
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.TransitionSteps)
	assert.Equal(t, -4.0, cfg.AccelMin)
	assert.Equal(t, 3.0, cfg.Steepness)
	assert.Equal(t, 0.05, cfg.DT)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{name: "zero accel_min", yaml: "accel_min: 0\n", wantErr: ErrAccelMinUnset},
		{name: "positive accel_min", yaml: "accel_min: 1.5\n"},
		{name: "zero steps", yaml: "transition_steps: 0\n"},
		{name: "negative steepness", yaml: "steepness: -1\n"},
		{name: "midpoint above one", yaml: "midpoint: 1.2\n"},
		{name: "negative speed threshold", yaml: "speed_threshold: -0.1\n"},
		{name: "zero dt", yaml: "dt: 0\n"},
		{name: "zero accel_max", yaml: "accel_max: 0\n"},
		{name: "malformed", yaml: "transition_steps: [1, 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planner.yaml")
	require.NoError(t, os.WriteFile(path, []byte("speed_threshold: 8\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8.0, cfg.SpeedThreshold)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
