package planner

import (
	"github.com/cxd309/longplan/internal/arbiter"
	"github.com/cxd309/longplan/internal/transition"
)

// Inputs is the read-only snapshot handed to the planner each cycle.
type Inputs struct {
	// Valid is set by the caller from upstream freshness checks and passed through.
	Valid bool `json:"valid"`

	LongActive     bool    `json:"long_active"`
	VEgo           float64 `json:"v_ego"`            // m/s
	AEgo           float64 `json:"a_ego"`            // m/s²
	VCruise        float64 `json:"v_cruise"`         // m/s
	VCruiseCluster float64 `json:"v_cruise_cluster"` // m/s, as displayed

	MPCAccel float64 `json:"mpc_accel"` // m/s², from the MPC solver
	E2EAccel float64 `json:"e2e_accel"` // m/s², from the end-to-end path
}

// DECState is one cycle's view of the dynamic experimental controller.
type DECState struct {
	Enabled bool            `json:"enabled"`
	Active  bool            `json:"active"`
	Mode    transition.Mode `json:"state"`
}

// SpeedLimitStatus is the speed-limit controller telemetry carried on each plan.
type SpeedLimitStatus struct {
	State      string  `json:"state"`
	Enabled    bool    `json:"enabled"`
	Active     bool    `json:"active"`
	SpeedLimit float64 `json:"speedLimit"`       // m/s
	Offset     float64 `json:"speedLimitOffset"` // m/s
	Distance   float64 `json:"distToSpeedLimit"` // metres
	Source     string  `json:"source"`
}

// VisionStatus is the vision curve-speed controller telemetry carried on each plan.
type VisionStatus struct {
	State                    string  `json:"state"`
	VTarget                  float64 `json:"vTarget"`
	ATarget                  float64 `json:"aTarget"`
	CurrentLateralAccel      float64 `json:"currentLateralAccel"`
	MaxPredictedLateralAccel float64 `json:"maxPredictedLateralAccel"`
}

// Plan is the per-cycle output handed to the publish boundary.
type Plan struct {
	Valid bool     `json:"valid"`
	DEC   DECState `json:"dec"`

	TargetVelocity     float64          `json:"targetVelocity"`
	TargetAcceleration float64          `json:"targetAcceleration"`
	TargetSource       arbiter.SourceID `json:"targetSource"`

	FinalAcceleration  float64 `json:"finalAcceleration"`
	TransitionProgress float64 `json:"transitionProgress"`

	SpeedLimit SpeedLimitStatus `json:"slc"`
	Vision     VisionStatus     `json:"vision"`
}

// VisionController recommends a target for the road curvature ahead.
type VisionController interface {
	Update(in Inputs)
	Target() (v, a float64)
	Status() VisionStatus
}

// SpeedLimitController resolves the cruise speed implied by posted speed limits.
type SpeedLimitController interface {
	// Update returns the speed-limit cruise target for this cycle.
	Update(in Inputs) float64
	Status() SpeedLimitStatus
}

// ExperimentalController decides whether end-to-end blending is permitted and which
// planning mode is active.
type ExperimentalController interface {
	Update(in Inputs)
	Snapshot() DECState
}

// PersonalityController is refreshed once per cycle. Its effect is outside the core.
type PersonalityController interface {
	Update()
}

// Collaborators groups the external sub-controllers a Planner refreshes each cycle.
// Personality is optional.
type Collaborators struct {
	Vision      VisionController
	SpeedLimit  SpeedLimitController
	DEC         ExperimentalController
	Personality PersonalityController
}
