package engine

import (
	"go.uber.org/zap"

	"github.com/cxd309/longplan/internal/arbiter"
	"github.com/cxd309/longplan/internal/controllers"
	"github.com/cxd309/longplan/internal/planner"
	"github.com/cxd309/longplan/internal/publish"
	"github.com/cxd309/longplan/internal/road"
	"github.com/cxd309/longplan/internal/vehicle"
)

// SimulationMeta holds the identity and timing parameters for a simulation run.
type SimulationMeta struct {
	SimulationID string  `json:"simulation_id"`
	RunTime      float64 `json:"run_time"`            // seconds
	TimeStep     float64 `json:"time_step,omitempty"` // seconds; defaults to the planner period
}

// Scenario describes the driver's settings for the run.
type Scenario struct {
	VCruise          float64 `json:"v_cruise"`                     // m/s
	EngageAt         float64 `json:"engage_at,omitempty"`          // seconds; longitudinal control engages here
	DECEnabled       bool    `json:"dec_enabled,omitempty"`        // allow end-to-end blending
	SpeedLimitOffset float64 `json:"speed_limit_offset,omitempty"` // m/s over the posted limit
	SpeedLimitOff    bool    `json:"speed_limit_off,omitempty"`    // disable the speed-limit controller
	VisionOff        bool    `json:"vision_off,omitempty"`         // disable the curve-speed controller
	Personality      string  `json:"personality,omitempty"`        // relaxed | standard | aggressive

	Timeline []ScenarioChange `json:"timeline,omitempty"`
}

// ScenarioChange is a driver input applied once the simulation clock reaches At.
// Unset fields leave the current setting alone.
type ScenarioChange struct {
	At          float64  `json:"at"`                    // seconds
	VCruise     *float64 `json:"v_cruise,omitempty"`    // new set speed, m/s
	Personality string   `json:"personality,omitempty"` // relaxed | standard | aggressive
}

// SimulationInput is the JSON-serialisable input to the engine.
type SimulationInput struct {
	Meta            SimulationMeta  `json:"simulation_meta"`
	Road            road.RoadData   `json:"road"`
	Vehicle         vehicle.Vehicle `json:"vehicle"`
	InitialVelocity float64         `json:"initial_velocity"` // m/s
	Scenario        Scenario        `json:"scenario"`
}

// SimulationLogRow is the ego state and the published plan at a single timestep.
type SimulationLogRow struct {
	Timestamp float64        `json:"timestamp"` // seconds
	Ego       vehicle.EgoLog `json:"ego"`
	Plan      planner.Plan   `json:"plan"`
}

// SimulationLog is the complete output of a simulation run.
type SimulationLog struct {
	Meta   SimulationMeta     `json:"simulation_meta"`
	Output []SimulationLogRow `json:"output"`
}

// Tuning of the MPC and end-to-end stand-ins.
const (
	mpcGain       = 0.6 // 1/s
	e2eGain       = 0.4 // 1/s
	e2eStopMargin = 2.0 // metres
)

// Sim is the closed-loop simulation state.
type Sim struct {
	meta     SimulationMeta
	road     *road.Road
	ego      *vehicle.Ego
	scenario Scenario
	pub      publish.Publisher
	logger   *zap.Logger

	planner     *planner.Planner
	personality *controllers.PersonalityController
	mpc         controllers.MPC
	e2e         controllers.E2E

	// lastTarget feeds the MPC and end-to-end stand-ins one cycle behind the planner.
	lastTarget arbiter.Result
	curTime    float64

	vCruise  float64
	timeline []ScenarioChange // sorted by At; applied entries are dropped
}
