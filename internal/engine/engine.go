// Package engine runs the longitudinal planner in a closed loop against a simulated
// ego vehicle on a road profile.
//
// The simulation advances in fixed timesteps. Each step:
//
//  1. Stand-ins compute the MPC and end-to-end accelerations from the previous target.
//  2. The planner refreshes its sub-controllers, arbitrates a target, and blends the
//     two accelerations into one command.
//  3. The plan goes to the publisher, and the ego vehicle integrates the command
//     through its kinematics model.
package engine

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cxd309/longplan/internal/arbiter"
	"github.com/cxd309/longplan/internal/config"
	"github.com/cxd309/longplan/internal/controllers"
	"github.com/cxd309/longplan/internal/planner"
	"github.com/cxd309/longplan/internal/publish"
	"github.com/cxd309/longplan/internal/road"
	"github.com/cxd309/longplan/internal/vehicle"
)

// Options carries the optional collaborators of a simulation.
type Options struct {
	Logger    *zap.Logger
	Publisher publish.Publisher // receives every plan as it is produced
}

// NewSim constructs a Sim from a SimulationInput, building the road, placing the ego
// vehicle at its origin, and wiring the reference sub-controllers into a planner.
func NewSim(input SimulationInput, cfg config.Config, opts Options) (*Sim, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("planner config: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	meta := input.Meta
	if meta.SimulationID == "" {
		meta.SimulationID = uuid.NewString()
	}
	if meta.TimeStep == 0 {
		meta.TimeStep = cfg.DT
	}
	if meta.TimeStep < 0 || meta.RunTime < 0 {
		return nil, fmt.Errorf("simulation %q: run_time and time_step must not be negative", meta.SimulationID)
	}

	r, err := road.NewRoad(input.Road)
	if err != nil {
		return nil, fmt.Errorf("building road: %w", err)
	}
	ego, err := vehicle.NewEgo(input.Vehicle, input.InitialVelocity)
	if err != nil {
		return nil, fmt.Errorf("creating ego vehicle: %w", err)
	}
	personality, err := controllers.ParsePersonality(input.Scenario.Personality)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	timeline, err := sortedTimeline(input.Scenario.Timeline)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}

	locate := func() float64 { return ego.Position }
	aMin, aMax := ego.Kinem.AccelLimits()
	limits := controllers.Limits{Min: math.Max(aMin, cfg.AccelMin), Max: math.Min(aMax, cfg.AccelMax)}

	vision := controllers.DefaultVisionConfig()
	vision.Enabled = !input.Scenario.VisionOff
	dec := controllers.DefaultDECConfig()
	dec.Enabled = input.Scenario.DECEnabled

	sim := &Sim{
		meta:        meta,
		road:        r,
		ego:         ego,
		scenario:    input.Scenario,
		pub:         opts.Publisher,
		logger:      logger,
		personality: controllers.NewPersonalityController(personality),
		mpc:         controllers.MPC{Gain: mpcGain, Limits: limits},
		e2e: controllers.E2E{
			Gain:       e2eGain,
			StopMargin: e2eStopMargin,
			Limits:     limits,
			Road:       r,
			Locate:     locate,
		},
		lastTarget: arbiter.Result{Velocity: input.InitialVelocity, Source: arbiter.SourceCruise},
		vCruise:    input.Scenario.VCruise,
		timeline:   timeline,
	}

	sim.planner, err = planner.New(cfg, planner.Collaborators{
		Vision: controllers.NewVisionCurve(vision, r, locate, limits.Min),
		SpeedLimit: controllers.NewSpeedLimit(controllers.SpeedLimitConfig{
			Enabled: !input.Scenario.SpeedLimitOff,
			Offset:  input.Scenario.SpeedLimitOffset,
		}, r, locate, ego.Kinem),
		DEC:         controllers.NewDEC(dec, r, locate),
		Personality: sim.personality,
	}, logger.Named("planner"))
	if err != nil {
		return nil, err
	}

	logger.Info("simulation ready",
		zap.String("simulation_id", meta.SimulationID),
		zap.Float64("road_length", r.Length()),
		zap.Float64("time_step", meta.TimeStep),
		zap.Bool("dec_enabled", dec.Enabled))
	return sim, nil
}

// Run executes the full simulation and returns the log.
func (s *Sim) Run() (SimulationLog, error) {
	log := SimulationLog{Meta: s.meta}
	for s.curTime <= s.meta.RunTime {
		row := s.step()
		if s.pub != nil {
			if err := s.pub.Publish(row.Plan); err != nil {
				return SimulationLog{}, fmt.Errorf("at t=%.2f: publishing plan: %w", s.curTime, err)
			}
		}
		log.Output = append(log.Output, row)
		s.curTime += s.meta.TimeStep
	}
	return log, nil
}

// sortedTimeline validates the scenario changes and orders them by time.
func sortedTimeline(changes []ScenarioChange) ([]ScenarioChange, error) {
	out := slices.Clone(changes)
	for i, c := range out {
		if c.At < 0 {
			return nil, fmt.Errorf("timeline[%d]: at must not be negative, got %v", i, c.At)
		}
		if c.VCruise != nil && *c.VCruise < 0 {
			return nil, fmt.Errorf("timeline[%d]: v_cruise must not be negative, got %v", i, *c.VCruise)
		}
		if c.Personality != "" {
			if _, err := controllers.ParsePersonality(c.Personality); err != nil {
				return nil, fmt.Errorf("timeline[%d]: %w", i, err)
			}
		}
	}
	slices.SortStableFunc(out, func(a, b ScenarioChange) int { return cmp.Compare(a.At, b.At) })
	return out, nil
}

// applyTimeline applies every scenario change that is due. A personality change is
// requested here and takes effect at the planner's next update.
func (s *Sim) applyTimeline() {
	for len(s.timeline) > 0 && s.timeline[0].At <= s.curTime {
		c := s.timeline[0]
		s.timeline = s.timeline[1:]
		if c.VCruise != nil {
			s.vCruise = *c.VCruise
		}
		if c.Personality != "" {
			p, _ := controllers.ParsePersonality(c.Personality) // validated in NewSim
			s.personality.Request(p)
		}
		s.logger.Debug("scenario change",
			zap.Float64("t", s.curTime),
			zap.Float64("v_cruise", s.vCruise),
			zap.String("personality", c.Personality))
	}
}

// step advances the simulation by one timestep and returns the resulting log row.
func (s *Sim) step() SimulationLogRow {
	s.applyTimeline()
	dt := s.meta.TimeStep
	v := s.ego.Velocity

	in := planner.Inputs{
		Valid:          true,
		LongActive:     s.curTime >= s.scenario.EngageAt,
		VEgo:           v,
		AEgo:           s.ego.Accel,
		VCruise:        s.vCruise,
		VCruiseCluster: s.vCruise,
		MPCAccel:       s.mpc.Accel(v, s.lastTarget, s.personality.AccelScale()),
		E2EAccel:       s.e2e.Accel(v, s.lastTarget),
	}
	plan := s.planner.Update(in)
	s.lastTarget = arbiter.Result{
		Velocity:     plan.TargetVelocity,
		Acceleration: plan.TargetAcceleration,
		Source:       plan.TargetSource,
	}

	if in.LongActive {
		s.ego.Apply(plan.FinalAcceleration, dt)
	} else {
		// Driver in control: hold speed.
		s.ego.Apply(0, dt)
	}
	if s.ego.Position >= s.road.Length() {
		s.ego.Position = s.road.Length()
		s.ego.Hold()
	}

	return SimulationLogRow{Timestamp: s.curTime, Ego: s.ego.GetLog(), Plan: plan}
}

// RunJSON is the primary entry point for the CLI and WASM targets. It accepts a
// JSON-encoded SimulationInput, runs the simulation with the default planner
// configuration, and returns a JSON-encoded SimulationLog.
func RunJSON(jsonInput string) (string, error) {
	return RunJSONWithConfig(jsonInput, config.Default(), Options{})
}

// RunJSONWithConfig is RunJSON with an explicit configuration and options.
func RunJSONWithConfig(jsonInput string, cfg config.Config, opts Options) (string, error) {
	var input SimulationInput
	if err := json.Unmarshal([]byte(jsonInput), &input); err != nil {
		return "", fmt.Errorf("invalid input JSON: %w", err)
	}

	sim, err := NewSim(input, cfg, opts)
	if err != nil {
		return "", err
	}

	simLog, err := sim.Run()
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(simLog)
	if err != nil {
		return "", fmt.Errorf("marshaling output: %w", err)
	}
	return string(out), nil
}
