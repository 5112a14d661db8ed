// Package planner implements one longitudinal planning cycle.
//
// Each call to Update:
//
//  1. Refreshes the external sub-controllers.
//  2. Arbitrates the cruise and vision-curve targets, yielding to the slower one.
//  3. Feeds the DEC mode into the transition tracker.
//  4. Blends the MPC and end-to-end accelerations into the commanded acceleration.
//
// A Planner is driven by exactly one control loop and does no locking.
package planner

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cxd309/longplan/internal/arbiter"
	"github.com/cxd309/longplan/internal/blend"
	"github.com/cxd309/longplan/internal/config"
	"github.com/cxd309/longplan/internal/transition"
)

// Planner is the per-cycle facade.
type Planner struct {
	cfg     config.Config
	collab  Collaborators
	tracker *transition.Tracker
	blender *blend.Blender
	logger  *zap.Logger

	lastDEC DECState
}

// New validates cfg and the collaborators and returns a Planner with an empty
// transition window. A nil logger disables logging.
func New(cfg config.Config, collab Collaborators, logger *zap.Logger) (*Planner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("planner config: %w", err)
	}
	switch {
	case collab.Vision == nil:
		return nil, errors.New("planner: nil vision controller")
	case collab.SpeedLimit == nil:
		return nil, errors.New("planner: nil speed limit controller")
	case collab.DEC == nil:
		return nil, errors.New("planner: nil experimental controller")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	tracker := transition.NewTracker(cfg.TransitionSteps)
	blender, err := blend.New(cfg.BlendLaw(), tracker)
	if err != nil {
		return nil, err
	}

	logger.Debug("planner ready",
		zap.Int("transition_steps", cfg.TransitionSteps),
		zap.Float64("accel_min", cfg.AccelMin),
		zap.Float64("speed_threshold", cfg.SpeedThreshold))

	return &Planner{
		cfg:     cfg,
		collab:  collab,
		tracker: tracker,
		blender: blender,
		logger:  logger,
	}, nil
}

// Update runs one control cycle and returns the plan to publish.
func (p *Planner) Update(in Inputs) Plan {
	p.collab.DEC.Update(in)
	if p.collab.Personality != nil {
		p.collab.Personality.Update()
	}

	target := p.updateTargets(in)

	dec := p.collab.DEC.Snapshot()
	p.lastDEC = dec
	if p.tracker.HandleModeTransition(dec.Mode) {
		p.logger.Debug("dec mode changed",
			zap.Stringer("mode", dec.Mode),
			zap.Int("counter", p.tracker.Counter()))
	}

	final := p.blender.Blend(in.MPCAccel, in.E2EAccel, in.VEgo, dec.Enabled)

	return Plan{
		Valid:              in.Valid,
		DEC:                dec,
		TargetVelocity:     target.Velocity,
		TargetAcceleration: target.Acceleration,
		TargetSource:       target.Source,
		FinalAcceleration:  final,
		TransitionProgress: p.tracker.Progress(),
		SpeedLimit:         p.collab.SpeedLimit.Status(),
		Vision:             p.collab.Vision.Status(),
	}
}

// updateTargets refreshes the target sources and arbitrates between them.
func (p *Planner) updateTargets(in Inputs) arbiter.Result {
	p.collab.Vision.Update(in)
	vCruiseSLC := p.collab.SpeedLimit.Update(in)
	vCruiseFinal := math.Min(in.VCruise, vCruiseSLC)

	vVision, aVision := p.collab.Vision.Target()
	candidates := [arbiter.NumSources]arbiter.Candidate{
		{Source: arbiter.SourceCruise, Velocity: vCruiseFinal, Acceleration: in.AEgo},
		{Source: arbiter.SourceVisionCurve, Velocity: vVision, Acceleration: aVision},
	}
	return arbiter.Select(candidates[:])
}

// MPCMode returns the planning mode the MPC should run in, or false when DEC is not
// active and the MPC keeps its own mode.
func (p *Planner) MPCMode() (transition.Mode, bool) {
	if !p.lastDEC.Active {
		return transition.ModeAcc, false
	}
	return p.lastDEC.Mode, true
}

// Progress returns the current transition progress.
func (p *Planner) Progress() float64 { return p.tracker.Progress() }

// Config returns the configuration the planner was built with.
func (p *Planner) Config() config.Config { return p.cfg }
