package controllers

import (
	"math"

	"github.com/cxd309/longplan/internal/planner"
	"github.com/cxd309/longplan/internal/road"
	"github.com/cxd309/longplan/internal/transition"
)

// DECConfig tunes the dynamic experimental controller.
type DECConfig struct {
	Enabled       bool    `json:"enabled"`
	StopHorizon   float64 `json:"stop_horizon"`    // seconds of lookahead for stop lines
	MinStopLookup float64 `json:"min_stop_lookup"` // metres
	SlowSpeed     float64 `json:"slow_speed"`      // m/s; below this the blended mode is used
}

// DefaultDECConfig returns a disabled controller with standard lookahead.
func DefaultDECConfig() DECConfig {
	return DECConfig{StopHorizon: 8.0, MinStopLookup: 40.0, SlowSpeed: 4.0}
}

// DEC picks the blended mode when a stop line is close enough that the end-to-end path
// should handle the approach or the vehicle is crawling, and the ACC mode otherwise.
type DEC struct {
	cfg    DECConfig
	road   *road.Road
	locate Locator

	state planner.DECState
}

func NewDEC(cfg DECConfig, r *road.Road, locate Locator) *DEC {
	return &DEC{cfg: cfg, road: r, locate: locate}
}

func (c *DEC) Update(in planner.Inputs) {
	st := planner.DECState{Enabled: c.cfg.Enabled, Mode: transition.ModeAcc}
	st.Active = st.Enabled && in.LongActive
	switch {
	case !st.Active:
	case in.VEgo < c.cfg.SlowSpeed:
		st.Mode = transition.ModeBlended
	default:
		dist, ok, err := c.road.NextStop(c.locate())
		lookahead := math.Max(in.VEgo*c.cfg.StopHorizon, c.cfg.MinStopLookup)
		if err == nil && ok && dist <= lookahead {
			st.Mode = transition.ModeBlended
		}
	}
	c.state = st
}

func (c *DEC) Snapshot() planner.DECState { return c.state }
