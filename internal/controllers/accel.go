package controllers

import (
	"math"

	"github.com/cxd309/longplan/internal/arbiter"
	"github.com/cxd309/longplan/internal/road"
)

// Limits bounds a commanded acceleration in m/s².
type Limits struct {
	Min float64
	Max float64
}

// MPC is a proportional stand-in for the MPC solver: it tracks the arbitrated target
// velocity and honours a braking target acceleration.
type MPC struct {
	Gain   float64 // 1/s
	Limits Limits
}

// Accel returns the MPC acceleration for the last target. scale multiplies the upper limit.
func (m MPC) Accel(vEgo float64, target arbiter.Result, scale float64) float64 {
	a := m.Gain * (target.Velocity - vEgo)
	if target.Acceleration < 0 {
		a = math.Min(a, target.Acceleration)
	}
	return clamp(a, m.Limits.Min, m.Limits.Max*scale)
}

// E2E is a stand-in for the end-to-end path. Unlike the MPC stand-in it sees stop lines
// and brakes to halt just short of them.
type E2E struct {
	Gain       float64 // 1/s
	StopMargin float64 // metres short of the line to aim for
	Limits     Limits
	Road       *road.Road
	Locate     Locator
}

func (e E2E) Accel(vEgo float64, target arbiter.Result) float64 {
	a := e.Gain * (target.Velocity - vEgo)
	if dist, ok, err := e.Road.NextStop(e.Locate()); err == nil && ok {
		room := dist - e.StopMargin
		switch {
		case room <= 0:
			a = e.Limits.Min
		case vEgo > 0:
			a = math.Min(a, -vEgo*vEgo/(2*room))
		}
	}
	return clamp(a, e.Limits.Min, e.Limits.Max)
}
