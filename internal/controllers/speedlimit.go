package controllers

import (
	"github.com/cxd309/longplan/internal/kinematics"
	"github.com/cxd309/longplan/internal/planner"
	"github.com/cxd309/longplan/internal/road"
)

// Speed-limit controller states.
const (
	SpeedLimitInactive     = "inactive"
	SpeedLimitActive       = "active"
	SpeedLimitAdapting     = "adapting"
	SpeedLimitTempInactive = "tempInactive" // set speed changed by the driver
)

// SpeedLimitConfig tunes the speed-limit controller.
type SpeedLimitConfig struct {
	Enabled bool    `json:"enabled"`
	Offset  float64 `json:"offset"` // m/s added to the posted limit
}

// SpeedLimit resolves the posted limit from the road and turns it into a cruise target.
// It switches to an upcoming lower limit once the vehicle is within comfortable
// braking distance of it. Changing the cluster set speed while a limit is enforced
// overrides that limit until the target limit changes.
type SpeedLimit struct {
	cfg    SpeedLimitConfig
	road   *road.Road
	locate Locator
	kinem  kinematics.MotionModel

	lastCluster    float64
	overridden     bool
	overrideTarget float64

	status planner.SpeedLimitStatus
}

func NewSpeedLimit(cfg SpeedLimitConfig, r *road.Road, locate Locator, kinem kinematics.MotionModel) *SpeedLimit {
	return &SpeedLimit{
		cfg:    cfg,
		road:   r,
		locate: locate,
		kinem:  kinem,
		status: planner.SpeedLimitStatus{State: SpeedLimitInactive, Source: "none"},
	}
}

func (c *SpeedLimit) Update(in planner.Inputs) float64 {
	st := planner.SpeedLimitStatus{
		State:   SpeedLimitInactive,
		Enabled: c.cfg.Enabled,
		Offset:  c.cfg.Offset,
		Source:  "none",
	}
	defer func() { c.status = st }()

	clusterChanged := c.lastCluster > 0 && in.VCruiseCluster > 0 && in.VCruiseCluster != c.lastCluster
	c.lastCluster = in.VCruiseCluster

	pos := c.locate()
	limit, posted, err := c.road.SpeedLimitAt(pos)
	if err != nil {
		return VCruiseUnset
	}
	next, dist, ahead, err := c.road.NextSpeedLimit(pos)
	if err != nil {
		return VCruiseUnset
	}
	if posted || ahead {
		st.Source = "map"
	}
	if posted {
		st.SpeedLimit = limit
	}
	if ahead {
		st.Distance = dist
	}

	if !c.cfg.Enabled || !in.LongActive || !posted {
		c.overridden = false
		return VCruiseUnset
	}

	st.Active = true
	st.State = SpeedLimitActive
	target := limit + c.cfg.Offset
	if ahead && next < limit {
		nextTarget := next + c.cfg.Offset
		if dist <= c.kinem.BrakingDistanceTo(in.VEgo, nextTarget) {
			st.State = SpeedLimitAdapting
			st.SpeedLimit = next
			target = nextTarget
		}
	}

	if clusterChanged {
		c.overridden, c.overrideTarget = true, target
	}
	if c.overridden {
		if target == c.overrideTarget {
			st.Active = false
			st.State = SpeedLimitTempInactive
			return VCruiseUnset
		}
		c.overridden = false
	}
	return target
}

func (c *SpeedLimit) Status() planner.SpeedLimitStatus { return c.status }
