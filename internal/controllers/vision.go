package controllers

import (
	"math"

	"github.com/cxd309/longplan/internal/planner"
	"github.com/cxd309/longplan/internal/road"
)

// Vision curve-speed controller states.
const (
	VisionDisabled = "disabled"
	VisionEnabled  = "enabled"
	VisionEntering = "entering"
	VisionTurning  = "turning"
)

// VisionConfig tunes the curve-speed controller.
type VisionConfig struct {
	Enabled        bool    `json:"enabled"`
	TargetLatAccel float64 `json:"target_lat_accel"` // m/s²
	MinTargetV     float64 `json:"min_target_v"`     // m/s
	Horizon        float64 `json:"horizon"`          // seconds of lookahead
	MinLookahead   float64 `json:"min_lookahead"`    // metres
}

// DefaultVisionConfig returns an enabled controller with comfortable limits.
func DefaultVisionConfig() VisionConfig {
	return VisionConfig{
		Enabled:        true,
		TargetLatAccel: 1.9,
		MinTargetV:     5.0,
		Horizon:        6.0,
		MinLookahead:   30.0,
	}
}

// VisionCurve slows the vehicle for curvature ahead: the target speed is the one at
// which the sharpest upcoming curve produces TargetLatAccel of lateral acceleration.
type VisionCurve struct {
	cfg      VisionConfig
	road     *road.Road
	locate   Locator
	accelMin float64

	status planner.VisionStatus
}

// NewVisionCurve returns a curve-speed controller over r. accelMin bounds the braking
// it may request.
func NewVisionCurve(cfg VisionConfig, r *road.Road, locate Locator, accelMin float64) *VisionCurve {
	return &VisionCurve{
		cfg:      cfg,
		road:     r,
		locate:   locate,
		accelMin: accelMin,
		status:   planner.VisionStatus{State: VisionDisabled, VTarget: VCruiseUnset},
	}
}

func (c *VisionCurve) Update(in planner.Inputs) {
	st := planner.VisionStatus{State: VisionDisabled, VTarget: VCruiseUnset, ATarget: in.AEgo}
	defer func() { c.status = st }()

	if !c.cfg.Enabled {
		return
	}
	st.State = VisionEnabled

	pos := c.locate()
	cur, _, err := c.road.SectionAt(pos)
	if err != nil {
		return
	}
	v := math.Max(in.VEgo, 0.1)
	st.CurrentLateralAccel = v * v * math.Abs(cur.Curvature)

	horizon := math.Max(v*c.cfg.Horizon, c.cfg.MinLookahead)
	kappa, dist, err := c.road.MaxCurvatureAhead(pos, horizon)
	if err != nil || kappa == 0 {
		return
	}
	st.MaxPredictedLateralAccel = v * v * kappa

	if !in.LongActive || st.MaxPredictedLateralAccel < c.cfg.TargetLatAccel {
		return
	}

	vTarget := math.Max(math.Sqrt(c.cfg.TargetLatAccel/kappa), c.cfg.MinTargetV)
	st.VTarget = vTarget
	if dist > 0 {
		st.State = VisionEntering
		st.ATarget = clamp((vTarget*vTarget-v*v)/(2*dist), c.accelMin, 0)
		return
	}
	st.State = VisionTurning
	st.ATarget = clamp(vTarget-v, c.accelMin, 0)
}

func (c *VisionCurve) Target() (float64, float64) { return c.status.VTarget, c.status.ATarget }

func (c *VisionCurve) Status() planner.VisionStatus { return c.status }
