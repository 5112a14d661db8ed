package controllers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/longplan/internal/arbiter"
	"github.com/cxd309/longplan/internal/kinematics"
	"github.com/cxd309/longplan/internal/planner"
	"github.com/cxd309/longplan/internal/road"
	"github.com/cxd309/longplan/internal/transition"
)

func limit(v float64) *float64 { return &v }

// testRoad: 200 m at 25 m/s, a 100 m curve (radius 100 m) at 25 m/s, 300 m at 15 m/s
// ending in a stop line.
func testRoad(t *testing.T) *road.Road {
	t.Helper()
	r, err := road.NewRoad(road.RoadData{Sections: []road.Section{
		{ID: "straight", Length: 200, SpeedLimit: limit(25)},
		{ID: "curve", Length: 100, SpeedLimit: limit(25), Curvature: 0.01},
		{ID: "town", Length: 300, SpeedLimit: limit(15), Stop: true},
	}})
	require.NoError(t, err)
	return r
}

func at(pos float64) Locator { return func() float64 { return pos } }

var sedan = kinematics.ConstantAcceleration{AAcc: 2, ABrake: 4, AComfort: 1.5, VMaxVal: 45}

func TestVisionCurve(t *testing.T) {
	r := testRoad(t)

	tests := []struct {
		name      string
		cfg       VisionConfig
		pos       float64
		in        planner.Inputs
		wantState string
		wantV     float64
	}{
		{
			name:      "disabled",
			cfg:       VisionConfig{},
			pos:       150,
			in:        planner.Inputs{LongActive: true, VEgo: 20, AEgo: 0.2},
			wantState: VisionDisabled,
			wantV:     VCruiseUnset,
		},
		{
			name:      "straight road ahead",
			cfg:       DefaultVisionConfig(),
			pos:       0,
			in:        planner.Inputs{LongActive: true, VEgo: 10, AEgo: 0.2},
			wantState: VisionEnabled,
			wantV:     VCruiseUnset,
		},
		{
			name:      "entering curve",
			cfg:       DefaultVisionConfig(),
			pos:       150,
			in:        planner.Inputs{LongActive: true, VEgo: 20, AEgo: 0.2},
			wantState: VisionEntering,
			wantV:     math.Sqrt(1.9 / 0.01),
		},
		{
			name:      "in curve",
			cfg:       DefaultVisionConfig(),
			pos:       250,
			in:        planner.Inputs{LongActive: true, VEgo: 20, AEgo: 0.2},
			wantState: VisionTurning,
			wantV:     math.Sqrt(1.9 / 0.01),
		},
		{
			name:      "slow enough for curve",
			cfg:       DefaultVisionConfig(),
			pos:       250,
			in:        planner.Inputs{LongActive: true, VEgo: 10, AEgo: 0.2},
			wantState: VisionEnabled,
			wantV:     VCruiseUnset,
		},
		{
			name:      "not engaged",
			cfg:       DefaultVisionConfig(),
			pos:       150,
			in:        planner.Inputs{VEgo: 20, AEgo: 0.2},
			wantState: VisionEnabled,
			wantV:     VCruiseUnset,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewVisionCurve(tt.cfg, r, at(tt.pos), -3.5)
			c.Update(tt.in)

			v, a := c.Target()
			st := c.Status()
			assert.Equal(t, tt.wantState, st.State)
			assert.InDelta(t, tt.wantV, v, 1e-9)
			assert.LessOrEqual(t, a, math.Max(tt.in.AEgo, 0))
			assert.GreaterOrEqual(t, a, -3.5)
		})
	}
}

func TestVisionCurve_EnteringBrakesBeforeCurve(t *testing.T) {
	c := NewVisionCurve(DefaultVisionConfig(), testRoad(t), at(150), -3.5)
	c.Update(planner.Inputs{LongActive: true, VEgo: 20})

	st := c.Status()
	vT := math.Sqrt(190)
	assert.InDelta(t, (vT*vT-400)/100, st.ATarget, 1e-9)
	assert.InDelta(t, 4.0, st.MaxPredictedLateralAccel, 1e-9)
	assert.Zero(t, st.CurrentLateralAccel)
}

func TestSpeedLimit(t *testing.T) {
	r := testRoad(t)
	cfg := SpeedLimitConfig{Enabled: true, Offset: 1}

	c := NewSpeedLimit(cfg, r, at(10), sedan)
	got := c.Update(planner.Inputs{LongActive: true, VEgo: 25})
	assert.Equal(t, 26.0, got)
	st := c.Status()
	assert.Equal(t, SpeedLimitActive, st.State)
	assert.Equal(t, 25.0, st.SpeedLimit)
	assert.Equal(t, 290.0, st.Distance)
	assert.Equal(t, "map", st.Source)

	// Within (25²-16²)/3 = 123 m of the 15 m/s zone.
	c = NewSpeedLimit(cfg, r, at(200), sedan)
	got = c.Update(planner.Inputs{LongActive: true, VEgo: 25})
	assert.Equal(t, 16.0, got)
	assert.Equal(t, SpeedLimitAdapting, c.Status().State)
	assert.Equal(t, 15.0, c.Status().SpeedLimit)

	c = NewSpeedLimit(cfg, r, at(10), sedan)
	assert.Equal(t, VCruiseUnset, c.Update(planner.Inputs{VEgo: 25}))
	assert.Equal(t, SpeedLimitInactive, c.Status().State)
	assert.False(t, c.Status().Active)

	c = NewSpeedLimit(SpeedLimitConfig{}, r, at(10), sedan)
	assert.Equal(t, VCruiseUnset, c.Update(planner.Inputs{LongActive: true, VEgo: 25}))
	assert.False(t, c.Status().Enabled)

	c = NewSpeedLimit(cfg, r, at(1e6), sedan)
	assert.Equal(t, VCruiseUnset, c.Update(planner.Inputs{LongActive: true, VEgo: 25}))
}

func TestSpeedLimit_ClusterOverride(t *testing.T) {
	r := testRoad(t)
	pos := 10.0
	c := NewSpeedLimit(SpeedLimitConfig{Enabled: true}, r, func() float64 { return pos }, sedan)

	in := planner.Inputs{LongActive: true, VEgo: 20, VCruiseCluster: 30}
	assert.Equal(t, 25.0, c.Update(in))

	in.VCruiseCluster = 32
	assert.Equal(t, VCruiseUnset, c.Update(in))
	assert.Equal(t, SpeedLimitTempInactive, c.Status().State)
	assert.False(t, c.Status().Active)
	assert.Equal(t, 25.0, c.Status().SpeedLimit, "limit still reported while overridden")

	pos = 100
	assert.Equal(t, VCruiseUnset, c.Update(in), "override holds while the limit is unchanged")

	pos = 350
	assert.Equal(t, 15.0, c.Update(in), "a new limit ends the override")
	assert.Equal(t, SpeedLimitActive, c.Status().State)

	in.VCruiseCluster = 20
	assert.Equal(t, VCruiseUnset, c.Update(in))
	in.LongActive = false
	c.Update(in)
	in.LongActive = true
	assert.Equal(t, 15.0, c.Update(in), "disengaging clears the override")
}

func TestDEC(t *testing.T) {
	r := testRoad(t)

	c := NewDEC(DefaultDECConfig(), r, at(590))
	c.Update(planner.Inputs{LongActive: true, VEgo: 5})
	assert.Equal(t, planner.DECState{Mode: transition.ModeAcc}, c.Snapshot())

	cfg := DefaultDECConfig()
	cfg.Enabled = true

	c = NewDEC(cfg, r, at(100))
	c.Update(planner.Inputs{LongActive: true, VEgo: 20})
	assert.Equal(t, planner.DECState{Enabled: true, Active: true, Mode: transition.ModeAcc}, c.Snapshot())

	c = NewDEC(cfg, r, at(500))
	c.Update(planner.Inputs{LongActive: true, VEgo: 15})
	assert.Equal(t, planner.DECState{Enabled: true, Active: true, Mode: transition.ModeBlended}, c.Snapshot())

	c.Update(planner.Inputs{LongActive: false, VEgo: 15})
	assert.Equal(t, planner.DECState{Enabled: true, Mode: transition.ModeAcc}, c.Snapshot())

	c = NewDEC(cfg, r, at(100))
	c.Update(planner.Inputs{LongActive: true, VEgo: 2})
	assert.Equal(t, planner.DECState{Enabled: true, Active: true, Mode: transition.ModeBlended}, c.Snapshot())
}

func TestPersonality(t *testing.T) {
	p, err := ParsePersonality("")
	require.NoError(t, err)
	assert.Equal(t, PersonalityStandard, p)
	_, err = ParsePersonality("sporty")
	assert.Error(t, err)

	c := NewPersonalityController(PersonalityStandard)
	c.Request(PersonalityAggressive)
	assert.Equal(t, 1.0, c.AccelScale(), "request applies at the next update")
	c.Update()
	assert.Equal(t, PersonalityAggressive, c.Active())
	assert.Equal(t, 1.2, c.AccelScale())

	c.Request(PersonalityRelaxed)
	c.Update()
	assert.Equal(t, 0.7, c.AccelScale())
}

func TestMPC_Accel(t *testing.T) {
	m := MPC{Gain: 0.5, Limits: Limits{Min: -3.5, Max: 2}}

	assert.Equal(t, 2.0, m.Accel(10, arbiter.Result{Velocity: 30}, 1))
	assert.Equal(t, 1.4, m.Accel(10, arbiter.Result{Velocity: 30}, 0.7))
	assert.Equal(t, 0.5, m.Accel(10, arbiter.Result{Velocity: 11}, 1))
	assert.Equal(t, -1.2, m.Accel(10, arbiter.Result{Velocity: 9, Acceleration: -1.2}, 1))
	assert.Equal(t, -3.5, m.Accel(30, arbiter.Result{Velocity: 5}, 1))
}

func TestE2E_Accel(t *testing.T) {
	r := testRoad(t)
	lim := Limits{Min: -3.5, Max: 2}

	far := E2E{Gain: 0.3, StopMargin: 2, Limits: lim, Road: r, Locate: at(0)}
	assert.InDelta(t, -20.0*20/(2*598), far.Accel(20, arbiter.Result{Velocity: 20}), 1e-9)

	near := E2E{Gain: 0.3, StopMargin: 2, Limits: lim, Road: r, Locate: at(560)}
	assert.InDelta(t, -100.0/76, near.Accel(10, arbiter.Result{Velocity: 15}), 1e-9)

	past := E2E{Gain: 0.3, StopMargin: 2, Limits: lim, Road: r, Locate: at(599)}
	assert.Equal(t, -3.5, past.Accel(0, arbiter.Result{Velocity: 15}))

	none, err := road.NewRoad(road.RoadData{Sections: []road.Section{{ID: "a", Length: 100}}})
	require.NoError(t, err)
	free := E2E{Gain: 0.3, Limits: lim, Road: none, Locate: at(0)}
	assert.InDelta(t, 1.5, free.Accel(10, arbiter.Result{Velocity: 15}), 1e-9)
}
