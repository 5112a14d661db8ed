// Package blend computes the commanded acceleration from an MPC-derived value and an
// end-to-end value while the planner moves into the blended mode.
//
// Outside the smoothing window, or when end-to-end control is not enabled, the blender
// falls back to the stronger of the two brake requests. Inside the window it only
// interpolates in the one hazardous case: the end-to-end path asks for deceleration at
// meaningful speed. The interpolation weight combines time progress through the window
// with a logistic function of how hard the end-to-end path is braking.
package blend

import (
	"errors"
	"fmt"
	"math"

	"github.com/cxd309/longplan/internal/transition"
)

const (
	DefaultSteepness      = 3.0
	DefaultMidpoint       = 0.5
	DefaultSpeedThreshold = 5.0 // m/s
)

// ErrZeroAccelMin is returned when the normalising minimum acceleration is zero.
var ErrZeroAccelMin = errors.New("accel_min must be non-zero")

// Law holds the fixed parameters of the blend.
type Law struct {
	Steepness      float64 // logistic k
	Midpoint       float64 // normalised deceleration at which the logistic weight is 0.5
	SpeedThreshold float64 // m/s; blending only above this speed
	AccelMin       float64 // m/s², most negative allowed acceleration
}

// DefaultLaw returns the standard blend parameters for the given minimum acceleration.
func DefaultLaw(accelMin float64) Law {
	return Law{
		Steepness:      DefaultSteepness,
		Midpoint:       DefaultMidpoint,
		SpeedThreshold: DefaultSpeedThreshold,
		AccelMin:       accelMin,
	}
}

// Validate rejects parameters that would make the blend undefined.
func (l Law) Validate() error {
	if l.AccelMin == 0 || math.IsNaN(l.AccelMin) {
		return ErrZeroAccelMin
	}
	if l.Steepness <= 0 {
		return fmt.Errorf("steepness must be positive, got %v", l.Steepness)
	}
	return nil
}

// Sigmoid is the logistic weight for an end-to-end acceleration. It approaches 1 as
// e2eAccel approaches AccelMin.
func (l Law) Sigmoid(e2eAccel float64) float64 {
	return 1.0 / (1.0 + math.Exp(-l.Steepness*(math.Abs(e2eAccel/l.AccelMin)-l.Midpoint)))
}

// Factor combines window progress with the logistic weight. It is 1 once either input
// is 1 and 0 only when both are 0.
func Factor(progress, sigmoid float64) float64 {
	return 1.0 - (1.0-progress)*(1.0-sigmoid)
}

// Mix is the mid-window blend at a given progress.
func Mix(l Law, progress, mpcAccel, e2eAccel, vEgo float64) float64 {
	if vEgo > l.SpeedThreshold && e2eAccel < 0 {
		// Never dilute a stronger MPC brake.
		if mpcAccel < 0 && e2eAccel > mpcAccel {
			return mpcAccel
		}
		f := Factor(progress, l.Sigmoid(e2eAccel))
		return mpcAccel + (e2eAccel-mpcAccel)*f
	}
	return math.Min(mpcAccel, e2eAccel)
}

// Blender applies Mix across the smoothing window owned by a transition.Tracker.
type Blender struct {
	law     Law
	tracker *transition.Tracker
}

// New validates law and returns a Blender that advances tracker.
func New(law Law, tracker *transition.Tracker) (*Blender, error) {
	if err := law.Validate(); err != nil {
		return nil, fmt.Errorf("blend law: %w", err)
	}
	if tracker == nil {
		return nil, errors.New("blend: nil tracker")
	}
	return &Blender{law: law, tracker: tracker}, nil
}

// Blend returns the commanded acceleration for this cycle. While decEnabled and the
// window is open it advances the tracker by exactly one cycle, so it must be called at
// most once per cycle.
func (b *Blender) Blend(mpcAccel, e2eAccel, vEgo float64, decEnabled bool) float64 {
	if !decEnabled || b.tracker.Done() {
		return math.Min(mpcAccel, e2eAccel)
	}
	return Mix(b.law, b.tracker.Advance(), mpcAccel, e2eAccel, vEgo)
}

// Law returns the blender's parameters.
func (b *Blender) Law() Law { return b.law }
