package kinematics

import "math"

// ConstantModelName is the JSON discriminator string for the Constant model.
const ConstantModelName = "constant"

// ConstantAcceleration implements MotionModel with fixed traction and braking limits.
// Commanded accelerations outside [-ABrake, AAcc] are clipped.
//
// JSON discriminator: "model": "constant"
type ConstantAcceleration struct {
	AAcc     float64 `json:"a_acc"`     // traction limit, m/s²
	ABrake   float64 `json:"a_brake"`   // braking limit, m/s² (positive)
	AComfort float64 `json:"a_comfort"` // comfortable deceleration for planning, m/s² (positive)
	VMaxVal  float64 `json:"v_max"`     // maximum speed, m/s
}

func (c ConstantAcceleration) VMax() float64 { return c.VMaxVal }

func (c ConstantAcceleration) AccelLimits() (float64, float64) { return -c.ABrake, c.AAcc }

func (c ConstantAcceleration) BrakingDistanceTo(v, targetV float64) float64 {
	decel := c.AComfort
	if decel <= 0 {
		decel = c.ABrake
	}
	if decel <= 0 {
		return math.Inf(1)
	}
	if v <= targetV {
		return 0
	}
	return (v*v - targetV*targetV) / (2 * decel)
}

func (c ConstantAcceleration) Step(v, accel, dt float64) (float64, float64, float64) {
	a := math.Max(-c.ABrake, math.Min(c.AAcc, accel))

	if a < 0 {
		tToStop := v / -a
		if tToStop <= dt {
			// Stops mid-step and holds.
			return v * tToStop / 2, 0, a
		}
	}

	newV := v + a*dt
	if a > 0 && c.VMaxVal > 0 && newV > c.VMaxVal {
		if v >= c.VMaxVal {
			// Already at or over VMax: no further traction.
			return v * dt, v, 0
		}
		// Reaches VMax mid-step, then cruises.
		tToMax := (c.VMaxVal - v) / a
		s1 := v*tToMax + 0.5*a*tToMax*tToMax
		return s1 + c.VMaxVal*(dt-tToMax), c.VMaxVal, a
	}
	return v*dt + 0.5*a*dt*dt, newV, a
}
