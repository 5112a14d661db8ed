// Package kinematics defines the MotionModel interface for the ego vehicle's
// longitudinal physics, along with built-in implementations.
//
// The planner commands an acceleration; the motion model decides how much of it the
// vehicle can actually deliver and integrates it over one control period.
package kinematics

// MotionModel is the physics contract every kinematics implementation must satisfy.
// All distance values are in metres, velocities in m/s, accelerations in m/s², and time
// in seconds.
type MotionModel interface {
	// VMax returns the vehicle's maximum speed.
	VMax() float64

	// AccelLimits returns the most negative and most positive deliverable acceleration.
	AccelLimits() (aMin, aMax float64)

	// BrakingDistanceTo returns the distance needed to slow from v to targetV at the
	// model's comfortable deceleration. Returns 0 if v ≤ targetV.
	BrakingDistanceTo(v, targetV float64) float64

	// Step applies accel for dt seconds starting from v. Handles mid-step stops: if the
	// vehicle reaches standstill before dt expires it stays stopped for the remainder.
	// Returns (distance travelled, new velocity, acceleration actually applied).
	Step(v, accel, dt float64) (dist, newV, applied float64)
}
