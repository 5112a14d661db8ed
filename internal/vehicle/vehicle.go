// Package vehicle defines the simulated ego vehicle: its static parameters, its live
// longitudinal state, and the motion-state machine driven by commanded acceleration.
package vehicle

import (
	"encoding/json"
	"fmt"

	"github.com/cxd309/longplan/internal/kinematics"
)

// State describes the current motion state of the ego vehicle.
type State string

const (
	StateStopped      State = "stopped"
	StateAccelerating State = "accelerating"
	StateCruising     State = "cruising"
	StateBraking      State = "braking"
)

// cruiseBand is the acceleration magnitude (m/s²) below which the vehicle counts as cruising.
const cruiseBand = 0.05

// Vehicle holds the static parameters of the ego vehicle.
// The physics of acceleration and braking are encapsulated by the Kinem field; adding a
// new model only requires implementing kinematics.MotionModel and registering it in
// UnmarshalJSON below.
type Vehicle struct {
	Name   string                 `json:"name"`
	Length float64                `json:"length"` // metres
	Kinem  kinematics.MotionModel `json:"-"`      // set by UnmarshalJSON
}

// kinematicsDisc is the minimum JSON structure needed to read the model discriminator.
type kinematicsDisc struct {
	Model string `json:"model"`
}

// vehicleJSON is the raw JSON shape of a Vehicle, before the kinematics model is resolved.
type vehicleJSON struct {
	Name   string          `json:"name"`
	Length float64         `json:"length"`
	Kinem  json.RawMessage `json:"kinematics"`
}

// UnmarshalJSON implements json.Unmarshaler for Vehicle.
// The "kinematics" field must contain a "model" discriminator key that selects the
// concrete implementation; the rest of the object is forwarded to that implementation.
//
// Supported models:
//   - "constant": fixed traction / braking limits.
func (v *Vehicle) UnmarshalJSON(data []byte) error {
	var aux vehicleJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	v.Name = aux.Name
	v.Length = aux.Length

	if len(aux.Kinem) == 0 {
		return fmt.Errorf("vehicle %q: missing \"kinematics\" field", v.Name)
	}

	var disc kinematicsDisc
	if err := json.Unmarshal(aux.Kinem, &disc); err != nil {
		return fmt.Errorf("vehicle %q: reading kinematics model discriminator: %w", v.Name, err)
	}

	switch disc.Model {
	case kinematics.ConstantModelName:
		var k kinematics.ConstantAcceleration
		if err := json.Unmarshal(aux.Kinem, &k); err != nil {
			return fmt.Errorf("vehicle %q: parsing constant kinematics: %w", v.Name, err)
		}
		v.Kinem = k
	default:
		return fmt.Errorf("vehicle %q: unknown kinematics model %q", v.Name, disc.Model)
	}
	return nil
}

// MarshalJSON writes the vehicle back in its input shape.
func (v Vehicle) MarshalJSON() ([]byte, error) {
	var kinem any
	if c, ok := v.Kinem.(kinematics.ConstantAcceleration); ok {
		kinem = struct {
			Model string `json:"model"`
			kinematics.ConstantAcceleration
		}{kinematics.ConstantModelName, c}
	}
	return json.Marshal(struct {
		Name   string  `json:"name"`
		Length float64 `json:"length"`
		Kinem  any     `json:"kinematics,omitempty"`
	}{v.Name, v.Length, kinem})
}

// Ego is a Vehicle enriched with live simulation state.
type Ego struct {
	Vehicle
	Position float64 // metres from the road origin
	Velocity float64 // m/s
	Accel    float64 // m/s², last applied
	State    State
}

// NewEgo places the vehicle at the road origin moving at v0.
func NewEgo(v Vehicle, v0 float64) (*Ego, error) {
	if v.Kinem == nil {
		return nil, fmt.Errorf("vehicle %q has no kinematics model", v.Name)
	}
	if v0 < 0 {
		return nil, fmt.Errorf("vehicle %q: initial velocity must not be negative, got %v", v.Name, v0)
	}
	if vmax := v.Kinem.VMax(); vmax > 0 && v0 > vmax {
		return nil, fmt.Errorf("vehicle %q: initial velocity %v exceeds v_max %v", v.Name, v0, vmax)
	}
	e := &Ego{Vehicle: v, Velocity: v0, State: StateCruising}
	if v0 == 0 {
		e.State = StateStopped
	}
	return e, nil
}

// Apply integrates a commanded acceleration over dt seconds and returns the distance travelled.
func (e *Ego) Apply(accel, dt float64) float64 {
	dist, newV, applied := e.Kinem.Step(e.Velocity, accel, dt)
	e.Position += dist
	e.Velocity = newV
	e.Accel = applied
	e.State = stateFor(newV, applied)
	return dist
}

// Hold stops the vehicle where it is.
func (e *Ego) Hold() {
	e.Velocity = 0
	e.Accel = 0
	e.State = StateStopped
}

func stateFor(v, a float64) State {
	switch {
	case v <= 0:
		return StateStopped
	case a > cruiseBand:
		return StateAccelerating
	case a < -cruiseBand:
		return StateBraking
	default:
		return StateCruising
	}
}

// EgoLog is a point-in-time snapshot of the ego state.
type EgoLog struct {
	Position float64 `json:"position"`
	Velocity float64 `json:"velocity"`
	Accel    float64 `json:"accel"`
	State    State   `json:"state"`
}

// GetLog returns a point-in-time snapshot of the ego state.
func (e *Ego) GetLog() EgoLog {
	return EgoLog{
		Position: e.Position,
		Velocity: e.Velocity,
		Accel:    e.Accel,
		State:    e.State,
	}
}
