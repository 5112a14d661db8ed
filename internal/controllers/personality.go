package controllers

import "fmt"

// Personality is the driver's chosen following style.
type Personality string

const (
	PersonalityRelaxed    Personality = "relaxed"
	PersonalityStandard   Personality = "standard"
	PersonalityAggressive Personality = "aggressive"
)

// ParsePersonality accepts the three personality names; empty means standard.
func ParsePersonality(s string) (Personality, error) {
	switch p := Personality(s); p {
	case "":
		return PersonalityStandard, nil
	case PersonalityRelaxed, PersonalityStandard, PersonalityAggressive:
		return p, nil
	}
	return "", fmt.Errorf("unknown personality %q", s)
}

// PersonalityController applies a requested personality at the next cycle boundary so
// a change never lands mid-cycle.
type PersonalityController struct {
	requested Personality
	active    Personality
}

func NewPersonalityController(p Personality) *PersonalityController {
	return &PersonalityController{requested: p, active: p}
}

// Request asks for a new personality from the next Update onward.
func (c *PersonalityController) Request(p Personality) { c.requested = p }

func (c *PersonalityController) Update() { c.active = c.requested }

func (c *PersonalityController) Active() Personality { return c.active }

// AccelScale scales the positive acceleration the MPC stand-in may request.
func (c *PersonalityController) AccelScale() float64 {
	switch c.active {
	case PersonalityRelaxed:
		return 0.7
	case PersonalityAggressive:
		return 1.2
	default:
		return 1.0
	}
}
