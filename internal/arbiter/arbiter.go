// Package arbiter selects the most conservative longitudinal target among a small,
// closed set of recommendation sources.
//
// Lower target velocity is treated as the safer choice: the planner always yields to
// whichever source wants to go slower. The chosen pair is returned verbatim; no
// interpolation happens at this stage.
package arbiter

import "fmt"

// SourceID identifies a recommendation source. Declaration order is the tie-break
// priority: when two candidates request the same velocity, the lower SourceID wins.
type SourceID uint8

const (
	SourceCruise SourceID = iota
	SourceVisionCurve

	numSources
)

var sourceNames = [numSources]string{
	SourceCruise:      "cruise",
	SourceVisionCurve: "vision_curve",
}

// NumSources is the size of the closed source set.
const NumSources = int(numSources)

func (s SourceID) String() string {
	if s < numSources {
		return sourceNames[s]
	}
	return fmt.Sprintf("source(%d)", uint8(s))
}

// MarshalText implements encoding.TextMarshaler so sources serialise as their label.
func (s SourceID) MarshalText() ([]byte, error) {
	if s >= numSources {
		return nil, fmt.Errorf("unknown source %d", uint8(s))
	}
	return []byte(sourceNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SourceID) UnmarshalText(b []byte) error {
	for i, name := range sourceNames {
		if name == string(b) {
			*s = SourceID(i)
			return nil
		}
	}
	return fmt.Errorf("unknown source %q", b)
}

// Candidate is one source's (velocity, acceleration) recommendation for this cycle.
type Candidate struct {
	Source       SourceID
	Velocity     float64 // m/s
	Acceleration float64 // m/s²
}

// Result is the arbitrated target.
type Result struct {
	Velocity     float64
	Acceleration float64
	Source       SourceID
}

// Select returns the candidate with the lowest velocity, breaking ties by SourceID.
// The outcome does not depend on the order of candidates.
//
// An empty candidate set is a programming error and panics.
func Select(candidates []Candidate) Result {
	if len(candidates) == 0 {
		panic("arbiter: Select called with no candidates")
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Velocity < best.Velocity || (c.Velocity == best.Velocity && c.Source < best.Source) {
			best = c
		}
	}
	return Result{Velocity: best.Velocity, Acceleration: best.Acceleration, Source: best.Source}
}
