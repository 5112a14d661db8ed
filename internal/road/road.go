// Package road describes the stretch of road the simulated ego vehicle drives along:
// an ordered list of sections, each with an optional speed limit, a curvature, and an
// optional stop line at its end.
package road

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// SectionID is a string identifier for a road section.
type SectionID = string

// Section is a contiguous stretch of road with uniform attributes.
// SpeedLimit is optional: if nil the section imposes no posted limit.
type Section struct {
	ID         SectionID `json:"section_id"`
	Length     float64   `json:"length"`                // metres
	SpeedLimit *float64  `json:"speed_limit,omitempty"` // m/s; nil = no posted limit
	Curvature  float64   `json:"curvature,omitempty"`   // 1/m, signed
	Stop       bool      `json:"stop,omitempty"`        // stop line at the end of the section
}

// RoadData is the serialisable input representation of a road.
type RoadData struct {
	Sections []Section `json:"sections"`
}

// ErrOffRoad is returned for positions outside [0, Length()].
var ErrOffRoad = errors.New("position is off the road")

// Road is an immutable, validated sequence of sections.
type Road struct {
	sections   []Section
	starts     []float64 // distance from the road origin to each section start
	sectionMap map[SectionID]int
	length     float64
}

// NewRoad builds a Road from RoadData, returning an error if any section is invalid.
func NewRoad(data RoadData) (*Road, error) {
	if len(data.Sections) == 0 {
		return nil, errors.New("road has no sections")
	}
	r := &Road{sectionMap: make(map[SectionID]int, len(data.Sections))}
	for _, s := range data.Sections {
		if err := r.addSection(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Road) addSection(s Section) error {
	if _, exists := r.sectionMap[s.ID]; exists {
		return fmt.Errorf("section %q already exists", s.ID)
	}
	if s.Length <= 0 {
		return fmt.Errorf("section %q: length must be positive, got %v", s.ID, s.Length)
	}
	if s.SpeedLimit != nil && *s.SpeedLimit <= 0 {
		return fmt.Errorf("section %q: speed limit must be positive, got %v", s.ID, *s.SpeedLimit)
	}
	r.sectionMap[s.ID] = len(r.sections)
	r.sections = append(r.sections, s)
	r.starts = append(r.starts, r.length)
	r.length += s.Length
	return nil
}

// Length returns the total road length in metres.
func (r *Road) Length() float64 { return r.length }

// GetSectionByID looks up a section by its ID.
func (r *Road) GetSectionByID(id SectionID) (Section, error) {
	i, ok := r.sectionMap[id]
	if !ok {
		return Section{}, fmt.Errorf("section %q not found", id)
	}
	return r.sections[i], nil
}

// index returns the section containing pos. The end of the road belongs to the last section.
func (r *Road) index(pos float64) (int, error) {
	if pos < 0 || pos > r.length || math.IsNaN(pos) {
		return 0, fmt.Errorf("%w: %.2f m of %.2f m", ErrOffRoad, pos, r.length)
	}
	i := sort.Search(len(r.starts), func(i int) bool { return r.starts[i] > pos }) - 1
	return max(i, 0), nil
}

// SectionAt returns the section containing pos and the distance remaining on it.
func (r *Road) SectionAt(pos float64) (Section, float64, error) {
	i, err := r.index(pos)
	if err != nil {
		return Section{}, 0, err
	}
	s := r.sections[i]
	return s, r.starts[i] + s.Length - pos, nil
}

// SpeedLimitAt returns the posted limit at pos, or false where none is posted.
func (r *Road) SpeedLimitAt(pos float64) (float64, bool, error) {
	s, _, err := r.SectionAt(pos)
	if err != nil || s.SpeedLimit == nil {
		return 0, false, err
	}
	return *s.SpeedLimit, true, nil
}

// NextSpeedLimit returns the first posted limit after the current section that differs
// from the limit at pos, with the distance to it. ok is false when there is none.
func (r *Road) NextSpeedLimit(pos float64) (limit, dist float64, ok bool, err error) {
	i, err := r.index(pos)
	if err != nil {
		return 0, 0, false, err
	}
	cur := r.sections[i].SpeedLimit
	for j := i + 1; j < len(r.sections); j++ {
		next := r.sections[j].SpeedLimit
		if next == nil || (cur != nil && *next == *cur) {
			continue
		}
		return *next, r.starts[j] - pos, true, nil
	}
	return 0, 0, false, nil
}

// MaxCurvatureAhead returns the largest absolute curvature between pos and pos+horizon,
// with the distance to where it starts (0 when already inside it).
func (r *Road) MaxCurvatureAhead(pos, horizon float64) (curvature, dist float64, err error) {
	i, err := r.index(pos)
	if err != nil {
		return 0, 0, err
	}
	end := pos + horizon
	for j := i; j < len(r.sections) && r.starts[j] <= end; j++ {
		if k := math.Abs(r.sections[j].Curvature); k > curvature {
			curvature = k
			dist = math.Max(0, r.starts[j]-pos)
		}
	}
	return curvature, dist, nil
}

// NextStop returns the distance from pos to the next stop line, or false when none lies ahead.
func (r *Road) NextStop(pos float64) (float64, bool, error) {
	i, err := r.index(pos)
	if err != nil {
		return 0, false, err
	}
	for j := i; j < len(r.sections); j++ {
		if !r.sections[j].Stop {
			continue
		}
		d := r.starts[j] + r.sections[j].Length - pos
		if d < 0 {
			continue
		}
		return d, true, nil
	}
	return 0, false, nil
}
