// Package transition tracks how far the planner is through the smoothing window that
// follows a switch into the blended planning mode.
package transition

import "fmt"

// DefaultSteps is the number of control cycles in one smoothing window.
const DefaultSteps = 20

// Mode is the active longitudinal planning paradigm.
type Mode uint8

const (
	ModeAcc Mode = iota
	ModeBlended
)

func (m Mode) String() string {
	switch m {
	case ModeAcc:
		return "acc"
	case ModeBlended:
		return "blended"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ParseMode converts "acc" or "blended" into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "acc":
		return ModeAcc, nil
	case "blended":
		return ModeBlended, nil
	}
	return ModeAcc, fmt.Errorf("unknown mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m > ModeBlended {
		return nil, fmt.Errorf("unknown mode %d", uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Tracker counts the cycles elapsed since the mode last switched into ModeBlended.
// It is owned by a single planner and is not safe for concurrent use.
type Tracker struct {
	counter  int
	steps    int
	lastMode Mode
}

// NewTracker returns a tracker with an empty counter and ModeAcc as the last mode.
// steps must be positive.
func NewTracker(steps int) *Tracker {
	return NewTrackerAt(steps, 0, ModeAcc)
}

// NewTrackerAt returns a tracker restored to the given counter and last mode.
// The counter is clamped to [0, steps].
func NewTrackerAt(steps, counter int, last Mode) *Tracker {
	if steps <= 0 {
		panic(fmt.Sprintf("transition: steps must be positive, got %d", steps))
	}
	return &Tracker{counter: min(max(counter, 0), steps), steps: steps, lastMode: last}
}

// HandleModeTransition records the mode reported this cycle. Entering ModeBlended from
// any other mode restarts the window. It reports whether the mode changed.
func (t *Tracker) HandleModeTransition(mode Mode) bool {
	if mode == t.lastMode {
		return false
	}
	if mode == ModeBlended {
		t.counter = 0
	}
	t.lastMode = mode
	return true
}

// Advance moves the window forward by one cycle and returns the new progress.
// It must be called at most once per control cycle.
func (t *Tracker) Advance() float64 {
	if t.counter < t.steps {
		t.counter++
	}
	return t.Progress()
}

// Done reports whether the smoothing window has closed.
func (t *Tracker) Done() bool { return t.counter >= t.steps }

// Progress returns counter/steps, always within [0, 1].
func (t *Tracker) Progress() float64 { return float64(t.counter) / float64(t.steps) }

func (t *Tracker) Counter() int   { return t.counter }
func (t *Tracker) Steps() int     { return t.steps }
func (t *Tracker) LastMode() Mode { return t.lastMode }
