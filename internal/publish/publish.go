// Package publish delivers planner output to whatever lies beyond the control loop:
// a JSON-lines stream, OpenTelemetry metrics, or an in-memory log.
package publish

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/cxd309/longplan/internal/planner"
)

// Publisher receives one plan per control cycle.
type Publisher interface {
	Publish(plan planner.Plan) error
}

// JSONLines writes each plan as a single line of JSON.
type JSONLines struct {
	enc *json.Encoder
}

func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{enc: json.NewEncoder(w)}
}

func (j *JSONLines) Publish(plan planner.Plan) error {
	if err := j.enc.Encode(plan); err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}
	return nil
}

// Collector keeps every published plan in memory.
type Collector struct {
	Plans []planner.Plan
}

func (c *Collector) Publish(plan planner.Plan) error {
	c.Plans = append(c.Plans, plan)
	return nil
}

// Fanout publishes to each publisher in turn. Every publisher sees every plan; errors
// are joined.
type Fanout []Publisher

func (f Fanout) Publish(plan planner.Plan) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(plan); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
