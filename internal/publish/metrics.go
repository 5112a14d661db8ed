package publish

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/cxd309/longplan/internal/planner"
)

// Metrics records planner output as OpenTelemetry instruments.
type Metrics struct {
	cycles   metric.Int64Counter
	accel    metric.Float64Histogram
	progress metric.Float64Gauge
}

// NewMetrics creates the planner instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.cycles, err = meter.Int64Counter(
		"planner.cycles",
		metric.WithDescription("Planning cycles published, by target source and DEC mode"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create cycles counter: %w", err)
	}

	m.accel, err = meter.Float64Histogram(
		"planner.final_acceleration",
		metric.WithDescription("Commanded acceleration after blending"),
		metric.WithUnit("m/s2"),
	)
	if err != nil {
		return nil, fmt.Errorf("create acceleration histogram: %w", err)
	}

	m.progress, err = meter.Float64Gauge(
		"planner.transition_progress",
		metric.WithDescription("Progress through the blended-mode smoothing window"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create progress gauge: %w", err)
	}

	return m, nil
}

func (m *Metrics) Publish(plan planner.Plan) error {
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String("target.source", plan.TargetSource.String()),
		attribute.String("dec.state", plan.DEC.Mode.String()),
	)
	m.cycles.Add(ctx, 1, attrs)
	m.accel.Record(ctx, plan.FinalAcceleration, attrs)
	m.progress.Record(ctx, plan.TransitionProgress)
	return nil
}
