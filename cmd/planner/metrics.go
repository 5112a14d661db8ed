package main

import (
	"fmt"
	"io"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// writeMetrics prints one line per collected data point, sorted within each instrument.
func writeMetrics(w io.Writer, rm metricdata.ResourceMetrics) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			var lines []string
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					lines = append(lines, fmt.Sprintf("%s{%s} %d", m.Name, encode(dp.Attributes), dp.Value))
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					lo, _ := dp.Min.Value()
					hi, _ := dp.Max.Value()
					lines = append(lines, fmt.Sprintf("%s{%s} count=%d sum=%.4f min=%.4f max=%.4f",
						m.Name, encode(dp.Attributes), dp.Count, dp.Sum, lo, hi))
				}
			case metricdata.Gauge[float64]:
				for _, dp := range data.DataPoints {
					lines = append(lines, fmt.Sprintf("%s{%s} %.4f", m.Name, encode(dp.Attributes), dp.Value))
				}
			}
			slices.Sort(lines)
			for _, l := range lines {
				fmt.Fprintln(w, l)
			}
		}
	}
}

func encode(set attribute.Set) string { return set.Encoded(attribute.DefaultEncoder()) }
