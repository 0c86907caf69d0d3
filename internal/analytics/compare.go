package analytics

import (
	"github.com/prismlab/prism/internal/core"
)

// NamedBundle pairs a strategy name with its metrics bundle.
type NamedBundle struct {
	Name   string             `json:"name"`
	Bundle core.MetricsBundle `json:"metrics"`
}

// comparisonMetrics is the fixed metric set every comparison table
// carries, mirroring what the dashboard charts side by side.
var comparisonMetrics = []string{
	MetricAnnualReturn,
	MetricSharpeRatio,
	MetricMaxDrawdown,
	MetricWinRate,
}

// CompareStrategies builds a cross-strategy comparison table: one
// parallel value array per fixed metric, keyed by strategy name in
// input order. A single entry is a valid (degenerate) comparison;
// an empty input is not.
func CompareStrategies(entries []NamedBundle) (*core.ComparisonTable, error) {
	if len(entries) == 0 {
		return nil, core.ErrInvalidInput
	}

	table := &core.ComparisonTable{
		Strategies: make([]string, len(entries)),
		Metrics:    make(map[string][]core.Float, len(comparisonMetrics)),
	}
	for i, e := range entries {
		table.Strategies[i] = e.Name
	}

	for _, metric := range comparisonMetrics {
		values := make([]core.Float, len(entries))
		for i, e := range entries {
			// Fixed set only contains known names.
			v, _ := MetricValue(e.Bundle, metric)
			values[i] = core.Float(v)
		}
		table.Metrics[metric] = values
	}

	return table, nil
}
