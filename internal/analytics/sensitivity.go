package analytics

import (
	"sort"

	"github.com/prismlab/prism/internal/core"
)

// BuildSensitivityCurve orders the runs of a parameter sweep by
// ascending parameter value, validating that the requested metric
// exists and that every parameter value is unique; two runs at the
// same value would make the curve ambiguous. The points are returned
// raw: no interpolation or smoothing, callers render them as-is.
func BuildSensitivityCurve(runs []core.SensitivityPoint, metric string) ([]core.SensitivityPoint, error) {
	if len(runs) == 0 {
		return nil, core.ErrInvalidInput
	}
	if _, err := MetricValue(runs[0].Bundle, metric); err != nil {
		return nil, err
	}

	seen := make(map[float64]bool, len(runs))
	for _, r := range runs {
		if seen[r.ParamValue] {
			return nil, core.ErrDuplicateParam
		}
		seen[r.ParamValue] = true
	}

	curve := make([]core.SensitivityPoint, len(runs))
	copy(curve, runs)
	sort.Slice(curve, func(i, j int) bool {
		return curve[i].ParamValue < curve[j].ParamValue
	})

	return curve, nil
}

// SensitivityValues projects a curve onto one metric, in curve order.
// The curve must have been built for a known metric name.
func SensitivityValues(curve []core.SensitivityPoint, metric string) ([]float64, error) {
	values := make([]float64, len(curve))
	for i, p := range curve {
		v, err := MetricValue(p.Bundle, metric)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
