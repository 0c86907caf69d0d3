package analytics

import (
	"github.com/prismlab/prism/internal/core"
)

// ComputeReturns converts an equity curve into period-over-period
// fractional returns. The output has the same length as the input:
// returns[0] is always 0 (the first point is the reference, no prior
// value exists). This length parity is a deliberate contract so
// callers can align returns with equity points by index.
//
// A zero equity value ahead of another point makes the following
// return undefined; that is malformed input and surfaces as
// ErrDivisionByZero.
func ComputeReturns(equity []core.EquityPoint) ([]float64, error) {
	if len(equity) == 0 {
		return nil, core.ErrInvalidInput
	}

	returns := make([]float64, len(equity))
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Value
		if prev == 0 {
			return nil, core.ErrDivisionByZero
		}
		returns[i] = (equity[i].Value - prev) / prev
	}
	return returns, nil
}

// ComputeDrawdown computes the fractional decline from the running
// peak at every point of the equity curve. Values are always <= 0 and
// exactly 0 wherever the curve sets a new running maximum.
func ComputeDrawdown(equity []core.EquityPoint) ([]float64, error) {
	if len(equity) == 0 {
		return nil, core.ErrInvalidInput
	}

	drawdown := make([]float64, len(equity))
	peak := equity[0].Value
	for i, p := range equity {
		if p.Value > peak {
			peak = p.Value
		}
		if peak != 0 {
			drawdown[i] = (p.Value - peak) / peak
		}
	}
	return drawdown, nil
}

// MaxDrawdown returns the most negative value of a drawdown series,
// or 0 for a curve that never declines.
func MaxDrawdown(drawdown []float64) float64 {
	var maxDD float64
	for _, dd := range drawdown {
		if dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}
