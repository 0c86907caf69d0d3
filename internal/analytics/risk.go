package analytics

import (
	"math"
	"sort"

	"github.com/prismlab/prism/internal/core"
)

// DefaultPeriodsPerYear is the annualization factor for daily equity
// curves (trading days per year).
const DefaultPeriodsPerYear = 252

// Params carries run metadata supplied by the backtest engine.
type Params struct {
	PeriodsPerYear int
	RiskFreeRate   float64
}

// withDefaults fills unset fields.
func (p Params) withDefaults() Params {
	if p.PeriodsPerYear <= 0 {
		p.PeriodsPerYear = DefaultPeriodsPerYear
	}
	return p
}

// RiskMetrics holds the risk scalars computed from a return series.
// Sharpe and Sortino carry a signed Inf sentinel when their
// denominator is zero; VaRLowSample is set when the sample is too
// small for the requested quantile and the estimate degraded to the
// minimum observed return.
type RiskMetrics struct {
	AnnualReturn float64
	Volatility   float64
	Sharpe       float64
	Sortino      float64
	VaR95        float64
	VaR99        float64
	CVaR95       float64
	VaRLowSample bool
}

// ComputeRiskMetrics computes annualized volatility, Sharpe, Sortino
// and historical-simulation VaR/CVaR from a return series. The
// function is pure and deterministic; the only failure mode is an
// empty series.
func ComputeRiskMetrics(returns []float64, p Params) (RiskMetrics, error) {
	if len(returns) == 0 {
		return RiskMetrics{}, core.ErrInvalidInput
	}
	p = p.withDefaults()

	annual := annualizedReturn(returns, p.PeriodsPerYear)
	vol := sampleStdDev(returns) * math.Sqrt(float64(p.PeriodsPerYear))

	m := RiskMetrics{
		AnnualReturn: annual,
		Volatility:   vol,
		Sharpe:       ratioOrInf(annual-p.RiskFreeRate, vol),
		Sortino:      ratioOrInf(annual, downsideDeviation(returns, p.PeriodsPerYear)),
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	var low95, low99 bool
	m.VaR95, low95 = historicalVaR(sorted, 0.95)
	m.VaR99, low99 = historicalVaR(sorted, 0.99)
	m.VaRLowSample = low95 || low99
	m.CVaR95 = tailMean(sorted, 0.95)

	return m, nil
}

// annualizedReturn compounds the per-period returns geometrically and
// scales to one year. The number of observed periods is len(returns);
// the leading zero from the returns convention contributes nothing to
// the product but does count as a period.
func annualizedReturn(returns []float64, periodsPerYear int) float64 {
	growth := 1.0
	for _, r := range returns {
		growth *= 1 + r
	}
	if growth <= 0 {
		return -1
	}
	exponent := float64(periodsPerYear) / float64(len(returns))
	return math.Pow(growth, exponent) - 1
}

// sampleStdDev computes the n-1 standard deviation; 0 for fewer than
// two observations.
func sampleStdDev(returns []float64) float64 {
	n := len(returns)
	if n < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(n)

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	return math.Sqrt(variance / float64(n-1))
}

// downsideDeviation is the root mean square of the negative portion
// of every return, annualized. Positive returns contribute zero, so a
// series without losses yields 0.
func downsideDeviation(returns []float64, periodsPerYear int) float64 {
	var sumSq float64
	for _, r := range returns {
		if r < 0 {
			sumSq += r * r
		}
	}
	return math.Sqrt(sumSq/float64(len(returns))) * math.Sqrt(float64(periodsPerYear))
}

// ratioOrInf divides with the documented sentinel policy: a zero
// denominator yields a signed Inf matching the numerator, or 0 when
// the numerator is also zero.
func ratioOrInf(num, den float64) float64 {
	if den == 0 {
		switch {
		case num > 0:
			return math.Inf(1)
		case num < 0:
			return math.Inf(-1)
		default:
			return 0
		}
	}
	return num / den
}

// historicalVaR picks the empirical quantile at floor(n*(1-c)) from an
// ascending-sorted return series. Samples smaller than 1/(1-c) cannot
// resolve the quantile; the estimate degrades to the minimum return
// and is reported as low confidence.
func historicalVaR(sorted []float64, confidence float64) (float64, bool) {
	n := len(sorted)
	minSample := int(math.Ceil(1 / (1 - confidence)))
	idx := int(math.Floor(float64(n) * (1 - confidence)))
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx], n < minSample
}

// tailMean averages the returns at or below the VaR cutoff index:
// the expected loss in the worst (1-c) tail.
func tailMean(sorted []float64, confidence float64) float64 {
	n := len(sorted)
	idx := int(math.Floor(float64(n) * (1 - confidence)))
	if idx >= n {
		idx = n - 1
	}

	var sum float64
	for i := 0; i <= idx; i++ {
		sum += sorted[i]
	}
	return sum / float64(idx+1)
}
