// Package advisor turns a metrics bundle into rule-based optimization
// advice. Every rule is a pure predicate over the bundle; all
// applicable rules fire independently and an empty result means the
// strategy passed every check.
package advisor

import (
	"github.com/prismlab/prism/internal/analytics"
	"github.com/prismlab/prism/internal/core"
)

// Rule thresholds. Named so they are independently testable and
// swappable, not buried at the call sites.
const (
	MinTotalReturn   = 0.10 // total return below this flags the return aspect
	MaxDrawdownLimit = 0.20 // drawdown magnitude above this flags risk
	MaxTradesPerDay  = 0.5  // trades per observed trading day above this flags overtrading
	MinWinRate       = 0.40 // win rate below this flags entry quality
	MinSharpe        = 1.0  // Sharpe below this flags risk-adjusted return
)

// Advisor evaluates the fixed diagnostic rule set. Benchmarks is the
// metric-to-benchmark descriptor table the dashboard shows next to
// each metric card; it is configuration, not logic.
type Advisor struct {
	benchmarks map[string]string
}

// New creates an advisor with the default benchmark table overlaid by
// the given overrides.
func New(overrides map[string]string) *Advisor {
	benchmarks := make(map[string]string, len(defaultBenchmarks))
	for k, v := range defaultBenchmarks {
		benchmarks[k] = v
	}
	for k, v := range overrides {
		benchmarks[k] = v
	}
	return &Advisor{benchmarks: benchmarks}
}

// defaultBenchmarks describe the market reference for each headline
// metric.
var defaultBenchmarks = map[string]string{
	analytics.MetricTotalReturn:  "market benchmark: 10%/year",
	analytics.MetricAnnualReturn: "market benchmark: 8-12%",
	analytics.MetricVolatility:   "market benchmark: 15-20%",
	analytics.MetricSharpeRatio:  "market benchmark: >1.0",
	analytics.MetricMaxDrawdown:  "market benchmark: <20%",
	analytics.MetricWinRate:      "market benchmark: >50%",
}

// Benchmarks returns the benchmark descriptor table.
func (a *Advisor) Benchmarks() map[string]string {
	out := make(map[string]string, len(a.benchmarks))
	for k, v := range a.benchmarks {
		out[k] = v
	}
	return out
}

// Generate evaluates every rule against the bundle. The evaluation is
// stateless and deterministic; tradingDaysObserved must be positive
// since the frequency rule divides by it.
func (a *Advisor) Generate(bundle core.MetricsBundle, tradingDaysObserved int) ([]core.AdviceItem, error) {
	if tradingDaysObserved <= 0 {
		return nil, core.ErrInvalidInput
	}

	advice := []core.AdviceItem{}

	if bundle.TotalReturn < MinTotalReturn {
		advice = append(advice, core.AdviceItem{
			Aspect:     core.AspectReturn,
			Issue:      "total return is low",
			Suggestion: "tune strategy parameters for higher returns, or try a different indicator combination",
		})
	}

	// MaxDrawdown is stored as a negative fraction; the rule compares
	// its magnitude.
	if -bundle.MaxDrawdown > MaxDrawdownLimit {
		advice = append(advice, core.AdviceItem{
			Aspect:     core.AspectRisk,
			Issue:      "maximum drawdown is too large",
			Suggestion: "add stop-loss conditions, tighten position sizing, or adjust entry timing",
		})
	}

	tradesPerDay := float64(bundle.TotalTrades) / float64(tradingDaysObserved)
	if tradesPerDay > MaxTradesPerDay {
		advice = append(advice, core.AdviceItem{
			Aspect:     core.AspectFrequency,
			Issue:      "trading frequency is too high",
			Suggestion: "add signal filters to cut trades triggered by false breakouts",
		})
	}

	if bundle.WinRate < MinWinRate {
		advice = append(advice, core.AdviceItem{
			Aspect:     core.AspectWinRate,
			Issue:      "win rate is low",
			Suggestion: "refine entry conditions, add trend confirmation, or rebalance the take-profit/stop-loss ratio",
		})
	}

	if bundle.SharpeRatio < MinSharpe {
		advice = append(advice, core.AdviceItem{
			Aspect:     core.AspectRiskAdjustedReturn,
			Issue:      "risk-adjusted return is unsatisfactory",
			Suggestion: "improve return per unit of risk; consider stronger risk controls",
		})
	}

	return advice, nil
}
