package analytics

import (
	"math"
	"time"

	"github.com/prismlab/prism/internal/core"
)

// Analyze runs the full analytics pipeline over one equity curve and
// trade log: returns, drawdown, risk metrics and trade statistics,
// assembled into a single immutable MetricsBundle. The bundle is
// created once per request and never mutated afterwards.
func Analyze(equity []core.EquityPoint, trades []core.Trade, p Params) (*core.AnalysisResult, error) {
	returns, err := ComputeReturns(equity)
	if err != nil {
		return nil, err
	}

	drawdown, err := ComputeDrawdown(equity)
	if err != nil {
		return nil, err
	}

	risk, err := ComputeRiskMetrics(returns, p)
	if err != nil {
		return nil, err
	}

	tradeStats := ComputeTradeStats(trades)

	totalReturn := equity[len(equity)-1].Value/equity[0].Value - 1
	maxDD := MaxDrawdown(drawdown)

	bundle := core.MetricsBundle{
		TotalReturn:          totalReturn,
		AnnualReturn:         risk.AnnualReturn,
		Volatility:           risk.Volatility,
		SharpeRatio:          risk.Sharpe,
		SortinoRatio:         risk.Sortino,
		MaxDrawdown:          maxDD,
		VaR95:                risk.VaR95,
		VaR99:                risk.VaR99,
		CVaR95:               risk.CVaR95,
		VaRLowSample:         risk.VaRLowSample,
		WinRate:              tradeStats.WinRate,
		ProfitFactor:         tradeStats.ProfitFactor,
		RecoveryFactor:       recoveryFactor(totalReturn, maxDD),
		TotalTrades:          tradeStats.TotalTrades,
		AvgHoldingPeriodDays: tradeStats.AvgHoldingPeriodDays,
		MaxConsecutiveLosses: tradeStats.MaxConsecutiveLosses,
	}

	return &core.AnalysisResult{
		Bundle:    bundle,
		Returns:   returns,
		Drawdown:  drawdown,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// recoveryFactor is |totalReturn / maxDrawdown|; a curve that never
// drew down yields the +Inf sentinel (nothing to recover from).
func recoveryFactor(totalReturn, maxDD float64) float64 {
	if maxDD == 0 {
		if totalReturn == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return math.Abs(totalReturn / maxDD)
}
