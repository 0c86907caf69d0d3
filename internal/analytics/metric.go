package analytics

import (
	"github.com/prismlab/prism/internal/core"
)

// Canonical metric names, matching the MetricsBundle JSON field names.
const (
	MetricTotalReturn          = "total_return"
	MetricAnnualReturn         = "annual_return"
	MetricVolatility           = "volatility"
	MetricSharpeRatio          = "sharpe_ratio"
	MetricSortinoRatio         = "sortino_ratio"
	MetricMaxDrawdown          = "max_drawdown"
	MetricVaR95                = "var_95"
	MetricVaR99                = "var_99"
	MetricCVaR95               = "cvar_95"
	MetricWinRate              = "win_rate"
	MetricProfitFactor         = "profit_factor"
	MetricRecoveryFactor       = "recovery_factor"
	MetricTotalTrades          = "total_trades"
	MetricAvgHoldingPeriodDays = "avg_holding_period_days"
	MetricMaxConsecutiveLosses = "max_consecutive_losses"
)

// MetricNames lists every addressable bundle metric.
var MetricNames = []string{
	MetricTotalReturn,
	MetricAnnualReturn,
	MetricVolatility,
	MetricSharpeRatio,
	MetricSortinoRatio,
	MetricMaxDrawdown,
	MetricVaR95,
	MetricVaR99,
	MetricCVaR95,
	MetricWinRate,
	MetricProfitFactor,
	MetricRecoveryFactor,
	MetricTotalTrades,
	MetricAvgHoldingPeriodDays,
	MetricMaxConsecutiveLosses,
}

// MetricValue extracts a named scalar from a bundle. Unknown names
// surface ErrUnknownMetric so callers cannot silently chart a typo.
func MetricValue(b core.MetricsBundle, name string) (float64, error) {
	switch name {
	case MetricTotalReturn:
		return b.TotalReturn, nil
	case MetricAnnualReturn:
		return b.AnnualReturn, nil
	case MetricVolatility:
		return b.Volatility, nil
	case MetricSharpeRatio:
		return b.SharpeRatio, nil
	case MetricSortinoRatio:
		return b.SortinoRatio, nil
	case MetricMaxDrawdown:
		return b.MaxDrawdown, nil
	case MetricVaR95:
		return b.VaR95, nil
	case MetricVaR99:
		return b.VaR99, nil
	case MetricCVaR95:
		return b.CVaR95, nil
	case MetricWinRate:
		return b.WinRate, nil
	case MetricProfitFactor:
		return b.ProfitFactor, nil
	case MetricRecoveryFactor:
		return b.RecoveryFactor, nil
	case MetricTotalTrades:
		return float64(b.TotalTrades), nil
	case MetricAvgHoldingPeriodDays:
		return b.AvgHoldingPeriodDays, nil
	case MetricMaxConsecutiveLosses:
		return float64(b.MaxConsecutiveLosses), nil
	}
	return 0, core.ErrUnknownMetric
}
