package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// EquityPoint is one sample of a strategy's net asset value.
// Curves are ordered by strictly increasing timestamps; the first
// value is the baseline that defines 0% return.
type EquityPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Side represents the direction of a trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Trade is one entry from an externally produced trade log.
// Profit is nil while the position is still open; once closed its
// sign classifies the trade as a win or a loss.
type Trade struct {
	Time   time.Time `json:"time"`
	Side   Side      `json:"side"`
	Price  float64   `json:"price"`
	Size   float64   `json:"size"`
	Profit *float64  `json:"profit"`
}

// IsClosed reports whether the trade has a realized profit.
func (t Trade) IsClosed() bool {
	return t.Profit != nil
}

// IsWin reports whether the trade closed with a positive profit.
func (t Trade) IsWin() bool {
	return t.Profit != nil && *t.Profit > 0
}

// MetricsBundle is the immutable aggregate of all scalars computed for
// one analysis request. Degenerate ratios (no losing trades, zero
// volatility, zero drawdown) carry IEEE ±Inf sentinels rather than a
// silent zero; the JSON marshalling below defines how those travel
// over the wire.
type MetricsBundle struct {
	TotalReturn          float64 `json:"total_return"`
	AnnualReturn         float64 `json:"annual_return"`
	Volatility           float64 `json:"volatility"`
	SharpeRatio          float64 `json:"sharpe_ratio"`
	SortinoRatio         float64 `json:"sortino_ratio"`
	MaxDrawdown          float64 `json:"max_drawdown"`
	VaR95                float64 `json:"var_95"`
	VaR99                float64 `json:"var_99"`
	CVaR95               float64 `json:"cvar_95"`
	VaRLowSample         bool    `json:"var_low_sample"`
	WinRate              float64 `json:"win_rate"`
	ProfitFactor         float64 `json:"profit_factor"`
	RecoveryFactor       float64 `json:"recovery_factor"`
	TotalTrades          int     `json:"total_trades"`
	AvgHoldingPeriodDays float64 `json:"avg_holding_period_days"`
	MaxConsecutiveLosses int     `json:"max_consecutive_losses"`
}

// Float encodes non-finite floats as strings, since encoding/json
// rejects them. "+Inf" and "-Inf" are the documented wire form of the
// sentinel values. Every float the API emits travels as a Float so a
// degenerate ratio cannot break response encoding.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	}
	return json.Marshal(v)
}

func (f *Float) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"+Inf"`, `"Inf"`:
		*f = Float(math.Inf(1))
		return nil
	case `"-Inf"`:
		*f = Float(math.Inf(-1))
		return nil
	case `"NaN"`:
		*f = Float(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("parsing float: %w", err)
	}
	*f = Float(v)
	return nil
}

// metricsBundleWire mirrors MetricsBundle with sentinel-safe floats.
type metricsBundleWire struct {
	TotalReturn          Float `json:"total_return"`
	AnnualReturn         Float `json:"annual_return"`
	Volatility           Float `json:"volatility"`
	SharpeRatio          Float `json:"sharpe_ratio"`
	SortinoRatio         Float `json:"sortino_ratio"`
	MaxDrawdown          Float `json:"max_drawdown"`
	VaR95                Float `json:"var_95"`
	VaR99                Float `json:"var_99"`
	CVaR95               Float `json:"cvar_95"`
	VaRLowSample         bool      `json:"var_low_sample"`
	WinRate              Float `json:"win_rate"`
	ProfitFactor         Float `json:"profit_factor"`
	RecoveryFactor       Float `json:"recovery_factor"`
	TotalTrades          int       `json:"total_trades"`
	AvgHoldingPeriodDays Float `json:"avg_holding_period_days"`
	MaxConsecutiveLosses int       `json:"max_consecutive_losses"`
}

// MarshalJSON implements sentinel-safe encoding.
func (m MetricsBundle) MarshalJSON() ([]byte, error) {
	return json.Marshal(metricsBundleWire{
		TotalReturn:          Float(m.TotalReturn),
		AnnualReturn:         Float(m.AnnualReturn),
		Volatility:           Float(m.Volatility),
		SharpeRatio:          Float(m.SharpeRatio),
		SortinoRatio:         Float(m.SortinoRatio),
		MaxDrawdown:          Float(m.MaxDrawdown),
		VaR95:                Float(m.VaR95),
		VaR99:                Float(m.VaR99),
		CVaR95:               Float(m.CVaR95),
		VaRLowSample:         m.VaRLowSample,
		WinRate:              Float(m.WinRate),
		ProfitFactor:         Float(m.ProfitFactor),
		RecoveryFactor:       Float(m.RecoveryFactor),
		TotalTrades:          m.TotalTrades,
		AvgHoldingPeriodDays: Float(m.AvgHoldingPeriodDays),
		MaxConsecutiveLosses: m.MaxConsecutiveLosses,
	})
}

// UnmarshalJSON implements sentinel-safe decoding.
func (m *MetricsBundle) UnmarshalJSON(data []byte) error {
	var w metricsBundleWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*m = MetricsBundle{
		TotalReturn:          float64(w.TotalReturn),
		AnnualReturn:         float64(w.AnnualReturn),
		Volatility:           float64(w.Volatility),
		SharpeRatio:          float64(w.SharpeRatio),
		SortinoRatio:         float64(w.SortinoRatio),
		MaxDrawdown:          float64(w.MaxDrawdown),
		VaR95:                float64(w.VaR95),
		VaR99:                float64(w.VaR99),
		CVaR95:               float64(w.CVaR95),
		VaRLowSample:         w.VaRLowSample,
		WinRate:              float64(w.WinRate),
		ProfitFactor:         float64(w.ProfitFactor),
		RecoveryFactor:       float64(w.RecoveryFactor),
		TotalTrades:          w.TotalTrades,
		AvgHoldingPeriodDays: float64(w.AvgHoldingPeriodDays),
		MaxConsecutiveLosses: w.MaxConsecutiveLosses,
	}
	return nil
}

// AnalysisResult is the full output of one analysis request: the
// metrics bundle plus the derived series the dashboard renders.
type AnalysisResult struct {
	ID        string        `json:"id,omitempty"`
	Strategy  string        `json:"strategy,omitempty"`
	Bundle    MetricsBundle `json:"metrics"`
	Returns   []float64     `json:"returns"`
	Drawdown  []float64     `json:"drawdown"`
	CreatedAt time.Time     `json:"created_at"`
}

// SensitivityPoint pairs one parameter value of a sweep with the
// metrics bundle of its run.
type SensitivityPoint struct {
	ParamValue float64       `json:"param_value"`
	Bundle     MetricsBundle `json:"metrics"`
}

// Floats converts a raw series into its sentinel-safe wire form.
func Floats(vs []float64) []Float {
	out := make([]Float, len(vs))
	for i, v := range vs {
		out[i] = Float(v)
	}
	return out
}

// ComparisonTable holds parallel metric arrays keyed by strategy name.
// Input order is preserved; there is no implicit ranking. Columns use
// the Float wire type so sentinel values survive encoding.
type ComparisonTable struct {
	Strategies []string           `json:"strategies"`
	Metrics    map[string][]Float `json:"metrics"`
}

// Aspect classifies an advice item.
type Aspect string

const (
	AspectReturn             Aspect = "return"
	AspectRisk               Aspect = "risk"
	AspectFrequency          Aspect = "frequency"
	AspectWinRate            Aspect = "win_rate"
	AspectRiskAdjustedReturn Aspect = "risk_adjusted_return"
)

// AdviceItem is one rule-based diagnostic suggestion.
type AdviceItem struct {
	Aspect     Aspect `json:"aspect"`
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion"`
}
