package analytics

import (
	"math"

	"github.com/prismlab/prism/internal/core"
)

const hoursPerDay = 24

// TradeStats holds win/loss statistics aggregated from a trade log.
type TradeStats struct {
	TotalTrades          int
	WinRate              float64
	ProfitFactor         float64
	MaxConsecutiveLosses int
	AvgHoldingPeriodDays float64
}

// ComputeTradeStats aggregates a trade log. Open trades (nil profit)
// count toward TotalTrades but are excluded from win/loss
// classification. WinRate defaults to 0 when no trade has closed,
// an explicit zero rather than NaN. ProfitFactor is +Inf when there are
// closed trades but no losers.
//
// An empty trade log is valid (a strategy that never traded) and
// yields the zero stats.
func ComputeTradeStats(trades []core.Trade) TradeStats {
	stats := TradeStats{TotalTrades: len(trades)}
	if len(trades) == 0 {
		return stats
	}

	var wins, closed int
	var grossProfit, grossLoss float64
	var streak, maxStreak int

	for _, t := range trades {
		if !t.IsClosed() {
			continue
		}
		closed++
		profit := *t.Profit
		if profit > 0 {
			wins++
			grossProfit += profit
		} else if profit < 0 {
			grossLoss += -profit
		}

		if profit < 0 {
			streak++
			if streak > maxStreak {
				maxStreak = streak
			}
		} else {
			streak = 0
		}
	}

	if closed > 0 {
		stats.WinRate = float64(wins) / float64(closed)
		if grossLoss == 0 {
			if grossProfit > 0 {
				stats.ProfitFactor = math.Inf(1)
			}
		} else {
			stats.ProfitFactor = grossProfit / grossLoss
		}
	}
	stats.MaxConsecutiveLosses = maxStreak
	stats.AvgHoldingPeriodDays = avgHoldingPeriod(trades)

	return stats
}

// avgHoldingPeriod measures the mean round-trip duration from
// FIFO-matched buy/sell pairs. When the log carries no matched pairs
// (e.g. the engine only reports exits) it falls back to the coarse
// approximation calendarDays / max(1, trades/2); half the entries are
// assumed to be entries. The fallback is an approximation by
// contract, not an accounting method.
func avgHoldingPeriod(trades []core.Trade) float64 {
	var openBuys []core.Trade
	var totalHours float64
	var matched int

	for _, t := range trades {
		switch t.Side {
		case core.SideBuy:
			openBuys = append(openBuys, t)
		case core.SideSell:
			if len(openBuys) > 0 {
				entry := openBuys[0]
				openBuys = openBuys[1:]
				totalHours += t.Time.Sub(entry.Time).Hours()
				matched++
			}
		}
	}

	if matched > 0 {
		return totalHours / float64(matched) / hoursPerDay
	}

	calendarDays := trades[len(trades)-1].Time.Sub(trades[0].Time).Hours() / hoursPerDay
	roundTrips := len(trades) / 2
	if roundTrips < 1 {
		roundTrips = 1
	}
	return calendarDays / float64(roundTrips)
}
