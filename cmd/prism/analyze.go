package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/prismlab/prism/internal/advisor"
	"github.com/prismlab/prism/internal/analytics"
	"github.com/prismlab/prism/internal/core"
)

var (
	analyzePeriods  int
	analyzeRiskFree float64
	analyzeAdvice   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [run file]",
	Short: "Analyze a backtest run from a JSON file",
	Long: `Read an equity curve and trade log from a JSON file and print the
full performance and risk report. The file format matches the
/api/v1/analyze request body.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzePeriods, "periods", 0, "Periods per year (default 252)")
	analyzeCmd.Flags().Float64Var(&analyzeRiskFree, "risk-free", 0, "Annual risk-free rate")
	analyzeCmd.Flags().BoolVar(&analyzeAdvice, "advice", false, "Print optimization advice")

	rootCmd.AddCommand(analyzeCmd)
}

type runFile struct {
	Strategy string             `json:"strategy"`
	Equity   []core.EquityPoint `json:"equity"`
	Trades   []core.Trade       `json:"trades"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading run file: %w", err)
	}

	var run runFile
	if err := json.Unmarshal(raw, &run); err != nil {
		return fmt.Errorf("parsing run file: %w", err)
	}

	result, err := analytics.Analyze(run.Equity, run.Trades, analytics.Params{
		PeriodsPerYear: analyzePeriods,
		RiskFreeRate:   analyzeRiskFree,
	})
	if err != nil {
		return fmt.Errorf("analyzing run: %w", err)
	}

	m := result.Bundle

	fmt.Println("=== PRISM Analysis ===")
	if run.Strategy != "" {
		fmt.Printf("Strategy: %s\n", run.Strategy)
	}
	fmt.Printf("Points:   %d\n", len(run.Equity))
	fmt.Println()

	fmt.Println("Returns")
	fmt.Printf("  Total return:     %s\n", pct(m.TotalReturn))
	fmt.Printf("  Annual return:    %s\n", pct(m.AnnualReturn))
	fmt.Println()

	fmt.Println("Risk")
	fmt.Printf("  Volatility:       %s\n", pct(m.Volatility))
	fmt.Printf("  Sharpe ratio:     %s\n", ratio(m.SharpeRatio))
	fmt.Printf("  Sortino ratio:    %s\n", ratio(m.SortinoRatio))
	fmt.Printf("  Max drawdown:     %s\n", pct(m.MaxDrawdown))
	fmt.Printf("  VaR 95%%:          %s\n", pct(m.VaR95))
	fmt.Printf("  VaR 99%%:          %s\n", pct(m.VaR99))
	fmt.Printf("  CVaR 95%%:         %s\n", pct(m.CVaR95))
	if m.VaRLowSample {
		fmt.Println("  (VaR sample too small for the requested quantile)")
	}
	fmt.Println()

	fmt.Println("Trades")
	fmt.Printf("  Total trades:     %d\n", m.TotalTrades)
	fmt.Printf("  Win rate:         %s\n", pct(m.WinRate))
	fmt.Printf("  Profit factor:    %s\n", ratio(m.ProfitFactor))
	fmt.Printf("  Recovery factor:  %s\n", ratio(m.RecoveryFactor))
	fmt.Printf("  Avg holding:      %.1f days\n", m.AvgHoldingPeriodDays)
	fmt.Printf("  Max loss streak:  %d\n", m.MaxConsecutiveLosses)

	if analyzeAdvice {
		fmt.Println()
		fmt.Println("Advice")
		items, err := advisor.New(nil).Generate(m, len(run.Equity))
		if err != nil {
			return fmt.Errorf("generating advice: %w", err)
		}
		if len(items) == 0 {
			fmt.Println("  No issues detected.")
		}
		for _, item := range items {
			fmt.Printf("  [%s] %s\n      %s\n", item.Aspect, item.Issue, item.Suggestion)
		}
	}

	return nil
}

func pct(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

func ratio(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case math.IsNaN(v):
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}
