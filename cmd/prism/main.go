package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "prism",
	Short: "PRISM - Performance & Risk Analytics for Strategy Backtests",
	Long: `PRISM computes performance and risk metrics from externally produced
equity curves and trade logs: returns, drawdown, Sharpe/Sortino, VaR/CVaR,
trade statistics, strategy comparison, parameter sensitivity and
rule-based optimization advice.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
