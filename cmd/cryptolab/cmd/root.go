package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "cryptolab",
	Short: "A rule-based crypto strategy backtesting lab",
	Long: `CryptoStrategyLab simulates rule-based trading strategies against
historical price bars to produce an equity curve and trade log.

It provides tools for:
  - Backtesting an SMA crossover strategy with a trend filter
  - Sweeping strategy parameters across independent runs
  - Persisting trades and equity curves to CSV or SQLite
  - Summarizing performance (win rate, profit factor, drawdown)`,
}

var verbose bool

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func newLogger() *zap.Logger {
	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
