package cmd

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RobotTraders/CryptoStrategyLab/backtest"
	"github.com/RobotTraders/CryptoStrategyLab/market"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep MA periods across independent backtests",
	Long: `Sweep runs one independent backtest per combination of the listed
fast, slow and trend MA periods. Runs share no state and execute in
parallel; results print in grid order.

Example:
  cryptolab sweep --data data/btc_1h.csv --fast 10,20 --slow 50,100 --trend 200`,
	RunE: runSweep,
}

var (
	swDataPath   string
	swConfigPath string
	swFast       string
	swSlow       string
	swTrend      string
	swWorkers    int
)

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().StringVarP(&swDataPath, "data", "d", "", "path to candle CSV (required)")
	sweepCmd.Flags().StringVarP(&swConfigPath, "config", "f", "", "path to base config file (YAML or JSON)")
	sweepCmd.Flags().StringVar(&swFast, "fast", "10,20,50", "comma-separated fast MA periods")
	sweepCmd.Flags().StringVar(&swSlow, "slow", "50,100,200", "comma-separated slow MA periods")
	sweepCmd.Flags().StringVar(&swTrend, "trend", "200", "comma-separated trend MA periods")
	sweepCmd.Flags().IntVarP(&swWorkers, "workers", "w", runtime.NumCPU(), "parallel workers")

	sweepCmd.MarkFlagRequired("data")
}

func parsePeriods(flag, s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("bad %s period %q: %w", flag, part, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no %s periods given", flag)
	}
	return out, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := loadConfig(swConfigPath)
	if err != nil {
		return err
	}

	fasts, err := parsePeriods("fast", swFast)
	if err != nil {
		return err
	}
	slows, err := parsePeriods("slow", swSlow)
	if err != nil {
		return err
	}
	trends, err := parsePeriods("trend", swTrend)
	if err != nil {
		return err
	}

	series, err := market.LoadCSV(swDataPath, cfg.Instrument)
	if err != nil {
		return fmt.Errorf("load candles: %w", err)
	}

	var points []backtest.SweepPoint
	for _, f := range fasts {
		for _, s := range slows {
			for _, tr := range trends {
				points = append(points, backtest.SweepPoint{Fast: f, Slow: s, Trend: tr})
			}
		}
	}

	fmt.Printf("Sweeping %d parameter sets over %d candles (%d workers)\n\n",
		len(points), series.Len(), swWorkers)

	results := backtest.Sweep(context.Background(), cfg, series, points, swWorkers, logger)

	fmt.Printf("%-6s %-6s %-6s %12s %10s %8s\n", "fast", "slow", "trend", "balance", "max_dd", "trades")
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%-6d %-6d %-6d %12s %10s %8s  (%v)\n",
				r.Point.Fast, r.Point.Slow, r.Point.Trend, "-", "-", "-", r.Err)
			continue
		}
		fmt.Printf("%-6d %-6d %-6d %12.2f %9.2f%% %8d\n",
			r.Point.Fast, r.Point.Slow, r.Point.Trend,
			r.FinalBalance, r.MaxDrawdown*100, r.Trades)
	}

	return nil
}
