package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/RobotTraders/CryptoStrategyLab/backtest"
	"github.com/RobotTraders/CryptoStrategyLab/config"
	"github.com/RobotTraders/CryptoStrategyLab/internal/id"
	"github.com/RobotTraders/CryptoStrategyLab/journal"
	"github.com/RobotTraders/CryptoStrategyLab/market"
	"github.com/RobotTraders/CryptoStrategyLab/report"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run one backtest over a candle CSV",
	Long: `Backtest runs the SMA crossover strategy against historical candles.

The candle CSV has rows time,open,high,low,close,volume where time is
RFC3339 or unix seconds. Strategy options come from a config file; any flag
set here overrides the file.

Example:
  cryptolab backtest --data data/btc_1h.csv --fast 20 --slow 50 --trend 200`,
	RunE: runBacktest,
}

var (
	btDataPath   string
	btConfigPath string
	btInstrument string
	btFast       int
	btSlow       int
	btTrend      int
	btMode       string
	btBalance    float64
	btLeverage   float64
	btOrgPath    string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btDataPath, "data", "d", "", "path to candle CSV (time,open,high,low,close,volume) (required)")
	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "f", "", "path to config file (YAML or JSON)")
	backtestCmd.Flags().StringVarP(&btInstrument, "instrument", "i", "", "instrument label for reports")

	backtestCmd.Flags().IntVar(&btFast, "fast", 0, "fast MA period (overrides config)")
	backtestCmd.Flags().IntVar(&btSlow, "slow", 0, "slow MA period (overrides config)")
	backtestCmd.Flags().IntVar(&btTrend, "trend", 0, "trend MA period (overrides config)")
	backtestCmd.Flags().StringVarP(&btMode, "mode", "m", "", "trade mode: long, short, both (overrides config)")
	backtestCmd.Flags().Float64VarP(&btBalance, "balance", "b", 0, "initial balance (overrides config)")
	backtestCmd.Flags().Float64VarP(&btLeverage, "leverage", "l", 0, "leverage >= 1 (overrides config)")

	backtestCmd.Flags().StringVar(&btOrgPath, "org", "", "also write an org-mode report to this path")

	backtestCmd.MarkFlagRequired("data")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(path)
}

func applyOverrides(cfg *config.Config) {
	if btInstrument != "" {
		cfg.Instrument = btInstrument
	}
	if btFast > 0 {
		cfg.FastMAPeriod = btFast
	}
	if btSlow > 0 {
		cfg.SlowMAPeriod = btSlow
	}
	if btTrend > 0 {
		cfg.TrendMAPeriod = btTrend
	}
	if btMode != "" {
		cfg.Mode = btMode
	}
	if btBalance > 0 {
		cfg.InitialBalance = btBalance
	}
	if btLeverage > 0 {
		cfg.Leverage = btLeverage
	}
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "csv":
		return journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.EquityFile)
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	default:
		return nil, nil
	}
}

func runBacktest(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := loadConfig(btConfigPath)
	if err != nil {
		return err
	}
	applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	series, err := market.LoadCSV(btDataPath, cfg.Instrument)
	if err != nil {
		return fmt.Errorf("load candles: %w", err)
	}

	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if j != nil {
		defer j.Close()
	}

	r := backtest.Runner{Config: cfg, Series: series, Journal: j, Logger: logger}
	res, err := r.Run(context.Background())
	if err != nil {
		return err
	}

	m := report.Compute(res.InitialBalance, res.Trades, res.Equity)
	report.Write(os.Stdout, cfg.Instrument, m)

	if btOrgPath != "" {
		org := &report.OrgReport{
			RunID:       id.New(),
			Created:     time.Now().UTC(),
			Instrument:  cfg.Instrument,
			Dataset:     btDataPath,
			Mode:        string(cfg.TradeMode()),
			FastPeriod:  cfg.FastMAPeriod,
			SlowPeriod:  cfg.SlowMAPeriod,
			TrendPeriod: cfg.TrendMAPeriod,
			Metrics:     m,
		}
		if err := org.WriteOrgFile(btOrgPath); err != nil {
			return fmt.Errorf("write org report: %w", err)
		}
		fmt.Printf("Org report written to %s\n", btOrgPath)
	}

	return nil
}
