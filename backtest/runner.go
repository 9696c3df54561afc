// Package backtest drives one simulation run end to end: indicators,
// signals, sizing, execution and equity tracking over a candle series.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/RobotTraders/CryptoStrategyLab/config"
	"github.com/RobotTraders/CryptoStrategyLab/indicators"
	"github.com/RobotTraders/CryptoStrategyLab/journal"
	"github.com/RobotTraders/CryptoStrategyLab/market"
	"github.com/RobotTraders/CryptoStrategyLab/sim"
	"github.com/RobotTraders/CryptoStrategyLab/strategy"
)

// ErrInsufficientData is returned when the input series is shorter than the
// largest MA period, so no indicator could ever become defined.
var ErrInsufficientData = errors.New("series shorter than largest MA period")

// Result is the read-only output of one run: the equity curve and trade log
// ordered by timestamp, plus the bar-aligned indicator series for
// visualization. Consumers must not mutate it.
type Result struct {
	Trades []sim.Trade
	Equity []sim.EquityPoint

	Fast  []float64
	Slow  []float64
	Trend []float64

	InitialBalance float64
	FinalBalance   float64
	Start          time.Time
	End            time.Time
}

// Runner executes one configuration against one candle series.
type Runner struct {
	Config  *config.Config
	Series  *market.Series
	Journal journal.Journal // optional
	Logger  *zap.Logger     // optional
}

// Run validates inputs and walks the series bar by bar in timestamp order.
// The loop is strictly sequential: each bar's decision depends on the
// previous bar's indicator and position state. ctx is only consulted before
// the loop starts; a run has no internal suspension point.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.Config == nil {
		return nil, fmt.Errorf("backtest: Config is required")
	}
	if r.Series == nil {
		return nil, fmt.Errorf("backtest: Series is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := r.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := r.Series.Validate(); err != nil {
		return nil, err
	}
	if r.Series.Len() < cfg.MaxPeriod() {
		return nil, fmt.Errorf("backtest: %w (need %d candles, got %d)",
			ErrInsufficientData, cfg.MaxPeriod(), r.Series.Len())
	}

	sizing, err := cfg.SizingPolicy()
	if err != nil {
		return nil, err
	}

	closes := r.Series.Closes()
	fast, err := indicators.SMASeries(closes, cfg.FastMAPeriod)
	if err != nil {
		return nil, err
	}
	slow, err := indicators.SMASeries(closes, cfg.SlowMAPeriod)
	if err != nil {
		return nil, err
	}
	trend, err := indicators.SMASeries(closes, cfg.TrendMAPeriod)
	if err != nil {
		return nil, err
	}

	gen := strategy.NewGenerator(cfg.TradeMode())
	engine := sim.NewEngine(cfg.InitialBalance, sizing, cfg.EffectiveLeverage(), cfg.FeeRate, logger)

	candles := r.Series.Candles
	last := len(candles) - 1
	for i, c := range candles {
		sig := gen.Next(c.Close, fast[i], slow[i], trend[i])
		engine.Step(c, sig)
		if i == last {
			engine.CloseOpen(c.Time, c.Close, "EndOfData")
		}
		engine.RecordEquity(c.Time)
	}

	res := &Result{
		Trades:         engine.Trades(),
		Equity:         engine.Curve().Points(),
		Fast:           fast,
		Slow:           slow,
		Trend:          trend,
		InitialBalance: cfg.InitialBalance,
		FinalBalance:   engine.Balance(),
		Start:          candles[0].Time,
		End:            candles[last].Time,
	}

	if r.Journal != nil {
		if err := r.record(res); err != nil {
			return nil, fmt.Errorf("backtest: journal: %w", err)
		}
	}

	logger.Info("backtest complete",
		zap.String("instrument", r.Series.Instrument),
		zap.Int("bars", r.Series.Len()),
		zap.Int("trades", len(res.Trades)),
		zap.Float64("final_balance", res.FinalBalance))

	return res, nil
}

func (r *Runner) record(res *Result) error {
	for _, t := range res.Trades {
		if err := r.Journal.RecordTrade(journal.FromTrade(r.Series.Instrument, t)); err != nil {
			return err
		}
	}
	for _, p := range res.Equity {
		if err := r.Journal.RecordEquity(journal.FromEquityPoint(p)); err != nil {
			return err
		}
	}
	return nil
}
