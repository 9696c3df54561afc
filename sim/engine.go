// Package sim is the bar-by-bar execution simulator: it consumes signals,
// manages the single open position, applies fees and leverage, and tracks
// equity and drawdown.
package sim

import (
	"time"

	"go.uber.org/zap"

	"github.com/RobotTraders/CryptoStrategyLab/internal/id"
	"github.com/RobotTraders/CryptoStrategyLab/market"
	"github.com/RobotTraders/CryptoStrategyLab/risk"
	"github.com/RobotTraders/CryptoStrategyLab/strategy"
)

// Engine is the execution state machine: Flat or InPosition(side).
// It is driven once per bar in timestamp order and is purely sequential;
// each bar's decision depends on the previous bar's state, so bars must not
// be reordered or batched.
type Engine struct {
	sizing   risk.Policy
	leverage float64
	feeRate  float64

	balance float64
	pos     *Position
	trades  []Trade
	curve   *Curve
	logger  *zap.Logger
}

func NewEngine(initialBalance float64, sizing risk.Policy, leverage, feeRate float64, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if leverage < 1 {
		leverage = 1
	}
	return &Engine{
		sizing:   sizing,
		leverage: leverage,
		feeRate:  feeRate,
		balance:  initialBalance,
		curve:    NewCurve(logger),
		logger:   logger,
	}
}

func (e *Engine) Balance() float64    { return e.balance }
func (e *Engine) Position() *Position { return e.pos }
func (e *Engine) Curve() *Curve       { return e.curve }

// Trades returns the ordered trade log. Read-only snapshot; callers must not
// mutate it.
func (e *Engine) Trades() []Trade { return e.trades }

// Step processes one bar's signal. Transitions:
//   - InPosition(side) + opposite crossover: close at the bar close, then
//     evaluate opening the new side on the same bar (flip).
//   - Flat + admitted entry: open at the bar close (execution price of the
//     signal bar, by convention).
//   - Same-direction or flat signal while InPosition: hold.
func (e *Engine) Step(c market.Candle, sig strategy.Signal) {
	if e.pos != nil && sig.Cross != strategy.Flat && sig.Cross == e.pos.Side.Opposite() {
		e.close(c.Time, c.Close, exitReason(sig.Cross))
	}
	if e.pos == nil && sig.Entry != strategy.Flat {
		e.open(c.Time, c.Close, sig.Entry)
	}
}

// CloseOpen force-closes the open position, if any. Called at the end of the
// series so no unrealized position is left unaccounted.
func (e *Engine) CloseOpen(t time.Time, price float64, reason string) {
	if e.pos == nil {
		return
	}
	if reason == "" {
		reason = "EndOfData"
	}
	e.close(t, price, reason)
}

// RecordEquity appends one bar's balance to the equity curve.
func (e *Engine) RecordEquity(t time.Time) EquityPoint {
	return e.curve.Append(t, e.balance)
}

func (e *Engine) open(t time.Time, price float64, side strategy.Direction) {
	size, err := e.sizing.Quantity(e.balance, price, e.leverage)
	if err != nil {
		// Balance exhausted mid-run; skip the entry rather than abort.
		e.logger.Warn("skipping entry, sizing failed",
			zap.Time("time", t),
			zap.String("side", side.String()),
			zap.Float64("balance", e.balance),
			zap.Error(err))
		return
	}
	if size.Clamped {
		e.logger.Warn("margin deficiency, quantity clamped to affordable",
			zap.Time("time", t),
			zap.String("side", side.String()),
			zap.Float64("quantity", size.Quantity),
			zap.Float64("balance", e.balance))
	}

	pos := &Position{
		ID:          id.New(),
		Side:        side,
		EntryTime:   t,
		EntryPrice:  price,
		Quantity:    size.Quantity,
		Leverage:    e.leverage,
		SizeClamped: size.Clamped,
	}
	pos.EntryFee = pos.Notional(price) * e.feeRate

	// Entry fee is deducted immediately; the position itself is not marked
	// to market, so balance stays flat until the close realizes PnL.
	e.balance -= pos.EntryFee
	e.pos = pos
}

func (e *Engine) close(t time.Time, price float64, reason string) {
	p := e.pos
	e.pos = nil

	exitFee := p.Notional(price) * e.feeRate
	pnl := (price - p.EntryPrice) * p.Quantity * float64(p.Side) * p.Leverage

	e.balance += pnl - exitFee

	e.trades = append(e.trades, Trade{
		ID:          p.ID,
		Side:        p.Side,
		EntryTime:   p.EntryTime,
		ExitTime:    t,
		EntryPrice:  p.EntryPrice,
		ExitPrice:   price,
		Quantity:    p.Quantity,
		Leverage:    p.Leverage,
		Fees:        p.EntryFee + exitFee,
		PnL:         pnl,
		SizeClamped: p.SizeClamped,
		Reason:      reason,
	})

	if e.balance < 0 {
		// Possible only with leverage > 1 (margin deficit).
		e.logger.Warn("balance went negative on close",
			zap.Time("time", t),
			zap.Float64("balance", e.balance),
			zap.Float64("leverage", p.Leverage))
	}
}

func exitReason(cross strategy.Direction) string {
	if cross == strategy.Long {
		return "ExitOnCrossUp"
	}
	return "ExitOnCrossDown"
}
