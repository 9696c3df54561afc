package sim

import (
	"time"

	"go.uber.org/zap"
)

// EquityPoint is one bar's balance snapshot. Points form an append-only
// sequence with exactly one point per bar.
//
// Balance is realized cash only: closed-trade PnL is folded in, unrealized
// PnL of an open position is not marked to market.
type EquityPoint struct {
	Time     time.Time
	Balance  float64
	Peak     float64
	Drawdown float64

	// Degenerate marks a drawdown computed against a non-positive peak;
	// the value is forced to 0 and the run continues.
	Degenerate bool
}

// Curve accumulates the equity sequence and the running peak.
type Curve struct {
	points []EquityPoint
	peak   float64
	logger *zap.Logger
}

func NewCurve(logger *zap.Logger) *Curve {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Curve{logger: logger}
}

// Append records one bar's balance and returns the resulting point.
func (c *Curve) Append(t time.Time, balance float64) EquityPoint {
	if balance > c.peak {
		c.peak = balance
	}

	p := EquityPoint{Time: t, Balance: balance, Peak: c.peak}
	if c.peak > 0 {
		p.Drawdown = (c.peak - balance) / c.peak
	} else {
		// Should not happen while balance stays non-negative, but guarded.
		p.Degenerate = true
		c.logger.Warn("degenerate drawdown peak, forcing drawdown to 0",
			zap.Time("time", t),
			zap.Float64("balance", balance),
			zap.Float64("peak", c.peak))
	}

	c.points = append(c.points, p)
	return p
}

// Points returns the recorded sequence. The slice is owned by the curve;
// callers must treat it as read-only.
func (c *Curve) Points() []EquityPoint { return c.points }

// MaxDrawdown returns the largest recorded drawdown fraction.
func (c *Curve) MaxDrawdown() float64 {
	max := 0.0
	for _, p := range c.points {
		if p.Drawdown > max {
			max = p.Drawdown
		}
	}
	return max
}
