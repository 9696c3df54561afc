// Package indicators provides technical analysis indicators for trading
package indicators

import "github.com/RobotTraders/CryptoStrategyLab/market"

// Indicator computes a single streaming value from candles.
// It is deterministic and safe to use in replay and backtests.
type Indicator interface {
	// Name returns a stable identifier like "SMA(20)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next *closed* candle and updates internal state.
	Update(c market.Candle)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool

	// Value returns the current indicator value. Callers should always check
	// Ready() first; before warmup the value is NaN, never zero, so an
	// undefined value can never be mistaken for a signal.
	Value() float64
}
