package sim

import (
	"time"

	"github.com/RobotTraders/CryptoStrategyLab/strategy"
)

// Trade is one closed round trip. Immutable once closed; trades are appended
// to the log in close order.
type Trade struct {
	ID   string
	Side strategy.Direction

	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	Quantity   float64
	Leverage   float64

	// Fees is the total paid on entry plus exit, computed on notional.
	Fees float64

	// PnL is the realized price profit/loss before fees:
	// (exit - entry) * quantity * side * leverage.
	PnL float64

	// SizeClamped marks a margin deficiency at entry: the policy quantity was
	// capped to the maximum affordable.
	SizeClamped bool

	Reason string
}

// NetPnL is the realized profit/loss after fees, the amount by which the
// trade moved the balance.
func (t Trade) NetPnL() float64 { return t.PnL - t.Fees }
