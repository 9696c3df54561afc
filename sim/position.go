package sim

import (
	"time"

	"github.com/RobotTraders/CryptoStrategyLab/strategy"
)

// Position is the single open slot of the simulator. It exists only while a
// trade is open and is destroyed on close; at most one position is open at
// any timestamp.
type Position struct {
	ID         string
	Side       strategy.Direction
	EntryTime  time.Time
	EntryPrice float64
	Quantity   float64
	Leverage   float64

	EntryFee    float64
	SizeClamped bool
}

// Notional is the economic size of the position at the given price:
// quantity x price x leverage.
func (p *Position) Notional(price float64) float64 {
	return p.Quantity * price * p.Leverage
}
