// Package journal persists backtest output (trade log and equity curve) to
// CSV files or a SQLite database. Persistence is a collaborator concern: the
// engine itself only produces in-memory snapshots.
package journal

import (
	"time"

	"github.com/RobotTraders/CryptoStrategyLab/sim"
)

type TradeRecord struct {
	TradeID    string
	Instrument string
	Side       string
	Quantity   float64
	Leverage   float64
	EntryPrice float64
	ExitPrice  float64
	OpenTime   time.Time
	CloseTime  time.Time
	Fees       float64
	RealizedPL float64
	// SizeClamped propagates the margin-deficiency warning with the trade.
	SizeClamped bool
	Reason      string
}

type EquitySnapshot struct {
	Time     time.Time
	Balance  float64
	Peak     float64
	Drawdown float64
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// FromTrade converts an engine trade into its journal record.
func FromTrade(instrument string, t sim.Trade) TradeRecord {
	return TradeRecord{
		TradeID:     t.ID,
		Instrument:  instrument,
		Side:        t.Side.String(),
		Quantity:    t.Quantity,
		Leverage:    t.Leverage,
		EntryPrice:  t.EntryPrice,
		ExitPrice:   t.ExitPrice,
		OpenTime:    t.EntryTime,
		CloseTime:   t.ExitTime,
		Fees:        t.Fees,
		RealizedPL:  t.NetPnL(),
		SizeClamped: t.SizeClamped,
		Reason:      t.Reason,
	}
}

// FromEquityPoint converts an engine equity point into its journal snapshot.
func FromEquityPoint(p sim.EquityPoint) EquitySnapshot {
	return EquitySnapshot{
		Time:     p.Time,
		Balance:  p.Balance,
		Peak:     p.Peak,
		Drawdown: p.Drawdown,
	}
}
