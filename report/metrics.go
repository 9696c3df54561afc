// Package report computes summary statistics from a finished run's trade log
// and equity curve. It consumes read-only snapshots and never mutates them.
package report

import (
	"time"

	"github.com/RobotTraders/CryptoStrategyLab/sim"
)

// Metrics is the performance summary of one run.
type Metrics struct {
	InitialBalance float64
	FinalBalance   float64
	NetPL          float64
	ReturnPct      float64

	Trades int
	Wins   int
	Losses int

	WinRate      float64 // fraction, 0 when no trades
	ProfitFactor float64 // 0 when no losing trades
	MaxDDPct     float64

	TotalFees  float64
	BestTrade  float64 // best net PnL
	WorstTrade float64 // worst net PnL

	MaxWinStreak  int
	MaxLossStreak int

	ClampedEntries int

	Start time.Time
	End   time.Time
}

// Compute derives the metrics of a run. Win/loss classification uses net
// PnL (after fees), matching what actually moved the balance.
func Compute(initialBalance float64, trades []sim.Trade, equity []sim.EquityPoint) Metrics {
	m := Metrics{
		InitialBalance: initialBalance,
		FinalBalance:   initialBalance,
		Trades:         len(trades),
	}

	if len(equity) > 0 {
		m.Start = equity[0].Time
		m.End = equity[len(equity)-1].Time
		m.FinalBalance = equity[len(equity)-1].Balance
		for _, p := range equity {
			if p.Drawdown*100 > m.MaxDDPct {
				m.MaxDDPct = p.Drawdown * 100
			}
		}
	}

	m.NetPL = m.FinalBalance - m.InitialBalance
	if m.InitialBalance > 0 {
		m.ReturnPct = m.NetPL / m.InitialBalance * 100
	}

	var grossWin, grossLoss float64
	winStreak, lossStreak := 0, 0

	for i, t := range trades {
		net := t.NetPnL()
		m.TotalFees += t.Fees
		if t.SizeClamped {
			m.ClampedEntries++
		}

		if i == 0 || net > m.BestTrade {
			m.BestTrade = net
		}
		if i == 0 || net < m.WorstTrade {
			m.WorstTrade = net
		}

		if net > 0 {
			m.Wins++
			grossWin += net
			winStreak++
			lossStreak = 0
		} else if net < 0 {
			m.Losses++
			grossLoss += -net
			lossStreak++
			winStreak = 0
		} else {
			winStreak, lossStreak = 0, 0
		}

		if winStreak > m.MaxWinStreak {
			m.MaxWinStreak = winStreak
		}
		if lossStreak > m.MaxLossStreak {
			m.MaxLossStreak = lossStreak
		}
	}

	if m.Trades > 0 {
		m.WinRate = float64(m.Wins) / float64(m.Trades)
	}
	if grossLoss > 0 {
		m.ProfitFactor = grossWin / grossLoss
	}

	return m
}
