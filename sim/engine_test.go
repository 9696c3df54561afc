package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobotTraders/CryptoStrategyLab/market"
	"github.com/RobotTraders/CryptoStrategyLab/risk"
	"github.com/RobotTraders/CryptoStrategyLab/strategy"
)

func pctPolicy(t *testing.T, pct float64) risk.Policy {
	t.Helper()
	p, err := risk.PercentOfBalance(pct)
	require.NoError(t, err)
	return p
}

func bar(i int, close float64) market.Candle {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return market.Candle{
		Time: t0.Add(time.Duration(i) * time.Hour),
		Open: close, High: close, Low: close, Close: close,
	}
}

func TestEngineOpensLongOnAdmittedEntry(t *testing.T) {
	e := NewEngine(1000, pctPolicy(t, 100), 1, 0, nil)

	e.Step(bar(0, 10), strategy.Signal{Cross: strategy.Long, Entry: strategy.Long})

	pos := e.Position()
	require.NotNil(t, pos)
	assert.Equal(t, strategy.Long, pos.Side)
	assert.Equal(t, 10.0, pos.EntryPrice)
	assert.InDelta(t, 100.0, pos.Quantity, 1e-9) // balance / price
	assert.NotEmpty(t, pos.ID)
	assert.Empty(t, e.Trades())
}

func TestEngineHoldsOnSameDirectionSignal(t *testing.T) {
	e := NewEngine(1000, pctPolicy(t, 100), 1, 0, nil)

	e.Step(bar(0, 10), strategy.Signal{Cross: strategy.Long, Entry: strategy.Long})
	pos := e.Position()
	require.NotNil(t, pos)

	// Another long candidate is a no-op.
	e.Step(bar(1, 12), strategy.Signal{Cross: strategy.Long, Entry: strategy.Long})
	assert.Same(t, pos, e.Position())
	assert.Empty(t, e.Trades())

	// Flat signal holds too.
	e.Step(bar(2, 11), strategy.Signal{})
	assert.Same(t, pos, e.Position())
}

func TestEngineFlipsOnOppositeCross(t *testing.T) {
	e := NewEngine(1000, pctPolicy(t, 100), 1, 0, nil)

	e.Step(bar(0, 10), strategy.Signal{Cross: strategy.Long, Entry: strategy.Long})
	e.Step(bar(1, 12), strategy.Signal{Cross: strategy.Short, Entry: strategy.Short})

	trades := e.Trades()
	require.Len(t, trades, 1)
	tr := trades[0]
	assert.Equal(t, strategy.Long, tr.Side)
	assert.Equal(t, 10.0, tr.EntryPrice)
	assert.Equal(t, 12.0, tr.ExitPrice)
	assert.InDelta(t, 200.0, tr.PnL, 1e-9) // (12-10) * 100
	assert.Equal(t, "ExitOnCrossDown", tr.Reason)

	// Flipped into a short on the same bar, sized on the post-close balance.
	pos := e.Position()
	require.NotNil(t, pos)
	assert.Equal(t, strategy.Short, pos.Side)
	assert.Equal(t, 12.0, pos.EntryPrice)
	assert.InDelta(t, 1200.0/12.0, pos.Quantity, 1e-9)
}

func TestEngineClosesWithoutReentryWhenEntryNotAdmitted(t *testing.T) {
	e := NewEngine(1000, pctPolicy(t, 100), 1, 0, nil)

	e.Step(bar(0, 10), strategy.Signal{Cross: strategy.Long, Entry: strategy.Long})
	// Opposite cross whose entry was filtered out (mode or trend gate).
	e.Step(bar(1, 9), strategy.Signal{Cross: strategy.Short})

	assert.Nil(t, e.Position())
	require.Len(t, e.Trades(), 1)
	assert.InDelta(t, -100.0, e.Trades()[0].PnL, 1e-9)
}

func TestEngineShortPnL(t *testing.T) {
	e := NewEngine(1000, pctPolicy(t, 100), 1, 0, nil)

	e.Step(bar(0, 20), strategy.Signal{Cross: strategy.Short, Entry: strategy.Short})
	e.CloseOpen(bar(1, 15).Time, 15, "EndOfData")

	require.Len(t, e.Trades(), 1)
	tr := e.Trades()[0]
	// Short: (15-20) * 50 * -1 = +250
	assert.InDelta(t, 250.0, tr.PnL, 1e-9)
	assert.InDelta(t, 1250.0, e.Balance(), 1e-9)
}

func TestEngineLeverageMultipliesPnLNotCash(t *testing.T) {
	e := NewEngine(1000, pctPolicy(t, 100), 5, 0, nil)

	e.Step(bar(0, 10), strategy.Signal{Cross: strategy.Long, Entry: strategy.Long})
	pos := e.Position()
	require.NotNil(t, pos)
	// Cash committed is qty*price = balance; leverage does not enlarge the quantity.
	assert.InDelta(t, 100.0, pos.Quantity, 1e-9)
	assert.InDelta(t, 5000.0, pos.Notional(10), 1e-9)

	e.CloseOpen(bar(1, 11).Time, 11, "EndOfData")
	// (11-10) * 100 * 5 = 500
	assert.InDelta(t, 1500.0, e.Balance(), 1e-9)
}

func TestEngineFeesOnNotionalBothSides(t *testing.T) {
	// Round trip of notional 1000 at fee 0.0006 costs 1.2 total.
	e := NewEngine(1000, pctPolicy(t, 100), 1, 0.0006, nil)

	e.Step(bar(0, 10), strategy.Signal{Cross: strategy.Long, Entry: strategy.Long})
	pos := e.Position()
	require.NotNil(t, pos)
	assert.InDelta(t, 0.6, pos.EntryFee, 1e-9)
	assert.InDelta(t, 999.4, e.Balance(), 1e-9)

	e.CloseOpen(bar(1, 10).Time, 10, "EndOfData")
	require.Len(t, e.Trades(), 1)
	tr := e.Trades()[0]
	assert.InDelta(t, 1.2, tr.Fees, 1e-9)
	assert.InDelta(t, 0.0, tr.PnL, 1e-9)
	assert.InDelta(t, 998.8, e.Balance(), 1e-9)
}

func TestEngineForceCloseNoopWhenFlat(t *testing.T) {
	e := NewEngine(1000, pctPolicy(t, 100), 1, 0, nil)
	e.CloseOpen(bar(0, 10).Time, 10, "EndOfData")
	assert.Empty(t, e.Trades())
	assert.Equal(t, 1000.0, e.Balance())
}

func TestEngineNetPnLReconcilesBalance(t *testing.T) {
	e := NewEngine(1000, pctPolicy(t, 50), 2, 0.001, nil)

	closes := []float64{10, 11, 9, 12, 8}
	sigs := []strategy.Signal{
		{Cross: strategy.Long, Entry: strategy.Long},
		{},
		{Cross: strategy.Short, Entry: strategy.Short},
		{Cross: strategy.Long, Entry: strategy.Long},
		{},
	}
	for i := range closes {
		e.Step(bar(i, closes[i]), sigs[i])
		e.RecordEquity(bar(i, closes[i]).Time)
	}
	e.CloseOpen(bar(4, 8).Time, 8, "EndOfData")

	sum := 0.0
	for _, tr := range e.Trades() {
		sum += tr.NetPnL()
	}
	assert.InDelta(t, 1000.0+sum, e.Balance(), 1e-9)
}

func TestEngineTradesDoNotOverlap(t *testing.T) {
	e := NewEngine(1000, pctPolicy(t, 100), 1, 0, nil)

	sides := []strategy.Direction{strategy.Long, strategy.Short, strategy.Long, strategy.Short}
	for i, s := range sides {
		e.Step(bar(i, 10+float64(i)), strategy.Signal{Cross: s, Entry: s})
	}
	e.CloseOpen(bar(4, 14).Time, 14, "EndOfData")

	trades := e.Trades()
	require.Len(t, trades, 4)
	for i := 1; i < len(trades); i++ {
		assert.False(t, trades[i].EntryTime.Before(trades[i-1].ExitTime),
			"trade %d entry before trade %d exit", i, i-1)
	}
}

func TestEngineDeterminism(t *testing.T) {
	run := func() ([]Trade, []EquityPoint, float64) {
		e := NewEngine(1000, pctPolicy(t, 100), 2, 0.0006, nil)
		sides := []strategy.Direction{strategy.Long, strategy.Flat, strategy.Short, strategy.Flat, strategy.Long}
		closes := []float64{10, 11, 10.5, 9.8, 10.2}
		for i := range closes {
			var sig strategy.Signal
			if sides[i] != strategy.Flat {
				sig = strategy.Signal{Cross: sides[i], Entry: sides[i]}
			}
			e.Step(bar(i, closes[i]), sig)
			e.RecordEquity(bar(i, closes[i]).Time)
		}
		e.CloseOpen(bar(4, 10.2).Time, 10.2, "EndOfData")
		return e.Trades(), e.Curve().Points(), e.Balance()
	}

	t1, e1, b1 := run()
	t2, e2, b2 := run()

	assert.Equal(t, b1, b2)
	require.Equal(t, len(t1), len(t2))
	for i := range t1 {
		// IDs differ run to run; everything economic must be bit-identical.
		t1[i].ID, t2[i].ID = "", ""
		assert.Equal(t, t1[i], t2[i])
	}
	assert.Equal(t, e1, e2)
}
