package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobotTraders/CryptoStrategyLab/sim"
	"github.com/RobotTraders/CryptoStrategyLab/strategy"
)

func tradeWithPnL(net float64, fees float64) sim.Trade {
	// PnL is gross: net + fees
	return sim.Trade{
		Side: strategy.Long,
		PnL:  net + fees,
		Fees: fees,
	}
}

func equityCurve(balances ...float64) []sim.EquityPoint {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	peak := 0.0
	pts := make([]sim.EquityPoint, len(balances))
	for i, b := range balances {
		if b > peak {
			peak = b
		}
		pts[i] = sim.EquityPoint{
			Time:     t0.Add(time.Duration(i) * time.Hour),
			Balance:  b,
			Peak:     peak,
			Drawdown: (peak - b) / peak,
		}
	}
	return pts
}

func TestComputeEmptyRun(t *testing.T) {
	m := Compute(1000, nil, nil)
	assert.Equal(t, 1000.0, m.FinalBalance)
	assert.Equal(t, 0.0, m.NetPL)
	assert.Equal(t, 0, m.Trades)
	assert.Equal(t, 0.0, m.WinRate)
}

func TestComputeWinLossStats(t *testing.T) {
	trades := []sim.Trade{
		tradeWithPnL(100, 2),
		tradeWithPnL(-40, 2),
		tradeWithPnL(60, 2),
		tradeWithPnL(-20, 2),
	}
	equity := equityCurve(1000, 1100, 1060, 1120, 1100)

	m := Compute(1000, trades, equity)

	assert.Equal(t, 4, m.Trades)
	assert.Equal(t, 2, m.Wins)
	assert.Equal(t, 2, m.Losses)
	assert.InDelta(t, 0.5, m.WinRate, 1e-9)
	assert.InDelta(t, 160.0/60.0, m.ProfitFactor, 1e-9)
	assert.InDelta(t, 8.0, m.TotalFees, 1e-9)
	assert.InDelta(t, 100.0, m.BestTrade, 1e-9)
	assert.InDelta(t, -40.0, m.WorstTrade, 1e-9)
	assert.Equal(t, 1, m.MaxWinStreak)
	assert.Equal(t, 1, m.MaxLossStreak)

	assert.InDelta(t, 100.0, m.NetPL, 1e-9)
	assert.InDelta(t, 10.0, m.ReturnPct, 1e-9)
	// Peak 1100 -> trough 1060
	assert.InDelta(t, (1100.0-1060.0)/1100.0*100, m.MaxDDPct, 1e-9)
}

func TestComputeStreaks(t *testing.T) {
	trades := []sim.Trade{
		tradeWithPnL(10, 0),
		tradeWithPnL(10, 0),
		tradeWithPnL(10, 0),
		tradeWithPnL(-5, 0),
		tradeWithPnL(-5, 0),
		tradeWithPnL(10, 0),
	}
	m := Compute(1000, trades, nil)
	assert.Equal(t, 3, m.MaxWinStreak)
	assert.Equal(t, 2, m.MaxLossStreak)
}

func TestComputeClampedEntries(t *testing.T) {
	tr := tradeWithPnL(10, 1)
	tr.SizeClamped = true
	m := Compute(1000, []sim.Trade{tr, tradeWithPnL(5, 1)}, nil)
	assert.Equal(t, 1, m.ClampedEntries)
}

func TestWriteSummary(t *testing.T) {
	trades := []sim.Trade{tradeWithPnL(100, 2)}
	equity := equityCurve(1000, 1100)

	var buf bytes.Buffer
	Write(&buf, "BTC/USDT", Compute(1000, trades, equity))

	out := buf.String()
	assert.Contains(t, out, "BTC/USDT")
	assert.Contains(t, out, "Trades:        1")
	assert.Contains(t, out, "Net P/L:       100.00")
	assert.Contains(t, out, "Win Rate:      100.00%")
}

func TestWriteOrgFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.org")

	r := &OrgReport{
		RunID:       "01RUN",
		Created:     time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC),
		Instrument:  "BTC/USDT",
		Dataset:     "btc_1h.csv",
		Mode:        "both",
		FastPeriod:  20,
		SlowPeriod:  50,
		TrendPeriod: 200,
		Metrics:     Compute(1000, []sim.Trade{tradeWithPnL(100, 2)}, equityCurve(1000, 1100)),
		Notes:       []string{"first automated run"},
	}
	require.NoError(t, r.WriteOrgFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, ":RUN_ID:      01RUN")
	assert.Contains(t, out, "| Fast MA   | 20 |")
	assert.Contains(t, out, "first automated run")
}
