package report

import (
	"fmt"
	"io"
	"time"
)

// Write prints a plain-text performance summary.
func Write(w io.Writer, instrument string, m Metrics) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Instrument:    %s\n", instrument)
	if !m.Start.IsZero() {
		fmt.Fprintf(w, "Start:         %s\n", m.Start.Format(time.RFC3339))
		fmt.Fprintf(w, "End:           %s\n", m.End.Format(time.RFC3339))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", m.Trades)
	fmt.Fprintf(w, "Wins:          %d\n", m.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", m.Losses)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", m.WinRate*100)
	if m.ProfitFactor > 0 {
		fmt.Fprintf(w, "Profit Factor: %.2f\n", m.ProfitFactor)
	}
	fmt.Fprintf(w, "Win Streak:    %d\n", m.MaxWinStreak)
	fmt.Fprintf(w, "Loss Streak:   %d\n", m.MaxLossStreak)
	if m.Trades > 0 {
		fmt.Fprintf(w, "Best Trade:    %.2f\n", m.BestTrade)
		fmt.Fprintf(w, "Worst Trade:   %.2f\n", m.WorstTrade)
	}
	if m.ClampedEntries > 0 {
		fmt.Fprintf(w, "Clamped:       %d entries capped for margin\n", m.ClampedEntries)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Balance: %.2f\n", m.InitialBalance)
	fmt.Fprintf(w, "End Balance:   %.2f\n", m.FinalBalance)
	fmt.Fprintf(w, "Net P/L:       %.2f\n", m.NetPL)
	fmt.Fprintf(w, "Return:        %.2f%%\n", m.ReturnPct)
	fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", m.MaxDDPct)
	fmt.Fprintf(w, "Total Fees:    %.2f\n", m.TotalFees)

	fmt.Fprintln(w)
}
