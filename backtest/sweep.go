package backtest

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/RobotTraders/CryptoStrategyLab/config"
	"github.com/RobotTraders/CryptoStrategyLab/market"
	"github.com/RobotTraders/CryptoStrategyLab/sim"
)

// SweepPoint is one parameter set of a sweep.
type SweepPoint struct {
	Fast  int
	Slow  int
	Trend int
}

// SweepResult summarizes one run of a sweep. Err is set when that run failed
// to start (configuration or data error); other runs are unaffected.
type SweepResult struct {
	Point SweepPoint

	FinalBalance float64
	MaxDrawdown  float64
	Trades       int

	Err error
}

// Sweep runs one independent simulation per point over a bounded worker
// pool. Runs share no state, so they parallelize freely; within each run the
// bar loop stays strictly sequential. Results come back in point order
// regardless of scheduling. ctx cancels between runs, never mid-run.
func Sweep(ctx context.Context, base *config.Config, series *market.Series, points []SweepPoint, workers int, logger *zap.Logger) []SweepResult {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(points) {
		workers = len(points)
	}

	results := make([]SweepResult, len(points))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = runPoint(ctx, base, series, points[i], logger)
			}
		}()
	}

	for i := range points {
		if ctx.Err() != nil {
			// Remaining points are reported as cancelled, not silently dropped.
			for j := i; j < len(points); j++ {
				results[j] = SweepResult{Point: points[j], Err: ctx.Err()}
			}
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func runPoint(ctx context.Context, base *config.Config, series *market.Series, pt SweepPoint, logger *zap.Logger) SweepResult {
	cfg := *base
	cfg.FastMAPeriod = pt.Fast
	cfg.SlowMAPeriod = pt.Slow
	cfg.TrendMAPeriod = pt.Trend
	cfg.Journal = config.JournalConfig{} // sweeps never persist per-run output

	r := Runner{Config: &cfg, Series: series, Logger: zap.NewNop()}
	res, err := r.Run(ctx)
	if err != nil {
		logger.Warn("sweep point failed",
			zap.Int("fast", pt.Fast), zap.Int("slow", pt.Slow), zap.Int("trend", pt.Trend),
			zap.Error(err))
		return SweepResult{Point: pt, Err: err}
	}

	return SweepResult{
		Point:        pt,
		FinalBalance: res.FinalBalance,
		MaxDrawdown:  maxDrawdown(res.Equity),
		Trades:       len(res.Trades),
	}
}

func maxDrawdown(points []sim.EquityPoint) float64 {
	max := 0.0
	for _, p := range points {
		if p.Drawdown > max {
			max = p.Drawdown
		}
	}
	return max
}
