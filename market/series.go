package market

import (
	"fmt"
	"time"
)

// Series is an ordered run of candles for a single instrument and timeframe.
// The caller's contract is that the series is contiguous and gap-free; the
// engine never interpolates missing candles.
type Series struct {
	Instrument string
	Timeframe  time.Duration
	Candles    []Candle
}

func (s *Series) Len() int { return len(s.Candles) }

// Closes returns the close prices in time order.
func (s *Series) Closes() []float64 {
	closes := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		closes[i] = c.Close
	}
	return closes
}

// Validate checks the series invariants: timestamps strictly increasing and
// unique, all price/volume fields non-negative.
func (s *Series) Validate() error {
	if len(s.Candles) == 0 {
		return fmt.Errorf("series %q: no candles", s.Instrument)
	}

	var prev time.Time
	for i, c := range s.Candles {
		if c.Time.IsZero() {
			return fmt.Errorf("series %q: candle %d has zero timestamp", s.Instrument, i)
		}
		if i > 0 && !c.Time.After(prev) {
			return fmt.Errorf("series %q: candle %d timestamp %s not after previous %s",
				s.Instrument, i, c.Time.Format(time.RFC3339), prev.Format(time.RFC3339))
		}
		prev = c.Time

		if c.Open < 0 || c.High < 0 || c.Low < 0 || c.Close < 0 || c.Volume < 0 {
			return fmt.Errorf("series %q: candle %d has negative field", s.Instrument, i)
		}
	}
	return nil
}
