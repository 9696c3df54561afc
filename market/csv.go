package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadCSV reads a candle series from a CSV file with rows
//
//	time,open,high,low,close,volume
//
// where time is RFC3339 or unix seconds. A header row is allowed.
// Short or empty rows are skipped.
func LoadCSV(path, instrument string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	s := &Series{Instrument: instrument}

	sawFirst := false
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}

		// Allow a single header row
		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		c, ok, err := parseCandleRow(row)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		s.Candles = append(s.Candles, c)
	}

	if len(s.Candles) >= 2 {
		s.Timeframe = s.Candles[1].Time.Sub(s.Candles[0].Time)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// SaveCSV writes the series back out in the same format LoadCSV reads.
func SaveCSV(path string, s *Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}
	for _, c := range s.Candles {
		err := w.Write([]string{
			c.Time.UTC().Format(time.RFC3339),
			ff(c.Open), ff(c.High), ff(c.Low), ff(c.Close), ff(c.Volume),
		})
		if err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func parseCandleRow(row []string) (Candle, bool, error) {
	if len(row) < 5 {
		return Candle{}, false, nil
	}

	ts := strings.TrimSpace(row[0])
	if ts == "" {
		return Candle{}, false, nil
	}

	t, err := parseTime(ts)
	if err != nil {
		return Candle{}, false, fmt.Errorf("bad time %q: %w", ts, err)
	}

	vals := make([]float64, 0, 5)
	for i := 1; i < len(row) && i < 6; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		if err != nil {
			return Candle{}, false, fmt.Errorf("bad value %q: %w", row[i], err)
		}
		vals = append(vals, v)
	}

	c := Candle{Time: t, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3]}
	if len(vals) > 4 {
		c.Volume = vals[4]
	}
	return c, true, nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	// Fall back to unix seconds (exchange dumps commonly use these)
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("not RFC3339 or unix seconds")
	}
	return time.Unix(sec, 0).UTC(), nil
}

func ff(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
