package market

import "time"

// Candle represents one OHLCV (Open, High, Low, Close, Volume) sample of a
// price series. Candles are immutable once loaded; the engine only reads them.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}
