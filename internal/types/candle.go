package types

import "time"

// Candle is one bar of minute-resolution price data. Prices are mid prices;
// Spread is the bid-ask gap applied symmetrically around the mid to derive
// actual fill prices.
type Candle struct {
	Time   time.Time `csv:"timestamp"`
	Open   float64   `csv:"open"`
	High   float64   `csv:"high"`
	Low    float64   `csv:"low"`
	Close  float64   `csv:"close"`
	Spread float64   `csv:"spread"`
}
