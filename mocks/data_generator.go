// Package mocks generates synthetic market data for tests and examples.
package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/quantfold/backtestkit/internal/types"
)

// DataGenerator produces realistic candle series for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how candle data is generated.
type GeneratorConfig struct {
	// StartTime is the beginning of the data series
	StartTime time.Time
	// Interval is the duration between candles
	Interval time.Duration
	// Count is the number of candles to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement per candle (0.002 = 0.2%)
	Volatility float64
	// Trend is the drift factor per candle (-0.01 to 0.01 for bearish to bullish)
	Trend float64
	// SpreadPct is the bid/ask spread as a fraction of the mid price
	SpreadPct float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		StartTime:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:     time.Minute,
		Count:        1000,
		InitialPrice: 100.0,
		Volatility:   0.002,
		Trend:        0.0,
		SpreadPct:    0.0005,
	}
}

// Generate produces a candle series following a seeded random walk. The
// candles satisfy the OHLC invariants the data loader enforces.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.Candle {
	candles := make([]types.Candle, 0, config.Count)
	price := config.InitialPrice

	for i := 0; i < config.Count; i++ {
		open := price

		move := g.rng.NormFloat64() * config.Volatility
		close := open * (1.0 + config.Trend + move)

		high := math.Max(open, close) * (1.0 + math.Abs(g.rng.NormFloat64())*config.Volatility/2.0)
		low := math.Min(open, close) * (1.0 - math.Abs(g.rng.NormFloat64())*config.Volatility/2.0)

		candles = append(candles, types.Candle{
			Time:   config.StartTime.Add(time.Duration(i) * config.Interval),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Spread: (open + close) / 2.0 * config.SpreadPct,
		})

		price = close
	}

	return candles
}
