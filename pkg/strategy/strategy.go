// Package strategy defines the strategy capability consumed by the backtest
// engine, plus the built-in strategies shipped with the module.
package strategy

import (
	"github.com/quantfold/backtestkit/internal/types"
)

// Strategy generates trading signals from a full candle sequence. Strategies
// are stateless with respect to the simulation: the engine never calls back
// into a strategy during a run, all signals are precomputed up front.
type Strategy interface {
	// Initialize sets up the strategy with a YAML configuration string.
	Initialize(config string) error
	// Name returns the name of the strategy.
	Name() string
	// Generate produces signals ordered by non-decreasing candle index.
	Generate(candles []types.Candle) ([]types.Signal, error)
}
