// Package engine defines the backtest engine capability.
package engine

import (
	"github.com/quantfold/backtestkit/internal/types"
	"github.com/quantfold/backtestkit/pkg/strategy"
)

// Engine runs a deterministic backtest over a candle sequence. A run is
// single-threaded and fully synchronous: the same candles, signals, and
// configuration always produce identical trades, snapshots, and final equity.
// One Engine instance owns all mutable run state; concurrent runs require
// separate instances.
type Engine interface {
	// Initialize the engine with the given YAML configuration string.
	Initialize(config string) error
	// SetCandles sets the validated, ordered candle sequence to simulate over.
	SetCandles(candles []types.Candle) error
	// SetSignals sets precomputed signals directly, bypassing any strategy.
	// Signals must be sorted by non-decreasing candle index.
	SetSignals(signals []types.Signal) error
	// LoadStrategy loads the strategy used to generate signals at Run time.
	LoadStrategy(strategy strategy.Strategy) error
	// SetResultsFolder sets the output directory for WriteResults.
	SetResultsFolder(folder string) error
	// Run executes the simulation and returns the trade ledger, the equity
	// curve, and final PnL figures.
	Run() (*types.Result, error)
	// WriteResults writes the last run's trades, snapshots, and statistics to
	// the results folder.
	WriteResults() error
	// GetConfigSchema returns the JSON schema of the engine configuration.
	GetConfigSchema() (string, error)
}
