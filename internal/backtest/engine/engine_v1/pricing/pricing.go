// Package pricing resolves actual fill prices and transaction fees for each
// execution mode. All functions are pure and total.
package pricing

import (
	"github.com/quantfold/backtestkit/internal/types"
)

// Model computes fill prices and fees for one execution mode.
type Model interface {
	// EntryPrice returns the actual entry fill price for the given mid price,
	// spread, and trade direction.
	EntryPrice(mid float64, spread float64, direction types.Direction) float64
	// ExitPrice returns the actual exit fill price for the given mid price,
	// spread, and trade direction. Exit is always on the opposite side of the
	// spread from entry, so a round trip pays the spread twice.
	ExitPrice(mid float64, spread float64, direction types.Direction) float64
	// Fee returns the transaction fee in account currency for a position value.
	Fee(positionValue float64) float64
	// Mode returns the execution mode this model implements.
	Mode() types.ExecutionMode
}

// GetModel returns the pricing model for the given execution mode.
func GetModel(mode types.ExecutionMode) Model {
	switch mode {
	case types.ExecutionModeSpreadOn:
		return NewSpreadModel()
	case types.ExecutionModeSpreadOff:
		return NewFeeModel()
	case types.ExecutionModeStaticSpread:
		return NewStaticSpreadModel()
	default:
		return NewSpreadModel()
	}
}
