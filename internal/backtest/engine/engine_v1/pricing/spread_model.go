package pricing

import (
	"github.com/quantfold/backtestkit/internal/types"
)

// SpreadModel implements Model for spread-based execution costs: every fill
// pays half the spread and no percentage fee is charged.
//
//	LONG  entry -> ask (mid + spread/2), exit -> bid (mid - spread/2)
//	SHORT entry -> bid (mid - spread/2), exit -> ask (mid + spread/2)
type SpreadModel struct{}

// NewSpreadModel creates a pricing model for spread-on execution.
func NewSpreadModel() Model {
	return &SpreadModel{}
}

// EntryPrice implements Model.
func (m *SpreadModel) EntryPrice(mid float64, spread float64, direction types.Direction) float64 {
	half := spread / 2.0
	if direction == types.DirectionLong {
		return mid + half
	}

	return mid - half
}

// ExitPrice implements Model.
func (m *SpreadModel) ExitPrice(mid float64, spread float64, direction types.Direction) float64 {
	half := spread / 2.0
	if direction == types.DirectionLong {
		return mid - half
	}

	return mid + half
}

// Fee implements Model. Spread execution charges no percentage fee.
func (m *SpreadModel) Fee(positionValue float64) float64 {
	return 0.0
}

// Mode implements Model.
func (m *SpreadModel) Mode() types.ExecutionMode {
	return types.ExecutionModeSpreadOn
}
