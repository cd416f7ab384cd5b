package pricing

import (
	"github.com/quantfold/backtestkit/internal/types"
)

// feeRate is the percentage fee charged per fill when the spread is ignored.
const feeRate = 0.001

// FeeModel implements Model for spread-off execution: all fills happen at the
// mid price and a percentage fee is charged on the position value instead.
type FeeModel struct{}

// NewFeeModel creates a pricing model for spread-off execution.
func NewFeeModel() Model {
	return &FeeModel{}
}

// EntryPrice implements Model. Fills at the mid price.
func (m *FeeModel) EntryPrice(mid float64, spread float64, direction types.Direction) float64 {
	return mid
}

// ExitPrice implements Model. Fills at the mid price.
func (m *FeeModel) ExitPrice(mid float64, spread float64, direction types.Direction) float64 {
	return mid
}

// Fee implements Model. Charges 0.1% of the position value.
func (m *FeeModel) Fee(positionValue float64) float64 {
	return positionValue * feeRate
}

// Mode implements Model.
func (m *FeeModel) Mode() types.ExecutionMode {
	return types.ExecutionModeSpreadOff
}
