package pricing

import (
	"github.com/quantfold/backtestkit/internal/types"
)

// StaticSpreadModel implements Model for static-spread execution. Pricing
// rules are identical to SpreadModel; the spread argument is expected to be a
// fixed value supplied by the data layer rather than a per-candle quote.
type StaticSpreadModel struct {
	SpreadModel
}

// NewStaticSpreadModel creates a pricing model for static-spread execution.
func NewStaticSpreadModel() Model {
	return &StaticSpreadModel{}
}

// Mode implements Model.
func (m *StaticSpreadModel) Mode() types.ExecutionMode {
	return types.ExecutionModeStaticSpread
}
