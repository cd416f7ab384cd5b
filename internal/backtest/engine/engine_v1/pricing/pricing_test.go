package pricing

import (
	"testing"

	"github.com/quantfold/backtestkit/internal/types"
	"github.com/stretchr/testify/suite"
)

type PricingTestSuite struct {
	suite.Suite
}

func TestPricingTestSuite(t *testing.T) {
	suite.Run(t, new(PricingTestSuite))
}

func (suite *PricingTestSuite) TestGetModel() {
	tests := []struct {
		name     string
		mode     types.ExecutionMode
		expected types.ExecutionMode
	}{
		{
			name:     "spread on",
			mode:     types.ExecutionModeSpreadOn,
			expected: types.ExecutionModeSpreadOn,
		},
		{
			name:     "spread off",
			mode:     types.ExecutionModeSpreadOff,
			expected: types.ExecutionModeSpreadOff,
		},
		{
			name:     "static spread",
			mode:     types.ExecutionModeStaticSpread,
			expected: types.ExecutionModeStaticSpread,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			model := GetModel(tc.mode)
			suite.Equal(tc.expected, model.Mode())
		})
	}
}

func (suite *PricingTestSuite) TestSpreadModelEntryPrice() {
	model := NewSpreadModel()

	// LONG pays the ask, SHORT receives the bid
	suite.InDelta(100.25, model.EntryPrice(100.0, 0.5, types.DirectionLong), 1e-9)
	suite.InDelta(99.75, model.EntryPrice(100.0, 0.5, types.DirectionShort), 1e-9)
}

func (suite *PricingTestSuite) TestSpreadModelExitPrice() {
	model := NewSpreadModel()

	// Exit is on the opposite side of the spread from entry
	suite.InDelta(99.75, model.ExitPrice(100.0, 0.5, types.DirectionLong), 1e-9)
	suite.InDelta(100.25, model.ExitPrice(100.0, 0.5, types.DirectionShort), 1e-9)
}

func (suite *PricingTestSuite) TestSpreadModelFee() {
	model := NewSpreadModel()
	suite.Zero(model.Fee(10000.0))
}

func (suite *PricingTestSuite) TestFeeModelPrices() {
	model := NewFeeModel()

	// Spread is ignored entirely, fills at mid
	suite.InDelta(100.0, model.EntryPrice(100.0, 0.5, types.DirectionLong), 1e-9)
	suite.InDelta(100.0, model.EntryPrice(100.0, 0.5, types.DirectionShort), 1e-9)
	suite.InDelta(100.0, model.ExitPrice(100.0, 0.5, types.DirectionLong), 1e-9)
	suite.InDelta(100.0, model.ExitPrice(100.0, 0.5, types.DirectionShort), 1e-9)
}

func (suite *PricingTestSuite) TestFeeModelFee() {
	model := NewFeeModel()

	// $10,000 position value -> $10.00 fee exactly
	suite.InDelta(10.0, model.Fee(10000.0), 1e-9)
	suite.Zero(model.Fee(0.0))
}

func (suite *PricingTestSuite) TestStaticSpreadModelMatchesSpreadOn() {
	static := NewStaticSpreadModel()
	spreadOn := NewSpreadModel()

	suite.Equal(spreadOn.EntryPrice(100.0, 0.5, types.DirectionLong), static.EntryPrice(100.0, 0.5, types.DirectionLong))
	suite.Equal(spreadOn.ExitPrice(100.0, 0.5, types.DirectionShort), static.ExitPrice(100.0, 0.5, types.DirectionShort))
	suite.Zero(static.Fee(10000.0))
}
