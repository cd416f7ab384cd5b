package types

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type TradeTestSuite struct {
	suite.Suite
}

func TestTradeTestSuite(t *testing.T) {
	suite.Run(t, new(TradeTestSuite))
}

func (suite *TradeTestSuite) TestTradeLifecycle() {
	trade := &Trade{
		ID:         "trade-1",
		Direction:  DirectionLong,
		EntryPrice: 100.0,
		EntryIndex: 3,
		Size:       50.0,
		StopLoss:   98.0,
		TakeProfit: 104.0,
	}

	suite.True(trade.IsOpen())

	_, err := trade.Exit.Take()
	suite.Error(err)

	trade.Close(TradeExit{
		Price:  104.0,
		Index:  7,
		Reason: ExitReasonTakeProfit,
		PnL:    200.0,
	})

	suite.False(trade.IsOpen())

	exit, err := trade.Exit.Take()
	suite.Require().NoError(err)
	suite.Equal(ExitReasonTakeProfit, exit.Reason)
	suite.Equal(7, exit.Index)
	suite.Equal(200.0, exit.PnL)
}

func (suite *TradeTestSuite) TestDirectionOpposite() {
	suite.Equal(DirectionShort, DirectionLong.Opposite())
	suite.Equal(DirectionLong, DirectionShort.Opposite())
}

func (suite *TradeTestSuite) TestExecutionModeIsValid() {
	suite.True(ExecutionModeSpreadOn.IsValid())
	suite.True(ExecutionModeSpreadOff.IsValid())
	suite.True(ExecutionModeStaticSpread.IsValid())
	suite.False(ExecutionMode("market_on_close").IsValid())
}
