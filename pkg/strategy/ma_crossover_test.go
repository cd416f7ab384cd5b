package strategy

import (
	"testing"
	"time"

	"github.com/quantfold/backtestkit/internal/types"
	"github.com/quantfold/backtestkit/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type MACrossoverTestSuite struct {
	suite.Suite
}

func TestMACrossoverTestSuite(t *testing.T) {
	suite.Run(t, new(MACrossoverTestSuite))
}

func candlesFromCloses(closes ...float64) []types.Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]types.Candle, 0, len(closes))

	for i, close := range closes {
		candles = append(candles, types.Candle{
			Time:   start.Add(time.Duration(i) * time.Minute),
			Open:   close,
			High:   close + 1.0,
			Low:    close - 1.0,
			Close:  close,
			Spread: 0.1,
		})
	}

	return candles
}

func (suite *MACrossoverTestSuite) newStrategy(config string) Strategy {
	s := NewMACrossover()
	suite.Require().NoError(s.Initialize(config))

	return s
}

func (suite *MACrossoverTestSuite) TestDefaultConfig() {
	s := suite.newStrategy("")
	suite.Equal("ma_crossover_10_30", s.Name())
}

func (suite *MACrossoverTestSuite) TestInitializeFromYaml() {
	s := suite.newStrategy("fast_period: 5\nslow_period: 20\nstop_loss_pct: 0.01\ntake_profit_pct: 0.03\n")
	suite.Equal("ma_crossover_5_20", s.Name())
}

func (suite *MACrossoverTestSuite) TestInitializeRejectsFastNotBelowSlow() {
	s := NewMACrossover()

	err := s.Initialize("fast_period: 30\nslow_period: 10\n")
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyConfigError))
}

func (suite *MACrossoverTestSuite) TestInitializeRejectsMalformedYaml() {
	s := NewMACrossover()

	err := s.Initialize("fast_period: [not a number\n")
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyConfigError))
}

func (suite *MACrossoverTestSuite) TestGenerateCrossoverSignals() {
	s := suite.newStrategy("fast_period: 2\nslow_period: 3\nstop_loss_pct: 0.02\ntake_profit_pct: 0.02\n")

	// fast(2) crosses above slow(3) at index 4 and below at index 7
	candles := candlesFromCloses(10.0, 9.0, 8.0, 7.0, 10.0, 12.0, 13.0, 6.0, 5.0, 4.0)

	signals, err := s.Generate(candles)
	suite.Require().NoError(err)
	suite.Require().Len(signals, 3)

	long := signals[0]
	suite.Equal(4, long.Index)
	suite.Equal(types.SignalTypeLong, long.Type)
	suite.InDelta(9.8, long.StopLoss, 1e-9)
	suite.InDelta(10.2, long.TakeProfit, 1e-9)
	suite.Equal(1.0, long.Size)

	// the reversal flattens before the short entry at the same index
	flatten := signals[1]
	suite.Equal(7, flatten.Index)
	suite.Equal(types.SignalTypeClose, flatten.Type)

	short := signals[2]
	suite.Equal(7, short.Index)
	suite.Equal(types.SignalTypeShort, short.Type)
	suite.InDelta(6.12, short.StopLoss, 1e-9)
	suite.InDelta(5.88, short.TakeProfit, 1e-9)
}

func (suite *MACrossoverTestSuite) TestGenerateNoCrossover() {
	s := suite.newStrategy("fast_period: 2\nslow_period: 3\n")

	// monotonically rising closes keep the fast average above the slow one
	signals, err := s.Generate(candlesFromCloses(1.0, 2.0, 3.0, 4.0, 5.0, 6.0))
	suite.Require().NoError(err)
	suite.Empty(signals)
}

func (suite *MACrossoverTestSuite) TestGenerateTooFewCandles() {
	s := suite.newStrategy("fast_period: 2\nslow_period: 3\n")

	signals, err := s.Generate(candlesFromCloses(10.0, 11.0))
	suite.Require().NoError(err)
	suite.Empty(signals)
}

func (suite *MACrossoverTestSuite) TestConfigSchema() {
	s := NewMACrossover().(*MACrossover)

	schema, err := s.GetConfigSchema()
	suite.Require().NoError(err)
	suite.Contains(schema, "fast_period")
	suite.Contains(schema, "slow_period")
	suite.Contains(schema, "stop_loss_pct")
	suite.Contains(schema, "take_profit_pct")
}
