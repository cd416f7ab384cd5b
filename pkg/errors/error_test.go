package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorTestSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNew() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Require().NotNil(err)
	suite.Equal(ErrCodeInvalidParameter, err.Code)
	suite.Equal("invalid parameter", err.Message)
	suite.Nil(err.Cause)
	suite.Equal("[100] invalid parameter", err.Error())
}

func (suite *ErrorTestSuite) TestNewf() {
	err := Newf(ErrCodeDataInvalid, "bad spread at row %d", 42)
	suite.Require().NotNil(err)
	suite.Equal(ErrCodeDataInvalid, err.Code)
	suite.Equal("bad spread at row 42", err.Message)
}

func (suite *ErrorTestSuite) TestWrap() {
	cause := fmt.Errorf("underlying failure")
	err := Wrap(ErrCodeDataParseFailed, "failed to parse csv", cause)
	suite.Require().NotNil(err)
	suite.Equal(cause, err.Cause)
	suite.Contains(err.Error(), "underlying failure")
	suite.Equal(cause, err.Unwrap())
}

func (suite *ErrorTestSuite) TestWrapf() {
	cause := fmt.Errorf("boom")
	err := Wrapf(ErrCodeStrategyFailed, cause, "strategy %s failed", "ma_crossover")
	suite.Require().NotNil(err)
	suite.Equal("strategy ma_crossover failed", err.Message)
	suite.Equal(cause, err.Unwrap())
}

func (suite *ErrorTestSuite) TestGetCode() {
	err := New(ErrCodeOppositePosition, "cannot reverse without close")
	suite.Equal(ErrCodeOppositePosition, GetCode(err))

	wrapped := fmt.Errorf("outer: %w", err)
	suite.Equal(ErrCodeOppositePosition, GetCode(wrapped))

	plain := fmt.Errorf("plain error")
	suite.Equal(ErrCodeUnknown, GetCode(plain))
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeBacktestNoCandles, "no candles set")
	suite.True(HasCode(err, ErrCodeBacktestNoCandles))
	suite.False(HasCode(err, ErrCodeBacktestNoSignals))
}
