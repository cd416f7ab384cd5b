package engine

import (
	"testing"

	"github.com/quantfold/backtestkit/internal/types"
	"github.com/quantfold/backtestkit/pkg/errors"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v2"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestParseYaml() {
	raw := `
initial_capital: 25000
execution_mode: static_spread
verbosity: trades
`

	var config BacktestEngineV1Config
	suite.Require().NoError(yaml.Unmarshal([]byte(raw), &config))

	suite.Equal(25000.0, config.InitialCapital)
	suite.Equal(types.ExecutionModeStaticSpread, config.ExecutionMode)
	suite.Equal(VerbosityTrades, config.Verbosity)
	suite.NoError(config.Validate())
}

func (suite *ConfigTestSuite) TestValidateRejectsNonPositiveCapital() {
	config := BacktestEngineV1Config{
		InitialCapital: 0.0,
		ExecutionMode:  types.ExecutionModeSpreadOn,
		Verbosity:      VerbositySilent,
	}

	suite.Error(config.Validate())
}

func (suite *ConfigTestSuite) TestValidateRejectsUnknownExecutionMode() {
	config := BacktestEngineV1Config{
		InitialCapital: 10000.0,
		ExecutionMode:  types.ExecutionMode("limit_only"),
		Verbosity:      VerbositySilent,
	}

	err := config.Validate()
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidExecutionMode))
}

func (suite *ConfigTestSuite) TestGenerateSchema() {
	config := EmptyConfig()

	schemaJSON, err := config.GenerateSchemaJSON()
	suite.Require().NoError(err)
	suite.Contains(schemaJSON, "initial_capital")
	suite.Contains(schemaJSON, "execution_mode")
	suite.Contains(schemaJSON, "spread_off")
	suite.Contains(schemaJSON, "static_spread")
	suite.Contains(schemaJSON, "silent")
}
