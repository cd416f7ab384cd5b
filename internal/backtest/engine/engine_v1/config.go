package engine

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/quantfold/backtestkit/internal/types"
	"github.com/quantfold/backtestkit/pkg/errors"
)

// Verbosity controls diagnostic output. It has no effect on simulation
// results.
type Verbosity string

const (
	// VerbositySilent suppresses per-trade event logging.
	VerbositySilent Verbosity = "silent"
	// VerbosityTrades emits an event for every entry, close, and SL/TP hit.
	VerbosityTrades Verbosity = "trades"
)

// AllVerbosities lists every verbosity level, used for config schema enums.
var AllVerbosities = []any{
	VerbositySilent,
	VerbosityTrades,
}

type BacktestEngineV1Config struct {
	InitialCapital float64             `yaml:"initial_capital" json:"initial_capital" validate:"gt=0" jsonschema:"title=Initial Capital,description=Starting capital for the backtest in account currency,minimum=0"`
	ExecutionMode  types.ExecutionMode `yaml:"execution_mode" json:"execution_mode" validate:"required" jsonschema:"title=Execution Mode,description=How fill prices and transaction costs are modeled"`
	Verbosity      Verbosity           `yaml:"verbosity" json:"verbosity" jsonschema:"title=Verbosity,description=Diagnostic output level,default=silent"`
}

// Validate checks the configuration for invalid values.
func (c *BacktestEngineV1Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	if !c.ExecutionMode.IsValid() {
		return errors.Newf(errors.ErrCodeInvalidExecutionMode, "unknown execution mode %q", c.ExecutionMode)
	}

	return nil
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if strings.Contains(t.String(), "types.ExecutionMode") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: types.AllExecutionModes,
				}
			}
			if strings.Contains(t.String(), "engine.Verbosity") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: AllVerbosities,
				}
			}
			return nil
		},
	}

	// Generate schema from BacktestEngineV1Config struct
	schema := reflector.Reflect(c)

	// Set schema metadata
	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// EmptyConfig returns a BacktestEngineV1Config with default values
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital: 0,
		ExecutionMode:  types.ExecutionModeSpreadOn,
		Verbosity:      VerbositySilent,
	}
}
