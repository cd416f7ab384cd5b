package strategy

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/quantfold/backtestkit/internal/indicator"
	"github.com/quantfold/backtestkit/internal/types"
	"github.com/quantfold/backtestkit/pkg/errors"
	"gopkg.in/yaml.v2"
)

// MACrossoverConfig configures the moving average crossover strategy.
type MACrossoverConfig struct {
	FastPeriod    int     `yaml:"fast_period" json:"fast_period" validate:"gt=0" jsonschema:"title=Fast Period,description=Window of the fast moving average,minimum=1,default=10"`
	SlowPeriod    int     `yaml:"slow_period" json:"slow_period" validate:"gt=0,gtfield=FastPeriod" jsonschema:"title=Slow Period,description=Window of the slow moving average,minimum=1,default=30"`
	StopLossPct   float64 `yaml:"stop_loss_pct" json:"stop_loss_pct" validate:"gt=0,lt=1" jsonschema:"title=Stop Loss Percent,description=Stop loss distance as a fraction of the signal close,default=0.02"`
	TakeProfitPct float64 `yaml:"take_profit_pct" json:"take_profit_pct" validate:"gt=0,lt=1" jsonschema:"title=Take Profit Percent,description=Take profit distance as a fraction of the signal close,default=0.02"`
}

// DefaultMACrossoverConfig returns the default parameters for the strategy.
func DefaultMACrossoverConfig() MACrossoverConfig {
	return MACrossoverConfig{
		FastPeriod:    10,
		SlowPeriod:    30,
		StopLossPct:   0.02,
		TakeProfitPct: 0.02,
	}
}

// MACrossover emits a LONG signal when the fast moving average crosses above
// the slow one and a SHORT signal when it crosses below. On a direction
// change it emits a CLOSE signal before the new entry at the same candle
// index; the engine executes CLOSE signals first. All signals allocate the
// full free cash (size 1.0) with SL/TP levels placed relative to the close
// price of the signal candle.
type MACrossover struct {
	config MACrossoverConfig
}

// NewMACrossover creates an uninitialized MA crossover strategy.
func NewMACrossover() Strategy {
	return &MACrossover{
		config: DefaultMACrossoverConfig(),
	}
}

// Name implements Strategy.
func (s *MACrossover) Name() string {
	return fmt.Sprintf("ma_crossover_%d_%d", s.config.FastPeriod, s.config.SlowPeriod)
}

// Initialize implements Strategy. An empty config string keeps the defaults.
func (s *MACrossover) Initialize(config string) error {
	cfg := DefaultMACrossoverConfig()

	if config != "" {
		if err := yaml.Unmarshal([]byte(config), &cfg); err != nil {
			return errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to parse strategy config", err)
		}
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid strategy config", err)
	}

	s.config = cfg

	return nil
}

// GetConfigSchema returns the JSON schema of the strategy configuration.
func (s *MACrossover) GetConfigSchema() (string, error) {
	return ToJSONSchema(MACrossoverConfig{})
}

// Generate implements Strategy.
func (s *MACrossover) Generate(candles []types.Candle) ([]types.Signal, error) {
	if len(candles) < s.config.SlowPeriod {
		return nil, nil
	}

	closes := indicator.Closes(candles)
	fastMA := indicator.SMA(closes, s.config.FastPeriod)
	slowMA := indicator.SMA(closes, s.config.SlowPeriod)

	var signals []types.Signal

	var lastDirection types.SignalType

	for i := 1; i < len(candles); i++ {
		// Both averages must be defined at i-1 and i
		if i < s.config.SlowPeriod {
			continue
		}

		signalClose := closes[i]

		var newDirection types.SignalType

		var sl, tp float64

		switch {
		case indicator.CrossAbove(fastMA, slowMA, i):
			newDirection = types.SignalTypeLong
			sl = signalClose * (1 - s.config.StopLossPct)
			tp = signalClose * (1 + s.config.TakeProfitPct)
		case indicator.CrossBelow(fastMA, slowMA, i):
			newDirection = types.SignalTypeShort
			sl = signalClose * (1 + s.config.StopLossPct)
			tp = signalClose * (1 - s.config.TakeProfitPct)
		default:
			continue
		}

		// A reversal must flatten the existing exposure first
		if lastDirection != "" && lastDirection != newDirection {
			signals = append(signals, types.Signal{
				Index:      i,
				Type:       types.SignalTypeClose,
				StopLoss:   0.0,
				TakeProfit: 0.0,
				Size:       1.0,
			})
		}

		signals = append(signals, types.Signal{
			Index:      i,
			Type:       newDirection,
			StopLoss:   sl,
			TakeProfit: tp,
			Size:       1.0,
		})

		lastDirection = newDirection
	}

	return signals, nil
}
