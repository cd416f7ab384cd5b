package types

// ExecutionMode selects how fill prices and transaction costs are modeled.
// The cost model is mutually exclusive: either spread cost or percentage fee,
// never both.
type ExecutionMode string

const (
	// ExecutionModeSpreadOn applies half the candle spread to every fill and charges no fee.
	ExecutionModeSpreadOn ExecutionMode = "spread_on"
	// ExecutionModeSpreadOff fills at the mid price and charges a 0.1% fee on position value.
	ExecutionModeSpreadOff ExecutionMode = "spread_off"
	// ExecutionModeStaticSpread behaves like spread_on with the spread value taken as static.
	ExecutionModeStaticSpread ExecutionMode = "static_spread"
)

// AllExecutionModes lists every mode, used for config schema enums.
var AllExecutionModes = []any{
	ExecutionModeSpreadOn,
	ExecutionModeSpreadOff,
	ExecutionModeStaticSpread,
}

// IsValid reports whether the mode is one of the known execution modes.
func (m ExecutionMode) IsValid() bool {
	switch m {
	case ExecutionModeSpreadOn, ExecutionModeSpreadOff, ExecutionModeStaticSpread:
		return true
	default:
		return false
	}
}
