package types

type SignalType string

const (
	// SignalTypeLong is an intent to open or stack a long position
	SignalTypeLong SignalType = "LONG"
	// SignalTypeShort is an intent to open or stack a short position
	SignalTypeShort SignalType = "SHORT"
	// SignalTypeClose is an intent to close all or part of the open position
	SignalTypeClose SignalType = "CLOSE"
)

// Signal is an intent emitted by a strategy at a candle index. Signals queued
// at index i execute at candle i+1's open; a signal at the final index is
// never executed.
type Signal struct {
	// Index is the candle index at which the signal was generated
	Index int `validate:"gte=0"`
	// Type is the kind of the signal
	Type SignalType `validate:"required,oneof=LONG SHORT CLOSE"`
	// StopLoss is the stop loss price level for entry signals
	StopLoss float64
	// TakeProfit is the take profit price level for entry signals
	TakeProfit float64
	// Size is a fraction in (0,1]: for LONG/SHORT the fraction of free cash to
	// allocate, for CLOSE the fraction of the open position to close.
	Size float64 `validate:"gt=0,lte=1"`
}
