package types

import (
	"github.com/moznion/go-optional"
)

type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// Opposite returns the other trade direction.
func (d Direction) Opposite() Direction {
	if d == DirectionLong {
		return DirectionShort
	}

	return DirectionLong
}

type ExitReason string

const (
	ExitReasonStopLoss   ExitReason = "SL"
	ExitReasonTakeProfit ExitReason = "TP"
	ExitReasonClose      ExitReason = "CLOSE"
)

// TradeExit holds the fields that only exist once a trade has been closed.
type TradeExit struct {
	// Price is the actual exit fill price after spread adjustment
	Price float64
	// Index is the candle index at which the exit executed
	Index int
	// Reason records what closed the trade
	Reason ExitReason
	// PnL is the realized profit or loss for this trade, net of fees
	PnL float64
}

// Trade is one ledger record. It is created open and transitions to closed
// exactly once; Exit is None while the trade is open so that exit-only fields
// are unreachable until then.
type Trade struct {
	// ID uniquely identifies the trade record
	ID string
	// Direction is LONG or SHORT
	Direction Direction
	// EntryPrice is the actual entry fill price after spread adjustment
	EntryPrice float64
	// EntryIndex is the candle index at which the entry executed
	EntryIndex int
	// Size is the number of units held by this trade
	Size float64
	// StopLoss is the stop loss level attached at entry
	StopLoss float64
	// TakeProfit is the take profit level attached at entry
	TakeProfit float64
	// Exit is None while the trade is open
	Exit optional.Option[TradeExit]
}

// IsOpen reports whether the trade has not been closed yet.
func (t *Trade) IsOpen() bool {
	return t.Exit.IsNone()
}

// Close transitions the trade to its closed state.
func (t *Trade) Close(exit TradeExit) {
	t.Exit = optional.Some(exit)
}
