package engine

import (
	"github.com/moznion/go-optional"
	"github.com/quantfold/backtestkit/internal/backtest/engine/engine_v1/pricing"
	"github.com/quantfold/backtestkit/internal/types"
)

// PositionUnit is one discrete entry layer with its own SL/TP levels. Each
// entry event creates a separate unit so stacked entries can trigger
// independently.
type PositionUnit struct {
	// Direction is LONG or SHORT
	Direction types.Direction
	// EntryPrice is the actual entry price after spread adjustment
	EntryPrice float64
	// Size is the number of units in this position layer
	Size float64
	// StopLoss is the stop loss price level
	StopLoss float64
	// TakeProfit is the take profit price level
	TakeProfit float64
}

// TriggeredExit describes an intrabar SL/TP hit for one position unit.
type TriggeredExit struct {
	// Reason is ExitReasonStopLoss or ExitReasonTakeProfit
	Reason types.ExitReason
	// Price is the execution price with the exit spread applied
	Price float64
}

// CheckStopTakeProfit evaluates SL/TP conditions for a position unit against a
// candle, using high/low only:
//
//	LONG:  SL hit if low  <= SL level, TP hit if high >= TP level
//	SHORT: SL hit if high >= SL level, TP hit if low  <= TP level
//
// If both conditions hold on the same candle, SL wins: the intrabar path
// cannot be known from OHLC alone, so the worst case is assumed. The exit
// price is the triggered level adjusted by the model's exit-side spread rule.
// No fee is computed here; callers apply fees uniformly.
func CheckStopTakeProfit(unit PositionUnit, candle types.Candle, model pricing.Model) optional.Option[TriggeredExit] {
	var slHit, tpHit bool

	if unit.Direction == types.DirectionLong {
		slHit = candle.Low <= unit.StopLoss
		tpHit = candle.High >= unit.TakeProfit
	} else {
		slHit = candle.High >= unit.StopLoss
		tpHit = candle.Low <= unit.TakeProfit
	}

	if slHit {
		return optional.Some(TriggeredExit{
			Reason: types.ExitReasonStopLoss,
			Price:  model.ExitPrice(unit.StopLoss, candle.Spread, unit.Direction),
		})
	}

	if tpHit {
		return optional.Some(TriggeredExit{
			Reason: types.ExitReasonTakeProfit,
			Price:  model.ExitPrice(unit.TakeProfit, candle.Spread, unit.Direction),
		})
	}

	return optional.None[TriggeredExit]()
}
