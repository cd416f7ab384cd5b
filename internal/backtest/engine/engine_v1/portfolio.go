package engine

import (
	"math"

	"github.com/quantfold/backtestkit/internal/backtest/engine/engine_v1/pricing"
	"github.com/quantfold/backtestkit/internal/types"
	"github.com/quantfold/backtestkit/pkg/errors"
)

// flatEpsilon is the residual position size below which the portfolio is
// treated as flat.
const flatEpsilon = 1e-12

// Portfolio tracks all financial state throughout the simulation.
//
// Invariant: positionSize == 0 if and only if avgEntryPrice == 0.
// Equity = cash + |positionSize|*avgEntryPrice + unrealizedPnL.
type Portfolio struct {
	initialCapital float64
	model          pricing.Model

	cash          float64
	positionSize  float64
	avgEntryPrice float64
	realizedPnL   float64
	unrealizedPnL float64
}

// NewPortfolio creates a flat portfolio holding the initial capital as cash.
func NewPortfolio(initialCapital float64, model pricing.Model) *Portfolio {
	return &Portfolio{
		initialCapital: initialCapital,
		model:          model,
		cash:           initialCapital,
		positionSize:   0.0,
		avgEntryPrice:  0.0,
		realizedPnL:    0.0,
		unrealizedPnL:  0.0,
	}
}

// Cash returns the free capital not deployed in positions.
func (p *Portfolio) Cash() float64 {
	return p.cash
}

// PositionSize returns the signed aggregate position size (+long, -short, 0 flat).
func (p *Portfolio) PositionSize() float64 {
	return p.positionSize
}

// AvgEntryPrice returns the size-weighted average entry price across stacked entries.
func (p *Portfolio) AvgEntryPrice() float64 {
	return p.avgEntryPrice
}

// RealizedPnL returns the cumulative closed-trade profit and loss, net of fees.
func (p *Portfolio) RealizedPnL() float64 {
	return p.realizedPnL
}

// UnrealizedPnL returns the open position profit and loss as of the last mark.
func (p *Portfolio) UnrealizedPnL() float64 {
	return p.unrealizedPnL
}

// PositionNotional returns the capital locked in the open position at entry cost.
func (p *Portfolio) PositionNotional() float64 {
	return math.Abs(p.positionSize) * p.avgEntryPrice
}

// Equity returns cash + position notional + unrealized PnL.
func (p *Portfolio) Equity() float64 {
	return p.cash + p.PositionNotional() + p.unrealizedPnL
}

// Direction returns the direction of the open position. Only meaningful when
// the portfolio is not flat.
func (p *Portfolio) Direction() types.Direction {
	if p.positionSize >= 0 {
		return types.DirectionLong
	}

	return types.DirectionShort
}

// IsFlat reports whether no position is open.
func (p *Portfolio) IsFlat() bool {
	return p.positionSize == 0.0
}

// OpenPosition opens or stacks a position.
//
// The allocation is sizeFraction of free cash; the fee is absorbed into fewer
// units bought, not deducted from cash separately. Opening against a currently
// held position of the opposite direction is rejected: the strategy must emit
// a CLOSE signal before reversing. Same-direction stacking recomputes the
// average entry price as the size-weighted average of the old and new layers.
func (p *Portfolio) OpenPosition(mid float64, spread float64, direction types.Direction, sizeFraction float64) error {
	allocation := p.cash * sizeFraction
	if allocation <= 0 {
		return nil
	}

	actualEntry := p.model.EntryPrice(mid, spread, direction)
	fee := p.model.Fee(allocation)

	effectiveAllocation := allocation - fee
	if effectiveAllocation <= 0 {
		return nil
	}

	newUnits := effectiveAllocation / actualEntry
	if direction == types.DirectionShort {
		newUnits = -newUnits
	}

	if p.positionSize != 0.0 && p.Direction() != direction {
		return errors.Newf(errors.ErrCodeOppositePosition,
			"cannot open %s while holding %s position: strategy must emit a CLOSE signal before reversing direction",
			direction, p.Direction())
	}

	if p.positionSize == 0.0 {
		p.avgEntryPrice = actualEntry
		p.positionSize = newUnits
	} else {
		oldSize := math.Abs(p.positionSize)
		newSize := math.Abs(newUnits)
		p.avgEntryPrice = (p.avgEntryPrice*oldSize + actualEntry*newSize) / (oldSize + newSize)
		p.positionSize += newUnits
	}

	p.cash -= allocation

	return nil
}

// ClosePosition closes all or part of the current position at the given mid
// price. A no-op when flat. A sizeFraction >= 1 fully closes the position and
// resets the average entry price; a partial close shrinks the position size
// and leaves the average entry price unchanged.
func (p *Portfolio) ClosePosition(mid float64, spread float64, sizeFraction float64) {
	if p.positionSize == 0.0 {
		return
	}

	direction := p.Direction()
	actualExit := p.model.ExitPrice(mid, spread, direction)
	unitsToClose := math.Abs(p.positionSize) * sizeFraction

	var pnl float64
	if direction == types.DirectionLong {
		pnl = (actualExit - p.avgEntryPrice) * unitsToClose
	} else {
		pnl = (p.avgEntryPrice - actualExit) * unitsToClose
	}

	fee := p.model.Fee(actualExit * unitsToClose)

	p.cash += p.avgEntryPrice*unitsToClose + pnl - fee
	p.realizedPnL += pnl - fee

	if sizeFraction >= 1.0 {
		p.positionSize = 0.0
		p.avgEntryPrice = 0.0
		p.unrealizedPnL = 0.0
	} else {
		if direction == types.DirectionLong {
			p.positionSize -= unitsToClose
		} else {
			p.positionSize += unitsToClose
		}

		// the closed fraction no longer carries unrealized PnL
		p.unrealizedPnL *= 1.0 - sizeFraction
	}
}

// RealizeUnitExit realizes the exit of a single position unit at a known exit
// price (an SL/TP fill). It returns the unit's net PnL after fees, credits the
// cash notional back, and shrinks the aggregate position. When the remaining
// aggregate size falls below the flat threshold the position is reset to flat.
func (p *Portfolio) RealizeUnitExit(unit PositionUnit, exitPrice float64) float64 {
	var pnl float64
	if unit.Direction == types.DirectionLong {
		pnl = (exitPrice - unit.EntryPrice) * unit.Size
	} else {
		pnl = (unit.EntryPrice - exitPrice) * unit.Size
	}

	fee := p.model.Fee(exitPrice * unit.Size)
	pnl -= fee

	p.cash += unit.EntryPrice*unit.Size + pnl
	p.realizedPnL += pnl

	previousSize := math.Abs(p.positionSize)

	if unit.Direction == types.DirectionLong {
		p.positionSize -= unit.Size
	} else {
		p.positionSize += unit.Size
	}

	if math.Abs(p.positionSize) < flatEpsilon {
		p.positionSize = 0.0
		p.avgEntryPrice = 0.0
		p.unrealizedPnL = 0.0
	} else if previousSize > 0 {
		p.unrealizedPnL *= math.Abs(p.positionSize) / previousSize
	}

	return pnl
}

// UpdateUnrealized marks the open position to market. LONG positions mark to
// the bid (mid - spread/2), SHORT positions to the ask (mid + spread/2). Must
// be called once per candle before any trade execution on that candle.
func (p *Portfolio) UpdateUnrealized(mid float64, spread float64) {
	if p.positionSize == 0.0 {
		p.unrealizedPnL = 0.0

		return
	}

	if p.positionSize > 0 {
		bid := mid - spread/2.0
		p.unrealizedPnL = (bid - p.avgEntryPrice) * p.positionSize
	} else {
		ask := mid + spread/2.0
		p.unrealizedPnL = (p.avgEntryPrice - ask) * math.Abs(p.positionSize)
	}
}
