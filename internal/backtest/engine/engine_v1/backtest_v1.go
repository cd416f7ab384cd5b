package engine

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/quantfold/backtestkit/internal/backtest/engine"
	"github.com/quantfold/backtestkit/internal/backtest/engine/engine_v1/pricing"
	"github.com/quantfold/backtestkit/internal/logger"
	"github.com/quantfold/backtestkit/internal/types"
	"github.com/quantfold/backtestkit/pkg/errors"
	"github.com/quantfold/backtestkit/pkg/strategy"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"
)

// unitDustThreshold is the remaining unit size below which a partially closed
// position unit is dropped entirely.
const unitDustThreshold = 1e-12

// BacktestEngineV1 iterates over every candle and executes the simulation
// with strict ordering:
//
//	1. Update unrealized PnL at the candle close
//	2. Check and execute SL/TP for each position unit
//	3. Execute pending signals from the previous candle (CLOSE first, then entries)
//	4. Collect new signals at this candle index -> store as pending
//	5. Record a state snapshot
//
// Critical invariant: signals generated at candle i execute at candle i+1's
// open. A signal at the final index is never executed.
type BacktestEngineV1 struct {
	config        BacktestEngineV1Config
	log           *logger.Logger
	model         pricing.Model
	strategy      strategy.Strategy
	strategyName  string
	candles       []types.Candle
	signals       []types.Signal
	signalsSet    bool
	resultsFolder string

	portfolio *Portfolio
	openUnits []*PositionUnit
	trades    []*types.Trade
	snapshots []types.Snapshot
	result    *types.Result
}

// NewBacktestEngineV1 creates an uninitialized backtest engine.
func NewBacktestEngineV1() engine.Engine {
	return &BacktestEngineV1{
		config: EmptyConfig(),
	}
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	// parse the config
	if err := yaml.Unmarshal([]byte(config), &b.config); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse engine config", err)
	}

	if b.config.Verbosity == "" {
		b.config.Verbosity = VerbositySilent
	}

	if err := b.config.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid engine config", err)
	}

	// initialize the logger; silent runs suppress per-trade info events
	level := zapcore.InfoLevel
	if b.config.Verbosity == VerbositySilent {
		level = zapcore.WarnLevel
	}

	var loggerError error

	b.log, loggerError = logger.NewLoggerWithLevel(level)
	if loggerError != nil {
		return loggerError
	}

	b.model = pricing.GetModel(b.config.ExecutionMode)
	b.log.Debug("Backtest engine initialized",
		zap.String("config", config),
	)

	return nil
}

// SetCandles implements engine.Engine.
func (b *BacktestEngineV1) SetCandles(candles []types.Candle) error {
	b.candles = candles

	return nil
}

// SetSignals implements engine.Engine.
func (b *BacktestEngineV1) SetSignals(signals []types.Signal) error {
	validate := validator.New()

	for i, sig := range signals {
		if err := validate.Struct(sig); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidSignal, err, "invalid signal at position %d", i)
		}
	}

	b.signals = signals
	b.signalsSet = true

	return nil
}

// LoadStrategy implements engine.Engine.
func (b *BacktestEngineV1) LoadStrategy(s strategy.Strategy) error {
	b.strategy = s

	return nil
}

// SetResultsFolder implements engine.Engine.
func (b *BacktestEngineV1) SetResultsFolder(folder string) error {
	b.resultsFolder = folder

	return nil
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	return b.config.GenerateSchemaJSON()
}

func (b *BacktestEngineV1) preRunCheck() error {
	if b.model == nil {
		return errors.New(errors.ErrCodeBacktestNotInitialized, "engine not initialized")
	}

	if b.candles == nil {
		return errors.New(errors.ErrCodeBacktestNoCandles, "no candles set")
	}

	if !b.signalsSet && b.strategy == nil {
		return errors.New(errors.ErrCodeBacktestNoSignals, "no signals set and no strategy loaded")
	}

	return nil
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run() (*types.Result, error) {
	if err := b.preRunCheck(); err != nil {
		return nil, err
	}

	if !b.signalsSet {
		b.strategyName = b.strategy.Name()

		signals, err := b.strategy.Generate(b.candles)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeStrategyFailed, err, "strategy %s failed to generate signals", b.strategyName)
		}

		if err := b.SetSignals(signals); err != nil {
			return nil, err
		}
	}

	// reset run state so the same engine can be re-run deterministically
	b.portfolio = NewPortfolio(b.config.InitialCapital, b.model)
	b.openUnits = nil
	b.trades = nil
	b.snapshots = nil

	if len(b.candles) == 0 {
		b.result = &types.Result{
			Trades:        []*types.Trade{},
			Snapshots:     []types.Snapshot{},
			FinalEquity:   b.config.InitialCapital,
			RealizedPnL:   0.0,
			UnrealizedPnL: 0.0,
		}

		return b.result, nil
	}

	// Build signal lookup: index -> signals generated at that index
	signalMap := make(map[int][]types.Signal)
	for _, sig := range b.signals {
		signalMap[sig.Index] = append(signalMap[sig.Index], sig)
	}

	var bar *progressbar.ProgressBar
	if b.config.Verbosity != VerbositySilent {
		bar = progressbar.Default(int64(len(b.candles)))
		bar.Describe(fmt.Sprintf("Backtesting %d candles", len(b.candles)))
	}

	var pendingSignals []types.Signal

	for i, candle := range b.candles {
		// Step 1: mark to market at the current candle's close
		b.portfolio.UpdateUnrealized(candle.Close, candle.Spread)

		// Step 2: check and execute SL/TP for each position unit
		b.checkAndExecuteSLTP(candle, i)

		// Step 3: execute pending signals from the previous candle,
		// CLOSE signals first so a reversal frees capital before the
		// new directional allocation is attempted
		for _, sig := range pendingSignals {
			if sig.Type == types.SignalTypeClose {
				b.executeCloseSignal(sig, candle, i)
			}
		}

		for _, sig := range pendingSignals {
			if sig.Type != types.SignalTypeClose {
				if err := b.executeEntrySignal(sig, candle, i); err != nil {
					return nil, err
				}
			}
		}

		// Step 4: collect signals generated at this candle index
		pendingSignals = signalMap[i]

		// Step 5: record snapshot
		b.snapshots = append(b.snapshots, types.Snapshot{
			Index:         i,
			Cash:          b.portfolio.Cash(),
			PositionSize:  b.portfolio.PositionSize(),
			UnrealizedPnL: b.portfolio.UnrealizedPnL(),
			Equity:        b.portfolio.Equity(),
		})

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	b.result = &types.Result{
		Trades:        b.trades,
		Snapshots:     b.snapshots,
		FinalEquity:   b.portfolio.Equity(),
		RealizedPnL:   b.portfolio.RealizedPnL(),
		UnrealizedPnL: b.portfolio.UnrealizedPnL(),
	}

	return b.result, nil
}

// checkAndExecuteSLTP evaluates SL/TP for every open unit in insertion order
// and closes the triggered ones. Triggered units are collected during the
// scan and the surviving collection is rebuilt afterwards, so the slice is
// never mutated while being iterated.
func (b *BacktestEngineV1) checkAndExecuteSLTP(candle types.Candle, candleIndex int) {
	triggered := make(map[*PositionUnit]bool)

	for _, unit := range b.openUnits {
		result := CheckStopTakeProfit(*unit, candle, b.model)
		if result.IsNone() {
			continue
		}

		exit, err := result.Take()
		if err != nil {
			continue
		}

		b.closeUnitAt(unit, exit, candle, candleIndex)
		triggered[unit] = true
	}

	if len(triggered) == 0 {
		return
	}

	surviving := make([]*PositionUnit, 0, len(b.openUnits)-len(triggered))

	for _, unit := range b.openUnits {
		if !triggered[unit] {
			surviving = append(surviving, unit)
		}
	}

	b.openUnits = surviving
}

// closeUnitAt closes a single position unit at a known SL/TP exit price and
// finalizes its trade record.
func (b *BacktestEngineV1) closeUnitAt(unit *PositionUnit, exit TriggeredExit, candle types.Candle, candleIndex int) {
	pnl := b.portfolio.RealizeUnitExit(*unit, exit.Price)

	tradeExit := types.TradeExit{
		Price:  exit.Price,
		Index:  candleIndex,
		Reason: exit.Reason,
		PnL:    pnl,
	}

	if trade := b.findOpenTrade(unit); trade != nil {
		trade.Close(tradeExit)
	} else {
		// Should not happen under correct bookkeeping: fabricate a fully
		// formed closed trade rather than failing the run.
		b.trades = append(b.trades, &types.Trade{
			ID:         b.nextTradeID(),
			Direction:  unit.Direction,
			EntryPrice: unit.EntryPrice,
			EntryIndex: candleIndex,
			Size:       unit.Size,
			StopLoss:   unit.StopLoss,
			TakeProfit: unit.TakeProfit,
			Exit:       optional.Some(tradeExit),
		})
	}

	b.log.Info("Stop level hit",
		zap.String("reason", string(exit.Reason)),
		zap.String("direction", string(unit.Direction)),
		zap.Float64("exit_price", exit.Price),
		zap.Float64("size", unit.Size),
		zap.Float64("pnl", pnl),
		zap.Int("candle", candleIndex),
	)
}

// findOpenTrade locates the still-open trade record matching a position unit
// by direction, entry price, and size.
func (b *BacktestEngineV1) findOpenTrade(unit *PositionUnit) *types.Trade {
	for _, trade := range b.trades {
		if trade.IsOpen() &&
			trade.Direction == unit.Direction &&
			trade.EntryPrice == unit.EntryPrice &&
			trade.Size == unit.Size {
			return trade
		}
	}

	return nil
}

// executeCloseSignal closes all or part of the open position at this candle's
// open. A no-op when flat.
func (b *BacktestEngineV1) executeCloseSignal(sig types.Signal, candle types.Candle, candleIndex int) {
	if b.portfolio.IsFlat() {
		return
	}

	direction := b.portfolio.Direction()
	actualExit := b.model.ExitPrice(candle.Open, candle.Spread, direction)
	unitsToClose := closeQuantity(b.portfolio.PositionSize(), sig.Size)

	b.portfolio.ClosePosition(candle.Open, candle.Spread, sig.Size)

	if sig.Size >= 1.0 {
		// Full close: finalize the trade record of every open unit
		for _, unit := range b.openUnits {
			unitPnl := b.unitPnL(*unit, actualExit)

			if trade := b.findOpenTrade(unit); trade != nil {
				trade.Close(types.TradeExit{
					Price:  actualExit,
					Index:  candleIndex,
					Reason: types.ExitReasonClose,
					PnL:    unitPnl,
				})
			}
		}

		b.openUnits = nil
	} else {
		// Partial close: shrink every unit by the same fraction, dropping
		// units whose remainder is dust
		surviving := make([]*PositionUnit, 0, len(b.openUnits))

		for _, unit := range b.openUnits {
			remaining := unit.Size - unit.Size*sig.Size
			if remaining > unitDustThreshold {
				unit.Size = remaining
				surviving = append(surviving, unit)
			}
		}

		b.openUnits = surviving
	}

	b.log.Info("Position closed",
		zap.String("direction", string(direction)),
		zap.Float64("exit_price", actualExit),
		zap.Float64("size", unitsToClose),
		zap.Int("candle", candleIndex),
	)
}

// executeEntrySignal opens a new position unit at this candle's open. A no-op
// when there is no free cash or the allocation net of fees is non-positive.
// Opening against the held direction is fatal to the run.
func (b *BacktestEngineV1) executeEntrySignal(sig types.Signal, candle types.Candle, candleIndex int) error {
	if b.portfolio.Cash() <= 0 {
		return nil
	}

	direction := types.DirectionLong
	if sig.Type == types.SignalTypeShort {
		direction = types.DirectionShort
	}

	actualEntry := b.model.EntryPrice(candle.Open, candle.Spread, direction)

	allocation := b.portfolio.Cash() * sig.Size
	fee := b.model.Fee(allocation)

	effectiveAllocation := allocation - fee
	if effectiveAllocation <= 0 {
		return nil
	}

	newUnits := effectiveAllocation / actualEntry

	if err := b.portfolio.OpenPosition(candle.Open, candle.Spread, direction, sig.Size); err != nil {
		return err
	}

	unit := &PositionUnit{
		Direction:  direction,
		EntryPrice: actualEntry,
		Size:       newUnits,
		StopLoss:   sig.StopLoss,
		TakeProfit: sig.TakeProfit,
	}
	b.openUnits = append(b.openUnits, unit)

	b.trades = append(b.trades, &types.Trade{
		ID:         b.nextTradeID(),
		Direction:  direction,
		EntryPrice: actualEntry,
		EntryIndex: candleIndex,
		Size:       newUnits,
		StopLoss:   sig.StopLoss,
		TakeProfit: sig.TakeProfit,
		Exit:       optional.None[types.TradeExit](),
	})

	b.log.Info("Position opened",
		zap.String("direction", string(direction)),
		zap.Float64("entry_price", actualEntry),
		zap.Float64("size", newUnits),
		zap.Int("candle", candleIndex),
	)

	return nil
}

// unitPnL calculates the net PnL for a single position unit at an exit price.
func (b *BacktestEngineV1) unitPnL(unit PositionUnit, exitPrice float64) float64 {
	var pnl float64
	if unit.Direction == types.DirectionLong {
		pnl = (exitPrice - unit.EntryPrice) * unit.Size
	} else {
		pnl = (unit.EntryPrice - exitPrice) * unit.Size
	}

	return pnl - b.model.Fee(exitPrice*unit.Size)
}

// closeQuantity returns the absolute number of units a CLOSE of the given
// fraction will liquidate.
func closeQuantity(positionSize float64, fraction float64) float64 {
	if positionSize < 0 {
		positionSize = -positionSize
	}

	return positionSize * fraction
}

// nextTradeID returns a run-local sequential trade identifier. IDs are
// deterministic so that identical runs produce identical ledgers.
func (b *BacktestEngineV1) nextTradeID() string {
	return fmt.Sprintf("trade-%d", len(b.trades)+1)
}
