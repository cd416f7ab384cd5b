package engine

import (
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/quantfold/backtestkit/internal/types"
	"github.com/quantfold/backtestkit/pkg/errors"
	"go.uber.org/zap"
)

// tradeRow flattens a trade record for CSV export. Exit fields are pointers
// so that open trades serialize with empty cells.
type tradeRow struct {
	ID         string   `csv:"id"`
	Direction  string   `csv:"direction"`
	EntryPrice float64  `csv:"entry_price"`
	EntryIndex int      `csv:"entry_index"`
	Size       float64  `csv:"size"`
	StopLoss   float64  `csv:"stop_loss"`
	TakeProfit float64  `csv:"take_profit"`
	ExitPrice  *float64 `csv:"exit_price"`
	ExitIndex  *int     `csv:"exit_index"`
	ExitReason *string  `csv:"exit_reason"`
	PnL        *float64 `csv:"pnl"`
}

// WriteResults implements engine.Engine. It writes trades.csv, snapshots.csv,
// and stats.yaml for the last run into the results folder.
func (b *BacktestEngineV1) WriteResults() error {
	if b.result == nil {
		return errors.New(errors.ErrCodeBacktestNotRun, "no result to write: call Run first")
	}

	if b.resultsFolder == "" {
		return errors.New(errors.ErrCodeBacktestNoResultsDir, "no results folder set")
	}

	runID := uuid.New().String()
	runFolder := filepath.Join(b.resultsFolder, runID)

	if err := os.MkdirAll(runFolder, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeDataWriteFailed, "failed to create results folder", err)
	}

	tradesPath := filepath.Join(runFolder, "trades.csv")
	if err := writeTradesCSV(tradesPath, b.result.Trades); err != nil {
		return err
	}

	snapshotsPath := filepath.Join(runFolder, "snapshots.csv")
	if err := writeSnapshotsCSV(snapshotsPath, b.result.Snapshots); err != nil {
		return err
	}

	statsPath := filepath.Join(runFolder, "stats.yaml")
	stats := types.ComputeTradeStats(b.result, b.config.InitialCapital, b.strategyName)

	if err := types.WriteTradeStats(statsPath, stats); err != nil {
		return errors.Wrap(errors.ErrCodeDataWriteFailed, "failed to write trade stats", err)
	}

	b.log.Info("Backtest results written",
		zap.String("run_id", runID),
		zap.String("trades", tradesPath),
		zap.String("snapshots", snapshotsPath),
		zap.String("stats", statsPath),
	)

	return nil
}

func writeTradesCSV(path string, trades []*types.Trade) error {
	rows := make([]tradeRow, 0, len(trades))

	for _, trade := range trades {
		row := tradeRow{
			ID:         trade.ID,
			Direction:  string(trade.Direction),
			EntryPrice: trade.EntryPrice,
			EntryIndex: trade.EntryIndex,
			Size:       trade.Size,
			StopLoss:   trade.StopLoss,
			TakeProfit: trade.TakeProfit,
		}

		if exit, err := trade.Exit.Take(); err == nil {
			price := exit.Price
			index := exit.Index
			reason := string(exit.Reason)
			pnl := exit.PnL
			row.ExitPrice = &price
			row.ExitIndex = &index
			row.ExitReason = &reason
			row.PnL = &pnl
		}

		rows = append(rows, row)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDataWriteFailed, "failed to create trades csv", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return errors.Wrap(errors.ErrCodeDataWriteFailed, "failed to write trades csv", err)
	}

	return nil
}

func writeSnapshotsCSV(path string, snapshots []types.Snapshot) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDataWriteFailed, "failed to create snapshots csv", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&snapshots, file); err != nil {
		return errors.Wrap(errors.ErrCodeDataWriteFailed, "failed to write snapshots csv", err)
	}

	return nil
}
