package types

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type TradePnl struct {
	// Realized PnL. Sum of all closed trades' pnl.
	RealizedPnL float64 `yaml:"realized_pnl"`
	// Unrealized PnL of the position still open at the end of the run.
	UnrealizedPnL float64 `yaml:"unrealized_pnl"`
	// Total PnL. By adding RealizedPnL and UnrealizedPnL.
	TotalPnL float64 `yaml:"total_pnl"`
	// Maximum loss. The most negative closed trade pnl, as a positive number.
	MaximumLoss float64 `yaml:"maximum_loss"`
	// Maximum profit. The most positive closed trade pnl.
	MaximumProfit float64 `yaml:"maximum_profit"`
}

type TradeResult struct {
	// Count of all closed trades.
	NumberOfTrades int `yaml:"number_of_trades"`
	// Count of winning trades that has positive pnl.
	NumberOfWinningTrades int `yaml:"number_of_winning_trades"`
	// Count of losing trades that has negative pnl.
	NumberOfLosingTrades int `yaml:"number_of_losing_trades"`
	// Win rate.
	WinRate float64 `yaml:"win_rate"`
	// Maximum drawdown of the equity curve, peak to trough.
	MaxDrawdown float64 `yaml:"max_drawdown"`
}

type TradeStats struct {
	// StrategyName is the name of the strategy that produced the signals.
	StrategyName string `yaml:"strategy_name"`
	// InitialCapital is the starting capital of the run.
	InitialCapital float64 `yaml:"initial_capital"`
	// FinalEquity is the equity at the last snapshot.
	FinalEquity float64 `yaml:"final_equity"`
	// Result of all trades.
	TradeResult TradeResult `yaml:"trade_result"`
	// PnL of all trades.
	TradePnl TradePnl `yaml:"trade_pnl"`
}

// ComputeTradeStats aggregates a backtest result into summary statistics.
// Sums use decimal arithmetic so that reported totals do not drift from the
// per-trade values they are built from.
func ComputeTradeStats(result *Result, initialCapital float64, strategyName string) TradeStats {
	stats := TradeStats{
		StrategyName:   strategyName,
		InitialCapital: initialCapital,
		FinalEquity:    result.FinalEquity,
	}

	realized := decimal.Zero

	for _, trade := range result.Trades {
		if trade.IsOpen() {
			continue
		}

		exit, err := trade.Exit.Take()
		if err != nil {
			continue
		}

		stats.TradeResult.NumberOfTrades++

		switch {
		case exit.PnL > 0:
			stats.TradeResult.NumberOfWinningTrades++
		case exit.PnL < 0:
			stats.TradeResult.NumberOfLosingTrades++
		}

		if exit.PnL > stats.TradePnl.MaximumProfit {
			stats.TradePnl.MaximumProfit = exit.PnL
		}

		if exit.PnL < 0 && -exit.PnL > stats.TradePnl.MaximumLoss {
			stats.TradePnl.MaximumLoss = -exit.PnL
		}

		realized = realized.Add(decimal.NewFromFloat(exit.PnL))
	}

	stats.TradePnl.RealizedPnL, _ = realized.Float64()
	stats.TradePnl.UnrealizedPnL = result.UnrealizedPnL
	stats.TradePnl.TotalPnL, _ = realized.Add(decimal.NewFromFloat(result.UnrealizedPnL)).Float64()

	if stats.TradeResult.NumberOfTrades > 0 {
		stats.TradeResult.WinRate = float64(stats.TradeResult.NumberOfWinningTrades) / float64(stats.TradeResult.NumberOfTrades)
	}

	stats.TradeResult.MaxDrawdown = maxDrawdown(result.Snapshots)

	return stats
}

// maxDrawdown computes the largest peak-to-trough equity decline.
func maxDrawdown(snapshots []Snapshot) float64 {
	peak := 0.0
	drawdown := 0.0

	for _, snapshot := range snapshots {
		if snapshot.Equity > peak {
			peak = snapshot.Equity
		}

		if dd := peak - snapshot.Equity; dd > drawdown {
			drawdown = dd
		}
	}

	return drawdown
}

// WriteTradeStats writes trade statistics to a YAML file.
func WriteTradeStats(path string, stats TradeStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal trade stats to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write trade stats to file: %w", err)
	}

	return nil
}
