package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	engine "github.com/quantfold/backtestkit/internal/backtest/engine/engine_v1"
	"github.com/quantfold/backtestkit/internal/datasource"
	"github.com/quantfold/backtestkit/internal/version"
	"github.com/quantfold/backtestkit/pkg/strategy"
	"github.com/urfave/cli/v3"
)

// backtestAction is the core logic executed by the CLI command. It loads and
// prepares the candle data, generates signals with the configured strategy,
// runs the simulation, and writes the results.
func backtestAction(ctx context.Context, cmd *cli.Command) error {
	dataPath := cmd.String("data")
	configPath := cmd.String("config")
	strategyConfigPath := cmd.String("strategy-config")
	resultsFolder := cmd.String("results")
	timeframe := cmd.Duration("timeframe")

	config, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read engine config: %w", err)
	}

	candles, err := datasource.LoadCSV(dataPath)
	if err != nil {
		return fmt.Errorf("failed to load candle data: %w", err)
	}

	candles, err = datasource.Resample(candles, timeframe)
	if err != nil {
		return fmt.Errorf("failed to resample candle data: %w", err)
	}

	maCrossover := strategy.NewMACrossover()

	strategyConfig := ""

	if strategyConfigPath != "" {
		content, err := os.ReadFile(strategyConfigPath)
		if err != nil {
			return fmt.Errorf("failed to read strategy config: %w", err)
		}

		strategyConfig = string(content)
	}

	if err := maCrossover.Initialize(strategyConfig); err != nil {
		return fmt.Errorf("failed to initialize strategy: %w", err)
	}

	backtester := engine.NewBacktestEngineV1()

	if err := backtester.Initialize(string(config)); err != nil {
		return fmt.Errorf("failed to initialize backtest engine: %w", err)
	}

	if err := backtester.SetCandles(candles); err != nil {
		return fmt.Errorf("failed to set candles: %w", err)
	}

	if err := backtester.LoadStrategy(maCrossover); err != nil {
		return fmt.Errorf("failed to load strategy: %w", err)
	}

	if err := backtester.SetResultsFolder(resultsFolder); err != nil {
		return fmt.Errorf("failed to set results folder: %w", err)
	}

	result, err := backtester.Run()
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	if err := backtester.WriteResults(); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	log.Printf("Backtest complete: %d trades, final equity %.2f (realized %.2f, unrealized %.2f)",
		len(result.Trades), result.FinalEquity, result.RealizedPnL, result.UnrealizedPnL)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "backtest",
		Usage:   "Run a deterministic backtest over historical minute candles",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "Path to the OHLC+spread csv file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to the engine yaml config",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "strategy-config",
				Aliases:  []string{"s"},
				Usage:    "Path to the strategy yaml config (defaults apply when omitted)",
				Required: false,
			},
			&cli.StringFlag{
				Name:     "results",
				Aliases:  []string{"r"},
				Usage:    "Path to the results output directory",
				Value:    "results",
				Required: false,
			},
			&cli.DurationFlag{
				Name:     "timeframe",
				Aliases:  []string{"t"},
				Usage:    "Resample candles to this timeframe before running (e.g. 5m, 15m, 1h)",
				Value:    time.Minute,
				Required: false,
			},
		},
		Action: backtestAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
