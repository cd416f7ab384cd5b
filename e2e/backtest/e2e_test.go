package backtest_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	engine "github.com/quantfold/backtestkit/internal/backtest/engine/engine_v1"
	"github.com/quantfold/backtestkit/internal/datasource"
	"github.com/quantfold/backtestkit/internal/types"
	"github.com/quantfold/backtestkit/mocks"
	"github.com/quantfold/backtestkit/pkg/strategy"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

const engineConfig = "initial_capital: 10000\nexecution_mode: spread_on\n"

// E2ETestSuite runs the whole pipeline: csv on disk -> loader -> resampler ->
// strategy -> engine -> result files on disk.
type E2ETestSuite struct {
	suite.Suite

	workDir string
}

func TestE2ETestSuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}

func (suite *E2ETestSuite) SetupTest() {
	suite.workDir = suite.T().TempDir()
}

// writeCandlesCSV writes candles in the schema the loader expects.
func (suite *E2ETestSuite) writeCandlesCSV(candles []types.Candle) string {
	var sb strings.Builder

	sb.WriteString("timestamp,open,high,low,close,spread\n")

	for _, candle := range candles {
		sb.WriteString(fmt.Sprintf("%s,%f,%f,%f,%f,%f\n",
			candle.Time.Format(time.RFC3339),
			candle.Open, candle.High, candle.Low, candle.Close, candle.Spread))
	}

	path := filepath.Join(suite.workDir, "candles.csv")
	suite.Require().NoError(os.WriteFile(path, []byte(sb.String()), 0644))

	return path
}

func (suite *E2ETestSuite) TestFullPipeline() {
	config := mocks.DefaultConfig()
	config.Count = 600
	config.Trend = 0.0005
	generated := mocks.NewDataGenerator(42).Generate(config)

	dataPath := suite.writeCandlesCSV(generated)

	candles, err := datasource.LoadCSV(dataPath)
	suite.Require().NoError(err)
	suite.Require().Len(candles, 600)

	candles, err = datasource.Resample(candles, 5*time.Minute)
	suite.Require().NoError(err)
	suite.Require().Len(candles, 120)

	maCrossover := strategy.NewMACrossover()
	suite.Require().NoError(maCrossover.Initialize("fast_period: 5\nslow_period: 15\n"))

	resultsFolder := filepath.Join(suite.workDir, "results")

	backtester := engine.NewBacktestEngineV1()
	suite.Require().NoError(backtester.Initialize(engineConfig))
	suite.Require().NoError(backtester.SetCandles(candles))
	suite.Require().NoError(backtester.LoadStrategy(maCrossover))
	suite.Require().NoError(backtester.SetResultsFolder(resultsFolder))

	result, err := backtester.Run()
	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Len(result.Snapshots, 120)
	suite.Positive(result.FinalEquity)

	suite.Require().NoError(backtester.WriteResults())

	entries, err := os.ReadDir(resultsFolder)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)

	runFolder := filepath.Join(resultsFolder, entries[0].Name())

	for _, name := range []string{"trades.csv", "snapshots.csv", "stats.yaml"} {
		_, err := os.Stat(filepath.Join(runFolder, name))
		suite.NoError(err, name)
	}

	statsRaw, err := os.ReadFile(filepath.Join(runFolder, "stats.yaml"))
	suite.Require().NoError(err)

	var stats types.TradeStats
	suite.Require().NoError(yaml.Unmarshal(statsRaw, &stats))
	suite.Equal("ma_crossover_5_15", stats.StrategyName)
	suite.Equal(10000.0, stats.InitialCapital)
	suite.InDelta(result.FinalEquity, stats.FinalEquity, 1e-9)
}

func (suite *E2ETestSuite) TestPipelineIsDeterministic() {
	generated := mocks.NewDataGenerator(7).Generate(mocks.DefaultConfig())
	dataPath := suite.writeCandlesCSV(generated)

	run := func() *types.Result {
		candles, err := datasource.LoadCSV(dataPath)
		suite.Require().NoError(err)

		maCrossover := strategy.NewMACrossover()
		suite.Require().NoError(maCrossover.Initialize("fast_period: 5\nslow_period: 15\n"))

		backtester := engine.NewBacktestEngineV1()
		suite.Require().NoError(backtester.Initialize(engineConfig))
		suite.Require().NoError(backtester.SetCandles(candles))
		suite.Require().NoError(backtester.LoadStrategy(maCrossover))

		result, err := backtester.Run()
		suite.Require().NoError(err)

		return result
	}

	suite.Equal(run(), run())
}
