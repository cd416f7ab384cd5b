// Package datasource loads and prepares minute-resolution candle data for the
// backtest engine. The engine assumes validated input, so all OHLC and spread
// sanity checks happen here.
package datasource

import (
	"math"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/quantfold/backtestkit/internal/types"
	"github.com/quantfold/backtestkit/pkg/errors"
)

// timestampLayouts are the accepted formats for the csv timestamp column.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// DateTime wraps time.Time with csv unmarshaling across common layouts.
type DateTime struct {
	time.Time
}

// UnmarshalCSV implements gocsv unmarshaling.
func (d *DateTime) UnmarshalCSV(csv string) error {
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, csv)
		if err == nil {
			d.Time = t

			return nil
		}
	}

	return errors.Newf(errors.ErrCodeDataParseFailed, "unrecognized timestamp %q", csv)
}

// MarshalCSV implements gocsv marshaling.
func (d DateTime) MarshalCSV() (string, error) {
	return d.Format(time.RFC3339), nil
}

// candleRow is the expected csv schema: timestamp,open,high,low,close,spread.
type candleRow struct {
	Timestamp DateTime `csv:"timestamp"`
	Open      float64  `csv:"open"`
	High      float64  `csv:"high"`
	Low       float64  `csv:"low"`
	Close     float64  `csv:"close"`
	Spread    float64  `csv:"spread"`
}

// LoadCSV loads a minute-resolution OHLC csv file into a validated candle
// sequence ordered as it appears in the file.
func LoadCSV(path string) ([]types.Candle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to open csv file %s", path)
	}
	defer file.Close()

	var rows []candleRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataParseFailed, err, "failed to parse csv file %s", path)
	}

	candles := make([]types.Candle, 0, len(rows))

	for i, row := range rows {
		candle := types.Candle{
			Time:   row.Timestamp.Time,
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Spread: row.Spread,
		}

		if err := validateCandle(candle, i); err != nil {
			return nil, err
		}

		candles = append(candles, candle)
	}

	return candles, nil
}

// validateCandle enforces the OHLC and spread invariants the engine relies on.
func validateCandle(c types.Candle, row int) error {
	for _, v := range []float64{c.Open, c.High, c.Low, c.Close, c.Spread} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Newf(errors.ErrCodeDataInvalid, "row %d: dataset contains NaN or infinite values", row)
		}
	}

	if c.Spread <= 0 {
		return errors.Newf(errors.ErrCodeDataInvalid, "row %d: spread must be positive, got %f", row, c.Spread)
	}

	if c.High < math.Max(c.Open, c.Close) {
		return errors.Newf(errors.ErrCodeDataInvalid, "row %d: high %f below max(open, close)", row, c.High)
	}

	if c.Low > math.Min(c.Open, c.Close) {
		return errors.Newf(errors.ErrCodeDataInvalid, "row %d: low %f above min(open, close)", row, c.Low)
	}

	return nil
}
