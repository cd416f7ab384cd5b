// Package indicator provides the series calculations strategies build their
// signals from.
package indicator

import (
	"github.com/quantfold/backtestkit/internal/types"
)

// Closes extracts the close price series from a candle sequence.
func Closes(candles []types.Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, candle := range candles {
		closes[i] = candle.Close
	}

	return closes
}

// SMA computes the simple moving average of values over the given period.
// Entries before the window is full are left as zero; callers must not read
// them.
func SMA(values []float64, period int) []float64 {
	means := make([]float64, len(values))

	var sum float64

	for i, v := range values {
		sum += v

		if i >= period {
			sum -= values[i-period]
		}

		if i >= period-1 {
			means[i] = sum / float64(period)
		}
	}

	return means
}

// CrossAbove reports whether series a crossed above series b at index i.
// Both series must be defined at i-1 and i.
func CrossAbove(a, b []float64, i int) bool {
	return a[i-1] <= b[i-1] && a[i] > b[i]
}

// CrossBelow reports whether series a crossed below series b at index i.
func CrossBelow(a, b []float64, i int) bool {
	return a[i-1] >= b[i-1] && a[i] < b[i]
}
