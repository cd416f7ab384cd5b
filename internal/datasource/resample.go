package datasource

import (
	"time"

	"github.com/quantfold/backtestkit/internal/types"
	"github.com/quantfold/backtestkit/pkg/errors"
)

// baseInterval is the resolution of the input candle data.
const baseInterval = time.Minute

// Resample aggregates 1-minute candles into windows of the given interval.
// Aggregation rules: open is the first value in the window, high the maximum,
// low the minimum, close the last value, spread the mean. An incomplete
// trailing window is dropped.
func Resample(candles []types.Candle, interval time.Duration) ([]types.Candle, error) {
	if interval < baseInterval || interval%baseInterval != 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidTimeframe, "interval must be a positive multiple of one minute, got %s", interval)
	}

	if interval == baseInterval || len(candles) == 0 {
		return candles, nil
	}

	perWindow := int(interval / baseInterval)

	var resampled []types.Candle

	var bucket []types.Candle

	var bucketStart time.Time

	flush := func() {
		if len(bucket) > 0 {
			resampled = append(resampled, aggregate(bucket))
			bucket = nil
		}
	}

	for _, candle := range candles {
		start := candle.Time.Truncate(interval)
		if len(bucket) == 0 || !start.Equal(bucketStart) {
			flush()

			bucketStart = start
		}

		bucket = append(bucket, candle)
	}

	// the trailing window only counts when it is complete
	if len(bucket) == perWindow {
		flush()
	}

	return resampled, nil
}

func aggregate(bucket []types.Candle) types.Candle {
	out := types.Candle{
		Time:   bucket[0].Time,
		Open:   bucket[0].Open,
		High:   bucket[0].High,
		Low:    bucket[0].Low,
		Close:  bucket[len(bucket)-1].Close,
		Spread: 0.0,
	}

	for _, candle := range bucket {
		if candle.High > out.High {
			out.High = candle.High
		}

		if candle.Low < out.Low {
			out.Low = candle.Low
		}

		out.Spread += candle.Spread
	}

	out.Spread /= float64(len(bucket))

	return out
}
