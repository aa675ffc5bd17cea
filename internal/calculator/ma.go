package calculator

import (
	"errors"

	"CryptoPulse/internal/model"
)

// MovingAverage returns the rolling simple moving average of the series.
// The output starts at the first point with a full window, so it holds
// len(series)-period+1 points, or none when the series is too short.
func MovingAverage(series []model.PricePoint, period int) ([]model.PricePoint, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(series) < period {
		return nil, nil
	}
	out := make([]model.PricePoint, 0, len(series)-period+1)
	sum := 0.0
	for i, p := range series {
		sum += p.Price
		if i >= period {
			sum -= series[i-period].Price
		}
		if i >= period-1 {
			out = append(out, model.PricePoint{Time: p.Time, Price: sum / float64(period)})
		}
	}
	return out, nil
}
