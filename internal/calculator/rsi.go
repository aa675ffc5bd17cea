package calculator

import (
	"errors"

	"CryptoPulse/internal/model"
)

// CalculateRSI computes the Wilder-smoothed RSI over the given period.
// Requires at least period+1 points. Returns 50.0 if data is insufficient.
func CalculateRSI(series []model.PricePoint, period int) (float64, error) {
	values, err := RSISeries(series, period)
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 50.0, nil // default when data insufficient
	}
	return values[len(values)-1].Price, nil
}

// RSISeries returns the Wilder-smoothed RSI at every point from index period
// onward. The Price field of each point carries the RSI value.
func RSISeries(series []model.PricePoint, period int) ([]model.PricePoint, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(series) < period+1 {
		return nil, nil
	}

	closes := model.Prices(series)
	out := make([]model.PricePoint, 0, len(closes)-period)

	// Initial average gain/loss over the first `period` changes
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change // make positive
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out = append(out, model.PricePoint{Time: series[period].Time, Price: rsi(avgGain, avgLoss)})

	// Wilder smoothing for remaining points
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out = append(out, model.PricePoint{Time: series[i].Time, Price: rsi(avgGain, avgLoss)})
	}
	return out, nil
}

func rsi(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
