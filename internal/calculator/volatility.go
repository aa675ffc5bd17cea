package calculator

import (
	"math"

	"CryptoPulse/internal/model"
)

// Volatility converts a price series into a series of absolute day-over-day
// percent changes of the same length. The first point is 0. A point whose
// predecessor price is 0 is also 0. The series must already be ordered.
func Volatility(series []model.PricePoint) []model.VolatilityPoint {
	out := make([]model.VolatilityPoint, len(series))
	for i, p := range series {
		out[i].Time = p.Time
		if i == 0 {
			continue
		}
		prev := series[i-1].Price
		if prev == 0 {
			continue
		}
		out[i].Volatility = math.Abs((p.Price - prev) / prev * 100)
	}
	return out
}

// MaxVolatility returns the largest volatility in the series. ok is false
// for an empty series.
func MaxVolatility(series []model.VolatilityPoint) (peak float64, ok bool) {
	if len(series) == 0 {
		return 0, false
	}
	peak = series[0].Volatility
	for _, v := range series[1:] {
		if v.Volatility > peak {
			peak = v.Volatility
		}
	}
	return peak, true
}

// AnnualizedVolatility returns the sample standard deviation of log returns
// scaled to a 365-day year, in percent. Non-positive prices are skipped.
// Returns 0 when fewer than two returns are available.
func AnnualizedVolatility(series []model.PricePoint) float64 {
	var returns []float64
	for i := 1; i < len(series); i++ {
		prev, cur := series[i-1].Price, series[i].Price
		if prev <= 0 || cur <= 0 {
			continue
		}
		returns = append(returns, math.Log(cur/prev))
	}
	if len(returns) < 2 {
		return 0
	}
	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)
	return math.Sqrt(variance) * math.Sqrt(365) * 100
}
