package calculator

import (
	"errors"
	"math"

	"CryptoPulse/internal/model"
)

// CalculateRange scans the whole series and returns the highest and lowest price.
func CalculateRange(series []model.PricePoint) (high, low float64, err error) {
	if len(series) == 0 {
		return 0, 0, errors.New("no price points provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, p := range series {
		if p.Price > high {
			high = p.Price
		}
		if p.Price < low {
			low = p.Price
		}
	}
	return high, low, nil
}
