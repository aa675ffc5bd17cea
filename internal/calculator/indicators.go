package calculator

import (
	log "github.com/sirupsen/logrus"

	"CryptoPulse/internal/model"
)

const (
	// MAWindow is the moving-average window, in points.
	MAWindow = 5
	// RSIPeriod is the RSI look-back, in points.
	RSIPeriod = 14
)

// ComputeIndicators derives the supplementary indicators for a price series.
// Failures of individual indicators are logged and leave zero values.
func ComputeIndicators(series []model.PricePoint) model.Indicators {
	var ind model.Indicators

	if ma, err := MovingAverage(series, MAWindow); err != nil {
		log.Warnf("moving average calculation failed: %v", err)
	} else {
		ind.MovingAverage = ma
	}

	if values, err := RSISeries(series, RSIPeriod); err != nil {
		log.Warnf("RSI calculation failed: %v", err)
	} else {
		ind.RSI = values
	}
	if latest, err := CalculateRSI(series, RSIPeriod); err != nil {
		log.Warnf("latest RSI calculation failed: %v, defaulting to 50", err)
		ind.LatestRSI = 50
	} else {
		ind.LatestRSI = latest
	}

	if h, l, err := CalculateRange(series); err != nil {
		log.Debugf("range calculation skipped: %v", err)
	} else {
		ind.High = h
		ind.Low = l
	}

	ind.AnnualizedVolatility = AnnualizedVolatility(series)
	return ind
}
