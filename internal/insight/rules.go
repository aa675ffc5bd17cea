package insight

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"CryptoPulse/internal/calculator"
	"CryptoPulse/internal/model"
)

const (
	// HighVolatilityThreshold is the max day-over-day move, in percent,
	// above which volatility is rated high.
	HighVolatilityThreshold = 5.0
	// ActiveVolumeRatio is the 24h volume to market cap ratio above which
	// trading activity is rated high.
	ActiveVolumeRatio = 0.1
	// EstablishedMarketCap is the market cap above which a market is
	// considered well established.
	EstablishedMarketCap = 10e9
)

const (
	VolatilityHigh     = "High — recommend protective stop orders"
	VolatilityModerate = "Moderate — standard precautions advised"

	SentimentPositive = "Predominantly positive"
	SentimentMixed    = "Mixed or negative"

	MaturityEstablished = "Well-established market"
	MaturityEmerging    = "Emerging market — higher risk"

	ActivityHigh     = "high market activity"
	ActivityModerate = "moderate market activity"
)

// MarketAnalysis describes the 24h direction and trading activity of a
// snapshot. Returns "" when no snapshot is available.
func MarketAnalysis(snap *model.MarketSnapshot) string {
	if snap == nil {
		return ""
	}
	direction := "positive"
	if snap.PercentChange24h < 0 {
		direction = "negative"
	}
	activity := ActivityModerate
	if snap.TotalVolume24h > snap.MarketCap*ActiveVolumeRatio {
		activity = ActivityHigh
	}
	change := decimal.NewFromFloat(math.Abs(snap.PercentChange24h)).StringFixed(2)
	return fmt.Sprintf("Based on the current data, %s shows a %s trend with %s%% change in the last 24 hours. The trading volume suggests %s.",
		snap.Name, direction, change, activity)
}

// VolatilityRisk rates the largest move in the series. Returns "" for an
// empty series.
func VolatilityRisk(series []model.VolatilityPoint) string {
	peak, ok := calculator.MaxVolatility(series)
	if !ok {
		return ""
	}
	if peak > HighVolatilityThreshold {
		return VolatilityHigh
	}
	return VolatilityModerate
}

// MeanSentiment averages the article scores. ok is false when there are no
// articles.
func MeanSentiment(articles []model.ScoredArticle) (mean float64, ok bool) {
	if len(articles) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, a := range articles {
		sum += a.SentimentScore
	}
	return sum / float64(len(articles)), true
}

// SentimentRisk rates the mean news sentiment. A mean of exactly 0 counts
// as mixed. Returns "" when there are no articles.
func SentimentRisk(articles []model.ScoredArticle) string {
	mean, ok := MeanSentiment(articles)
	if !ok {
		return ""
	}
	if mean > 0 {
		return SentimentPositive
	}
	return SentimentMixed
}

// MaturityRisk rates the market cap of a snapshot. Returns "" when no
// snapshot is available.
func MaturityRisk(snap *model.MarketSnapshot) string {
	if snap == nil {
		return ""
	}
	if snap.MarketCap > EstablishedMarketCap {
		return MaturityEstablished
	}
	return MaturityEmerging
}
