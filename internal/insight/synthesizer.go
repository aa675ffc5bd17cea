// Package insight turns a market snapshot, a volatility series and scored
// news into descriptive market and risk judgments.
package insight

import "CryptoPulse/internal/model"

// Synthesize evaluates every rule independently. A missing input suppresses
// only the judgments that depend on it.
func Synthesize(snap *model.MarketSnapshot, volatility []model.VolatilityPoint, articles []model.ScoredArticle) model.Insights {
	mean, ok := MeanSentiment(articles)
	return model.Insights{
		MarketAnalysis: MarketAnalysis(snap),
		Risk: model.RiskAssessment{
			Volatility:     VolatilityRisk(volatility),
			NewsSentiment:  SentimentRisk(articles),
			MarketMaturity: MaturityRisk(snap),
		},
		MeanSentiment: mean,
		HasSentiment:  ok,
	}
}
