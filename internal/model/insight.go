package model

// RiskAssessment holds the three independent risk judgments. An empty field
// means the judgment was suppressed because its input was missing.
type RiskAssessment struct {
	Volatility     string `json:"volatility,omitempty"`
	NewsSentiment  string `json:"news_sentiment,omitempty"`
	MarketMaturity string `json:"market_maturity,omitempty"`
}

// Insights is the synthesized, human-readable summary of one refresh.
type Insights struct {
	MarketAnalysis string         `json:"market_analysis,omitempty"`
	Risk           RiskAssessment `json:"risk"`

	// MeanSentiment is only meaningful when HasSentiment is set.
	MeanSentiment float64 `json:"mean_sentiment"`
	HasSentiment  bool    `json:"has_sentiment"`
}
