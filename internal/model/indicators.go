package model

// Indicators holds the supplementary technical indicators computed over the
// historical price series. They are informational and do not feed the risk
// assessment.
type Indicators struct {
	MovingAverage        []PricePoint `json:"moving_average"`
	RSI                  []PricePoint `json:"rsi"`
	LatestRSI            float64      `json:"latest_rsi"`
	High                 float64      `json:"high"`
	Low                  float64      `json:"low"`
	AnnualizedVolatility float64      `json:"annualized_volatility"`
}
