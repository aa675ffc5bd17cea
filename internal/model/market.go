package model

import "time"

// PricePoint is a single sample of an asset's historical price.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

// VolatilityPoint is the absolute percent change of a PricePoint relative to
// its predecessor. The first point of a series is always 0.
type VolatilityPoint struct {
	Time       time.Time `json:"time"`
	Volatility float64   `json:"volatility"`
}

// MarketSnapshot is one point-in-time read of an asset's market data.
type MarketSnapshot struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	CurrentPrice     float64   `json:"current_price"`
	MarketCap        float64   `json:"market_cap"`
	TotalVolume24h   float64   `json:"total_volume_24h"`
	PercentChange24h float64   `json:"percent_change_24h"`
	FetchedAt        time.Time `json:"fetched_at"`
}

// Prices extracts the raw prices of a series in order.
func Prices(series []PricePoint) []float64 {
	prices := make([]float64, len(series))
	for i, p := range series {
		prices[i] = p.Price
	}
	return prices
}
