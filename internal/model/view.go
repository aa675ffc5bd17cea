package model

import "time"

// View is everything one refresh cycle produces for the presentation layer.
// A View is built once and never mutated; the next refresh replaces it.
type View struct {
	RefreshID  string            `json:"refresh_id"`
	AssetID    string            `json:"asset_id"`
	Snapshot   *MarketSnapshot   `json:"snapshot,omitempty"`
	History    []PricePoint      `json:"history"`
	Volatility []VolatilityPoint `json:"volatility"`
	Articles   []ScoredArticle   `json:"articles"`
	Indicators Indicators        `json:"indicators"`
	Insights   Insights          `json:"insights"`
	BuiltAt    time.Time         `json:"built_at"`
}

// User is the display identity accepted once at startup.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}
