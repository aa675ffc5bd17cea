package collector

import (
	"context"

	"CryptoPulse/internal/asset"
	"CryptoPulse/internal/model"
)

// PriceFetcher supplies market snapshots and historical prices.
type PriceFetcher interface {
	FetchSnapshot(ctx context.Context, assetID string) (*model.MarketSnapshot, error)
	FetchHistory(ctx context.Context, assetID string, days int) ([]model.PricePoint, error)
	Name() string
}

// NewsFetcher supplies recent articles for a search phrase, newest first.
type NewsFetcher interface {
	FetchArticles(ctx context.Context, query string) ([]model.Article, error)
	Name() string
}

// ListingFetcher supplies the top assets by market cap.
type ListingFetcher interface {
	FetchListings(ctx context.Context, limit int) ([]asset.Asset, error)
}
