package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"CryptoPulse/internal/asset"
	"CryptoPulse/internal/calculator"
	"CryptoPulse/internal/insight"
	"CryptoPulse/internal/metrics"
	"CryptoPulse/internal/model"
	"CryptoPulse/internal/sentiment"
)

// DefaultHistoryDays is the look-back window of the price history.
const DefaultHistoryDays = 30

// Collector orchestrates data fetching and analytics for one asset.
type Collector struct {
	Prices      PriceFetcher
	News        NewsFetcher
	Catalog     *asset.Catalog
	Scorer      *sentiment.Scorer
	HistoryDays int
	Metrics     *metrics.Metrics
}

// NewCollector creates a new Collector.
func NewCollector(prices PriceFetcher, news NewsFetcher, catalog *asset.Catalog, scorer *sentiment.Scorer) *Collector {
	return &Collector{
		Prices:      prices,
		News:        news,
		Catalog:     catalog,
		Scorer:      scorer,
		HistoryDays: DefaultHistoryDays,
	}
}

// Collect fetches the snapshot, price history and news for an asset and
// derives the full View. Any fetch failure fails the whole collection so
// that a partial View is never produced.
func (c *Collector) Collect(ctx context.Context, assetID string) (*model.View, error) {
	start := time.Now()
	snap, err := c.Prices.FetchSnapshot(ctx, assetID)
	c.Metrics.ObserveFetch(c.Prices.Name()+"_snapshot", start, err)
	if err != nil {
		return nil, err
	}
	snap.Name = c.Catalog.DisplayName(assetID)

	start = time.Now()
	history, err := c.Prices.FetchHistory(ctx, assetID, c.HistoryDays)
	c.Metrics.ObserveFetch(c.Prices.Name()+"_history", start, err)
	if err != nil {
		return nil, err
	}

	query := c.Catalog.SearchPhrase(assetID)
	start = time.Now()
	articles, err := c.News.FetchArticles(ctx, query)
	c.Metrics.ObserveFetch(c.News.Name(), start, err)
	if err != nil {
		return nil, err
	}

	volatility := calculator.Volatility(history)
	scored := c.Scorer.ScoreArticles(articles)

	view := &model.View{
		RefreshID:  uuid.NewString(),
		AssetID:    assetID,
		Snapshot:   snap,
		History:    history,
		Volatility: volatility,
		Articles:   scored,
		Indicators: calculator.ComputeIndicators(history),
		Insights:   insight.Synthesize(snap, volatility, scored),
		BuiltAt:    time.Now(),
	}
	log.WithFields(log.Fields{
		"refresh_id": view.RefreshID,
		"asset":      assetID,
		"points":     len(history),
		"articles":   len(scored),
	}).Debug("view built")
	return view, nil
}

// SyncListings merges the top assets by market cap into the catalog. It is
// a no-op when the price fetcher cannot list assets.
func (c *Collector) SyncListings(ctx context.Context, limit int) (int, error) {
	lf, ok := c.Prices.(ListingFetcher)
	if !ok {
		return 0, nil
	}
	start := time.Now()
	listings, err := lf.FetchListings(ctx, limit)
	c.Metrics.ObserveFetch(c.Prices.Name()+"_listings", start, err)
	if err != nil {
		return 0, fmt.Errorf("sync listings: %w", err)
	}
	c.Catalog.Merge(listings)
	return len(listings), nil
}
