package collector

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"CryptoPulse/internal/asset"
	"CryptoPulse/internal/model"
)

// DefaultCoinGeckoURL is the public CoinGecko v3 API.
const DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

// CoinGeckoFetcher implements PriceFetcher and ListingFetcher using the
// CoinGecko REST API. Prices are quoted in USD.
type CoinGeckoFetcher struct {
	BaseURL string
	APIKey  string
	req     *requester
}

// NewCoinGeckoFetcher creates a fetcher with optional proxy support.
// ratePerSec <= 0 disables client-side rate limiting.
func NewCoinGeckoFetcher(baseURL, apiKey, proxyURL string, ratePerSec float64) *CoinGeckoFetcher {
	if baseURL == "" {
		baseURL = DefaultCoinGeckoURL
	}
	return &CoinGeckoFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		req: &requester{
			source:     "coingecko",
			client:     NewHTTPClient(proxyURL),
			limiter:    newLimiter(ratePerSec),
			maxRetries: 2,
			backoff:    time.Second,
		},
	}
}

// SetRetry overrides the retry policy for transient failures.
func (f *CoinGeckoFetcher) SetRetry(maxRetries int, backoff time.Duration) {
	f.req.maxRetries = maxRetries
	f.req.backoff = backoff
}

func (f *CoinGeckoFetcher) Name() string { return "coingecko" }

func (f *CoinGeckoFetcher) header() http.Header {
	h := http.Header{}
	if f.APIKey != "" {
		h.Set("x-cg-demo-api-key", f.APIKey)
	}
	return h
}

type cgSimplePrice struct {
	USD          float64 `json:"usd"`
	USDMarketCap float64 `json:"usd_market_cap"`
	USD24hVol    float64 `json:"usd_24h_vol"`
	USD24hChange float64 `json:"usd_24h_change"`
}

// FetchSnapshot reads the current price, market cap, 24h volume and 24h
// change for one asset. Name is left for the caller to fill in.
func (f *CoinGeckoFetcher) FetchSnapshot(ctx context.Context, assetID string) (*model.MarketSnapshot, error) {
	params := url.Values{}
	params.Set("ids", assetID)
	params.Set("vs_currencies", "usd")
	params.Set("include_market_cap", "true")
	params.Set("include_24hr_vol", "true")
	params.Set("include_24hr_change", "true")

	var result map[string]cgSimplePrice
	if err := f.req.getJSON(ctx, f.BaseURL+"/simple/price?"+params.Encode(), f.header(), &result); err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	p, ok := result[assetID]
	if !ok {
		return nil, fmt.Errorf("fetch snapshot %q: %w", assetID, ErrAssetNotFound)
	}
	return &model.MarketSnapshot{
		ID:               assetID,
		CurrentPrice:     p.USD,
		MarketCap:        p.USDMarketCap,
		TotalVolume24h:   p.USD24hVol,
		PercentChange24h: p.USD24hChange,
		FetchedAt:        time.Now(),
	}, nil
}

// FetchHistory reads daily prices for the last `days` days, oldest first.
func (f *CoinGeckoFetcher) FetchHistory(ctx context.Context, assetID string, days int) ([]model.PricePoint, error) {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("days", strconv.Itoa(days))
	params.Set("interval", "daily")
	endpoint := fmt.Sprintf("%s/coins/%s/market_chart?%s", f.BaseURL, url.PathEscape(assetID), params.Encode())

	var chart struct {
		Prices [][2]float64 `json:"prices"`
	}
	if err := f.req.getJSON(ctx, endpoint, f.header(), &chart); err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	points := make([]model.PricePoint, 0, len(chart.Prices))
	for _, p := range chart.Prices {
		ms := int64(math.Round(p[0]))
		points = append(points, model.PricePoint{
			Time:  time.UnixMilli(ms).UTC(),
			Price: p[1],
		})
	}
	// Ensure chronological order
	sort.SliceStable(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })
	return points, nil
}

// FetchListings reads the top assets by market cap.
func (f *CoinGeckoFetcher) FetchListings(ctx context.Context, limit int) ([]asset.Asset, error) {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("order", "market_cap_desc")
	params.Set("per_page", strconv.Itoa(limit))
	params.Set("page", "1")

	var markets []struct {
		ID            string `json:"id"`
		Symbol        string `json:"symbol"`
		Name          string `json:"name"`
		MarketCapRank int    `json:"market_cap_rank"`
	}
	if err := f.req.getJSON(ctx, f.BaseURL+"/coins/markets?"+params.Encode(), f.header(), &markets); err != nil {
		return nil, fmt.Errorf("fetch listings: %w", err)
	}
	out := make([]asset.Asset, 0, len(markets))
	for _, m := range markets {
		out = append(out, asset.Asset{ID: m.ID, Name: m.Name, Symbol: m.Symbol, Rank: m.MarketCapRank})
	}
	return out, nil
}
