package collector

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"CryptoPulse/internal/asset"
	"CryptoPulse/internal/insight"
	"CryptoPulse/internal/model"
	"CryptoPulse/internal/sentiment"
)

// MockPriceFetcher is a testify mock of PriceFetcher.
type MockPriceFetcher struct {
	mock.Mock
}

func (m *MockPriceFetcher) Name() string { return "mockprice" }

func (m *MockPriceFetcher) FetchSnapshot(ctx context.Context, assetID string) (*model.MarketSnapshot, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MarketSnapshot), args.Error(1)
}

func (m *MockPriceFetcher) FetchHistory(ctx context.Context, assetID string, days int) ([]model.PricePoint, error) {
	args := m.Called(ctx, assetID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PricePoint), args.Error(1)
}

// MockNewsFetcher is a testify mock of NewsFetcher.
type MockNewsFetcher struct {
	mock.Mock
}

func (m *MockNewsFetcher) Name() string { return "mocknews" }

func (m *MockNewsFetcher) FetchArticles(ctx context.Context, query string) ([]model.Article, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Article), args.Error(1)
}

func history(prices ...float64) []model.PricePoint {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.PricePoint, len(prices))
	for i, p := range prices {
		out[i] = model.PricePoint{Time: start.AddDate(0, 0, i), Price: p}
	}
	return out
}

func TestCollect(t *testing.T) {
	ctx := context.Background()
	prices := new(MockPriceFetcher)
	news := new(MockNewsFetcher)

	prices.On("FetchSnapshot", ctx, "bitcoin").Return(&model.MarketSnapshot{
		ID: "bitcoin", MarketCap: 2e10, TotalVolume24h: 1e9, PercentChange24h: 4.5,
	}, nil)
	prices.On("FetchHistory", ctx, "bitcoin", 30).Return(history(100, 110, 99), nil)
	news.On("FetchArticles", ctx, "Bitcoin BTC").Return([]model.Article{
		{Title: "bullish bullish bearish"},
		{Title: "The quick brown fox"},
	}, nil)

	c := NewCollector(prices, news, asset.NewCatalog(), sentiment.NewScorer(nil))
	view, err := c.Collect(ctx, "bitcoin")
	require.NoError(t, err)

	assert.NotEmpty(t, view.RefreshID)
	assert.Equal(t, "bitcoin", view.AssetID)
	assert.Equal(t, "Bitcoin", view.Snapshot.Name)
	require.Len(t, view.Volatility, 3)
	assert.InDelta(t, 10, view.Volatility[1].Volatility, 1e-9)
	require.Len(t, view.Articles, 2)
	assert.InDelta(t, 1.0/3.0, view.Articles[0].SentimentScore, 1e-12)
	assert.Equal(t, 0.0, view.Articles[1].SentimentScore)

	assert.Equal(t, insight.VolatilityHigh, view.Insights.Risk.Volatility)
	assert.Equal(t, insight.SentimentPositive, view.Insights.Risk.NewsSentiment)
	assert.Equal(t, insight.MaturityEstablished, view.Insights.Risk.MarketMaturity)
	assert.Contains(t, view.Insights.MarketAnalysis, "Bitcoin shows a positive trend with 4.50% change")
	assert.Equal(t, 110.0, view.Indicators.High)

	prices.AssertExpectations(t)
	news.AssertExpectations(t)
}

func TestCollect_UnmappedAssetUsesRawID(t *testing.T) {
	ctx := context.Background()
	prices := new(MockPriceFetcher)
	news := new(MockNewsFetcher)
	prices.On("FetchSnapshot", ctx, "shiba-inu").Return(&model.MarketSnapshot{ID: "shiba-inu", MarketCap: 5e9}, nil)
	prices.On("FetchHistory", ctx, "shiba-inu", 7).Return([]model.PricePoint{}, nil)
	news.On("FetchArticles", ctx, "shiba-inu").Return([]model.Article{}, nil)

	c := NewCollector(prices, news, asset.NewCatalog(), sentiment.NewScorer(nil))
	c.HistoryDays = 7
	view, err := c.Collect(ctx, "shiba-inu")
	require.NoError(t, err)

	assert.Equal(t, "Shiba-inu", view.Snapshot.Name)
	assert.Equal(t, "", view.Insights.Risk.Volatility)
	assert.Equal(t, "", view.Insights.Risk.NewsSentiment)
	assert.Equal(t, insight.MaturityEmerging, view.Insights.Risk.MarketMaturity)
	news.AssertExpectations(t)
}

func TestCollect_FailureStopsEarly(t *testing.T) {
	ctx := context.Background()
	prices := new(MockPriceFetcher)
	news := new(MockNewsFetcher)
	boom := errors.New("upstream down")
	prices.On("FetchSnapshot", ctx, "bitcoin").Return(nil, boom)

	c := NewCollector(prices, news, asset.NewCatalog(), sentiment.NewScorer(nil))
	view, err := c.Collect(ctx, "bitcoin")
	assert.Nil(t, view)
	assert.ErrorIs(t, err, boom)
	prices.AssertNotCalled(t, "FetchHistory", mock.Anything, mock.Anything, mock.Anything)
	news.AssertNotCalled(t, "FetchArticles", mock.Anything, mock.Anything)
}

func TestCollect_NewsFailureFailsCollection(t *testing.T) {
	ctx := context.Background()
	prices := new(MockPriceFetcher)
	news := new(MockNewsFetcher)
	prices.On("FetchSnapshot", ctx, "bitcoin").Return(&model.MarketSnapshot{ID: "bitcoin"}, nil)
	prices.On("FetchHistory", ctx, "bitcoin", 30).Return(history(1, 2), nil)
	news.On("FetchArticles", ctx, "Bitcoin BTC").Return(nil, errors.New("rate limited"))

	c := NewCollector(prices, news, asset.NewCatalog(), sentiment.NewScorer(nil))
	_, err := c.Collect(ctx, "bitcoin")
	assert.Error(t, err)
}

func TestCollect_WithMockFetcher(t *testing.T) {
	m := &MockFetcher{Price: 100}
	c := NewCollector(m, m, asset.NewCatalog(), sentiment.NewScorer(nil))
	view, err := c.Collect(context.Background(), "solana")
	require.NoError(t, err)
	assert.Len(t, view.History, DefaultHistoryDays+1)
	assert.Len(t, view.Volatility, DefaultHistoryDays+1)
	assert.Len(t, view.Articles, 3)
	assert.Equal(t, "Solana", view.Snapshot.Name)
}

func TestSyncListings(t *testing.T) {
	catalog := asset.NewCatalog()

	// MockFetcher cannot list assets.
	m := &MockFetcher{Price: 1}
	n, err := NewCollector(m, m, catalog, nil).SyncListings(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	f := newTestCoinGecko(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"tether","symbol":"usdt","name":"Tether","market_cap_rank":3}]`))
	})
	n, err = NewCollector(f, m, catalog, nil).SyncListings(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "tether", catalog.Resolve("USDT"))
}
