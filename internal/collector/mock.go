package collector

import (
	"context"
	"math"
	"time"

	"CryptoPulse/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// It implements PriceFetcher and NewsFetcher.
type MockFetcher struct {
	Price    float64
	Snapshot *model.MarketSnapshot
	History  []model.PricePoint
	Articles []model.Article
	// Delay is waited out (or the context cancelled) before returning.
	Delay time.Duration
	Err   error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) wait(ctx context.Context) error {
	if m.Delay <= 0 {
		return m.Err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(m.Delay):
		return m.Err
	}
}

func (m *MockFetcher) FetchSnapshot(ctx context.Context, assetID string) (*model.MarketSnapshot, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if m.Snapshot != nil {
		snap := *m.Snapshot
		snap.ID = assetID
		return &snap, nil
	}
	return &model.MarketSnapshot{
		ID:               assetID,
		CurrentPrice:     m.Price,
		MarketCap:        m.Price * 2e7,
		TotalVolume24h:   m.Price * 1e6,
		PercentChange24h: 1.5,
		FetchedAt:        time.Now(),
	}, nil
}

func (m *MockFetcher) FetchHistory(ctx context.Context, _ string, days int) ([]model.PricePoint, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if m.History != nil {
		return m.History, nil
	}
	return generateMockHistory(m.Price, days+1), nil
}

func (m *MockFetcher) FetchArticles(ctx context.Context, query string) ([]model.Article, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if m.Articles != nil {
		return m.Articles, nil
	}
	now := time.Now().UTC()
	return []model.Article{
		{Title: query + " rally extends as buyers return", Description: "Analysts see strong support near recent lows.", URL: "https://example.com/1", PublishedAt: now, SourceName: "Mock Wire"},
		{Title: query + " faces correction risk", Description: "Traders weigh uncertainty ahead of the weekend.", URL: "https://example.com/2", PublishedAt: now.Add(-time.Hour), SourceName: "Mock Wire"},
		{Title: "Weekly market wrap", Description: "A quiet week for digital assets.", URL: "https://example.com/3", PublishedAt: now.Add(-2 * time.Hour), SourceName: "Mock Daily"},
	}, nil
}

func generateMockHistory(basePrice float64, count int) []model.PricePoint {
	if count < 1 {
		count = 1
	}
	start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -(count - 1))
	points := make([]model.PricePoint, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + 0.03*math.Sin(float64(i)/3) + float64(i-count/2)*0.001)
		points[i] = model.PricePoint{Time: start.AddDate(0, 0, i), Price: p}
	}
	return points
}
