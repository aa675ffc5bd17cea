package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"CryptoPulse/internal/model"
)

// DefaultNewsAPIURL is the NewsAPI v2 base URL.
const DefaultNewsAPIURL = "https://newsapi.org/v2"

// NewsAPIFetcher implements NewsFetcher using the NewsAPI "everything" endpoint.
type NewsAPIFetcher struct {
	BaseURL  string
	APIKey   string
	PageSize int
	Language string
	req      *requester
}

// NewNewsAPIFetcher creates a fetcher with optional proxy support.
func NewNewsAPIFetcher(baseURL, apiKey, proxyURL string, pageSize int, language string, ratePerSec float64) *NewsAPIFetcher {
	if baseURL == "" {
		baseURL = DefaultNewsAPIURL
	}
	return &NewsAPIFetcher{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		PageSize: pageSize,
		Language: language,
		req: &requester{
			source:     "newsapi",
			client:     NewHTTPClient(proxyURL),
			limiter:    newLimiter(ratePerSec),
			maxRetries: 2,
			backoff:    time.Second,
		},
	}
}

// SetRetry overrides the retry policy for transient failures.
func (f *NewsAPIFetcher) SetRetry(maxRetries int, backoff time.Duration) {
	f.req.maxRetries = maxRetries
	f.req.backoff = backoff
}

func (f *NewsAPIFetcher) Name() string { return "newsapi" }

// naArticle is the article shape returned by NewsAPI.
type naArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// FetchArticles returns the most recent articles matching query, newest first.
func (f *NewsAPIFetcher) FetchArticles(ctx context.Context, query string) ([]model.Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("sortBy", "publishedAt")
	if f.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(f.PageSize))
	}
	if f.Language != "" {
		params.Set("language", f.Language)
	}
	header := http.Header{}
	header.Set("X-Api-Key", f.APIKey)

	var result struct {
		Status   string      `json:"status"`
		Code     string      `json:"code"`
		Message  string      `json:"message"`
		Articles []naArticle `json:"articles"`
	}
	if err := f.req.getJSON(ctx, f.BaseURL+"/everything?"+params.Encode(), header, &result); err != nil {
		return nil, fmt.Errorf("fetch articles: %w", err)
	}
	if result.Status != "ok" {
		return nil, fmt.Errorf("fetch articles: newsapi error %s: %s", result.Code, result.Message)
	}

	articles := make([]model.Article, 0, len(result.Articles))
	for _, a := range result.Articles {
		published, err := time.Parse(time.RFC3339, a.PublishedAt)
		if err != nil {
			log.WithField("url", a.URL).Debugf("newsapi: bad publishedAt %q: %v", a.PublishedAt, err)
		}
		articles = append(articles, model.Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			PublishedAt: published,
			SourceName:  a.Source.Name,
		})
	}
	return articles, nil
}
