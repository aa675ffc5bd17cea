package model

import "time"

// Article is a news item as delivered by the news source, newest first.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
	SourceName  string    `json:"source_name"`
}

// Text returns the text that sentiment scoring runs over.
func (a Article) Text() string {
	return a.Title + " " + a.Description
}

// SentimentLabel classifies a polarity score for display.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNegative SentimentLabel = "Negative"
	SentimentNeutral  SentimentLabel = "Neutral"
)

// ScoredArticle is an Article after sentiment scoring. The score is always
// present on this type.
type ScoredArticle struct {
	Article
	SentimentScore float64        `json:"sentiment_score"`
	Sentiment      SentimentLabel `json:"sentiment"`
}
