// Package sentiment scores free text against a keyword lexicon.
package sentiment

import (
	"regexp"
	"strings"

	"CryptoPulse/internal/lexicon"
	"CryptoPulse/internal/model"
)

var delimiter = regexp.MustCompile(`\W+`)

// Scorer computes keyword polarity scores.
type Scorer struct {
	lex *lexicon.Lexicon
}

// NewScorer creates a Scorer. A nil lexicon selects the embedded default.
func NewScorer(lex *lexicon.Lexicon) *Scorer {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Scorer{lex: lex}
}

// Lexicon returns the lexicon the scorer matches against.
func (s *Scorer) Lexicon() *lexicon.Lexicon { return s.lex }

// Score returns the mean polarity of the lexicon keywords found in text, or 0
// when none are found. Only whole tokens match.
func (s *Scorer) Score(text string) float64 {
	var score, relevant int
	for _, token := range Tokenize(text) {
		if p := s.lex.Polarity(token); p != 0 {
			score += p
			relevant++
		}
	}
	if relevant == 0 {
		return 0
	}
	return float64(score) / float64(relevant)
}

// ScoreArticles scores each article's title and description. The input is
// not modified.
func (s *Scorer) ScoreArticles(articles []model.Article) []model.ScoredArticle {
	scored := make([]model.ScoredArticle, len(articles))
	for i, a := range articles {
		score := s.Score(a.Text())
		scored[i] = model.ScoredArticle{
			Article:        a,
			SentimentScore: score,
			Sentiment:      Label(score),
		}
	}
	return scored
}

// Tokenize lower-cases text and splits it on runs of non-word characters,
// dropping empty tokens.
func Tokenize(text string) []string {
	parts := delimiter.Split(strings.ToLower(text), -1)
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// Label classifies a score as positive, negative or neutral.
func Label(score float64) model.SentimentLabel {
	switch {
	case score > 0:
		return model.SentimentPositive
	case score < 0:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}
