// Package lexicon holds the positive and negative market-sentiment keyword
// sets used by the sentiment scorer.
package lexicon

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultData []byte

// ErrOverlap is returned when a keyword appears in both sets.
var ErrOverlap = errors.New("lexicon: positive and negative sets overlap")

var tokenPattern = regexp.MustCompile(`^\w+$`)

// Lexicon is an immutable pair of disjoint keyword sets.
type Lexicon struct {
	Version  string
	positive map[string]struct{}
	negative map[string]struct{}
}

type document struct {
	Version  string   `yaml:"version"`
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
)

// Default returns the lexicon shipped with the binary.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		lex, err := Parse(defaultData)
		if err != nil {
			panic(fmt.Sprintf("embedded lexicon: %v", err))
		}
		defaultLex = lex
	})
	return defaultLex
}

// Load reads a lexicon from a YAML file.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML lexicon document.
func Parse(data []byte) (*Lexicon, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	return New(doc.Version, doc.Positive, doc.Negative)
}

// New builds a lexicon from raw keyword lists. Entries are trimmed and
// lower-cased; each must be a single word token.
func New(version string, positive, negative []string) (*Lexicon, error) {
	if version == "" {
		return nil, errors.New("lexicon: version is required")
	}
	pos, err := toSet(positive)
	if err != nil {
		return nil, fmt.Errorf("positive: %w", err)
	}
	neg, err := toSet(negative)
	if err != nil {
		return nil, fmt.Errorf("negative: %w", err)
	}
	if len(pos) == 0 || len(neg) == 0 {
		return nil, errors.New("lexicon: both sets must be non-empty")
	}
	for w := range pos {
		if _, ok := neg[w]; ok {
			return nil, fmt.Errorf("%w: %q", ErrOverlap, w)
		}
	}
	return &Lexicon{Version: version, positive: pos, negative: neg}, nil
}

func toSet(words []string) (map[string]struct{}, error) {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if !tokenPattern.MatchString(w) {
			return nil, fmt.Errorf("lexicon: %q is not a single word token", w)
		}
		set[w] = struct{}{}
	}
	return set, nil
}

// Polarity returns +1 for a positive keyword, -1 for a negative one and 0
// otherwise. The token must already be normalized.
func (l *Lexicon) Polarity(token string) int {
	if _, ok := l.positive[token]; ok {
		return 1
	}
	if _, ok := l.negative[token]; ok {
		return -1
	}
	return 0
}

// Positive returns the positive keywords in sorted order.
func (l *Lexicon) Positive() []string { return sorted(l.positive) }

// Negative returns the negative keywords in sorted order.
func (l *Lexicon) Negative() []string { return sorted(l.negative) }

func sorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
