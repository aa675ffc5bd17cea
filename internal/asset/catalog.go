// Package asset maps asset identifiers to display names, ticker symbols and
// news search phrases.
package asset

import (
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Asset describes one tradable cryptocurrency.
type Asset struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	// Rank is the market-cap rank reported by the listing source, 0 if unknown.
	Rank int `json:"rank,omitempty"`
	// Featured marks the fixed set offered for selection by default.
	Featured bool `json:"featured"`
}

// featured is the fixed selection list. Its order is the display order.
var featured = []Asset{
	{ID: "bitcoin", Name: "Bitcoin", Symbol: "BTC"},
	{ID: "ethereum", Name: "Ethereum", Symbol: "ETH"},
	{ID: "cardano", Name: "Cardano", Symbol: "ADA"},
	{ID: "solana", Name: "Solana", Symbol: "SOL"},
	{ID: "dogecoin", Name: "Dogecoin", Symbol: "DOGE"},
	{ID: "ripple", Name: "Ripple", Symbol: "XRP"},
	{ID: "polkadot", Name: "Polkadot", Symbol: "DOT"},
	{ID: "avalanche", Name: "Avalanche", Symbol: "AVAX"},
	{ID: "chainlink", Name: "Chainlink", Symbol: "LINK"},
	{ID: "polygon", Name: "Polygon", Symbol: "MATIC"},
	{ID: "uniswap", Name: "Uniswap", Symbol: "UNI"},
	{ID: "litecoin", Name: "Litecoin", Symbol: "LTC"},
	{ID: "stellar", Name: "Stellar", Symbol: "XLM"},
	{ID: "cosmos", Name: "Cosmos", Symbol: "ATOM"},
	{ID: "monero", Name: "Monero", Symbol: "XMR"},
	{ID: "algorand", Name: "Algorand", Symbol: "ALGO"},
	{ID: "tezos", Name: "Tezos", Symbol: "XTZ"},
	{ID: "vechain", Name: "VeChain", Symbol: "VET"},
	{ID: "filecoin", Name: "Filecoin", Symbol: "FIL"},
	{ID: "aave", Name: "Aave", Symbol: "AAVE"},
}

var featuredOrder = func() map[string]int {
	order := make(map[string]int, len(featured))
	for i, a := range featured {
		order[a.ID] = i
	}
	return order
}()

// Catalog is safe for concurrent use. The featured entries are fixed; entries
// discovered from market listings can be merged in at runtime.
type Catalog struct {
	mu       sync.RWMutex
	byID     map[string]Asset
	// searches is fixed at construction and read without the lock.
	searches map[string]string
}

// NewCatalog returns a catalog holding the featured assets.
func NewCatalog() *Catalog {
	c := &Catalog{
		byID:     make(map[string]Asset, len(featured)),
		searches: make(map[string]string, len(featured)),
	}
	for _, a := range featured {
		a.Featured = true
		c.byID[a.ID] = a
		c.searches[a.ID] = a.Name + " " + a.Symbol
	}
	return c
}

// SearchPhrase returns the news search phrase for an asset: "Name SYMBOL" for
// featured assets, otherwise the identifier itself.
func (c *Catalog) SearchPhrase(id string) string {
	if phrase, ok := c.searches[id]; ok {
		return phrase
	}
	return id
}

// DisplayName returns the known name of an asset, or the identifier with its
// first letter upper-cased.
func (c *Catalog) DisplayName(id string) string {
	c.mu.RLock()
	a, ok := c.byID[id]
	c.mu.RUnlock()
	if ok && a.Name != "" {
		return a.Name
	}
	return capitalize(id)
}

// Lookup returns the catalog entry for id.
func (c *Catalog) Lookup(id string) (Asset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.byID[id]
	return a, ok
}

// Resolve turns user input into an asset identifier. The input is matched
// against identifiers first, then case-insensitively against names and
// symbols. When several assets share a name or symbol, the one listed first
// by List wins. Unknown input is returned normalized so it can still be
// queried as a raw identifier.
func (c *Catalog) Resolve(input string) string {
	id := Normalize(input)
	if id == "" {
		return ""
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.byID[id]; ok {
		return id
	}
	if best, ok := c.firstLocked(func(a Asset) bool { return strings.ToLower(a.Name) == id }); ok {
		return best.ID
	}
	if best, ok := c.firstLocked(func(a Asset) bool { return strings.ToLower(a.Symbol) == id }); ok {
		return best.ID
	}
	return id
}

func (c *Catalog) firstLocked(match func(Asset) bool) (Asset, bool) {
	var best Asset
	found := false
	for _, a := range c.byID {
		if !match(a) {
			continue
		}
		if !found || listedBefore(a, best) {
			best, found = a, true
		}
	}
	return best, found
}

// Merge adds listed assets to the catalog. Featured entries keep their name
// and symbol and only pick up the listing rank.
func (c *Catalog) Merge(listings []Asset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range listings {
		if l.ID == "" {
			continue
		}
		if existing, ok := c.byID[l.ID]; ok && existing.Featured {
			existing.Rank = l.Rank
			c.byID[l.ID] = existing
			continue
		}
		l.Featured = false
		l.Symbol = strings.ToUpper(l.Symbol)
		c.byID[l.ID] = l
	}
}

// List returns featured assets in display order followed by the remaining
// assets by rank.
func (c *Catalog) List() []Asset {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Asset, 0, len(c.byID))
	for _, a := range c.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return listedBefore(out[i], out[j]) })
	return out
}

// listedBefore orders featured assets first in table order, then by
// market-cap rank with unranked assets last, then by id.
func listedBefore(a, b Asset) bool {
	if a.Featured != b.Featured {
		return a.Featured
	}
	if a.Featured {
		return featuredOrder[a.ID] < featuredOrder[b.ID]
	}
	if a.Rank != b.Rank {
		if a.Rank == 0 || b.Rank == 0 {
			return b.Rank == 0
		}
		return a.Rank < b.Rank
	}
	return a.ID < b.ID
}

// Normalize trims and lower-cases an identifier.
func Normalize(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
