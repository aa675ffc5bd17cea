package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchPhrase(t *testing.T) {
	c := NewCatalog()
	assert.Equal(t, "Bitcoin BTC", c.SearchPhrase("bitcoin"))
	assert.Equal(t, "VeChain VET", c.SearchPhrase("vechain"))
	assert.Equal(t, "tron", c.SearchPhrase("tron"))
	assert.Equal(t, "", c.SearchPhrase(""))
}

func TestSearchPhrase_IgnoresListings(t *testing.T) {
	c := NewCatalog()
	c.Merge([]Asset{{ID: "tron", Name: "TRON", Symbol: "trx", Rank: 10}})
	assert.Equal(t, "tron", c.SearchPhrase("tron"))
}

func TestDisplayName(t *testing.T) {
	c := NewCatalog()
	assert.Equal(t, "VeChain", c.DisplayName("vechain"))
	assert.Equal(t, "Shiba-inu", c.DisplayName("shiba-inu"))
	assert.Equal(t, "", c.DisplayName(""))

	c.Merge([]Asset{{ID: "shiba-inu", Name: "Shiba Inu", Symbol: "shib"}})
	assert.Equal(t, "Shiba Inu", c.DisplayName("shiba-inu"))
}

func TestResolve(t *testing.T) {
	c := NewCatalog()
	c.Merge([]Asset{{ID: "the-open-network", Name: "Toncoin", Symbol: "ton"}})

	tests := []struct {
		input string
		want  string
	}{
		{"bitcoin", "bitcoin"},
		{"  Ethereum ", "ethereum"},
		{"VeChain", "vechain"},
		{"btc", "bitcoin"},
		{"toncoin", "the-open-network"},
		{"TON", "the-open-network"},
		{"Unknown-Coin", "unknown-coin"},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Resolve(tt.input), "input %q", tt.input)
	}
}

func TestResolve_SharedSymbolIsDeterministic(t *testing.T) {
	c := NewCatalog()
	c.Merge([]Asset{
		{ID: "avalanche-2", Name: "Avalanche", Symbol: "avax", Rank: 12},
		{ID: "wrapped-foo", Name: "Wrapped Foo", Symbol: "foo", Rank: 40},
		{ID: "foo-classic", Name: "Foo Classic", Symbol: "foo", Rank: 0},
		{ID: "foo-token", Name: "Foo Token", Symbol: "foo", Rank: 9},
		{ID: "bar-b", Name: "Bar", Symbol: "bar"},
		{ID: "bar-a", Name: "Bar", Symbol: "bar"},
	})

	for i := 0; i < 200; i++ {
		require.Equal(t, "avalanche", c.Resolve("AVAX"))
		require.Equal(t, "avalanche", c.Resolve("avalanche"))
		require.Equal(t, "foo-token", c.Resolve("FOO"))
		require.Equal(t, "bar-a", c.Resolve("bar"))
	}
}

func TestMerge_KeepsFeatured(t *testing.T) {
	c := NewCatalog()
	c.Merge([]Asset{
		{ID: "bitcoin", Name: "BTC renamed", Symbol: "xbt", Rank: 1},
		{ID: "tether", Name: "Tether", Symbol: "usdt", Rank: 3},
		{ID: "", Name: "ignored"},
	})

	btc, ok := c.Lookup("bitcoin")
	require.True(t, ok)
	assert.Equal(t, "Bitcoin", btc.Name)
	assert.Equal(t, "BTC", btc.Symbol)
	assert.Equal(t, 1, btc.Rank)
	assert.True(t, btc.Featured)

	usdt, ok := c.Lookup("tether")
	require.True(t, ok)
	assert.Equal(t, "USDT", usdt.Symbol)
	assert.False(t, usdt.Featured)
}

func TestList_Order(t *testing.T) {
	c := NewCatalog()
	c.Merge([]Asset{
		{ID: "zeta", Name: "Zeta"},
		{ID: "tether", Name: "Tether", Rank: 3},
		{ID: "bnb", Name: "BNB", Rank: 4},
	})
	list := c.List()
	require.Len(t, list, 23)
	assert.Equal(t, "bitcoin", list[0].ID)
	assert.Equal(t, "aave", list[19].ID)
	assert.Equal(t, "tether", list[20].ID)
	assert.Equal(t, "bnb", list[21].ID)
	assert.Equal(t, "zeta", list[22].ID)
}
