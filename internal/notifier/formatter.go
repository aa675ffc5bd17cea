package notifier

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"

	"CryptoPulse/internal/asset"
	"CryptoPulse/internal/model"
)

const maxListedAssets = 30

// FormatInsightReport renders a View as a Telegram HTML message.
func FormatInsightReport(view *model.View, user *model.User) string {
	var b strings.Builder
	if view == nil || view.Snapshot == nil {
		return "No market data yet. Try again after the next refresh."
	}
	snap := view.Snapshot

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n", html.EscapeString(snap.Name), view.BuiltAt.UTC().Format("2006-01-02 15:04 MST")))
	if user != nil {
		b.WriteString(fmt.Sprintf("for %s\n", html.EscapeString(user.Name)))
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("Price: %s\n", FormatMoney(snap.CurrentPrice)))
	b.WriteString(fmt.Sprintf("24h change: %s%%\n", signed(snap.PercentChange24h)))
	b.WriteString(fmt.Sprintf("Market cap: %s\n", FormatCompact(snap.MarketCap)))
	b.WriteString(fmt.Sprintf("24h volume: %s\n", FormatCompact(snap.TotalVolume24h)))

	ind := view.Indicators
	if len(view.History) > 0 {
		b.WriteString(fmt.Sprintf("Range: %s – %s | RSI(14): %s\n",
			FormatMoney(ind.Low), FormatMoney(ind.High), decimal.NewFromFloat(ind.LatestRSI).StringFixed(1)))
	}

	ins := view.Insights
	if ins.MarketAnalysis != "" {
		b.WriteString("\n📈 <b>Analysis</b>\n")
		b.WriteString(html.EscapeString(ins.MarketAnalysis))
		b.WriteString("\n")
	}

	b.WriteString("\n⚠️ <b>Risk</b>\n")
	riskLine(&b, "Volatility", ins.Risk.Volatility)
	riskLine(&b, "News sentiment", ins.Risk.NewsSentiment)
	riskLine(&b, "Market maturity", ins.Risk.MarketMaturity)

	if len(view.Articles) > 0 {
		b.WriteString("\n📰 <b>News</b>\n")
		for _, a := range view.Articles {
			b.WriteString(fmt.Sprintf("• %s <a href=\"%s\">%s</a> (%s)\n",
				sentimentIcon(a.Sentiment), html.EscapeString(a.URL), html.EscapeString(a.Title),
				decimal.NewFromFloat(a.SentimentScore).StringFixed(2)))
		}
	}
	return b.String()
}

func riskLine(b *strings.Builder, label, value string) {
	if value == "" {
		value = "n/a"
	}
	b.WriteString(fmt.Sprintf("  %s: %s\n", label, html.EscapeString(value)))
}

func sentimentIcon(label model.SentimentLabel) string {
	switch label {
	case model.SentimentPositive:
		return "🟢"
	case model.SentimentNegative:
		return "🔴"
	default:
		return "⚪"
	}
}

// FormatAssetList renders the selectable assets, capped for chat display.
func FormatAssetList(assets []asset.Asset, selected string) string {
	var b strings.Builder
	b.WriteString("🪙 <b>Assets</b>\n\n")
	for i, a := range assets {
		if i == maxListedAssets {
			b.WriteString(fmt.Sprintf("… and %d more\n", len(assets)-maxListedAssets))
			break
		}
		marker := "  "
		if a.ID == selected {
			marker = "▶ "
		}
		b.WriteString(fmt.Sprintf("%s%s (%s) <code>%s</code>\n", marker, html.EscapeString(a.Name), html.EscapeString(a.Symbol), html.EscapeString(a.ID)))
	}
	b.WriteString("\nUse /select &lt;asset&gt; to switch.")
	return b.String()
}

// FormatMoney renders a USD amount with two decimals and thousands separators.
func FormatMoney(v float64) string {
	s := decimal.NewFromFloat(v).Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(r)
	}
	sign := ""
	if v < 0 {
		sign = "-"
	}
	return sign + "$" + grouped.String() + "." + frac
}

// FormatCompact renders large USD amounts as K/M/B/T.
func FormatCompact(v float64) string {
	d := decimal.NewFromFloat(v)
	units := []struct {
		suffix string
		scale  decimal.Decimal
	}{
		{"T", decimal.New(1, 12)},
		{"B", decimal.New(1, 9)},
		{"M", decimal.New(1, 6)},
		{"K", decimal.New(1, 3)},
	}
	for _, u := range units {
		if d.Abs().GreaterThanOrEqual(u.scale) {
			return "$" + d.Div(u.scale).StringFixed(2) + u.suffix
		}
	}
	return FormatMoney(v)
}

func signed(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsPositive() {
		return "+" + d.StringFixed(2)
	}
	return d.StringFixed(2)
}
