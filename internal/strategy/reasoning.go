package strategy

import (
	"strings"

	"CryptoAdvisor/internal/model"
)

// reason is one threshold-triggered phrase.
type reason struct {
	applies func(a model.Asset) bool
	text    string
}

var commonReasons = []reason{
	{func(a model.Asset) bool { return a.Trend > 70 }, "Strong upward trend"},
	{func(a model.Asset) bool { return a.Fundamentals > 70 }, "Solid fundamentals"},
	{func(a model.Asset) bool { return a.PriceChange7d > 10 }, "Strong weekly momentum"},
	{func(a model.Asset) bool { return a.Volatility < 30 }, "Low volatility"},
	{func(a model.Asset) bool { return a.MarketCap > 1e9 }, "Large market cap stability"},
}

var styleReasons = map[Style]reason{
	StyleAccumulate: {func(a model.Asset) bool { return a.Fundamentals > 70 }, "Strong fundamentals for long-term growth"},
	StyleIncome:     {func(a model.Asset) bool { return true }, "Established yield ecosystem"},
	StylePreserve:   {func(a model.Asset) bool { return a.Volatility < 30 }, "Suited to capital preservation"},
	StyleTrade:      {func(a model.Asset) bool { return a.MarketCap > 0 && a.Volume24h > a.MarketCap*0.1 }, "High liquidity for trading"},
	StyleSpeculate:  {func(a model.Asset) bool { return a.PriceChange30d > 20 }, "Explosive monthly move"},
}

const defaultReasoning = "Balanced risk-reward profile"

// buildReasoning joins every phrase the asset qualifies for.
func buildReasoning(a model.Asset, style Style) string {
	var parts []string
	if r, ok := styleReasons[style]; ok && r.applies(a) {
		parts = append(parts, r.text)
	}
	for _, r := range commonReasons {
		if r.applies(a) {
			parts = append(parts, r.text)
		}
	}
	if len(parts) == 0 {
		return defaultReasoning
	}
	return strings.Join(parts, ", ")
}

// buildEntryStrategy suggests how to enter a position given the last 24h move.
func buildEntryStrategy(a model.Asset, style Style) string {
	switch style {
	case StyleTrade:
		switch {
		case a.PriceChange24h > 5:
			return "Wait for a pullback to intraday support before entry"
		case a.PriceChange24h < -5:
			return "Look for a reversal signal before buying the dip"
		default:
			return "Enter on breakout confirmation with a tight stop"
		}
	case StyleSpeculate:
		if a.PriceChange24h > 5 {
			return "Wait for pullback before entry, size the position small"
		}
		return "Scale in with small positions"
	}
	switch {
	case a.PriceChange24h > 5:
		return "Wait for pullback before entry"
	case a.PriceChange24h < -5:
		return "Consider buying the dip"
	default:
		return "Dollar-cost average entry"
	}
}
