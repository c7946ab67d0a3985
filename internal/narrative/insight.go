package narrative

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"CryptoAdvisor/internal/model"
	"CryptoAdvisor/internal/strategy"
)

// Sentiment is the overall market direction.
type Sentiment string

const (
	Bullish Sentiment = "Bullish"
	Bearish Sentiment = "Bearish"
	Neutral Sentiment = "Neutral"
)

// Insight is a deterministic market read derived from the snapshot batch.
type Insight struct {
	Summary        string    `json:"summary"`
	Sentiment      Sentiment `json:"sentiment"`
	Confidence     float64   `json:"confidence"`
	KeyFactors     []string  `json:"key_factors"`
	RiskAssessment string    `json:"risk_assessment"`
	Recommendation string    `json:"recommendation"`
}

var strategyContext = map[string]string{
	"day-trading":           "Volatility levels present good intraday opportunities for skilled traders.",
	"swing-trading":         "Medium-term trends are emerging across multiple sectors.",
	"long-term-hodl":        "Fundamentally strong projects remain attractive for patient investors.",
	"defi-yield-farming":    "DeFi protocols showing resilience with sustainable yield opportunities.",
	"high-risk-high-reward": "Small-cap altcoins experiencing heightened volatility and potential.",
	"low-risk-stable":       "Market conditions favor established, lower-volatility assets.",
}

var sentimentAdvice = map[Sentiment]map[string]string{
	Bullish: {
		"day-trading":        "Focus on momentum plays and breakout patterns. Watch for continuation signals.",
		"swing-trading":      "Enter swing positions on pullbacks. Target 10-20% moves over 1-2 weeks.",
		"long-term-hodl":     "Excellent accumulation opportunity for quality projects. DCA strategy recommended.",
		"defi-yield-farming": "Deploy capital in established protocols. Monitor for new yield opportunities.",
	},
	Bearish: {
		"day-trading":        "Short-term bounces may offer quick profits. Tight stops essential.",
		"swing-trading":      "Wait for capitulation signals before major entries. Be patient.",
		"long-term-hodl":     "Continue DCA strategy. Historic bear markets create best long-term opportunities.",
		"defi-yield-farming": "Focus on blue-chip protocols. Avoid experimental high-yield farms.",
	},
	Neutral: {
		"day-trading":        "Range-bound conditions. Focus on support/resistance trading.",
		"swing-trading":      "Wait for clear directional bias before major positions.",
		"long-term-hodl":     "Steady accumulation of fundamentally strong assets.",
		"defi-yield-farming": "Balanced approach between yield and capital preservation.",
	},
}

// Analyze reads sentiment, key factors and risk from assets for the given strategy.
func Analyze(assets []model.Asset, p strategy.Profile) Insight {
	if len(assets) == 0 {
		return Insight{
			Summary:        fmt.Sprintf("Market analysis temporarily unavailable. Using historical patterns for %s strategy guidance.", p.Name),
			Sentiment:      Neutral,
			Confidence:     50,
			KeyFactors:     []string{"No market data available for analysis"},
			RiskAssessment: "MODERATE RISK: Always apply proper risk management regardless of market conditions.",
			Recommendation: "Maintain conservative approach until full analysis capabilities are restored.",
		}
	}

	positive := 0
	for _, a := range assets {
		if a.PriceChange24h > 0 {
			positive++
		}
	}
	ratio := float64(positive) / float64(len(assets))

	sentiment := Neutral
	switch {
	case ratio > 0.6:
		sentiment = Bullish
	case ratio < 0.4:
		sentiment = Bearish
	}

	outlook, ok := strategyContext[p.ID]
	if !ok {
		outlook = "Current conditions align with your selected strategy."
	}

	return Insight{
		Summary: fmt.Sprintf("Current market sentiment is %s with %.0f%% of tracked assets in positive territory. %s",
			strings.ToLower(string(sentiment)), ratio*100, outlook),
		Sentiment:      sentiment,
		Confidence:     math.Min(95, 60+math.Abs(ratio-0.5)*70),
		KeyFactors:     keyFactors(assets),
		RiskAssessment: riskAssessment(assets),
		Recommendation: advice(assets, sentiment, p.ID),
	}
}

func keyFactors(assets []model.Asset) []string {
	var factors []string

	highVolume := 0
	for _, a := range assets {
		if a.Volume24h > a.MarketCap*0.1 {
			highVolume++
		}
	}
	if float64(highVolume) > float64(len(assets))*0.3 {
		factors = append(factors, "High trading volume across major assets indicates strong market participation")
	}

	if btc, ok := findSymbol(assets, "BTC"); ok {
		switch {
		case btc.PriceChange24h > 2:
			factors = append(factors, "Bitcoin showing strong bullish momentum, likely driving market sentiment")
		case btc.PriceChange24h < -2:
			factors = append(factors, "Bitcoin weakness creating headwinds for broader crypto market")
		}
	}

	large, largeUp := 0, 0
	for _, a := range assets {
		if a.MarketCap > 10e9 {
			large++
			if a.PriceChange7d > 0 {
				largeUp++
			}
		}
	}
	if large > 0 && float64(largeUp)/float64(large) > 0.7 {
		factors = append(factors, "Large-cap cryptocurrencies showing coordinated strength")
	}

	if len(factors) == 0 {
		return []string{"Market showing mixed signals with selective opportunities"}
	}
	return factors
}

func riskAssessment(assets []model.Asset) string {
	vols := make([]float64, len(assets))
	for i, a := range assets {
		vols[i] = a.Volatility
	}
	avg := stat.Mean(vols, nil)
	switch {
	case avg > 60:
		return "HIGH RISK: Elevated volatility across markets. Consider position sizing and stop-loss strategies."
	case avg > 35:
		return "MODERATE RISK: Normal crypto market volatility. Standard risk management applies."
	default:
		return "LOWER RISK: Relatively stable conditions. Good environment for larger positions."
	}
}

func advice(assets []model.Asset, s Sentiment, strategyID string) string {
	rec, ok := sentimentAdvice[s][strategyID]
	if !ok {
		rec = "Maintain current strategy with appropriate risk management."
	}
	if btc, ok := findSymbol(assets, "BTC"); ok {
		rec += fmt.Sprintf(" Bitcoin at $%s remains key market driver.", thousands(btc.CurrentPrice))
	}
	return rec
}

func findSymbol(assets []model.Asset, symbol string) (model.Asset, bool) {
	for _, a := range assets {
		if strings.EqualFold(a.Symbol, symbol) {
			return a, true
		}
	}
	return model.Asset{}, false
}

// thousands formats v with comma separators and at most two decimals.
func thousands(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	intPart, frac, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if frac = strings.TrimRight(frac, "0"); frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}
