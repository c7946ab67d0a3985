package strategy

import (
	"CryptoAdvisor/internal/calculator"
	"CryptoAdvisor/internal/model"
)

// Factor names as they appear in the score breakdown.
const (
	FactorTechnical   = "technical"
	FactorFundamental = "fundamental"
	FactorMomentum    = "momentum"
	FactorVolatility  = "volatility_inverse"
	FactorMarketCap   = "market_cap_tier"
)

func factor(name string, raw, weight float64) model.FactorScore {
	return model.FactorScore{
		Name:     name,
		RawScore: raw,
		Weight:   weight,
		Weighted: raw * weight,
	}
}

// scoreFactors builds the five weighted terms of the composite score.
// Volatility enters inverted so calmer assets score higher under a positive weight.
func scoreFactors(a model.Asset, w Weights) []model.FactorScore {
	return []model.FactorScore{
		factor(FactorTechnical, a.Trend, w.Technical),
		factor(FactorFundamental, a.Fundamentals, w.Fundamental),
		factor(FactorMomentum, calculator.Momentum(a.MarketSnapshot), w.Momentum),
		factor(FactorVolatility, 100-a.Volatility, w.Volatility),
		factor(FactorMarketCap, calculator.MarketCapTier(a.MarketCap), w.MarketCap),
	}
}

// compositeScore sums the weighted factors and clamps the total to [0,100].
func compositeScore(factors []model.FactorScore) float64 {
	var total float64
	for _, f := range factors {
		total += f.Weighted
	}
	return calculator.Clamp(total, 0, 100)
}
