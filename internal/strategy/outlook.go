package strategy

import (
	"CryptoAdvisor/internal/calculator"
	"CryptoAdvisor/internal/model"
)

// Expected return bounds, in percent.
const (
	minExpectedReturn = -30
	maxExpectedReturn = 500
)

// riskTiers maps adjusted volatility to a risk tier, highest first.
var riskTiers = []struct {
	Above float64
	Tier  model.RiskTier
}{
	{60, model.RiskHigh},
	{30, model.RiskMedium},
}

// mapRisk buckets a volatility score shifted by the strategy's adjustment.
func mapRisk(volatility, adjustment float64) model.RiskTier {
	adjusted := volatility + adjustment
	for _, t := range riskTiers {
		if adjusted > t.Above {
			return t.Tier
		}
	}
	return model.RiskLow
}

// expectedReturn projects a percentage return over days from the trend score.
// Positive weekly momentum lifts the projection by 20%, otherwise it is cut by 20%.
func expectedReturn(a model.Asset, p Profile, days int) float64 {
	momentum := 0.8
	if a.PriceChange7d > 0 {
		momentum = 1.2
	}
	r := a.Trend / 10 * momentum * p.ReturnMultiplier * float64(days) / 30
	return calculator.Clamp(r, minExpectedReturn, maxExpectedReturn)
}

// priceLevels returns the target and stop-loss prices for the profile.
func priceLevels(price float64, p Profile) (target, stop float64) {
	return price * p.TargetMultiplier, price * p.StopMultiplier
}
