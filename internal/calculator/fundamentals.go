package calculator

import (
	"math"

	"CryptoAdvisor/internal/model"
)

// FundamentalsScore sums four independent sub-scores: market-cap tier, relative volume,
// supply cap presence and drawdown from the all-time high. The total is not clamped.
func FundamentalsScore(s model.MarketSnapshot) float64 {
	return capSubScore(s.MarketCap) + volumeSubScore(s) + supplySubScore(s) + athSubScore(s.ATHChangePct)
}

func capSubScore(cap float64) float64 {
	switch {
	case cap > 1e9:
		return 30
	case cap > 1e8:
		return 20
	default:
		return 10
	}
}

// volumeSubScore rewards assets whose 24h volume exceeds 10% of market cap.
// A zero or negative cap falls into the low branch.
func volumeSubScore(s model.MarketSnapshot) float64 {
	if s.MarketCap <= 0 {
		return 15
	}
	if s.Volume24h > s.MarketCap*0.1 {
		return 25
	}
	return 15
}

func supplySubScore(s model.MarketSnapshot) float64 {
	if s.HasMaxSupply() {
		return 25
	}
	return 15
}

// athSubScore is 20 at the all-time high and falls by one point per 5% of drawdown.
func athSubScore(athChangePct float64) float64 {
	return math.Max(0, 20+athChangePct/5)
}

// MarketCapTier maps market capitalization onto the step scale the composite score uses.
func MarketCapTier(cap float64) float64 {
	switch {
	case cap > 100e9:
		return 100
	case cap > 10e9:
		return 85
	case cap > 1e9:
		return 70
	case cap > 100e6:
		return 50
	default:
		return 30
	}
}
