package calculator

import (
	"errors"
	"fmt"
	"math"

	"CryptoAdvisor/internal/model"
)

// ErrMalformedSnapshot marks a record that cannot be scored.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

var posInf = math.Inf(1)

// ComputeIndicators derives the volatility, trend and fundamentals scores of one snapshot.
func ComputeIndicators(s model.MarketSnapshot) model.DerivedIndicators {
	return model.DerivedIndicators{
		Volatility:   VolatilityScore(s),
		Trend:        TrendScore(s),
		Fundamentals: FundamentalsScore(s),
	}
}

// Validate rejects records without an identity or a usable price.
func Validate(s model.MarketSnapshot) error {
	if s.ID == "" && s.Symbol == "" {
		return fmt.Errorf("%w: missing id and symbol", ErrMalformedSnapshot)
	}
	if !isFinite(s.CurrentPrice) || s.CurrentPrice <= 0 {
		return fmt.Errorf("%w: %s has no valid price", ErrMalformedSnapshot, label(s))
	}
	return nil
}

// Sanitize replaces non-finite optional fields with neutral defaults.
func Sanitize(s model.MarketSnapshot) model.MarketSnapshot {
	s.PriceChange24h = finiteOrZero(s.PriceChange24h)
	s.PriceChange7d = finiteOrZero(s.PriceChange7d)
	s.PriceChange30d = finiteOrZero(s.PriceChange30d)
	s.MarketCap = finiteOrZero(s.MarketCap)
	s.Volume24h = finiteOrZero(s.Volume24h)
	s.ATHChangePct = finiteOrZero(s.ATHChangePct)
	if s.MaxSupply != nil && !isFinite(*s.MaxSupply) {
		s.MaxSupply = nil
	}
	return s
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteOrZero(v float64) float64 {
	if isFinite(v) {
		return v
	}
	return 0
}

func label(s model.MarketSnapshot) string {
	if s.Symbol != "" {
		return s.Symbol
	}
	return s.ID
}
