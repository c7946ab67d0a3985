package calculator

import (
	"math"

	"CryptoAdvisor/internal/model"
)

// VolatilityScore weighs the absolute 24h move twice as heavily as the 7d move and caps the result at 100.
func VolatilityScore(s model.MarketSnapshot) float64 {
	move24h := math.Abs(s.PriceChange24h)
	move7d := math.Abs(s.PriceChange7d)
	return math.Min(100, (move24h*2+move7d)/3)
}
