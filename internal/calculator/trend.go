package calculator

import "CryptoAdvisor/internal/model"

// Trend window weights. They sum to 1 so a uniform move of x% shifts the score by x points.
const (
	trendWeight24h = 0.3
	trendWeight7d  = 0.4
	trendWeight30d = 0.3

	trendBaseline = 50.0
)

// TrendScore returns the weighted momentum across the 24h/7d/30d windows, anchored at 50 and clamped to [0, 100].
func TrendScore(s model.MarketSnapshot) float64 {
	weighted := s.PriceChange24h*trendWeight24h + s.PriceChange7d*trendWeight7d + s.PriceChange30d*trendWeight30d
	return Clamp(trendBaseline+weighted, 0, 100)
}

// Momentum is the average medium-term change shifted onto the 50 baseline. Only the lower bound is clamped.
func Momentum(s model.MarketSnapshot) float64 {
	avg := (s.PriceChange7d + s.PriceChange30d) / 2
	return Clamp(trendBaseline+avg, 0, posInf)
}
