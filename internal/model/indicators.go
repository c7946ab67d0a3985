package model

// DerivedIndicators holds the per-asset scores computed from one snapshot.
type DerivedIndicators struct {
	Volatility   float64 `json:"volatility_score"`   // 0 ~ 100
	Trend        float64 `json:"trend_score"`        // 0 ~ 100, 50 is neutral
	Fundamentals float64 `json:"fundamentals_score"` // practically 0 ~ 100, not clamped
}

// Asset is a snapshot with its indicators attached.
type Asset struct {
	MarketSnapshot
	DerivedIndicators
}
