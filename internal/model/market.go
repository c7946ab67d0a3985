package model

import "time"

// MarketSnapshot is a single point-in-time market record for one asset.
type MarketSnapshot struct {
	ID                string   `json:"id"`
	Symbol            string   `json:"symbol"`
	Name              string   `json:"name"`
	CurrentPrice      float64  `json:"current_price"`
	PriceChange24h    float64  `json:"price_change_percentage_24h"`
	PriceChange7d     float64  `json:"price_change_percentage_7d"`
	PriceChange30d    float64  `json:"price_change_percentage_30d"`
	MarketCap         float64  `json:"market_cap"`
	Volume24h         float64  `json:"volume_24h"`
	CirculatingSupply float64  `json:"circulating_supply"`
	TotalSupply       float64  `json:"total_supply"`
	MaxSupply         *float64 `json:"max_supply"` // nil means uncapped
	ATH               float64  `json:"ath"`
	ATHChangePct      float64  `json:"ath_change_percentage"`
}

// HasMaxSupply reports whether the asset has a defined supply cap.
func (s MarketSnapshot) HasMaxSupply() bool {
	return s.MaxSupply != nil && *s.MaxSupply > 0
}

// MarketBatch is the result of one collection run.
type MarketBatch struct {
	Snapshots []MarketSnapshot `json:"snapshots"`
	Source    string           `json:"source"`
	FetchedAt time.Time        `json:"fetched_at"`
}

// Source values for MarketBatch.
const (
	SourceLive     = "coingecko"
	SourceCache    = "cache"
	SourceFallback = "fallback"
	SourceRequest  = "request"
)
