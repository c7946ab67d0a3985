package collector

import (
	"context"

	"CryptoAdvisor/internal/model"
)

func ptr(v float64) *float64 { return &v }

// FallbackSnapshots is the fixed dataset used when no live or cached data is available.
func FallbackSnapshots() []model.MarketSnapshot {
	return []model.MarketSnapshot{
		{
			ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin",
			CurrentPrice:   43250,
			PriceChange24h: 2.5, PriceChange7d: 8.2, PriceChange30d: 15.3,
			MarketCap: 847e9, Volume24h: 28e9,
			CirculatingSupply: 19.6e6, TotalSupply: 19.6e6, MaxSupply: ptr(21e6),
			ATH: 69000, ATHChangePct: -37.3,
		},
		{
			ID: "ethereum", Symbol: "ETH", Name: "Ethereum",
			CurrentPrice:   2650,
			PriceChange24h: 1.8, PriceChange7d: 5.4, PriceChange30d: 12.1,
			MarketCap: 318e9, Volume24h: 15e9,
			CirculatingSupply: 120e6, TotalSupply: 120e6,
			ATH: 4878, ATHChangePct: -45.7,
		},
	}
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Snapshots []model.MarketSnapshot
	Err       error
	Calls     int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchMarkets(_ context.Context, limit int) ([]model.MarketSnapshot, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	snaps := m.Snapshots
	if snaps == nil {
		snaps = FallbackSnapshots()
	}
	if limit > 0 && len(snaps) > limit {
		snaps = snaps[:limit]
	}
	out := make([]model.MarketSnapshot, len(snaps))
	copy(out, snaps)
	return out, nil
}
