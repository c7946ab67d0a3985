package collector

import (
	"context"

	"CryptoAdvisor/internal/model"
)

// Fetcher defines the interface for fetching market snapshots.
type Fetcher interface {
	FetchMarkets(ctx context.Context, limit int) ([]model.MarketSnapshot, error)
	Name() string
}
