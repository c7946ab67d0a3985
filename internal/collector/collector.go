package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"CryptoAdvisor/internal/metrics"
	"CryptoAdvisor/internal/model"
)

// Collector resolves the current market batch from cache, the live fetcher
// or the fallback dataset, in that order.
type Collector struct {
	fetcher Fetcher
	cache   Cache
	metrics *metrics.Registry
	log     zerolog.Logger

	Limit   int
	Timeout time.Duration
	now     func() time.Time
}

// NewCollector creates a new Collector. cache and m may be nil.
func NewCollector(fetcher Fetcher, cache Cache, m *metrics.Registry, log zerolog.Logger) *Collector {
	return &Collector{
		fetcher: fetcher,
		cache:   cache,
		metrics: m,
		log:     log.With().Str("component", "collector").Logger(),
		Limit:   100,
		Timeout: 15 * time.Second,
		now:     time.Now,
	}
}

// Collect never fails: any upstream problem degrades to the fallback dataset.
func (c *Collector) Collect(ctx context.Context) model.MarketBatch {
	if batch, ok := c.cached(ctx); ok {
		c.metrics.ObserveBatch(batch.Source)
		return batch
	}

	batch, err := c.Refresh(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("live fetch failed, using fallback dataset")
		batch = c.Fallback()
	}
	c.metrics.ObserveBatch(batch.Source)
	return batch
}

// Refresh fetches live data, bypassing the cache, and stores the result in it.
func (c *Collector) Refresh(ctx context.Context) (model.MarketBatch, error) {
	if c.fetcher == nil {
		return model.MarketBatch{}, errors.New("no fetcher configured")
	}
	fctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	start := c.now()
	snaps, err := c.fetcher.FetchMarkets(fctx, c.Limit)
	c.metrics.ObserveFetch(c.fetcher.Name(), c.now().Sub(start), err)
	if err != nil {
		return model.MarketBatch{}, fmt.Errorf("fetch markets from %s: %w", c.fetcher.Name(), err)
	}
	if len(snaps) == 0 {
		return model.MarketBatch{}, fmt.Errorf("fetch markets from %s: empty response", c.fetcher.Name())
	}

	batch := model.MarketBatch{Snapshots: snaps, Source: c.fetcher.Name(), FetchedAt: c.now().UTC()}
	if c.cache != nil {
		if err := c.cache.Set(ctx, batch); err != nil {
			c.log.Warn().Err(err).Msg("cache write failed")
		}
	}
	c.log.Info().Int("assets", len(snaps)).Str("source", batch.Source).Msg("market data refreshed")
	return batch, nil
}

// Fallback returns the fixed dataset stamped with the current time.
func (c *Collector) Fallback() model.MarketBatch {
	return model.MarketBatch{
		Snapshots: FallbackSnapshots(),
		Source:    model.SourceFallback,
		FetchedAt: c.now().UTC(),
	}
}

func (c *Collector) cached(ctx context.Context) (model.MarketBatch, bool) {
	if c.cache == nil {
		return model.MarketBatch{}, false
	}
	batch, err := c.cache.Get(ctx)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.log.Warn().Err(err).Msg("cache read failed")
		}
		c.metrics.ObserveCache(false)
		return model.MarketBatch{}, false
	}
	c.metrics.ObserveCache(true)
	batch.Source = model.SourceCache
	return batch, true
}
