package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/vmihailenco/msgpack/v5"

	"CryptoAdvisor/internal/model"
)

// ErrCacheMiss is returned when no unexpired batch is stored.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores the most recent market batch.
type Cache interface {
	Get(ctx context.Context) (model.MarketBatch, error)
	Set(ctx context.Context, batch model.MarketBatch) error
}

const defaultCacheKey = "advisor:markets:latest"

// RedisCache keeps the batch msgpack-encoded under a single key.
type RedisCache struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewRedisCache wraps an existing client. An empty key uses the default.
func NewRedisCache(rdb *redis.Client, key string, ttl time.Duration) *RedisCache {
	if key == "" {
		key = defaultCacheKey
	}
	return &RedisCache{rdb: rdb, key: key, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context) (model.MarketBatch, error) {
	var batch model.MarketBatch
	b, err := c.rdb.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return batch, ErrCacheMiss
	}
	if err != nil {
		return batch, fmt.Errorf("redis get %s: %w", c.key, err)
	}
	if err := msgpack.Unmarshal(b, &batch); err != nil {
		return batch, fmt.Errorf("decode cached batch: %w", err)
	}
	return batch, nil
}

func (c *RedisCache) Set(ctx context.Context, batch model.MarketBatch) error {
	b, err := msgpack.Marshal(batch)
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", c.key, err)
	}
	return nil
}

// MemoryCache is the in-process Cache used when Redis is not configured.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	batch   model.MarketBatch
	expires time.Time
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context) (model.MarketBatch, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.batch.Snapshots == nil || (c.ttl > 0 && c.now().After(c.expires)) {
		return model.MarketBatch{}, ErrCacheMiss
	}
	return copyBatch(c.batch), nil
}

func (c *MemoryCache) Set(_ context.Context, batch model.MarketBatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batch = copyBatch(batch)
	c.expires = c.now().Add(c.ttl)
	return nil
}

func copyBatch(b model.MarketBatch) model.MarketBatch {
	out := b
	out.Snapshots = append([]model.MarketSnapshot(nil), b.Snapshots...)
	return out
}
