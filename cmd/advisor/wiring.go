package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"CryptoAdvisor/internal/collector"
	"CryptoAdvisor/internal/config"
	"CryptoAdvisor/internal/logger"
	"CryptoAdvisor/internal/metrics"
	"CryptoAdvisor/internal/narrative"
	"CryptoAdvisor/internal/portfolio"
	"CryptoAdvisor/internal/publisher"
	"CryptoAdvisor/internal/recorder"
)

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	log := logger.NewWithWriter(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty}, w)
	logger.SetGlobalLogger(log)
	return log
}

// newCollector wires the CoinGecko fetcher behind Redis or an in-process cache.
// offline skips the network and serves the fallback dataset.
func newCollector(ctx context.Context, cfg *config.Config, m *metrics.Registry, log zerolog.Logger, offline bool) *collector.Collector {
	if offline {
		return collector.NewCollector(nil, nil, m, log)
	}
	fetcher := collector.NewCoinGeckoFetcher(collector.CoinGeckoOptions{
		BaseURL:    cfg.DataSource.BaseURL,
		APIKey:     cfg.DataSource.APIKey,
		ProxyURL:   cfg.Proxy,
		Timeout:    cfg.DataSource.Timeout,
		Retries:    cfg.DataSource.Retries,
		RatePerSec: cfg.DataSource.RatePerSec,
	})

	var cache collector.Cache = collector.NewMemoryCache(cfg.Cache.TTL)
	if cfg.Cache.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := rdb.Ping(pctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Cache.RedisAddr).Msg("redis unavailable, using memory cache")
			rdb.Close()
		} else {
			cache = collector.NewRedisCache(rdb, "", cfg.Cache.TTL)
			log.Info().Str("addr", cfg.Cache.RedisAddr).Msg("redis cache enabled")
		}
	}

	col := collector.NewCollector(fetcher, cache, m, log)
	col.Limit = cfg.DataSource.Limit
	col.Timeout = cfg.DataSource.Timeout
	return col
}

// newNarrator prefers the OpenAI model and degrades to rule-based text.
func newNarrator(ctx context.Context, cfg *config.Config, m *metrics.Registry, log zerolog.Logger) narrative.Generator {
	rules := narrative.RuleGenerator{}
	if cfg.LLM.APIKey == "" {
		log.Info().Msg("no OpenAI key configured, narratives are rule-based")
		return rules
	}
	llm, err := narrative.NewOpenAIGenerator(ctx, narrative.LLMConfig{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})
	if err != nil {
		log.Warn().Err(err).Msg("init OpenAI narrative failed, narratives are rule-based")
		return rules
	}
	return &narrative.Fallback{Primary: llm, Secondary: rules, Metrics: m, Log: log}
}

func newRecorder(cfg *config.Config, log zerolog.Logger) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

func newPublisher(cfg *config.Config, log zerolog.Logger) publisher.Publisher {
	if len(cfg.Kafka.Brokers) == 0 {
		return publisher.NoopPublisher{}
	}
	kp, err := publisher.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
	if err != nil {
		log.Warn().Err(err).Msg("init kafka publisher failed, ranking events disabled")
		return publisher.NoopPublisher{}
	}
	log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("kafka publisher enabled")
	return kp
}

// newPortfolioStore uses Postgres when DATABASE_URL is set, otherwise the demo store.
func newPortfolioStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (portfolio.Store, func(), error) {
	if cfg.Database.URL == "" {
		log.Info().Str("user", cfg.DemoUserID).Msg("no database configured, using demo portfolio")
		return portfolio.NewDemoStore(cfg.DemoUserID), func() {}, nil
	}
	db, err := portfolio.OpenPostgres(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	store := portfolio.NewPostgresStore(db, 5*time.Second)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, func() { db.Close() }, nil
}
