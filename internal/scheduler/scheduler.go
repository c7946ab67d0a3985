package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"CryptoAdvisor/internal/metrics"
	"CryptoAdvisor/internal/model"
	"CryptoAdvisor/internal/publisher"
	"CryptoAdvisor/internal/recorder"
	"CryptoAdvisor/internal/strategy"
)

// MarketSource is the part of the collector the scheduler drives.
type MarketSource interface {
	Collect(ctx context.Context) model.MarketBatch
	Refresh(ctx context.Context) (model.MarketBatch, error)
}

// Scheduler runs periodic market refreshes and ranking snapshots.
type Scheduler struct {
	cron      *cron.Cron
	source    MarketSource
	engine    *strategy.Engine
	recorder  recorder.Recorder
	publisher publisher.Publisher
	metrics   *metrics.Registry
	log       zerolog.Logger
	ctx       context.Context
	now       func() time.Time
}

// NewScheduler creates a new Scheduler. Nil recorder and publisher become no-ops.
func NewScheduler(ctx context.Context, src MarketSource, engine *strategy.Engine, rec recorder.Recorder,
	pub publisher.Publisher, m *metrics.Registry, log zerolog.Logger) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if pub == nil {
		pub = publisher.NoopPublisher{}
	}
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		source:    src,
		engine:    engine,
		recorder:  rec,
		publisher: pub,
		metrics:   m,
		log:       log.With().Str("component", "scheduler").Logger(),
		ctx:       ctx,
		now:       time.Now,
	}
}

// RegisterAll registers the refresh and snapshot tasks.
func (s *Scheduler) RegisterAll(refreshCron, snapshotCron string) error {
	if _, err := s.cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if _, err := s.cron.AddFunc(snapshotCron, func() { s.RunSnapshotNow() }); err != nil {
		return fmt.Errorf("register snapshot task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler started")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) refreshTask() {
	if _, err := s.source.Refresh(s.ctx); err != nil {
		s.log.Warn().Err(err).Msg("scheduled refresh failed")
	}
}

// SnapshotResult summarizes one snapshot pass.
type SnapshotResult struct {
	Source     string
	Strategies int
	Recorded   int
	Published  int
}

// RunSnapshotNow ranks the current batch under every strategy, then records
// and publishes each ranking. Side-effect failures are logged, not returned.
func (s *Scheduler) RunSnapshotNow() SnapshotResult {
	batch := s.source.Collect(s.ctx)
	res := SnapshotResult{Source: batch.Source}

	for _, p := range s.engine.Catalog().List() {
		start := time.Now()
		recs := strategy.RankProfile(batch.Snapshots, p)
		s.metrics.ObserveRank(p.ID, len(recs), time.Since(start))
		res.Strategies++

		at := s.now().UTC()
		run := &recorder.Run{Strategy: p.ID, Source: batch.Source, CreatedAt: at, Recommendations: recs}
		if err := s.recorder.RecordRun(s.ctx, run); err != nil {
			s.log.Error().Err(err).Str("strategy", p.ID).Msg("record ranking")
		} else {
			res.Recorded++
		}

		evt := publisher.NewRankingEvent(p.ID, batch.Source, recs, at)
		if err := s.publisher.PublishRanking(s.ctx, evt); err != nil {
			s.log.Error().Err(err).Str("strategy", p.ID).Msg("publish ranking")
		} else {
			res.Published++
		}
	}

	s.log.Info().
		Str("source", res.Source).
		Int("strategies", res.Strategies).
		Int("recorded", res.Recorded).
		Int("published", res.Published).
		Msg("ranking snapshot complete")
	return res
}
