package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoAdvisor/internal/collector"
	"CryptoAdvisor/internal/model"
	"CryptoAdvisor/internal/publisher"
	"CryptoAdvisor/internal/recorder"
	"CryptoAdvisor/internal/strategy"
)

type fakeSource struct {
	batch      model.MarketBatch
	refreshErr error
	refreshes  int
}

func (f *fakeSource) Collect(context.Context) model.MarketBatch { return f.batch }

func (f *fakeSource) Refresh(context.Context) (model.MarketBatch, error) {
	f.refreshes++
	return f.batch, f.refreshErr
}

type memRecorder struct {
	mu   sync.Mutex
	runs []recorder.Run
	err  error
}

func (m *memRecorder) RecordRun(_ context.Context, run *recorder.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.runs = append(m.runs, *run)
	return nil
}

func (m *memRecorder) ListRuns(context.Context, string, int) ([]recorder.Run, error) {
	return m.runs, nil
}

func (m *memRecorder) Close() error { return nil }

type memPublisher struct {
	events []publisher.RankingEvent
	err    error
}

func (m *memPublisher) PublishRanking(_ context.Context, evt publisher.RankingEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, evt)
	return nil
}

func (m *memPublisher) Close() error { return nil }

func newFixture() (*fakeSource, *memRecorder, *memPublisher, *Scheduler) {
	src := &fakeSource{batch: model.MarketBatch{Snapshots: collector.FallbackSnapshots(), Source: model.SourceFallback}}
	rec := &memRecorder{}
	pub := &memPublisher{}
	s := NewScheduler(context.Background(), src, strategy.NewEngine(nil), rec, pub, nil, zerolog.Nop())
	return src, rec, pub, s
}

func TestRunSnapshotNow_AllStrategies(t *testing.T) {
	_, rec, pub, s := newFixture()
	n := len(strategy.Default().List())

	res := s.RunSnapshotNow()
	assert.Equal(t, model.SourceFallback, res.Source)
	assert.Equal(t, n, res.Strategies)
	assert.Equal(t, n, res.Recorded)
	assert.Equal(t, n, res.Published)

	require.Len(t, rec.runs, n)
	assert.Equal(t, "wealth-building", rec.runs[0].Strategy)
	assert.Contains(t, []string{"BTC", "ETH"}, rec.runs[0].TopSymbol())
	require.Len(t, pub.events, n)
	assert.Equal(t, rec.runs[0].CreatedAt, pub.events[0].Timestamp)
}

func TestRunSnapshotNow_SideEffectFailures(t *testing.T) {
	_, rec, pub, s := newFixture()
	rec.err = errors.New("disk full")
	pub.err = errors.New("broker down")

	res := s.RunSnapshotNow()
	assert.Equal(t, 0, res.Recorded)
	assert.Equal(t, 0, res.Published)
	assert.Positive(t, res.Strategies)
}

func TestRefreshTask(t *testing.T) {
	src, _, _, s := newFixture()
	src.refreshErr = errors.New("upstream")
	s.refreshTask()
	assert.Equal(t, 1, src.refreshes)
}

func TestRegisterAll(t *testing.T) {
	_, _, _, s := newFixture()
	require.NoError(t, s.RegisterAll("0 */5 * * * *", "0 0 * * * *"))
	assert.Len(t, s.cron.Entries(), 2)

	_, _, _, bad := newFixture()
	assert.Error(t, bad.RegisterAll("not a cron", "0 0 * * * *"))
}

func TestNilSideEffects(t *testing.T) {
	src := &fakeSource{batch: model.MarketBatch{Snapshots: collector.FallbackSnapshots(), Source: model.SourceFallback}}
	s := NewScheduler(context.Background(), src, strategy.NewEngine(nil), nil, nil, nil, zerolog.Nop())
	res := s.RunSnapshotNow()
	assert.Equal(t, res.Strategies, res.Recorded)
	s.Start()
	s.Stop()
}
