package recorder

import "context"

// NoopRecorder is used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ context.Context, _ *Run) error { return nil }

func (n *NoopRecorder) ListRuns(_ context.Context, _ string, _ int) ([]Run, error) {
	return []Run{}, nil
}

func (n *NoopRecorder) Close() error { return nil }
