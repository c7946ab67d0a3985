// Package recorder keeps a history of ranking runs.
package recorder

import (
	"context"
	"time"

	"CryptoAdvisor/internal/model"
)

// Run is one ranking pass for one strategy.
type Run struct {
	ID              string                 `json:"id"`
	Strategy        string                 `json:"strategy"`
	Source          string                 `json:"source"`
	CreatedAt       time.Time              `json:"created_at"`
	Recommendations []model.Recommendation `json:"recommendations"`
}

// TopSymbol returns the first-ranked symbol, or "" for an empty run.
func (r Run) TopSymbol() string {
	if len(r.Recommendations) == 0 {
		return ""
	}
	return r.Recommendations[0].Crypto.Symbol
}

// DefaultListLimit applies when ListRuns is called with limit <= 0.
const DefaultListLimit = 20

// Recorder persists ranking runs for later inspection.
type Recorder interface {
	RecordRun(ctx context.Context, run *Run) error
	// ListRuns returns runs newest first. An empty strategy matches all.
	ListRuns(ctx context.Context, strategy string, limit int) ([]Run, error)
	Close() error
}
