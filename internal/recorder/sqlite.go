package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists ranking runs to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so the API can read history while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{
		db:  db,
		log: log.With().Str("component", "recorder").Logger(),
		now: time.Now,
	}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ranking_runs (
			seq             INTEGER PRIMARY KEY AUTOINCREMENT,
			id              TEXT NOT NULL UNIQUE,
			created_at      INTEGER NOT NULL,
			strategy        TEXT NOT NULL,
			source          TEXT NOT NULL,
			asset_count     INTEGER NOT NULL,
			top_symbol      TEXT,
			top_score       REAL,
			recommendations TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_strategy_ts ON ranking_runs(strategy, created_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun assigns an id and timestamp when missing and stores the run.
func (r *SQLiteRecorder) RecordRun(ctx context.Context, run *Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = r.now().UTC()
	}
	payload, err := json.Marshal(run.Recommendations)
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}
	var topScore float64
	if len(run.Recommendations) > 0 {
		topScore = run.Recommendations[0].InvestmentScore
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO ranking_runs
		(id, created_at, strategy, source, asset_count, top_symbol, top_score, recommendations)
		VALUES (?,?,?,?,?,?,?,?)`,
		run.ID, run.CreatedAt.UnixMilli(), run.Strategy, run.Source,
		len(run.Recommendations), run.TopSymbol(), topScore, string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) ListRuns(ctx context.Context, strategy string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, created_at, strategy, source, recommendations
		FROM ranking_runs
		WHERE (? = '' OR strategy = ?)
		ORDER BY created_at DESC, seq DESC
		LIMIT ?`, strategy, strategy, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	out := []Run{}
	for rows.Next() {
		var (
			run     Run
			ts      int64
			payload string
		)
		if err := rows.Scan(&run.ID, &ts, &run.Strategy, &run.Source, &payload); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.CreatedAt = time.UnixMilli(ts).UTC()
		if err := json.Unmarshal([]byte(payload), &run.Recommendations); err != nil {
			return nil, fmt.Errorf("decode run %s: %w", run.ID, err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
