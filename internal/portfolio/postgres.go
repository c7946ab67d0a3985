package portfolio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Schema creates the tables PostgresStore expects.
const Schema = `
CREATE TABLE IF NOT EXISTS portfolios (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	user_id     TEXT NOT NULL,
	name        TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS investments (
	id                     TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	portfolio_id           TEXT NOT NULL REFERENCES portfolios(id) ON DELETE CASCADE,
	cryptocurrency_symbol  TEXT NOT NULL,
	cryptocurrency_name    TEXT NOT NULL,
	amount                 NUMERIC NOT NULL,
	buy_price              NUMERIC NOT NULL,
	current_price          NUMERIC NOT NULL,
	target_price           NUMERIC,
	stop_loss              NUMERIC,
	notes                  TEXT NOT NULL DEFAULT '',
	created_at             TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_investments_portfolio ON investments(portfolio_id);`

const investmentColumns = `id, portfolio_id, cryptocurrency_symbol, cryptocurrency_name, amount, buy_price,
	current_price, target_price, stop_loss, notes, created_at`

// PostgresStore implements Store on PostgreSQL.
type PostgresStore struct {
	db      *sqlx.DB
	timeout time.Duration
}

// OpenPostgres connects to dsn and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func NewPostgresStore(db *sqlx.DB, timeout time.Duration) *PostgresStore {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PostgresStore{db: db, timeout: timeout}
}

// Migrate applies Schema.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate portfolio schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListPortfolios(ctx context.Context, userID string) ([]Portfolio, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out := []Portfolio{}
	err := s.db.SelectContext(ctx, &out,
		`SELECT id, user_id, name, created_at FROM portfolios WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list portfolios: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) GetPortfolio(ctx context.Context, id string) (Portfolio, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var p Portfolio
	err := s.db.QueryRowxContext(ctx,
		`SELECT id, user_id, name, created_at FROM portfolios WHERE id = $1`, id).StructScan(&p)
	if errors.Is(err, sql.ErrNoRows) {
		return Portfolio{}, fmt.Errorf("portfolio %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Portfolio{}, fmt.Errorf("get portfolio: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) CreatePortfolio(ctx context.Context, p Portfolio) (Portfolio, error) {
	if p.UserID == "" || p.Name == "" {
		return Portfolio{}, fmt.Errorf("%w: user and name are required", ErrInvalidPortfolio)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO portfolios (user_id, name) VALUES ($1, $2) RETURNING id, created_at`,
		p.UserID, p.Name).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return Portfolio{}, fmt.Errorf("create portfolio: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ListInvestments(ctx context.Context, portfolioID string) ([]Investment, error) {
	if _, err := s.GetPortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out := []Investment{}
	err := s.db.SelectContext(ctx, &out,
		`SELECT `+investmentColumns+` FROM investments WHERE portfolio_id = $1 ORDER BY created_at`, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) AddInvestment(ctx context.Context, inv Investment) (Investment, error) {
	if err := inv.Validate(); err != nil {
		return Investment{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO investments (portfolio_id, cryptocurrency_symbol, cryptocurrency_name, amount,
			buy_price, current_price, target_price, stop_loss, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		inv.PortfolioID, inv.Symbol, inv.Name, inv.Amount,
		inv.BuyPrice, inv.CurrentPrice, inv.TargetPrice, inv.StopLoss, inv.Notes).
		Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return Investment{}, fmt.Errorf("portfolio %s: %w", inv.PortfolioID, ErrNotFound)
		}
		return Investment{}, fmt.Errorf("add investment: %w", err)
	}
	return inv, nil
}

func (s *PostgresStore) DeleteInvestment(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM investments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete investment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete investment: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("investment %s: %w", id, ErrNotFound)
	}
	return nil
}
