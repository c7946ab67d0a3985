package portfolio

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store persists portfolios and investments.
type Store interface {
	ListPortfolios(ctx context.Context, userID string) ([]Portfolio, error)
	GetPortfolio(ctx context.Context, id string) (Portfolio, error)
	CreatePortfolio(ctx context.Context, p Portfolio) (Portfolio, error)
	ListInvestments(ctx context.Context, portfolioID string) ([]Investment, error)
	AddInvestment(ctx context.Context, inv Investment) (Investment, error)
	DeleteInvestment(ctx context.Context, id string) error
}

// MemoryStore is the in-process Store used when no database is configured.
type MemoryStore struct {
	mu          sync.RWMutex
	portfolios  map[string]Portfolio
	investments map[string]Investment
	now         func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		portfolios:  map[string]Portfolio{},
		investments: map[string]Investment{},
		now:         time.Now,
	}
}

// NewDemoStore returns a memory store holding one demo portfolio for userID.
func NewDemoStore(userID string) *MemoryStore {
	s := NewMemoryStore()
	ctx := context.Background()
	p, _ := s.CreatePortfolio(ctx, Portfolio{ID: "demo-portfolio", UserID: userID, Name: "Demo Portfolio"})

	demo := []struct {
		symbol, name                   string
		amount, buy, current, tgt, stp float64
	}{
		{"BTC", "Bitcoin", 0.5, 40000, 43250, 50000, 35000},
		{"ETH", "Ethereum", 2, 2500, 2650, 3200, 2200},
		{"SOL", "Solana", 10, 95, 108, 150, 80},
	}
	for _, d := range demo {
		_, _ = s.AddInvestment(ctx, Investment{
			PortfolioID:  p.ID,
			Symbol:       d.symbol,
			Name:         d.name,
			Amount:       decimal.NewFromFloat(d.amount),
			BuyPrice:     decimal.NewFromFloat(d.buy),
			CurrentPrice: decimal.NewFromFloat(d.current),
			TargetPrice:  decimal.NewNullDecimal(decimal.NewFromFloat(d.tgt)),
			StopLoss:     decimal.NewNullDecimal(decimal.NewFromFloat(d.stp)),
		})
	}
	return s
}

func (s *MemoryStore) ListPortfolios(_ context.Context, userID string) ([]Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Portfolio, 0)
	for _, p := range s.portfolios {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) GetPortfolio(_ context.Context, id string) (Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.portfolios[id]
	if !ok {
		return Portfolio{}, fmt.Errorf("portfolio %s: %w", id, ErrNotFound)
	}
	return p, nil
}

func (s *MemoryStore) CreatePortfolio(_ context.Context, p Portfolio) (Portfolio, error) {
	if p.UserID == "" || p.Name == "" {
		return Portfolio{}, fmt.Errorf("%w: user and name are required", ErrInvalidPortfolio)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = s.now().UTC()
	s.portfolios[p.ID] = p
	return p, nil
}

func (s *MemoryStore) ListInvestments(_ context.Context, portfolioID string) ([]Investment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.portfolios[portfolioID]; !ok {
		return nil, fmt.Errorf("portfolio %s: %w", portfolioID, ErrNotFound)
	}
	out := make([]Investment, 0)
	for _, inv := range s.investments {
		if inv.PortfolioID == portfolioID {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) AddInvestment(_ context.Context, inv Investment) (Investment, error) {
	if err := inv.Validate(); err != nil {
		return Investment{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.portfolios[inv.PortfolioID]; !ok {
		return Investment{}, fmt.Errorf("portfolio %s: %w", inv.PortfolioID, ErrNotFound)
	}
	inv.ID = uuid.NewString()
	// nanosecond offsets keep insertion order stable for equal clocks
	inv.CreatedAt = s.now().UTC().Add(time.Duration(len(s.investments)))
	s.investments[inv.ID] = inv
	return inv, nil
}

func (s *MemoryStore) DeleteInvestment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.investments[id]; !ok {
		return fmt.Errorf("investment %s: %w", id, ErrNotFound)
	}
	delete(s.investments, id)
	return nil
}
