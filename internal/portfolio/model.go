// Package portfolio tracks user holdings and values them against market snapshots.
package portfolio

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"CryptoAdvisor/internal/model"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInvestment = errors.New("invalid investment")
	ErrInvalidPortfolio  = errors.New("invalid portfolio")
)

// Portfolio groups a user's investments.
type Portfolio struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Investment is one position. Target and stop are optional.
type Investment struct {
	ID           string              `db:"id" json:"id"`
	PortfolioID  string              `db:"portfolio_id" json:"portfolio_id"`
	Symbol       string              `db:"cryptocurrency_symbol" json:"cryptocurrency_symbol"`
	Name         string              `db:"cryptocurrency_name" json:"cryptocurrency_name"`
	Amount       decimal.Decimal     `db:"amount" json:"amount"`
	BuyPrice     decimal.Decimal     `db:"buy_price" json:"buy_price"`
	CurrentPrice decimal.Decimal     `db:"current_price" json:"current_price"`
	TargetPrice  decimal.NullDecimal `db:"target_price" json:"target_price"`
	StopLoss     decimal.NullDecimal `db:"stop_loss" json:"stop_loss"`
	Notes        string              `db:"notes" json:"notes"`
	CreatedAt    time.Time           `db:"created_at" json:"created_at"`
}

// Validate checks required fields and normalizes the symbol.
// A missing current price defaults to the buy price.
func (inv *Investment) Validate() error {
	inv.Symbol = strings.ToUpper(strings.TrimSpace(inv.Symbol))
	inv.Name = strings.TrimSpace(inv.Name)
	if inv.PortfolioID == "" || inv.Symbol == "" || inv.Name == "" {
		return fmt.Errorf("%w: portfolio, symbol and name are required", ErrInvalidInvestment)
	}
	if !inv.Amount.IsPositive() || !inv.BuyPrice.IsPositive() {
		return fmt.Errorf("%w: amount and buy price must be positive", ErrInvalidInvestment)
	}
	if inv.CurrentPrice.IsZero() {
		inv.CurrentPrice = inv.BuyPrice
	}
	return nil
}

// Cost is amount * buy price.
func (inv Investment) Cost() decimal.Decimal { return inv.Amount.Mul(inv.BuyPrice) }

// Value is amount * current price.
func (inv Investment) Value() decimal.Decimal { return inv.Amount.Mul(inv.CurrentPrice) }

// PnL is value minus cost.
func (inv Investment) PnL() decimal.Decimal { return inv.Value().Sub(inv.Cost()) }

// PnLPercent is the return on cost in percent.
func (inv Investment) PnLPercent() decimal.Decimal {
	cost := inv.Cost()
	if cost.IsZero() {
		return decimal.Zero
	}
	return inv.PnL().Div(cost).Mul(decimal.NewFromInt(100))
}

// PositionStatus classifies a position against its target and stop.
type PositionStatus string

const (
	StatusActive        PositionStatus = "Active"
	StatusTargetReached PositionStatus = "Target Reached"
	StatusStopLossHit   PositionStatus = "Stop Loss Hit"
)

// Status reports whether the target or stop has been crossed.
func (inv Investment) Status() PositionStatus {
	if inv.TargetPrice.Valid && inv.CurrentPrice.GreaterThanOrEqual(inv.TargetPrice.Decimal) {
		return StatusTargetReached
	}
	if inv.StopLoss.Valid && inv.CurrentPrice.LessThanOrEqual(inv.StopLoss.Decimal) {
		return StatusStopLossHit
	}
	return StatusActive
}

// Position is an investment with its derived figures, as served to clients.
type Position struct {
	Investment
	Value      decimal.Decimal `json:"value"`
	PnL        decimal.Decimal `json:"pnl"`
	PnLPercent decimal.Decimal `json:"pnl_percent"`
	Status     PositionStatus  `json:"status"`
}

func NewPosition(inv Investment) Position {
	return Position{
		Investment: inv,
		Value:      inv.Value(),
		PnL:        inv.PnL(),
		PnLPercent: inv.PnLPercent(),
		Status:     inv.Status(),
	}
}

// Metrics summarizes a set of investments.
type Metrics struct {
	TotalValue         decimal.Decimal `json:"total_value"`
	TotalCost          decimal.Decimal `json:"total_cost"`
	TotalPnL           decimal.Decimal `json:"total_pnl"`
	TotalPnLPercent    decimal.Decimal `json:"total_pnl_percent"`
	BestPerformer      *Position       `json:"best_performer"`
	WorstPerformer     *Position       `json:"worst_performer"`
	DiversificationPct float64         `json:"diversification_score"`
}

// ComputeMetrics aggregates totals, extremes and a diversification score
// that reaches 100 at ten distinct coins.
func ComputeMetrics(invs []Investment) Metrics {
	m := Metrics{TotalValue: decimal.Zero, TotalCost: decimal.Zero}
	unique := map[string]struct{}{}
	for _, inv := range invs {
		m.TotalValue = m.TotalValue.Add(inv.Value())
		m.TotalCost = m.TotalCost.Add(inv.Cost())
		unique[inv.Symbol] = struct{}{}

		p := NewPosition(inv)
		if m.BestPerformer == nil || p.PnLPercent.GreaterThan(m.BestPerformer.PnLPercent) {
			best := p
			m.BestPerformer = &best
		}
		if m.WorstPerformer == nil || p.PnLPercent.LessThan(m.WorstPerformer.PnLPercent) {
			worst := p
			m.WorstPerformer = &worst
		}
	}
	m.TotalPnL = m.TotalValue.Sub(m.TotalCost)
	m.TotalPnLPercent = decimal.Zero
	if m.TotalCost.IsPositive() {
		m.TotalPnLPercent = m.TotalPnL.Div(m.TotalCost).Mul(decimal.NewFromInt(100))
	}
	m.DiversificationPct = float64(len(unique)) / 10 * 100
	if m.DiversificationPct > 100 {
		m.DiversificationPct = 100
	}
	return m
}

// Reprice returns copies of invs with current prices taken from snapshots by symbol.
// Investments without a matching snapshot keep their stored price.
func Reprice(invs []Investment, snaps []model.MarketSnapshot) []Investment {
	prices := make(map[string]float64, len(snaps))
	for _, s := range snaps {
		if s.CurrentPrice > 0 {
			prices[strings.ToUpper(s.Symbol)] = s.CurrentPrice
		}
	}
	out := make([]Investment, len(invs))
	for i, inv := range invs {
		if p, ok := prices[inv.Symbol]; ok {
			inv.CurrentPrice = decimal.NewFromFloat(p)
		}
		out[i] = inv
	}
	return out
}

// Positions converts investments for display, newest first.
func Positions(invs []Investment) []Position {
	out := make([]Position, len(invs))
	for i, inv := range invs {
		out[i] = NewPosition(inv)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
