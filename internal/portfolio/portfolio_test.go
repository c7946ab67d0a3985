package portfolio

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoAdvisor/internal/model"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func nd(v string) decimal.NullDecimal { return decimal.NewNullDecimal(d(v)) }

func demoInvestments(t *testing.T) []Investment {
	t.Helper()
	s := NewDemoStore("mock-user-1")
	invs, err := s.ListInvestments(context.Background(), "demo-portfolio")
	require.NoError(t, err)
	require.Len(t, invs, 3)
	return invs
}

func TestComputeMetrics_Demo(t *testing.T) {
	m := ComputeMetrics(demoInvestments(t))

	// 0.5*43250 + 2*2650 + 10*108
	assert.True(t, d("28005").Equal(m.TotalValue), m.TotalValue.String())
	// 0.5*40000 + 2*2500 + 10*95
	assert.True(t, d("25950").Equal(m.TotalCost), m.TotalCost.String())
	assert.True(t, d("2055").Equal(m.TotalPnL), m.TotalPnL.String())
	assert.Equal(t, "7.92", m.TotalPnLPercent.StringFixed(2))
	require.NotNil(t, m.BestPerformer)
	require.NotNil(t, m.WorstPerformer)
	assert.Equal(t, "SOL", m.BestPerformer.Symbol)
	assert.Equal(t, "ETH", m.WorstPerformer.Symbol)
	assert.Equal(t, 30.0, m.DiversificationPct)
}

func TestComputeMetrics_Empty(t *testing.T) {
	m := ComputeMetrics(nil)
	assert.True(t, m.TotalPnLPercent.IsZero())
	assert.Nil(t, m.BestPerformer)
	assert.Equal(t, 0.0, m.DiversificationPct)
}

func TestComputeMetrics_DiversificationCapped(t *testing.T) {
	var invs []Investment
	for _, sym := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"} {
		invs = append(invs, Investment{Symbol: sym, Amount: d("1"), BuyPrice: d("1"), CurrentPrice: d("1")})
	}
	assert.Equal(t, 100.0, ComputeMetrics(invs).DiversificationPct)
}

func TestInvestment_Status(t *testing.T) {
	tests := []struct {
		name   string
		inv    Investment
		expect PositionStatus
	}{
		{"active", Investment{CurrentPrice: d("100"), TargetPrice: nd("150"), StopLoss: nd("80")}, StatusActive},
		{"target reached at equality", Investment{CurrentPrice: d("150"), TargetPrice: nd("150"), StopLoss: nd("80")}, StatusTargetReached},
		{"stop hit", Investment{CurrentPrice: d("79"), TargetPrice: nd("150"), StopLoss: nd("80")}, StatusStopLossHit},
		{"no levels", Investment{CurrentPrice: d("1")}, StatusActive},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expect, tt.inv.Status(), tt.name)
	}
}

func TestInvestment_Validate(t *testing.T) {
	inv := Investment{PortfolioID: "p", Symbol: " sol ", Name: "Solana", Amount: d("1"), BuyPrice: d("95")}
	require.NoError(t, inv.Validate())
	assert.Equal(t, "SOL", inv.Symbol)
	assert.True(t, inv.CurrentPrice.Equal(d("95")))

	missing := Investment{PortfolioID: "p", Symbol: "SOL", Amount: d("1"), BuyPrice: d("95")}
	assert.ErrorIs(t, missing.Validate(), ErrInvalidInvestment)

	negative := Investment{PortfolioID: "p", Symbol: "SOL", Name: "Solana", Amount: d("-1"), BuyPrice: d("95")}
	assert.ErrorIs(t, negative.Validate(), ErrInvalidInvestment)
}

func TestReprice(t *testing.T) {
	invs := demoInvestments(t)
	snaps := []model.MarketSnapshot{
		{Symbol: "btc", CurrentPrice: 50000},
		{Symbol: "ETH", CurrentPrice: 0},
	}
	out := Reprice(invs, snaps)
	bySym := map[string]Investment{}
	for _, inv := range out {
		bySym[inv.Symbol] = inv
	}
	assert.True(t, bySym["BTC"].CurrentPrice.Equal(d("50000")))
	assert.Equal(t, StatusTargetReached, bySym["BTC"].Status())
	assert.True(t, bySym["ETH"].CurrentPrice.Equal(d("2650")))
	assert.True(t, invs[0].CurrentPrice.Equal(d("43250")), "input must be untouched")
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.CreatePortfolio(ctx, Portfolio{UserID: "u1"})
	assert.ErrorIs(t, err, ErrInvalidPortfolio)

	p, err := s.CreatePortfolio(ctx, Portfolio{UserID: "u1", Name: "Main"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	list, err := s.ListPortfolios(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = s.ListPortfolios(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = s.AddInvestment(ctx, Investment{PortfolioID: "missing", Symbol: "BTC", Name: "Bitcoin", Amount: d("1"), BuyPrice: d("1")})
	assert.ErrorIs(t, err, ErrNotFound)

	inv, err := s.AddInvestment(ctx, Investment{PortfolioID: p.ID, Symbol: "btc", Name: "Bitcoin", Amount: d("1"), BuyPrice: d("40000")})
	require.NoError(t, err)
	assert.Equal(t, "BTC", inv.Symbol)

	invs, err := s.ListInvestments(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, invs, 1)

	require.NoError(t, s.DeleteInvestment(ctx, inv.ID))
	assert.ErrorIs(t, s.DeleteInvestment(ctx, inv.ID), ErrNotFound)

	_, err = s.ListInvestments(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPositions_NewestFirst(t *testing.T) {
	pos := Positions(demoInvestments(t))
	require.Len(t, pos, 3)
	assert.Equal(t, "SOL", pos[0].Symbol)
	assert.True(t, d("130").Equal(pos[0].PnL), pos[0].PnL.String())
}
