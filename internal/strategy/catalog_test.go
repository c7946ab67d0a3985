package strategy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoAdvisor/internal/model"
)

func TestDefaultCatalog_Order(t *testing.T) {
	var ids []string
	for _, p := range Default().List() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{
		"wealth-building", "passive-income", "inflation-hedge", "day-trading", "swing-trading",
		"long-term-hodl", "defi-yield-farming", "low-risk-stable", "high-risk-high-reward",
	}, ids)
}

func TestDefaultCatalog_WeightsNearOne(t *testing.T) {
	for _, p := range Default().List() {
		assert.InDelta(t, 1.0, p.Weights.Sum(), 1e-9, p.ID)
	}
}

func TestDefaultCatalog_Validate(t *testing.T) {
	require.NoError(t, Default().Validate())

	bad := NewCatalog(Profile{ID: "broken", TargetMultiplier: 0.9, StopMultiplier: 1.2})
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target multiplier")
	assert.Contains(t, err.Error(), "stop multiplier")
}

func TestCatalog_Get(t *testing.T) {
	c := Default()
	tests := []struct {
		id     string
		expect string
	}{
		{"wealth-building", "wealth-building"},
		{"day_trading", "day-trading"},
		{"low_risk_stable", "low-risk-stable"},
		{"long_term_hold", "long-term-hodl"},
		{"defi_yield", "defi-yield-farming"},
		{"high_risk_reward", "high-risk-high-reward"},
		{" Swing-Trading ", "swing-trading"},
	}
	for _, tt := range tests {
		p, err := c.Get(tt.id)
		require.NoError(t, err, tt.id)
		assert.Equal(t, tt.expect, p.ID)
	}

	_, err := c.Get("moonshot")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestCatalog_ListIsCopy(t *testing.T) {
	c := Default()
	list := c.List()
	list[0].ID = "mutated"
	p, err := c.Get("wealth-building")
	require.NoError(t, err)
	assert.Equal(t, "wealth-building", p.ID)
}

func TestNewCatalog_DuplicateReplaces(t *testing.T) {
	c := NewCatalog(Profile{ID: "x", Name: "first"}, Profile{ID: "y"}, Profile{ID: "x", Name: "second"})
	list := c.List()
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Name)
}

func TestEligibility(t *testing.T) {
	tests := []struct {
		name   string
		e      Eligibility
		snap   model.MarketSnapshot
		expect bool
	}{
		{"all assets", Eligibility{}, model.MarketSnapshot{}, true},
		{"above cap", AboveMarketCap(1e9), model.MarketSnapshot{MarketCap: 2e9}, true},
		{"cap threshold is strict", AboveMarketCap(1e9), model.MarketSnapshot{MarketCap: 1e9}, false},
		{"volume ratio met", VolumeRatioAtLeast(0.05), model.MarketSnapshot{MarketCap: 100, Volume24h: 5}, true},
		{"volume ratio missed", VolumeRatioAtLeast(0.05), model.MarketSnapshot{MarketCap: 100, Volume24h: 4}, false},
		{"volume ratio with zero cap", VolumeRatioAtLeast(0.05), model.MarketSnapshot{Volume24h: 4}, false},
		{"range lower bound inclusive", MarketCapBetween(1e7, 1e9), model.MarketSnapshot{MarketCap: 1e7}, true},
		{"range upper bound exclusive", MarketCapBetween(1e7, 1e9), model.MarketSnapshot{MarketCap: 1e9}, false},
		{"symbol listed", SymbolIn("uni", "AAVE"), model.MarketSnapshot{Symbol: "Uni"}, true},
		{"symbol not listed", SymbolIn("UNI"), model.MarketSnapshot{Symbol: "BTC"}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expect, tt.e.Eligible(tt.snap), tt.name)
	}
}

func TestEligibility_String(t *testing.T) {
	assert.Equal(t, "market cap above $10B", AboveMarketCap(10e9).String())
	assert.Equal(t, "24h volume at least 5% of market cap", VolumeRatioAtLeast(0.05).String())
	assert.Equal(t, "market cap between $10M and $1B", MarketCapBetween(10e6, 1e9).String())
	assert.Equal(t, "symbol in UNI, AAVE", SymbolIn("uni", "aave").String())
	assert.Equal(t, "all assets", Eligibility{}.String())
}

func TestProfile_JSON(t *testing.T) {
	p, err := Default().Get("day-trading")
	require.NoError(t, err)
	b, err := json.Marshal(p)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "Very High", out["riskLevel"])
	assert.Equal(t, "trade", out["style"])
	elig, ok := out["eligibility"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "min_volume_ratio", elig["kind"])
}
