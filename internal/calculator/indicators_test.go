package calculator

import (
	"errors"
	"math"
	"testing"

	"CryptoAdvisor/internal/model"
)

func ptr(v float64) *float64 { return &v }

func bitcoin() model.MarketSnapshot {
	return model.MarketSnapshot{
		ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin",
		CurrentPrice:   43250,
		PriceChange24h: 2.5, PriceChange7d: 8.2, PriceChange30d: 15.3,
		MarketCap: 847e9, Volume24h: 28e9,
		CirculatingSupply: 19.6e6, TotalSupply: 19.6e6, MaxSupply: ptr(21e6),
		ATH: 69000, ATHChangePct: -37.3,
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestVolatilityScore(t *testing.T) {
	tests := []struct {
		name   string
		c24h   float64
		c7d    float64
		expect float64
	}{
		{"flat", 0, 0, 0},
		{"positive moves", 3, 6, 4},
		{"negative moves use abs", -3, -6, 4},
		{"capped at 100", 200, 50, 100},
	}
	for _, tt := range tests {
		s := model.MarketSnapshot{PriceChange24h: tt.c24h, PriceChange7d: tt.c7d}
		got := VolatilityScore(s)
		if !approx(got, tt.expect) {
			t.Errorf("%s: expected %.4f, got %.4f", tt.name, tt.expect, got)
		}
		if got < 0 || got > 100 {
			t.Errorf("%s: score %.4f out of range", tt.name, got)
		}
	}
}

func TestTrendScore_NeutralAnchor(t *testing.T) {
	if got := TrendScore(model.MarketSnapshot{}); got != 50 {
		t.Fatalf("flat asset should score exactly 50, got %v", got)
	}
}

func TestTrendScore_Bitcoin(t *testing.T) {
	got := TrendScore(bitcoin())
	if math.Abs(got-58.62) > 1e-9 {
		t.Fatalf("expected 58.62, got %.6f", got)
	}
}

func TestTrendScore_Clamped(t *testing.T) {
	up := model.MarketSnapshot{PriceChange24h: 300, PriceChange7d: 300, PriceChange30d: 300}
	down := model.MarketSnapshot{PriceChange24h: -300, PriceChange7d: -300, PriceChange30d: -300}
	if got := TrendScore(up); got != 100 {
		t.Errorf("expected 100, got %v", got)
	}
	if got := TrendScore(down); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
}

func TestTrendScore_Monotonic(t *testing.T) {
	set := []func(*model.MarketSnapshot, float64){
		func(s *model.MarketSnapshot, v float64) { s.PriceChange24h = v },
		func(s *model.MarketSnapshot, v float64) { s.PriceChange7d = v },
		func(s *model.MarketSnapshot, v float64) { s.PriceChange30d = v },
	}
	for i, apply := range set {
		prev := -1.0
		for v := -40.0; v <= 40; v += 2.5 {
			s := model.MarketSnapshot{PriceChange24h: 1, PriceChange7d: -2, PriceChange30d: 3}
			apply(&s, v)
			got := TrendScore(s)
			if got < prev {
				t.Fatalf("window %d: score decreased from %.4f to %.4f at %.1f", i, prev, got, v)
			}
			prev = got
		}
	}
}

func TestFundamentalsScore_Tiers(t *testing.T) {
	tests := []struct {
		name   string
		snap   model.MarketSnapshot
		expect float64
	}{
		{
			name:   "large cap, high volume, capped supply, at ATH",
			snap:   model.MarketSnapshot{MarketCap: 2e9, Volume24h: 3e8, MaxSupply: ptr(1e6), ATHChangePct: 0},
			expect: 30 + 25 + 25 + 20,
		},
		{
			name:   "mid cap, low volume, uncapped, -50% from ATH",
			snap:   model.MarketSnapshot{MarketCap: 5e8, Volume24h: 1e7, ATHChangePct: -50},
			expect: 20 + 15 + 15 + 10,
		},
		{
			name:   "small cap with deep drawdown",
			snap:   model.MarketSnapshot{MarketCap: 5e7, Volume24h: 1e7, ATHChangePct: -100},
			expect: 10 + 25 + 15 + 0,
		},
		{
			name:   "zero market cap is lowest tier",
			snap:   model.MarketSnapshot{MarketCap: 0, Volume24h: 1e6, ATHChangePct: -100},
			expect: 10 + 15 + 15 + 0,
		},
		{
			name:   "zero max supply counts as absent",
			snap:   model.MarketSnapshot{MarketCap: 0, MaxSupply: ptr(0), ATHChangePct: -100},
			expect: 10 + 15 + 15 + 0,
		},
	}
	for _, tt := range tests {
		if got := FundamentalsScore(tt.snap); !approx(got, tt.expect) {
			t.Errorf("%s: expected %.2f, got %.2f", tt.name, tt.expect, got)
		}
	}
}

func TestFundamentalsScore_NoUpperClamp(t *testing.T) {
	s := model.MarketSnapshot{MarketCap: 2e9, Volume24h: 1e9, MaxSupply: ptr(1), ATHChangePct: 25}
	if got := FundamentalsScore(s); got <= 100 {
		t.Errorf("expected a score above 100 for an asset above its ATH, got %.2f", got)
	}
}

func TestMarketCapTier(t *testing.T) {
	tests := []struct {
		cap    float64
		expect float64
	}{
		{847e9, 100},
		{100e9, 85},
		{20e9, 85},
		{5e9, 70},
		{5e8, 50},
		{1e8, 30},
		{0, 30},
	}
	for _, tt := range tests {
		if got := MarketCapTier(tt.cap); got != tt.expect {
			t.Errorf("cap %.0f: expected %.0f, got %.0f", tt.cap, tt.expect, got)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(bitcoin()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	noPrice := bitcoin()
	noPrice.CurrentPrice = 0
	if err := Validate(noPrice); !errors.Is(err, ErrMalformedSnapshot) {
		t.Errorf("expected ErrMalformedSnapshot for zero price, got %v", err)
	}

	nanPrice := bitcoin()
	nanPrice.CurrentPrice = math.NaN()
	if err := Validate(nanPrice); !errors.Is(err, ErrMalformedSnapshot) {
		t.Errorf("expected ErrMalformedSnapshot for NaN price, got %v", err)
	}

	if err := Validate(model.MarketSnapshot{CurrentPrice: 1}); !errors.Is(err, ErrMalformedSnapshot) {
		t.Errorf("expected ErrMalformedSnapshot for anonymous record, got %v", err)
	}
}

func TestSanitize(t *testing.T) {
	s := bitcoin()
	s.PriceChange7d = math.NaN()
	s.PriceChange30d = math.Inf(1)
	s.MaxSupply = ptr(math.Inf(1))

	got := Sanitize(s)
	if got.PriceChange7d != 0 || got.PriceChange30d != 0 {
		t.Errorf("expected non-finite changes to become 0, got %v / %v", got.PriceChange7d, got.PriceChange30d)
	}
	if got.MaxSupply != nil {
		t.Error("expected non-finite max supply to become absent")
	}
	if got.PriceChange24h != 2.5 {
		t.Errorf("finite fields must be kept, got %v", got.PriceChange24h)
	}
	if s.PriceChange30d == 0 {
		t.Error("Sanitize must not modify its input")
	}
}

func TestComputeIndicators(t *testing.T) {
	ind := ComputeIndicators(bitcoin())
	if !approx(ind.Volatility, (2*2.5+8.2)/3) {
		t.Errorf("unexpected volatility %.4f", ind.Volatility)
	}
	// 30 (cap) + 15 (volume 3.3% of cap) + 25 (capped) + 20-37.3/5
	if !approx(ind.Fundamentals, 30+15+25+(20-37.3/5)) {
		t.Errorf("unexpected fundamentals %.4f", ind.Fundamentals)
	}
}

func TestMomentum(t *testing.T) {
	if got := Momentum(model.MarketSnapshot{PriceChange7d: 10, PriceChange30d: 20}); got != 65 {
		t.Errorf("expected 65, got %v", got)
	}
	if got := Momentum(model.MarketSnapshot{PriceChange7d: -90, PriceChange30d: -80}); got != 0 {
		t.Errorf("expected lower clamp at 0, got %v", got)
	}
	if got := Momentum(model.MarketSnapshot{PriceChange7d: 200, PriceChange30d: 200}); got != 250 {
		t.Errorf("momentum has no upper clamp, got %v", got)
	}
}
