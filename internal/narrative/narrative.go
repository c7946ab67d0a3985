// Package narrative produces free-form advisory text for a ranking.
// The text is attached to responses for display and never read back by the engine.
package narrative

import (
	"context"

	"github.com/rs/zerolog"

	"CryptoAdvisor/internal/metrics"
	"CryptoAdvisor/internal/model"
	"CryptoAdvisor/internal/strategy"
)

// InvestorProfile describes who the narrative is written for.
type InvestorProfile struct {
	RiskTolerance    string  `json:"risk_tolerance"`
	InvestmentAmount float64 `json:"investment_amount"`
	TimeHorizon      string  `json:"time_horizon"`
	Experience       string  `json:"experience"`
}

// Request carries everything a generator may use.
type Request struct {
	Strategy        strategy.Profile
	Assets          []model.Asset
	Recommendations []model.Recommendation
	Investor        InvestorProfile
}

// Generator turns a ranking into advisory text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// Fallback tries Primary first and degrades to Secondary on error.
type Fallback struct {
	Primary   Generator
	Secondary Generator
	Metrics   *metrics.Registry
	Log       zerolog.Logger
}

func (f *Fallback) Name() string { return f.Primary.Name() }

func (f *Fallback) Generate(ctx context.Context, req Request) (string, error) {
	text, err := f.Primary.Generate(ctx, req)
	f.Metrics.ObserveNarrative(f.Primary.Name(), err)
	if err == nil {
		return text, nil
	}
	f.Log.Warn().Err(err).Str("generator", f.Primary.Name()).Msg("narrative failed, using fallback")
	text, err = f.Secondary.Generate(ctx, req)
	f.Metrics.ObserveNarrative(f.Secondary.Name(), err)
	return text, err
}
