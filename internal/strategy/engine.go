package strategy

import (
	"sort"

	"CryptoAdvisor/internal/calculator"
	"CryptoAdvisor/internal/model"
)

// MaxRecommendations caps the length of a ranking.
const MaxRecommendations = 10

// Engine ranks market snapshots against the strategies of a catalog.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	catalog *Catalog
}

// NewEngine returns an engine over catalog, or the built-in catalog when nil.
func NewEngine(catalog *Catalog) *Engine {
	if catalog == nil {
		catalog = Default()
	}
	return &Engine{catalog: catalog}
}

// Catalog returns the strategies the engine ranks against.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Rank scores snapshots under the strategy with the given id.
func (e *Engine) Rank(snapshots []model.MarketSnapshot, strategyID string) ([]model.Recommendation, error) {
	p, err := e.catalog.Get(strategyID)
	if err != nil {
		return nil, err
	}
	return RankProfile(snapshots, p), nil
}

// RankProfile filters, scores and orders snapshots under p and returns at most
// MaxRecommendations entries. Malformed records are skipped. The result is never nil.
func RankProfile(snapshots []model.MarketSnapshot, p Profile) []model.Recommendation {
	recs := make([]model.Recommendation, 0, len(snapshots))
	for _, raw := range snapshots {
		if calculator.Validate(raw) != nil {
			continue
		}
		s := calculator.Sanitize(raw)
		if !p.Eligibility.Eligible(s) {
			continue
		}
		recs = append(recs, evaluate(s, p))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].InvestmentScore > recs[j].InvestmentScore
	})
	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	for i := range recs {
		recs[i].Rank = i + 1
	}
	return recs
}

// Indicators attaches derived scores to each valid snapshot, in input order.
func Indicators(snapshots []model.MarketSnapshot) []model.Asset {
	assets := make([]model.Asset, 0, len(snapshots))
	for _, raw := range snapshots {
		if calculator.Validate(raw) != nil {
			continue
		}
		s := calculator.Sanitize(raw)
		assets = append(assets, model.Asset{MarketSnapshot: s, DerivedIndicators: calculator.ComputeIndicators(s)})
	}
	return assets
}

func evaluate(s model.MarketSnapshot, p Profile) model.Recommendation {
	a := model.Asset{MarketSnapshot: s, DerivedIndicators: calculator.ComputeIndicators(s)}
	factors := scoreFactors(a, p.Weights)
	target, stop := priceLevels(s.CurrentPrice, p)

	return model.Recommendation{
		Crypto:            a,
		InvestmentScore:   compositeScore(factors),
		ExpectedReturn30d: expectedReturn(a, p, 30),
		ExpectedReturn90d: expectedReturn(a, p, 90),
		RiskLevel:         mapRisk(a.Volatility, p.RiskAdjustment),
		Reasoning:         buildReasoning(a, p.Style),
		EntryStrategy:     buildEntryStrategy(a, p.Style),
		TargetPrice:       target,
		StopLoss:          stop,
		Factors:           factors,
	}
}
