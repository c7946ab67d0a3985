package model

// RiskTier is the coarse risk classification attached to a recommendation.
type RiskTier string

const (
	RiskLow    RiskTier = "Low"
	RiskMedium RiskTier = "Medium"
	RiskHigh   RiskTier = "High"
)

// FactorScore represents a single factor's contribution to the composite score.
type FactorScore struct {
	Name     string  `json:"name"`
	RawScore float64 `json:"raw_score"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
}

// Recommendation is one ranked entry produced by the engine.
type Recommendation struct {
	Rank              int           `json:"rank"`
	Crypto            Asset         `json:"crypto"`
	InvestmentScore   float64       `json:"investment_score"`
	ExpectedReturn30d float64       `json:"expected_return_30d"`
	ExpectedReturn90d float64       `json:"expected_return_90d"`
	RiskLevel         RiskTier      `json:"risk_level"`
	Reasoning         string        `json:"reasoning"`
	EntryStrategy     string        `json:"entry_strategy"`
	TargetPrice       float64       `json:"target_price"`
	StopLoss          float64       `json:"stop_loss"`
	Factors           []FactorScore `json:"factors,omitempty"`
}
