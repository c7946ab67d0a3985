package strategy

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStrategy is returned for ids absent from the catalog.
var ErrUnknownStrategy = errors.New("unknown strategy")

// RiskLabel is the advertised risk of a strategy.
type RiskLabel string

const (
	RiskLabelLow      RiskLabel = "Low"
	RiskLabelMedium   RiskLabel = "Medium"
	RiskLabelHigh     RiskLabel = "High"
	RiskLabelVeryHigh RiskLabel = "Very High"
)

// Style groups strategies that share reasoning and entry wording.
type Style int

const (
	StyleAccumulate Style = iota
	StyleIncome
	StylePreserve
	StyleTrade
	StyleSpeculate
)

func (s Style) MarshalText() ([]byte, error) {
	switch s {
	case StyleIncome:
		return []byte("income"), nil
	case StylePreserve:
		return []byte("preserve"), nil
	case StyleTrade:
		return []byte("trade"), nil
	case StyleSpeculate:
		return []byte("speculate"), nil
	default:
		return []byte("accumulate"), nil
	}
}

// Weights is the five-way weighting of the composite score. The catalog does not force a sum of 1.
type Weights struct {
	Technical   float64 `json:"technical"`
	Fundamental float64 `json:"fundamental"`
	Momentum    float64 `json:"momentum"`
	Volatility  float64 `json:"volatility"`
	MarketCap   float64 `json:"marketCap"`
}

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	return w.Technical + w.Fundamental + w.Momentum + w.Volatility + w.MarketCap
}

// Profile is the static configuration of one strategy.
type Profile struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	RiskLevel   RiskLabel   `json:"riskLevel"`
	TimeHorizon string      `json:"timeHorizon"`
	Features    []string    `json:"features"`
	Weights     Weights     `json:"weights"`
	Eligibility Eligibility `json:"eligibility"`
	Style       Style       `json:"style"`

	ReturnMultiplier float64 `json:"returnMultiplier"` // scales expected return aggressiveness
	RiskAdjustment   float64 `json:"riskAdjustment"`   // added to volatility before tiering
	TargetMultiplier float64 `json:"targetMultiplier"`
	StopMultiplier   float64 `json:"stopMultiplier"`
}

var stakingSymbols = []string{"ETH", "ADA", "DOT", "SOL", "ATOM", "AVAX", "MATIC", "ALGO", "XTZ", "NEAR", "TRX", "BNB"}

var defiSymbols = []string{"ETH", "UNI", "AAVE", "COMP", "MKR", "CRV", "SUSHI", "YFI", "SNX", "LDO", "CAKE", "BAL", "1INCH", "LINK"}

// builtinProfiles is the fixed strategy table, in display order.
var builtinProfiles = []Profile{
	{
		ID:          "wealth-building",
		Name:        "Wealth Building",
		Description: "Long-term accumulation strategy focused on established cryptocurrencies with strong fundamentals",
		RiskLevel:   RiskLabelMedium,
		TimeHorizon: "2-5 years",
		Features:    []string{"Diversified portfolio", "Dollar-cost averaging", "Compound growth"},
		Weights:     Weights{Technical: 0.2, Fundamental: 0.4, Momentum: 0.15, Volatility: 0.15, MarketCap: 0.1},
		Eligibility: AboveMarketCap(1e9),
		Style:       StyleAccumulate,

		ReturnMultiplier: 1.0,
		RiskAdjustment:   0,
		TargetMultiplier: 1.5,
		StopMultiplier:   0.85,
	},
	{
		ID:          "passive-income",
		Name:        "Passive Income",
		Description: "Generate steady income through staking rewards, DeFi yield farming, and dividend tokens",
		RiskLevel:   RiskLabelMedium,
		TimeHorizon: "6 months - 2 years",
		Features:    []string{"Staking rewards", "DeFi yields", "Regular income"},
		Weights:     Weights{Technical: 0.15, Fundamental: 0.35, Momentum: 0.1, Volatility: 0.2, MarketCap: 0.2},
		Eligibility: SymbolIn(stakingSymbols...),
		Style:       StyleIncome,

		ReturnMultiplier: 0.8,
		RiskAdjustment:   -10,
		TargetMultiplier: 1.3,
		StopMultiplier:   0.85,
	},
	{
		ID:          "inflation-hedge",
		Name:        "Inflation Hedge",
		Description: "Store of value assets like Bitcoin to protect against currency devaluation",
		RiskLevel:   RiskLabelLow,
		TimeHorizon: "1-10 years",
		Features:    []string{"Bitcoin focus", "Store of value", "Inflation protection"},
		Weights:     Weights{Technical: 0.1, Fundamental: 0.5, Momentum: 0.05, Volatility: 0.1, MarketCap: 0.25},
		Eligibility: AboveMarketCap(10e9),
		Style:       StylePreserve,

		ReturnMultiplier: 0.5,
		RiskAdjustment:   -20,
		TargetMultiplier: 1.25,
		StopMultiplier:   0.85,
	},
	{
		ID:          "day-trading",
		Name:        "Day Trading",
		Description: "High-frequency trading with technical analysis for quick profits",
		RiskLevel:   RiskLabelVeryHigh,
		TimeHorizon: "Minutes - Hours",
		Features:    []string{"Technical analysis", "High liquidity", "Quick execution"},
		Weights:     Weights{Technical: 0.5, Fundamental: 0.1, Momentum: 0.25, Volatility: 0.1, MarketCap: 0.05},
		Eligibility: VolumeRatioAtLeast(0.05),
		Style:       StyleTrade,

		ReturnMultiplier: 0.5,
		RiskAdjustment:   30,
		TargetMultiplier: 1.02,
		StopMultiplier:   0.98,
	},
	{
		ID:          "swing-trading",
		Name:        "Swing Trading",
		Description: "Medium-term trades capturing price swings over days to weeks",
		RiskLevel:   RiskLabelHigh,
		TimeHorizon: "2-30 days",
		Features:    []string{"Technical patterns", "Trend following", "Risk management"},
		Weights:     Weights{Technical: 0.4, Fundamental: 0.2, Momentum: 0.3, Volatility: 0.05, MarketCap: 0.05},
		Eligibility: VolumeRatioAtLeast(0.05),
		Style:       StyleTrade,

		ReturnMultiplier: 1.5,
		RiskAdjustment:   20,
		TargetMultiplier: 1.15,
		StopMultiplier:   0.90,
	},
	{
		ID:          "long-term-hodl",
		Name:        "Long-term HODL",
		Description: "Buy and hold top-tier cryptocurrencies for maximum long-term gains",
		RiskLevel:   RiskLabelMedium,
		TimeHorizon: "3+ years",
		Features:    []string{"Buy and hold", "Top-tier coins", "Long-term vision"},
		Weights:     Weights{Technical: 0.1, Fundamental: 0.5, Momentum: 0.1, Volatility: 0.1, MarketCap: 0.2},
		Eligibility: AboveMarketCap(10e9),
		Style:       StyleAccumulate,

		ReturnMultiplier: 2.0,
		RiskAdjustment:   -10,
		TargetMultiplier: 2.5,
		StopMultiplier:   0.75,
	},
	{
		ID:          "defi-yield-farming",
		Name:        "DeFi Yield Farming",
		Description: "Provide liquidity to DeFi protocols for high yield opportunities",
		RiskLevel:   RiskLabelHigh,
		TimeHorizon: "1-12 months",
		Features:    []string{"Liquidity provision", "DeFi protocols", "High yields"},
		Weights:     Weights{Technical: 0.2, Fundamental: 0.3, Momentum: 0.2, Volatility: 0.15, MarketCap: 0.15},
		Eligibility: SymbolIn(defiSymbols...),
		Style:       StyleIncome,

		ReturnMultiplier: 1.5,
		RiskAdjustment:   10,
		TargetMultiplier: 1.5,
		StopMultiplier:   0.80,
	},
	{
		ID:          "low-risk-stable",
		Name:        "Low Risk Stable",
		Description: "Conservative approach with stablecoins and established cryptocurrencies",
		RiskLevel:   RiskLabelLow,
		TimeHorizon: "6 months - 2 years",
		Features:    []string{"Stablecoins", "Low volatility", "Capital preservation"},
		Weights:     Weights{Technical: 0.05, Fundamental: 0.4, Momentum: 0.05, Volatility: 0.35, MarketCap: 0.15},
		Eligibility: AboveMarketCap(10e9),
		Style:       StylePreserve,

		ReturnMultiplier: 0.3,
		RiskAdjustment:   -20,
		TargetMultiplier: 1.1,
		StopMultiplier:   0.95,
	},
	{
		ID:          "high-risk-high-reward",
		Name:        "High Risk/High Reward",
		Description: "Small-cap altcoins with explosive growth potential",
		RiskLevel:   RiskLabelVeryHigh,
		TimeHorizon: "1-6 months",
		Features:    []string{"Small-cap focus", "High growth potential", "Early adoption"},
		Weights:     Weights{Technical: 0.3, Fundamental: 0.25, Momentum: 0.35, Volatility: 0.05, MarketCap: 0.05},
		Eligibility: MarketCapBetween(10e6, 1e9),
		Style:       StyleSpeculate,

		ReturnMultiplier: 3.0,
		RiskAdjustment:   30,
		TargetMultiplier: 3.0,
		StopMultiplier:   0.70,
	},
}

// aliases maps the underscore ids used by the narrative layer onto catalog ids.
var aliases = map[string]string{
	"long_term_hold":   "long-term-hodl",
	"defi_yield":       "defi-yield-farming",
	"high_risk_reward": "high-risk-high-reward",
}

// Catalog is an immutable, ordered set of strategy profiles.
type Catalog struct {
	profiles []Profile
	byID     map[string]int
}

// NewCatalog builds a catalog from the given profiles. Later duplicates replace earlier ones.
func NewCatalog(profiles ...Profile) *Catalog {
	c := &Catalog{byID: make(map[string]int, len(profiles))}
	for _, p := range profiles {
		if i, ok := c.byID[p.ID]; ok {
			c.profiles[i] = p
			continue
		}
		c.byID[p.ID] = len(c.profiles)
		c.profiles = append(c.profiles, p)
	}
	return c
}

// Default returns the built-in strategy catalog.
func Default() *Catalog {
	return NewCatalog(builtinProfiles...)
}

// List returns all profiles in display order.
func (c *Catalog) List() []Profile {
	out := make([]Profile, len(c.profiles))
	copy(out, c.profiles)
	return out
}

// Get looks a profile up by id. Underscore spellings resolve to the hyphenated id.
func (c *Catalog) Get(id string) (Profile, error) {
	key := strings.ToLower(strings.TrimSpace(id))
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	if i, ok := c.byID[key]; ok {
		return c.profiles[i], nil
	}
	if i, ok := c.byID[strings.ReplaceAll(key, "_", "-")]; ok {
		return c.profiles[i], nil
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, id)
}

// Validate reports profiles whose price multipliers break stop < price <= target.
func (c *Catalog) Validate() error {
	var errs []error
	for _, p := range c.profiles {
		if p.TargetMultiplier < 1 {
			errs = append(errs, fmt.Errorf("strategy %s: target multiplier %.2f below 1", p.ID, p.TargetMultiplier))
		}
		if p.StopMultiplier <= 0 || p.StopMultiplier >= 1 {
			errs = append(errs, fmt.Errorf("strategy %s: stop multiplier %.2f outside (0,1)", p.ID, p.StopMultiplier))
		}
	}
	return errors.Join(errs...)
}
