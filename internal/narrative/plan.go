package narrative

import (
	"fmt"

	"CryptoAdvisor/internal/model"
	"CryptoAdvisor/internal/strategy"
)

// TradingPlan is entry and exit guidance for one recommended asset.
type TradingPlan struct {
	Symbol         string   `json:"symbol"`
	EntryPoints    []string `json:"entry_points"`
	ExitStrategy   string   `json:"exit_strategy"`
	RiskManagement string   `json:"risk_management"`
	Timeframe      string   `json:"timeframe"`
}

var positionSizes = map[string]string{
	"Low":    "1-2% of portfolio per position",
	"Medium": "3-5% of portfolio per position",
	"High":   "5-10% of portfolio per position",
}

// BuildPlan derives a plan from a recommendation and its strategy.
func BuildPlan(r model.Recommendation, p strategy.Profile, riskTolerance string) TradingPlan {
	price := r.Crypto.CurrentPrice

	var entries []string
	switch p.Style {
	case strategy.StyleTrade:
		if p.TargetMultiplier < 1.05 {
			entries = []string{
				fmt.Sprintf("Entry 1: $%.2f - Immediate entry on momentum", price*0.995),
				fmt.Sprintf("Entry 2: $%.2f - Pullback entry", price*0.985),
			}
		} else {
			entries = []string{
				fmt.Sprintf("Primary: $%.2f - Weekly support level", price*0.92),
				fmt.Sprintf("Secondary: $%.2f - Major support zone", price*0.88),
			}
		}
	default:
		entries = []string{
			fmt.Sprintf("DCA Range: $%.2f - $%.2f", price*0.85, price*0.95),
			"Dollar-cost average over 4-8 weeks",
		}
	}

	size, ok := positionSizes[riskTolerance]
	if !ok {
		size = "2-3% of portfolio per position"
	}
	if r.Crypto.Volatility > 50 {
		size += " Reduce size by 25% due to high volatility."
	}

	return TradingPlan{
		Symbol:      r.Crypto.Symbol,
		EntryPoints: entries,
		ExitStrategy: fmt.Sprintf("Target: $%.2f | Stop Loss: $%.2f | Take profits in stages: 25%% at +20%%, 50%% at target, 25%% trail with stop",
			r.TargetPrice, r.StopLoss),
		RiskManagement: size + " Always use stop losses. Never risk more than you can afford to lose.",
		Timeframe:      p.TimeHorizon,
	}
}
