package strategy

import (
	"strings"

	"CryptoAdvisor/internal/model"
)

// EligibilityKind selects which filter an Eligibility applies.
type EligibilityKind int

const (
	AllAssets EligibilityKind = iota
	MinMarketCap
	MinVolumeRatio
	MarketCapRange
	SymbolAllowList
)

// Eligibility is a pure filter over snapshots. Only the fields matching Kind are read.
type Eligibility struct {
	Kind     EligibilityKind `json:"kind"`
	MinCap   float64         `json:"min_market_cap,omitempty"`
	MaxCap   float64         `json:"max_market_cap,omitempty"`
	MinRatio float64         `json:"min_volume_ratio,omitempty"`
	Symbols  []string        `json:"symbols,omitempty"`
}

// AboveMarketCap admits assets whose market cap is strictly above min.
func AboveMarketCap(min float64) Eligibility {
	return Eligibility{Kind: MinMarketCap, MinCap: min}
}

// VolumeRatioAtLeast admits assets whose 24h volume is at least ratio * market cap.
func VolumeRatioAtLeast(ratio float64) Eligibility {
	return Eligibility{Kind: MinVolumeRatio, MinRatio: ratio}
}

// MarketCapBetween admits assets with lo <= market cap < hi.
func MarketCapBetween(lo, hi float64) Eligibility {
	return Eligibility{Kind: MarketCapRange, MinCap: lo, MaxCap: hi}
}

// SymbolIn admits assets whose symbol is in the list (case-insensitive).
func SymbolIn(symbols ...string) Eligibility {
	upper := make([]string, len(symbols))
	for i, s := range symbols {
		upper[i] = strings.ToUpper(s)
	}
	return Eligibility{Kind: SymbolAllowList, Symbols: upper}
}

// Eligible reports whether the snapshot passes the filter.
func (e Eligibility) Eligible(s model.MarketSnapshot) bool {
	switch e.Kind {
	case MinMarketCap:
		return s.MarketCap > e.MinCap
	case MinVolumeRatio:
		if s.MarketCap <= 0 {
			return false
		}
		return s.Volume24h >= s.MarketCap*e.MinRatio
	case MarketCapRange:
		return s.MarketCap >= e.MinCap && s.MarketCap < e.MaxCap
	case SymbolAllowList:
		sym := strings.ToUpper(s.Symbol)
		for _, allowed := range e.Symbols {
			if allowed == sym {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// String describes the filter for display.
func (e Eligibility) String() string {
	switch e.Kind {
	case MinMarketCap:
		return "market cap above " + compactUSD(e.MinCap)
	case MinVolumeRatio:
		return "24h volume at least " + percent(e.MinRatio) + " of market cap"
	case MarketCapRange:
		return "market cap between " + compactUSD(e.MinCap) + " and " + compactUSD(e.MaxCap)
	case SymbolAllowList:
		return "symbol in " + strings.Join(e.Symbols, ", ")
	default:
		return "all assets"
	}
}

// MarshalText lets the kind travel as a readable name in JSON.
func (k EligibilityKind) MarshalText() ([]byte, error) {
	switch k {
	case MinMarketCap:
		return []byte("min_market_cap"), nil
	case MinVolumeRatio:
		return []byte("min_volume_ratio"), nil
	case MarketCapRange:
		return []byte("market_cap_range"), nil
	case SymbolAllowList:
		return []byte("symbol_allow_list"), nil
	default:
		return []byte("all"), nil
	}
}
