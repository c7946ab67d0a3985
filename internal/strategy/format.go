package strategy

import (
	"strconv"
	"strings"
)

// compactUSD renders a dollar amount with a K/M/B/T suffix, e.g. $10B.
func compactUSD(v float64) string {
	units := []struct {
		div    float64
		suffix string
	}{
		{1e12, "T"},
		{1e9, "B"},
		{1e6, "M"},
		{1e3, "K"},
	}
	for _, u := range units {
		if v >= u.div {
			return "$" + trimFloat(v/u.div) + u.suffix
		}
	}
	return "$" + trimFloat(v)
}

// percent renders a ratio as a percentage, e.g. 0.05 -> 5%.
func percent(ratio float64) string {
	return trimFloat(ratio*100) + "%"
}

func trimFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
