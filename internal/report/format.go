// Package report renders rankings for the terminal.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"CryptoAdvisor/internal/model"
	"CryptoAdvisor/internal/strategy"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	narrativeStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#F59E0B")).
			Padding(0, 1).
			Width(90)

	riskStyles = map[model.RiskTier]lipgloss.Style{
		model.RiskLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
		model.RiskMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		model.RiskHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
	}
)

const rowFormat = "%-4s %-8s %12s %7s %8s %8s  %-6s %s"

// FormatRanking formats one strategy's ranking as a table.
func FormatRanking(p strategy.Profile, source string, recs []model.Recommendation, at time.Time) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s | %s", p.Name, at.Format("2006-01-02 15:04"))))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("risk %s, horizon %s, data %s", p.RiskLevel, p.TimeHorizon, source)))
	b.WriteString("\n\n")

	if len(recs) == 0 {
		b.WriteString("No assets match this strategy right now.\n")
		return b.String()
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf(rowFormat, "#", "SYMBOL", "PRICE", "SCORE", "ER30", "ER90", "RISK", "ENTRY")))
	b.WriteString("\n")
	for _, r := range recs {
		risk := string(r.RiskLevel)
		if st, ok := riskStyles[r.RiskLevel]; ok {
			risk = st.Render(fmt.Sprintf("%-6s", risk))
		}
		b.WriteString(fmt.Sprintf(rowFormat,
			fmt.Sprintf("%d", r.Rank),
			r.Crypto.Symbol,
			formatPrice(r.Crypto.CurrentPrice),
			fmt.Sprintf("%.1f", r.InvestmentScore),
			fmt.Sprintf("%+.1f%%", r.ExpectedReturn30d),
			fmt.Sprintf("%+.1f%%", r.ExpectedReturn90d),
			risk,
			r.EntryStrategy,
		))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("     %s | target %s stop %s",
			r.Reasoning, formatPrice(r.TargetPrice), formatPrice(r.StopLoss))))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatStrategies lists the catalog.
func FormatStrategies(profiles []strategy.Profile) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Strategies"))
	b.WriteString("\n\n")
	for _, p := range profiles {
		b.WriteString(headerStyle.Render(fmt.Sprintf("%-22s", p.ID)))
		b.WriteString(fmt.Sprintf(" %s (%s, %s)\n", p.Name, p.RiskLevel, p.TimeHorizon))
		b.WriteString(mutedStyle.Render("  " + p.Description))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatNarrative boxes the analysis text.
func FormatNarrative(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return narrativeStyle.Render(strings.TrimSpace(text)) + "\n"
}

func formatPrice(v float64) string {
	switch {
	case v >= 1000:
		return fmt.Sprintf("$%.0f", v)
	case v >= 1:
		return fmt.Sprintf("$%.2f", v)
	default:
		return fmt.Sprintf("$%.6f", v)
	}
}
