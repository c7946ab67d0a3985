package narrative

import (
	"context"
	"fmt"
	"strings"
)

// RuleGenerator renders the deterministic Insight as text. It never fails.
type RuleGenerator struct{}

func (RuleGenerator) Name() string { return "rules" }

func (RuleGenerator) Generate(_ context.Context, req Request) (string, error) {
	in := Analyze(req.Assets, req.Strategy)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", in.Summary)
	fmt.Fprintf(&b, "Sentiment: %s (confidence %.0f%%)\n", in.Sentiment, in.Confidence)
	b.WriteString("Key factors:\n")
	for _, f := range in.KeyFactors {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	fmt.Fprintf(&b, "%s\n", in.RiskAssessment)
	b.WriteString(in.Recommendation)
	return b.String(), nil
}
