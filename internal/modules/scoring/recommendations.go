package scoring

import (
	"github.com/aristath/wealthplan/internal/domain"
)

var categoryAdvice = map[domain.RiskCategory]string{
	domain.RiskConservative:         "Prioritize capital preservation with high-quality bonds and cash equivalents.",
	domain.RiskModerateConservative: "Hold a bond-led portfolio with a modest equity sleeve for inflation protection.",
	domain.RiskModerate:             "Keep a balanced mix of equities and bonds and rebalance on a fixed schedule.",
	domain.RiskModerateAggressive:   "Lean on diversified equities for growth while keeping a bond buffer for drawdowns.",
	domain.RiskAggressive:           "Pursue long-term growth through equities; expect large interim swings in value.",
}

// scoreGap is the sub-score spread that triggers mismatch advice
const scoreGap = 2.5

// Advise returns ordered advisory strings for a profile. Selection is a
// deterministic function of the category and sub-scores.
func Advise(p domain.RiskProfile) []string {
	var advice []string
	if s, ok := categoryAdvice[p.RiskCategory]; ok {
		advice = append(advice, s)
	}

	if p.ToleranceScore-p.CapacityScore >= scoreGap {
		advice = append(advice, "Your comfort with risk exceeds your financial capacity to absorb losses; size positions to capacity, not appetite.")
	}
	if p.CapacityScore-p.ToleranceScore >= scoreGap {
		advice = append(advice, "You can afford more risk than you are comfortable with; consider gradual exposure increases as experience grows.")
	}
	if p.BehavioralScore < 4 {
		advice = append(advice, "Automate contributions and rebalancing to limit emotionally driven trading.")
	}
	if p.CapacityScore < 4 {
		advice = append(advice, "Build an emergency reserve of three to six months of expenses before adding risk.")
	}
	if p.ConfidenceLevel < 85 {
		advice = append(advice, "Complete the remaining assessment sections to improve the accuracy of this profile.")
	}
	advice = append(advice, "Review this profile annually or after major life events.")
	return advice
}
