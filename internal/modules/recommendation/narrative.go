package recommendation

import (
	"fmt"
	"strings"

	"github.com/aristath/wealthplan/internal/domain"
	"github.com/aristath/wealthplan/internal/modules/goals"
)

// Return bands used to pick the return sentence
const (
	LowReturnBand  = 0.05
	HighReturnBand = 0.08
)

// DefaultRebalancing is used when no frequency was chosen
const DefaultRebalancing = "quarterly"

var categorySentences = map[domain.RiskCategory]string{
	domain.RiskConservative:         "A conservative strategy puts capital preservation first, holding most of the portfolio in high-quality bonds and cash.",
	domain.RiskModerateConservative: "A moderate-conservative strategy leans on bonds for stability while keeping a meaningful equity sleeve for growth.",
	domain.RiskModerate:             "A moderate strategy balances equity growth against the cushioning effect of a diversified bond allocation.",
	domain.RiskModerateAggressive:   "A moderate-aggressive strategy is built around equities, with bonds kept as a buffer for market downturns.",
	domain.RiskAggressive:           "An aggressive strategy maximises long-term growth through a predominantly equity portfolio.",
}

var kindSentences = map[domain.RecommendationKind]string{
	domain.RecommendationConservative: "This alternative is one step more cautious than your assessed profile.",
	domain.RecommendationGrowth:       "This alternative is one step more growth-oriented than your assessed profile.",
}

var esgSentences = map[domain.ESGImportance]string{
	domain.ESGSomewhatImportant: "ESG screening is applied where it does not reduce diversification.",
	domain.ESGImportant:         "Alternatives were trimmed in favour of ESG-screened equity to reflect your sustainability preferences.",
	domain.ESGVeryImportant:     "Sustainability is a core constraint: alternatives were trimmed in favour of ESG-screened equity funds.",
}

func returnSentence(expectedReturn float64) string {
	pct := expectedReturn * 100
	switch {
	case expectedReturn < LowReturnBand:
		return fmt.Sprintf("The expected annual return of %.1f%% favours stability over growth.", pct)
	case expectedReturn <= HighReturnBand:
		return fmt.Sprintf("The expected annual return of %.1f%% balances growth with stability.", pct)
	default:
		return fmt.Sprintf("The expected annual return of %.1f%% targets long-term growth and accepts larger interim swings.", pct)
	}
}

// Rationale composes the strategy narrative from fixed sentence templates
// selected by kind, category, return band and ESG importance.
func Rationale(kind domain.RecommendationKind, category domain.RiskCategory, a domain.AssetAllocation, prefs domain.InvestmentPreferences) string {
	parts := []string{categorySentences[category]}
	if s, ok := kindSentences[kind]; ok {
		parts = append(parts, s)
	}
	parts = append(parts, returnSentence(a.ExpectedReturn))
	if s, ok := esgSentences[prefs.ESGImportance]; ok {
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

var categoryFeatures = map[domain.RiskCategory][]string{
	domain.RiskConservative: {
		"Capital preservation focus",
		"High-quality government and corporate bonds",
	},
	domain.RiskModerateConservative: {
		"Income with modest growth",
		"Bond-heavy diversification",
	},
	domain.RiskModerate: {
		"Balanced growth and income",
		"Broad global diversification",
	},
	domain.RiskModerateAggressive: {
		"Growth-oriented equity core",
		"Bond buffer for downturns",
	},
	domain.RiskAggressive: {
		"Maximum long-term growth potential",
		"Significant emerging markets exposure",
	},
}

func rebalancing(prefs domain.InvestmentPreferences) string {
	if prefs.RebalancingFrequency == "" {
		return DefaultRebalancing
	}
	return prefs.RebalancingFrequency
}

// KeyFeatures lists the highlights of a recommendation. ESG and tax-loss
// harvesting preferences each add a line.
func KeyFeatures(category domain.RiskCategory, a domain.AssetAllocation, prefs domain.InvestmentPreferences) []string {
	features := append([]string(nil), categoryFeatures[category]...)
	features = append(features, fmt.Sprintf("%.0f%% equity / %.0f%% fixed income", a.Stocks.Total(), a.Bonds.Total()))
	if prefs.ESGImportance.Applies() {
		features = append(features, "ESG-screened investment selection")
	}
	if prefs.TaxLossHarvesting {
		features = append(features, "Tax-loss harvesting enabled")
	}
	features = append(features, fmt.Sprintf("Automatic %s rebalancing", rebalancing(prefs)))
	return features
}

// ImplementationPlan returns the ordered implementation skeleton
func ImplementationPlan(a domain.AssetAllocation, gs []domain.FinancialGoal, prefs domain.InvestmentPreferences) []domain.ImplementationStep {
	var steps []domain.ImplementationStep
	add := func(title, description, timeframe string) {
		steps = append(steps, domain.ImplementationStep{
			Order:       len(steps) + 1,
			Title:       title,
			Description: description,
			Timeframe:   timeframe,
		})
	}

	for _, g := range gs {
		if g.Category == domain.GoalEmergencyFund {
			add("Build emergency reserve",
				fmt.Sprintf("Keep %s in liquid savings before investing surplus cash.", goals.FormatMoney(g.TargetAmount)),
				"Month 1-3")
			break
		}
	}

	add("Fund the portfolio",
		fmt.Sprintf("Invest the initial amount across %.0f%% equity, %.0f%% bonds, %.0f%% real estate, %.0f%% alternatives and %.0f%% cash.",
			a.Stocks.Total(), a.Bonds.Total(), a.RealEstate, a.Alternatives, a.Cash),
		"Week 1-2")

	monthly := 0.0
	for _, g := range gs {
		monthly += g.EffectiveMonthlyContribution()
	}
	if monthly > 0 {
		add("Automate contributions",
			fmt.Sprintf("Set up automatic monthly contributions of %s across %s.", goals.FormatMoney(monthly), goalCount(len(gs))),
			"Month 1")
	} else {
		add("Automate contributions", "Set up automatic monthly contributions toward your goals.", "Month 1")
	}

	add("Schedule rebalancing",
		fmt.Sprintf("Rebalance %s back to target weights.", rebalancing(prefs)),
		"Ongoing")

	if prefs.TaxLossHarvesting {
		add("Harvest tax losses", "Review positions for tax-loss harvesting opportunities.", "Ongoing")
	}

	add("Annual review", "Revisit the risk profile, goals and allocation every year or after major life events.", "Every 12 months")
	return steps
}

func goalCount(n int) string {
	if n == 1 {
		return "1 goal"
	}
	return fmt.Sprintf("%d goals", n)
}
