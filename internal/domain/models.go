// Package domain provides the core records exchanged between the onboarding
// collection layer and the risk and allocation engine.
package domain

import (
	"fmt"
	"time"
)

// ClientInformation holds the read-only personal and financial facts
// collected during onboarding.
type ClientInformation struct {
	Age                    int     `json:"age" yaml:"age"`
	AnnualIncome           float64 `json:"annual_income" yaml:"annual_income"`
	AnnualExpenses         float64 `json:"annual_expenses" yaml:"annual_expenses"`
	LiquidAssets           float64 `json:"liquid_assets" yaml:"liquid_assets"`
	TotalDebt              float64 `json:"total_debt" yaml:"total_debt"`
	Dependents             int     `json:"dependents" yaml:"dependents"`
	InvestmentHorizonYears float64 `json:"investment_horizon_years" yaml:"investment_horizon_years"`
}

// MonthlyExpenses returns expenses per month, falling back to income when
// expenses were not reported.
func (c ClientInformation) MonthlyExpenses() float64 {
	if c.AnnualExpenses > 0 {
		return c.AnnualExpenses / 12
	}
	return c.AnnualIncome / 12
}

// RiskCategory is one of five ordered investor risk categories
type RiskCategory string

const (
	RiskConservative         RiskCategory = "conservative"
	RiskModerateConservative RiskCategory = "moderate-conservative"
	RiskModerate             RiskCategory = "moderate"
	RiskModerateAggressive   RiskCategory = "moderate-aggressive"
	RiskAggressive           RiskCategory = "aggressive"
)

// RiskCategories lists all categories from least to most risk-seeking
var RiskCategories = []RiskCategory{
	RiskConservative,
	RiskModerateConservative,
	RiskModerate,
	RiskModerateAggressive,
	RiskAggressive,
}

// Rank returns the position of the category in the ordering (0 = conservative).
// Unknown categories rank -1.
func (c RiskCategory) Rank() int {
	for i, cat := range RiskCategories {
		if cat == c {
			return i
		}
	}
	return -1
}

// Shift moves the category n steps (negative = more conservative), saturating
// at both ends of the ordering.
func (c RiskCategory) Shift(n int) RiskCategory {
	rank := c.Rank()
	if rank < 0 {
		return c
	}
	rank += n
	if rank < 0 {
		rank = 0
	}
	if rank >= len(RiskCategories) {
		rank = len(RiskCategories) - 1
	}
	return RiskCategories[rank]
}

// Label returns a human readable name
func (c RiskCategory) Label() string {
	switch c {
	case RiskConservative:
		return "Conservative"
	case RiskModerateConservative:
		return "Moderate-Conservative"
	case RiskModerate:
		return "Moderate"
	case RiskModerateAggressive:
		return "Moderate-Aggressive"
	case RiskAggressive:
		return "Aggressive"
	}
	return string(c)
}

// ParseRiskCategory validates a category name
func ParseRiskCategory(s string) (RiskCategory, error) {
	c := RiskCategory(s)
	if c.Rank() < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownRiskCategory, s)
	}
	return c, nil
}

// RiskProfile is the result of a completed risk assessment. It is built once
// per assessment and recomputed wholesale whenever any sub-score changes.
type RiskProfile struct {
	ToleranceScore      float64      `json:"tolerance_score"`
	CapacityScore       float64      `json:"capacity_score"`
	BehavioralScore     float64      `json:"behavioral_score"`
	OverallRiskScore    float64      `json:"overall_risk_score"`     // 0-10
	OverallRiskScore100 float64      `json:"overall_risk_score_100"` // 0-100, used by goal allocation
	RiskCategory        RiskCategory `json:"risk_category"`
	ConfidenceLevel     float64      `json:"confidence_level"` // percent
	Recommendations     []string     `json:"recommendations"`
	WeightSet           string       `json:"weight_set"`
	CompletedSections   []string     `json:"completed_sections"`
	Diagnostics         []Diagnostic `json:"diagnostics,omitempty"`
}

// Priority is the categorical urgency of a goal
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// PriorityFromImportance derives a priority from a 1-10 importance rating
func PriorityFromImportance(importance int) Priority {
	switch {
	case importance >= 8:
		return PriorityHigh
	case importance >= 5:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// FinancialGoal is a single funding goal inside a plan
type FinancialGoal struct {
	ID            string       `json:"id"`
	PlanID        string       `json:"plan_id"`
	Name          string       `json:"name"`
	Category      GoalCategory `json:"category"`
	TargetAmount  float64      `json:"target_amount"`
	CurrentAmount float64      `json:"current_amount"`
	TargetDate    time.Time    `json:"target_date"`
	TimeHorizon   float64      `json:"time_horizon"` // years, derived from TargetDate
	Importance    int          `json:"importance"`   // 1-10

	Priority         Priority `json:"priority"`
	PriorityOverride bool     `json:"priority_override"`

	RiskAllocation         float64  `json:"risk_allocation"` // percent
	RiskAllocationOverride *float64 `json:"risk_allocation_override,omitempty"`

	MonthlyContribution         float64  `json:"monthly_contribution"`
	MonthlyContributionOverride *float64 `json:"monthly_contribution_override,omitempty"`

	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// EffectiveRiskAllocation returns the user override when present, otherwise
// the computed allocation.
func (g FinancialGoal) EffectiveRiskAllocation() float64 {
	if g.RiskAllocationOverride != nil {
		return *g.RiskAllocationOverride
	}
	return g.RiskAllocation
}

// EffectiveMonthlyContribution returns the user override when present,
// otherwise the computed contribution.
func (g FinancialGoal) EffectiveMonthlyContribution() float64 {
	if g.MonthlyContributionOverride != nil {
		return *g.MonthlyContributionOverride
	}
	return g.MonthlyContribution
}

// ESGImportance expresses how much environmental, social and governance
// criteria matter to the investor.
type ESGImportance string

const (
	ESGNotImportant      ESGImportance = "not-important"
	ESGSomewhatImportant ESGImportance = "somewhat-important"
	ESGImportant         ESGImportance = "important"
	ESGVeryImportant     ESGImportance = "very-important"
)

// Applies reports whether ESG adjustment should be applied. Empty counts as
// not important.
func (e ESGImportance) Applies() bool {
	return e != "" && e != ESGNotImportant
}

// GeographicPreference holds the requested regional split of equity, in percent
type GeographicPreference struct {
	Domestic      float64 `json:"domestic" yaml:"domestic"`
	International float64 `json:"international" yaml:"international"`
	Emerging      float64 `json:"emerging" yaml:"emerging"`
}

// Sum returns the total of the regional weights
func (g GeographicPreference) Sum() float64 {
	return g.Domestic + g.International + g.Emerging
}

// InvestmentPreferences are adjustment inputs supplied by the collection layer
type InvestmentPreferences struct {
	ESGImportance        ESGImportance         `json:"esg_importance" yaml:"esg_importance"`
	Geographic           *GeographicPreference `json:"geographic,omitempty" yaml:"geographic,omitempty"`
	TaxLossHarvesting    bool                  `json:"tax_loss_harvesting" yaml:"tax_loss_harvesting"`
	RebalancingFrequency string                `json:"rebalancing_frequency,omitempty" yaml:"rebalancing_frequency,omitempty"`
}

// Diagnostic is an optional flag attached to a result when a fallback or
// clamp was applied.
type Diagnostic struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	DiagIncompleteAssessment = "incomplete_assessment"
	DiagAllocationClamped    = "allocation_clamped"
	DiagSharpeUndefined      = "sharpe_undefined"
	DiagESGLimited           = "esg_adjustment_limited"
	DiagGeographicIgnored    = "geographic_preference_ignored"
	DiagNonNormalized        = "non_normalized_allocation"
	DiagInvalidHorizon       = "invalid_horizon"
)
