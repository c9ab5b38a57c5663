// Package scoring turns onboarding questionnaire answers into risk
// sub-scores, aggregates them and maps the result to a risk category.
package scoring

import (
	"math"
	"strings"

	"github.com/aristath/wealthplan/pkg/formulas"
)

// Common 0-10 scale. Higher means more risk-seeking, more capacity or more
// disciplined, depending on the factor.
const (
	MinScore = 0.0
	MaxScore = 10.0
	Midpoint = 5.0
)

// VolatilityPreference anchors categorical volatility answers. The values are
// fixed because the category thresholds were calibrated against them.
var VolatilityPreference = map[string]float64{
	"low":    3,
	"medium": 6,
	"high":   9,
}

// MarketDeclineReaction maps the "what would you do after a 20% drop" answer
var MarketDeclineReaction = map[string]float64{
	"sell-all":  1,
	"sell-some": 3,
	"hold":      6,
	"buy-more":  9,
}

// clampScore forces v onto the 0-10 scale; non-finite values become the midpoint
func clampScore(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Midpoint
	}
	return formulas.Clamp(v, MinScore, MaxScore)
}

// Scale1To10 normalizes an answer given on a 1-10 scale
func Scale1To10(v float64) float64 {
	return clampScore(v)
}

// Percentage maps a slider value in [0, maxPct] linearly onto 0-10
func Percentage(pct, maxPct float64) float64 {
	if maxPct <= 0 {
		return Midpoint
	}
	return clampScore(pct / maxPct * MaxScore)
}

// Categorical looks a choice up in a fixed table. ok is false when the choice
// is unknown, so the caller can treat the factor as missing.
func Categorical(table map[string]float64, choice string) (float64, bool) {
	v, ok := table[strings.ToLower(strings.TrimSpace(choice))]
	return v, ok
}

// Invert flips a risk-averse factor onto the risk-seeking direction: 11 - raw,
// clamped to the scale.
func Invert(raw float64) float64 {
	return clampScore(11 - raw)
}

// AgeCapacity scores younger investors higher: 10 at 25 or younger, 0 at 75
func AgeCapacity(age int) float64 {
	return clampScore(float64(75-age) / 5)
}

// ReserveMonths scores liquid reserves by months of expenses covered, where a
// full year of reserves scores 10.
func ReserveMonths(liquidAssets, monthlyExpenses float64) float64 {
	if monthlyExpenses <= 0 {
		return Midpoint
	}
	months := liquidAssets / monthlyExpenses
	return clampScore(months / 12 * MaxScore)
}

// DebtBurden scores a debt-to-income ratio; no debt scores 10, debt at or
// above annual income scores 0.
func DebtBurden(totalDebt, annualIncome float64) float64 {
	if annualIncome <= 0 {
		if totalDebt > 0 {
			return MinScore
		}
		return Midpoint
	}
	dti := math.Min(totalDebt/annualIncome, 1)
	if dti < 0 {
		dti = 0
	}
	return clampScore((1 - dti) * MaxScore)
}

// DependentsCapacity loses two points per dependent
func DependentsCapacity(dependents int) float64 {
	return clampScore(MaxScore - 2*float64(dependents))
}

// HorizonYears scores the investment horizon, saturating at 20 years
func HorizonYears(years float64) float64 {
	return clampScore(years / 20 * MaxScore)
}
