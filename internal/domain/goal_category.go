package domain

import "fmt"

// GoalCategory classifies a financial goal
type GoalCategory string

const (
	GoalEmergencyFund  GoalCategory = "emergency-fund"
	GoalRetirement     GoalCategory = "retirement"
	GoalEducation      GoalCategory = "education"
	GoalHomePurchase   GoalCategory = "home-purchase"
	GoalWealthBuilding GoalCategory = "wealth-building"
	GoalMajorPurchase  GoalCategory = "major-purchase"
	GoalVacation       GoalCategory = "vacation"
	GoalDebtPayoff     GoalCategory = "debt-payoff"
	GoalLegacy         GoalCategory = "legacy"
	GoalOther          GoalCategory = "other"
)

// AllocationBounds is the declared [Min, Max] risk allocation range, in percent
type AllocationBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Clamp forces v into the range
func (b AllocationBounds) Clamp(v float64) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// Contains reports whether v lies inside the range
func (b AllocationBounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

var goalCategoryBounds = map[GoalCategory]AllocationBounds{
	GoalEmergencyFund:  {Min: 0, Max: 20},
	GoalRetirement:     {Min: 60, Max: 90},
	GoalEducation:      {Min: 30, Max: 70},
	GoalHomePurchase:   {Min: 20, Max: 60},
	GoalWealthBuilding: {Min: 50, Max: 95},
	GoalMajorPurchase:  {Min: 10, Max: 50},
	GoalVacation:       {Min: 10, Max: 40},
	GoalDebtPayoff:     {Min: 0, Max: 30},
	GoalLegacy:         {Min: 40, Max: 80},
	GoalOther:          {Min: 20, Max: 80},
}

// GoalCategories returns every known category
func GoalCategories() []GoalCategory {
	return []GoalCategory{
		GoalEmergencyFund, GoalRetirement, GoalEducation, GoalHomePurchase,
		GoalWealthBuilding, GoalMajorPurchase, GoalVacation, GoalDebtPayoff,
		GoalLegacy, GoalOther,
	}
}

// Bounds returns the declared allocation range of the category. Unknown
// categories fall back to the "other" range.
func (c GoalCategory) Bounds() AllocationBounds {
	if b, ok := goalCategoryBounds[c]; ok {
		return b
	}
	return goalCategoryBounds[GoalOther]
}

// Valid reports whether the category is known
func (c GoalCategory) Valid() bool {
	_, ok := goalCategoryBounds[c]
	return ok
}

// ParseGoalCategory validates a category name
func ParseGoalCategory(s string) (GoalCategory, error) {
	c := GoalCategory(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownGoalCategory, s)
	}
	return c, nil
}
