package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskCategory_RankAndShift(t *testing.T) {
	tests := []struct {
		name     string
		category RiskCategory
		shift    int
		expected RiskCategory
	}{
		{"one step safer", RiskModerate, -1, RiskModerateConservative},
		{"one step riskier", RiskModerate, 1, RiskModerateAggressive},
		{"saturates at conservative", RiskConservative, -1, RiskConservative},
		{"saturates at aggressive", RiskAggressive, 2, RiskAggressive},
		{"no shift", RiskModerateAggressive, 0, RiskModerateAggressive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.category.Shift(tt.shift))
		})
	}

	for i, c := range RiskCategories {
		assert.Equal(t, i, c.Rank())
	}
	assert.Equal(t, -1, RiskCategory("reckless").Rank())
}

func TestParseRiskCategory(t *testing.T) {
	c, err := ParseRiskCategory("moderate")
	require.NoError(t, err)
	assert.Equal(t, RiskModerate, c)

	_, err = ParseRiskCategory("yolo")
	assert.True(t, errors.Is(err, ErrUnknownRiskCategory))
}

func TestPriorityFromImportance(t *testing.T) {
	assert.Equal(t, PriorityHigh, PriorityFromImportance(10))
	assert.Equal(t, PriorityHigh, PriorityFromImportance(8))
	assert.Equal(t, PriorityMedium, PriorityFromImportance(7))
	assert.Equal(t, PriorityMedium, PriorityFromImportance(5))
	assert.Equal(t, PriorityLow, PriorityFromImportance(4))
	assert.Equal(t, PriorityLow, PriorityFromImportance(1))
}

func TestFinancialGoal_EffectiveValues(t *testing.T) {
	goal := FinancialGoal{RiskAllocation: 70, MonthlyContribution: 500}
	assert.Equal(t, 70.0, goal.EffectiveRiskAllocation())
	assert.Equal(t, 500.0, goal.EffectiveMonthlyContribution())

	alloc, contribution := 55.0, 800.0
	goal.RiskAllocationOverride = &alloc
	goal.MonthlyContributionOverride = &contribution
	assert.Equal(t, 55.0, goal.EffectiveRiskAllocation())
	assert.Equal(t, 800.0, goal.EffectiveMonthlyContribution())
}

func TestGoalCategoryBounds(t *testing.T) {
	assert.Equal(t, AllocationBounds{Min: 0, Max: 20}, GoalEmergencyFund.Bounds())
	assert.Equal(t, AllocationBounds{Min: 60, Max: 90}, GoalRetirement.Bounds())
	assert.Equal(t, GoalOther.Bounds(), GoalCategory("spaceship").Bounds())

	for _, c := range GoalCategories() {
		b := c.Bounds()
		assert.LessOrEqual(t, b.Min, b.Max, string(c))
		assert.True(t, c.Valid())
	}

	_, err := ParseGoalCategory("spaceship")
	assert.ErrorIs(t, err, ErrUnknownGoalCategory)
}

func TestAllocationBounds_Clamp(t *testing.T) {
	b := AllocationBounds{Min: 20, Max: 60}
	assert.Equal(t, 20.0, b.Clamp(-5))
	assert.Equal(t, 60.0, b.Clamp(99))
	assert.Equal(t, 42.0, b.Clamp(42))
	assert.True(t, b.Contains(20))
	assert.False(t, b.Contains(60.01))
}

func TestAssetAllocation_Validate(t *testing.T) {
	valid := AssetAllocation{
		Stocks:       StockAllocation{Domestic: 30, International: 15, Emerging: 5},
		Bonds:        BondAllocation{Government: 20, Corporate: 15, International: 5},
		RealEstate:   5,
		Alternatives: 3,
		Cash:         2,
	}
	assert.InDelta(t, 100.0, valid.Total(), 1e-9)
	assert.NoError(t, valid.Validate())

	within := valid
	within.Cash = 2.8
	assert.NoError(t, within.Validate())

	broken := valid
	broken.Cash = 10
	err := broken.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNonNormalizedAllocation)
	// Validate must report, not repair
	assert.Equal(t, 10.0, broken.Cash)
}

func TestESGImportance_Applies(t *testing.T) {
	assert.False(t, ESGImportance("").Applies())
	assert.False(t, ESGNotImportant.Applies())
	assert.True(t, ESGSomewhatImportant.Applies())
	assert.True(t, ESGVeryImportant.Applies())
}

func TestRecommendationSet_All(t *testing.T) {
	set := RecommendationSet{Primary: PortfolioRecommendation{Kind: RecommendationPrimary}}
	assert.Len(t, set.All(), 1)

	set.GrowthAlternative = &PortfolioRecommendation{Kind: RecommendationGrowth}
	all := set.All()
	require.Len(t, all, 2)
	assert.Equal(t, RecommendationGrowth, all[1].Kind)
}
