package goals

import (
	"testing"
	"time"

	"github.com/aristath/wealthplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestRequiredMonthlyContribution(t *testing.T) {
	t.Run("seven percent over ten years", func(t *testing.T) {
		got, err := RequiredMonthlyContribution(120000, 0, 120, 0.07)
		require.NoError(t, err)
		assert.InDelta(t, 693.3, got, 1.0)
	})

	t.Run("zero return is linear", func(t *testing.T) {
		got, err := RequiredMonthlyContribution(120000, 0, 120, 0)
		require.NoError(t, err)
		assert.Equal(t, 1000.0, got)
	})

	t.Run("current savings reduce payment", func(t *testing.T) {
		none, err := RequiredMonthlyContribution(120000, 0, 120, 0.05)
		require.NoError(t, err)
		some, err := RequiredMonthlyContribution(120000, 20000, 120, 0.05)
		require.NoError(t, err)
		assert.Less(t, some, none)
	})

	t.Run("overfunded goal needs nothing", func(t *testing.T) {
		got, err := RequiredMonthlyContribution(10000, 50000, 60, 0.05)
		require.NoError(t, err)
		assert.Equal(t, 0.0, got)
	})

	t.Run("zero months is invalid", func(t *testing.T) {
		_, err := RequiredMonthlyContribution(10000, 0, 0, 0.05)
		assert.ErrorIs(t, err, domain.ErrInvalidHorizon)
	})
}

func TestAssumedAnnualReturn(t *testing.T) {
	assert.InDelta(t, 0.02, AssumedAnnualReturn(0), 1e-12)
	assert.InDelta(t, 0.06, AssumedAnnualReturn(50), 1e-12)
	assert.InDelta(t, 0.10, AssumedAnnualReturn(100), 1e-12)
	assert.InDelta(t, 0.10, AssumedAnnualReturn(150), 1e-12)
}

func TestMonthsAndYearsUntil(t *testing.T) {
	months, err := MonthsUntil(fixedNow, fixedNow.AddDate(0, 0, 45))
	require.NoError(t, err)
	assert.Equal(t, 2, months)

	years, err := YearsUntil(fixedNow, fixedNow.AddDate(5, 0, 0))
	require.NoError(t, err)
	assert.InDelta(t, 5.0, years, 0.01)

	_, err = MonthsUntil(fixedNow, fixedNow)
	assert.ErrorIs(t, err, domain.ErrInvalidHorizon)

	_, err = YearsUntil(fixedNow, fixedNow.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, domain.ErrInvalidHorizon)
}

func TestHorizonUsesCalendarDates(t *testing.T) {
	morning := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	athens := time.FixedZone("EEST", 3*60*60)

	tests := []struct {
		name    string
		target  time.Time
		wantErr bool
		months  int
	}{
		{"later the same day", time.Date(2026, 10, 14, 23, 0, 0, 0, time.UTC), true, 0},
		{"earlier the same day", time.Date(2026, 10, 14, 1, 0, 0, 0, time.UTC), true, 0},
		{"same day in another zone", time.Date(2026, 10, 14, 20, 0, 0, 0, athens), true, 0},
		{"first hour of tomorrow", time.Date(2026, 10, 15, 0, 30, 0, 0, time.UTC), false, 1},
		{"tomorrow morning", time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC), false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			months, err := MonthsUntil(morning, tt.target)
			_, yearsErr := YearsUntil(morning, tt.target)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidHorizon)
				assert.ErrorIs(t, yearsErr, domain.ErrInvalidHorizon)
				return
			}
			require.NoError(t, err)
			require.NoError(t, yearsErr)
			assert.Equal(t, tt.months, months)
		})
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$1,234.56", FormatMoney(1234.564))
	assert.Equal(t, "$0.00", FormatMoney(0))
	assert.Equal(t, "$1,000,000.00", FormatMoney(1e6))
	assert.Equal(t, "-$12.50", FormatMoney(-12.5))
	assert.Equal(t, 693.35, RoundCents(693.349999))
}

func TestOptimalRiskAllocationStaysInBounds(t *testing.T) {
	for _, category := range domain.GoalCategories() {
		bounds := category.Bounds()
		for _, horizon := range []float64{0.5, 5, 20, 40} {
			for score := 0.0; score <= 100; score += 10 {
				for importance := 1; importance <= 10; importance++ {
					got := OptimalRiskAllocation(AllocationInput{
						Category:    category,
						TimeHorizon: horizon,
						Importance:  importance,
					}, score)
					assert.True(t, bounds.Contains(got), "%s h=%v s=%v i=%d got %v", category, horizon, score, importance, got)
				}
			}
		}
	}
}

func TestOptimalRiskAllocationRetirement(t *testing.T) {
	in := AllocationInput{Category: domain.GoalRetirement, TimeHorizon: 30, Importance: 9}

	aggressive := OptimalRiskAllocation(in, 75)
	cautious := OptimalRiskAllocation(in, 20)

	assert.InDelta(t, 83.6, aggressive, 0.05)
	assert.InDelta(t, 67.1, cautious, 0.05)
	assert.Greater(t, aggressive, cautious)
}

func TestOptimalRiskAllocationMonotonicInScore(t *testing.T) {
	in := AllocationInput{Category: domain.GoalWealthBuilding, TimeHorizon: 12, Importance: 6}
	prev := -1.0
	for score := 0.0; score <= 100; score += 5 {
		got := OptimalRiskAllocation(in, score)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

func TestCalculatorNewGoal(t *testing.T) {
	calc := NewCalculator(fixedClock)

	g, err := calc.NewGoal("goal-1", "plan-1", GoalInput{
		Name:         "Retirement",
		Category:     domain.GoalRetirement,
		TargetAmount: 1000000,
		TargetDate:   fixedNow.AddDate(30, 0, 0),
		Importance:   9,
	}, 75)
	require.NoError(t, err)

	assert.Equal(t, "goal-1", g.ID)
	assert.Equal(t, "plan-1", g.PlanID)
	assert.InDelta(t, 30, g.TimeHorizon, 0.01)
	assert.Equal(t, domain.PriorityHigh, g.Priority)
	assert.False(t, g.PriorityOverride)
	assert.InDelta(t, 83.6, g.RiskAllocation, 0.05)
	assert.Greater(t, g.MonthlyContribution, 0.0)
	assert.Empty(t, g.Diagnostics)
	assert.Equal(t, fixedNow, g.CreatedAt)
}

func TestCalculatorNewGoalClampDiagnostic(t *testing.T) {
	calc := NewCalculator(fixedClock)

	g, err := calc.NewGoal("goal-1", "plan-1", GoalInput{
		Name:         "Rainy day",
		Category:     domain.GoalEmergencyFund,
		TargetAmount: 20000,
		TargetDate:   fixedNow.AddDate(1, 0, 0),
		Importance:   10,
	}, 100)
	require.NoError(t, err)

	assert.Equal(t, 20.0, g.RiskAllocation)
	require.Len(t, g.Diagnostics, 1)
	assert.Equal(t, domain.DiagAllocationClamped, g.Diagnostics[0].Code)
}

func TestCalculatorNewGoalValidation(t *testing.T) {
	calc := NewCalculator(fixedClock)
	valid := GoalInput{
		Name:         "Car",
		Category:     domain.GoalMajorPurchase,
		TargetAmount: 30000,
		TargetDate:   fixedNow.AddDate(3, 0, 0),
		Importance:   5,
	}

	tests := []struct {
		name   string
		mutate func(*GoalInput)
		target error
	}{
		{"missing name", func(in *GoalInput) { in.Name = " " }, domain.ErrInvalidGoal},
		{"zero target", func(in *GoalInput) { in.TargetAmount = 0 }, domain.ErrInvalidGoal},
		{"negative current", func(in *GoalInput) { in.CurrentAmount = -1 }, domain.ErrInvalidGoal},
		{"importance too high", func(in *GoalInput) { in.Importance = 11 }, domain.ErrInvalidGoal},
		{"unknown category", func(in *GoalInput) { in.Category = "yacht" }, domain.ErrUnknownGoalCategory},
		{"past date", func(in *GoalInput) { in.TargetDate = fixedNow.AddDate(-1, 0, 0) }, domain.ErrInvalidHorizon},
		{"today", func(in *GoalInput) { in.TargetDate = fixedNow }, domain.ErrInvalidHorizon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := calc.NewGoal("goal-1", "plan-1", in, 50)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func newTestGoal(t *testing.T, calc *Calculator) domain.FinancialGoal {
	t.Helper()
	g, err := calc.NewGoal("goal-1", "plan-1", GoalInput{
		Name:          "House",
		Category:      domain.GoalHomePurchase,
		TargetAmount:  80000,
		CurrentAmount: 10000,
		TargetDate:    fixedNow.AddDate(5, 0, 0),
		Importance:    7,
	}, 50)
	require.NoError(t, err)
	return g
}

func TestCalculatorUpdateSelectiveRecompute(t *testing.T) {
	calc := NewCalculator(fixedClock)

	t.Run("name only", func(t *testing.T) {
		g := newTestGoal(t, calc)
		name := "Beach house"
		updated, rec, err := calc.Update(g, GoalPatch{Name: &name}, 50)
		require.NoError(t, err)
		assert.Equal(t, Recomputed{}, rec)
		assert.Equal(t, "Beach house", updated.Name)
		assert.Equal(t, g.MonthlyContribution, updated.MonthlyContribution)
		assert.Equal(t, g.RiskAllocation, updated.RiskAllocation)
	})

	t.Run("target amount refreshes contribution only", func(t *testing.T) {
		g := newTestGoal(t, calc)
		target := 120000.0
		updated, rec, err := calc.Update(g, GoalPatch{TargetAmount: &target}, 50)
		require.NoError(t, err)
		assert.True(t, rec.MonthlyContribution)
		assert.False(t, rec.RiskAllocation)
		assert.Greater(t, updated.MonthlyContribution, g.MonthlyContribution)
		assert.Equal(t, g.RiskAllocation, updated.RiskAllocation)
	})

	t.Run("importance refreshes allocation and contribution", func(t *testing.T) {
		g := newTestGoal(t, calc)
		importance := 2
		updated, rec, err := calc.Update(g, GoalPatch{Importance: &importance}, 50)
		require.NoError(t, err)
		assert.True(t, rec.RiskAllocation)
		assert.True(t, rec.MonthlyContribution)
		assert.Greater(t, updated.RiskAllocation, g.RiskAllocation)
		assert.Equal(t, domain.PriorityLow, updated.Priority)
	})

	t.Run("target date refreshes horizon", func(t *testing.T) {
		g := newTestGoal(t, calc)
		date := fixedNow.AddDate(10, 0, 0)
		updated, rec, err := calc.Update(g, GoalPatch{TargetDate: &date}, 50)
		require.NoError(t, err)
		assert.True(t, rec.TimeHorizon)
		assert.True(t, rec.RiskAllocation)
		assert.InDelta(t, 10, updated.TimeHorizon, 0.01)
		assert.Less(t, updated.MonthlyContribution, g.MonthlyContribution)
	})

	t.Run("past target date is rejected", func(t *testing.T) {
		g := newTestGoal(t, calc)
		date := fixedNow.AddDate(0, -1, 0)
		unchanged, _, err := calc.Update(g, GoalPatch{TargetDate: &date}, 50)
		assert.ErrorIs(t, err, domain.ErrInvalidHorizon)
		assert.Equal(t, g, unchanged)
	})
}

func TestCalculatorOverrides(t *testing.T) {
	calc := NewCalculator(fixedClock)
	g := newTestGoal(t, calc)

	override := 55.0
	updated, rec, err := calc.Update(g, GoalPatch{RiskAllocationOverride: &override}, 50)
	require.NoError(t, err)
	assert.True(t, rec.MonthlyContribution)
	assert.Equal(t, 55.0, updated.EffectiveRiskAllocation())
	assert.Equal(t, g.RiskAllocation, updated.RiskAllocation)

	contribution := 500.0
	updated, _, err = calc.Update(updated, GoalPatch{MonthlyContributionOverride: &contribution}, 50)
	require.NoError(t, err)
	assert.Equal(t, 500.0, updated.EffectiveMonthlyContribution())
	assert.NotEqual(t, 500.0, updated.MonthlyContribution)

	updated, _, err = calc.Update(updated, GoalPatch{ClearRiskAllocationOverride: true, ClearMonthlyContributionOverride: true}, 50)
	require.NoError(t, err)
	assert.Nil(t, updated.RiskAllocationOverride)
	assert.Nil(t, updated.MonthlyContributionOverride)
	assert.Equal(t, g.MonthlyContribution, updated.MonthlyContribution)

	bad := 140.0
	_, _, err = calc.Update(updated, GoalPatch{RiskAllocationOverride: &bad}, 50)
	assert.ErrorIs(t, err, domain.ErrInvalidGoal)
}

func TestCalculatorPriorityOverride(t *testing.T) {
	calc := NewCalculator(fixedClock)
	g := newTestGoal(t, calc)

	low := domain.PriorityLow
	updated, _, err := calc.Update(g, GoalPatch{Priority: &low}, 50)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityLow, updated.Priority)
	assert.True(t, updated.PriorityOverride)

	importance := 9
	updated, _, err = calc.Update(updated, GoalPatch{Importance: &importance}, 50)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityLow, updated.Priority)
}

func TestCalculatorRecomputeIsIdempotent(t *testing.T) {
	calc := NewCalculator(fixedClock)
	g := newTestGoal(t, calc)

	once, err := calc.Recompute(g, 80)
	require.NoError(t, err)
	twice, err := calc.Recompute(once, 80)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.GreaterOrEqual(t, once.RiskAllocation, g.RiskAllocation)
}

func TestCalculatorRecomputeAfterTimePasses(t *testing.T) {
	g := newTestGoal(t, NewCalculator(fixedClock))

	later := NewCalculator(func() time.Time { return fixedNow.AddDate(2, 0, 0) })
	updated, err := later.Recompute(g, 50)
	require.NoError(t, err)
	assert.InDelta(t, 3, updated.TimeHorizon, 0.01)
	assert.Greater(t, updated.MonthlyContribution, g.MonthlyContribution)

	expired := NewCalculator(func() time.Time { return fixedNow.AddDate(6, 0, 0) })
	assert.True(t, expired.IsPastDue(g))
	_, err = expired.Recompute(g, 50)
	assert.True(t, IsInvalidHorizon(err))
}

func TestTemplates(t *testing.T) {
	all := Templates()
	require.Len(t, all, 4)
	assert.Equal(t, "education", all[0].Key)

	tpl, err := LookupTemplate("retirement")
	require.NoError(t, err)
	in := tpl.Input(fixedNow)
	assert.Equal(t, domain.GoalRetirement, in.Category)
	assert.Equal(t, fixedNow.AddDate(30, 0, 0), in.TargetDate)

	g, err := NewCalculator(fixedClock).NewGoal("goal-1", "plan-1", in, 60)
	require.NoError(t, err)
	assert.True(t, domain.GoalRetirement.Bounds().Contains(g.RiskAllocation))

	_, err = LookupTemplate("yacht")
	assert.ErrorIs(t, err, domain.ErrInvalidGoal)
}
