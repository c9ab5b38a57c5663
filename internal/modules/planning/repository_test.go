package planning

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/wealthplan/internal/domain"
	testhelpers "github.com/aristath/wealthplan/internal/testing"
)

var repoNow = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func repositories(t *testing.T) map[string]Repository {
	t.Helper()
	db, cleanup := testhelpers.NewTestDB(t, "planning_repo")
	t.Cleanup(cleanup)

	log := zerolog.Nop()
	return map[string]Repository{
		"sqlite":   NewSQLiteRepository(db.Conn(), log),
		"inmemory": NewInMemoryRepository(log),
	}
}

func samplePlan(id string) *Plan {
	return &Plan{
		ID:   id,
		Name: "Household",
		Client: &domain.ClientInformation{
			Age:          40,
			AnnualIncome: 90000,
			Dependents:   2,
		},
		Preferences: domain.InvestmentPreferences{
			ESGImportance: domain.ESGImportant,
			Geographic:    &domain.GeographicPreference{Domestic: 60, International: 30, Emerging: 10},
		},
		CreatedAt: repoNow,
		UpdatedAt: repoNow,
	}
}

func sampleGoal(planID, id string, created time.Time) domain.FinancialGoal {
	override := 1200.0
	return domain.FinancialGoal{
		ID:                          id,
		PlanID:                      planID,
		Name:                        "Goal " + id,
		Category:                    domain.GoalEducation,
		TargetAmount:                100000,
		CurrentAmount:               5000,
		TargetDate:                  repoNow.AddDate(10, 0, 0),
		TimeHorizon:                 10,
		Importance:                  7,
		Priority:                    domain.PriorityMedium,
		RiskAllocation:              55.5,
		MonthlyContribution:         610.25,
		MonthlyContributionOverride: &override,
		Diagnostics:                 []domain.Diagnostic{{Code: domain.DiagAllocationClamped, Message: "clamped"}},
		CreatedAt:                   created,
		UpdatedAt:                   created,
	}
}

func TestRepository_PlanLifecycle(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, repo.CreatePlan(ctx, samplePlan("plan-1")))

			got, err := repo.GetPlan(ctx, "plan-1")
			require.NoError(t, err)
			assert.Equal(t, "Household", got.Name)
			require.NotNil(t, got.Client)
			assert.Equal(t, 2, got.Client.Dependents)
			require.NotNil(t, got.Preferences.Geographic)
			assert.Equal(t, 60.0, got.Preferences.Geographic.Domestic)
			assert.Nil(t, got.Profile)
			assert.True(t, got.CreatedAt.Equal(repoNow))

			got.Profile = &domain.RiskProfile{
				OverallRiskScore:    6.2,
				OverallRiskScore100: 62,
				RiskCategory:        domain.RiskModerate,
				ConfidenceLevel:     85,
				Recommendations:     []string{"Stay the course"},
			}
			require.NoError(t, repo.UpdatePlan(ctx, got))

			again, err := repo.GetPlan(ctx, "plan-1")
			require.NoError(t, err)
			require.NotNil(t, again.Profile)
			assert.Equal(t, domain.RiskModerate, again.Profile.RiskCategory)
			assert.Equal(t, []string{"Stay the course"}, again.Profile.Recommendations)

			plans, err := repo.ListPlans(ctx)
			require.NoError(t, err)
			assert.Len(t, plans, 1)

			_, err = repo.GetPlan(ctx, "missing")
			assert.ErrorIs(t, err, domain.ErrPlanNotFound)
			assert.ErrorIs(t, repo.UpdatePlan(ctx, samplePlan("missing")), domain.ErrPlanNotFound)
		})
	}
}

func TestRepository_Goals(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.CreatePlan(ctx, samplePlan("plan-1")))

			require.NoError(t, repo.SaveGoal(ctx, sampleGoal("plan-1", "goal-2", repoNow.Add(time.Hour))))
			require.NoError(t, repo.SaveGoal(ctx, sampleGoal("plan-1", "goal-1", repoNow)))

			g, err := repo.GetGoal(ctx, "plan-1", "goal-1")
			require.NoError(t, err)
			assert.Equal(t, domain.GoalEducation, g.Category)
			assert.Equal(t, 55.5, g.RiskAllocation)
			assert.Nil(t, g.RiskAllocationOverride)
			require.NotNil(t, g.MonthlyContributionOverride)
			assert.Equal(t, 1200.0, *g.MonthlyContributionOverride)
			assert.Equal(t, 1200.0, g.EffectiveMonthlyContribution())
			require.Len(t, g.Diagnostics, 1)
			assert.True(t, g.TargetDate.Equal(repoNow.AddDate(10, 0, 0)))

			list, err := repo.ListGoals(ctx, "plan-1")
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "goal-1", list[0].ID)
			assert.Equal(t, "goal-2", list[1].ID)

			// Replace in place
			g.Name = "Renamed"
			require.NoError(t, repo.SaveGoal(ctx, g))
			g, err = repo.GetGoal(ctx, "plan-1", "goal-1")
			require.NoError(t, err)
			assert.Equal(t, "Renamed", g.Name)

			require.NoError(t, repo.DeleteGoal(ctx, "plan-1", "goal-2"))
			assert.ErrorIs(t, repo.DeleteGoal(ctx, "plan-1", "goal-2"), domain.ErrGoalNotFound)
			_, err = repo.GetGoal(ctx, "plan-1", "goal-2")
			assert.ErrorIs(t, err, domain.ErrGoalNotFound)

			// A goal cannot be orphaned from its plan
			err = repo.SaveGoal(ctx, sampleGoal("no-such-plan", "goal-9", repoNow))
			assert.ErrorIs(t, err, domain.ErrPlanNotFound)
		})
	}
}

func TestRepository_DeletePlanCascades(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.CreatePlan(ctx, samplePlan("plan-1")))
			require.NoError(t, repo.CreatePlan(ctx, samplePlan("plan-2")))
			require.NoError(t, repo.SaveGoal(ctx, sampleGoal("plan-1", "goal-1", repoNow)))
			require.NoError(t, repo.SaveGoal(ctx, sampleGoal("plan-2", "goal-2", repoNow)))
			require.NoError(t, repo.SaveRecommendations(ctx, "plan-1", []domain.PortfolioRecommendation{
				{ID: "rec-1", Kind: domain.RecommendationPrimary, RiskCategory: domain.RiskModerate, GeneratedAt: repoNow},
			}))

			require.NoError(t, repo.DeletePlan(ctx, "plan-1"))

			_, err := repo.GetPlan(ctx, "plan-1")
			assert.ErrorIs(t, err, domain.ErrPlanNotFound)

			all, err := repo.ListAllGoals(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1)
			assert.Equal(t, "goal-2", all[0].ID)

			recs, err := repo.ListRecommendations(ctx, "plan-1", 0)
			require.NoError(t, err)
			assert.Empty(t, recs)

			assert.ErrorIs(t, repo.DeletePlan(ctx, "plan-1"), domain.ErrPlanNotFound)
		})
	}
}

func TestRepository_RecommendationSnapshots(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.CreatePlan(ctx, samplePlan("plan-1")))

			older := domain.PortfolioRecommendation{
				ID:           "rec-old",
				Kind:         domain.RecommendationPrimary,
				RiskCategory: domain.RiskModerate,
				GeneratedAt:  repoNow,
			}
			newer := domain.PortfolioRecommendation{
				ID:               "rec-new",
				Kind:             domain.RecommendationGrowth,
				RiskCategory:     domain.RiskModerateAggressive,
				ReturnMultiplier: 1.2,
				RecommendedAllocation: domain.AssetAllocation{
					Stocks:         domain.StockAllocation{Domestic: 40, International: 20, Emerging: 10},
					Bonds:          domain.BondAllocation{Government: 10, Corporate: 10},
					RealEstate:     5,
					Alternatives:   3,
					Cash:           2,
					ExpectedReturn: 0.084,
				},
				RiskMetrics: domain.RiskMetrics{
					Volatility:    0.15,
					SharpeRatio:   0.56,
					SharpeDefined: true,
					ValueAtRisk:   domain.ValueAtRisk{OneDay: 0.022, OneMonth: 0.1, OneYear: 0.35},
				},
				PerformanceProjections: []domain.PerformanceProjection{{
					HorizonYears: 5,
					Scenarios:    []domain.Scenario{{Name: "expected", AnnualReturn: 0.084, Probability: 0.8}},
				}},
				KeyFeatures: []string{"Growth-oriented equity core"},
				GeneratedAt: repoNow.Add(time.Minute),
			}
			require.NoError(t, repo.SaveRecommendations(ctx, "plan-1", []domain.PortfolioRecommendation{older}))
			require.NoError(t, repo.SaveRecommendations(ctx, "plan-1", []domain.PortfolioRecommendation{newer}))

			recs, err := repo.ListRecommendations(ctx, "plan-1", 0)
			require.NoError(t, err)
			require.Len(t, recs, 2)
			assert.Equal(t, "rec-new", recs[0].ID)
			assert.Equal(t, "rec-old", recs[1].ID)

			got := recs[0]
			assert.Equal(t, domain.RecommendationGrowth, got.Kind)
			assert.Equal(t, 70.0, got.RecommendedAllocation.Stocks.Total())
			assert.True(t, got.RiskMetrics.SharpeDefined)
			assert.Equal(t, 0.35, got.RiskMetrics.ValueAtRisk.OneYear)
			require.Len(t, got.PerformanceProjections, 1)
			assert.Equal(t, "expected", got.PerformanceProjections[0].Scenarios[0].Name)
			assert.Equal(t, []string{"Growth-oriented equity core"}, got.KeyFeatures)
			assert.True(t, got.GeneratedAt.Equal(repoNow.Add(time.Minute)))

			limited, err := repo.ListRecommendations(ctx, "plan-1", 1)
			require.NoError(t, err)
			require.Len(t, limited, 1)
			assert.Equal(t, "rec-new", limited[0].ID)
		})
	}
}

func TestRepository_PruneRecommendations(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.CreatePlan(ctx, samplePlan("plan-a")))
			require.NoError(t, repo.CreatePlan(ctx, samplePlan("plan-b")))

			rec := func(id string, at time.Time) domain.PortfolioRecommendation {
				return domain.PortfolioRecommendation{ID: id, Kind: domain.RecommendationPrimary, GeneratedAt: at}
			}
			old := repoNow.AddDate(0, -6, 0)
			require.NoError(t, repo.SaveRecommendations(ctx, "plan-a", []domain.PortfolioRecommendation{
				rec("a-1", old), rec("a-2", old.Add(time.Hour)), rec("a-3", repoNow),
			}))
			// plan-b only has stale runs; its newest one survives
			require.NoError(t, repo.SaveRecommendations(ctx, "plan-b", []domain.PortfolioRecommendation{
				rec("b-1", old), rec("b-2", old.Add(time.Hour)),
			}))

			pruned, err := repo.PruneRecommendations(ctx, repoNow.AddDate(0, -1, 0))
			require.NoError(t, err)
			assert.Equal(t, 3, pruned)

			a, err := repo.ListRecommendations(ctx, "plan-a", 0)
			require.NoError(t, err)
			require.Len(t, a, 1)
			assert.Equal(t, "a-3", a[0].ID)

			b, err := repo.ListRecommendations(ctx, "plan-b", 0)
			require.NoError(t, err)
			require.Len(t, b, 1)
			assert.Equal(t, "b-2", b[0].ID)

			pruned, err = repo.PruneRecommendations(ctx, repoNow.AddDate(0, -1, 0))
			require.NoError(t, err)
			assert.Zero(t, pruned)
		})
	}
}

func TestSnapshotRoundTripKeepsNilAlternatives(t *testing.T) {
	rec := domain.PortfolioRecommendation{
		ID:          "rec-1",
		Kind:        domain.RecommendationPrimary,
		GeneratedAt: repoNow,
		Diagnostics: []domain.Diagnostic{{Code: domain.DiagSharpeUndefined, Message: "zero volatility"}},
	}
	data, err := EncodeSnapshot(rec)
	require.NoError(t, err)

	back, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, back.ID)
	assert.Equal(t, rec.Diagnostics, back.Diagnostics)
	assert.True(t, back.GeneratedAt.Equal(repoNow))

	_, err = DecodeSnapshot([]byte{0xc1})
	assert.Error(t, err)
}
