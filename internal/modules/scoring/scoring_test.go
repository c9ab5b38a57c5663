package scoring

import (
	"math"
	"testing"

	"github.com/aristath/wealthplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVolatilityPreferenceTable(t *testing.T) {
	assert.Equal(t, map[string]float64{"low": 3, "medium": 6, "high": 9}, VolatilityPreference)

	v, ok := Categorical(VolatilityPreference, " Medium ")
	require.True(t, ok)
	assert.Equal(t, 6.0, v)

	_, ok = Categorical(VolatilityPreference, "extreme")
	assert.False(t, ok)
}

func TestNormalizers(t *testing.T) {
	tests := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"scale clamps high", Scale1To10(14), 10},
		{"scale clamps low", Scale1To10(-3), 0},
		{"scale NaN is midpoint", Scale1To10(math.NaN()), Midpoint},
		{"percentage half", Percentage(25, 50), 5},
		{"percentage over max", Percentage(80, 50), 10},
		{"percentage bad max", Percentage(10, 0), Midpoint},
		{"invert high aversion", Invert(10), 1},
		{"invert low aversion", Invert(1), 10},
		{"invert zero clamps", Invert(0), 10},
		{"age 25", AgeCapacity(25), 10},
		{"age 50", AgeCapacity(50), 5},
		{"age 80", AgeCapacity(80), 0},
		{"six months reserve", ReserveMonths(30000, 5000), 5},
		{"two years reserve", ReserveMonths(120000, 5000), 10},
		{"no expenses", ReserveMonths(1000, 0), Midpoint},
		{"no debt", DebtBurden(0, 100000), 10},
		{"heavy debt", DebtBurden(250000, 100000), 0},
		{"debt without income", DebtBurden(1000, 0), 0},
		{"quarter dti", DebtBurden(25000, 100000), 7.5},
		{"no dependents", DependentsCapacity(0), 10},
		{"six dependents", DependentsCapacity(6), 0},
		{"ten year horizon", HorizonYears(10), 5},
		{"long horizon saturates", HorizonYears(40), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.got, 1e-9)
		})
	}
}

func TestWeightSets_Validate(t *testing.T) {
	for _, name := range WeightSetNames() {
		ws, err := LookupWeightSet(name)
		require.NoError(t, err)
		assert.NoError(t, ws.Validate(), name)
	}

	ws, err := LookupWeightSet("")
	require.NoError(t, err)
	assert.Equal(t, DefaultWeightSet, ws.Name)
	assert.Equal(t, AggregateWeights{Tolerance: 0.40, Capacity: 0.35, Behavioral: 0.25}, ws.Aggregate)

	_, err = LookupWeightSet("legacy-v0")
	assert.ErrorIs(t, err, domain.ErrUnknownWeightSet)
}

func TestWeightSet_ValidateRejectsBadSums(t *testing.T) {
	ws := WeightSets[DefaultWeightSet]
	broken := ws
	broken.Behavioral = map[string]float64{FactorDiscipline: 0.5}
	assert.Error(t, broken.Validate())

	unknown := ws
	unknown.Tolerance = map[string]float64{"astrology": 1}
	assert.Error(t, unknown.Validate())
}

func TestScorer_MissingFactorsDefaultToMidpoint(t *testing.T) {
	scorer := NewToleranceScorer(WeightSets[DefaultWeightSet])

	result := scorer.Score(nil)
	assert.Equal(t, Midpoint, result.Score)
	assert.Equal(t, 0, result.Answered)
	assert.Equal(t, len(ToleranceFactors), result.Total)
	assert.Len(t, result.Missing, len(ToleranceFactors))
	assert.False(t, result.Complete())
}

func TestScorer_InvertedFactor(t *testing.T) {
	scorer := NewToleranceScorer(WeightSets[DefaultWeightSet])

	averse := scorer.Score(map[string]float64{FactorLossAversion: 10})
	seeking := scorer.Score(map[string]float64{FactorLossAversion: 1})

	assert.Equal(t, 1.0, averse.Components[FactorLossAversion])
	assert.Equal(t, 10.0, seeking.Components[FactorLossAversion])
	assert.Less(t, averse.Score, seeking.Score)
}

func TestScorer_WeightedScore(t *testing.T) {
	scorer := NewBehavioralScorer(WeightSets[DefaultWeightSet])

	result := scorer.Score(map[string]float64{
		FactorDiscipline:       9,
		FactorEmotionalTrading: 2, // inverted -> 9
		FactorOverconfidence:   3, // inverted -> 8
		FactorHerding:          4, // inverted -> 7
	})

	expected := 9*0.30 + 9*0.30 + 8*0.20 + 7*0.20
	assert.InDelta(t, expected, result.Score, 1e-9)
	assert.True(t, result.Complete())
	assert.Empty(t, result.Missing)
}

func TestScorer_ScoreAlwaysInRange(t *testing.T) {
	scorer := NewCapacityScorer(WeightSets[DefaultWeightSet])
	for _, v := range []float64{-100, 0, 3, 10, 1000} {
		raw := map[string]float64{}
		for _, f := range CapacityFactors {
			raw[f.Name] = v
		}
		result := scorer.Score(raw)
		assert.GreaterOrEqual(t, result.Score, MinScore)
		assert.LessOrEqual(t, result.Score, MaxScore)
	}
}

func TestCategoryForScore_Thresholds(t *testing.T) {
	tests := []struct {
		score    float64
		expected domain.RiskCategory
	}{
		{0, domain.RiskConservative},
		{3.0, domain.RiskConservative},
		{3.01, domain.RiskModerateConservative},
		{4.5, domain.RiskModerateConservative},
		{4.51, domain.RiskModerate},
		{6.5, domain.RiskModerate},
		{6.51, domain.RiskModerateAggressive},
		{8.0, domain.RiskModerateAggressive},
		{8.01, domain.RiskAggressive},
		{10, domain.RiskAggressive},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CategoryForScore(tt.score), "score %.2f", tt.score)
	}
}

func TestCategoryForScore_Monotonic(t *testing.T) {
	prevRank := -1
	for i := 0; i <= 1000; i++ {
		score := float64(i) / 100
		rank := CategoryForScore(score).Rank()
		require.GreaterOrEqual(t, rank, prevRank, "category decreased at score %.2f", score)
		prevRank = rank
	}
	assert.Equal(t, domain.RiskAggressive.Rank(), prevRank)
}

func TestCategoryFloor(t *testing.T) {
	assert.Equal(t, 0.0, CategoryFloor(domain.RiskConservative))
	assert.Equal(t, 4.5, CategoryFloor(domain.RiskModerate))
	assert.Equal(t, 8.0, CategoryFloor(domain.RiskAggressive))
}

func TestAggregator_Confidence(t *testing.T) {
	agg := NewAggregator(WeightSets[DefaultWeightSet])

	assert.Equal(t, 70.0, agg.Confidence(0))
	assert.Equal(t, 75.0, agg.Confidence(1))
	assert.Equal(t, 95.0, agg.Confidence(5))
	assert.Equal(t, 95.0, agg.Confidence(12))
	assert.Equal(t, 70.0, agg.Confidence(-2))

	prev := 0.0
	for n := 0; n <= 10; n++ {
		c := agg.Confidence(n)
		assert.GreaterOrEqual(t, c, prev)
		assert.GreaterOrEqual(t, c, 70.0)
		assert.LessOrEqual(t, c, 95.0)
		prev = c
	}
}

func TestAggregator_Aggregate(t *testing.T) {
	agg := NewAggregator(WeightSets[DefaultWeightSet])

	result := agg.Aggregate(8, 6, 4, 3)
	expected := 8*0.40 + 6*0.35 + 4*0.25
	assert.InDelta(t, expected, result.OverallScore, 0.005)
	assert.InDelta(t, expected*10, result.OverallScore100, 0.05)
	assert.Equal(t, domain.RiskModerate, result.Category)
	assert.Equal(t, 85.0, result.ConfidenceLevel)
}

func fullResponses() Responses {
	return Responses{
		Values: map[string]float64{
			FactorLossAversion:         4,
			FactorInvestmentExperience: 7,
			FactorIncomeStability:      8,
			FactorDiscipline:           8,
			FactorEmotionalTrading:     3,
			FactorOverconfidence:       4,
			FactorHerding:              3,
		},
		Choices: map[string]string{
			FactorVolatilityComfort:     "high",
			FactorMarketDeclineReaction: "hold",
		},
		Percentages: map[string]float64{
			FactorMaxDrawdownTolerance: 30,
		},
	}
}

func testClient() *domain.ClientInformation {
	return &domain.ClientInformation{
		Age:                    35,
		AnnualIncome:           120000,
		AnnualExpenses:         60000,
		LiquidAssets:           40000,
		TotalDebt:              20000,
		Dependents:             1,
		InvestmentHorizonYears: 25,
	}
}

func TestAssessor_CompleteAssessment(t *testing.T) {
	assessor, err := NewAssessorByName(DefaultWeightSet)
	require.NoError(t, err)

	profile := assessor.Assess(Assessment{
		Client:    testClient(),
		Responses: fullResponses(),
		GoalCount: 2,
	})

	assert.Equal(t, 95.0, profile.ConfidenceLevel)
	assert.Empty(t, profile.Diagnostics)
	assert.Equal(t, DefaultWeightSet, profile.WeightSet)
	assert.ElementsMatch(t, []string{SectionPersonal, SectionTolerance, SectionCapacity, SectionBehavioral, SectionGoals}, profile.CompletedSections)
	assert.Equal(t, CategoryForScore(profile.OverallRiskScore), profile.RiskCategory)
	assert.InDelta(t, profile.OverallRiskScore*10, profile.OverallRiskScore100, 0.05)
	assert.NotEmpty(t, profile.Recommendations)
}

func TestAssessor_PartialAssessmentStillScores(t *testing.T) {
	assessor := NewAssessor(WeightSets[DefaultWeightSet])

	profile := assessor.Assess(Assessment{
		Responses: Responses{Choices: map[string]string{FactorVolatilityComfort: "low"}},
	})

	assert.Equal(t, 70.0, profile.ConfidenceLevel)
	assert.Len(t, profile.Diagnostics, 3)
	for _, d := range profile.Diagnostics {
		assert.Equal(t, domain.DiagIncompleteAssessment, d.Code)
	}
	assert.GreaterOrEqual(t, profile.OverallRiskScore, 0.0)
	assert.LessOrEqual(t, profile.OverallRiskScore, 10.0)
	assert.Contains(t, profile.Recommendations, "Complete the remaining assessment sections to improve the accuracy of this profile.")
}

func TestAssessor_ConfidenceGrowsWithSections(t *testing.T) {
	assessor := NewAssessor(WeightSets[DefaultWeightSet])

	none := assessor.Assess(Assessment{})
	withClient := assessor.Assess(Assessment{Client: testClient()})
	withAll := assessor.Assess(Assessment{Client: testClient(), Responses: fullResponses()})

	assert.LessOrEqual(t, none.ConfidenceLevel, withClient.ConfidenceLevel)
	assert.LessOrEqual(t, withClient.ConfidenceLevel, withAll.ConfidenceLevel)
	assert.Equal(t, 90.0, withAll.ConfidenceLevel)
}

func TestAssessor_Deterministic(t *testing.T) {
	assessor := NewAssessor(WeightSets[DefaultWeightSet])
	in := Assessment{Client: testClient(), Responses: fullResponses(), GoalCount: 1}
	assert.Equal(t, assessor.Assess(in), assessor.Assess(in))
}

func TestAssessor_FromSubScores(t *testing.T) {
	assessor := NewAssessor(WeightSets[DefaultWeightSet])

	low := assessor.FromSubScores(1, 2, 2, 4)
	high := assessor.FromSubScores(9.5, 9, 9, 4)

	assert.Equal(t, domain.RiskConservative, low.RiskCategory)
	assert.Equal(t, domain.RiskAggressive, high.RiskCategory)
	assert.Equal(t, 90.0, low.ConfidenceLevel)
}

func TestAdvise_FlagsMismatch(t *testing.T) {
	advice := Advise(domain.RiskProfile{
		ToleranceScore:  9,
		CapacityScore:   3,
		BehavioralScore: 7,
		RiskCategory:    domain.RiskModerate,
		ConfidenceLevel: 95,
	})

	require.GreaterOrEqual(t, len(advice), 3)
	assert.Equal(t, categoryAdvice[domain.RiskModerate], advice[0])
	assert.Contains(t, advice, "Build an emergency reserve of three to six months of expenses before adding risk.")
	assert.Equal(t, "Review this profile annually or after major life events.", advice[len(advice)-1])
}
