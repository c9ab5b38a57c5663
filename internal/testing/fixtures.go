package testing

import (
	"time"

	"github.com/aristath/wealthplan/internal/domain"
	"github.com/aristath/wealthplan/internal/modules/goals"
	"github.com/aristath/wealthplan/internal/modules/scoring"
)

// FixedNow is the reference clock used by fixtures
var FixedNow = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// Clock returns FixedNow
func Clock() time.Time { return FixedNow }

// NewClientFixture returns a mid-career investor with one dependent
func NewClientFixture() domain.ClientInformation {
	return domain.ClientInformation{
		Age:                    35,
		AnnualIncome:           120000,
		AnnualExpenses:         60000,
		LiquidAssets:           40000,
		TotalDebt:              20000,
		Dependents:             1,
		InvestmentHorizonYears: 25,
	}
}

// NewResponsesFixture returns a fully answered questionnaire
func NewResponsesFixture() scoring.Responses {
	return scoring.Responses{
		Values: map[string]float64{
			scoring.FactorLossAversion:         4,
			scoring.FactorInvestmentExperience: 7,
			scoring.FactorIncomeStability:      8,
			scoring.FactorDiscipline:           8,
			scoring.FactorEmotionalTrading:     3,
			scoring.FactorOverconfidence:       4,
			scoring.FactorHerding:              3,
		},
		Choices: map[string]string{
			scoring.FactorVolatilityComfort:     "high",
			scoring.FactorMarketDeclineReaction: "hold",
		},
		Percentages: map[string]float64{
			scoring.FactorMaxDrawdownTolerance: 30,
		},
	}
}

// NewGoalInputFixtures returns a retirement, an emergency fund and a home
// purchase goal dated from FixedNow.
func NewGoalInputFixtures() []goals.GoalInput {
	return []goals.GoalInput{
		{
			Name:          "Retirement",
			Category:      domain.GoalRetirement,
			TargetAmount:  1000000,
			CurrentAmount: 50000,
			TargetDate:    FixedNow.AddDate(30, 0, 0),
			Importance:    9,
		},
		{
			Name:          "Emergency Fund",
			Category:      domain.GoalEmergencyFund,
			TargetAmount:  20000,
			CurrentAmount: 5000,
			TargetDate:    FixedNow.AddDate(1, 0, 0),
			Importance:    10,
		},
		{
			Name:          "House",
			Category:      domain.GoalHomePurchase,
			TargetAmount:  80000,
			CurrentAmount: 10000,
			TargetDate:    FixedNow.AddDate(5, 0, 0),
			Importance:    7,
		},
	}
}
