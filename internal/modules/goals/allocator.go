package goals

import (
	"math"

	"github.com/aristath/wealthplan/internal/domain"
	"github.com/aristath/wealthplan/pkg/formulas"
)

// Blend weights of the goal risk allocation
const (
	HorizonWeight    = 0.60
	RiskScoreWeight  = 0.30
	ImportanceWeight = 0.10

	// HorizonCapYears is where the horizon factor saturates
	HorizonCapYears = 20.0
)

// AllocationInput is the subset of a goal the allocator looks at
type AllocationInput struct {
	Category    domain.GoalCategory
	TimeHorizon float64 // years
	Importance  int     // 1-10
}

// InputFromGoal extracts the allocator input of a goal
func InputFromGoal(g domain.FinancialGoal) AllocationInput {
	return AllocationInput{Category: g.Category, TimeHorizon: g.TimeHorizon, Importance: g.Importance}
}

// OptimalRiskAllocation blends horizon, overall risk score (0-100) and an
// importance-inversion factor (a costlier failure takes slightly less risk),
// then clamps the result into the category's declared range.
func OptimalRiskAllocation(in AllocationInput, overallRiskScore float64) float64 {
	allocation, _ := optimalRiskAllocation(in, overallRiskScore)
	return allocation
}

// optimalRiskAllocation also reports whether the blend had to be clamped
func optimalRiskAllocation(in AllocationInput, overallRiskScore float64) (float64, bool) {
	horizon := formulas.Clamp(in.TimeHorizon, 0, HorizonCapYears)
	horizonFactor := horizon / HorizonCapYears * 100

	riskFactor := formulas.Clamp(overallRiskScore, 0, 100)

	importance := formulas.Clamp(float64(in.Importance), 1, 10)
	importanceFactor := (10 - importance) / 9 * 100

	blend := HorizonWeight*horizonFactor + RiskScoreWeight*riskFactor + ImportanceWeight*importanceFactor

	bounds := in.Category.Bounds()
	clamped := bounds.Clamp(blend)
	return roundTenth(clamped), clamped != blend
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
