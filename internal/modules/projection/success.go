package projection

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aristath/wealthplan/internal/domain"
	"github.com/aristath/wealthplan/pkg/formulas"
)

const (
	// NoGoalsProbability is reported when there is nothing to succeed at
	NoGoalsProbability = 0.8
	// MaxSuccessProbability caps every estimate
	MaxSuccessProbability = 0.95
)

// Estimator names accepted by NewEstimator
const (
	EstimatorHeuristic  = "heuristic"
	EstimatorMonteCarlo = "monte-carlo"
)

// SuccessEstimator turns an expected return, volatility and goal set into a
// probability in [0, MaxSuccessProbability].
type SuccessEstimator interface {
	Name() string
	Estimate(expectedReturn, volatility float64, goals []domain.FinancialGoal) float64
}

// NewEstimator returns the estimator registered under name. Unknown names
// fall back to the heuristic.
func NewEstimator(name string, trials int, seed uint64) SuccessEstimator {
	if name == EstimatorMonteCarlo {
		return NewMonteCarloEstimator(trials, seed)
	}
	return NewHeuristicEstimator()
}

// AverageHorizon returns the mean time horizon of the goals in years
func AverageHorizon(goals []domain.FinancialGoal) float64 {
	horizons := make([]float64, 0, len(goals))
	for _, g := range goals {
		horizons = append(horizons, g.TimeHorizon)
	}
	return formulas.Mean(horizons)
}

// HeuristicEstimator is the closed-form proxy
//
//	min(0.95, 0.5 + ((1+r)^avgHorizon - penalty*vol) * 0.1)
//
// It is not a simulation.
type HeuristicEstimator struct {
	VolatilityPenalty float64
	Scale             float64
}

// NewHeuristicEstimator returns the heuristic with its standard constants
func NewHeuristicEstimator() *HeuristicEstimator {
	return &HeuristicEstimator{VolatilityPenalty: 0.5, Scale: 0.1}
}

func (h *HeuristicEstimator) Name() string { return EstimatorHeuristic }

func (h *HeuristicEstimator) Estimate(expectedReturn, volatility float64, goals []domain.FinancialGoal) float64 {
	if len(goals) == 0 {
		return NoGoalsProbability
	}
	growth := formulas.CompoundGrowth(expectedReturn, AverageHorizon(goals))
	p := 0.5 + (growth-volatility*h.VolatilityPenalty)*h.Scale
	return formulas.Clamp(p, 0, MaxSuccessProbability)
}

// MonteCarloEstimator simulates yearly normal returns for every goal, adding
// twelve months of the goal's effective contribution each year, and counts
// the share of paths that end at or above the target.
type MonteCarloEstimator struct {
	Trials int
	Seed   uint64
}

// DefaultTrials is the path count used when none is configured
const DefaultTrials = 2000

// NewMonteCarloEstimator creates a seeded simulator. The same seed always
// yields the same estimate.
func NewMonteCarloEstimator(trials int, seed uint64) *MonteCarloEstimator {
	if trials <= 0 {
		trials = DefaultTrials
	}
	return &MonteCarloEstimator{Trials: trials, Seed: seed}
}

func (m *MonteCarloEstimator) Name() string { return EstimatorMonteCarlo }

func (m *MonteCarloEstimator) Estimate(expectedReturn, volatility float64, goals []domain.FinancialGoal) float64 {
	if len(goals) == 0 {
		return NoGoalsProbability
	}
	if volatility < 0 || math.IsNaN(volatility) {
		volatility = 0
	}

	dist := distuv.Normal{
		Mu:    expectedReturn,
		Sigma: volatility,
		Src:   rand.NewPCG(m.Seed, m.Seed^0x9e3779b97f4a7c15),
	}

	paths, hits := 0, 0
	for _, g := range goals {
		if g.TargetAmount <= 0 {
			continue
		}
		years := int(math.Ceil(g.TimeHorizon))
		if years < 1 {
			years = 1
		}
		yearly := g.EffectiveMonthlyContribution() * 12
		for trial := 0; trial < m.Trials; trial++ {
			balance := g.CurrentAmount
			for y := 0; y < years; y++ {
				balance = balance*(1+dist.Rand()) + yearly
			}
			paths++
			if balance >= g.TargetAmount {
				hits++
			}
		}
	}
	if paths == 0 {
		return NoGoalsProbability
	}
	return formulas.Clamp(float64(hits)/float64(paths), 0, MaxSuccessProbability)
}
