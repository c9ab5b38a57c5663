// Package projection compounds expected returns into scenario projections and
// estimates the probability of reaching the investor's goals.
package projection

import (
	"sort"

	"github.com/aristath/wealthplan/internal/domain"
	"github.com/aristath/wealthplan/pkg/formulas"
)

// Scenario names
const (
	ScenarioOptimistic  = "optimistic"
	ScenarioExpected    = "expected"
	ScenarioPessimistic = "pessimistic"
)

// ScenarioSpec scales the expected return into one scenario. Probabilities
// are fixed and never re-derived from volatility.
type ScenarioSpec struct {
	Name             string
	ReturnMultiplier float64
	Probability      float64
}

// Scenarios are the three projection paths, most favourable first
var Scenarios = []ScenarioSpec{
	{Name: ScenarioOptimistic, ReturnMultiplier: 1.5, Probability: 0.10},
	{Name: ScenarioExpected, ReturnMultiplier: 1.0, Probability: 0.80},
	{Name: ScenarioPessimistic, ReturnMultiplier: 0.3, Probability: 0.10},
}

// DefaultHorizons are used when the caller asks for none
var DefaultHorizons = []int{1, 5, 10, 20}

// Request describes a projection run
type Request struct {
	ExpectedReturn float64
	Volatility     float64
	InitialAmount  float64
	Horizons       []int
	Goals          []domain.FinancialGoal
}

// Result holds the projections plus the goal success probability
type Result struct {
	Projections            []domain.PerformanceProjection `json:"projections"`
	GoalSuccessProbability float64                        `json:"goal_success_probability"`
}

// Engine projects portfolios and delegates success estimation
type Engine struct {
	estimator SuccessEstimator
}

// NewEngine creates an engine. A nil estimator uses the heuristic.
func NewEngine(estimator SuccessEstimator) *Engine {
	if estimator == nil {
		estimator = NewHeuristicEstimator()
	}
	return &Engine{estimator: estimator}
}

// Estimator returns the success estimator in use
func (e *Engine) Estimator() SuccessEstimator {
	return e.estimator
}

// Project builds one projection per requested horizon. Non-positive horizons
// are dropped and duplicates collapse. When InitialAmount is zero the goals'
// current savings are used as the starting balance.
func (e *Engine) Project(req Request) Result {
	initial := req.InitialAmount
	if initial <= 0 {
		initial = CurrentSavings(req.Goals)
	}

	success := e.estimator.Estimate(req.ExpectedReturn, req.Volatility, req.Goals)

	horizons := normalizeHorizons(req.Horizons)
	projections := make([]domain.PerformanceProjection, 0, len(horizons))
	for _, h := range horizons {
		p := ProjectHorizon(req.ExpectedReturn, initial, h)
		p.GoalSuccessProbability = success
		projections = append(projections, p)
	}

	return Result{Projections: projections, GoalSuccessProbability: success}
}

// ProjectHorizon compounds every scenario over horizonYears
func ProjectHorizon(expectedReturn, initial float64, horizonYears int) domain.PerformanceProjection {
	p := domain.PerformanceProjection{
		HorizonYears:  horizonYears,
		InitialAmount: initial,
		Scenarios:     make([]domain.Scenario, 0, len(Scenarios)),
	}
	for _, spec := range Scenarios {
		r := expectedReturn * spec.ReturnMultiplier
		growth := formulas.CompoundGrowth(r, float64(horizonYears))
		s := domain.Scenario{
			Name:           spec.Name,
			AnnualReturn:   r,
			Probability:    spec.Probability,
			GrowthFactor:   growth,
			ProjectedValue: initial * growth,
		}
		p.ExpectedValue += s.Probability * s.ProjectedValue
		p.Scenarios = append(p.Scenarios, s)
	}
	return p
}

// CurrentSavings sums the current amount of every goal
func CurrentSavings(goals []domain.FinancialGoal) float64 {
	total := 0.0
	for _, g := range goals {
		if g.CurrentAmount > 0 {
			total += g.CurrentAmount
		}
	}
	return total
}

func normalizeHorizons(in []int) []int {
	if len(in) == 0 {
		in = DefaultHorizons
	}
	seen := make(map[int]bool, len(in))
	out := make([]int, 0, len(in))
	for _, h := range in {
		if h <= 0 || seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	sort.Ints(out)
	return out
}
