package scoring

import (
	"math"
	"sort"
)

// Sub-factor names
const (
	FactorVolatilityComfort     = "volatility_comfort"
	FactorLossAversion          = "loss_aversion"
	FactorMaxDrawdownTolerance  = "max_drawdown_tolerance"
	FactorInvestmentExperience  = "investment_experience"
	FactorMarketDeclineReaction = "market_decline_reaction"

	FactorAge               = "age"
	FactorIncomeStability   = "income_stability"
	FactorEmergencyReserve  = "emergency_reserve"
	FactorDebtBurden        = "debt_burden"
	FactorDependents        = "dependents"
	FactorInvestmentHorizon = "investment_horizon"

	FactorDiscipline       = "discipline"
	FactorEmotionalTrading = "emotional_trading"
	FactorOverconfidence   = "overconfidence"
	FactorHerding          = "herding"
)

// Factor is a scored sub-factor. Inverted factors measure aversion, so a
// high raw value lowers the score. Inversion belongs to the factor itself.
type Factor struct {
	Name     string
	Inverted bool
}

// ToleranceFactors feed the risk tolerance sub-score
var ToleranceFactors = []Factor{
	{Name: FactorVolatilityComfort},
	{Name: FactorLossAversion, Inverted: true},
	{Name: FactorMaxDrawdownTolerance},
	{Name: FactorInvestmentExperience},
	{Name: FactorMarketDeclineReaction},
}

// CapacityFactors feed the risk capacity sub-score
var CapacityFactors = []Factor{
	{Name: FactorAge},
	{Name: FactorIncomeStability},
	{Name: FactorEmergencyReserve},
	{Name: FactorDebtBurden},
	{Name: FactorDependents},
	{Name: FactorInvestmentHorizon},
}

// BehavioralFactors feed the behavioral sub-score
var BehavioralFactors = []Factor{
	{Name: FactorDiscipline},
	{Name: FactorEmotionalTrading, Inverted: true},
	{Name: FactorOverconfidence, Inverted: true},
	{Name: FactorHerding, Inverted: true},
}

// Scorer aggregates a fixed set of weighted sub-factors into a 0-10 score
type Scorer struct {
	name    string
	factors []Factor
	weights map[string]float64
}

// Result is the outcome of scoring one section
type Result struct {
	Score      float64            `json:"score"`
	Answered   int                `json:"answered"`
	Total      int                `json:"total"`
	Missing    []string           `json:"missing,omitempty"`
	Components map[string]float64 `json:"components"`
}

// Complete reports whether every sub-factor was answered
func (r Result) Complete() bool {
	return r.Total > 0 && r.Answered == r.Total
}

// NewScorer creates a scorer over factors using weights keyed by factor name
func NewScorer(name string, factors []Factor, weights map[string]float64) *Scorer {
	return &Scorer{name: name, factors: factors, weights: weights}
}

// NewToleranceScorer builds the risk tolerance scorer of a weight set
func NewToleranceScorer(ws WeightSet) *Scorer {
	return NewScorer("tolerance", ToleranceFactors, ws.Tolerance)
}

// NewCapacityScorer builds the risk capacity scorer of a weight set
func NewCapacityScorer(ws WeightSet) *Scorer {
	return NewScorer("capacity", CapacityFactors, ws.Capacity)
}

// NewBehavioralScorer builds the behavioral scorer of a weight set
func NewBehavioralScorer(ws WeightSet) *Scorer {
	return NewScorer("behavioral", BehavioralFactors, ws.Behavioral)
}

// Name returns the section name
func (s *Scorer) Name() string {
	return s.name
}

// Score computes the weighted score of raw sub-factor values, each already on
// the 0-10 scale. Missing factors contribute the midpoint and are reported in
// Result.Missing; a partial assessment always produces a score.
func (s *Scorer) Score(raw map[string]float64) Result {
	result := Result{
		Total:      len(s.factors),
		Components: make(map[string]float64, len(s.factors)),
	}

	total := 0.0
	weightSum := 0.0
	for _, f := range s.factors {
		w := s.weights[f.Name]

		contribution := Midpoint
		if v, ok := raw[f.Name]; ok && !math.IsNaN(v) {
			v = clampScore(v)
			if f.Inverted {
				v = Invert(v)
			}
			contribution = v
			result.Answered++
		} else {
			result.Missing = append(result.Missing, f.Name)
		}

		result.Components[f.Name] = contribution
		total += contribution * w
		weightSum += w
	}

	if weightSum > 0 {
		result.Score = clampScore(total / weightSum)
	} else {
		result.Score = Midpoint
	}

	sort.Strings(result.Missing)
	return result
}
