package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/aristath/wealthplan/internal/domain"
)

// DefaultWeightSet is the configuration used when none is selected
const DefaultWeightSet = "standard-v1"

// AggregateWeights combines the three sub-scores into an overall score
type AggregateWeights struct {
	Tolerance  float64 `json:"tolerance"`
	Capacity   float64 `json:"capacity"`
	Behavioral float64 `json:"behavioral"`
}

// Sum returns the total of the weights
func (w AggregateWeights) Sum() float64 {
	return w.Tolerance + w.Capacity + w.Behavioral
}

// ConfidenceRule controls how confidence grows with completed sections
type ConfidenceRule struct {
	Base      float64 `json:"base"`
	Increment float64 `json:"increment"`
	Cap       float64 `json:"cap"`
}

// WeightSet is a named scoring configuration. Assessment variants select a
// weight set by name instead of carrying their own constants.
type WeightSet struct {
	Name       string             `json:"name"`
	Tolerance  map[string]float64 `json:"tolerance"`
	Capacity   map[string]float64 `json:"capacity"`
	Behavioral map[string]float64 `json:"behavioral"`
	Aggregate  AggregateWeights   `json:"aggregate"`
	Confidence ConfidenceRule     `json:"confidence"`
}

// WeightSets holds every known configuration
var WeightSets = map[string]WeightSet{
	"standard-v1": {
		Name: "standard-v1",
		Tolerance: map[string]float64{
			FactorVolatilityComfort:     0.25,
			FactorLossAversion:          0.25,
			FactorMaxDrawdownTolerance:  0.20,
			FactorInvestmentExperience:  0.15,
			FactorMarketDeclineReaction: 0.15,
		},
		Capacity: map[string]float64{
			FactorAge:               0.20,
			FactorIncomeStability:   0.20,
			FactorEmergencyReserve:  0.20,
			FactorDebtBurden:        0.15,
			FactorDependents:        0.10,
			FactorInvestmentHorizon: 0.15,
		},
		Behavioral: map[string]float64{
			FactorDiscipline:       0.30,
			FactorEmotionalTrading: 0.30,
			FactorOverconfidence:   0.20,
			FactorHerding:          0.20,
		},
		Aggregate:  AggregateWeights{Tolerance: 0.40, Capacity: 0.35, Behavioral: 0.25},
		Confidence: ConfidenceRule{Base: 70, Increment: 5, Cap: 95},
	},
	// Capacity-heavy variant used by the advanced questionnaire
	"advanced-v1": {
		Name: "advanced-v1",
		Tolerance: map[string]float64{
			FactorVolatilityComfort:     0.20,
			FactorLossAversion:          0.30,
			FactorMaxDrawdownTolerance:  0.20,
			FactorInvestmentExperience:  0.10,
			FactorMarketDeclineReaction: 0.20,
		},
		Capacity: map[string]float64{
			FactorAge:               0.15,
			FactorIncomeStability:   0.20,
			FactorEmergencyReserve:  0.25,
			FactorDebtBurden:        0.15,
			FactorDependents:        0.10,
			FactorInvestmentHorizon: 0.15,
		},
		Behavioral: map[string]float64{
			FactorDiscipline:       0.25,
			FactorEmotionalTrading: 0.25,
			FactorOverconfidence:   0.25,
			FactorHerding:          0.25,
		},
		Aggregate:  AggregateWeights{Tolerance: 0.40, Capacity: 0.40, Behavioral: 0.20},
		Confidence: ConfidenceRule{Base: 60, Increment: 7, Cap: 95},
	},
}

// LookupWeightSet returns the named configuration. An empty name selects
// DefaultWeightSet.
func LookupWeightSet(name string) (WeightSet, error) {
	if name == "" {
		name = DefaultWeightSet
	}
	ws, ok := WeightSets[name]
	if !ok {
		return WeightSet{}, fmt.Errorf("%w: %q", domain.ErrUnknownWeightSet, name)
	}
	return ws, nil
}

// WeightSetNames returns the known configuration names, sorted
func WeightSetNames() []string {
	names := make([]string, 0, len(WeightSets))
	for name := range WeightSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const weightTolerance = 1e-6

// Validate checks that every weight group sums to 1 and only names known factors
func (ws WeightSet) Validate() error {
	groups := []struct {
		name    string
		weights map[string]float64
		factors []Factor
	}{
		{"tolerance", ws.Tolerance, ToleranceFactors},
		{"capacity", ws.Capacity, CapacityFactors},
		{"behavioral", ws.Behavioral, BehavioralFactors},
	}

	for _, g := range groups {
		known := make(map[string]bool, len(g.factors))
		for _, f := range g.factors {
			known[f.Name] = true
		}

		sum := 0.0
		for name, w := range g.weights {
			if !known[name] {
				return fmt.Errorf("weight set %s: unknown %s factor %q", ws.Name, g.name, name)
			}
			sum += w
		}
		if math.Abs(sum-1) > weightTolerance {
			return fmt.Errorf("weight set %s: %s weights sum to %.4f, want 1", ws.Name, g.name, sum)
		}
	}

	if math.Abs(ws.Aggregate.Sum()-1) > weightTolerance {
		return fmt.Errorf("weight set %s: aggregate weights sum to %.4f, want 1", ws.Name, ws.Aggregate.Sum())
	}
	if ws.Confidence.Cap >= 100 || ws.Confidence.Base > ws.Confidence.Cap {
		return fmt.Errorf("weight set %s: confidence base %.0f / cap %.0f out of range", ws.Name, ws.Confidence.Base, ws.Confidence.Cap)
	}
	return nil
}
