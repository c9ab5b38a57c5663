package scoring

import (
	"github.com/aristath/wealthplan/internal/domain"
)

// Responses are the raw questionnaire answers as collected by the wizard
type Responses struct {
	// Values are answers on a 1-10 scale, keyed by factor name
	Values map[string]float64 `json:"values,omitempty" yaml:"values,omitempty"`
	// Choices are categorical answers, keyed by factor name
	Choices map[string]string `json:"choices,omitempty" yaml:"choices,omitempty"`
	// Percentages are slider answers in percent, keyed by factor name
	Percentages map[string]float64 `json:"percentages,omitempty" yaml:"percentages,omitempty"`
}

// maxDrawdownSliderMax is the slider value (percent) that scores 10
const maxDrawdownSliderMax = 50.0

// Sections of an assessment that raise confidence once complete
const (
	SectionPersonal   = "personal"
	SectionTolerance  = "tolerance"
	SectionCapacity   = "capacity"
	SectionBehavioral = "behavioral"
	SectionGoals      = "goals"
)

// value returns a 1-10 answer when present
func (r Responses) value(name string) (float64, bool) {
	v, ok := r.Values[name]
	return v, ok
}

// ToleranceInputs normalizes the tolerance answers onto the 0-10 scale
func ToleranceInputs(r Responses) map[string]float64 {
	raw := make(map[string]float64)

	if choice, ok := r.Choices[FactorVolatilityComfort]; ok {
		if v, known := Categorical(VolatilityPreference, choice); known {
			raw[FactorVolatilityComfort] = v
		}
	} else if v, ok := r.value(FactorVolatilityComfort); ok {
		raw[FactorVolatilityComfort] = Scale1To10(v)
	}

	if choice, ok := r.Choices[FactorMarketDeclineReaction]; ok {
		if v, known := Categorical(MarketDeclineReaction, choice); known {
			raw[FactorMarketDeclineReaction] = v
		}
	} else if v, ok := r.value(FactorMarketDeclineReaction); ok {
		raw[FactorMarketDeclineReaction] = Scale1To10(v)
	}

	if pct, ok := r.Percentages[FactorMaxDrawdownTolerance]; ok {
		raw[FactorMaxDrawdownTolerance] = Percentage(pct, maxDrawdownSliderMax)
	} else if v, ok := r.value(FactorMaxDrawdownTolerance); ok {
		raw[FactorMaxDrawdownTolerance] = Scale1To10(v)
	}

	for _, name := range []string{FactorLossAversion, FactorInvestmentExperience} {
		if v, ok := r.value(name); ok {
			raw[name] = Scale1To10(v)
		}
	}
	return raw
}

// CapacityInputs derives capacity factors from client information, falling
// back to explicit 1-10 answers for anything the client record cannot supply.
func CapacityInputs(client *domain.ClientInformation, r Responses) map[string]float64 {
	raw := make(map[string]float64)

	if client != nil {
		if client.Age > 0 {
			raw[FactorAge] = AgeCapacity(client.Age)
		}
		if monthly := client.MonthlyExpenses(); monthly > 0 {
			raw[FactorEmergencyReserve] = ReserveMonths(client.LiquidAssets, monthly)
		}
		if client.AnnualIncome > 0 {
			raw[FactorDebtBurden] = DebtBurden(client.TotalDebt, client.AnnualIncome)
		}
		raw[FactorDependents] = DependentsCapacity(client.Dependents)
		if client.InvestmentHorizonYears > 0 {
			raw[FactorInvestmentHorizon] = HorizonYears(client.InvestmentHorizonYears)
		}
	}

	for _, f := range CapacityFactors {
		if _, done := raw[f.Name]; done {
			continue
		}
		if v, ok := r.value(f.Name); ok {
			raw[f.Name] = Scale1To10(v)
		}
	}
	return raw
}

// BehavioralInputs normalizes the behavioral answers
func BehavioralInputs(r Responses) map[string]float64 {
	raw := make(map[string]float64)
	for _, f := range BehavioralFactors {
		if v, ok := r.value(f.Name); ok {
			raw[f.Name] = Scale1To10(v)
		}
	}
	return raw
}

// personalComplete reports whether the client record carries the facts the
// capacity section depends on.
func personalComplete(client *domain.ClientInformation) bool {
	return client != nil && client.Age > 0 && client.AnnualIncome > 0
}
