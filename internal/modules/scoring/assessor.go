package scoring

import (
	"fmt"
	"strings"

	"github.com/aristath/wealthplan/internal/domain"
)

// Assessment is everything collected for one risk profile computation
type Assessment struct {
	Client    *domain.ClientInformation `json:"client,omitempty" yaml:"client,omitempty"`
	Responses Responses                 `json:"responses" yaml:"responses"`
	GoalCount int                       `json:"goal_count" yaml:"goal_count"`
}

// Assessor runs the scorers and the aggregator of one weight set. It holds no
// mutable state and is safe for concurrent use.
type Assessor struct {
	weights    WeightSet
	tolerance  *Scorer
	capacity   *Scorer
	behavioral *Scorer
	aggregator *Aggregator
}

// NewAssessor creates an assessor for a weight set
func NewAssessor(ws WeightSet) *Assessor {
	return &Assessor{
		weights:    ws,
		tolerance:  NewToleranceScorer(ws),
		capacity:   NewCapacityScorer(ws),
		behavioral: NewBehavioralScorer(ws),
		aggregator: NewAggregator(ws),
	}
}

// NewAssessorByName resolves a weight set by name
func NewAssessorByName(name string) (*Assessor, error) {
	ws, err := LookupWeightSet(name)
	if err != nil {
		return nil, err
	}
	return NewAssessor(ws), nil
}

// WeightSet returns the configuration in use
func (a *Assessor) WeightSet() WeightSet {
	return a.weights
}

// Assess computes a complete risk profile. Missing answers never fail the
// computation; they default to the midpoint and cost confidence.
func (a *Assessor) Assess(in Assessment) domain.RiskProfile {
	tol := a.tolerance.Score(ToleranceInputs(in.Responses))
	capa := a.capacity.Score(CapacityInputs(in.Client, in.Responses))
	beh := a.behavioral.Score(BehavioralInputs(in.Responses))

	var completed []string
	if personalComplete(in.Client) {
		completed = append(completed, SectionPersonal)
	}
	var diagnostics []domain.Diagnostic
	for _, section := range []struct {
		name   string
		result Result
	}{
		{SectionTolerance, tol},
		{SectionCapacity, capa},
		{SectionBehavioral, beh},
	} {
		if section.result.Complete() {
			completed = append(completed, section.name)
			continue
		}
		diagnostics = append(diagnostics, domain.Diagnostic{
			Code: domain.DiagIncompleteAssessment,
			Message: fmt.Sprintf("%s section missing %s; midpoint used",
				section.name, strings.Join(section.result.Missing, ", ")),
		})
	}
	if in.GoalCount > 0 {
		completed = append(completed, SectionGoals)
	}

	agg := a.aggregator.Aggregate(tol.Score, capa.Score, beh.Score, len(completed))

	profile := domain.RiskProfile{
		ToleranceScore:      round2(tol.Score),
		CapacityScore:       round2(capa.Score),
		BehavioralScore:     round2(beh.Score),
		OverallRiskScore:    round2(agg.OverallScore),
		OverallRiskScore100: round2(agg.OverallScore100),
		RiskCategory:        agg.Category,
		ConfidenceLevel:     agg.ConfidenceLevel,
		WeightSet:           a.weights.Name,
		CompletedSections:   completed,
		Diagnostics:         diagnostics,
	}
	profile.Recommendations = Advise(profile)
	return profile
}

// FromSubScores rebuilds a profile from already computed sub-scores, e.g.
// when a caller stores them and only needs the aggregation redone.
func (a *Assessor) FromSubScores(tolerance, capacity, behavioral float64, completedSections int) domain.RiskProfile {
	agg := a.aggregator.Aggregate(clampScore(tolerance), clampScore(capacity), clampScore(behavioral), completedSections)
	profile := domain.RiskProfile{
		ToleranceScore:      round2(clampScore(tolerance)),
		CapacityScore:       round2(clampScore(capacity)),
		BehavioralScore:     round2(clampScore(behavioral)),
		OverallRiskScore:    round2(agg.OverallScore),
		OverallRiskScore100: round2(agg.OverallScore100),
		RiskCategory:        agg.Category,
		ConfidenceLevel:     agg.ConfidenceLevel,
		WeightSet:           a.weights.Name,
	}
	profile.Recommendations = Advise(profile)
	return profile
}
