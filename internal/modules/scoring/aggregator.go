package scoring

import (
	"math"

	"github.com/aristath/wealthplan/internal/domain"
)

// categoryBand maps scores up to and including Upper onto a category. Bands
// are contiguous and cover the whole 0-10 scale.
type categoryBand struct {
	Upper    float64
	Category domain.RiskCategory
}

var categoryBands = []categoryBand{
	{Upper: 3.0, Category: domain.RiskConservative},
	{Upper: 4.5, Category: domain.RiskModerateConservative},
	{Upper: 6.5, Category: domain.RiskModerate},
	{Upper: 8.0, Category: domain.RiskModerateAggressive},
	{Upper: math.Inf(1), Category: domain.RiskAggressive},
}

// CategoryForScore maps an overall 0-10 score onto a risk category. The
// mapping is a monotonic step function.
func CategoryForScore(score float64) domain.RiskCategory {
	if math.IsNaN(score) {
		score = Midpoint
	}
	for _, band := range categoryBands {
		if score <= band.Upper {
			return band.Category
		}
	}
	return domain.RiskAggressive
}

// CategoryFloor returns the lowest 0-10 score that still maps to the category
func CategoryFloor(category domain.RiskCategory) float64 {
	prev := MinScore
	for _, band := range categoryBands {
		if band.Category == category {
			return prev
		}
		prev = band.Upper
	}
	return MinScore
}

// Aggregate is the combined outcome of the three sub-scores
type Aggregate struct {
	OverallScore    float64             `json:"overall_score"`     // 0-10
	OverallScore100 float64             `json:"overall_score_100"` // 0-100
	Category        domain.RiskCategory `json:"category"`
	ConfidenceLevel float64             `json:"confidence_level"`
}

// Aggregator combines sub-scores with the fixed weights of one weight set
type Aggregator struct {
	weights    AggregateWeights
	confidence ConfidenceRule
}

// NewAggregator creates an aggregator for a weight set
func NewAggregator(ws WeightSet) *Aggregator {
	return &Aggregator{weights: ws.Aggregate, confidence: ws.Confidence}
}

// Aggregate computes the overall score, category and confidence
func (a *Aggregator) Aggregate(tolerance, capacity, behavioral float64, completedSections int) Aggregate {
	overall := tolerance*a.weights.Tolerance +
		capacity*a.weights.Capacity +
		behavioral*a.weights.Behavioral
	if sum := a.weights.Sum(); sum > 0 {
		overall /= sum
	}
	// Categorize the reported (rounded) score so the category is always a
	// function of the score the caller sees.
	overall = round2(clampScore(overall))

	return Aggregate{
		OverallScore:    overall,
		OverallScore100: round2(overall * 10),
		Category:        CategoryForScore(overall),
		ConfidenceLevel: a.Confidence(completedSections),
	}
}

// Confidence grows by a fixed increment per completed section from the base
// and is capped below 100. It never falls below the base.
func (a *Aggregator) Confidence(completedSections int) float64 {
	if completedSections < 0 {
		completedSections = 0
	}
	c := a.confidence.Base + a.confidence.Increment*float64(completedSections)
	return math.Max(a.confidence.Base, math.Min(c, a.confidence.Cap))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
