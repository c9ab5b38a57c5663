package domain

import (
	"fmt"
	"math"
	"time"
)

// AllocationTolerance is the rounding slack accepted when checking that an
// allocation sums to 100.
const AllocationTolerance = 1.0

// StockAllocation is the equity breakdown by region, in percent of portfolio
type StockAllocation struct {
	Domestic      float64 `json:"domestic"`
	International float64 `json:"international"`
	Emerging      float64 `json:"emerging"`
}

// Total returns total equity weight
func (s StockAllocation) Total() float64 {
	return s.Domestic + s.International + s.Emerging
}

// BondAllocation is the fixed income breakdown, in percent of portfolio
type BondAllocation struct {
	Government    float64 `json:"government"`
	Corporate     float64 `json:"corporate"`
	International float64 `json:"international"`
}

// Total returns total bond weight
func (b BondAllocation) Total() float64 {
	return b.Government + b.Corporate + b.International
}

// AssetAllocation is a percentage breakdown of a portfolio across asset
// classes plus template-level return and risk expectations.
type AssetAllocation struct {
	Stocks             StockAllocation `json:"stocks"`
	Bonds              BondAllocation  `json:"bonds"`
	RealEstate         float64         `json:"real_estate"`
	Alternatives       float64         `json:"alternatives"`
	Cash               float64         `json:"cash"`
	ExpectedReturn     float64         `json:"expected_return"`
	ExpectedVolatility float64         `json:"expected_volatility"`
	SharpeRatio        float64         `json:"sharpe_ratio"`
	MaxDrawdown        float64         `json:"max_drawdown"`
}

// Total returns the sum of the top-level weights
func (a AssetAllocation) Total() float64 {
	return a.Stocks.Total() + a.Bonds.Total() + a.RealEstate + a.Alternatives + a.Cash
}

// Validate reports ErrNonNormalizedAllocation when the top-level weights do
// not sum to 100 within AllocationTolerance. It never fixes the allocation.
func (a AssetAllocation) Validate() error {
	total := a.Total()
	if math.IsNaN(total) || math.Abs(total-100) > AllocationTolerance {
		return fmt.Errorf("%w: components sum to %.2f", ErrNonNormalizedAllocation, total)
	}
	return nil
}

// ValueAtRisk holds parametric VaR estimates as fractions of portfolio value
type ValueAtRisk struct {
	OneDay   float64 `json:"one_day"`
	OneMonth float64 `json:"one_month"`
	OneYear  float64 `json:"one_year"`
}

// RiskMetrics are simplified risk estimates derived from expected return and
// volatility. They are illustrative, not regulatory-grade figures.
type RiskMetrics struct {
	Volatility        float64      `json:"volatility"`
	SharpeRatio       float64      `json:"sharpe_ratio"`
	SharpeDefined     bool         `json:"sharpe_defined"`
	ValueAtRisk       ValueAtRisk  `json:"value_at_risk"`
	ExpectedShortfall float64      `json:"expected_shortfall"`
	DownsideDeviation float64      `json:"downside_deviation"`
	Diagnostics       []Diagnostic `json:"diagnostics,omitempty"`
}

// Scenario is one projected return path
type Scenario struct {
	Name           string  `json:"name"`
	AnnualReturn   float64 `json:"annual_return"`
	Probability    float64 `json:"probability"`
	GrowthFactor   float64 `json:"growth_factor"`
	ProjectedValue float64 `json:"projected_value"`
}

// PerformanceProjection holds the scenarios for one horizon
type PerformanceProjection struct {
	HorizonYears           int        `json:"horizon_years"`
	InitialAmount          float64    `json:"initial_amount"`
	Scenarios              []Scenario `json:"scenarios"`
	ExpectedValue          float64    `json:"expected_value"` // probability-weighted
	GoalSuccessProbability float64    `json:"goal_success_probability"`
}

// RecommendationKind distinguishes the primary recommendation from its alternatives
type RecommendationKind string

const (
	RecommendationPrimary      RecommendationKind = "primary"
	RecommendationConservative RecommendationKind = "conservative-alternative"
	RecommendationGrowth       RecommendationKind = "growth-alternative"
)

// ImplementationStep is one entry of the implementation plan skeleton
type ImplementationStep struct {
	Order       int    `json:"order"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Timeframe   string `json:"timeframe"`
}

// PortfolioRecommendation is created fresh for every request and never mutated
type PortfolioRecommendation struct {
	ID                     string                  `json:"id"`
	Kind                   RecommendationKind      `json:"kind"`
	RiskCategory           RiskCategory            `json:"risk_category"`
	ReturnMultiplier       float64                 `json:"return_multiplier"`
	RecommendedAllocation  AssetAllocation         `json:"recommended_allocation"`
	RiskMetrics            RiskMetrics             `json:"risk_metrics"`
	PerformanceProjections []PerformanceProjection `json:"performance_projections"`
	GoalSuccessProbability float64                 `json:"goal_success_probability"`
	StrategyRationale      string                  `json:"strategy_rationale"`
	KeyFeatures            []string                `json:"key_features"`
	ImplementationPlan     []ImplementationStep    `json:"implementation_plan"`
	Diagnostics            []Diagnostic            `json:"diagnostics,omitempty"`
	GeneratedAt            time.Time               `json:"generated_at"`
}

// RecommendationSet groups the primary recommendation with up to two alternatives
type RecommendationSet struct {
	Primary                 PortfolioRecommendation  `json:"primary"`
	ConservativeAlternative *PortfolioRecommendation `json:"conservative_alternative,omitempty"`
	GrowthAlternative       *PortfolioRecommendation `json:"growth_alternative,omitempty"`
}

// All returns the recommendations in presentation order
func (s RecommendationSet) All() []PortfolioRecommendation {
	out := []PortfolioRecommendation{s.Primary}
	if s.ConservativeAlternative != nil {
		out = append(out, *s.ConservativeAlternative)
	}
	if s.GrowthAlternative != nil {
		out = append(out, *s.GrowthAlternative)
	}
	return out
}
