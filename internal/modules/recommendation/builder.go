// Package recommendation assembles complete portfolio recommendations: a
// primary one for the investor's own risk category and up to two alternatives
// one category either side.
package recommendation

import (
	"fmt"
	"math"
	"time"

	"github.com/aristath/wealthplan/internal/domain"
	"github.com/aristath/wealthplan/internal/modules/allocation"
	"github.com/aristath/wealthplan/internal/modules/projection"
	"github.com/aristath/wealthplan/internal/modules/risk"
)

// Return multipliers of the alternatives
const (
	PrimaryMultiplier      = 1.0
	ConservativeMultiplier = 0.8
	GrowthMultiplier       = 1.2
)

// Request carries everything one recommendation run needs
type Request struct {
	PlanID              string
	Profile             domain.RiskProfile
	Goals               []domain.FinancialGoal
	Preferences         domain.InvestmentPreferences
	InitialAmount       float64
	Horizons            []int
	IncludeAlternatives bool
}

// Builder runs template selection, adjustment, metrics and projection for
// each recommendation kind.
type Builder struct {
	deriver *risk.Deriver
	engine  *projection.Engine
	ids     domain.IDGenerator
	now     func() time.Time
}

// NewBuilder creates a builder. Nil dependencies get defaults.
func NewBuilder(deriver *risk.Deriver, engine *projection.Engine, ids domain.IDGenerator, now func() time.Time) *Builder {
	if deriver == nil {
		deriver = risk.NewDeriver(risk.DefaultParams())
	}
	if engine == nil {
		engine = projection.NewEngine(nil)
	}
	if ids == nil {
		ids = domain.ContentHashGenerator{}
	}
	if now == nil {
		now = time.Now
	}
	return &Builder{deriver: deriver, engine: engine, ids: ids, now: now}
}

// Build produces the primary recommendation and, when requested, the
// alternatives whose shifted category differs from the investor's own.
func (b *Builder) Build(req Request) (domain.RecommendationSet, error) {
	category := req.Profile.RiskCategory
	if category.Rank() < 0 {
		return domain.RecommendationSet{}, fmt.Errorf("%w: %q", domain.ErrUnknownRiskCategory, category)
	}

	generatedAt := b.now().UTC()

	primary, err := b.build(req, domain.RecommendationPrimary, category, PrimaryMultiplier, generatedAt)
	if err != nil {
		return domain.RecommendationSet{}, err
	}
	set := domain.RecommendationSet{Primary: primary}
	if !req.IncludeAlternatives {
		return set, nil
	}

	if c := category.Shift(-1); c != category {
		rec, err := b.build(req, domain.RecommendationConservative, c, ConservativeMultiplier, generatedAt)
		if err != nil {
			return domain.RecommendationSet{}, err
		}
		set.ConservativeAlternative = &rec
	}
	if c := category.Shift(1); c != category {
		rec, err := b.build(req, domain.RecommendationGrowth, c, GrowthMultiplier, generatedAt)
		if err != nil {
			return domain.RecommendationSet{}, err
		}
		set.GrowthAlternative = &rec
	}
	return set, nil
}

func (b *Builder) build(req Request, kind domain.RecommendationKind, category domain.RiskCategory, multiplier float64, generatedAt time.Time) (domain.PortfolioRecommendation, error) {
	base, err := allocation.SelectTemplate(category)
	if err != nil {
		return domain.PortfolioRecommendation{}, err
	}

	adjusted := allocation.Adjust(base, req.Preferences)
	alloc := ApplyMultiplier(adjusted.Allocation, multiplier)

	diagnostics := append([]domain.Diagnostic(nil), adjusted.Diagnostics...)
	if err := alloc.Validate(); err != nil {
		diagnostics = append(diagnostics, domain.Diagnostic{Code: domain.DiagNonNormalized, Message: err.Error()})
	}

	metrics := b.deriver.DeriveAllocation(alloc)
	diagnostics = append(diagnostics, metrics.Diagnostics...)

	projected := b.engine.Project(projection.Request{
		ExpectedReturn: alloc.ExpectedReturn,
		Volatility:     alloc.ExpectedVolatility,
		InitialAmount:  req.InitialAmount,
		Horizons:       req.Horizons,
		Goals:          req.Goals,
	})

	return domain.PortfolioRecommendation{
		ID:                     b.ids.NewID("recommendation", req.PlanID, string(kind), string(category), generatedAt.Format(time.RFC3339Nano)),
		Kind:                   kind,
		RiskCategory:           category,
		ReturnMultiplier:       multiplier,
		RecommendedAllocation:  alloc,
		RiskMetrics:            metrics,
		PerformanceProjections: projected.Projections,
		GoalSuccessProbability: projected.GoalSuccessProbability,
		StrategyRationale:      Rationale(kind, category, alloc, req.Preferences),
		KeyFeatures:            KeyFeatures(category, alloc, req.Preferences),
		ImplementationPlan:     ImplementationPlan(alloc, req.Goals, req.Preferences),
		Diagnostics:            diagnostics,
		GeneratedAt:            generatedAt,
	}, nil
}

// ApplyMultiplier scales the expected return by m and the volatility by the
// square root of m, then refreshes the Sharpe ratio.
func ApplyMultiplier(a domain.AssetAllocation, m float64) domain.AssetAllocation {
	if m == 1 || m <= 0 {
		return a
	}
	a.ExpectedReturn *= m
	a.ExpectedVolatility *= math.Sqrt(m)
	if a.ExpectedVolatility > 0 {
		a.SharpeRatio = a.ExpectedReturn / a.ExpectedVolatility
	} else {
		a.SharpeRatio = 0
	}
	return a
}
