package planning

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/wealthplan/internal/domain"
	"github.com/aristath/wealthplan/internal/events"
	"github.com/aristath/wealthplan/internal/modules/goals"
	"github.com/aristath/wealthplan/internal/modules/projection"
	"github.com/aristath/wealthplan/internal/modules/recommendation"
	"github.com/aristath/wealthplan/internal/modules/risk"
	"github.com/aristath/wealthplan/internal/modules/scoring"
	"github.com/aristath/wealthplan/internal/modules/settings"
	"github.com/aristath/wealthplan/internal/utils"
)

// EngineConfig resolves the engine parameters in effect. settings.Service
// implements it.
type EngineConfig interface {
	EngineParams() (settings.EngineParams, error)
}

// Service runs the engine pipeline on discrete commit events (assessment
// committed, goal added or changed) and persists the results.
type Service struct {
	repo   Repository
	config EngineConfig
	calc   *goals.Calculator
	ids    domain.IDGenerator
	events *events.Manager
	now    func() time.Time
	log    zerolog.Logger
}

// NewService creates a planning service. config, ids, eventManager and now
// may be nil.
func NewService(repo Repository, config EngineConfig, ids domain.IDGenerator, eventManager *events.Manager, now func() time.Time, log zerolog.Logger) *Service {
	if ids == nil {
		ids = domain.ContentHashGenerator{}
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:   repo,
		config: config,
		calc:   goals.NewCalculator(now),
		ids:    ids,
		events: eventManager,
		now:    now,
		log:    log.With().Str("service", "planning").Logger(),
	}
}

// params returns the configured engine parameters, falling back to the
// defaults when they cannot be read.
func (s *Service) params() settings.EngineParams {
	if s.config == nil {
		return settings.DefaultEngineParams()
	}
	p, err := s.config.EngineParams()
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to resolve engine params, using defaults")
		return settings.DefaultEngineParams()
	}
	return p
}

// CreatePlan opens a new planning session
func (s *Service) CreatePlan(ctx context.Context, in PlanInput) (*Plan, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}

	now := s.now().UTC()
	plan := &Plan{
		ID:          s.ids.NewID("plan", name, now.Format(time.RFC3339Nano)),
		Name:        name,
		Client:      in.Client,
		Preferences: in.Preferences,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreatePlan(ctx, plan); err != nil {
		return nil, err
	}

	s.log.Info().Str("plan_id", plan.ID).Str("name", plan.Name).Msg("Plan created")
	s.events.Emit(events.PlanCreated, "planning", map[string]interface{}{
		"plan_id": plan.ID,
		"name":    plan.Name,
	})
	return plan, nil
}

// GetPlan returns a plan together with its goals
func (s *Service) GetPlan(ctx context.Context, id string) (*Plan, error) {
	plan, err := s.repo.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	plan.Goals, err = s.repo.ListGoals(ctx, id)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// ListPlans returns every plan without goals
func (s *Service) ListPlans(ctx context.Context) ([]Plan, error) {
	return s.repo.ListPlans(ctx)
}

// UpdatePreferences replaces the investment preferences of a plan
func (s *Service) UpdatePreferences(ctx context.Context, planID string, prefs domain.InvestmentPreferences) (*Plan, error) {
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	plan.Preferences = prefs
	plan.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// DeletePlan removes a plan with all of its goals and recommendations
func (s *Service) DeletePlan(ctx context.Context, planID string) error {
	if err := s.repo.DeletePlan(ctx, planID); err != nil {
		return err
	}
	s.log.Info().Str("plan_id", planID).Msg("Plan deleted")
	s.events.Emit(events.PlanDeleted, "planning", map[string]interface{}{"plan_id": planID})
	return nil
}

// CommitAssessment recomputes the plan's risk profile wholesale from the
// submitted answers and refreshes every goal allocation that depends on it.
// A nil client keeps the client information already on the plan.
func (s *Service) CommitAssessment(ctx context.Context, planID string, in scoring.Assessment) (domain.RiskProfile, error) {
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return domain.RiskProfile{}, err
	}
	if in.Client != nil {
		plan.Client = in.Client
	}
	plan.Responses = in.Responses

	goalList, err := s.repo.ListGoals(ctx, planID)
	if err != nil {
		return domain.RiskProfile{}, err
	}

	profile, err := s.commitProfile(ctx, plan, goalList, true)
	if err != nil {
		return domain.RiskProfile{}, err
	}

	s.log.Info().
		Str("plan_id", planID).
		Str("category", string(profile.RiskCategory)).
		Float64("overall_score", profile.OverallRiskScore).
		Float64("confidence", profile.ConfidenceLevel).
		Msg("Risk profile committed")
	s.events.Emit(events.ProfileCommitted, "planning", map[string]interface{}{
		"plan_id":       planID,
		"risk_category": string(profile.RiskCategory),
		"overall_score": profile.OverallRiskScore,
		"confidence":    profile.ConfidenceLevel,
	})
	return profile, nil
}

// commitProfile assesses the plan's stored answers, saves the plan and, when
// the overall score moved (or force is set), recomputes the goals.
func (s *Service) commitProfile(ctx context.Context, plan *Plan, goalList []domain.FinancialGoal, force bool) (domain.RiskProfile, error) {
	assessor, err := scoring.NewAssessorByName(s.params().WeightSet)
	if err != nil {
		return domain.RiskProfile{}, err
	}

	previous := plan.Profile
	profile := assessor.Assess(scoring.Assessment{
		Client:    plan.Client,
		Responses: plan.Responses,
		GoalCount: len(goalList),
	})
	plan.Profile = &profile
	plan.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdatePlan(ctx, plan); err != nil {
		return domain.RiskProfile{}, err
	}

	if force || previous == nil || previous.OverallRiskScore100 != profile.OverallRiskScore100 {
		for _, g := range goalList {
			s.recomputeGoal(ctx, g, profile.OverallRiskScore100)
		}
	}
	return profile, nil
}

// recomputeGoal refreshes every derived field of a stored goal. Goals whose
// target date has passed are flagged rather than failed.
func (s *Service) recomputeGoal(ctx context.Context, g domain.FinancialGoal, overallRiskScore float64) {
	updated, err := s.calc.Recompute(g, overallRiskScore)
	if err != nil {
		if !goals.IsInvalidHorizon(err) {
			s.log.Error().Err(err).Str("goal_id", g.ID).Msg("Failed to recompute goal")
			return
		}
		updated = flagPastDue(g, s.now().UTC())
	}
	if err := s.repo.SaveGoal(ctx, updated); err != nil {
		s.log.Error().Err(err).Str("goal_id", g.ID).Msg("Failed to save recomputed goal")
	}
}

// AddGoal creates a goal inside a plan with every derived field computed
func (s *Service) AddGoal(ctx context.Context, planID string, in goals.GoalInput) (domain.FinancialGoal, error) {
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return domain.FinancialGoal{}, err
	}
	existing, err := s.repo.ListGoals(ctx, planID)
	if err != nil {
		return domain.FinancialGoal{}, err
	}

	now := s.now().UTC()
	id := s.ids.NewID("goal", planID, in.Name, strconv.Itoa(len(existing)), now.Format(time.RFC3339Nano))

	goal, err := s.calc.NewGoal(id, planID, in, overallScore(plan))
	if err != nil {
		return domain.FinancialGoal{}, err
	}
	if err := s.repo.SaveGoal(ctx, goal); err != nil {
		return domain.FinancialGoal{}, err
	}

	if plan.Profile != nil && len(existing) == 0 {
		// The goals section just became complete
		if _, err := s.commitProfile(ctx, plan, append(existing, goal), false); err != nil {
			s.log.Warn().Err(err).Str("plan_id", planID).Msg("Failed to refresh risk profile")
		}
	}

	s.log.Info().
		Str("plan_id", planID).
		Str("goal_id", goal.ID).
		Str("category", string(goal.Category)).
		Float64("risk_allocation", goal.RiskAllocation).
		Float64("monthly_contribution", goal.MonthlyContribution).
		Msg("Goal added")
	s.events.Emit(events.GoalAdded, "planning", map[string]interface{}{
		"plan_id":  planID,
		"goal_id":  goal.ID,
		"category": string(goal.Category),
	})
	return goal, nil
}

// AddGoalFromTemplate creates a goal from one of the predefined templates
func (s *Service) AddGoalFromTemplate(ctx context.Context, planID, templateKey string) (domain.FinancialGoal, error) {
	tmpl, err := goals.LookupTemplate(templateKey)
	if err != nil {
		return domain.FinancialGoal{}, err
	}
	return s.AddGoal(ctx, planID, tmpl.Input(s.now().UTC()))
}

// UpdateGoal patches a goal and recomputes exactly the derived fields the
// changed inputs require
func (s *Service) UpdateGoal(ctx context.Context, planID, goalID string, patch goals.GoalPatch) (domain.FinancialGoal, goals.Recomputed, error) {
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return domain.FinancialGoal{}, goals.Recomputed{}, err
	}
	current, err := s.repo.GetGoal(ctx, planID, goalID)
	if err != nil {
		return domain.FinancialGoal{}, goals.Recomputed{}, err
	}

	updated, recomputed, err := s.calc.Update(current, patch, overallScore(plan))
	if err != nil {
		return domain.FinancialGoal{}, goals.Recomputed{}, err
	}
	if err := s.repo.SaveGoal(ctx, updated); err != nil {
		return domain.FinancialGoal{}, goals.Recomputed{}, err
	}

	s.log.Debug().
		Str("goal_id", goalID).
		Bool("risk_allocation", recomputed.RiskAllocation).
		Bool("monthly_contribution", recomputed.MonthlyContribution).
		Msg("Goal updated")
	s.events.Emit(events.GoalUpdated, "planning", map[string]interface{}{
		"plan_id":                 planID,
		"goal_id":                 goalID,
		"recomputed_allocation":   recomputed.RiskAllocation,
		"recomputed_contribution": recomputed.MonthlyContribution,
		"recomputed_time_horizon": recomputed.TimeHorizon,
	})
	return updated, recomputed, nil
}

// DeleteGoal removes a goal from its plan
func (s *Service) DeleteGoal(ctx context.Context, planID, goalID string) error {
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteGoal(ctx, planID, goalID); err != nil {
		return err
	}

	if plan.Profile != nil {
		remaining, err := s.repo.ListGoals(ctx, planID)
		if err == nil && len(remaining) == 0 {
			if _, err := s.commitProfile(ctx, plan, remaining, false); err != nil {
				s.log.Warn().Err(err).Str("plan_id", planID).Msg("Failed to refresh risk profile")
			}
		}
	}

	s.events.Emit(events.GoalDeleted, "planning", map[string]interface{}{
		"plan_id": planID,
		"goal_id": goalID,
	})
	return nil
}

// ListGoals returns the goals of a plan
func (s *Service) ListGoals(ctx context.Context, planID string) ([]domain.FinancialGoal, error) {
	if _, err := s.repo.GetPlan(ctx, planID); err != nil {
		return nil, err
	}
	return s.repo.ListGoals(ctx, planID)
}

// RefreshHorizons re-derives time horizons from target dates for every goal
// of every plan. Goals whose target date has passed are flagged and reported.
func (s *Service) RefreshHorizons(ctx context.Context) (RefreshReport, error) {
	defer utils.OperationTimer("refresh_horizons", s.log)()

	all, err := s.repo.ListAllGoals(ctx)
	if err != nil {
		return RefreshReport{}, err
	}

	report := RefreshReport{PastDue: []string{}}
	scores := make(map[string]float64)
	now := s.now().UTC()

	for _, g := range all {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Checked++

		score, ok := scores[g.PlanID]
		if !ok {
			plan, err := s.repo.GetPlan(ctx, g.PlanID)
			if err != nil {
				s.log.Warn().Err(err).Str("goal_id", g.ID).Msg("Skipping goal of unreadable plan")
				continue
			}
			score = overallScore(plan)
			scores[g.PlanID] = score
		}

		if s.calc.IsPastDue(g) {
			report.PastDue = append(report.PastDue, g.ID)
			if !hasDiagnostic(g.Diagnostics, domain.DiagInvalidHorizon) {
				if err := s.repo.SaveGoal(ctx, flagPastDue(g, now)); err != nil {
					return report, err
				}
				s.events.Emit(events.GoalPastDue, "planning", map[string]interface{}{
					"plan_id": g.PlanID,
					"goal_id": g.ID,
				})
			}
			continue
		}

		updated, err := s.calc.Recompute(g, score)
		if err != nil {
			s.log.Warn().Err(err).Str("goal_id", g.ID).Msg("Failed to refresh goal")
			continue
		}
		if updated.TimeHorizon == g.TimeHorizon &&
			updated.RiskAllocation == g.RiskAllocation &&
			updated.MonthlyContribution == g.MonthlyContribution {
			continue
		}
		if err := s.repo.SaveGoal(ctx, updated); err != nil {
			return report, err
		}
		report.Refreshed++
	}

	s.log.Info().
		Int("checked", report.Checked).
		Int("refreshed", report.Refreshed).
		Int("past_due", len(report.PastDue)).
		Msg("Goal horizons refreshed")
	return report, nil
}

// PruneRecommendations removes recommendation history older than
// retentionDays. The newest run of every plan is kept so each plan can still
// show its latest result. retentionDays <= 0 disables pruning.
func (s *Service) PruneRecommendations(ctx context.Context, retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := s.now().UTC().AddDate(0, 0, -retentionDays)
	pruned, err := s.repo.PruneRecommendations(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if pruned > 0 {
		s.log.Info().
			Int("pruned", pruned).
			Time("cutoff", cutoff).
			Msg("Recommendation history pruned")
	}
	return pruned, nil
}

// Recommend builds a fresh recommendation set for the plan and stores a
// snapshot of every recommendation in it
func (s *Service) Recommend(ctx context.Context, planID string, opts RecommendOptions) (domain.RecommendationSet, error) {
	timer := utils.NewTimer("recommend", s.log)

	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return domain.RecommendationSet{}, err
	}
	if plan.Profile == nil {
		return domain.RecommendationSet{}, fmt.Errorf("%w: %s", domain.ErrNoRiskProfile, planID)
	}
	goalList, err := s.repo.ListGoals(ctx, planID)
	if err != nil {
		return domain.RecommendationSet{}, err
	}

	params := s.params()
	builder := NewBuilder(params, s.ids, s.now)

	req := recommendation.Request{
		PlanID:              planID,
		Profile:             *plan.Profile,
		Goals:               goalList,
		Preferences:         plan.Preferences,
		InitialAmount:       opts.InitialAmount,
		Horizons:            params.ProjectionHorizons,
		IncludeAlternatives: params.IncludeAlternatives,
	}
	if len(opts.Horizons) > 0 {
		req.Horizons = opts.Horizons
	}
	if opts.IncludeAlternatives != nil {
		req.IncludeAlternatives = *opts.IncludeAlternatives
	}

	set, err := builder.Build(req)
	if err != nil {
		return domain.RecommendationSet{}, err
	}
	if err := s.repo.SaveRecommendations(ctx, planID, set.All()); err != nil {
		return domain.RecommendationSet{}, err
	}

	timer.StopWithContext(map[string]interface{}{
		"plan_id":         planID,
		"recommendations": len(set.All()),
	})
	s.events.Emit(events.RecommendationGenerated, "planning", map[string]interface{}{
		"plan_id":       planID,
		"primary_id":    set.Primary.ID,
		"risk_category": string(set.Primary.RiskCategory),
		"count":         len(set.All()),
	})
	return set, nil
}

// ListRecommendations returns stored recommendation snapshots, newest first
func (s *Service) ListRecommendations(ctx context.Context, planID string, limit int) ([]domain.PortfolioRecommendation, error) {
	if _, err := s.repo.GetPlan(ctx, planID); err != nil {
		return nil, err
	}
	return s.repo.ListRecommendations(ctx, planID, limit)
}

// NewBuilder assembles a recommendation builder from engine parameters
func NewBuilder(params settings.EngineParams, ids domain.IDGenerator, now func() time.Time) *recommendation.Builder {
	estimator := projection.NewEstimator(params.SuccessEstimator, params.MonteCarloTrials, params.MonteCarloSeed)
	return recommendation.NewBuilder(
		risk.NewDeriver(params.Risk),
		projection.NewEngine(estimator),
		ids,
		now,
	)
}

func overallScore(plan *Plan) float64 {
	if plan.Profile == nil {
		return neutralRiskScore
	}
	return plan.Profile.OverallRiskScore100
}

func flagPastDue(g domain.FinancialGoal, now time.Time) domain.FinancialGoal {
	if hasDiagnostic(g.Diagnostics, domain.DiagInvalidHorizon) {
		return g
	}
	g.Diagnostics = append(append([]domain.Diagnostic(nil), g.Diagnostics...), domain.Diagnostic{
		Code:    domain.DiagInvalidHorizon,
		Message: fmt.Sprintf("target date %s has passed; update the date or delete the goal", g.TargetDate.Format(time.DateOnly)),
	})
	g.UpdatedAt = now
	return g
}

func hasDiagnostic(diags []domain.Diagnostic, code string) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}
