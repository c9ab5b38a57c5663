package planning

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/wealthplan/internal/domain"
)

// InMemoryRepository keeps plans in process memory. It backs the CLI and
// tests; nothing survives a restart.
type InMemoryRepository struct {
	plans           map[string]*Plan
	goals           map[string]map[string]domain.FinancialGoal // plan id -> goal id -> goal
	recommendations map[string][]domain.PortfolioRecommendation
	mu              sync.RWMutex
	log             zerolog.Logger
}

// NewInMemoryRepository creates an empty repository
func NewInMemoryRepository(log zerolog.Logger) *InMemoryRepository {
	return &InMemoryRepository{
		plans:           make(map[string]*Plan),
		goals:           make(map[string]map[string]domain.FinancialGoal),
		recommendations: make(map[string][]domain.PortfolioRecommendation),
		log:             log.With().Str("repository", "planning_inmemory").Logger(),
	}
}

func (r *InMemoryRepository) CreatePlan(_ context.Context, plan *Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plans[plan.ID]; exists {
		return fmt.Errorf("failed to insert plan: %s already exists", plan.ID)
	}
	stored := copyPlan(plan)
	r.plans[plan.ID] = stored
	r.goals[plan.ID] = make(map[string]domain.FinancialGoal)
	return nil
}

func (r *InMemoryRepository) GetPlan(_ context.Context, id string) (*Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plan, ok := r.plans[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPlanNotFound, id)
	}
	return copyPlan(plan), nil
}

func (r *InMemoryRepository) ListPlans(_ context.Context) ([]Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Plan, 0, len(r.plans))
	for _, p := range r.plans {
		out = append(out, *copyPlan(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *InMemoryRepository) UpdatePlan(_ context.Context, plan *Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plans[plan.ID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrPlanNotFound, plan.ID)
	}
	r.plans[plan.ID] = copyPlan(plan)
	return nil
}

func (r *InMemoryRepository) DeletePlan(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plans[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrPlanNotFound, id)
	}
	delete(r.plans, id)
	delete(r.goals, id)
	delete(r.recommendations, id)
	return nil
}

func (r *InMemoryRepository) SaveGoal(_ context.Context, g domain.FinancialGoal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	goals, ok := r.goals[g.PlanID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrPlanNotFound, g.PlanID)
	}
	goals[g.ID] = copyGoal(g)
	return nil
}

func (r *InMemoryRepository) GetGoal(_ context.Context, planID, goalID string) (domain.FinancialGoal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.goals[planID][goalID]
	if !ok {
		return domain.FinancialGoal{}, fmt.Errorf("%w: %s", domain.ErrGoalNotFound, goalID)
	}
	return copyGoal(g), nil
}

func (r *InMemoryRepository) ListGoals(_ context.Context, planID string) ([]domain.FinancialGoal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedGoals(r.goals[planID]), nil
}

func (r *InMemoryRepository) ListAllGoals(_ context.Context) ([]domain.FinancialGoal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	planIDs := make([]string, 0, len(r.goals))
	for id := range r.goals {
		planIDs = append(planIDs, id)
	}
	sort.Strings(planIDs)

	var out []domain.FinancialGoal
	for _, id := range planIDs {
		out = append(out, sortedGoals(r.goals[id])...)
	}
	return out, nil
}

func (r *InMemoryRepository) DeleteGoal(_ context.Context, planID, goalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.goals[planID][goalID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrGoalNotFound, goalID)
	}
	delete(r.goals[planID], goalID)
	return nil
}

func (r *InMemoryRepository) SaveRecommendations(_ context.Context, planID string, recs []domain.PortfolioRecommendation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plans[planID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrPlanNotFound, planID)
	}
	r.recommendations[planID] = append(r.recommendations[planID], recs...)
	return nil
}

func (r *InMemoryRepository) ListRecommendations(_ context.Context, planID string, limit int) ([]domain.PortfolioRecommendation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.recommendations[planID]
	out := make([]domain.PortfolioRecommendation, len(stored))
	copy(out, stored)
	// Newest first; recommendations of one run keep their presentation order
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GeneratedAt.After(out[j].GeneratedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) PruneRecommendations(_ context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pruned := 0
	for planID, stored := range r.recommendations {
		var newest time.Time
		for _, rec := range stored {
			if rec.GeneratedAt.After(newest) {
				newest = rec.GeneratedAt
			}
		}
		kept := stored[:0]
		for _, rec := range stored {
			if rec.GeneratedAt.Before(cutoff) && rec.GeneratedAt.Before(newest) {
				pruned++
				continue
			}
			kept = append(kept, rec)
		}
		r.recommendations[planID] = kept
	}
	return pruned, nil
}

func sortedGoals(m map[string]domain.FinancialGoal) []domain.FinancialGoal {
	out := make([]domain.FinancialGoal, 0, len(m))
	for _, g := range m {
		out = append(out, copyGoal(g))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func copyPlan(p *Plan) *Plan {
	c := *p
	c.Goals = nil
	if p.Client != nil {
		client := *p.Client
		c.Client = &client
	}
	if p.Profile != nil {
		profile := *p.Profile
		profile.Recommendations = append([]string(nil), p.Profile.Recommendations...)
		profile.CompletedSections = append([]string(nil), p.Profile.CompletedSections...)
		profile.Diagnostics = append([]domain.Diagnostic(nil), p.Profile.Diagnostics...)
		c.Profile = &profile
	}
	if p.Preferences.Geographic != nil {
		geo := *p.Preferences.Geographic
		c.Preferences.Geographic = &geo
	}
	return &c
}

func copyGoal(g domain.FinancialGoal) domain.FinancialGoal {
	if g.RiskAllocationOverride != nil {
		v := *g.RiskAllocationOverride
		g.RiskAllocationOverride = &v
	}
	if g.MonthlyContributionOverride != nil {
		v := *g.MonthlyContributionOverride
		g.MonthlyContributionOverride = &v
	}
	g.Diagnostics = append([]domain.Diagnostic(nil), g.Diagnostics...)
	return g
}
