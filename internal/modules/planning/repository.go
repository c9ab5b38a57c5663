package planning

import (
	"context"
	"time"

	"github.com/aristath/wealthplan/internal/domain"
)

// Repository defines the contract for plan, goal and recommendation storage
type Repository interface {
	// CreatePlan stores a new plan
	CreatePlan(ctx context.Context, plan *Plan) error

	// GetPlan returns the plan without its goals, or domain.ErrPlanNotFound
	GetPlan(ctx context.Context, id string) (*Plan, error)

	// ListPlans returns every plan ordered by creation time
	ListPlans(ctx context.Context) ([]Plan, error)

	// UpdatePlan replaces the stored plan fields
	UpdatePlan(ctx context.Context, plan *Plan) error

	// DeletePlan removes the plan together with its goals and recommendations
	DeletePlan(ctx context.Context, id string) error

	// SaveGoal inserts or replaces a goal. The owning plan must exist.
	SaveGoal(ctx context.Context, goal domain.FinancialGoal) error

	// GetGoal returns one goal of a plan, or domain.ErrGoalNotFound
	GetGoal(ctx context.Context, planID, goalID string) (domain.FinancialGoal, error)

	// ListGoals returns the goals of a plan ordered by creation time
	ListGoals(ctx context.Context, planID string) ([]domain.FinancialGoal, error)

	// ListAllGoals returns the goals of every plan
	ListAllGoals(ctx context.Context) ([]domain.FinancialGoal, error)

	// DeleteGoal removes one goal, or returns domain.ErrGoalNotFound
	DeleteGoal(ctx context.Context, planID, goalID string) error

	// SaveRecommendations stores a snapshot of each recommendation
	SaveRecommendations(ctx context.Context, planID string, recs []domain.PortfolioRecommendation) error

	// ListRecommendations returns stored recommendations, newest first.
	// limit <= 0 returns all of them.
	ListRecommendations(ctx context.Context, planID string, limit int) ([]domain.PortfolioRecommendation, error)

	// PruneRecommendations deletes recommendations generated before cutoff,
	// except those of each plan's newest run, and returns how many went
	PruneRecommendations(ctx context.Context, cutoff time.Time) (int, error)
}

// Compile-time check that SQLiteRepository implements Repository
var _ Repository = (*SQLiteRepository)(nil)

// Compile-time check that InMemoryRepository implements Repository
var _ Repository = (*InMemoryRepository)(nil)
