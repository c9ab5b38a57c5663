package goals

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aristath/wealthplan/internal/domain"
)

// GoalInput is what the collection layer supplies when creating a goal
type GoalInput struct {
	Name                        string              `json:"name" yaml:"name"`
	Category                    domain.GoalCategory `json:"category" yaml:"category"`
	TargetAmount                float64             `json:"target_amount" yaml:"target_amount"`
	CurrentAmount               float64             `json:"current_amount" yaml:"current_amount"`
	TargetDate                  time.Time           `json:"target_date" yaml:"target_date"`
	Importance                  int                 `json:"importance" yaml:"importance"`
	Priority                    domain.Priority     `json:"priority,omitempty" yaml:"priority,omitempty"`
	RiskAllocationOverride      *float64            `json:"risk_allocation_override,omitempty" yaml:"risk_allocation_override,omitempty"`
	MonthlyContributionOverride *float64            `json:"monthly_contribution_override,omitempty" yaml:"monthly_contribution_override,omitempty"`
}

// GoalPatch is a partial update. Nil fields are left untouched.
type GoalPatch struct {
	Name                             *string              `json:"name,omitempty"`
	Category                         *domain.GoalCategory `json:"category,omitempty"`
	TargetAmount                     *float64             `json:"target_amount,omitempty"`
	CurrentAmount                    *float64             `json:"current_amount,omitempty"`
	TargetDate                       *time.Time           `json:"target_date,omitempty"`
	Importance                       *int                 `json:"importance,omitempty"`
	Priority                         *domain.Priority     `json:"priority,omitempty"`
	RiskAllocationOverride           *float64             `json:"risk_allocation_override,omitempty"`
	ClearRiskAllocationOverride      bool                 `json:"clear_risk_allocation_override,omitempty"`
	MonthlyContributionOverride      *float64             `json:"monthly_contribution_override,omitempty"`
	ClearMonthlyContributionOverride bool                 `json:"clear_monthly_contribution_override,omitempty"`
}

// Recomputed reports which derived fields an update refreshed
type Recomputed struct {
	TimeHorizon         bool `json:"time_horizon"`
	RiskAllocation      bool `json:"risk_allocation"`
	MonthlyContribution bool `json:"monthly_contribution"`
}

// Calculator keeps a goal's derived fields consistent with its inputs
type Calculator struct {
	now func() time.Time
}

// NewCalculator creates a calculator. now defaults to time.Now.
func NewCalculator(now func() time.Time) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{now: now}
}

// Now returns the calculator's clock reading
func (c *Calculator) Now() time.Time {
	return c.now()
}

func validate(g domain.FinancialGoal) error {
	var problems []string
	if strings.TrimSpace(g.Name) == "" {
		problems = append(problems, "name is required")
	}
	if g.TargetAmount <= 0 {
		problems = append(problems, "target amount must be positive")
	}
	if g.CurrentAmount < 0 {
		problems = append(problems, "current amount cannot be negative")
	}
	if g.Importance < 1 || g.Importance > 10 {
		problems = append(problems, "importance must be between 1 and 10")
	}
	if g.RiskAllocationOverride != nil && (*g.RiskAllocationOverride < 0 || *g.RiskAllocationOverride > 100) {
		problems = append(problems, "risk allocation override must be between 0 and 100")
	}
	if g.MonthlyContributionOverride != nil && *g.MonthlyContributionOverride < 0 {
		problems = append(problems, "monthly contribution override cannot be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidGoal, strings.Join(problems, "; "))
	}
	if !g.Category.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownGoalCategory, g.Category)
	}
	return nil
}

// NewGoal builds a goal with every derived field computed
func (c *Calculator) NewGoal(id, planID string, in GoalInput, overallRiskScore float64) (domain.FinancialGoal, error) {
	now := c.now().UTC()
	g := domain.FinancialGoal{
		ID:                          id,
		PlanID:                      planID,
		Name:                        in.Name,
		Category:                    in.Category,
		TargetAmount:                in.TargetAmount,
		CurrentAmount:               in.CurrentAmount,
		TargetDate:                  in.TargetDate,
		Importance:                  in.Importance,
		Priority:                    in.Priority,
		PriorityOverride:            in.Priority != "",
		RiskAllocationOverride:      in.RiskAllocationOverride,
		MonthlyContributionOverride: in.MonthlyContributionOverride,
		CreatedAt:                   now,
		UpdatedAt:                   now,
	}
	if err := validate(g); err != nil {
		return domain.FinancialGoal{}, err
	}
	if err := c.refreshHorizon(&g); err != nil {
		return domain.FinancialGoal{}, err
	}
	c.refreshPriority(&g)
	c.refreshAllocation(&g, overallRiskScore)
	if err := c.refreshContribution(&g); err != nil {
		return domain.FinancialGoal{}, err
	}
	return g, nil
}

// Update applies a patch and recomputes exactly what the changed inputs
// require: target date, target or current amount changes refresh the monthly
// contribution; category, horizon or importance changes refresh the risk
// allocation (and with it the contribution, whose return assumption depends
// on the allocation).
func (c *Calculator) Update(g domain.FinancialGoal, patch GoalPatch, overallRiskScore float64) (domain.FinancialGoal, Recomputed, error) {
	var rec Recomputed
	updated := g

	var allocationDirty, contributionDirty, horizonDirty bool

	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Category != nil && *patch.Category != g.Category {
		updated.Category = *patch.Category
		allocationDirty = true
	}
	if patch.TargetAmount != nil && *patch.TargetAmount != g.TargetAmount {
		updated.TargetAmount = *patch.TargetAmount
		contributionDirty = true
	}
	if patch.CurrentAmount != nil && *patch.CurrentAmount != g.CurrentAmount {
		updated.CurrentAmount = *patch.CurrentAmount
		contributionDirty = true
	}
	if patch.TargetDate != nil && !patch.TargetDate.Equal(g.TargetDate) {
		updated.TargetDate = *patch.TargetDate
		horizonDirty = true
	}
	if patch.Importance != nil && *patch.Importance != g.Importance {
		updated.Importance = *patch.Importance
		allocationDirty = true
	}
	if patch.Priority != nil {
		updated.Priority = *patch.Priority
		updated.PriorityOverride = *patch.Priority != ""
	}
	if patch.ClearRiskAllocationOverride {
		updated.RiskAllocationOverride = nil
		contributionDirty = true
	}
	if patch.RiskAllocationOverride != nil {
		v := *patch.RiskAllocationOverride
		updated.RiskAllocationOverride = &v
		contributionDirty = true
	}
	if patch.ClearMonthlyContributionOverride {
		updated.MonthlyContributionOverride = nil
	}
	if patch.MonthlyContributionOverride != nil {
		v := *patch.MonthlyContributionOverride
		updated.MonthlyContributionOverride = &v
	}

	if err := validate(updated); err != nil {
		return g, rec, err
	}

	if horizonDirty {
		before := updated.TimeHorizon
		if err := c.refreshHorizon(&updated); err != nil {
			return g, rec, err
		}
		rec.TimeHorizon = true
		contributionDirty = true
		if updated.TimeHorizon != before {
			allocationDirty = true
		}
	}

	c.refreshPriority(&updated)

	if allocationDirty {
		c.refreshAllocation(&updated, overallRiskScore)
		rec.RiskAllocation = true
		contributionDirty = true
	}
	if contributionDirty {
		if err := c.refreshContribution(&updated); err != nil {
			return g, rec, err
		}
		rec.MonthlyContribution = true
	}

	updated.UpdatedAt = c.now().UTC()
	return updated, rec, nil
}

// Recompute refreshes every derived field, e.g. after the investor's risk
// profile changed or time has passed.
func (c *Calculator) Recompute(g domain.FinancialGoal, overallRiskScore float64) (domain.FinancialGoal, error) {
	updated := g
	if err := c.refreshHorizon(&updated); err != nil {
		return g, err
	}
	c.refreshPriority(&updated)
	c.refreshAllocation(&updated, overallRiskScore)
	if err := c.refreshContribution(&updated); err != nil {
		return g, err
	}
	updated.UpdatedAt = c.now().UTC()
	return updated, nil
}

// IsPastDue reports whether the goal's target date is today or earlier
func (c *Calculator) IsPastDue(g domain.FinancialGoal) bool {
	return checkHorizon(c.now(), g.TargetDate) != nil
}

func (c *Calculator) refreshHorizon(g *domain.FinancialGoal) error {
	years, err := YearsUntil(c.now(), g.TargetDate)
	if err != nil {
		return err
	}
	g.TimeHorizon = years
	return nil
}

func (c *Calculator) refreshPriority(g *domain.FinancialGoal) {
	if !g.PriorityOverride || g.Priority == "" {
		g.Priority = domain.PriorityFromImportance(g.Importance)
		g.PriorityOverride = false
	}
}

func (c *Calculator) refreshAllocation(g *domain.FinancialGoal, overallRiskScore float64) {
	allocation, clamped := optimalRiskAllocation(InputFromGoal(*g), overallRiskScore)
	g.RiskAllocation = allocation
	g.Diagnostics = withoutCode(g.Diagnostics, domain.DiagAllocationClamped)
	if clamped {
		b := g.Category.Bounds()
		g.Diagnostics = append(g.Diagnostics, domain.Diagnostic{
			Code:    domain.DiagAllocationClamped,
			Message: fmt.Sprintf("allocation clamped into %s range [%.0f, %.0f]", g.Category, b.Min, b.Max),
		})
	}
}

func (c *Calculator) refreshContribution(g *domain.FinancialGoal) error {
	months, err := MonthsUntil(c.now(), g.TargetDate)
	if err != nil {
		return err
	}
	contribution, err := RequiredMonthlyContribution(g.TargetAmount, g.CurrentAmount, months, AssumedAnnualReturn(g.EffectiveRiskAllocation()))
	if err != nil {
		return err
	}
	g.MonthlyContribution = RoundCents(contribution)
	return nil
}

func withoutCode(diags []domain.Diagnostic, code string) []domain.Diagnostic {
	var out []domain.Diagnostic
	for _, d := range diags {
		if d.Code != code {
			out = append(out, d)
		}
	}
	return out
}

// IsInvalidHorizon reports whether err is an invalid horizon condition
func IsInvalidHorizon(err error) bool {
	return errors.Is(err, domain.ErrInvalidHorizon)
}
