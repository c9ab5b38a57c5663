// Package planning manages planning sessions: a client's plan, its committed
// risk profile, its goals and the recommendations generated for it.
package planning

import (
	"time"

	"github.com/aristath/wealthplan/internal/domain"
	"github.com/aristath/wealthplan/internal/modules/scoring"
)

// Plan is one investor's planning session. Goals are owned by the plan and
// removed with it.
type Plan struct {
	ID          string                       `json:"id"`
	Name        string                       `json:"name"`
	Client      *domain.ClientInformation    `json:"client,omitempty"`
	Preferences domain.InvestmentPreferences `json:"preferences"`
	Responses   scoring.Responses            `json:"responses"`
	Profile     *domain.RiskProfile          `json:"profile,omitempty"`
	Goals       []domain.FinancialGoal       `json:"goals,omitempty"` // populated on read, not stored with the plan
	CreatedAt   time.Time                    `json:"created_at"`
	UpdatedAt   time.Time                    `json:"updated_at"`
}

// PlanInput is what the collection layer supplies when opening a plan
type PlanInput struct {
	Name        string                       `json:"name" yaml:"name"`
	Client      *domain.ClientInformation    `json:"client,omitempty" yaml:"client,omitempty"`
	Preferences domain.InvestmentPreferences `json:"preferences" yaml:"preferences"`
}

// RecommendOptions tunes a recommendation run. Zero values use the engine
// settings.
type RecommendOptions struct {
	InitialAmount       float64 `json:"initial_amount" yaml:"initial_amount"`
	Horizons            []int   `json:"horizons,omitempty" yaml:"horizons,omitempty"`
	IncludeAlternatives *bool   `json:"include_alternatives,omitempty" yaml:"include_alternatives,omitempty"`
}

// RefreshReport summarizes a horizon refresh run
type RefreshReport struct {
	Checked   int      `json:"checked"`
	Refreshed int      `json:"refreshed"`
	PastDue   []string `json:"past_due"`
}

// neutralRiskScore stands in for the overall risk score (0-100) of plans
// without a committed profile
const neutralRiskScore = 50.0
