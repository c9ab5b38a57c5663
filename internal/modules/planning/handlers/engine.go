package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/wealthplan/internal/domain"
	"github.com/aristath/wealthplan/internal/modules/goals"
	"github.com/aristath/wealthplan/internal/modules/planning"
	"github.com/aristath/wealthplan/internal/modules/recommendation"
	"github.com/aristath/wealthplan/internal/modules/risk"
	"github.com/aristath/wealthplan/internal/modules/scoring"
	"github.com/aristath/wealthplan/internal/modules/settings"
)

// EngineHandler exposes the engine without persistence: every request
// carries all of its inputs
type EngineHandler struct {
	config planning.EngineConfig
	ids    domain.IDGenerator
	now    func() time.Time
	log    zerolog.Logger
}

// NewEngineHandler creates a stateless engine handler. config, ids and now
// may be nil.
func NewEngineHandler(config planning.EngineConfig, ids domain.IDGenerator, now func() time.Time, log zerolog.Logger) *EngineHandler {
	if ids == nil {
		ids = domain.ContentHashGenerator{}
	}
	if now == nil {
		now = time.Now
	}
	return &EngineHandler{
		config: config,
		ids:    ids,
		now:    now,
		log:    log.With().Str("handler", "engine").Logger(),
	}
}

// RegisterRoutes registers engine routes
func (h *EngineHandler) RegisterRoutes(r chi.Router) {
	r.Route("/risk", func(r chi.Router) {
		r.Get("/weight-sets", h.HandleWeightSets)
		r.Post("/profile", h.HandleRiskProfile)
		r.Post("/metrics", h.HandleRiskMetrics)
	})
	r.Route("/goals", func(r chi.Router) {
		r.Get("/templates", h.HandleTemplates)
		r.Post("/contribution", h.HandleContribution)
		r.Post("/allocation", h.HandleAllocation)
	})
	r.Post("/recommendations", h.HandleRecommendations)
}

func (h *EngineHandler) params() (settings.EngineParams, error) {
	if h.config == nil {
		return settings.DefaultEngineParams(), nil
	}
	return h.config.EngineParams()
}

// HandleWeightSets handles GET /api/risk/weight-sets
func (h *EngineHandler) HandleWeightSets(w http.ResponseWriter, r *http.Request) {
	writeData(w, h.log, http.StatusOK, scoring.WeightSetNames())
}

// HandleRiskProfile handles POST /api/risk/profile
func (h *EngineHandler) HandleRiskProfile(w http.ResponseWriter, r *http.Request) {
	var in scoring.Assessment
	if err := decodeBody(r, &in); err != nil {
		writeError(w, h.log, http.StatusBadRequest, "Invalid request body")
		return
	}
	params, err := h.params()
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to resolve engine params")
		return
	}
	assessor, err := scoring.NewAssessorByName(params.WeightSet)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to load weight set")
		return
	}
	writeData(w, h.log, http.StatusOK, assessor.Assess(in))
}

type riskMetricsRequest struct {
	Allocation     *domain.AssetAllocation `json:"allocation,omitempty"`
	ExpectedReturn float64                 `json:"expected_return"`
	Volatility     float64                 `json:"volatility"`
}

// HandleRiskMetrics handles POST /api/risk/metrics. An allocation takes
// precedence over a bare return and volatility pair.
func (h *EngineHandler) HandleRiskMetrics(w http.ResponseWriter, r *http.Request) {
	var req riskMetricsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.log, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Volatility < 0 {
		writeError(w, h.log, http.StatusBadRequest, "volatility cannot be negative")
		return
	}
	params, err := h.params()
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to resolve engine params")
		return
	}

	deriver := risk.NewDeriver(params.Risk)
	if req.Allocation != nil {
		writeData(w, h.log, http.StatusOK, deriver.DeriveAllocation(*req.Allocation))
		return
	}
	writeData(w, h.log, http.StatusOK, deriver.Derive(req.ExpectedReturn, req.Volatility))
}

// HandleTemplates handles GET /api/goals/templates
func (h *EngineHandler) HandleTemplates(w http.ResponseWriter, r *http.Request) {
	writeData(w, h.log, http.StatusOK, goals.Templates())
}

type contributionRequest struct {
	TargetAmount   float64    `json:"target_amount"`
	CurrentAmount  float64    `json:"current_amount"`
	Months         int        `json:"months,omitempty"`
	TargetDate     *time.Time `json:"target_date,omitempty"`
	AnnualReturn   *float64   `json:"annual_return,omitempty"`
	RiskAllocation float64    `json:"risk_allocation,omitempty"`
}

// HandleContribution handles POST /api/goals/contribution. The horizon comes
// from months or, failing that, the target date. Without an explicit annual
// return the return assumed for the risk allocation is used.
func (h *EngineHandler) HandleContribution(w http.ResponseWriter, r *http.Request) {
	var req contributionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.log, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TargetAmount <= 0 || req.CurrentAmount < 0 {
		writeError(w, h.log, http.StatusBadRequest, "target amount must be positive and current amount non-negative")
		return
	}

	months := req.Months
	if months == 0 && req.TargetDate != nil {
		m, err := goals.MonthsUntil(h.now(), *req.TargetDate)
		if err != nil {
			writeServiceError(w, h.log, err, "Failed to compute horizon")
			return
		}
		months = m
	}

	annualReturn := goals.AssumedAnnualReturn(req.RiskAllocation)
	if req.AnnualReturn != nil {
		annualReturn = *req.AnnualReturn
	}

	payment, err := goals.RequiredMonthlyContribution(req.TargetAmount, req.CurrentAmount, months, annualReturn)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to compute contribution")
		return
	}
	writeData(w, h.log, http.StatusOK, map[string]interface{}{
		"monthly_contribution": goals.RoundCents(payment),
		"months":               months,
		"annual_return":        annualReturn,
	})
}

type allocationRequest struct {
	Category         domain.GoalCategory `json:"category"`
	TimeHorizon      float64             `json:"time_horizon"`
	Importance       int                 `json:"importance"`
	OverallRiskScore float64             `json:"overall_risk_score"`
}

// HandleAllocation handles POST /api/goals/allocation. overall_risk_score is
// on the 0-100 scale.
func (h *EngineHandler) HandleAllocation(w http.ResponseWriter, r *http.Request) {
	var req allocationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.log, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, err := domain.ParseGoalCategory(string(req.Category)); err != nil {
		writeServiceError(w, h.log, err, "Failed to parse category")
		return
	}
	if req.Importance < 1 || req.Importance > 10 {
		writeError(w, h.log, http.StatusBadRequest, "importance must be between 1 and 10")
		return
	}
	if req.TimeHorizon <= 0 {
		writeServiceError(w, h.log, fmt.Errorf("%w: %.2f years", domain.ErrInvalidHorizon, req.TimeHorizon), "Invalid horizon")
		return
	}

	allocation := goals.OptimalRiskAllocation(goals.AllocationInput{
		Category:    req.Category,
		TimeHorizon: req.TimeHorizon,
		Importance:  req.Importance,
	}, req.OverallRiskScore)
	writeData(w, h.log, http.StatusOK, map[string]interface{}{
		"risk_allocation": allocation,
		"bounds":          req.Category.Bounds(),
	})
}

type recommendationsRequest struct {
	PlanID              string                       `json:"plan_id,omitempty"`
	Profile             domain.RiskProfile           `json:"profile"`
	Goals               []domain.FinancialGoal       `json:"goals,omitempty"`
	Preferences         domain.InvestmentPreferences `json:"preferences"`
	InitialAmount       float64                      `json:"initial_amount"`
	Horizons            []int                        `json:"horizons,omitempty"`
	IncludeAlternatives *bool                        `json:"include_alternatives,omitempty"`
}

// HandleRecommendations handles POST /api/recommendations
func (h *EngineHandler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.log, http.StatusBadRequest, "Invalid request body")
		return
	}
	params, err := h.params()
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to resolve engine params")
		return
	}

	build := recommendation.Request{
		PlanID:              req.PlanID,
		Profile:             req.Profile,
		Goals:               req.Goals,
		Preferences:         req.Preferences,
		InitialAmount:       req.InitialAmount,
		Horizons:            params.ProjectionHorizons,
		IncludeAlternatives: params.IncludeAlternatives,
	}
	if len(req.Horizons) > 0 {
		build.Horizons = req.Horizons
	}
	if req.IncludeAlternatives != nil {
		build.IncludeAlternatives = *req.IncludeAlternatives
	}

	set, err := planning.NewBuilder(params, h.ids, h.now).Build(build)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to build recommendations")
		return
	}
	writeData(w, h.log, http.StatusOK, set)
}
