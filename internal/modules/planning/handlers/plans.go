package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/wealthplan/internal/domain"
	"github.com/aristath/wealthplan/internal/modules/goals"
	"github.com/aristath/wealthplan/internal/modules/planning"
	"github.com/aristath/wealthplan/internal/modules/scoring"
)

// Handler serves planning sessions: plans, assessments, goals and stored
// recommendations
type Handler struct {
	service *planning.Service
	log     zerolog.Logger
}

// NewHandler creates a new planning handler
func NewHandler(service *planning.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "planning").Logger(),
	}
}

// RegisterRoutes registers plan routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/plans", func(r chi.Router) {
		r.Get("/", h.HandleListPlans)
		r.Post("/", h.HandleCreatePlan)

		r.Route("/{planID}", func(r chi.Router) {
			r.Get("/", h.HandleGetPlan)
			r.Delete("/", h.HandleDeletePlan)
			r.Put("/preferences", h.HandleUpdatePreferences)
			r.Post("/assessment", h.HandleCommitAssessment)

			r.Get("/goals", h.HandleListGoals)
			r.Post("/goals", h.HandleAddGoal)
			r.Post("/goals/templates/{key}", h.HandleAddGoalFromTemplate)
			r.Patch("/goals/{goalID}", h.HandleUpdateGoal)
			r.Delete("/goals/{goalID}", h.HandleDeleteGoal)

			r.Get("/recommendations", h.HandleListRecommendations)
			r.Post("/recommendations", h.HandleRecommend)
		})
	})
}

// HandleListPlans handles GET /api/plans
func (h *Handler) HandleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.ListPlans(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to list plans")
		return
	}
	writeData(w, h.log, http.StatusOK, plans)
}

// HandleCreatePlan handles POST /api/plans
func (h *Handler) HandleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var in planning.PlanInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, h.log, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		writeError(w, h.log, http.StatusBadRequest, "plan name is required")
		return
	}
	plan, err := h.service.CreatePlan(r.Context(), in)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to create plan")
		return
	}
	writeData(w, h.log, http.StatusCreated, plan)
}

// HandleGetPlan handles GET /api/plans/{planID}
func (h *Handler) HandleGetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.service.GetPlan(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to get plan")
		return
	}
	writeData(w, h.log, http.StatusOK, plan)
}

// HandleDeletePlan handles DELETE /api/plans/{planID}
func (h *Handler) HandleDeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePlan(r.Context(), chi.URLParam(r, "planID")); err != nil {
		writeServiceError(w, h.log, err, "Failed to delete plan")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUpdatePreferences handles PUT /api/plans/{planID}/preferences
func (h *Handler) HandleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var prefs domain.InvestmentPreferences
	if err := decodeBody(r, &prefs); err != nil {
		writeError(w, h.log, http.StatusBadRequest, "Invalid request body")
		return
	}
	plan, err := h.service.UpdatePreferences(r.Context(), chi.URLParam(r, "planID"), prefs)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to update preferences")
		return
	}
	writeData(w, h.log, http.StatusOK, plan)
}

// HandleCommitAssessment handles POST /api/plans/{planID}/assessment
func (h *Handler) HandleCommitAssessment(w http.ResponseWriter, r *http.Request) {
	var in scoring.Assessment
	if err := decodeBody(r, &in); err != nil {
		writeError(w, h.log, http.StatusBadRequest, "Invalid request body")
		return
	}
	profile, err := h.service.CommitAssessment(r.Context(), chi.URLParam(r, "planID"), in)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to commit assessment")
		return
	}
	writeData(w, h.log, http.StatusOK, profile)
}

// HandleListGoals handles GET /api/plans/{planID}/goals
func (h *Handler) HandleListGoals(w http.ResponseWriter, r *http.Request) {
	goalList, err := h.service.ListGoals(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to list goals")
		return
	}
	writeData(w, h.log, http.StatusOK, goalList)
}

// HandleAddGoal handles POST /api/plans/{planID}/goals
func (h *Handler) HandleAddGoal(w http.ResponseWriter, r *http.Request) {
	var in goals.GoalInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, h.log, http.StatusBadRequest, "Invalid request body")
		return
	}
	goal, err := h.service.AddGoal(r.Context(), chi.URLParam(r, "planID"), in)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to add goal")
		return
	}
	writeData(w, h.log, http.StatusCreated, goal)
}

// HandleAddGoalFromTemplate handles POST /api/plans/{planID}/goals/templates/{key}
func (h *Handler) HandleAddGoalFromTemplate(w http.ResponseWriter, r *http.Request) {
	goal, err := h.service.AddGoalFromTemplate(r.Context(), chi.URLParam(r, "planID"), chi.URLParam(r, "key"))
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to add goal from template")
		return
	}
	writeData(w, h.log, http.StatusCreated, goal)
}

// HandleUpdateGoal handles PATCH /api/plans/{planID}/goals/{goalID}
func (h *Handler) HandleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var patch goals.GoalPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, h.log, http.StatusBadRequest, "Invalid request body")
		return
	}
	goal, recomputed, err := h.service.UpdateGoal(r.Context(), chi.URLParam(r, "planID"), chi.URLParam(r, "goalID"), patch)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to update goal")
		return
	}
	writeData(w, h.log, http.StatusOK, map[string]interface{}{
		"goal":       goal,
		"recomputed": recomputed,
	})
}

// HandleDeleteGoal handles DELETE /api/plans/{planID}/goals/{goalID}
func (h *Handler) HandleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteGoal(r.Context(), chi.URLParam(r, "planID"), chi.URLParam(r, "goalID")); err != nil {
		writeServiceError(w, h.log, err, "Failed to delete goal")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRecommend handles POST /api/plans/{planID}/recommendations. An empty
// body uses the engine settings.
func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	var opts planning.RecommendOptions
	if r.ContentLength != 0 {
		if err := decodeBody(r, &opts); err != nil {
			writeError(w, h.log, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	set, err := h.service.Recommend(r.Context(), chi.URLParam(r, "planID"), opts)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to generate recommendations")
		return
	}
	writeData(w, h.log, http.StatusCreated, set)
}

// HandleListRecommendations handles GET /api/plans/{planID}/recommendations
func (h *Handler) HandleListRecommendations(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, h.log, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	recs, err := h.service.ListRecommendations(r.Context(), chi.URLParam(r, "planID"), limit)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to list recommendations")
		return
	}
	writeData(w, h.log, http.StatusOK, recs)
}
