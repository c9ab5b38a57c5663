// Package handlers provides HTTP handlers for engine settings management.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aristath/wealthplan/internal/events"
	"github.com/aristath/wealthplan/internal/modules/settings"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler provides HTTP handlers for settings endpoints
type Handler struct {
	service      *settings.Service
	eventManager *events.Manager
	log          zerolog.Logger
}

// NewHandler creates a new settings handler
func NewHandler(service *settings.Service, eventManager *events.Manager, log zerolog.Logger) *Handler {
	return &Handler{
		service:      service,
		eventManager: eventManager,
		log:          log.With().Str("handler", "settings").Logger(),
	}
}

// RegisterRoutes registers settings routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.HandleGetAll)
		r.Get("/engine", h.HandleGetEngineParams)
		r.Put("/{key}", h.HandleUpdate)
		r.Delete("/{key}", h.HandleReset)
	})
}

// HandleGetAll handles GET /api/settings
func (h *Handler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.GetAll()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get all settings")
		h.writeError(w, http.StatusInternalServerError, "Failed to get settings")
		return
	}
	h.writeData(w, http.StatusOK, all)
}

// HandleGetEngineParams handles GET /api/settings/engine
func (h *Handler) HandleGetEngineParams(w http.ResponseWriter, r *http.Request) {
	params, err := h.service.EngineParams()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to resolve engine params")
		h.writeError(w, http.StatusInternalServerError, "Failed to resolve engine params")
		return
	}
	h.writeData(w, http.StatusOK, params)
}

// HandleUpdate handles PUT /api/settings/{key}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var update settings.SettingUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Set(key, update.Value); err != nil {
		h.log.Warn().
			Err(err).
			Str("key", key).
			Interface("value", update.Value).
			Msg("Failed to update setting")
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.eventManager.Emit(events.SettingsChanged, "settings", map[string]interface{}{
		"key":   key,
		"value": update.Value,
	})

	h.writeData(w, http.StatusOK, map[string]interface{}{key: update.Value})
}

// HandleReset handles DELETE /api/settings/{key}
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := h.service.Reset(key); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	value, _ := h.service.Get(key)
	h.eventManager.Emit(events.SettingsChanged, "settings", map[string]interface{}{
		"key":   key,
		"value": value,
		"reset": true,
	})
	h.writeData(w, http.StatusOK, map[string]interface{}{key: value})
}

func (h *Handler) writeData(w http.ResponseWriter, status int, data interface{}) {
	h.writeJSON(w, status, map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
