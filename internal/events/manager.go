// Package events emits and fans out planning lifecycle events.
package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EventType represents different event types
type EventType string

const (
	PlanCreated             EventType = "PLAN_CREATED"
	PlanDeleted             EventType = "PLAN_DELETED"
	ProfileCommitted        EventType = "PROFILE_COMMITTED"
	GoalAdded               EventType = "GOAL_ADDED"
	GoalUpdated             EventType = "GOAL_UPDATED"
	GoalDeleted             EventType = "GOAL_DELETED"
	GoalPastDue             EventType = "GOAL_PAST_DUE"
	RecommendationGenerated EventType = "RECOMMENDATION_GENERATED"
	SettingsChanged         EventType = "SETTINGS_CHANGED"
	BackupCompleted         EventType = "BACKUP_COMPLETED"
	ErrorOccurred           EventType = "ERROR_OCCURRED"
)

// Event represents a system event
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
	Module    string                 `json:"module"`
}

// Handler receives emitted events. Handlers run synchronously on the
// emitting goroutine and must not block.
type Handler func(Event)

// Manager handles event emission, logging and subscription
type Manager struct {
	mu          sync.RWMutex
	subscribers map[EventType][]Handler
	log         zerolog.Logger
	now         func() time.Time
}

// NewManager creates a new event manager
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		subscribers: make(map[EventType][]Handler),
		log:         log.With().Str("service", "events").Logger(),
		now:         time.Now,
	}
}

// Subscribe registers a handler for one event type
func (m *Manager) Subscribe(eventType EventType, h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers[eventType] = append(m.subscribers[eventType], h)
}

// Emit logs an event and delivers it to subscribers. A nil manager is a no-op.
func (m *Manager) Emit(eventType EventType, module string, data map[string]interface{}) {
	if m == nil {
		return
	}
	event := Event{
		Type:      eventType,
		Timestamp: m.now(),
		Data:      data,
		Module:    module,
	}

	eventJSON, _ := json.Marshal(event)
	m.log.Info().
		Str("event_type", string(eventType)).
		Str("module", module).
		RawJSON("event", eventJSON).
		Msg("Event emitted")

	m.mu.RLock()
	handlers := append([]Handler(nil), m.subscribers[eventType]...)
	m.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}

// EmitError emits an error event
func (m *Manager) EmitError(module string, err error, context map[string]interface{}) {
	m.Emit(ErrorOccurred, module, map[string]interface{}{
		"error":   err.Error(),
		"context": context,
	})
}
