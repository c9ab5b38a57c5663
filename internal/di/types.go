// Package di provides dependency injection wiring and initialization.
package di

import (
	"github.com/aristath/wealthplan/internal/database"
	"github.com/aristath/wealthplan/internal/domain"
	"github.com/aristath/wealthplan/internal/events"
	"github.com/aristath/wealthplan/internal/modules/planning"
	"github.com/aristath/wealthplan/internal/modules/settings"
	"github.com/aristath/wealthplan/internal/reliability"
	"github.com/aristath/wealthplan/internal/scheduler"
)

// Container holds all dependencies for the application. It is the single
// source of truth for service instances and is passed to the server.
type Container struct {
	// Database
	DB *database.DB

	// Repositories
	SettingsRepo *settings.Repository
	PlanRepo     planning.Repository

	// Services
	EventManager    *events.Manager
	IDs             domain.IDGenerator
	SettingsService *settings.Service
	PlanningService *planning.Service
	BackupService   *reliability.BackupService // nil when backups are disabled

	// Background jobs
	Scheduler *scheduler.Scheduler
}

// Close releases the database. The scheduler must be stopped first.
func (c *Container) Close() error {
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
