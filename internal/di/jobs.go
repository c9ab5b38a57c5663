package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/wealthplan/internal/config"
	"github.com/aristath/wealthplan/internal/scheduler"
)

// RegisterJobs creates the scheduler and registers the background jobs. The
// scheduler is not started.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) error {
	sched := scheduler.New(log)

	refresh := scheduler.NewHorizonRefreshJob(container.PlanningService, log)
	if err := sched.AddJob(cfg.HorizonRefreshSchedule, refresh); err != nil {
		return fmt.Errorf("failed to register horizon refresh job: %w", err)
	}

	cleanup := scheduler.NewCleanupJob(container.PlanningService, cfg.RecommendationRetentionDays, log)
	if err := sched.AddJob(cfg.CleanupSchedule, cleanup); err != nil {
		return fmt.Errorf("failed to register cleanup job: %w", err)
	}

	if container.BackupService != nil {
		backup := scheduler.NewBackupJob(container.BackupService, cfg.Backup.RetentionDays, log)
		if err := sched.AddJob(cfg.Backup.Schedule, backup); err != nil {
			return fmt.Errorf("failed to register backup job: %w", err)
		}
	}

	container.Scheduler = sched
	return nil
}
