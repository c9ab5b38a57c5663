package di

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/aristath/wealthplan/internal/config"
	"github.com/aristath/wealthplan/internal/domain"
	"github.com/aristath/wealthplan/internal/events"
	"github.com/aristath/wealthplan/internal/modules/planning"
	"github.com/aristath/wealthplan/internal/modules/scoring"
	"github.com/aristath/wealthplan/internal/modules/settings"
	"github.com/aristath/wealthplan/internal/reliability"
)

// InitializeRepositories creates the repositories on top of the container's
// database
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	if container.DB == nil {
		return fmt.Errorf("database not initialized")
	}
	container.SettingsRepo = settings.NewRepository(container.DB.Conn(), log)
	container.PlanRepo = planning.NewSQLiteRepository(container.DB.Conn(), log)
	return nil
}

// InitializeServices creates the services. IDs are content hashes so that
// identical inputs yield identical identifiers.
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	container.EventManager = events.NewManager(log)
	container.IDs = domain.ContentHashGenerator{}
	container.SettingsService = settings.NewService(container.SettingsRepo, log)

	// Fail early on stored settings the engine cannot use
	params, err := container.SettingsService.EngineParams()
	if err != nil {
		return fmt.Errorf("invalid engine settings: %w", err)
	}
	if _, err := scoring.LookupWeightSet(params.WeightSet); err != nil {
		return fmt.Errorf("invalid engine settings: %w", err)
	}

	container.PlanningService = planning.NewService(
		container.PlanRepo,
		container.SettingsService,
		container.IDs,
		container.EventManager,
		nil,
		log,
	)

	if !cfg.Backup.Enabled {
		log.Info().Msg("Backups disabled")
		return nil
	}

	store, err := reliability.NewS3Client(context.Background(), reliability.S3Config{
		Endpoint:        cfg.Backup.Endpoint,
		Region:          cfg.Backup.Region,
		Bucket:          cfg.Backup.Bucket,
		AccessKeyID:     cfg.Backup.AccessKeyID,
		SecretAccessKey: cfg.Backup.SecretAccessKey,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to create backup client: %w", err)
	}
	container.BackupService = reliability.NewBackupService(
		container.DB,
		store,
		filepath.Join(cfg.DataDir, "backup-staging"),
		cfg.Backup.Prefix,
		container.EventManager,
		log,
	)
	return nil
}
