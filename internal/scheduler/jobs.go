package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/wealthplan/internal/modules/planning"
)

// ErrUnknownJob is returned when triggering a job that was never registered
var ErrUnknownJob = errors.New("unknown job")

const (
	// HorizonRefreshJobName is the registered name of the horizon refresh job
	HorizonRefreshJobName = "horizon_refresh"
	// BackupJobName is the registered name of the backup job
	BackupJobName = "backup"
	// CleanupJobName is the registered name of the recommendation history cleanup
	CleanupJobName = "recommendation_cleanup"

	jobTimeout = 10 * time.Minute
)

// HorizonRefresher re-derives goal horizons. planning.Service implements it.
type HorizonRefresher interface {
	RefreshHorizons(ctx context.Context) (planning.RefreshReport, error)
}

// HorizonRefreshJob keeps time horizons, allocations and contributions
// current as target dates approach, and reports goals that became past due
type HorizonRefreshJob struct {
	refresher HorizonRefresher
	log       zerolog.Logger
}

// NewHorizonRefreshJob creates the horizon refresh job
func NewHorizonRefreshJob(refresher HorizonRefresher, log zerolog.Logger) *HorizonRefreshJob {
	return &HorizonRefreshJob{
		refresher: refresher,
		log:       log.With().Str("job", HorizonRefreshJobName).Logger(),
	}
}

// Name returns the job name
func (j *HorizonRefreshJob) Name() string {
	return HorizonRefreshJobName
}

// Run executes the horizon refresh
func (j *HorizonRefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	report, err := j.refresher.RefreshHorizons(ctx)
	if err != nil {
		return err
	}
	for _, id := range report.PastDue {
		j.log.Warn().Str("goal_id", id).Msg("Goal target date has passed")
	}
	return nil
}

// Backupper snapshots and uploads the database. reliability.BackupService
// implements it.
type Backupper interface {
	CreateAndUpload(ctx context.Context) (string, error)
	RotateOldBackups(ctx context.Context, retentionDays int) (int, error)
}

// BackupJob uploads a database snapshot and rotates expired ones
type BackupJob struct {
	backupper     Backupper
	retentionDays int
	log           zerolog.Logger
}

// NewBackupJob creates the backup job. A retention of 0 keeps every backup.
func NewBackupJob(backupper Backupper, retentionDays int, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		backupper:     backupper,
		retentionDays: retentionDays,
		log:           log.With().Str("job", BackupJobName).Logger(),
	}
}

// Name returns the job name
func (j *BackupJob) Name() string {
	return BackupJobName
}

// Run uploads a snapshot, then rotates. Rotation failures do not fail the
// job since the new snapshot is already stored.
func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := j.backupper.CreateAndUpload(ctx); err != nil {
		return err
	}
	if _, err := j.backupper.RotateOldBackups(ctx, j.retentionDays); err != nil {
		j.log.Warn().Err(err).Msg("Backup rotation failed")
	}
	return nil
}

// RecommendationPruner drops old recommendation history. planning.Service
// implements it.
type RecommendationPruner interface {
	PruneRecommendations(ctx context.Context, retentionDays int) (int, error)
}

// CleanupJob bounds the stored recommendation history
type CleanupJob struct {
	pruner        RecommendationPruner
	retentionDays int
	log           zerolog.Logger
}

// NewCleanupJob creates the cleanup job. A retention of 0 keeps everything.
func NewCleanupJob(pruner RecommendationPruner, retentionDays int, log zerolog.Logger) *CleanupJob {
	return &CleanupJob{
		pruner:        pruner,
		retentionDays: retentionDays,
		log:           log.With().Str("job", CleanupJobName).Logger(),
	}
}

// Name returns the job name
func (j *CleanupJob) Name() string {
	return CleanupJobName
}

// Run prunes recommendations past the retention window
func (j *CleanupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	pruned, err := j.pruner.PruneRecommendations(ctx, j.retentionDays)
	if err != nil {
		return err
	}
	j.log.Debug().Int("pruned", pruned).Msg("Cleanup finished")
	return nil
}
