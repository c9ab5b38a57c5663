package di

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/wealthplan/internal/config"
	"github.com/aristath/wealthplan/internal/modules/planning"
	"github.com/aristath/wealthplan/internal/scheduler"
	testhelpers "github.com/aristath/wealthplan/internal/testing"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DataDir:                t.TempDir(),
		Port:                   8090,
		HorizonRefreshSchedule: "0 0 3 * * *",
		CleanupSchedule:        "0 0 4 * * *",

		RecommendationRetentionDays: 90,
	}
}

func TestWire(t *testing.T) {
	cfg := testConfig(t)

	container, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	assert.NotNil(t, container.DB)
	assert.NotNil(t, container.SettingsService)
	assert.NotNil(t, container.PlanningService)
	assert.Nil(t, container.BackupService)
	require.NotNil(t, container.Scheduler)
	assert.Equal(t, []string{scheduler.HorizonRefreshJobName, scheduler.CleanupJobName}, container.Scheduler.JobNames())
	assert.FileExists(t, cfg.DatabasePath())

	// The wired service persists through the plan database
	ctx := context.Background()
	plan, err := container.PlanningService.CreatePlan(ctx, planning.PlanInput{Name: "Wired"})
	require.NoError(t, err)
	_, err = container.PlanningService.AddGoal(ctx, plan.ID, testhelpers.NewGoalInputFixtures()[0])
	require.NoError(t, err)

	require.NoError(t, container.Scheduler.Trigger(scheduler.HorizonRefreshJobName))
	require.NoError(t, container.Scheduler.Trigger(scheduler.CleanupJobName))
}

func TestWire_InvalidSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.HorizonRefreshSchedule = "daily"

	_, err := Wire(cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "horizon refresh job")

	cfg = testConfig(t)
	cfg.CleanupSchedule = "nightly"
	_, err = Wire(cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "cleanup job")
}

func TestWire_ValidatesConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.CleanupSchedule = ""

	_, err := Wire(cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "cleanup schedule is required")
	assert.NoFileExists(t, cfg.DatabasePath())
}

func TestWire_RejectsBadEngineSettings(t *testing.T) {
	cfg := testConfig(t)

	container, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, container.SettingsService.Set("weight_set", "standard-v1"))
	_, err = container.DB.Conn().Exec(`UPDATE settings SET value = 'unknown' WHERE key = 'weight_set'`)
	require.NoError(t, err)
	require.NoError(t, container.Close())

	_, err = Wire(cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "invalid engine settings")
}
