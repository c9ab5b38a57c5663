package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "DEV_MODE", "HORIZON_REFRESH_SCHEDULE",
		"CLEANUP_SCHEDULE", "RECOMMENDATION_RETENTION_DAYS",
		"BACKUP_ENABLED", "BACKUP_SCHEDULE", "BACKUP_ENDPOINT", "BACKUP_REGION", "BACKUP_BUCKET",
		"BACKUP_ACCESS_KEY_ID", "BACKUP_SECRET_ACCESS_KEY", "BACKUP_PREFIX", "BACKUP_RETENTION_DAYS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := filepath.Join(t.TempDir(), "nested", "data")
	t.Setenv("WEALTHPLAN_DATA_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.DirExists(t, dir)
	assert.Equal(t, filepath.Join(dir, "wealthplan.db"), cfg.DatabasePath())
	assert.Equal(t, 8090, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, "0 0 3 * * *", cfg.HorizonRefreshSchedule)
	assert.Equal(t, "0 0 4 * * *", cfg.CleanupSchedule)
	assert.Equal(t, 180, cfg.RecommendationRetentionDays)
	assert.False(t, cfg.Backup.Enabled)
	assert.Equal(t, 30, cfg.Backup.RetentionDays)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("WEALTHPLAN_DATA_DIR", t.TempDir())
	t.Setenv("PORT", "9100")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BACKUP_ENABLED", "true")
	t.Setenv("BACKUP_BUCKET", "plans")
	t.Setenv("BACKUP_ACCESS_KEY_ID", "id")
	t.Setenv("BACKUP_SECRET_ACCESS_KEY", "secret")
	t.Setenv("BACKUP_ENDPOINT", "http://localhost:9000")
	t.Setenv("RECOMMENDATION_RETENTION_DAYS", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Backup.Enabled)
	assert.Equal(t, "plans", cfg.Backup.Bucket)
	assert.Equal(t, "http://localhost:9000", cfg.Backup.Endpoint)
	assert.Equal(t, 0, cfg.RecommendationRetentionDays)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("WEALTHPLAN_DATA_DIR", t.TempDir())
	t.Setenv("PORT", "eighty")
	t.Setenv("DEV_MODE", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8090, cfg.Port)
	assert.False(t, cfg.DevMode)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:                   8090,
			HorizonRefreshSchedule: "0 0 3 * * *",
			CleanupSchedule:        "0 0 4 * * *",
			Backup: BackupConfig{
				Enabled:         true,
				Bucket:          "plans",
				AccessKeyID:     "id",
				SecretAccessKey: "secret",
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"disabled backup needs nothing", func(c *Config) { c.Backup = BackupConfig{} }, ""},
		{"bad port", func(c *Config) { c.Port = 70000 }, "invalid port"},
		{"missing schedule", func(c *Config) { c.HorizonRefreshSchedule = "" }, "schedule"},
		{"missing cleanup schedule", func(c *Config) { c.CleanupSchedule = "" }, "cleanup schedule"},
		{"negative recommendation retention", func(c *Config) { c.RecommendationRetentionDays = -5 }, "recommendation retention"},
		{"missing bucket", func(c *Config) { c.Backup.Bucket = "" }, "BACKUP_BUCKET"},
		{"missing secret", func(c *Config) { c.Backup.SecretAccessKey = "" }, "credentials"},
		{"negative retention", func(c *Config) { c.Backup.RetentionDays = -1 }, "retention"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
