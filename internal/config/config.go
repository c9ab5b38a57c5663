// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration. Engine parameters are runtime
// settings stored in the database, not part of this struct.
type Config struct {
	DataDir                string // Base directory for the plan database and backup staging (always absolute)
	LogLevel               string
	Port                   int
	DevMode                bool
	HorizonRefreshSchedule string
	// CleanupSchedule runs the recommendation history cleanup
	CleanupSchedule string
	// RecommendationRetentionDays bounds stored recommendation history; the
	// newest run of every plan is always kept. 0 keeps everything.
	RecommendationRetentionDays int
	Backup                      BackupConfig
}

// BackupConfig holds the S3-compatible backup settings
type BackupConfig struct {
	Enabled         bool
	Schedule        string
	Endpoint        string // empty means AWS S3
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
	RetentionDays   int // 0 keeps every backup
}

// DatabasePath returns the path of the plan database
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "wealthplan.db")
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("WEALTHPLAN_DATA_DIR", "./data")

	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:                absDataDir,
		Port:                   getEnvAsInt("PORT", 8090),
		DevMode:                getEnvAsBool("DEV_MODE", false),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		HorizonRefreshSchedule: getEnv("HORIZON_REFRESH_SCHEDULE", "0 0 3 * * *"),
		CleanupSchedule:        getEnv("CLEANUP_SCHEDULE", "0 0 4 * * *"),
		Backup:                 loadBackupConfig(),

		RecommendationRetentionDays: getEnvAsInt("RECOMMENDATION_RETENTION_DAYS", 180),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadBackupConfig() BackupConfig {
	return BackupConfig{
		Enabled:         getEnvAsBool("BACKUP_ENABLED", false),
		Schedule:        getEnv("BACKUP_SCHEDULE", "0 30 3 * * *"),
		Endpoint:        getEnv("BACKUP_ENDPOINT", ""),
		Region:          getEnv("BACKUP_REGION", "auto"),
		Bucket:          getEnv("BACKUP_BUCKET", ""),
		AccessKeyID:     getEnv("BACKUP_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("BACKUP_SECRET_ACCESS_KEY", ""),
		Prefix:          getEnv("BACKUP_PREFIX", "wealthplan"),
		RetentionDays:   getEnvAsInt("BACKUP_RETENTION_DAYS", 30),
	}
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.HorizonRefreshSchedule == "" {
		return fmt.Errorf("horizon refresh schedule is required")
	}
	if c.CleanupSchedule == "" {
		return fmt.Errorf("cleanup schedule is required")
	}
	if c.RecommendationRetentionDays < 0 {
		return fmt.Errorf("recommendation retention cannot be negative")
	}

	if !c.Backup.Enabled {
		return nil
	}
	if c.Backup.Bucket == "" {
		return fmt.Errorf("BACKUP_BUCKET is required when backups are enabled")
	}
	if c.Backup.AccessKeyID == "" || c.Backup.SecretAccessKey == "" {
		return fmt.Errorf("backup credentials are required when backups are enabled")
	}
	if c.Backup.RetentionDays < 0 {
		return fmt.Errorf("backup retention cannot be negative")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
