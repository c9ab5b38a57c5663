package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/wealthplan/internal/config"
	"github.com/aristath/wealthplan/internal/database"
)

// InitializeDatabases opens the plan database and applies the schema
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	db, err := database.New(database.Config{
		Path:    cfg.DatabasePath(),
		Profile: database.ProfileDurable,
		Name:    "wealthplan",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize plan database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate plan database: %w", err)
	}

	log.Info().Str("path", db.Path()).Msg("Plan database ready")
	return &Container{DB: db}, nil
}
