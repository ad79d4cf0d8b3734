// Package cli holds the startup steps shared by the kakeibo binaries.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"kakeibo/internal/backend"
	"kakeibo/internal/config"
	"kakeibo/internal/log"
	"kakeibo/internal/storage"
)

// Bootstrap loads the environment, builds the component logger and returns a
// validated configuration. Validation failure exits the process: a worker
// with a broken configuration has nothing useful to do.
func Bootstrap(component string) (*config.Config, *slog.Logger) {
	// .env is for local development; absent in production is fine.
	_ = godotenv.Load()

	logger := log.New(log.FromEnv(component))
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg, logger
}

// OpenDraftStore opens the SQLite draft store or exits the process.
func OpenDraftStore(cfg *config.Config, logger *slog.Logger) *storage.DraftStore {
	store, err := storage.NewDraftStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open draft store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	return store
}

// BackendConfig translates the env configuration into a backend selection.
func BackendConfig(cfg *config.Config) backend.Config {
	bc := backend.Config{
		Type:          backend.BackendType(cfg.DataBackend),
		SubmitURL:     cfg.APISubmitURL,
		CategoriesURL: cfg.APICategoriesURL,
	}
	if cfg.APIToken != "" {
		bc.Headers = map[string]string{"Authorization": "Bearer " + cfg.APIToken}
	}
	return bc
}
