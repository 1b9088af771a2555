// Package cli holds the start-up steps shared by cmd/expensepad and
// cmd/expensepad-relay.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"expensepad/internal/backend"
	"expensepad/internal/config"
	"expensepad/internal/log"
	"expensepad/internal/storage"
	"expensepad/internal/store"
)

// LoadEnvFile loads .env for local development. A missing file is fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and
// installs it as slog's default. Unknown values fall back to info/text;
// Validate reports them.
func SetupLogger(cfg *config.Config) *log.Logger {
	level, _ := log.ParseLevel(cfg.LogLevel)
	logger := log.New(log.Config{
		Level:     level,
		Component: log.ComponentApp,
		JSON:      cfg.LogFormat == "json",
		Output:    os.Stdout,
	})
	log.SetDefault(logger)
	return logger
}

// LoadConfig loads the environment, sets up logging and validates with
// validate. It exits the process on validation failure.
func LoadConfig(validate func(*config.Config) error) (*config.Config, *log.Logger) {
	LoadEnvFile()
	cfg := config.Load()
	logger := SetupLogger(cfg)
	if err := validate(cfg); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}

// OpenState opens the configured repository and binds a state container
// to it. The caller closes the repository.
func OpenState(ctx context.Context, factory *backend.Factory, cfg *config.Config) (*store.State, storage.Repository, error) {
	repo, err := factory.OpenRepository(cfg)
	if err != nil {
		return nil, nil, err
	}
	state, err := storage.Bind(ctx, repo, cfg.ScriptURL)
	if err != nil {
		repo.Close()
		return nil, nil, fmt.Errorf("bind state: %w", err)
	}
	return state, repo, nil
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
