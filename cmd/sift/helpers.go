package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ledgersift/ledgersift/internal/common"
	"github.com/ledgersift/ledgersift/internal/config"
	"github.com/ledgersift/ledgersift/internal/registry"
	"github.com/ledgersift/ledgersift/internal/storage"
	"github.com/spf13/viper"
)

func setupLogging() error {
	level := viper.GetString("logging.level")
	format := viper.GetString("logging.format")

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}

	return common.SetupLogger(slogLevel, format)
}

// loadRegistry builds the format registry from the configured source,
// falling back to the built-in defaults.
func loadRegistry() *registry.Registry {
	path := viper.GetString("formats.path")
	if path != "" {
		path = config.ExpandPath(path)
	}
	return registry.LoadOrDefault(path)
}

// initStore initializes the run-history store with proper path expansion.
func initStore(ctx context.Context) (*storage.Store, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/sift/sift.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewStore(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}
