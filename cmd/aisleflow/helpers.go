package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/pantryops/aisleflow/internal/common"
	"github.com/pantryops/aisleflow/internal/config"
	"github.com/pantryops/aisleflow/internal/llm"
	"github.com/pantryops/aisleflow/internal/metrics"
	"github.com/pantryops/aisleflow/internal/service"
	"github.com/pantryops/aisleflow/internal/storage"
)

// defaultDBPath is used when the config carries no database path.
const defaultDBPath = "$HOME/.local/share/aisleflow/aisleflow.db"

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newFallback builds the fallback classifier from the current
// configuration. Missing credentials disable the fallback instead of
// failing the command; items the rules can't place stay unclassified.
func newFallback(met *metrics.Collector) service.FallbackClassifier {
	cfg, err := config.LoadLLMConfig()
	if err != nil {
		if errors.Is(err, common.ErrMissingConfig) {
			slog.Debug("fallback classifier disabled", "reason", err)
		} else {
			slog.Warn("fallback classifier unavailable", "error", err)
		}
		return nil
	}

	client, err := llm.NewClient(*cfg)
	if err != nil {
		slog.Warn("fallback classifier unavailable", "error", err)
		return nil
	}

	timeout := viper.GetDuration("llm.timeout")
	fb := llm.NewFallback(client, timeout, slog.Default())
	if met != nil {
		fb.OnFailure(met.RecordFallbackFailure)
	}
	return fb
}
