package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a
// fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS item_cache (
					item TEXT PRIMARY KEY,
					category TEXT NOT NULL,
					normalized_name TEXT NOT NULL,
					source TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS stores (
					store_id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					chain TEXT,
					UNIQUE(name)
				)`,

				`CREATE TABLE IF NOT EXISTS store_locations (
					location_id INTEGER PRIMARY KEY AUTOINCREMENT,
					store_id INTEGER NOT NULL,
					city TEXT,
					state TEXT,
					postal_code TEXT,
					FOREIGN KEY(store_id) REFERENCES stores(store_id),
					UNIQUE(store_id, postal_code)
				)`,

				`CREATE TABLE IF NOT EXISTS store_zones (
					zone_id INTEGER PRIMARY KEY AUTOINCREMENT,
					location_id INTEGER NOT NULL,
					zone_name TEXT NOT NULL,
					zone_order INTEGER NOT NULL,
					FOREIGN KEY(location_id) REFERENCES store_locations(location_id),
					UNIQUE(location_id, zone_order)
				)`,

				`CREATE TABLE IF NOT EXISTS zone_categories (
					zone_id INTEGER NOT NULL,
					category TEXT NOT NULL,
					PRIMARY KEY (zone_id, category),
					FOREIGN KEY(zone_id) REFERENCES store_zones(zone_id)
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add lookup indexes for layout resolution",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE INDEX IF NOT EXISTS idx_store_locations_store_id ON store_locations(store_id)`,
				`CREATE INDEX IF NOT EXISTS idx_store_zones_location_id ON store_zones(location_id)`,
				`CREATE INDEX IF NOT EXISTS idx_item_cache_source ON item_cache(source)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	// Get current version
	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	// Apply migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		// Update version
		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	// Verify we're at the expected schema version
	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
