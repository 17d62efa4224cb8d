package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pantryops/aisleflow/internal/model"
)

// normalizeItemKey lowercases and trims a cache key so lookups and writes
// agree regardless of how the caller spelled the item.
func normalizeItemKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// GetCachedItem returns the cached classification for an item key, or nil
// when the item has never been classified.
func (s *SQLiteStorage) GetCachedItem(ctx context.Context, key string) (*model.Classification, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(key, "key"); err != nil {
		return nil, err
	}

	var category, normalizedName, source string
	err := s.db.QueryRowContext(ctx, `
		SELECT category, normalized_name, source
		FROM item_cache
		WHERE item = ?`, normalizeItemKey(key)).Scan(&category, &normalizedName, &source)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached item: %w", err)
	}

	return &model.Classification{
		Item:           key,
		NormalizedName: normalizedName,
		Category:       model.Category(category),
		Source:         model.Source(source),
	}, nil
}

// CacheItem records a pipeline verdict for an item key. Rows written by
// an operator override carry source 'manual' and are never replaced here.
func (s *SQLiteStorage) CacheItem(ctx context.Context, key string, result model.Classification) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}
	if err := validateEntry(result); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO item_cache (item, category, normalized_name, source)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(item) DO UPDATE SET
			category = excluded.category,
			normalized_name = excluded.normalized_name,
			source = excluded.source
		WHERE item_cache.source != 'manual'`,
		normalizeItemKey(key), string(result.Category), result.NormalizedName, string(result.Source))
	if err != nil {
		return fmt.Errorf("failed to cache item: %w", err)
	}
	return nil
}

// OverrideItem pins an item key to a category. Overrides replace whatever
// the cache holds, including earlier overrides.
func (s *SQLiteStorage) OverrideItem(ctx context.Context, key string, category model.Category, displayName string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}
	if !category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidEntry, category)
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = key
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO item_cache (item, category, normalized_name, source)
		VALUES (?, ?, ?, 'manual')`,
		normalizeItemKey(key), string(category), displayName)
	if err != nil {
		return fmt.Errorf("failed to override item: %w", err)
	}
	return nil
}
