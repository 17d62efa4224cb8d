package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pantryops/aisleflow/internal/common"
	"github.com/pantryops/aisleflow/internal/model"
)

// GetStore returns the registered store matching name, preferring the
// location with the given postal code when one is supplied.
func (s *SQLiteStorage) GetStore(ctx context.Context, name, postalCode string) (*model.Store, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	query := `
		SELECT s.store_id, s.name, COALESCE(s.chain, ''),
		       COALESCE(sl.city, ''), COALESCE(sl.state, ''), COALESCE(sl.postal_code, ''),
		       sl.location_id
		FROM stores s
		JOIN store_locations sl ON s.store_id = sl.store_id
		WHERE s.name = ?`
	args := []any{name}
	if postalCode != "" {
		query += ` AND sl.postal_code = ?`
		args = append(args, postalCode)
	}
	query += ` ORDER BY sl.location_id LIMIT 1`

	var store model.Store
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&store.ID, &store.Name, &store.Chain,
		&store.City, &store.State, &store.PostalCode,
		&store.LocationID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store %q: %w", name, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store: %w", err)
	}

	return &store, nil
}

// GetLayout returns the zone layout for the named store. When postalCode
// is non-empty only that location matches; otherwise the store's first
// registered location is used. A nil layout with a nil error means no
// layout is configured.
func (s *SQLiteStorage) GetLayout(ctx context.Context, storeName, postalCode string) (*model.StoreLayout, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(storeName, "storeName"); err != nil {
		return nil, err
	}

	query := `
		SELECT sl.location_id, COALESCE(sl.postal_code, '')
		FROM stores s
		JOIN store_locations sl ON s.store_id = sl.store_id
		WHERE s.name = ?`
	args := []any{storeName}
	if postalCode != "" {
		query += ` AND sl.postal_code = ?`
		args = append(args, postalCode)
	}
	query += ` ORDER BY sl.location_id LIMIT 1`

	var locationID int64
	var locationZip string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&locationID, &locationZip)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find store location: %w", err)
	}

	zones, err := s.zonesForLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if len(zones) == 0 {
		return nil, nil
	}

	return &model.StoreLayout{
		StoreName:  storeName,
		PostalCode: locationZip,
		Zones:      zones,
	}, nil
}

// zonesForLocation loads a location's zones in walk order with their
// category sets.
func (s *SQLiteStorage) zonesForLocation(ctx context.Context, locationID int64) ([]model.Zone, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sz.zone_name, zc.category
		FROM store_zones sz
		JOIN zone_categories zc ON sz.zone_id = zc.zone_id
		WHERE sz.location_id = ?
		ORDER BY sz.zone_order ASC, zc.rowid ASC`, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query zones: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var zones []model.Zone
	for rows.Next() {
		var zoneName, category string
		if err := rows.Scan(&zoneName, &category); err != nil {
			return nil, fmt.Errorf("failed to scan zone row: %w", err)
		}
		if len(zones) == 0 || zones[len(zones)-1].Name != zoneName {
			zones = append(zones, model.Zone{Name: zoneName})
		}
		last := len(zones) - 1
		zones[last].Categories = append(zones[last].Categories, model.Category(category))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate zone rows: %w", err)
	}

	return zones, nil
}

// ListLayouts returns every configured layout, ordered by store name and
// location.
func (s *SQLiteStorage) ListLayouts(ctx context.Context) ([]model.StoreLayout, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.name, COALESCE(sl.postal_code, ''), sl.location_id
		FROM stores s
		JOIN store_locations sl ON s.store_id = sl.store_id
		ORDER BY s.name ASC, sl.location_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	type location struct {
		name string
		zip  string
		id   int64
	}
	var locations []location
	for rows.Next() {
		var loc location
		if err := rows.Scan(&loc.name, &loc.zip, &loc.id); err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate location rows: %w", err)
	}

	layouts := make([]model.StoreLayout, 0, len(locations))
	for _, loc := range locations {
		zones, err := s.zonesForLocation(ctx, loc.id)
		if err != nil {
			return nil, err
		}
		if len(zones) == 0 {
			continue
		}
		layouts = append(layouts, model.StoreLayout{
			StoreName:  loc.name,
			PostalCode: loc.zip,
			Zones:      zones,
		})
	}

	return layouts, nil
}

// SaveLayout registers the store and location if needed and replaces that
// location's zone layout with the one supplied.
func (s *SQLiteStorage) SaveLayout(ctx context.Context, store model.Store, layout model.StoreLayout) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(store.Name, "store.Name"); err != nil {
		return err
	}
	if err := validateLayout(layout); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	storeID, err := upsertStore(ctx, tx, store.Name, store.Chain)
	if err != nil {
		return err
	}

	locationID, err := upsertLocation(ctx, tx, storeID, store)
	if err != nil {
		return err
	}

	// Replace any existing layout for this location
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM zone_categories
		WHERE zone_id IN (SELECT zone_id FROM store_zones WHERE location_id = ?)`, locationID); err != nil {
		return fmt.Errorf("failed to clear zone categories: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM store_zones WHERE location_id = ?`, locationID); err != nil {
		return fmt.Errorf("failed to clear zones: %w", err)
	}

	for order, zone := range layout.Zones {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO store_zones (location_id, zone_name, zone_order)
			VALUES (?, ?, ?)`, locationID, zone.Name, order+1)
		if err != nil {
			return fmt.Errorf("failed to insert zone %q: %w", zone.Name, err)
		}
		zoneID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get zone id: %w", err)
		}
		for _, category := range zone.Categories {
			if _, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO zone_categories (zone_id, category)
				VALUES (?, ?)`, zoneID, string(category)); err != nil {
				return fmt.Errorf("failed to insert zone category: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit layout: %w", err)
	}
	return nil
}

func upsertStore(ctx context.Context, tx *sql.Tx, name, chain string) (int64, error) {
	if _, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO stores (name, chain)
		VALUES (?, ?)`, name, nullable(chain)); err != nil {
		return 0, fmt.Errorf("failed to insert store: %w", err)
	}

	var storeID int64
	if err := tx.QueryRowContext(ctx, `SELECT store_id FROM stores WHERE name = ?`, name).Scan(&storeID); err != nil {
		return 0, fmt.Errorf("failed to look up store: %w", err)
	}
	return storeID, nil
}

func upsertLocation(ctx context.Context, tx *sql.Tx, storeID int64, store model.Store) (int64, error) {
	// UNIQUE(store_id, postal_code) does not deduplicate NULL postal
	// codes, so look up before inserting.
	var locationID int64
	err := tx.QueryRowContext(ctx, `
		SELECT location_id FROM store_locations
		WHERE store_id = ? AND COALESCE(postal_code, '') = ?
		ORDER BY location_id LIMIT 1`, storeID, store.PostalCode).Scan(&locationID)
	if err == nil {
		return locationID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up location: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO store_locations (store_id, city, state, postal_code)
		VALUES (?, ?, ?, ?)`, storeID, nullable(store.City), nullable(store.State), nullable(store.PostalCode))
	if err != nil {
		return 0, fmt.Errorf("failed to insert location: %w", err)
	}
	locationID, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get location id: %w", err)
	}
	return locationID, nil
}

// nullable maps empty strings to NULL so UNIQUE constraints treat missing
// values consistently.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
