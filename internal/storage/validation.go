package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pantryops/aisleflow/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrInvalidLayout = errors.New("invalid store layout")
	ErrInvalidEntry  = errors.New("invalid cache entry")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateLayout ensures a layout is well formed before persisting it.
func validateLayout(layout model.StoreLayout) error {
	if len(layout.Zones) == 0 {
		return fmt.Errorf("%w: no zones", ErrInvalidLayout)
	}
	seen := make(map[string]struct{}, len(layout.Zones))
	for i, zone := range layout.Zones {
		if strings.TrimSpace(zone.Name) == "" {
			return fmt.Errorf("%w: zone %d has no name", ErrInvalidLayout, i)
		}
		if _, dup := seen[zone.Name]; dup {
			return fmt.Errorf("%w: duplicate zone %q", ErrInvalidLayout, zone.Name)
		}
		seen[zone.Name] = struct{}{}
		if len(zone.Categories) == 0 {
			return fmt.Errorf("%w: zone %q has no categories", ErrInvalidLayout, zone.Name)
		}
		for _, c := range zone.Categories {
			if !c.Valid() {
				return fmt.Errorf("%w: zone %q has unknown category %q", ErrInvalidLayout, zone.Name, c)
			}
		}
	}
	return nil
}

// validateEntry ensures a cache entry carries a real category.
func validateEntry(result model.Classification) error {
	if !result.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidEntry, result.Category)
	}
	if strings.TrimSpace(result.NormalizedName) == "" {
		return fmt.Errorf("%w: missing normalized name", ErrInvalidEntry)
	}
	return nil
}
