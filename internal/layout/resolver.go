// Package layout resolves store identities to ordered zone layouts.
package layout

import (
	"context"
	"log/slog"

	"github.com/pantryops/aisleflow/internal/model"
	"github.com/pantryops/aisleflow/internal/service"
)

// Resolver looks up store layouts, preferring the most specific match:
// store+zip over store-only, store-only over the built-in default. It
// never fails outright; downstream grouping always receives a usable
// layout.
type Resolver struct {
	source service.LayoutSource
	logger *slog.Logger
}

// NewResolver creates a layout resolver. A nil source resolves everything
// to the default layout.
func NewResolver(source service.LayoutSource, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{source: source, logger: logger}
}

// Resolve returns the layout for a store, or the built-in default as last
// resort. Lookup errors are treated the same as missing configuration:
// logged, then recovered by substitution.
func (r *Resolver) Resolve(ctx context.Context, storeName, postalCode string) model.StoreLayout {
	if r.source == nil || storeName == "" {
		return DefaultLayout()
	}

	if postalCode != "" {
		if l := r.lookup(ctx, storeName, postalCode); l != nil {
			return *l
		}
	}
	if l := r.lookup(ctx, storeName, ""); l != nil {
		return *l
	}

	r.logger.Debug("no layout configured, using default",
		"store", storeName,
		"postal_code", postalCode)
	return DefaultLayout()
}

func (r *Resolver) lookup(ctx context.Context, storeName, postalCode string) *model.StoreLayout {
	l, err := r.source.GetLayout(ctx, storeName, postalCode)
	if err != nil {
		r.logger.Warn("layout lookup failed, falling back",
			"store", storeName,
			"postal_code", postalCode,
			"error", err)
		return nil
	}
	if l == nil || len(l.Zones) == 0 {
		return nil
	}
	return l
}

// DefaultLayout returns the built-in generic layout. It covers the full
// category enumeration so every classifiable item lands in a real zone.
func DefaultLayout() model.StoreLayout {
	return model.StoreLayout{
		StoreName: "",
		Zones: []model.Zone{
			{Name: "Produce", Categories: []model.Category{model.CategoryProduce}},
			{Name: "Meat & Seafood", Categories: []model.Category{model.CategoryMeat, model.CategorySeafood, model.CategoryDeli}},
			{Name: "Bakery", Categories: []model.Category{model.CategoryBakery}},
			{Name: "Dairy", Categories: []model.Category{model.CategoryDairy}},
			{Name: "Frozen", Categories: []model.Category{model.CategoryFrozen}},
			{Name: "Pantry", Categories: []model.Category{model.CategoryPantry}},
			{Name: "Snacks", Categories: []model.Category{model.CategorySnacks}},
			{Name: "Beverages", Categories: []model.Category{model.CategoryBeverages}},
			{Name: "Household", Categories: []model.Category{model.CategoryHousehold}},
			{Name: "Personal Care", Categories: []model.Category{model.CategoryPersonalCare}},
			{Name: "Misc", Categories: []model.Category{model.CategoryMisc}},
		},
	}
}
