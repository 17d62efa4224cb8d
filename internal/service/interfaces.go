// Package service defines the interfaces between the classification core
// and its external collaborators.
package service

import (
	"context"

	"github.com/pantryops/aisleflow/internal/model"
)

// Storage defines the contract for the persistence layer. The core only
// reads store layouts; writes happen through operator tooling.
type Storage interface {
	LayoutSource
	ItemCache

	// Store registry
	GetStore(ctx context.Context, name, postalCode string) (*model.Store, error)
	SaveLayout(ctx context.Context, store model.Store, layout model.StoreLayout) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// LayoutSource is the read-only layout lookup the resolver depends on.
// A nil layout with a nil error means "no layout configured".
type LayoutSource interface {
	GetLayout(ctx context.Context, storeName, postalCode string) (*model.StoreLayout, error)
	ListLayouts(ctx context.Context) ([]model.StoreLayout, error)
}

// ItemCache stores prior classification verdicts keyed by normalized item
// key. Manual rows always win and are never overwritten by the pipeline.
type ItemCache interface {
	GetCachedItem(ctx context.Context, key string) (*model.Classification, error)
	CacheItem(ctx context.Context, key string, result model.Classification) error
	OverrideItem(ctx context.Context, key string, category model.Category, displayName string) error
}

// FallbackClassifier is the narrow seam to the external text-generation
// service. ok=false means "no result": the item stays Unclassified and no
// error ever reaches the organize caller.
type FallbackClassifier interface {
	Classify(ctx context.Context, item string) (model.Classification, bool)
}
