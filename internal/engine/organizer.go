// Package engine implements the core classification and grouping engine
// that turns free-text item lists into zone-ordered shopping lists.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pantryops/aisleflow/internal/common"
	"github.com/pantryops/aisleflow/internal/metrics"
	"github.com/pantryops/aisleflow/internal/model"
	"github.com/pantryops/aisleflow/internal/normalize"
	"github.com/pantryops/aisleflow/internal/rules"
	"github.com/pantryops/aisleflow/internal/service"
)

// CatchAllZone is the display name of the synthetic group that collects
// items whose category matches no configured zone.
const CatchAllZone = "Misc"

// Organizer classifies items and groups them by store zone. It carries no
// per-call state: two calls with the same inputs produce identical output
// (modulo external-service variability when the fallback is enabled).
type Organizer struct {
	rules    *rules.Classifier
	fallback service.FallbackClassifier
	cache    service.ItemCache
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// Config holds the optional collaborators of an Organizer. Zero values
// disable the corresponding stage.
type Config struct {
	Fallback service.FallbackClassifier
	Cache    service.ItemCache
	Metrics  *metrics.Collector
	Logger   *slog.Logger
}

// New creates an organizer around a compiled rule table.
func New(ruleClassifier *rules.Classifier, cfg Config) *Organizer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Organizer{
		rules:    ruleClassifier,
		fallback: cfg.Fallback,
		cache:    cfg.Cache,
		metrics:  cfg.Metrics,
		logger:   logger,
	}
}

// Organize classifies each item and assigns it to the first zone, in the
// layout's declared order, that accepts the item's category. Items no zone
// accepts (including ones still Unclassified after every classifier) land
// in the catch-all group, which is always emitted last. Within a group,
// items keep their input order. Empty groups are dropped; an empty item
// list yields an empty result, not an error.
func (o *Organizer) Organize(ctx context.Context, layout model.StoreLayout, items []string) ([]model.Group, error) {
	zoneItems := make([][]string, len(layout.Zones))
	var catchAll []string

	for _, item := range items {
		result := o.Classify(ctx, item)

		// A category outside the closed set reaching this point is a
		// rule-table or cache bug, not a runtime condition to absorb.
		if result.Category != model.CategoryUnclassified && !result.Category.Valid() {
			return nil, fmt.Errorf("%w: %q for item %q", common.ErrUnknownCategory, result.Category, item)
		}

		o.logger.Debug("item classified",
			"item", item,
			"category", result.Category,
			"source", result.Source)
		if o.metrics != nil {
			o.metrics.RecordClassification(string(result.Source))
		}

		idx := zoneIndexFor(layout, result.Category)
		if idx < 0 {
			catchAll = append(catchAll, item)
			continue
		}
		zoneItems[idx] = append(zoneItems[idx], item)
	}

	groups := make([]model.Group, 0, len(layout.Zones)+1)
	for i, z := range layout.Zones {
		if len(zoneItems[i]) == 0 {
			continue
		}
		groups = append(groups, model.Group{Zone: z.Name, Items: zoneItems[i]})
	}
	if len(catchAll) > 0 {
		groups = append(groups, model.Group{Zone: CatchAllZone, Items: catchAll})
	}

	if o.metrics != nil {
		o.metrics.RecordOrganize(len(items))
	}
	return groups, nil
}

// Classify runs one item through the pipeline: normalize, cache lookup,
// rule table, then the external fallback when enabled. It never fails;
// items nothing can place come back Unclassified.
func (o *Organizer) Classify(ctx context.Context, item string) model.Classification {
	if strings.TrimSpace(item) == "" {
		return unclassified(item)
	}

	key := normalize.Normalize(item)

	if o.cache != nil {
		cached, err := o.cache.GetCachedItem(ctx, key)
		if err != nil {
			o.logger.Warn("item cache lookup failed", "key", key, "error", err)
		} else if cached != nil {
			cached.Item = item
			return *cached
		}
	}

	if category := o.rules.Classify(key); category != model.CategoryUnclassified {
		return model.Classification{
			Item:           item,
			NormalizedName: normalize.Prettify(item),
			Category:       category,
			Source:         model.SourceRule,
		}
	}

	if o.fallback != nil && ctx.Err() == nil {
		if result, ok := o.fallback.Classify(ctx, item); ok {
			o.storeVerdict(ctx, key, result)
			return result
		}
	}

	return unclassified(item)
}

// storeVerdict writes a fallback success back to the item cache so the
// next request skips the external call. Failures only cost the cache hit.
func (o *Organizer) storeVerdict(ctx context.Context, key string, result model.Classification) {
	if o.cache == nil || key == "" {
		return
	}
	if err := o.cache.CacheItem(ctx, key, result); err != nil {
		o.logger.Warn("failed to cache classification", "key", key, "error", err)
	}
}

func unclassified(item string) model.Classification {
	return model.Classification{
		Item:           item,
		NormalizedName: normalize.Prettify(item),
		Category:       model.CategoryUnclassified,
		Source:         model.SourceUnclassified,
	}
}

// zoneIndexFor returns the index of the first zone accepting c, or -1.
func zoneIndexFor(layout model.StoreLayout, c model.Category) int {
	if c == model.CategoryUnclassified {
		return -1
	}
	for i, z := range layout.Zones {
		if z.Accepts(c) {
			return i
		}
	}
	return -1
}
