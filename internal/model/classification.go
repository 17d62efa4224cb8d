package model

// Source records which stage of the pipeline produced a classification.
type Source string

const (
	// SourceRule marks classifications produced by the keyword rule table.
	SourceRule Source = "rule"
	// SourceFallback marks classifications produced by the external
	// text-generation fallback.
	SourceFallback Source = "fallback"
	// SourceCache marks classifications served from the item cache.
	SourceCache Source = "cache"
	// SourceManual marks operator overrides stored in the item cache.
	SourceManual Source = "manual"
	// SourceUnclassified marks items no classifier could place.
	SourceUnclassified Source = "unclassified"
)

// Classification pairs one input item with the category the pipeline
// assigned to it. Exactly one Classification exists per item per organize
// call; it is diagnostic state and never persisted here.
type Classification struct {
	// Item is the raw input text exactly as supplied by the caller.
	Item string
	// NormalizedName is a display-friendly form of the item. Output
	// rendering uses Item; this is retained for diagnostics and caching.
	NormalizedName string
	Category       Category
	Source         Source
}
