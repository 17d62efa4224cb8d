package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pantryops/aisleflow/internal/model"
	"github.com/pantryops/aisleflow/internal/normalize"
)

// DefaultTimeout bounds a single fallback call so a hung provider cannot
// stall a whole organize request.
const DefaultTimeout = 5 * time.Second

// Fallback classifies items the rule table could not place by asking a
// text-generation provider for a strict JSON verdict. Every failure mode
// (network, timeout, malformed JSON, invalid category) degrades to "no
// result"; nothing propagates to the caller. One attempt per item, no
// retries: that is a latency and cost bound, not an oversight.
type Fallback struct {
	client    Client
	logger    *slog.Logger
	onFailure func(reason string)
	timeout   time.Duration
}

// NewFallback creates a fallback classifier around a provider client.
func NewFallback(client Client, timeout time.Duration, logger *slog.Logger) *Fallback {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{client: client, timeout: timeout, logger: logger}
}

// OnFailure registers a hook invoked with the reason each time a call
// degrades, typically a metrics counter.
func (f *Fallback) OnFailure(fn func(reason string)) *Fallback {
	f.onFailure = fn
	return f
}

func (f *Fallback) degrade(item, reason string, attrs ...any) {
	args := append([]any{"item", item, "reason", reason}, attrs...)
	f.logger.Warn("fallback classification degraded", args...)
	if f.onFailure != nil {
		f.onFailure(reason)
	}
}

// fallbackVerdict is the exact JSON shape the provider is instructed to
// return. DisallowUnknownFields enforces the "exactly two fields" contract.
type fallbackVerdict struct {
	Category       string `json:"category"`
	NormalizedName string `json:"normalized_name"`
}

// Classify asks the provider to place one raw item into the closed
// category set. ok=false means no usable verdict; the caller classifies
// the item Unclassified by policy.
func (f *Fallback) Classify(ctx context.Context, item string) (model.Classification, bool) {
	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	content, err := f.client.Complete(callCtx, buildPrompt(item))
	if err != nil {
		f.degrade(item, "provider_error", "error", err)
		return model.Classification{}, false
	}

	verdict, err := parseVerdict(content)
	if err != nil {
		f.degrade(item, "invalid_response", "error", err)
		return model.Classification{}, false
	}

	category, err := model.ParseCategory(verdict.Category)
	if err != nil {
		f.degrade(item, "unknown_category", "category", verdict.Category)
		return model.Classification{}, false
	}

	name := strings.TrimSpace(verdict.NormalizedName)
	if name == "" {
		f.degrade(item, "empty_normalized_name")
		return model.Classification{}, false
	}

	f.logger.Debug("fallback classified item",
		"item", item,
		"category", category,
		"normalized_name", name)

	return model.Classification{
		Item:           item,
		NormalizedName: normalize.Prettify(name),
		Category:       category,
		Source:         model.SourceFallback,
	}, true
}

// parseVerdict extracts and strictly decodes the provider's JSON verdict.
func parseVerdict(content string) (fallbackVerdict, error) {
	raw, ok := extractJSONObject(content)
	if !ok {
		return fallbackVerdict{}, fmt.Errorf("no JSON object in response")
	}

	var verdict fallbackVerdict
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&verdict); err != nil {
		return fallbackVerdict{}, fmt.Errorf("failed to decode verdict: %w", err)
	}
	return verdict, nil
}

// buildPrompt creates the fixed instruction prompt for one item. The
// category list is rendered from the closed enumeration so prompt and
// validation can never drift apart.
func buildPrompt(item string) string {
	names := make([]string, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		names = append(names, string(c))
	}

	return fmt.Sprintf(`You are a grocery categorization assistant. Classify the following grocery item into ONE of these categories: %s.

Return ONLY a JSON object with the exact schema:
{
  "category": "<category>",
  "normalized_name": "<name>"
}

Rules: do NOT invent items; do NOT include brand names unless essential; if uncertain choose "Misc"; normalized_name must be 1-3 words.

Item: %q

Respond with JSON only.`, strings.Join(names, ", "), item)
}
