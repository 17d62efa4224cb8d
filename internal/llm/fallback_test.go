package llm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/pantryops/aisleflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient returns a canned completion or error.
type stubClient struct {
	response string
	err      error
	calls    int
}

func (s *stubClient) Complete(_ context.Context, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

// hangingClient blocks until its context is canceled.
type hangingClient struct{}

func (hangingClient) Complete(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFallbackClassifySuccess(t *testing.T) {
	stub := &stubClient{response: "```json\n{\"category\": \"Produce\", \"normalized_name\": \"dragon   fruit deluxe pack\"}\n```"}
	f := NewFallback(stub, 0, testLogger())

	result, ok := f.Classify(context.Background(), "Dragonfruit Deluxe Pack of 3")
	require.True(t, ok)
	assert.Equal(t, model.CategoryProduce, result.Category)
	assert.Equal(t, model.SourceFallback, result.Source)
	assert.Equal(t, "Dragonfruit Deluxe Pack of 3", result.Item)
	// Display name is prettified and capped at three words.
	assert.Equal(t, "Dragon Fruit Deluxe", result.NormalizedName)
}

func TestFallbackClassifyCaseInsensitiveCategory(t *testing.T) {
	stub := &stubClient{response: `{"category": "personal care", "normalized_name": "Hand Lotion"}`}
	f := NewFallback(stub, 0, testLogger())

	result, ok := f.Classify(context.Background(), "aveeno lotion 12oz")
	require.True(t, ok)
	assert.Equal(t, model.CategoryPersonalCare, result.Category)
}

func TestFallbackClassifyDegradesToNoResult(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{name: "provider error", err: fmt.Errorf("connection refused")},
		{name: "not json", response: "I think this is Produce."},
		{name: "missing category field", response: `{"normalized_name": "Thing"}`},
		{name: "missing normalized_name field", response: `{"category": "Produce"}`},
		{name: "blank normalized_name", response: `{"category": "Produce", "normalized_name": "   "}`},
		{name: "category outside closed set", response: `{"category": "Electronics", "normalized_name": "Gadget"}`},
		{name: "unclassified sentinel rejected", response: `{"category": "Unclassified", "normalized_name": "Thing"}`},
		{name: "extra fields", response: `{"category": "Produce", "normalized_name": "Kiwi", "note": "hi"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubClient{response: tt.response, err: tt.err}
			f := NewFallback(stub, 0, testLogger())

			_, ok := f.Classify(context.Background(), "some item")
			assert.False(t, ok)
			assert.Equal(t, 1, stub.calls, "exactly one attempt, no retries")
		})
	}
}

func TestFallbackOnFailureHook(t *testing.T) {
	var reasons []string
	stub := &stubClient{response: "not json at all"}
	f := NewFallback(stub, 0, testLogger()).OnFailure(func(reason string) {
		reasons = append(reasons, reason)
	})

	_, ok := f.Classify(context.Background(), "some item")
	require.False(t, ok)
	assert.Equal(t, []string{"invalid_response"}, reasons)

	// Successful calls do not fire the hook.
	stub.response = `{"category": "Produce", "normalized_name": "Kiwi"}`
	_, ok = f.Classify(context.Background(), "kiwi")
	require.True(t, ok)
	assert.Len(t, reasons, 1)
}

func TestFallbackClassifyTimeout(t *testing.T) {
	f := NewFallback(hangingClient{}, 50*time.Millisecond, testLogger())

	start := time.Now()
	_, ok := f.Classify(context.Background(), "slow item")
	assert.False(t, ok)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestFallbackClassifyCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFallback(hangingClient{}, time.Minute, testLogger())
	_, ok := f.Classify(ctx, "item")
	assert.False(t, ok)
}

func TestBuildPromptContract(t *testing.T) {
	prompt := buildPrompt(`2% "fancy" milk`)

	assert.Contains(t, prompt, `"category"`)
	assert.Contains(t, prompt, `"normalized_name"`)
	assert.Contains(t, prompt, "Respond with JSON only.")
	for _, c := range model.Categories() {
		assert.Contains(t, prompt, string(c))
	}
}

func TestNewClientFactory(t *testing.T) {
	for _, provider := range []string{"openai", "anthropic", "gemini"} {
		t.Run(provider, func(t *testing.T) {
			c, err := NewClient(Config{Provider: provider, APIKey: "test-key"})
			require.NoError(t, err)
			assert.NotNil(t, c)
		})
	}

	t.Run("missing key", func(t *testing.T) {
		_, err := NewClient(Config{Provider: "openai"})
		require.Error(t, err)
	})

	t.Run("unsupported provider", func(t *testing.T) {
		_, err := NewClient(Config{Provider: "carrier-pigeon", APIKey: "k"})
		require.Error(t, err)
	})
}
