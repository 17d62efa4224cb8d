package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantOK  bool
	}{
		{
			name:    "bare object",
			content: `{"category": "Produce", "normalized_name": "Banana"}`,
			want:    `{"category": "Produce", "normalized_name": "Banana"}`,
			wantOK:  true,
		},
		{
			name:    "json fence",
			content: "```json\n{\"category\": \"Dairy\", \"normalized_name\": \"Milk\"}\n```",
			want:    `{"category": "Dairy", "normalized_name": "Milk"}`,
			wantOK:  true,
		},
		{
			name:    "fence without language tag",
			content: "```\n{\"category\": \"Misc\", \"normalized_name\": \"Thing\"}\n```",
			want:    `{"category": "Misc", "normalized_name": "Thing"}`,
			wantOK:  true,
		},
		{
			name:    "surrounding prose",
			content: `Sure! Here is the classification: {"category": "Bakery", "normalized_name": "Bagel"} Hope that helps.`,
			want:    `{"category": "Bakery", "normalized_name": "Bagel"}`,
			wantOK:  true,
		},
		{
			name:    "nested braces",
			content: `{"outer": {"inner": 1}, "category": "Misc"} trailing`,
			want:    `{"outer": {"inner": 1}, "category": "Misc"}`,
			wantOK:  true,
		},
		{
			name:    "brace inside string",
			content: `{"normalized_name": "weird } name", "category": "Misc"}`,
			want:    `{"normalized_name": "weird } name", "category": "Misc"}`,
			wantOK:  true,
		},
		{
			name:    "no json at all",
			content: "I could not classify that item.",
			wantOK:  false,
		},
		{
			name:    "unbalanced object",
			content: `{"category": "Produce"`,
			wantOK:  false,
		},
		{
			name:    "empty content",
			content: "   ",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSONObject(tt.content)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseVerdict(t *testing.T) {
	t.Run("valid verdict", func(t *testing.T) {
		v, err := parseVerdict(`{"category": "Produce", "normalized_name": "Dragon Fruit"}`)
		require.NoError(t, err)
		assert.Equal(t, "Produce", v.Category)
		assert.Equal(t, "Dragon Fruit", v.NormalizedName)
	})

	t.Run("extra fields rejected", func(t *testing.T) {
		_, err := parseVerdict(`{"category": "Produce", "normalized_name": "Kiwi", "confidence": 0.9}`)
		require.Error(t, err)
	})

	t.Run("wrong field type rejected", func(t *testing.T) {
		_, err := parseVerdict(`{"category": 7, "normalized_name": "Kiwi"}`)
		require.Error(t, err)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := parseVerdict("NOT JSON")
		require.Error(t, err)
	})
}
