package rules

import (
	"testing"

	"github.com/pantryops/aisleflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClassifier(t *testing.T) {
	tests := []struct {
		name    string
		errMsg  string
		table   []Rule
		wantErr bool
	}{
		{
			name: "valid table",
			table: []Rule{
				{Category: model.CategoryDairy, Keywords: []string{"milk"}},
				{Category: model.CategoryProduce, Keywords: []string{"banana", "apple"}},
			},
		},
		{
			name:    "unknown category",
			table:   []Rule{{Category: "Gadgets", Keywords: []string{"widget"}}},
			wantErr: true,
			errMsg:  "not in the known set",
		},
		{
			name:    "unclassified sentinel rejected",
			table:   []Rule{{Category: model.CategoryUnclassified, Keywords: []string{"x"}}},
			wantErr: true,
			errMsg:  "not in the known set",
		},
		{
			name:    "rule without keywords",
			table:   []Rule{{Category: model.CategoryDairy}},
			wantErr: true,
			errMsg:  "no keywords",
		},
		{
			name:    "blank keyword",
			table:   []Rule{{Category: model.CategoryDairy, Keywords: []string{"  "}}},
			wantErr: true,
			errMsg:  "empty keyword",
		},
		{
			name:    "unknown match mode",
			table:   []Rule{{Category: model.CategoryDairy, Mode: "fuzzy", Keywords: []string{"milk"}}},
			wantErr: true,
			errMsg:  "unknown match mode",
		},
		{
			name:  "empty table",
			table: []Rule{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClassifier(tt.table)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.table), c.RuleCount())
		})
	}
}

func TestClassifyFirstRuleWins(t *testing.T) {
	// Both rules match "cream soda"; declared order decides.
	c, err := NewClassifier([]Rule{
		{Category: model.CategoryDairy, Keywords: []string{"cream"}},
		{Category: model.CategoryBeverages, Keywords: []string{"soda"}},
	})
	require.NoError(t, err)

	assert.Equal(t, model.CategoryDairy, c.Classify("cream soda"))

	reversed, err := NewClassifier([]Rule{
		{Category: model.CategoryBeverages, Keywords: []string{"soda"}},
		{Category: model.CategoryDairy, Keywords: []string{"cream"}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.CategoryBeverages, reversed.Classify("cream soda"))
}

func TestClassifyMatchModes(t *testing.T) {
	c, err := NewClassifier([]Rule{
		{Category: model.CategoryBeverages, Mode: MatchExact, Keywords: []string{"water"}},
		{Category: model.CategoryHousehold, Keywords: []string{"water"}},
	})
	require.NoError(t, err)

	// Exact rule matches the whole key only.
	assert.Equal(t, model.CategoryBeverages, c.Classify("water"))
	// "sparkling water" skips the exact rule, then substring-matches.
	assert.Equal(t, model.CategoryHousehold, c.Classify("sparkling water"))
}

func TestClassifyUnclassified(t *testing.T) {
	c, err := NewClassifier(DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, model.CategoryUnclassified, c.Classify(""))
	assert.Equal(t, model.CategoryUnclassified, c.Classify("zxqvnorp"))
}

func TestClassifyDefaultRules(t *testing.T) {
	c, err := NewClassifier(DefaultRules())
	require.NoError(t, err)

	tests := []struct {
		key  string
		want model.Category
	}{
		{key: "banana", want: model.CategoryProduce},
		{key: "spinach", want: model.CategoryProduce},
		{key: "whole milk", want: model.CategoryDairy},
		{key: "greek yogurt", want: model.CategoryDairy},
		{key: "chicken thigh", want: model.CategoryMeat},
		{key: "salmon fillet", want: model.CategorySeafood},
		{key: "sourdough", want: model.CategoryBakery},
		{key: "frozen pea", want: model.CategoryFrozen},
		{key: "jasmine rice", want: model.CategoryPantry},
		{key: "tortilla chip", want: model.CategorySnacks},
		{key: "orange juice", want: model.CategoryBeverages},
		{key: "paper towel", want: model.CategoryHousehold},
		{key: "lotion", want: model.CategoryPersonalCare},
		// Substring matching quirk, preserved from the original table:
		// "ham" matches inside "shampoo", and Meat is declared first.
		{key: "shampoo", want: model.CategoryMeat},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.key))
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c, err := NewClassifier(DefaultRules())
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		assert.Equal(t, model.CategoryMeat, c.Classify("ground beef"))
		assert.Equal(t, model.CategoryUnclassified, c.Classify("mystery box"))
	}
}
