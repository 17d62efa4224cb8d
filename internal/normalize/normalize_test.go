package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercases and trims", input: "  Whole Milk  ", want: "whole milk"},
		{name: "collapses internal whitespace", input: "greek   yogurt", want: "greek yogurt"},
		{name: "strips punctuation", input: "Ben's ice-cream, please!", want: "ben ice-cream please"},
		{name: "strips plain plural", input: "Bananas", want: "banana"},
		{name: "strips ies plural", input: "berries", want: "berry"},
		{name: "strips sibilant es plural", input: "tomatoes", want: "tomato"},
		{name: "keeps short words intact", input: "gas", want: "gas"},
		{name: "keeps ss endings intact", input: "swiss grass", want: "swiss grass"},
		{name: "keeps us endings intact", input: "hummus", want: "hummus"},
		{name: "empty input", input: "", want: ""},
		{name: "whitespace only", input: "   \t ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Bananas", "  Greek   Yogurt ", "tomatoes", "berries", "Paper Towels",
		"hummus", "chips & salsa", "",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestPrettify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "greek yogurt", want: "Greek Yogurt"},
		{input: "  sour dough  ", want: "Sour Dough"},
		{input: "extra virgin olive oil", want: "Extra Virgin Olive"},
		{input: "MILK", want: "Milk"},
		{input: "", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Prettify(tt.input))
	}
}
