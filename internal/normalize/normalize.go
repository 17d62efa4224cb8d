// Package normalize canonicalizes raw item text into matching keys.
package normalize

import "strings"

// minDepluralLength is the shortest word we will strip a plural suffix
// from. Shorter words ("gas", "ties") are too risky to mangle.
const minDepluralLength = 4

// Normalize converts raw item text into the key used for rule matching:
// lower-cased, trimmed, internal whitespace collapsed, simple punctuation
// stripped, and common plural suffixes removed word by word. It is a pure
// function and idempotent; empty or whitespace-only input yields "".
func Normalize(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if lowered == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch r {
		case '.', ',', '!', '?', ';', ':', '\'', '"', '(', ')', '[', ']':
			// dropped
		default:
			b.WriteRune(r)
		}
	}

	words := strings.Fields(b.String())
	for i, w := range words {
		words[i] = depluralize(w)
	}
	return strings.Join(words, " ")
}

// depluralize conservatively strips a trailing plural suffix from a single
// word. It only touches words long enough to be safe and skips endings
// where stripping would corrupt the word ("ss", "us", "is").
func depluralize(word string) string {
	if len(word) < minDepluralLength {
		return word
	}

	// berries -> berry
	if strings.HasSuffix(word, "ies") && len(word) > minDepluralLength {
		return word[:len(word)-3] + "y"
	}

	for _, unsafe := range []string{"ss", "us", "is"} {
		if strings.HasSuffix(word, unsafe) {
			return word
		}
	}

	// tomatoes, peaches, radishes, boxes
	for _, sibilant := range []string{"ches", "shes", "xes", "zes", "oes"} {
		if strings.HasSuffix(word, sibilant) {
			return word[:len(word)-2]
		}
	}

	if strings.HasSuffix(word, "s") {
		return word[:len(word)-1]
	}
	return word
}

// Prettify produces a display-friendly form of an item name: title case,
// capped at three words. Used for cached display names, never for matching.
func Prettify(raw string) string {
	words := strings.Fields(strings.TrimSpace(raw))
	if len(words) > 3 {
		words = words[:3]
	}
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

func titleWord(w string) string {
	runes := []rune(strings.ToLower(w))
	if len(runes) == 0 {
		return w
	}
	if runes[0] >= 'a' && runes[0] <= 'z' {
		runes[0] = runes[0] - 'a' + 'A'
	}
	return string(runes)
}
