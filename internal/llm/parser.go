package llm

import (
	"strings"
)

// extractJSONObject pulls the first JSON object out of a completion.
// Providers are instructed to return bare JSON, but in practice responses
// arrive wrapped in markdown fences or surrounded by prose, so this
// tolerates both: a fenced block wins, otherwise the first balanced
// {...} span is taken. Returns ok=false when no object is extractable.
func extractJSONObject(content string) (string, bool) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", false
	}

	if fenced, ok := extractFencedBlock(content); ok {
		content = fenced
	}

	start := strings.IndexByte(content, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		ch := content[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[start : i+1], true
			}
		}
	}

	return "", false
}

// extractFencedBlock returns the body of the first ```-fenced block, with
// an optional language tag on the opening fence.
func extractFencedBlock(content string) (string, bool) {
	open := strings.Index(content, "```")
	if open < 0 {
		return "", false
	}
	rest := content[open+3:]

	// Skip the language tag (e.g. "json") up to the first newline.
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[nl+1:]
	}

	closing := strings.Index(rest, "```")
	if closing < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:closing]), true
}
