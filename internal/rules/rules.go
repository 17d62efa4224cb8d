// Package rules provides the deterministic keyword-based item classifier.
package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pantryops/aisleflow/internal/model"
)

// MatchMode selects how a rule's keywords are compared against a
// normalized item key.
type MatchMode string

const (
	// MatchSubstring matches when a keyword appears anywhere in the key.
	MatchSubstring MatchMode = "substring"
	// MatchExact matches only when a keyword equals the whole key.
	MatchExact MatchMode = "exact"
)

// Rule maps a set of keywords to one category. Rules are evaluated in
// declared order and the first rule with any matching keyword wins; that
// order is configuration, not an incidental property.
type Rule struct {
	Category model.Category
	Mode     MatchMode
	Keywords []string
}

// Classifier holds an ordered, immutable rule table. Construct once at
// startup and share freely; Classify is safe for concurrent use.
type Classifier struct {
	rules []compiledRule
}

type compiledRule struct {
	category model.Category
	mode     MatchMode
	// keywords sorted longest-first so the most specific keyword in a
	// rule is the one reported in diagnostics.
	keywords []string
}

// NewClassifier validates and compiles an ordered rule table. Declared
// rule order is preserved exactly.
func NewClassifier(table []Rule) (*Classifier, error) {
	compiled := make([]compiledRule, 0, len(table))
	for i, r := range table {
		if !r.Category.Valid() {
			return nil, fmt.Errorf("rule %d: category %q is not in the known set", i, r.Category)
		}
		if len(r.Keywords) == 0 {
			return nil, fmt.Errorf("rule %d (%s): no keywords", i, r.Category)
		}
		mode := r.Mode
		if mode == "" {
			mode = MatchSubstring
		}
		if mode != MatchSubstring && mode != MatchExact {
			return nil, fmt.Errorf("rule %d (%s): unknown match mode %q", i, r.Category, mode)
		}

		keywords := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				return nil, fmt.Errorf("rule %d (%s): empty keyword", i, r.Category)
			}
			keywords = append(keywords, kw)
		}
		sort.SliceStable(keywords, func(a, b int) bool {
			return len(keywords[a]) > len(keywords[b])
		})

		compiled = append(compiled, compiledRule{
			category: r.Category,
			mode:     mode,
			keywords: keywords,
		})
	}
	return &Classifier{rules: compiled}, nil
}

// Classify maps a normalized key to a category. The first rule in table
// order with a matching keyword wins; no scoring, no backtracking. An
// empty key or no matching rule yields the Unclassified sentinel.
func (c *Classifier) Classify(key string) model.Category {
	cat, _ := c.ClassifyWithKeyword(key)
	return cat
}

// ClassifyWithKeyword is Classify plus the keyword that matched, for
// diagnostics.
func (c *Classifier) ClassifyWithKeyword(key string) (model.Category, string) {
	if key == "" {
		return model.CategoryUnclassified, ""
	}
	for _, rule := range c.rules {
		for _, kw := range rule.keywords {
			if rule.matches(key, kw) {
				return rule.category, kw
			}
		}
	}
	return model.CategoryUnclassified, ""
}

func (r compiledRule) matches(key, keyword string) bool {
	if r.mode == MatchExact {
		return key == keyword
	}
	return strings.Contains(key, keyword)
}

// RuleCount returns the number of compiled rules.
func (c *Classifier) RuleCount() int {
	return len(c.rules)
}
