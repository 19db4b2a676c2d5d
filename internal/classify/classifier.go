// Package classify maps free text to a spending category with ordered
// keyword matching.
//
// Rules are tried in declaration order and the first rule whose keyword list
// has a substring match in the lower-cased text wins. There is no scoring and
// no learning, so the same input always yields the same result.
package classify

import (
	"strings"

	"fintrack/internal/core"
)

const (
	// MatchConfidence is reported when a keyword matched.
	MatchConfidence = 0.9
	// FallbackConfidence is reported for the default category.
	FallbackConfidence = 0.4
)

// Result is the outcome of a classification.
type Result struct {
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory,omitempty"`
	Confidence  float64 `json:"confidence"`
}

// Classifier holds an immutable ordered rule table and is safe for concurrent use.
type Classifier struct {
	rules []core.CategoryRule
}

// New creates a classifier over a copy of rules with keywords lower-cased.
// An empty rule set selects DefaultRules.
func New(rules []core.CategoryRule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	normalized := make([]core.CategoryRule, 0, len(rules))
	for _, r := range rules {
		kws := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k != "" {
				kws = append(kws, k)
			}
		}
		if len(kws) == 0 || strings.TrimSpace(r.Category) == "" {
			continue
		}
		normalized = append(normalized, core.CategoryRule{
			Category:    strings.TrimSpace(r.Category),
			Subcategory: strings.TrimSpace(r.Subcategory),
			Keywords:    kws,
		})
	}
	return &Classifier{rules: normalized}
}

// Default returns a classifier over the built-in table.
func Default() *Classifier {
	return New(DefaultRules())
}

// Classify returns the first matching rule's category, or the default
// category when nothing matches. It never fails.
func (c *Classifier) Classify(text string) Result {
	if r, ok := c.match(text); ok {
		return r
	}
	return fallback()
}

// ClassifyTransaction classifies the merchant name first and falls back to
// the description when the merchant matches no rule.
func (c *Classifier) ClassifyTransaction(merchant, description string) Result {
	if r, ok := c.match(merchant); ok {
		return r
	}
	if r, ok := c.match(description); ok {
		return r
	}
	return fallback()
}

// Rules returns a copy of the rule table in match order.
func (c *Classifier) Rules() []core.CategoryRule {
	out := make([]core.CategoryRule, len(c.rules))
	for i, r := range c.rules {
		out[i] = core.CategoryRule{
			Category:    r.Category,
			Subcategory: r.Subcategory,
			Keywords:    append([]string(nil), r.Keywords...),
		}
	}
	return out
}

func (c *Classifier) match(text string) (Result, bool) {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return Result{}, false
	}
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return Result{
					Category:    rule.Category,
					Subcategory: rule.Subcategory,
					Confidence:  MatchConfidence,
				}, true
			}
		}
	}
	return Result{}, false
}

func fallback() Result {
	return Result{Category: core.DefaultCategory, Confidence: FallbackConfidence}
}
