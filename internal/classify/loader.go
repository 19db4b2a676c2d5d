package classify

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"fintrack/internal/core"
)

// ruleFile is the on-disk layout of a rule table:
//
//	rules:
//	  - category: Food
//	    subcategory: Food Delivery
//	    keywords: [swiggy, zomato]
type ruleFile struct {
	Rules []core.CategoryRule `yaml:"rules"`
}

// LoadRules decodes an ordered rule table from YAML and validates every rule.
// A document with no rules yields an empty slice and no error.
func LoadRules(r io.Reader) ([]core.CategoryRule, error) {
	var f ruleFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	for i, rule := range f.Rules {
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
	}
	return f.Rules, nil
}

// NewFromFile builds a classifier from a YAML rule file. An empty path, a
// missing file or a file without rules selects the built-in table.
func NewFromFile(path string) (*Classifier, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("open rules file: %w", err)
	}
	defer f.Close()

	rules, err := LoadRules(f)
	if err != nil {
		return nil, fmt.Errorf("load rules from %s: %w", path, err)
	}
	return New(rules), nil
}
