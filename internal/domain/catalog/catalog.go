// Package catalog holds the quick-pick list of common diagnostic tests
// offered during admission and ward rounds. The core treats it as an
// opaque lookup table keyed by display label.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Test is one catalog entry: a category plus a human-readable description.
type Test struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

// Label returns the display label used as the lookup key.
func (t Test) Label() string {
	return t.Category + " — " + t.Description
}

// Catalog is a static, ordered list of tests with label lookup.
type Catalog struct {
	tests   []Test
	byLabel map[string]Test
}

// New builds a catalog preserving the given order.
func New(tests []Test) *Catalog {
	byLabel := make(map[string]Test, len(tests))
	for _, t := range tests {
		byLabel[t.Label()] = t
	}
	return &Catalog{tests: tests, byLabel: byLabel}
}

// Default returns the built-in common-test list.
func Default() *Catalog {
	return New([]Test{
		{"Blood test", "Complete blood count"},
		{"Blood test", "Basic metabolic panel"},
		{"Blood test", "Coagulation panel"},
		{"Blood test", "Blood glucose"},
		{"Blood test", "HbA1c"},
		{"X-ray", "Chest X-ray"},
		{"Ultrasound", "Abdominal ultrasound"},
		{"CT", "Non-contrast head CT"},
		{"Other", "Electrocardiogram"},
	})
}

// LoadFile reads a catalog from a JSON array of {category, description}.
// An empty path returns the default catalog.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var tests []Test
	if err := json.Unmarshal(data, &tests); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}
	if len(tests) == 0 {
		return nil, fmt.Errorf("catalog file %s contains no entries", path)
	}
	return New(tests), nil
}

// Tests returns the entries in catalog order.
func (c *Catalog) Tests() []Test {
	return c.tests
}

// Lookup resolves a display label back to its entry.
func (c *Catalog) Lookup(label string) (Test, bool) {
	t, ok := c.byLabel[label]
	return t, ok
}
