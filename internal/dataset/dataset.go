// Package dataset loads the degree catalog a run is drawn from.
package dataset

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"pickmydegree/internal/domain"
)

//go:embed degrees.json
var embedded []byte

// Default returns the embedded catalog.
func Default() []domain.Degree {
	items, err := Parse(embedded)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return items
}

// LoadFile reads a catalog from a JSON file holding an array of degrees.
func LoadFile(path string) ([]domain.Degree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	items, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return items, nil
}

// Load returns the catalog at path, or the embedded one when path is empty.
func Load(path string) ([]domain.Degree, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// Parse decodes and validates a catalog. Ids must be non-empty and unique. Engine-attached
// elimination metadata is stripped.
func Parse(data []byte) ([]domain.Degree, error) {
	var items []domain.Degree
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}

	seen := make(map[string]bool, len(items))
	for i, d := range items {
		if d.ID == "" {
			return nil, fmt.Errorf("degree %d has no id", i)
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("duplicate degree id %q", d.ID)
		}
		seen[d.ID] = true
		items[i] = d.Untagged()
	}
	return items, nil
}

// Categories returns the distinct categories in first-seen order.
func Categories(items []domain.Degree) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range items {
		if seen[d.Category] {
			continue
		}
		seen[d.Category] = true
		out = append(out, d.Category)
	}
	return out
}

// CountByCategory returns how many degrees each category holds.
func CountByCategory(items []domain.Degree) map[string]int {
	out := make(map[string]int)
	for _, d := range items {
		out[d.Category]++
	}
	return out
}
