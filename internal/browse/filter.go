package browse

import (
	"strings"

	"github.com/pithomlabs/rainydays/internal/catalog"
)

// Query is the (search text, category) predicate over the catalog.
type Query struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// Outcome state values. NoCatalog means nothing is loaded at all;
// NoMatches means the filter excluded everything. Only the latter
// should offer a clear-filters action.
const (
	StateOK        = "ok"
	StateNoCatalog = "no_catalog"
	StateNoMatches = "no_matches"
)

// Outcome is the derived view handed to the rendering surface.
type Outcome struct {
	State    string            `json:"state"`
	Query    Query             `json:"query"`
	Products []catalog.Product `json:"products"`
}

// Apply recomputes the filtered subset with a full re-scan. Category
// is exact-equality, with the empty category matching everything. Text
// is a case-insensitive substring match over title, description, and
// base color; any one hit is enough.
func Apply(all []catalog.Product, q Query) []catalog.Product {
	text := strings.ToLower(strings.TrimSpace(q.Text))

	var matched []catalog.Product
	for _, p := range all {
		if q.Category != "" && p.Gender != q.Category {
			continue
		}
		if text != "" && !matchesText(p, text) {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}

func matchesText(p catalog.Product, text string) bool {
	return strings.Contains(strings.ToLower(p.Title), text) ||
		strings.Contains(strings.ToLower(p.Description), text) ||
		(p.BaseColor != "" && strings.Contains(strings.ToLower(p.BaseColor), text))
}

// Resolve classifies a filter result against the full catalog.
func Resolve(all []catalog.Product, q Query, matched []catalog.Product) Outcome {
	switch {
	case len(all) == 0:
		return Outcome{State: StateNoCatalog, Query: q}
	case len(matched) == 0:
		return Outcome{State: StateNoMatches, Query: q}
	default:
		return Outcome{State: StateOK, Query: q, Products: matched}
	}
}

// Categories returns the distinct non-empty category labels in
// first-seen order, for the filter dropdown.
func Categories(all []catalog.Product) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, p := range all {
		if p.Gender == "" || seen[p.Gender] {
			continue
		}
		seen[p.Gender] = true
		categories = append(categories, p.Gender)
	}
	return categories
}
