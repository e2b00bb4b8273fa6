package view

import (
	"strings"

	"github.com/platefeed/platefeed/internal/record"
)

// Filter selects recipes from the cache. Query is a case-insensitive
// substring match over title, ingredients, creator, and category;
// Category is an exact dropdown match. Both conditions are ANDed.
// The zero Filter matches everything.
type Filter struct {
	Query    string
	Category string
}

// IsZero reports whether the filter matches the full cache.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Query) == "" && f.Category == ""
}

// Apply returns the recipes matching the filter, in input order.
// Applying the same filter twice yields the same result.
func (f Filter) Apply(recipes []record.RecipeWithStats) []record.RecipeWithStats {
	if f.IsZero() {
		return recipes
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]record.RecipeWithStats, 0, len(recipes))
	for _, r := range recipes {
		if f.Category != "" && r.Category != f.Category {
			continue
		}
		if query != "" && !matchesQuery(r, query) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesQuery(r record.RecipeWithStats, query string) bool {
	for _, field := range []string{r.Title, r.Ingredients, r.CreatedBy, r.Category} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
