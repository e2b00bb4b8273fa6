package view

import (
	"sort"
	"strings"

	"github.com/platefeed/platefeed/internal/record"
)

// Projections are pure and total: they always produce a value, including
// for an empty cache, and never panic.

// RatingHistogram buckets reviews by rating. Out-of-range ratings are
// ignored rather than counted.
func RatingHistogram(reviews []record.Review) record.RatingHistogram {
	var hist record.RatingHistogram
	for _, v := range reviews {
		if v.Rating >= 1 && v.Rating <= 5 {
			hist[v.Rating-1]++
		}
	}
	return hist
}

// Series is chart input: parallel labels and values.
type Series struct {
	Labels []string
	Values []int64
}

// LikesSeries produces one bar per recipe with its like count, in cache order.
func LikesSeries(recipes []record.RecipeWithStats) Series {
	s := Series{
		Labels: make([]string, len(recipes)),
		Values: make([]int64, len(recipes)),
	}
	for i, r := range recipes {
		s.Labels[i] = r.Title
		s.Values[i] = r.Likes
	}
	return s
}

// IngredientCount is one entry of the top-ingredients projection.
type IngredientCount struct {
	Ingredient string
	Count      int64
}

// TopIngredients tokenizes every recipe's ingredient list on line breaks,
// trims and lower-cases each token, and returns the n most frequent.
// Ties are broken by first-encountered order.
func TopIngredients(recipes []record.RecipeWithStats, n int) []IngredientCount {
	counts := make(map[string]int64)
	var order []string

	for _, r := range recipes {
		for _, line := range strings.Split(r.Ingredients, "\n") {
			key := strings.ToLower(strings.TrimSpace(line))
			if key == "" {
				continue
			}
			if _, seen := counts[key]; !seen {
				order = append(order, key)
			}
			counts[key]++
		}
	}

	out := make([]IngredientCount, 0, len(order))
	for _, key := range order {
		out = append(out, IngredientCount{Ingredient: key, Count: counts[key]})
	}
	// Stable sort over the encounter order keeps ties first-encountered-first.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})

	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
