package record

import (
	"time"
)

// Recipe is a single entry in the feed as stored.
type Recipe struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Category     string    `json:"category,omitempty"`
	Ingredients  string    `json:"ingredients"`
	Instructions string    `json:"instructions"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	CreatedBy    string    `json:"createdBy"`
	Likes        int64     `json:"likes"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RecipeWithStats is a Recipe enriched with review aggregates computed
// at read time. AvgRating is nil when the recipe has no reviews.
type RecipeWithStats struct {
	Recipe
	AvgRating   *float64 `json:"avgRating,omitempty"`
	ReviewCount int64    `json:"reviewCount"`
}

// Review is a child record owned by exactly one Recipe.
type Review struct {
	ID        int64     `json:"id"`
	RecipeID  int64     `json:"recipeId"`
	Username  string    `json:"username"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateRecipeRequest is what the caller provides to create a recipe.
type CreateRecipeRequest struct {
	Title        string `json:"title"`
	Category     string `json:"category,omitempty"`
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`
	ImageURL     string `json:"imageUrl,omitempty"`
	CreatedBy    string `json:"createdBy,omitempty"`
}

// CreateReviewRequest is what the caller provides to review a recipe.
type CreateReviewRequest struct {
	RecipeID int64  `json:"recipeId"`
	Username string `json:"username,omitempty"`
	Rating   int    `json:"rating"`
	Text     string `json:"text,omitempty"`
}

// RatingHistogram counts reviews per rating bucket. Index 0 holds the
// count for rating 1, index 4 for rating 5.
type RatingHistogram [5]int64

// Bucket returns the count for a rating in [1,5], zero otherwise.
func (h RatingHistogram) Bucket(rating int) int64 {
	if rating < 1 || rating > 5 {
		return 0
	}
	return h[rating-1]
}

// Total is the sum of all buckets.
func (h RatingHistogram) Total() int64 {
	var n int64
	for _, c := range h {
		n += c
	}
	return n
}
