package storage

import (
	"context"
	"errors"

	"github.com/platefeed/platefeed/internal/record"
)

// ErrRecipeNotFound is returned when a recipe lookup finds no matching row.
var ErrRecipeNotFound = errors.New("recipe not found")

// RecipeStore is the primary storage interface for the feed.
type RecipeStore interface {
	// InsertRecipe inserts a new recipe with likes initialized to zero.
	// Returns the stored row including its assigned id.
	InsertRecipe(ctx context.Context, req record.CreateRecipeRequest) (*record.Recipe, error)

	// GetRecipe returns a single recipe by id.
	GetRecipe(ctx context.Context, id int64) (*record.Recipe, error)

	// ListRecipes returns all recipes newest-first, each with its review
	// aggregates computed in the same query.
	ListRecipes(ctx context.Context) ([]record.RecipeWithStats, error)

	// IncrementLikes atomically adds one to a recipe's like counter and
	// returns the new count.
	IncrementLikes(ctx context.Context, id int64) (int64, error)

	// InsertReview inserts a review for an existing recipe.
	InsertReview(ctx context.Context, req record.CreateReviewRequest) (*record.Review, error)

	// ListReviews returns reviews newest-first. recipeID 0 means all.
	ListReviews(ctx context.Context, recipeID int64) ([]record.Review, error)

	// RatingCounts returns the number of reviews per rating bucket.
	RatingCounts(ctx context.Context) (record.RatingHistogram, error)
}
