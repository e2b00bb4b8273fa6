package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/platefeed/platefeed/internal/record"
	"github.com/platefeed/platefeed/internal/storage"
)

// DefaultUsername is used when a caller submits no createdBy/username.
const DefaultUsername = "Anonymous"

// Feed validates input, delegates to the store, and raises the typed
// errors the API layer translates to status codes.
type Feed struct {
	store  storage.RecipeStore
	logger *slog.Logger
}

// NewFeed creates a Feed service on top of a RecipeStore.
func NewFeed(store storage.RecipeStore, logger *slog.Logger) *Feed {
	return &Feed{store: store, logger: logger}
}

// ListRecipes returns all recipes newest-first with review aggregates.
func (f *Feed) ListRecipes(ctx context.Context) ([]record.RecipeWithStats, error) {
	recipes, err := f.store.ListRecipes(ctx)
	if err != nil {
		return nil, &StorageError{Op: "list recipes", Err: err}
	}
	return recipes, nil
}

// CreateRecipe validates required fields and inserts the recipe with a
// zero like count.
func (f *Feed) CreateRecipe(ctx context.Context, req record.CreateRecipeRequest) (*record.Recipe, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(req.Ingredients) == "" {
		return nil, &ValidationError{Field: "ingredients", Reason: "must not be empty"}
	}
	if strings.TrimSpace(req.Instructions) == "" {
		return nil, &ValidationError{Field: "instructions", Reason: "must not be empty"}
	}
	if strings.TrimSpace(req.CreatedBy) == "" {
		req.CreatedBy = DefaultUsername
	}

	r, err := f.store.InsertRecipe(ctx, req)
	if err != nil {
		return nil, &StorageError{Op: "insert recipe", Err: err}
	}
	f.logger.Info("recipe created", "id", r.ID, "title", r.Title, "created_by", r.CreatedBy)
	return r, nil
}

// LikeRecipe increments the like counter and returns the new count.
// The increment is a single atomic step at the store, so concurrent
// likes for the same recipe all register.
func (f *Feed) LikeRecipe(ctx context.Context, id int64) (int64, error) {
	likes, err := f.store.IncrementLikes(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrRecipeNotFound) {
			return 0, &NotFoundError{ID: id}
		}
		return 0, &StorageError{Op: "increment likes", Err: err}
	}
	return likes, nil
}

// AddReview validates the rating range and parent existence, then
// inserts the review. Nothing is persisted when validation fails.
func (f *Feed) AddReview(ctx context.Context, req record.CreateReviewRequest) (*record.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, &ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	}
	if strings.TrimSpace(req.Username) == "" {
		req.Username = DefaultUsername
	}

	if _, err := f.store.GetRecipe(ctx, req.RecipeID); err != nil {
		if errors.Is(err, storage.ErrRecipeNotFound) {
			return nil, &NotFoundError{ID: req.RecipeID}
		}
		return nil, &StorageError{Op: "get recipe", Err: err}
	}

	v, err := f.store.InsertReview(ctx, req)
	if err != nil {
		return nil, &StorageError{Op: "insert review", Err: err}
	}
	f.logger.Info("review created", "id", v.ID, "recipe_id", v.RecipeID, "rating", v.Rating)
	return v, nil
}

// ListReviews returns reviews, optionally limited to one recipe.
// recipeID 0 means all reviews.
func (f *Feed) ListReviews(ctx context.Context, recipeID int64) ([]record.Review, error) {
	reviews, err := f.store.ListReviews(ctx, recipeID)
	if err != nil {
		return nil, &StorageError{Op: "list reviews", Err: err}
	}
	return reviews, nil
}

// RatingsSummary returns review counts per rating bucket for charting.
func (f *Feed) RatingsSummary(ctx context.Context) (record.RatingHistogram, error) {
	hist, err := f.store.RatingCounts(ctx)
	if err != nil {
		return record.RatingHistogram{}, &StorageError{Op: "rating counts", Err: err}
	}
	return hist, nil
}
