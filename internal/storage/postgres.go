package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/platefeed/platefeed/internal/record"
)

// PostgresStore implements RecipeStore using PostgreSQL.
type PostgresStore struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

// NewPostgresStore creates a RecipeStore backed by the given pool.
// queryTimeout sets the per-query context deadline; zero means no timeout.
func NewPostgresStore(pool *pgxpool.Pool, queryTimeout time.Duration) *PostgresStore {
	return &PostgresStore{pool: pool, queryTimeout: queryTimeout}
}

// withTimeout derives a child context with the configured query timeout.
// If queryTimeout is zero, the parent context is returned unchanged.
func (s *PostgresStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout > 0 {
		return context.WithTimeout(ctx, s.queryTimeout)
	}
	return ctx, func() {}
}

func (s *PostgresStore) InsertRecipe(ctx context.Context, req record.CreateRecipeRequest) (*record.Recipe, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO recipes (title, category, ingredients, instructions, image_url, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, title, category, ingredients, instructions, image_url, created_by, likes, created_at
	`

	var r record.Recipe
	err := s.pool.QueryRow(ctx, query,
		req.Title, req.Category, req.Ingredients, req.Instructions, req.ImageURL, req.CreatedBy,
	).Scan(&r.ID, &r.Title, &r.Category, &r.Ingredients, &r.Instructions, &r.ImageURL, &r.CreatedBy, &r.Likes, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert recipe: %w", err)
	}
	return &r, nil
}

func (s *PostgresStore) GetRecipe(ctx context.Context, id int64) (*record.Recipe, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, title, category, ingredients, instructions, image_url, created_by, likes, created_at
		FROM recipes
		WHERE id = $1
	`

	var r record.Recipe
	err := s.pool.QueryRow(ctx, query, id).
		Scan(&r.ID, &r.Title, &r.Category, &r.Ingredients, &r.Instructions, &r.ImageURL, &r.CreatedBy, &r.Likes, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return &r, nil
}

func (s *PostgresStore) ListRecipes(ctx context.Context) ([]record.RecipeWithStats, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	// Review aggregates are joined at read time rather than stored so the
	// counters can never drift from the review rows.
	query := `
		SELECT r.id, r.title, r.category, r.ingredients, r.instructions, r.image_url,
		       r.created_by, r.likes, r.created_at,
		       AVG(v.rating), COUNT(v.id)
		FROM recipes r
		LEFT JOIN reviews v ON v.recipe_id = r.id
		GROUP BY r.id
		ORDER BY r.created_at DESC, r.id DESC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []record.RecipeWithStats
	for rows.Next() {
		var r record.RecipeWithStats
		if err := rows.Scan(&r.ID, &r.Title, &r.Category, &r.Ingredients, &r.Instructions, &r.ImageURL,
			&r.CreatedBy, &r.Likes, &r.CreatedAt, &r.AvgRating, &r.ReviewCount); err != nil {
			return nil, fmt.Errorf("list recipes scan: %w", err)
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

// IncrementLikes performs the read-add-write as a single SQL statement so
// concurrent likes for the same recipe never lose an update.
func (s *PostgresStore) IncrementLikes(ctx context.Context, id int64) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE recipes
		SET likes = likes + 1
		WHERE id = $1
		RETURNING likes
	`

	var likes int64
	err := s.pool.QueryRow(ctx, query, id).Scan(&likes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrRecipeNotFound
		}
		return 0, fmt.Errorf("increment likes: %w", err)
	}
	return likes, nil
}

func (s *PostgresStore) InsertReview(ctx context.Context, req record.CreateReviewRequest) (*record.Review, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO reviews (recipe_id, username, rating, review_text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, recipe_id, username, rating, review_text, created_at
	`

	var v record.Review
	err := s.pool.QueryRow(ctx, query,
		req.RecipeID, req.Username, req.Rating, req.Text,
	).Scan(&v.ID, &v.RecipeID, &v.Username, &v.Rating, &v.Text, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}
	return &v, nil
}

func (s *PostgresStore) ListReviews(ctx context.Context, recipeID int64) ([]record.Review, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, recipe_id, username, rating, review_text, created_at
		FROM reviews
		WHERE ($1 = 0 OR recipe_id = $1)
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.pool.Query(ctx, query, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []record.Review
	for rows.Next() {
		var v record.Review
		if err := rows.Scan(&v.ID, &v.RecipeID, &v.Username, &v.Rating, &v.Text, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("list reviews scan: %w", err)
		}
		reviews = append(reviews, v)
	}
	return reviews, rows.Err()
}

func (s *PostgresStore) RatingCounts(ctx context.Context) (record.RatingHistogram, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT rating, COUNT(*)
		FROM reviews
		GROUP BY rating
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return record.RatingHistogram{}, fmt.Errorf("rating counts: %w", err)
	}
	defer rows.Close()

	var hist record.RatingHistogram
	for rows.Next() {
		var rating int
		var count int64
		if err := rows.Scan(&rating, &count); err != nil {
			return record.RatingHistogram{}, fmt.Errorf("rating counts scan: %w", err)
		}
		if rating >= 1 && rating <= 5 {
			hist[rating-1] = count
		}
	}
	return hist, rows.Err()
}
