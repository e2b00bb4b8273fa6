package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations creates the feed tables if they do not exist.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS recipes (
			id           BIGSERIAL PRIMARY KEY,
			title        TEXT NOT NULL,
			category     TEXT NOT NULL DEFAULT '',
			ingredients  TEXT NOT NULL,
			instructions TEXT NOT NULL,
			image_url    TEXT NOT NULL DEFAULT '',
			created_by   TEXT NOT NULL DEFAULT 'Anonymous',
			likes        BIGINT NOT NULL DEFAULT 0,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS reviews (
			id          BIGSERIAL PRIMARY KEY,
			recipe_id   BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
			username    TEXT NOT NULL DEFAULT 'Anonymous',
			rating      INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
			review_text TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS idx_recipes_created_at
			ON recipes (created_at DESC, id DESC);

		CREATE INDEX IF NOT EXISTS idx_reviews_recipe
			ON reviews (recipe_id, created_at DESC);
	`

	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("migrate feed tables: %w", err)
	}
	return nil
}
