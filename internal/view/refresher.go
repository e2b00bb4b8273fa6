package view

import (
	"context"
	"log/slog"
	"time"

	"github.com/platefeed/platefeed/internal/record"
)

// Lister fetches the full feed. Satisfied by *client.Client.
type Lister interface {
	ListRecipes(ctx context.Context) ([]record.RecipeWithStats, error)
}

// Refresher periodically refetches the feed and replaces the cache.
// Each fetch independently replaces the whole collection, so overlapping
// or slow fetches resolve last-response-wins. Fetch errors are logged and
// the previous cache contents are kept; nothing is retried early.
type Refresher struct {
	lister   Lister
	cache    *Cache
	interval time.Duration
	logger   *slog.Logger
}

// NewRefresher creates a Refresher that refreshes cache every interval.
func NewRefresher(lister Lister, cache *Cache, interval time.Duration, logger *slog.Logger) *Refresher {
	return &Refresher{lister: lister, cache: cache, interval: interval, logger: logger}
}

// Run refreshes once immediately, then on every tick until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	recipes, err := r.lister.ListRecipes(ctx)
	if err != nil {
		r.logger.Warn("feed refresh failed", "error", err)
		return
	}
	r.cache.Replace(recipes)
	r.logger.Debug("feed refreshed", "recipes", len(recipes))
}
