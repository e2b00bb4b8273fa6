// Package view holds the client-side feed state: a cache mirroring the
// last-known server state, filter predicates over it, and the pure chart
// projections derived from it. The server stays authoritative — the cache
// is only patched from confirmed server responses.
package view

import (
	"sync"

	"github.com/platefeed/platefeed/internal/record"
)

// Cache is an ordered, read-through copy of the fetched feed.
type Cache struct {
	mu      sync.RWMutex
	recipes []record.RecipeWithStats
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{}
}

// Replace swaps the full cached collection, preserving the given order.
func (c *Cache) Replace(recipes []record.RecipeWithStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recipes = make([]record.RecipeWithStats, len(recipes))
	copy(c.recipes, recipes)
}

// Append adds a newly created recipe confirmed by the server.
func (c *Cache) Append(r record.RecipeWithStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recipes = append(c.recipes, r)
}

// PatchLikes sets a recipe's like count from a confirmed like response.
// Returns false when the recipe is not cached.
func (c *Cache) PatchLikes(id, likes int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.recipes {
		if c.recipes[i].ID == id {
			c.recipes[i].Likes = likes
			return true
		}
	}
	return false
}

// PatchReview folds a confirmed review into the parent recipe's
// aggregates. Returns false when the recipe is not cached.
func (c *Cache) PatchReview(v record.Review) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.recipes {
		if c.recipes[i].ID != v.RecipeID {
			continue
		}
		r := &c.recipes[i]
		total := float64(v.Rating)
		if r.AvgRating != nil {
			total += *r.AvgRating * float64(r.ReviewCount)
		}
		r.ReviewCount++
		avg := total / float64(r.ReviewCount)
		r.AvgRating = &avg
		return true
	}
	return false
}

// Snapshot returns a copy of the cached collection in order.
func (c *Cache) Snapshot() []record.RecipeWithStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]record.RecipeWithStats, len(c.recipes))
	copy(out, c.recipes)
	return out
}

// Len returns the number of cached recipes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.recipes)
}
