// Package cache marks admin list views stale and caches dashboard reads.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// View names matching the admin list pages.
const (
	ViewRequests    = "requests"
	ViewReports     = "reports"
	ViewDashboard   = "dashboard"
	ViewRestaurants = "restaurants"
)

const keyPrefix = "views:"

// ViewRestaurant returns the view name for one restaurant's detail page.
func ViewRestaurant(id string) string {
	return "restaurant:" + id
}

// Cache invalidates and serves admin view data through Redis. A nil *Cache
// is valid and degrades to direct reads: every method is a no-op.
type Cache struct {
	client *redis.Client
}

// New creates a view cache backed by the given Redis address.
func New(addr, password string) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &Cache{client: client}
}

// InvalidateViews deletes the cached entries for the given views so
// subsequent reads reflect the new state. Failures are logged, never fatal:
// a stale list view is preferable to failing a committed transition.
func (c *Cache) InvalidateViews(ctx context.Context, views ...string) {
	if c == nil || len(views) == 0 {
		return
	}
	keys := make([]string, len(views))
	for i, v := range views {
		keys[i] = keyPrefix + v
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		slog.Error("failed to invalidate views", "views", views, "error", err)
	}
}

// GetJSON loads a cached view into dest. Returns false on miss or any
// Redis/decoding failure, in which case the caller reads the database.
func (c *Cache) GetJSON(ctx context.Context, view string, dest any) bool {
	if c == nil {
		return false
	}
	raw, err := c.client.Get(ctx, keyPrefix+view).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Error("failed to read cached view", "view", view, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		slog.Error("failed to decode cached view", "view", view, "error", err)
		return false
	}
	return true
}

// SetJSON stores a view with a TTL. Best-effort.
func (c *Cache) SetJSON(ctx context.Context, view string, value any, ttl time.Duration) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		slog.Error("failed to encode view for cache", "view", view, "error", err)
		return
	}
	if err := c.client.Set(ctx, keyPrefix+view, raw, ttl).Err(); err != nil {
		slog.Error("failed to cache view", "view", view, "error", err)
	}
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
