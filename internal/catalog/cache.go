package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/venuegate/storefront/internal/redisx"
)

// Cached is a read-through cache over Store. Redis misses and errors fall back
// to the database; the cache never becomes the source of truth.
type Cached struct {
	Store *Store
	Redis *redis.Client
}

func (c *Cached) ListTickets(ctx context.Context) ([]Ticket, error) {
	return listCached(ctx, c.Redis, "tickets", func() ([]Ticket, error) {
		return c.Store.ListTickets(ctx)
	})
}

func (c *Cached) ListCombos(ctx context.Context) ([]Combo, error) {
	return listCached(ctx, c.Redis, "combos", func() ([]Combo, error) {
		return c.Store.ListCombos(ctx)
	})
}

func (c *Cached) ListMenuItems(ctx context.Context) ([]MenuItem, error) {
	return listCached(ctx, c.Redis, "menu", func() ([]MenuItem, error) {
		return c.Store.ListMenuItems(ctx)
	})
}

func (c *Cached) ListMenuCategories(ctx context.Context) ([]string, error) {
	return listCached(ctx, c.Redis, "menu_categories", func() ([]string, error) {
		return c.Store.ListMenuCategories(ctx)
	})
}

func listCached[T any](ctx context.Context, rdb *redis.Client, kind string, load func() ([]T, error)) ([]T, error) {
	key := fmt.Sprintf(redisx.KeyCatalog, kind)
	if s, err := rdb.Get(ctx, key).Result(); err == nil && s != "" {
		var out []T
		if err := json.Unmarshal([]byte(s), &out); err == nil {
			return out, nil
		}
	}
	out, err := load()
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(out); err == nil {
		_ = rdb.Set(ctx, key, b, redisx.TTLCatalog).Err()
	}
	return out, nil
}
