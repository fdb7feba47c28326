// Package servicetest holds in-memory doubles shared by service tests.
package servicetest

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	redisx "github.com/kirinyoku/cinemago/internal/redis"
)

// Cache is an in-memory stand-in for the redis cache. Entries never expire.
type Cache struct {
	mu      sync.Mutex
	entries map[string][]byte
	Loads   map[string]int
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[string][]byte),
		Loads:   make(map[string]int),
	}
}

func (c *Cache) Fetch(ctx context.Context, key string, _ time.Duration, out any, loader func(ctx context.Context) (any, error)) error {
	c.mu.Lock()
	b, ok := c.entries[key]
	c.mu.Unlock()

	if !ok {
		v, err := loader(ctx)
		if err != nil {
			return err
		}
		if b, err = json.Marshal(v); err != nil {
			return err
		}
		c.mu.Lock()
		c.entries[key] = b
		c.Loads[key]++
		c.mu.Unlock()
	}

	return json.Unmarshal(b, out)
}

func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

func (c *Cache) Del(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
}

func (c *Cache) InvalidateMovie(_ context.Context, group string, movieID int64) error {
	c.Del(redisx.KeyMovies(group))
	if movieID != 0 {
		c.Del(redisx.KeyMovieDetail(movieID))
	}
	return nil
}

func (c *Cache) InvalidateMovieDetail(_ context.Context, movieID int64) error {
	c.Del(redisx.KeyMovieDetail(movieID))
	return nil
}

func (c *Cache) InvalidateSeatMap(_ context.Context, showtimeID int64) error {
	c.Del(redisx.KeySeatMap(showtimeID))
	return nil
}
