package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	redisx "github.com/kirinyoku/cinemago/internal/redis"
)

// Cache TTLs for upstream catalog reads.
const (
	TTLMovies      = 60 * time.Second
	TTLMovieDetail = 60 * time.Second
	TTLSeatMap     = 30 * time.Second
)

// Fetcher loads a JSON value by key, calling loader on a miss.
type Fetcher interface {
	Fetch(ctx context.Context, key string, ttl time.Duration, out any, loader func(ctx context.Context) (any, error)) error
}

type Cache struct {
	rdb *redis.Client
	sf  singleflight.Group
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{rdb: client}
}

func (c *Cache) GetString(ctx context.Context, key string) (string, bool, error) {
	s, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return s, true, nil
}

func (c *Cache) SetString(
	ctx context.Context,
	key string,
	val string,
	ttl time.Duration,
) error {
	return c.rdb.Set(ctx, key, val, ttl).Err()
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	return c.rdb.Del(ctx, keys...).Err()
}

// Fetch decodes the cached value into out. Concurrent misses for one key
// share a single loader call; loader errors are not cached.
func (c *Cache) Fetch(
	ctx context.Context,
	key string,
	ttl time.Duration,
	out any,
	loader func(ctx context.Context) (any, error),
) error {
	if s, ok, err := c.GetString(ctx, key); err != nil {
		return err
	} else if ok {
		return json.Unmarshal([]byte(s), out)
	}

	raw, err, _ := c.sf.Do(key, func() (any, error) {
		if s, ok, err := c.GetString(ctx, key); err != nil {
			return nil, err
		} else if ok {
			return []byte(s), nil
		}

		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		_ = c.SetString(ctx, key, string(b), ttl)
		return b, nil
	})
	if err != nil {
		return err
	}

	return json.Unmarshal(raw.([]byte), out)
}

func GetOrSetJSON[T any](
	ctx context.Context,
	c Fetcher,
	key string,
	ttl time.Duration,
	loader func(ctx context.Context) (T, error),
) (T, error) {
	var out T
	err := c.Fetch(ctx, key, ttl, &out, func(ctx context.Context) (any, error) {
		return loader(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return out, nil
}

// InvalidateMovie drops the movie list of group and, when movieID is set, its detail.
func (c *Cache) InvalidateMovie(ctx context.Context, group string, movieID int64) error {
	keys := []string{redisx.KeyMovies(group)}
	if movieID != 0 {
		keys = append(keys, redisx.KeyMovieDetail(movieID))
	}
	return c.Del(ctx, keys...)
}

func (c *Cache) InvalidateMovieDetail(ctx context.Context, movieID int64) error {
	return c.Del(ctx, redisx.KeyMovieDetail(movieID))
}

func (c *Cache) InvalidateSeatMap(ctx context.Context, showtimeID int64) error {
	return c.Del(ctx, redisx.KeySeatMap(showtimeID))
}
