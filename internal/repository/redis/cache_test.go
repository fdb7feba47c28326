package redisrepo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/cinemago/internal/domain"
	redisx "github.com/kirinyoku/cinemago/internal/redis"
)

func TestCache_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("concurrent misses share one load", func(t *testing.T) {
		mr, rdb := newTestRedis(t)
		c := NewCache(rdb)
		key := redisx.KeySeatMap(44120)

		var loads atomic.Int32
		release := make(chan struct{})
		loader := func(context.Context) (any, error) {
			loads.Add(1)
			<-release
			return domain.SeatMap{Info: domain.ShowtimeInfo{ShowtimeID: 44120}}, nil
		}

		const n = 16
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				var sm domain.SeatMap
				if err := c.Fetch(ctx, key, TTLSeatMap, &sm, loader); err != nil {
					errs <- err
					return
				}
				if sm.Info.ShowtimeID != 44120 {
					errs <- errors.New("wrong seat map")
				}
			}()
		}

		require.Eventually(t, func() bool { return loads.Load() == 1 }, time.Second, time.Millisecond)
		close(release)
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}
		assert.Equal(t, int32(1), loads.Load())
		assert.True(t, mr.Exists(key))
		assert.Equal(t, TTLSeatMap, mr.TTL(key))
	})

	t.Run("load errors are not cached", func(t *testing.T) {
		mr, rdb := newTestRedis(t)
		c := NewCache(rdb)
		boom := errors.New("upstream down")

		var out []domain.Movie
		err := c.Fetch(ctx, "k", time.Minute, &out, func(context.Context) (any, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)
		assert.False(t, mr.Exists("k"))

		movies, err := GetOrSetJSON(ctx, c, "k", time.Minute, func(context.Context) ([]domain.Movie, error) {
			return []domain.Movie{{ID: 1282, Title: "Dune"}}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "Dune", movies[0].Title)
	})

	t.Run("expired entries are loaded again", func(t *testing.T) {
		mr, rdb := newTestRedis(t)
		c := NewCache(rdb)

		var loads int
		load := func(context.Context) (int, error) { loads++; return loads, nil }

		v, err := GetOrSetJSON(ctx, c, "n", time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, 1, v)

		v, err = GetOrSetJSON(ctx, c, "n", time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, 1, v)

		mr.FastForward(time.Minute)
		v, err = GetOrSetJSON(ctx, c, "n", time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, 2, v)
	})
}

func TestCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	c := NewCache(rdb)

	for _, k := range []string{redisx.KeyMovies("GP01"), redisx.KeyMovieDetail(1282), redisx.KeyMovieDetail(7), redisx.KeySeatMap(44120)} {
		require.NoError(t, mr.Set(k, "{}"))
	}

	require.NoError(t, c.InvalidateMovie(ctx, "GP01", 1282))
	assert.False(t, mr.Exists(redisx.KeyMovies("GP01")))
	assert.False(t, mr.Exists(redisx.KeyMovieDetail(1282)))
	assert.True(t, mr.Exists(redisx.KeyMovieDetail(7)))

	require.NoError(t, c.InvalidateMovieDetail(ctx, 7))
	assert.False(t, mr.Exists(redisx.KeyMovieDetail(7)))

	require.NoError(t, c.InvalidateSeatMap(ctx, 44120))
	assert.False(t, mr.Exists(redisx.KeySeatMap(44120)))
}
