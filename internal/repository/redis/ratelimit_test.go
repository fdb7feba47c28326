package redisrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlidingWindowLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects the hit past the limit", func(t *testing.T) {
		_, rdb := newTestRedis(t)
		l := NewSlidingWindowLimiter(rdb, "login", 3, time.Minute)

		for i := 1; i <= 3; i++ {
			ok, hits, retry, err := l.Allow(ctx, "10.0.0.1")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, int64(i), hits)
			assert.Zero(t, retry)
		}

		ok, hits, retry, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, int64(3), hits)
		assert.Greater(t, retry, time.Duration(0))
		assert.LessOrEqual(t, retry, time.Minute)
	})

	t.Run("rejected hits are not counted", func(t *testing.T) {
		_, rdb := newTestRedis(t)
		l := NewSlidingWindowLimiter(rdb, "booking", 1, time.Minute)

		ok, _, _, err := l.Allow(ctx, "alice")
		require.NoError(t, err)
		require.True(t, ok)

		for i := 0; i < 5; i++ {
			_, hits, _, err := l.Allow(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, int64(1), hits)
		}
	})

	t.Run("clients and scopes are counted apart", func(t *testing.T) {
		_, rdb := newTestRedis(t)
		login := NewSlidingWindowLimiter(rdb, "login", 1, time.Minute)
		booking := NewSlidingWindowLimiter(rdb, "booking", 1, time.Minute)

		for _, allow := range []func() (bool, int64, time.Duration, error){
			func() (bool, int64, time.Duration, error) { return login.Allow(ctx, "a") },
			func() (bool, int64, time.Duration, error) { return login.Allow(ctx, "b") },
			func() (bool, int64, time.Duration, error) { return booking.Allow(ctx, "a") },
		} {
			ok, _, _, err := allow()
			require.NoError(t, err)
			assert.True(t, ok)
		}
	})

	t.Run("window slides", func(t *testing.T) {
		mr, rdb := newTestRedis(t)
		mr.SetTime(epoch)
		l := NewSlidingWindowLimiter(rdb, "login", 2, time.Minute)

		allow := func() bool {
			ok, _, _, err := l.Allow(ctx, "10.0.0.1")
			require.NoError(t, err)
			return ok
		}

		assert.True(t, allow())
		mr.SetTime(epoch.Add(30 * time.Second))
		assert.True(t, allow())
		assert.False(t, allow())

		// the first hit has left the window, the second has not
		mr.SetTime(epoch.Add(61 * time.Second))
		assert.True(t, allow())
		assert.False(t, allow())
	})
}
