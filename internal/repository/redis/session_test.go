package redisrepo

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/cinemago/internal/domain"
	redisx "github.com/kirinyoku/cinemago/internal/redis"
	"github.com/kirinyoku/cinemago/internal/repository"
)

const idle = 30 * time.Minute

var epoch = time.Date(2025, 5, 1, 19, 0, 0, 0, time.UTC)

// deleteAfterGet removes a key on the server right after the client read it,
// like a logout handled by another instance.
type deleteAfterGet struct {
	mr  *miniredis.Miniredis
	key string
}

func (h deleteAfterGet) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h deleteAfterGet) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if cmd.Name() == "get" {
			h.mr.Del(h.key)
		}
		return err
	}
}

func (h deleteAfterGet) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()

	newSession := func() *domain.Session {
		return &domain.Session{
			ID:             uuid.New(),
			Account:        "alice",
			Role:           domain.RoleCustomer,
			AccessToken:    "tok",
			LoginAt:        epoch,
			LastActivityAt: epoch,
		}
	}

	t.Run("save and get", func(t *testing.T) {
		mr, rdb := newTestRedis(t)
		s := NewSessionStore(rdb)
		sess := newSession()

		require.NoError(t, s.Save(ctx, sess, idle))
		assert.Equal(t, idle, mr.TTL(redisx.KeySession(sess.ID)))

		got, err := s.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Account)
		assert.True(t, got.LoginAt.Equal(epoch))

		_, err = s.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("touch slides the ttl", func(t *testing.T) {
		mr, rdb := newTestRedis(t)
		s := NewSessionStore(rdb)
		sess := newSession()
		require.NoError(t, s.Save(ctx, sess, idle))

		mr.FastForward(20 * time.Minute)
		at := epoch.Add(20 * time.Minute)
		require.NoError(t, s.Touch(ctx, sess.ID, at, idle))
		assert.Equal(t, idle, mr.TTL(redisx.KeySession(sess.ID)))

		mr.FastForward(20 * time.Minute)
		got, err := s.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.True(t, got.LastActivityAt.Equal(at))

		mr.FastForward(idle)
		_, err = s.Get(ctx, sess.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("touch of a deleted session", func(t *testing.T) {
		mr, rdb := newTestRedis(t)
		s := NewSessionStore(rdb)
		sess := newSession()
		require.NoError(t, s.Save(ctx, sess, idle))
		require.NoError(t, s.Delete(ctx, sess.ID))

		err := s.Touch(ctx, sess.ID, epoch, idle)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.False(t, mr.Exists(redisx.KeySession(sess.ID)))
	})

	t.Run("logout between read and write is not undone", func(t *testing.T) {
		mr, rdb := newTestRedis(t)
		s := NewSessionStore(rdb)
		sess := newSession()
		require.NoError(t, s.Save(ctx, sess, idle))

		rdb.AddHook(deleteAfterGet{mr: mr, key: redisx.KeySession(sess.ID)})

		err := s.Touch(ctx, sess.ID, epoch.Add(time.Minute), idle)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.False(t, mr.Exists(redisx.KeySession(sess.ID)))
	})
}
