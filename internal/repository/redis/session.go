package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kirinyoku/cinemago/internal/domain"
	redisx "github.com/kirinyoku/cinemago/internal/redis"
	"github.com/kirinyoku/cinemago/internal/repository"
)

// SessionStore keeps session records with a sliding TTL equal to the idle timeout.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func (s *SessionStore) Save(ctx context.Context, sess *domain.Session, ttl time.Duration) error {
	const op = "repository.redis.SessionStore.Save"

	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.rdb.Set(ctx, redisx.KeySession(sess.ID), b, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	const op = "repository.redis.SessionStore.Get"

	b, err := s.rdb.Get(ctx, redisx.KeySession(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var sess domain.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &sess, nil
}

// Touch stores the new activity time and restarts the TTL. The write only
// lands while the record still exists, so a logout from another instance
// between the read and the write is not undone. Concurrent touches are
// last-writer-wins.
func (s *SessionStore) Touch(ctx context.Context, id uuid.UUID, at time.Time, ttl time.Duration) error {
	const op = "repository.redis.SessionStore.Touch"

	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	sess.LastActivityAt = at

	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ok, err := s.rdb.SetXX(ctx, redisx.KeySession(id), b, ttl).Result()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return repository.ErrNotFound
	}

	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "repository.redis.SessionStore.Delete"

	if err := s.rdb.Del(ctx, redisx.KeySession(id)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
