package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/cinemago/internal/clock"
	"github.com/kirinyoku/cinemago/internal/domain"
	"github.com/kirinyoku/cinemago/internal/repository"
	"github.com/kirinyoku/cinemago/internal/service/limit"
)

var epoch = time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

type memStore struct {
	mu   sync.Mutex
	recs map[uuid.UUID]domain.Session
	// afterGet runs once a Get has read the record.
	afterGet func(id uuid.UUID)
}

func newMemStore() *memStore { return &memStore{recs: make(map[uuid.UUID]domain.Session)} }

func (m *memStore) Save(_ context.Context, s *domain.Session, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[s.ID] = *s
	return nil
}

func (m *memStore) Get(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	m.mu.Lock()
	s, ok := m.recs[id]
	hook := m.afterGet
	m.mu.Unlock()

	if !ok {
		return nil, repository.ErrNotFound
	}
	if hook != nil {
		hook(id)
	}
	return &s, nil
}

func (m *memStore) Touch(_ context.Context, id uuid.UUID, at time.Time, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.recs[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.LastActivityAt = at
	m.recs[id] = s
	return nil
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.recs, id)
	return nil
}

func (m *memStore) has(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.recs[id]
	return ok
}

type fakeUpstream struct {
	account *domain.Account
	err     error
	logins  int
}

func (f *fakeUpstream) Login(_ context.Context, _, _ string) (*domain.Account, error) {
	f.logins++
	if f.err != nil {
		return nil, f.err
	}
	cp := *f.account
	return &cp, nil
}

func (f *fakeUpstream) Register(context.Context, domain.User) error { return f.err }

func (f *fakeUpstream) AccountInfo(context.Context) (*domain.User, error) {
	return &domain.User{Account: f.account.Account}, f.err
}

type denyLimiter struct{}

func (denyLimiter) Allow(context.Context, string) (bool, int64, time.Duration, error) {
	return false, 6, time.Minute, nil
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": exp.Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tok
}

func newTestService(t *testing.T, clk *clock.Fake, store *memStore) (*Service, *fakeUpstream) {
	t.Helper()
	up := &fakeUpstream{account: &domain.Account{
		Account:     "admin01",
		FullName:    "Admin",
		Role:        domain.RoleAdmin,
		AccessToken: signedToken(t, epoch.Add(24*time.Hour)),
	}}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := New(up, store, nil, clk, log, Config{IdleTimeout: 30 * time.Minute, CheckInterval: 5 * time.Minute})
	return svc, up
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the session and caps it at the token expiry", func(t *testing.T) {
		clk := clock.NewFake(epoch)
		store := newMemStore()
		svc, _ := newTestService(t, clk, store)

		sess, err := svc.Login(ctx, "admin01", "secret", "10.0.0.1")
		require.NoError(t, err)

		assert.Equal(t, "admin01", sess.Account)
		assert.True(t, sess.IsAdmin())
		assert.Equal(t, epoch, sess.LoginAt)
		assert.Equal(t, epoch, sess.LastActivityAt)
		assert.Equal(t, epoch.Add(24*time.Hour).Unix(), sess.ExpiresAt.Unix())
		assert.True(t, store.has(sess.ID))
		assert.Equal(t, 1, svc.Watching())
	})

	t.Run("requires credentials", func(t *testing.T) {
		svc, up := newTestService(t, clock.NewFake(epoch), newMemStore())
		_, err := svc.Login(ctx, "", "secret", "")
		assert.ErrorIs(t, err, ErrMissingCredentials)
		assert.Zero(t, up.logins)
	})

	t.Run("rate limited before calling upstream", func(t *testing.T) {
		svc, up := newTestService(t, clock.NewFake(epoch), newMemStore())
		svc.limiter = denyLimiter{}

		_, err := svc.Login(ctx, "admin01", "secret", "10.0.0.1")
		assert.ErrorIs(t, err, limit.ErrRateLimited)
		assert.Zero(t, up.logins)
	})

	t.Run("upstream failure is passed through", func(t *testing.T) {
		svc, up := newTestService(t, clock.NewFake(epoch), newMemStore())
		boom := errors.New("bad credentials")
		up.err = boom

		_, err := svc.Login(ctx, "admin01", "wrong", "")
		assert.ErrorIs(t, err, boom)
		assert.Zero(t, svc.Watching())
	})
}

func TestIdleLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("no activity for the idle timeout ends the session", func(t *testing.T) {
		clk := clock.NewFake(epoch)
		store := newMemStore()
		svc, _ := newTestService(t, clk, store)

		var ended []uuid.UUID
		svc.OnLogout(func(id uuid.UUID) { ended = append(ended, id) })

		sess, err := svc.Login(ctx, "admin01", "secret", "")
		require.NoError(t, err)

		clk.Advance(29 * time.Minute)
		assert.True(t, store.has(sess.ID))

		clk.Advance(time.Minute)
		assert.False(t, store.has(sess.ID))
		assert.Equal(t, []uuid.UUID{sess.ID}, ended)
		assert.Zero(t, svc.Watching())

		_, err = svc.Authenticate(ctx, sess.ID)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("activity pushes the deadline", func(t *testing.T) {
		clk := clock.NewFake(epoch)
		store := newMemStore()
		svc, _ := newTestService(t, clk, store)

		sess, err := svc.Login(ctx, "admin01", "secret", "")
		require.NoError(t, err)

		clk.Advance(20 * time.Minute)
		got, err := svc.Authenticate(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, epoch.Add(20*time.Minute), got.LastActivityAt)

		clk.Advance(29 * time.Minute)
		assert.True(t, store.has(sess.ID))

		clk.Advance(time.Minute)
		assert.False(t, store.has(sess.ID))
	})

	t.Run("logout on another instance is picked up by the periodic check", func(t *testing.T) {
		clk := clock.NewFake(epoch)
		store := newMemStore()
		svc, _ := newTestService(t, clk, store)

		ended := 0
		svc.OnLogout(func(uuid.UUID) { ended++ })

		sess, err := svc.Login(ctx, "admin01", "secret", "")
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, sess.ID))
		clk.Advance(5 * time.Minute)

		assert.Equal(t, 1, ended)
		assert.Zero(t, svc.Watching())
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown session", func(t *testing.T) {
		svc, _ := newTestService(t, clock.NewFake(epoch), newMemStore())
		_, err := svc.Authenticate(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("stale record is removed", func(t *testing.T) {
		clk := clock.NewFake(epoch)
		store := newMemStore()
		svc, _ := newTestService(t, clk, store)

		id := uuid.New()
		require.NoError(t, store.Save(ctx, &domain.Session{
			ID:             id,
			Account:        "alice",
			LoginAt:        epoch.Add(-2 * time.Hour),
			LastActivityAt: epoch.Add(-time.Hour),
		}, time.Hour))

		_, err := svc.Authenticate(ctx, id)
		assert.ErrorIs(t, err, ErrSessionExpired)
		assert.False(t, store.has(id))
	})

	t.Run("logout racing the activity write is not undone", func(t *testing.T) {
		clk := clock.NewFake(epoch)
		store := newMemStore()
		svc, _ := newTestService(t, clk, store)

		id := uuid.New()
		require.NoError(t, store.Save(ctx, &domain.Session{ID: id, Account: "alice", LastActivityAt: epoch}, time.Hour))
		store.afterGet = func(id uuid.UUID) { _ = store.Delete(ctx, id) }

		_, err := svc.Authenticate(ctx, id)
		assert.ErrorIs(t, err, ErrUnauthenticated)
		assert.False(t, store.has(id))
		assert.Zero(t, svc.Watching())
	})

	t.Run("session created elsewhere gets a local monitor", func(t *testing.T) {
		clk := clock.NewFake(epoch)
		store := newMemStore()
		svc, _ := newTestService(t, clk, store)

		id := uuid.New()
		require.NoError(t, store.Save(ctx, &domain.Session{ID: id, Account: "alice", LastActivityAt: epoch}, time.Hour))

		_, err := svc.Authenticate(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1, svc.Watching())

		require.NoError(t, svc.Logout(ctx, id))
		assert.Zero(t, svc.Watching())
		assert.False(t, store.has(id))
	})
}

func TestShutdownStopsMonitors(t *testing.T) {
	clk := clock.NewFake(epoch)
	store := newMemStore()
	svc, _ := newTestService(t, clk, store)

	sess, err := svc.Login(context.Background(), "admin01", "secret", "")
	require.NoError(t, err)

	svc.Shutdown()
	clk.Advance(time.Hour)

	assert.True(t, store.has(sess.ID))
	assert.Zero(t, clk.Pending())
}

func TestTokenExpiry(t *testing.T) {
	exp := epoch.Add(90 * time.Minute)
	assert.Equal(t, exp.Unix(), TokenExpiry(signedToken(t, exp)).Unix())
	assert.True(t, TokenExpiry("not-a-jwt").IsZero())

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString([]byte("k"))
	require.NoError(t, err)
	assert.True(t, TokenExpiry(noExp).IsZero())
}
