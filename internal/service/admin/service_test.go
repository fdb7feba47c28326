package admin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/cinemago/internal/cybersoft"
	"github.com/kirinyoku/cinemago/internal/domain"
	redisx "github.com/kirinyoku/cinemago/internal/redis"
	"github.com/kirinyoku/cinemago/internal/service/servicetest"
)

type memAudit struct {
	entries []domain.AuditEntry
}

func (m *memAudit) Record(_ context.Context, account, action, target string) (int64, error) {
	id := int64(len(m.entries) + 1)
	m.entries = append(m.entries, domain.AuditEntry{ID: id, Account: account, Action: action, Target: target})
	return id, nil
}

func (m *memAudit) List(_ context.Context, limit, offset int) ([]domain.AuditEntry, error) {
	out := make([]domain.AuditEntry, 0, len(m.entries))
	for i := len(m.entries) - 1; i >= 0; i-- {
		out = append(out, m.entries[i])
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type recordingNotifier struct {
	movies []int64
}

func (n *recordingNotifier) PublishMovieChanged(_ context.Context, id int64) error {
	n.movies = append(n.movies, id)
	return nil
}

type fixture struct {
	svc      *Service
	up       *servicetest.Upstream
	cache    *servicetest.Cache
	audit    *memAudit
	notifier *recordingNotifier
}

var actor = &domain.Session{Account: "admin01", Role: domain.RoleAdmin}

func newFixture() *fixture {
	f := &fixture{
		up:       servicetest.NewUpstream(),
		cache:    servicetest.NewCache(),
		audit:    &memAudit{},
		notifier: &recordingNotifier{},
	}
	f.svc = New(f.up, f.cache, f.notifier, f.audit,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config{Group: "GP01", ProtectedAccounts: []string{"admin", "chiviet2025"}},
	)
	return f
}

func (f *fixture) prime(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, f.cache.Fetch(context.Background(), k, time.Minute, new(any), func(context.Context) (any, error) {
			return "x", nil
		}))
	}
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("protected accounts never reach upstream", func(t *testing.T) {
		f := newFixture()

		err := f.svc.DeleteUser(ctx, actor, "admin")
		assert.ErrorIs(t, err, ErrProtectedAccount)

		var pe ProtectedAccountError
		require.True(t, errors.As(err, &pe))
		assert.Contains(t, pe.UserMessage(), `"admin"`)

		assert.Zero(t, f.up.Count("DeleteUser"))
		assert.Empty(t, f.audit.entries)
	})

	t.Run("deletes and audits", func(t *testing.T) {
		f := newFixture()

		require.NoError(t, f.svc.DeleteUser(ctx, actor, "khach01"))
		assert.Equal(t, []string{"khach01"}, f.up.Deleted)
		require.Len(t, f.audit.entries, 1)
		assert.Equal(t, ActionDeleteUser, f.audit.entries[0].Action)
		assert.Equal(t, "admin01", f.audit.entries[0].Account)
	})

	t.Run("upstream failure is not audited", func(t *testing.T) {
		f := newFixture()
		f.up.Errs["DeleteUser"] = &cybersoft.APIError{Status: 403}

		err := f.svc.DeleteUser(ctx, actor, "khach01")
		assert.Equal(t, cybersoft.MsgForbidden, cybersoft.UserMessage(err))
		assert.Empty(t, f.audit.entries)
	})
}

func TestMovieMutationsInvalidate(t *testing.T) {
	ctx := context.Background()

	t.Run("update drops list and detail", func(t *testing.T) {
		f := newFixture()
		f.prime(t, redisx.KeyMovies("GP01"), redisx.KeyMovieDetail(1282))

		require.NoError(t, f.svc.UpdateMovie(ctx, actor, domain.MovieForm{ID: 1282, Title: "Dune"}))

		assert.False(t, f.cache.Has(redisx.KeyMovies("GP01")))
		assert.False(t, f.cache.Has(redisx.KeyMovieDetail(1282)))
		assert.Equal(t, []int64{1282}, f.notifier.movies)
		assert.Equal(t, "GP01", f.up.Forms[0].Group)
	})

	t.Run("add requires a title", func(t *testing.T) {
		f := newFixture()
		err := f.svc.AddMovie(ctx, actor, domain.MovieForm{Image: []byte{1}})
		assert.ErrorIs(t, err, ErrInvalidMovie)
		assert.Zero(t, f.up.Count("AddMovie"))
	})

	t.Run("delete drops list and detail", func(t *testing.T) {
		f := newFixture()
		f.prime(t, redisx.KeyMovies("GP01"), redisx.KeyMovieDetail(7))

		require.NoError(t, f.svc.DeleteMovie(ctx, actor, 7))

		assert.False(t, f.cache.Has(redisx.KeyMovies("GP01")))
		assert.False(t, f.cache.Has(redisx.KeyMovieDetail(7)))
		assert.Equal(t, ActionDeleteMovie, f.audit.entries[0].Action)
	})
}

func TestCreateShowtime(t *testing.T) {
	ctx := context.Background()

	t.Run("normalises the start and drops the movie detail", func(t *testing.T) {
		f := newFixture()
		f.prime(t, redisx.KeyMovieDetail(1282))

		err := f.svc.CreateShowtime(ctx, actor, domain.NewShowtime{
			MovieID:   1282,
			StartsAt:  "2025-06-01T19:30",
			ClusterID: "bhd-star-cineplex-3-2",
			Price:     75000,
		})
		require.NoError(t, err)

		require.Len(t, f.up.Showtimes, 1)
		assert.Equal(t, "01/06/2025 19:30:00", f.up.Showtimes[0].StartsAt)
		assert.False(t, f.cache.Has(redisx.KeyMovieDetail(1282)))
		assert.Equal(t, ActionCreateShowtime, f.audit.entries[0].Action)
	})

	t.Run("incomplete input", func(t *testing.T) {
		f := newFixture()
		err := f.svc.CreateShowtime(ctx, actor, domain.NewShowtime{MovieID: 1282, Price: 75000})
		assert.ErrorIs(t, err, ErrIncompleteShowtime)
		assert.Zero(t, f.up.Count("CreateShowtime"))
	})

	t.Run("unparseable start", func(t *testing.T) {
		f := newFixture()
		err := f.svc.CreateShowtime(ctx, actor, domain.NewShowtime{
			MovieID: 1282, ClusterID: "c", StartsAt: "tomorrow", Price: 1,
		})
		assert.ErrorIs(t, err, ErrInvalidStartTime)
	})
}

func TestFormatShowtimeStart(t *testing.T) {
	for in, want := range map[string]string{
		"01/06/2025 19:30:00":       "01/06/2025 19:30:00",
		"2025-06-01T19:30":          "01/06/2025 19:30:00",
		"2025-06-01T19:30:15":       "01/06/2025 19:30:15",
		"2025-06-01T19:30:00+07:00": "01/06/2025 19:30:00",
	} {
		got, err := FormatShowtimeStart(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestUsersAndAudit(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.up.Users = []domain.User{{Account: "khach01"}}

	_, err := f.svc.Users(ctx, "")
	require.NoError(t, err)
	_, err = f.svc.Users(ctx, "  khach ")
	require.NoError(t, err)
	assert.Equal(t, 1, f.up.Count("ListUsers"))
	assert.Equal(t, 1, f.up.Count("SearchUsers"))

	require.NoError(t, f.svc.AddUser(ctx, actor, domain.User{Account: "a"}))
	require.NoError(t, f.svc.UpdateUser(ctx, actor, domain.User{Account: "b"}))

	entries, err := f.svc.AuditLog(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionUpdateUser, entries[0].Action)
}
