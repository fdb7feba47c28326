package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/cinemago/cmd/cinemactl/internal/localsession"
	"github.com/kirinyoku/cinemago/internal/clock"
	"github.com/kirinyoku/cinemago/internal/cybersoft"
	"github.com/kirinyoku/cinemago/internal/domain"
	"github.com/kirinyoku/cinemago/internal/service/admin"
	"github.com/kirinyoku/cinemago/internal/service/servicetest"
)

var epoch = time.Date(2025, 5, 1, 19, 0, 0, 0, time.UTC)

type fixture struct {
	g   *Globals
	up  *servicetest.Upstream
	clk *clock.Fake
	out *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clk := clock.NewFake(epoch)
	sessions, err := localsession.NewStore(t.TempDir(), 30*time.Minute, clk)
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	up := servicetest.NewUpstream()
	up.Account = &domain.Account{Account: "admin01", FullName: "Quản trị", Role: domain.RoleAdmin, AccessToken: "tok"}
	out := &bytes.Buffer{}

	return &fixture{
		g: &Globals{
			Out:      out,
			API:      up,
			Sessions: sessions,
			Admin:    admin.New(up, nil, nil, nil, log, admin.Config{ProtectedAccounts: []string{"admin"}}),
			Clock:    clk,
			Log:      log,
		},
		up:  up,
		clk: clk,
		out: out,
	}
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	require.NoError(t, (&LoginCmd{Account: "admin01", Password: "secret"}).Run(context.Background(), f.g))
	f.out.Reset()
}

func TestLoginLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("login stores the session", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)

		sess, err := f.g.Sessions.Load()
		require.NoError(t, err)
		assert.Equal(t, "admin01", sess.Account)
		assert.Equal(t, "tok", sess.AccessToken)

		require.NoError(t, (&WhoamiCmd{}).Run(ctx, f.g))
		assert.Contains(t, f.out.String(), "admin01")

		require.NoError(t, (&LogoutCmd{}).Run(f.g))
		_, err = f.g.Sessions.Load()
		assert.ErrorIs(t, err, localsession.ErrNoSession)
	})

	t.Run("failed login leaves no session", func(t *testing.T) {
		f := newFixture(t)
		f.up.Errs["Login"] = &cybersoft.APIError{Status: http.StatusBadRequest, Content: "Tài khoản hoặc mật khẩu không đúng!"}

		err := (&LoginCmd{Account: "admin01", Password: "bad"}).Run(ctx, f.g)
		require.Error(t, err)
		assert.Equal(t, "Tài khoản hoặc mật khẩu không đúng!", Message(err))

		_, err = f.g.Sessions.Load()
		assert.ErrorIs(t, err, localsession.ErrNoSession)
	})
}

func TestIdleLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.login(t)

	f.clk.Advance(20 * time.Minute)
	require.NoError(t, (&MoviesListCmd{}).Run(ctx, f.g))

	// the previous command counted as activity
	f.clk.Advance(20 * time.Minute)
	require.NoError(t, (&MoviesListCmd{}).Run(ctx, f.g))

	f.clk.Advance(30 * time.Minute)
	err := (&MoviesListCmd{}).Run(ctx, f.g)
	assert.ErrorIs(t, err, localsession.ErrSessionExpired)
	assert.Equal(t, cybersoft.MsgUnauthorized, Message(err))
	assert.Equal(t, 2, f.up.Count("ListMovies"))
}

func TestAdminCommands(t *testing.T) {
	ctx := context.Background()

	t.Run("needs a login", func(t *testing.T) {
		f := newFixture(t)
		err := (&UsersListCmd{}).Run(ctx, f.g)
		assert.ErrorIs(t, err, localsession.ErrNoSession)
		assert.Zero(t, f.up.Count("ListUsers"))
	})

	t.Run("needs the admin role", func(t *testing.T) {
		f := newFixture(t)
		f.up.Account = &domain.Account{Account: "alice", Role: domain.RoleCustomer, AccessToken: "tok"}
		f.login(t)

		err := (&MoviesDeleteCmd{ID: 1282}).Run(ctx, f.g)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Equal(t, cybersoft.MsgForbidden, Message(err))
		assert.Zero(t, f.up.Count("DeleteMovie"))
	})

	t.Run("lists movies", func(t *testing.T) {
		f := newFixture(t)
		f.up.Movies = []domain.Movie{{ID: 1282, Title: "Dune", NowShowing: true, Hot: true}}
		f.login(t)

		require.NoError(t, (&MoviesListCmd{}).Run(ctx, f.g))
		assert.Contains(t, f.out.String(), "Dune")
		assert.Contains(t, f.out.String(), "showing, hot")
	})

	t.Run("protected account is refused", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)

		err := (&UsersDeleteCmd{Account: "admin"}).Run(ctx, f.g)
		assert.ErrorIs(t, err, admin.ErrProtectedAccount)
		assert.Contains(t, Message(err), `"admin"`)
		assert.Zero(t, f.up.Count("DeleteUser"))

		require.NoError(t, (&UsersDeleteCmd{Account: "bob"}).Run(ctx, f.g))
		assert.Equal(t, []string{"bob"}, f.up.Deleted)
	})

	t.Run("search marks protected accounts", func(t *testing.T) {
		f := newFixture(t)
		f.up.Users = []domain.User{{Account: "admin", Role: domain.RoleAdmin}, {Account: "bob", Role: domain.RoleCustomer}}
		f.login(t)

		require.NoError(t, (&UsersSearchCmd{Keyword: "a"}).Run(ctx, f.g))
		assert.Equal(t, 1, f.up.Count("SearchUsers"))
		assert.Contains(t, f.out.String(), "yes")
	})

	t.Run("creates showtimes", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)

		err := (&ShowtimesCreateCmd{Movie: 1282, Start: "2025-05-10T19:30", Price: 75000}).Run(ctx, f.g)
		assert.Equal(t, msgIncompleteShowtime, Message(err))

		require.NoError(t, (&ShowtimesCreateCmd{
			Movie:   1282,
			Cluster: "bhd-star-cineplex-3-2",
			Start:   "2025-05-10T19:30",
			Price:   75000,
		}).Run(ctx, f.g))
		require.Len(t, f.up.Showtimes, 1)
		assert.Equal(t, "10/05/2025 19:30:00", f.up.Showtimes[0].StartsAt)
	})
}
