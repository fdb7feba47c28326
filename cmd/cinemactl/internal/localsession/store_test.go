package localsession

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/cinemago/internal/clock"
	"github.com/kirinyoku/cinemago/internal/domain"
)

var epoch = time.Date(2025, 5, 1, 19, 0, 0, 0, time.UTC)

func newSession(at time.Time) *domain.Session {
	return &domain.Session{
		ID:             uuid.New(),
		Account:        "admin01",
		Role:           domain.RoleAdmin,
		AccessToken:    "token",
		LoginAt:        at,
		LastActivityAt: at,
	}
}

func TestNewStore(t *testing.T) {
	t.Run("creates directory with correct permissions", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "cinemago")

		_, err := NewStore(dir, time.Minute, nil)
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
	})
}

func TestStore(t *testing.T) {
	t.Run("save writes a private file", func(t *testing.T) {
		s, err := NewStore(t.TempDir(), 30*time.Minute, clock.NewFake(epoch))
		require.NoError(t, err)

		require.NoError(t, s.Save(newSession(epoch)))

		info, err := os.Stat(s.Path())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

		got, err := s.Load()
		require.NoError(t, err)
		assert.Equal(t, "admin01", got.Account)
	})

	t.Run("nothing stored", func(t *testing.T) {
		s, err := NewStore(t.TempDir(), 30*time.Minute, clock.NewFake(epoch))
		require.NoError(t, err)

		_, err = s.Load()
		assert.ErrorIs(t, err, ErrNoSession)
		assert.NoError(t, s.Clear())
	})

	t.Run("touch keeps an active session alive", func(t *testing.T) {
		clk := clock.NewFake(epoch)
		s, err := NewStore(t.TempDir(), 30*time.Minute, clk)
		require.NoError(t, err)
		require.NoError(t, s.Save(newSession(epoch)))

		for i := 0; i < 3; i++ {
			clk.Advance(20 * time.Minute)
			sess, err := s.Touch()
			require.NoError(t, err)
			assert.Equal(t, clk.Now(), sess.LastActivityAt)
		}
	})

	t.Run("idle session is cleared on load", func(t *testing.T) {
		clk := clock.NewFake(epoch)
		s, err := NewStore(t.TempDir(), 30*time.Minute, clk)
		require.NoError(t, err)
		require.NoError(t, s.Save(newSession(epoch)))

		clk.Advance(30 * time.Minute)
		_, err = s.Load()
		assert.ErrorIs(t, err, ErrSessionExpired)

		_, err = os.Stat(s.Path())
		assert.True(t, os.IsNotExist(err))
		_, err = s.Load()
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("token expiry ends the session", func(t *testing.T) {
		clk := clock.NewFake(epoch)
		s, err := NewStore(t.TempDir(), time.Hour, clk)
		require.NoError(t, err)
		sess := newSession(epoch)
		sess.ExpiresAt = epoch.Add(5 * time.Minute)
		require.NoError(t, s.Save(sess))

		clk.Advance(5 * time.Minute)
		_, err = s.Touch()
		assert.ErrorIs(t, err, ErrSessionExpired)
	})

	t.Run("damaged file counts as logged out", func(t *testing.T) {
		s, err := NewStore(t.TempDir(), time.Hour, clock.NewFake(epoch))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(s.Path(), []byte("{"), 0600))

		_, err = s.Load()
		assert.ErrorIs(t, err, ErrNoSession)
	})
}
