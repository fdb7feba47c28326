// Package commands implements the cinemactl subcommands.
package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/kirinyoku/cinemago/cmd/cinemactl/internal/localsession"
	"github.com/kirinyoku/cinemago/internal/clock"
	"github.com/kirinyoku/cinemago/internal/cybersoft"
	"github.com/kirinyoku/cinemago/internal/domain"
	"github.com/kirinyoku/cinemago/internal/service/admin"
	"github.com/kirinyoku/cinemago/internal/service/auth"
)

// API is the part of the upstream client the CLI talks to.
type API interface {
	auth.Upstream
	admin.Upstream
}

type Globals struct {
	Debug    bool
	Out      io.Writer
	API      API
	Sessions *localsession.Store
	Admin    *admin.Service
	Clock    clock.Clock
	Log      *slog.Logger
}

var (
	ErrForbidden = errors.New("admin role required")

	msgNotLoggedIn         = "Bạn chưa đăng nhập. Chạy: cinemactl login <tài khoản>"
	msgIncompleteShowtime  = "Vui lòng điền đầy đủ thông tin!"
	msgInvalidShowtimeTime = "Thời gian chiếu không hợp lệ!"
)

// adminContext loads the stored login, counts the command as activity and
// returns a context carrying the access token.
func (g *Globals) adminContext(ctx context.Context) (context.Context, *domain.Session, error) {
	sess, err := g.Sessions.Touch()
	if err != nil {
		return nil, nil, err
	}
	if !sess.IsAdmin() {
		return nil, nil, ErrForbidden
	}

	return cybersoft.WithAccessToken(ctx, sess.AccessToken), sess, nil
}

// Message renders err the way it is shown to the operator.
func Message(err error) string {
	var protected admin.ProtectedAccountError

	switch {
	case errors.As(err, &protected):
		return protected.UserMessage()
	case errors.Is(err, localsession.ErrNoSession):
		return msgNotLoggedIn
	case errors.Is(err, localsession.ErrSessionExpired):
		return cybersoft.MsgUnauthorized
	case errors.Is(err, ErrForbidden):
		return cybersoft.MsgForbidden
	case errors.Is(err, admin.ErrIncompleteShowtime):
		return msgIncompleteShowtime
	case errors.Is(err, admin.ErrInvalidStartTime):
		return msgInvalidShowtimeTime
	}

	var apiErr *cybersoft.APIError
	if errors.As(err, &apiErr) {
		return cybersoft.UserMessage(err)
	}

	return err.Error()
}
