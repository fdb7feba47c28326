package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirinyoku/cinemago/internal/cybersoft"
	"github.com/kirinyoku/cinemago/internal/domain"
	"github.com/kirinyoku/cinemago/internal/service/auth"
)

type LoginCmd struct {
	Account  string `arg:"" help:"Account name"`
	Password string `help:"Account password" env:"CINEMACTL_PASSWORD" required:""`
}

func (l *LoginCmd) Run(ctx context.Context, g *Globals) error {
	account := strings.TrimSpace(l.Account)
	if account == "" || l.Password == "" {
		return fmt.Errorf("account and password are required")
	}

	acc, err := g.API.Login(ctx, account, l.Password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if acc.AccessToken == "" {
		return fmt.Errorf("login: %w", auth.ErrNoAccessToken)
	}

	now := g.Clock.Now()
	sess := &domain.Session{
		ID:             uuid.New(),
		Account:        acc.Account,
		DisplayName:    acc.FullName,
		Email:          acc.Email,
		Role:           acc.Role,
		AccessToken:    acc.AccessToken,
		LoginAt:        now,
		LastActivityAt: now,
		ExpiresAt:      auth.TokenExpiry(acc.AccessToken),
	}
	if err := g.Sessions.Save(sess); err != nil {
		return err
	}

	g.Log.Debug("login", "account", sess.Account, "role", sess.Role)
	fmt.Fprintf(g.Out, "Logged in as %s (%s)\n", sess.Account, sess.Role)
	if !sess.IsAdmin() {
		fmt.Fprintln(g.Out, "Warning: this account has no admin role; admin commands will be refused.")
	}

	return nil
}

type LogoutCmd struct{}

func (l *LogoutCmd) Run(g *Globals) error {
	if err := g.Sessions.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(g.Out, "Logged out")
	return nil
}

type WhoamiCmd struct {
	Remote bool `help:"Fetch the profile from the API"`
}

func (w *WhoamiCmd) Run(ctx context.Context, g *Globals) error {
	sess, err := g.Sessions.Touch()
	if err != nil {
		return err
	}

	fmt.Fprintf(g.Out, "Account:  %s\n", sess.Account)
	fmt.Fprintf(g.Out, "Name:     %s\n", sess.DisplayName)
	fmt.Fprintf(g.Out, "Role:     %s\n", sess.Role)
	fmt.Fprintf(g.Out, "Login:    %s\n", sess.LoginAt.Format(time.RFC3339))
	if !sess.ExpiresAt.IsZero() {
		fmt.Fprintf(g.Out, "Expires:  %s\n", sess.ExpiresAt.Format(time.RFC3339))
	}

	if !w.Remote {
		return nil
	}

	u, err := g.API.AccountInfo(cybersoft.WithAccessToken(ctx, sess.AccessToken))
	if err != nil {
		return fmt.Errorf("whoami: %w", err)
	}
	fmt.Fprintf(g.Out, "Email:    %s\n", u.Email)
	fmt.Fprintf(g.Out, "Phone:    %s\n", u.Phone)

	return nil
}
