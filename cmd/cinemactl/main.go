package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/kirinyoku/cinemago/cmd/cinemactl/internal/commands"
	"github.com/kirinyoku/cinemago/cmd/cinemactl/internal/localsession"
	"github.com/kirinyoku/cinemago/internal/clock"
	"github.com/kirinyoku/cinemago/internal/config"
	"github.com/kirinyoku/cinemago/internal/cybersoft"
	"github.com/kirinyoku/cinemago/internal/service/admin"
)

var (
	version = "dev"
	cli     struct {
		Login     commands.LoginCmd     `cmd:"" help:"Log in and store the session"`
		Logout    commands.LogoutCmd    `cmd:"" help:"Forget the stored session"`
		Whoami    commands.WhoamiCmd    `cmd:"" help:"Show the logged-in account"`
		Movies    commands.MoviesCmd    `cmd:"" help:"Manage movies"`
		Users     commands.UsersCmd     `cmd:"" help:"Manage users"`
		Showtimes commands.ShowtimesCmd `cmd:"" help:"Manage showtimes"`

		SessionDir  string        `help:"Directory holding session.json (default ~/.cinemago)" env:"CINEMACTL_SESSION_DIR"`
		IdleTimeout time.Duration `help:"Log out after this much inactivity" env:"SESSION_IDLE_TIMEOUT" default:"30m"`
		Protected   []string      `help:"Accounts that cannot be deleted" env:"PROTECTED_ACCOUNTS" default:"chiviet2025,admin,chiviet"`
		Debug       bool          `help:"Enable debug mode."`
		Version     kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("cinemactl"),
		kong.Description("Admin tool for the CinemaGo catalog."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))

	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.NewCybersoft()
	cmd.FatalIfErrorf(err)

	sessions, err := localsession.NewStore(cli.SessionDir, cli.IdleTimeout, clock.Real{})
	cmd.FatalIfErrorf(err)

	api := cybersoft.New(cybersoft.Config{
		BaseURL: cfg.BaseURL,
		Token:   cfg.Token,
		Group:   cfg.Group,
		Timeout: cfg.Timeout,
	})

	err = cmd.Run(&commands.Globals{
		Debug:    cli.Debug,
		Out:      os.Stdout,
		API:      api,
		Sessions: sessions,
		Admin: admin.New(api, nil, nil, nil, logger, admin.Config{
			Group:             cfg.Group,
			ProtectedAccounts: cli.Protected,
		}),
		Clock: clock.Real{},
		Log:   logger,
	})
	if err != nil {
		logger.Debug("command failed", "error", err)
		cmd.Fatalf("%s", commands.Message(err))
	}
}
