package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/kirinyoku/cinemago/docs"
	"github.com/kirinyoku/cinemago/internal/app"
	"github.com/kirinyoku/cinemago/internal/config"
)

//go:generate swag init -g main.go -d .,../../internal/transport/http/gin,../../internal/domain,../../internal/booking -o ../../docs --outputTypes go

// @title CinemaGo API
// @version 1.0
// @description Backend for the CinemaGo booking and admin apps over the Cybersoft cinema API.
// @host localhost:8080
// @BasePath /
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to create application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("application finished with error", "error", err)
		os.Exit(1)
	}
}
