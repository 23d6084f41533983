package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/kirinyoku/citybus/docs"
	"github.com/kirinyoku/citybus/internal/app"
	"github.com/kirinyoku/citybus/internal/config"
)

//go:generate swag init -g cmd/citybus/main.go -d ../../ -o ../../docs

// @title CityBus API
// @version 1.0
// @description Mocked city bus tracking and seat booking sessions.
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		logger.Error("application finished with error", "error", err)
		os.Exit(1)
	}
}
