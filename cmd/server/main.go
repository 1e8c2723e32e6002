package main

import (
	"log/slog"
	"os"

	"github.com/minhng/tripfund/internal/auth"
	"github.com/minhng/tripfund/internal/config"
	"github.com/minhng/tripfund/internal/server"
	"github.com/minhng/tripfund/internal/storage/sqlite"
	"github.com/minhng/tripfund/internal/suggest"
	"github.com/minhng/tripfund/internal/weather"
	"github.com/minhng/tripfund/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load(os.Getenv("TRIPFUND_CONFIG"))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Database.Path)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	suggestClient := suggest.New(cfg.Suggest.BaseURL, cfg.Suggest.APIKey, cfg.Suggest.Model, cfg.Suggest.Timeout)
	if cfg.Suggest.APIKey == "" {
		slog.Warn("No suggestion API key configured, suggestions will be placeholders")
	}
	weatherClient := weather.New(cfg.Weather.BaseURL, cfg.Weather.APIKey, cfg.Weather.Timeout)
	if cfg.Weather.APIKey == "" {
		slog.Warn("No weather API key configured, weather will be unavailable")
	}

	srv := server.New(cfg, store, jwtManager, authenticator, suggestClient, weatherClient)
	if err := srv.Listen(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
