// Package config loads application configuration from an optional config.yaml
// plus TRIPFUND_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Suggest  SuggestConfig
	Weather  WeatherConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        int
	CORSOrigins string
}

// DatabaseConfig holds SQLite configuration.
type DatabaseConfig struct {
	Path string
}

// AuthConfig holds JWT signing configuration.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// SuggestConfig holds the suggestion-provider client configuration.
type SuggestConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// WeatherConfig holds the weather-provider client configuration.
type WeatherConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Load reads configuration from configPath (default "config.yaml"; a missing
// file is fine) and the environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", "*")
	v.SetDefault("database.path", "./data/tripfund.db")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("suggest.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("suggest.model", "gemini-2.5-flash")
	v.SetDefault("suggest.timeout", "20s")
	v.SetDefault("weather.base_url", "https://api.openweathermap.org")
	v.SetDefault("weather.timeout", "10s")

	if configPath == "" {
		configPath = "config.yaml"
	}
	v.SetConfigFile(configPath)
	v.SetEnvPrefix("TRIPFUND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        v.GetInt("server.port"),
			CORSOrigins: v.GetString("server.cors_origins"),
		},
		Database: DatabaseConfig{
			Path: v.GetString("database.path"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("auth.jwt_secret"),
			TokenTTL:  v.GetDuration("auth.token_ttl"),
		},
		Suggest: SuggestConfig{
			BaseURL: v.GetString("suggest.base_url"),
			APIKey:  v.GetString("suggest.api_key"),
			Model:   v.GetString("suggest.model"),
			Timeout: v.GetDuration("suggest.timeout"),
		},
		Weather: WeatherConfig{
			BaseURL: v.GetString("weather.base_url"),
			APIKey:  v.GetString("weather.api_key"),
			Timeout: v.GetDuration("weather.timeout"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret (TRIPFUND_AUTH_JWT_SECRET) is required")
	}
	if len(cfg.Auth.JWTSecret) < 32 {
		return nil, fmt.Errorf("auth.jwt_secret must be at least 32 characters")
	}

	return cfg, nil
}
