package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var ErrInvalid = errors.New("config invalid")

type Config struct {
	HTTP     HTTPConfig
	Postgres PostgresConfig
	Auth     AuthConfig
	Feed     FeedConfig
	Log      LogConfig
}

type HTTPConfig struct {
	Port             string
	AllowedOrigins   []string
	AllowCredentials bool
	ShutdownTimeout  time.Duration
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
	MaxConns    int32
}

type AuthConfig struct {
	PasswordIterations int
	HashConcurrency    int
}

type FeedConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Port:           getenv("PORT", "8080"),
			AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		Log: LogConfig{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", "text"),
		},
	}

	var err error
	if cfg.HTTP.AllowCredentials, err = parseBool(os.Getenv("CORS_ALLOW_CREDENTIALS"), false); err != nil {
		return Config{}, fmt.Errorf("%w: CORS_ALLOW_CREDENTIALS", ErrInvalid)
	}
	if cfg.HTTP.ShutdownTimeout, err = time.ParseDuration(getenv("SHUTDOWN_TIMEOUT", "10s")); err != nil {
		return Config{}, fmt.Errorf("%w: SHUTDOWN_TIMEOUT", ErrInvalid)
	}

	maxConns, err := parsePositive("PG_MAX_CONNS", 10)
	if err != nil {
		return Config{}, err
	}
	cfg.Postgres.MaxConns = int32(maxConns)

	if cfg.Auth.PasswordIterations, err = parsePositive("PASSWORD_ITERATIONS", 260000); err != nil {
		return Config{}, err
	}
	if cfg.Auth.HashConcurrency, err = parsePositive("HASH_CONCURRENCY", 4); err != nil {
		return Config{}, err
	}

	if cfg.Feed.DefaultPageSize, err = parsePositive("FEED_DEFAULT_PAGE_SIZE", 10); err != nil {
		return Config{}, err
	}
	if cfg.Feed.MaxPageSize, err = parsePositive("FEED_MAX_PAGE_SIZE", 100); err != nil {
		return Config{}, err
	}
	if cfg.Feed.DefaultPageSize > cfg.Feed.MaxPageSize {
		return Config{}, fmt.Errorf("%w: FEED_DEFAULT_PAGE_SIZE exceeds FEED_MAX_PAGE_SIZE", ErrInvalid)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseBool(value string, fallback bool) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseBool(value)
}

func parsePositive(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", ErrInvalid, key)
	}
	return n, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
