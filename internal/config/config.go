package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingEnv = errors.New("missing-env")

type Config struct {
	Port           string
	AllowedOrigins []string
	PostgresURL    string
	SessionKey     string
	SessionMaxAge  time.Duration
	LogLevel       string
	LogPretty      bool
	GinMode        string
}

// Load reads an optional .env file, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:          getEnv("PORT", "5000"),
		PostgresURL:   os.Getenv("POSTGRES_URL"),
		SessionMaxAge: 7 * 24 * time.Hour,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		GinMode:       getEnv("GIN_MODE", "debug"),
	}

	SESSION_KEY, exists := os.LookupEnv("SESSION_KEY")
	if !exists || SESSION_KEY == "" {
		return Config{}, fmt.Errorf("%w: SESSION_KEY", ErrMissingEnv)
	}
	cfg.SessionKey = SESSION_KEY

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
	if len(cfg.AllowedOrigins) == 0 && cfg.GinMode == "release" {
		return Config{}, fmt.Errorf("%w: ALLOWED_ORIGINS", ErrMissingEnv)
	}

	if raw := os.Getenv("SESSION_MAX_AGE"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SESSION_MAX_AGE %q: %w", raw, err)
		}
		cfg.SessionMaxAge = d
	}

	if raw := os.Getenv("LOG_PRETTY"); raw != "" {
		pretty, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOG_PRETTY %q: %w", raw, err)
		}
		cfg.LogPretty = pretty
	}

	return cfg, nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
