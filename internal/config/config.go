// Package config reads server settings from the environment, optionally
// seeded from a dotenv file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultSessionTTL = 30 * 24 * time.Hour

type Config struct {
	Port       string
	DBPath     string
	LogLevel   string
	LogFormat  string
	SessionTTL time.Duration
	EnvFile    string
}

// Addr is the listen address for Port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Load reads ECOTRACK_* variables. Values already in the environment win
// over the dotenv file, which is skipped when it does not exist.
func Load() (*Config, error) {
	envFile := getEnv("ECOTRACK_ENV_FILE", ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	ttl, err := getDuration("ECOTRACK_SESSION_TTL", DefaultSessionTTL)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:       getEnv("ECOTRACK_PORT", "8080"),
		DBPath:     getEnv("ECOTRACK_DB_PATH", "ecotrack.db"),
		LogLevel:   getEnv("ECOTRACK_LOG_LEVEL", "info"),
		LogFormat:  strings.ToLower(getEnv("ECOTRACK_LOG_FORMAT", "text")),
		SessionTTL: ttl,
		EnvFile:    envFile,
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("ECOTRACK_PORT: invalid port %q", c.Port)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("ECOTRACK_LOG_FORMAT: want text or json, got %q", c.LogFormat)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("ECOTRACK_SESSION_TTL: must be positive, got %s", c.SessionTTL)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
