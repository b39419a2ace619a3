// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Config holds the CLI configuration.
type Config struct {
	DBPath    string // path to the SQLite catalog file (default "gridlake.db")
	LogLevel  string // log level: debug, info, warn, error (default "info")
	LogFormat string // log output format: text or json (default "text")

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadFromEnv loads configuration from GRIDLAKE_* environment variables,
// falling back to defaults for anything unset.
func LoadFromEnv() *Config {
	cfg := &Config{
		DBPath:    os.Getenv("GRIDLAKE_DB_PATH"),
		LogLevel:  os.Getenv("GRIDLAKE_LOG_LEVEL"),
		LogFormat: os.Getenv("GRIDLAKE_LOG_FORMAT"),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = "gridlake.db"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		cfg.Warnings = append(cfg.Warnings,
			fmt.Sprintf("unknown GRIDLAKE_LOG_LEVEL %q, using info", cfg.LogLevel))
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "text", "json":
	default:
		cfg.Warnings = append(cfg.Warnings,
			fmt.Sprintf("unknown GRIDLAKE_LOG_FORMAT %q, using text", cfg.LogFormat))
		cfg.LogFormat = "text"
	}

	return cfg
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = stripQuotes(value)
		// Only set if not already in the environment (env vars take precedence)
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
