package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_AllVarsSet(t *testing.T) {
	t.Setenv("GRIDLAKE_DB_PATH", "/tmp/catalog.db")
	t.Setenv("GRIDLAKE_LOG_LEVEL", "debug")
	t.Setenv("GRIDLAKE_LOG_FORMAT", "json")

	cfg := LoadFromEnv()

	assert.Equal(t, "/tmp/catalog.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.Warnings)
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("GRIDLAKE_DB_PATH", "")
	t.Setenv("GRIDLAKE_LOG_LEVEL", "")
	t.Setenv("GRIDLAKE_LOG_FORMAT", "")

	cfg := LoadFromEnv()

	assert.Equal(t, "gridlake.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.Warnings)
}

func TestLoadFromEnv_UnknownValuesWarn(t *testing.T) {
	t.Setenv("GRIDLAKE_DB_PATH", "")
	t.Setenv("GRIDLAKE_LOG_LEVEL", "loud")
	t.Setenv("GRIDLAKE_LOG_FORMAT", "xml")

	cfg := LoadFromEnv()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	require.Len(t, cfg.Warnings, 2)
	assert.Contains(t, cfg.Warnings[0], "loud")
	assert.Contains(t, cfg.Warnings[1], "xml")
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"DEBUG", slog.LevelDebug},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.level}
		assert.Equal(t, tt.want, cfg.SlogLevel(), "level %q", tt.level)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment line\n" +
		"GRIDLAKE_TEST_A=plain\n" +
		"GRIDLAKE_TEST_B=\"double quoted\"\n" +
		"GRIDLAKE_TEST_C='single quoted'\n" +
		"\n" +
		"not a pair\n" +
		"GRIDLAKE_TEST_D=overridden\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("GRIDLAKE_TEST_A", "")
	t.Setenv("GRIDLAKE_TEST_B", "")
	t.Setenv("GRIDLAKE_TEST_C", "")
	t.Setenv("GRIDLAKE_TEST_D", "from-env")

	require.NoError(t, LoadDotEnv(path))

	assert.Equal(t, "plain", os.Getenv("GRIDLAKE_TEST_A"))
	assert.Equal(t, "double quoted", os.Getenv("GRIDLAKE_TEST_B"))
	assert.Equal(t, "single quoted", os.Getenv("GRIDLAKE_TEST_C"))
	// Existing environment wins over the file.
	assert.Equal(t, "from-env", os.Getenv("GRIDLAKE_TEST_D"))
}

func TestLoadDotEnv_MissingFileIsFine(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
