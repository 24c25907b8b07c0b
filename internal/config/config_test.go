package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/ldpr-reports/internal/config"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := config.FromEnv(env(nil))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "reports.db", cfg.DBPath)
	assert.Equal(t, "media", cfg.MediaDir)
	assert.Equal(t, "http://localhost:8080", cfg.ReportAPIURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Zero(t, cfg.TelegramChat)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := config.FromEnv(env(map[string]string{
		"PORT":               "9000",
		"PUBLIC_BASE_URL":    "https://reports.example.org",
		"TELEGRAM_BOT_TOKEN": "123:abc",
		"TELEGRAM_CHAT_ID":   "-100500",
		"LOG_FORMAT":         "json",
		"SESSION_TTL":        "2h",
	}))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", cfg.ReportAPIURL)
	assert.Equal(t, "https://reports.example.org", cfg.PublicBaseURL)
	assert.Equal(t, int64(-100500), cfg.TelegramChat)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
}

func TestFromEnv_Errors(t *testing.T) {
	_, err := config.FromEnv(env(map[string]string{"TELEGRAM_CHAT_ID": "chat"}))
	assert.ErrorContains(t, err, "TELEGRAM_CHAT_ID")

	_, err = config.FromEnv(env(map[string]string{"TELEGRAM_BOT_TOKEN": "123:abc"}))
	assert.ErrorContains(t, err, "required")

	_, err = config.FromEnv(env(map[string]string{"SESSION_TTL": "soon"}))
	assert.ErrorContains(t, err, "SESSION_TTL")
}

func TestWarnings_Font(t *testing.T) {
	cfg, err := config.FromEnv(env(nil))
	require.NoError(t, err)
	require.Len(t, cfg.Warnings(), 1)
	assert.Contains(t, cfg.Warnings()[0], "REPORT_FONT_PATH is not set")

	cfg.FontPath = filepath.Join(t.TempDir(), "missing.ttf")
	require.Len(t, cfg.Warnings(), 1)
	assert.Contains(t, cfg.Warnings()[0], "unreadable")

	font := filepath.Join(t.TempDir(), "font.ttf")
	require.NoError(t, os.WriteFile(font, []byte("ttf"), 0o644))
	cfg.FontPath = font
	assert.Empty(t, cfg.Warnings())
}
