// Package config reads the runtime configuration from the environment. A .env
// file in the working directory is loaded first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port          string
	DBPath        string
	MediaDir      string
	PublicBaseURL string // prefix of artifact links, e.g. https://reports.example.org
	ReportAPIURL  string // report endpoint used by the wizard
	FontPath      string // TrueType font with Cyrillic glyphs for PDF output
	TelegramToken string
	TelegramChat  int64
	LogLevel      string
	LogFormat     string // "json" or "console"
	DownloadDir   string
	SessionTTL    time.Duration // idle wizard sessions are dropped after this
}

// Load reads .env (if any) and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("error loading .env file")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults for unset values.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}
	cfg := Config{
		Port:          get("PORT", "8080"),
		DBPath:        get("DB_PATH", "reports.db"),
		MediaDir:      get("MEDIA_DIR", "media"),
		PublicBaseURL: getenv("PUBLIC_BASE_URL"),
		FontPath:      getenv("REPORT_FONT_PATH"),
		TelegramToken: getenv("TELEGRAM_BOT_TOKEN"),
		LogLevel:      get("LOG_LEVEL", "info"),
		LogFormat:     get("LOG_FORMAT", "console"),
		DownloadDir:   get("DOWNLOAD_DIR", "."),
	}
	cfg.ReportAPIURL = get("REPORT_API_URL", "http://localhost:"+cfg.Port)

	ttl, err := time.ParseDuration(get("SESSION_TTL", "30m"))
	if err != nil || ttl <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL: invalid duration %q", getenv("SESSION_TTL"))
	}
	cfg.SessionTTL = ttl

	if v := getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChat = id
	}
	if cfg.TelegramToken != "" && cfg.TelegramChat == 0 {
		return Config{}, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}
	return cfg, nil
}

// Warnings lists settings that are accepted but degrade the generated reports.
func (c Config) Warnings() []string {
	var out []string
	switch {
	case c.FontPath == "":
		out = append(out, "REPORT_FONT_PATH is not set: PDF reports fall back to Helvetica and cannot show Cyrillic text")
	default:
		if _, err := os.Stat(c.FontPath); err != nil {
			out = append(out, fmt.Sprintf("REPORT_FONT_PATH %s is unreadable: %v", c.FontPath, err))
		}
	}
	return out
}

// Addr is the listen address of the HTTP server.
func (c Config) Addr() string { return ":" + c.Port }
