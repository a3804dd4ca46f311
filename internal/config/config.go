package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL      string
	ListenAddr       string // JSON admin API
	MetricsAddr      string // /healthz and /metrics
	LogLevel         string
	Env              string // dev|prod
	SentryDSN        string
	Location         *time.Location
	ReportsDir       string
	TelegramToken    string // empty disables the Telegram notifier
	TelegramAdminIDs []int64
}

func Load() (*Config, error) {
	tz := getenv("TZ", "America/Bogota")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	adminIDs, err := parseIDs(os.Getenv("TELEGRAM_ADMIN_IDS"))
	if err != nil {
		return nil, fmt.Errorf("TELEGRAM_ADMIN_IDS: %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg := &Config{
		DatabaseURL:      dbURL,
		ListenAddr:       getenv("LISTEN_ADDR", ":3000"),
		MetricsAddr:      getenv("METRICS_ADDR", ":8080"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		Env:              getenv("ENV", "dev"),
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		Location:         loc,
		ReportsDir:       getenv("REPORTS_DIR", "./reports"),
		TelegramToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramAdminIDs: adminIDs,
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseIDs(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad id %q: %w", p, err)
		}
		out = append(out, n)
	}
	return out, nil
}
