package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	// ModeRemote points the client at the spreadsheet-backed gateway.
	ModeRemote Mode = "remote"
	// ModeLocal points the client at a litclassd dev gateway.
	ModeLocal Mode = "local"
)

type Config struct {
	Mode Mode

	// Client side.
	GatewayURL     string
	SessionFile    string
	RequestTimeout time.Duration // 0 = no timeout

	// Dev gateway side.
	HTTPAddr string
	DBDriver string
	DBDSN    string

	AuthSecret string

	CORSOrigins []string

	// Seed credentials created by system.setup.
	AdminUser string
	AdminPass string
}

// FromEnv builds the config from the environment. A .env file in the
// working directory is loaded first when present; real env vars win.
func FromEnv() Config {
	_ = godotenv.Load()

	mode := Mode(envOr("LITCLASS_MODE", string(ModeLocal)))
	return Config{
		Mode:           mode,
		GatewayURL:     envOr("LITCLASS_GATEWAY_URL", "http://localhost:8080/api"),
		SessionFile:    envOr("LITCLASS_SESSION_FILE", defaultSessionFile()),
		RequestTimeout: envDuration("LITCLASS_REQUEST_TIMEOUT", 0),

		HTTPAddr: envOr("HTTP_ADDR", ":8080"),
		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		AuthSecret: envOr("AUTH_HMAC_SECRET", "litclass-dev-key"),

		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:3000"),

		AdminUser: envOr("ADMIN_USER", "giaovien"),
		AdminPass: envOr("ADMIN_PASS", "123456"),
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".litclass-session.json"
	}
	return filepath.Join(dir, "litclass", "session.json")
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
