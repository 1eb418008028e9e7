// Package config reads service settings from the environment (and an optional .env file).
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port           string
	StoreDriver    string
	DatabaseURL    string
	AllowedOrigins []string
	ServiceToken   string // gateway → service bearer token; enables gateway mode
	AuthServiceURL string // enables direct bearer validation
	SyncServiceURL string // enables the profile sync worker
	SyncInterval   time.Duration
	AuditInterval  time.Duration // 0 disables the integrity audit
	BodyLimitMB    int
	RequestTimeout time.Duration
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:           valueOr(getenv("PORT"), "5000"),
		StoreDriver:    strings.ToLower(valueOr(getenv("STORE_DRIVER"), DriverPostgres)),
		DatabaseURL:    getenv("DATABASE_URL"),
		ServiceToken:   getenv("SERVICE_TOKEN"),
		AuthServiceURL: getenv("AUTH_SERVICE_URL"),
		SyncServiceURL: getenv("SYNC_SERVICE_URL"),
	}

	origins := valueOr(getenv("ALLOWED_ORIGINS"), "http://localhost:5173")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	var err error
	if cfg.SyncInterval, err = durationOr(getenv("SYNC_INTERVAL"), time.Minute); err != nil {
		return nil, err
	}
	if cfg.AuditInterval, err = durationOr(getenv("AUDIT_INTERVAL"), 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = durationOr(getenv("REQUEST_TIMEOUT"), 10*time.Second); err != nil {
		return nil, err
	}

	cfg.BodyLimitMB = 50
	if v := getenv("BODY_LIMIT_MB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("BODY_LIMIT_MB must be a positive integer, got %q", v)
		}
		cfg.BodyLimitMB = n
	}

	switch cfg.StoreDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable not set")
		}
	case DriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.ServiceToken == "" && cfg.AuthServiceURL == "" {
		return nil, fmt.Errorf("either SERVICE_TOKEN (gateway mode) or AUTH_SERVICE_URL must be set")
	}
	return cfg, nil
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func durationOr(v string, def time.Duration) (time.Duration, error) {
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	return d, nil
}
