package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/me/blogfront/internal/store"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "BLOGFRONT_"

// ServerConfig holds configuration for the BlogFront web server.
type ServerConfig struct {
	Addr          string `env:"ADDR, default=:3000"`
	LogLevel      string `env:"LOG_LEVEL, default=info"`
	LogFormat     string `env:"LOG_FORMAT, default=text"`
	SecureCookies bool   `env:"SECURE_COOKIES, default=false"` // HTTPS deployments

	API     APIConfig
	Session SessionConfig
	Login   LoginConfig
}

// APIConfig locates the blog REST API.
type APIConfig struct {
	BaseURL string        `env:"API_URL, default=http://localhost:8080"`
	Timeout time.Duration `env:"API_TIMEOUT, default=15s"`
}

// SessionConfig selects the session backend and its lifetimes.
type SessionConfig struct {
	Backend         string        `env:"SESSION_BACKEND, default=sqlite"` // sqlite, redis, file
	DBPath          string        `env:"SESSION_DB, default=blogfront.db"`
	RedisAddr       string        `env:"REDIS_ADDR, default=localhost:6379"`
	RedisDB         int           `env:"REDIS_DB, default=0"`
	Dir             string        `env:"SESSION_DIR, default=sessions"`
	TTL             time.Duration `env:"SESSION_TTL, default=24h"`
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL, default=10m"`
	RecheckInterval time.Duration `env:"SESSION_RECHECK_INTERVAL, default=30s"`
}

// LoginConfig throttles login attempts per client address.
type LoginConfig struct {
	RatePerMinute float64 `env:"LOGIN_RATE_PER_MINUTE, default=10"`
	Burst         int     `env:"LOGIN_BURST, default=5"`
}

// DefaultServerConfig returns the defaults declared on the struct tags.
func DefaultServerConfig() ServerConfig {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(nil))
	if err != nil {
		// Only reachable if a default tag is malformed.
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

// Load reads BLOGFRONT_* environment variables over the defaults.
func Load(ctx context.Context) (ServerConfig, error) {
	return LoadFrom(ctx, envconfig.PrefixLookuper(EnvPrefix, envconfig.OsLookuper()))
}

// LoadFrom reads configuration from an arbitrary lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (ServerConfig, error) {
	var cfg ServerConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return ServerConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Validate checks values that the defaults cannot guarantee.
func (c ServerConfig) Validate() error {
	switch c.Session.Backend {
	case store.BackendSQLite, store.BackendRedis, store.BackendFile:
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api url is required")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	return nil
}

// StoreOptions maps the session settings onto store.Open options.
func (c ServerConfig) StoreOptions() store.Options {
	return store.Options{
		Backend:    c.Session.Backend,
		SQLitePath: c.Session.DBPath,
		RedisAddr:  c.Session.RedisAddr,
		RedisDB:    c.Session.RedisDB,
		FileDir:    c.Session.Dir,
	}
}
