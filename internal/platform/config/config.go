// Package config reads the engine's configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"

	strutil "dqengine/pkg/platform/strings"
)

// Config is the full engine configuration.
type Config struct {
	Server   Server
	Database DatabaseConfig
	Redis    RedisConfig
	Quality  QualityConfig
	LogLevel string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr               string
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
}

// DatabaseConfig locates the Postgres store. An empty URL selects the
// in-memory stores.
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig configures the shared rule tier. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// QualityConfig tunes the data-quality engine.
type QualityConfig struct {
	RuleCacheTTL          time.Duration
	RulesFile             string
	MaxBatchSize          int
	ValidationConcurrency int

	// Consecutive uniqueness query failures that open the circuit, and how
	// long it stays open.
	UniquenessFailureThreshold int
	UniquenessCooldown         time.Duration
}

// FromEnv builds the configuration from environment variables so main stays lean.
func FromEnv() Config {
	return FromLookup(os.Getenv)
}

// FromLookup builds the configuration from an arbitrary variable source.
func FromLookup(getenv func(string) string) Config {
	env := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	addr := env("DQ_ADDR", "")
	if addr == "" {
		addr = ":" + env("PORT", "3011")
	}

	return Config{
		Server: Server{
			Addr:               addr,
			CORSAllowedOrigins: strutil.SplitDedupe(env("CORS_ALLOWED_ORIGINS", "*"), ","),
			ShutdownTimeout:    duration(env("SHUTDOWN_TIMEOUT", ""), 10*time.Second),
		},
		Database: DatabaseConfig{
			URL:          databaseURL(env),
			MaxOpenConns: cast.ToInt(env("DB_MAX_OPEN_CONNS", "20")),
			MaxIdleConns: cast.ToInt(env("DB_MAX_IDLE_CONNS", "5")),
		},
		Redis: RedisConfig{
			URL:          env("REDIS_URL", ""),
			PoolSize:     cast.ToInt(env("REDIS_POOL_SIZE", "10")),
			MinIdleConns: cast.ToInt(env("REDIS_MIN_IDLE_CONNS", "2")),
			DialTimeout:  duration(env("REDIS_DIAL_TIMEOUT", ""), 5*time.Second),
			ReadTimeout:  duration(env("REDIS_READ_TIMEOUT", ""), 3*time.Second),
			WriteTimeout: duration(env("REDIS_WRITE_TIMEOUT", ""), 3*time.Second),
		},
		Quality: QualityConfig{
			RuleCacheTTL:          duration(env("RULE_CACHE_TTL", ""), 5*time.Minute),
			RulesFile:             env("RULES_FILE", ""),
			MaxBatchSize:          cast.ToInt(env("MAX_BATCH_SIZE", "1000")),
			ValidationConcurrency: cast.ToInt(env("VALIDATION_CONCURRENCY", "8")),

			UniquenessFailureThreshold: cast.ToInt(env("UNIQUENESS_FAILURE_THRESHOLD", "5")),
			UniquenessCooldown:         duration(env("UNIQUENESS_COOLDOWN", ""), 30*time.Second),
		},
		LogLevel: env("LOG_LEVEL", "info"),
	}
}

// databaseURL prefers DATABASE_URL and otherwise assembles a DSN from the
// POSTGRES_* variables, falling back to DB_* aliases. No host means no database.
func databaseURL(env func(key, fallback string) string) string {
	if dsn := env("DATABASE_URL", ""); dsn != "" {
		return dsn
	}
	host := env("POSTGRES_HOST", env("DB_HOST", ""))
	if host == "" {
		return ""
	}
	u := url.URL{
		Scheme: "postgres",
		User: url.UserPassword(
			env("POSTGRES_USER", env("DB_USER", "postgres")),
			env("POSTGRES_PASSWORD", env("DB_PASSWORD", "")),
		),
		Host:     fmt.Sprintf("%s:%s", host, env("POSTGRES_PORT", env("DB_PORT", "5432"))),
		Path:     "/" + env("POSTGRES_DB", env("DB_NAME", "postgres")),
		RawQuery: "sslmode=" + env("POSTGRES_SSLMODE", "disable"),
	}
	return u.String()
}

// duration accepts Go duration strings ("90s") or a bare number of seconds.
func duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if secs, err := cast.ToIntE(raw); err == nil {
		if secs <= 0 {
			return fallback
		}
		return time.Duration(secs) * time.Second
	}
	if d, err := cast.ToDurationE(raw); err == nil && d > 0 {
		return d
	}
	return fallback
}
