package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr        string
	AdminToken  string
	PostgresDSN string
	Redis       RedisConfig
	// ViewCacheTTL bounds how long a derived decision view may be served
	// from cache. Zero disables caching entirely.
	ViewCacheTTL time.Duration
}

// RedisConfig captures connection settings for the optional Redis backend.
// An empty URL means Redis is not configured and memory stores are used.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("CHAINSIGHT_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	adminToken := os.Getenv("CHAINSIGHT_ADMIN_TOKEN")
	if adminToken == "" {
		// Development default - must be overridden in production.
		adminToken = "dev-admin-token"
	}

	return Server{
		Addr:        addr,
		AdminToken:  adminToken,
		PostgresDSN: os.Getenv("CHAINSIGHT_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("CHAINSIGHT_REDIS_URL"),
			PoolSize:     envInt("CHAINSIGHT_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("CHAINSIGHT_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuration("CHAINSIGHT_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("CHAINSIGHT_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("CHAINSIGHT_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		ViewCacheTTL: envDuration("CHAINSIGHT_VIEW_CACHE_TTL", 0),
	}
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
