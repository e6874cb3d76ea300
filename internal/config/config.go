package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Feed pipeline
	CacheDir     string        // feed cache directory, empty = in-memory cache
	FeedCacheTTL time.Duration // freshness window for cached feeds (default: 5m)
	FetchTimeout time.Duration // timeout for upstream feed/article fetches (default: 30s)
	CatalogFile  string        // optional YAML overlay for the feed catalog

	// Sessions
	SessionStore         string        // "memory" | "redis"
	SessionTTL           time.Duration // session lifetime (default: 24h)
	SessionSweepInterval time.Duration // expired-session sweep period, memory store only
	SessionSecret        string        // symmetric key material for credential encryption

	// Credential exchange
	LoginURL string // upstream login endpoint; empty = authentication disabled

	// Redis (only used when SessionStore == "redis")
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisMaxWait        time.Duration // max wait between connect retries
	RedisPingTimeout    time.Duration
	RedisPoolSize       int
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries, grows exponentially
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("TIDEWATCH_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("TIDEWATCH_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("TIDEWATCH_LOG_LEVEL", "info"),
		PrettyLog: mustBool("TIDEWATCH_PRETTY_LOG", true),

		// Feed pipeline
		CacheDir:     getenv("TIDEWATCH_CACHE_DIR", ".cache"),
		FeedCacheTTL: mustDuration("TIDEWATCH_FEED_CACHE_TTL", 5*time.Minute),
		FetchTimeout: mustDuration("TIDEWATCH_FETCH_TIMEOUT", 30*time.Second),
		CatalogFile:  getenv("TIDEWATCH_CATALOG_FILE", ""),

		// Sessions
		SessionStore:         getenv("TIDEWATCH_SESSION_STORE", "memory"),
		SessionTTL:           mustDuration("TIDEWATCH_SESSION_TTL", 24*time.Hour),
		SessionSweepInterval: mustDuration("TIDEWATCH_SESSION_SWEEP_INTERVAL", time.Hour),
		SessionSecret:        requireEnv("TIDEWATCH_SESSION_SECRET"),

		// Credential exchange
		LoginURL: getenv("TIDEWATCH_LOGIN_URL", ""),

		// Redis settings
		RedisAddr:           getenv("TIDEWATCH_REDIS_ADDR", "localhost:6379"),
		RedisUser:           getenv("TIDEWATCH_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("TIDEWATCH_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("TIDEWATCH_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
	}

	if cfg.SessionStore != "memory" && cfg.SessionStore != "redis" {
		panic(fmt.Sprintf("❌ FATAL: TIDEWATCH_SESSION_STORE must be \"memory\" or \"redis\", got %q", cfg.SessionStore))
	}

	if len(cfg.SessionSecret) < 16 {
		panic("❌ FATAL: TIDEWATCH_SESSION_SECRET must be at least 16 characters")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.SessionSecret = "***REDACTED***"
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
