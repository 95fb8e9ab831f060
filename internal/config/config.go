package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// BackendFile persists annotations to JSON files in the data dir.
	BackendFile = "file"
	// BackendRedis persists annotations to redis.
	BackendRedis = "redis"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	BookFile         string        // path to the paginated book file produced by the extraction step
	DataDir          string        // directory for the file backend and page state
	StoreBackend     string        // "file" | "redis"
	AutosaveInterval time.Duration // interval between automatic saves (default: 30s)

	// Redis (used only when StoreBackend == "redis")
	RedisAddr         string        // ex: "localhost:6379"
	RedisUser         string        // optional
	RedisPassword     string        // optional
	RedisDB           int           // Redis DB number
	RedisDialTimeout  time.Duration // ex: 5s
	RedisReadTimeout  time.Duration // ex: 3s
	RedisWriteTimeout time.Duration // ex: 3s
	RedisPoolSize     int           // connection pool size

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers
}

func Load() *Config {
	// Optional .env for local development; missing file is fine.
	_ = godotenv.Load()

	cfg := &Config{
		ListenPort:      getenv("GENREJINN_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("GENREJINN_SHUTDOWN_TIMEOUT", 5*time.Second),

		LogLevel:  getenv("GENREJINN_LOG_LEVEL", "info"),
		PrettyLog: mustBool("GENREJINN_PRETTY_LOG", true),

		BookFile:         requireEnv("GENREJINN_BOOK_FILE"),
		DataDir:          getenv("GENREJINN_DATA_DIR", "data"),
		StoreBackend:     getenv("GENREJINN_STORE_BACKEND", BackendFile),
		AutosaveInterval: mustDuration("GENREJINN_AUTOSAVE_INTERVAL", 30*time.Second),

		RedisAddr:         getenv("GENREJINN_REDIS_ADDR", "localhost:6379"),
		RedisUser:         getenv("GENREJINN_REDIS_USERNAME", "default"),
		RedisPassword:     getenv("GENREJINN_REDIS_PASSWORD", ""),
		RedisDB:           getenvInt("GENREJINN_REDIS_DB", 0),
		RedisDialTimeout:  mustDuration("GENREJINN_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisReadTimeout:  mustDuration("GENREJINN_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWriteTimeout: mustDuration("GENREJINN_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:     getenvInt("GENREJINN_REDIS_POOL_SIZE", 10),

		AllowedHosts: splitAndTrim(getenv("GENREJINN_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("GENREJINN_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("GENREJINN_TRUST_PROXY", false),
	}

	if cfg.StoreBackend != BackendFile && cfg.StoreBackend != BackendRedis {
		panic(fmt.Sprintf("❌ FATAL: Unknown GENREJINN_STORE_BACKEND %q (want %q or %q)",
			cfg.StoreBackend, BackendFile, BackendRedis))
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

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
