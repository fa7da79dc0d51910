package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// State backends accepted by CURATOR_STATE_BACKEND.
const (
	StateBackendLocal  = "local"
	StateBackendRedis  = "redis"
	StateBackendMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline applied by the router

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Archive backend
	APIBase        string        // JSON API root, ex: "http://archive:8000/api/v2/"
	MediaBase      string        // root used to build image URLs for the browser (defaults to APIBase)
	Source         string        // content source segment, ex: "pixiv"
	BackendTimeout time.Duration // http.Client timeout for backend calls
	BackendRPS     float64       // outbound requests per second, 0 = unlimited
	BackendBurst   int           // outbound burst size
	QueryCacheTTL  time.Duration // how long a fetched listing is served before revalidation
	QueryCacheSize int64         // max cached responses

	// Dashboard
	DashboardFile  string        // optional dashboard.yaml (favorite users, grid defaults)
	ReloadInterval time.Duration // interval to reload the dashboard file

	// Client-side state persistence
	StateBackend string // "local" | "redis" | "memory"
	StateDir     string // directory for the local backend

	// Redis (only read when StateBackend == "redis")
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // dial timeout
	RedisRT               time.Duration // read timeout
	RedisWT               time.Duration // write timeout
	RedisMaxWait          time.Duration // max wait between retries
	RedisPingTimeout      time.Duration // timeout for each ping attempt
	RedisPoolSize         int           // connection pool size
	RedisConnectTimeout   time.Duration // total time to retry connecting
	RedisRetryInterval    time.Duration // initial wait between retries, grows exponentially
	RedisWarnThreshold    int           // warn after this many attempts

	// Access restrictions
	AllowedHosts []string // optional, restrict pages to specific Host headers
	AllowedCIDRS []string // optional, restrict ops endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers
	CORSOrigins  []string // origins allowed on /api

	// Inbound rate limit on state mutations
	RateLimitBurst  int
	RateLimitPerMin int
}

func Load() *Config {
	apiBase := normalizeBase(requireEnv("CURATOR_API_BASE"))

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("CURATOR_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("CURATOR_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("CURATOR_REQUEST_TIMEOUT", 15*time.Second),

		// Logging
		LogLevel:  getenv("CURATOR_LOG_LEVEL", "info"),
		PrettyLog: mustBool("CURATOR_PRETTY_LOG", true),

		// Archive backend
		APIBase:        apiBase,
		MediaBase:      normalizeBase(getenv("CURATOR_MEDIA_BASE", apiBase)),
		Source:         strings.Trim(getenv("CURATOR_SOURCE", "pixiv"), "/"),
		BackendTimeout: mustDuration("CURATOR_BACKEND_TIMEOUT", 30*time.Second),
		BackendRPS:     getenvFloat("CURATOR_BACKEND_RPS", 0),
		BackendBurst:   getenvInt("CURATOR_BACKEND_BURST", 10),
		QueryCacheTTL:  mustDuration("CURATOR_QUERY_CACHE_TTL", 30*time.Second),
		QueryCacheSize: int64(getenvInt("CURATOR_QUERY_CACHE_SIZE", 512)),

		// Dashboard
		DashboardFile:  getenv("CURATOR_DASHBOARD_FILE", ""), // Optional, empty = built-in defaults
		ReloadInterval: mustDuration("CURATOR_RELOAD_INTERVAL", time.Hour),

		// State
		StateBackend: strings.ToLower(getenv("CURATOR_STATE_BACKEND", StateBackendLocal)),
		StateDir:     getenv("CURATOR_STATE_DIR", "/app/state"),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("CURATOR_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("CURATOR_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("CURATOR_TRUST_PROXY", false),
		CORSOrigins:  splitAndTrim(getenv("CURATOR_CORS_ORIGINS", "*")),

		RateLimitBurst:  getenvInt("CURATOR_RATE_LIMIT_BURST", 30),
		RateLimitPerMin: getenvInt("CURATOR_RATE_LIMIT_PER_MIN", 120),
	}

	switch cfg.StateBackend {
	case StateBackendLocal, StateBackendMemory:
	case StateBackendRedis:
		loadRedis(cfg)
	default:
		panic(fmt.Sprintf("❌ FATAL: unknown CURATOR_STATE_BACKEND %q (want local, redis or memory)", cfg.StateBackend))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("CURATOR_REDIS_ADDR")
	cfg.RedisUser = getenv("CURATOR_REDIS_USERNAME", "default")
	cfg.RedisPasswordRequired = mustBool("CURATOR_REDIS_PASSWORD_REQUIRED", true)
	cfg.RedisPassword = getenv("CURATOR_REDIS_PASSWORD", "")
	cfg.RedisDB = getenvInt("CURATOR_REDIS_DB", 0)
	cfg.RedisDT = mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisPoolSize = getenvInt("REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisWarnThreshold = getenvInt("REDIS_WARN_THRESHOLD", 3)

	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: CURATOR_REDIS_PASSWORD is required when CURATOR_REDIS_PASSWORD_REQUIRED=true")
	}
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

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			return f
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

// normalizeBase validates an absolute http(s) URL and strips trailing slashes,
// so endpoint paths can be joined with a single "/".
func normalizeBase(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		panic(fmt.Sprintf("❌ FATAL: invalid base URL %q (want http(s)://host/path)", raw))
	}
	return strings.TrimRight(u.String(), "/")
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
