package config

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// DevSessionSecret is only meant for local development. Load keeps it as the
// default so the service boots without a .env, Validate refuses it in production.
const DevSessionSecret = "dev-session-secret-change-me"

// Config holds application configuration loaded from environment variables
// Provide sane defaults for local development.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string

	// Database (embedded SQLite file)
	DBPath         string
	DBLogLevel     string // silent, error, warn, info
	DBMaxOpenConns int

	// Session cookie
	SessionName   string
	SessionSecret string
	SessionMaxAge time.Duration
	CookieDomain  string
	CookieSecure  bool

	// CORS
	CORSAllowedOrigins string // comma-separated

	// Client IP resolution. Forwarding headers are only read from these
	// proxies (comma-separated IPs or CIDRs); empty trusts none.
	TrustedProxies  string
	TrustedPlatform string // cloudflare, google, or a header name; empty disables

	// Static assets
	StaticDir       string
	AvatarDir       string
	AvatarMaxWidth  int
	AvatarMaxHeight int
	AvatarRotate    bool
	AvatarBackend   string // disk, gcs

	// Google Cloud Storage (only when AvatarBackend == "gcs")
	GCSBucket              string
	GCSCredentialsJSONPath string // optional; if empty, Application Default Credentials are used

	// Registration behaviour switches
	NormalizeEmail    bool
	StrictStatusCodes bool

	// Redis (register rate limiter); empty address disables it
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	RegisterRateLimit    int // requests per minute per IP
	RateLimitSkipPrivate bool

	// RabbitMQ (registration events); empty URL disables publishing
	RabbitMQURL         string
	RabbitMQEventsQueue string

	// Debug metrics (/debug/vars)
	DebugMetricsEnabled bool

	// HTTP access log toggle (Gin logger)
	HTTPLogEnabled bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName: getenv("APP_NAME", "dog-registry"),
		Env:     getenv("APP_ENV", "development"),
		Port:    getenv("PORT", "8000"),
		GinMode: getenv("GIN_MODE", "debug"),

		DBPath:         getenv("DB_PATH", "dogs.sqlite"),
		DBLogLevel:     strings.ToLower(getenv("DB_LOG_LEVEL", "warn")),
		DBMaxOpenConns: getint("DB_MAX_OPEN_CONNS", 8),

		SessionName:   getenv("SESSION_NAME", "session"),
		SessionSecret: getenv("SESSION_SECRET", DevSessionSecret),
		SessionMaxAge: getdur("SESSION_MAX_AGE", 30*24*time.Hour),
		CookieDomain:  getenv("COOKIE_DOMAIN", ""),
		CookieSecure:  getbool("COOKIE_SECURE", false),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),

		TrustedProxies:  getenv("TRUSTED_PROXIES", ""),
		TrustedPlatform: getenv("TRUSTED_PLATFORM", ""),

		StaticDir:       getenv("STATIC_DIR", "static"),
		AvatarDir:       getenv("AVATAR_DIR", "static/profile_pics"),
		AvatarMaxWidth:  getint("AVATAR_MAX_WIDTH", 125),
		AvatarMaxHeight: getint("AVATAR_MAX_HEIGHT", 175),
		AvatarRotate:    getbool("AVATAR_ROTATE", false),
		AvatarBackend:   strings.ToLower(getenv("AVATAR_BACKEND", "disk")),

		GCSBucket:              getenv("GCS_BUCKET", ""),
		GCSCredentialsJSONPath: getenv("GCS_CREDENTIALS_JSON", ""),

		NormalizeEmail:    getbool("NORMALIZE_EMAIL", false),
		StrictStatusCodes: getbool("STRICT_STATUS_CODES", false),

		RedisAddr:            getenv("REDIS_ADDR", ""),
		RedisPassword:        getenv("REDIS_PASSWORD", ""),
		RedisDB:              getint("REDIS_DB", 0),
		RegisterRateLimit:    getint("REGISTER_RATE_LIMIT", 10),
		RateLimitSkipPrivate: getbool("RATE_LIMIT_SKIP_PRIVATE", false),

		RabbitMQURL:         getenv("RABBITMQ_URL", ""),
		RabbitMQEventsQueue: getenv("RABBITMQ_EVENTS_QUEUE", "user_events"),

		DebugMetricsEnabled: getbool("DEBUG_METRICS_ENABLED", false),

		// HTTP access log toggle (default false; enable when needed)
		HTTPLogEnabled: getbool("HTTP_LOG_ENABLED", false),
	}
}

// IsProd reports whether the service runs in production.
func (c *Config) IsProd() bool {
	return c.Env == "production"
}

// UsesDevSecret reports whether the session cookie is signed with the built-in development secret.
func (c *Config) UsesDevSecret() bool {
	return c.SessionSecret == DevSessionSecret
}

// Validate rejects configurations that must not reach production.
func (c *Config) Validate() error {
	if c.IsProd() && c.UsesDevSecret() {
		return ErrDevSecretInProd
	}
	if c.AvatarBackend == "gcs" && c.GCSBucket == "" {
		return ErrGCSBucketMissing
	}
	for _, p := range c.TrustedProxyList() {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				return fmt.Errorf("%w: %q", ErrInvalidTrustedProxy, p)
			}
		}
	}
	return nil
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

// TrustedProxyList returns nil when no proxy is trusted.
func (c *Config) TrustedProxyList() []string {
	res := splitList(c.TrustedProxies)
	if len(res) == 0 {
		return nil
	}
	return res
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
