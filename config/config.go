// Package config loads the service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// envPrefix is tried before the bare variable name, so deployments can
// scope settings as FARECALC_PORT while local runs just use PORT.
const envPrefix = "FARECALC_"

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Cache    CacheConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Journal  JournalConfig
	Pricing  PricingConfig
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level  string
	Pretty bool
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        string
	RateLimit   int
	RateWindow  time.Duration
	CORSOrigins []string
	SwaggerUser string
	SwaggerPass string
}

// CacheConfig sizes the in-process agency policy cache.
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// AuthConfig holds token validation settings for the config
// administration routes.
type AuthConfig struct {
	Enabled      bool
	JWTSecretKey string
}

// DatabaseConfig holds MongoDB and policy-store circuit settings.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	LogsTTL      time.Duration
	Enabled      bool

	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// JournalConfig sizes the async entry journal writer pool.
type JournalConfig struct {
	BufferSize   int
	Writers      int
	WriteTimeout time.Duration
}

// PricingConfig holds rendering engine defaults.
type PricingConfig struct {
	LegacyStopovers bool
	TicketLineLens  []int
}

// Load builds the configuration from environment variables, falling back
// to defaults suitable for local development.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:        lookup("PORT", "8080"),
			RateLimit:   lookupInt("RATE_LIMIT", 100),
			RateWindow:  lookupDuration("RATE_WINDOW", time.Minute),
			CORSOrigins: corsOrigins(),
			SwaggerUser: lookup("SWAGGER_USER", ""),
			SwaggerPass: lookup("SWAGGER_PASS", ""),
		},
		Log: LogConfig{
			Level:  lookup("LOG_LEVEL", "info"),
			Pretty: lookupBool("LOG_PRETTY", false),
		},
		Cache: CacheConfig{
			Size: lookupInt("CACHE_SIZE", 1000),
			TTL:  lookupDuration("CACHE_TTL", 5*time.Minute),
		},
		Auth: AuthConfig{
			Enabled:      lookupBool("AUTH_ENABLED", false),
			JWTSecretKey: lookup("JWT_SECRET_KEY", ""),
		},
		Database: DatabaseConfig{
			URI:                            lookup("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:                   lookup("MONGODB_DATABASE", "farecalc_service"),
			LogsTTL:                        lookupDuration("MONGODB_LOGS_TTL", 30*24*time.Hour),
			Enabled:                        lookupBool("MONGODB_ENABLED", false),
			CircuitBreakerFailureThreshold: lookupInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: lookupInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          lookupDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
		Journal: JournalConfig{
			BufferSize:   lookupInt("JOURNAL_BUFFER_SIZE", 1000),
			Writers:      lookupInt("JOURNAL_WRITERS", 4),
			WriteTimeout: lookupDuration("JOURNAL_WRITE_TIMEOUT", 5*time.Second),
		},
		Pricing: PricingConfig{
			LegacyStopovers: lookupBool("LEGACY_STOPOVERS", false),
			TicketLineLens:  lineLens(),
		},
	}
}

// raw returns the first non-empty value among the prefixed and bare
// forms of the variable name.
func raw(name string) string {
	if v := os.Getenv(envPrefix + name); v != "" {
		return v
	}
	return os.Getenv(name)
}

func lookup(name, fallback string) string {
	if v := raw(name); v != "" {
		return v
	}
	return fallback
}

func lookupInt(name string, fallback int) int {
	v := raw(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func lookupBool(name string, fallback bool) bool {
	v := raw(name)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func lookupDuration(name string, fallback time.Duration) time.Duration {
	v := raw(name)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// lineLens parses TICKET_LINE_LENS, a comma-separated list of per-line
// character budgets for the ticket image.
func lineLens() []int {
	v := raw("TICKET_LINE_LENS")
	if v == "" {
		return nil
	}
	var lens []int
	for _, part := range strings.Split(v, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			continue
		}
		lens = append(lens, n)
	}
	return lens
}

// corsOrigins merges CORS_ORIGINS into the local development defaults.
func corsOrigins() []string {
	origins := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	for _, part := range strings.Split(raw("CORS_ORIGINS"), ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
