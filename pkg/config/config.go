package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/razorzibra-dot/authzkit/pkg/observability"
)

// Config holds all engine configuration
type Config struct {
	// Engine configuration
	Engine EngineConfig

	// Role store configuration
	Store StoreConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// EngineConfig holds decision-engine settings
type EngineConfig struct {
	// CatalogTTL is the role catalog snapshot lifetime.
	CatalogTTL time.Duration

	// RefreshSchedule is an optional cron expression for background catalog
	// refreshes. Empty disables the refresher.
	RefreshSchedule string

	// DecisionCacheSize bounds the memoized decision cache. Negative disables
	// the cache.
	DecisionCacheSize int

	// DecisionCacheTTL is the lifetime of a cached decision.
	DecisionCacheTTL time.Duration

	// AliasFile is an optional YAML file of extra legacy token aliases,
	// hot-reloaded on change. Empty means built-in aliases only.
	AliasFile string
}

// StoreConfig holds role backing-store settings
type StoreConfig struct {
	// PostgresURL is the role store connection string. Empty means no
	// database-backed catalog; the hard-coded hierarchy still works.
	PostgresURL string

	// Redis snapshot layer (optional, shared across instances)
	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SnapshotTTL   time.Duration
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel string

	// Metrics
	MetricsEnabled bool

	// OpenTelemetry
	OTel observability.OTelConfig
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Engine:        loadEngineConfig(),
		Store:         loadStoreConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadEngineConfig() EngineConfig {
	return EngineConfig{
		CatalogTTL:        getEnvDuration("AUTHZ_CATALOG_TTL", 5*time.Minute),
		RefreshSchedule:   getEnv("AUTHZ_REFRESH_SCHEDULE", ""),
		DecisionCacheSize: getEnvInt("AUTHZ_DECISION_CACHE_SIZE", 4096),
		DecisionCacheTTL:  getEnvDuration("AUTHZ_DECISION_CACHE_TTL", time.Minute),
		AliasFile:         getEnv("AUTHZ_ALIAS_FILE", ""),
	}
}

func loadStoreConfig() StoreConfig {
	return StoreConfig{
		PostgresURL:   getEnv("AUTHZ_POSTGRES_URL", ""),
		RedisEnabled:  getEnvBool("AUTHZ_REDIS_ENABLED", false),
		RedisAddr:     getEnv("AUTHZ_REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("AUTHZ_REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("AUTHZ_REDIS_DB", 0),
		SnapshotTTL:   getEnvDuration("AUTHZ_SNAPSHOT_TTL", 5*time.Minute),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       getEnv("AUTHZ_LOG_LEVEL", "info"),
		MetricsEnabled: getEnvBool("AUTHZ_METRICS_ENABLED", true),
		OTel: observability.OTelConfig{
			Enabled:        getEnvBool("AUTHZ_OTEL_ENABLED", false),
			Endpoint:       getEnv("AUTHZ_OTEL_ENDPOINT", "localhost:4317"),
			ServiceName:    getEnv("AUTHZ_OTEL_SERVICE_NAME", "authzkit"),
			ServiceVersion: getEnv("AUTHZ_OTEL_SERVICE_VERSION", "1.0.0"),
			Insecure:       getEnvBool("AUTHZ_OTEL_INSECURE", true),
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Engine.CatalogTTL <= 0 {
		return fmt.Errorf("catalog TTL must be positive")
	}
	if c.Engine.DecisionCacheTTL <= 0 {
		return fmt.Errorf("decision cache TTL must be positive")
	}

	if c.Store.RedisEnabled && c.Store.RedisAddr == "" {
		return fmt.Errorf("redis address is required when the Redis snapshot layer is enabled")
	}

	switch strings.ToLower(c.Observability.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Observability.LogLevel)
	}

	if c.Observability.OTel.Enabled {
		if c.Observability.OTel.Endpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTel.ServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
