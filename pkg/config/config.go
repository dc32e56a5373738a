package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/platinummonkey/pulse/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Engine configuration
	Engine EngineConfig

	// Redis configuration
	Redis RedisConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Ingest request body cap
	MaxBodyBytes int64

	// Origins allowed to call the API; empty disables CORS headers
	CORSOrigins []string

	// Health/metrics server (separate port for k8s probes)
	HealthPort string
}

// EngineConfig holds query defaults served by the API layer
type EngineConfig struct {
	// Window defaults applied when query params are absent
	GrowthWindowDays     int
	EngagementWindowDays int
	InactivityDays       int

	// Upper bound for the top-events ?limit= param
	TopEventsLimitCap int

	// TTL for the GET response cache; zero disables caching
	QueryCacheTTL time.Duration
}

// RedisConfig holds the optional Redis connection used for health checks
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel observability.LogLevel

	// Metrics
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Engine:        loadEngineConfig(),
		Redis:         loadRedisConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("PULSE_HOST", "0.0.0.0"),
		Port:            getEnv("PULSE_PORT", "8080"),
		ReadTimeout:     getEnvDuration("PULSE_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("PULSE_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("PULSE_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("PULSE_SHUTDOWN_TIMEOUT", 30*time.Second),
		MaxBodyBytes:    getEnvInt64("PULSE_MAX_BODY_BYTES", 1<<20),
		CORSOrigins:     getEnvList("PULSE_CORS_ORIGINS"),
		HealthPort:      getEnv("PULSE_HEALTH_PORT", "9090"),
	}
}

// loadEngineConfig loads engine query defaults from environment
func loadEngineConfig() EngineConfig {
	return EngineConfig{
		GrowthWindowDays:     getEnvInt("PULSE_GROWTH_WINDOW_DAYS", 30),
		EngagementWindowDays: getEnvInt("PULSE_ENGAGEMENT_WINDOW_DAYS", 7),
		InactivityDays:       getEnvInt("PULSE_INACTIVITY_DAYS", 30),
		TopEventsLimitCap:    getEnvInt("PULSE_TOP_EVENTS_LIMIT_CAP", 100),
		QueryCacheTTL:        getEnvDuration("PULSE_QUERY_CACHE_TTL", 0),
	}
}

// loadRedisConfig loads Redis configuration from environment
func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:     getEnv("PULSE_REDIS_ADDR", ""),
		Password: getEnv("PULSE_REDIS_PASSWORD", ""),
		DB:       getEnvInt("PULSE_REDIS_DB", 0),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       observability.ParseLevel(getEnv("PULSE_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("PULSE_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive")
	}

	// Validate engine config
	if c.Engine.GrowthWindowDays <= 0 {
		return fmt.Errorf("growth window days must be positive")
	}
	if c.Engine.EngagementWindowDays <= 0 {
		return fmt.Errorf("engagement window days must be positive")
	}
	if c.Engine.InactivityDays <= 0 {
		return fmt.Errorf("inactivity days must be positive")
	}
	if c.Engine.TopEventsLimitCap <= 0 {
		return fmt.Errorf("top events limit cap must be positive")
	}
	if c.Engine.QueryCacheTTL < 0 {
		return fmt.Errorf("query cache TTL cannot be negative")
	}

	// Validate redis config
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis DB cannot be negative")
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
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvInt64 returns an int64 environment variable or a default
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList returns a comma-separated environment variable as a slice
func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}
