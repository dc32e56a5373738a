// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for all settings. Every variable is optional; the defaults
// produce a working single-node deployment.
//
// # Configuration Structure
//
// Server settings:
//
//	PULSE_HOST="0.0.0.0"
//	PULSE_PORT="8080"
//	PULSE_HEALTH_PORT="9090"
//	PULSE_READ_TIMEOUT="15s"
//	PULSE_WRITE_TIMEOUT="15s"
//	PULSE_IDLE_TIMEOUT="60s"
//	PULSE_SHUTDOWN_TIMEOUT="30s"
//	PULSE_MAX_BODY_BYTES="1048576"
//	PULSE_CORS_ORIGINS="https://dash.example.com,https://ops.example.com"
//
// Engine settings:
//
//	PULSE_GROWTH_WINDOW_DAYS="30"       # default window for revenue growth queries
//	PULSE_ENGAGEMENT_WINDOW_DAYS="7"    # default window for engagement queries
//	PULSE_INACTIVITY_DAYS="30"          # default cutoff for inactive-user queries
//	PULSE_TOP_EVENTS_LIMIT_CAP="100"    # upper bound on the ?limit= query parameter
//	PULSE_QUERY_CACHE_TTL="0s"          # TTL for cached GET responses; 0 disables
//
// Redis settings (optional, used for health checks):
//
//	PULSE_REDIS_ADDR="localhost:6379"
//	PULSE_REDIS_PASSWORD=""
//	PULSE_REDIS_DB="0"
//
// Observability settings:
//
//	PULSE_LOG_LEVEL="info"  # debug, info, warn, error
//	PULSE_METRICS_ENABLED="true"
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Server: %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//	fmt.Printf("Inactivity cutoff: %d days\n", cfg.Engine.InactivityDays)
//	fmt.Printf("Log level: %s\n", cfg.Observability.LogLevel)
//
// # Related Packages
//
//   - pkg/api: Uses server and engine configuration
//   - pkg/observability: Uses observability configuration
package config
