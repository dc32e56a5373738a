package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/platinummonkey/pulse/pkg/analytics"
	"github.com/platinummonkey/pulse/pkg/api"
	"github.com/platinummonkey/pulse/pkg/config"
	"github.com/platinummonkey/pulse/pkg/observability"
)

// version is stamped at build time via -ldflags.
var version = "dev"

var (
	host = flag.String("host", "", "Bind address (overrides PULSE_HOST)")
	port = flag.String("port", "", "API port (overrides PULSE_PORT)")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	engine := analytics.New()
	alerter := analytics.NewAlerter(engine, alertThresholds(cfg))

	var (
		registry *prometheus.Registry
		metrics  *observability.Metrics
	)
	if cfg.Observability.MetricsEnabled {
		registry = prometheus.NewRegistry()
		metrics = observability.NewMetrics(registry)
	}

	// Redis only backs health checks here; the reporter owns snapshot
	// publishing.
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	server := api.NewServer(engine, api.Options{
		Alerter:      alerter,
		Logger:       logger,
		Metrics:      metrics,
		Defaults:     cfg.Engine,
		CORSOrigins:  cfg.Server.CORSOrigins,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	})

	apiSrv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Health and metrics live on their own port so probes and scrapes
	// stay off the API listener.
	healthMux := http.NewServeMux()
	checker := observability.NewHealthChecker(engine, redisClient, version)
	observability.RegisterHealthRoutes(healthMux, checker)
	if registry != nil {
		observability.RegisterMetricsEndpoint(healthMux, registry)
	}
	healthSrv := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.HealthPort),
		Handler: healthMux,
	}

	shutdown := observability.NewShutdownManager(logger, cfg.Server.ShutdownTimeout)
	shutdown.RegisterServer("api", apiSrv)
	shutdown.RegisterServer("health", healthSrv)
	if redisClient != nil {
		shutdown.RegisterShutdownFunc(func(context.Context) error {
			return redisClient.Close()
		})
	}

	eg, ctx := errgroup.WithContext(context.Background())
	eg.Go(func() error {
		logger.Infof("Starting pulse analytics server %s on %s", version, apiSrv.Addr)
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		logger.Infof("Health and metrics endpoints on %s", healthSrv.Addr)
		if err := healthSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		// A failed listener cancels the group context, which also
		// triggers the graceful shutdown path.
		return shutdown.WaitForShutdown(ctx)
	})

	if err := eg.Wait(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}

// alertThresholds derives alerter thresholds from the configured query
// defaults, so alerts and queries agree on window sizes.
func alertThresholds(cfg *config.Config) analytics.AlertThresholds {
	thresholds := analytics.DefaultAlertThresholds()
	thresholds.GrowthWindowDays = cfg.Engine.GrowthWindowDays
	thresholds.EngagementWindowDays = cfg.Engine.EngagementWindowDays
	thresholds.InactivityDays = cfg.Engine.InactivityDays
	return thresholds
}
