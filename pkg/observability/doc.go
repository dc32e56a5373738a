// Package observability provides structured logging, Prometheus metrics, health
// checks, and graceful shutdown.
//
// # Overview
//
// This package centralizes observability infrastructure including JSON logging,
// metrics collection, health probes, and coordinated server shutdown.
//
// # Structured Logging
//
// Create logger:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.Info("Server started")
//
// Context-aware logging:
//
//	logger.WithField("request_id", reqID).Error("Request failed")
//
// # Prometheus Metrics
//
// Initialize metrics:
//
//	metrics := observability.NewMetrics(registry)
//	metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/report", "200").Inc()
//	metrics.IngestRecordsTotal.WithLabelValues("sale", "accepted").Inc()
//
// Engine gauges:
//
//	metrics.SetRecordCounts(sales, users, events)
//
// # Health Checks
//
// Configure health checker:
//
//	checker := observability.NewHealthChecker(engine, redisClient, version)
//	status := checker.Check(ctx)
//
// # Graceful Shutdown
//
// Coordinate shutdown of all servers:
//
//	sm := observability.NewShutdownManager(logger, 30*time.Second)
//	sm.RegisterServer("api", apiServer)
//	sm.RegisterServer("health", healthServer)
//	sm.RegisterShutdownFunc(func(ctx context.Context) error {
//		return redisClient.Close()
//	})
//	err := sm.WaitForShutdown(ctx)
//
// # Related Packages
//
//   - pkg/config: Observability configuration
//   - pkg/api: Request logging and metrics middleware wiring
package observability
