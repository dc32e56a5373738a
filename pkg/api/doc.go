// Package api provides the HTTP REST API server for the Pulse analytics engine.
//
// # Overview
//
// This package implements the HTTP layer over pkg/analytics: ingest endpoints
// that append sales, registrations, and behavioral events to the engine's
// logs, and query endpoints that expose every derived metric. It also serves
// the aggregated report consumed by the reporter and the on-demand alert
// evaluation.
//
// # Architecture
//
// The API is built on gorilla/mux. A single Server owns the engine and a
// mutex serializing access to it; handlers are methods on the Server grouped
// by concern:
//
//   - Ingest: append sale, user, and event records
//   - Queries: sales/user metrics, revenue growth, engagement, top events,
//     per-user activity, inactive users
//   - Report: one aggregated snapshot of every query
//   - Alerts: threshold checks evaluated against the current engine state
//
// Every request passes through the middleware chain: request ID assignment
// (client X-Request-ID or a fresh UUID), structured request logging, panic
// recovery, optional CORS, JSON content-type enforcement, a request body
// cap, and Prometheus instrumentation.
//
// # API Endpoints
//
// Ingest:
//
//	POST   /api/v1/sales                      - Record a sale {amount, order_id, user_id}
//	POST   /api/v1/users                      - Register a user {user_id, active}
//	POST   /api/v1/events                     - Track an event {user_id, event_type}
//
// Successful ingests return 201 {"recorded": true}; invalid records return
// 400 {"recorded": false, "reason": "..."} without mutating the logs.
//
// Queries:
//
//	GET    /api/v1/metrics/sales?period=      - Revenue, orders, average order value
//	GET    /api/v1/metrics/users              - Totals, active, new users, retention
//	GET    /api/v1/metrics/revenue-growth?days= - Adjacent-window growth percentage
//	GET    /api/v1/metrics/engagement?window_days=&by= - Engagement rate (users or event_types)
//	GET    /api/v1/events/top?limit=          - Event-type ranking
//	GET    /api/v1/users/{user_id}/activity   - Per-user counts and activity level
//	GET    /api/v1/users/inactive?days=       - Users with no recent activity
//
// Aggregates:
//
//	GET    /api/v1/report                     - Full report snapshot
//	GET    /api/v1/alerts                     - Currently firing alerts
//
// # Response Caching
//
// When a cache TTL is configured, encoded GET responses are memoized in an
// expirable LRU keyed by request URI. Every successful ingest purges the
// cache, so cached responses never survive a log mutation. The X-Cache
// header reports HIT or MISS.
//
// # Concurrency
//
// The engine is not safe for concurrent use; the Server's mutex is the only
// synchronization around it. Handlers hold the lock only while reading or
// appending, never while encoding or writing the response.
//
// # Usage Example
//
//	engine := analytics.New()
//	alerter := analytics.NewAlerter(engine, analytics.DefaultAlertThresholds())
//
//	server := api.NewServer(engine, api.Options{
//		Alerter: alerter,
//		Logger:  observability.NewLogger(observability.InfoLevel, nil),
//	})
//	log.Fatal(http.ListenAndServe(":8080", server))
//
// # Related Packages
//
//   - pkg/analytics: the in-memory engine and alerter
//   - pkg/report: report assembly, export, and the reporter client
//   - pkg/httputil: request parsing and response helpers
//   - pkg/observability: logging, metrics, health, and shutdown
package api
