package api

import (
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/pulse/pkg/analytics"
	"github.com/platinummonkey/pulse/pkg/config"
	"github.com/platinummonkey/pulse/pkg/httputil"
	"github.com/platinummonkey/pulse/pkg/observability"
	"github.com/platinummonkey/pulse/pkg/report"
)

// defaultTopEventsCap bounds the ?limit= parameter when no cap is
// configured.
const defaultTopEventsCap = 100

// Options carries the server's collaborators and query defaults.
type Options struct {
	// Alerter backs GET /api/v1/alerts and the report's alerts
	// section. Nil leaves both empty.
	Alerter *analytics.Alerter

	// Logger receives request logs. Nil falls back to a stdout logger.
	Logger *observability.Logger

	// Metrics instruments requests, ingests, queries, and the cache.
	// Nil disables instrumentation.
	Metrics *observability.Metrics

	// Defaults supplies per-query window defaults and caps. Zero
	// fields inherit the engine defaults; a zero QueryCacheTTL
	// disables response caching.
	Defaults config.EngineConfig

	// CORSOrigins enables CORS for the given origins when non-empty.
	CORSOrigins []string

	// MaxBodyBytes caps request bodies when positive.
	MaxBodyBytes int64
}

// Server represents our API server. It owns the only reference to the
// engine and serializes all access to it.
type Server struct {
	engine  *analytics.Engine
	alerter *analytics.Alerter
	builder *report.Builder
	router  *mux.Router
	handler http.Handler
	logger  *observability.Logger
	metrics *observability.Metrics
	cache   *queryCache
	opts    Options

	// mu serializes engine access; the engine itself is not safe for
	// concurrent use.
	mu sync.Mutex
}

// NewServer creates a new API server over the given engine.
func NewServer(engine *analytics.Engine, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	if opts.Defaults.GrowthWindowDays <= 0 {
		opts.Defaults.GrowthWindowDays = analytics.DefaultGrowthWindowDays
	}
	if opts.Defaults.EngagementWindowDays <= 0 {
		opts.Defaults.EngagementWindowDays = analytics.DefaultEngagementWindowDays
	}
	if opts.Defaults.InactivityDays <= 0 {
		opts.Defaults.InactivityDays = analytics.DefaultInactivityDays
	}
	if opts.Defaults.TopEventsLimitCap <= 0 {
		opts.Defaults.TopEventsLimitCap = defaultTopEventsCap
	}

	s := &Server{
		engine:  engine,
		alerter: opts.Alerter,
		router:  mux.NewRouter(),
		logger:  opts.Logger,
		metrics: opts.Metrics,
		opts:    opts,
	}

	if opts.Defaults.QueryCacheTTL > 0 {
		s.cache = newQueryCache(queryCacheSize, opts.Defaults.QueryCacheTTL)
	}

	// The report endpoint reuses the same windows as the individual
	// query endpoints.
	s.builder = report.NewBuilder(engine, opts.Alerter, report.BuilderOptions{
		GrowthWindowDays:     opts.Defaults.GrowthWindowDays,
		EngagementWindowDays: opts.Defaults.EngagementWindowDays,
		InactivityDays:       opts.Defaults.InactivityDays,
	})

	s.setupRoutes()
	s.handler = s.buildHandler()
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	// Ingest routes
	s.router.HandleFunc("/api/v1/sales", s.recordSale).Methods("POST")
	s.router.HandleFunc("/api/v1/users", s.registerUser).Methods("POST")
	s.router.HandleFunc("/api/v1/events", s.trackEvent).Methods("POST")

	// Metrics routes
	s.router.HandleFunc("/api/v1/metrics/sales", s.getSalesMetrics).Methods("GET")
	s.router.HandleFunc("/api/v1/metrics/users", s.getUserMetrics).Methods("GET")
	s.router.HandleFunc("/api/v1/metrics/revenue-growth", s.getRevenueGrowth).Methods("GET")
	s.router.HandleFunc("/api/v1/metrics/engagement", s.getEngagement).Methods("GET")

	// Event routes
	s.router.HandleFunc("/api/v1/events/top", s.getTopEvents).Methods("GET")

	// User activity routes
	s.router.HandleFunc("/api/v1/users/inactive", s.getInactiveUsers).Methods("GET")
	s.router.HandleFunc("/api/v1/users/{user_id}/activity", s.getUserActivity).Methods("GET")

	// Report and alert routes
	s.router.HandleFunc("/api/v1/report", s.getReport).Methods("GET")
	s.router.HandleFunc("/api/v1/alerts", s.getAlerts).Methods("GET")

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteNotFoundError(w, "not found")
	})
}

// buildHandler wraps the router in the middleware chain, outermost
// first: request IDs, logging, recovery, then the request-shaping and
// instrumentation layers.
func (s *Server) buildHandler() http.Handler {
	middlewares := []func(http.Handler) http.Handler{
		s.requestContextMiddleware,
		s.loggingMiddleware,
		httputil.RecoveryMiddleware,
	}
	if len(s.opts.CORSOrigins) > 0 {
		middlewares = append(middlewares, httputil.CORSMiddleware(s.opts.CORSOrigins))
	}
	middlewares = append(middlewares, httputil.ContentTypeMiddleware)
	if s.opts.MaxBodyBytes > 0 {
		middlewares = append(middlewares, httputil.MaxBytesMiddleware(s.opts.MaxBodyBytes))
	}
	if s.metrics != nil {
		middlewares = append(middlewares, observability.HTTPMetricsMiddleware(s.metrics))
	}
	return httputil.Chain(middlewares...)(s.router)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
