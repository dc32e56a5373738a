package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/pulse/pkg/analytics"
	"github.com/platinummonkey/pulse/pkg/config"
	"github.com/platinummonkey/pulse/pkg/observability"
)

// testClock is a controllable time source for handler tests.
type testClock struct {
	current time.Time
}

func (c *testClock) Now() time.Time {
	return c.current
}

// newTestServer builds a server over a seeded engine with a fixed
// clock. Request logs are discarded unless the caller supplies a
// logger.
func newTestServer(t *testing.T, opts Options) (*Server, *testClock) {
	t.Helper()

	if opts.Logger == nil {
		opts.Logger = observability.NewLogger(observability.ErrorLevel, &bytes.Buffer{})
	}

	clock := &testClock{current: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	engine := analytics.NewWithClock(clock.Now)
	seedEngine(engine, clock)

	return NewServer(engine, opts), clock
}

// seedEngine loads a small fixed dataset: three users (one inactive,
// one recent), three sales, and four events, all backdated through the
// clock.
func seedEngine(engine *analytics.Engine, clock *testClock) {
	now := clock.current

	clock.current = now.AddDate(0, 0, -60)
	engine.RegisterUser("user-1", true)
	engine.RegisterUser("user-3", false)
	clock.current = now.AddDate(0, 0, -3)
	engine.RegisterUser("user-2", true)

	clock.current = now.AddDate(0, 0, -40)
	engine.RecordSale(100, "order-1", "user-1")
	clock.current = now.AddDate(0, 0, -2)
	engine.RecordSale(50, "order-2", "user-1")
	engine.TrackEvent(analytics.EventRecord{UserID: "user-1", EventType: "page_view"})
	engine.TrackEvent(analytics.EventRecord{UserID: "user-1", EventType: "click"})
	clock.current = now.AddDate(0, 0, -1)
	engine.RecordSale(25.50, "order-3", "user-2")
	engine.TrackEvent(analytics.EventRecord{UserID: "user-2", EventType: "page_view"})
	engine.TrackEvent(analytics.EventRecord{UserID: "user-2", EventType: "page_view"})

	clock.current = now
}

// TestNewServer verifies server initialization
func TestNewServer(t *testing.T) {
	server, _ := newTestServer(t, Options{})

	require.NotNil(t, server)
	assert.NotNil(t, server.engine)
	assert.NotNil(t, server.router)
	assert.NotNil(t, server.handler)
	assert.NotNil(t, server.builder)
	assert.Nil(t, server.cache, "cache should be disabled without a TTL")
	assert.Nil(t, server.metrics)

	// Zero defaults inherit the engine defaults
	assert.Equal(t, analytics.DefaultGrowthWindowDays, server.opts.Defaults.GrowthWindowDays)
	assert.Equal(t, analytics.DefaultEngagementWindowDays, server.opts.Defaults.EngagementWindowDays)
	assert.Equal(t, analytics.DefaultInactivityDays, server.opts.Defaults.InactivityDays)
	assert.Equal(t, defaultTopEventsCap, server.opts.Defaults.TopEventsLimitCap)
}

func TestNewServer_CacheEnabled(t *testing.T) {
	server, _ := newTestServer(t, Options{
		Defaults: config.EngineConfig{QueryCacheTTL: time.Minute},
	})

	assert.NotNil(t, server.cache)
}

// TestServer_Routes verifies all routes are registered
func TestServer_Routes(t *testing.T) {
	server, _ := newTestServer(t, Options{})

	tests := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/sales"},
		{"POST", "/api/v1/users"},
		{"POST", "/api/v1/events"},
		{"GET", "/api/v1/metrics/sales"},
		{"GET", "/api/v1/metrics/users"},
		{"GET", "/api/v1/metrics/revenue-growth"},
		{"GET", "/api/v1/metrics/engagement"},
		{"GET", "/api/v1/events/top"},
		{"GET", "/api/v1/users/inactive"},
		{"GET", "/api/v1/users/user-1/activity"},
		{"GET", "/api/v1/report"},
		{"GET", "/api/v1/alerts"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			var match mux.RouteMatch
			matched := server.router.Match(req, &match)
			assert.True(t, matched, "Route %s %s should be registered", tt.method, tt.path)
		})
	}
}

// TestServer_MethodNotAllowed tests that wrong methods are rejected
func TestServer_MethodNotAllowed(t *testing.T) {
	server, _ := newTestServer(t, Options{})

	tests := []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/sales"},
		{"DELETE", "/api/v1/users"},
		{"POST", "/api/v1/metrics/sales"},
		{"PUT", "/api/v1/events/top"},
		{"POST", "/api/v1/report"},
		{"PATCH", "/api/v1/alerts"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			server.ServeHTTP(w, req)

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		})
	}
}

func TestServer_NotFound(t *testing.T) {
	server, _ := newTestServer(t, Options{})

	req := httptest.NewRequest("GET", "/api/v1/nope", nil)
	w := httptest.NewRecorder()

	server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "not found", response["error"])
}

func TestServer_RequestIDGenerated(t *testing.T) {
	server, _ := newTestServer(t, Options{})

	req := httptest.NewRequest("GET", "/api/v1/metrics/users", nil)
	w := httptest.NewRecorder()

	server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestServer_RequestIDEchoed(t *testing.T) {
	server, _ := newTestServer(t, Options{})

	req := httptest.NewRequest("GET", "/api/v1/metrics/users", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()

	server.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}

func TestServer_RequestLogging(t *testing.T) {
	var buf bytes.Buffer
	server, _ := newTestServer(t, Options{
		Logger: observability.NewLogger(observability.InfoLevel, &buf),
	})

	req := httptest.NewRequest("GET", "/api/v1/metrics/users", nil)
	req.Header.Set("X-Request-ID", "req-log-1")
	w := httptest.NewRecorder()

	server.ServeHTTP(w, req)

	logged := buf.String()
	assert.Contains(t, logged, "Request handled")
	assert.Contains(t, logged, "/api/v1/metrics/users")
	assert.Contains(t, logged, "req-log-1")
	assert.Contains(t, logged, `"status":200`)
}

func TestServer_ContentTypeEnforced(t *testing.T) {
	server, _ := newTestServer(t, Options{})

	body := `{"amount": 10, "order_id": "o-1", "user_id": "user-1"}`
	req := httptest.NewRequest("POST", "/api/v1/sales", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()

	server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Content-Type must be application/json")
}

func TestServer_MaxBodyBytes(t *testing.T) {
	server, _ := newTestServer(t, Options{MaxBodyBytes: 32})

	body := `{"amount": 10, "order_id": "order-1", "user_id": "user-1", "padding": "xxxxxxxxxxxxxxxx"}`
	req := httptest.NewRequest("POST", "/api/v1/sales", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_CORSHeaders(t *testing.T) {
	server, _ := newTestServer(t, Options{
		CORSOrigins: []string{"https://dash.example.com"},
	})

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/metrics/users", nil)
		req.Header.Set("Origin", "https://dash.example.com")
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, "https://dash.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/metrics/users", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/v1/sales", nil)
		req.Header.Set("Origin", "https://dash.example.com")
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	})
}

func TestServer_CacheHit(t *testing.T) {
	server, _ := newTestServer(t, Options{
		Defaults: config.EngineConfig{QueryCacheTTL: time.Minute},
	})

	first := httptest.NewRecorder()
	server.ServeHTTP(first, httptest.NewRequest("GET", "/api/v1/metrics/sales", nil))
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := httptest.NewRecorder()
	server.ServeHTTP(second, httptest.NewRequest("GET", "/api/v1/metrics/sales", nil))
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestServer_CacheKeyedByQueryParams(t *testing.T) {
	server, _ := newTestServer(t, Options{
		Defaults: config.EngineConfig{QueryCacheTTL: time.Minute},
	})

	first := httptest.NewRecorder()
	server.ServeHTTP(first, httptest.NewRequest("GET", "/api/v1/metrics/sales?period=daily", nil))
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	// A different period is a different cache entry
	second := httptest.NewRecorder()
	server.ServeHTTP(second, httptest.NewRequest("GET", "/api/v1/metrics/sales?period=weekly", nil))
	assert.Equal(t, "MISS", second.Header().Get("X-Cache"))
}

func TestServer_CachePurgedOnIngest(t *testing.T) {
	server, _ := newTestServer(t, Options{
		Defaults: config.EngineConfig{QueryCacheTTL: time.Minute},
	})

	first := httptest.NewRecorder()
	server.ServeHTTP(first, httptest.NewRequest("GET", "/api/v1/metrics/sales", nil))
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	var before analytics.SalesMetrics
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &before))
	assert.Equal(t, 175.50, before.TotalRevenue)

	body := `{"amount": 10, "order_id": "order-4", "user_id": "user-2"}`
	ingest := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/sales", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	server.ServeHTTP(ingest, req)
	require.Equal(t, http.StatusCreated, ingest.Code)

	second := httptest.NewRecorder()
	server.ServeHTTP(second, httptest.NewRequest("GET", "/api/v1/metrics/sales", nil))
	assert.Equal(t, "MISS", second.Header().Get("X-Cache"), "ingest should purge the cache")

	var after analytics.SalesMetrics
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &after))
	assert.Equal(t, 185.50, after.TotalRevenue)
	assert.Equal(t, 4, after.TotalOrders)
}

// Benchmark tests for performance

func BenchmarkGetSalesMetrics(b *testing.B) {
	clock := &testClock{current: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	engine := analytics.NewWithClock(clock.Now)
	seedEngine(engine, clock)
	server := NewServer(engine, Options{
		Logger: observability.NewLogger(observability.ErrorLevel, &bytes.Buffer{}),
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest("GET", "/api/v1/metrics/sales", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
	}
}

func BenchmarkGetSalesMetrics_Cached(b *testing.B) {
	clock := &testClock{current: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	engine := analytics.NewWithClock(clock.Now)
	seedEngine(engine, clock)
	server := NewServer(engine, Options{
		Logger:   observability.NewLogger(observability.ErrorLevel, &bytes.Buffer{}),
		Defaults: config.EngineConfig{QueryCacheTTL: time.Minute},
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest("GET", "/api/v1/metrics/sales", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
	}
}

func BenchmarkRecordSale(b *testing.B) {
	engine := analytics.New()
	server := NewServer(engine, Options{
		Logger: observability.NewLogger(observability.ErrorLevel, &bytes.Buffer{}),
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		body := `{"amount": 10, "order_id": "order-1", "user_id": "user-1"}`
		req := httptest.NewRequest("POST", "/api/v1/sales", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
	}
}
