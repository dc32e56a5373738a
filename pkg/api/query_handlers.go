package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/platinummonkey/pulse/pkg/httputil"
)

// serveCached serves a query from the response cache when a fresh copy
// exists, otherwise computes the payload under the engine lock, caches
// the encoded body, and writes it. The X-Cache header reports the
// outcome when caching is enabled.
func (s *Server) serveCached(w http.ResponseWriter, r *http.Request, query string, compute func() interface{}) {
	start := time.Now()

	if s.cache != nil {
		if body, ok := s.cache.get(r.URL.RequestURI()); ok {
			s.countCache(true)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.Write(body)
			return
		}
		s.countCache(false)
	}

	s.mu.Lock()
	payload := compute()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.ObserveQuery(query, start)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	if s.cache != nil {
		s.cache.set(r.URL.RequestURI(), body)
		w.Header().Set("X-Cache", "MISS")
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// countCache tracks cache hits and misses.
func (s *Server) countCache(hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.CacheHitsTotal.WithLabelValues("query").Inc()
	} else {
		s.metrics.CacheMissesTotal.WithLabelValues("query").Inc()
	}
}

// getSalesMetrics handles GET /api/v1/metrics/sales
// Query params: period (label attached to the response, default daily)
func (s *Server) getSalesMetrics(w http.ResponseWriter, r *http.Request) {
	period := httputil.ParseQueryString(r, "period", "")

	s.serveCached(w, r, "sales_metrics", func() interface{} {
		return s.engine.GetSalesMetrics(period)
	})
}

// getUserMetrics handles GET /api/v1/metrics/users
func (s *Server) getUserMetrics(w http.ResponseWriter, r *http.Request) {
	s.serveCached(w, r, "user_metrics", func() interface{} {
		return s.engine.GetUserMetrics()
	})
}

// getTopEvents handles GET /api/v1/events/top
// Query params: limit (optional; omitting it returns the full ranking,
// a non-positive value returns an empty list)
func (s *Server) getTopEvents(w http.ResponseWriter, r *http.Request) {
	if !r.URL.Query().Has("limit") {
		s.serveCached(w, r, "top_events", func() interface{} {
			return s.engine.GetEventCounts()
		})
		return
	}

	limit, err := httputil.ParseQueryInt(r, "limit", 0)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	if limit > s.opts.Defaults.TopEventsLimitCap {
		limit = s.opts.Defaults.TopEventsLimitCap
	}

	s.serveCached(w, r, "top_events", func() interface{} {
		return s.engine.GetTopEvents(limit)
	})
}

// getRevenueGrowth handles GET /api/v1/metrics/revenue-growth
// Query params: days (window length, default from config)
func (s *Server) getRevenueGrowth(w http.ResponseWriter, r *http.Request) {
	days, err := httputil.ParseQueryInt(r, "days", s.opts.Defaults.GrowthWindowDays)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	if days <= 0 {
		httputil.WriteBadRequest(w, "days must be positive")
		return
	}

	s.serveCached(w, r, "revenue_growth", func() interface{} {
		return GrowthResponse{Days: days, GrowthRate: s.engine.CalculateRevenueGrowth(days)}
	})
}

// getUserActivity handles GET /api/v1/users/{user_id}/activity
// Unknown users are not an error: they get zero counts and the
// "inactive" level.
func (s *Server) getUserActivity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, ok := httputil.ParsePathStringOrError(w, r, "user_id")
	if !ok {
		return
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		httputil.WriteBadRequest(w, "user_id is required")
		return
	}

	s.mu.Lock()
	stats, err := s.engine.GetUserActivityStats(userID)
	s.mu.Unlock()
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	if s.metrics != nil {
		s.metrics.ObserveQuery("user_activity", start)
	}
	httputil.WriteSuccess(w, stats)
}

// getInactiveUsers handles GET /api/v1/users/inactive
// Query params: days (window length, default from config)
func (s *Server) getInactiveUsers(w http.ResponseWriter, r *http.Request) {
	days, err := httputil.ParseQueryInt(r, "days", s.opts.Defaults.InactivityDays)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	if days <= 0 {
		httputil.WriteBadRequest(w, "days must be positive")
		return
	}

	s.serveCached(w, r, "inactive_users", func() interface{} {
		return InactiveUsersResponse{Days: days, UserIDs: s.engine.GetInactiveUsers(days)}
	})
}

// getEngagement handles GET /api/v1/metrics/engagement
// Query params: window_days (default from config), by (users or
// event_types, default users)
func (s *Server) getEngagement(w http.ResponseWriter, r *http.Request) {
	windowDays, err := httputil.ParseQueryInt(r, "window_days", s.opts.Defaults.EngagementWindowDays)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	if windowDays <= 0 {
		httputil.WriteBadRequest(w, "window_days must be positive")
		return
	}

	mode := httputil.ParseQueryString(r, "by", EngagementModeUsers)
	if mode != EngagementModeUsers && mode != EngagementModeEventTypes {
		httputil.WriteBadRequest(w, "by must be users or event_types")
		return
	}

	s.serveCached(w, r, "engagement_rate", func() interface{} {
		var rate float64
		if mode == EngagementModeEventTypes {
			rate = s.engine.CalculateEngagementRateByEventTypes(windowDays)
		} else {
			rate = s.engine.CalculateEngagementRate(windowDays)
		}
		return EngagementResponse{WindowDays: windowDays, EngagementRate: rate, Mode: mode}
	})
}
