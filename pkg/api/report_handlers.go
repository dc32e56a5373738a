package api

import (
	"net/http"
	"time"

	"github.com/platinummonkey/pulse/pkg/analytics"
	"github.com/platinummonkey/pulse/pkg/httputil"
)

// getReport handles GET /api/v1/report
// The report aggregates every query endpoint into one snapshot; the
// reporter polls this route.
func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	s.serveCached(w, r, "report", func() interface{} {
		return s.builder.Build()
	})
}

// getAlerts handles GET /api/v1/alerts
// Alerts are evaluated on demand against the current engine state and
// never cached.
func (s *Server) getAlerts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	alerts := make([]analytics.Alert, 0)
	if s.alerter != nil {
		s.mu.Lock()
		alerts = s.alerter.CheckAllAlerts()
		s.mu.Unlock()
	}

	if s.metrics != nil {
		for _, alert := range alerts {
			s.metrics.AlertsFiredTotal.WithLabelValues(alert.Type, alert.Severity).Inc()
		}
		s.metrics.ObserveQuery("alerts", start)
	}

	httputil.WriteSuccess(w, alerts)
}
