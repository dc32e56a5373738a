package api

import (
	"net/http"

	"github.com/platinummonkey/pulse/pkg/analytics"
	"github.com/platinummonkey/pulse/pkg/httputil"
)

// recordSale handles POST /api/v1/sales
func (s *Server) recordSale(w http.ResponseWriter, r *http.Request) {
	var req RecordSaleRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	s.mu.Lock()
	recorded := s.engine.RecordSale(req.Amount, req.OrderID, req.UserID)
	s.mu.Unlock()

	if !recorded {
		s.rejectIngest(w, "sale", req.rejectReason())
		return
	}
	s.acceptIngest(w, "sale")
}

// registerUser handles POST /api/v1/users
func (s *Server) registerUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	s.mu.Lock()
	recorded := s.engine.RegisterUser(req.UserID, active)
	s.mu.Unlock()

	if !recorded {
		s.rejectIngest(w, "user", req.rejectReason())
		return
	}
	s.acceptIngest(w, "user")
}

// trackEvent handles POST /api/v1/events
func (s *Server) trackEvent(w http.ResponseWriter, r *http.Request) {
	var req TrackEventRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	s.mu.Lock()
	recorded := s.engine.TrackEvent(analytics.EventRecord{
		UserID:    req.UserID,
		EventType: req.EventType,
	})
	s.mu.Unlock()

	if !recorded {
		s.rejectIngest(w, "event", req.rejectReason())
		return
	}
	s.acceptIngest(w, "event")
}

// acceptIngest finishes a successful ingest: cache invalidation,
// metrics, and the 201 response.
func (s *Server) acceptIngest(w http.ResponseWriter, recordType string) {
	if s.cache != nil {
		s.cache.purge()
	}
	if s.metrics != nil {
		s.metrics.IngestRecordsTotal.WithLabelValues(recordType, "accepted").Inc()

		s.mu.Lock()
		sales, users, events := s.engine.Counts()
		s.mu.Unlock()
		s.metrics.SetRecordCounts(sales, users, events)
	}
	httputil.WriteCreated(w, IngestResponse{Recorded: true})
}

// rejectIngest finishes a rejected ingest with a 400 carrying the
// reason.
func (s *Server) rejectIngest(w http.ResponseWriter, recordType, reason string) {
	if s.metrics != nil {
		s.metrics.IngestRecordsTotal.WithLabelValues(recordType, "rejected").Inc()
	}
	httputil.WriteJSON(w, http.StatusBadRequest, IngestResponse{Recorded: false, Reason: reason})
}
