package api

// RecordSaleRequest is the body of POST /api/v1/sales.
type RecordSaleRequest struct {
	Amount  float64 `json:"amount"`
	OrderID string  `json:"order_id"`
	UserID  string  `json:"user_id"`
}

// rejectReason explains why the engine refused the record. Only
// meaningful after a rejected ingest; the checks mirror the engine's.
func (r RecordSaleRequest) rejectReason() string {
	switch {
	case r.Amount <= 0:
		return "amount must be positive"
	case r.OrderID == "":
		return "order_id is required"
	case r.UserID == "":
		return "user_id is required"
	}
	return "invalid record"
}

// RegisterUserRequest is the body of POST /api/v1/users. Active
// defaults to true when omitted.
type RegisterUserRequest struct {
	UserID string `json:"user_id"`
	Active *bool  `json:"active"`
}

func (r RegisterUserRequest) rejectReason() string {
	if r.UserID == "" {
		return "user_id is required"
	}
	return "invalid record"
}

// TrackEventRequest is the body of POST /api/v1/events. The server
// stamps the event with its own clock; clients cannot backdate events.
type TrackEventRequest struct {
	UserID    string `json:"user_id"`
	EventType string `json:"event_type"`
}

func (r TrackEventRequest) rejectReason() string {
	switch {
	case r.UserID == "":
		return "user_id is required"
	case r.EventType == "":
		return "event_type is required"
	}
	return "invalid record"
}

// IngestResponse is the body of every ingest reply. Reason is set only
// on rejections.
type IngestResponse struct {
	Recorded bool   `json:"recorded"`
	Reason   string `json:"reason,omitempty"`
}

// GrowthResponse is the body of GET /api/v1/metrics/revenue-growth.
// Days echoes the window actually used.
type GrowthResponse struct {
	Days       int     `json:"days"`
	GrowthRate float64 `json:"growth_rate"`
}

// InactiveUsersResponse is the body of GET /api/v1/users/inactive.
type InactiveUsersResponse struct {
	Days    int      `json:"days"`
	UserIDs []string `json:"user_ids"`
}

// Engagement modes accepted by the ?by= query parameter.
const (
	EngagementModeUsers      = "users"
	EngagementModeEventTypes = "event_types"
)

// EngagementResponse is the body of GET /api/v1/metrics/engagement.
type EngagementResponse struct {
	WindowDays     int     `json:"window_days"`
	EngagementRate float64 `json:"engagement_rate"`
	Mode           string  `json:"mode"`
}
