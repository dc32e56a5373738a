package analytics

import "time"

// SaleRecord is a single captured sale. Records are immutable once
// appended; the engine never updates or deletes them.
type SaleRecord struct {
	Amount    float64   `json:"amount"`
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// UserRecord is a single registration. User IDs are not unique across
// records: registering the same ID twice appends two records.
type UserRecord struct {
	UserID       string    `json:"user_id"`
	Active       bool      `json:"active"`
	RegisteredAt time.Time `json:"registered_at"`
}

// EventRecord is a single behavioral event (page view, click, search, ...).
type EventRecord struct {
	UserID    string    `json:"user_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// SalesMetrics contains whole-log sales KPIs. The period label is
// attached verbatim for presentation; totals always cover the entire log.
type SalesMetrics struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalOrders       int     `json:"total_orders"`
	AverageOrderValue float64 `json:"average_order_value"`
	Period            string  `json:"period"`
}

// UserMetrics contains registration and retention KPIs.
type UserMetrics struct {
	TotalUsers    int     `json:"total_users"`
	ActiveUsers   int     `json:"active_users"`
	NewUsers      int     `json:"new_users"`
	RetentionRate float64 `json:"retention_rate"`
}

// EventCount is one entry of the event-type ranking.
type EventCount struct {
	EventType string `json:"event_type"`
	Count     int    `json:"count"`
}

// ActivityStats describes a single user's recorded behavior and the
// activity level derived from it.
type ActivityStats struct {
	UserID          string  `json:"user_id"`
	TotalEvents     int     `json:"total_events"`
	TotalPurchases  int     `json:"total_purchases"`
	TotalSpent      float64 `json:"total_spent"`
	AveragePurchase float64 `json:"average_purchase"`
	ActivityLevel   string  `json:"activity_level"`
}

// Activity levels, from least to most engaged.
const (
	ActivityInactive     = "inactive"
	ActivityLow          = "low"
	ActivityModerate     = "moderate"
	ActivityActive       = "active"
	ActivityHighlyActive = "highly_active"
)
