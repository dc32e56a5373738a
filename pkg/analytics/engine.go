package analytics

import (
	"time"
)

// Default trailing windows, in days.
const (
	DefaultGrowthWindowDays     = 30
	DefaultEngagementWindowDays = 7
	DefaultInactivityDays       = 30

	// newUserWindowDays is the trailing window for the new-users KPI.
	newUserWindowDays = 7
)

// Engine owns the three in-memory logs (sales, users, events) and derives
// aggregate metrics from them on demand. The logs are append-only for the
// lifetime of the engine and are never exposed by reference.
//
// An Engine is not safe for concurrent use; callers that share one across
// goroutines must serialize access themselves.
type Engine struct {
	sales  []SaleRecord
	users  []UserRecord
	events []EventRecord

	now func() time.Time
}

// New creates an engine stamping records with the wall clock.
func New() *Engine {
	return NewWithClock(time.Now)
}

// NewWithClock creates an engine with an injected time source. Every
// record stamp and every trailing-window computation goes through it.
func NewWithClock(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// RecordSale appends a sale stamped with the current time. It returns
// false without mutating the log when amount is not positive or either
// identifier is empty.
func (e *Engine) RecordSale(amount float64, orderID, userID string) bool {
	if amount <= 0 || orderID == "" || userID == "" {
		return false
	}
	e.sales = append(e.sales, SaleRecord{
		Amount:    amount,
		OrderID:   orderID,
		UserID:    userID,
		Timestamp: e.now(),
	})
	return true
}

// GetSalesMetrics computes revenue KPIs over the whole sales log. The
// period label ("daily" when empty) is descriptive only, never a filter.
func (e *Engine) GetSalesMetrics(period string) SalesMetrics {
	if period == "" {
		period = "daily"
	}

	metrics := SalesMetrics{
		TotalOrders: len(e.sales),
		Period:      period,
	}
	for _, sale := range e.sales {
		metrics.TotalRevenue += sale.Amount
	}
	if metrics.TotalOrders > 0 {
		metrics.AverageOrderValue = metrics.TotalRevenue / float64(metrics.TotalOrders)
	}

	return metrics
}

// RegisterUser appends a registration stamped with the current time.
// It returns false when userID is empty. Duplicate IDs are permitted;
// each call appends an independent record.
func (e *Engine) RegisterUser(userID string, active bool) bool {
	if userID == "" {
		return false
	}
	e.users = append(e.users, UserRecord{
		UserID:       userID,
		Active:       active,
		RegisteredAt: e.now(),
	})
	return true
}

// GetUserMetrics computes registration KPIs. New users are those
// registered within the trailing 7-day window, cutoff inclusive.
func (e *Engine) GetUserMetrics() UserMetrics {
	metrics := UserMetrics{TotalUsers: len(e.users)}
	cutoff := e.now().AddDate(0, 0, -newUserWindowDays)

	for _, user := range e.users {
		if user.Active {
			metrics.ActiveUsers++
		}
		if !user.RegisteredAt.Before(cutoff) {
			metrics.NewUsers++
		}
	}
	if metrics.TotalUsers > 0 {
		metrics.RetentionRate = float64(metrics.ActiveUsers) / float64(metrics.TotalUsers) * 100
	}

	return metrics
}

// CalculateRevenueGrowth compares revenue between two adjacent trailing
// windows of the given length and returns the growth percentage. Both
// windows are half-open: (currentStart, now] and (previousStart,
// currentStart], so a sale stamped exactly at currentStart counts toward
// the previous window. Non-positive days falls back to the default.
func (e *Engine) CalculateRevenueGrowth(days int) float64 {
	if days <= 0 {
		days = DefaultGrowthWindowDays
	}

	now := e.now()
	currentStart := now.AddDate(0, 0, -days)
	previousStart := currentStart.AddDate(0, 0, -days)

	var current, previous float64
	for _, sale := range e.sales {
		switch {
		case sale.Timestamp.After(currentStart) && !sale.Timestamp.After(now):
			current += sale.Amount
		case sale.Timestamp.After(previousStart) && !sale.Timestamp.After(currentStart):
			previous += sale.Amount
		}
	}

	return growthRate(current, previous)
}

// growthRate returns the percentage change from previous to current.
// A zero previous period is a defined special case, not a division:
// 0 when the current period is also empty, 100 when revenue appeared
// from nothing.
func growthRate(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - previous) / previous * 100
}

// Counts reports the size of each log.
func (e *Engine) Counts() (sales, users, events int) {
	return len(e.sales), len(e.users), len(e.events)
}
