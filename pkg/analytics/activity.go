package analytics

import (
	"errors"
	"math"
	"sort"
	"time"
)

// ErrMissingUserID is returned by per-user queries called with an empty
// user ID.
var ErrMissingUserID = errors.New("user id is required")

// purchaseScoreWeight is how many events one purchase is worth in the
// activity score.
const purchaseScoreWeight = 5

// GetUserActivityStats counts a single user's events and purchases and
// classifies their activity level. Users absent from every log get zero
// counts and the "inactive" level.
func (e *Engine) GetUserActivityStats(userID string) (*ActivityStats, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	stats := &ActivityStats{UserID: userID}
	for _, event := range e.events {
		if event.UserID == userID {
			stats.TotalEvents++
		}
	}
	for _, sale := range e.sales {
		if sale.UserID == userID {
			stats.TotalPurchases++
			stats.TotalSpent += sale.Amount
		}
	}
	if stats.TotalPurchases > 0 {
		stats.AveragePurchase = stats.TotalSpent / float64(stats.TotalPurchases)
	}
	stats.ActivityLevel = classifyActivity(stats.TotalEvents, stats.TotalPurchases)

	return stats, nil
}

// classifyActivity buckets a user by weighted score (events +
// purchases×5). The thresholds are inclusive: a score of exactly 50 is
// highly_active, exactly 20 is active, exactly 5 is moderate. A user
// with no recorded behavior at all is inactive regardless of score.
func classifyActivity(events, purchases int) string {
	if events == 0 && purchases == 0 {
		return ActivityInactive
	}

	score := events + purchases*purchaseScoreWeight
	switch {
	case score >= 50:
		return ActivityHighlyActive
	case score >= 20:
		return ActivityActive
	case score >= 5:
		return ActivityModerate
	default:
		return ActivityLow
	}
}

// GetInactiveUsers returns the distinct registered user IDs with no
// event or sale newer than the trailing window, sorted ascending. Only
// IDs present in the user log are considered; activity from IDs that
// never registered is ignored. Non-positive days yields an empty list.
func (e *Engine) GetInactiveUsers(days int) []string {
	inactive := make([]string, 0)
	if days <= 0 {
		return inactive
	}
	cutoff := e.now().AddDate(0, 0, -days)

	lastActivity := make(map[string]time.Time)
	for _, event := range e.events {
		if event.Timestamp.After(lastActivity[event.UserID]) {
			lastActivity[event.UserID] = event.Timestamp
		}
	}
	for _, sale := range e.sales {
		if sale.Timestamp.After(lastActivity[sale.UserID]) {
			lastActivity[sale.UserID] = sale.Timestamp
		}
	}

	seen := make(map[string]bool)
	for _, user := range e.users {
		if seen[user.UserID] {
			continue
		}
		seen[user.UserID] = true

		last, ok := lastActivity[user.UserID]
		if !ok || !last.After(cutoff) {
			inactive = append(inactive, user.UserID)
		}
	}
	sort.Strings(inactive)

	return inactive
}

// CalculateEngagementRate returns the share of registered users with at
// least one event inside the trailing window, as a percentage rounded
// to two decimals. The denominator is the raw registration count, so
// duplicate registrations dilute the rate and events from unregistered
// IDs can push it past 100. Zero registered users yields 0. Non-positive
// windowDays falls back to the default.
func (e *Engine) CalculateEngagementRate(windowDays int) float64 {
	if windowDays <= 0 {
		windowDays = DefaultEngagementWindowDays
	}
	if len(e.users) == 0 {
		return 0
	}
	cutoff := e.now().AddDate(0, 0, -windowDays)

	engaged := make(map[string]bool)
	for _, event := range e.events {
		if event.Timestamp.After(cutoff) {
			engaged[event.UserID] = true
		}
	}

	rate := float64(len(engaged)) / float64(len(e.users)) * 100
	return round2(rate)
}

// CalculateEngagementRateByEventTypes is the alternative engagement
// mode: it counts distinct event types seen inside the window instead
// of distinct users. Useful for gauging breadth of feature usage; the
// distinct-users mode is the default everywhere else.
func (e *Engine) CalculateEngagementRateByEventTypes(windowDays int) float64 {
	if windowDays <= 0 {
		windowDays = DefaultEngagementWindowDays
	}
	if len(e.users) == 0 {
		return 0
	}
	cutoff := e.now().AddDate(0, 0, -windowDays)

	types := make(map[string]bool)
	for _, event := range e.events {
		if event.Timestamp.After(cutoff) {
			types[event.EventType] = true
		}
	}

	rate := float64(len(types)) / float64(len(e.users)) * 100
	return round2(rate)
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
