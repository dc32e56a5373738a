package analytics

import "time"

// Alerter evaluates engine metrics against configured thresholds and
// produces alerts for the reporter and the alerts endpoint.
type Alerter struct {
	engine     *Engine
	thresholds AlertThresholds
}

// AlertThresholds configures when the alerter fires. Windows are in
// days; zero values fall back to the engine defaults.
type AlertThresholds struct {
	// MinRevenueGrowth fires a revenue alert when growth over the
	// configured window drops below it.
	MinRevenueGrowth float64 `json:"min_revenue_growth" yaml:"min_revenue_growth"`
	GrowthWindowDays int     `json:"growth_window_days" yaml:"growth_window_days"`

	// MinEngagementRate fires an engagement alert when the rate drops
	// below it.
	MinEngagementRate    float64 `json:"min_engagement_rate" yaml:"min_engagement_rate"`
	EngagementWindowDays int     `json:"engagement_window_days" yaml:"engagement_window_days"`

	// MaxInactiveShare fires an inactivity alert when the share of
	// registered users considered inactive exceeds it (0-100).
	MaxInactiveShare float64 `json:"max_inactive_share" yaml:"max_inactive_share"`
	InactivityDays   int     `json:"inactivity_days" yaml:"inactivity_days"`

	// MaxLowActivityShare fires an activity alert when the share of
	// distinct registered users classified "low" or "inactive" exceeds
	// it (0-100).
	MaxLowActivityShare float64 `json:"max_low_activity_share" yaml:"max_low_activity_share"`
}

// DefaultAlertThresholds returns the thresholds used when none are
// configured.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		MinRevenueGrowth:     0,
		GrowthWindowDays:     DefaultGrowthWindowDays,
		MinEngagementRate:    25,
		EngagementWindowDays: DefaultEngagementWindowDays,
		MaxInactiveShare:     50,
		InactivityDays:       DefaultInactivityDays,
		MaxLowActivityShare:  75,
	}
}

// Alert is a single triggered alert.
type Alert struct {
	Type        string                 `json:"type"`     // "revenue", "engagement", "inactivity", "activity"
	Severity    string                 `json:"severity"` // "critical", "warning"
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	Details     map[string]interface{} `json:"details,omitempty"`
	TriggeredAt time.Time              `json:"triggered_at"`
}

// Alert severities.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
)

// NewAlerter creates an alerter over the given engine. Zero-value
// thresholds fields inherit the defaults.
func NewAlerter(engine *Engine, thresholds AlertThresholds) *Alerter {
	defaults := DefaultAlertThresholds()
	if thresholds.GrowthWindowDays <= 0 {
		thresholds.GrowthWindowDays = defaults.GrowthWindowDays
	}
	if thresholds.EngagementWindowDays <= 0 {
		thresholds.EngagementWindowDays = defaults.EngagementWindowDays
	}
	if thresholds.InactivityDays <= 0 {
		thresholds.InactivityDays = defaults.InactivityDays
	}
	return &Alerter{engine: engine, thresholds: thresholds}
}

// CheckRevenueAlerts fires when revenue growth drops below the
// configured minimum. Growth at or below -50% escalates to critical.
// An engine with no sales yet never fires; the alert describes
// deterioration, not absence of data.
func (a *Alerter) CheckRevenueAlerts() []Alert {
	if sales, _, _ := a.engine.Counts(); sales == 0 {
		return nil
	}
	growth := a.engine.CalculateRevenueGrowth(a.thresholds.GrowthWindowDays)
	if growth >= a.thresholds.MinRevenueGrowth {
		return nil
	}

	severity := SeverityWarning
	if growth <= -50 {
		severity = SeverityCritical
	}
	return []Alert{a.newAlert("revenue", severity,
		"Revenue growth below threshold",
		"Revenue growth over the current window fell below the configured minimum",
		map[string]interface{}{
			"growth_rate": growth,
			"threshold":   a.thresholds.MinRevenueGrowth,
			"window_days": a.thresholds.GrowthWindowDays,
		})}
}

// CheckEngagementAlerts fires when the engagement rate drops below the
// configured minimum. A rate under half the minimum is critical. Never
// fires before the first registration.
func (a *Alerter) CheckEngagementAlerts() []Alert {
	if _, users, _ := a.engine.Counts(); users == 0 {
		return nil
	}
	rate := a.engine.CalculateEngagementRate(a.thresholds.EngagementWindowDays)
	if rate >= a.thresholds.MinEngagementRate {
		return nil
	}

	severity := SeverityWarning
	if rate < a.thresholds.MinEngagementRate/2 {
		severity = SeverityCritical
	}
	return []Alert{a.newAlert("engagement", severity,
		"Engagement rate below threshold",
		"Too few registered users produced events inside the engagement window",
		map[string]interface{}{
			"engagement_rate": rate,
			"threshold":       a.thresholds.MinEngagementRate,
			"window_days":     a.thresholds.EngagementWindowDays,
		})}
}

// CheckInactivityAlerts fires when the share of registered users with
// no recent activity exceeds the configured maximum.
func (a *Alerter) CheckInactivityAlerts() []Alert {
	metrics := a.engine.GetUserMetrics()
	if metrics.TotalUsers == 0 {
		return nil
	}

	inactive := a.engine.GetInactiveUsers(a.thresholds.InactivityDays)
	share := float64(len(inactive)) / float64(metrics.TotalUsers) * 100
	if share <= a.thresholds.MaxInactiveShare {
		return nil
	}

	severity := SeverityWarning
	if share >= 90 {
		severity = SeverityCritical
	}
	return []Alert{a.newAlert("inactivity", severity,
		"Inactive user share above threshold",
		"Too many registered users have no recent events or purchases",
		map[string]interface{}{
			"inactive_users": len(inactive),
			"total_users":    metrics.TotalUsers,
			"inactive_share": share,
			"threshold":      a.thresholds.MaxInactiveShare,
			"window_days":    a.thresholds.InactivityDays,
		})}
}

// CheckActivityMixAlerts fires when too many registered users sit in
// the bottom activity levels. Levels are classified per distinct user,
// so duplicate registrations do not skew the share.
func (a *Alerter) CheckActivityMixAlerts() []Alert {
	seen := make(map[string]bool)
	var total, low int
	for _, user := range a.engine.users {
		if seen[user.UserID] {
			continue
		}
		seen[user.UserID] = true
		total++

		stats, err := a.engine.GetUserActivityStats(user.UserID)
		if err != nil {
			continue
		}
		if stats.ActivityLevel == ActivityLow || stats.ActivityLevel == ActivityInactive {
			low++
		}
	}
	if total == 0 {
		return nil
	}

	share := float64(low) / float64(total) * 100
	if share <= a.thresholds.MaxLowActivityShare {
		return nil
	}

	severity := SeverityWarning
	if share >= 90 {
		severity = SeverityCritical
	}
	return []Alert{a.newAlert("activity", severity,
		"Low-activity user share above threshold",
		"Too many registered users are classified low or inactive",
		map[string]interface{}{
			"low_activity_users": low,
			"total_users":        total,
			"low_activity_share": share,
			"threshold":          a.thresholds.MaxLowActivityShare,
		})}
}

// CheckAllAlerts runs every check and returns the triggered alerts.
// The result is empty, never nil, when nothing fired.
func (a *Alerter) CheckAllAlerts() []Alert {
	alerts := make([]Alert, 0)
	alerts = append(alerts, a.CheckRevenueAlerts()...)
	alerts = append(alerts, a.CheckEngagementAlerts()...)
	alerts = append(alerts, a.CheckInactivityAlerts()...)
	alerts = append(alerts, a.CheckActivityMixAlerts()...)
	return alerts
}

func (a *Alerter) newAlert(alertType, severity, title, message string, details map[string]interface{}) Alert {
	return Alert{
		Type:        alertType,
		Severity:    severity,
		Title:       title,
		Message:     message,
		Details:     details,
		TriggeredAt: a.engine.now().UTC(),
	}
}
