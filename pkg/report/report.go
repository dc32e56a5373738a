package report

import (
	"time"

	"github.com/platinummonkey/pulse/pkg/analytics"
)

// Report is a point-in-time snapshot of every derived metric the engine
// computes, plus the alerts active when it was built. Reports are
// self-contained: exporters and the Redis publisher never reach back
// into the engine.
type Report struct {
	GeneratedAt   time.Time                         `json:"generated_at"`
	Sales         map[string]analytics.SalesMetrics `json:"sales"`
	Users         analytics.UserMetrics             `json:"users"`
	TopEvents     []analytics.EventCount            `json:"top_events"`
	RevenueGrowth GrowthSummary                     `json:"revenue_growth"`
	Engagement    EngagementSummary                 `json:"engagement"`
	InactiveUsers InactiveSummary                   `json:"inactive_users"`
	Alerts        []analytics.Alert                 `json:"alerts"`
}

// GrowthSummary is the revenue growth section of a report.
type GrowthSummary struct {
	Days       int     `json:"days"`
	GrowthRate float64 `json:"growth_rate"`
}

// EngagementSummary is the engagement section of a report. Rate counts
// distinct active users; ByEventTypes weights users by the number of
// distinct event types they produced.
type EngagementSummary struct {
	WindowDays   int     `json:"window_days"`
	Rate         float64 `json:"rate"`
	ByEventTypes float64 `json:"by_event_types"`
}

// InactiveSummary is the inactive-users section of a report.
type InactiveSummary struct {
	Days    int      `json:"days"`
	UserIDs []string `json:"user_ids"`
}

// BuilderOptions configure the windows and labels a Builder snapshots.
// Zero values inherit the engine defaults.
type BuilderOptions struct {
	// Periods are the sales period labels to include, one SalesMetrics
	// section per label.
	Periods []string

	GrowthWindowDays     int
	EngagementWindowDays int
	InactivityDays       int

	// TopEventsLimit caps the event ranking; zero includes the full
	// ranking.
	TopEventsLimit int
}

// Builder assembles reports from a live engine. The alerter is
// optional; without one reports carry an empty alerts section.
type Builder struct {
	engine  *analytics.Engine
	alerter *analytics.Alerter
	opts    BuilderOptions
	now     func() time.Time
}

// NewBuilder creates a builder over the given engine.
func NewBuilder(engine *analytics.Engine, alerter *analytics.Alerter, opts BuilderOptions) *Builder {
	if len(opts.Periods) == 0 {
		opts.Periods = []string{"daily"}
	}
	if opts.GrowthWindowDays <= 0 {
		opts.GrowthWindowDays = analytics.DefaultGrowthWindowDays
	}
	if opts.EngagementWindowDays <= 0 {
		opts.EngagementWindowDays = analytics.DefaultEngagementWindowDays
	}
	if opts.InactivityDays <= 0 {
		opts.InactivityDays = analytics.DefaultInactivityDays
	}

	return &Builder{
		engine:  engine,
		alerter: alerter,
		opts:    opts,
		now:     time.Now,
	}
}

// Build snapshots the engine into a report. The caller is responsible
// for serializing access to the engine; Build itself takes no locks.
func (b *Builder) Build() *Report {
	sales := make(map[string]analytics.SalesMetrics, len(b.opts.Periods))
	for _, period := range b.opts.Periods {
		sales[period] = b.engine.GetSalesMetrics(period)
	}

	topEvents := b.engine.GetEventCounts()
	if b.opts.TopEventsLimit > 0 {
		topEvents = b.engine.GetTopEvents(b.opts.TopEventsLimit)
	}

	inactive := b.engine.GetInactiveUsers(b.opts.InactivityDays)

	alerts := []analytics.Alert{}
	if b.alerter != nil {
		alerts = b.alerter.CheckAllAlerts()
	}

	return &Report{
		GeneratedAt: b.now().UTC(),
		Sales:       sales,
		Users:       b.engine.GetUserMetrics(),
		TopEvents:   topEvents,
		RevenueGrowth: GrowthSummary{
			Days:       b.opts.GrowthWindowDays,
			GrowthRate: b.engine.CalculateRevenueGrowth(b.opts.GrowthWindowDays),
		},
		Engagement: EngagementSummary{
			WindowDays:   b.opts.EngagementWindowDays,
			Rate:         b.engine.CalculateEngagementRate(b.opts.EngagementWindowDays),
			ByEventTypes: b.engine.CalculateEngagementRateByEventTypes(b.opts.EngagementWindowDays),
		},
		InactiveUsers: InactiveSummary{
			Days:    b.opts.InactivityDays,
			UserIDs: inactive,
		},
		Alerts: alerts,
	}
}
