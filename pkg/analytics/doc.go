// Package analytics computes in-memory business metrics for an
// e-commerce workload.
//
// # Overview
//
// The Engine owns three append-only logs (sales, user registrations,
// behavioral events) and derives aggregate statistics from them on
// demand: revenue totals, growth rates, retention, engagement, and
// per-user activity classification. Nothing is persisted; the logs live
// and die with the engine instance.
//
// # Key Metrics
//
// Sales:
//   - Total revenue, total orders, average order value
//   - Revenue growth between two adjacent trailing windows
//
// Users:
//   - Total, active, and new registrations
//   - Retention rate (active / total)
//   - Engagement rate (registered users with recent events)
//   - Inactive users (no events or purchases inside a trailing window)
//
// Events:
//   - Event-type ranking by occurrence count
//   - Per-user activity stats with a weighted activity level
//
// # Usage Example
//
// Record and query:
//
//	engine := analytics.New()
//	engine.RecordSale(49.99, "order-1001", "user-1")
//	engine.RegisterUser("user-1", true)
//	engine.TrackEvent(analytics.EventRecord{UserID: "user-1", EventType: "page_view"})
//
//	sales := engine.GetSalesMetrics("daily")
//	fmt.Printf("Revenue: %.2f over %d orders\n", sales.TotalRevenue, sales.TotalOrders)
//
//	growth := engine.CalculateRevenueGrowth(30)
//	fmt.Printf("30d growth: %.1f%%\n", growth)
//
// Deterministic time for tests:
//
//	clock := func() time.Time { return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC) }
//	engine := analytics.NewWithClock(clock)
//
// # Concurrency
//
// The engine is deliberately unsynchronized: one logical caller at a
// time. Servers sharing an engine across request goroutines must guard
// every call with their own lock (pkg/api does exactly that).
//
// # Related Packages
//
//   - pkg/report: report assembly, export, and snapshot publishing
//   - pkg/observability: service metrics and monitoring
package analytics
