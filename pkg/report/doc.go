// Package report builds, exports, and publishes analytics report snapshots.
//
// # Overview
//
// A Report captures every derived metric the engine computes at a single
// point in time, together with the alerts active at build time. The package
// covers the full snapshot lifecycle:
//
//   - Builder assembles reports from a live engine (used by the API server).
//   - Export renders reports as JSON, NDJSON, or CSV; WriteFiles writes one
//     file per format into an output directory.
//   - Publisher pushes snapshots into Redis under a latest pointer and
//     timestamped keys with configurable TTLs.
//   - Client fetches reports from a running API server over HTTP.
//   - Runner ties fetch, export, publish, and alert logging into one
//     reporting cycle for the scheduled reporter.
//
// # Building Reports
//
// Build a report from an engine:
//
//	builder := report.NewBuilder(engine, alerter, report.BuilderOptions{
//		Periods:          []string{"daily", "weekly"},
//		GrowthWindowDays: 30,
//	})
//	rep := builder.Build()
//
// # Exporting
//
// Render a report or write all formats at once:
//
//	data, err := report.Export(rep, report.FormatJSON)
//	paths, err := report.WriteFiles(rep, "./reports", []report.Format{
//		report.FormatJSON,
//		report.FormatCSV,
//	})
//
// # Publishing
//
// Publish snapshots to Redis and read the latest one back:
//
//	pub, err := report.NewPublisher(report.PublisherConfig{Addr: "localhost:6379"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pub.Close()
//
//	err = pub.Publish(ctx, rep)
//	latest, err := pub.Latest(ctx)
//
// # Reporter Configuration
//
// The scheduled reporter loads its settings from pulse-reporter.yaml:
//
//	api_base_url: http://localhost:8080
//	schedule: "@hourly"
//	output:
//	  dir: ./reports
//	  formats: [json, ndjson, csv]
//	redis:
//	  enabled: true
//	  addr: localhost:6379
//	  snapshot_ttl: 24h
//
// LoadConfigFromDir probes the standard candidate filenames and falls back
// to defaults when none exist.
//
// # Related Packages
//
//   - pkg/analytics: The engine and alerter reports are built from
//   - pkg/api: Serves reports at GET /api/v1/report
package report
