package report

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/pulse/pkg/analytics"
)

// Runner executes one reporting cycle: fetch the current report from
// the API server, write export files, publish the snapshot to Redis,
// and relay alerts into the log.
type Runner struct {
	config    *Config
	client    *Client
	publisher *Publisher
	formats   []Format
	log       *logrus.Logger
}

// NewRunner wires a runner from config. When Redis publishing is
// enabled the publisher connects eagerly so a bad address fails at
// startup instead of mid-schedule.
func NewRunner(config *Config, log *logrus.Logger) (*Runner, error) {
	if log == nil {
		log = logrus.New()
	}

	formats := make([]Format, 0, len(config.Output.Formats))
	for _, name := range config.Output.Formats {
		format, err := ParseFormat(name)
		if err != nil {
			return nil, err
		}
		formats = append(formats, format)
	}

	runner := &Runner{
		config:  config,
		client:  NewClient(config.APIBaseURL, time.Duration(config.Timeout)),
		formats: formats,
		log:     log,
	}

	if config.Redis.Enabled {
		publisher, err := NewPublisher(PublisherConfig{
			Addr:      config.Redis.Addr,
			Password:  config.Redis.Password,
			DB:        config.Redis.DB,
			KeyPrefix: config.Redis.KeyPrefix,
			TTL: map[string]time.Duration{
				KeySnapshot: time.Duration(config.Redis.SnapshotTTL),
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create publisher: %w", err)
		}
		runner.publisher = publisher
	}

	return runner, nil
}

// Run executes one reporting cycle.
func (r *Runner) Run(ctx context.Context) error {
	rep, err := r.client.Fetch(ctx)
	if err != nil {
		return err
	}

	r.log.WithFields(logrus.Fields{
		"generated_at": rep.GeneratedAt,
		"total_users":  rep.Users.TotalUsers,
		"alerts":       len(rep.Alerts),
	}).Info("Fetched report")

	if len(r.formats) > 0 {
		written, err := WriteFiles(rep, r.config.Output.Dir, r.formats)
		if err != nil {
			return err
		}
		r.log.Infof("Wrote %d report files to %s", len(written), r.config.Output.Dir)
	}

	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, rep); err != nil {
			return fmt.Errorf("failed to publish report: %w", err)
		}
		r.log.Info("Published report snapshot to redis")
	}

	r.logAlerts(rep.Alerts)
	return nil
}

// logAlerts relays report alerts at a log level matching severity,
// skipping those below the configured minimum.
func (r *Runner) logAlerts(alerts []analytics.Alert) {
	criticalOnly := r.config.Alerts.MinSeverity == analytics.SeverityCritical

	for _, alert := range alerts {
		if criticalOnly && alert.Severity != analytics.SeverityCritical {
			continue
		}

		entry := r.log.WithFields(logrus.Fields{
			"type":     alert.Type,
			"severity": alert.Severity,
			"details":  alert.Details,
		})
		if alert.Severity == analytics.SeverityCritical {
			entry.Error(alert.Title)
		} else {
			entry.Warn(alert.Title)
		}
	}
}

// Close releases the runner's Redis connection, if any.
func (r *Runner) Close() error {
	if r.publisher != nil {
		return r.publisher.Close()
	}
	return nil
}
