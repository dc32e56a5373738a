package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/pulse/pkg/report"
)

var (
	configPath = flag.String("config", "", "Path to reporter config (searches the working directory when empty)")
	schedule   = flag.String("schedule", "", "Cron schedule override, e.g. \"*/15 * * * *\"")
	runOnce    = flag.Bool("once", false, "Run one reporting cycle and exit")
	initConfig = flag.Bool("init", false, "Write a default config file and exit")
	logLevel   = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
)

func main() {
	flag.Parse()

	logger := setupLogger(*logLevel)

	if *initConfig {
		path := *configPath
		if path == "" {
			path = "pulse-reporter.yaml"
		}
		if err := report.SaveConfig(report.DefaultConfig(), path); err != nil {
			logger.Fatalf("Failed to write config: %v", err)
		}
		logger.Infof("Wrote default config to %s", path)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if *schedule != "" {
		cfg.Schedule = *schedule
	}

	runner, err := report.NewRunner(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to create runner: %v", err)
	}
	defer runner.Close()

	// Run once mode (for testing or cron-external scheduling)
	if *runOnce {
		if err := runner.Run(context.Background()); err != nil {
			logger.Fatalf("Reporting cycle failed: %v", err)
		}
		return
	}

	c := cron.New()
	_, err = c.AddFunc(cfg.Schedule, func() {
		if err := runner.Run(context.Background()); err != nil {
			logger.WithError(err).Error("Reporting cycle failed")
		}
	})
	if err != nil {
		logger.Fatalf("Failed to schedule reporting: %v", err)
	}

	c.Start()
	logger.WithFields(logrus.Fields{
		"schedule": cfg.Schedule,
		"api":      cfg.APIBaseURL,
	}).Info("Pulse reporter started")

	// Wait for termination signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	logger.Info("Shutting down gracefully...")

	// Stop the cron scheduler and let any in-flight cycle finish
	ctx := c.Stop()
	<-ctx.Done()

	logger.Info("Reporter stopped")
}

func setupLogger(logLevel string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

func loadConfig(path string) (*report.Config, error) {
	if path != "" {
		return report.LoadConfig(path)
	}

	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return report.LoadConfigFromDir(dir)
}
