package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/platinummonkey/pulse/pkg/analytics"
)

// Duration wraps time.Duration so YAML configs can use strings like
// "30s" or "24h".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config holds the reporter's YAML configuration.
type Config struct {
	// APIBaseURL is the pulse API server the reporter reads from.
	APIBaseURL string   `yaml:"api_base_url"`
	Timeout    Duration `yaml:"timeout"`

	// Schedule is a cron expression for the reporting loop.
	Schedule string `yaml:"schedule"`

	Output OutputConfig `yaml:"output"`
	Redis  RedisConfig  `yaml:"redis"`
	Alerts AlertsConfig `yaml:"alerts"`
}

// OutputConfig controls report file export.
type OutputConfig struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"`
}

// RedisConfig controls snapshot publishing.
type RedisConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Addr        string   `yaml:"addr"`
	Password    string   `yaml:"password"`
	DB          int      `yaml:"db"`
	KeyPrefix   string   `yaml:"key_prefix"`
	SnapshotTTL Duration `yaml:"snapshot_ttl"`
}

// AlertsConfig controls alert logging. Thresholds themselves live with
// the API server's alerter; the reporter only filters what it relays.
type AlertsConfig struct {
	// MinSeverity is the lowest severity worth logging: "warning"
	// relays everything, "critical" relays critical alerts only.
	MinSeverity string `yaml:"min_severity"`
}

// DefaultConfig returns the default reporter configuration.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL: "http://localhost:8080",
		Timeout:    Duration(30 * time.Second),
		Schedule:   "@hourly",
		Output: OutputConfig{
			Dir:     "./reports",
			Formats: []string{"json", "ndjson", "csv"},
		},
		Redis: RedisConfig{
			Enabled:     false,
			Addr:        "localhost:6379",
			KeyPrefix:   DefaultKeyPrefix,
			SnapshotTTL: Duration(24 * time.Hour),
		},
		Alerts: AlertsConfig{
			MinSeverity: analytics.SeverityWarning,
		},
	}
}

// LoadConfig loads configuration from a file. Fields absent from the
// file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadConfigFromDir searches for a config file in directory
func LoadConfigFromDir(dir string) (*Config, error) {
	configNames := []string{"pulse-reporter.yaml", "pulse-reporter.yml", ".pulse-reporter.yaml", ".pulse-reporter.yml"}

	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadConfig(path)
		}
	}

	// Return default if no config found
	return DefaultConfig(), nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
