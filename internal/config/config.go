// Package config provides configuration loading for the calsift
// daemon.
package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Sync    SyncConfig     `yaml:"sync"`
	Metrics MetricsConfig  `yaml:"metrics"`
	Sources []SourceConfig `yaml:"sources"`
	Output  OutputConfig   `yaml:"output"`
}

// SyncConfig configures the sync daemon.
type SyncConfig struct {
	Interval time.Duration `yaml:"interval"`
	Refresh  string        `yaml:"refresh"` // cron expression; wins over interval when set
	Output   string        `yaml:"output"`
}

// MetricsConfig configures the Prometheus listener.
type MetricsConfig struct {
	Listen string `yaml:"listen"` // empty disables the metrics server
}

// SourceConfig configures a calendar source.
type SourceConfig struct {
	Name        string       `yaml:"name"`
	Type        string       `yaml:"type"` // "ics" (default) or "caldav"
	URL         string       `yaml:"url"`
	Username    string       `yaml:"username,omitempty"`
	Password    string       `yaml:"password,omitempty"`
	PasswordCmd string       `yaml:"password_cmd,omitempty"`
	Calendars   []string     `yaml:"calendars,omitempty"` // for CalDAV: which calendars to read
	Filters     FilterConfig `yaml:"filters,omitempty"`   // per-source include filters
}

// FilterConfig configures event filtering.
type FilterConfig struct {
	Mode  string       `yaml:"mode"` // "or" or "and"
	Rules []FilterRule `yaml:"rules"`
}

// FilterRule defines a single filter rule. Use exactly one of the
// fields.
type FilterRule struct {
	Summary  string     `yaml:"summary,omitempty"`  // regular expression on the summary
	Location string     `yaml:"location,omitempty"` // regular expression on the location
	Year     int        `yaml:"year,omitempty"`     // 4-digit start year
	Start    *DateRange `yaml:"start,omitempty"`    // raw start value range, inclusive
}

// DateRange bounds raw start values, inclusive on both ends. From and
// To must use the same encoding as the feed's DTSTART values.
type DateRange struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// OutputConfig configures ordering and grouping of collected events.
type OutputConfig struct {
	Order     string `yaml:"order"`      // "start" (default) or "none"
	GroupBy   string `yaml:"group_by"`   // "year", "month", "summary", or "none"
	GroupSort string `yaml:"group_sort"` // "count" or "none"
}

// Load reads configuration from the default location
// (~/.config/calsift/config.yaml).
func Load() (*Config, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("get config dir: %w", err)
	}

	path := filepath.Join(configDir, "calsift", "config.yaml")
	return LoadFrom(path)
}

// LoadFrom reads configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	path = expandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.applyDefaults()

	cfg.Sync.Output = expandPath(cfg.Sync.Output)

	return &cfg, nil
}

// applyDefaults sets default values for unspecified config options.
func (c *Config) applyDefaults() {
	if c.Sync.Interval == 0 {
		c.Sync.Interval = 15 * time.Minute
	}
	if c.Sync.Output == "" {
		home, _ := os.UserHomeDir()
		c.Sync.Output = filepath.Join(home, ".local", "share", "calsift", "calendar.ics")
	}
	if c.Output.Order == "" {
		c.Output.Order = "start"
	}
}

// GetPassword returns the password for a source, executing
// password_cmd if needed.
func (s *SourceConfig) GetPassword() (string, error) {
	if s.Password != "" {
		return s.Password, nil
	}
	if s.PasswordCmd == "" {
		return "", nil
	}

	cmd := exec.Command("sh", "-c", s.PasswordCmd)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("execute password_cmd: %w", err)
	}

	return strings.TrimSpace(string(out)), nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// UnmarshalYAML implements custom unmarshaling so the interval can be
// written as a duration string ("15m", "1h30m").
func (c *SyncConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Interval string `yaml:"interval"`
		Refresh  string `yaml:"refresh"`
		Output   string `yaml:"output"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	if raw.Interval != "" {
		d, err := time.ParseDuration(raw.Interval)
		if err != nil {
			return fmt.Errorf("parse interval: %w", err)
		}
		c.Interval = d
	}
	c.Refresh = raw.Refresh
	c.Output = raw.Output
	return nil
}
