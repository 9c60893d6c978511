package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFrom(t *testing.T) {
	path := writeConfig(t, `
sync:
  interval: 30m
  refresh: "*/15 * * * *"
  output: /tmp/calsift-test/calendar.ics
metrics:
  listen: "127.0.0.1:9190"
sources:
  - name: team
    url: https://example.com/team.ics
    username: bob
    filters:
      mode: and
      rules:
        - summary: "Stand.*"
        - year: 2026
  - name: shared
    type: caldav
    url: https://dav.example.com
    calendars: [Work, Oncall]
output:
  order: start
  group_by: month
  group_sort: count
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Sync.Interval != 30*time.Minute {
		t.Errorf("Sync.Interval = %v, want 30m", cfg.Sync.Interval)
	}
	if cfg.Sync.Refresh != "*/15 * * * *" {
		t.Errorf("Sync.Refresh = %q", cfg.Sync.Refresh)
	}
	if cfg.Metrics.Listen != "127.0.0.1:9190" {
		t.Errorf("Metrics.Listen = %q", cfg.Metrics.Listen)
	}

	if len(cfg.Sources) != 2 {
		t.Fatalf("len(Sources) = %d, want 2", len(cfg.Sources))
	}

	team := cfg.Sources[0]
	if team.Name != "team" || team.Username != "bob" {
		t.Errorf("unexpected first source: %+v", team)
	}
	if team.Filters.Mode != "and" || len(team.Filters.Rules) != 2 {
		t.Errorf("unexpected filters: %+v", team.Filters)
	}
	if team.Filters.Rules[0].Summary != "Stand.*" {
		t.Errorf("rule 0 summary = %q", team.Filters.Rules[0].Summary)
	}
	if team.Filters.Rules[1].Year != 2026 {
		t.Errorf("rule 1 year = %d", team.Filters.Rules[1].Year)
	}

	shared := cfg.Sources[1]
	if shared.Type != "caldav" || len(shared.Calendars) != 2 {
		t.Errorf("unexpected second source: %+v", shared)
	}

	if cfg.Output.GroupBy != "month" || cfg.Output.GroupSort != "count" {
		t.Errorf("unexpected output config: %+v", cfg.Output)
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	path := writeConfig(t, `
sources:
  - name: only
    url: https://example.com/cal.ics
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Sync.Interval != 15*time.Minute {
		t.Errorf("default Sync.Interval = %v, want 15m", cfg.Sync.Interval)
	}
	if cfg.Sync.Output == "" {
		t.Errorf("default Sync.Output not applied")
	}
	if cfg.Output.Order != "start" {
		t.Errorf("default Output.Order = %q, want %q", cfg.Output.Order, "start")
	}
	if cfg.Metrics.Listen != "" {
		t.Errorf("Metrics.Listen should default to disabled, got %q", cfg.Metrics.Listen)
	}
}

func TestLoadFrom_BadInterval(t *testing.T) {
	path := writeConfig(t, `
sync:
  interval: fortnightly
`)

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected error for unparseable interval")
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestGetPassword(t *testing.T) {
	tests := []struct {
		name string
		src  SourceConfig
		want string
	}{
		{
			name: "literal password wins",
			src:  SourceConfig{Password: "hunter2", PasswordCmd: "echo nope"},
			want: "hunter2",
		},
		{
			name: "password_cmd output is trimmed",
			src:  SourceConfig{PasswordCmd: "echo '  secret  '"},
			want: "secret",
		},
		{
			name: "no password configured",
			src:  SourceConfig{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.src.GetPassword()
			if err != nil {
				t.Fatalf("GetPassword: %v", err)
			}
			if got != tt.want {
				t.Errorf("GetPassword() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}

	if got := expandPath("~/calendar.ics"); got != filepath.Join(home, "calendar.ics") {
		t.Errorf("expandPath(~/calendar.ics) = %q", got)
	}
	if got := expandPath("/abs/path.ics"); got != "/abs/path.ics" {
		t.Errorf("expandPath should leave absolute paths alone, got %q", got)
	}
}
