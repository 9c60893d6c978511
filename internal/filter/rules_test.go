package filter

import (
	"testing"

	"github.com/calsift/calsift/internal/config"
	"github.com/calsift/calsift/internal/ical"
)

func TestFromConfig_NoRulesPassesEverything(t *testing.T) {
	p, err := FromConfig(config.FilterConfig{})
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if !p(ical.Event{Summary: "anything at all"}) {
		t.Error("empty filter config should pass every event")
	}
}

func TestFromConfig_OrMode(t *testing.T) {
	p, err := FromConfig(config.FilterConfig{
		Rules: []config.FilterRule{
			{Summary: "Standup"},
			{Year: 2024},
		},
	})
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}

	if !p(ical.Event{Summary: "Retro", Start: "20240101"}) {
		t.Error("or-mode should pass an event matching one rule")
	}
	if p(ical.Event{Summary: "Retro", Start: "20230101"}) {
		t.Error("or-mode should drop an event matching no rule")
	}
}

func TestFromConfig_AndMode(t *testing.T) {
	p, err := FromConfig(config.FilterConfig{
		Mode: "and",
		Rules: []config.FilterRule{
			{Summary: "Standup"},
			{Location: "(?i)room 4"},
		},
	})
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}

	if !p(ical.Event{Summary: "Standup", Location: "Room 4"}) {
		t.Error("and-mode should pass an event matching all rules")
	}
	if p(ical.Event{Summary: "Standup", Location: "Room 5"}) {
		t.Error("and-mode should drop an event failing one rule")
	}
}

func TestFromConfig_StartRange(t *testing.T) {
	p, err := FromConfig(config.FilterConfig{
		Rules: []config.FilterRule{
			{Start: &config.DateRange{From: "20240101", To: "20241231"}},
		},
	})
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}

	if !p(ical.Event{Start: "20240615"}) {
		t.Error("start inside the range should match")
	}
	if p(ical.Event{Start: "20250101"}) {
		t.Error("start past the range should not match")
	}
}

func TestFromConfig_BadRegexFailsFast(t *testing.T) {
	_, err := FromConfig(config.FilterConfig{
		Rules: []config.FilterRule{{Summary: "("}},
	})
	if err == nil {
		t.Fatal("expected compile error for invalid pattern")
	}
}

func TestFromConfig_EmptyRuleRejected(t *testing.T) {
	_, err := FromConfig(config.FilterConfig{
		Rules: []config.FilterRule{{}},
	})
	if err == nil {
		t.Fatal("expected error for a rule with no fields")
	}
}

func TestFromConfig_UnknownModeRejected(t *testing.T) {
	_, err := FromConfig(config.FilterConfig{
		Mode:  "xor",
		Rules: []config.FilterRule{{Summary: "x"}},
	})
	if err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
