package filter

import (
	"fmt"

	"github.com/calsift/calsift/internal/config"
)

// FromConfig compiles a filter configuration into a single predicate.
// Mode "and" requires every rule to match; "or" (the default) any one.
// A configuration with no rules passes every event, so an absent
// filters section leaves a source unfiltered.
func FromConfig(cfg config.FilterConfig) (Predicate, error) {
	if len(cfg.Rules) == 0 {
		return All(), nil
	}

	ps := make([]Predicate, 0, len(cfg.Rules))
	for i, r := range cfg.Rules {
		p, err := compileRule(r)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		ps = append(ps, p)
	}

	switch cfg.Mode {
	case "and":
		return All(ps...), nil
	case "", "or":
		return Any(ps...), nil
	default:
		return nil, fmt.Errorf("unknown filter mode %q (use \"and\" or \"or\")", cfg.Mode)
	}
}

// compileRule converts one config rule into a predicate.
func compileRule(r config.FilterRule) (Predicate, error) {
	switch {
	case r.Summary != "":
		return BySummary(r.Summary)
	case r.Location != "":
		return ByLocation(r.Location)
	case r.Year != 0:
		return ByYear(r.Year), nil
	case r.Start != nil:
		return ByDateRange(r.Start.From, r.Start.To), nil
	default:
		return nil, fmt.Errorf("no rule specified (use summary, location, year, or start)")
	}
}
