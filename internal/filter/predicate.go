// Package filter provides composable predicates and transforms over
// calendar events.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/calsift/calsift/internal/ical"
)

// Predicate is a pure boolean test over an event. A predicate captures
// its parameters at construction time and holds no other state, so it
// is safe to share across goroutines.
type Predicate func(ical.Event) bool

// BySummary matches events whose summary contains a match for the
// regular expression pattern. An invalid pattern is a programming
// error and fails here, at construction, not at match time.
func BySummary(pattern string) (Predicate, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid summary pattern %q: %w", pattern, err)
	}
	return func(ev ical.Event) bool {
		return re.MatchString(ev.Summary)
	}, nil
}

// ByLocation matches events whose location contains a match for the
// regular expression pattern. An absent location is the empty string.
func ByLocation(pattern string) (Predicate, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid location pattern %q: %w", pattern, err)
	}
	return func(ev ical.Event) bool {
		return re.MatchString(ev.Location)
	}, nil
}

// ByYear matches events whose raw start value begins with the 4-digit
// year. The test is textual, so it keeps working even for values whose
// remainder fails date parsing.
func ByYear(year int) Predicate {
	prefix := fmt.Sprintf("%04d", year)
	return func(ev ical.Event) bool {
		return strings.HasPrefix(ev.Start, prefix)
	}
}

// ByDateRange matches events whose raw start value falls within
// [start, end] inclusive, by plain string comparison. That is only
// correct when the bounds use the same fixed-width encoding as the
// events under test (all "20060102", or all "20060102T150405");
// mixing encodings gives wrong answers. Use ByDateSpan when the
// bounds and events may be encoded differently.
func ByDateRange(start, end string) Predicate {
	return func(ev ical.Event) bool {
		return ev.Start >= start && ev.Start <= end
	}
}

// ByDateSpan matches events whose parsed start falls within [from, to]
// inclusive. Events without a parseable start never match. A zero from
// or to leaves that side of the span open.
func ByDateSpan(from, to ical.Date) Predicate {
	return func(ev ical.Event) bool {
		d := ev.StartDate()
		if d.IsZero() {
			return false
		}
		if !from.IsZero() && d.Time.Before(from.Time) {
			return false
		}
		if !to.IsZero() && d.Time.After(to.Time) {
			return false
		}
		return true
	}
}
