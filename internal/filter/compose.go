package filter

import (
	"sort"

	"github.com/calsift/calsift/internal/ical"
)

// All combines predicates so that every one must match. With no
// predicates it passes everything: the identity filter.
func All(ps ...Predicate) Predicate {
	return func(ev ical.Event) bool {
		for _, p := range ps {
			if !p(ev) {
				return false
			}
		}
		return true
	}
}

// Any combines predicates so that at least one must match. With no
// predicates it passes nothing: an empty selection selects no events.
func Any(ps ...Predicate) Predicate {
	return func(ev ical.Event) bool {
		for _, p := range ps {
			if p(ev) {
				return true
			}
		}
		return false
	}
}

// Apply returns the events matching p. The input slice is not
// modified.
func Apply(events []ical.Event, p Predicate) []ical.Event {
	var filtered []ical.Event
	for _, ev := range events {
		if p(ev) {
			filtered = append(filtered, ev)
		}
	}
	return filtered
}

// Transform reorders or regroups a sequence of events. Transforms do
// not mutate their input or the individual events.
type Transform func([]ical.Event) []ical.Event

// Chain applies transforms left to right: each one receives the output
// of the previous.
func Chain(ts ...Transform) Transform {
	return func(events []ical.Event) []ical.Event {
		for _, t := range ts {
			events = t(events)
		}
		return events
	}
}

// SortByStart orders events by their raw start value. The comparison
// is lexical, which orders correctly within either date encoding, and
// the sort is stable.
func SortByStart() Transform {
	return func(events []ical.Event) []ical.Event {
		out := make([]ical.Event, len(events))
		copy(out, events)
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Start < out[j].Start
		})
		return out
	}
}

// Group is a keyed bucket of events. A slice of Groups preserves
// first-seen key order, which a map would lose.
type Group struct {
	Key    string
	Events []ical.Event
}

// Sentinel keys for events whose raw start is too short to derive a
// key from (including absent starts).
const (
	yearUnknown  = "0000"
	monthUnknown = "0000-00"
)

// GroupByYear buckets events by the leading four characters of the raw
// start value. Events without one land under "0000".
func GroupByYear(events []ical.Event) []Group {
	return groupBy(events, yearKey)
}

// GroupByMonth buckets events by year and month in "YYYY-MM" form,
// derived from the raw start value. Events without one land under
// "0000-00".
func GroupByMonth(events []ical.Event) []Group {
	return groupBy(events, monthKey)
}

// GroupBySummary buckets events by exact summary equality.
func GroupBySummary(events []ical.Event) []Group {
	return groupBy(events, func(ev ical.Event) string { return ev.Summary })
}

func yearKey(ev ical.Event) string {
	if len(ev.Start) < 4 {
		return yearUnknown
	}
	return ev.Start[:4]
}

func monthKey(ev ical.Event) string {
	if len(ev.Start) < 6 {
		return monthUnknown
	}
	return ev.Start[:4] + "-" + ev.Start[4:6]
}

func groupBy(events []ical.Event, key func(ical.Event) string) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, ev := range events {
		k := key(ev)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Events = append(groups[i].Events, ev)
	}

	return groups
}

// SortGroupsByCount orders groups by descending member count. Ties
// keep their existing relative order.
func SortGroupsByCount(groups []Group) []Group {
	out := make([]Group, len(groups))
	copy(out, groups)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Events) > len(out[j].Events)
	})
	return out
}
