package ical

import (
	"strings"
	"time"
)

// Kind reports which iCalendar encoding a Date was parsed from.
type Kind int

const (
	// KindNone means the value was absent or not a recognized encoding.
	KindNone Kind = iota
	// KindDate is the 8-character date-only encoding (YYYYMMDD).
	KindDate
	// KindDateTime is the date-time encoding (YYYYMMDD'T'HHMMSS).
	KindDateTime
)

const (
	layoutDate     = "20060102"
	layoutDateTime = "20060102T150405"
)

// Date is the normalized form of a raw iCalendar date or date-time
// string. The zero value means "no date".
type Date struct {
	Time time.Time
	Kind Kind
}

// ParseDate parses the two encodings this engine understands: exactly
// 8 characters is a date-only value, anything longer containing a 'T'
// is a date-time. Values are treated as naive local time; a trailing
// UTC marker is ignored rather than honored. Any other shape, or a
// parse failure, yields the zero Date instead of an error.
func ParseDate(raw string) Date {
	switch {
	case len(raw) == 8:
		t, err := time.ParseInLocation(layoutDate, raw, time.Local)
		if err != nil {
			return Date{}
		}
		return Date{Time: t, Kind: KindDate}

	case len(raw) > 8 && strings.ContainsRune(raw, 'T'):
		t, err := time.ParseInLocation(layoutDateTime, strings.TrimSuffix(raw, "Z"), time.Local)
		if err != nil {
			return Date{}
		}
		return Date{Time: t, Kind: KindDateTime}

	default:
		return Date{}
	}
}

// IsZero reports whether the Date holds no value.
func (d Date) IsZero() bool {
	return d.Kind == KindNone
}

// String renders the date for display: "Jan 6, 2024" for date-only
// values, "Jan 6, 2024 at 12:00 PM" for date-times, "date unknown"
// when there is no value.
func (d Date) String() string {
	switch d.Kind {
	case KindDate:
		return d.Time.Format("Jan 2, 2006")
	case KindDateTime:
		return d.Time.Format("Jan 2, 2006 at 3:04 PM")
	default:
		return "date unknown"
	}
}

// FormatDateRange renders a start/end pair, either of which may be
// absent. Equal values render once; when only one side is present it
// is rendered alone ("until <end>" for a lone end); two absent values
// render the fixed "date not specified" marker.
func FormatDateRange(start, end Date) string {
	switch {
	case start.IsZero() && end.IsZero():
		return "date not specified"
	case end.IsZero():
		return start.String()
	case start.IsZero():
		return "until " + end.String()
	case start.Kind == end.Kind && start.Time.Equal(end.Time):
		return start.String()
	default:
		return start.String() + " → " + end.String()
	}
}
