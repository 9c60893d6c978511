// Package ical extracts calendar events from iCalendar text and
// re-serializes filtered subsets of them.
package ical

// Event represents one VEVENT occurrence from a calendar feed.
type Event struct {
	// UID is the unique identifier for this event. Blocks without a UID
	// never make it past extraction.
	UID string

	// Summary is the event title.
	Summary string

	// Start is the raw iCalendar start value exactly as it appeared in
	// the feed, e.g. "20240106" or "20240106T120000". Use StartDate for
	// the parsed form.
	Start string

	// End is the raw iCalendar end value.
	End string

	// Location is the event location.
	Location string

	// Description is the full event description/body.
	Description string

	// Raw is the original VEVENT block, BEGIN:VEVENT through END:VEVENT
	// inclusive. It is set once at extraction time and never rebuilt
	// from the parsed fields; serialization emits it verbatim, so
	// properties this package does not model survive untouched.
	Raw string
}

// StartDate returns the parsed start value. A zero Date means the raw
// value was absent or not a recognized encoding.
func (e *Event) StartDate() Date {
	return ParseDate(e.Start)
}

// EndDate returns the parsed end value.
func (e *Event) EndDate() Date {
	return ParseDate(e.End)
}

// When renders the event's date range for display.
func (e *Event) When() string {
	return FormatDateRange(e.StartDate(), e.EndDate())
}
