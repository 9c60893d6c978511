package ical

import "strings"

// Calendar-level header and footer lines. The product identifier is
// fixed: the interesting content of an output calendar is the verbatim
// VEVENT blocks, not calendar-level metadata.
const (
	calBegin   = "BEGIN:VCALENDAR"
	calVersion = "VERSION:2.0"
	calProdID  = "PRODID:-//CalSift//CalSift//EN"
	calEnd     = "END:VCALENDAR"
)

// Serialize assembles a calendar document from the given events. Each
// event contributes its Raw block byte for byte; parsed fields are
// never used to rebuild VEVENT text, so properties this package does
// not model (RRULE, ATTENDEE, anything vendor-specific) pass through
// untouched. An empty input still yields a structurally valid, empty
// calendar.
func Serialize(events []Event) string {
	var b strings.Builder
	b.WriteString(calBegin)
	b.WriteByte('\n')
	b.WriteString(calVersion)
	b.WriteByte('\n')
	b.WriteString(calProdID)
	b.WriteByte('\n')
	for _, ev := range events {
		b.WriteString(ev.Raw)
		b.WriteByte('\n')
	}
	b.WriteString(calEnd)
	b.WriteByte('\n')
	return b.String()
}
