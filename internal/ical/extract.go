package ical

import "strings"

const (
	beginEvent = "BEGIN:VEVENT"
	endEvent   = "END:VEVENT"
)

// Stats counts what one extraction pass saw. MissingUID in particular
// is worth watching: a feed that suddenly drops UIDs silently loses
// every event, and this is the only place that shows up.
type Stats struct {
	Blocks     int // VEVENT blocks closed by an END marker
	Truncated  int // blocks still open at end of input
	MissingUID int // closed blocks dropped for lack of a UID
	Events     int // events returned
}

// Extract splits calendar text into VEVENT blocks and parses each into
// an Event. See ExtractWithStats for the counts it discards.
func Extract(text string) []Event {
	events, _ := ExtractWithStats(text)
	return events
}

// ExtractWithStats scans the input line by line with a small state
// machine: a BEGIN:VEVENT line opens a block, the nearest following
// END:VEVENT line closes it, and the block's Raw text is sliced
// directly out of the input so every retained byte is original. A
// BEGIN seen inside an open block is kept as an ordinary line; a
// stray END outside any block is ignored; a block still open at end
// of input yields no Event. Events lacking a UID are dropped. Blank
// input returns an empty sequence; extraction itself never fails.
func ExtractWithStats(text string) ([]Event, Stats) {
	var (
		events     []Event
		stats      Stats
		inside     bool
		blockStart int
	)

	pos := 0
	for pos < len(text) {
		next := len(text)
		line := text[pos:]
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
			next = pos + i + 1
		}
		marker := strings.TrimRight(line, "\r")

		switch {
		case !inside && marker == beginEvent:
			inside = true
			blockStart = pos

		case inside && marker == endEvent:
			inside = false
			stats.Blocks++

			ev := parseBlock(text[blockStart : pos+len(marker)])
			if ev.UID == "" {
				stats.MissingUID++
				break
			}
			events = append(events, ev)
		}

		pos = next
	}

	if inside {
		stats.Truncated++
	}
	stats.Events = len(events)

	return events, stats
}

// parseBlock extracts the modeled properties from one raw VEVENT block.
func parseBlock(raw string) Event {
	return Event{
		UID:         property(raw, "UID"),
		Summary:     property(raw, "SUMMARY"),
		Start:       property(raw, "DTSTART"),
		End:         property(raw, "DTEND"),
		Location:    property(raw, "LOCATION"),
		Description: property(raw, "DESCRIPTION"),
		Raw:         raw,
	}
}

// property returns the value of the first line in block that starts
// with name followed directly by a colon or by ';'-delimited
// parameters (e.g. DTSTART;VALUE=DATE:20240106). The value is the
// trimmed remainder of the line after the first colon past the name.
// A property that is not present yields an empty string.
func property(block, name string) string {
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.HasPrefix(line, name) {
			continue
		}

		rest := line[len(name):]
		if rest == "" {
			continue
		}
		switch rest[0] {
		case ':':
			return strings.TrimSpace(rest[1:])
		case ';':
			if i := strings.IndexByte(rest, ':'); i >= 0 {
				return strings.TrimSpace(rest[i+1:])
			}
		}
	}
	return ""
}
