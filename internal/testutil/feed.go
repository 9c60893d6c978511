// Package testutil builds synthetic iCalendar feeds for tests.
package testutil

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jaswdr/faker"
)

// FeedBuilder accumulates VEVENT blocks and renders them as a single
// VCALENDAR document.
type FeedBuilder struct {
	faker  faker.Faker
	blocks []string
}

// NewFeedBuilder creates an empty feed builder.
func NewFeedBuilder() *FeedBuilder {
	return &FeedBuilder{
		faker: faker.New(),
	}
}

// AddEvent appends one event with the given summary and DTSTART value.
// The UID, location, and description are generated.
func (b *FeedBuilder) AddEvent(summary, start string) *FeedBuilder {
	var block strings.Builder
	block.WriteString("BEGIN:VEVENT\n")
	block.WriteString("UID:" + uuid.New().String() + "\n")
	block.WriteString("SUMMARY:" + summary + "\n")
	block.WriteString("DTSTART:" + start + "\n")
	block.WriteString("LOCATION:" + b.faker.Address().City() + "\n")
	block.WriteString("DESCRIPTION:" + b.faker.Lorem().Sentence(6) + "\n")
	block.WriteString("END:VEVENT")

	b.blocks = append(b.blocks, block.String())
	return b
}

// AddRandomEvents appends n generated events starting on consecutive
// days from a fixed base date, so callers can assert on counts and
// ordering without seeding randomness.
func (b *FeedBuilder) AddRandomEvents(n int) *FeedBuilder {
	base := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		start := base.AddDate(0, 0, i).Format("20060102T150405")
		b.AddEvent(b.faker.Lorem().Sentence(3), start)
	}
	return b
}

// String renders the accumulated events as a VCALENDAR document.
func (b *FeedBuilder) String() string {
	var feed strings.Builder
	feed.WriteString("BEGIN:VCALENDAR\n")
	feed.WriteString("VERSION:2.0\n")
	feed.WriteString("PRODID:-//Test//Test//EN\n")
	for _, block := range b.blocks {
		feed.WriteString(block)
		feed.WriteByte('\n')
	}
	feed.WriteString("END:VCALENDAR\n")
	return feed.String()
}
