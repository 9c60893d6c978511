// Package feed assembles filtered calendar documents from configured
// sources.
package feed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/calsift/calsift/internal/config"
	"github.com/calsift/calsift/internal/fetch"
	"github.com/calsift/calsift/internal/filter"
	"github.com/calsift/calsift/internal/ical"
	"github.com/calsift/calsift/internal/metrics"
)

// Source pairs a named fetcher with its per-source filter.
type Source struct {
	Name    string
	URL     string
	Fetcher fetch.Fetcher
	Filter  filter.Predicate
}

// Service fetches sources, extracts their events, and applies filters
// and output transforms.
type Service struct {
	logger  *zap.Logger
	metrics *metrics.Collector
	output  config.OutputConfig
}

// NewService creates a feed service. logger may be nil; collector may
// be nil when metrics are not wanted.
func NewService(logger *zap.Logger, collector *metrics.Collector, output config.OutputConfig) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		logger:  logger,
		metrics: collector,
		output:  output,
	}
}

// Collect fetches one source and returns its filtered events. A failed
// fetch is logged and counted but returns nil, so the other sources
// still contribute.
func (s *Service) Collect(ctx context.Context, src Source) []ical.Event {
	res, err := src.Fetcher.Fetch(ctx, src.URL)
	if err != nil {
		s.logger.Warn("failed to fetch source",
			zap.String("source", src.Name),
			zap.Error(err),
		)
		s.metrics.IncFetchFailures(src.Name)
		return nil
	}

	events, stats := ical.ExtractWithStats(res.Body)

	parseFailures := 0
	for _, ev := range events {
		if ev.Start != "" && ev.StartDate().IsZero() {
			parseFailures++
		}
	}

	kept := events
	if src.Filter != nil {
		kept = filter.Apply(events, src.Filter)
	}

	s.metrics.AddEventsExtracted(src.Name, stats.Events)
	s.metrics.AddEventsMissingUID(src.Name, stats.MissingUID)
	s.metrics.AddBlocksTruncated(src.Name, stats.Truncated)
	s.metrics.AddDateParseFailures(src.Name, parseFailures)

	s.logger.Info("fetched source",
		zap.String("source", src.Name),
		zap.Int("blocks", stats.Blocks),
		zap.Int("events", stats.Events),
		zap.Int("after_filter", len(kept)),
		zap.Int("missing_uid", stats.MissingUID),
		zap.Int("truncated", stats.Truncated),
		zap.Time("fetched_at", res.Freshness.FetchedAt),
	)

	return kept
}

// CollectAll fetches every source in parallel and merges the surviving
// events, ordered per the output configuration.
func (s *Service) CollectAll(ctx context.Context, sources []Source) []ical.Event {
	results := make(chan []ical.Event, len(sources))
	var wg sync.WaitGroup

	for _, src := range sources {
		wg.Go(func() {
			results <- s.Collect(ctx, src)
		})
	}

	// Close results channel when all goroutines complete
	go func() {
		wg.Wait()
		close(results)
	}()

	var all []ical.Event
	for events := range results {
		all = append(all, events...)
	}

	if s.output.Order != "none" {
		all = filter.SortByStart()(all)
	}

	s.logger.Info("collect complete", zap.Int("events", len(all)))
	return all
}

// BuildCalendar fetches every source and serializes the surviving
// events as a single VCALENDAR document.
func (s *Service) BuildCalendar(ctx context.Context, sources []Source) string {
	return ical.Serialize(s.CollectAll(ctx, sources))
}

// Grouped fetches every source and buckets the surviving events per
// the output configuration. Without a group_by setting, a single
// unkeyed group holds everything.
func (s *Service) Grouped(ctx context.Context, sources []Source) []filter.Group {
	events := s.CollectAll(ctx, sources)

	var groups []filter.Group
	switch s.output.GroupBy {
	case "year":
		groups = filter.GroupByYear(events)
	case "month":
		groups = filter.GroupByMonth(events)
	case "summary":
		groups = filter.GroupBySummary(events)
	default:
		groups = []filter.Group{{Events: events}}
	}

	if s.output.GroupSort == "count" {
		groups = filter.SortGroupsByCount(groups)
	}

	return groups
}

// SourcesFromConfig builds fetchers and per-source filters from
// configuration.
func SourcesFromConfig(cfgs []config.SourceConfig) ([]Source, error) {
	var sources []Source

	for _, cfg := range cfgs {
		password, err := cfg.GetPassword()
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", cfg.Name, err)
		}

		var fetcher fetch.Fetcher
		switch cfg.Type {
		case "", "ics":
			fetcher = fetch.NewHTTPFetcher(cfg.Username, password)
		case "caldav":
			fetcher = fetch.NewCalDAVFetcher(cfg.Username, password, cfg.Calendars)
		default:
			return nil, fmt.Errorf("source %s: unknown type %q", cfg.Name, cfg.Type)
		}

		pred, err := filter.FromConfig(cfg.Filters)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", cfg.Name, err)
		}

		sources = append(sources, Source{
			Name:    cfg.Name,
			URL:     cfg.URL,
			Fetcher: fetcher,
			Filter:  pred,
		})
	}

	return sources, nil
}

// WriteFile writes content to path atomically, creating parent
// directories as needed.
func WriteFile(path, content string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	// Write to temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath) // Clean up temp file on error
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
