// Package fetch retrieves calendar text from remote sources.
//
// The extraction pipeline never fetches on its own: it takes a Fetcher
// and calls it. This package supplies the two implementations the
// daemon configures, but callers are free to inject their own.
package fetch

import (
	"context"
	"time"
)

// Freshness carries the cache-validation metadata a source reported
// alongside its body. Nothing in this module caches; callers that want
// conditional fetching or staleness checks hold on to these values
// themselves.
type Freshness struct {
	ETag         string
	LastModified string
	FetchedAt    time.Time
}

// Result is one fetched calendar document.
type Result struct {
	Body      string
	Freshness Freshness
}

// Fetcher retrieves the calendar text behind a URL. Implementations
// return an error rather than partial content; callers decide how to
// degrade.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Result, error)
}
