package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPFetcher retrieves iCal documents over HTTP(S).
type HTTPFetcher struct {
	username string
	password string
	client   *http.Client
}

// NewHTTPFetcher creates an HTTP fetcher. Credentials are optional;
// when both are set they are sent as basic auth.
func NewHTTPFetcher(username, password string) *HTTPFetcher {
	return &HTTPFetcher{
		username: username,
		password: password,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch retrieves the document at url.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/calendar")

	if f.username != "" && f.password != "" {
		req.SetBasicAuth(f.username, f.password)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("fetch calendar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("fetch calendar: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read body: %w", err)
	}

	return Result{
		Body: string(body),
		Freshness: Freshness{
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
			FetchedAt:    time.Now(),
		},
	}, nil
}

// Ensure HTTPFetcher implements the Fetcher interface.
var _ Fetcher = (*HTTPFetcher)(nil)
