package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testFeed = `BEGIN:VCALENDAR
VERSION:2.0
BEGIN:VEVENT
UID:fetched-1
SUMMARY:Remote event
END:VEVENT
END:VCALENDAR`

func TestHTTPFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "text/calendar" {
			t.Errorf("Accept header = %q, want text/calendar", got)
		}
		w.Header().Set("ETag", `"v1"`)
		w.Header().Set("Last-Modified", "Mon, 15 Jan 2024 09:00:00 GMT")
		w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	res, err := NewHTTPFetcher("", "").Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if res.Body != testFeed {
		t.Errorf("Body = %q, want the served feed", res.Body)
	}
	if res.Freshness.ETag != `"v1"` {
		t.Errorf("ETag = %q, want %q", res.Freshness.ETag, `"v1"`)
	}
	if res.Freshness.LastModified != "Mon, 15 Jan 2024 09:00:00 GMT" {
		t.Errorf("LastModified = %q", res.Freshness.LastModified)
	}
	if res.Freshness.FetchedAt.IsZero() {
		t.Error("FetchedAt not set")
	}
}

func TestHTTPFetcher_BasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "bob" || pass != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	if _, err := NewHTTPFetcher("bob", "hunter2").Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("Fetch with credentials: %v", err)
	}

	if _, err := NewHTTPFetcher("", "").Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error when server rejects unauthenticated request")
	}
}

func TestHTTPFetcher_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := NewHTTPFetcher("", "").Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestHTTPFetcher_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewHTTPFetcher("", "").Fetch(ctx, srv.URL); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
