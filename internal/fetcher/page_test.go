package fetcher

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestFetchSendsHeaders(t *testing.T) {
	var gotUA, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	c := NewClient(time.Second, zerolog.Nop())
	headers := map[string]string{
		"User-Agent":      "test-agent",
		"Accept-Language": "en-US,en;q=0.5",
	}

	body, err := c.Fetch(context.Background(), srv.URL, headers)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if body != "<html></html>" {
		t.Fatalf("body = %q", body)
	}
	if gotUA != "test-agent" || gotLang != "en-US,en;q=0.5" {
		t.Fatalf("headers not forwarded: UA=%q Lang=%q", gotUA, gotLang)
	}
}

func TestFetchDecodesGzipOrigin(t *testing.T) {
	const page = `<html><body><table class="table-heatmap"></table></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			t.Fatalf("client should negotiate gzip, got %q", r.Header.Get("Accept-Encoding"))
		}
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		defer gz.Close()
		_, _ = gz.Write([]byte(page))
	}))
	defer srv.Close()

	c := NewClient(time.Second, zerolog.Nop())
	headers := map[string]string{
		"User-Agent": "test-agent",
		// A configured Accept-Encoding must not reach the wire: it would
		// disable the transport's transparent decoding.
		"Accept-Encoding": "gzip, deflate, br",
	}

	body, err := c.Fetch(context.Background(), srv.URL, headers)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if body != page {
		t.Fatalf("body should arrive decoded, got %q", body)
	}
}

func TestFetchNon2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(time.Second, zerolog.Nop())
	if _, err := c.Fetch(context.Background(), srv.URL, nil); err == nil {
		t.Fatal("status 429 should be a fetch failure")
	}
}

func TestFetchContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(time.Minute, zerolog.Nop())
	if _, err := c.Fetch(ctx, srv.URL, nil); err == nil {
		t.Fatal("canceled context should fail the fetch")
	}
}
