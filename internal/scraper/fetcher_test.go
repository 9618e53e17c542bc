package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"vitidata/internal/config"
	"vitidata/internal/logger"
)

func testRetryPolicy(attempts int) config.RetryPolicy {
	return config.RetryPolicy{MaxAttempts: attempts, BackoffFactor: 0, TimeoutSec: 5}
}

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><table><tr><td>ok</td></tr></table></body></html>"))
	}))
	defer srv.Close()

	f := NewFetcher(testRetryPolicy(3), logger.NewNop())

	doc := f.Fetch(context.Background(), srv.URL, nil)
	if doc == nil {
		t.Fatal("expected a document")
	}

	if got := doc.Find("td").Text(); got != "ok" {
		t.Errorf("unexpected document content: %q", got)
	}
}

func TestFetchSendsQueryParams(t *testing.T) {
	var gotQuery atomic.Value

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query().Encode())
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	f := NewFetcher(testRetryPolicy(1), logger.NewNop())

	params := url.Values{}
	params.Set("opcao", "opt_05")
	params.Set("ano", "2020")

	if doc := f.Fetch(context.Background(), srv.URL, params); doc == nil {
		t.Fatal("expected a document")
	}

	if got := gotQuery.Load(); got != "ano=2020&opcao=opt_05" {
		t.Errorf("server saw query %q", got)
	}
}

func TestFetchRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}

		w.Write([]byte("<html><body>recovered</body></html>"))
	}))
	defer srv.Close()

	f := NewFetcher(testRetryPolicy(3), logger.NewNop())

	doc := f.Fetch(context.Background(), srv.URL, nil)
	if doc == nil {
		t.Fatal("expected a document after retries")
	}

	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestFetchDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(testRetryPolicy(3), logger.NewNop())

	if doc := f.Fetch(context.Background(), srv.URL, nil); doc != nil {
		t.Error("expected nil document for 404")
	}

	if calls.Load() != 1 {
		t.Errorf("404 must not be retried, got %d attempts", calls.Load())
	}
}

func TestFetchExhaustsRetries(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher(testRetryPolicy(3), logger.NewNop())

	if doc := f.Fetch(context.Background(), srv.URL, nil); doc != nil {
		t.Error("expected nil document when retries are exhausted")
	}

	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestFetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	f := NewFetcher(testRetryPolicy(2), logger.NewNop())

	if doc := f.Fetch(context.Background(), srv.URL, nil); doc != nil {
		t.Error("expected nil document on transport error")
	}
}

func TestFetchCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher(testRetryPolicy(3), logger.NewNop())

	if doc := f.Fetch(ctx, srv.URL, nil); doc != nil {
		t.Error("expected nil document for cancelled context")
	}
}

func TestFetchDecodesLatin1(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		// "País" with í encoded as the single Latin-1 byte 0xED.
		w.Write([]byte("<html><body><table><tr><td>Pa\xeds</td></tr></table></body></html>"))
	}))
	defer srv.Close()

	f := NewFetcher(testRetryPolicy(1), logger.NewNop())

	doc := f.Fetch(context.Background(), srv.URL, nil)
	if doc == nil {
		t.Fatal("expected a document")
	}

	if got := doc.Find("td").Text(); got != "País" {
		t.Errorf("latin1 body not transcoded, got %q", got)
	}
}

func TestIsRetryableStatus(t *testing.T) {
	retryable := []int{500, 502, 503, 504}
	for _, code := range retryable {
		if !isRetryableStatus(code) {
			t.Errorf("status %d should be retryable", code)
		}
	}

	for _, code := range []int{200, 301, 400, 404, 501} {
		if isRetryableStatus(code) {
			t.Errorf("status %d should not be retryable", code)
		}
	}
}
