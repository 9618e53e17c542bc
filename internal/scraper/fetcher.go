// Package scraper implements the resilient acquisition pipeline: page
// fetching, table selection, header inference, row extraction, year
// discovery, and the fallback orchestration that ties them together.
package scraper

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/charmap"

	"vitidata/internal/config"
	"vitidata/internal/logger"
	"vitidata/internal/metrics"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Fetcher retrieves and parses source pages with bounded retries.
type Fetcher struct {
	client *http.Client
	retry  config.RetryPolicy
	log    *logger.Logger
}

// NewFetcher creates a fetcher using the given retry policy.
func NewFetcher(retry config.RetryPolicy, log *logger.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: retry.GetTimeout()},
		retry:  retry,
		log:    log,
	}
}

// Fetch issues a GET against baseURL with the given query parameters and
// returns the parsed document. Every failure mode — transport error,
// non-retryable status, retries exhausted, unparsable body — yields nil;
// the caller treats a nil document as "try the next fallback".
func (f *Fetcher) Fetch(ctx context.Context, baseURL string, params url.Values) *goquery.Document {
	target := baseURL
	if len(params) > 0 {
		target = baseURL + "?" + params.Encode()
	}

	for attempt := 1; attempt <= f.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			metrics.FetchRetries.Inc()

			if !sleepCtx(ctx, f.retry.GetRetryDelay(attempt)) {
				break
			}
		}

		doc, retryable := f.fetchOnce(ctx, target)
		if doc != nil {
			return doc
		}

		if !retryable {
			break
		}
	}

	metrics.FetchFailures.Inc()
	f.log.Warn("fetch yielded no document", "url", target)

	return nil
}

// fetchOnce performs a single attempt. The second return value reports
// whether another attempt is worthwhile.
func (f *Fetcher) fetchOnce(ctx context.Context, target string) (*goquery.Document, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		f.log.Debug("failed to build request", "url", target, "error", err)

		return nil, false
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		f.log.Debug("request failed", "url", target, "error", err)

		return nil, true
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.log.Debug("unexpected status", "url", target, "status", resp.StatusCode)

		return nil, isRetryableStatus(resp.StatusCode)
	}

	body := decodeBody(resp)

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		f.log.Debug("failed to parse document", "url", target, "error", err)

		return nil, false
	}

	return doc, false
}

// decodeBody transcodes legacy ISO-8859-1 responses to UTF-8. The source
// site has served both encodings across category pages and years.
func decodeBody(resp *http.Response) io.Reader {
	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if strings.Contains(contentType, "iso-8859-1") || strings.Contains(contentType, "latin1") {
		return charmap.ISO8859_1.NewDecoder().Reader(resp.Body)
	}

	return resp.Body
}

// isRetryableStatus reports whether a status indicates a transient
// server-side failure worth retrying.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusInternalServerError, // 500
		http.StatusBadGateway,         // 502
		http.StatusServiceUnavailable, // 503
		http.StatusGatewayTimeout:     // 504
		return true
	}

	return false
}

// sleepCtx waits for d or until the context is done. Returns false when the
// context ended the wait.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
