package scraper

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"vitidata/internal/config"
	"vitidata/internal/logger"
	"vitidata/internal/metrics"
	"vitidata/internal/models"
	"vitidata/internal/taxonomy"
)

// SnapshotStore is the local snapshot collaborator. year == 0 loads the
// whole range.
type SnapshotStore interface {
	Read(category, subcategory string, year int) ([]models.Record, error)
}

// Client orchestrates the fallback chain: live fetch for a year, local
// snapshot for that year, full-range discovery with per-year aggregation,
// and the whole-range snapshot. It never fails outright for expected
// runtime conditions; only an unknown category surfaces as an error.
type Client struct {
	fetcher *Fetcher
	store   SnapshotStore
	baseURL string
	workers int
	log     *logger.Logger

	// now is injectable so year-bound behavior is testable.
	now func() time.Time
}

// NewClient creates an acquisition client.
func NewClient(cfg config.ScraperConfig, store SnapshotStore, log *logger.Logger) *Client {
	return &Client{
		fetcher: NewFetcher(cfg.Retry, log),
		store:   store,
		baseURL: cfg.BaseURL,
		workers: cfg.MultiYearWorkers,
		log:     log,
		now:     time.Now,
	}
}

// Acquire runs one acquisition. year == 0 requests the whole range. The
// returned error is non-nil only for configuration defects (unknown
// category or subcategory); every runtime failure mode is expressed through
// the result's provenance tag.
func (c *Client) Acquire(ctx context.Context, category, subcategory string, year int) (models.AcquisitionResult, error) {
	_, sub, err := taxonomy.Resolve(category, subcategory)
	if err != nil {
		return models.AcquisitionResult{}, err
	}

	params, err := taxonomy.QueryParams(category, subcategory)
	if err != nil {
		return models.AcquisitionResult{}, err
	}

	request := models.FetchRequest{
		Category:    category,
		Subcategory: subcategory,
		Year:        year,
		Params:      params,
	}

	var result models.AcquisitionResult

	if year != 0 {
		result = c.singleYear(ctx, request, sub.Products)
	} else {
		result = c.allYears(ctx, request, sub.Products)
	}

	metrics.AcquisitionsTotal.WithLabelValues(category, string(result.Source)).Inc()

	return result, nil
}

// singleYear handles the SingleYear state: bounds check, live fetch,
// snapshot fallback, explicit no-data outcome.
func (c *Client) singleYear(ctx context.Context, request models.FetchRequest, products taxonomy.ProductCategory) models.AcquisitionResult {
	year := request.Year
	currentYear := c.now().Year()

	if year > currentYear {
		// A future year retries the whole attempt at the current year,
		// at most once.
		c.log.Warn("future year requested, retrying at current year", "requested", year, "retry", currentYear)
		year = currentYear
	}

	scoped := request.WithYear(year)
	sourceURL := c.sourceURL(scoped.Params)

	if year < MinYear {
		c.log.Warn("year outside supported range", "year", year, "min", MinYear)

		return models.AcquisitionResult{
			Data:      []models.Record{},
			Source:    models.SourceInvalidYear,
			SourceURL: sourceURL,
			Detail:    fmt.Sprintf("year %d is before the first published series (%d)", year, MinYear),
		}
	}

	records := c.fetchYear(ctx, scoped)
	if len(records) > 0 {
		return models.AcquisitionResult{
			Data:      taxonomy.FilterByCategory(records, products),
			Source:    models.SourceWebScraping,
			SourceURL: sourceURL,
		}
	}

	fallback, err := c.store.Read(request.Category, request.Subcategory, year)
	if err != nil {
		c.log.Warn("snapshot read failed", "category", request.Category, "year", year, "error", err)
	}

	if len(fallback) > 0 {
		c.log.Info("serving snapshot fallback", "category", request.Category, "year", year, "records", len(fallback))

		return models.AcquisitionResult{
			Data:      taxonomy.FilterByCategory(fallback, products),
			Source:    models.SourceLocalCSV,
			SourceURL: sourceURL,
		}
	}

	return models.AcquisitionResult{
		Data:      []models.Record{},
		Source:    models.SourceNoDataFound,
		SourceURL: sourceURL,
		Detail:    fmt.Sprintf("no data found for year %d, live or local", year),
	}
}

// allYears handles the AllYears state: whole-range snapshot first, then
// year discovery and per-year aggregation over a bounded worker pool.
func (c *Client) allYears(ctx context.Context, request models.FetchRequest, products taxonomy.ProductCategory) models.AcquisitionResult {
	sourceURL := c.sourceURL(request.Params)

	// Cheapest path: the whole-range snapshot avoids the network entirely.
	fallback, err := c.store.Read(request.Category, request.Subcategory, 0)
	if err != nil {
		c.log.Warn("snapshot read failed", "category", request.Category, "error", err)
	}

	if len(fallback) > 0 {
		c.log.Info("serving whole-range snapshot", "category", request.Category, "records", len(fallback))

		return models.AcquisitionResult{
			Data:      taxonomy.FilterByCategory(fallback, products),
			Source:    models.SourceLocalCSV,
			SourceURL: sourceURL,
		}
	}

	landing := c.fetcher.Fetch(ctx, c.baseURL, request.Params)
	years := DiscoverYears(landing)

	c.log.Info("aggregating all discovered years", "category", request.Category, "years", len(years))

	var (
		mu        sync.Mutex
		collected = make(map[int][]models.Record, len(years))
		withData  atomic.Int64
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(c.workers)

	for _, year := range years {
		group.Go(func() error {
			// A cancelled context ends the fan-out without discarding
			// records already accumulated.
			if groupCtx.Err() != nil {
				return nil
			}

			metrics.YearsAttempted.WithLabelValues(request.Category).Inc()

			records := c.fetchYear(groupCtx, request.WithYear(year))
			if len(records) == 0 {
				return nil
			}

			withData.Add(1)
			metrics.YearsWithData.WithLabelValues(request.Category).Inc()

			mu.Lock()
			collected[year] = records
			mu.Unlock()

			return nil
		})
	}

	// Workers never return errors; Wait only synchronizes completion.
	_ = group.Wait()

	var data []models.Record
	for _, year := range years {
		data = append(data, collected[year]...)
	}

	c.log.Info("multi-year aggregation complete",
		"category", request.Category,
		"years_attempted", len(years),
		"years_with_data", withData.Load(),
		"records", len(data))

	// Nothing live and nothing on disk: an explicit empty outcome, not an
	// error.
	if len(data) == 0 {
		return models.AcquisitionResult{
			Data:      []models.Record{},
			Source:    models.SourceNoDataFound,
			SourceURL: sourceURL,
			Detail:    "no data found for any discovered year",
		}
	}

	return models.AcquisitionResult{
		Data:      taxonomy.FilterByCategory(data, products),
		Source:    models.SourceWebScrapingMultiYear,
		SourceURL: sourceURL,
	}
}

// fetchYear runs the fetch → score → infer → extract sequence for one year
// and stamps the year on every record. Every failure mode yields an empty
// sequence.
func (c *Client) fetchYear(ctx context.Context, request models.FetchRequest) []models.Record {
	doc := c.fetcher.Fetch(ctx, c.baseURL, request.Params)
	if doc == nil {
		return nil
	}

	table := SelectBestTable(doc)
	if table == nil {
		c.log.Debug("no candidate table", "category", request.Category, "year", request.Year)

		return nil
	}

	headers := InferHeaders(table)
	if len(headers) == 0 {
		c.log.Debug("no headers inferred", "category", request.Category, "year", request.Year)

		return nil
	}

	records := ExtractRows(table, headers, c.log)
	for _, record := range records {
		record.SetYearIfMissing(request.Year)
	}

	return records
}

// sourceURL reconstructs the request URL for diagnostics.
func (c *Client) sourceURL(params url.Values) string {
	if len(params) == 0 {
		return c.baseURL
	}

	return c.baseURL + "?" + params.Encode()
}
