// Package models defines the data shapes shared across the acquisition pipeline.
package models

import (
	"net/url"
	"sort"
	"strconv"
)

// YearField is the record field carrying the reference year.
const YearField = "Ano"

// Record is one extracted data row, keyed by inferred column name.
// Values are strings for textual columns and float64 for cleaned
// numeric columns; a cell that failed numeric cleaning stays a string.
type Record map[string]any

// Year returns the record's year, or 0 when absent or unparsable.
func (r Record) Year() int {
	switch v := r[YearField].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		year, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}

		return year
	}

	return 0
}

// SetYearIfMissing stamps the year field unless the row already carries one.
func (r Record) SetYearIfMissing(year int) {
	if v, ok := r[YearField]; !ok || v == "" || v == nil {
		r[YearField] = year
	}
}

// Keys returns the record's field names in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Source identifies which fallback tier produced a result.
type Source string

// Provenance tags, from cheapest live path to terminal outcomes.
const (
	SourceWebScraping          Source = "web_scraping"
	SourceWebScrapingMultiYear Source = "web_scraping_multi_year"
	SourceLocalCSV             Source = "local_csv"
	SourceNoDataFound          Source = "no_data_found"
	SourceInvalidYear          Source = "invalid_year"
	SourceError                Source = "error"
)

// AcquisitionResult is the unit returned to every caller. It is never
// partial: either Data carries the best obtainable records or the
// provenance tag explains the empty sequence.
type AcquisitionResult struct {
	Data      []Record `json:"data"`
	Source    Source   `json:"source"`
	SourceURL string   `json:"source_url,omitempty"`
	Detail    string   `json:"detail,omitempty"`
}

// Empty reports whether the result carries no records.
func (r AcquisitionResult) Empty() bool {
	return len(r.Data) == 0
}

// FetchRequest describes one acquisition attempt. It is immutable per
// attempt; multi-year mode constructs a fresh request per year.
type FetchRequest struct {
	Category    string
	Subcategory string
	Year        int
	Params      url.Values
}

// WithYear returns a copy of the request scoped to a single year.
func (fr FetchRequest) WithYear(year int) FetchRequest {
	params := url.Values{}
	for k, vs := range fr.Params {
		for _, v := range vs {
			params.Add(k, v)
		}
	}

	params.Set("ano", strconv.Itoa(year))

	return FetchRequest{
		Category:    fr.Category,
		Subcategory: fr.Subcategory,
		Year:        year,
		Params:      params,
	}
}
