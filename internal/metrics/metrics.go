// Package metrics exposes Prometheus counters for the acquisition pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AcquisitionsTotal counts completed acquisitions by category and
	// provenance tag, so fallback-tier usage is visible over time.
	AcquisitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitidata_acquisitions_total",
			Help: "Completed acquisitions by category and provenance",
		},
		[]string{"category", "source"},
	)

	// YearsAttempted counts per-year fetch attempts in multi-year mode.
	YearsAttempted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitidata_years_attempted_total",
			Help: "Per-year fetch attempts during multi-year acquisition",
		},
		[]string{"category"},
	)

	// YearsWithData counts per-year attempts that yielded records.
	YearsWithData = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitidata_years_with_data_total",
			Help: "Per-year fetch attempts that produced records",
		},
		[]string{"category"},
	)

	// FetchRetries counts transient upstream failures that triggered a retry.
	FetchRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vitidata_fetch_retries_total",
			Help: "HTTP fetch attempts retried after a transient failure",
		},
	)

	// FetchFailures counts fetches that exhausted retries or failed to parse.
	FetchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vitidata_fetch_failures_total",
			Help: "HTTP fetches that yielded no usable document",
		},
	)

	// CacheHits counts memoized responses served without running the pipeline.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vitidata_cache_hits_total",
			Help: "Requests served from the memoization layer",
		},
	)
)
