// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus instrumentation for:
// - index commits, segments and merges
// - value-log garbage collection
// - recipe and ingredient searches
// - the facet-count cache

var (
	// Index Metrics
	IndexCommitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bareshelf_index_commit_duration_seconds",
			Help:    "Duration of index commits in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"index"},
	)

	IndexCommitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bareshelf_index_commits_total",
			Help: "Total number of index commits by result",
		},
		[]string{"index", "result"}, // "success", "error"
	)

	IndexDocsStaged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bareshelf_index_docs_staged_total",
			Help: "Total number of documents staged for commit",
		},
		[]string{"index"},
	)

	IndexDocsCommitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bareshelf_index_docs_committed_total",
			Help: "Total number of documents made visible by a commit",
		},
		[]string{"index"},
	)

	IndexSegments = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bareshelf_index_segments",
			Help: "Number of committed segments in the current snapshot",
		},
		[]string{"index"},
	)

	IndexDocs = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bareshelf_index_docs",
			Help: "Number of documents in the current snapshot",
		},
		[]string{"index"},
	)

	IndexGeneration = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bareshelf_index_generation",
			Help: "Commit generation of the current snapshot",
		},
		[]string{"index"},
	)

	IndexMergeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bareshelf_index_merge_duration_seconds",
			Help:    "Duration of segment merges in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"index"},
	)

	IndexSegmentsMerged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bareshelf_index_segments_merged_total",
			Help: "Total number of segments folded into merged segments",
		},
		[]string{"index"},
	)

	// Storage Metrics
	StoreGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bareshelf_store_gc_runs_total",
			Help: "Total number of value-log GC runs by result",
		},
		[]string{"index", "result"},
	)

	StoreGCRewrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bareshelf_store_gc_rewrites_total",
			Help: "Total number of value-log files rewritten by GC",
		},
		[]string{"index"},
	)

	StoreGCDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bareshelf_store_gc_duration_seconds",
			Help:    "Duration of value-log GC runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"index"},
	)

	// Search Metrics
	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bareshelf_search_duration_seconds",
			Help:    "Duration of search operations in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)

	SearchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bareshelf_search_errors_total",
			Help: "Total number of failed search operations",
		},
		[]string{"operation", "error_type"}, // "canceled", "error"
	)

	SearchResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bareshelf_search_results",
			Help:    "Number of results returned per search operation",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
		},
		[]string{"operation"},
	)

	// Facet Cache Metrics
	FacetCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bareshelf_facet_cache_hits_total",
			Help: "Total number of facet-count cache hits",
		},
	)

	FacetCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bareshelf_facet_cache_misses_total",
			Help: "Total number of facet-count cache misses",
		},
	)

	PopularUnresolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bareshelf_popular_unresolved_total",
			Help: "Total number of popular ingredient slugs missing from the ingredient catalog",
		},
	)
)

// RecordStaged counts one staged document.
func RecordStaged(index string) {
	IndexDocsStaged.WithLabelValues(index).Inc()
}

// RecordCommit records a commit attempt.
func RecordCommit(index string, duration time.Duration, docs uint64, err error) {
	IndexCommitDuration.WithLabelValues(index).Observe(duration.Seconds())
	if err != nil {
		IndexCommitsTotal.WithLabelValues(index, "error").Inc()
		return
	}
	IndexCommitsTotal.WithLabelValues(index, "success").Inc()
	IndexDocsCommitted.WithLabelValues(index).Add(float64(docs))
}

// SetIndexState publishes the shape of the current snapshot.
func SetIndexState(index string, generation uint64, segments int, docs uint64) {
	IndexGeneration.WithLabelValues(index).Set(float64(generation))
	IndexSegments.WithLabelValues(index).Set(float64(segments))
	IndexDocs.WithLabelValues(index).Set(float64(docs))
}

// RecordMerge records a completed segment merge.
func RecordMerge(index string, duration time.Duration, merged int) {
	IndexMergeDuration.WithLabelValues(index).Observe(duration.Seconds())
	IndexSegmentsMerged.WithLabelValues(index).Add(float64(merged))
}

// RecordGC records one value-log GC pass.
func RecordGC(index string, duration time.Duration, rewritten int, err error) {
	StoreGCDuration.WithLabelValues(index).Observe(duration.Seconds())
	if err != nil {
		StoreGCRuns.WithLabelValues(index, "error").Inc()
		return
	}
	StoreGCRuns.WithLabelValues(index, "success").Inc()
	StoreGCRewrites.WithLabelValues(index).Add(float64(rewritten))
}

// RecordSearch records one search operation.
func RecordSearch(operation string, duration time.Duration, results int, err error) {
	SearchDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		SearchErrors.WithLabelValues(operation, errorType(err)).Inc()
		return
	}
	SearchResults.WithLabelValues(operation).Observe(float64(results))
}

// RecordFacetCache records a facet-count cache lookup.
func RecordFacetCache(hit bool) {
	if hit {
		FacetCacheHits.Inc()
	} else {
		FacetCacheMisses.Inc()
	}
}

// RecordPopularUnresolved counts a popular slug that had no catalog entry.
func RecordPopularUnresolved() {
	PopularUnresolved.Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

func errorType(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "error"
}
