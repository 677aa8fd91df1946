// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

/*
Package metrics provides Prometheus metrics for the index engine and the search core.

All collectors are registered on the default registry through promauto at
package init, so recording never fails and never needs a handle.

# Metrics Endpoint

When metrics are enabled, the maintenance supervisor serves Handler at
/metrics:

	curl http://localhost:9464/metrics

# Available Metrics

Index:
  - bareshelf_index_commit_duration_seconds{index}
  - bareshelf_index_commits_total{index, result}
  - bareshelf_index_docs_staged_total{index}
  - bareshelf_index_docs_committed_total{index}
  - bareshelf_index_segments{index}, bareshelf_index_docs{index}, bareshelf_index_generation{index}
  - bareshelf_index_merge_duration_seconds{index}, bareshelf_index_segments_merged_total{index}

Storage:
  - bareshelf_store_gc_runs_total{index, result}
  - bareshelf_store_gc_rewrites_total{index}
  - bareshelf_store_gc_duration_seconds{index}

Search:
  - bareshelf_search_duration_seconds{operation}
  - bareshelf_search_errors_total{operation, error_type}
  - bareshelf_search_results{operation}
  - bareshelf_facet_cache_hits_total, bareshelf_facet_cache_misses_total
  - bareshelf_popular_unresolved_total

The index label is the collection name ("recipes", "ingredients"). The
operation label is the Searcher method ("recipes", "ingredients",
"popular_ingredients", "facet_counts").
*/
package metrics
