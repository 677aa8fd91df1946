// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

/*
Package engine is the embedded inverted-index engine that the recipe search
core is written against.

An Index is one document collection persisted in its own BadgerDB directory.
Documents are staged by a single Writer, flushed into immutable segments and
published atomically by Commit. Readers hand out point-in-time Snapshots that
never observe a write in progress.

# Fields

A Schema is fixed when the index is created and persisted next to the data:

  - Text fields are tokenized by SimpleAnalyzer and scored with BM25
  - String fields are indexed as one exact token
  - Facet fields hold hierarchical category paths (/ingredient/egg) with a
    per-segment ordinal dictionary and a per-document ordinal column

# Queries and Collectors

Queries (TermQuery, BooleanQuery, PrefixQuery, AllQuery, QueryParser output)
produce per-segment hit lists. Search hands every hit of a segment to that
segment's private SegmentCollector; segments may run in parallel and their
fruits are combined with Collector.Merge, which must be associative and
commutative:

	top, err := engine.Search(ctx, snap, query,
	    engine.TopDocs(10).TweakScore(func(seg *engine.Segment) (engine.ScoreFunc, error) {
	        return func(doc engine.DocID, score float64) float64 { return score * 2 }, nil
	    }))

Custom collectors resolve facet ordinals through Segment.FacetReader. Ordinals
are only meaningful inside one segment, so Harvest must translate them back to
Facet values before the cross-segment merge.

# On-disk layout

	m/schema                   schema (JSON)
	m/manifest                 generation and committed segment ids (JSON)
	s/<segment>/m/             segment metadata
	s/<segment>/t/<field><term> postings
	s/<segment>/n/<field>      field norms
	s/<segment>/f/<field>      facet dictionary and ordinal column
	s/<segment>/d/<doc>        stored document

Only segments listed in the manifest are visible. Segment keys left behind by
a failed commit are dropped the next time the index is opened.
*/
package engine
