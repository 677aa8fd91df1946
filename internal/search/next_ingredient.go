// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package search

import (
	"fmt"

	"github.com/tomtom215/bareshelf/internal/engine"
)

// NextIngredientCollector counts, for every facet, the matching documents
// that miss exactly that one facet from the shelf. Buying a counted
// ingredient makes that many more recipes cookable.
//
// Per-segment counts are keyed by ordinal and resolved to facet paths in
// Harvest, so Merge only ever combines stable keys.
type NextIngredientCollector struct {
	field engine.Field
	shelf []engine.Facet
}

// NewNextIngredientCollector returns a collector over the facet field.
func NewNextIngredientCollector(field engine.Field, shelf []engine.Facet) *NextIngredientCollector {
	return &NextIngredientCollector{field: field, shelf: shelf}
}

// ForSegment implements engine.Collector.
func (c *NextIngredientCollector) ForSegment(_ uint32, seg *engine.Segment) (engine.SegmentCollector[map[engine.Facet]int], error) {
	reader := seg.FacetReader(c.field)
	dict := reader.Dict()
	return &segmentNextIngredients{
		reader: reader,
		dict:   dict,
		shelf:  shelfOrdinals(dict, c.shelf),
		counts: make(map[uint64]int),
	}, nil
}

// Merge implements engine.Collector by summing counts per facet.
func (c *NextIngredientCollector) Merge(fruits []map[engine.Facet]int) (map[engine.Facet]int, error) {
	out := make(map[engine.Facet]int)
	for _, fruit := range fruits {
		for f, n := range fruit {
			out[f] += n
		}
	}
	return out, nil
}

type segmentNextIngredients struct {
	reader *engine.FacetReader
	dict   engine.FacetDict
	shelf  map[uint64]struct{}
	counts map[uint64]int
	buf    []uint64
}

func (s *segmentNextIngredients) Collect(doc engine.DocID, _ float64) {
	s.buf = s.reader.Ords(doc, s.buf)
	if n, ord := countMissing(s.buf, s.shelf); n == 1 {
		s.counts[ord]++
	}
}

func (s *segmentNextIngredients) Harvest() (map[engine.Facet]int, error) {
	out := make(map[engine.Facet]int, len(s.counts))
	for ord, n := range s.counts {
		f, ok := s.dict.OrdToFacet(ord)
		if !ok {
			return nil, fmt.Errorf("%w: facet ordinal %d out of range", engine.ErrCorrupt, ord)
		}
		out[f] += n
	}
	return out, nil
}
