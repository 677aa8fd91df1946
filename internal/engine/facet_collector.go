// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package engine

import "github.com/tomtom215/bareshelf/internal/cache"

// FacetCount is the number of documents under one facet.
type FacetCount struct {
	Facet Facet
	Count uint64
}

// FacetCounts maps facets to document counts.
type FacetCounts map[Facet]uint64

func betterFacetCount(a, b FacetCount) bool {
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	return a.Facet < b.Facet
}

// TopK returns the k largest counts, by count descending, then facet ascending.
func (fc FacetCounts) TopK(k int) []FacetCount {
	if k <= 0 {
		return nil
	}
	top := cache.NewTopK(k, betterFacetCount)
	for f, n := range fc {
		top.Push(FacetCount{Facet: f, Count: n})
	}
	return top.Sorted()
}

// FacetCountCollector counts, for every direct child of a root facet, the
// matching documents holding that child or a descendant of it. A document
// counts once per child.
type FacetCountCollector struct {
	field Field
	root  Facet
}

// NewFacetCountCollector counts children of root in a facet field.
func NewFacetCountCollector(field Field, root Facet) *FacetCountCollector {
	return &FacetCountCollector{field: field, root: root}
}

// ForSegment implements Collector.
func (c *FacetCountCollector) ForSegment(_ uint32, seg *Segment) (SegmentCollector[FacetCounts], error) {
	reader := seg.FacetReader(c.field)
	dict := reader.Dict()

	// childOf maps each dictionary ordinal to a slot in children, or -1.
	childOf := make([]int, dict.Len())
	slot := make(map[Facet]int)
	var children []Facet
	for ord := range childOf {
		f, _ := dict.OrdToFacet(uint64(ord))
		child, ok := f.ChildUnder(c.root)
		if !ok {
			childOf[ord] = -1
			continue
		}
		i, seen := slot[child]
		if !seen {
			i = len(children)
			slot[child] = i
			children = append(children, child)
		}
		childOf[ord] = i
	}
	return &segmentFacetCounts{
		reader:   reader,
		childOf:  childOf,
		children: children,
		counts:   make([]uint64, len(children)),
		lastDoc:  make([]int64, len(children)),
	}, nil
}

// Merge implements Collector.
func (c *FacetCountCollector) Merge(fruits []FacetCounts) (FacetCounts, error) {
	out := make(FacetCounts)
	for _, f := range fruits {
		for facet, n := range f {
			out[facet] += n
		}
	}
	return out, nil
}

type segmentFacetCounts struct {
	reader   *FacetReader
	childOf  []int
	children []Facet
	counts   []uint64
	lastDoc  []int64 // last doc counted per slot, +1 so zero means none
	buf      []uint64
}

func (s *segmentFacetCounts) Collect(doc DocID, _ float64) {
	if len(s.children) == 0 {
		return
	}
	s.buf = s.reader.Ords(doc, s.buf)
	stamp := int64(doc) + 1
	for _, ord := range s.buf {
		i := s.childOf[ord]
		if i < 0 || s.lastDoc[i] == stamp {
			continue
		}
		s.lastDoc[i] = stamp
		s.counts[i]++
	}
}

func (s *segmentFacetCounts) Harvest() (FacetCounts, error) {
	out := make(FacetCounts, len(s.children))
	for i, n := range s.counts {
		if n > 0 {
			out[s.children[i]] = n
		}
	}
	return out, nil
}
