// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package engine

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Collector aggregates the hits of a query into a fruit of type F.
//
// Search calls ForSegment once per segment, possibly from several goroutines
// at once. Each SegmentCollector is used by a single goroutine only. Merge
// combines the per-segment fruits and must be associative and commutative.
type Collector[F any] interface {
	ForSegment(ord uint32, seg *Segment) (SegmentCollector[F], error)
	Merge(fruits []F) (F, error)
}

// SegmentCollector accumulates hits of one segment into private state.
type SegmentCollector[F any] interface {
	Collect(doc DocID, score float64)
	Harvest() (F, error)
}

// Search runs q against every segment of snap and merges the fruits of c.
// The context is checked before each segment.
func Search[F any](ctx context.Context, snap *Snapshot, q Query, c Collector[F]) (F, error) {
	var zero F
	w, err := q.Weight(snap)
	if err != nil {
		return zero, err
	}

	segs := snap.Segments()
	fruits := make([]F, len(segs))
	g, gctx := errgroup.WithContext(ctx)
	if snap.parallelism > 0 {
		g.SetLimit(snap.parallelism)
	}
	for i, seg := range segs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sc, err := c.ForSegment(uint32(i), seg)
			if err != nil {
				return err
			}
			hits, err := w.Hits(seg)
			if err != nil {
				return err
			}
			for _, h := range hits {
				sc.Collect(h.Doc, h.Score)
			}
			fruit, err := sc.Harvest()
			if err != nil {
				return err
			}
			fruits[i] = fruit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return zero, err
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	return c.Merge(fruits)
}

// Count returns a collector counting matching documents.
func Count() Collector[uint64] {
	return countCollector{}
}

type countCollector struct{}

func (countCollector) ForSegment(uint32, *Segment) (SegmentCollector[uint64], error) {
	return &segmentCount{}, nil
}

func (countCollector) Merge(fruits []uint64) (uint64, error) {
	var n uint64
	for _, f := range fruits {
		n += f
	}
	return n, nil
}

type segmentCount struct{ n uint64 }

func (c *segmentCount) Collect(DocID, float64) { c.n++ }
func (c *segmentCount) Harvest() (uint64, error) {
	return c.n, nil
}

// Docs returns a collector listing the addresses of every matching document
// in snapshot order.
func Docs() Collector[[]DocAddress] {
	return docsCollector{}
}

type docsCollector struct{}

func (docsCollector) ForSegment(ord uint32, _ *Segment) (SegmentCollector[[]DocAddress], error) {
	return &segmentDocs{ord: ord}, nil
}

func (docsCollector) Merge(fruits [][]DocAddress) ([]DocAddress, error) {
	var out []DocAddress
	for _, f := range fruits {
		out = append(out, f...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out, nil
}

type segmentDocs struct {
	ord  uint32
	docs []DocAddress
}

func (c *segmentDocs) Collect(doc DocID, _ float64) {
	c.docs = append(c.docs, DocAddress{Segment: c.ord, Doc: doc})
}

func (c *segmentDocs) Harvest() ([]DocAddress, error) {
	return c.docs, nil
}

// PairFruit holds the fruits of two collectors run in one pass.
type PairFruit[A, B any] struct {
	First  A
	Second B
}

// Pair runs two collectors over the same hits in a single pass.
func Pair[A, B any](first Collector[A], second Collector[B]) Collector[PairFruit[A, B]] {
	return pairCollector[A, B]{first: first, second: second}
}

type pairCollector[A, B any] struct {
	first  Collector[A]
	second Collector[B]
}

func (p pairCollector[A, B]) ForSegment(ord uint32, seg *Segment) (SegmentCollector[PairFruit[A, B]], error) {
	a, err := p.first.ForSegment(ord, seg)
	if err != nil {
		return nil, err
	}
	b, err := p.second.ForSegment(ord, seg)
	if err != nil {
		return nil, err
	}
	return &pairSegment[A, B]{first: a, second: b}, nil
}

func (p pairCollector[A, B]) Merge(fruits []PairFruit[A, B]) (PairFruit[A, B], error) {
	as := make([]A, len(fruits))
	bs := make([]B, len(fruits))
	for i, f := range fruits {
		as[i], bs[i] = f.First, f.Second
	}
	var out PairFruit[A, B]
	var err error
	if out.First, err = p.first.Merge(as); err != nil {
		return out, err
	}
	if out.Second, err = p.second.Merge(bs); err != nil {
		return out, err
	}
	return out, nil
}

type pairSegment[A, B any] struct {
	first  SegmentCollector[A]
	second SegmentCollector[B]
}

func (s *pairSegment[A, B]) Collect(doc DocID, score float64) {
	s.first.Collect(doc, score)
	s.second.Collect(doc, score)
}

func (s *pairSegment[A, B]) Harvest() (PairFruit[A, B], error) {
	var out PairFruit[A, B]
	var err error
	if out.First, err = s.first.Harvest(); err != nil {
		return out, err
	}
	if out.Second, err = s.second.Harvest(); err != nil {
		return out, err
	}
	return out, nil
}
