// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package engine

import "github.com/tomtom215/bareshelf/internal/cache"

// ScoredDoc is one ranked result.
type ScoredDoc struct {
	Score   float64
	Address DocAddress
}

// ScoreFunc rewrites the score of one document of a segment.
type ScoreFunc func(doc DocID, score float64) float64

// ScoreTweaker prepares a ScoreFunc for a segment. It runs once per segment
// before any document is collected, so per-segment lookups (facet ordinals)
// happen there.
type ScoreTweaker func(seg *Segment) (ScoreFunc, error)

// TopDocsCollector keeps the best documents by score. Equal scores rank by
// address, earlier first.
type TopDocsCollector struct {
	limit int
	tweak ScoreTweaker
}

// TopDocs returns a collector of the limit best documents.
func TopDocs(limit int) *TopDocsCollector {
	if limit < 1 {
		limit = 1
	}
	return &TopDocsCollector{limit: limit}
}

// TweakScore returns a copy of c that ranks by tweak's scores. The tweaked
// score is applied before the top-k cut.
func (c *TopDocsCollector) TweakScore(tweak ScoreTweaker) *TopDocsCollector {
	return &TopDocsCollector{limit: c.limit, tweak: tweak}
}

func betterScored(a, b ScoredDoc) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Address.Less(b.Address)
}

// ForSegment implements Collector.
func (c *TopDocsCollector) ForSegment(ord uint32, seg *Segment) (SegmentCollector[[]ScoredDoc], error) {
	sc := &segmentTopDocs{ord: ord, top: cache.NewTopK(c.limit, betterScored)}
	if c.tweak != nil {
		fn, err := c.tweak(seg)
		if err != nil {
			return nil, err
		}
		sc.fn = fn
	}
	return sc, nil
}

// Merge implements Collector.
func (c *TopDocsCollector) Merge(fruits [][]ScoredDoc) ([]ScoredDoc, error) {
	top := cache.NewTopK(c.limit, betterScored)
	for _, f := range fruits {
		for _, d := range f {
			top.Push(d)
		}
	}
	return top.Sorted(), nil
}

type segmentTopDocs struct {
	ord uint32
	fn  ScoreFunc
	top *cache.TopK[ScoredDoc]
}

func (s *segmentTopDocs) Collect(doc DocID, score float64) {
	if s.fn != nil {
		score = s.fn(doc, score)
	}
	s.top.Push(ScoredDoc{Score: score, Address: DocAddress{Segment: s.ord, Doc: doc}})
}

func (s *segmentTopDocs) Harvest() ([]ScoredDoc, error) {
	return s.top.Sorted(), nil
}
