// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package search

import (
	"math"

	"github.com/tomtom215/bareshelf/internal/engine"
)

// buildRecipeQuery turns q into an engine query over the ingredient facet
// field. Shelf items are optional matches, at least one key item must match,
// and any banned item excludes the recipe. A query with no shelf and no key
// items has no positive clause and matches nothing.
func buildRecipeQuery(field engine.Field, q RecipeQuery) engine.Query {
	bq := engine.NewBooleanQuery()
	for _, s := range distinct(q.Shelf) {
		bq.Add(engine.Should, engine.NewFacetTermQuery(field, s.Facet()))
	}
	if key := distinct(q.Key); len(key) > 0 {
		anyKey := engine.NewBooleanQuery()
		for _, s := range key {
			anyKey.Add(engine.Should, engine.NewFacetTermQuery(field, s.Facet()))
		}
		bq.Add(engine.Must, anyKey)
	}
	for _, s := range distinct(q.Banned) {
		bq.Add(engine.MustNot, engine.NewFacetTermQuery(field, s.Facet()))
	}
	return bq
}

// shelfOrdinals resolves shelf facets to the ordinals of one segment. Facets
// the segment has never seen are skipped.
func shelfOrdinals(dict engine.FacetDict, shelf []engine.Facet) map[uint64]struct{} {
	ords := make(map[uint64]struct{}, len(shelf))
	for _, f := range shelf {
		if ord, ok := dict.TermOrd(f); ok {
			ords[ord] = struct{}{}
		}
	}
	return ords
}

// countMissing returns how many of ords are not on the shelf, and the last
// such ordinal.
func countMissing(ords []uint64, shelf map[uint64]struct{}) (n int, last uint64) {
	for _, o := range ords {
		if _, ok := shelf[o]; !ok {
			n++
			last = o
		}
	}
	return n, last
}

// missingPenalty divides a recipe's score by four for every ingredient it
// needs beyond the shelf.
func missingPenalty(field engine.Field, shelf []engine.Facet) engine.ScoreTweaker {
	return func(seg *engine.Segment) (engine.ScoreFunc, error) {
		reader := seg.FacetReader(field)
		onShelf := shelfOrdinals(reader.Dict(), shelf)
		var buf []uint64
		return func(doc engine.DocID, score float64) float64 {
			buf = reader.Ords(doc, buf)
			missing, _ := countMissing(buf, onShelf)
			return math.Ldexp(score, -2*missing)
		}, nil
	}
}
