// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package engine

// Hit is one matching document of a segment with its base score.
type Hit struct {
	Doc   DocID
	Score float64
}

// Hit lists are always sorted by Doc with no duplicates.

// unionHits merges lists, summing the scores of documents present in several.
func unionHits(lists ...[]Hit) []Hit {
	switch len(lists) {
	case 0:
		return nil
	case 1:
		return lists[0]
	}
	out := lists[0]
	for _, l := range lists[1:] {
		out = union2(out, l)
	}
	return out
}

func union2(a, b []Hit) []Hit {
	out := make([]Hit, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Doc < b[j].Doc:
			out = append(out, a[i])
			i++
		case a[i].Doc > b[j].Doc:
			out = append(out, b[j])
			j++
		default:
			out = append(out, Hit{Doc: a[i].Doc, Score: a[i].Score + b[j].Score})
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// intersectHits keeps documents present in both lists, summing scores.
func intersectHits(a, b []Hit) []Hit {
	out := make([]Hit, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Doc < b[j].Doc:
			i++
		case a[i].Doc > b[j].Doc:
			j++
		default:
			out = append(out, Hit{Doc: a[i].Doc, Score: a[i].Score + b[j].Score})
			i++
			j++
		}
	}
	return out
}

// boostHits adds the score of every document of extra that is also in base.
// Documents only in extra are ignored.
func boostHits(base, extra []Hit) []Hit {
	out := make([]Hit, len(base))
	copy(out, base)
	i, j := 0, 0
	for i < len(out) && j < len(extra) {
		switch {
		case out[i].Doc < extra[j].Doc:
			i++
		case out[i].Doc > extra[j].Doc:
			j++
		default:
			out[i].Score += extra[j].Score
			i++
			j++
		}
	}
	return out
}

// subtractHits drops every document of base that appears in excluded.
func subtractHits(base, excluded []Hit) []Hit {
	if len(excluded) == 0 {
		return base
	}
	out := make([]Hit, 0, len(base))
	j := 0
	for _, h := range base {
		for j < len(excluded) && excluded[j].Doc < h.Doc {
			j++
		}
		if j < len(excluded) && excluded[j].Doc == h.Doc {
			continue
		}
		out = append(out, h)
	}
	return out
}
