// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package engine

import (
	"fmt"
	"math"
	"sort"
)

// BM25 parameters.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// Query is a search request that can be bound to a snapshot.
type Query interface {
	// Weight binds the query to snap, computing any collection statistics.
	Weight(snap *Snapshot) (Weight, error)
}

// Weight is a query bound to one snapshot.
type Weight interface {
	// Hits returns the matching documents of seg sorted by DocID.
	Hits(seg *Segment) ([]Hit, error)
}

// TermQuery matches documents containing one exact term and scores them with BM25.
type TermQuery struct {
	Field Field
	Term  string
	facet bool
}

// NewTermQuery matches an already-analyzed term of a text or string field.
func NewTermQuery(field Field, term string) *TermQuery {
	return &TermQuery{Field: field, Term: term}
}

// NewFacetTermQuery matches documents holding facet or one of its descendants.
func NewFacetTermQuery(field Field, facet Facet) *TermQuery {
	return &TermQuery{Field: field, Term: string(facet), facet: true}
}

// Weight implements Query.
func (q *TermQuery) Weight(snap *Snapshot) (Weight, error) {
	entry, err := indexedEntry(snap.schema, q.Field)
	if err != nil {
		return nil, err
	}
	if q.facet != (entry.Type == TypeFacet) {
		return nil, fmt.Errorf("%w: term query on %s field %q", ErrFieldType, entry.Type, entry.Name)
	}
	n := float64(snap.NumDocs())
	df := float64(snap.docFreq(q.Field, q.Term))
	return &termWeight{
		field:  q.Field,
		term:   q.Term,
		idf:    math.Log(1 + (n-df+0.5)/(df+0.5)),
		avgLen: snap.avgFieldLen(q.Field),
	}, nil
}

type termWeight struct {
	field  Field
	term   string
	idf    float64
	avgLen float64
}

func (w *termWeight) Hits(seg *Segment) ([]Hit, error) {
	ps := seg.postings(w.field, w.term)
	if len(ps) == 0 {
		return nil, nil
	}
	out := make([]Hit, len(ps))
	for i, p := range ps {
		out[i] = Hit{Doc: p.doc, Score: w.score(seg, p)}
	}
	return out, nil
}

func (w *termWeight) score(seg *Segment, p posting) float64 {
	tf := float64(p.tf)
	norm := 1.0
	if l, ok := seg.fieldLen(w.field, p.doc); ok && w.avgLen > 0 {
		norm = 1 - bm25B + bm25B*float64(l)/w.avgLen
	}
	return w.idf * tf * (bm25K1 + 1) / (tf + bm25K1*norm)
}

// Occur says how a clause takes part in a BooleanQuery.
type Occur uint8

const (
	// Should clauses add to the score; without Must clauses at least one
	// Should clause has to match.
	Should Occur = iota
	// Must clauses are required.
	Must
	// MustNot clauses exclude the documents they match.
	MustNot
)

// Clause is one sub-query of a BooleanQuery.
type Clause struct {
	Occur Occur
	Query Query
}

// BooleanQuery combines clauses. A query with no Must or Should clause
// matches nothing.
type BooleanQuery struct {
	Clauses []Clause
}

// NewBooleanQuery returns a boolean query over clauses.
func NewBooleanQuery(clauses ...Clause) *BooleanQuery {
	return &BooleanQuery{Clauses: clauses}
}

// Add appends a clause and returns q.
func (q *BooleanQuery) Add(occur Occur, sub Query) *BooleanQuery {
	q.Clauses = append(q.Clauses, Clause{Occur: occur, Query: sub})
	return q
}

// Weight implements Query.
func (q *BooleanQuery) Weight(snap *Snapshot) (Weight, error) {
	bw := &booleanWeight{}
	for _, c := range q.Clauses {
		w, err := c.Query.Weight(snap)
		if err != nil {
			return nil, err
		}
		switch c.Occur {
		case Must:
			bw.must = append(bw.must, w)
		case MustNot:
			bw.mustNot = append(bw.mustNot, w)
		default:
			bw.should = append(bw.should, w)
		}
	}
	return bw, nil
}

type booleanWeight struct {
	must, should, mustNot []Weight
}

func (w *booleanWeight) Hits(seg *Segment) ([]Hit, error) {
	if len(w.must) == 0 && len(w.should) == 0 {
		return nil, nil
	}

	var result []Hit
	if len(w.must) > 0 {
		for i, sub := range w.must {
			hits, err := sub.Hits(seg)
			if err != nil {
				return nil, err
			}
			if i == 0 {
				result = hits
			} else {
				result = intersectHits(result, hits)
			}
			if len(result) == 0 {
				return nil, nil
			}
		}
		for _, sub := range w.should {
			hits, err := sub.Hits(seg)
			if err != nil {
				return nil, err
			}
			result = boostHits(result, hits)
		}
	} else {
		lists := make([][]Hit, 0, len(w.should))
		for _, sub := range w.should {
			hits, err := sub.Hits(seg)
			if err != nil {
				return nil, err
			}
			lists = append(lists, hits)
		}
		result = unionHits(lists...)
	}

	for _, sub := range w.mustNot {
		if len(result) == 0 {
			break
		}
		hits, err := sub.Hits(seg)
		if err != nil {
			return nil, err
		}
		result = subtractHits(result, hits)
	}
	return result, nil
}

// PrefixQuery matches documents with any term of a text or string field
// starting with Prefix. Every match scores 1.
type PrefixQuery struct {
	Field  Field
	Prefix string
}

// NewPrefixQuery returns a prefix query.
func NewPrefixQuery(field Field, prefix string) *PrefixQuery {
	return &PrefixQuery{Field: field, Prefix: prefix}
}

// Weight implements Query.
func (q *PrefixQuery) Weight(snap *Snapshot) (Weight, error) {
	entry, err := indexedEntry(snap.schema, q.Field)
	if err != nil {
		return nil, err
	}
	if entry.Type == TypeFacet {
		return nil, fmt.Errorf("%w: prefix query on facet field %q", ErrFieldType, entry.Name)
	}
	return q, nil
}

// Hits implements Weight.
func (q *PrefixQuery) Hits(seg *Segment) ([]Hit, error) {
	d := seg.terms[q.Field]
	if d == nil {
		return nil, nil
	}
	seen := make(map[DocID]struct{})
	d.withPrefix(q.Prefix, func(_ string, ps []posting) {
		for _, p := range ps {
			seen[p.doc] = struct{}{}
		}
	})
	out := make([]Hit, 0, len(seen))
	for doc := range seen {
		out = append(out, Hit{Doc: doc, Score: 1})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Doc < out[j].Doc })
	return out, nil
}

// AllQuery matches every document with score 1.
type AllQuery struct{}

// Weight implements Query.
func (AllQuery) Weight(*Snapshot) (Weight, error) {
	return AllQuery{}, nil
}

// Hits implements Weight.
func (AllQuery) Hits(seg *Segment) ([]Hit, error) {
	out := make([]Hit, seg.NumDocs())
	for i := range out {
		out[i] = Hit{Doc: DocID(i), Score: 1}
	}
	return out, nil
}

func indexedEntry(s *Schema, f Field) (FieldEntry, error) {
	if !s.Has(f) {
		return FieldEntry{}, fmt.Errorf("%w: handle %d", ErrUnknownField, f)
	}
	entry := s.Entry(f)
	if !entry.Indexed {
		return FieldEntry{}, fmt.Errorf("%w: field %q is not indexed", ErrFieldType, entry.Name)
	}
	return entry, nil
}
