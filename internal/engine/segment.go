// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package engine

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// DocID is a segment-local document number, dense from zero.
type DocID uint32

type posting struct {
	doc DocID
	tf  uint32
}

// termDict maps a field's terms to posting lists. terms is sorted.
type termDict struct {
	terms    []string
	postings [][]posting
}

func (d *termDict) lookup(term string) []posting {
	i := sort.SearchStrings(d.terms, term)
	if i < len(d.terms) && d.terms[i] == term {
		return d.postings[i]
	}
	return nil
}

// withPrefix calls fn for every term starting with prefix, in term order.
func (d *termDict) withPrefix(prefix string, fn func(term string, p []posting)) {
	for i := sort.SearchStrings(d.terms, prefix); i < len(d.terms); i++ {
		if !strings.HasPrefix(d.terms[i], prefix) {
			return
		}
		fn(d.terms[i], d.postings[i])
	}
}

// facetColumn is the per-segment facet dictionary plus, for every document,
// the sorted distinct ordinals of the facets it was given.
type facetColumn struct {
	Dict []Facet    `json:"dict"`
	Ords [][]uint64 `json:"ords"`
}

type segmentMeta struct {
	ID        string    `json:"id"`
	NumDocs   uint32    `json:"num_docs"`
	CreatedAt time.Time `json:"created_at"`
}

// Segment is an immutable, independently searchable chunk of an index.
// Segments are safe for concurrent use.
type Segment struct {
	meta   segmentMeta
	terms  map[Field]*termDict
	norms  map[Field][]uint32
	totals map[Field]uint64
	facets map[Field]*facetColumn
	stored []*Document
}

// ID returns the segment's persistent identifier.
func (s *Segment) ID() string {
	return s.meta.ID
}

// NumDocs returns the number of documents in the segment.
func (s *Segment) NumDocs() uint32 {
	return s.meta.NumDocs
}

// Doc returns the stored fields of a document.
func (s *Segment) Doc(doc DocID) (*Document, error) {
	if int(doc) >= len(s.stored) {
		return nil, fmt.Errorf("%w: doc %d out of range in segment %s", ErrCorrupt, doc, s.meta.ID)
	}
	return s.stored[doc], nil
}

// FacetReader returns the facet ordinal reader for field. A facet field with
// no values in this segment yields an empty reader.
func (s *Segment) FacetReader(field Field) *FacetReader {
	col := s.facets[field]
	if col == nil {
		col = &facetColumn{}
	}
	return &FacetReader{col: col}
}

func (s *Segment) postings(field Field, term string) []posting {
	d := s.terms[field]
	if d == nil {
		return nil
	}
	return d.lookup(term)
}

func (s *Segment) fieldLen(field Field, doc DocID) (uint32, bool) {
	n := s.norms[field]
	if n == nil || int(doc) >= len(n) {
		return 0, false
	}
	return n[doc], true
}

// FacetReader resolves facet ordinals within one segment.
type FacetReader struct {
	col *facetColumn
}

// Dict returns the segment's facet dictionary.
func (r *FacetReader) Dict() FacetDict {
	return FacetDict{facets: r.col.Dict}
}

// Ords appends the ordinals of doc to buf[:0] and returns it. The result is
// sorted and has no duplicates.
func (r *FacetReader) Ords(doc DocID, buf []uint64) []uint64 {
	buf = buf[:0]
	if int(doc) >= len(r.col.Ords) {
		return buf
	}
	return append(buf, r.col.Ords[doc]...)
}

// FacetDict is a sorted facet dictionary. A facet's ordinal is its position.
type FacetDict struct {
	facets []Facet
}

// TermOrd returns the ordinal of f, or false when f has no ordinal in this segment.
func (d FacetDict) TermOrd(f Facet) (uint64, bool) {
	i := sort.Search(len(d.facets), func(i int) bool { return d.facets[i] >= f })
	if i < len(d.facets) && d.facets[i] == f {
		return uint64(i), true
	}
	return 0, false
}

// OrdToFacet returns the facet for ord.
func (d FacetDict) OrdToFacet(ord uint64) (Facet, bool) {
	if ord >= uint64(len(d.facets)) {
		return "", false
	}
	return d.facets[ord], true
}

// Len returns the number of distinct facets.
func (d FacetDict) Len() int {
	return len(d.facets)
}

// segmentBuilder accumulates documents for one segment.
type segmentBuilder struct {
	schema *Schema
	docs   []*Document
}

func newSegmentBuilder(schema *Schema) *segmentBuilder {
	return &segmentBuilder{schema: schema}
}

func (b *segmentBuilder) add(doc *Document) {
	b.docs = append(b.docs, doc)
}

func (b *segmentBuilder) len() int {
	return len(b.docs)
}

func (b *segmentBuilder) reset() {
	b.docs = nil
}

// build indexes the buffered documents into a new segment.
func (b *segmentBuilder) build(id string) *Segment {
	n := len(b.docs)
	seg := &Segment{
		meta:   segmentMeta{ID: id, NumDocs: uint32(n), CreatedAt: time.Now().UTC()},
		terms:  make(map[Field]*termDict),
		norms:  make(map[Field][]uint32),
		totals: make(map[Field]uint64),
		facets: make(map[Field]*facetColumn),
		stored: make([]*Document, n),
	}

	postings := make(map[Field]map[string][]posting)
	facetValues := make(map[Field][][]Facet)

	for i, doc := range b.docs {
		id := DocID(i)
		tfs := make(map[Field]map[string]uint32)
		for _, v := range doc.Values {
			entry := b.schema.Entry(v.Field)
			if !entry.Indexed {
				continue
			}
			if tfs[v.Field] == nil {
				tfs[v.Field] = make(map[string]uint32)
			}
			switch entry.Type {
			case TypeFacet:
				facet := Facet(v.Value)
				if facetValues[v.Field] == nil {
					facetValues[v.Field] = make([][]Facet, n)
				}
				facetValues[v.Field][i] = append(facetValues[v.Field][i], facet)
				tfs[v.Field][string(facet)] = 1
				for _, a := range facet.Ancestors() {
					tfs[v.Field][string(a)] = 1
				}
			default:
				if seg.norms[v.Field] == nil {
					seg.norms[v.Field] = make([]uint32, n)
				}
				tokens := AnalyzerFor(entry.Type).Tokens(v.Value)
				seg.norms[v.Field][i] += uint32(len(tokens))
				seg.totals[v.Field] += uint64(len(tokens))
				for _, t := range tokens {
					tfs[v.Field][t]++
				}
			}
		}
		for f, terms := range tfs {
			if postings[f] == nil {
				postings[f] = make(map[string][]posting)
			}
			for t, tf := range terms {
				postings[f][t] = append(postings[f][t], posting{doc: id, tf: tf})
			}
		}
		seg.stored[i] = doc.storedCopy(b.schema)
	}

	for f, byTerm := range postings {
		d := &termDict{terms: make([]string, 0, len(byTerm))}
		for t := range byTerm {
			d.terms = append(d.terms, t)
		}
		sort.Strings(d.terms)
		d.postings = make([][]posting, len(d.terms))
		for i, t := range d.terms {
			d.postings[i] = byTerm[t]
		}
		seg.terms[f] = d
	}

	for f, perDoc := range facetValues {
		seg.facets[f] = buildFacetColumn(perDoc)
	}
	return seg
}

func buildFacetColumn(perDoc [][]Facet) *facetColumn {
	distinct := make(map[Facet]struct{})
	for _, fs := range perDoc {
		for _, f := range fs {
			distinct[f] = struct{}{}
		}
	}
	col := &facetColumn{Dict: make([]Facet, 0, len(distinct)), Ords: make([][]uint64, len(perDoc))}
	for f := range distinct {
		col.Dict = append(col.Dict, f)
	}
	sort.Slice(col.Dict, func(i, j int) bool { return col.Dict[i] < col.Dict[j] })
	ordOf := make(map[Facet]uint64, len(col.Dict))
	for i, f := range col.Dict {
		ordOf[f] = uint64(i)
	}
	for doc, fs := range perDoc {
		if len(fs) == 0 {
			continue
		}
		ords := make([]uint64, 0, len(fs))
		for _, f := range fs {
			ords = append(ords, ordOf[f])
		}
		sort.Slice(ords, func(i, j int) bool { return ords[i] < ords[j] })
		col.Ords[doc] = dedupSorted(ords)
	}
	return col
}

func dedupSorted(s []uint64) []uint64 {
	if len(s) < 2 {
		return s
	}
	out := s[:1]
	for _, v := range s[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// encode returns the key/value pairs that persist the segment.
func (s *Segment) encode() ([]kv, error) {
	id := s.meta.ID
	meta, err := json.Marshal(s.meta)
	if err != nil {
		return nil, fmt.Errorf("encode segment meta: %w", err)
	}
	pairs := []kv{{key: segmentKey(id, tagMeta), value: meta}}

	for f, d := range s.terms {
		for i, t := range d.terms {
			key := segmentKey(id, tagTerm, append(fieldBytes(f), t...)...)
			pairs = append(pairs, kv{key: key, value: encodePostings(d.postings[i])})
		}
	}
	for f, n := range s.norms {
		buf := make([]byte, 0, len(n)*2)
		for _, v := range n {
			buf = binary.AppendUvarint(buf, uint64(v))
		}
		pairs = append(pairs, kv{key: segmentKey(id, tagNorms, fieldBytes(f)...), value: buf})
	}
	for f, col := range s.facets {
		data, err := json.Marshal(col)
		if err != nil {
			return nil, fmt.Errorf("encode facet column: %w", err)
		}
		pairs = append(pairs, kv{key: segmentKey(id, tagFacets, fieldBytes(f)...), value: data})
	}
	for i, doc := range s.stored {
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode document %d: %w", i, err)
		}
		pairs = append(pairs, kv{key: segmentKey(id, tagDocument, docBytes(DocID(i))...), value: data})
	}
	return pairs, nil
}

func encodePostings(ps []posting) []byte {
	buf := make([]byte, 0, 1+len(ps)*2)
	buf = binary.AppendUvarint(buf, uint64(len(ps)))
	var prev DocID
	for _, p := range ps {
		buf = binary.AppendUvarint(buf, uint64(p.doc-prev))
		buf = binary.AppendUvarint(buf, uint64(p.tf))
		prev = p.doc
	}
	return buf
}

func decodePostings(buf []byte) ([]posting, error) {
	n, k := binary.Uvarint(buf)
	if k <= 0 {
		return nil, ErrCorrupt
	}
	buf = buf[k:]
	ps := make([]posting, 0, n)
	var doc DocID
	for i := uint64(0); i < n; i++ {
		delta, k1 := binary.Uvarint(buf)
		if k1 <= 0 {
			return nil, ErrCorrupt
		}
		tf, k2 := binary.Uvarint(buf[k1:])
		if k2 <= 0 {
			return nil, ErrCorrupt
		}
		buf = buf[k1+k2:]
		doc += DocID(delta)
		ps = append(ps, posting{doc: doc, tf: uint32(tf)})
	}
	return ps, nil
}

// loadSegment reads a committed segment back from the store.
func loadSegment(st *store, id string) (*Segment, error) {
	seg := &Segment{
		terms:  make(map[Field]*termDict),
		norms:  make(map[Field][]uint32),
		totals: make(map[Field]uint64),
		facets: make(map[Field]*facetColumn),
	}
	prefix := segmentPrefix(id)
	var docs []*Document
	haveMeta := false

	err := st.scanPrefix(prefix, func(key, value []byte) error {
		rest := key[len(prefix):]
		if len(rest) < 2 || rest[1] != '/' {
			return fmt.Errorf("%w: key %q", ErrCorrupt, key)
		}
		tag, body := rest[0], rest[2:]
		switch tag {
		case tagMeta:
			haveMeta = true
			return json.Unmarshal(value, &seg.meta)
		case tagTerm:
			if len(body) < 2 {
				return fmt.Errorf("%w: term key %q", ErrCorrupt, key)
			}
			f := Field(binary.BigEndian.Uint16(body))
			ps, err := decodePostings(value)
			if err != nil {
				return fmt.Errorf("postings %q: %w", key, err)
			}
			d := seg.terms[f]
			if d == nil {
				d = &termDict{}
				seg.terms[f] = d
			}
			// Keys arrive in byte order, which is the string order of the terms.
			d.terms = append(d.terms, string(body[2:]))
			d.postings = append(d.postings, ps)
		case tagNorms:
			if len(body) != 2 {
				return fmt.Errorf("%w: norms key %q", ErrCorrupt, key)
			}
			f := Field(binary.BigEndian.Uint16(body))
			var norms []uint32
			var total uint64
			for buf := value; len(buf) > 0; {
				v, k := binary.Uvarint(buf)
				if k <= 0 {
					return fmt.Errorf("%w: norms %q", ErrCorrupt, key)
				}
				norms = append(norms, uint32(v))
				total += v
				buf = buf[k:]
			}
			seg.norms[f] = norms
			seg.totals[f] = total
		case tagFacets:
			if len(body) != 2 {
				return fmt.Errorf("%w: facet key %q", ErrCorrupt, key)
			}
			col := &facetColumn{}
			if err := json.Unmarshal(value, col); err != nil {
				return fmt.Errorf("facet column %q: %w", key, err)
			}
			seg.facets[Field(binary.BigEndian.Uint16(body))] = col
		case tagDocument:
			doc := &Document{}
			if err := json.Unmarshal(value, doc); err != nil {
				return fmt.Errorf("document %q: %w", key, err)
			}
			docs = append(docs, doc)
		default:
			return fmt.Errorf("%w: unknown tag in %q", ErrCorrupt, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load segment %s: %w", id, err)
	}
	if !haveMeta {
		return nil, fmt.Errorf("load segment %s: %w: missing meta", id, ErrCorrupt)
	}
	if uint32(len(docs)) != seg.meta.NumDocs {
		return nil, fmt.Errorf("load segment %s: %w: %d stored docs, want %d", id, ErrCorrupt, len(docs), seg.meta.NumDocs)
	}
	seg.stored = docs
	return seg, nil
}
