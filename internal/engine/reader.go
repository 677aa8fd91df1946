// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tomtom215/bareshelf/internal/metrics"
)

// DocAddress locates a document within a snapshot: the segment ordinal in
// Snapshot.Segments and the segment-local document id.
type DocAddress struct {
	Segment uint32
	Doc     DocID
}

// Less orders addresses by segment, then document.
func (a DocAddress) Less(b DocAddress) bool {
	if a.Segment != b.Segment {
		return a.Segment < b.Segment
	}
	return a.Doc < b.Doc
}

// Snapshot is an immutable point-in-time view of an index.
type Snapshot struct {
	generation uint64
	schema     *Schema
	segments   []*Segment
	numDocs    uint64

	// parallelism bounds concurrent segment collection in Search.
	parallelism int
}

// Generation increases by one with every commit.
func (s *Snapshot) Generation() uint64 {
	return s.generation
}

// Schema returns the index schema.
func (s *Snapshot) Schema() *Schema {
	return s.schema
}

// Segments returns the segments in manifest order. The slice must not be modified.
func (s *Snapshot) Segments() []*Segment {
	return s.segments
}

// NumDocs returns the total number of documents.
func (s *Snapshot) NumDocs() uint64 {
	return s.numDocs
}

// Doc returns the stored fields of the document at addr.
func (s *Snapshot) Doc(addr DocAddress) (*Document, error) {
	if int(addr.Segment) >= len(s.segments) {
		return nil, fmt.Errorf("%w: segment ordinal %d out of range", ErrCorrupt, addr.Segment)
	}
	return s.segments[addr.Segment].Doc(addr.Doc)
}

// docFreq is the number of documents across the snapshot containing term.
func (s *Snapshot) docFreq(field Field, term string) uint64 {
	var n uint64
	for _, seg := range s.segments {
		n += uint64(len(seg.postings(field, term)))
	}
	return n
}

// avgFieldLen is the mean token count of field over all documents.
func (s *Snapshot) avgFieldLen(field Field) float64 {
	if s.numDocs == 0 {
		return 0
	}
	var total uint64
	for _, seg := range s.segments {
		total += seg.totals[field]
	}
	return float64(total) / float64(s.numDocs)
}

// Reader hands out snapshots of one index.
type Reader struct {
	idx  *Index
	snap atomic.Pointer[Snapshot]

	mu     sync.Mutex
	loaded map[string]*Segment
}

func newReader(idx *Index) *Reader {
	r := &Reader{idx: idx, loaded: make(map[string]*Segment)}
	r.snap.Store(&Snapshot{schema: idx.schema, parallelism: idx.opts.Parallelism})
	return r
}

// Snapshot returns the most recently loaded snapshot.
func (r *Reader) Snapshot() *Snapshot {
	return r.snap.Load()
}

// Reload publishes a snapshot of the latest commit. Segments already in
// memory are reused.
func (r *Reader) Reload(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.idx.isClosed() {
		return ErrClosed
	}
	m, err := r.idx.readManifest()
	if err != nil {
		return err
	}
	if cur := r.snap.Load(); cur != nil && cur.generation == m.Generation && len(cur.segments) == len(m.Segments) {
		return nil
	}
	return r.publish(ctx, m, nil)
}

// adopt publishes manifest m using freshly built segments so that a commit
// does not read back what it just wrote.
func (r *Reader) adopt(ctx context.Context, m manifest, built []*Segment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.publish(ctx, m, built)
}

// remember caches freshly built segments for the next Reload without
// publishing them.
func (r *Reader) remember(built []*Segment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, seg := range built {
		r.loaded[seg.ID()] = seg
	}
}

// resolve returns the segments for ids, loading any that are not cached.
func (r *Reader) resolve(ctx context.Context, ids []string) ([]*Segment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	segs := make([]*Segment, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seg, err := r.segmentLocked(id)
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

func (r *Reader) segmentLocked(id string) (*Segment, error) {
	if seg, ok := r.loaded[id]; ok {
		return seg, nil
	}
	seg, err := loadSegment(r.idx.store, id)
	if err != nil {
		return nil, err
	}
	r.loaded[id] = seg
	return seg, nil
}

func (r *Reader) publish(ctx context.Context, m manifest, built []*Segment) error {
	for _, seg := range built {
		r.loaded[seg.ID()] = seg
	}
	segs := make([]*Segment, 0, len(m.Segments))
	var numDocs uint64
	for _, id := range m.Segments {
		if err := ctx.Err(); err != nil {
			return err
		}
		seg, err := r.segmentLocked(id)
		if err != nil {
			return err
		}
		segs = append(segs, seg)
		numDocs += uint64(seg.NumDocs())
	}
	keep := make(map[string]*Segment, len(segs))
	for _, seg := range segs {
		keep[seg.ID()] = seg
	}
	r.loaded = keep

	r.snap.Store(&Snapshot{
		generation: m.Generation,
		schema:     r.idx.schema,
		segments:   segs,
		numDocs:    numDocs,

		parallelism: r.idx.opts.Parallelism,
	})
	metrics.SetIndexState(r.idx.opts.Name, m.Generation, len(segs), numDocs)
	r.idx.log.Debug().Uint64("generation", m.Generation).Int("segments", len(segs)).Uint64("docs", numDocs).Msg("Reader reloaded")
	return nil
}
