// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package engine

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/bareshelf/internal/metrics"
)

// Writer stages documents for one index. There is at most one open Writer
// per index; it is safe for concurrent use but callers normally serialize
// ingestion themselves.
type Writer struct {
	idx *Index

	mu        sync.Mutex
	builder   *segmentBuilder
	pending   []*Segment
	attempted map[string]struct{}
	closed    bool
}

func newWriter(idx *Index) *Writer {
	return &Writer{
		idx:       idx,
		builder:   newSegmentBuilder(idx.schema),
		attempted: make(map[string]struct{}),
	}
}

// AddDocument validates doc and stages it. Staged documents are invisible
// until Commit succeeds.
func (w *Writer) AddDocument(doc *Document) error {
	if err := w.validate(doc); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	w.builder.add(doc)
	metrics.RecordStaged(w.idx.opts.Name)
	if w.builder.len() >= w.idx.opts.WriterBufferDocs {
		w.flushLocked()
	}
	return nil
}

func (w *Writer) validate(doc *Document) error {
	schema := w.idx.schema
	for _, v := range doc.Values {
		if !schema.Has(v.Field) {
			return fmt.Errorf("%w: handle %d", ErrUnknownField, v.Field)
		}
		entry := schema.Entry(v.Field)
		if entry.Type == TypeFacet {
			if _, err := ParseFacet(v.Value); err != nil {
				return fmt.Errorf("field %q: %w", entry.Name, err)
			}
		}
	}
	return nil
}

// flushLocked turns the buffer into a pending segment.
func (w *Writer) flushLocked() {
	if w.builder.len() == 0 {
		return
	}
	seg := w.builder.build(uuid.NewString())
	w.builder.reset()
	w.pending = append(w.pending, seg)
	w.idx.log.Debug().Str("segment", seg.ID()).Uint32("docs", seg.NumDocs()).Msg("Segment flushed")
}

// NumStaged returns the number of documents waiting for Commit.
func (w *Writer) NumStaged() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := w.builder.len()
	for _, seg := range w.pending {
		n += int(seg.NumDocs())
	}
	return n
}

// Commit publishes every staged document atomically. On failure the staged
// documents are kept so Commit can be retried.
func (w *Writer) Commit(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.idx.isClosed() {
		return ErrClosed
	}
	w.flushLocked()
	if len(w.pending) == 0 {
		return nil
	}

	start := time.Now()
	var docs uint64
	for _, seg := range w.pending {
		docs += uint64(seg.NumDocs())
		w.attempted[seg.ID()] = struct{}{}
	}

	m, err := w.publish(ctx, nil, w.pending)
	metrics.RecordCommit(w.idx.opts.Name, time.Since(start), docs, err)
	if err != nil {
		w.idx.log.Error().Err(err).Int("segments", len(w.pending)).Uint64("docs", docs).Msg("Commit failed")
		return err
	}

	built := w.pending
	w.pending = nil
	w.attempted = make(map[string]struct{})
	w.idx.log.Debug().Uint64("generation", m.Generation).Uint64("docs", docs).Msg("Commit complete")
	return w.refresh(ctx, m, built)
}

// publish writes built segments and swaps them into the manifest in place of
// the ids in replace. The manifest write is the commit point.
func (w *Writer) publish(ctx context.Context, replace []string, built []*Segment) (manifest, error) {
	var pairs []kv
	for _, seg := range built {
		p, err := seg.encode()
		if err != nil {
			return manifest{}, err
		}
		pairs = append(pairs, p...)
	}
	if err := ctx.Err(); err != nil {
		return manifest{}, err
	}
	if err := w.idx.store.writeBatch(pairs); err != nil {
		return manifest{}, fmt.Errorf("write segments: %w", err)
	}

	cur, err := w.idx.readManifest()
	if err != nil {
		return manifest{}, err
	}
	next := manifest{Generation: cur.Generation + 1, CommittedAt: time.Now().UTC()}
	for _, id := range cur.Segments {
		if !slices.Contains(replace, id) {
			next.Segments = append(next.Segments, id)
		}
	}
	for _, seg := range built {
		next.Segments = append(next.Segments, seg.ID())
	}
	data, err := json.Marshal(next)
	if err != nil {
		return manifest{}, fmt.Errorf("encode manifest: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return manifest{}, err
	}
	if err := w.idx.store.update(kv{key: keyManifest, value: data}); err != nil {
		return manifest{}, fmt.Errorf("write manifest: %w", err)
	}
	return next, nil
}

// refresh applies the reload policy after a successful commit.
func (w *Writer) refresh(ctx context.Context, m manifest, built []*Segment) error {
	if w.idx.opts.ReloadPolicy == ReloadManual {
		w.idx.reader.remember(built)
		return nil
	}
	if err := w.idx.reader.adopt(ctx, m, built); err != nil {
		return fmt.Errorf("reload after commit: %w", err)
	}
	return nil
}

// Rollback discards every staged document and pending segment.
func (w *Writer) Rollback() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	return w.discardLocked()
}

func (w *Writer) discardLocked() error {
	dropped := w.builder.len()
	for _, seg := range w.pending {
		dropped += int(seg.NumDocs())
	}
	w.builder.reset()
	w.pending = nil

	var prefixes [][]byte
	for id := range w.attempted {
		prefixes = append(prefixes, segmentPrefix(id))
	}
	w.attempted = make(map[string]struct{})
	if dropped > 0 {
		w.idx.log.Debug().Int("docs", dropped).Msg("Staged documents discarded")
	}
	if len(prefixes) > 0 && !w.idx.isClosed() {
		return w.idx.store.dropPrefix(prefixes...)
	}
	return nil
}

// Close discards uncommitted documents and releases the index's writer slot.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	err := w.discardLocked()
	w.closed = true
	w.idx.writerBusy.Store(false)
	return err
}
