// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/bareshelf/internal/metrics"
)

// MergeResult describes one completed merge.
type MergeResult struct {
	Merged    int
	Docs      uint64
	SegmentID string
}

// Merge rewrites every committed segment into a single one, rebuilding the
// postings from the stored documents. It returns ErrNotMergeable when some
// indexed field is not stored. Staged documents are not touched.
//
// With fewer than two committed segments there is nothing to do and the
// zero MergeResult is returned.
func (w *Writer) Merge(ctx context.Context) (MergeResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.idx.isClosed() {
		return MergeResult{}, ErrClosed
	}
	if !w.idx.schema.fullyStored() {
		return MergeResult{}, ErrNotMergeable
	}

	cur, err := w.idx.readManifest()
	if err != nil {
		return MergeResult{}, err
	}
	if len(cur.Segments) < 2 {
		return MergeResult{}, nil
	}

	start := time.Now()
	segs, err := w.idx.reader.resolve(ctx, cur.Segments)
	if err != nil {
		return MergeResult{}, err
	}
	b := newSegmentBuilder(w.idx.schema)
	for _, seg := range segs {
		if err := ctx.Err(); err != nil {
			return MergeResult{}, err
		}
		for _, doc := range seg.stored {
			b.add(doc)
		}
	}
	merged := b.build(uuid.NewString())

	m, err := w.publish(ctx, cur.Segments, []*Segment{merged})
	if err != nil {
		_ = w.idx.store.dropPrefix(segmentPrefix(merged.ID()))
		return MergeResult{}, fmt.Errorf("merge: %w", err)
	}

	old := make([][]byte, 0, len(cur.Segments))
	for _, id := range cur.Segments {
		old = append(old, segmentPrefix(id))
	}
	if err := w.idx.store.dropPrefix(old...); err != nil {
		w.idx.log.Warn().Err(err).Msg("Merged segments left on disk until next open")
	}

	res := MergeResult{Merged: len(segs), Docs: uint64(merged.NumDocs()), SegmentID: merged.ID()}
	metrics.RecordMerge(w.idx.opts.Name, time.Since(start), res.Merged)
	w.idx.log.Debug().
		Int("merged", res.Merged).
		Uint64("docs", res.Docs).
		Uint64("generation", m.Generation).
		Msg("Segments merged")

	if err := w.refresh(ctx, m, []*Segment{merged}); err != nil {
		return res, err
	}
	return res, nil
}
