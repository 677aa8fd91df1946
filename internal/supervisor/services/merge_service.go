// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/bareshelf/internal/engine"
	"github.com/tomtom215/bareshelf/internal/logging"
)

// MergeService compacts the committed segments of a collection into one once
// their number reaches a threshold.
//
// It needs the collection's writer, so a run skips any collection an
// indexer currently holds.
type MergeService struct {
	indexes   []*engine.Index
	interval  time.Duration
	threshold int
	name      string
}

// NewMergeService creates a merge service checking every interval.
func NewMergeService(interval time.Duration, threshold int, indexes ...*engine.Index) *MergeService {
	if interval <= 0 {
		interval = time.Hour
	}
	if threshold < 2 {
		threshold = 2
	}
	return &MergeService{indexes: indexes, interval: interval, threshold: threshold, name: "segment-merge"}
}

// Serve implements suture.Service.
func (s *MergeService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); errors.Is(err, engine.ErrClosed) {
				return fmt.Errorf("%s: %w: %w", s.name, suture.ErrDoNotRestart, err)
			}
		}
	}
}

// RunOnce merges every collection at or above the threshold and returns the
// number of collections merged.
func (s *MergeService) RunOnce(ctx context.Context) (int, error) {
	log := logging.WithComponent("supervisor")
	merged := 0
	var errs []error
	for _, idx := range s.indexes {
		if err := ctx.Err(); err != nil {
			return merged, err
		}
		segs := len(idx.Reader().Snapshot().Segments())
		if segs < s.threshold {
			continue
		}
		ok, err := s.merge(ctx, idx)
		if err != nil {
			log.Error().Err(err).Str("index", idx.Name()).Int("segments", segs).Msg("Segment merge failed")
			errs = append(errs, fmt.Errorf("merge %s: %w", idx.Name(), err))
			continue
		}
		if ok {
			merged++
		}
	}
	return merged, errors.Join(errs...)
}

func (s *MergeService) merge(ctx context.Context, idx *engine.Index) (bool, error) {
	w, err := idx.Writer()
	if errors.Is(err, engine.ErrWriterBusy) {
		log := logging.WithComponent("supervisor")
		log.Debug().Str("index", idx.Name()).Msg("Writer busy, merge skipped")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer w.Close()

	res, err := w.Merge(ctx)
	if err != nil {
		return false, err
	}
	return res.Merged > 0, nil
}

// String implements fmt.Stringer for suture logs.
func (s *MergeService) String() string {
	return s.name
}
