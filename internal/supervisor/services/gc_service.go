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
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/bareshelf/internal/engine"
	"github.com/tomtom215/bareshelf/internal/logging"
	"github.com/tomtom215/bareshelf/internal/metrics"
)

// Collectable is a store with a value log to garbage-collect.
//
// Satisfied by *engine.Index.
type Collectable interface {
	Name() string
	GC(ratio float64) (int, error)
}

// GCService periodically reclaims value-log space in every collection.
//
// Each run collects all targets concurrently. A failing target is logged and
// retried on the next tick; a closed target stops the service for good.
type GCService struct {
	targets  []Collectable
	interval time.Duration
	ratio    float64
	name     string
}

// NewGCService creates a GC service running every interval.
func NewGCService(interval time.Duration, ratio float64, targets ...Collectable) *GCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if ratio <= 0 || ratio >= 1 {
		ratio = 0.5
	}
	return &GCService{targets: targets, interval: interval, ratio: ratio, name: "value-log-gc"}
}

// Serve implements suture.Service.
func (s *GCService) Serve(ctx context.Context) error {
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

// RunOnce collects every target and returns the total number of rewritten
// value-log files.
func (s *GCService) RunOnce(ctx context.Context) (int, error) {
	log := logging.WithComponent("supervisor")
	rewritten := make([]int, len(s.targets))

	var g errgroup.Group
	for i, target := range s.targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			n, err := target.GC(s.ratio)
			metrics.RecordGC(target.Name(), time.Since(start), n, err)
			if err != nil {
				log.Error().Err(err).Str("index", target.Name()).Msg("Value log GC failed")
				return fmt.Errorf("gc %s: %w", target.Name(), err)
			}
			rewritten[i] = n
			if n > 0 {
				log.Info().Str("index", target.Name()).Int("rewritten", n).Dur("duration", time.Since(start)).Msg("Value log GC complete")
			}
			return nil
		})
	}
	err := g.Wait()

	total := 0
	for _, n := range rewritten {
		total += n
	}
	return total, err
}

// String implements fmt.Stringer for suture logs.
func (s *GCService) String() string {
	return s.name
}
