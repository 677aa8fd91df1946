// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/bareshelf/internal/engine"
)

type fakeCollectable struct {
	name      string
	rewritten int
	err       error
	ratio     atomic.Value
	calls     atomic.Int32
}

func (f *fakeCollectable) Name() string { return f.name }

func (f *fakeCollectable) GC(ratio float64) (int, error) {
	f.calls.Add(1)
	f.ratio.Store(ratio)
	return f.rewritten, f.err
}

var _ suture.Service = (*GCService)(nil)
var _ Collectable = (*engine.Index)(nil)

func TestNewGCServiceDefaults(t *testing.T) {
	tests := []struct {
		interval  time.Duration
		ratio     float64
		wantEvery time.Duration
		wantRatio float64
	}{
		{0, 0, 10 * time.Minute, 0.5},
		{time.Minute, 0.7, time.Minute, 0.7},
		{-time.Second, 1, 10 * time.Minute, 0.5},
	}
	for _, tt := range tests {
		svc := NewGCService(tt.interval, tt.ratio)
		if svc.interval != tt.wantEvery || svc.ratio != tt.wantRatio {
			t.Errorf("NewGCService(%v, %v) = %v, %v", tt.interval, tt.ratio, svc.interval, svc.ratio)
		}
	}
	if NewGCService(0, 0).String() != "value-log-gc" {
		t.Error("unexpected service name")
	}
}

func TestGCServiceRunOnce(t *testing.T) {
	recipes := &fakeCollectable{name: "recipes", rewritten: 2}
	ingredients := &fakeCollectable{name: "ingredients", rewritten: 1}
	svc := NewGCService(time.Minute, 0.25, recipes, ingredients)

	n, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if n != 3 {
		t.Errorf("RunOnce() = %d, want 3", n)
	}
	if got := recipes.ratio.Load(); got != 0.25 {
		t.Errorf("ratio passed = %v, want 0.25", got)
	}

	failing := &fakeCollectable{name: "broken", err: errors.New("disk full")}
	svc = NewGCService(time.Minute, 0.5, recipes, failing)
	n, err = svc.RunOnce(context.Background())
	if err == nil {
		t.Fatal("RunOnce() with failing target returned nil error")
	}
	if n != 2 {
		t.Errorf("RunOnce() = %d, want the healthy target's 2", n)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	before := recipes.calls.Load()
	if _, err := NewGCService(time.Minute, 0.5, recipes).RunOnce(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("RunOnce() canceled = %v", err)
	}
	if recipes.calls.Load() != before {
		t.Error("GC ran on a canceled context")
	}
}

func TestGCServiceStopsOnClosedIndex(t *testing.T) {
	closed := &fakeCollectable{name: "recipes", err: engine.ErrClosed}
	svc := NewGCService(5*time.Millisecond, 0.5, closed)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := svc.Serve(ctx)
	if !errors.Is(err, suture.ErrDoNotRestart) || !errors.Is(err, engine.ErrClosed) {
		t.Errorf("Serve() = %v, want ErrDoNotRestart wrapping ErrClosed", err)
	}
}

func TestGCServiceKeepsRunningAfterFailure(t *testing.T) {
	flaky := &fakeCollectable{name: "recipes", err: errors.New("transient")}
	svc := NewGCService(5*time.Millisecond, 0.5, flaky)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
	}
	if flaky.calls.Load() < 2 {
		t.Errorf("GC ran %d times, want repeated runs", flaky.calls.Load())
	}
}
