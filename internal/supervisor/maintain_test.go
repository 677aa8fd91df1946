// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package supervisor

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/tomtom215/bareshelf/internal/config"
	"github.com/tomtom215/bareshelf/internal/search"
)

func memIndexes(t *testing.T) *search.Indexes {
	t.Helper()
	opts := search.DefaultOptions()
	opts.Recipes.Store.SyncWrites = false
	opts.Recipes.Store.BlockCacheSize = 1 << 20
	opts.Recipes.Store.ValueLogFileSize = 1 << 20
	opts.Ingredients.Store = opts.Recipes.Store
	ix, err := search.CreateInMemory(opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = ix.Close() })
	return ix
}

func TestNewMaintenanceTree(t *testing.T) {
	tests := []struct {
		name   string
		adjust func(*config.Config)
		want   []string
	}{
		{"defaults", func(*config.Config) {}, []string{"value-log-gc", "segment-merge"}},
		{"metrics", func(c *config.Config) {
			c.Metrics.Enabled = true
			c.Metrics.Addr = "127.0.0.1:0"
		}, []string{"value-log-gc", "segment-merge", "metrics-server"}},
		{"gc disabled", func(c *config.Config) { c.Maintenance.GCInterval = 0 }, []string{"segment-merge"}},
		{"nothing", func(c *config.Config) {
			c.Maintenance.GCInterval = 0
			c.Maintenance.MergeInterval = 0
		}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Metrics.Enabled = false
			tt.adjust(cfg)
			tree, err := NewMaintenanceTree(cfg, memIndexes(t))
			if err != nil {
				t.Fatalf("NewMaintenanceTree() error = %v", err)
			}
			if got := tree.ServiceNames(); !slices.Equal(got, tt.want) {
				t.Errorf("services = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMaintenanceTreeRuns(t *testing.T) {
	cfg := config.Default()
	cfg.Metrics.Enabled = false
	cfg.Maintenance.GCInterval = 5 * time.Millisecond
	cfg.Maintenance.MergeInterval = 5 * time.Millisecond
	tree, err := NewMaintenanceTree(cfg, memIndexes(t))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err = tree.Serve(ctx)
	if ctx.Err() == nil {
		t.Fatalf("Serve() returned %v before the context ended", err)
	}
}
