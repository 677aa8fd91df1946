// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package config

import (
	"path/filepath"
	"time"

	"github.com/tomtom215/bareshelf/internal/engine"
	"github.com/tomtom215/bareshelf/internal/search"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML file (bareshelf.yaml) for persistent settings
//  3. Environment Variables: BARESHELF_* overrides
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Index       IndexConfig       `koanf:"index"`
	Search      SearchConfig      `koanf:"search"`
	Maintenance MaintenanceConfig `koanf:"maintenance"`
	Metrics     MetricsConfig     `koanf:"metrics"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// IndexConfig configures the on-disk recipe and ingredient indexes.
type IndexConfig struct {
	// Path is the parent directory holding the recipes/ and ingredients/ collections.
	// Default: ./data
	Path string `koanf:"path"`

	// SyncWrites fsyncs every commit before it returns.
	// Default: true
	SyncWrites bool `koanf:"sync_writes"`

	// Compression enables snappy block compression in the store.
	// Default: true
	Compression bool `koanf:"compression"`

	// MemTableSize is the store memtable size in bytes.
	// Default: 16MB
	MemTableSize int64 `koanf:"memtable_size"`

	// ValueLogFileSize is the maximum size of a single value log file in bytes.
	// Default: 64MB
	ValueLogFileSize int64 `koanf:"value_log_file_size"`

	// NumCompactors is the number of background compaction workers.
	// Default: 2
	NumCompactors int `koanf:"num_compactors"`

	// BlockCacheSize is the store block cache size in bytes.
	// Default: 32MB
	BlockCacheSize int64 `koanf:"block_cache_size"`

	// WriterBufferDocs is how many documents a writer buffers before it
	// flushes them into an uncommitted segment.
	// Default: 10000
	WriterBufferDocs int `koanf:"writer_buffer_docs"`

	// ReloadPolicy is on_commit or manual.
	// Default: on_commit
	ReloadPolicy string `koanf:"reload_policy"`
}

// SearchConfig configures query execution.
type SearchConfig struct {
	// DefaultRecipeLimit caps recipe results when the caller gives no limit.
	DefaultRecipeLimit int `koanf:"default_recipe_limit"`

	// PopularLimit is the default number of popular ingredients returned.
	PopularLimit int `koanf:"popular_limit"`

	// Parallelism bounds the number of segments collected concurrently.
	// 0 means GOMAXPROCS.
	Parallelism int `koanf:"parallelism"`

	// FacetCacheSize is the capacity of the popular ingredient cache.
	FacetCacheSize int `koanf:"facet_cache_size"`

	// FacetCacheTTL expires cached popular ingredient counts.
	FacetCacheTTL time.Duration `koanf:"facet_cache_ttl"`
}

// MaintenanceConfig configures the background services started by `bareshelf maintain`.
type MaintenanceConfig struct {
	// GCInterval is how often value log garbage collection runs. 0 disables it.
	GCInterval time.Duration `koanf:"gc_interval"`

	// GCRatio is the discard ratio passed to the store's value log GC.
	GCRatio float64 `koanf:"gc_ratio"`

	// MergeInterval is how often segment counts are checked. 0 disables merging.
	MergeInterval time.Duration `koanf:"merge_interval"`

	// MergeThreshold is the segment count at which a collection is merged.
	MergeThreshold int `koanf:"merge_threshold"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// RecipesPath returns the directory of the recipe collection.
func (c *IndexConfig) RecipesPath() string {
	return filepath.Join(c.Path, search.RecipesDir)
}

// IngredientsPath returns the directory of the ingredient collection.
func (c *IndexConfig) IngredientsPath() string {
	return filepath.Join(c.Path, search.IngredientsDir)
}

// EngineOptions converts the index and search settings into engine options
// for the named collection.
func (c *Config) EngineOptions(name string) engine.Options {
	opts := engine.DefaultOptions()
	opts.Name = name
	opts.Store.SyncWrites = c.Index.SyncWrites
	opts.Store.Compression = c.Index.Compression
	opts.Store.MemTableSize = c.Index.MemTableSize
	opts.Store.ValueLogFileSize = c.Index.ValueLogFileSize
	opts.Store.NumCompactors = c.Index.NumCompactors
	opts.Store.BlockCacheSize = c.Index.BlockCacheSize
	opts.WriterBufferDocs = c.Index.WriterBufferDocs
	opts.ReloadPolicy = c.Index.ReloadPolicy
	if c.Search.Parallelism > 0 {
		opts.Parallelism = c.Search.Parallelism
	}
	return opts
}

// SearchOptions returns engine options for both collections.
func (c *Config) SearchOptions() search.Options {
	return search.Options{
		Recipes:     c.EngineOptions(search.RecipesDir),
		Ingredients: c.EngineOptions(search.IngredientsDir),
	}
}

// SearcherOptions returns the query-time settings.
func (c *Config) SearcherOptions() search.SearcherOptions {
	return search.SearcherOptions{
		DefaultRecipeLimit: c.Search.DefaultRecipeLimit,
		PopularLimit:       c.Search.PopularLimit,
		FacetCacheSize:     c.Search.FacetCacheSize,
		FacetCacheTTL:      c.Search.FacetCacheTTL,
	}
}
