// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package engine

import "runtime"

// Reload policies.
const (
	// ReloadOnCommit refreshes the index reader after every successful commit.
	ReloadOnCommit = "on_commit"
	// ReloadManual leaves the reader on its snapshot until Reader.Reload is called.
	ReloadManual = "manual"
)

// StoreConfig tunes the BadgerDB instance behind an index.
type StoreConfig struct {
	// InMemory keeps everything in RAM. The path is ignored.
	InMemory bool

	// ReadOnly opens the database without write access. Writer fails with ErrReadOnly.
	ReadOnly bool

	// SyncWrites forces fsync after every commit.
	SyncWrites bool

	// Compression enables Snappy block compression.
	Compression bool

	// MemTableSize is the size of each memtable in bytes.
	MemTableSize int64

	// ValueLogFileSize is the size of each value log file in bytes.
	ValueLogFileSize int64

	// NumCompactors is the number of compaction workers. BadgerDB needs at least 2.
	NumCompactors int

	// NumMemtables is the number of memtables to keep in memory.
	NumMemtables int

	// BlockCacheSize is the size of the block cache in bytes.
	BlockCacheSize int64

	// IndexCacheSize is the size of the index cache in bytes. 0 uses the block cache.
	IndexCacheSize int64
}

// Options configures an Index.
type Options struct {
	// Name labels the index in logs and metrics ("recipes", "ingredients").
	Name string

	Store StoreConfig

	// WriterBufferDocs is the number of staged documents that triggers a
	// flush into a pending segment. Flushed segments stay invisible until Commit.
	WriterBufferDocs int

	// ReloadPolicy is ReloadOnCommit or ReloadManual.
	ReloadPolicy string

	// Parallelism bounds how many segments a search collects concurrently.
	Parallelism int
}

// DefaultStoreConfig returns durable defaults.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		SyncWrites:       true,
		Compression:      true,
		MemTableSize:     16 * 1024 * 1024,
		ValueLogFileSize: 64 * 1024 * 1024,
		NumCompactors:    2,
		NumMemtables:     5,
		BlockCacheSize:   64 * 1024 * 1024,
	}
}

// DefaultOptions returns Options suitable for a small catalog.
func DefaultOptions() Options {
	return Options{
		Name:             "index",
		Store:            DefaultStoreConfig(),
		WriterBufferDocs: 10000,
		ReloadPolicy:     ReloadOnCommit,
		Parallelism:      runtime.GOMAXPROCS(0),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Name == "" {
		o.Name = d.Name
	}
	if o.WriterBufferDocs <= 0 {
		o.WriterBufferDocs = d.WriterBufferDocs
	}
	if o.ReloadPolicy != ReloadManual {
		o.ReloadPolicy = ReloadOnCommit
	}
	if o.Parallelism <= 0 {
		o.Parallelism = d.Parallelism
	}
	if o.Store.NumCompactors < 2 {
		o.Store.NumCompactors = d.Store.NumCompactors
	}
	if o.Store.MemTableSize <= 0 {
		o.Store.MemTableSize = d.Store.MemTableSize
	}
	if o.Store.ValueLogFileSize <= 0 {
		o.Store.ValueLogFileSize = d.Store.ValueLogFileSize
	}
	return o
}
