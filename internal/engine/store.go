// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package engine

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// Key layout. See the package documentation.
var (
	keySchema   = []byte("m/schema")
	keyManifest = []byte("m/manifest")
	prefixSeg   = []byte("s/")
)

const (
	tagMeta     = 'm'
	tagTerm     = 't'
	tagNorms    = 'n'
	tagFacets   = 'f'
	tagDocument = 'd'
)

func segmentPrefix(id string) []byte {
	b := make([]byte, 0, len(prefixSeg)+len(id)+1)
	b = append(b, prefixSeg...)
	b = append(b, id...)
	return append(b, '/')
}

func segmentKey(id string, tag byte, rest ...byte) []byte {
	b := segmentPrefix(id)
	b = append(b, tag, '/')
	return append(b, rest...)
}

func fieldBytes(f Field) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(f))
	return b[:]
}

func docBytes(doc DocID) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(doc))
	return b[:]
}

// kv is one pending write.
type kv struct {
	key   []byte
	value []byte
}

// store wraps the BadgerDB instance behind one index.
type store struct {
	db       *badger.DB
	inMemory bool
	readOnly bool
}

func openStore(path string, cfg StoreConfig) (*store, error) {
	opts := badger.DefaultOptions(path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites
	opts.ReadOnly = cfg.ReadOnly && !cfg.InMemory
	opts.MemTableSize = cfg.MemTableSize
	opts.ValueLogFileSize = cfg.ValueLogFileSize
	opts.NumCompactors = cfg.NumCompactors

	if cfg.Compression {
		opts.Compression = options.Snappy
	}
	if cfg.NumMemtables > 0 {
		opts.NumMemtables = cfg.NumMemtables
	}
	if cfg.BlockCacheSize > 0 {
		opts.BlockCacheSize = cfg.BlockCacheSize
	}
	if cfg.IndexCacheSize > 0 {
		opts.IndexCacheSize = cfg.IndexCacheSize
	}

	// Badger's own logger is noisy and bypasses zerolog.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}
	return &store{db: db, inMemory: cfg.InMemory, readOnly: opts.ReadOnly}, nil
}

// get returns the value stored under key, or nil when the key is absent.
func (s *store) get(key []byte) ([]byte, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", key, err)
	}
	return out, nil
}

// update writes all pairs in a single transaction.
func (s *store) update(pairs ...kv) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, p := range pairs {
			if err := txn.Set(p.key, p.value); err != nil {
				return fmt.Errorf("set %q: %w", p.key, err)
			}
		}
		return nil
	})
}

// writeBatch writes pairs that may exceed one transaction. The batch is not
// atomic; callers publish it afterwards with a single update.
func (s *store) writeBatch(pairs []kv) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, p := range pairs {
		if err := wb.Set(p.key, p.value); err != nil {
			return fmt.Errorf("batch set: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("batch flush: %w", err)
	}
	return nil
}

// scanPrefix calls fn for every key under prefix in key order. The slices
// passed to fn are only valid during the call.
func (s *store) scanPrefix(prefix []byte, fn func(key, value []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			if err := item.Value(func(val []byte) error {
				return fn(item.Key(), val)
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// scanKeys lists keys under prefix without reading values.
func (s *store) scanKeys(prefix []byte, fn func(key []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := fn(it.Item().Key()); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *store) dropPrefix(prefixes ...[]byte) error {
	if len(prefixes) == 0 {
		return nil
	}
	if err := s.db.DropPrefix(prefixes...); err != nil {
		return fmt.Errorf("drop prefix: %w", err)
	}
	return nil
}

// runGC runs value-log GC until nothing is left to rewrite and returns the
// number of rewritten files.
func (s *store) runGC(ratio float64) (int, error) {
	if s.inMemory || s.readOnly {
		return 0, nil
	}
	rewritten := 0
	for {
		err := s.db.RunValueLogGC(ratio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
			return rewritten, nil
		}
		if err != nil {
			return rewritten, fmt.Errorf("run GC: %w", err)
		}
		rewritten++
	}
}

func (s *store) close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	return nil
}
