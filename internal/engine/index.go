// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/bareshelf/internal/logging"
)

// manifest lists the committed segments. It is the only thing that makes a
// segment visible.
type manifest struct {
	Generation  uint64    `json:"generation"`
	Segments    []string  `json:"segments"`
	CommittedAt time.Time `json:"committed_at"`
}

// Index is one persisted document collection.
type Index struct {
	path   string
	opts   Options
	schema *Schema
	store  *store
	reader *Reader
	log    zerolog.Logger

	writerBusy atomic.Bool

	mu     sync.RWMutex
	closed bool
}

// Create initializes a new index at path. The directory must be empty or not
// exist yet.
func Create(path string, schema *Schema, opts Options) (*Index, error) {
	opts = opts.withDefaults()
	if !opts.Store.InMemory {
		if err := requireEmptyDir(path); err != nil {
			return nil, err
		}
	}
	if opts.Store.ReadOnly {
		return nil, fmt.Errorf("create %s: %w", path, ErrReadOnly)
	}
	st, err := openStore(path, opts.Store)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(schema)
	if err != nil {
		_ = st.close()
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	m, err := json.Marshal(manifest{CommittedAt: time.Now().UTC()})
	if err != nil {
		_ = st.close()
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := st.update(kv{key: keySchema, value: data}, kv{key: keyManifest, value: m}); err != nil {
		_ = st.close()
		return nil, fmt.Errorf("persist schema: %w", err)
	}
	idx, err := newIndex(path, schema, st, opts)
	if err != nil {
		_ = st.close()
		return nil, err
	}
	idx.log.Debug().Str("path", path).Int("fields", schema.NumFields()).Msg("Index created")
	return idx, nil
}

// CreateInMemory returns an index held entirely in RAM. It is meant for tests.
func CreateInMemory(schema *Schema, opts Options) (*Index, error) {
	opts.Store.InMemory = true
	opts.Store.ReadOnly = false
	return Create("", schema, opts)
}

// Open opens an existing index, removing any segment data that no commit published.
func Open(path string, opts Options) (*Index, error) {
	opts = opts.withDefaults()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", path, ErrIndexNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	st, err := openStore(path, opts.Store)
	if err != nil {
		return nil, err
	}
	data, err := st.get(keySchema)
	if err != nil {
		_ = st.close()
		return nil, err
	}
	if data == nil {
		_ = st.close()
		return nil, fmt.Errorf("open %s: %w", path, ErrIndexNotFound)
	}
	schema := &Schema{}
	if err := json.Unmarshal(data, schema); err != nil {
		_ = st.close()
		return nil, fmt.Errorf("open %s: %w: schema: %v", path, ErrCorrupt, err)
	}
	idx, err := newIndex(path, schema, st, opts)
	if err != nil {
		_ = st.close()
		return nil, err
	}
	if !st.readOnly {
		if err := idx.dropOrphans(); err != nil {
			_ = idx.Close()
			return nil, err
		}
	}
	idx.log.Debug().Str("path", path).Uint64("generation", idx.reader.Snapshot().Generation()).Msg("Index opened")
	return idx, nil
}

// OpenOrCreate opens the index at path, creating it when the directory is
// empty or missing. An existing index must have been created with schema.
func OpenOrCreate(path string, schema *Schema, opts Options) (*Index, error) {
	empty, err := dirIsEmpty(path)
	if err != nil {
		return nil, err
	}
	if empty {
		return Create(path, schema, opts)
	}
	idx, err := Open(path, opts)
	if err != nil {
		return nil, err
	}
	if !idx.schema.Equal(schema) {
		_ = idx.Close()
		return nil, fmt.Errorf("open %s: %w", path, ErrSchemaMismatch)
	}
	return idx, nil
}

func newIndex(path string, schema *Schema, st *store, opts Options) (*Index, error) {
	idx := &Index{
		path:   path,
		opts:   opts,
		schema: schema,
		store:  st,
		log:    logging.WithComponent("engine").With().Str("index", opts.Name).Logger(),
	}
	idx.reader = newReader(idx)
	if err := idx.reader.Reload(context.Background()); err != nil {
		return nil, err
	}
	return idx, nil
}

// dropOrphans removes segment keys that are not referenced by the manifest.
func (idx *Index) dropOrphans() error {
	live := make(map[string]struct{})
	for _, seg := range idx.reader.Snapshot().Segments() {
		live[seg.ID()] = struct{}{}
	}
	orphans := make(map[string]struct{})
	err := idx.store.scanKeys(prefixSeg, func(key []byte) error {
		rest := string(key[len(prefixSeg):])
		id, _, ok := strings.Cut(rest, "/")
		if !ok {
			return nil
		}
		if _, ok := live[id]; !ok {
			orphans[id] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan segments: %w", err)
	}
	if len(orphans) == 0 {
		return nil
	}
	prefixes := make([][]byte, 0, len(orphans))
	for id := range orphans {
		prefixes = append(prefixes, segmentPrefix(id))
	}
	if err := idx.store.dropPrefix(prefixes...); err != nil {
		return err
	}
	idx.log.Info().Int("segments", len(orphans)).Msg("Removed uncommitted segments")
	return nil
}

// Schema returns the persisted schema.
func (idx *Index) Schema() *Schema {
	return idx.schema
}

// Name returns the index label from Options.
func (idx *Index) Name() string {
	return idx.opts.Name
}

// Path returns the directory the index lives in. It is empty for in-memory indexes.
func (idx *Index) Path() string {
	return idx.path
}

// Reader returns the shared reader.
func (idx *Index) Reader() *Reader {
	return idx.reader
}

// Writer acquires the index's single writer. It fails with ErrWriterBusy
// while another writer is open.
func (idx *Index) Writer() (*Writer, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return nil, ErrClosed
	}
	if idx.store.readOnly {
		return nil, ErrReadOnly
	}
	if !idx.writerBusy.CompareAndSwap(false, true) {
		return nil, ErrWriterBusy
	}
	return newWriter(idx), nil
}

// GC reclaims value-log space and returns the number of rewritten files.
func (idx *Index) GC(ratio float64) (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return 0, ErrClosed
	}
	return idx.store.runGC(ratio)
}

// Close releases the store. Snapshots already handed out remain readable.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return nil
	}
	idx.closed = true
	return idx.store.close()
}

func (idx *Index) isClosed() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.closed
}

func (idx *Index) readManifest() (manifest, error) {
	var m manifest
	data, err := idx.store.get(keyManifest)
	if err != nil {
		return m, err
	}
	if data == nil {
		return m, fmt.Errorf("%w: missing manifest", ErrCorrupt)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("%w: manifest: %v", ErrCorrupt, err)
	}
	return m, nil
}

func requireEmptyDir(path string) error {
	empty, err := dirIsEmpty(path)
	if err != nil {
		return err
	}
	if !empty {
		return fmt.Errorf("create %s: %w", path, ErrIndexExists)
	}
	return nil
}

func dirIsEmpty(path string) (bool, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("inspect %s: %w", path, err)
	}
	defer f.Close()
	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("inspect %s: %w", path, err)
	}
	return false, nil
}
