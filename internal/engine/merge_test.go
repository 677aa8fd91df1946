// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package engine

import (
	"context"
	"errors"
	"maps"
	"path/filepath"
	"slices"
	"testing"
)

func TestMerge(t *testing.T) {
	idx, f := recipeIndex(t, 1)
	before := idx.Reader().Snapshot()
	if len(before.Segments()) != 4 {
		t.Fatalf("segments before merge = %d, want 4", len(before.Segments()))
	}
	wantCounts, err := Search(context.Background(), before, AllQuery{}, NewFacetCountCollector(f.tag, "/ingredient"))
	if err != nil {
		t.Fatal(err)
	}

	w, err := idx.Writer()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	res, err := w.Merge(context.Background())
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if res.Merged != 4 || res.Docs != 4 || res.SegmentID == "" {
		t.Errorf("Merge() = %+v", res)
	}

	after := idx.Reader().Snapshot()
	if len(after.Segments()) != 1 || after.NumDocs() != 4 {
		t.Errorf("after merge: %d docs in %d segments", after.NumDocs(), len(after.Segments()))
	}
	if after.Generation() != before.Generation()+1 {
		t.Errorf("Generation() = %d, want %d", after.Generation(), before.Generation()+1)
	}

	gotCounts, err := Search(context.Background(), after, AllQuery{}, NewFacetCountCollector(f.tag, "/ingredient"))
	if err != nil {
		t.Fatal(err)
	}
	if !maps.Equal(gotCounts, wantCounts) {
		t.Errorf("facet counts changed by merge: %v, want %v", gotCounts, wantCounts)
	}
	if got := slugsOf(t, idx, f, NewTermQuery(f.title, "egg")); !slices.Equal(got, []string{"egg-rolls", "fried-egg", "scrambled-egg"}) {
		t.Errorf("egg after merge = %q", got)
	}

	// The old snapshot keeps working.
	if n, err := Search(context.Background(), before, AllQuery{}, Count()); err != nil || n != 4 {
		t.Errorf("old snapshot count = %d, %v", n, err)
	}

	// A single segment has nothing to merge.
	res, err = w.Merge(context.Background())
	if err != nil || res.Merged != 0 {
		t.Errorf("second Merge() = %+v, %v", res, err)
	}
}

func TestMergeSurvivesReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "idx")
	schema, f := testSchema(t)
	opts := testOptions()
	opts.WriterBufferDocs = 2

	idx, err := Create(dir, schema, opts)
	if err != nil {
		t.Fatal(err)
	}
	indexDocs(t, idx, f, recipeDocs...)
	w, err := idx.Writer()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Merge(context.Background()); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	_ = w.Close()
	if err := idx.Close(); err != nil {
		t.Fatal(err)
	}

	idx, err = Open(dir, opts)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	snap := idx.Reader().Snapshot()
	if len(snap.Segments()) != 1 || snap.NumDocs() != 4 {
		t.Errorf("reopened merged index: %d docs in %d segments", snap.NumDocs(), len(snap.Segments()))
	}
}

func TestMergeRequiresStoredFields(t *testing.T) {
	b := NewSchemaBuilder()
	title := b.AddTextField("title", Indexed)
	schema, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	opts := testOptions()
	opts.WriterBufferDocs = 1
	idx, err := CreateInMemory(schema, opts)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	w, err := idx.Writer()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	for _, s := range []string{"a", "b"} {
		if err := w.AddDocument(NewDocument().AddText(title, s)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Commit(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Merge(context.Background()); !errors.Is(err, ErrNotMergeable) {
		t.Errorf("Merge() error = %v, want ErrNotMergeable", err)
	}
}
