// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package search

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/tomtom215/bareshelf/internal/engine"
)

func TestOpenOrCreatePersists(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "data")

	ix, err := OpenOrCreate(dir, testOptions())
	if err != nil {
		t.Fatalf("OpenOrCreate() error = %v", err)
	}
	index(t, ix, fixtureRecipes, fixtureCatalog)
	if err := ix.Close(); err != nil {
		t.Fatal(err)
	}

	for _, sub := range []string{RecipesDir, IngredientsDir} {
		if _, err := os.Stat(filepath.Join(dir, sub)); err != nil {
			t.Errorf("collection directory %q: %v", sub, err)
		}
	}

	ix, err = Open(dir, testOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer ix.Close()
	s := NewSearcher(ix, DefaultSearcherOptions())

	res, err := s.Recipes(context.Background(), NewRecipeQuery(Slugs("egg", "oil")...))
	if err != nil {
		t.Fatal(err)
	}
	if res.Len() != 3 {
		t.Errorf("reopened index returned %d recipes, want 3", res.Len())
	}
	all, err := s.Ingredients(context.Background(), AllIngredients())
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(all, fixtureCatalog) {
		t.Errorf("reopened catalog = %v", all)
	}

	// A second OpenOrCreate finds the existing collections.
	_ = ix.Close()
	ix, err = OpenOrCreate(dir, testOptions())
	if err != nil {
		t.Fatalf("OpenOrCreate() on existing data error = %v", err)
	}
	defer ix.Close()
	if n := ix.Recipes.Reader().Snapshot().NumDocs(); n != 3 {
		t.Errorf("NumDocs() = %d, want 3", n)
	}
}

func TestOpenMissingPath(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "nope"), testOptions())
	if !errors.Is(err, ErrIO) {
		t.Errorf("Open() error = %v, want ErrIO", err)
	}
}

func TestOpenWithoutCollections(t *testing.T) {
	t.Parallel()

	_, err := Open(t.TempDir(), testOptions())
	if !errors.Is(err, ErrEngine) || !errors.Is(err, engine.ErrIndexNotFound) {
		t.Errorf("Open() error = %v, want ErrEngine wrapping ErrIndexNotFound", err)
	}
}

// driftedRecipes is the recipes schema with title declared as an exact string.
func driftedRecipes(t *testing.T) *engine.Schema {
	t.Helper()
	b := engine.NewSchemaBuilder()
	b.AddStringField(FieldTitle, engine.Indexed|engine.Stored)
	b.AddStringField(FieldSlug, engine.Indexed|engine.Stored)
	b.AddTextField(FieldURL, engine.Stored)
	b.AddTextField(FieldChefName, engine.Stored)
	b.AddTextField(FieldImageName, engine.Stored)
	b.AddTextField(FieldIngredientName, engine.Indexed|engine.Stored)
	b.AddFacetField(FieldIngredientSlug, engine.Stored)
	s, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestOpenSchemaDrift(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	opts := testOptions()

	recipes, err := engine.Create(filepath.Join(dir, RecipesDir), driftedRecipes(t), opts.Recipes)
	if err != nil {
		t.Fatal(err)
	}
	_ = recipes.Close()
	ingredients, err := engine.Create(filepath.Join(dir, IngredientsDir), IngredientsSchema(), opts.Ingredients)
	if err != nil {
		t.Fatal(err)
	}
	_ = ingredients.Close()

	if _, err := Open(dir, opts); !errors.Is(err, ErrOther) {
		t.Errorf("Open() error = %v, want ErrOther", err)
	}
	if _, err := OpenOrCreate(dir, opts); !errors.Is(err, engine.ErrSchemaMismatch) || !errors.Is(err, ErrEngine) {
		t.Errorf("OpenOrCreate() error = %v, want ErrEngine wrapping ErrSchemaMismatch", err)
	}
}

func TestBindRejectsMissingField(t *testing.T) {
	t.Parallel()

	b := engine.NewSchemaBuilder()
	b.AddTextField(FieldName, engine.Indexed|engine.Stored)
	s, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bindIngredientFields(s); !errors.Is(err, ErrOther) {
		t.Errorf("bindIngredientFields() error = %v, want ErrOther", err)
	}
	if _, err := bindIngredientFields(IngredientsSchema()); err != nil {
		t.Errorf("bindIngredientFields() on the catalog schema: %v", err)
	}
}

func TestManualReload(t *testing.T) {
	t.Parallel()
	opts := testOptions()
	opts.Recipes.ReloadPolicy = engine.ReloadManual
	ix := newMemIndexes(t, opts)
	index(t, ix, fixtureRecipes, nil)

	if n := ix.Recipes.Reader().Snapshot().NumDocs(); n != 0 {
		t.Fatalf("manual policy published %d docs before Reload", n)
	}
	if err := ix.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := ix.Recipes.Reader().Snapshot().NumDocs(); n != 3 {
		t.Errorf("NumDocs() after Reload = %d, want 3", n)
	}
}
