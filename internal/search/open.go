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

	"github.com/tomtom215/bareshelf/internal/engine"
)

// Collection directory names under the data path.
const (
	RecipesDir     = "recipes"
	IngredientsDir = "ingredients"
)

// Options configures the two collections.
type Options struct {
	Recipes     engine.Options
	Ingredients engine.Options
}

// DefaultOptions returns engine defaults named after each collection.
func DefaultOptions() Options {
	r := engine.DefaultOptions()
	r.Name = RecipesDir
	i := engine.DefaultOptions()
	i.Name = IngredientsDir
	return Options{Recipes: r, Ingredients: i}
}

// Indexes is an open pair of recipe and ingredient collections with their
// field handles bound.
type Indexes struct {
	Recipes     *engine.Index
	Ingredients *engine.Index

	recipe     recipeFields
	ingredient ingredientFields
}

// OpenOrCreate opens the collections under path, creating whichever is missing.
func OpenOrCreate(path string, opts Options) (*Indexes, error) {
	const op = "open or create"
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, classify(op, err)
	}
	return openPair(op, opts,
		func(o engine.Options) (*engine.Index, error) {
			return engine.OpenOrCreate(filepath.Join(path, RecipesDir), RecipesSchema(), o)
		},
		func(o engine.Options) (*engine.Index, error) {
			return engine.OpenOrCreate(filepath.Join(path, IngredientsDir), IngredientsSchema(), o)
		})
}

// Open opens existing collections under path. Both must hold a persisted schema.
func Open(path string, opts Options) (*Indexes, error) {
	const op = "open"
	if _, err := os.Stat(path); err != nil {
		return nil, classify(op, err)
	}
	return openPair(op, opts,
		func(o engine.Options) (*engine.Index, error) {
			return engine.Open(filepath.Join(path, RecipesDir), o)
		},
		func(o engine.Options) (*engine.Index, error) {
			return engine.Open(filepath.Join(path, IngredientsDir), o)
		})
}

// CreateInMemory returns empty collections held in RAM.
func CreateInMemory(opts Options) (*Indexes, error) {
	return openPair("create in memory", opts,
		func(o engine.Options) (*engine.Index, error) {
			return engine.CreateInMemory(RecipesSchema(), o)
		},
		func(o engine.Options) (*engine.Index, error) {
			return engine.CreateInMemory(IngredientsSchema(), o)
		})
}

type openFunc func(engine.Options) (*engine.Index, error)

func openPair(op string, opts Options, openRecipes, openIngredients openFunc) (*Indexes, error) {
	if opts.Recipes.Name == "" {
		opts.Recipes.Name = RecipesDir
	}
	if opts.Ingredients.Name == "" {
		opts.Ingredients.Name = IngredientsDir
	}

	recipes, err := openRecipes(opts.Recipes)
	if err != nil {
		return nil, classify(op+" "+RecipesDir, err)
	}
	ingredients, err := openIngredients(opts.Ingredients)
	if err != nil {
		_ = recipes.Close()
		return nil, classify(op+" "+IngredientsDir, err)
	}

	ix := &Indexes{Recipes: recipes, Ingredients: ingredients}
	if ix.recipe, err = bindRecipeFields(recipes.Schema()); err != nil {
		_ = ix.Close()
		return nil, err
	}
	if ix.ingredient, err = bindIngredientFields(ingredients.Schema()); err != nil {
		_ = ix.Close()
		return nil, err
	}
	return ix, nil
}

// All returns both collections, recipes first.
func (ix *Indexes) All() []*engine.Index {
	return []*engine.Index{ix.Recipes, ix.Ingredients}
}

// Reload refreshes the snapshots of both collections. It is only needed with
// the manual reload policy.
func (ix *Indexes) Reload(ctx context.Context) error {
	for _, idx := range ix.All() {
		if err := idx.Reader().Reload(ctx); err != nil {
			return classify("reload "+idx.Name(), err)
		}
	}
	return nil
}

// Close closes both collections.
func (ix *Indexes) Close() error {
	return classify("close", errors.Join(ix.Recipes.Close(), ix.Ingredients.Close()))
}
