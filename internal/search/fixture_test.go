// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package search

import (
	"context"
	"testing"
)

func ingredient(name, slug string) Ingredient {
	return Ingredient{Name: name, Slug: slug}
}

var (
	friedEgg = Recipe{
		Title: "Fried egg", Slug: "fried-egg", URL: "http://example.org/one",
		Ingredients: []Ingredient{ingredient("Egg", "egg"), ingredient("Oil", "oil")},
	}
	scrambledEgg = Recipe{
		Title: "Scrambled egg", Slug: "scrambled-egg", URL: "http://example.org/two",
		Ingredients: []Ingredient{
			ingredient("Egg", "egg"), ingredient("Butter", "butter"),
			ingredient("Milk", "milk"), ingredient("Salt", "salt"),
		},
	}
	eggRolls = Recipe{
		Title: "Egg rolls", Slug: "egg-rolls", URL: "http://example.org/three",
		Ingredients: []Ingredient{
			ingredient("Egg", "egg"), ingredient("Garlic", "garlic"),
			ingredient("Salt", "salt"), ingredient("Oil", "oil"),
			ingredient("Tortilla wrap", "tortilla-wrap"), ingredient("Mushroom", "mushroom"),
		},
	}

	fixtureRecipes = []Recipe{friedEgg, scrambledEgg, eggRolls}

	fixtureCatalog = []Ingredient{
		ingredient("Peanut butter", "peanut-butter"),
		ingredient("Sugar", "sugar"),
		ingredient("Egg", "egg"),
		ingredient("Butter", "butter"),
		ingredient("Butter beans", "butter-beans"),
		ingredient("Brown sugar", "brown-sugar"),
		ingredient("Garlic", "garlic"),
		ingredient("Milk", "milk"),
		ingredient("Salt", "salt"),
		ingredient("Oil", "oil"),
		ingredient("Tortilla wrap", "tortilla-wrap"),
		ingredient("Mushroom", "mushroom"),
	}
)

// testOptions keeps badger small and skips fsync.
func testOptions() Options {
	opts := DefaultOptions()
	opts.Recipes.Store.SyncWrites = false
	opts.Recipes.Store.BlockCacheSize = 1 << 20
	opts.Recipes.Store.ValueLogFileSize = 1 << 20
	opts.Ingredients.Store = opts.Recipes.Store
	return opts
}

func newMemIndexes(t *testing.T, opts Options) *Indexes {
	t.Helper()
	ix, err := CreateInMemory(opts)
	if err != nil {
		t.Fatalf("CreateInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = ix.Close() })
	return ix
}

func index(t *testing.T, ix *Indexes, recipes []Recipe, catalog []Ingredient) {
	t.Helper()
	idx, err := NewIndexer(ix)
	if err != nil {
		t.Fatalf("NewIndexer() error = %v", err)
	}
	defer idx.Close()
	for _, r := range recipes {
		if err := idx.AddRecipe(r); err != nil {
			t.Fatalf("AddRecipe(%q) error = %v", r.Slug, err)
		}
	}
	for _, ing := range catalog {
		if err := idx.AddIngredient(ing); err != nil {
			t.Fatalf("AddIngredient(%q) error = %v", ing.Slug, err)
		}
	}
	if err := idx.Commit(context.Background()); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
}

// fixtureSearcher indexes the shared fixture into fresh in-memory collections.
func fixtureSearcher(t *testing.T) (*Searcher, *Indexes) {
	t.Helper()
	ix := newMemIndexes(t, testOptions())
	index(t, ix, fixtureRecipes, fixtureCatalog)
	return NewSearcher(ix, DefaultSearcherOptions()), ix
}

func titles(results []RecipeSearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Recipe.Title
	}
	return out
}

func names(ings []Ingredient) []string {
	out := make([]string, len(ings))
	for i, ing := range ings {
		out[i] = ing.Name
	}
	return out
}
