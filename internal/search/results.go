// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package search

import (
	"cmp"
	"maps"
	"slices"
)

// MaxMoreMissing bounds the MoreMissing view: recipes missing fewer than
// this many ingredients (and more than one) are included.
const MaxMoreMissing = 6

// RecipeSearchResult is one ranked recipe.
type RecipeSearchResult struct {
	Score              float64  `json:"score"`
	Recipe             Recipe   `json:"recipe"`
	MissingIngredients []string `json:"missing_ingredients"`
}

// CanMakeNow reports whether every ingredient is on the shelf.
func (r *RecipeSearchResult) CanMakeNow() bool {
	return len(r.MissingIngredients) == 0
}

// NextIngredientCount is one row of the next-ingredient table.
type NextIngredientCount struct {
	Slug  IngredientSlug `json:"slug"`
	Count int            `json:"count"`
}

// RecipeSearchResults is the outcome of a recipe search. It is not modified
// after construction, and the views return fresh slices.
type RecipeSearchResults struct {
	results []RecipeSearchResult
	next    map[IngredientSlug]int
	matches uint64
}

func newRecipeSearchResults(results []RecipeSearchResult, next map[IngredientSlug]int, matches uint64) *RecipeSearchResults {
	if next == nil {
		next = map[IngredientSlug]int{}
	}
	return &RecipeSearchResults{results: results, next: next, matches: matches}
}

func (r *RecipeSearchResults) filter(keep func(*RecipeSearchResult) bool) []RecipeSearchResult {
	out := make([]RecipeSearchResult, 0, len(r.results))
	for i := range r.results {
		if keep(&r.results[i]) {
			out = append(out, r.results[i])
		}
	}
	return out
}

// Len returns the number of ranked results.
func (r *RecipeSearchResults) Len() int {
	return len(r.results)
}

// Matches returns the number of recipes the query matched, which can exceed
// Len when the limit cut the ranking.
func (r *RecipeSearchResults) Matches() uint64 {
	return r.matches
}

// All returns every result in rank order.
func (r *RecipeSearchResults) All() []RecipeSearchResult {
	return slices.Clone(r.results)
}

// CanMakeNow returns the results with nothing missing.
func (r *RecipeSearchResults) CanMakeNow() []RecipeSearchResult {
	return r.filter(func(res *RecipeSearchResult) bool { return len(res.MissingIngredients) == 0 })
}

// OneMissing returns the results missing exactly one ingredient.
func (r *RecipeSearchResults) OneMissing() []RecipeSearchResult {
	return r.filter(func(res *RecipeSearchResult) bool { return len(res.MissingIngredients) == 1 })
}

// MoreMissing returns the results missing two to five ingredients.
func (r *RecipeSearchResults) MoreMissing() []RecipeSearchResult {
	return r.filter(func(res *RecipeSearchResult) bool {
		n := len(res.MissingIngredients)
		return n > 1 && n < MaxMoreMissing
	})
}

// NextIngredients returns, for each ingredient, how many matching recipes it
// would complete. It covers every match, not just the ranked page.
func (r *RecipeSearchResults) NextIngredients() map[IngredientSlug]int {
	return maps.Clone(r.next)
}

// NextIngredientsByCount returns the next-ingredient table, highest count first.
func (r *RecipeSearchResults) NextIngredientsByCount() []NextIngredientCount {
	out := make([]NextIngredientCount, 0, len(r.next))
	for s, n := range r.next {
		out = append(out, NextIngredientCount{Slug: s, Count: n})
	}
	slices.SortFunc(out, func(a, b NextIngredientCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Slug, b.Slug)
	})
	return out
}

// missingIngredients returns the sorted, distinct slugs of r that are not on the shelf.
func missingIngredients(r *Recipe, shelf map[IngredientSlug]struct{}) []string {
	out := []string{}
	for _, s := range r.IngredientSlugs() {
		if _, ok := shelf[s]; !ok {
			out = append(out, string(s))
		}
	}
	return out
}
