// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package search

import "github.com/tomtom215/bareshelf/internal/engine"

// DefaultRecipeLimit is the result limit of a RecipeQuery with no Limit.
const DefaultRecipeLimit = 100

// RecipeQuery describes a recipe search.
//
// Shelf holds what the cook has, Key holds ingredients of which at least one
// must appear, and Banned holds ingredients that disqualify a recipe. Each
// list is de-duplicated on its own; a slug may appear in more than one list.
type RecipeQuery struct {
	Limit  int
	Shelf  []IngredientSlug
	Key    []IngredientSlug
	Banned []IngredientSlug
}

// NewRecipeQuery returns a query with the default limit and the given shelf.
func NewRecipeQuery(shelf ...IngredientSlug) RecipeQuery {
	return RecipeQuery{Limit: DefaultRecipeLimit, Shelf: shelf}
}

// WithLimit returns a copy of q limited to n results.
func (q RecipeQuery) WithLimit(n int) RecipeQuery {
	q.Limit = n
	return q
}

// WithKey returns a copy of q with key ingredients added.
func (q RecipeQuery) WithKey(slugs ...IngredientSlug) RecipeQuery {
	q.Key = append(q.Key[:len(q.Key):len(q.Key)], slugs...)
	return q
}

// WithBanned returns a copy of q with banned ingredients added.
func (q RecipeQuery) WithBanned(slugs ...IngredientSlug) RecipeQuery {
	q.Banned = append(q.Banned[:len(q.Banned):len(q.Banned)], slugs...)
	return q
}

func (q RecipeQuery) limit(fallback int) int {
	if q.Limit > 0 {
		return q.Limit
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultRecipeLimit
}

// distinct drops repeated slugs, keeping first occurrences.
func distinct(slugs []IngredientSlug) []IngredientSlug {
	seen := make(map[IngredientSlug]struct{}, len(slugs))
	out := make([]IngredientSlug, 0, len(slugs))
	for _, s := range slugs {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func facetsOf(slugs []IngredientSlug) []engine.Facet {
	out := make([]engine.Facet, len(slugs))
	for i, s := range slugs {
		out[i] = s.Facet()
	}
	return out
}

// MatchKind selects how an IngredientQuery finds catalog entries.
type MatchKind uint8

const (
	MatchAll MatchKind = iota
	MatchPrefix
	MatchName
	MatchSlugs
)

// IngredientMatch is the match part of an IngredientQuery.
type IngredientMatch struct {
	Kind  MatchKind
	Text  string
	Slugs []IngredientSlug
}

// IngredientQuery describes a catalog lookup. Excluding is applied after
// ranking and Limit after Excluding. Limit <= 0 means unlimited.
type IngredientQuery struct {
	By        IngredientMatch
	Excluding []Ingredient
	Limit     int
}

// IngredientsByPrefix matches names whose words start with the words of
// prefix, ranked for autocomplete.
func IngredientsByPrefix(prefix string) IngredientQuery {
	return IngredientQuery{By: IngredientMatch{Kind: MatchPrefix, Text: prefix}}
}

// IngredientsByName matches names equal to name, ignoring case.
func IngredientsByName(name string) IngredientQuery {
	return IngredientQuery{By: IngredientMatch{Kind: MatchName, Text: name}}
}

// IngredientsBySlugs fetches ingredients by slug, in request order.
func IngredientsBySlugs(slugs ...IngredientSlug) IngredientQuery {
	return IngredientQuery{By: IngredientMatch{Kind: MatchSlugs, Slugs: slugs}}
}

// AllIngredients lists the whole catalog.
func AllIngredients() IngredientQuery {
	return IngredientQuery{By: IngredientMatch{Kind: MatchAll}}
}

// Exclude returns a copy of q that drops the given ingredients from its results.
func (q IngredientQuery) Exclude(ings ...Ingredient) IngredientQuery {
	q.Excluding = append(q.Excluding[:len(q.Excluding):len(q.Excluding)], ings...)
	return q
}

// WithLimit returns a copy of q limited to n results.
func (q IngredientQuery) WithLimit(n int) IngredientQuery {
	q.Limit = n
	return q
}
