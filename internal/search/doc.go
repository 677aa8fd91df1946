// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

/*
Package search is the recipe-discovery core of Bareshelf.

It keeps two collections in the embedded engine: recipes, whose ingredients
are indexed as /ingredient/<slug> facets, and the ingredient catalog used
for autocomplete and lookups.

# Ranking

A RecipeQuery names three ingredient sets:

  - Shelf: what the cook has. Each item is an optional match.
  - Key: at least one of these must be in the recipe.
  - Banned: any of these excludes the recipe, whatever else it matches.

Base relevance is the engine's BM25 score. During collection every candidate
is divided by four for each ingredient it needs beyond the shelf, so a recipe
that can be made now ranks four times higher than an otherwise equal recipe
missing one ingredient.

In the same pass a NextIngredientCollector counts, across every match, the
recipes missing exactly one ingredient. Buying that ingredient makes each
counted recipe cookable.

# Usage

	ix, err := search.OpenOrCreate("./data", search.DefaultOptions())
	if err != nil {
	    return err
	}
	defer ix.Close()

	s := search.NewSearcher(ix, search.DefaultSearcherOptions())
	res, err := s.Recipes(ctx, search.NewRecipeQuery(search.Slugs("egg", "oil")...).WithLimit(10))
	if err != nil {
	    return err
	}
	for _, r := range res.CanMakeNow() {
	    fmt.Println(r.Recipe.Title)
	}

# Errors

Every exported operation returns *Error. Use errors.Is with ErrIO, ErrEngine,
ErrNotFound or ErrOther to branch on the kind, and errors.Is with the engine
sentinels (engine.ErrWriterBusy, engine.ErrSchemaMismatch) for detail.
*/
package search
