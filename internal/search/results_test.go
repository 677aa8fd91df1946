// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package search

import (
	"maps"
	"slices"
	"testing"
)

func TestResultViews(t *testing.T) {
	t.Parallel()

	result := func(slug string, missing ...string) RecipeSearchResult {
		if missing == nil {
			missing = []string{}
		}
		return RecipeSearchResult{Recipe: Recipe{Slug: slug}, MissingIngredients: missing}
	}
	res := newRecipeSearchResults([]RecipeSearchResult{
		result("ready"),
		result("one", "a"),
		result("two", "a", "b"),
		result("five", "a", "b", "c", "d", "e"),
		result("six", "a", "b", "c", "d", "e", "f"),
		result("also-ready"),
	}, map[IngredientSlug]int{"salt": 2, "jam": 1, "oil": 2}, 9)

	slugs := func(rs []RecipeSearchResult) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = r.Recipe.Slug
		}
		return out
	}
	tests := []struct {
		name string
		got  []RecipeSearchResult
		want []string
	}{
		{"All", res.All(), []string{"ready", "one", "two", "five", "six", "also-ready"}},
		{"CanMakeNow", res.CanMakeNow(), []string{"ready", "also-ready"}},
		{"OneMissing", res.OneMissing(), []string{"one"}},
		{"MoreMissing", res.MoreMissing(), []string{"two", "five"}},
	}
	for _, tt := range tests {
		if got := slugs(tt.got); !slices.Equal(got, tt.want) {
			t.Errorf("%s() = %q, want %q", tt.name, got, tt.want)
		}
	}

	if res.Len() != 6 || res.Matches() != 9 {
		t.Errorf("Len(), Matches() = %d, %d; want 6, 9", res.Len(), res.Matches())
	}

	want := []NextIngredientCount{{"oil", 2}, {"salt", 2}, {"jam", 1}}
	if got := res.NextIngredientsByCount(); !slices.Equal(got, want) {
		t.Errorf("NextIngredientsByCount() = %v, want %v", got, want)
	}

	// Views are copies.
	next := res.NextIngredients()
	next["salt"] = 99
	all := res.All()
	all[0].Score = 42
	if res.NextIngredients()["salt"] != 2 || res.All()[0].Score != 0 {
		t.Error("views share state with the results")
	}
	if !maps.Equal(newRecipeSearchResults(nil, nil, 0).NextIngredients(), map[IngredientSlug]int{}) {
		t.Error("nil next table should read as empty")
	}
}

func TestMissingIngredientsHelper(t *testing.T) {
	t.Parallel()

	r := eggRolls
	shelf := map[IngredientSlug]struct{}{"egg": {}, "oil": {}, "garlic": {}, "mushroom": {}}
	if got := missingIngredients(&r, shelf); !slices.Equal(got, []string{"salt", "tortilla-wrap"}) {
		t.Errorf("missingIngredients() = %q", got)
	}
	if got := missingIngredients(&friedEgg, shelf); got == nil || len(got) != 0 {
		t.Errorf("missingIngredients() for a cookable recipe = %#v, want empty", got)
	}
}
