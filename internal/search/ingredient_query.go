// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package search

import (
	"cmp"
	"context"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/tomtom215/bareshelf/internal/engine"
)

// catalog runs ingredient queries against one snapshot of the ingredients collection.
type catalog struct {
	snap   *engine.Snapshot
	fields ingredientFields
}

func (c catalog) load(ctx context.Context, q engine.Query) ([]Ingredient, error) {
	addrs, err := engine.Search(ctx, c.snap, q, engine.Docs())
	if err != nil {
		return nil, err
	}
	out := make([]Ingredient, 0, len(addrs))
	for _, a := range addrs {
		doc, err := c.snap.Doc(a)
		if err != nil {
			return nil, err
		}
		ing, err := c.fields.ingredient(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, nil
}

func (c catalog) run(ctx context.Context, q IngredientQuery) ([]Ingredient, error) {
	var (
		found []Ingredient
		err   error
	)
	switch q.By.Kind {
	case MatchAll:
		found, err = c.load(ctx, engine.AllQuery{})
	case MatchPrefix:
		found, err = c.byPrefix(ctx, q.By.Text)
	case MatchName:
		found, err = c.byName(ctx, q.By.Text)
	case MatchSlugs:
		var bySlug map[IngredientSlug]Ingredient
		slugs := distinct(q.By.Slugs)
		if bySlug, err = c.bySlugs(ctx, slugs); err == nil {
			for _, s := range slugs {
				if ing, ok := bySlug[s]; ok {
					found = append(found, ing)
				}
			}
		}
	default:
		return nil, otherError("ingredients", "unknown match kind %d", q.By.Kind)
	}
	if err != nil {
		return nil, err
	}

	if len(q.Excluding) > 0 {
		found = slices.DeleteFunc(found, func(ing Ingredient) bool {
			return slices.Contains(q.Excluding, ing)
		})
	}
	if q.Limit > 0 && len(found) > q.Limit {
		found = found[:q.Limit]
	}
	if found == nil {
		found = []Ingredient{}
	}
	return found, nil
}

// bySlugs returns the first catalog entry, in snapshot order, for each slug.
func (c catalog) bySlugs(ctx context.Context, slugs []IngredientSlug) (map[IngredientSlug]Ingredient, error) {
	out := make(map[IngredientSlug]Ingredient, len(slugs))
	if len(slugs) == 0 {
		return out, nil
	}
	bq := engine.NewBooleanQuery()
	for _, s := range slugs {
		bq.Add(engine.Should, engine.NewTermQuery(c.fields.slug, string(s)))
	}
	found, err := c.load(ctx, bq)
	if err != nil {
		return nil, err
	}
	for _, ing := range found {
		s := IngredientSlug(ing.Slug)
		if _, seen := out[s]; !seen {
			out[s] = ing
		}
	}
	return out, nil
}

// byName parses name as one quoted clause against the name field and keeps
// the exact matches, ignoring case.
func (c catalog) byName(ctx context.Context, name string) ([]Ingredient, error) {
	q, err := engine.NewQueryParser(c.snap.Schema(), c.fields.name).Parse(engine.QuoteAll(name))
	if err != nil {
		return nil, err
	}
	found, err := c.load(ctx, q)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(found, func(ing Ingredient) bool {
		return !strings.EqualFold(ing.Name, name)
	}), nil
}

// byPrefix matches names containing a word that starts with each word of
// prefix, then ranks them for autocomplete.
func (c catalog) byPrefix(ctx context.Context, prefix string) ([]Ingredient, error) {
	entry := c.snap.Schema().Entry(c.fields.name)
	tokens := engine.AnalyzerFor(entry.Type).Tokens(prefix)
	if len(tokens) == 0 {
		return nil, nil
	}
	bq := engine.NewBooleanQuery()
	for _, t := range tokens {
		bq.Add(engine.Must, engine.NewPrefixQuery(c.fields.name, t))
	}
	found, err := c.load(ctx, bq)
	if err != nil {
		return nil, err
	}
	rankByPrefix(found, tokens[0])
	return found, nil
}

// rankByPrefix orders ingredients by where first appears in the lowercased
// name, then by shorter name. Names without it sort last. Name and slug
// break the remaining ties.
func rankByPrefix(ings []Ingredient, first string) {
	type ranked struct {
		pos, runes int
	}
	keys := make(map[Ingredient]ranked, len(ings))
	for _, ing := range ings {
		pos := strings.Index(strings.ToLower(ing.Name), first)
		if pos < 0 {
			pos = math.MaxInt
		}
		keys[ing] = ranked{pos: pos, runes: utf8.RuneCountInString(ing.Name)}
	}
	slices.SortStableFunc(ings, func(a, b Ingredient) int {
		ka, kb := keys[a], keys[b]
		if c := cmp.Compare(ka.pos, kb.pos); c != 0 {
			return c
		}
		if c := cmp.Compare(ka.runes, kb.runes); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Slug, b.Slug)
	})
}
