// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package search

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bareshelf/internal/cache"
	"github.com/tomtom215/bareshelf/internal/engine"
	"github.com/tomtom215/bareshelf/internal/logging"
	"github.com/tomtom215/bareshelf/internal/metrics"
)

// Operation labels for metrics and logs.
const (
	opRecipes     = "recipes"
	opIngredients = "ingredients"
	opPopular     = "popular_ingredients"
	opFacetCounts = "facet_counts"
)

// SearcherOptions tunes a Searcher.
type SearcherOptions struct {
	// DefaultRecipeLimit applies to recipe queries with no Limit.
	DefaultRecipeLimit int
	// PopularLimit applies to popular-ingredient queries with no Limit.
	PopularLimit int
	// FacetCacheSize is the number of snapshot generations whose ingredient
	// histogram is cached.
	FacetCacheSize int
	FacetCacheTTL  time.Duration
}

// DefaultSearcherOptions returns the defaults used by the CLI.
func DefaultSearcherOptions() SearcherOptions {
	return SearcherOptions{
		DefaultRecipeLimit: DefaultRecipeLimit,
		PopularLimit:       20,
		FacetCacheSize:     64,
		FacetCacheTTL:      5 * time.Minute,
	}
}

// Searcher answers recipe and ingredient queries. It is safe for concurrent
// use; every call searches the snapshot current when it starts.
type Searcher struct {
	ix     *Indexes
	opts   SearcherOptions
	counts *cache.LRUCache[uint64, engine.FacetCounts]
	log    zerolog.Logger
}

// NewSearcher returns a Searcher over ix.
func NewSearcher(ix *Indexes, opts SearcherOptions) *Searcher {
	d := DefaultSearcherOptions()
	if opts.DefaultRecipeLimit <= 0 {
		opts.DefaultRecipeLimit = d.DefaultRecipeLimit
	}
	if opts.PopularLimit <= 0 {
		opts.PopularLimit = d.PopularLimit
	}
	return &Searcher{
		ix:     ix,
		opts:   opts,
		counts: cache.NewLRUCache[uint64, engine.FacetCounts](opts.FacetCacheSize, opts.FacetCacheTTL),
		log:    logging.WithComponent("search"),
	}
}

func (s *Searcher) begin(ctx context.Context) context.Context {
	ctx = logging.ContextWithNewQueryID(ctx)
	return logging.ContextWithLogger(ctx, s.log)
}

func (s *Searcher) finish(ctx context.Context, op string, start time.Time, results int, err error) {
	dur := time.Since(start)
	metrics.RecordSearch(op, dur, results, err)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("op", op).Dur("duration", dur).Msg("Search failed")
		return
	}
	logging.Ctx(ctx).Debug().Str("op", op).Int("results", results).Dur("duration", dur).Msg("Search complete")
}

func (s *Searcher) catalog() catalog {
	return catalog{snap: s.ix.Ingredients.Reader().Snapshot(), fields: s.ix.ingredient}
}

// Recipes ranks recipes for q and computes the next-ingredient table and the
// match count over every matching recipe.
func (s *Searcher) Recipes(ctx context.Context, q RecipeQuery) (res *RecipeSearchResults, err error) {
	ctx = s.begin(ctx)
	start := time.Now()
	defer func() {
		n := 0
		if res != nil {
			n = res.Len()
		}
		s.finish(ctx, opRecipes, start, n, err)
	}()

	snap := s.ix.Recipes.Reader().Snapshot()
	f := &s.ix.recipe
	shelf := distinct(q.Shelf)
	shelfFacets := facetsOf(shelf)

	ranked := engine.Pair[[]engine.ScoredDoc, map[engine.Facet]int](
		engine.TopDocs(q.limit(s.opts.DefaultRecipeLimit)).TweakScore(missingPenalty(f.ingredientSlug, shelfFacets)),
		NewNextIngredientCollector(f.ingredientSlug, shelfFacets),
	)
	collector := engine.Pair[engine.PairFruit[[]engine.ScoredDoc, map[engine.Facet]int], uint64](ranked, engine.Count())
	both, err := engine.Search(ctx, snap, buildRecipeQuery(f.ingredientSlug, q), collector)
	if err != nil {
		return nil, classify(opRecipes, err)
	}
	fruit, matches := both.First, both.Second

	onShelf := make(map[IngredientSlug]struct{}, len(shelf))
	for _, sl := range shelf {
		onShelf[sl] = struct{}{}
	}
	results := make([]RecipeSearchResult, 0, len(fruit.First))
	for _, hit := range fruit.First {
		doc, err := snap.Doc(hit.Address)
		if err != nil {
			return nil, classify(opRecipes, err)
		}
		recipe, err := f.recipe(doc)
		if err != nil {
			return nil, err
		}
		results = append(results, RecipeSearchResult{
			Score:              hit.Score,
			Recipe:             recipe,
			MissingIngredients: missingIngredients(&recipe, onShelf),
		})
	}

	next := make(map[IngredientSlug]int, len(fruit.Second))
	for facet, n := range fruit.Second {
		if n <= 0 {
			continue
		}
		slug, err := SlugFromFacet(facet)
		if err != nil {
			return nil, err
		}
		next[slug] += n
	}
	return newRecipeSearchResults(results, next, matches), nil
}

// Ingredients runs a catalog query.
func (s *Searcher) Ingredients(ctx context.Context, q IngredientQuery) (found []Ingredient, err error) {
	ctx = s.begin(ctx)
	start := time.Now()
	defer func() { s.finish(ctx, opIngredients, start, len(found), err) }()

	found, err = s.catalog().run(ctx, q)
	if err != nil {
		return nil, classify(opIngredients, err)
	}
	return found, nil
}

// IngredientByName returns the first catalog entry whose name equals name,
// ignoring case. No match is a NotFound-kind error.
func (s *Searcher) IngredientByName(ctx context.Context, name string) (Ingredient, error) {
	found, err := s.Ingredients(ctx, IngredientsByName(name).WithLimit(1))
	if err != nil {
		return Ingredient{}, err
	}
	if len(found) == 0 {
		return Ingredient{}, notFoundError("ingredient by name", "no ingredient named %q", name)
	}
	return found[0], nil
}

// IngredientCount is a catalog ingredient with the number of recipes using it.
type IngredientCount struct {
	Ingredient Ingredient `json:"ingredient"`
	Count      uint64     `json:"count"`
}

// SlugCount is one bucket of the recipe ingredient histogram.
type SlugCount struct {
	Slug  IngredientSlug `json:"slug"`
	Count uint64         `json:"count"`
}

// recipeFacetCounts counts recipes per ingredient over the whole snapshot.
// Counts are cached per snapshot generation and must not be modified.
func (s *Searcher) recipeFacetCounts(ctx context.Context, snap *engine.Snapshot) (engine.FacetCounts, error) {
	gen := snap.Generation()
	if counts, ok := s.counts.Get(gen); ok {
		metrics.RecordFacetCache(true)
		return counts, nil
	}
	metrics.RecordFacetCache(false)
	counts, err := engine.Search(ctx, snap, engine.AllQuery{},
		engine.NewFacetCountCollector(s.ix.recipe.ingredientSlug, ingredientRoot))
	if err != nil {
		return nil, err
	}
	s.counts.Add(gen, counts)
	logging.Ctx(ctx).Debug().Uint64("generation", gen).Int("cached", s.counts.Len()).Msg("Facet counts cached")
	return counts, nil
}

// PopularIngredients returns the ingredients used by the most recipes,
// leaving out everything named in q. q.Limit caps the list.
func (s *Searcher) PopularIngredients(ctx context.Context, q RecipeQuery) (popular []IngredientCount, err error) {
	ctx = s.begin(ctx)
	start := time.Now()
	defer func() { s.finish(ctx, opPopular, start, len(popular), err) }()

	counts, err := s.recipeFacetCounts(ctx, s.ix.Recipes.Reader().Snapshot())
	if err != nil {
		return nil, classify(opPopular, err)
	}

	skip := make(map[engine.Facet]struct{})
	for _, list := range [][]IngredientSlug{q.Shelf, q.Key, q.Banned} {
		for _, f := range facetsOf(list) {
			skip[f] = struct{}{}
		}
	}
	candidates := make(engine.FacetCounts, len(counts))
	for facet, n := range counts {
		if _, ok := skip[facet]; !ok {
			candidates[facet] = n
		}
	}
	top := candidates.TopK(q.limit(s.opts.PopularLimit))
	ranked := make([]SlugCount, len(top))
	for i, fc := range top {
		slug, err := SlugFromFacet(fc.Facet)
		if err != nil {
			return nil, err
		}
		ranked[i] = SlugCount{Slug: slug, Count: fc.Count}
	}

	slugs := make([]IngredientSlug, len(ranked))
	for i, sc := range ranked {
		slugs[i] = sc.Slug
	}
	bySlug, err := s.catalog().bySlugs(ctx, slugs)
	if err != nil {
		return nil, classify(opPopular, err)
	}

	popular = make([]IngredientCount, 0, len(ranked))
	for _, sc := range ranked {
		ing, ok := bySlug[sc.Slug]
		if !ok {
			logging.Ctx(ctx).Warn().Str("slug", string(sc.Slug)).Uint64("recipes", sc.Count).Msg("Popular ingredient not in catalog")
			metrics.RecordPopularUnresolved()
			continue
		}
		popular = append(popular, IngredientCount{Ingredient: ing, Count: sc.Count})
	}
	return popular, nil
}

// RecipeIngredientFacetCounts returns how many recipes use each ingredient,
// sorted by slug.
func (s *Searcher) RecipeIngredientFacetCounts(ctx context.Context) (out []SlugCount, err error) {
	ctx = s.begin(ctx)
	start := time.Now()
	defer func() { s.finish(ctx, opFacetCounts, start, len(out), err) }()

	counts, err := s.recipeFacetCounts(ctx, s.ix.Recipes.Reader().Snapshot())
	if err != nil {
		return nil, classify(opFacetCounts, err)
	}
	out = make([]SlugCount, 0, len(counts))
	for facet, n := range counts {
		slug, err := SlugFromFacet(facet)
		if err != nil {
			return nil, err
		}
		out = append(out, SlugCount{Slug: slug, Count: n})
	}
	slices.SortFunc(out, func(a, b SlugCount) int { return cmp.Compare(a.Slug, b.Slug) })
	return out, nil
}
