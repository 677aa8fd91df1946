// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package main

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/tomtom215/bareshelf/internal/search"
)

func newCmdListIngredients(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list-ingredients",
		Short: "Print how many recipes use each ingredient, least used first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSearcher(func(s *search.Searcher) error {
				counts, err := s.RecipeIngredientFacetCounts(cmd.Context())
				if err != nil {
					return err
				}
				slices.SortStableFunc(counts, func(x, y search.SlugCount) int {
					return cmp.Compare(x.Count, y.Count)
				})
				if ok, err := a.printJSON(cmd, counts); ok {
					return err
				}
				for _, c := range counts {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", c.Slug, c.Count)
				}
				return nil
			})
		},
	}
}

// recipeFlags are the query flags shared by search and popular.
type recipeFlags struct {
	limit  int
	key    []string
	banned []string
}

func (f *recipeFlags) register(cmd *cobra.Command, defaultLimit int) {
	cmd.Flags().IntVarP(&f.limit, "limit", "l", defaultLimit, "maximum number of results")
	cmd.Flags().StringSliceVarP(&f.key, "key", "k", nil, "ingredients every result must use (any of)")
	cmd.Flags().StringSliceVarP(&f.banned, "banned", "b", nil, "ingredients no result may use")
}

func (f *recipeFlags) query(shelf []string) search.RecipeQuery {
	return search.NewRecipeQuery(search.Slugs(shelf...)...).
		WithLimit(f.limit).
		WithKey(search.Slugs(f.key...)...).
		WithBanned(search.Slugs(f.banned...)...)
}

type searchOutput struct {
	Matches         uint64                       `json:"matches"`
	Results         []search.RecipeSearchResult  `json:"results"`
	NextIngredients []search.NextIngredientCount `json:"next_ingredients"`
}

func newCmdSearch(a *app) *cobra.Command {
	var flags recipeFlags
	cmd := &cobra.Command{
		Use:   "search [shelf ingredient slugs...]",
		Short: "Rank recipes for the ingredients on your shelf.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSearcher(func(s *search.Searcher) error {
				res, err := s.Recipes(cmd.Context(), flags.query(args))
				if err != nil {
					return err
				}
				out := searchOutput{
					Matches:         res.Matches(),
					Results:         res.All(),
					NextIngredients: res.NextIngredientsByCount(),
				}
				if ok, err := a.printJSON(cmd, out); ok {
					return err
				}
				printRecipes(cmd, out)
				return nil
			})
		},
	}
	flags.register(cmd, 20)
	return cmd
}

func printRecipes(cmd *cobra.Command, out searchOutput) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%d recipes match, showing %d\n", out.Matches, len(out.Results))
	for _, r := range out.Results {
		fmt.Fprintf(w, "\n> %s    (%g)\n", r.Recipe.Title, r.Score)
		fmt.Fprintf(w, "%d matching, %d missing\n",
			len(r.Recipe.Ingredients)-len(r.MissingIngredients), len(r.MissingIngredients))
		fmt.Fprintf(w, "Missing: %q\n", r.MissingIngredients)
		for _, ing := range r.Recipe.Ingredients {
			if slices.Contains(r.MissingIngredients, ing.Slug) {
				fmt.Fprintf(w, "    - %s  - MISSING\n", ing.Slug)
			} else {
				fmt.Fprintf(w, "    - %s\n", ing.Slug)
			}
		}
	}
	if len(out.NextIngredients) > 0 {
		fmt.Fprintln(w, "\nNext ingredients:")
		for _, n := range out.NextIngredients {
			fmt.Fprintf(w, "    %s %d\n", n.Slug, n.Count)
		}
	}
}

func printIngredients(a *app, cmd *cobra.Command, ings []search.Ingredient) error {
	if ok, err := a.printJSON(cmd, ings); ok {
		return err
	}
	for _, ing := range ings {
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", ing.Name, ing.Slug)
	}
	return nil
}

func newCmdIngredientsByPrefix(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "ingredients-by-prefix <prefix>",
		Short: "Autocomplete ingredient names.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSearcher(func(s *search.Searcher) error {
				ings, err := s.Ingredients(cmd.Context(), search.IngredientsByPrefix(args[0]).WithLimit(limit))
				if err != nil {
					return err
				}
				return printIngredients(a, cmd, ings)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum number of results (0 for all)")
	return cmd
}

func newCmdIngredient(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ingredient <name>",
		Short: "Look up a catalog ingredient by its name.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSearcher(func(s *search.Searcher) error {
				ing, err := s.IngredientByName(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printIngredients(a, cmd, []search.Ingredient{ing})
			})
		},
	}
}

func newCmdPopular(a *app) *cobra.Command {
	var flags recipeFlags
	cmd := &cobra.Command{
		Use:   "popular [shelf ingredient slugs...]",
		Short: "List the most used ingredients not already in the query.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSearcher(func(s *search.Searcher) error {
				popular, err := s.PopularIngredients(cmd.Context(), flags.query(args))
				if err != nil {
					return err
				}
				if ok, err := a.printJSON(cmd, popular); ok {
					return err
				}
				for _, p := range popular {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", p.Ingredient.Slug, p.Count)
				}
				return nil
			})
		},
	}
	flags.register(cmd, 0)
	return cmd
}
