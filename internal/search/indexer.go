// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package search

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bareshelf/internal/engine"
	"github.com/tomtom215/bareshelf/internal/logging"
)

// Indexer stages recipes and ingredients and commits them. It holds the
// writer of both collections until Close.
type Indexer struct {
	ix          *Indexes
	recipes     *engine.Writer
	ingredients *engine.Writer
	log         zerolog.Logger
}

// NewIndexer acquires the writers of both collections. It fails with an
// Engine-kind error wrapping engine.ErrWriterBusy while another Indexer is open.
func NewIndexer(ix *Indexes) (*Indexer, error) {
	const op = "new indexer"
	recipes, err := ix.Recipes.Writer()
	if err != nil {
		return nil, classify(op, err)
	}
	ingredients, err := ix.Ingredients.Writer()
	if err != nil {
		_ = recipes.Close()
		return nil, classify(op, err)
	}
	return &Indexer{
		ix:          ix,
		recipes:     recipes,
		ingredients: ingredients,
		log:         logging.WithComponent("indexer"),
	}, nil
}

// AddRecipe stages r. Ingredient slugs are not checked against the catalog.
func (i *Indexer) AddRecipe(r Recipe) error {
	return classify("add recipe", i.recipes.AddDocument(i.ix.recipe.document(&r)))
}

// AddIngredient stages a catalog entry.
func (i *Indexer) AddIngredient(ing Ingredient) error {
	return classify("add ingredient", i.ingredients.AddDocument(i.ix.ingredient.document(ing)))
}

// Commit publishes staged recipes, then staged ingredients. Each collection
// commits atomically; on failure the uncommitted documents stay staged and
// Commit may be retried.
func (i *Indexer) Commit(ctx context.Context) error {
	staged := [2]int{i.recipes.NumStaged(), i.ingredients.NumStaged()}
	if err := i.recipes.Commit(ctx); err != nil {
		return classify("commit recipes", err)
	}
	if err := i.ingredients.Commit(ctx); err != nil {
		return classify("commit ingredients", err)
	}
	i.log.Debug().Int("recipes", staged[0]).Int("ingredients", staged[1]).Msg("Indexer committed")
	return nil
}

// NumStaged returns the staged recipe and ingredient counts.
func (i *Indexer) NumStaged() (recipes, ingredients int) {
	return i.recipes.NumStaged(), i.ingredients.NumStaged()
}

// Rollback discards everything staged since the last commit.
func (i *Indexer) Rollback() error {
	return classify("rollback", errors.Join(i.recipes.Rollback(), i.ingredients.Rollback()))
}

// Close discards uncommitted documents and releases both writers.
func (i *Indexer) Close() error {
	return classify("close indexer", errors.Join(i.recipes.Close(), i.ingredients.Close()))
}
