// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/bareshelf/internal/logging"
	"github.com/tomtom215/bareshelf/internal/search"
	"github.com/tomtom215/bareshelf/internal/validation"
)

// importRecord holds exactly one of its fields.
type importRecord struct {
	Recipe     *search.Recipe     `json:"recipe,omitempty"`
	Ingredient *search.Ingredient `json:"ingredient,omitempty"`
}

type importStats struct {
	Recipes     int `json:"recipes"`
	Ingredients int `json:"ingredients"`
}

func newCmdImport(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Index recipes and catalog ingredients from JSON lines (stdin when no file or -).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			in, err := openInput(name)
			if err != nil {
				return err
			}
			defer in.Close()

			ix, err := search.OpenOrCreate(a.cfg.Index.Path, a.cfg.SearchOptions())
			if err != nil {
				return err
			}
			defer func() {
				if err := ix.Close(); err != nil {
					logging.Error().Err(err).Msg("Error closing index")
				}
			}()

			stats, err := importRecords(cmd.Context(), ix, in)
			if err != nil {
				return err
			}
			if ok, err := a.printJSON(cmd, stats); ok {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d recipes, %d ingredients\n", stats.Recipes, stats.Ingredients)
			return nil
		},
	}
}

// importRecords stages every record from r and commits them together.
// Nothing is committed when any record fails.
func importRecords(ctx context.Context, ix *search.Indexes, r io.Reader) (importStats, error) {
	var stats importStats
	idx, err := search.NewIndexer(ix)
	if err != nil {
		return stats, err
	}
	defer idx.Close()

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	for n := 1; ; n++ {
		var rec importRecord
		if err := dec.Decode(&rec); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return importStats{}, fmt.Errorf("record %d: %w", n, err)
		}

		switch {
		case rec.Recipe != nil && rec.Ingredient == nil:
			if err = validation.ValidateStruct(rec.Recipe); err == nil {
				err = idx.AddRecipe(*rec.Recipe)
				stats.Recipes++
			}
		case rec.Ingredient != nil && rec.Recipe == nil:
			if err = validation.ValidateStruct(rec.Ingredient); err == nil {
				err = idx.AddIngredient(*rec.Ingredient)
				stats.Ingredients++
			}
		default:
			err = errors.New("want exactly one of recipe or ingredient")
		}
		if err != nil {
			return importStats{}, fmt.Errorf("record %d: %w", n, err)
		}
	}

	if err := idx.Commit(ctx); err != nil {
		return importStats{}, err
	}
	logging.Info().Int("recipes", stats.Recipes).Int("ingredients", stats.Ingredients).Msg("Import committed")
	return stats, nil
}
