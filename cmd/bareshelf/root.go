// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/bareshelf/internal/config"
	"github.com/tomtom215/bareshelf/internal/logging"
	"github.com/tomtom215/bareshelf/internal/search"
)

// app is the state shared by all commands.
type app struct {
	cfgFile string
	path    string
	asJSON  bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "bareshelf",
		Short: "Find recipes you can make with what is on your shelf.",
		Long: `Bareshelf ranks recipes by how well they match the ingredients you have,
suggests the one ingredient that unlocks the most recipes, and answers
ingredient catalog lookups.

  bareshelf search egg oil garlic mushroom --limit 5`,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $BARESHELF_CONFIG or ./bareshelf.yaml)")
	cmd.PersistentFlags().StringVarP(&a.path, "path", "p", "", "index directory (overrides index.path)")
	cmd.PersistentFlags().BoolVar(&a.asJSON, "json", false, "print results as JSON")

	cmd.AddCommand(
		newCmdListIngredients(a),
		newCmdSearch(a),
		newCmdIngredientsByPrefix(a),
		newCmdIngredient(a),
		newCmdPopular(a),
		newCmdImport(a),
		newCmdMaintain(a),
	)
	return cmd
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.path != "" {
		cfg.Index.Path = a.path
	}
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    cmd.ErrOrStderr(),
	})
	a.cfg = cfg
	return nil
}

// searcher opens the existing collections for querying. The caller
// closes the returned Indexes.
func (a *app) searcher() (*search.Searcher, *search.Indexes, error) {
	ix, err := search.Open(a.cfg.Index.Path, a.cfg.SearchOptions())
	if err != nil {
		return nil, nil, err
	}
	return search.NewSearcher(ix, a.cfg.SearcherOptions()), ix, nil
}

// withSearcher runs fn against a freshly opened searcher.
func (a *app) withSearcher(fn func(*search.Searcher) error) error {
	s, ix, err := a.searcher()
	if err != nil {
		return err
	}
	defer func() {
		if err := ix.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing index")
		}
	}()
	return fn(s)
}

// printJSON writes v on one line when --json is set and reports whether it did.
func (a *app) printJSON(cmd *cobra.Command, v any) (bool, error) {
	if !a.asJSON {
		return false, nil
	}
	return true, json.NewEncoder(cmd.OutOrStdout()).Encode(v)
}

func openInput(name string) (*os.File, error) {
	if name == "" || name == "-" {
		return os.Stdin, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}
