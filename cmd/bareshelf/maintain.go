// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomtom215/bareshelf/internal/logging"
	"github.com/tomtom215/bareshelf/internal/search"
	"github.com/tomtom215/bareshelf/internal/supervisor"
)

func newCmdMaintain(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "maintain",
		Short: "Run value-log GC, segment merging and the metrics endpoint until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ix, err := search.Open(a.cfg.Index.Path, a.cfg.SearchOptions())
			if err != nil {
				return err
			}
			defer func() {
				if err := ix.Close(); err != nil {
					logging.Error().Err(err).Msg("Error closing index")
				}
			}()

			tree, err := supervisor.NewMaintenanceTree(a.cfg, ix)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logging.Info().
				Str("recipes", a.cfg.Index.RecipesPath()).
				Str("ingredients", a.cfg.Index.IngredientsPath()).
				Strs("services", tree.ServiceNames()).
				Msg("Starting maintenance")

			err = tree.Serve(ctx)
			if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
				for _, u := range report {
					logging.Warn().Str("service", u.Name).Msg("Service did not stop in time")
				}
			}
			if ctx.Err() != nil {
				logging.Info().Msg("Maintenance stopped")
				return nil
			}
			return err
		},
	}
}
