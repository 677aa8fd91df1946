// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

/*
Package supervisor runs the background maintenance of an index directory
under a suture v4 supervisor tree.

# Overview

	SupervisorTree ("bareshelf")
	├── "maintenance-layer"
	│   ├── GCService ("value-log-gc")
	│   └── MergeService ("segment-merge")
	└── "telemetry-layer"
	    └── MetricsServerService ("metrics-server", if metrics.enabled)

Each layer counts failures on its own, so a metrics listener that cannot
bind keeps restarting with backoff while maintenance carries on. Supervisor
events are logged through sutureslog into the zerolog pipeline.

# Usage

	ix, err := search.Open(cfg.Index.Path, cfg.SearchOptions())
	if err != nil {
	    return err
	}
	defer ix.Close()

	tree, err := supervisor.NewMaintenanceTree(cfg, ix)
	if err != nil {
	    return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return tree.Serve(ctx)

Services that hit a closed index return suture.ErrDoNotRestart.
*/
package supervisor
