// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package supervisor

import (
	"github.com/tomtom215/bareshelf/internal/config"
	"github.com/tomtom215/bareshelf/internal/logging"
	"github.com/tomtom215/bareshelf/internal/search"
	"github.com/tomtom215/bareshelf/internal/supervisor/services"
)

// NewMaintenanceTree builds the tree run by `bareshelf maintain` over an
// opened pair of collections. Services whose interval is zero, and the
// metrics endpoint when disabled, are left out.
func NewMaintenanceTree(cfg *config.Config, ix *search.Indexes) (*SupervisorTree, error) {
	tree, err := NewSupervisorTree(logging.NewSlogLogger("supervisor"), DefaultTreeConfig())
	if err != nil {
		return nil, err
	}

	m := cfg.Maintenance
	if m.GCInterval > 0 {
		tree.AddMaintenanceService(services.NewGCService(m.GCInterval, m.GCRatio, ix.Recipes, ix.Ingredients))
	}
	if m.MergeInterval > 0 {
		tree.AddMaintenanceService(services.NewMergeService(m.MergeInterval, m.MergeThreshold, ix.All()...))
	}
	if cfg.Metrics.Enabled {
		server := services.NewMetricsServer(cfg.Metrics.Addr)
		tree.AddTelemetryService(services.NewMetricsServerService(server, tree.config.ShutdownTimeout))
	}
	return tree, nil
}
