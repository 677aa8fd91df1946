// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

// Package logging provides the zerolog-based structured logging used across Bareshelf.
//
// # Overview
//
// The package provides:
//   - A global zerolog logger configured once through Init
//   - JSON output by default, console output for interactive CLI use
//   - Query ids carried on context.Context and added by Ctx
//   - Component loggers ("engine", "search", "supervisor") via WithComponent
//   - An slog.Handler bridge for libraries that log through slog (sutureslog)
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	ctx = logging.ContextWithNewQueryID(ctx)
//	logging.Ctx(ctx).Debug().Int("shelf", len(shelf)).Msg("Recipe search")
//
//	log := logging.WithComponent("engine")
//	log.Info().Str("index", "recipes").Msg("Index opened")
//
// # Configuration
//
// Levels: trace, debug, info, warn, error, disabled. Before Init runs, the
// logger honours BARESHELF_LOG_LEVEL so tests can silence or raise output.
package logging
