// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	queryIDKey contextKey = "query_id"
	loggerKey  contextKey = "logger"
)

// GenerateQueryID returns the first 8 characters of a new UUID.
func GenerateQueryID() string {
	return uuid.New().String()[:8]
}

// ContextWithQueryID returns a context carrying id.
func ContextWithQueryID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, queryIDKey, id)
}

// ContextWithNewQueryID returns a context carrying a fresh query id, unless
// ctx already has one.
func ContextWithNewQueryID(ctx context.Context) context.Context {
	if QueryIDFromContext(ctx) != "" {
		return ctx
	}
	return ContextWithQueryID(ctx, GenerateQueryID())
}

// QueryIDFromContext returns the query id of ctx, or "".
func QueryIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(queryIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithLogger stores a logger in the context.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext returns the logger stored in ctx or the global logger.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return Logger()
}

// Ctx returns the context's logger with the query id attached.
//
//	logging.Ctx(ctx).Warn().Str("slug", slug).Msg("Popular ingredient not in catalog")
//	// {"level":"warn","query_id":"1f0c2a9e","slug":"saffron",...}
func Ctx(ctx context.Context) *zerolog.Logger {
	logger := LoggerFromContext(ctx)
	if id := QueryIDFromContext(ctx); id != "" {
		logger = logger.With().Str("query_id", id).Logger()
	}
	return &logger
}

// WithComponent creates a child of the global logger with a component field.
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
