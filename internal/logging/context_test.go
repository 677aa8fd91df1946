// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestGenerateQueryID(t *testing.T) {
	t.Parallel()

	id1 := GenerateQueryID()
	id2 := GenerateQueryID()

	if len(id1) != 8 {
		t.Errorf("expected 8-character query ID, got %d", len(id1))
	}
	if id1 == id2 {
		t.Error("expected unique query IDs")
	}
}

func TestQueryIDContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if got := QueryIDFromContext(ctx); got != "" {
		t.Errorf("expected empty query ID, got %q", got)
	}

	ctx = ContextWithQueryID(ctx, "abc12345")
	if got := QueryIDFromContext(ctx); got != "abc12345" {
		t.Errorf("expected abc12345, got %q", got)
	}
}

func TestContextWithNewQueryID_KeepsExisting(t *testing.T) {
	t.Parallel()

	ctx := ContextWithNewQueryID(context.Background())
	first := QueryIDFromContext(ctx)
	if first == "" {
		t.Fatal("expected generated query ID")
	}

	ctx = ContextWithNewQueryID(ctx)
	if got := QueryIDFromContext(ctx); got != first {
		t.Errorf("expected query ID %q to be kept, got %q", first, got)
	}
}

func TestLoggerFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))

	l := LoggerFromContext(ctx)
	l.Info().Msg("from context")

	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("expected context logger to be used, got %q", buf.String())
	}
}

func TestCtx_AddsQueryID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithQueryID(ctx, "q1234567")

	Ctx(ctx).Warn().Str("slug", "saffron").Msg("Popular ingredient not in catalog")

	out := buf.String()
	if !strings.Contains(out, `"query_id":"q1234567"`) {
		t.Errorf("expected query_id field, got %s", out)
	}
	if !strings.Contains(out, `"slug":"saffron"`) {
		t.Errorf("expected slug field, got %s", out)
	}
}

func TestCtx_WithoutQueryID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	Ctx(ctx).Info().Msg("plain")

	if strings.Contains(buf.String(), "query_id") {
		t.Errorf("expected no query_id field, got %s", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	defer Init(DefaultConfig())

	l := WithComponent("engine")
	l.Info().Msg("component")

	if !strings.Contains(buf.String(), `"component":"engine"`) {
		t.Errorf("expected component field, got %s", buf.String())
	}
}
