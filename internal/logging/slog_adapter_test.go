// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newCapturingSlog(buf *bytes.Buffer) *slog.Logger {
	return slog.New(NewSlogHandler(NewTestLogger(buf)))
}

func TestSlogHandler_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		log   func(l *slog.Logger)
		level string
	}{
		{"info", func(l *slog.Logger) { l.Info("m") }, `"level":"info"`},
		{"warn", func(l *slog.Logger) { l.Warn("m") }, `"level":"warn"`},
		{"error", func(l *slog.Logger) { l.Error("m") }, `"level":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			tt.log(newCapturingSlog(&buf))
			if !strings.Contains(buf.String(), tt.level) {
				t.Errorf("expected %s, got %s", tt.level, buf.String())
			}
		})
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	h := NewSlogHandler(zerolog.New(&bytes.Buffer{}).Level(zerolog.WarnLevel))
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled on a warn logger")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled on a warn logger")
	}
}

func TestSlogHandler_AttributeKinds(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	newCapturingSlog(&buf).Info("attrs",
		slog.String("service", "gc"),
		slog.Int("restarts", 3),
		slog.Uint64("generation", 9),
		slog.Float64("ratio", 0.5),
		slog.Bool("failed", true),
		slog.Duration("backoff", time.Second),
		slog.Any("err", errors.New("boom")),
	)

	out := buf.String()
	for _, want := range []string{
		`"service":"gc"`,
		`"restarts":3`,
		`"generation":9`,
		`"ratio":0.5`,
		`"failed":true`,
		`"backoff":`,
		`"err":"boom"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}

func TestSlogHandler_GroupsAndAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := newCapturingSlog(&buf).With("tree", "bareshelf").WithGroup("svc").With("name", "merge")
	l.Warn("restart", slog.Int("n", 2), slog.Group("detail", slog.String("reason", "panic")))

	out := buf.String()
	for _, want := range []string{
		`"tree":"bareshelf"`,
		`"svc.name":"merge"`,
		`"svc.n":2`,
		`"svc.detail.reason":"panic"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
	if strings.Contains(out, "svc.tree") {
		t.Errorf("attrs added before a group must not be prefixed: %s", out)
	}
}

func TestSlogHandler_EmptyGroupAndAttrs(t *testing.T) {
	t.Parallel()

	h := NewSlogHandler(zerolog.Nop())
	if h.WithGroup("") != h {
		t.Error("WithGroup(\"\") should return the same handler")
	}
	if h.WithAttrs(nil) != h {
		t.Error("WithAttrs(nil) should return the same handler")
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
		{slog.LevelError + 4, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := slogToZerologLevel(tt.in); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	defer Init(DefaultConfig())

	NewSlogLogger("supervisor").Info("service started")

	out := buf.String()
	if !strings.Contains(out, `"component":"supervisor"`) {
		t.Errorf("expected component field, got %s", out)
	}
	if !strings.Contains(out, "service started") {
		t.Errorf("expected message, got %s", out)
	}
}
