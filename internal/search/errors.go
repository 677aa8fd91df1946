// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package search

import (
	"errors"
	"fmt"
	"io/fs"
)

// Kind classifies an Error.
type Kind uint8

const (
	// KindOther covers schema drift, malformed stored documents and bad facet paths.
	KindOther Kind = iota
	// KindIO is a filesystem failure.
	KindIO
	// KindEngine is any other failure reported by the index engine.
	KindEngine
	// KindNotFound is returned by single-item lookups with no match.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindEngine:
		return "engine"
	case KindNotFound:
		return "not found"
	default:
		return "other"
	}
}

// Error is the error type returned by every exported operation of this package.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrIO       = &Error{Kind: KindIO}
	ErrEngine   = &Error{Kind: KindEngine}
	ErrNotFound = &Error{Kind: KindNotFound}
	ErrOther    = &Error{Kind: KindOther}
)

func (e *Error) Error() string {
	switch {
	case e.Op == "" && e.Err == nil:
		return "search: " + e.Kind.String()
	case e.Err == nil:
		return fmt.Sprintf("search: %s: %s", e.Op, e.Kind)
	case e.Op == "":
		return fmt.Sprintf("search: %s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("search: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Op != "" || t.Err != nil {
		return false
	}
	return t.Kind == e.Kind
}

// classify wraps an error from the engine or the filesystem. Errors that are
// already classified keep their kind and gain no second layer.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return &Error{Kind: KindIO, Op: op, Err: err}
	}
	return &Error{Kind: KindEngine, Op: op, Err: err}
}

func otherError(op, format string, args ...any) error {
	return &Error{Kind: KindOther, Op: op, Err: fmt.Errorf(format, args...)}
}

func notFoundError(op, format string, args ...any) error {
	return &Error{Kind: KindNotFound, Op: op, Err: fmt.Errorf(format, args...)}
}
