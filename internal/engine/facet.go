// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package engine

import (
	"fmt"
	"strings"
)

// Facet is a hierarchical category path such as /ingredient/egg.
// The zero value is not valid; RootFacet is "/".
//
// Segments are joined with '/'; a literal '/' or '\' inside a segment is
// escaped with a backslash so that Path always recovers the original segments.
type Facet string

// RootFacet is the parent of every facet.
const RootFacet Facet = "/"

// NewFacet builds a facet from its path segments.
func NewFacet(segments ...string) Facet {
	if len(segments) == 0 {
		return RootFacet
	}
	var b strings.Builder
	for _, seg := range segments {
		b.WriteByte('/')
		for _, r := range seg {
			if r == '/' || r == '\\' {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
	}
	return Facet(b.String())
}

// ParseFacet validates an encoded facet path.
func ParseFacet(s string) (Facet, error) {
	if s == "" || s[0] != '/' {
		return "", fmt.Errorf("%w: %q must start with '/'", ErrInvalidFacet, s)
	}
	if s == "/" {
		return RootFacet, nil
	}
	f := Facet(s)
	for _, seg := range f.Path() {
		if seg == "" {
			return "", fmt.Errorf("%w: %q has an empty segment", ErrInvalidFacet, s)
		}
	}
	return f, nil
}

// String returns the encoded path.
func (f Facet) String() string {
	return string(f)
}

// IsRoot reports whether f is the root facet.
func (f Facet) IsRoot() bool {
	return f == RootFacet
}

// Path returns the decoded segments of the facet.
func (f Facet) Path() []string {
	if f.IsRoot() || f == "" {
		return nil
	}
	var (
		segments []string
		cur      strings.Builder
		escaped  bool
	)
	for _, r := range string(f[1:]) {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '/':
			segments = append(segments, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(segments, cur.String())
}

// Depth returns the number of segments.
func (f Facet) Depth() int {
	return len(f.Path())
}

// Ancestors returns every proper ancestor except the root, shallowest first.
func (f Facet) Ancestors() []Facet {
	path := f.Path()
	if len(path) < 2 {
		return nil
	}
	out := make([]Facet, 0, len(path)-1)
	for i := 1; i < len(path); i++ {
		out = append(out, NewFacet(path[:i]...))
	}
	return out
}

// IsDescendantOf reports whether f lies strictly below ancestor.
func (f Facet) IsDescendantOf(ancestor Facet) bool {
	if ancestor.IsRoot() {
		return !f.IsRoot() && f != ""
	}
	return len(f) > len(ancestor) && strings.HasPrefix(string(f), string(ancestor)) && f[len(ancestor)] == '/'
}

// ChildUnder returns the ancestor of f that sits exactly one level below
// parent, or false when f is not a descendant of parent.
func (f Facet) ChildUnder(parent Facet) (Facet, bool) {
	if !f.IsDescendantOf(parent) {
		return "", false
	}
	path := f.Path()
	depth := parent.Depth()
	return NewFacet(path[:depth+1]...), true
}
