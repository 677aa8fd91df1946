// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package engine

import (
	"errors"
	"slices"
	"testing"
)

func TestNewFacet(t *testing.T) {
	tests := []struct {
		segments []string
		want     Facet
	}{
		{nil, RootFacet},
		{[]string{"ingredient"}, "/ingredient"},
		{[]string{"ingredient", "egg"}, "/ingredient/egg"},
		{[]string{"cuisine", "a/b"}, `/cuisine/a\/b`},
		{[]string{`back\slash`}, `/back\\slash`},
	}
	for _, tt := range tests {
		got := NewFacet(tt.segments...)
		if got != tt.want {
			t.Errorf("NewFacet(%q) = %q, want %q", tt.segments, got, tt.want)
		}
		if !slices.Equal(got.Path(), tt.segments) {
			t.Errorf("NewFacet(%q).Path() = %q", tt.segments, got.Path())
		}
	}
}

func TestParseFacet(t *testing.T) {
	tests := []struct {
		input   string
		want    Facet
		wantErr bool
	}{
		{"/", RootFacet, false},
		{"/ingredient", "/ingredient", false},
		{"/ingredient/egg", "/ingredient/egg", false},
		{"", "", true},
		{"ingredient/egg", "", true},
		{"/ingredient//egg", "", true},
		{"/ingredient/", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFacet(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFacet) {
					t.Errorf("ParseFacet(%q) error = %v, want ErrInvalidFacet", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFacet(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFacet(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFacetHierarchy(t *testing.T) {
	f := NewFacet("cuisine", "asian", "thai")

	if f.Depth() != 3 {
		t.Errorf("Depth() = %d, want 3", f.Depth())
	}
	wantAnc := []Facet{"/cuisine", "/cuisine/asian"}
	if got := f.Ancestors(); !slices.Equal(got, wantAnc) {
		t.Errorf("Ancestors() = %q, want %q", got, wantAnc)
	}
	if got := NewFacet("one").Ancestors(); got != nil {
		t.Errorf("single segment Ancestors() = %q, want nil", got)
	}

	tests := []struct {
		parent    Facet
		wantChild Facet
		wantOK    bool
	}{
		{RootFacet, "/cuisine", true},
		{"/cuisine", "/cuisine/asian", true},
		{"/cuisine/asian", "/cuisine/asian/thai", true},
		{"/cuisine/asian/thai", "", false},
		{"/cuis", "", false},
		{"/dessert", "", false},
	}
	for _, tt := range tests {
		child, ok := f.ChildUnder(tt.parent)
		if ok != tt.wantOK || child != tt.wantChild {
			t.Errorf("ChildUnder(%q) = %q, %v; want %q, %v", tt.parent, child, ok, tt.wantChild, tt.wantOK)
		}
	}

	if RootFacet.IsDescendantOf(RootFacet) {
		t.Error("root should not descend from itself")
	}
	if !RootFacet.IsRoot() || f.IsRoot() {
		t.Error("IsRoot() mismatch")
	}
}
