// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package engine

import (
	"strings"

	"github.com/blevesearch/segment"
)

// MaxTokenLen is the longest token, in bytes, that SimpleAnalyzer emits.
const MaxTokenLen = 40

// Analyzer turns a field value into index terms.
type Analyzer interface {
	Tokens(text string) []string
}

// SimpleAnalyzer splits text at Unicode word boundaries (UAX #29), keeps
// the segments made of letters, digits or ideographs and lowercases them.
// Tokens longer than MaxTokenLen are dropped.
type SimpleAnalyzer struct{}

// Tokens implements Analyzer.
func (SimpleAnalyzer) Tokens(text string) []string {
	out := []string{}
	seg := segment.NewWordSegmenterDirect([]byte(text))
	for seg.Segment() {
		if seg.Type() == segment.None {
			continue
		}
		tok := seg.Bytes()
		if len(tok) > MaxTokenLen {
			continue
		}
		out = append(out, strings.ToLower(string(tok)))
	}
	return out
}

// RawAnalyzer emits the whole value as a single token.
type RawAnalyzer struct{}

// Tokens implements Analyzer.
func (RawAnalyzer) Tokens(text string) []string {
	if text == "" {
		return nil
	}
	return []string{text}
}

// AnalyzerFor returns the analyzer used for fields of the given type.
// Facet terms are produced from the facet path and never go through an analyzer.
func AnalyzerFor(t FieldType) Analyzer {
	if t == TypeText {
		return SimpleAnalyzer{}
	}
	return RawAnalyzer{}
}
