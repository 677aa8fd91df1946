// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package engine

import (
	"fmt"
	"strings"
	"unicode"
)

// QueryParser turns user query text into a Query.
//
// The grammar is a whitespace separated list of clauses:
//
//	[+|-][field:]word
//	[+|-][field:]"quoted words"
//
// A clause without a field searches every default field. '+' makes the
// clause required and '-' excludes it; plain clauses are optional. A word is
// run through the field's analyzer and every resulting token must match:
// "peanut-butter" requires both peanut and butter.
type QueryParser struct {
	schema   *Schema
	defaults []Field
}

// NewQueryParser returns a parser searching defaults when no field is named.
func NewQueryParser(schema *Schema, defaults ...Field) *QueryParser {
	return &QueryParser{schema: schema, defaults: defaults}
}

// Parse parses text. Empty text yields a query that matches nothing.
func (p *QueryParser) Parse(text string) (Query, error) {
	clauses, err := splitClauses(text)
	if err != nil {
		return nil, err
	}
	q := NewBooleanQuery()
	for _, c := range clauses {
		fields := p.defaults
		if c.field != "" {
			f, err := p.schema.Field(c.field)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrQueryParse, err)
			}
			fields = []Field{f}
		}
		sub, err := p.clauseQuery(fields, c.text)
		if err != nil {
			return nil, err
		}
		if sub == nil {
			continue
		}
		q.Add(c.occur, sub)
	}
	return q, nil
}

// clauseQuery builds the query of one clause, or nil when the text has no tokens.
func (p *QueryParser) clauseQuery(fields []Field, text string) (Query, error) {
	var perField []Query
	for _, f := range fields {
		if !p.schema.Has(f) {
			return nil, fmt.Errorf("%w: default field handle %d", ErrQueryParse, f)
		}
		entry := p.schema.Entry(f)
		if !entry.Indexed {
			return nil, fmt.Errorf("%w: field %q is not indexed", ErrQueryParse, entry.Name)
		}
		var terms []Query
		if entry.Type == TypeFacet {
			facet, err := ParseFacet(text)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrQueryParse, err)
			}
			terms = append(terms, NewFacetTermQuery(f, facet))
		} else {
			for _, tok := range AnalyzerFor(entry.Type).Tokens(text) {
				terms = append(terms, NewTermQuery(f, tok))
			}
		}
		switch len(terms) {
		case 0:
		case 1:
			perField = append(perField, terms[0])
		default:
			all := NewBooleanQuery()
			for _, t := range terms {
				all.Add(Must, t)
			}
			perField = append(perField, all)
		}
	}
	switch len(perField) {
	case 0:
		return nil, nil
	case 1:
		return perField[0], nil
	}
	anyField := NewBooleanQuery()
	for _, q := range perField {
		anyField.Add(Should, q)
	}
	return anyField, nil
}

// QuoteAll returns query text with a single required clause holding every
// word of text. Operators, field prefixes and quotes in text lose their
// meaning.
func QuoteAll(text string) string {
	return `+"` + strings.ReplaceAll(text, `"`, " ") + `"`
}

type rawClause struct {
	occur Occur
	field string
	text  string
}

func splitClauses(text string) ([]rawClause, error) {
	var out []rawClause
	rs := []rune(text)
	for i := 0; i < len(rs); {
		if unicode.IsSpace(rs[i]) {
			i++
			continue
		}
		c := rawClause{occur: Should}
		switch rs[i] {
		case '+':
			c.occur = Must
			i++
		case '-':
			c.occur = MustNot
			i++
		}
		if i >= len(rs) || unicode.IsSpace(rs[i]) {
			return nil, fmt.Errorf("%w: dangling operator at offset %d", ErrQueryParse, i)
		}

		start := i
		for i < len(rs) && !unicode.IsSpace(rs[i]) && rs[i] != ':' && rs[i] != '"' {
			i++
		}
		if i < len(rs) && rs[i] == ':' {
			c.field = string(rs[start:i])
			if c.field == "" {
				return nil, fmt.Errorf("%w: empty field name at offset %d", ErrQueryParse, start)
			}
			i++
			start = i
		} else {
			i = start
		}

		if i < len(rs) && rs[i] == '"' {
			end := i + 1
			for end < len(rs) && rs[end] != '"' {
				end++
			}
			if end >= len(rs) {
				return nil, fmt.Errorf("%w: unterminated quote at offset %d", ErrQueryParse, i)
			}
			c.text = string(rs[i+1 : end])
			i = end + 1
		} else {
			for i < len(rs) && !unicode.IsSpace(rs[i]) {
				if rs[i] == '"' {
					return nil, fmt.Errorf("%w: unexpected quote at offset %d", ErrQueryParse, i)
				}
				i++
			}
			c.text = string(rs[start:i])
		}
		if c.field != "" && strings.TrimSpace(c.text) == "" {
			return nil, fmt.Errorf("%w: field %q has no value", ErrQueryParse, c.field)
		}
		out = append(out, c)
	}
	return out, nil
}
