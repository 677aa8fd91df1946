// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package engine

// FieldValue is one value of one field. Fields may repeat within a document.
type FieldValue struct {
	Field Field  `json:"f"`
	Value string `json:"v"`
}

// Document is an ordered bag of field values.
type Document struct {
	Values []FieldValue `json:"values"`
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// AddText appends a text or string value.
func (d *Document) AddText(f Field, value string) *Document {
	d.Values = append(d.Values, FieldValue{Field: f, Value: value})
	return d
}

// AddFacet appends a facet value.
func (d *Document) AddFacet(f Field, facet Facet) *Document {
	d.Values = append(d.Values, FieldValue{Field: f, Value: string(facet)})
	return d
}

// GetAll returns every value of f in insertion order.
func (d *Document) GetAll(f Field) []string {
	var out []string
	for _, v := range d.Values {
		if v.Field == f {
			out = append(out, v.Value)
		}
	}
	return out
}

// GetFirst returns the first value of f.
func (d *Document) GetFirst(f Field) (string, bool) {
	for _, v := range d.Values {
		if v.Field == f {
			return v.Value, true
		}
	}
	return "", false
}

// GetFacets returns every value of f as facets.
func (d *Document) GetFacets(f Field) []Facet {
	var out []Facet
	for _, v := range d.Values {
		if v.Field == f {
			out = append(out, Facet(v.Value))
		}
	}
	return out
}

// storedCopy keeps only the values of stored fields.
func (d *Document) storedCopy(s *Schema) *Document {
	out := &Document{Values: make([]FieldValue, 0, len(d.Values))}
	for _, v := range d.Values {
		if s.Entry(v.Field).Stored {
			out.Values = append(out.Values, v)
		}
	}
	return out
}
