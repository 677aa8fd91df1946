// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package engine

import (
	"fmt"

	"github.com/goccy/go-json"
)

// FieldType describes how a field's values are indexed.
type FieldType uint8

const (
	// TypeText values are tokenized with SimpleAnalyzer.
	TypeText FieldType = iota + 1
	// TypeString values are indexed as a single untouched token.
	TypeString
	// TypeFacet values are hierarchical category paths.
	TypeFacet
)

// String returns the name of the field type.
func (t FieldType) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeString:
		return "string"
	case TypeFacet:
		return "facet"
	default:
		return fmt.Sprintf("FieldType(%d)", uint8(t))
	}
}

// FieldOptions are bit flags passed to the SchemaBuilder.
type FieldOptions uint8

const (
	// Indexed makes the field searchable.
	Indexed FieldOptions = 1 << iota
	// Stored keeps the original values so they can be returned with hits.
	Stored
)

// Field is a schema-local field handle. Handles are dense and assigned in
// declaration order, so the same builder calls always produce the same handles.
type Field uint16

// FieldEntry is the persisted description of one field.
type FieldEntry struct {
	Name    string    `json:"name"`
	Type    FieldType `json:"type"`
	Indexed bool      `json:"indexed"`
	Stored  bool      `json:"stored"`
}

// Schema is an immutable, ordered set of fields.
type Schema struct {
	fields []FieldEntry
	byName map[string]Field
}

// SchemaBuilder accumulates field declarations.
type SchemaBuilder struct {
	fields []FieldEntry
}

// NewSchemaBuilder returns an empty builder.
func NewSchemaBuilder() *SchemaBuilder {
	return &SchemaBuilder{}
}

// AddTextField declares a tokenized text field. A text field declared with
// only Stored is a stored-only value that cannot be searched.
func (b *SchemaBuilder) AddTextField(name string, opts FieldOptions) Field {
	return b.add(name, TypeText, opts)
}

// AddStringField declares an exact-match field.
func (b *SchemaBuilder) AddStringField(name string, opts FieldOptions) Field {
	return b.add(name, TypeString, opts)
}

// AddFacetField declares a facet field. Facet fields are always indexed.
func (b *SchemaBuilder) AddFacetField(name string, opts FieldOptions) Field {
	return b.add(name, TypeFacet, opts|Indexed)
}

func (b *SchemaBuilder) add(name string, typ FieldType, opts FieldOptions) Field {
	b.fields = append(b.fields, FieldEntry{
		Name:    name,
		Type:    typ,
		Indexed: opts&Indexed != 0,
		Stored:  opts&Stored != 0,
	})
	return Field(len(b.fields) - 1)
}

// Build validates the declarations and returns the schema.
func (b *SchemaBuilder) Build() (*Schema, error) {
	fields := make([]FieldEntry, len(b.fields))
	copy(fields, b.fields)
	return newSchema(fields)
}

func newSchema(fields []FieldEntry) (*Schema, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("schema has no fields")
	}
	byName := make(map[string]Field, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("field %d has an empty name", i)
		}
		if _, dup := byName[f.Name]; dup {
			return nil, fmt.Errorf("duplicate field %q", f.Name)
		}
		switch f.Type {
		case TypeText, TypeString, TypeFacet:
		default:
			return nil, fmt.Errorf("field %q: %w: %s", f.Name, ErrFieldType, f.Type)
		}
		byName[f.Name] = Field(i)
	}
	return &Schema{fields: fields, byName: byName}, nil
}

// Field resolves a field handle by name.
func (s *Schema) Field(name string) (Field, error) {
	f, ok := s.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f, nil
}

// Entry returns the description of a field. It panics on handles that were
// not produced by this schema.
func (s *Schema) Entry(f Field) FieldEntry {
	return s.fields[f]
}

// Has reports whether f is a handle of this schema.
func (s *Schema) Has(f Field) bool {
	return int(f) < len(s.fields)
}

// NumFields returns the number of declared fields.
func (s *Schema) NumFields() int {
	return len(s.fields)
}

// Fields returns a copy of all field entries in handle order.
func (s *Schema) Fields() []FieldEntry {
	out := make([]FieldEntry, len(s.fields))
	copy(out, s.fields)
	return out
}

// Equal reports whether two schemas declare the same fields in the same order.
func (s *Schema) Equal(other *Schema) bool {
	if other == nil || len(s.fields) != len(other.fields) {
		return false
	}
	for i := range s.fields {
		if s.fields[i] != other.fields[i] {
			return false
		}
	}
	return true
}

// fullyStored reports whether every indexed field keeps its values, which is
// what rebuilding a segment from stored documents requires.
func (s *Schema) fullyStored() bool {
	for _, f := range s.fields {
		if f.Indexed && !f.Stored {
			return false
		}
	}
	return true
}

type schemaJSON struct {
	Fields []FieldEntry `json:"fields"`
}

// MarshalJSON encodes the schema for persistence.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(schemaJSON{Fields: s.fields})
}

// UnmarshalJSON decodes a persisted schema.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var raw schemaJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := newSchema(raw.Fields)
	if err != nil {
		return err
	}
	*s = *decoded
	return nil
}
