// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package engine

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
)

func TestSchemaBuilder(t *testing.T) {
	b := NewSchemaBuilder()
	title := b.AddTextField("title", Indexed|Stored)
	slug := b.AddStringField("slug", Indexed)
	tag := b.AddFacetField("tag", Stored)
	schema, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if schema.NumFields() != 3 {
		t.Fatalf("NumFields() = %d, want 3", schema.NumFields())
	}

	tests := []struct {
		name    string
		field   Field
		typ     FieldType
		indexed bool
		stored  bool
	}{
		{"title", title, TypeText, true, true},
		{"slug", slug, TypeString, true, false},
		{"tag", tag, TypeFacet, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := schema.Field(tt.name)
			if err != nil {
				t.Fatalf("Field(%q) error = %v", tt.name, err)
			}
			if got != tt.field {
				t.Errorf("Field(%q) = %d, want %d", tt.name, got, tt.field)
			}
			e := schema.Entry(got)
			if e.Type != tt.typ || e.Indexed != tt.indexed || e.Stored != tt.stored {
				t.Errorf("Entry(%q) = %+v", tt.name, e)
			}
		})
	}

	if schema.fullyStored() {
		t.Error("slug is indexed but not stored, fullyStored() should be false")
	}
}

func TestSchemaFieldUnknown(t *testing.T) {
	b := NewSchemaBuilder()
	b.AddTextField("title", Indexed)
	schema, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := schema.Field("nope"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Field(nope) error = %v, want ErrUnknownField", err)
	}
	if schema.Has(Field(5)) {
		t.Error("Has(5) should be false")
	}
}

func TestSchemaBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *SchemaBuilder)
	}{
		{"empty", func(*SchemaBuilder) {}},
		{"duplicate", func(b *SchemaBuilder) {
			b.AddTextField("title", Indexed)
			b.AddStringField("title", Indexed)
		}},
		{"empty name", func(b *SchemaBuilder) {
			b.AddTextField("", Indexed)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewSchemaBuilder()
			tt.build(b)
			if _, err := b.Build(); err == nil {
				t.Error("Build() should fail")
			}
		})
	}
}

func TestSchemaJSON(t *testing.T) {
	b := NewSchemaBuilder()
	b.AddTextField("title", Indexed|Stored)
	b.AddFacetField("tag", Stored)
	schema, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(schema)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	decoded := &Schema{}
	if err := json.Unmarshal(data, decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !decoded.Equal(schema) {
		t.Errorf("decoded schema %+v differs from %+v", decoded.Fields(), schema.Fields())
	}
	if f, err := decoded.Field("tag"); err != nil || f != 1 {
		t.Errorf("decoded Field(tag) = %d, %v", f, err)
	}

	bad := []byte(`{"fields":[{"name":"x","type":9,"indexed":true,"stored":false}]}`)
	if err := json.Unmarshal(bad, &Schema{}); !errors.Is(err, ErrFieldType) {
		t.Errorf("Unmarshal(bad type) error = %v, want ErrFieldType", err)
	}
}

func TestSchemaEqual(t *testing.T) {
	build := func(stored FieldOptions) *Schema {
		b := NewSchemaBuilder()
		b.AddTextField("title", Indexed|stored)
		s, err := b.Build()
		if err != nil {
			t.Fatal(err)
		}
		return s
	}
	if !build(Stored).Equal(build(Stored)) {
		t.Error("identical schemas should be equal")
	}
	if build(Stored).Equal(build(0)) {
		t.Error("schemas with different options should differ")
	}
	if build(Stored).Equal(nil) {
		t.Error("schema should not equal nil")
	}
}

func TestFieldTypeString(t *testing.T) {
	tests := map[FieldType]string{
		TypeText:      "text",
		TypeString:    "string",
		TypeFacet:     "facet",
		FieldType(42): "FieldType(42)",
	}
	for typ, want := range tests {
		if got := typ.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", uint8(typ), got, want)
		}
	}
}
