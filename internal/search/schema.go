// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package search

import (
	"fmt"

	"github.com/tomtom215/bareshelf/internal/engine"
)

// Field names of the recipes collection.
const (
	FieldTitle          = "title"
	FieldSlug           = "slug"
	FieldURL            = "url"
	FieldChefName       = "chef_name"
	FieldImageName      = "image_name"
	FieldIngredientName = "ingredient_name"
	FieldIngredientSlug = "ingredient_slug"
)

// Field names of the ingredients collection.
const (
	FieldName = "name"
	// The catalog slug field shares its name with the recipe slug field.
	FieldCatalogSlug = "slug"
)

// ingredientNamespace is the first segment of every ingredient facet.
const ingredientNamespace = "ingredient"

// ingredientRoot is the facet every ingredient facet descends from.
var ingredientRoot = engine.NewFacet(ingredientNamespace)

// RecipesSchema returns the schema of the recipes collection.
func RecipesSchema() *engine.Schema {
	b := engine.NewSchemaBuilder()
	b.AddTextField(FieldTitle, engine.Indexed|engine.Stored)
	b.AddStringField(FieldSlug, engine.Indexed|engine.Stored)
	b.AddTextField(FieldURL, engine.Stored)
	b.AddTextField(FieldChefName, engine.Stored)
	b.AddTextField(FieldImageName, engine.Stored)
	b.AddTextField(FieldIngredientName, engine.Indexed|engine.Stored)
	b.AddFacetField(FieldIngredientSlug, engine.Stored)
	return mustBuild(b)
}

// IngredientsSchema returns the schema of the ingredients collection.
func IngredientsSchema() *engine.Schema {
	b := engine.NewSchemaBuilder()
	b.AddTextField(FieldName, engine.Indexed|engine.Stored)
	b.AddStringField(FieldCatalogSlug, engine.Indexed|engine.Stored)
	return mustBuild(b)
}

func mustBuild(b *engine.SchemaBuilder) *engine.Schema {
	s, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("search: static schema: %v", err))
	}
	return s
}

type recipeFields struct {
	title, slug, url, chefName, imageName engine.Field
	ingredientName, ingredientSlug        engine.Field
}

type ingredientFields struct {
	name, slug engine.Field
}

type fieldBinding struct {
	name string
	typ  engine.FieldType
	dst  *engine.Field
}

// bind resolves every expected field by name and checks its type.
func bind(op string, s *engine.Schema, bindings []fieldBinding) error {
	for _, b := range bindings {
		f, err := s.Field(b.name)
		if err != nil {
			return otherError(op, "schema drift: field %q is missing", b.name)
		}
		if got := s.Entry(f).Type; got != b.typ {
			return otherError(op, "schema drift: field %q is %s, want %s", b.name, got, b.typ)
		}
		*b.dst = f
	}
	return nil
}

func bindRecipeFields(s *engine.Schema) (recipeFields, error) {
	var f recipeFields
	err := bind("bind recipes schema", s, []fieldBinding{
		{FieldTitle, engine.TypeText, &f.title},
		{FieldSlug, engine.TypeString, &f.slug},
		{FieldURL, engine.TypeText, &f.url},
		{FieldChefName, engine.TypeText, &f.chefName},
		{FieldImageName, engine.TypeText, &f.imageName},
		{FieldIngredientName, engine.TypeText, &f.ingredientName},
		{FieldIngredientSlug, engine.TypeFacet, &f.ingredientSlug},
	})
	return f, err
}

func bindIngredientFields(s *engine.Schema) (ingredientFields, error) {
	var f ingredientFields
	err := bind("bind ingredients schema", s, []fieldBinding{
		{FieldName, engine.TypeText, &f.name},
		{FieldCatalogSlug, engine.TypeString, &f.slug},
	})
	return f, err
}
