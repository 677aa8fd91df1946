// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package search

import (
	"slices"

	"github.com/tomtom215/bareshelf/internal/engine"
)

// Ingredient is one entry of the ingredient catalog.
type Ingredient struct {
	Name string `json:"name" validate:"required"`
	Slug string `json:"slug" validate:"required"`
}

// IngredientSlug identifies an ingredient in recipe queries.
type IngredientSlug string

// Slugs converts plain strings to ingredient slugs.
func Slugs(ss ...string) []IngredientSlug {
	out := make([]IngredientSlug, len(ss))
	for i, s := range ss {
		out[i] = IngredientSlug(s)
	}
	return out
}

func (s IngredientSlug) String() string {
	return string(s)
}

// Facet returns the facet the slug is indexed under, /ingredient/<slug>.
func (s IngredientSlug) Facet() engine.Facet {
	return engine.NewFacet(ingredientNamespace, string(s))
}

// SlugFromFacet is the inverse of IngredientSlug.Facet.
func SlugFromFacet(f engine.Facet) (IngredientSlug, error) {
	path := f.Path()
	if len(path) != 2 || path[0] != ingredientNamespace {
		return "", otherError("slug from facet", "%q is not an ingredient facet", f)
	}
	return IngredientSlug(path[1]), nil
}

// Recipe is a recipe document. ChefName and ImageName are optional.
type Recipe struct {
	Title       string       `json:"title" validate:"required"`
	Slug        string       `json:"slug" validate:"required"`
	URL         string       `json:"url" validate:"required,url"`
	ChefName    *string      `json:"chef_name,omitempty"`
	ImageName   *string      `json:"image_name,omitempty"`
	Ingredients []Ingredient `json:"ingredients" validate:"dive"`
}

// IngredientSlugs returns the distinct ingredient slugs of r, sorted.
func (r *Recipe) IngredientSlugs() []IngredientSlug {
	out := make([]IngredientSlug, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		out = append(out, IngredientSlug(ing.Slug))
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func (f *recipeFields) document(r *Recipe) *engine.Document {
	doc := engine.NewDocument().
		AddText(f.title, r.Title).
		AddText(f.slug, r.Slug).
		AddText(f.url, r.URL)
	if r.ChefName != nil {
		doc.AddText(f.chefName, *r.ChefName)
	}
	if r.ImageName != nil {
		doc.AddText(f.imageName, *r.ImageName)
	}
	for _, ing := range r.Ingredients {
		doc.AddText(f.ingredientName, ing.Name)
		doc.AddFacet(f.ingredientSlug, IngredientSlug(ing.Slug).Facet())
	}
	return doc
}

// recipe rebuilds a Recipe from its stored fields. Ingredient names and slugs
// are stored as parallel lists.
func (f *recipeFields) recipe(doc *engine.Document) (Recipe, error) {
	const op = "read recipe"
	var r Recipe
	var ok bool
	if r.Title, ok = doc.GetFirst(f.title); !ok {
		return Recipe{}, otherError(op, "stored field %q is missing", FieldTitle)
	}
	if r.Slug, ok = doc.GetFirst(f.slug); !ok {
		return Recipe{}, otherError(op, "stored field %q is missing", FieldSlug)
	}
	if r.URL, ok = doc.GetFirst(f.url); !ok {
		return Recipe{}, otherError(op, "stored field %q is missing", FieldURL)
	}
	if s, ok := doc.GetFirst(f.chefName); ok {
		r.ChefName = &s
	}
	if s, ok := doc.GetFirst(f.imageName); ok {
		r.ImageName = &s
	}

	names := doc.GetAll(f.ingredientName)
	facets := doc.GetFacets(f.ingredientSlug)
	if len(names) != len(facets) {
		return Recipe{}, otherError(op, "recipe %q has %d ingredient names but %d slugs", r.Slug, len(names), len(facets))
	}
	r.Ingredients = make([]Ingredient, len(names))
	for i, name := range names {
		slug, err := SlugFromFacet(facets[i])
		if err != nil {
			return Recipe{}, err
		}
		r.Ingredients[i] = Ingredient{Name: name, Slug: string(slug)}
	}
	return r, nil
}

func (f *ingredientFields) document(ing Ingredient) *engine.Document {
	return engine.NewDocument().
		AddText(f.name, ing.Name).
		AddText(f.slug, ing.Slug)
}

func (f *ingredientFields) ingredient(doc *engine.Document) (Ingredient, error) {
	const op = "read ingredient"
	name, ok := doc.GetFirst(f.name)
	if !ok {
		return Ingredient{}, otherError(op, "stored field %q is missing", FieldName)
	}
	slug, ok := doc.GetFirst(f.slug)
	if !ok {
		return Ingredient{}, otherError(op, "stored field %q is missing", FieldCatalogSlug)
	}
	return Ingredient{Name: name, Slug: slug}, nil
}
