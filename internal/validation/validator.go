// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

// Package validation checks imported records against their `validate` struct
// tags with go-playground/validator v10.
//
//	if err := validation.ValidateStruct(&recipe); err != nil {
//	    return fmt.Errorf("record %d: %w", n, err)
//	}
//
// Failures are returned as *RecordError, which lists every failing field
// with a readable message.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed rule.
type FieldError struct {
	Namespace string
	Tag       string
	Param     string
	Message   string
}

// RecordError collects the failed rules of one struct.
type RecordError struct {
	Fields []FieldError
}

func (e *RecordError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// GetValidator returns the shared validator. It caches struct metadata and
// is safe for concurrent use.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report json names so messages match the import format.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidateStruct validates s. It returns nil or a *RecordError.
func ValidateStruct(s any) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RecordError{Fields: []FieldError{{Tag: "unknown", Message: err.Error()}}}
	}
	fields := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{
			Namespace: fieldPath(fe),
			Tag:       fe.Tag(),
			Param:     fe.Param(),
			Message:   translate(fe),
		}
	}
	return &RecordError{Fields: fields}
}

// fieldPath drops the struct type from the namespace: "ingredients[0].slug".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

var messages = map[string]string{
	"required": "%s is required",
	"url":      "%s must be a valid URL",
}

func translate(fe validator.FieldError) string {
	if tmpl, ok := messages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fieldPath(fe))
	}
	return fmt.Sprintf("%s failed %s validation", fieldPath(fe), fe.Tag())
}
