// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package engine

import "errors"

// Errors
var (
	// ErrIndexNotFound is returned by Open when the directory holds no index.
	ErrIndexNotFound = errors.New("index not found")

	// ErrIndexExists is returned by Create when the target directory already has content.
	ErrIndexExists = errors.New("index directory is not empty")

	// ErrSchemaMismatch is returned when a persisted schema differs from the expected one.
	ErrSchemaMismatch = errors.New("schema does not match persisted schema")

	// ErrWriterBusy is returned when a second writer is requested for the same index.
	ErrWriterBusy = errors.New("index writer already in use")

	// ErrClosed is returned when an operation runs against a closed index or writer.
	ErrClosed = errors.New("index is closed")

	// ErrReadOnly is returned when a writer is requested on a read-only index.
	ErrReadOnly = errors.New("index is read-only")

	// ErrUnknownField is returned when a field name or handle is not part of the schema.
	ErrUnknownField = errors.New("unknown field")

	// ErrFieldType is returned when a field is used in a way its type does not support.
	ErrFieldType = errors.New("field type mismatch")

	// ErrInvalidFacet is returned for malformed facet paths.
	ErrInvalidFacet = errors.New("invalid facet")

	// ErrQueryParse is returned by QueryParser for malformed query text.
	ErrQueryParse = errors.New("query parse error")

	// ErrNotMergeable is returned by Merge when indexed fields are not stored.
	ErrNotMergeable = errors.New("segments cannot be merged")

	// ErrCorrupt is returned when persisted index data cannot be decoded.
	ErrCorrupt = errors.New("index data is corrupt")
)
