// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

// Package main is the bareshelf command line tool.
//
// It is a thin client of internal/search: every command opens the index
// directory, runs one core operation and prints the result.
//
//	bareshelf import recipes.jsonl
//	bareshelf search egg oil garlic --limit 5
//	bareshelf search egg --key egg --banned butter --json
//	bareshelf ingredients-by-prefix bu
//	bareshelf ingredient "Brown sugar"
//	bareshelf popular egg oil
//	bareshelf list-ingredients
//	bareshelf maintain
//
// # Configuration
//
// Settings come from built-in defaults, an optional YAML file (--config or
// BARESHELF_CONFIG) and BARESHELF_* environment variables. --path overrides
// index.path.
//
// # Import Format
//
// import reads JSON values, one record each, from a file or stdin:
//
//	{"ingredient": {"name": "Egg", "slug": "egg"}}
//	{"recipe": {"title": "Fried egg", "slug": "fried-egg", "url": "http://example.org/one",
//	            "ingredients": [{"name": "Egg", "slug": "egg"}, {"name": "Oil", "slug": "oil"}]}}
//
// All records are committed together at the end; a bad record aborts the
// import without changing the index.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
