// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

/*
Package config loads Bareshelf configuration with Koanf v2.

# Configuration Sources

Sources are layered, later ones overriding earlier ones:
  - Built-in defaults (structs provider)
  - An optional YAML file: the --config flag, BARESHELF_CONFIG, or the first of
    bareshelf.yaml, bareshelf.yml, /etc/bareshelf/config.yaml
  - BARESHELF_* environment variables

# Sections

  - index: on-disk location and store tuning for the two collections
  - search: result limits, segment parallelism, popular ingredient cache
  - maintenance: value log GC and segment merge schedule
  - metrics: Prometheus endpoint
  - logging: level, format, caller

# Environment Variables

  - BARESHELF_INDEX_PATH: parent directory of recipes/ and ingredients/ (default: ./data)
  - BARESHELF_INDEX_SYNC_WRITES: fsync on commit (default: true)
  - BARESHELF_INDEX_RELOAD_POLICY: on_commit or manual (default: on_commit)
  - BARESHELF_SEARCH_DEFAULT_RECIPE_LIMIT: recipe result cap (default: 100)
  - BARESHELF_SEARCH_PARALLELISM: segments collected concurrently (default: GOMAXPROCS)
  - BARESHELF_GC_INTERVAL: value log GC schedule (default: 10m)
  - BARESHELF_MERGE_THRESHOLD: segment count that triggers a merge (default: 8)
  - BARESHELF_METRICS_ADDR: Prometheus listen address (default: 127.0.0.1:9464)
  - BARESHELF_LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - BARESHELF_LOG_FORMAT: json or console (default: json)

# Usage

	cfg, err := config.Load(flagPath)
	if err != nil {
	    return err
	}
	opts := cfg.EngineOptions("recipes")
*/
package config
