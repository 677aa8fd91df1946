// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"bareshelf.yaml",
	"bareshelf.yml",
	"/etc/bareshelf/config.yaml",
	"/etc/bareshelf/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "BARESHELF_CONFIG"

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "BARESHELF_"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			Path:             "./data",
			SyncWrites:       true,
			Compression:      true,
			MemTableSize:     16 << 20,
			ValueLogFileSize: 64 << 20,
			NumCompactors:    2,
			BlockCacheSize:   32 << 20,
			WriterBufferDocs: 10000,
			ReloadPolicy:     "on_commit",
		},
		Search: SearchConfig{
			DefaultRecipeLimit: 100,
			PopularLimit:       20,
			Parallelism:        0, // 0 = GOMAXPROCS
			FacetCacheSize:     64,
			FacetCacheTTL:      5 * time.Minute,
		},
		Maintenance: MaintenanceConfig{
			GCInterval:     10 * time.Minute,
			GCRatio:        0.5,
			MergeInterval:  time.Hour,
			MergeThreshold: 8,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    "127.0.0.1:9464",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Default returns the built-in configuration without consulting files or the environment.
func Default() *Config {
	return defaultConfig()
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: explicit path, BARESHELF_CONFIG, or the first DefaultConfigPaths hit
//  3. Environment Variables: BARESHELF_* overrides
//
// An explicit path that does not exist is an error; a missing default file is not.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := path
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
	} else {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// BARESHELF_INDEX_PATH -> index.path
	// BARESHELF_LOG_LEVEL -> logging.level
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps lowercased environment variable names (prefix stripped)
// to koanf config paths.
var envMappings = map[string]string{
	"index_path":                "index.path",
	"index_sync_writes":         "index.sync_writes",
	"index_compression":         "index.compression",
	"index_memtable_size":       "index.memtable_size",
	"index_value_log_file_size": "index.value_log_file_size",
	"index_num_compactors":      "index.num_compactors",
	"index_block_cache_size":    "index.block_cache_size",
	"index_writer_buffer_docs":  "index.writer_buffer_docs",
	"index_reload_policy":       "index.reload_policy",

	"search_default_recipe_limit": "search.default_recipe_limit",
	"search_popular_limit":        "search.popular_limit",
	"search_parallelism":          "search.parallelism",
	"search_facet_cache_size":     "search.facet_cache_size",
	"search_facet_cache_ttl":      "search.facet_cache_ttl",

	"gc_interval":     "maintenance.gc_interval",
	"gc_ratio":        "maintenance.gc_ratio",
	"merge_interval":  "maintenance.merge_interval",
	"merge_threshold": "maintenance.merge_threshold",

	"metrics_enabled": "metrics.enabled",
	"metrics_addr":    "metrics.addr",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - BARESHELF_INDEX_PATH -> index.path
//   - BARESHELF_GC_INTERVAL -> maintenance.gc_interval
//   - BARESHELF_LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys are skipped so stray variables cannot pollute config,
	// BARESHELF_CONFIG included.
	return ""
}
