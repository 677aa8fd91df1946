// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package config

import (
	"fmt"
	"net"
	"strings"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateIndex(); err != nil {
		return err
	}

	if err := c.validateSearch(); err != nil {
		return err
	}

	if err := c.validateMaintenance(); err != nil {
		return err
	}

	if err := c.validateMetrics(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateIndex() error {
	if strings.TrimSpace(c.Index.Path) == "" {
		return fmt.Errorf("index.path is required")
	}
	if c.Index.MemTableSize < 0 || c.Index.ValueLogFileSize < 0 || c.Index.BlockCacheSize < 0 {
		return fmt.Errorf("index sizes must not be negative")
	}
	if c.Index.NumCompactors != 0 && c.Index.NumCompactors < 2 {
		return fmt.Errorf("index.num_compactors must be at least 2, got %d", c.Index.NumCompactors)
	}
	if c.Index.WriterBufferDocs < 0 {
		return fmt.Errorf("index.writer_buffer_docs must not be negative, got %d", c.Index.WriterBufferDocs)
	}
	switch c.Index.ReloadPolicy {
	case "on_commit", "manual":
	default:
		return fmt.Errorf("index.reload_policy must be on_commit or manual, got %q", c.Index.ReloadPolicy)
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.DefaultRecipeLimit < 1 {
		return fmt.Errorf("search.default_recipe_limit must be at least 1, got %d", c.Search.DefaultRecipeLimit)
	}
	if c.Search.PopularLimit < 1 {
		return fmt.Errorf("search.popular_limit must be at least 1, got %d", c.Search.PopularLimit)
	}
	if c.Search.Parallelism < 0 {
		return fmt.Errorf("search.parallelism must not be negative, got %d", c.Search.Parallelism)
	}
	if c.Search.FacetCacheSize < 0 {
		return fmt.Errorf("search.facet_cache_size must not be negative, got %d", c.Search.FacetCacheSize)
	}
	if c.Search.FacetCacheTTL < 0 {
		return fmt.Errorf("search.facet_cache_ttl must not be negative, got %v", c.Search.FacetCacheTTL)
	}
	return nil
}

func (c *Config) validateMaintenance() error {
	if c.Maintenance.GCInterval < 0 || c.Maintenance.MergeInterval < 0 {
		return fmt.Errorf("maintenance intervals must not be negative")
	}
	if c.Maintenance.GCRatio <= 0 || c.Maintenance.GCRatio >= 1 {
		return fmt.Errorf("maintenance.gc_ratio must be between 0 and 1 exclusive, got %v", c.Maintenance.GCRatio)
	}
	if c.Maintenance.MergeThreshold < 2 {
		return fmt.Errorf("maintenance.merge_threshold must be at least 2, got %d", c.Maintenance.MergeThreshold)
	}
	return nil
}

func (c *Config) validateMetrics() error {
	if !c.Metrics.Enabled {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.Metrics.Addr); err != nil {
		return fmt.Errorf("metrics.addr %q is invalid: %w", c.Metrics.Addr, err)
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
