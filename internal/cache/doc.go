// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

/*
Package cache provides the small generic data structures used on the search path.

# Overview

  - TopK: a bounded heap that keeps the k best values under a caller-supplied
    ordering. Not thread-safe; every segment worker owns one.
  - LRUCache: a thread-safe LRU map with per-entry TTL and lazy expiration.

# Usage Example

	top := cache.NewTopK(10, func(a, b Scored) bool { return a.Score > b.Score })
	for _, s := range candidates {
	    top.Push(s)
	}
	best := top.Sorted()

	counts := cache.NewLRUCache[uint64, map[string]uint64](16, time.Minute)
	counts.Add(generation, histogram)
	if h, ok := counts.Get(generation); ok {
	    use(h)
	}

# Thread Safety

LRUCache guards all state with a mutex, including Get, which reorders the
recency list. TopK has no locking.
*/
package cache
