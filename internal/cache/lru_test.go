// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package cache

import (
	"sync"
	"testing"
	"time"
)

func TestLRUCache_BasicOperations(t *testing.T) {
	t.Parallel()

	c := NewLRUCache[string, int](3, time.Minute)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		got, found := c.Get(key)
		if !found {
			t.Errorf("Expected to find key %q", key)
			continue
		}
		if got != want {
			t.Errorf("Get(%q) = %d, want %d", key, got, want)
		}
	}

	if c.Len() != 3 {
		t.Errorf("Expected len 3, got %d", c.Len())
	}
}

func TestLRUCache_Eviction(t *testing.T) {
	t.Parallel()

	c := NewLRUCache[string, int](3, time.Minute)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	// Touch 'a' so 'b' becomes least recently used.
	c.Get("a")
	c.Add("d", 4)

	if _, found := c.Get("b"); found {
		t.Error("Expected 'b' to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, found := c.Get(key); !found {
			t.Errorf("Expected %q to be present", key)
		}
	}
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	t.Parallel()

	c := NewLRUCache[uint64, string](2, time.Minute)
	c.Add(1, "old")
	c.Add(1, "new")

	if got, _ := c.Get(1); got != "new" {
		t.Errorf("Expected updated value 'new', got %q", got)
	}
	if c.Len() != 1 {
		t.Errorf("Expected len 1, got %d", c.Len())
	}
}

func TestLRUCache_TTLExpiration(t *testing.T) {
	t.Parallel()

	now := time.Unix(1000, 0)
	c := NewLRUCache[string, int](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Add("a", 1)
	now = now.Add(30 * time.Second)
	if _, found := c.Get("a"); !found {
		t.Error("Expected 'a' before expiry")
	}

	now = now.Add(2 * time.Minute)
	if _, found := c.Get("a"); found {
		t.Error("Expected 'a' to be expired")
	}
	if c.Len() != 0 {
		t.Errorf("Expected expired entry to be dropped, len %d", c.Len())
	}
}

func TestLRUCache_Concurrent(t *testing.T) {
	t.Parallel()

	c := NewLRUCache[int, int](100, time.Minute)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				c.Add(i%200, g)
				c.Get(i % 150)
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 100 {
		t.Errorf("Expected at most 100 entries, got %d", c.Len())
	}
}
