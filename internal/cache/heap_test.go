// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package cache

import (
	"math/rand"
	"sort"
	"testing"
)

func greater(a, b int) bool { return a > b }

func TestTopK_KeepsBest(t *testing.T) {
	t.Parallel()

	top := NewTopK(3, greater)
	for _, v := range []int{5, 1, 9, 3, 7, 2} {
		top.Push(v)
	}

	got := top.Sorted()
	want := []int{9, 7, 5}
	if len(got) != len(want) {
		t.Fatalf("Expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Sorted()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestTopK_PushReportsCut(t *testing.T) {
	t.Parallel()

	top := NewTopK(2, greater)
	if !top.Push(4) || !top.Push(6) {
		t.Fatal("Expected first two pushes to be kept")
	}
	if top.Push(1) {
		t.Error("Expected 1 to miss the cut")
	}
	if !top.Push(5) {
		t.Error("Expected 5 to replace 4")
	}
	if got := top.Sorted(); len(got) != 2 || got[0] != 6 || got[1] != 5 {
		t.Errorf("Sorted() = %v, want [6 5]", got)
	}
}

func TestTopK_Unbounded(t *testing.T) {
	t.Parallel()

	top := NewTopK(0, greater)
	for i := 0; i < 100; i++ {
		top.Push(i)
	}
	got := top.Sorted()
	if len(got) != 100 {
		t.Fatalf("Expected len 100, got %d", len(got))
	}
	if got[0] != 99 {
		t.Errorf("Expected best 99, got %d", got[0])
	}
}

func TestTopK_Empty(t *testing.T) {
	t.Parallel()

	top := NewTopK(5, greater)
	if len(top.Sorted()) != 0 {
		t.Error("Expected empty Sorted()")
	}
}

func TestTopK_TieBreak(t *testing.T) {
	t.Parallel()

	type scored struct {
		score float64
		id    int
	}
	better := func(a, b scored) bool {
		if a.score != b.score {
			return a.score > b.score
		}
		return a.id < b.id
	}

	top := NewTopK(2, better)
	top.Push(scored{1, 3})
	top.Push(scored{1, 1})
	top.Push(scored{1, 2})

	got := top.Sorted()
	if got[0].id != 1 || got[1].id != 2 {
		t.Errorf("Expected ids [1 2], got [%d %d]", got[0].id, got[1].id)
	}
}

func TestTopK_MatchesSort(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	values := make([]int, 500)
	for i := range values {
		values[i] = rng.Intn(1000)
	}

	top := NewTopK(25, greater)
	for _, v := range values {
		top.Push(v)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(values)))
	got := top.Sorted()
	for i := range got {
		if got[i] != values[i] {
			t.Fatalf("Sorted()[%d] = %d, want %d", i, got[i], values[i])
		}
	}
}
