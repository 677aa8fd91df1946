// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package cache

import "sort"

// TopK keeps the k best values pushed into it, as ranked by better.
// It provides O(log k) Push.
//
// The heap is ordered worst-first, so the root is the value that the next
// better candidate evicts. This is used for:
//   - top-k document selection inside each index segment
//   - merging per-segment top-k lists
//   - picking the most popular ingredients
//
// TopK is not safe for concurrent use; each segment worker owns its own.
type TopK[T any] struct {
	heap   []T
	better func(a, b T) bool
	k      int // maximum entries (0 = unlimited)
}

// NewTopK creates a TopK holding at most k values. better(a, b) reports
// whether a ranks strictly above b and must be a strict weak ordering.
func NewTopK[T any](k int, better func(a, b T) bool) *TopK[T] {
	if k < 0 {
		k = 0
	}
	capHint := k
	if capHint == 0 || capHint > 1024 {
		capHint = 16
	}
	return &TopK[T]{
		heap:   make([]T, 0, capHint),
		better: better,
		k:      k,
	}
}

// Push offers v. It returns false when v did not make the cut.
func (t *TopK[T]) Push(v T) bool {
	if t.k == 0 || len(t.heap) < t.k {
		t.heap = append(t.heap, v)
		t.bubbleUp(len(t.heap) - 1)
		return true
	}
	if !t.better(v, t.heap[0]) {
		return false
	}
	t.heap[0] = v
	t.bubbleDown(0)
	return true
}

// Sorted returns the kept values best first. The TopK is left unchanged.
func (t *TopK[T]) Sorted() []T {
	out := make([]T, len(t.heap))
	copy(out, t.heap)
	sort.SliceStable(out, func(i, j int) bool { return t.better(out[i], out[j]) })
	return out
}

// Internal heap operations

// worse reports whether heap[i] ranks below heap[j].
func (t *TopK[T]) worse(i, j int) bool {
	return t.better(t.heap[j], t.heap[i])
}

func (t *TopK[T]) bubbleUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !t.worse(i, parent) {
			break
		}
		t.heap[i], t.heap[parent] = t.heap[parent], t.heap[i]
		i = parent
	}
}

func (t *TopK[T]) bubbleDown(i int) {
	n := len(t.heap)
	for {
		worst := i
		left := 2*i + 1
		right := 2*i + 2

		if left < n && t.worse(left, worst) {
			worst = left
		}
		if right < n && t.worse(right, worst) {
			worst = right
		}
		if worst == i {
			return
		}
		t.heap[i], t.heap[worst] = t.heap[worst], t.heap[i]
		i = worst
	}
}
