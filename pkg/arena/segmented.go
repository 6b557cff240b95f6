// Package arena provides segmented, index-addressed storage for dense records.
//
// A [Segmented] array hands out stable pointers: storage grows by adding
// fixed-size segments rather than reallocating, so a *T obtained from
// [Segmented.At] or [Segmented.Allocate] stays valid for the lifetime of
// the array. [Segmented.Clear] resets the logical length without freeing
// segments, which lets a layout engine rebuild its per-pass buffers with
// no allocations after warm-up.
//
// # Concurrency
//
// The array is designed for a single writer. The length counter is
// atomic and segments are installed with compare-and-swap, so concurrent
// Allocate calls never hand out the same slot, but readers must not race
// with writers on slot contents.
package arena

import (
	"sync/atomic"

	"github.com/matzehuels/boxflow/pkg/errors"
)

const (
	// SegmentShift is log2 of SegmentSize.
	SegmentShift = 9

	// SegmentSize is the number of slots per segment.
	SegmentSize = 1 << SegmentShift

	segmentMask = SegmentSize - 1
)

type segment[T any] [SegmentSize]T

// Segmented is a growable array of T split into fixed-size segments.
type Segmented[T any] struct {
	segments []atomic.Pointer[segment[T]]
	count    atomic.Int32
	limit    int
}

// New creates an array holding at most capacity items. Storage is
// reserved in whole segments, but the limit is exact. No segment is
// allocated until it is first used.
func New[T any](capacity int) *Segmented[T] {
	if capacity < 1 {
		capacity = 1
	}
	n := (capacity + SegmentSize - 1) / SegmentSize
	return &Segmented[T]{
		segments: make([]atomic.Pointer[segment[T]], n),
		limit:    capacity,
	}
}

// Len returns the number of allocated slots.
func (a *Segmented[T]) Len() int {
	return int(a.count.Load())
}

// Cap returns the number of items the array can hold.
func (a *Segmented[T]) Cap() int {
	return a.limit
}

// Allocate reserves the next slot, zeroes it and returns its index and a
// pointer to it. It panics with CAPACITY_EXCEEDED when the array is full.
func (a *Segmented[T]) Allocate() (int, *T) {
	i := int(a.count.Add(1)) - 1
	if i >= a.Cap() {
		a.count.Add(-1)
		errors.Fatal(errors.ErrCodeCapacityExceeded, "arena capacity of %d items exhausted", a.Cap())
	}
	p := a.slot(i)
	var zero T
	*p = zero
	return i, p
}

// At returns a pointer to the item at index i.
// It panics with INDEX_OUT_OF_RANGE if i is not below Len.
func (a *Segmented[T]) At(i int) *T {
	if i < 0 || i >= a.Len() {
		errors.Fatal(errors.ErrCodeIndexOutOfRange, "index %d out of range [0, %d)", i, a.Len())
	}
	return a.slot(i)
}

// Unchecked returns a pointer to slot i validating only against capacity.
// Slots beyond Len keep whatever was written to them before the last Clear.
func (a *Segmented[T]) Unchecked(i int) *T {
	if i < 0 || i >= a.Cap() {
		errors.Fatal(errors.ErrCodeIndexOutOfRange, "index %d out of capacity %d", i, a.Cap())
	}
	return a.slot(i)
}

// Reserve makes sure the first n slots exist and that Len is at least n.
// Newly exposed slots are zeroed.
func (a *Segmented[T]) Reserve(n int) {
	if n > a.Cap() {
		errors.Fatal(errors.ErrCodeCapacityExceeded, "cannot reserve %d items, capacity is %d", n, a.Cap())
	}
	for {
		cur := int(a.count.Load())
		if cur >= n {
			return
		}
		if a.count.CompareAndSwap(int32(cur), int32(n)) {
			var zero T
			for i := cur; i < n; i++ {
				*a.slot(i) = zero
			}
			return
		}
	}
}

// Clear sets the logical length to zero. Segments are retained.
func (a *Segmented[T]) Clear() {
	a.count.Store(0)
}

// All calls fn for each allocated slot in index order until fn returns false.
func (a *Segmented[T]) All(fn func(i int, item *T) bool) {
	n := a.Len()
	for i := 0; i < n; i++ {
		if !fn(i, a.slot(i)) {
			return
		}
	}
}

func (a *Segmented[T]) slot(i int) *T {
	s := &a.segments[i>>SegmentShift]
	seg := s.Load()
	if seg == nil {
		fresh := new(segment[T])
		if s.CompareAndSwap(nil, fresh) {
			seg = fresh
		} else {
			seg = s.Load()
		}
	}
	return &seg[i&segmentMask]
}
