package lockfree

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Queue is a concurrent, lock-free priority queue of (K, V) pairs.
// Highest key pops first. The zero value is not usable; construct with
// New or NewWithComparator.
type Queue[V any, K any] struct {
	greater  func(a, b K) bool
	headPtr  unsafe.Pointer // *node[V, K], fixed after construction
	tail     *node[V, K]    // fixed sentinel, never reclaimed
	freeList unsafe.Pointer // *node[V, K], LIFO head
	allocs   atomic.Int64   // fresh node allocations (getNewNode fallback path), for S6/S8 test instrumentation
	reclaims atomic.Int64   // nodes pushed to the free list, for S8 test instrumentation
}

// New builds a Queue for any key type with built-in ordering (numeric
// types, strings): the "fundamental type" branch of the original
// template. minKey and maxKey must be sentinel values strictly below and
// above every key ever inserted -- for the common numeric cases these
// are the type's own extrema, e.g. math.MinInt64/math.MaxInt64.
func New[V any, K constraints.Ordered](minKey, maxKey K) *Queue[V, K] {
	return NewWithComparator[V, K](greaterOrdered[K], minKey, maxKey)
}

// NewWithComparator builds a Queue for a key type that does not carry
// built-in ordering operators: the caller-supplied greater must be a
// strict total order, and minKey/maxKey must be the sentinel extrema the
// key type would supply via its own Min()/Max() (the original template's
// K::min()/K::max() branch). greater is never called with either
// sentinel on both sides at once in a way that would require them to
// compare against themselves; callers still must ensure minKey and
// maxKey are strict extrema or invariant 1 (sorted order) breaks.
func NewWithComparator[V any, K any](greater func(a, b K) bool, minKey, maxKey K) *Queue[V, K] {
	if greater == nil {
		panic("lockfree: greater must not be nil")
	}
	if greater(minKey, maxKey) || !greater(maxKey, minKey) {
		panic("lockfree: maxKey must compare strictly greater than minKey")
	}

	tail := &node[V, K]{key: minKey}
	tail.counter.Store(1)

	head := &node[V, K]{key: maxKey}
	head.counter.Store(1)
	head.storeNext(unsafe.Pointer(tail))

	q := &Queue[V, K]{greater: greater, tail: tail}
	atomic.StorePointer(&q.headPtr, unsafe.Pointer(head))
	return q
}

// Insert adds value under key. It never blocks on contention -- CAS
// losses are retried internally -- and only the free-list-empty
// allocation fallback can allocate.
func (q *Queue[V, K]) Insert(value V, key K) {
	q.insert(value, key)
}

// Pop removes and returns the highest-key entry, or reports false if
// the queue holds no live entries.
func (q *Queue[V, K]) Pop() (V, bool) {
	return q.pop(nil)
}

// PopAbove removes and returns the highest-key entry if its key is
// strictly greater than threshold, or reports false without dequeuing
// anything otherwise.
func (q *Queue[V, K]) PopAbove(threshold K) (V, bool) {
	return q.pop(&threshold)
}

// Reserve preallocates n nodes onto the free list so that up to n
// subsequent Insert calls are guaranteed not to allocate.
func (q *Queue[V, K]) Reserve(n int) {
	if n < 0 {
		panic("lockfree: Reserve requires a non-negative count")
	}
	q.reserve(n)
}

// Close drains any payloads still held by the queue, passing each to
// release (if non-nil), then severs the queue's internal pointers so
// its nodes become eligible for garbage collection.
//
// Close assumes the queue is quiescent: no concurrent Insert or Pop may
// be in flight while Close runs. This mirrors the source destructor's
// precondition -- it too assumes all producer/consumer threads have
// already stopped. Concurrent destruction is out of scope (spec §9).
func (q *Queue[V, K]) Close(release func(V)) {
	for {
		v, ok := q.pop(nil)
		if !ok {
			break
		}
		if release != nil {
			release(v)
		}
	}
	atomic.StorePointer(&q.headPtr, nil)
	atomic.StorePointer(&q.freeList, nil)
}

func (q *Queue[V, K]) String() string {
	return fmt.Sprintf("<Queue %p>", q)
}
