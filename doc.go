// Package lockfree implements a concurrent, lock-free priority queue: a
// linearizable sorted container of (key, value) pairs that supports
// concurrent Insert and Pop from any number of goroutines without
// mutual-exclusion locks.
//
// The queue is a singly-linked list sorted in decreasing key order,
// bounded by fixed head (+inf key) and tail (-inf key) sentinels. Logical
// deletion is done by stealing the low bit of a node's next pointer
// ("link mark") and of its value pointer ("value mark"); physical unlink
// is performed cooperatively by any goroutine that encounters a marked
// node (help_delete), and safe reclamation of unlinked nodes uses
// reference counting rather than a global lock. This is a Go realization
// of the Michael-Scott / Sundell-Tsigas lock-free priority queue.
//
// The queue does not block on any mutex, channel, or I/O. The only
// operation that can block is a fresh node allocation when the free list
// is empty; callers that need strictly non-blocking behavior should
// pre-size the free list with Reserve.
package lockfree
