package lockfree

import (
	"sync/atomic"
	"unsafe"
)

// readNext returns a safe reference to n's successor, transparently
// walking past (and helping to unlink) any node whose link is marked.
func (q *Queue[V, K]) readNext(n *node[V, K]) *node[V, K] {
	next := q.safeRead(&n.next)
	for next == nil {
		n = q.helpDelete(n)
		next = q.safeRead(&n.next)
		q.release(n)
	}
	return next
}

// insert links a fresh node carrying (value, key) into the sorted list.
// Ties are broken by placing the new entry after existing entries with
// an equal key: the walk only stops once key is strictly greater than
// the candidate's key.
func (q *Queue[V, K]) insert(value V, key K) {
	newNode := q.getNewNode(value, key)
	for {
		prev := q.safeRead(&q.headPtr)
		cur := q.readNext(prev)
		for cur != q.tail && !q.greater(key, cur.key) {
			q.release(prev)
			prev = cur
			cur = q.readNext(prev)
		}
		newNode.storeNext(unsafe.Pointer(cur))
		inserted := atomic.CompareAndSwapPointer(&prev.next, unsafe.Pointer(cur), unsafe.Pointer(newNode))
		q.release(prev)
		q.release(cur)
		if inserted {
			return
		}
	}
}

// pop removes and returns the highest-key live entry. If threshold is
// non-nil, pop returns empty as soon as the highest-key candidate fails
// to exceed it, without dequeuing anything.
func (q *Queue[V, K]) pop(threshold *K) (V, bool) {
	for {
		head := q.safeRead(&q.headPtr)
		cur := q.readNext(head)
		q.release(head)

		if cur == q.tail {
			q.release(cur)
			var zero V
			return zero, false
		}
		if threshold != nil && !q.greater(cur.key, *threshold) {
			q.release(cur)
			var zero V
			return zero, false
		}

		v := unmark(cur.loadValue())
		if cur.casValue(v, mark(v)) {
			q.release(cur)
			return *(*V)(v), true
		}
		// Another popper already claimed this node; help finish
		// unlinking it and retry from head.
		pred := q.helpDelete(cur)
		q.release(pred)
		q.release(cur)
	}
}

// helpDelete makes physical-unlink progress on the condemned node n and
// returns a safely referenced node that preceded n's position in the
// list.
func (q *Queue[V, K]) helpDelete(n *node[V, K]) *node[V, K] {
	for {
		next := n.loadNext()
		if isMarked(next) {
			break
		}
		if n.casNext(next, mark(next)) {
			break
		}
	}
	succ := (*node[V, K])(unmark(n.loadNext()))
	if succ == nil {
		// Someone else already finished unlinking n.
		return q.safeRead(&q.headPtr)
	}

	var prev, tmp *node[V, K]
	assigned := false
	for {
		q.release(prev)
		q.release(tmp)
		prev = q.safeRead(&q.headPtr)
		tmp = q.readNext(prev)
		for tmp != n && tmp != q.tail && !q.greater(n.key, tmp.key) {
			q.release(prev)
			prev = tmp
			tmp = q.readNext(prev)
		}
		if tmp != n {
			break
		}
		if atomic.CompareAndSwapPointer(&prev.next, unsafe.Pointer(n), unsafe.Pointer(succ)) {
			assigned = true
			break
		}
	}
	// No extra reference to succ now that n no longer holds one.
	n.storeNext(mark(nil))
	if assigned {
		q.release(n) // prev's former reference to n
	}
	q.release(tmp)
	return prev
}
