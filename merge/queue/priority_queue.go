// Package queue provides a generic priority queue for the k-way merge,
// wrapping the teacher module's own external-sort dependency,
// github.com/lanrat/extsort/queue, instead of reimplementing its
// container/heap machinery: the teacher already vendors and uses this
// exact kind of heap for sorting large object lists (storage/url/url.go).
package queue

import (
	extqueue "github.com/lanrat/extsort/queue"
)

// PriorityQueue orders values of type T by less, a strict less-than over
// the current head of each element (the merge's run heads, in practice).
// It is a thin generic facade over extqueue.PriorityQueue, which is
// keyed on interface{}; Push/Pop/Peek box and unbox T at the boundary.
type PriorityQueue[T any] struct {
	inner *extqueue.PriorityQueue
}

// New creates a PriorityQueue ordered by less.
func New[T any](less func(a, b T) bool) *PriorityQueue[T] {
	return &PriorityQueue[T]{
		inner: extqueue.NewPriorityQueue(func(a, b interface{}) bool {
			return less(a.(T), b.(T))
		}),
	}
}

// Len returns the number of items in the queue.
func (pq *PriorityQueue[T]) Len() int { return pq.inner.Len() }

// Push adds x to the queue.
func (pq *PriorityQueue[T]) Push(x T) { pq.inner.Push(x) }

// Pop removes and returns the minimum item.
func (pq *PriorityQueue[T]) Pop() T { return pq.inner.Pop().(T) }

// Peek returns the minimum item without removing it.
func (pq *PriorityQueue[T]) Peek() T { return pq.inner.Peek().(T) }

// PeekUpdate re-establishes heap order after the caller mutated the
// value returned by the last Peek in place (e.g. advanced a run head).
func (pq *PriorityQueue[T]) PeekUpdate() { pq.inner.PeekUpdate() }
