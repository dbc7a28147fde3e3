package utils

import (
	"iter"

	"github.com/oomph-ac/traverse/oerror"
)

// CircularQueue is a fixed capacity FIFO queue. Appending to a full queue drops the oldest item.
type CircularQueue[T any] struct {
	items []T
	head  int
	tail  int
	size  int
}

// NewCircularQueue returns an empty queue holding at most capacity items.
func NewCircularQueue[T any](capacity int) *CircularQueue[T] {
	return &CircularQueue[T]{items: make([]T, capacity)}
}

// Iter yields the items from oldest to newest without removing them.
func (q *CircularQueue[T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		for index := range q.size {
			if !yield(q.items[(q.head+index)%len(q.items)]) {
				return
			}
		}
	}
}

// Len returns the amount of items queued.
func (q *CircularQueue[T]) Len() int {
	return q.size
}

// Cap returns the maximum amount of items the queue holds.
func (q *CircularQueue[T]) Cap() int {
	return len(q.items)
}

// Pop removes and returns the oldest item. ok is false if the queue is empty.
func (q *CircularQueue[T]) Pop() (item T, ok bool) {
	if q.size == 0 {
		return item, false
	}
	var zero T
	item = q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) % len(q.items)
	q.size--
	return item, true
}

// Append queues an item. dropped is true if the queue was full and its oldest item was dropped
// to make room.
func (q *CircularQueue[T]) Append(item T) (dropped bool, err error) {
	if len(q.items) == 0 {
		return false, oerror.New("circular queue: append on zero-capacity queue")
	}
	q.items[q.tail] = item
	if q.size == len(q.items) {
		q.head = (q.head + 1) % len(q.items)
		dropped = true
	} else {
		q.size++
	}
	q.tail = (q.tail + 1) % len(q.items)
	return dropped, nil
}
