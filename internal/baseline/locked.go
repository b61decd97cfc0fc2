package baseline

import (
	"sync"

	"github.com/randomizedcoder/spsc-fifo/fifo"
)

// Locked is a ring buffer behind a mutex. It accepts any capacity and
// maps cursors with a remainder. Safe for any number of goroutines.
type Locked[T any] struct {
	mu   sync.Mutex
	buf  []T
	head uint64
	tail uint64
}

var _ fifo.Queue[int] = (*Locked[int])(nil)

// NewLocked creates a Locked ring holding up to size items.
// Panics if size is not positive.
func NewLocked[T any](size int) *Locked[T] {
	if size <= 0 {
		panic("baseline: Locked size must be positive")
	}
	return &Locked[T]{buf: make([]T, size)}
}

// Push adds an item to the queue.
// Returns false if the queue is full.
func (q *Locked[T]) Push(v T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head-q.tail == uint64(len(q.buf)) {
		return false
	}
	q.buf[q.head%uint64(len(q.buf))] = v
	q.head++
	return true
}

// Pop removes and returns an item from the queue.
// Returns false if the queue is empty.
func (q *Locked[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if q.head == q.tail {
		return zero, false
	}
	i := q.tail % uint64(len(q.buf))
	v := q.buf[i]
	q.buf[i] = zero
	q.tail++
	return v, true
}

// Len returns the current number of items in the queue.
func (q *Locked[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int(q.head - q.tail)
}

// Cap returns the capacity of the queue.
func (q *Locked[T]) Cap() int {
	return len(q.buf)
}
