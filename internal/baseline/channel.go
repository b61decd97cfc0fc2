package baseline

import "github.com/randomizedcoder/spsc-fifo/fifo"

// Channel wraps a buffered channel as a fifo.Queue.
//
// Each Push/Pop performs a non-blocking channel operation via select with
// default.
type Channel[T any] struct {
	ch chan T
}

var _ fifo.Queue[int] = (*Channel[int])(nil)

// NewChannel creates a Channel with the given buffer size.
func NewChannel[T any](size int) *Channel[T] {
	return &Channel[T]{
		ch: make(chan T, size),
	}
}

// Push adds an item to the queue.
// Returns false if the queue is full (non-blocking).
func (q *Channel[T]) Push(v T) bool {
	select {
	case q.ch <- v:
		return true
	default:
		return false
	}
}

// Pop removes and returns an item from the queue.
// Returns false if the queue is empty (non-blocking).
func (q *Channel[T]) Pop() (T, bool) {
	select {
	case v := <-q.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Len returns the current number of items in the queue.
func (q *Channel[T]) Len() int {
	return len(q.ch)
}

// Cap returns the capacity of the queue.
func (q *Channel[T]) Cap() int {
	return cap(q.ch)
}
