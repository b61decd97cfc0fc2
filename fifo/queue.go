package fifo

// Queue is a non-blocking single-producer single-consumer queue.
//
// Push returns false if the queue is full, Pop returns false if it is
// empty. Fifo implements it; so do the comparison queues used in
// benchmarks.
type Queue[T any] interface {
	// Push adds an item to the queue.
	// Returns false if the queue is full.
	Push(T) bool

	// Pop removes and returns an item from the queue.
	// Returns false if the queue is empty.
	Pop() (T, bool)
}

var _ Queue[int] = (*Fifo[int])(nil)
