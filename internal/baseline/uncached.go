package baseline

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/randomizedcoder/spsc-fifo/fifo"
)

// Uncached is an SPSC ring that loads the other side's cursor on every
// operation. It is fifo.Fifo without the cursor cache, which makes the
// producer and consumer share a cache line per item instead of per batch.
//
// WARNING: This queue is NOT safe for multiple producers or multiple consumers.
// Runtime guards panic if the SPSC contract is violated.
type Uncached[T any] struct {
	buf  []T
	mask uint64

	_    cpu.CacheLinePad
	head atomic.Uint64 // Written by producer, read by consumer

	_    cpu.CacheLinePad
	tail atomic.Uint64 // Written by consumer, read by producer

	_ cpu.CacheLinePad

	// SPSC guards: detect concurrent misuse
	pushActive atomic.Uint32
	popActive  atomic.Uint32
}

var _ fifo.Queue[int] = (*Uncached[int])(nil)

// NewUncached creates an Uncached ring with the given size.
// Size will be rounded up to the next power of 2.
func NewUncached[T any](size int) *Uncached[T] {
	n := uint64(1)
	for n < uint64(size) {
		n <<= 1
	}

	return &Uncached[T]{
		buf:  make([]T, n),
		mask: n - 1,
	}
}

// Push adds an item to the queue.
// Returns false if the queue is full.
//
// SPSC CONTRACT: Only ONE goroutine may call Push().
func (r *Uncached[T]) Push(v T) bool {
	if !r.pushActive.CompareAndSwap(0, 1) {
		panic("baseline: concurrent Push on SPSC Uncached - only one producer allowed")
	}
	defer r.pushActive.Store(0)

	head := r.head.Load()
	tail := r.tail.Load()

	if head-tail >= uint64(len(r.buf)) {
		return false
	}

	r.buf[head&r.mask] = v
	r.head.Store(head + 1)

	return true
}

// Pop removes and returns an item from the queue.
// Returns false if the queue is empty.
//
// SPSC CONTRACT: Only ONE goroutine may call Pop().
func (r *Uncached[T]) Pop() (T, bool) {
	if !r.popActive.CompareAndSwap(0, 1) {
		panic("baseline: concurrent Pop on SPSC Uncached - only one consumer allowed")
	}
	defer r.popActive.Store(0)

	tail := r.tail.Load()
	head := r.head.Load()

	var zero T
	if tail == head {
		return zero, false
	}

	i := tail & r.mask
	v := r.buf[i]
	r.buf[i] = zero
	r.tail.Store(tail + 1)

	return v, true
}

// Len returns the current number of items in the queue.
// This is an approximation and may be slightly stale.
func (r *Uncached[T]) Len() int {
	tail := r.tail.Load()
	head := r.head.Load()
	return int(head - tail)
}

// Cap returns the capacity of the queue.
func (r *Uncached[T]) Cap() int {
	return len(r.buf)
}
