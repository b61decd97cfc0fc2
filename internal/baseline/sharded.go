package baseline

import (
	"fmt"

	ring "github.com/randomizedcoder/go-lock-free-ring"

	"github.com/randomizedcoder/spsc-fifo/fifo"
)

// Sharded adapts go-lock-free-ring's MPSC ShardedRing to fifo.Queue.
//
// With a single shard and a single producer it preserves FIFO order. Items
// travel as interface values, so every Push of a non-pointer T allocates.
type Sharded[T any] struct {
	r    *ring.ShardedRing
	size int
}

var _ fifo.Queue[int] = (*Sharded[int])(nil)

// NewSharded creates a single-shard ring with the given capacity.
func NewSharded[T any](size int) (*Sharded[T], error) {
	if size <= 0 {
		return nil, fmt.Errorf("baseline: sharded ring size %d", size)
	}
	r, err := ring.NewShardedRing(uint64(size), 1)
	if err != nil {
		return nil, fmt.Errorf("baseline: sharded ring: %w", err)
	}
	return &Sharded[T]{r: r, size: size}, nil
}

// Push adds an item to the queue.
// Returns false if the queue is full.
func (s *Sharded[T]) Push(v T) bool {
	return s.r.Write(0, v)
}

// Pop removes and returns an item from the queue.
// Returns false if the queue is empty.
func (s *Sharded[T]) Pop() (T, bool) {
	v, ok := s.r.TryRead()
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// Cap returns the capacity the ring was created with.
func (s *Sharded[T]) Cap() int {
	return s.size
}
