package fifo

import (
	"fmt"
	"math/bits"
)

// Indexing selects how an unbounded cursor is mapped onto a ring slot.
type Indexing uint8

const (
	// Mask maps a cursor with cursor & (capacity-1). Capacity must be a
	// power of two. This is the default.
	Mask Indexing = iota

	// Remainder maps a cursor with cursor % capacity and accepts any
	// positive capacity at the cost of a division per operation.
	Remainder
)

func (i Indexing) String() string {
	switch i {
	case Mask:
		return "mask"
	case Remainder:
		return "remainder"
	default:
		return fmt.Sprintf("Indexing(%d)", uint8(i))
	}
}

// capacity validates n for the policy. With roundUp, Mask rounds n up to the
// next power of two instead of rejecting it.
func (i Indexing) capacity(n int, roundUp bool) (uint64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrCapacity, n)
	}
	c := uint64(n)
	switch i {
	case Mask:
		if isPowerOfTwo(c) {
			return c, nil
		}
		if !roundUp {
			return 0, fmt.Errorf("%w: %d is not a power of two", ErrCapacity, n)
		}
		if c > 1<<62 {
			return 0, fmt.Errorf("%w: %d cannot be rounded up", ErrCapacity, n)
		}
		return nextPowerOfTwo(c), nil
	case Remainder:
		return c, nil
	default:
		return 0, fmt.Errorf("%w: unknown indexing %v", ErrCapacity, i)
	}
}

// indexer maps cursors to slots. It is read-only after New and shared by
// both goroutines.
type indexer struct {
	mask     uint64
	capacity uint64
	masked   bool
}

func newIndexer(policy Indexing, capacity uint64) indexer {
	return indexer{
		mask:     capacity - 1,
		capacity: capacity,
		masked:   policy == Mask,
	}
}

func (x indexer) slot(cursor uint64) uint64 {
	if x.masked {
		return cursor & x.mask
	}
	return cursor % x.capacity
}

func isPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

func nextPowerOfTwo(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len64(n-1)
}
