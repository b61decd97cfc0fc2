package fifo

import "errors"

var (
	// ErrCapacity is returned by New when the capacity is zero, negative or,
	// under Mask indexing, not a power of two.
	ErrCapacity = errors.New("fifo: invalid capacity")

	// ErrAllocation is returned by New when the Allocator cannot provide
	// the ring.
	ErrAllocation = errors.New("fifo: allocation failed")

	// ErrCopySize is returned by New when WithCopySize is used with an
	// element type that holds pointers.
	ErrCopySize = errors.New("fifo: partial copy requires a pointer-free element type")

	// ErrOption is returned by New when an option was built for a different
	// element type.
	ErrOption = errors.New("fifo: option does not match element type")
)
