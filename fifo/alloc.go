package fifo

import (
	"fmt"
	"sync"
	"unsafe"
)

// Allocator supplies the ring storage of a Fifo. Allocate is called once by
// New and Deallocate once by Close; neither is on the hot path.
//
// Allocate must return exactly n elements or an error. Errors that do not
// already wrap ErrAllocation are wrapped by New.
type Allocator[T any] interface {
	Allocate(n int) ([]T, error)
	Deallocate(ring []T)
}

// maxRingBytes bounds a single ring so that absurd capacities fail with
// ErrAllocation instead of a runtime panic inside make.
const maxRingBytes = 1 << 40

func ringBytes[T any](n int) (uintptr, error) {
	var zero T
	size := unsafe.Sizeof(zero)
	if n <= 0 {
		return 0, fmt.Errorf("%w: %d slots", ErrAllocation, n)
	}
	if size != 0 && uint64(n) > maxRingBytes/uint64(size) {
		return 0, fmt.Errorf("%w: %d slots of %d bytes", ErrAllocation, n, size)
	}
	return uintptr(n) * size, nil
}

// HeapAllocator allocates rings on the Go heap. It is the default.
type HeapAllocator[T any] struct{}

// Allocate returns a zeroed ring of n elements.
func (HeapAllocator[T]) Allocate(n int) ([]T, error) {
	if _, err := ringBytes[T](n); err != nil {
		return nil, err
	}
	return make([]T, n), nil
}

// Deallocate leaves the ring to the garbage collector.
func (HeapAllocator[T]) Deallocate([]T) {}

// BudgetAllocator hands out heap rings until a byte budget is exhausted.
// Deallocated rings give their bytes back. It is safe for concurrent use.
type BudgetAllocator[T any] struct {
	mu    sync.Mutex
	limit uintptr
	used  uintptr
}

// NewBudgetAllocator returns an allocator that never has more than limit
// bytes of rings outstanding.
func NewBudgetAllocator[T any](limit uintptr) *BudgetAllocator[T] {
	return &BudgetAllocator[T]{limit: limit}
}

// Allocate returns a ring of n elements or an error wrapping ErrAllocation
// when the budget cannot cover it.
func (b *BudgetAllocator[T]) Allocate(n int) ([]T, error) {
	bytes, err := ringBytes[T](n)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if bytes > b.limit-b.used {
		return nil, fmt.Errorf("%w: %d bytes requested, %d of %d left",
			ErrAllocation, bytes, b.limit-b.used, b.limit)
	}
	b.used += bytes
	return make([]T, n), nil
}

// Deallocate returns the ring's bytes to the budget.
func (b *BudgetAllocator[T]) Deallocate(ring []T) {
	var zero T
	bytes := uintptr(len(ring)) * unsafe.Sizeof(zero)

	b.mu.Lock()
	defer b.mu.Unlock()
	if bytes > b.used {
		bytes = b.used
	}
	b.used -= bytes
}

// Used reports the bytes currently handed out.
func (b *BudgetAllocator[T]) Used() uintptr {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}

// RecyclingAllocator keeps rings released by Close and hands them to the
// next Allocate of the same length. At most keep rings are retained per
// length. It is safe for concurrent use.
type RecyclingAllocator[T any] struct {
	mu   sync.Mutex
	keep int
	free map[int][][]T
}

// NewRecyclingAllocator returns an allocator retaining up to keep released
// rings per length.
func NewRecyclingAllocator[T any](keep int) *RecyclingAllocator[T] {
	if keep < 1 {
		keep = 1
	}
	return &RecyclingAllocator[T]{
		keep: keep,
		free: make(map[int][][]T),
	}
}

// Allocate reuses a released ring of length n when one is available.
func (r *RecyclingAllocator[T]) Allocate(n int) ([]T, error) {
	if _, err := ringBytes[T](n); err != nil {
		return nil, err
	}

	r.mu.Lock()
	if rings := r.free[n]; len(rings) > 0 {
		ring := rings[len(rings)-1]
		rings[len(rings)-1] = nil
		r.free[n] = rings[:len(rings)-1]
		r.mu.Unlock()
		return ring, nil
	}
	r.mu.Unlock()
	return make([]T, n), nil
}

// Deallocate zeroes the ring and keeps it for reuse.
func (r *RecyclingAllocator[T]) Deallocate(ring []T) {
	if len(ring) == 0 {
		return
	}
	clear(ring)

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.free[len(ring)]) < r.keep {
		r.free[len(ring)] = append(r.free[len(ring)], ring)
	}
}

// Retained reports how many rings of length n are waiting for reuse.
func (r *RecyclingAllocator[T]) Retained(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.free[n])
}
