package fifo

import "unsafe"

// ring is the backing store together with the slot lifecycle.
//
// Every cell always holds a valid T: the allocator hands out zeroed memory,
// which is the construct step a cell goes through before it is first read.
// Whether a cell holds a live value is decided by the cursors alone; the
// fifo_debug build also tracks it per cell in state.
type ring[T any] struct {
	cells    []T
	copySize CopySize[T]
	size     uintptr
	pointers bool // destroy must zero the cell so the GC can drop referents
	state    slotState
}

func newRing[T any](cells []T, copySize CopySize[T], pointers bool) ring[T] {
	var zero T
	r := ring[T]{
		cells:    cells,
		copySize: copySize,
		size:     unsafe.Sizeof(zero),
		pointers: pointers,
	}
	r.state.init(len(cells))
	return r
}

// at returns the cell at index i. Valid only while the caller owns the
// cell under the cursor protocol.
func (r *ring[T]) at(i uint64) *T {
	return &r.cells[i]
}

// assign copies *v into cell i, honouring copySize.
func (r *ring[T]) assign(i uint64, v *T) {
	cell := &r.cells[i]
	if r.copySize == nil {
		*cell = *v
		return
	}
	if n := r.copySize(v); n < r.size {
		copyPrefix(cell, v, n)
		return
	}
	*cell = *v
}

// destroy ends the lifetime of the value in cell i. Pointer-free values
// are left in place; their bytes are what partial copies build on.
func (r *ring[T]) destroy(i uint64) {
	if r.pointers {
		var zero T
		r.cells[i] = zero
	}
}
