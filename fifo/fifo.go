package fifo

import (
	"errors"
	"fmt"
	"reflect"

	"golang.org/x/sys/cpu"
)

// Fifo is a bounded lock-free single-producer single-consumer queue.
//
// WARNING: exactly one goroutine may push and exactly one goroutine may
// pop. A Fifo must not be copied; create it with New.
type Fifo[T any] struct {
	_ noCopy

	// Read-only after New.
	_        cpu.CacheLinePad
	ring     ring[T]
	index    indexer
	capacity uint64
	indexing Indexing
	alloc    Allocator[T]

	// Stored by the producer, loaded by the consumer.
	_    cpu.CacheLinePad
	push cursor

	// Producer private.
	_         cpu.CacheLinePad
	cachedPop uint64
	pusher    Pusher[T]

	// Stored by the consumer, loaded by the producer.
	_   cpu.CacheLinePad
	pop cursor

	// Consumer private.
	_          cpu.CacheLinePad
	cachedPush uint64
	popper     Popper[T]

	_ cpu.CacheLinePad
}

// New allocates a Fifo holding up to capacity values.
//
// It fails with ErrCapacity if capacity is not valid for the indexing
// policy and with ErrAllocation if the allocator cannot provide the ring.
func New[T any](capacity int, opts ...Option) (*Fifo[T], error) {
	o := options{indexing: Mask}
	for _, opt := range opts {
		opt(&o)
	}

	n, err := o.indexing.capacity(capacity, o.roundUp)
	if err != nil {
		return nil, err
	}

	var alloc Allocator[T] = HeapAllocator[T]{}
	if o.allocator != nil {
		a, ok := o.allocator.(Allocator[T])
		if !ok {
			return nil, fmt.Errorf("%w: allocator %T", ErrOption, o.allocator)
		}
		alloc = a
	}

	pointers := hasPointers(reflect.TypeFor[T]())
	var copySize CopySize[T]
	if o.copySize != nil {
		fn, ok := o.copySize.(CopySize[T])
		if !ok {
			return nil, fmt.Errorf("%w: copy size %T", ErrOption, o.copySize)
		}
		if pointers {
			return nil, fmt.Errorf("%w: %v", ErrCopySize, reflect.TypeFor[T]())
		}
		copySize = fn
	}

	cells, err := alloc.Allocate(int(n))
	if err != nil {
		if !errors.Is(err, ErrAllocation) {
			err = fmt.Errorf("%w: %w", ErrAllocation, err)
		}
		return nil, err
	}
	if uint64(len(cells)) != n {
		alloc.Deallocate(cells)
		return nil, fmt.Errorf("%w: allocator returned %d slots, want %d", ErrAllocation, len(cells), n)
	}

	q := &Fifo[T]{
		ring:     newRing(cells, copySize, pointers),
		index:    newIndexer(o.indexing, n),
		capacity: n,
		indexing: o.indexing,
		alloc:    alloc,
	}
	q.pusher.q = q
	q.popper.q = q

	debugLog("fifo: created", "capacity", n, "indexing", o.indexing, "partial", copySize != nil)
	return q, nil
}

// MustNew is like New but panics on error.
func MustNew[T any](capacity int, opts ...Option) *Fifo[T] {
	q, err := New[T](capacity, opts...)
	if err != nil {
		panic(err)
	}
	return q
}

// PushSlot reserves the slot at the push cursor and returns the producer's
// handle. The handle is inactive if the queue is full. Nothing is visible
// to the consumer until the handle is committed.
//
// SPSC CONTRACT: Only the producer goroutine may call PushSlot.
func (q *Fifo[T]) PushSlot() *Pusher[T] {
	p := &q.pusher
	p.guard.enter("producer")

	pushed := q.push.loadOwned()
	if pushed-q.cachedPop >= q.capacity {
		q.cachedPop = q.pop.loadAcquire()
		if pushed-q.cachedPop >= q.capacity {
			p.guard.exit()
			return p
		}
	}

	p.arm(pushed, q.index.slot(pushed))
	return p
}

// Push copies v into the queue.
// Returns false if the queue is full.
//
// SPSC CONTRACT: Only the producer goroutine may call Push.
func (q *Fifo[T]) Push(v T) bool {
	p := q.PushSlot()
	if !p.armed {
		return false
	}
	q.ring.assign(p.slot, &v)
	p.Commit()
	return true
}

// PopSlot returns the consumer's handle over the oldest value. The handle
// is inactive if the queue is empty. The value stays queued until the
// handle is committed.
//
// SPSC CONTRACT: Only the consumer goroutine may call PopSlot.
func (q *Fifo[T]) PopSlot() *Popper[T] {
	c := &q.popper
	c.guard.enter("consumer")

	popped := q.pop.loadOwned()
	if popped == q.cachedPush {
		q.cachedPush = q.push.loadAcquire()
		if popped == q.cachedPush {
			c.guard.exit()
			return c
		}
	}

	c.arm(popped, q.index.slot(popped))
	return c
}

// Pop removes and returns the oldest value.
// Returns false if the queue is empty.
//
// SPSC CONTRACT: Only the consumer goroutine may call Pop.
func (q *Fifo[T]) Pop() (T, bool) {
	var v T
	ok := q.PopInto(&v)
	return v, ok
}

// PopInto copies the oldest value into *dst and removes it.
// Returns false, leaving *dst untouched, if the queue is empty.
//
// SPSC CONTRACT: Only the consumer goroutine may call PopInto.
func (q *Fifo[T]) PopInto(dst *T) bool {
	c := q.PopSlot()
	if !c.armed {
		return false
	}
	*dst = *q.ring.at(c.slot)
	c.Commit()
	return true
}

// Len returns the number of queued values. It may be called from any
// goroutine; while both sides are running the result is a snapshot.
func (q *Fifo[T]) Len() int {
	// pop never passes push, so loading pop first keeps the difference
	// non-negative. The consumer may move between the loads, hence the clamp.
	popped := q.pop.loadAcquire()
	pushed := q.push.loadAcquire()
	n := pushed - popped
	if n > q.capacity {
		n = q.capacity
	}
	return int(n)
}

// Empty reports whether Len is zero.
func (q *Fifo[T]) Empty() bool {
	return q.Len() == 0
}

// Full reports whether Len equals Cap.
func (q *Fifo[T]) Full() bool {
	return q.Len() == q.Cap()
}

// Cap returns the number of values the queue can hold.
func (q *Fifo[T]) Cap() int {
	return int(q.capacity)
}

// Indexing returns the active cursor to slot mapping.
func (q *Fifo[T]) Indexing() Indexing {
	return q.indexing
}

// Close destroys the values still queued and returns the ring to the
// allocator. Both goroutines must have stopped using the queue. Close is
// idempotent; any other use after Close is a contract violation.
func (q *Fifo[T]) Close() {
	if q.ring.cells == nil {
		return
	}
	assert(!q.pusher.armed && !q.popper.armed, "Close with an armed handle")

	pushed := q.push.loadAcquire()
	popped := q.pop.loadOwned()
	for c := popped; c != pushed; c++ {
		i := q.index.slot(c)
		q.ring.destroy(i)
		q.ring.state.destroyed(i)
	}
	q.pop.storeRelease(pushed)

	q.alloc.Deallocate(q.ring.cells)
	q.ring.cells = nil
	debugLog("fifo: closed", "dropped", pushed-popped)
}

// noCopy lets go vet's copylocks check flag copies of a Fifo.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
