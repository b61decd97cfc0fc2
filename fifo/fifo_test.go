package fifo_test

import (
	"errors"
	"testing"

	"github.com/valyala/fastrand"

	"github.com/randomizedcoder/spsc-fifo/fifo"
)

func newFifo[T any](t *testing.T, capacity int, opts ...fifo.Option) *fifo.Fifo[T] {
	t.Helper()
	q, err := fifo.New[T](capacity, opts...)
	if err != nil {
		t.Fatalf("New(%d): %v", capacity, err)
	}
	t.Cleanup(q.Close)
	return q
}

// policies runs f once per indexing policy on a capacity-4 queue.
func policies(t *testing.T, f func(t *testing.T, q *fifo.Fifo[uint32])) {
	for _, p := range []fifo.Indexing{fifo.Mask, fifo.Remainder} {
		t.Run(p.String(), func(t *testing.T) {
			f(t, newFifo[uint32](t, 4, fifo.WithIndexing(p)))
		})
	}
}

func TestFifo_InitialConditions(t *testing.T) {
	policies(t, func(t *testing.T, q *fifo.Fifo[uint32]) {
		if q.Cap() != 4 {
			t.Errorf("expected Cap() = 4, got %d", q.Cap())
		}
		if q.Len() != 0 {
			t.Errorf("expected Len() = 0, got %d", q.Len())
		}
		if !q.Empty() {
			t.Error("expected Empty() = true")
		}
		if q.Full() {
			t.Error("expected Full() = false")
		}
	})
}

func TestFifo_Push(t *testing.T) {
	policies(t, func(t *testing.T, q *fifo.Fifo[uint32]) {
		for i := 1; i <= 4; i++ {
			if !q.Push(42) {
				t.Fatalf("expected Push() = true for item %d", i)
			}
			if q.Len() != i {
				t.Errorf("expected Len() = %d, got %d", i, q.Len())
			}
			if q.Empty() {
				t.Error("expected Empty() = false")
			}
			if q.Full() != (i == 4) {
				t.Errorf("expected Full() = %v after %d pushes", i == 4, i)
			}
		}

		if q.Push(42) {
			t.Error("expected Push() = false on full queue")
		}
		if q.Len() != 4 || !q.Full() {
			t.Errorf("failed Push changed state: Len() = %d", q.Len())
		}
	})
}

func TestFifo_Pop(t *testing.T) {
	policies(t, func(t *testing.T, q *fifo.Fifo[uint32]) {
		if _, ok := q.Pop(); ok {
			t.Fatal("expected Pop() = false on empty queue")
		}

		for i := uint32(0); i < 4; i++ {
			q.Push(42 + i)
		}

		for i := uint32(0); i < 4; i++ {
			if q.Len() != int(4-i) {
				t.Errorf("expected Len() = %d, got %d", 4-i, q.Len())
			}
			got, ok := q.Pop()
			if !ok {
				t.Fatalf("expected Pop() = true for item %d", i)
			}
			if got != 42+i {
				t.Errorf("FIFO violation: expected %d, got %d", 42+i, got)
			}
		}

		if q.Len() != 0 || !q.Empty() {
			t.Errorf("expected empty queue, Len() = %d", q.Len())
		}
		if _, ok := q.Pop(); ok {
			t.Error("expected Pop() = false after draining")
		}
	})
}

func TestFifo_PopFull(t *testing.T) {
	policies(t, func(t *testing.T, q *fifo.Fifo[uint32]) {
		for i := uint32(0); i < 4; i++ {
			q.Push(42 + i)
		}
		if !q.Full() {
			t.Fatal("expected Full() = true")
		}

		for i := uint32(0); i < 16; i++ {
			got, ok := q.Pop()
			if !ok || got != 42+i {
				t.Fatalf("Pop() = %d, %v; want %d, true", got, ok, 42+i)
			}
			if q.Full() {
				t.Fatal("expected Full() = false after Pop")
			}
			if !q.Push(42 + 4 + i) {
				t.Fatalf("expected Push(%d) = true", 42+4+i)
			}
			if !q.Full() {
				t.Fatal("expected Full() = true after refill")
			}
		}
	})
}

func TestFifo_PopEmpty(t *testing.T) {
	policies(t, func(t *testing.T, q *fifo.Fifo[uint32]) {
		var dst uint32 = 7
		if q.PopInto(&dst) {
			t.Fatal("expected PopInto() = false on empty queue")
		}
		if dst != 7 {
			t.Errorf("failed PopInto wrote %d", dst)
		}

		for i := uint32(0); i < 16; i++ {
			if !q.Empty() {
				t.Fatal("expected Empty() = true")
			}
			if !q.Push(42 + i) {
				t.Fatalf("expected Push(%d) = true", 42+i)
			}
			if !q.PopInto(&dst) || dst != 42+i {
				t.Fatalf("PopInto() = %d; want %d", dst, 42+i)
			}
		}

		if _, ok := q.Pop(); ok {
			t.Error("expected Pop() = false after draining")
		}
	})
}

func TestFifo_Wrap(t *testing.T) {
	policies(t, func(t *testing.T, q *fifo.Fifo[uint32]) {
		// more than 2x capacity, one at a time
		for i := uint32(0); i < 4*2+1; i++ {
			q.Push(42 + i)
			got, ok := q.Pop()
			if !ok || got != 42+i {
				t.Fatalf("Pop() = %d, %v; want %d", got, ok, 42+i)
			}
		}

		// then with two in flight
		q.Push(0)
		for i := uint32(1); i < 64; i++ {
			q.Push(i)
			got, _ := q.Pop()
			if got != i-1 {
				t.Fatalf("FIFO violation: expected %d, got %d", i-1, got)
			}
			if q.Len() != 1 {
				t.Fatalf("expected Len() = 1, got %d", q.Len())
			}
		}
	})
}

// Example scenario: capacity 4, push 42..45, fifth push fails, drain in order.
func TestFifo_CapacityFour(t *testing.T) {
	q := newFifo[int](t, 4)

	for _, v := range []int{42, 43, 44, 45} {
		if !q.Push(v) {
			t.Fatalf("expected Push(%d) = true", v)
		}
	}
	if !q.Full() {
		t.Error("expected Full() = true")
	}
	if q.Push(46) {
		t.Error("expected fifth Push() = false")
	}

	for _, want := range []int{42, 43, 44, 45} {
		got, ok := q.Pop()
		if !ok || got != want {
			t.Fatalf("Pop() = %d, %v; want %d", got, ok, want)
		}
	}
	if !q.Empty() {
		t.Error("expected Empty() = true")
	}
}

// TestFifo_RandomInterleaving checks the FIFO and size laws against a
// slice model over random push/pop sequences.
func TestFifo_RandomInterleaving(t *testing.T) {
	for _, tc := range []struct {
		name     string
		capacity int
		opts     []fifo.Option
	}{
		{"mask-1", 1, nil},
		{"mask-8", 8, nil},
		{"remainder-5", 5, []fifo.Option{fifo.WithIndexing(fifo.Remainder)}},
		{"remainder-13", 13, []fifo.Option{fifo.WithIndexing(fifo.Remainder)}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			q := newFifo[uint64](t, tc.capacity, tc.opts...)
			var model []uint64
			var next uint64

			for step := 0; step < 100_000; step++ {
				if fastrand.Uint32n(2) == 0 {
					ok := q.Push(next)
					if ok != (len(model) < tc.capacity) {
						t.Fatalf("step %d: Push() = %v with %d queued", step, ok, len(model))
					}
					if ok {
						model = append(model, next)
						next++
					}
				} else {
					got, ok := q.Pop()
					if ok != (len(model) > 0) {
						t.Fatalf("step %d: Pop() = %v with %d queued", step, ok, len(model))
					}
					if ok {
						if got != model[0] {
							t.Fatalf("step %d: FIFO violation: expected %d, got %d", step, model[0], got)
						}
						model = model[1:]
					}
				}
				if q.Len() != len(model) {
					t.Fatalf("step %d: expected Len() = %d, got %d", step, len(model), q.Len())
				}
			}
		})
	}
}

func TestFifo_StringValues(t *testing.T) {
	q := newFifo[string](t, 2)
	q.Push("alpha")
	q.Push("beta")
	for _, want := range []string{"alpha", "beta"} {
		if got, ok := q.Pop(); !ok || got != want {
			t.Errorf("Pop() = %q, %v; want %q", got, ok, want)
		}
	}
}

func TestNew_Capacity(t *testing.T) {
	bad := []struct {
		capacity int
		opts     []fifo.Option
	}{
		{0, nil},
		{-1, nil},
		{3, nil},
		{1000, nil},
		{0, []fifo.Option{fifo.WithIndexing(fifo.Remainder)}},
		{-8, []fifo.Option{fifo.WithIndexing(fifo.Remainder)}},
		{8, []fifo.Option{fifo.WithIndexing(fifo.Indexing(9))}},
	}
	for _, tc := range bad {
		if _, err := fifo.New[int](tc.capacity, tc.opts...); !errors.Is(err, fifo.ErrCapacity) {
			t.Errorf("New(%d): expected ErrCapacity, got %v", tc.capacity, err)
		}
	}

	if _, err := fifo.New[int](5, fifo.WithIndexing(fifo.Remainder)); err != nil {
		t.Errorf("New(5, Remainder): %v", err)
	}
}

func TestNew_RoundUp(t *testing.T) {
	for _, tc := range []struct{ in, want int }{{1, 1}, {5, 8}, {8, 8}, {1000, 1024}} {
		q := newFifo[int](t, tc.in, fifo.WithRoundUp())
		if q.Cap() != tc.want {
			t.Errorf("New(%d, WithRoundUp): expected Cap() = %d, got %d", tc.in, tc.want, q.Cap())
		}
		if q.Indexing() != fifo.Mask {
			t.Errorf("expected Mask indexing, got %v", q.Indexing())
		}
	}

	q := newFifo[int](t, 5, fifo.WithRoundUp(), fifo.WithIndexing(fifo.Remainder))
	if q.Cap() != 5 {
		t.Errorf("Remainder ignores WithRoundUp: expected Cap() = 5, got %d", q.Cap())
	}
}

func TestNew_OptionTypeMismatch(t *testing.T) {
	_, err := fifo.New[int](4, fifo.WithAllocator[string](fifo.HeapAllocator[string]{}))
	if !errors.Is(err, fifo.ErrOption) {
		t.Errorf("allocator mismatch: expected ErrOption, got %v", err)
	}

	_, err = fifo.New[int](4, fifo.WithCopySize(func(*int64) uintptr { return 4 }))
	if !errors.Is(err, fifo.ErrOption) {
		t.Errorf("copy size mismatch: expected ErrOption, got %v", err)
	}
}

func TestNew_CopySizeNeedsPointerFreeType(t *testing.T) {
	type withPointer struct {
		n    int
		name string
	}
	_, err := fifo.New[withPointer](4, fifo.WithCopySize(func(*withPointer) uintptr { return 8 }))
	if !errors.Is(err, fifo.ErrCopySize) {
		t.Errorf("expected ErrCopySize, got %v", err)
	}
}

func TestFifo_Close(t *testing.T) {
	alloc := fifo.NewRecyclingAllocator[*int](1)
	q, err := fifo.New[*int](4, fifo.WithAllocator[*int](alloc))
	if err != nil {
		t.Fatal(err)
	}

	a, b := 1, 2
	q.Push(&a)
	q.Push(&b)
	q.Close()
	q.Close()

	if alloc.Retained(4) != 1 {
		t.Fatalf("expected the ring to be returned, Retained(4) = %d", alloc.Retained(4))
	}
	if q.Len() != 0 {
		t.Errorf("expected Len() = 0 after Close, got %d", q.Len())
	}

	// the recycled ring comes back cleared
	q2, err := fifo.New[*int](4, fifo.WithAllocator[*int](alloc))
	if err != nil {
		t.Fatal(err)
	}
	defer q2.Close()
	if alloc.Retained(4) != 0 {
		t.Errorf("expected the ring to be reused, Retained(4) = %d", alloc.Retained(4))
	}
	if !q2.Push(nil) {
		t.Fatal("expected Push() = true")
	}
	if got, _ := q2.Pop(); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
