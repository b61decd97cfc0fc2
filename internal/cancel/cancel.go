// Package cancel provides the stop signal polled by benchmark loops.
//
// A context.Context is the public cancellation API of the harness, but
// selecting on ctx.Done() in a loop that runs millions of times per second
// costs more than the queue operation being measured. Flag mirrors a
// context into a single atomic load.
package cancel

import (
	"context"
	"sync/atomic"
)

// Flag is a one-way stop signal safe for concurrent use.
type Flag struct {
	done atomic.Bool
}

// New creates a Flag that is not yet cancelled.
func New() *Flag {
	return &Flag{}
}

// Done returns true if cancellation has been triggered.
//
// This performs a single atomic load operation.
func (f *Flag) Done() bool {
	return f.done.Load()
}

// Cancel triggers cancellation.
//
// Safe to call multiple times; subsequent calls are no-ops.
func (f *Flag) Cancel() {
	f.done.Store(true)
}

// Reset clears the cancellation flag.
// Not safe to call concurrently with Done or Cancel.
func (f *Flag) Reset() {
	f.done.Store(false)
}

// Watch cancels f when ctx is done. The returned stop function detaches
// f from ctx and reports whether it did so before ctx fired.
func Watch(ctx context.Context, f *Flag) (stop func() bool) {
	return context.AfterFunc(ctx, f.Cancel)
}

// FromContext returns a new Flag bound to ctx with Watch.
func FromContext(ctx context.Context) (*Flag, func() bool) {
	f := New()
	return f, Watch(ctx, f)
}
