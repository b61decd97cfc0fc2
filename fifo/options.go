package fifo

// Option configures New.
type Option func(*options)

type options struct {
	indexing  Indexing
	roundUp   bool
	allocator any // Allocator[T], checked in New
	copySize  any // CopySize[T], checked in New
}

// WithIndexing selects the cursor to slot mapping. The default is Mask.
func WithIndexing(policy Indexing) Option {
	return func(o *options) { o.indexing = policy }
}

// WithRoundUp makes Mask indexing round a capacity up to the next power of
// two instead of rejecting it. It has no effect with Remainder.
func WithRoundUp() Option {
	return func(o *options) { o.roundUp = true }
}

// WithAllocator sets the ring allocator. The default is HeapAllocator.
func WithAllocator[T any](a Allocator[T]) Option {
	return func(o *options) { o.allocator = a }
}

// WithCopySize sets how many bytes Push and Pusher.Set copy into a slot.
// T must be pointer-free.
func WithCopySize[T any](fn func(v *T) uintptr) Option {
	return func(o *options) { o.copySize = CopySize[T](fn) }
}
