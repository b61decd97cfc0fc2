package fifo

import "sync/atomic"

// cursor is one half of the cursor pair: an unbounded counter with exactly
// one writer. It only ever grows by one per committed operation and wraps at
// 2^64, which is harmless because only differences are compared.
//
// Every access goes through a method naming the ordering the call site
// needs. sync/atomic is sequentially consistent, so each method gets at
// least that ordering; the names keep the protocol readable and stop a call
// site from reading the other side's cursor without synchronizing.
type cursor struct {
	v atomic.Uint64
}

// loadOwned reads the cursor from the goroutine that writes it. Relaxed
// ordering suffices: nothing else stores to it.
func (c *cursor) loadOwned() uint64 {
	return c.v.Load()
}

// loadAcquire reads the other side's cursor. Slot writes and clears the
// other side made before its storeRelease are visible once this returns.
func (c *cursor) loadAcquire() uint64 {
	return c.v.Load()
}

// storeRelease publishes v. Slot accesses before the store happen-before
// any loadAcquire that observes v.
func (c *cursor) storeRelease(v uint64) {
	c.v.Store(v)
}
