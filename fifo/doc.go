// Package fifo provides a bounded, lock-free single-producer single-consumer
// queue.
//
// A Fifo hands values of one type from exactly one producer goroutine to
// exactly one consumer goroutine over a ring that is allocated once in New.
// Push and Pop never block: a full Push or an empty Pop returns false and
// leaves the queue unchanged. Callers that need to wait busy-poll or apply
// their own backoff.
//
// # Cursors
//
// The queue is driven by two unbounded counters. The push cursor is written
// only by the producer, the pop cursor only by the consumer, and their
// difference is the number of queued values. Each side keeps a private copy
// of the other side's cursor and reloads it only when that copy says the
// ring is full (producer) or empty (consumer), so in steady state the
// producer and consumer touch each other's cache lines about once per batch
// instead of once per operation.
//
// # Slot handles
//
// PushSlot and PopSlot return handles that expose the ring slot directly.
// The producer can write only the fields that changed and the consumer can
// read in place; the cursor moves when the handle is committed:
//
//	p := q.PushSlot()
//	if p.Active() {
//		p.Get().Seq = seq
//		p.Commit()
//	}
//
//	c := q.PopSlot()
//	if c.Active() {
//		handle(c.Get())
//		c.Commit()
//	}
//
// There is one handle per role, owned by the queue. Abandon disarms a
// handle without moving the cursor.
//
// # SPSC contract
//
// Exactly ONE goroutine may call PushSlot/Push and exactly ONE goroutine may
// call PopSlot/Pop/PopInto. Len, Empty and Full may be called from anywhere.
// Building with -tags fifo_debug adds guards that panic on concurrent use of
// a role, on double-arming a handle and on slot lifecycle violations.
package fifo
