package fifo

// Pusher is the producer's handle on a reserved slot, returned by
// PushSlot. Write the value through Get or Set, then Commit to make it
// visible to the consumer, or Abandon to give the slot back.
//
// A Fifo owns exactly one Pusher. Do not keep it past Commit or Abandon
// and do not copy it.
type Pusher[T any] struct {
	q      *Fifo[T]
	cursor uint64
	slot   uint64
	armed  bool
	guard  roleGuard
}

func (p *Pusher[T]) arm(cursor, slot uint64) {
	p.q.ring.state.beginConstruct(slot)
	p.cursor = cursor
	p.slot = slot
	p.armed = true
}

// Active reports whether the handle holds a reserved slot. It is false
// when PushSlot found the queue full and after Commit or Abandon.
func (p *Pusher[T]) Active() bool {
	return p.armed
}

// Cursor returns the push cursor the handle is bound to, i.e. how many
// values were pushed before this one.
func (p *Pusher[T]) Cursor() uint64 {
	return p.cursor
}

// Get returns the reserved slot for in-place writes, or nil if the handle
// is inactive. The slot may hold bytes from an earlier value.
func (p *Pusher[T]) Get() *T {
	assert(p.armed, "Get on an inactive Pusher")
	if !p.armed {
		return nil
	}
	return p.q.ring.at(p.slot)
}

// Set copies v into the reserved slot, copying only the prefix selected by
// WithCopySize if one was configured.
func (p *Pusher[T]) Set(v T) {
	assert(p.armed, "Set on an inactive Pusher")
	p.q.ring.assign(p.slot, &v)
}

// Commit publishes the slot to the consumer and disarms the handle. It is
// a no-op on an inactive handle, so defer p.Commit() is safe.
func (p *Pusher[T]) Commit() {
	if !p.armed {
		return
	}
	p.armed = false
	p.q.ring.state.constructed(p.slot)
	p.q.push.storeRelease(p.cursor + 1)
	p.guard.exit()
}

// Abandon disarms the handle without publishing. The slot goes back to
// holding no value and the next PushSlot reserves it again.
func (p *Pusher[T]) Abandon() {
	if !p.armed {
		return
	}
	p.armed = false
	p.q.ring.destroy(p.slot)
	p.guard.exit()
}

// Popper is the consumer's handle on the oldest queued value, returned by
// PopSlot. Read or modify it through Get, then Commit to remove it, or
// Abandon to leave it queued.
//
// A Fifo owns exactly one Popper. Do not keep it past Commit or Abandon
// and do not copy it.
type Popper[T any] struct {
	q      *Fifo[T]
	cursor uint64
	slot   uint64
	armed  bool
	guard  roleGuard
}

func (c *Popper[T]) arm(cursor, slot uint64) {
	c.q.ring.state.beginRead(slot)
	c.cursor = cursor
	c.slot = slot
	c.armed = true
}

// Active reports whether the handle holds a value. It is false when
// PopSlot found the queue empty and after Commit or Abandon.
func (c *Popper[T]) Active() bool {
	return c.armed
}

// Cursor returns the pop cursor the handle is bound to, i.e. how many
// values were popped before this one.
func (c *Popper[T]) Cursor() uint64 {
	return c.cursor
}

// Get returns the value in place, or nil if the handle is inactive.
func (c *Popper[T]) Get() *T {
	assert(c.armed, "Get on an inactive Popper")
	if !c.armed {
		return nil
	}
	return c.q.ring.at(c.slot)
}

// Value returns a copy of the value.
func (c *Popper[T]) Value() T {
	assert(c.armed, "Value on an inactive Popper")
	return *c.q.ring.at(c.slot)
}

// Commit destroys the value, hands the slot back to the producer and
// disarms the handle. It is a no-op on an inactive handle.
func (c *Popper[T]) Commit() {
	if !c.armed {
		return
	}
	c.armed = false
	c.q.ring.destroy(c.slot)
	c.q.ring.state.destroyed(c.slot)
	c.q.pop.storeRelease(c.cursor + 1)
	c.guard.exit()
}

// Abandon disarms the handle and leaves the value queued; the next PopSlot
// returns it again, including any in-place changes.
func (c *Popper[T]) Abandon() {
	if !c.armed {
		return
	}
	c.armed = false
	c.guard.exit()
}
