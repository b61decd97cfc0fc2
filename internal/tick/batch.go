package tick

import "time"

// Batch checks the time only every N calls to Tick().
//
// Example: With every=1<<16 and interval=1s, the clock is read once per
// 65536 calls, and a tick fires if a second has passed since the last one.
// Batch is meant to be polled by a single goroutine.
type Batch struct {
	interval time.Duration
	every    uint64
	count    uint64

	lastTick  time.Time
	lastCount uint64
	rate      float64
}

// NewBatch creates a Batch that checks the time every N operations.
//
// Parameters:
//   - interval: How often ticks should fire (wall clock time)
//   - every: Check the clock only every N calls to Tick()
func NewBatch(interval time.Duration, every int) *Batch {
	if every < 1 {
		every = 1
	}
	return &Batch{
		interval: interval,
		every:    uint64(every),
		lastTick: time.Now(),
	}
}

// Tick counts one operation and returns true if the interval has elapsed.
//
// The time is only checked every N calls (see 'every').
// On other calls, this returns false immediately without checking time.
func (b *Batch) Tick() bool {
	b.count++
	if b.count%b.every != 0 {
		return false
	}

	now := time.Now()
	elapsed := now.Sub(b.lastTick)
	if elapsed < b.interval {
		return false
	}
	b.rate = float64(b.count-b.lastCount) / elapsed.Seconds()
	b.lastTick = now
	b.lastCount = b.count
	return true
}

// Count returns the number of Tick calls since creation or Reset.
func (b *Batch) Count() uint64 {
	return b.count
}

// Rate returns operations per second over the interval ending at the last
// tick, or zero before the first tick.
func (b *Batch) Rate() float64 {
	return b.rate
}

// Reset resets the ticker state.
func (b *Batch) Reset() {
	b.count = 0
	b.lastCount = 0
	b.rate = 0
	b.lastTick = time.Now()
}

// Every returns the batch size.
func (b *Batch) Every() int {
	return int(b.every)
}

// Interval returns the ticker's interval.
func (b *Batch) Interval() time.Duration {
	return b.interval
}
