package pin

import "runtime"

// yieldEvery is how many Relax calls Spin makes between runtime.Gosched
// calls, so a spinning goroutine cannot starve its peer when both share a P.
const yieldEvery = 64

// Spin is a busy-wait helper for loops polling a non-blocking queue:
//
//	var s pin.Spin
//	for !q.Push(v) {
//		s.Once()
//	}
//	s.Reset()
//
// The zero value is ready to use.
type Spin struct {
	n     uint32
	spins uint64
}

// Once relaxes the CPU for one iteration and yields the processor every
// yieldEvery iterations.
func (s *Spin) Once() {
	s.n++
	s.spins++
	if s.n&(yieldEvery-1) == 0 {
		runtime.Gosched()
		return
	}
	Relax()
}

// Reset starts a new wait. The spin total is kept.
func (s *Spin) Reset() {
	s.n = 0
}

// Spins returns the number of Once calls since the Spin was created.
func (s *Spin) Spins() uint64 {
	return s.spins
}
