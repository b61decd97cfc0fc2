package pin_test

import (
	"errors"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/randomizedcoder/spsc-fifo/internal/pin"
)

func TestThread_Any(t *testing.T) {
	done := make(chan error)
	go func() {
		defer runtime.UnlockOSThread()
		done <- pin.Thread(pin.Any)
	}()
	if err := <-done; err != nil {
		t.Errorf("Thread(Any): %v", err)
	}
}

func TestThread_CPU0(t *testing.T) {
	done := make(chan error)
	var got atomic.Int64
	go func() {
		// exits locked, taking the pinned thread with it
		err := pin.Thread(0)
		if err == nil {
			cpu, _ := pin.CPU()
			got.Store(int64(cpu))
		}
		done <- err
	}()

	err := <-done
	if errors.Is(err, pin.ErrUnsupported) {
		t.Skip("cpu affinity not supported")
	}
	if err != nil {
		// containers may restrict the allowed CPU set
		t.Skipf("Thread(0): %v", err)
	}
	if got.Load() != 0 {
		t.Errorf("expected thread on cpu 0, got %d", got.Load())
	}
}

func TestThread_Invalid(t *testing.T) {
	done := make(chan error)
	go func() {
		done <- pin.Thread(-5)
	}()
	if err := <-done; err == nil {
		t.Error("expected error for cpu -5")
	}
}

func TestSpin(t *testing.T) {
	var s pin.Spin
	for i := 0; i < 200; i++ {
		s.Once()
	}
	s.Reset()
	s.Once()
	if s.Spins() != 201 {
		t.Errorf("expected Spins() = 201, got %d", s.Spins())
	}
}

// TestSpin_SharedProcessor checks that two spinning goroutines on one P
// both make progress.
func TestSpin_SharedProcessor(t *testing.T) {
	defer runtime.GOMAXPROCS(runtime.GOMAXPROCS(1))

	var flag atomic.Bool
	done := make(chan struct{})
	go func() {
		var s pin.Spin
		for !flag.Load() {
			s.Once()
		}
		close(done)
	}()

	var s pin.Spin
	for i := 0; i < 1000; i++ {
		s.Once()
	}
	flag.Store(true)
	<-done
}

var sinkSpins uint64

func BenchmarkRelax(b *testing.B) {
	for i := 0; i < b.N; i++ {
		pin.Relax()
	}
}

func BenchmarkSpin_Once(b *testing.B) {
	var s pin.Spin
	for i := 0; i < b.N; i++ {
		s.Once()
	}
	sinkSpins = s.Spins()
}
