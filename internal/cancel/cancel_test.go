package cancel_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/randomizedcoder/spsc-fifo/internal/cancel"
)

func TestFlag(t *testing.T) {
	f := cancel.New()

	if f.Done() {
		t.Error("expected Done() = false before Cancel()")
	}

	f.Cancel()

	if !f.Done() {
		t.Error("expected Done() = true after Cancel()")
	}

	// Verify idempotent
	f.Cancel()
	if !f.Done() {
		t.Error("expected Done() = true after second Cancel()")
	}
}

func TestFlag_Reset(t *testing.T) {
	f := cancel.New()

	f.Cancel()
	f.Reset()
	if f.Done() {
		t.Error("expected Done() = false after Reset()")
	}
}

func TestWatch(t *testing.T) {
	ctx, cancelCtx := context.WithCancel(context.Background())
	f, stop := cancel.FromContext(ctx)
	defer stop()

	if f.Done() {
		t.Fatal("expected Done() = false before the context is cancelled")
	}

	cancelCtx()

	deadline := time.Now().Add(time.Second)
	for !f.Done() {
		if time.Now().After(deadline) {
			t.Fatal("flag not cancelled after context cancellation")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestWatch_Stop(t *testing.T) {
	ctx, cancelCtx := context.WithCancel(context.Background())
	f := cancel.New()
	stop := cancel.Watch(ctx, f)

	if !stop() {
		t.Error("expected stop() = true before the context fired")
	}
	cancelCtx()
	time.Sleep(10 * time.Millisecond)

	if f.Done() {
		t.Error("expected detached flag to stay clear")
	}
}

func TestWatch_Deadline(t *testing.T) {
	ctx, cancelCtx := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancelCtx()
	f, stop := cancel.FromContext(ctx)
	defer stop()

	<-ctx.Done()
	deadline := time.Now().Add(time.Second)
	for !f.Done() {
		if time.Now().After(deadline) {
			t.Fatal("flag not cancelled after deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

// TestFlag_Race tests concurrent access to Flag.
// Run with: go test -race ./internal/cancel
func TestFlag_Race(t *testing.T) {
	f := cancel.New()
	var wg sync.WaitGroup

	// Spawn readers
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10000; j++ {
				_ = f.Done()
			}
		}()
	}

	// Spawn writer
	wg.Add(1)
	go func() {
		defer wg.Done()
		f.Cancel()
	}()

	wg.Wait()

	if !f.Done() {
		t.Error("expected Done() = true after Cancel()")
	}
}

var sinkBool bool

func BenchmarkFlag_Done(b *testing.B) {
	f := cancel.New()
	b.ReportAllocs()
	b.ResetTimer()

	var done bool
	for i := 0; i < b.N; i++ {
		done = f.Done()
	}
	sinkBool = done
}

func BenchmarkContext_Done(b *testing.B) {
	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()
	b.ReportAllocs()
	b.ResetTimer()

	var done bool
	for i := 0; i < b.N; i++ {
		select {
		case <-ctx.Done():
			done = true
		default:
			done = false
		}
	}
	sinkBool = done
}
