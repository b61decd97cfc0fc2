// Package bench runs a single-producer single-consumer throughput benchmark
// over the queues registered in this package.
//
// Run moves Config.Iterations messages from a producer goroutine to a
// consumer goroutine, each locked to its own OS thread and optionally
// pinned to a CPU. The consumer checks that sequence numbers arrive
// gap-free and in order; with Verify set, both sides also hash the stream
// and the digests must match.
package bench

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/randomizedcoder/spsc-fifo/internal/cancel"
	"github.com/randomizedcoder/spsc-fifo/internal/pin"
	"github.com/randomizedcoder/spsc-fifo/internal/tick"
)

var (
	// ErrConfig is returned by Run for an invalid Config.
	ErrConfig = errors.New("bench: invalid config")

	// ErrSequence is returned when the consumer sees a message out of order.
	ErrSequence = errors.New("bench: sequence violation")

	// ErrDigest is returned when the consumed stream differs from the
	// produced stream.
	ErrDigest = errors.New("bench: digest mismatch")

	// ErrUnknownImpl is returned by Lookup for an unregistered name.
	ErrUnknownImpl = errors.New("bench: unknown implementation")
)

// progressEvery is how many operations pass between clock reads in the
// progress ticker.
const progressEvery = 1 << 16

// Config controls a benchmark run.
type Config struct {
	Iterations int64 // messages per run
	Capacity   int   // queue capacity; fifo rounds up to a power of two

	CPU1 int // consumer CPU, or pin.Any
	CPU2 int // producer CPU, or pin.Any

	Payload bool // fill the 24 payload words of every message
	Verify  bool // hash both streams and compare

	Timeout time.Duration // zero means no limit

	Logger *slog.Logger // nil means slog.Default()
}

// DefaultConfig returns the parameters of the reference benchmark.
func DefaultConfig() Config {
	return Config{
		Iterations: 100_000_000,
		Capacity:   131072,
		CPU1:       pin.Any,
		CPU2:       pin.Any,
	}
}

func (c Config) validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("%w: iterations %d", ErrConfig, c.Iterations)
	}
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity %d", ErrConfig, c.Capacity)
	}
	if c.CPU1 < pin.Any || c.CPU2 < pin.Any {
		return fmt.Errorf("%w: cpus %d, %d", ErrConfig, c.CPU1, c.CPU2)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout %v", ErrConfig, c.Timeout)
	}
	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Result is the outcome of one run.
type Result struct {
	Impl       string
	Iterations int64
	Capacity   int
	Started    time.Time
	Elapsed    time.Duration

	// Failed Push and Pop attempts.
	ProducerSpins uint64
	ConsumerSpins uint64

	// Hex SHA3-256 of the consumed stream, empty unless Config.Verify.
	Digest string
}

// OpsPerSec returns messages per second.
func (r Result) OpsPerSec() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Iterations) / r.Elapsed.Seconds()
}

// NsPerOp returns nanoseconds per message.
func (r Result) NsPerOp() float64 {
	if r.Iterations == 0 {
		return 0
	}
	return float64(r.Elapsed.Nanoseconds()) / float64(r.Iterations)
}

type side struct {
	spins  uint64
	digest *digest
	at     time.Time // producer: start, consumer: end
	err    error
}

// Run benchmarks impl under cfg.
func Run(ctx context.Context, impl Impl, cfg Config) (Result, error) {
	if err := cfg.validate(); err != nil {
		return Result{}, err
	}
	if cfg.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, cfg.Timeout)
		defer cancelTimeout()
	}

	pipe, err := impl.New(cfg.Capacity)
	if err != nil {
		return Result{}, fmt.Errorf("bench: %s: %w", impl.Name, err)
	}
	defer pipe.Close()

	stop, detach := cancel.FromContext(ctx)
	defer detach()

	log := cfg.logger().With("impl", impl.Name)
	log.Debug("bench: start", "iterations", cfg.Iterations, "capacity", cfg.Capacity,
		"cpu1", cfg.CPU1, "cpu2", cfg.CPU2)

	ready := make(chan struct{})
	consumed := make(chan side, 1)
	produced := make(chan side, 1)

	go func() { consumed <- consume(pipe, impl, cfg, stop, ready) }()
	go func() { produced <- produce(pipe, impl, cfg, stop, ready, log) }()

	c := <-consumed
	p := <-produced

	switch {
	case c.err != nil && !errors.Is(c.err, errStopped):
		return Result{}, fmt.Errorf("bench: %s: %w", impl.Name, c.err)
	case p.err != nil && !errors.Is(p.err, errStopped):
		return Result{}, fmt.Errorf("bench: %s: %w", impl.Name, p.err)
	case c.err != nil || p.err != nil:
		return Result{}, fmt.Errorf("bench: %s: %w", impl.Name, context.Cause(ctx))
	}

	res := Result{
		Impl:          impl.Name,
		Iterations:    cfg.Iterations,
		Capacity:      cfg.Capacity,
		Started:       p.at,
		Elapsed:       c.at.Sub(p.at),
		ProducerSpins: p.spins,
		ConsumerSpins: c.spins,
	}
	if cfg.Verify {
		want, got := p.digest.sum(), c.digest.sum()
		if !bytes.Equal(want, got) {
			return Result{}, fmt.Errorf("bench: %s: %w: produced %x, consumed %x",
				impl.Name, ErrDigest, want, got)
		}
		res.Digest = hex.EncodeToString(got)
	}

	log.Info("bench: done", "elapsed", res.Elapsed, "ops_per_sec", int64(res.OpsPerSec()))
	return res, nil
}

// release unlocks a thread that was not pinned. A pinned thread stays
// locked so that it exits with its goroutine instead of returning to the
// scheduler with a narrowed affinity mask.
func release(cpu int) {
	if cpu == pin.Any {
		runtime.UnlockOSThread()
	}
}

// errStopped marks a side that gave up because the run was cancelled.
var errStopped = errors.New("stopped")

func consume(pipe Pipe, impl Impl, cfg Config, stop *cancel.Flag, ready chan<- struct{}) (s side) {
	defer release(cfg.CPU1)
	if err := pin.Thread(cfg.CPU1); err != nil {
		stop.Cancel()
		close(ready)
		return side{err: err}
	}
	if cfg.Verify {
		s.digest = newDigest(impl.SeqOnly)
	}
	close(ready)

	var m Message
	var spin pin.Spin
	for i := int64(0); i < cfg.Iterations; i++ {
		for !pipe.Pop(&m) {
			if stop.Done() {
				s.err = errStopped
				return s
			}
			spin.Once()
		}
		spin.Reset()

		if m.Seq != i {
			stop.Cancel()
			s.err = fmt.Errorf("%w: expected %d, got %d", ErrSequence, i, m.Seq)
			return s
		}
		if s.digest != nil {
			s.digest.add(&m)
		}
	}
	s.at = time.Now()
	s.spins = spin.Spins()
	return s
}

func produce(pipe Pipe, impl Impl, cfg Config, stop *cancel.Flag, ready <-chan struct{}, log *slog.Logger) (s side) {
	defer release(cfg.CPU2)
	if err := pin.Thread(cfg.CPU2); err != nil {
		stop.Cancel()
		return side{err: err}
	}
	if cfg.Verify {
		s.digest = newDigest(impl.SeqOnly)
	}
	var payload *payloadSource
	if cfg.Payload {
		payload = newPayloadSource(impl.Name)
	}
	progress := tick.NewBatch(tick.DefaultInterval, progressEvery)

	<-ready
	if stop.Done() {
		s.err = errStopped
		return s
	}

	var m Message
	var spin pin.Spin
	s.at = time.Now()
	for i := int64(0); i < cfg.Iterations; i++ {
		m.Seq = i
		if payload != nil {
			payload.fill(&m)
		}
		if s.digest != nil {
			s.digest.add(&m)
		}

		for !pipe.Push(&m) {
			if stop.Done() {
				s.err = errStopped
				return s
			}
			spin.Once()
		}
		spin.Reset()

		if progress.Tick() {
			log.Debug("bench: progress", "pushed", i+1, "ops_per_sec", int64(progress.Rate()))
		}
	}
	s.spins = spin.Spins()
	return s
}
