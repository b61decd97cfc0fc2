//go:build fifo_debug

package fifo

import (
	"log/slog"
	"os"
	"sync/atomic"
)

// Debug reports whether the package was built with -tags fifo_debug.
const Debug = true

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// SetLogger sets the logger used to report contract violations.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

func violation(msg string, args ...any) {
	logger.Error(msg, args...)
	panic("fifo: " + msg)
}

func assert(cond bool, msg string) {
	if !cond {
		violation(msg)
	}
}

func debugLog(msg string, args ...any) {
	logger.Debug(msg, args...)
}

// roleGuard is held from the start of PushSlot (or PopSlot) until the
// handle is committed or abandoned. A second entry means two goroutines
// share a role or a handle was armed twice.
type roleGuard struct {
	busy atomic.Uint32
}

func (g *roleGuard) enter(role string) {
	if !g.busy.CompareAndSwap(0, 1) {
		violation("overlapping use of the "+role+" role", "role", role)
	}
}

func (g *roleGuard) exit() {
	g.busy.Store(0)
}

// slotState records which cells hold a live value. The cursor protocol
// orders every access, so plain bools are enough.
type slotState struct {
	live []bool
}

func (s *slotState) init(n int) {
	s.live = make([]bool, n)
}

func (s *slotState) beginConstruct(i uint64) {
	if s.live[i] {
		violation("slot reused before its value was popped", "slot", i)
	}
}

func (s *slotState) constructed(i uint64) {
	s.live[i] = true
}

func (s *slotState) beginRead(i uint64) {
	if !s.live[i] {
		violation("slot read while holding no value", "slot", i)
	}
}

func (s *slotState) destroyed(i uint64) {
	s.live[i] = false
}
