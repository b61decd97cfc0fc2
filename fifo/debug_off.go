//go:build !fifo_debug

package fifo

import "log/slog"

// Debug reports whether the package was built with -tags fifo_debug.
const Debug = false

// SetLogger sets the logger used to report contract violations.
// Release builds report nothing, so this does nothing.
func SetLogger(*slog.Logger) {}

func assert(bool, string) {}

func debugLog(string, ...any) {}

type roleGuard struct{}

func (*roleGuard) enter(string) {}
func (*roleGuard) exit()        {}

type slotState struct{}

func (*slotState) init(int)              {}
func (*slotState) beginConstruct(uint64) {}
func (*slotState) constructed(uint64)    {}
func (*slotState) beginRead(uint64)      {}
func (*slotState) destroyed(uint64)      {}
