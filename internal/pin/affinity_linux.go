//go:build linux

package pin

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// Thread locks the calling goroutine to its OS thread and restricts that
// thread to cpu. With cpu == Any it only locks the thread.
//
// A pinned thread keeps its mask after runtime.UnlockOSThread. Let the
// goroutine exit while still locked and the runtime discards the thread.
func Thread(cpu int) error {
	runtime.LockOSThread()
	if cpu == Any {
		return nil
	}
	if cpu < 0 {
		return fmt.Errorf("pin: invalid cpu %d", cpu)
	}

	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("pin: cpu %d: %w", cpu, err)
	}
	return nil
}

// CPU returns the CPU the calling thread is restricted to, or Any if its
// affinity mask allows more than one.
func CPU() (int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return 0, fmt.Errorf("pin: %w", err)
	}
	if set.Count() != 1 {
		return Any, nil
	}
	for i := 0; i < len(set)*64; i++ {
		if set.IsSet(i) {
			return i, nil
		}
	}
	return Any, nil
}
