//go:build !linux

package pin

import "runtime"

// Thread locks the calling goroutine to its OS thread. Pinning to a
// particular cpu fails with ErrUnsupported.
func Thread(cpu int) error {
	runtime.LockOSThread()
	if cpu == Any {
		return nil
	}
	return ErrUnsupported
}

// CPU always reports Any.
func CPU() (int, error) {
	return Any, nil
}
