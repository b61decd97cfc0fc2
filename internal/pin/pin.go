// Package pin binds benchmark goroutines to CPUs and provides the
// busy-wait primitives the producer and consumer loops spin with.
package pin

import "errors"

// ErrUnsupported is returned by Thread where CPU affinity is not available.
var ErrUnsupported = errors.New("pin: cpu affinity not supported on this platform")

// Any leaves the calling thread on whatever CPU the scheduler picks.
const Any = -1
