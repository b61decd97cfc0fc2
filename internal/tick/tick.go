// Package tick provides the periodic trigger used for progress reporting
// inside benchmark loops.
//
// Reading the clock on every iteration of a loop that moves tens of millions
// of items per second would dominate the measurement, so Batch only reads
// it every N calls.
package tick

import "time"

// DefaultInterval is how often the benchmark harness reports progress.
const DefaultInterval = time.Second
