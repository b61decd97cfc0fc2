// Package baseline holds the queues the fifo package is measured against.
//
// Each one implements fifo.Queue and differs from fifo.Fifo in one respect:
//
//   - Channel: a buffered channel with select/default.
//   - Uncached: atomic cursors loaded on every operation, no cursor cache.
//   - Locked: a ring behind a sync.Mutex with remainder indexing.
//   - Sharded: go-lock-free-ring's MPSC sharded ring with a single shard.
//
// They exist for benchmarks and differential tests only.
package baseline
