// Package results stores benchmark runs in SQLite and renders them as JSON
// or CSV.
package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/randomizedcoder/spsc-fifo/internal/bench"
)

// ErrClosed is returned by Store methods after Close.
var ErrClosed = errors.New("results: store closed")

// Run is one recorded benchmark run.
type Run struct {
	ID            int64     `json:"id"`
	Rep           int       `json:"rep"`
	Impl          string    `json:"impl"`
	Iterations    int64     `json:"iterations"`
	Capacity      int       `json:"capacity"`
	CPU1          int       `json:"cpu1"`
	CPU2          int       `json:"cpu2"`
	Payload       bool      `json:"payload"`
	Started       time.Time `json:"started"`
	ElapsedNs     int64     `json:"elapsed_ns"`
	OpsPerSec     float64   `json:"ops_per_sec"`
	ProducerSpins int64     `json:"producer_spins"`
	ConsumerSpins int64     `json:"consumer_spins"`
	Digest        string    `json:"digest,omitempty"`
}

// FromResult builds the Run recorded for repetition rep of res under cfg.
func FromResult(rep int, cfg bench.Config, res bench.Result) Run {
	return Run{
		Rep:           rep,
		Impl:          res.Impl,
		Iterations:    res.Iterations,
		Capacity:      res.Capacity,
		CPU1:          cfg.CPU1,
		CPU2:          cfg.CPU2,
		Payload:       cfg.Payload,
		Started:       res.Started.UTC(),
		ElapsedNs:     res.Elapsed.Nanoseconds(),
		OpsPerSec:     res.OpsPerSec(),
		ProducerSpins: clampInt64(res.ProducerSpins),
		ConsumerSpins: clampInt64(res.ConsumerSpins),
		Digest:        res.Digest,
	}
}

// SQLite integers are signed.
func clampInt64(v uint64) int64 {
	if v > 1<<63-1 {
		return 1<<63 - 1
	}
	return int64(v)
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	rep            INTEGER NOT NULL,
	impl           TEXT    NOT NULL,
	iterations     INTEGER NOT NULL,
	capacity       INTEGER NOT NULL,
	cpu1           INTEGER NOT NULL,
	cpu2           INTEGER NOT NULL,
	payload        INTEGER NOT NULL,
	started        TEXT    NOT NULL,
	elapsed_ns     INTEGER NOT NULL,
	ops_per_sec    REAL    NOT NULL,
	producer_spins INTEGER NOT NULL,
	consumer_spins INTEGER NOT NULL,
	digest         TEXT    NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS runs_impl ON runs (impl, id);
`

// Store is a benchmark history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("results: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("results: schema %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the database. It is safe to call more than once.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Record inserts run and sets its ID.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if s.db == nil {
		return ErrClosed
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (rep, impl, iterations, capacity, cpu1, cpu2, payload,
			started, elapsed_ns, ops_per_sec, producer_spins, consumer_spins, digest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Rep, run.Impl, run.Iterations, run.Capacity, run.CPU1, run.CPU2, run.Payload,
		run.Started.UTC().Format(time.RFC3339Nano), run.ElapsedNs, run.OpsPerSec,
		run.ProducerSpins, run.ConsumerSpins, run.Digest)
	if err != nil {
		return fmt.Errorf("results: record %s: %w", run.Impl, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("results: record %s: %w", run.Impl, err)
	}
	run.ID = id
	return nil
}

// Recent returns up to limit runs, newest first. An empty impl matches
// every implementation.
func (s *Store) Recent(ctx context.Context, impl string, limit int) ([]Run, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, rep, impl, iterations, capacity, cpu1, cpu2, payload, started,
			elapsed_ns, ops_per_sec, producer_spins, consumer_spins, digest
		FROM runs
		WHERE ? = '' OR impl = ?
		ORDER BY id DESC
		LIMIT ?`, impl, impl, limit)
	if err != nil {
		return nil, fmt.Errorf("results: query: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &r.Rep, &r.Impl, &r.Iterations, &r.Capacity,
			&r.CPU1, &r.CPU2, &r.Payload, &started, &r.ElapsedNs, &r.OpsPerSec,
			&r.ProducerSpins, &r.ConsumerSpins, &r.Digest); err != nil {
			return nil, fmt.Errorf("results: scan: %w", err)
		}
		if r.Started, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("results: run %d: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("results: query: %w", err)
	}
	return runs, nil
}

// Stat summarizes the recorded runs of one implementation.
type Stat struct {
	Impl    string  `json:"impl"`
	Runs    int     `json:"runs"`
	MeanOps float64 `json:"mean_ops_per_sec"`
	BestOps float64 `json:"best_ops_per_sec"`
}

// Summary returns per-implementation statistics, fastest mean first.
func (s *Store) Summary(ctx context.Context) ([]Stat, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT impl, COUNT(*), AVG(ops_per_sec), MAX(ops_per_sec)
		FROM runs
		GROUP BY impl
		ORDER BY AVG(ops_per_sec) DESC`)
	if err != nil {
		return nil, fmt.Errorf("results: summary: %w", err)
	}
	defer rows.Close()

	var stats []Stat
	for rows.Next() {
		var st Stat
		if err := rows.Scan(&st.Impl, &st.Runs, &st.MeanOps, &st.BestOps); err != nil {
			return nil, fmt.Errorf("results: scan: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}
