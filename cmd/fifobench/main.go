// Command fifobench runs the SPSC throughput benchmark over fifo.Fifo and
// the baseline queues.
//
// Usage:
//
//	go run ./cmd/fifobench -n 100000000 -size 131072 -cpu1 1 -cpu2 2
//	go run ./cmd/fifobench -impl fifo,channel -reps 5 -csv - -db runs.db
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/randomizedcoder/spsc-fifo/internal/bench"
	"github.com/randomizedcoder/spsc-fifo/internal/pin"
	"github.com/randomizedcoder/spsc-fifo/internal/results"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	cfg      bench.Config
	reps     int
	impls    string
	csvPath  string
	jsonPath string
	dbPath   string
	verbose  bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	def := bench.DefaultConfig()
	o := options{cfg: def}

	fs := flag.NewFlagSet("fifobench", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Int64Var(&o.cfg.Iterations, "n", def.Iterations, "number of messages per run")
	fs.IntVar(&o.cfg.Capacity, "size", def.Capacity, "queue size")
	fs.IntVar(&o.reps, "reps", 1, "runs per implementation")
	fs.StringVar(&o.impls, "impl", "all", "comma separated implementations: all, "+strings.Join(bench.Names(), ", "))
	fs.IntVar(&o.cfg.CPU1, "cpu1", pin.Any, "consumer cpu (-1 for any)")
	fs.IntVar(&o.cfg.CPU2, "cpu2", pin.Any, "producer cpu (-1 for any)")
	fs.BoolVar(&o.cfg.Payload, "payload", false, "fill message payloads")
	fs.BoolVar(&o.cfg.Verify, "verify", false, "hash both streams and compare")
	fs.DurationVar(&o.cfg.Timeout, "timeout", 0, "per run time limit (0 for none)")
	fs.StringVar(&o.csvPath, "csv", "", "write ops/s per rep as CSV to file (- for stdout)")
	fs.StringVar(&o.jsonPath, "json", "", "write runs as JSON to file (- for stdout)")
	fs.StringVar(&o.dbPath, "db", "", "record runs in this SQLite database")
	fs.BoolVar(&o.verbose, "v", false, "log progress")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.reps < 1 {
		return o, fmt.Errorf("-reps must be at least 1, got %d", o.reps)
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	o.cfg.Logger = log

	impls, err := bench.Select(o.impls)
	if err != nil {
		log.Error("select implementations", "err", err)
		return 2
	}

	var store *results.Store
	if o.dbPath != "" {
		if store, err = results.Open(o.dbPath); err != nil {
			log.Error("open results", "err", err)
			return 1
		}
		defer store.Close()
	}

	fmt.Fprintf(stdout, "Benchmarking SPSC queues (%d iterations, size=%d, reps=%d)\n",
		o.cfg.Iterations, o.cfg.Capacity, o.reps)
	fmt.Fprintln(stdout, "─────────────────────────────────────────────────")

	var runs []results.Run
	best := make(map[string]bench.Result)
	for rep := 0; rep < o.reps; rep++ {
		for _, impl := range impls {
			res, err := bench.Run(ctx, impl, o.cfg)
			if err != nil {
				log.Error("benchmark failed", "impl", impl.Name, "rep", rep, "err", err)
				return 1
			}
			r := results.FromResult(rep, o.cfg, res)
			if store != nil {
				if err := store.Record(ctx, &r); err != nil {
					log.Error("record run", "impl", impl.Name, "err", err)
					return 1
				}
			}
			runs = append(runs, r)
			if b, ok := best[impl.Name]; !ok || res.Elapsed < b.Elapsed {
				best[impl.Name] = res
			}
		}
	}

	printTable(stdout, impls, best, o.reps)

	if o.csvPath != "" {
		if err := writeTo(o.csvPath, stdout, func(w io.Writer) error { return results.WriteCSV(w, runs) }); err != nil {
			log.Error("write csv", "err", err)
			return 1
		}
	}
	if o.jsonPath != "" {
		if err := writeTo(o.jsonPath, stdout, func(w io.Writer) error { return results.WriteJSON(w, runs) }); err != nil {
			log.Error("write json", "err", err)
			return 1
		}
	}
	return 0
}

func printTable(w io.Writer, impls []bench.Impl, best map[string]bench.Result, reps int) {
	if reps > 1 {
		fmt.Fprintf(w, "\nResults (best of %d):\n", reps)
	} else {
		fmt.Fprintf(w, "\nResults:\n")
	}
	for _, impl := range impls {
		r := best[impl.Name]
		fmt.Fprintf(w, "  %-16s %12v (%6.2f ns/op)  %8.2f M ops/sec\n",
			impl.Name+":", r.Elapsed.Round(time.Microsecond), r.NsPerOp(), r.OpsPerSec()/1e6)
	}

	if len(impls) < 2 {
		return
	}
	ref := best[impls[0].Name]
	fmt.Fprintf(w, "\nSpeedup of %s:\n", impls[0].Name)
	for _, impl := range impls[1:] {
		r := best[impl.Name]
		if ref.NsPerOp() == 0 {
			continue
		}
		fmt.Fprintf(w, "  vs %-13s %.2fx\n", impl.Name+":", r.NsPerOp()/ref.NsPerOp())
	}
}

func writeTo(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "-" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
