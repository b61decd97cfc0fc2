package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/sugawarayuuta/sonnet"
)

// WriteJSON writes runs as a JSON array followed by a newline.
func WriteJSON(w io.Writer, runs []Run) error {
	if runs == nil {
		runs = []Run{}
	}
	b, err := sonnet.Marshal(runs)
	if err != nil {
		return fmt.Errorf("results: json: %w", err)
	}
	b = append(b, '\n')
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("results: json: %w", err)
	}
	return nil
}

// WriteCSV writes one column per implementation, in order of first
// appearance, and one row of ops/s per repetition. A cell is empty when an
// implementation has no run for that repetition.
func WriteCSV(w io.Writer, runs []Run) error {
	var impls []string
	col := make(map[string]int)
	var reps []int
	row := make(map[int]int)
	for _, r := range runs {
		if _, ok := col[r.Impl]; !ok {
			col[r.Impl] = len(impls)
			impls = append(impls, r.Impl)
		}
		if _, ok := row[r.Rep]; !ok {
			row[r.Rep] = len(reps)
			reps = append(reps, r.Rep)
		}
	}

	table := make([][]string, len(reps))
	for i := range table {
		table[i] = make([]string, len(impls))
	}
	for _, r := range runs {
		table[row[r.Rep]][col[r.Impl]] = strconv.FormatInt(int64(r.OpsPerSec), 10)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(impls); err != nil {
		return fmt.Errorf("results: csv: %w", err)
	}
	if err := cw.WriteAll(table); err != nil {
		return fmt.Errorf("results: csv: %w", err)
	}
	return nil
}
