package domain

import (
	"time"

	"github.com/google/uuid"
)

// ImportStatus is the terminal state of one file's import attempt.
type ImportStatus string

const (
	StatusSucceeded        ImportStatus = "succeeded"
	StatusPartiallyFailed  ImportStatus = "partially_failed"
	StatusFailed           ImportStatus = "failed"
	StatusSkippedDryRun    ImportStatus = "skipped_dry_run"
	StatusSkippedDuplicate ImportStatus = "skipped_duplicate"
)

// ImportResult accumulates per-file counters over a file's batches
// and is finalized when the batches are exhausted or the file aborts.
type ImportResult struct {
	File          string
	Table         string
	Status        ImportStatus
	RowsAttempted int
	RowsCommitted int
	RowsFailed    int
	// RowsSkipped counts rows rejected before batching, e.g. width
	// mismatches against the effective column list.
	RowsSkipped    int
	BatchesWritten int
	BatchesFailed  int
	Retries        int
	Err            error
}

// Finalize derives the terminal status from the accumulated batch
// counters. Dry-run and duplicate outcomes are set by the engine
// directly and never recomputed here.
func (r *ImportResult) Finalize() {
	switch {
	case r.BatchesFailed == 0:
		r.Status = StatusSucceeded
	case r.BatchesWritten > 0:
		r.Status = StatusPartiallyFailed
	default:
		r.Status = StatusFailed
	}
}

// RunReport aggregates the results of one run across all files.
type RunReport struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []ImportResult
	// Errors holds run-scoped problems that were not fatal to the
	// run, e.g. DDL documents that failed to parse.
	Errors []error
}

// Failed reports whether any file ended in a failed or partially
// failed state; the process exit status reflects this.
func (r *RunReport) Failed() bool {
	for _, res := range r.Results {
		if res.Status == StatusFailed || res.Status == StatusPartiallyFailed {
			return true
		}
	}
	return false
}

// Totals sums row counters across all files in the run.
func (r *RunReport) Totals() (attempted, committed, failed int) {
	for _, res := range r.Results {
		attempted += res.RowsAttempted
		committed += res.RowsCommitted
		failed += res.RowsFailed
	}
	return attempted, committed, failed
}
