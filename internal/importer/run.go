package importer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/oraload/oraload/internal/ddl"
	"github.com/oraload/oraload/internal/domain"
	"github.com/oraload/oraload/internal/naming"
	"github.com/oraload/oraload/internal/reader"
)

// RunOptions describe one invocation of the import pipeline.
type RunOptions struct {
	// DataFolder is scanned recursively for data files.
	DataFolder string
	// DDLFolder optionally holds .sql / .md schema documents.
	DDLFolder string
	// Tables are explicit target overrides, applied to the scanned
	// files positionally. When set, only the first len(Tables) files
	// are imported.
	Tables []string
	// KeepDateSuffix disables date-suffix stripping during table name
	// resolution.
	KeepDateSuffix bool
	DryRun         bool
	CreateSQL      bool
}

// Runner drives a whole run: scan, resolve, match, import. Files are
// isolated from each other; one file's failure never stops the run.
type Runner struct {
	engine *Engine
	logger *log.Logger
}

// NewRunner wires an engine into a run driver.
func NewRunner(engine *Engine, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{engine: engine, logger: logger}
}

// Run executes the full pipeline over opts.DataFolder and returns the
// aggregated report. Only run-scoped failures (unreadable folders) are
// returned as errors; per-file failures land in the report.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*domain.RunReport, error) {
	report := &domain.RunReport{
		RunID:     uuid.New(),
		StartedAt: time.Now(),
	}

	files, err := reader.ScanDir(opts.DataFolder)
	if err != nil {
		return nil, err
	}
	if len(opts.Tables) > 0 {
		// Explicit table names pair with files positionally, in scan
		// order; surplus files are left alone.
		if len(opts.Tables) < len(files) {
			files = files[:len(opts.Tables)]
		}
		if len(opts.Tables) > len(files) {
			return nil, fmt.Errorf("%d table overrides given but only %d data files found", len(opts.Tables), len(files))
		}
	}
	r.logger.Printf("run %s: %d data files in %s", report.RunID, len(files), opts.DataFolder)

	var library *ddl.Library
	if opts.DDLFolder != "" {
		library, err = ddl.LoadDir(opts.DDLFolder)
		if err != nil {
			return nil, err
		}
		report.Errors = append(report.Errors, library.ParseErrors...)
		r.logger.Printf("run %s: %d schema tables loaded from %s (%d parse errors)",
			report.RunID, library.Len(), opts.DDLFolder, len(library.ParseErrors))
	}

	engineOpts := Options{DryRun: opts.DryRun, CreateSQL: opts.CreateSQL}
	for i, scanned := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		var override string
		if i < len(opts.Tables) {
			override = opts.Tables[i]
		}

		result := r.importOne(ctx, scanned, override, opts.KeepDateSuffix, library, engineOpts)
		report.Results = append(report.Results, result)
		r.logger.Printf("run %s: %s -> %s: %s (%d committed, %d failed, %d skipped)",
			report.RunID, result.File, result.Table, result.Status,
			result.RowsCommitted, result.RowsFailed, result.RowsSkipped)
	}

	report.FinishedAt = time.Now()
	return report, nil
}

// importOne resolves, matches and imports a single file, converting
// every failure along the way into a failed result so the run can
// continue with the next file.
func (r *Runner) importOne(ctx context.Context, scanned reader.ScannedFile, override string, keepDateSuffix bool, library *ddl.Library, opts Options) domain.ImportResult {
	target, err := naming.Resolve(scanned.Stem, keepDateSuffix, override)
	if err != nil {
		return domain.ImportResult{File: scanned.Name, Status: domain.StatusFailed, Err: err}
	}

	var schema *domain.SchemaDocument
	if library != nil {
		schema, err = library.Match(target)
		if err != nil {
			return domain.ImportResult{File: scanned.Name, Table: target.Name, Status: domain.StatusFailed, Err: err}
		}
	}

	file, err := reader.ReadFile(scanned.Path)
	if err != nil {
		return domain.ImportResult{File: scanned.Name, Table: target.Name, Status: domain.StatusFailed, Err: err}
	}

	return r.engine.ImportFile(ctx, file, target, schema, opts)
}
