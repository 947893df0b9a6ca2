// Package importer is the orchestrator of the load: it derives the
// effective column list for each file and writes its rows to the
// database gateway in bounded batches with retry, partial-failure
// and dry-run semantics.
package importer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/oraload/oraload/internal/config"
	"github.com/oraload/oraload/internal/db"
	"github.com/oraload/oraload/internal/domain"
	"github.com/oraload/oraload/internal/header"
	"github.com/oraload/oraload/internal/naming"
)

// duplicateMinBatch is the smallest batch size for which a unique
// violation is interpreted as a re-imported file rather than a
// one-off bad row.
const duplicateMinBatch = 10

// retryBackoff is the pause between retry attempts for a transient
// batch failure. Retries block; there is never more than one
// in-flight attempt per batch.
const retryBackoff = 500 * time.Millisecond

// Engine imports one file at a time against a Gateway. It holds no
// per-file state; all run configuration is passed in explicitly.
type Engine struct {
	gateway  db.Gateway
	detector *header.Detector
	settings config.ImportSettings
	sink     *SQLSink
	logger   *log.Logger
}

// Options select per-run behavior for ImportFile.
type Options struct {
	// DryRun validates shape and declared types only and never
	// touches the gateway.
	DryRun bool
	// CreateSQL renders INSERT statements into the SQL sink instead
	// of executing them.
	CreateSQL bool
}

// NewEngine builds an import engine. sink may be nil when SQL
// generation is not requested.
func NewEngine(gateway db.Gateway, detector *header.Detector, settings config.ImportSettings, sink *SQLSink, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		gateway:  gateway,
		detector: detector,
		settings: settings,
		sink:     sink,
		logger:   logger,
	}
}

// ImportFile runs one file through the full pipeline: effective
// column derivation, destination compatibility check, row validation
// and conversion, batching and writing. File-level failures are
// returned in the result's Err; the caller decides whether the run
// continues.
func (e *Engine) ImportFile(ctx context.Context, file *domain.DataFile, target domain.TableTarget, schema *domain.SchemaDocument, opts Options) domain.ImportResult {
	result := domain.ImportResult{File: file.Name, Table: target.Name}

	if file.Empty() {
		e.logger.Printf("importer: %s is empty, nothing to do", file.Name)
		// A dry run always reports as skipped, even with no rows.
		if opts.DryRun {
			result.Status = domain.StatusSkippedDryRun
		} else {
			result.Status = domain.StatusSucceeded
		}
		return result
	}

	columns, dataRows, err := e.effectiveColumns(file, target, schema)
	if err != nil {
		result.Status = domain.StatusFailed
		result.Err = err
		return result
	}
	writeColumns, appendAudit := e.auditFill(columns, schema)

	executing := !opts.DryRun && !opts.CreateSQL
	if executing {
		if err := e.checkDestination(ctx, target, schema, writeColumns, file.Name); err != nil {
			result.Status = domain.StatusFailed
			result.Err = err
			return result
		}
	}

	// The effective column list is fixed here and never recomputed
	// once writing begins. Rows are validated and converted in one
	// pass: width mismatches and unconvertible cells are row-level
	// failures, never fatal to the file.
	now := time.Now()
	convs := converters(columns, schema)
	valid := make([][]string, 0, len(dataRows))
	converted := make([][]any, 0, len(dataRows))
	for i, row := range dataRows {
		result.RowsAttempted++
		if len(row) != len(columns) {
			shapeErr := &domain.RowShapeError{File: file.Name, RowIndex: i, Want: len(columns), Got: len(row)}
			e.logger.Printf("importer: %v (table %s), row skipped", shapeErr, target.Name)
			result.RowsSkipped++
			continue
		}
		values, err := convertRow(row, convs)
		if err != nil {
			e.logger.Printf("importer: %s row %d: %v (table %s), row skipped", file.Name, i+1, err, target.Name)
			result.RowsSkipped++
			continue
		}
		if appendAudit {
			values = append(values, "SYSTEM", now)
		}
		valid = append(valid, row)
		converted = append(converted, values)
	}

	if opts.CreateSQL {
		if err := e.renderSQL(target.Name, writeColumns, valid, appendAudit); err != nil {
			result.Status = domain.StatusFailed
			result.Err = err
			return result
		}
	}
	if opts.DryRun {
		result.Status = domain.StatusSkippedDryRun
		return result
	}
	if opts.CreateSQL {
		result.Status = domain.StatusSucceeded
		result.RowsCommitted = len(valid)
		return result
	}

	e.writeBatches(ctx, target, writeColumns, converted, &result)
	return result
}

// effectiveColumns derives the column list and the data rows for a
// file. A detected header supplies both; a header-absent file needs
// a matched schema for its positional mapping.
func (e *Engine) effectiveColumns(file *domain.DataFile, target domain.TableTarget, schema *domain.SchemaDocument) ([]string, [][]string, error) {
	first := file.FirstRow()
	if e.detector.Detect(first) {
		columns := make([]string, len(first))
		for i, cell := range first {
			name := naming.NormalizeColumn(cell)
			if name == "" {
				name = fmt.Sprintf("COLUMN_%d", i+1)
			}
			columns[i] = name
		}
		return columns, file.Rows[1:], nil
	}

	if schema == nil {
		return nil, nil, &domain.ColumnMismatchError{
			Table:  target.Name,
			File:   file.Name,
			Reason: "no header row detected and no schema document matched",
		}
	}
	return schema.DataColumns(), file.Rows, nil
}

// checkDestination verifies the target table exists and that every
// effective column is present in it, so a mapping problem aborts the
// file up front instead of surfacing as a write failure mid-batch.
func (e *Engine) checkDestination(ctx context.Context, target domain.TableTarget, schema *domain.SchemaDocument, writeColumns []string, fileName string) error {
	exists, err := e.gateway.TableExists(ctx, target.Name)
	if err != nil {
		return fmt.Errorf("table check for %s failed: %w", target.Name, err)
	}
	if !exists {
		if e.settings.CreateTableIfNotExists {
			return nil
		}
		notFound := &domain.TableNotFoundError{Table: target.Name, File: fileName}
		if schema != nil {
			notFound.SuggestedDDL = schema.SourcePath
		}
		return notFound
	}

	tableColumns, err := e.gateway.TableColumns(ctx, target.Name)
	if err != nil {
		return fmt.Errorf("column check for %s failed: %w", target.Name, err)
	}
	if len(tableColumns) == 0 {
		return nil
	}
	present := make(map[string]struct{}, len(tableColumns))
	for _, col := range tableColumns {
		present[strings.ToUpper(col)] = struct{}{}
	}
	var missing []string
	for _, col := range writeColumns {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &domain.ColumnMismatchError{
			Table:  target.Name,
			File:   fileName,
			Reason: fmt.Sprintf("columns not present in destination table: %s", strings.Join(missing, ", ")),
		}
	}
	return nil
}

// auditFill decides whether CREATED_BY / CREATE_TIMESTAMP are
// appended to written rows. Audit columns stay excluded from data
// mapping; only the write adds them.
func (e *Engine) auditFill(columns []string, schema *domain.SchemaDocument) ([]string, bool) {
	if !e.settings.FillAuditColumns || schema == nil {
		return columns, false
	}
	_, hasBy := schema.Column("CREATED_BY")
	_, hasTS := schema.Column("CREATE_TIMESTAMP")
	if !hasBy || !hasTS {
		return columns, false
	}
	for _, col := range columns {
		if col == "CREATED_BY" || col == "CREATE_TIMESTAMP" {
			return columns, false
		}
	}
	out := make([]string, 0, len(columns)+2)
	out = append(out, columns...)
	out = append(out, "CREATED_BY", "CREATE_TIMESTAMP")
	return out, true
}

// writeBatches partitions rows into batches and writes them in row
// order, accumulating counters into result and finalizing its
// status.
func (e *Engine) writeBatches(ctx context.Context, target domain.TableTarget, columns []string, rows [][]any, result *domain.ImportResult) {
	batchSize := e.settings.BatchSize
	totalBatches := (len(rows) + batchSize - 1) / batchSize

	var uncommitted int
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		err := e.writeWithRetry(ctx, target.Name, columns, batch, result)
		if err != nil {
			if domain.IsUniqueViolation(err) && len(batch) >= duplicateMinBatch {
				// A whole batch of unique violations means the file
				// was already imported; skip the rest of it.
				e.logger.Printf("importer: duplicate import detected for %s (table %s), skipping file", result.File, target.Name)
				_ = e.gateway.Rollback(ctx)
				result.Status = domain.StatusSkippedDuplicate
				result.Err = err
				return
			}

			result.BatchesFailed++
			result.RowsFailed += len(batch)
			e.logger.Printf("importer: batch %d/%d for table %s failed: %v", result.BatchesWritten+result.BatchesFailed, totalBatches, target.Name, err)

			if !e.settings.AutoCommit {
				// Without auto-commit a single failure voids the
				// whole file: roll back everything written so far.
				_ = e.gateway.Rollback(ctx)
				result.RowsFailed += uncommitted
				result.RowsCommitted = 0
				result.BatchesFailed += result.BatchesWritten
				result.BatchesWritten = 0
				result.Finalize()
				result.Err = err
				return
			}
			continue
		}

		if e.settings.AutoCommit {
			if commitErr := e.gateway.Commit(ctx); commitErr != nil {
				result.BatchesFailed++
				result.RowsFailed += len(batch)
				e.logger.Printf("importer: commit for table %s failed: %v", target.Name, commitErr)
				continue
			}
			result.RowsCommitted += len(batch)
		} else {
			uncommitted += len(batch)
		}
		result.BatchesWritten++
	}

	if !e.settings.AutoCommit && uncommitted > 0 {
		if err := e.gateway.Commit(ctx); err != nil {
			e.logger.Printf("importer: final commit for table %s failed: %v", target.Name, err)
			result.RowsFailed += uncommitted
			result.BatchesFailed += result.BatchesWritten
			result.BatchesWritten = 0
			result.Finalize()
			result.Err = err
			return
		}
		result.RowsCommitted += uncommitted
	}

	result.Finalize()
}

// writeWithRetry submits one batch, retrying transient failures up
// to the configured bound with the same contents and row order.
func (e *Engine) writeWithRetry(ctx context.Context, table string, columns []string, batch [][]any, result *domain.ImportResult) error {
	err := e.gateway.WriteBatch(ctx, table, columns, batch)
	for attempt := 0; err != nil && domain.IsTransient(err) && attempt < e.settings.MaxRetries; attempt++ {
		result.Retries++
		e.logger.Printf("importer: transient failure on table %s (attempt %d/%d): %v", table, attempt+1, e.settings.MaxRetries, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryBackoff):
		}
		err = e.gateway.WriteBatch(ctx, table, columns, batch)
	}
	return err
}
