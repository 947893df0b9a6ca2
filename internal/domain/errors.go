package domain

import (
	"errors"
	"fmt"
)

// TableNotFoundError aborts a single file when its target table does
// not exist in the destination. When a schema document matched the
// target, SuggestedDDL carries the path so the user can create the
// table manually.
type TableNotFoundError struct {
	Table        string
	File         string
	SuggestedDDL string
}

func (e *TableNotFoundError) Error() string {
	if e.SuggestedDDL != "" {
		return fmt.Sprintf("table %s does not exist (file %s); create it from %s", e.Table, e.File, e.SuggestedDDL)
	}
	return fmt.Sprintf("table %s does not exist (file %s)", e.Table, e.File)
}

// DDLParseError is fatal to one schema document only; other files
// and documents continue.
type DDLParseError struct {
	Path   string
	Reason string
}

func (e *DDLParseError) Error() string {
	return fmt.Sprintf("invalid DDL in %s: %s", e.Path, e.Reason)
}

// ColumnMismatchError aborts a file that has no usable positional
// column mapping: a header-absent file without a matched schema, or
// an effective column list that cannot be derived.
type ColumnMismatchError struct {
	Table  string
	File   string
	Reason string
}

func (e *ColumnMismatchError) Error() string {
	return fmt.Sprintf("no usable column mapping for %s (table %s): %s", e.File, e.Table, e.Reason)
}

// AmbiguousSchemaError is reported when more than one schema document
// matches a single table target.
type AmbiguousSchemaError struct {
	Table string
	Paths []string
}

func (e *AmbiguousSchemaError) Error() string {
	return fmt.Sprintf("%d schema documents match table %s: %v", len(e.Paths), e.Table, e.Paths)
}

// RowShapeError records a single row whose cell count does not equal
// the effective column count. Row-level and non-fatal: the file
// continues.
type RowShapeError struct {
	File     string
	RowIndex int
	Want     int
	Got      int
}

func (e *RowShapeError) Error() string {
	return fmt.Sprintf("%s row %d: expected %d cells, got %d", e.File, e.RowIndex+1, e.Want, e.Got)
}

// TransientWriteError marks a batch write failure worth retrying:
// connection drops, lock timeouts, serialization conflicts.
type TransientWriteError struct {
	Err error
}

func (e *TransientWriteError) Error() string { return "transient write failure: " + e.Err.Error() }
func (e *TransientWriteError) Unwrap() error { return e.Err }

// FatalWriteError marks a batch write failure that retrying cannot
// fix: constraint violations, type mismatches. UniqueViolation is
// set for unique-constraint failures so the engine can recognize a
// re-imported file.
type FatalWriteError struct {
	Err             error
	UniqueViolation bool
}

func (e *FatalWriteError) Error() string { return "write failure: " + e.Err.Error() }
func (e *FatalWriteError) Unwrap() error { return e.Err }

// ConfigError aborts the whole run before any file is processed.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return "invalid configuration: " + e.Reason
	}
	return fmt.Sprintf("invalid configuration (%s): %s", e.Key, e.Reason)
}

// IsTransient reports whether err is a TransientWriteError anywhere
// in its chain.
func IsTransient(err error) bool {
	var t *TransientWriteError
	return errors.As(err, &t)
}

// IsUniqueViolation reports whether err is a fatal write error caused
// by a unique-constraint violation.
func IsUniqueViolation(err error) bool {
	var f *FatalWriteError
	return errors.As(err, &f) && f.UniqueViolation
}
