package domain

import "time"

// FileFormat identifies how a data file's bytes were decoded.
type FileFormat string

const (
	FormatCSV  FileFormat = "csv"
	FormatXLSX FileFormat = "xlsx"
)

// DataFile is one tabular file after decoding: its path, detected
// format, and every raw row in order. It is read once and never
// mutated; a single DataFile is the sole input to one import attempt.
type DataFile struct {
	Path       string
	Name       string
	Format     FileFormat
	Size       int64
	ModifiedAt time.Time
	Rows       [][]string
}

// FirstRow returns the first row of the file, or nil when the file is
// empty. Header detection operates on this row only.
func (f *DataFile) FirstRow() []string {
	if len(f.Rows) == 0 {
		return nil
	}
	return f.Rows[0]
}

// Empty reports whether the file decoded to zero rows.
func (f *DataFile) Empty() bool {
	return len(f.Rows) == 0
}
