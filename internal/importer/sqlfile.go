package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SQLSink renders import batches as INSERT statements on disk instead
// of executing them. One file per table, named <table>_insert.sql.
type SQLSink struct {
	dir string
}

// NewSQLSink creates the output directory if needed.
func NewSQLSink(dir string) (*SQLSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create SQL output directory %s: %w", dir, err)
	}
	return &SQLSink{dir: dir}, nil
}

// renderSQL writes the file's rows as literal-value INSERT statements.
// Rows keep their source order; empty cells render as NULL.
func (e *Engine) renderSQL(table string, columns []string, rows [][]string, appendAudit bool) error {
	if e.sink == nil {
		return fmt.Errorf("SQL output requested but no sink configured")
	}
	return e.sink.WriteInserts(table, columns, rows, appendAudit)
}

// WriteInserts renders one INSERT statement per row into
// <table>_insert.sql, overwriting any previous file for the table.
func (s *SQLSink) WriteInserts(table string, columns []string, rows [][]string, appendAudit bool) error {
	path := filepath.Join(s.dir, strings.ToLower(table)+"_insert.sql")

	var sb strings.Builder
	fmt.Fprintf(&sb, "-- INSERT statements for %s\n", table)
	fmt.Fprintf(&sb, "-- generated %s\n\n", time.Now().Format(time.RFC3339))

	columnList := strings.Join(columns, ", ")
	for _, row := range rows {
		sb.WriteString("INSERT INTO ")
		sb.WriteString(table)
		sb.WriteString(" (")
		sb.WriteString(columnList)
		sb.WriteString(") VALUES (")
		for i, cell := range row {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(sqlLiteral(cell))
		}
		if appendAudit {
			sb.WriteString(", 'SYSTEM', CURRENT_TIMESTAMP")
		}
		sb.WriteString(");\n")
	}
	if len(rows) > 0 {
		sb.WriteString("\nCOMMIT;\n")
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// sqlLiteral quotes one cell as a SQL literal. Empty cells become
// NULL; embedded quotes are doubled.
func sqlLiteral(cell string) string {
	if cell == "" {
		return "NULL"
	}
	return "'" + strings.ReplaceAll(cell, "'", "''") + "'"
}
