package ddl

import (
	"strings"

	"github.com/oraload/oraload/internal/domain"
)

// ParseMarkdown parses a pipe-delimited table into a SchemaDocument.
// The table's header row must name at least "name" and "type"
// columns (case-insensitive); "nullable", "default" and "primary
// key" columns are recognized when present, otherwise columns
// default to nullable, no default, non-key. The declared table name
// comes from the first ATX heading, or fileStem when the document
// has none.
func ParseMarkdown(path, fileStem, document string) (*domain.SchemaDocument, error) {
	lines := strings.Split(document, "\n")

	tableName := ""
	var headerCells []string
	var rows [][]string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if tableName == "" && strings.HasPrefix(trimmed, "#") {
			tableName = strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			continue
		}
		if !strings.HasPrefix(trimmed, "|") {
			continue
		}
		cells := splitPipeRow(trimmed)
		if headerCells == nil {
			headerCells = cells
			continue
		}
		if isSeparatorRow(cells) {
			continue
		}
		rows = append(rows, cells)
	}

	if headerCells == nil {
		return nil, &domain.DDLParseError{Path: path, Reason: "no pipe table found"}
	}

	nameIdx, typeIdx := -1, -1
	nullableIdx, defaultIdx, pkIdx := -1, -1, -1
	for i, cell := range headerCells {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "name", "column", "column name":
			nameIdx = i
		case "type", "data type":
			typeIdx = i
		case "nullable", "null":
			nullableIdx = i
		case "default", "default value":
			defaultIdx = i
		case "primary key", "pk", "key":
			pkIdx = i
		}
	}
	if nameIdx < 0 || typeIdx < 0 {
		return nil, &domain.DDLParseError{Path: path, Reason: "pipe table header must include name and type columns"}
	}

	if tableName == "" {
		tableName = fileStem
	}

	doc := &domain.SchemaDocument{
		TableName:    strings.ToUpper(tableName),
		SourcePath:   path,
		AuditColumns: domain.DefaultAuditColumns,
	}

	for _, row := range rows {
		if nameIdx >= len(row) || typeIdx >= len(row) {
			continue
		}
		name := strings.ToUpper(strings.TrimSpace(row[nameIdx]))
		typeName := strings.ToUpper(strings.TrimSpace(row[typeIdx]))
		if name == "" || typeName == "" {
			continue
		}
		col := domain.ColumnDefinition{
			Name:     name,
			TypeName: typeName,
			Nullable: true,
			Ordinal:  len(doc.Columns),
		}
		if nullableIdx >= 0 && nullableIdx < len(row) {
			if v := strings.TrimSpace(row[nullableIdx]); v != "" {
				col.Nullable = truthyCell(v)
			}
		}
		if defaultIdx >= 0 && defaultIdx < len(row) {
			col.HasDefault = strings.TrimSpace(row[defaultIdx]) != ""
		}
		if pkIdx >= 0 && pkIdx < len(row) {
			col.PrimaryKey = truthyCell(row[pkIdx])
		}
		doc.Columns = append(doc.Columns, col)
	}

	if len(doc.Columns) == 0 {
		return nil, &domain.DDLParseError{Path: path, Reason: "pipe table has no column rows"}
	}
	if dup := duplicateName(doc.Columns); dup != "" {
		return nil, &domain.DDLParseError{Path: path, Reason: "duplicate column name " + dup}
	}
	return doc, nil
}

func splitPipeRow(line string) []string {
	line = strings.Trim(line, "|")
	parts := strings.Split(line, "|")
	cells := make([]string, len(parts))
	for i, part := range parts {
		cells[i] = strings.TrimSpace(part)
	}
	return cells
}

// isSeparatorRow recognizes the |---|---| divider under a header.
func isSeparatorRow(cells []string) bool {
	for _, cell := range cells {
		if strings.Trim(cell, "-: ") != "" {
			return false
		}
	}
	return true
}

func truthyCell(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "y", "yes", "true", "1", "x":
		return true
	default:
		return false
	}
}
