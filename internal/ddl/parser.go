// Package ddl parses externally supplied schema definitions into
// ordered column metadata and matches them to resolved table names.
// Documents are never executed; they only recover column order and
// names for header-absent files.
package ddl

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oraload/oraload/internal/domain"
)

var createTableRe = regexp.MustCompile(`(?is)create\s+table\s+("?[A-Za-z0-9_.$]+"?)\s*\(`)

// ParseSQL parses a single CREATE TABLE statement into a
// SchemaDocument. Column order in the statement becomes ordinal
// position. Malformed input yields a DDLParseError.
func ParseSQL(path, document string) (*domain.SchemaDocument, error) {
	loc := createTableRe.FindStringSubmatchIndex(document)
	if loc == nil {
		return nil, &domain.DDLParseError{Path: path, Reason: "no CREATE TABLE statement found"}
	}
	tableName := strings.Trim(document[loc[2]:loc[3]], `"`)
	// Drop a schema qualifier; only the table identifier matters.
	if idx := strings.LastIndex(tableName, "."); idx >= 0 {
		tableName = tableName[idx+1:]
	}

	body, err := balancedBody(document[loc[1]-1:])
	if err != nil {
		return nil, &domain.DDLParseError{Path: path, Reason: err.Error()}
	}

	doc := &domain.SchemaDocument{
		TableName:    strings.ToUpper(tableName),
		SourcePath:   path,
		AuditColumns: domain.DefaultAuditColumns,
	}

	var pkFromConstraint []string
	for _, def := range splitTopLevel(body) {
		def = strings.TrimSpace(def)
		if def == "" {
			continue
		}
		upper := strings.ToUpper(def)
		switch {
		case strings.HasPrefix(upper, "CONSTRAINT"), strings.HasPrefix(upper, "PRIMARY KEY"):
			pkFromConstraint = append(pkFromConstraint, constraintKeyColumns(def)...)
		case strings.HasPrefix(upper, "UNIQUE"), strings.HasPrefix(upper, "FOREIGN KEY"), strings.HasPrefix(upper, "CHECK"):
			// Table-level constraints carry no column metadata we use.
		default:
			col, err := parseColumnDef(def, len(doc.Columns))
			if err != nil {
				return nil, &domain.DDLParseError{Path: path, Reason: err.Error()}
			}
			doc.Columns = append(doc.Columns, col)
		}
	}

	if len(doc.Columns) == 0 {
		return nil, &domain.DDLParseError{Path: path, Reason: "no column definitions in CREATE TABLE body"}
	}
	if dup := duplicateName(doc.Columns); dup != "" {
		return nil, &domain.DDLParseError{Path: path, Reason: "duplicate column name " + dup}
	}

	for _, pk := range pkFromConstraint {
		for i := range doc.Columns {
			if doc.Columns[i].Name == pk {
				doc.Columns[i].PrimaryKey = true
			}
		}
	}
	return doc, nil
}

// balancedBody returns the text between the opening parenthesis at
// s[0] and its matching close, erroring on unbalanced input.
func balancedBody(s string) (string, error) {
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[1:i], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced parentheses in column list")
}

// splitTopLevel splits a column-list body on commas outside
// parentheses, so NUMBER(10,2) stays intact.
func splitTopLevel(body string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range body {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, body[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, body[start:])
	return parts
}

func parseColumnDef(def string, ordinal int) (domain.ColumnDefinition, error) {
	fields := strings.Fields(def)
	if len(fields) < 2 {
		return domain.ColumnDefinition{}, fmt.Errorf("column definition %q has no type", def)
	}
	name := strings.ToUpper(strings.Trim(fields[0], `"`))

	rest := strings.TrimSpace(def[len(fields[0]):])
	upperRest := strings.ToUpper(rest)

	// The type token runs to the first constraint keyword, keeping
	// any length/precision parentheses attached.
	typeEnd := len(rest)
	for _, kw := range []string{" NOT NULL", " NULL", " DEFAULT ", " PRIMARY KEY", " UNIQUE", " CHECK", " REFERENCES", " CONSTRAINT"} {
		if idx := strings.Index(upperRest, kw); idx >= 0 && idx < typeEnd {
			typeEnd = idx
		}
	}
	typeName := strings.TrimSpace(rest[:typeEnd])
	if typeName == "" {
		return domain.ColumnDefinition{}, fmt.Errorf("column %s has no type", name)
	}

	return domain.ColumnDefinition{
		Name:       name,
		TypeName:   strings.ToUpper(typeName),
		Nullable:   !strings.Contains(upperRest, "NOT NULL"),
		HasDefault: strings.Contains(upperRest, "DEFAULT"),
		PrimaryKey: strings.Contains(upperRest, "PRIMARY KEY"),
		Ordinal:    ordinal,
	}, nil
}

// constraintKeyColumns extracts the column list of an inline or
// named PRIMARY KEY table constraint.
func constraintKeyColumns(def string) []string {
	upper := strings.ToUpper(def)
	idx := strings.Index(upper, "PRIMARY KEY")
	if idx < 0 {
		return nil
	}
	open := strings.Index(def[idx:], "(")
	if open < 0 {
		return nil
	}
	close := strings.Index(def[idx+open:], ")")
	if close < 0 {
		return nil
	}
	var cols []string
	for _, c := range strings.Split(def[idx+open+1:idx+open+close], ",") {
		c = strings.ToUpper(strings.Trim(strings.TrimSpace(c), `"`))
		if c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

func duplicateName(cols []domain.ColumnDefinition) string {
	seen := make(map[string]struct{}, len(cols))
	for _, col := range cols {
		if _, ok := seen[col.Name]; ok {
			return col.Name
		}
		seen[col.Name] = struct{}{}
	}
	return ""
}
