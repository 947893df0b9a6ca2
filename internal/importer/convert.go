package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/oraload/oraload/internal/domain"
)

// dateTimeLayouts are tried in order when a schema declares a DATE or
// TIMESTAMP column. Fractional seconds after the seconds field are
// accepted by all layouts that carry a time part. Day-first slashed
// dates are tried before month-first, so an unambiguous day (>12)
// always lands on the right layout.
var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"2006.01.02 15:04:05",
	"2006.01.02",
	"02/01/2006 15:04:05",
	"02/01/2006",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"20060102 150405",
	"20060102",
}

// cellConverter turns one raw cell into a driver value according to
// the declared column type.
type cellConverter func(cell string) (any, error)

var typeLengthRe = regexp.MustCompile(`\((\d+)`)

// converters builds one converter per effective column from the
// matched schema. Columns the schema does not declare, and types with
// no conversion rule, pass through as raw strings (nil entry).
func converters(columns []string, schema *domain.SchemaDocument) []cellConverter {
	if schema == nil {
		return nil
	}
	out := make([]cellConverter, len(columns))
	for i, name := range columns {
		col, ok := schema.Column(name)
		if !ok {
			continue
		}
		out[i] = converterFor(col)
	}
	return out
}

func converterFor(col domain.ColumnDefinition) cellConverter {
	base := col.TypeName
	if idx := strings.IndexByte(base, '('); idx >= 0 {
		base = base[:idx]
	}
	switch strings.TrimSpace(base) {
	case "DATE", "TIMESTAMP":
		return convertDateTime
	case "NUMBER", "NUMERIC", "DECIMAL", "INTEGER", "INT", "SMALLINT", "FLOAT", "BINARY_FLOAT", "BINARY_DOUBLE":
		return convertNumber
	case "VARCHAR2", "NVARCHAR2", "VARCHAR", "CHAR", "NCHAR":
		maxLen := 0
		if m := typeLengthRe.FindStringSubmatch(col.TypeName); m != nil {
			maxLen, _ = strconv.Atoi(m[1])
		}
		return func(cell string) (any, error) {
			return truncateCell(cell, maxLen), nil
		}
	default:
		return nil
	}
}

// convertRow applies the column converters to one width-validated
// row. Empty cells are NULL for every type; a cell no converter can
// parse fails the whole row.
func convertRow(row []string, convs []cellConverter) ([]any, error) {
	values := make([]any, 0, len(row)+2)
	for i, cell := range row {
		if cell == "" {
			values = append(values, nil)
			continue
		}
		if convs == nil || convs[i] == nil {
			values = append(values, cell)
			continue
		}
		value, err := convs[i](cell)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		values = append(values, value)
	}
	return values, nil
}

func convertDateTime(cell string) (any, error) {
	trimmed := strings.TrimSpace(cell)
	for _, layout := range dateTimeLayouts {
		if ts, err := time.Parse(layout, trimmed); err == nil {
			return ts, nil
		}
	}
	return nil, fmt.Errorf("value %q is not a recognized date or timestamp", cell)
}

func convertNumber(cell string) (any, error) {
	trimmed := strings.TrimSpace(cell)
	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("value %q is not numeric", cell)
}

func truncateCell(cell string, maxLen int) string {
	if maxLen <= 0 {
		return cell
	}
	runes := []rune(cell)
	if len(runes) <= maxLen {
		return cell
	}
	return string(runes[:maxLen])
}
