package domain

// DefaultAuditColumns are the system-managed columns excluded from
// user-data mapping unless the run configuration overrides the set.
var DefaultAuditColumns = []string{
	"CREATED_BY",
	"CREATE_TIMESTAMP",
	"UPDATED_BY",
	"UPDATE_TIMESTAMP",
}

// ColumnDefinition is one column recovered from a DDL document.
// Ordinal is the zero-based definition order within the document.
type ColumnDefinition struct {
	Name       string
	TypeName   string
	Nullable   bool
	HasDefault bool
	PrimaryKey bool
	Ordinal    int
}

// SchemaDocument is the parsed form of one DDL file: the declared
// table name plus its columns in definition order. AuditColumns
// defaults to DefaultAuditColumns and names the columns excluded
// from data mapping.
type SchemaDocument struct {
	TableName    string
	SourcePath   string
	Columns      []ColumnDefinition
	AuditColumns []string
}

// IsAudit reports whether name (already upper-cased by the parser)
// belongs to the document's audit-column set.
func (d *SchemaDocument) IsAudit(name string) bool {
	cols := d.AuditColumns
	if len(cols) == 0 {
		cols = DefaultAuditColumns
	}
	for _, audit := range cols {
		if name == audit {
			return true
		}
	}
	return false
}

// DataColumns returns the non-audit column names in DDL order. This
// is the effective column list for a header-absent file.
func (d *SchemaDocument) DataColumns() []string {
	names := make([]string, 0, len(d.Columns))
	for _, col := range d.Columns {
		if d.IsAudit(col.Name) {
			continue
		}
		names = append(names, col.Name)
	}
	return names
}

// Column returns the definition for name, if the document has one.
func (d *SchemaDocument) Column(name string) (ColumnDefinition, bool) {
	for _, col := range d.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return ColumnDefinition{}, false
}
