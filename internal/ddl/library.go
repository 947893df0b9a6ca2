package ddl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oraload/oraload/internal/domain"
	"github.com/oraload/oraload/internal/naming"
)

// Library holds the schema documents loaded from a DDL folder,
// keyed by normalized table name. Parse failures are collected, not
// fatal: a bad document never stops the run.
type Library struct {
	byTable map[string][]*domain.SchemaDocument
	// ParseErrors holds one DDLParseError per document that could
	// not be parsed.
	ParseErrors []error
}

// LoadDir scans dir for .sql and .md documents and parses each one.
// The join key for matching is the document's declared table name,
// normalized with the same rules the table name resolver applies.
func LoadDir(dir string) (*Library, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read DDL folder %s: %w", dir, err)
	}

	lib := &Library{byTable: make(map[string][]*domain.SchemaDocument)}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".sql" && ext != ".md" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			lib.ParseErrors = append(lib.ParseErrors, &domain.DDLParseError{Path: path, Reason: err.Error()})
			continue
		}

		stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		var doc *domain.SchemaDocument
		if ext == ".sql" {
			doc, err = ParseSQL(path, string(content))
		} else {
			doc, err = ParseMarkdown(path, stem, string(content))
		}
		if err != nil {
			lib.ParseErrors = append(lib.ParseErrors, err)
			continue
		}
		lib.Add(doc)
	}
	return lib, nil
}

// Add registers a parsed document under its normalized table name.
func (l *Library) Add(doc *domain.SchemaDocument) {
	key := naming.Normalize(doc.TableName)
	l.byTable[key] = append(l.byTable[key], doc)
}

// Len returns the number of distinct tables with at least one
// document.
func (l *Library) Len() int {
	return len(l.byTable)
}

// Match finds the schema document for a table target. Zero matches
// return (nil, nil); multiple matches are an AmbiguousSchemaError,
// reported rather than guessed.
func (l *Library) Match(target domain.TableTarget) (*domain.SchemaDocument, error) {
	docs := l.byTable[target.Name]
	switch len(docs) {
	case 0:
		return nil, nil
	case 1:
		return docs[0], nil
	default:
		paths := make([]string, len(docs))
		for i, doc := range docs {
			paths[i] = doc.SourcePath
		}
		return nil, &domain.AmbiguousSchemaError{Table: target.Name, Paths: paths}
	}
}
