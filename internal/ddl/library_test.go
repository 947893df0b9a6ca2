package ddl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oraload/oraload/internal/domain"
)

func writeDDL(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeDDL(t, dir, "orders.sql", "CREATE TABLE orders (id NUMBER)")
	writeDDL(t, dir, "customers.md", "# customers\n| name | type |\n|---|---|\n| id | NUMBER |\n")
	writeDDL(t, dir, "broken.sql", "this is not ddl")
	writeDDL(t, dir, "notes.txt", "ignored")

	lib, err := LoadDir(dir)
	require.NoError(t, err)

	assert.Equal(t, 2, lib.Len())
	// A broken document is recorded, never fatal.
	require.Len(t, lib.ParseErrors, 1)
	var parseErr *domain.DDLParseError
	assert.ErrorAs(t, lib.ParseErrors[0], &parseErr)
}

func TestMatch(t *testing.T) {
	dir := t.TempDir()
	writeDDL(t, dir, "orders.sql", "CREATE TABLE orders (id NUMBER)")
	writeDDL(t, dir, "orders_v2.sql", "CREATE TABLE orders (id NUMBER, name VARCHAR2(10))")
	writeDDL(t, dir, "items.sql", "CREATE TABLE items (id NUMBER)")

	lib, err := LoadDir(dir)
	require.NoError(t, err)

	doc, err := lib.Match(domain.TableTarget{Name: "ITEMS"})
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "ITEMS", doc.TableName)

	doc, err = lib.Match(domain.TableTarget{Name: "MISSING"})
	require.NoError(t, err)
	assert.Nil(t, doc)

	_, err = lib.Match(domain.TableTarget{Name: "ORDERS"})
	var ambiguous *domain.AmbiguousSchemaError
	require.ErrorAs(t, err, &ambiguous)
	assert.Len(t, ambiguous.Paths, 2)
}
