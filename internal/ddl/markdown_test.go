package ddl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oraload/oraload/internal/domain"
)

func TestParseMarkdown(t *testing.T) {
	doc, err := ParseMarkdown("orders.md", "orders", `
# Orders

| Column Name | Data Type     | Nullable | Default | Primary Key |
|-------------|---------------|----------|---------|-------------|
| id          | NUMBER(10)    | no       |         | yes         |
| name        | VARCHAR2(100) | yes      |         |             |
| amount      | NUMBER(10,2)  |          | 0       |             |
`)
	require.NoError(t, err)

	assert.Equal(t, "ORDERS", doc.TableName)
	require.Len(t, doc.Columns, 3)

	id := doc.Columns[0]
	assert.False(t, id.Nullable)
	assert.True(t, id.PrimaryKey)
	assert.False(t, id.HasDefault)

	// A blank nullable cell keeps the nullable default.
	amount := doc.Columns[2]
	assert.True(t, amount.Nullable)
	assert.True(t, amount.HasDefault)
}

func TestParseMarkdownFallsBackToFileStem(t *testing.T) {
	doc, err := ParseMarkdown("orders.md", "orders_archive", `
| name | type   |
|------|--------|
| id   | NUMBER |
`)
	require.NoError(t, err)
	assert.Equal(t, "ORDERS_ARCHIVE", doc.TableName)
}

func TestParseMarkdownErrors(t *testing.T) {
	var parseErr *domain.DDLParseError

	_, err := ParseMarkdown("t.md", "t", "just prose, no table")
	require.ErrorAs(t, err, &parseErr)

	_, err = ParseMarkdown("t.md", "t", `
| name | comment |
|------|---------|
| id   | the id  |
`)
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Reason, "name and type")

	_, err = ParseMarkdown("t.md", "t", `
| name | type |
|------|------|
`)
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Reason, "no column rows")
}
