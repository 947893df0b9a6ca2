package reader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oraload/oraload/internal/domain"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestReadFileCSV(t *testing.T) {
	path := writeFile(t, t.TempDir(), "orders.csv", []byte("id,name\n1,alice\n2,bob\n"))

	file, err := ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, domain.FormatCSV, file.Format)
	assert.Equal(t, "orders.csv", file.Name)
	require.Len(t, file.Rows, 3)
	assert.Equal(t, []string{"id", "name"}, file.Rows[0])
}

func TestReadFileStripsBOM(t *testing.T) {
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("id,name\n1,alice\n")...)
	path := writeFile(t, t.TempDir(), "bom.csv", content)

	file, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id", file.Rows[0][0])
}

func TestReadFileProbesSeparators(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"semicolon.csv", "id;name\n1;alice\n"},
		{"tabs.txt", "id\tname\n1\talice\n"},
		{"pipes.csv", "id|name\n1|alice\n"},
	}
	for _, tt := range tests {
		path := writeFile(t, t.TempDir(), tt.name, []byte(tt.content))
		file, err := ReadFile(path)
		require.NoError(t, err, tt.name)
		assert.Equal(t, []string{"id", "name"}, file.Rows[0], tt.name)
	}
}

func TestReadFileSingleColumn(t *testing.T) {
	path := writeFile(t, t.TempDir(), "single.csv", []byte("value\nalpha\nbeta\n"))

	file, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, file.Rows, 3)
	assert.Equal(t, []string{"value"}, file.Rows[0])
}

func TestReadFileDropsEmptyRows(t *testing.T) {
	path := writeFile(t, t.TempDir(), "gaps.csv", []byte("id,name\n1,alice\n,\n2,bob\n"))

	file, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, file.Rows, 3)
}

func TestReadFileUnsupportedFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "data.parquet", []byte("whatever"))

	_, err := ReadFile(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))

	writeFile(t, dir, "b.csv", []byte("x\n"))
	writeFile(t, sub, "a.xlsx", []byte("x"))
	writeFile(t, dir, "~$lock.xlsx", []byte("x"))
	writeFile(t, dir, "readme.md", []byte("x"))

	files, err := ScanDir(dir)
	require.NoError(t, err)

	require.Len(t, files, 2)
	names := []string{files[0].Name, files[1].Name}
	assert.Contains(t, names, "b.csv")
	assert.Contains(t, names, "a.xlsx")
	for _, f := range files {
		assert.NotEmpty(t, f.Stem)
		assert.False(t, f.ModifiedAt.IsZero())
	}
}

func TestScanDirOrdersByModTime(t *testing.T) {
	dir := t.TempDir()
	older := writeFile(t, dir, "older.csv", []byte("x\n"))
	newer := writeFile(t, dir, "newer.csv", []byte("x\n"))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))
	now := time.Now()
	require.NoError(t, os.Chtimes(newer, now, now))

	files, err := ScanDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "older.csv", files[0].Name)
	assert.Equal(t, "newer.csv", files[1].Name)
}
