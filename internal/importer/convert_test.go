package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oraload/oraload/internal/domain"
)

func TestConvertDateTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-08-27 08:22:10", time.Date(2025, 8, 27, 8, 22, 10, 0, time.UTC)},
		{"2025-08-27 08:22:10.422682", time.Date(2025, 8, 27, 8, 22, 10, 422682000, time.UTC)},
		{"2025-08-27T08:22:10", time.Date(2025, 8, 27, 8, 22, 10, 0, time.UTC)},
		{"2025-08-27", time.Date(2025, 8, 27, 0, 0, 0, 0, time.UTC)},
		{"2025/08/27", time.Date(2025, 8, 27, 0, 0, 0, 0, time.UTC)},
		{"2025.08.27", time.Date(2025, 8, 27, 0, 0, 0, 0, time.UTC)},
		{"27/08/2025", time.Date(2025, 8, 27, 0, 0, 0, 0, time.UTC)},
		// Month-first only matches when day-first cannot.
		{"08/27/2025", time.Date(2025, 8, 27, 0, 0, 0, 0, time.UTC)},
		{"20250827", time.Date(2025, 8, 27, 0, 0, 0, 0, time.UTC)},
		{"20250827 082210", time.Date(2025, 8, 27, 8, 22, 10, 0, time.UTC)},
		{" 2025-08-27 ", time.Date(2025, 8, 27, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := convertDateTime(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}

	_, err := convertDateTime("yesterday")
	assert.Error(t, err)
	_, err = convertDateTime("2025-13-40")
	assert.Error(t, err)
}

func TestConvertNumber(t *testing.T) {
	got, err := convertNumber("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)

	got, err = convertNumber("-3.25")
	require.NoError(t, err)
	assert.Equal(t, -3.25, got)

	got, err = convertNumber(" 7 ")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)

	_, err = convertNumber("n/a")
	assert.Error(t, err)
}

func TestConverterFor(t *testing.T) {
	// Length-qualified string types truncate to the declared length.
	conv := converterFor(domain.ColumnDefinition{Name: "NAME", TypeName: "VARCHAR2(3)"})
	require.NotNil(t, conv)
	got, err := conv("abcdef")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	// No declared length means no truncation.
	conv = converterFor(domain.ColumnDefinition{Name: "NOTE", TypeName: "VARCHAR2"})
	require.NotNil(t, conv)
	got, err = conv("abcdef")
	require.NoError(t, err)
	assert.Equal(t, "abcdef", got)

	// Unknown types pass through untouched.
	assert.Nil(t, converterFor(domain.ColumnDefinition{Name: "RAW", TypeName: "BLOB"}))
}

func TestConvertersAlignWithColumns(t *testing.T) {
	schema := &domain.SchemaDocument{
		TableName: "ORDERS",
		Columns: []domain.ColumnDefinition{
			{Name: "ID", TypeName: "NUMBER"},
			{Name: "WHEN", TypeName: "DATE"},
		},
	}

	convs := converters([]string{"WHEN", "ID", "EXTRA"}, schema)
	require.Len(t, convs, 3)
	// Converters follow the effective column order, not DDL order.
	assert.NotNil(t, convs[0])
	assert.NotNil(t, convs[1])
	// Columns the schema does not declare pass through.
	assert.Nil(t, convs[2])

	assert.Nil(t, converters([]string{"ID"}, nil))
}
