package naming

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"order", "ORDER"},
		{"my table!", "MY_TABLE"},
		{"a--b..c", "A_B_C"},
		{"__padded__", "PADDED"},
		{"123data", "T_123DATA"},
		{"_2024", "T_2024"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeTruncation(t *testing.T) {
	long := strings.Repeat("A", 40)
	got := Normalize(long)
	assert.Len(t, got, 30)

	// A cut that lands on an underscore must not leave it dangling.
	awkward := strings.Repeat("A", 29) + "_B"
	got = Normalize(awkward)
	assert.Equal(t, strings.Repeat("A", 29), got)
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"order", "my table!", "123data",
		strings.Repeat("A", 29) + "_BCD",
		"__x__y__z__",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizeColumn(t *testing.T) {
	assert.Equal(t, "FIRST_NAME", NormalizeColumn("First Name"))
	assert.Equal(t, "AMOUNT", NormalizeColumn(" amount "))
	// No table prefix for columns, and digits-only names survive.
	assert.Equal(t, "2024", NormalizeColumn("2024"))
	// Empty stays empty so the caller can fall back to a positional name.
	assert.Equal(t, "", NormalizeColumn("###"))
}

func TestResolve(t *testing.T) {
	target, err := Resolve("order20250822", false, "")
	require.NoError(t, err)
	assert.Equal(t, "ORDER", target.Name)
	assert.False(t, target.Explicit)

	target, err = Resolve("order20250822", true, "")
	require.NoError(t, err)
	assert.Equal(t, "ORDER20250822", target.Name)

	target, err = Resolve("whatever", false, "custom name")
	require.NoError(t, err)
	assert.Equal(t, "CUSTOM_NAME", target.Name)
	assert.True(t, target.Explicit)
}

func TestResolveRejectsEmptyIdentifier(t *testing.T) {
	_, err := Resolve("!!!", false, "")
	assert.Error(t, err)

	_, err = Resolve("ok", false, "###")
	assert.Error(t, err)
}
