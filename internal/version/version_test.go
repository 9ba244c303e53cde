package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePadsComponents(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.0", "1.0.0"},
		{"2", "2.0.0"},
		{"1.2.3", "1.2.3"},
		{"v1.4", "1.4.0"},
		{"1.0-rc.1", "1.0.0-rc.1"},
	}
	for _, tt := range tests {
		v, err := Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, v.String())
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "1..2"} {
		_, err := Parse(in)
		assert.Error(t, err, in)
	}
}

func TestRangeContains(t *testing.T) {
	r, err := ParseRange("[1.0,2.0)")
	require.NoError(t, err)

	for v, want := range map[string]bool{
		"1.0.0": true,
		"1.5.0": true,
		"1.9.9": true,
		"2.0.0": false,
		"0.9.9": false,
		"2.1.0": false,
	} {
		pv, err := Parse(v)
		require.NoError(t, err)
		assert.Equal(t, want, r.Contains(pv), v)
	}
}

func TestRangeBoundInclusivity(t *testing.T) {
	v2, _ := Parse("2.0.0")
	v1, _ := Parse("1.0.0")

	inc, err := ParseRange("[1.0,2.0]")
	require.NoError(t, err)
	assert.True(t, inc.Contains(v2))

	exc, err := ParseRange("(1.0,2.0)")
	require.NoError(t, err)
	assert.False(t, exc.Contains(v1))
	assert.False(t, exc.Contains(v2))
}

func TestRangeUnbounded(t *testing.T) {
	r, err := ParseRange("[1.0,)")
	require.NoError(t, err)
	v, _ := Parse("99.0.0")
	assert.True(t, r.Contains(v))
}

func TestRangeParseErrors(t *testing.T) {
	for _, in := range []string{"1.0,2.0", "[1.0;2.0)", "[1.0,2.0,3.0)", "[]"} {
		_, err := ParseRange(in)
		assert.Error(t, err, in)
	}
}

func TestRangeString(t *testing.T) {
	r, err := ParseRange("[1.0,3.0)")
	require.NoError(t, err)
	assert.Equal(t, "[1.0.0,3.0.0)", r.String())
}

func TestHostVersionParses(t *testing.T) {
	assert.NotPanics(t, func() { HostVersion() })
}
