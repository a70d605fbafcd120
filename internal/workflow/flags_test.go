package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasDryRunToken(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want bool
	}{
		{"empty", nil, false},
		{"long", []string{"--dry-run"}, true},
		{"short", []string{"-d"}, true},
		{"among others", []string{"--title", "API", "-d", "pkg"}, true},
		{"explicit value is not the token", []string{"--dry-run=true"}, false},
		{"combined shorthand is not the token", []string{"-vd"}, false},
		{"unrelated", []string{"--dry", "-dd"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HasDryRunToken(tc.args))
		})
	}
}

func TestParseFlags(t *testing.T) {
	flags, err := ParseFlags([]string{"-d", "--title", "API", "./pkg"})
	require.NoError(t, err)
	assert.True(t, flags.DryRun)
	assert.Equal(t, []string{"./pkg"}, flags.Rest)

	flags, err = ParseFlags(nil)
	require.NoError(t, err)
	assert.False(t, flags.DryRun)
}

func TestParseFlags_ToleratesUnknownFlags(t *testing.T) {
	flags, err := ParseFlags([]string{"--unexported", "--dry-run"})
	require.NoError(t, err)
	assert.True(t, flags.DryRun)
}

func TestParseFlags_InvalidBoolValue(t *testing.T) {
	_, err := ParseFlags([]string{"--dry-run=maybe"})
	require.Error(t, err)
}
