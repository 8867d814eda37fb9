package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/satmap/pkg/errors"
)

func TestDefault(t *testing.T) {
	rs := Default()
	require.NoError(t, rs.Validate())
	assert.Equal(t, DefaultVersion, rs.Version)

	r, ok := rs.Match("561090")
	require.True(t, ok)
	assert.Equal(t, "Limpieza e Higiene", r.Sector)
	assert.True(t, r.Allows("76"))
	assert.True(t, r.Allows("47"))
	assert.False(t, r.Allows("56"))

	r, ok = rs.Match("541110")
	require.True(t, ok)
	assert.Equal(t, []string{"80"}, r.AllowedDivisions)

	_, ok = rs.Match("311110")
	assert.False(t, ok)

	assert.Equal(t, []string{"47", "76", "80"}, rs.Divisions())
}

func TestLoad(t *testing.T) {
	rs, err := Load(filepath.Join("testdata", "rules.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "2026.2", rs.Version)
	require.Len(t, rs.Rules, 3)
	assert.Empty(t, rs.Rules[2].Families)

	r, ok := rs.Match("484110")
	require.True(t, ok)
	assert.Equal(t, "Transporte de Carga", r.Sector)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		parse bool
	}{
		{"malformed yaml", "rules: [", true},
		{"unknown field", "version: x\nrulez: []\n", true},
		{"non digit prefix", "rules:\n  - activity_prefix: \"5a\"\n    allowed_divisions: [\"76\"]\n", false},
		{"no divisions", "rules:\n  - activity_prefix: \"56\"\n", false},
		{"bad division", "rules:\n  - activity_prefix: \"56\"\n    allowed_divisions: [\"761\"]\n", false},
		{"bad family", "rules:\n  - activity_prefix: \"56\"\n    allowed_divisions: [\"76\"]\n    families: [\"x\"]\n", false},
		{"overlap", "rules:\n  - activity_prefix: \"56\"\n    allowed_divisions: [\"76\"]\n  - activity_prefix: \"561\"\n    allowed_divisions: [\"47\"]\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			if tt.parse {
				var pe *errors.ParseError
				assert.ErrorAs(t, err, &pe)
			} else {
				assert.True(t, errors.IsValidationError(err), err.Error())
			}
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "activity_prefix")

	rs, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default(), rs)
}
