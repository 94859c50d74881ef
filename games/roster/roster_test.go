package roster

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	r := Default()

	require.Len(t, r, 17)
	assert.Equal(t, "1", r[0].ID)
	assert.Equal(t, "TRALALERO TRALALA", r[0].Name)

	seen := make(map[string]bool)
	for _, c := range r {
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
		assert.NotEmpty(t, c.Name)
		assert.NotEmpty(t, c.Story)
	}
}

func TestRosterByID(t *testing.T) {
	r := Default()

	c, ok := r.ByID("7")
	require.True(t, ok)
	assert.Equal(t, "BANDITO BOBRITTO", c.Name)

	_, ok = r.ByID("nope")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	valid := `characters:
  - id: a
    name: A
    tags: [Coffee]
    rarity: Common
    species: Object
    element: Coffee
    alignment: Good
    size: Small
`

	tests := []struct {
		name    string
		input   string
		wantLen int
		wantErr string
	}{
		{
			name:    "valid",
			input:   valid,
			wantLen: 1,
		},
		{
			name:    "empty document",
			input:   "",
			wantLen: 0,
		},
		{
			name:    "missing id",
			input:   strings.Replace(valid, "id: a", "id: \"\"", 1),
			wantErr: "missing id",
		},
		{
			name:    "duplicate id",
			input:   valid + strings.TrimPrefix(valid, "characters:\n"),
			wantErr: "duplicate id",
		},
		{
			name:    "unknown element",
			input:   strings.Replace(valid, "element: Coffee", "element: Tea", 1),
			wantErr: "unknown element",
		},
		{
			name:    "unknown field",
			input:   strings.Replace(valid, "name: A", "nickname: A", 1),
			wantErr: "parsing YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse(strings.NewReader(tt.input))

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Len(t, r, tt.wantLen)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.yaml")
	require.NoError(t, os.WriteFile(path, defaultRoster, 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), r)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestHasTag(t *testing.T) {
	c := Character{Tags: []string{"Coffee", "Dance"}}

	assert.True(t, c.HasTag("Dance"))
	assert.False(t, c.HasTag("dance"))
}
