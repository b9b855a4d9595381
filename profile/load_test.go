// ABOUTME: Tests for fixture decoding and validation
// ABOUTME: Covers the embedded sample, YAML files and rejected fixtures

package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDirectory_Embedded(t *testing.T) {
	dir, err := LoadDirectory("")
	require.NoError(t, err)

	assert.Equal(t, "u-jordan", dir.Viewer)
	require.Len(t, dir.Users, 3)

	jordan, err := dir.Lookup("u-jordan")
	require.NoError(t, err)
	assert.Equal(t, []Sport{Soccer, Basketball}, jordan.AvailableSports())

	sam, err := dir.Lookup("u-sam")
	require.NoError(t, err)
	assert.Equal(t, []Sport{Basketball}, sam.AvailableSports())
}

func TestLookup_Missing(t *testing.T) {
	dir, err := LoadDirectory("")
	require.NoError(t, err)

	_, err = dir.Lookup("nobody")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestDirectory_Visit(t *testing.T) {
	dir, err := LoadDirectory("")
	require.NoError(t, err)

	v, err := dir.Visit("", "", "")
	require.NoError(t, err)
	assert.Equal(t, "u-jordan", v.Subject.ID)
	assert.Equal(t, "u-jordan", v.ViewerID)
	assert.Equal(t, Soccer, v.ViewerSport)

	v, err = dir.Visit("u-jordan", "u-alex", "")
	require.NoError(t, err)
	assert.Equal(t, "u-alex", v.ViewerID)
	assert.Equal(t, Basketball, v.ViewerSport, "viewer's default sport")

	v, err = dir.Visit("u-jordan", "u-alex", Soccer)
	require.NoError(t, err)
	assert.Equal(t, Soccer, v.ViewerSport, "explicit preference wins")

	v, err = dir.Visit("u-sam", "nobody", "")
	require.NoError(t, err)
	assert.Empty(t, v.ViewerSport)

	_, err = dir.Visit("nobody", "", "")
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestLoadDirectory_YAML(t *testing.T) {
	content := `viewer: a
users:
  - id: a
    handle: a1
    name: Ann
    default_sport: basketball
    sports:
      soccer:
        position: Keeper
        stats:
          - label: Saves
            value: 40
`
	path := filepath.Join(t.TempDir(), "dir.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	dir, err := LoadDirectory(path)
	require.NoError(t, err)

	ann, err := dir.Lookup("a")
	require.NoError(t, err)
	assert.Equal(t, Basketball, ann.DefaultSport)
	assert.True(t, ann.HasSport(Soccer))
	assert.Equal(t, "Keeper", ann.SubProfile(Soccer).Position)
}

func TestDecodeDirectory_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed json", `{"users": [`},
		{"no users", `{"users": []}`},
		{"missing name", `{"users": [{"id": "x", "handle": "x", "sports": {"soccer": {}}}]}`},
		{"no sub-profiles", `{"users": [{"id": "x", "handle": "x", "name": "X", "sports": {}}]}`},
		{"unknown default sport", `{"users": [{"id": "x", "handle": "x", "name": "X", "default_sport": "soccr", "sports": {"soccer": {}}}]}`},
		{"mixed-case default sport", `{"users": [{"id": "x", "handle": "x", "name": "X", "default_sport": "Soccer", "sports": {"soccer": {}}}]}`},
		{"unknown sport key", `{"users": [{"id": "x", "handle": "x", "name": "X", "sports": {"cricket": {}}}]}`},
		{"bad match result", `{"users": [{"id": "x", "handle": "x", "name": "X", "sports": {"soccer": {"matches": [{"opponent": "Y", "result": "T"}]}}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDirectory([]byte(tt.data), ".json")
			assert.Error(t, err)
		})
	}
}

func TestLoadDirectory_MissingFile(t *testing.T) {
	_, err := LoadDirectory(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
