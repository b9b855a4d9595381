// ABOUTME: Fixture loading for profile directories (JSON via sonic, YAML via yaml.v3)
// ABOUTME: Validates decoded users and provides the embedded sample directory

package profile

import (
	"embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/*.json
var fixtures embed.FS

// defaultFixture is the embedded sample directory used when no file is given
const defaultFixture = "fixtures/sample.json"

// ErrUserNotFound is returned when a directory lookup misses
var ErrUserNotFound = errors.New("user not found")

// Directory is a set of users loaded from one fixture file
type Directory struct {
	Viewer string  `json:"viewer" yaml:"viewer"`
	Users  []*User `json:"users" yaml:"users" validate:"min=1,dive,required"`
}

var validate = newValidator()

// newValidator registers the "sport" tag: a known sport in its canonical spelling
func newValidator() *validator.Validate {
	v := validator.New()

	if err := v.RegisterValidation("sport", func(fl validator.FieldLevel) bool {
		sport, ok := ParseSport(fl.Field().String())
		return ok && string(sport) == fl.Field().String()
	}); err != nil {
		panic(err)
	}

	return v
}

// Lookup returns the user with the given ID
func (d *Directory) Lookup(id string) (*User, error) {
	for _, u := range d.Users {
		if u.ID == id {
			return u, nil
		}
	}

	return nil, errors.Wrapf(ErrUserNotFound, "id %q", id)
}

// Visit is who is looking at whose profile
type Visit struct {
	Subject     *User
	ViewerID    string
	ViewerSport Sport // viewer's own preference, empty when unknown
}

// Visit resolves a profile visit. Empty IDs default to the fixture's viewer and
// an empty viewer sport falls back to the viewer's default sport.
func (d *Directory) Visit(subjectID, viewerID string, viewerSport Sport) (Visit, error) {
	if subjectID == "" {
		subjectID = d.Viewer
	}

	subject, err := d.Lookup(subjectID)
	if err != nil {
		return Visit{}, errors.Wrap(err, "unknown subject")
	}

	if viewerID == "" {
		viewerID = d.Viewer
	}

	if viewerSport == "" {
		if viewer, err := d.Lookup(viewerID); err == nil {
			viewerSport = viewer.DefaultSport
		}
	}

	return Visit{Subject: subject, ViewerID: viewerID, ViewerSport: viewerSport}, nil
}

// LoadDirectory reads a fixture file, choosing the decoder by extension.
// An empty path loads the embedded sample directory.
func LoadDirectory(path string) (*Directory, error) {
	if path == "" {
		data, err := fixtures.ReadFile(defaultFixture)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read embedded fixture")
		}

		return DecodeDirectory(data, ".json")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read profile fixture")
	}

	dir, err := DecodeDirectory(data, filepath.Ext(path))
	if err != nil {
		return nil, errors.Wrapf(err, "fixture %s", path)
	}

	return dir, nil
}

// DecodeDirectory decodes and validates fixture bytes.
// ext selects the format: ".yaml"/".yml" for YAML, anything else for JSON.
func DecodeDirectory(data []byte, ext string) (*Directory, error) {
	var dir Directory

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &dir); err != nil {
			return nil, errors.Wrap(err, "failed to parse YAML fixture")
		}
	default:
		if err := sonic.Unmarshal(data, &dir); err != nil {
			return nil, errors.Wrap(err, "failed to parse JSON fixture")
		}
	}

	// A default sport without a sub-profile is allowed; resolution falls through it
	if err := validate.Struct(&dir); err != nil {
		return nil, errors.Wrap(err, "invalid fixture")
	}

	return &dir, nil
}
