// ABOUTME: Sport context resolution across context, viewer, global and default candidates
// ABOUTME: Also defines the injected ambient sport store interface

package viewport

import (
	"github.com/cockroachdb/errors"

	"profile-viewer/profile"
)

// ErrNoSubProfiles is returned when the profile owner has no sport data at all
var ErrNoSubProfiles = errors.New("profile owner has no sport sub-profiles")

// SportStore is the app-wide current sport shared across screens
type SportStore interface {
	Read() profile.Sport
	Write(s profile.Sport)
}

// sportSubscriber is implemented by stores that publish changes made elsewhere
type sportSubscriber interface {
	Subscribe(fn func(profile.Sport)) func()
}

// SportOwner reports which sports a profile owner has data for
type SportOwner interface {
	HasSport(s profile.Sport) bool
	AvailableSports() []profile.Sport
}

// SportInputs are the resolution candidates; an empty Sport means "not supplied"
type SportInputs struct {
	Context profile.Sport // caller-supplied, e.g. opened from a soccer match
	Viewer  profile.Sport // the viewing user's own preference
	Global  profile.Sport // app-wide current sport
	Default profile.Sport // the owner's stated default
}

// ResolveSport picks the first candidate the owner has data for, in priority order
// context, viewer, global, default. When none match it falls back to the first
// available sport in canonical order.
func ResolveSport(owner SportOwner, in SportInputs) (profile.Sport, error) {
	for _, candidate := range []profile.Sport{in.Context, in.Viewer, in.Global, in.Default} {
		if candidate != "" && owner.HasSport(candidate) {
			return candidate, nil
		}
	}

	return fallbackSport(owner)
}

// fallbackSport returns the first sport the owner has, preferring canonical order
func fallbackSport(owner SportOwner) (profile.Sport, error) {
	available := owner.AvailableSports()
	if len(available) == 0 {
		return "", ErrNoSubProfiles
	}

	return available[0], nil
}
