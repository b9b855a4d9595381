// ABOUTME: Horizontal swipe gesture state machine for tab navigation
// ABOUTME: Idle -> tracking on activation, tracking -> committed on a far enough release

package viewport

import (
	"math"

	"profile-viewer/profile"
)

// Default swipe thresholds, in points
const (
	DefaultActivationDistance = 10
	DefaultCommitDistance     = 50
)

// GesturePhase is the swipe tracker's state
type GesturePhase int

// Gesture phases
const (
	GestureIdle      GesturePhase = iota // no swipe candidate
	GestureTracking                      // horizontal swipe candidate in progress
	GestureCommitted                     // last gesture changed the tab
)

func (p GesturePhase) String() string {
	switch p {
	case GestureIdle:
		return "idle"
	case GestureTracking:
		return "tracking"
	case GestureCommitted:
		return "committed"
	default:
		return "unknown"
	}
}

// SwipeConfig holds the swipe thresholds and the tab whose content owns horizontal drags
type SwipeConfig struct {
	ActivationDistance float64
	CommitDistance     float64
	LockedTab          profile.Tab
}

// DefaultSwipeConfig returns the standard thresholds with swiping disabled over Matches
func DefaultSwipeConfig() SwipeConfig {
	return SwipeConfig{
		ActivationDistance: DefaultActivationDistance,
		CommitDistance:     DefaultCommitDistance,
		LockedTab:          profile.Matches,
	}
}

// GestureSample is the cumulative displacement of the gesture in progress
type GestureSample struct {
	DX float64
	DY float64
}

// ShouldActivate reports whether a drag should start tracking as a tab swipe:
// the tab allows swiping, the drag is mostly horizontal, and it has moved far enough.
func ShouldActivate(active profile.Tab, dx, dy float64, cfg SwipeConfig) bool {
	if active == cfg.LockedTab {
		return false
	}

	return math.Abs(dx) > math.Abs(dy) && math.Abs(dx) > cfg.ActivationDistance
}

// ResolveSwipe returns the tab a released swipe moves to, and whether it moves at all.
// Left (negative dx) advances, right retreats, and the ends of the tab order are no-ops.
func ResolveSwipe(active profile.Tab, dx float64, cfg SwipeConfig) (profile.Tab, bool) {
	if math.Abs(dx) <= cfg.CommitDistance {
		return active, false
	}

	if dx < 0 {
		return active.Next()
	}

	return active.Prev()
}

// SwipeTracker reduces a drag gesture stream to at most one tab transition
type SwipeTracker struct {
	cfg    SwipeConfig
	phase  GesturePhase
	sample GestureSample
}

// NewSwipeTracker creates an idle tracker
func NewSwipeTracker(cfg SwipeConfig) *SwipeTracker {
	return &SwipeTracker{cfg: cfg}
}

// Begin starts a new gesture, discarding any previous sample
func (s *SwipeTracker) Begin() {
	s.phase = GestureIdle
	s.sample = GestureSample{}
}

// Move records the gesture's cumulative displacement and returns the phase.
// An idle gesture starts tracking once the activation predicate holds.
func (s *SwipeTracker) Move(active profile.Tab, dx, dy float64) GesturePhase {
	if s.phase == GestureCommitted {
		s.Begin()
	}

	s.sample = GestureSample{DX: dx, DY: dy}

	if s.phase == GestureIdle && ShouldActivate(active, dx, dy, s.cfg) {
		s.phase = GestureTracking
	}

	return s.phase
}

// Release ends the gesture. It returns the new tab and true when the gesture
// was tracked and went past the commit distance.
func (s *SwipeTracker) Release(active profile.Tab, dx, dy float64) (profile.Tab, bool) {
	s.Move(active, dx, dy)

	tracking := s.phase == GestureTracking
	s.sample = GestureSample{}
	s.phase = GestureIdle

	if !tracking || active == s.cfg.LockedTab {
		return active, false
	}

	next, ok := ResolveSwipe(active, dx, s.cfg)
	if ok {
		s.phase = GestureCommitted
	}

	return next, ok
}

// Cancel abandons the gesture in progress
func (s *SwipeTracker) Cancel() {
	s.Begin()
}

// Phase returns the current phase
func (s *SwipeTracker) Phase() GesturePhase {
	return s.phase
}

// Sample returns the displacement of the gesture in progress
func (s *SwipeTracker) Sample() GestureSample {
	return s.sample
}
