// ABOUTME: Profile viewport controller composing header, sticky, swipe and sport logic
// ABOUTME: Owns the screen's interaction state and exposes a single read model

package viewport

import (
	"math"

	"github.com/cockroachdb/errors"

	"profile-viewer/profile"
)

// ErrSportUnavailable is returned when switching to a sport the owner has no data for
var ErrSportUnavailable = errors.New("sport not available for this profile")

// Logger receives diagnostics from the controller
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// Action is a profile action button
type Action string

// Action buttons; Edit is exclusive with the others
const (
	ActionEdit     Action = "edit"
	ActionFollow   Action = "follow"
	ActionUnfollow Action = "unfollow"
	ActionMessage  Action = "message"
)

// ViewState is the read model consumed by the rendering layer
type ViewState struct {
	Offset         float64
	Header         HeaderTransform
	Sticky         bool
	ActiveTab      profile.Tab
	Sport          profile.Sport
	Following      bool
	OwnProfile     bool
	CanSwitchSport bool
	Gesture        GesturePhase
}

// Actions returns the action buttons to show: edit on one's own profile,
// follow or unfollow plus message on anyone else's.
func (v ViewState) Actions() []Action {
	if v.OwnProfile {
		return []Action{ActionEdit}
	}

	if v.Following {
		return []Action{ActionUnfollow, ActionMessage}
	}

	return []Action{ActionFollow, ActionMessage}
}

// Options configures a Controller
type Options struct {
	Geometry Geometry
	Swipe    SwipeConfig
	Subject  *profile.User // profile owner; must have at least one sub-profile
	ViewerID string
	Inputs   SportInputs // Global and Default are filled from Store and Subject when empty
	Store    SportStore
	Logger   Logger
}

// Controller owns the profile screen's view state for one screen instance.
// It is not safe for concurrent use; drive it from the UI event loop.
type Controller struct {
	subject *profile.User
	store   SportStore
	logger  Logger

	geometry Geometry
	mapper   *HeaderCollapseMapper
	sticky   *StickyEvaluator
	swipe    *SwipeTracker

	offset     float64
	header     HeaderTransform
	activeTab  profile.Tab
	sport      profile.Sport
	following  bool
	ownProfile bool

	animate     []func(HeaderTransform)
	transition  []func(bool)
	unsubscribe func()
	closed      bool
}

// NewController resolves the initial sport and creates a controller at offset 0 on the Highlights tab
func NewController(opts Options) (*Controller, error) {
	if opts.Subject == nil {
		return nil, errors.New("controller requires a profile subject")
	}

	mapper, err := NewHeaderCollapseMapper(opts.Geometry)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	inputs := opts.Inputs
	if inputs.Global == "" && opts.Store != nil {
		inputs.Global = opts.Store.Read()
	}
	if inputs.Default == "" {
		inputs.Default = opts.Subject.DefaultSport
	}

	sport, err := ResolveSport(opts.Subject, inputs)
	if err != nil {
		return nil, errors.Wrapf(err, "subject %s", opts.Subject.ID)
	}

	c := &Controller{
		subject:    opts.Subject,
		store:      opts.Store,
		logger:     logger,
		geometry:   opts.Geometry,
		mapper:     mapper,
		sticky:     NewStickyEvaluator(opts.Geometry),
		swipe:      NewSwipeTracker(opts.Swipe),
		header:     mapper.Map(0),
		activeTab:  profile.Highlights,
		sport:      sport,
		ownProfile: opts.Subject.ID == opts.ViewerID,
	}

	logger.Debug("sport resolved",
		"subject", opts.Subject.ID,
		"sport", sport,
		"context", inputs.Context,
		"viewer", inputs.Viewer,
		"global", inputs.Global,
		"default", inputs.Default)

	// Local selection wins and becomes the new global
	if c.store != nil {
		c.store.Write(sport)

		if sub, ok := c.store.(sportSubscriber); ok {
			c.unsubscribe = sub.Subscribe(c.onGlobalSport)
		}
	}

	return c, nil
}

// OnAnimate registers fn to receive the header transform on every scroll update
func (c *Controller) OnAnimate(fn func(HeaderTransform)) {
	if c.closed || fn == nil {
		return
	}

	c.animate = append(c.animate, fn)
}

// OnTransition registers fn to receive the sticky value each time it flips
func (c *Controller) OnTransition(fn func(bool)) {
	if c.closed || fn == nil {
		return
	}

	c.transition = append(c.transition, fn)
}

// Scroll feeds a new scroll offset. The header transform is recomputed and
// published unconditionally; the sticky flag only when it crosses the threshold.
func (c *Controller) Scroll(offset float64) {
	if c.closed {
		return
	}

	if offset < 0 || math.IsNaN(offset) {
		offset = 0
	}

	c.offset = offset
	c.header = c.mapper.Map(offset)

	for _, fn := range c.animate {
		fn(c.header)
	}

	sticky, changed := c.sticky.Observe(offset)
	if !changed {
		return
	}

	c.logger.Debug("sticky tab bar changed", "sticky", sticky, "offset", offset)

	for _, fn := range c.transition {
		fn(sticky)
	}
}

// BeginDrag starts a drag gesture
func (c *Controller) BeginDrag() {
	if c.closed {
		return
	}

	c.swipe.Begin()
}

// Drag feeds the cumulative displacement of the gesture in progress
func (c *Controller) Drag(dx, dy float64) GesturePhase {
	if c.closed {
		return GestureIdle
	}

	return c.swipe.Move(c.activeTab, dx, dy)
}

// EndDrag finishes the gesture and returns true when it changed the active tab
func (c *Controller) EndDrag(dx, dy float64) bool {
	if c.closed {
		return false
	}

	next, ok := c.swipe.Release(c.activeTab, dx, dy)
	if !ok {
		return false
	}

	c.logger.Debug("tab swiped", "from", c.activeTab, "to", next, "dx", dx)
	c.activeTab = next

	return true
}

// CancelDrag abandons the gesture in progress
func (c *Controller) CancelDrag() {
	if c.closed {
		return
	}

	c.swipe.Cancel()
}

// SelectTab activates tab directly (tab tap). Scroll position is kept.
func (c *Controller) SelectTab(tab profile.Tab) bool {
	if c.closed || tab == c.activeTab || tab < profile.Highlights || tab > profile.Stats {
		return false
	}

	c.activeTab = tab

	return true
}

// CanSwitchSport reports whether the owner offers more than one sport
func (c *Controller) CanSwitchSport() bool {
	return len(c.subject.AvailableSports()) > 1
}

// SetSport switches the displayed sport without touching tab or scroll state,
// and publishes it as the new global sport.
func (c *Controller) SetSport(sport profile.Sport) error {
	if c.closed {
		return nil
	}

	if !c.subject.HasSport(sport) {
		return errors.Wrapf(ErrSportUnavailable, "%s", sport)
	}

	if sport == c.sport {
		return nil
	}

	c.sport = sport
	if c.store != nil {
		c.store.Write(sport)
	}

	return nil
}

// CycleSport switches to the owner's next sport and returns it.
// Returns false when the owner has a single sport.
func (c *Controller) CycleSport() (profile.Sport, bool) {
	if c.closed || !c.CanSwitchSport() {
		return c.sport, false
	}

	sports := c.subject.AvailableSports()

	next := sports[0]
	for i, s := range sports {
		if s == c.sport {
			next = sports[(i+1)%len(sports)]
			break
		}
	}

	if err := c.SetSport(next); err != nil {
		return c.sport, false
	}

	return next, true
}

// ToggleFollow flips the follow state. It is a no-op on one's own profile.
func (c *Controller) ToggleFollow() bool {
	if c.closed || c.ownProfile {
		return false
	}

	c.following = !c.following

	return true
}

// ReplaceProfile swaps in reloaded data for the same subject.
// The displayed sport is re-checked on the next SubProfile call.
func (c *Controller) ReplaceProfile(u *profile.User) {
	if c.closed || u == nil {
		return
	}

	c.subject = u
}

// Subject returns the profile owner
func (c *Controller) Subject() *profile.User {
	return c.subject
}

// SubProfile returns the sub-profile for the displayed sport. If the data no
// longer has that sport, it falls back to the first available one and logs it.
func (c *Controller) SubProfile() *profile.SubProfile {
	if sp := c.subject.SubProfile(c.sport); sp != nil {
		return sp
	}

	fallback, err := fallbackSport(c.subject)
	if err != nil {
		c.logger.Warn("profile has no sport data", "subject", c.subject.ID, "sport", c.sport)
		return nil
	}

	c.logger.Warn("displayed sport missing from profile, re-resolving",
		"subject", c.subject.ID,
		"missing", c.sport,
		"fallback", fallback)

	c.sport = fallback

	return c.subject.SubProfile(fallback)
}

// State returns the current read model
func (c *Controller) State() ViewState {
	return ViewState{
		Offset:         c.offset,
		Header:         c.header,
		Sticky:         c.sticky.Sticky(),
		ActiveTab:      c.activeTab,
		Sport:          c.sport,
		Following:      c.following,
		OwnProfile:     c.ownProfile,
		CanSwitchSport: c.CanSwitchSport(),
		Gesture:        c.swipe.Phase(),
	}
}

// Geometry returns the header geometry the controller was built with
func (c *Controller) Geometry() Geometry {
	return c.geometry
}

// Close detaches the controller from the sport store and drops its listeners.
// Events delivered afterwards are ignored.
func (c *Controller) Close() {
	if c.closed {
		return
	}

	c.closed = true
	c.swipe.Cancel()

	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}

	c.animate = nil
	c.transition = nil
}

// Closed reports whether Close has been called
func (c *Controller) Closed() bool {
	return c.closed
}

// onGlobalSport applies a global sport change made elsewhere when the owner has that sport
func (c *Controller) onGlobalSport(sport profile.Sport) {
	if c.closed || sport == c.sport || !c.subject.HasSport(sport) {
		return
	}

	c.logger.Debug("global sport changed", "from", c.sport, "to", sport)
	c.sport = sport
}
