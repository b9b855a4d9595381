// ABOUTME: Unit tests for TUI model behavior
// ABOUTME: Drives Update with synthesized key, mouse and reload messages

package tui

import (
	"errors"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"profile-viewer/config"
	"profile-viewer/profile"
	"profile-viewer/viewport"
)

// createTestModel creates a sized model over the embedded sample fixture
func createTestModel(t *testing.T, opts Options, store *profile.SportStore) model {
	t.Helper()

	dir, err := profile.LoadDirectory("")
	if err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}

	sharedCfg := &config.SharedConfig{}
	sharedCfg.Update(config.DefaultConfig())

	deps := Dependencies{
		ConfigProvider: sharedCfg,
		Store:          store,
		LoadDirectory: func(string) (*profile.Directory, error) {
			return dir, nil
		},
	}

	m, err := initModel(dir, opts, deps)
	if err != nil {
		t.Fatalf("initModel failed: %v", err)
	}
	t.Cleanup(m.close)

	m, _ = send(m, tea.WindowSizeMsg{Width: 100, Height: 40})

	return m
}

// send delivers one message and returns the updated model
func send(m model, msg tea.Msg) (model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(model), cmd
}

// pressKey sends a rune key press
func pressKey(m model, k string) (model, tea.Cmd) {
	return send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
}

// settle runs animation frames until the spring comes to rest
func settle(t *testing.T, m model) model {
	t.Helper()

	for i := 0; m.animating; i++ {
		if i > 5000 {
			t.Fatal("scroll animation did not settle")
		}

		m, _ = send(m, frameMsg{epoch: m.animEpoch})
	}

	return m
}

// drag sends a left-button press, one motion and a release
func drag(m model, fromX, fromY, toX, toY int) model {
	m, _ = send(m, tea.MouseMsg{X: fromX, Y: fromY, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m, _ = send(m, tea.MouseMsg{X: toX, Y: toY, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	m, _ = send(m, tea.MouseMsg{X: toX, Y: toY, Button: tea.MouseButtonNone, Action: tea.MouseActionRelease})

	return m
}

func TestModelInitialization(t *testing.T) {
	m := createTestModel(t, Options{SubjectID: "u-jordan", ViewerID: "u-alex"}, nil)

	st := m.ctrl.State()
	if st.ActiveTab != profile.Highlights {
		t.Errorf("Expected Highlights tab, got %v", st.ActiveTab)
	}

	if st.Offset != 0 || st.Sticky {
		t.Errorf("Expected top of page, got offset %.0f sticky %v", st.Offset, st.Sticky)
	}

	// Alex prefers basketball and Jordan plays it
	if st.Sport != profile.Basketball {
		t.Errorf("Expected viewer's sport basketball, got %s", st.Sport)
	}

	if st.OwnProfile {
		t.Error("Expected someone else's profile")
	}
}

func TestModelInitialization_ContextSportWins(t *testing.T) {
	m := createTestModel(t, Options{SubjectID: "u-jordan", ViewerID: "u-alex", ContextSport: profile.Soccer}, nil)

	if got := m.ctrl.State().Sport; got != profile.Soccer {
		t.Errorf("Expected context sport soccer, got %s", got)
	}
}

func TestModelInitialization_UnknownSubject(t *testing.T) {
	dir, err := profile.LoadDirectory("")
	if err != nil {
		t.Fatal(err)
	}

	sharedCfg := &config.SharedConfig{}
	sharedCfg.Update(config.DefaultConfig())

	_, err = initModel(dir, Options{SubjectID: "nobody"}, Dependencies{ConfigProvider: sharedCfg})
	if !errors.Is(err, profile.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestScreenDirectoryReusesLoadedFixture(t *testing.T) {
	dir, err := profile.LoadDirectory("")
	if err != nil {
		t.Fatal(err)
	}

	loads := 0
	deps := Dependencies{
		LoadDirectory: func(string) (*profile.Directory, error) {
			loads++
			return dir, nil
		},
	}

	got, err := screenDirectory(Options{Directory: dir, FixturePath: "profiles.json"}, deps)
	if err != nil || got != dir {
		t.Fatalf("Expected preloaded directory, got %v, %v", got, err)
	}

	if loads != 0 {
		t.Errorf("Expected no fixture reload, got %d loads", loads)
	}

	if _, err := screenDirectory(Options{FixturePath: "profiles.json"}, deps); err != nil {
		t.Fatal(err)
	}

	if loads != 1 {
		t.Errorf("Expected one load without a preloaded directory, got %d", loads)
	}
}

func TestKeyScrollAnimates(t *testing.T) {
	m := createTestModel(t, Options{SubjectID: "u-jordan"}, nil)

	m, cmd := pressKey(m, "j")
	if cmd == nil || !m.animating {
		t.Fatal("Expected scroll to start the animation")
	}

	// Two wheel rows of 42 points
	if m.target != 84 {
		t.Errorf("Expected target 84, got %.0f", m.target)
	}

	m = settle(t, m)

	if got := m.ctrl.State().Offset; got != 84 {
		t.Errorf("Expected offset 84 after settling, got %.2f", got)
	}

	if m.stats.frames < 2 {
		t.Errorf("Expected a stream of animation frames, got %d", m.stats.frames)
	}
}

func TestScrollToBottomDocksTabBar(t *testing.T) {
	m := createTestModel(t, Options{SubjectID: "u-jordan", ContextSport: profile.Soccer}, nil)

	m, _ = pressKey(m, "G")
	m = settle(t, m)

	st := m.ctrl.State()
	if !st.Sticky {
		t.Errorf("Expected sticky tab bar at offset %.0f", st.Offset)
	}

	if st.Header.Opacity != 0 {
		t.Errorf("Expected fully faded header, got %.2f", st.Header.Opacity)
	}

	if m.stats.transitions != 1 || !m.stats.sticky {
		t.Errorf("Expected exactly one sticky transition, got %d", m.stats.transitions)
	}

	m, _ = pressKey(m, "g")
	m = settle(t, m)

	if m.ctrl.State().Sticky {
		t.Error("Expected tab bar back in the header at the top")
	}

	if m.stats.transitions != 2 {
		t.Errorf("Expected two sticky transitions, got %d", m.stats.transitions)
	}
}

func TestStaleFramesAreDropped(t *testing.T) {
	m := createTestModel(t, Options{SubjectID: "u-jordan"}, nil)

	m, _ = pressKey(m, "j")
	frames := m.stats.frames

	m, cmd := send(m, frameMsg{epoch: m.animEpoch - 1})
	if cmd != nil || m.stats.frames != frames || m.position != 0 {
		t.Error("Expected stale frame to be ignored")
	}
}

func TestWheelScroll(t *testing.T) {
	m := createTestModel(t, Options{SubjectID: "u-jordan"}, nil)

	m, _ = send(m, tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	m, _ = send(m, tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})

	if m.target != 168 {
		t.Errorf("Expected target 168, got %.0f", m.target)
	}

	m, _ = send(m, tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	m, _ = send(m, tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	m, _ = send(m, tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})

	if m.target != 0 {
		t.Errorf("Expected target clamped to 0, got %.0f", m.target)
	}
}

func TestTabKeys(t *testing.T) {
	m := createTestModel(t, Options{SubjectID: "u-jordan"}, nil)

	steps := []struct {
		key  string
		want profile.Tab
	}{
		{"h", profile.Highlights}, // already first
		{"l", profile.ProfileTab},
		{"4", profile.Stats},
		{"l", profile.Stats}, // already last
		{"h", profile.Matches},
		{"1", profile.Highlights},
	}

	for _, step := range steps {
		m, _ = pressKey(m, step.key)
		if got := m.ctrl.State().ActiveTab; got != step.want {
			t.Fatalf("After %q expected %v, got %v", step.key, step.want, got)
		}
	}
}

func TestTabSelectionKeepsScroll(t *testing.T) {
	m := createTestModel(t, Options{SubjectID: "u-jordan"}, nil)

	m, _ = pressKey(m, "j")
	m = settle(t, m)
	m, _ = pressKey(m, "3")

	if got := m.ctrl.State().Offset; got != 84 {
		t.Errorf("Expected offset kept at 84, got %.2f", got)
	}
}

func TestDragSwipeChangesTab(t *testing.T) {
	m := createTestModel(t, Options{SubjectID: "u-jordan"}, nil)

	// 10 columns left at 8 points each
	m = drag(m, 50, 30, 40, 30)

	if got := m.ctrl.State().ActiveTab; got != profile.ProfileTab {
		t.Errorf("Expected swipe left to reach Profile, got %v", got)
	}

	// 5 columns right is 40 points: activates but does not commit
	m = drag(m, 50, 30, 55, 30)

	if got := m.ctrl.State().ActiveTab; got != profile.ProfileTab {
		t.Errorf("Expected short swipe to keep Profile, got %v", got)
	}

	if m.ctrl.State().Gesture != viewport.GestureIdle {
		t.Error("Expected idle gesture after release")
	}
}

func TestDragOnMatchesMovesCarousel(t *testing.T) {
	m := createTestModel(t, Options{SubjectID: "u-jordan", ContextSport: profile.Soccer}, nil)
	m, _ = pressKey(m, "3")

	m = drag(m, 50, 30, 40, 30)

	if got := m.ctrl.State().ActiveTab; got != profile.Matches {
		t.Fatalf("Expected to stay on Matches, got %v", got)
	}

	if m.matchIndex != 1 {
		t.Errorf("Expected carousel at match 1, got %d", m.matchIndex)
	}

	m = drag(m, 40, 30, 50, 30)
	m = drag(m, 40, 30, 50, 30)

	if m.matchIndex != 0 {
		t.Errorf("Expected carousel clamped at first match, got %d", m.matchIndex)
	}

	m, _ = pressKey(m, "]")
	m, _ = pressKey(m, "]")

	if m.matchIndex != 2 {
		t.Errorf("Expected carousel at match 2, got %d", m.matchIndex)
	}
}

func TestVerticalDragScrollsPage(t *testing.T) {
	m := createTestModel(t, Options{SubjectID: "u-jordan"}, nil)

	// 5 rows up at 42 points each
	m = drag(m, 50, 30, 50, 25)

	st := m.ctrl.State()
	if st.Offset != 210 {
		t.Errorf("Expected offset 210, got %.2f", st.Offset)
	}

	if math.Abs(st.Header.Opacity-0.8) > 1e-9 {
		t.Errorf("Expected opacity 0.8, got %.3f", st.Header.Opacity)
	}

	if st.ActiveTab != profile.Highlights {
		t.Errorf("Expected no tab change, got %v", st.ActiveTab)
	}
}

func TestTapOutsideZonesIsNoop(t *testing.T) {
	m := createTestModel(t, Options{SubjectID: "u-jordan"}, nil)

	m = drag(m, 3, 3, 3, 3)

	st := m.ctrl.State()
	if st.ActiveTab != profile.Highlights || st.Following {
		t.Errorf("Expected tap to change nothing, got %+v", st)
	}
}

func TestSportKey(t *testing.T) {
	store := profile.NewSportStore("")
	m := createTestModel(t, Options{SubjectID: "u-jordan", ContextSport: profile.Soccer}, store)

	m, _ = pressKey(m, "3")
	m, _ = pressKey(m, "]")
	m, _ = pressKey(m, "s")

	st := m.ctrl.State()
	if st.Sport != profile.Basketball {
		t.Errorf("Expected basketball, got %s", st.Sport)
	}

	if st.ActiveTab != profile.Matches {
		t.Errorf("Expected tab kept, got %v", st.ActiveTab)
	}

	if m.matchIndex != 0 {
		t.Errorf("Expected carousel reset, got %d", m.matchIndex)
	}

	if got := store.Read(); got != profile.Basketball {
		t.Errorf("Expected global sport basketball, got %s", got)
	}
}

func TestSportKeySingleSport(t *testing.T) {
	m := createTestModel(t, Options{SubjectID: "u-sam"}, nil)

	m, _ = pressKey(m, "s")

	if got := m.ctrl.State().Sport; got != profile.Basketball {
		t.Errorf("Expected basketball, got %s", got)
	}

	if !strings.Contains(m.statusMsg, "only plays") {
		t.Errorf("Expected single sport message, got %q", m.statusMsg)
	}
}

func TestFollowKey(t *testing.T) {
	m := createTestModel(t, Options{SubjectID: "u-jordan", ViewerID: "u-alex"}, nil)

	m, _ = pressKey(m, "f")
	if !m.ctrl.State().Following {
		t.Error("Expected following after f")
	}

	m, _ = pressKey(m, "f")
	if m.ctrl.State().Following {
		t.Error("Expected unfollowed after second f")
	}

	own := createTestModel(t, Options{SubjectID: "u-jordan", ViewerID: "u-jordan"}, nil)
	own, _ = pressKey(own, "f")

	if own.ctrl.State().Following || own.statusMsg != "This is your profile" {
		t.Errorf("Expected follow to be unavailable on own profile, got %q", own.statusMsg)
	}
}

func TestFixtureReloadReResolvesSport(t *testing.T) {
	m := createTestModel(t, Options{SubjectID: "u-jordan", ContextSport: profile.Soccer}, nil)

	reloaded := *m.ctrl.Subject()
	reloaded.SubProfiles = map[profile.Sport]*profile.SubProfile{
		profile.Basketball: m.ctrl.Subject().SubProfiles[profile.Basketball],
	}

	m, _ = send(m, fixtureReloadedMsg{user: &reloaded})

	if got := m.ctrl.State().Sport; got != profile.Basketball {
		t.Errorf("Expected fallback to basketball, got %s", got)
	}

	if !strings.Contains(m.statusMsg, "no longer available") {
		t.Errorf("Expected fallback message, got %q", m.statusMsg)
	}

	if view := m.View(); !strings.Contains(view, "Buzzer beater") {
		t.Error("Expected basketball highlights to render")
	}
}

func TestFixtureReloadError(t *testing.T) {
	m := createTestModel(t, Options{SubjectID: "u-jordan"}, nil)
	before := m.ctrl.Subject()

	m, _ = send(m, fixtureReloadedMsg{err: errors.New("bad yaml")})

	if m.ctrl.Subject() != before {
		t.Error("Expected profile kept on reload error")
	}

	if !strings.HasPrefix(m.statusMsg, "Error reloading") {
		t.Errorf("Expected error status, got %q", m.statusMsg)
	}
}

func TestFileChangeRoutesReload(t *testing.T) {
	m := createTestModel(t, Options{
		SubjectID:   "u-jordan",
		FixturePath: "/tmp/profiles.json",
		ConfigPath:  "/tmp/profile-viewer.toml",
	}, nil)

	cmd := m.handleFileChange(fileChangeMsg{path: "/tmp/./profiles.json"})
	if cmd == nil {
		t.Fatal("Expected fixture reload command")
	}

	msg, ok := cmd().(fixtureReloadedMsg)
	if !ok || msg.err != nil || msg.user.ID != "u-jordan" {
		t.Errorf("Expected reloaded subject, got %+v", msg)
	}

	if cmd := m.handleFileChange(fileChangeMsg{path: "/tmp/other.json"}); cmd != nil {
		t.Error("Expected unrelated file to be ignored")
	}
}

func TestConfigReloadAppliesTerminalSettings(t *testing.T) {
	m := createTestModel(t, Options{SubjectID: "u-jordan"}, nil)

	cfg := config.DefaultConfig()
	cfg.Terminal.WheelRows = 5
	cfg.Geometry.HeaderMaxHeight = 999

	m, _ = send(m, configReloadedMsg{cfg: cfg})

	if got := m.sharedConfig.Get(); got.Terminal.WheelRows != 5 || got.Geometry.HeaderMaxHeight != 420 {
		t.Errorf("Expected only terminal settings applied, got %+v", got)
	}

	m, _ = pressKey(m, "j")
	if m.target != 210 {
		t.Errorf("Expected target 210 with 5 wheel rows, got %.0f", m.target)
	}
}

func TestQuitClosesController(t *testing.T) {
	m := createTestModel(t, Options{SubjectID: "u-jordan"}, nil)

	m, cmd := pressKey(m, "q")
	if cmd == nil || !m.quitting {
		t.Fatal("Expected quit command")
	}

	if !m.ctrl.Closed() {
		t.Error("Expected controller closed on quit")
	}

	if m.View() != "" {
		t.Error("Expected empty view after quit")
	}
}

func TestViewLayers(t *testing.T) {
	m := createTestModel(t, Options{SubjectID: "u-jordan", ViewerID: "u-alex", ContextSport: profile.Soccer}, nil)

	view := m.View()
	for _, want := range []string{"‹ Profile", "Jordan Kim", "Follow", "Highlights", "Bicycle kick"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected expanded view to contain %q", want)
		}
	}

	m, _ = pressKey(m, "G")
	m = settle(t, m)

	view = m.View()
	if strings.Contains(view, "Jordan Kim") {
		t.Error("Expected header collapsed away")
	}

	for _, want := range []string{"‹ @jordan.k", "Highlights", "Stats", "docked"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected collapsed view to contain %q", want)
		}
	}
}

func TestFadeColor(t *testing.T) {
	tests := []struct {
		opacity float64
		want    string
	}{
		{1, "255"},
		{0, "232"},
		{-1, "232"},
		{0.5, "244"},
	}

	for _, tt := range tests {
		if got := string(fadeColor(tt.opacity)); got != tt.want {
			t.Errorf("fadeColor(%.1f) = %s, want %s", tt.opacity, got, tt.want)
		}
	}
}
