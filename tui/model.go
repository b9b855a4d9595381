// ABOUTME: Terminal UI model and core state management
// ABOUTME: Bubble Tea model driving the profile viewport controller with animated scrolling

// Package tui provides an interactive terminal rendering of the collapsible profile screen.
package tui

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/harmonica"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	zone "github.com/lrstanley/bubblezone"

	"profile-viewer/config"
	"profile-viewer/profile"
	"profile-viewer/viewport"
)

// Layout constants for UI dimensions
const (
	statusBarHeight = 1 // Bottom status bar
	minHeaderRows   = 6 // Rows the expanded header needs for its own content
)

// Interaction constants
const (
	statusMessageDuration = 5 * time.Second // How long to show transient status messages
	settleDistance        = 0.5             // Points from target at which the spring stops
	settleVelocity        = 0.5             // Points per frame below which the spring stops
)

// frameMsg advances the scroll spring by one frame
type frameMsg struct {
	epoch int
}

// frameStats is written by controller listeners; shared across model copies
type frameStats struct {
	frames      int  // Header transforms published
	transitions int  // Sticky flips published
	sticky      bool // Last sticky value published
}

// model holds the TUI state
type model struct {
	// Dependencies
	sharedConfig  ConfigProvider
	loadDirectory func(string) (*profile.Directory, error)
	loadConfig    func(string) (config.Config, error)
	logger        Logger

	// Profile screen
	ctrl       *viewport.Controller
	stats      *frameStats
	subjectID  string
	matchIndex int // Matches carousel position

	// Scroll animation (points)
	terminal  config.TerminalConfig
	spring    harmonica.Spring
	position  float64
	velocity  float64
	target    float64
	animating bool
	animEpoch int // Identifies the running animation's frame ticks

	// Drag gesture in progress (cells)
	dragging    bool
	dragStartX  int
	dragStartY  int
	dragOffset  float64
	dragSampleX float64
	dragSampleY float64

	// File watching
	fixturePath string
	configPath  string
	watcher     *fsnotify.Watcher

	// UI state
	width        int
	height       int
	quitting     bool
	statusMsg    string
	statusMsgAge time.Time
	help         help.Model
}

// Key bindings
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Top       key.Binding
	Bottom    key.Binding
	PrevTab   key.Binding
	NextTab   key.Binding
	JumpTab   key.Binding
	PrevMatch key.Binding
	NextMatch key.Binding
	Sport     key.Binding
	Follow    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "scroll up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "scroll down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "page down"),
	),
	Top: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("G", "bottom"),
	),
	PrevTab: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "previous tab"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next tab"),
	),
	JumpTab: key.NewBinding(
		key.WithKeys("1", "2", "3", "4"),
		key.WithHelp("1-4", "jump to tab"),
	),
	PrevMatch: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "previous match"),
	),
	NextMatch: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "next match"),
	),
	Sport: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "switch sport"),
	),
	Follow: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "follow"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.NextTab, k.Sport, k.Follow, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.PrevTab, k.NextTab, k.JumpTab, k.PrevMatch, k.NextMatch},
		{k.Sport, k.Follow, k.Help, k.Quit},
	}
}

// Styles
var (
	topBarStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("24")).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(lipgloss.Color("12")).
			Padding(0, 1)

	stickyBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236"))

	chipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	activeChipStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("10")).
			Padding(0, 1)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("238")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

var zoneOnce sync.Once

// Run starts the TUI mode with injected dependencies
func Run(opts Options, deps Dependencies) error {
	dir, err := screenDirectory(opts, deps)
	if err != nil {
		return err
	}

	m, err := initModel(dir, opts, deps)
	if err != nil {
		return err
	}

	watcher, err := newWatcher(m.logger, opts.FixturePath, opts.ConfigPath)
	if err != nil {
		m.logger.Warn("file watching disabled", "err", err)
	}
	m.watcher = watcher

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	finalModel, err := p.Run()
	if fm, ok := finalModel.(model); ok {
		fm.close()
	} else {
		m.close()
	}

	if err != nil {
		return errors.Wrap(err, "TUI error")
	}

	return nil
}

// screenDirectory returns the preloaded directory, loading the fixture only when none was given
func screenDirectory(opts Options, deps Dependencies) (*profile.Directory, error) {
	if opts.Directory != nil {
		return opts.Directory, nil
	}

	load := deps.LoadDirectory
	if load == nil {
		load = profile.LoadDirectory
	}

	return load(opts.FixturePath)
}

// initModel creates the initial model with injected dependencies
func initModel(dir *profile.Directory, opts Options, deps Dependencies) (model, error) {
	logger := deps.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	loadDirectory := deps.LoadDirectory
	if loadDirectory == nil {
		loadDirectory = profile.LoadDirectory
	}

	loadConfig := deps.LoadConfig
	if loadConfig == nil {
		loadConfig = config.LoadConfig
	}

	visit, err := dir.Visit(opts.SubjectID, opts.ViewerID, opts.ViewerSport)
	if err != nil {
		return model{}, err
	}

	cfg := deps.ConfigProvider.Get()

	// A nil *SportStore must not reach the controller as a non-nil interface
	var store viewport.SportStore
	if deps.Store != nil {
		store = deps.Store
	}

	ctrl, err := viewport.NewController(viewport.Options{
		Geometry: cfg.ViewportGeometry(),
		Swipe:    cfg.ViewportSwipe(),
		Subject:  visit.Subject,
		ViewerID: visit.ViewerID,
		Inputs: viewport.SportInputs{
			Context: opts.ContextSport,
			Viewer:  visit.ViewerSport,
		},
		Store:  store,
		Logger: logger,
	})
	if err != nil {
		return model{}, errors.Wrap(err, "failed to create profile controller")
	}

	stats := &frameStats{}
	ctrl.OnAnimate(func(viewport.HeaderTransform) { stats.frames++ })
	ctrl.OnTransition(func(sticky bool) {
		stats.transitions++
		stats.sticky = sticky
	})

	zoneOnce.Do(zone.NewGlobal)

	m := model{
		sharedConfig:  deps.ConfigProvider,
		loadDirectory: loadDirectory,
		loadConfig:    loadConfig,
		logger:        logger,

		ctrl:      ctrl,
		stats:     stats,
		subjectID: visit.Subject.ID,

		terminal: cfg.Terminal,
		spring:   newSpring(cfg.Terminal),

		fixturePath: opts.FixturePath,
		configPath:  opts.ConfigPath,

		help: help.New(),
	}

	logger.Debug("profile screen mounted",
		"subject", visit.Subject.ID,
		"viewer", visit.ViewerID,
		"sport", ctrl.State().Sport)

	return m, nil
}

// Init initializes the model
func (m model) Init() tea.Cmd {
	if m.watcher == nil {
		return nil
	}

	return waitForFileChange(m.watcher, m.logger)
}

// newSpring builds the scroll spring from the terminal settings
func newSpring(t config.TerminalConfig) harmonica.Spring {
	return harmonica.NewSpring(harmonica.FPS(t.FPS), t.SpringFrequency, t.SpringDamping)
}

// frameCmd schedules the next animation frame
func frameCmd(fps, epoch int) tea.Cmd {
	if fps < 1 {
		fps = 1
	}

	return tea.Tick(time.Second/time.Duration(fps), func(time.Time) tea.Msg {
		return frameMsg{epoch: epoch}
	})
}

// layout returns the row layout for the current size, tab and sport
func (m model) layout() *Layout {
	g := m.ctrl.Geometry()
	headerRows := HeaderRowsFor(g.HeaderMaxHeight, m.terminal.PointsPerRow, minHeaderRows)

	return NewLayout(m.height, headerRows, len(m.contentLines()), m.terminal.PointsPerRow, m.chromeRows())
}

// chromeRows is the height of the status bar plus the help, which grows when expanded
func (m model) chromeRows() int {
	return statusBarHeight + lipgloss.Height(m.renderHelp())
}

// maxOffset is the furthest the page can scroll
func (m model) maxOffset() float64 {
	return m.layout().MaxOffset(m.ctrl.Geometry().StickyThreshold())
}

// setStatus shows a transient message in the status bar
func (m *model) setStatus(format string, args ...any) {
	m.statusMsg = fmt.Sprintf(format, args...)
	m.statusMsgAge = time.Now()
}

// close detaches the controller and stops watching files
func (m model) close() {
	m.ctrl.Close()

	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			m.logger.Debugf("[WATCHER] close failed: %v", err)
		}
	}
}
