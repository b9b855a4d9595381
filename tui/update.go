// ABOUTME: Event handling and state updates for the TUI
// ABOUTME: Implements the Bubble Tea Update() function and message handlers

package tui

import (
	"math"
	"runtime/debug"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"profile-viewer/profile"
	"profile-viewer/viewport"
)

// Update handles messages and updates the model
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Debugf("[PANIC] Update panic: %v", r)
			m.logger.Debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// A smaller window may leave the page scrolled past its end
		if maxOffset := m.maxOffset(); m.target > maxOffset {
			cmd := m.scrollTo(maxOffset)
			return m, cmd
		}

		return m, nil

	case frameMsg:
		// Ticks from an animation that has since been stopped are dropped
		if msg.epoch != m.animEpoch {
			return m, nil
		}

		cmd := m.advanceSpring()
		return m, cmd

	case fileChangeMsg:
		return m, tea.Batch(m.handleFileChange(msg), waitForFileChange(m.watcher, m.logger))

	case fixtureReloadedMsg:
		m.handleFixtureReloaded(msg)
		return m, nil

	case configReloadedMsg:
		m.handleConfigReloaded(msg)
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey dispatches key presses
func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	rows := float64(m.terminal.WheelRows)
	page := float64(m.layout().BodyRows() - 1)

	switch {
	case key.Matches(msg, keys.Quit):
		return m.handleQuitKey()

	case key.Matches(msg, keys.Up):
		cmd := m.scrollByRows(-rows)
		return m, cmd

	case key.Matches(msg, keys.Down):
		cmd := m.scrollByRows(rows)
		return m, cmd

	case key.Matches(msg, keys.PageUp):
		cmd := m.scrollByRows(-page)
		return m, cmd

	case key.Matches(msg, keys.PageDown):
		cmd := m.scrollByRows(page)
		return m, cmd

	case key.Matches(msg, keys.Top):
		cmd := m.scrollTo(0)
		return m, cmd

	case key.Matches(msg, keys.Bottom):
		cmd := m.scrollTo(m.maxOffset())
		return m, cmd

	case key.Matches(msg, keys.PrevTab):
		if prev, ok := m.ctrl.State().ActiveTab.Prev(); ok {
			m.selectTab(prev)
		}

	case key.Matches(msg, keys.NextTab):
		if next, ok := m.ctrl.State().ActiveTab.Next(); ok {
			m.selectTab(next)
		}

	case key.Matches(msg, keys.JumpTab):
		idx := int(msg.Runes[0] - '1')
		if idx >= 0 && idx < len(profile.Tabs) {
			m.selectTab(profile.Tabs[idx])
		}

	case key.Matches(msg, keys.PrevMatch):
		m.moveMatch(-1)

	case key.Matches(msg, keys.NextMatch):
		m.moveMatch(1)

	case key.Matches(msg, keys.Sport):
		m.handleSportKey()

	case key.Matches(msg, keys.Follow):
		m.handleFollow()

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// handleQuitKey handles the quit key press
func (m model) handleQuitKey() (model, tea.Cmd) {
	m.quitting = true
	m.close()

	return m, tea.Quit
}

// handleSportKey cycles to the owner's next sport
func (m *model) handleSportKey() {
	sport, ok := m.ctrl.CycleSport()
	if !ok {
		m.setStatus("%s only plays %s", m.ctrl.Subject().Name, m.ctrl.State().Sport.Title())
		return
	}

	m.matchIndex = 0
	m.setStatus("Showing %s", sport.Title())
}

// handleFollow toggles the follow state
func (m *model) handleFollow() {
	if !m.ctrl.ToggleFollow() {
		m.setStatus("This is your profile")
		return
	}

	if m.ctrl.State().Following {
		m.setStatus("Following @%s", m.ctrl.Subject().Handle)
	} else {
		m.setStatus("Unfollowed @%s", m.ctrl.Subject().Handle)
	}
}

// selectTab activates a tab directly; scroll position is kept
func (m *model) selectTab(tab profile.Tab) {
	if m.ctrl.SelectTab(tab) {
		m.logger.Debug("tab selected", "tab", tab)
	}
}

// moveMatch moves the Matches carousel by delta cards
func (m *model) moveMatch(delta int) bool {
	if m.ctrl.State().ActiveTab != profile.Matches {
		return false
	}

	sub := m.ctrl.SubProfile()
	if sub == nil || len(sub.Matches) == 0 {
		return false
	}

	next := m.matchIndex + delta
	if next < 0 || next >= len(sub.Matches) {
		return false
	}

	m.matchIndex = next

	return true
}

// ========== Scrolling ==========

// scrollByRows moves the scroll target by a number of terminal rows
func (m *model) scrollByRows(rows float64) tea.Cmd {
	return m.scrollTo(m.target + rows*m.terminal.PointsPerRow)
}

// scrollTo sets a new scroll target and starts the spring if it is idle
func (m *model) scrollTo(target float64) tea.Cmd {
	m.target = math.Max(0, math.Min(target, m.maxOffset()))

	if m.animating {
		return nil
	}

	m.animating = true
	m.animEpoch++

	return frameCmd(m.terminal.FPS, m.animEpoch)
}

// jumpTo moves the page immediately, without animation
func (m *model) jumpTo(offset float64) {
	offset = math.Max(0, math.Min(offset, m.maxOffset()))

	m.position = offset
	m.target = offset
	m.velocity = 0
	m.animating = false
	m.ctrl.Scroll(offset)
}

// advanceSpring moves the rendered offset one frame toward the target.
// Every frame is fed to the controller.
func (m *model) advanceSpring() tea.Cmd {
	if !m.animating {
		return nil
	}

	m.position, m.velocity = m.spring.Update(m.position, m.velocity, m.target)

	if math.Abs(m.target-m.position) < settleDistance && math.Abs(m.velocity) < settleVelocity {
		m.position = m.target
		m.velocity = 0
		m.animating = false
	}

	m.ctrl.Scroll(m.position)

	if !m.animating {
		return nil
	}

	return frameCmd(m.terminal.FPS, m.animEpoch)
}

// ========== Mouse ==========

// handleMouse routes wheel, drag and tap events
func (m model) handleMouse(msg tea.MouseMsg) (model, tea.Cmd) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		cmd := m.scrollByRows(-float64(m.terminal.WheelRows))
		return m, cmd

	case msg.Button == tea.MouseButtonWheelDown:
		cmd := m.scrollByRows(float64(m.terminal.WheelRows))
		return m, cmd

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.beginDrag(msg)

	case msg.Action == tea.MouseActionMotion && m.dragging:
		m.handleDragMotion(msg)

	case msg.Action == tea.MouseActionRelease && m.dragging:
		m.endDrag(msg)
	}

	return m, nil
}

// beginDrag starts a gesture; an animation in progress stops where it is
func (m *model) beginDrag(msg tea.MouseMsg) {
	m.dragging = true
	m.dragStartX = msg.X
	m.dragStartY = msg.Y
	m.dragSampleX = 0
	m.dragSampleY = 0

	if m.animating {
		m.jumpTo(m.position)
	}

	m.dragOffset = m.position
	m.ctrl.BeginDrag()
}

// dragDelta converts the pointer travel since the press into points
func (m *model) dragDelta(msg tea.MouseMsg) (float64, float64) {
	dx := float64(msg.X-m.dragStartX) * m.terminal.PointsPerColumn
	dy := float64(msg.Y-m.dragStartY) * m.terminal.PointsPerRow

	return dx, dy
}

// handleDragMotion feeds the swipe tracker; a drag that is not a swipe scrolls the page
func (m *model) handleDragMotion(msg tea.MouseMsg) {
	dx, dy := m.dragDelta(msg)
	m.dragSampleX, m.dragSampleY = dx, dy

	phase := m.ctrl.Drag(dx, dy)
	if phase == viewport.GestureIdle && math.Abs(dy) > math.Abs(dx) {
		m.jumpTo(m.dragOffset - dy)
	}
}

// endDrag resolves the gesture: a tap hits zones, a swipe may change tab,
// and on Matches a horizontal swipe moves the carousel instead.
func (m *model) endDrag(msg tea.MouseMsg) {
	m.dragging = false

	if msg.X == m.dragStartX && msg.Y == m.dragStartY {
		m.ctrl.CancelDrag()
		m.handleTap(msg)

		return
	}

	dx, dy := m.dragDelta(msg)
	from := m.ctrl.State().ActiveTab

	if m.ctrl.EndDrag(dx, dy) {
		m.setStatus("Swiped to %s", m.ctrl.State().ActiveTab)
		return
	}

	swipe := m.sharedConfig.Get().ViewportSwipe()
	if from == profile.Matches && math.Abs(dx) > math.Abs(dy) && math.Abs(dx) > swipe.CommitDistance {
		delta := 1
		if dx > 0 {
			delta = -1
		}

		m.moveMatch(delta)
	}
}

// handleTap hit-tests the clickable zones rendered in the last frame
func (m *model) handleTap(msg tea.MouseMsg) {
	for _, tab := range profile.Tabs {
		if zoneHit(tabZoneID(tab), msg) {
			m.selectTab(tab)
			return
		}
	}

	for _, sport := range m.ctrl.Subject().AvailableSports() {
		if zoneHit(sportZoneID(sport), msg) {
			if err := m.ctrl.SetSport(sport); err != nil {
				m.setStatus("%v", err)
			} else {
				m.matchIndex = 0
			}

			return
		}
	}

	for _, action := range m.ctrl.State().Actions() {
		if zoneHit(actionZoneID(action), msg) {
			m.handleAction(action)
			return
		}
	}
}

// handleAction runs a tapped action button
func (m *model) handleAction(action viewport.Action) {
	switch action {
	case viewport.ActionFollow, viewport.ActionUnfollow:
		m.handleFollow()
	case viewport.ActionMessage:
		m.setStatus("Messaging is not available in the terminal")
	case viewport.ActionEdit:
		m.setStatus("Edit your fixture file; changes reload live")
	}
}

// zoneHit reports whether msg falls inside the named zone
func zoneHit(id string, msg tea.MouseMsg) bool {
	if zone.DefaultManager == nil {
		return false
	}

	z := zone.Get(id)

	return z != nil && z.InBounds(msg)
}

// ========== Live reload ==========

// handleFileChange starts a reload of whichever watched file changed
func (m model) handleFileChange(msg fileChangeMsg) tea.Cmd {
	switch {
	case samePath(msg.path, m.fixturePath):
		return reloadFixture(m.loadDirectory, m.fixturePath, m.subjectID)
	case samePath(msg.path, m.configPath):
		return reloadConfig(m.loadConfig, m.configPath)
	}

	return nil
}

// handleFixtureReloaded swaps in reloaded profile data
func (m *model) handleFixtureReloaded(msg fixtureReloadedMsg) {
	if msg.err != nil {
		m.logger.Warn("fixture reload failed", "err", msg.err)
		m.setStatus("Error reloading: %v", msg.err)

		return
	}

	before := m.ctrl.State().Sport
	m.ctrl.ReplaceProfile(msg.user)

	// Re-validates the displayed sport against the new data
	m.ctrl.SubProfile()

	if after := m.ctrl.State().Sport; after != before {
		m.matchIndex = 0
		m.setStatus("Reloaded profile; %s no longer available, showing %s", before.Title(), after.Title())

		return
	}

	m.setStatus("Reloaded profile")
}

// handleConfigReloaded applies the terminal section of a reloaded config.
// Geometry and swipe thresholds are fixed for the lifetime of the screen.
func (m *model) handleConfigReloaded(msg configReloadedMsg) {
	if msg.err != nil {
		m.logger.Warn("config reload failed", "err", msg.err)
		m.setStatus("Error reloading config: %v", msg.err)

		return
	}

	current := m.sharedConfig.Get()
	current.Terminal = msg.cfg.Terminal
	m.sharedConfig.Update(current)

	m.terminal = msg.cfg.Terminal
	m.spring = newSpring(msg.cfg.Terminal)

	if maxOffset := m.maxOffset(); m.target > maxOffset {
		m.jumpTo(maxOffset)
	}

	m.setStatus("Reloaded terminal settings")
}
