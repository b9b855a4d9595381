// ABOUTME: Rendering and display functions for the TUI
// ABOUTME: Implements the Bubble Tea View() function with the pinned, collapsing and sticky layers

package tui

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	contentview "github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"profile-viewer/profile"
	"profile-viewer/viewport"
)

// View renders the TUI
func (m model) View() string {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Debugf("[PANIC] View panic: %v", r)
			m.logger.Debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	if m.quitting {
		return ""
	}

	if m.width == 0 || m.height == 0 {
		return "Loading profile..."
	}

	state := m.ctrl.State()
	sub := m.ctrl.SubProfile()
	if sub != nil {
		// SubProfile may have re-resolved the sport
		state = m.ctrl.State()
	}

	out := lipgloss.JoinVertical(lipgloss.Left,
		m.renderBody(state, sub),
		m.renderStatus(state),
		m.renderHelp(),
	)

	return scanZones(out)
}

// renderBody stacks the pinned top bar, the collapsing header, the tab bar
// (embedded below the header, or docked under the top bar once sticky) and
// the scrolled tab content.
func (m model) renderBody(state viewport.ViewState, sub *profile.SubProfile) string {
	layout := m.layout()
	clip := lipgloss.NewStyle().MaxWidth(m.width)

	rows := make([]string, 0, layout.BodyRows())
	rows = append(rows, m.renderTopBar(state))

	if state.Sticky {
		rows = append(rows, m.renderTabBar(state, true))
	} else {
		header := m.renderHeader(state, sub, layout.headerRows)
		hidden := layout.HiddenHeaderRows(state.Header.TranslateY)
		rows = append(rows, header[hidden:]...)
		rows = append(rows, m.renderTabBar(state, false))
	}

	for i := range rows {
		rows[i] = clip.Render(rows[i])
	}

	if len(rows) >= layout.BodyRows() {
		return strings.Join(rows[:layout.BodyRows()], "\n")
	}

	content := contentview.New(m.width, layout.BodyRows()-len(rows))
	content.SetContent(strings.Join(m.contentLines(), "\n"))
	content.SetYOffset(layout.ContentSkip(state.Offset))

	return strings.Join(rows, "\n") + "\n" + content.View()
}

// renderTopBar renders the pinned navigation bar.
// The owner's handle moves into it once the header has mostly faded.
func (m model) renderTopBar(state viewport.ViewState) string {
	title := "Profile"
	if state.Header.Opacity < 0.5 {
		title = "@" + m.ctrl.Subject().Handle
	}

	return topBarStyle.Width(m.width).Render("‹ " + title)
}

// renderTabBar renders the four tab labels as clickable zones
func (m model) renderTabBar(state viewport.ViewState, sticky bool) string {
	labels := make([]string, 0, len(profile.Tabs))
	for _, tab := range profile.Tabs {
		style := tabStyle
		if tab == state.ActiveTab {
			style = activeTabStyle
		}

		labels = append(labels, markZone(tabZoneID(tab), style.Render(tab.String())))
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Top, labels...)
	if sticky {
		return stickyBarStyle.Width(m.width).Render(bar)
	}

	return bar
}

// renderStatus renders the status bar
func (m model) renderStatus(state viewport.ViewState) string {
	if m.statusMsg != "" && time.Since(m.statusMsgAge) < statusMessageDuration {
		msg := m.statusMsg
		if strings.HasPrefix(msg, "Error") {
			msg = errorStyle.Render(msg)
		}

		return statusStyle.Width(m.width).Render(msg)
	}

	docked := "scrolling"
	if state.Sticky {
		docked = "docked"
	}

	gesture := state.Gesture.String()
	if m.dragging {
		gesture = fmt.Sprintf("%s dx=%.0f dy=%.0f", gesture, m.dragSampleX, m.dragSampleY)
	}

	status := fmt.Sprintf("Offset: %.0f | Opacity: %.2f | Tabs: %s | %s | Gesture: %s | Frames: %d",
		state.Offset,
		state.Header.Opacity,
		docked,
		state.Sport.Title(),
		gesture,
		m.stats.frames,
	)

	return statusStyle.Width(m.width).Render(status)
}

// renderHelp renders the help text
func (m model) renderHelp() string {
	return m.help.View(keys)
}

// Zone identifiers for clickable elements
func tabZoneID(tab profile.Tab) string { return "tab-" + strings.ToLower(tab.String()) }

func sportZoneID(sport profile.Sport) string { return "sport-" + string(sport) }

func actionZoneID(action viewport.Action) string { return "action-" + string(action) }

// scanZones registers zone positions for the frame; a no-op before zones are initialised
func scanZones(s string) string {
	if zone.DefaultManager == nil {
		return s
	}

	return zone.Scan(s)
}

// markZone wraps s in a clickable zone
func markZone(id, s string) string {
	if zone.DefaultManager == nil {
		return s
	}

	return zone.Mark(id, s)
}
