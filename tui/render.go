// ABOUTME: Rendering functions for the profile header and tab content
// ABOUTME: Handles header fading, sport chips, action buttons and the four tab renderers

package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"profile-viewer/profile"
	"profile-viewer/viewport"
)

// Greyscale ramp used to fade the header (ANSI 232 is near black, 255 near white)
const (
	fadeDarkest   = 232
	fadeBrightest = 255
)

// fadeColor maps header opacity onto the greyscale ramp
func fadeColor(opacity float64) lipgloss.Color {
	opacity = math.Max(0, math.Min(1, opacity))
	step := int(math.Round(opacity * float64(fadeBrightest-fadeDarkest)))

	return lipgloss.Color(strconv.Itoa(fadeDarkest + step))
}

// renderHeader renders the expanded header as exactly rows lines, faded by the header opacity
func (m model) renderHeader(state viewport.ViewState, sub *profile.SubProfile, rows int) []string {
	user := m.ctrl.Subject()
	fade := lipgloss.NewStyle().Foreground(fadeColor(state.Header.Opacity))

	lines := []string{
		fade.Bold(true).Render(user.Name) + "  " + fade.Render("@"+user.Handle),
		fade.Render(user.Bio),
		fade.Render(fmt.Sprintf("%s · %d followers · %d following", user.Location, user.Followers, user.Following)),
	}

	if sub != nil {
		lines = append(lines, fade.Render(fmt.Sprintf("%s · %s · #%d", sub.Position, sub.Team, sub.Number)))
	}

	lines = append(lines, m.renderSportChips(state), m.renderActions(state))

	for len(lines) < rows {
		lines = append(lines, "")
	}

	return lines[:rows]
}

// renderSportChips renders the sport switcher; a single sport is shown as a plain label
func (m model) renderSportChips(state viewport.ViewState) string {
	sports := m.ctrl.Subject().AvailableSports()
	if !state.CanSwitchSport {
		return chipStyle.Render(state.Sport.Title())
	}

	chips := make([]string, 0, len(sports))
	for _, s := range sports {
		style := chipStyle
		if s == state.Sport {
			style = activeChipStyle
		}

		chips = append(chips, markZone(sportZoneID(s), style.Render(s.Title())))
	}

	return strings.Join(chips, " ")
}

// renderActions renders the action buttons
func (m model) renderActions(state viewport.ViewState) string {
	actions := state.Actions()

	buttons := make([]string, 0, len(actions))
	for _, a := range actions {
		label := strings.ToUpper(string(a[:1])) + string(a[1:])
		buttons = append(buttons, markZone(actionZoneID(a), buttonStyle.Render(label)))
	}

	return strings.Join(buttons, " ")
}

// contentLines renders the active tab's content for the displayed sport
func (m model) contentLines() []string {
	state := m.ctrl.State()

	sub := m.ctrl.Subject().SubProfile(state.Sport)
	if sub == nil {
		return []string{dimStyle.Render("No " + state.Sport.Title() + " data")}
	}

	switch state.ActiveTab {
	case profile.Highlights:
		return renderHighlights(sub)
	case profile.ProfileTab:
		return renderProfileTab(m.ctrl.Subject(), sub, state.Sport)
	case profile.Matches:
		return renderMatches(sub, m.matchIndex)
	case profile.Stats:
		return renderStats(sub)
	}

	return nil
}

// renderHighlights lists highlight posts, newest first as stored
func renderHighlights(sub *profile.SubProfile) []string {
	if len(sub.Highlights) == 0 {
		return []string{dimStyle.Render("No highlights yet")}
	}

	lines := make([]string, 0, len(sub.Highlights)*3)
	for _, h := range sub.Highlights {
		lines = append(lines,
			"▶ "+h.Title,
			dimStyle.Render(fmt.Sprintf("  %s · %d likes", h.Date, h.Likes)),
			"",
		)
	}

	return lines
}

// renderProfileTab shows the sport-specific player card
func renderProfileTab(user *profile.User, sub *profile.SubProfile, sport profile.Sport) []string {
	return []string{
		sectionStyle.Render(sport.Title() + " profile"),
		"",
		fmt.Sprintf("%-10s %s", "Position", sub.Position),
		fmt.Sprintf("%-10s %s", "Team", sub.Team),
		fmt.Sprintf("%-10s #%d", "Number", sub.Number),
		"",
		sectionStyle.Render("About"),
		"",
		user.Bio,
		user.Location,
	}
}

// renderMatches shows one match card at a time; the carousel moves with [ ] or a horizontal swipe
func renderMatches(sub *profile.SubProfile, index int) []string {
	if len(sub.Matches) == 0 {
		return []string{dimStyle.Render("No matches played")}
	}

	index = max(0, min(index, len(sub.Matches)-1))
	match := sub.Matches[index]

	dots := make([]string, len(sub.Matches))
	for i := range sub.Matches {
		dots[i] = "○"
		if i == index {
			dots[i] = "●"
		}
	}

	return []string{
		sectionStyle.Render(fmt.Sprintf("Match %d of %d", index+1, len(sub.Matches))),
		"",
		fmt.Sprintf("vs %s", match.Opponent),
		fmt.Sprintf("%s  %s  %s", match.Date, match.Score, resultLabel(match.Result)),
		"",
		strings.Join(dots, " "),
		dimStyle.Render("[ ] or swipe to browse"),
	}
}

// resultLabel spells out a match result code
func resultLabel(result string) string {
	switch result {
	case "W":
		return "Win"
	case "L":
		return "Loss"
	case "D":
		return "Draw"
	default:
		return result
	}
}

// renderStats lists season statistics with aligned labels
func renderStats(sub *profile.SubProfile) []string {
	if len(sub.Stats) == 0 {
		return []string{dimStyle.Render("No stats recorded")}
	}

	width := 0
	for _, s := range sub.Stats {
		width = max(width, len(s.Label))
	}

	lines := make([]string, 0, len(sub.Stats))
	for _, s := range sub.Stats {
		lines = append(lines, fmt.Sprintf("%-*s  %s", width, s.Label, strconv.FormatFloat(s.Value, 'f', -1, 64)))
	}

	return lines
}
