// ABOUTME: Profile data model: users, sport sub-profiles, tabs and sports
// ABOUTME: Defines the ordered tab and sport enumerations shared by the controller and the TUI

// Package profile holds the sports-profile data shown by the viewer.
package profile

import (
	"sort"
	"strings"
)

// Sport identifies a sport-specific slice of a user profile
type Sport string

// Known sports, in canonical (fallback) order
const (
	Soccer     Sport = "soccer"
	Basketball Sport = "basketball"
)

// Sports lists every known sport in canonical order.
// The order is the deterministic preference used when nothing else decides.
var Sports = []Sport{Soccer, Basketball}

// ParseSport converts a flag or fixture value into a Sport.
// Returns false for unknown values.
func ParseSport(s string) (Sport, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, sp := range Sports {
		if string(sp) == s {
			return sp, true
		}
	}

	return "", false
}

// Title returns the display label of the sport
func (s Sport) Title() string {
	switch s {
	case Soccer:
		return "Soccer"
	case Basketball:
		return "Basketball"
	case "":
		return ""
	default:
		return strings.ToUpper(string(s[:1])) + string(s[1:])
	}
}

// Tab identifies a content tab on the profile screen
type Tab int

// Tabs in swipe order
const (
	Highlights Tab = iota
	ProfileTab
	Matches
	Stats
)

// Tabs lists every tab in swipe order
var Tabs = []Tab{Highlights, ProfileTab, Matches, Stats}

// String returns the tab label
func (t Tab) String() string {
	switch t {
	case Highlights:
		return "Highlights"
	case ProfileTab:
		return "Profile"
	case Matches:
		return "Matches"
	case Stats:
		return "Stats"
	default:
		return "Unknown"
	}
}

// ParseTab converts a tab label (case-insensitive) into a Tab
func ParseTab(s string) (Tab, bool) {
	for _, t := range Tabs {
		if strings.EqualFold(t.String(), strings.TrimSpace(s)) {
			return t, true
		}
	}

	return 0, false
}

// Next returns the tab after t and true, or t and false when t is last
func (t Tab) Next() (Tab, bool) {
	if t < Highlights || t >= Stats {
		return t, false
	}

	return t + 1, true
}

// Prev returns the tab before t and true, or t and false when t is first
func (t Tab) Prev() (Tab, bool) {
	if t <= Highlights || t > Stats {
		return t, false
	}

	return t - 1, true
}

// User is a profile owner with per-sport sub-profiles
type User struct {
	ID           string                `json:"id" yaml:"id" validate:"required"`
	Handle       string                `json:"handle" yaml:"handle" validate:"required"`
	Name         string                `json:"name" yaml:"name" validate:"required"`
	Bio          string                `json:"bio" yaml:"bio"`
	Location     string                `json:"location" yaml:"location"`
	Followers    int                   `json:"followers" yaml:"followers" validate:"gte=0"`
	Following    int                   `json:"following" yaml:"following" validate:"gte=0"`
	DefaultSport Sport                 `json:"default_sport" yaml:"default_sport" validate:"omitempty,sport"`
	SubProfiles  map[Sport]*SubProfile `json:"sports" yaml:"sports" validate:"min=1,dive,keys,required,sport,endkeys,required"`
}

// SubProfile is the sport-specific slice of a user profile
type SubProfile struct {
	Position   string      `json:"position" yaml:"position"`
	Team       string      `json:"team" yaml:"team"`
	Number     int         `json:"number" yaml:"number" validate:"gte=0"`
	Stats      []Stat      `json:"stats" yaml:"stats" validate:"dive"`
	Highlights []Highlight `json:"highlights" yaml:"highlights" validate:"dive"`
	Matches    []Match     `json:"matches" yaml:"matches" validate:"dive"`
}

// Stat is a single labelled season statistic
type Stat struct {
	Label string  `json:"label" yaml:"label" validate:"required"`
	Value float64 `json:"value" yaml:"value"`
}

// Highlight is a highlight post on the profile
type Highlight struct {
	Title string `json:"title" yaml:"title" validate:"required"`
	Date  string `json:"date" yaml:"date"`
	Likes int    `json:"likes" yaml:"likes" validate:"gte=0"`
}

// Match is a recent match result
type Match struct {
	Opponent string `json:"opponent" yaml:"opponent" validate:"required"`
	Date     string `json:"date" yaml:"date"`
	Score    string `json:"score" yaml:"score"`
	Result   string `json:"result" yaml:"result" validate:"omitempty,oneof=W L D"`
}

// HasSport reports whether the user has a sub-profile for s
func (u *User) HasSport(s Sport) bool {
	if u == nil || s == "" {
		return false
	}

	sp, ok := u.SubProfiles[s]

	return ok && sp != nil
}

// AvailableSports returns the sports the user has data for.
// Known sports come first in canonical order, unknown ones follow sorted.
func (u *User) AvailableSports() []Sport {
	if u == nil {
		return nil
	}

	out := make([]Sport, 0, len(u.SubProfiles))
	for _, s := range Sports {
		if u.HasSport(s) {
			out = append(out, s)
		}
	}

	var extra []Sport
	for s := range u.SubProfiles {
		if _, known := ParseSport(string(s)); !known && u.HasSport(s) {
			extra = append(extra, s)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })

	return append(out, extra...)
}

// SubProfile returns the sub-profile for s, or nil
func (u *User) SubProfile(s Sport) *SubProfile {
	if !u.HasSport(s) {
		return nil
	}

	return u.SubProfiles[s]
}
