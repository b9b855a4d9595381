// ABOUTME: TUI mode configuration and command-line options
// ABOUTME: Defines input parameters and injected dependencies for running the TUI

package tui

import (
	"profile-viewer/config"
	"profile-viewer/profile"
)

// Options contains configuration for running the TUI
type Options struct {
	FixturePath  string             // Profile fixture to display and watch (empty = embedded sample)
	Directory    *profile.Directory // Already loaded fixture; FixturePath is loaded when nil
	ConfigPath   string             // Config file to watch for terminal tuning changes
	SubjectID    string             // Profile owner to display
	ViewerID     string             // Signed-in user (defaults to the fixture's viewer)
	ContextSport profile.Sport      // Sport of the screen that navigated here
	ViewerSport  profile.Sport      // Signed-in user's own preference
}

// Dependencies holds all external dependencies for the TUI
// This allows for clean dependency injection and easy testing
type Dependencies struct {
	ConfigProvider ConfigProvider
	Store          *profile.SportStore
	LoadDirectory  func(path string) (*profile.Directory, error)
	LoadConfig     func(path string) (config.Config, error)
	Logger         Logger
}
