// ABOUTME: Live reload of the profile fixture and config file
// ABOUTME: Watches files with fsnotify and reloads them off the event loop

package tui

import (
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"profile-viewer/config"
	"profile-viewer/profile"
)

// reloadDebounce waits for editors' atomic writes to complete
const reloadDebounce = 100 * time.Millisecond

// fileChangeMsg signals a write to a watched file
type fileChangeMsg struct {
	path string
}

// fixtureReloadedMsg carries the reloaded profile owner
type fixtureReloadedMsg struct {
	user *profile.User
	err  error
}

// configReloadedMsg carries a reloaded configuration
type configReloadedMsg struct {
	cfg config.Config
	err error
}

// newWatcher watches the fixture and config files that exist.
// Returns a nil watcher when there is nothing to watch.
func newWatcher(logger Logger, paths ...string) (*fsnotify.Watcher, error) {
	var existing []string
	for _, p := range paths {
		if p == "" {
			continue
		}

		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}

	if len(existing) == 0 {
		return nil, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file watcher")
	}

	for _, p := range existing {
		if err := watcher.Add(p); err != nil {
			_ = watcher.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", p)
		}

		logger.Debug("watching file", "path", p)
	}

	return watcher, nil
}

// waitForFileChange returns a command that waits for file system events
func waitForFileChange(watcher *fsnotify.Watcher, logger Logger) tea.Cmd {
	if watcher == nil {
		return nil
	}

	return func() tea.Msg {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				// Only react to writes
				if event.Op&fsnotify.Write == fsnotify.Write {
					time.Sleep(reloadDebounce)
					return fileChangeMsg{path: event.Name}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				// Log error but continue watching
				logger.Debugf("[WATCHER] Error: %v", err)
			}
		}
	}
}

// reloadFixture loads the fixture in the background and looks up the subject again
func reloadFixture(load func(string) (*profile.Directory, error), path, subjectID string) tea.Cmd {
	return func() tea.Msg {
		dir, err := load(path)
		if err != nil {
			return fixtureReloadedMsg{err: err}
		}

		user, err := dir.Lookup(subjectID)
		if err != nil {
			return fixtureReloadedMsg{err: err}
		}

		return fixtureReloadedMsg{user: user}
	}
}

// reloadConfig loads the config file in the background
func reloadConfig(load func(string) (config.Config, error), path string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := load(path)
		return configReloadedMsg{cfg: cfg, err: err}
	}
}

// samePath compares two paths after cleaning; an empty path never matches
func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}

	return filepath.Clean(a) == filepath.Clean(b)
}
