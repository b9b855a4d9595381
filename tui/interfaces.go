// ABOUTME: Interfaces defining dependencies for the TUI package
// ABOUTME: Allows clean separation and easy testing with mocks

package tui

import (
	"profile-viewer/config"
)

// ConfigProvider provides thread-safe access to the viewer configuration
type ConfigProvider interface {
	Get() config.Config
	Update(cfg config.Config)
}

// Logger provides debug logging capability
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Debugf(format string, args ...any)
}

// nopLogger discards everything; used when no logger is injected
type nopLogger struct{}

func (nopLogger) Debug(string, ...any)  {}
func (nopLogger) Warn(string, ...any)   {}
func (nopLogger) Debugf(string, ...any) {}
