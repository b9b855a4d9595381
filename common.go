// ABOUTME: Shared initialization code for all modes (replay, TUI)
// ABOUTME: Provides common fixture loading, config setup and controller construction

package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"

	"profile-viewer/config"
	"profile-viewer/logging"
	"profile-viewer/profile"
	"profile-viewer/viewport"
)

// RunOptions contains command-line options for all modes
type RunOptions struct {
	FixturePath  string
	ConfigPath   string
	SubjectID    string
	ViewerID     string
	ContextSport profile.Sport
	ViewerSport  profile.Sport
	ReplayPath   string
	DebugLog     bool
}

// ScreenContext contains the loaded profiles and settings for one profile screen
type ScreenContext struct {
	Directory    *profile.Directory
	Subject      *profile.User
	ViewerID     string
	Inputs       viewport.SportInputs
	Config       config.Config
	SharedConfig *config.SharedConfig
	Store        *profile.SportStore
}

// InitializeScreen loads the fixture and config and resolves who is looking at whom
func InitializeScreen(opts RunOptions) (*ScreenContext, error) {
	dir, err := LoadProfileForMode(opts.FixturePath)
	if err != nil {
		return nil, err
	}

	visit, err := dir.Visit(opts.SubjectID, opts.ViewerID, opts.ViewerSport)
	if err != nil {
		return nil, errors.Wrap(err, "--subject")
	}

	cfg, err := loadConfigForMode(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	sharedConfig := &config.SharedConfig{}
	sharedConfig.Update(cfg)

	return &ScreenContext{
		Directory: dir,
		Subject:   visit.Subject,
		ViewerID:  visit.ViewerID,
		Inputs: viewport.SportInputs{
			Context: opts.ContextSport,
			Viewer:  visit.ViewerSport,
		},
		Config:       cfg,
		SharedConfig: sharedConfig,
		Store:        profile.NewSportStore(""),
	}, nil
}

// NewController builds the profile viewport controller for the screen
func (s *ScreenContext) NewController(logger viewport.Logger) (*viewport.Controller, error) {
	return viewport.NewController(viewport.Options{
		Geometry: s.Config.ViewportGeometry(),
		Swipe:    s.Config.ViewportSwipe(),
		Subject:  s.Subject,
		ViewerID: s.ViewerID,
		Inputs:   s.Inputs,
		Store:    s.Store,
		Logger:   logger,
	})
}

// LoadProfileForMode loads the profile fixture, or the built-in sample when path is empty
func LoadProfileForMode(path string) (*profile.Directory, error) {
	dir, err := profile.LoadDirectory(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load profiles")
	}

	logging.Default().Debug("profiles loaded", "path", path, "users", len(dir.Users))

	return dir, nil
}

// loadConfigForMode writes a default config on first run, then loads it.
// An unwritable config location is not fatal; defaults are used.
func loadConfigForMode(path string) (config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}

	if created, err := config.EnsureConfig(path); err != nil {
		logging.Default().Warn("could not write default config", "path", path, "err", err)
	} else if created {
		logging.Default().Info("wrote default config", "path", path)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}

	return cfg, nil
}

// SetupDebugLog routes debug logging to a file and returns a function that closes it
func SetupDebugLog(filename string) (func(), error) {
	logger, err := logging.NewFile(filename, logging.LevelDebug)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize debug log")
	}

	logging.SetDefault(logger)

	if isTTY(os.Stdout) {
		fmt.Printf("Debug logging enabled: %s\n", filename)
	}

	return func() {
		logging.SetDefault(nil)

		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}, nil
}

// isTTY checks if the given file is a terminal
func isTTY(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}

	return (stat.Mode() & os.ModeCharDevice) != 0
}

// truncate shortens string to maxLen, adding "..." if needed
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return s[:maxLen]
	}

	return s[:maxLen-3] + "..."
}
