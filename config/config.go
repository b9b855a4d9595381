// ABOUTME: Configuration management for header geometry, swipe thresholds and terminal scale
// ABOUTME: Handles loading/saving TOML config files with fallback to defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"profile-viewer/profile"
	"profile-viewer/viewport"
)

// Config holds all tunable viewer parameters
type Config struct {
	Geometry GeometryConfig `toml:"geometry"`
	Swipe    SwipeConfig    `toml:"swipe"`
	Terminal TerminalConfig `toml:"terminal"`
}

// GeometryConfig is the header layout, in points
type GeometryConfig struct {
	HeaderMaxHeight  float64 `toml:"header_max_height" validate:"gt=0"`
	TopBarHeight     float64 `toml:"top_bar_height" validate:"gte=0"`
	TabBarHeight     float64 `toml:"tab_bar_height" validate:"gte=0"`
	SafeAreaTopInset float64 `toml:"safe_area_top_inset" validate:"gte=0"`
}

// SwipeConfig holds the tab swipe thresholds, in points
type SwipeConfig struct {
	ActivationDistance float64 `toml:"activation_distance" validate:"gt=0"`
	CommitDistance     float64 `toml:"commit_distance" validate:"gtfield=ActivationDistance"`
	LockedTab          string  `toml:"locked_tab" validate:"omitempty,oneof=highlights profile matches stats"`
}

// TerminalConfig maps points onto terminal cells and tunes the scroll animation
type TerminalConfig struct {
	PointsPerRow    float64 `toml:"points_per_row" validate:"gt=0"`
	PointsPerColumn float64 `toml:"points_per_column" validate:"gt=0"`
	WheelRows       int     `toml:"wheel_rows" validate:"gte=1"`
	FPS             int     `toml:"fps" validate:"gte=1,lte=240"`
	SpringFrequency float64 `toml:"spring_frequency" validate:"gt=0"`
	SpringDamping   float64 `toml:"spring_damping" validate:"gte=0"`
}

var validate = validator.New()

// GetConfigPath returns the default config file path
// First tries current directory, then falls back to ~/.config/profile-viewer/config.toml
func GetConfigPath() string {
	// First try current directory
	if _, err := os.Stat("./profile-viewer.toml"); err == nil {
		return "./profile-viewer.toml"
	}

	// Then try ~/.config/profile-viewer/config.toml
	home, err := os.UserHomeDir()
	if err != nil {
		return "./profile-viewer.toml"
	}

	return filepath.Join(home, ".config", "profile-viewer", "config.toml")
}

// LoadConfig loads configuration from a TOML file
// If the file doesn't exist, returns default config. Keys missing from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}

		return DefaultConfig(), errors.Wrap(err, "failed to read config file")
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, &config); err != nil {
		return DefaultConfig(), errors.Wrap(err, "failed to parse config file")
	}

	if err := config.Validate(); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// SaveConfig saves configuration to a TOML file
func SaveConfig(path string, config Config) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	config = roundConfigPrecision(config)

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create config file")
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close config file: %v\n", err)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(config); err != nil {
		return errors.Wrap(err, "failed to write config")
	}

	return nil
}

// EnsureConfig writes the defaults to path when no config file exists yet
func EnsureConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, errors.Wrap(err, "failed to stat config file")
	}

	if err := SaveConfig(path, DefaultConfig()); err != nil {
		return false, err
	}

	return true, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Geometry: GeometryConfig{
			HeaderMaxHeight:  420,
			TopBarHeight:     60,
			TabBarHeight:     30,
			SafeAreaTopInset: 47,
		},
		Swipe: SwipeConfig{
			ActivationDistance: viewport.DefaultActivationDistance,
			CommitDistance:     viewport.DefaultCommitDistance,
			LockedTab:          "matches",
		},
		Terminal: TerminalConfig{
			PointsPerRow:    42, // header collapses over 10 rows
			PointsPerColumn: 8,
			WheelRows:       2,
			FPS:             60,
			SpringFrequency: 7.0,
			SpringDamping:   0.9,
		},
	}
}

// Validate checks value ranges
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	if err := c.ViewportGeometry().Validate(); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	return nil
}

// ViewportGeometry converts the geometry section for the controller
func (c Config) ViewportGeometry() viewport.Geometry {
	return viewport.Geometry{
		HeaderMaxHeight:  c.Geometry.HeaderMaxHeight,
		TopBarHeight:     c.Geometry.TopBarHeight,
		TabBarHeight:     c.Geometry.TabBarHeight,
		SafeAreaTopInset: c.Geometry.SafeAreaTopInset,
	}
}

// ViewportSwipe converts the swipe section for the controller.
// An empty locked tab means every tab accepts swipes.
func (c Config) ViewportSwipe() viewport.SwipeConfig {
	locked := profile.Tab(-1)
	if t, ok := profile.ParseTab(c.Swipe.LockedTab); ok {
		locked = t
	}

	return viewport.SwipeConfig{
		ActivationDistance: c.Swipe.ActivationDistance,
		CommitDistance:     c.Swipe.CommitDistance,
		LockedTab:          locked,
	}
}

// roundConfigPrecision rounds all float64 fields to 2 decimal places
func roundConfigPrecision(config Config) Config {
	round := func(x float64) float64 {
		return float64(int(x*100+0.5)) / 100
	}

	config.Geometry.HeaderMaxHeight = round(config.Geometry.HeaderMaxHeight)
	config.Geometry.TopBarHeight = round(config.Geometry.TopBarHeight)
	config.Geometry.TabBarHeight = round(config.Geometry.TabBarHeight)
	config.Geometry.SafeAreaTopInset = round(config.Geometry.SafeAreaTopInset)
	config.Swipe.ActivationDistance = round(config.Swipe.ActivationDistance)
	config.Swipe.CommitDistance = round(config.Swipe.CommitDistance)
	config.Terminal.PointsPerRow = round(config.Terminal.PointsPerRow)
	config.Terminal.PointsPerColumn = round(config.Terminal.PointsPerColumn)
	config.Terminal.SpringFrequency = round(config.Terminal.SpringFrequency)
	config.Terminal.SpringDamping = round(config.Terminal.SpringDamping)

	return config
}

// SharedConfig wraps Config with a mutex for thread-safe access between the TUI and the file watcher
type SharedConfig struct {
	mu     sync.RWMutex
	config Config
}

// Get returns a copy of the current config (thread-safe read)
func (sc *SharedConfig) Get() Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	return sc.config
}

// Update updates the config (thread-safe write)
func (sc *SharedConfig) Update(config Config) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.config = config
}
