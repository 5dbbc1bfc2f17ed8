// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const defaultConfigHeader = `# notiman configuration
#
# corner:       TopLeft, TopRight, BottomLeft or BottomRight
# monitor:      0 = primary, 1+ = specific monitor
# max_visible:  maximum simultaneous toasts (1-20)
# duration:     auto-dismiss delay, e.g. "4s" or 4000 (ms); 0 disables
# width:        card width in pixels (200-1000)
# accent_color: "#RRGGBB"
# opacity:      0.1-1.0
# socket:       override for the notimand socket path

`

// Default configuration values.
const (
	DefaultCorner     = CornerBottomRight
	DefaultMaxVisible = 5
	DefaultDurationMs = 4000
	DefaultWidth      = 400
	DefaultOpacity    = 0.85
	DefaultMargin     = 16
	DefaultGap        = 8
)

// NotimanConfig is the configuration for notimand.
// Loaded from ~/.config/notiman/config.toml
type NotimanConfig struct {
	Corner      Corner   `toml:"corner"`      // "TopLeft", "TopRight", "BottomLeft", "BottomRight"
	Monitor     int      `toml:"monitor"`     // 0 = primary, 1+ = specific monitor
	MaxVisible  int      `toml:"max_visible"` // Maximum simultaneous toasts
	Duration    Duration `toml:"duration"`    // Auto-dismiss after this long, 0 = never
	Width       int      `toml:"width"`       // Card width in pixels
	AccentColor Color    `toml:"accent_color"`
	Opacity     float64  `toml:"opacity"` // 0.1-1.0
	Margin      int      `toml:"margin"`  // Pixels from screen edge
	Gap         int      `toml:"gap"`     // Pixels between stacked toasts
	Socket      string   `toml:"socket,omitempty"`
}

// DefaultConfig returns a new NotimanConfig with default values.
func DefaultConfig() *NotimanConfig {
	return &NotimanConfig{
		Corner:      DefaultCorner,
		Monitor:     0,
		MaxVisible:  DefaultMaxVisible,
		Duration:    Duration(DefaultDurationMs),
		Width:       DefaultWidth,
		AccentColor: DefaultAccentColor,
		Opacity:     DefaultOpacity,
		Margin:      DefaultMargin,
		Gap:         DefaultGap,
	}
}

// Clone returns a copy of the configuration.
func (c *NotimanConfig) Clone() *NotimanConfig {
	clone := *c
	return &clone
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "notiman", "config.toml"), nil
}

// resolvePath returns path, or the default config path when path is empty.
func resolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	p, err := ConfigPath()
	if err != nil {
		return "", fmt.Errorf("failed to get config path: %w", err)
	}
	return p, nil
}

// LoadConfig loads the configuration from path (or the default path when empty).
// If the file doesn't exist, returns the default configuration.
func LoadConfig(path string) (*NotimanConfig, error) {
	path, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses TOML on top of the defaults and validates the result.
func ParseConfig(data []byte) (*NotimanConfig, error) {
	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to path (or the default path when empty).
func SaveConfig(config *NotimanConfig, path string) error {
	path, err := resolvePath(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return writeAtomic(path, data)
}

// writeAtomic writes data via a temp file and rename.
func writeAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// EnsureConfig writes the default configuration to path if no file exists yet,
// and returns the resolved path.
func EnsureConfig(path string) (string, error) {
	path, err := resolvePath(path)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append([]byte(defaultConfigHeader), data...)

	if err := writeAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// Validate checks if the configuration is valid.
func (c *NotimanConfig) Validate() error {
	if _, err := ParseCorner(string(c.Corner)); err != nil {
		return err
	}
	if c.Monitor < 0 {
		return fmt.Errorf("monitor must be 0 or greater, got %d", c.Monitor)
	}
	if c.MaxVisible < 1 || c.MaxVisible > 20 {
		return fmt.Errorf("max_visible must be between 1 and 20, got %d", c.MaxVisible)
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %d", c.Duration)
	}
	if c.Width < 200 || c.Width > 1000 {
		return fmt.Errorf("width must be between 200 and 1000, got %d", c.Width)
	}
	if c.Opacity < 0.1 || c.Opacity > 1.0 {
		return fmt.Errorf("opacity must be between 0.1 and 1.0, got %g", c.Opacity)
	}
	if c.Margin < 0 {
		return fmt.Errorf("margin must not be negative, got %d", c.Margin)
	}
	if c.Gap < 0 {
		return fmt.Errorf("gap must not be negative, got %d", c.Gap)
	}
	return nil
}
