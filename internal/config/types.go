package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration is a millisecond count that can be unmarshaled from human-readable strings.
// Supports formats like "4s", "1m30s", or integer milliseconds.
// A value of "0" or 0 means never expire.
type Duration int64

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(ms)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '4s', '1m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur.Milliseconds())
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration().String()), nil
}

// Milliseconds returns the duration in milliseconds.
func (d Duration) Milliseconds() int {
	return int(d)
}

// Duration returns the value as a time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d) * time.Millisecond
}

// Corner is the screen corner toasts stack from.
type Corner string

const (
	CornerTopLeft     Corner = "TopLeft"
	CornerTopRight    Corner = "TopRight"
	CornerBottomLeft  Corner = "BottomLeft"
	CornerBottomRight Corner = "BottomRight"
)

// ValidCorners returns all valid corner values.
func ValidCorners() []Corner {
	return []Corner{CornerTopLeft, CornerTopRight, CornerBottomLeft, CornerBottomRight}
}

// ParseCorner converts a config string to a Corner.
func ParseCorner(s string) (Corner, error) {
	for _, c := range ValidCorners() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid corner %q, must be one of: %v", s, ValidCorners())
}

// IsLeft reports whether toasts anchor to the left screen edge.
func (c Corner) IsLeft() bool {
	return c == CornerTopLeft || c == CornerBottomLeft
}

// IsTop reports whether toasts stack downwards from the top screen edge.
func (c Corner) IsTop() bool {
	return c == CornerTopLeft || c == CornerTopRight
}

// Color is an ARGB color. It is written in config files as "#RRGGBB".
type Color uint32

// DefaultAccentColor is the accent used when none (or an invalid one) is configured.
const DefaultAccentColor Color = 0xFF7C3AED

// ParseColor parses "#RRGGBB" into an opaque ARGB color.
func ParseColor(hex string) (Color, error) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, fmt.Errorf("invalid color %q: must be #RRGGBB", hex)
	}
	rgb, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return Color(0xFF000000 | uint32(rgb)), nil
}

// UnmarshalText falls back to the default accent for malformed values.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(strings.TrimSpace(string(text)))
	if err != nil {
		*c = DefaultAccentColor
		return nil
	}
	*c = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// Hex returns the color as "#RRGGBB", dropping alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%06X", uint32(c)&0xFFFFFF)
}

// RGBA returns the color channels.
func (c Color) RGBA() (r, g, b, a uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c), uint8(c >> 24)
}
