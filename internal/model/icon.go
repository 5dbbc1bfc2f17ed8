package model

import (
	"fmt"
	"strings"
)

// IconKind selects the glyph and accent drawn on a toast.
type IconKind int

// Icon kinds.
const (
	IconInfo IconKind = iota
	IconSuccess
	IconWarning
	IconError
)

var iconNames = map[IconKind]string{
	IconInfo:    "info",
	IconSuccess: "success",
	IconWarning: "warning",
	IconError:   "error",
}

// iconColors are ARGB accents per kind.
var iconColors = map[IconKind]uint32{
	IconInfo:    0xFF60A5FA,
	IconSuccess: 0xFF34D399,
	IconWarning: 0xFFFBBF24,
	IconError:   0xFFF87171,
}

// ParseIconKind converts a name like "warning" into an IconKind.
// Matching is case-insensitive.
func ParseIconKind(s string) (IconKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for kind, n := range iconNames {
		if n == name {
			return kind, nil
		}
	}
	return IconInfo, fmt.Errorf("unknown icon %q", s)
}

// String returns the lower-case icon name.
func (k IconKind) String() string {
	if n, ok := iconNames[k]; ok {
		return n
	}
	return iconNames[IconInfo]
}

// Color returns the ARGB accent for the icon.
func (k IconKind) Color() uint32 {
	if c, ok := iconColors[k]; ok {
		return c
	}
	return iconColors[IconInfo]
}

// MarshalText implements encoding.TextMarshaler.
func (k IconKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes an icon name. Unknown names become IconInfo.
func (k *IconKind) UnmarshalText(text []byte) error {
	kind, err := ParseIconKind(string(text))
	if err != nil {
		*k = IconInfo
		return nil
	}
	*k = kind
	return nil
}
