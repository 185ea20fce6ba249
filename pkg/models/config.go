package models

import (
	"fmt"
	"strings"
)

// Theme selects the colour palette used when rendering a document
type Theme string

const (
	// ThemeLight uses the GitHub light palette
	ThemeLight Theme = "light"

	// ThemeDark uses the GitHub dark palette
	ThemeDark Theme = "dark"
)

// DefaultFontSize is the body font size in pixels when none is configured
const DefaultFontSize = 14

// ParseTheme maps a configuration value onto a Theme
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case "", ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", fmt.Errorf("unknown theme %q (expected light or dark)", s)
}

// IsDark reports whether the theme uses the dark palette
func (t Theme) IsDark() bool {
	return t == ThemeDark
}
