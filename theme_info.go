// theme_info.go defines the get_theme and set_theme tool types.
package main

// GetThemeArgs is the input for the get_theme tool. No arguments needed.
type GetThemeArgs struct{}

// SetThemeArgs is the input for the set_theme tool.
type SetThemeArgs struct {
	// Theme is light or dark. Empty flips the current theme.
	Theme string `json:"theme,omitempty" jsonschema:"light or dark; omit to toggle"`
}

// ThemeOutput reports the theme in effect.
type ThemeOutput struct {
	Theme   string `json:"theme"`
	Warning string `json:"warning,omitempty"`
}
