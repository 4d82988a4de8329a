package config

import "github.com/thenoetrevino/retro/internal/config/colors"

// ColorScheme is the color configuration used by CLI styles.
type ColorScheme = colors.ColorScheme

// DefaultColorScheme returns the default color scheme (purple accent)
func DefaultColorScheme() ColorScheme {
	return *colors.Default()
}

// MonochromeColorScheme returns a black and white color scheme
func MonochromeColorScheme() ColorScheme {
	return *colors.Monochrome()
}
