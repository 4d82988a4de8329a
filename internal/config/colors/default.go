package colors

// Default returns the default color scheme (purple accent)
func Default() *ColorScheme {
	return &ColorScheme{
		Preset: "default",

		Accent: "#874BFD",
		Title:  "#D75FD7",
		Subtle: "#585858",
		Normal: "#D0D0D0",

		Success: "#5FD75F",
		Warning: "#FFD700",
		Error:   "#FF0000",

		Vote:  "#00AFFF",
		Timer: "#5F87D7",
	}
}
