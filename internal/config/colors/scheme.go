package colors

// ColorScheme holds the hex colors used for styled terminal output.
type ColorScheme struct {
	// Preset name ("default" or "monochrome")
	Preset string `yaml:"preset"`

	Accent string `yaml:"accent"`
	Title  string `yaml:"title"`
	Subtle string `yaml:"subtle"` // Muted text: timestamps, authors
	Normal string `yaml:"normal"`

	Success string `yaml:"success"`
	Warning string `yaml:"warning"`
	Error   string `yaml:"error"`

	Vote  string `yaml:"vote"`  // Upvote counts
	Timer string `yaml:"timer"` // Running timers
}

// Presets lists the names GetPreset understands.
var Presets = []string{"default", "monochrome"}

// GetPreset returns a preset color scheme by name, falling back to the default.
func GetPreset(name string) *ColorScheme {
	switch name {
	case "monochrome":
		return Monochrome()
	default:
		return Default()
	}
}

// ApplyDefaults fills empty fields from the scheme's preset.
func (c *ColorScheme) ApplyDefaults() {
	preset := GetPreset(c.Preset)
	if c.Preset == "" {
		c.Preset = preset.Preset
	}

	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&c.Accent, preset.Accent)
	fill(&c.Title, preset.Title)
	fill(&c.Subtle, preset.Subtle)
	fill(&c.Normal, preset.Normal)
	fill(&c.Success, preset.Success)
	fill(&c.Warning, preset.Warning)
	fill(&c.Error, preset.Error)
	fill(&c.Vote, preset.Vote)
	fill(&c.Timer, preset.Timer)
}
