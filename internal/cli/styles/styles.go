package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/thenoetrevino/retro/internal/config"
	"github.com/thenoetrevino/retro/internal/models"
)

var (
	// Card styles
	CardStyle lipgloss.Style
	CardWidth = 72

	// Text styles
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	LabelStyle    lipgloss.Style // For field labels like "Phase:", "Votes:"
	ValueStyle    lipgloss.Style // For field values
	SectionStyle  lipgloss.Style // For section headers like column titles

	// Status styles
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style

	// Card details
	VoteStyle  lipgloss.Style
	TimerStyle lipgloss.Style
)

func init() {
	Init(config.DefaultColorScheme())
}

// Init initializes all CLI styles with the given color scheme
func Init(colors config.ColorScheme) {
	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colors.Accent)).
		Padding(0, 1).
		Width(CardWidth)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Title))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Subtle))

	LabelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Accent))

	ValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Normal))

	SectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Accent)).
		Bold(true).
		MarginTop(1)

	SuccessStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Success))

	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Error))

	WarningStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Warning))

	VoteStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Vote))

	TimerStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Timer))
}

// ColoredText renders text with a hex color
func ColoredText(text, hexColor string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(hexColor)).
		Render(text)
}

// RenderColumnHeader renders a column title in the column's accent color
func RenderColumnHeader(col *models.Column) string {
	if col.AccentColor == "" {
		return SectionStyle.Render(col.Title)
	}
	return SectionStyle.Foreground(lipgloss.Color(col.AccentColor)).Render(col.Title)
}

// RenderCard wraps content in a styled card border
func RenderCard(content string) string {
	return CardStyle.Render(content)
}

// ColumnTitle renders a column title inline, in its accent color when set
func ColumnTitle(col *models.Column) string {
	if col.AccentColor == "" {
		return ValueStyle.Render(col.Title)
	}
	return ColoredText(col.Title, col.AccentColor)
}
