package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/trainadmin/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// accents maps a display.theme name to the header/selection color.
var accents = map[string]lipgloss.AdaptiveColor{
	"default": ColorBlue,
	"rail":    ColorGreen,
	"night":   ColorMagenta,
}

// Names returns the supported theme names.
func Names() []string {
	return []string{"default", "rail", "night"}
}

// Apply switches the accent color used by the shared styles. Unknown
// names select the default theme.
func Apply(name string) {
	accent, ok := accents[strings.ToLower(name)]
	if !ok {
		accent = ColorBlue
	}
	HeaderStyle = HeaderStyle.Background(accent)
	SelectedItemStyle = SelectedItemStyle.Foreground(accent).BorderForeground(accent)
	TableHeaderStyle = TableHeaderStyle.Foreground(accent)
}

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// DetailPanelStyle wraps the detail view content area.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// SelectedItemStyle highlights the currently focused row.
var SelectedItemStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue).
	BorderForeground(ColorBlue)

// TableHeaderStyle styles the column titles of the train table.
var TableHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue).
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(ColorBorder).
	BorderBottom(true)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// DimmedStyle renders secondary text.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// ErrorTextStyle renders inline error messages.
var ErrorTextStyle = lipgloss.NewStyle().
	Foreground(ColorRed).
	Bold(true)

// LevelStyle returns a color-coded style for a notification level.
func LevelStyle(level string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch level {
	case model.LevelSuccess:
		return base.Foreground(ColorGreen)
	case model.LevelError:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorYellow)
	}
}
