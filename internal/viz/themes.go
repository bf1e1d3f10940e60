package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/snowglobe/internal/palette"
)

// Theme defines the particle palette and the color scheme for the TUI
type Theme struct {
	Name       string
	Palette    palette.Palette
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
}

// Available themes
var (
	ThemeEvergreen = Theme{
		Name:       "evergreen",
		Palette:    palette.Evergreen,
		Primary:    lipgloss.Color(palette.EmeraldLight),
		Secondary:  lipgloss.Color(palette.Gold),
		Accent:     lipgloss.Color(palette.Ruby),
		Background: lipgloss.Color("#001a14"),
		Text:       lipgloss.Color("#f0fff4"),
		Muted:      lipgloss.Color("#4a6b5d"),
	}

	ThemeFrost = Theme{
		Name:       "frost",
		Palette:    palette.MustNew("frost", "#1b3a5c", "#4f8fc0", "#bfe3ff", "#ffffff"),
		Primary:    lipgloss.Color("#bfe3ff"),
		Secondary:  lipgloss.Color("#ffffff"),
		Accent:     lipgloss.Color("#7fd4ff"),
		Background: lipgloss.Color("#06121f"),
		Text:       lipgloss.Color("#eaf6ff"),
		Muted:      lipgloss.Color("#4d6a85"),
	}

	ThemeCandy = Theme{
		Name:       "candy",
		Palette:    palette.MustNew("candy", "#7a0019", palette.Ruby, "#ffffff", palette.Gold),
		Primary:    lipgloss.Color("#ff4d6d"),
		Secondary:  lipgloss.Color("#ffffff"),
		Accent:     lipgloss.Color(palette.Gold),
		Background: lipgloss.Color("#1a0008"),
		Text:       lipgloss.Color("#fff0f3"),
		Muted:      lipgloss.Color("#8c5a66"),
	}

	ThemeAurora = Theme{
		Name:       "aurora",
		Palette:    palette.MustNew("aurora", "#0b3d2e", "#1fab89", "#62d2a2", "#c86bfa"),
		Primary:    lipgloss.Color("#62d2a2"),
		Secondary:  lipgloss.Color("#c86bfa"),
		Accent:     lipgloss.Color("#9df9ef"),
		Background: lipgloss.Color("#050b14"),
		Text:       lipgloss.Color("#e8fff8"),
		Muted:      lipgloss.Color("#3f6b62"),
	}

	ThemeMono = Theme{
		Name:       "mono",
		Palette:    palette.MustNew("mono", "#444444", "#888888", "#cccccc", "#ffffff"),
		Primary:    lipgloss.Color("#ffffff"),
		Secondary:  lipgloss.Color("#cccccc"),
		Accent:     lipgloss.Color("#888888"),
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#666666"),
	}

	// Default theme
	CurrentTheme = ThemeEvergreen

	// All available themes
	Themes = []Theme{
		ThemeEvergreen,
		ThemeFrost,
		ThemeCandy,
		ThemeAurora,
		ThemeMono,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeEvergreen
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = ThemeEvergreen
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
