package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colour scheme of the terminal host. Pill borders always
// use the category palette; the theme covers chrome and text.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Frame     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
}

var (
	ThemeMidnight = Theme{
		Name:      "midnight",
		Primary:   lipgloss.Color("#e5e7eb"),
		Secondary: lipgloss.Color("#60a5fa"),
		Accent:    lipgloss.Color("#facc15"), // dragged pill
		Text:      lipgloss.Color("#f3f4f6"),
		Muted:     lipgloss.Color("#6b7280"),
		Frame:     lipgloss.Color("#374151"),
		Success:   lipgloss.Color("#4ade80"),
		Warning:   lipgloss.Color("#fb923c"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"),
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Frame:     lipgloss.Color("#007700"),
		Success:   lipgloss.Color("#88ff88"),
		Warning:   lipgloss.Color("#ffff00"),
	}

	ThemePaper = Theme{
		Name:      "paper",
		Primary:   lipgloss.Color("#111827"),
		Secondary: lipgloss.Color("#1d4ed8"),
		Accent:    lipgloss.Color("#dc2626"),
		Text:      lipgloss.Color("#111827"),
		Muted:     lipgloss.Color("#6b7280"),
		Frame:     lipgloss.Color("#d1d5db"),
		Success:   lipgloss.Color("#15803d"),
		Warning:   lipgloss.Color("#c2410c"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Primary:   lipgloss.Color("#ff6b6b"),
		Secondary: lipgloss.Color("#feca57"),
		Accent:    lipgloss.Color("#ff9ff3"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
		Frame:     lipgloss.Color("#5c3b5e"),
		Success:   lipgloss.Color("#5fd068"),
		Warning:   lipgloss.Color("#ffc048"),
	}

	Themes = []Theme{ThemeMidnight, ThemeRetroGreen, ThemePaper, ThemeSunset}
)

// GetTheme returns a theme by name, falling back to midnight.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMidnight
}

func themeIndex(name string) int {
	for i, t := range Themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
