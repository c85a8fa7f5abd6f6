package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// Theme colors the panels and the two field traces.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color

	// E and H are the trace colors in lipgloss and asciigraph form.
	E, H         lipgloss.Color
	EPlot, HPlot asciigraph.AnsiColor
}

var (
	ThemePhosphor = Theme{
		Name:    "phosphor",
		Primary: lipgloss.Color("#00ff88"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#d0ffd0"),
		Muted:   lipgloss.Color("#336633"),
		Warning: lipgloss.Color("#ffff00"),
		E:       lipgloss.Color("#00ff00"),
		H:       lipgloss.Color("#ffcc00"),
		EPlot:   asciigraph.Green,
		HPlot:   asciigraph.Yellow,
	}

	ThemeCyberpunk = Theme{
		Name:    "cyberpunk",
		Primary: lipgloss.Color("#ff00ff"),
		Accent:  lipgloss.Color("#ffff00"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666666"),
		Warning: lipgloss.Color("#ff8800"),
		E:       lipgloss.Color("#00ffff"),
		H:       lipgloss.Color("#ff00ff"),
		EPlot:   asciigraph.Cyan,
		HPlot:   asciigraph.Magenta,
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#0077be"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Warning: lipgloss.Color("#ffcc00"),
		E:       lipgloss.Color("#00a8cc"),
		H:       lipgloss.Color("#ff4444"),
		EPlot:   asciigraph.Blue,
		HPlot:   asciigraph.Red,
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Warning: lipgloss.Color("#ffaa00"),
		E:       lipgloss.Color("#ffffff"),
		H:       lipgloss.Color("#888888"),
		EPlot:   asciigraph.Default,
		HPlot:   asciigraph.Default,
	}

	Themes = []Theme{
		ThemePhosphor,
		ThemeCyberpunk,
		ThemeOcean,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after t in Themes, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
