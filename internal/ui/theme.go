package ui

import (
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Theme bundles styles, symbols and the panel border.
// All helpers in this package pull from current.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error lipgloss.Style

	Border      lipgloss.Border
	BorderColor lipgloss.Color

	SymOK, SymFail, Bullet string
}

var themes = map[string]Theme{
	"classic": {
		Name:        "classic",
		Title:       lipgloss.NewStyle().Bold(true),
		Muted:       lipgloss.NewStyle().Faint(true),
		Accent:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Border:      lipgloss.NormalBorder(),
		BorderColor: lipgloss.Color("8"),
		SymOK:       "✔", SymFail: "✖", Bullet: "•",
	},
	"neon": {
		Name:        "neon",
		Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("201")),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Accent:      lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
		Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Border:      lipgloss.RoundedBorder(),
		BorderColor: lipgloss.Color("51"),
		SymOK:       "✔", SymFail: "✖", Bullet: "◆",
	},
	"mono": {
		Name:    "mono",
		Title:   lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle(),
		Accent:  lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Border:  lipgloss.ASCIIBorder(),
		SymOK:   "ok", SymFail: "error:", Bullet: "-",
	},
}

var current = themes["classic"]

// ThemeNames lists the known themes in sorted order.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// SetTheme switches the current theme. Unknown names fall back to classic.
// The mono theme, NO_COLOR and a non-terminal stdout all turn colors off.
func SetTheme(name string) Theme {
	t, ok := themes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		t = themes["classic"]
	}
	current = t
	if t.Name == "mono" || os.Getenv("NO_COLOR") != "" || !IsTerminal(os.Stdout) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	return t
}

func Current() Theme { return current }

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
