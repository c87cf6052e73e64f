// Package styles provides the TUI color themes and shared styles.
package styles

import (
	"image/color"
	"strconv"
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme holds the color palette for the application.
type Theme struct {
	Name   string
	IsDark bool

	Primary   color.Color
	Secondary color.Color
	Accent    color.Color

	BgBase    color.Color
	BgSubtle  color.Color
	BgOverlay color.Color

	FgBase   color.Color
	FgMuted  color.Color
	FgSubtle color.Color

	Border      color.Color
	BorderFocus color.Color

	Success color.Color
	Error   color.Color
	Warning color.Color
	Info    color.Color

	styles *StyleSet
	once   sync.Once
}

// StyleSet holds pre-built lipgloss styles derived from the theme.
type StyleSet struct {
	Title   lipgloss.Style
	Primary lipgloss.Style
	Text    lipgloss.Style
	Muted   lipgloss.Style
	Subtle  lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Code    lipgloss.Style
	Bold    lipgloss.Style
}

// S returns the theme's style set, building it on first use.
func (t *Theme) S() *StyleSet {
	t.once.Do(func() {
		t.styles = &StyleSet{
			Title:   lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
			Primary: lipgloss.NewStyle().Foreground(t.Primary),
			Text:    lipgloss.NewStyle().Foreground(t.FgBase),
			Muted:   lipgloss.NewStyle().Foreground(t.FgMuted),
			Subtle:  lipgloss.NewStyle().Foreground(t.FgSubtle),
			Info:    lipgloss.NewStyle().Foreground(t.Info),
			Success: lipgloss.NewStyle().Foreground(t.Success),
			Warning: lipgloss.NewStyle().Foreground(t.Warning),
			Error:   lipgloss.NewStyle().Foreground(t.Error),
			Code:    lipgloss.NewStyle().Foreground(t.Secondary),
			Bold:    lipgloss.NewStyle().Foreground(t.FgBase).Bold(true),
		}
	})
	return t.styles
}

// NewDarkTheme creates the default dark theme.
func NewDarkTheme() *Theme {
	return &Theme{
		Name:   "dark",
		IsDark: true,

		Primary:   ParseHex("#61afef"),
		Secondary: ParseHex("#56b6c2"),
		Accent:    ParseHex("#c678dd"),

		BgBase:    ParseHex("#1e1e1e"),
		BgSubtle:  ParseHex("#252526"),
		BgOverlay: ParseHex("#2d2d30"),

		FgBase:   ParseHex("#abb2bf"),
		FgMuted:  ParseHex("#7f848e"),
		FgSubtle: ParseHex("#5c6370"),

		Border:      ParseHex("#3e4451"),
		BorderFocus: ParseHex("#61afef"),

		Success: ParseHex("#98c379"),
		Error:   ParseHex("#e06c75"),
		Warning: ParseHex("#e5c07b"),
		Info:    ParseHex("#61afef"),
	}
}

// NewLightTheme creates the light theme.
func NewLightTheme() *Theme {
	return &Theme{
		Name:   "light",
		IsDark: false,

		Primary:   ParseHex("#0184bc"),
		Secondary: ParseHex("#0997b3"),
		Accent:    ParseHex("#a626a4"),

		BgBase:    ParseHex("#fafafa"),
		BgSubtle:  ParseHex("#f0f0f1"),
		BgOverlay: ParseHex("#e5e5e6"),

		FgBase:   ParseHex("#383a42"),
		FgMuted:  ParseHex("#696c77"),
		FgSubtle: ParseHex("#a0a1a7"),

		Border:      ParseHex("#d4d4d4"),
		BorderFocus: ParseHex("#0184bc"),

		Success: ParseHex("#50a14f"),
		Error:   ParseHex("#e45649"),
		Warning: ParseHex("#c18401"),
		Info:    ParseHex("#0184bc"),
	}
}

var (
	themeMu      sync.RWMutex
	currentTheme = NewDarkTheme()
)

// CurrentTheme returns the active theme.
func CurrentTheme() *Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// SetTheme activates the named theme; unknown names keep the dark theme.
func SetTheme(name string) {
	themeMu.Lock()
	defer themeMu.Unlock()
	if name == "light" {
		currentTheme = NewLightTheme()
		return
	}
	currentTheme = NewDarkTheme()
}

// ParseHex converts a #rrggbb string to a color. Invalid input yields
// opaque black.
func ParseHex(s string) color.Color {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{A: 0xff}
	}
	r, err1 := strconv.ParseUint(s[1:3], 16, 8)
	g, err2 := strconv.ParseUint(s[3:5], 16, 8)
	b, err3 := strconv.ParseUint(s[5:7], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}
}
