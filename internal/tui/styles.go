package tui

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme of the interface.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// palette holds the ANSI 256 colors of one theme.
type palette struct {
	text    lipgloss.Color
	muted   lipgloss.Color
	accent  lipgloss.Color
	success lipgloss.Color
	danger  lipgloss.Color
	titleBg lipgloss.Color
}

var palettes = map[Theme]palette{
	ThemeLight: {text: "235", muted: "244", accent: "25", success: "28", danger: "160", titleBg: "153"},
	ThemeDark:  {text: "252", muted: "243", accent: "75", success: "78", danger: "203", titleBg: "24"},
}

// Styles are the lipgloss styles derived from a theme.
type Styles struct {
	Title        lipgloss.Style
	Section      lipgloss.Style
	Label        lipgloss.Style
	FieldError   lipgloss.Style
	Card         lipgloss.Style
	SelectedCard lipgloss.Style
	CardName     lipgloss.Style
	CardDetail   lipgloss.Style
	Placeholder  lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style
	Dialog       lipgloss.Style
	DangerDialog lipgloss.Style
	Button       lipgloss.Style
}

// NewStyles builds the styles for the given theme. Unknown themes fall back
// to the dark theme.
func NewStyles(theme Theme) Styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[ThemeDark]
	}
	cardBorder := lipgloss.Border{Left: "│"}
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.text).
			Background(p.titleBg).
			Padding(0, 1),
		Section:    lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		Label:      lipgloss.NewStyle().Foreground(p.muted).Width(7),
		FieldError: lipgloss.NewStyle().Foreground(p.danger),
		Card: lipgloss.NewStyle().
			Border(cardBorder, false, false, false, true).
			BorderForeground(p.muted).
			PaddingLeft(1),
		SelectedCard: lipgloss.NewStyle().
			Border(lipgloss.Border{Left: "┃"}, false, false, false, true).
			BorderForeground(p.accent).
			PaddingLeft(1),
		CardName:    lipgloss.NewStyle().Bold(true).Foreground(p.text),
		CardDetail:  lipgloss.NewStyle().Foreground(p.muted),
		Placeholder: lipgloss.NewStyle().Italic(true).Foreground(p.muted),
		Success:     lipgloss.NewStyle().Foreground(p.success),
		Failure:     lipgloss.NewStyle().Foreground(p.danger),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.accent).
			Padding(1, 2),
		DangerDialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.danger).
			Padding(1, 2),
		Button: lipgloss.NewStyle().Foreground(p.accent),
	}
}
