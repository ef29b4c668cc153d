package ui

import (
	"strings"

	"habits/internal/config"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colors every style is derived from.
type Palette struct {
	Primary   lipgloss.Color
	Accent    lipgloss.Color
	Muted     lipgloss.Color
	Bg        lipgloss.Color
	BgLight   lipgloss.Color
	Text      lipgloss.Color
	TextMuted lipgloss.Color

	// Semantic colors, not configurable.
	Danger  lipgloss.Color
	Warning lipgloss.Color
	Success lipgloss.Color
}

var defaultPalette = Palette{
	Primary:   "#7C3AED", // Violet
	Accent:    "#10B981", // Emerald
	Muted:     "#6B7280", // Gray
	Bg:        "#1F2937",
	BgLight:   "#374151",
	Text:      "#F9FAFB",
	TextMuted: "#9CA3AF",
	Danger:    "#EF4444",
	Warning:   "#F59E0B",
	Success:   "#10B981",
}

// Styles holds the rendered look of every screen element.
type Styles struct {
	Colors Palette

	// Title bar
	Title lipgloss.Style
	Date  lipgloss.Style

	// TODO/DONE columns
	Column        lipgloss.Style
	ColumnFocused lipgloss.Style
	Heading       lipgloss.Style

	// Habit rows
	Todo     lipgloss.Style
	Done     lipgloss.Style
	Cursor   lipgloss.Style
	Streak   lipgloss.Style
	DoneIcon string
	TodoIcon string

	// Footer
	Help    lipgloss.Style
	HelpKey lipgloss.Style
	Status  lipgloss.Style
	Error   lipgloss.Style
	Prompt  lipgloss.Style

	// Analytics and info pages
	Label lipgloss.Style
	Value lipgloss.Style
}

// NewStyles builds the styles for cfg's theme.
func NewStyles(cfg *config.Config) *Styles {
	return NewStylesFromTheme(&cfg.Theme)
}

// NewStylesFromTheme builds the styles for a theme. Empty theme colors keep
// their defaults.
func NewStylesFromTheme(theme *config.ThemeConfig) *Styles {
	p := defaultPalette
	override(&p.Primary, theme.Primary)
	override(&p.Accent, theme.Accent)
	override(&p.Muted, theme.Muted)
	override(&p.Bg, theme.Background)
	override(&p.Text, theme.Text)
	return p.styles()
}

func override(c *lipgloss.Color, hex string) {
	if hex = strings.TrimSpace(hex); hex != "" {
		*c = lipgloss.Color(hex)
	}
}

func (p Palette) styles() *Styles {
	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	column := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	return &Styles{
		Colors: p,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text).
			Background(p.Primary).
			Padding(0, 1),
		Date: fg(p.TextMuted),

		Column:        column.BorderForeground(p.Muted),
		ColumnFocused: column.BorderForeground(p.Primary),
		Heading:       fg(p.Primary).Bold(true),

		Todo:     fg(p.Text),
		Done:     fg(p.TextMuted),
		Cursor:   fg(p.Text).Background(p.BgLight).Bold(true),
		Streak:   fg(p.Warning).Bold(true),
		DoneIcon: fg(p.Success).Render("●"),
		TodoIcon: fg(p.Muted).Render("○"),

		Help:    fg(p.TextMuted),
		HelpKey: fg(p.Accent).Bold(true),
		Status:  fg(p.Success).Italic(true),
		Error:   fg(p.Danger).Bold(true),
		Prompt:  fg(p.Primary).Bold(true),

		Label: fg(p.TextMuted),
		Value: fg(p.Text).Bold(true),
	}
}

// RenderHelp renders key/description pairs as "[key] desc". A trailing key
// without a description is dropped.
func (s *Styles) RenderHelp(keys ...string) string {
	parts := make([]string, 0, len(keys)/2)
	for i := 0; i+1 < len(keys); i += 2 {
		parts = append(parts, s.HelpKey.Render("["+keys[i]+"]")+" "+s.Help.Render(keys[i+1]))
	}
	return strings.Join(parts, "  ")
}

// RenderBindings renders the help text of key bindings.
func (s *Styles) RenderBindings(bindings ...key.Binding) string {
	pairs := make([]string, 0, len(bindings)*2)
	for _, b := range bindings {
		h := b.Help()
		pairs = append(pairs, h.Key, h.Desc)
	}
	return s.RenderHelp(pairs...)
}
