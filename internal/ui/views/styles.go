package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title          lipgloss.Style
	Input          lipgloss.Style
	InputFocused   lipgloss.Style
	InputAnimating lipgloss.Style
	Panel          lipgloss.Style
	Row            lipgloss.Style
	SelectedRow    lipgloss.Style
	Match          lipgloss.Style
	Loading        lipgloss.Style
	Empty          lipgloss.Style
	Section        lipgloss.Style
	SectionFocused lipgloss.Style
	Date           lipgloss.Style
	ClearAction    lipgloss.Style
	Dim            lipgloss.Style
	Help           lipgloss.Style
	StatusError    lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	input := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("241")).
		Padding(0, 1)

	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Input:          input,
		InputFocused:   input.BorderForeground(lipgloss.Color("99")),
		InputAnimating: input.BorderForeground(lipgloss.Color("226")), // yellow flash
		Panel:          lipgloss.NewStyle().PaddingLeft(2),
		Row:            lipgloss.NewStyle(),
		SelectedRow:    lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Match:          lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Loading:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		Empty:          lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Section: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginTop(1),
		SectionFocused: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginTop(1),
		Date:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		ClearAction: lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		Dim:         lipgloss.NewStyle().Faint(true),
		Help:        lipgloss.NewStyle().Faint(true).MarginTop(1),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
}
