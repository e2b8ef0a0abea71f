package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// AppTitle is shown above the search input
const AppTitle = "Movie search"

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width     int
	Input     string // rendered text input
	Focused   bool   // search region has focus
	Animating bool
	Results   ResultsState
	History   HistoryState
	Status    string
	Help      string
}

// Renderer handles all view rendering
type Renderer struct {
	styles        *Styles
	resultsRender *ResultsRenderer
	historyRender *HistoryRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:        styles,
		resultsRender: NewResultsRenderer(styles),
		historyRender: NewHistoryRenderer(styles),
	}
}

// Styles returns the renderer's styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Header renders the title and the search input
func (r *Renderer) Header(state ViewState) string {
	input := r.styles.Input
	switch {
	case state.Animating:
		input = r.styles.InputAnimating
	case state.Focused:
		input = r.styles.InputFocused
	}
	if w := state.Width - input.GetHorizontalFrameSize(); w > 0 {
		input = input.Width(w)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		r.styles.Title.Render(AppTitle),
		input.Render(state.Input),
	)
}

// SearchRegion renders the header and the results panel below it. Clicks
// landing outside its lines count as leaving the search box.
func (r *Renderer) SearchRegion(state ViewState) string {
	header := r.Header(state)
	results := r.resultsRender.Render(state.Results)
	if results == "" {
		return header
	}
	return header + "\n" + results
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}
	content.WriteString(r.SearchRegion(state))
	content.WriteString("\n")
	content.WriteString(r.historyRender.Render(state.History))
	content.WriteString("\n")

	if state.Status != "" {
		content.WriteString(r.styles.StatusError.Render(state.Status))
		content.WriteString("\n")
	}
	if state.Help != "" {
		content.WriteString(r.styles.Help.Render(state.Help))
	}
	return content.String()
}
