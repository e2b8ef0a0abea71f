package views

import (
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"moviesearch/internal/domain"
	"moviesearch/internal/history"
)

// Labels shown by the history panel
const (
	HistoryTitle      = "Search history"
	ClearHistoryLabel = "Clear search history"
	EmptyHistoryLabel = "There are no saved items yet"
)

// HistoryState is what the history panel needs to render
type HistoryState struct {
	Entries []domain.HistoryEntry
	Cursor  int
	Focused bool
	Now     time.Time
	Width   int
	Rows    int // visible entry rows, 0 for all
}

// HistoryRenderer renders the saved searches panel
type HistoryRenderer struct {
	styles *Styles
}

// NewHistoryRenderer creates a new history renderer
func NewHistoryRenderer(styles *Styles) *HistoryRenderer {
	return &HistoryRenderer{styles: styles}
}

// Render returns the history panel
func (r *HistoryRenderer) Render(s HistoryState) string {
	var b strings.Builder

	title := r.styles.Section
	if s.Focused {
		title = r.styles.SectionFocused
	}
	b.WriteString(title.Render(HistoryTitle))
	b.WriteString("\n")

	if len(s.Entries) == 0 {
		b.WriteString(r.styles.Empty.Render(EmptyHistoryLabel))
		return b.String()
	}

	rows := s.Rows
	if rows <= 0 || rows > len(s.Entries) {
		rows = len(s.Entries)
	}
	first := FirstRow(s.Cursor, len(s.Entries), rows)

	nameWidth := 0
	for _, e := range s.Entries[first : first+rows] {
		if w := runewidth.StringWidth(e.Name); w > nameWidth {
			nameWidth = w
		}
	}
	if limit := s.Width / 2; limit > 0 && nameWidth > limit {
		nameWidth = limit
	}

	for i := first; i < first+rows; i++ {
		e := s.Entries[i]
		prefix := "  "
		style := r.styles.Row
		if s.Focused && i == s.Cursor {
			prefix = "> "
			style = r.styles.SelectedRow
		}
		name := runewidth.FillRight(runewidth.Truncate(e.Name, nameWidth, ellipsis), nameWidth)
		b.WriteString(prefix)
		b.WriteString(style.Render(name))
		b.WriteString("  ")
		b.WriteString(r.styles.Date.Render(history.FormatDate(e.CreatedDate, s.Now)))
		b.WriteString("\n")
	}
	b.WriteString(r.styles.ClearAction.Render(ClearHistoryLabel))
	return b.String()
}
