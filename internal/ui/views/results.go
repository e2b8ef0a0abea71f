package views

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"moviesearch/internal/search"
)

const ellipsis = "…"

// ResultsState is what the results panel needs to render
type ResultsState struct {
	Visible bool
	Height  search.Height
	Area    search.ResultArea
	Rows    int    // rows of the panel in the results height
	Spinner string // current spinner frame
	Width   int
}

// ResultsRenderer renders the dropdown under the search input
type ResultsRenderer struct {
	styles *Styles
}

// NewResultsRenderer creates a new results renderer
func NewResultsRenderer(styles *Styles) *ResultsRenderer {
	return &ResultsRenderer{styles: styles}
}

// PanelRows returns how many lines the panel occupies
func PanelRows(visible bool, h search.Height, rows int) int {
	if !visible {
		return 0
	}
	switch h {
	case search.HeightFetching:
		return 1
	case search.HeightResults:
		return rows
	default:
		return 0
	}
}

// FirstRow returns the index of the first item shown when the panel holds
// rows lines and the cursor must stay in view.
func FirstRow(cursor, total, rows int) int {
	if rows <= 0 || total <= rows || cursor < rows {
		return 0
	}
	first := cursor - rows + 1
	if first > total-rows {
		first = total - rows
	}
	return first
}

// Render returns the panel content, exactly PanelRows lines tall
func (r *ResultsRenderer) Render(s ResultsState) string {
	n := PanelRows(s.Visible, s.Height, s.Rows)
	if n == 0 {
		return ""
	}
	width := s.Width - r.styles.Panel.GetHorizontalFrameSize()

	lines := make([]string, 0, n)
	switch s.Area.Kind {
	case search.AreaLoading:
		lines = append(lines, r.styles.Loading.Render(s.Spinner+" Searching..."))
	case search.AreaEmpty:
		lines = append(lines, r.styles.Empty.Render(search.EmptyResultMessage))
	case search.AreaResults:
		cursor := 0
		for i, row := range s.Area.Rows {
			if row.Selected {
				cursor = i
			}
		}
		first := FirstRow(cursor, len(s.Area.Rows), n)
		for i := first; i < len(s.Area.Rows) && len(lines) < n; i++ {
			lines = append(lines, r.renderRow(s.Area.Rows[i], width))
		}
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return r.styles.Panel.Render(strings.Join(lines, "\n"))
}

func (r *ResultsRenderer) renderRow(row search.ResultRow, width int) string {
	prefix := "  "
	style := r.styles.Row
	if row.Selected {
		prefix = "> "
		style = r.styles.SelectedRow
	}

	var b strings.Builder
	b.WriteString(prefix)
	for _, span := range TruncateSpans(row.Spans, width-runewidth.StringWidth(prefix)) {
		if span.Match {
			b.WriteString(r.styles.Match.Inherit(style).Render(span.Text))
		} else {
			b.WriteString(style.Render(span.Text))
		}
	}
	return b.String()
}

// TruncateSpans cuts spans to at most width display cells, ending in an
// ellipsis when anything was dropped. A non-positive width disables it.
func TruncateSpans(spans []search.Span, width int) []search.Span {
	if width <= 0 {
		return spans
	}
	total := 0
	for _, s := range spans {
		total += runewidth.StringWidth(s.Text)
	}
	if total <= width {
		return spans
	}

	out := make([]search.Span, 0, len(spans))
	left := width
	for _, s := range spans {
		w := runewidth.StringWidth(s.Text)
		if w < left {
			out = append(out, s)
			left -= w
			continue
		}
		text := runewidth.Truncate(s.Text, left, ellipsis)
		if w == left {
			// later spans are dropped, so the ellipsis takes this span's last cell
			text = runewidth.Truncate(s.Text, left-runewidth.StringWidth(ellipsis), "") + ellipsis
		}
		out = append(out, search.Span{Text: text, Match: s.Match})
		return out
	}
	return out
}
