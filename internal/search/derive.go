package search

import "strings"

// ComputeVisibility reports whether the results panel is shown
func ComputeVisibility(s State) bool {
	return s.Active && (s.Fetching ||
		len(s.Items) > 0 ||
		(len(s.Items) == 0 && s.Query != ""))
}

// ComputeHeight returns the results panel size category
func ComputeHeight(s State) Height {
	if s.Active && (s.Fetching || (s.Query != "" && len(s.Items) == 0)) {
		return HeightFetching
	}
	if s.Active && len(s.Items) > 0 {
		return HeightResults
	}
	return HeightNone
}

// RenderResultArea builds the result area for s with the row at cursor selected
func RenderResultArea(s State, cursor int) ResultArea {
	switch {
	case s.Fetching:
		return ResultArea{Kind: AreaLoading}
	case len(s.Items) > 0:
		rows := make([]ResultRow, len(s.Items))
		for i, item := range s.Items {
			rows[i] = ResultRow{
				Item:     item,
				Spans:    Highlight(item, s.Query),
				Selected: i == cursor,
			}
		}
		return ResultArea{Kind: AreaResults, Rows: rows}
	case s.Query != "":
		return ResultArea{Kind: AreaEmpty}
	default:
		return ResultArea{Kind: AreaNone}
	}
}

// Highlight splits text around the first case-insensitive occurrence of query
func Highlight(text, query string) []Span {
	if text == "" {
		return nil
	}
	start, end, ok := findFold(text, query)
	if !ok {
		return []Span{{Text: text}}
	}

	tr := []rune(text)
	spans := make([]Span, 0, 3)
	if start > 0 {
		spans = append(spans, Span{Text: string(tr[:start])})
	}
	spans = append(spans, Span{Text: string(tr[start:end]), Match: true})
	if end < len(tr) {
		spans = append(spans, Span{Text: string(tr[end:])})
	}
	return spans
}

// findFold returns the rune range of the first case-insensitive match
func findFold(text, query string) (int, int, bool) {
	if query == "" {
		return 0, 0, false
	}
	tr := []rune(text)
	n := len([]rune(query))
	for i := 0; i+n <= len(tr); i++ {
		if strings.EqualFold(string(tr[i:i+n]), query) {
			return i, i + n, true
		}
	}
	return 0, 0, false
}

// truncate limits s to max runes; max <= 0 disables the limit
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
