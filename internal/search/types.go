package search

import (
	"context"

	"moviesearch/internal/domain"
)

// State holds the search box state. It is owned by a Controller and only
// mutated by controller operations.
type State struct {
	Query     string
	Active    bool     // results panel is eligible to be shown
	Fetching  bool     // a lookup is scheduled or in flight
	Items     []string // latest applied match list, in relevance order
	Animating bool     // empty-input animation window is open
}

// Height is the size category of the results panel
type Height int

const (
	HeightNone Height = iota
	HeightFetching
	HeightResults
)

// Pixel sizes of the results panel in the web layout
const (
	resultsHeightDefault  = 0
	resultsHeightFetching = 29
	resultsHeight         = 160
)

func (h Height) String() string {
	switch h {
	case HeightFetching:
		return "fetching"
	case HeightResults:
		return "results"
	default:
		return "none"
	}
}

// Pixels returns the panel height used by a pixel-based surface
func (h Height) Pixels() int {
	switch h {
	case HeightFetching:
		return resultsHeightFetching
	case HeightResults:
		return resultsHeight
	default:
		return resultsHeightDefault
	}
}

// AreaKind says what the result area should show
type AreaKind int

const (
	AreaNone AreaKind = iota
	AreaLoading
	AreaResults
	AreaEmpty
)

// EmptyResultMessage is shown when a lookup produced no items
const EmptyResultMessage = "No items were found"

// Span is a piece of a result title; Match marks the highlighted query term
type Span struct {
	Text  string
	Match bool
}

// ResultRow is one rendered dropdown entry
type ResultRow struct {
	Item     string
	Spans    []Span
	Selected bool
}

// ResultArea is the render-ready content of the results panel
type ResultArea struct {
	Kind AreaKind
	Rows []ResultRow
}

// Lookup is the search backend collaborator
type Lookup interface {
	Lookup(ctx context.Context, query string) ([]string, error)
}

// LookupFunc adapts a function to the Lookup interface
type LookupFunc func(ctx context.Context, query string) ([]string, error)

func (f LookupFunc) Lookup(ctx context.Context, query string) ([]string, error) {
	return f(ctx, query)
}

// HistoryWriter receives selected results
type HistoryWriter interface {
	Save(entry domain.HistoryEntry)
}
