package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"moviesearch/internal/eventloop"
	"moviesearch/internal/search"
	"moviesearch/internal/ui/views"
)

// lookupTimeout bounds a headless lookup after the debounce window
const lookupTimeout = 30 * time.Second

func newLookupCmd(a *app) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "lookup <query...>",
		Short: "Run one search without the UI and print the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return errors.New("query must not be empty")
			}
			return a.runLookup(cmd.Context(), cmd.OutOrStdout(), query, save)
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "save the top result to the search history")
	return cmd
}

// runLookup feeds query through a controller driven by a private event loop,
// the same path keystrokes take in the UI, and prints the result area.
func (a *app) runLookup(ctx context.Context, w io.Writer, query string, save bool) error {
	svc, err := a.lookupService()
	if err != nil {
		return err
	}

	var (
		mu        sync.Mutex
		lookupErr error
	)
	recorded := search.LookupFunc(func(ctx context.Context, q string) ([]string, error) {
		results, err := svc.Lookup(ctx, q)
		mu.Lock()
		lookupErr = err
		mu.Unlock()
		return results, err
	})

	var writer search.HistoryWriter
	if save {
		store, err := a.openHistory()
		if err != nil {
			return err
		}
		writer = store
	}

	loop := eventloop.New(16)
	defer loop.Close()
	ctrl := search.NewController(recorded, writer, loop, a.searchOptions())
	defer ctrl.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Search.Debounce()+lookupTimeout)
	defer cancel()

	ctrl.OnQueryChanged(query)
	for ctrl.State().Fetching {
		if err := loop.RunOne(ctx); err != nil {
			return fmt.Errorf("lookup did not finish: %w", err)
		}
	}

	mu.Lock()
	err = lookupErr
	mu.Unlock()
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	writeResultArea(w, ctrl.ResultArea())

	if save && ctrl.SelectCurrent() {
		if err := a.history.Err(); err != nil {
			return fmt.Errorf("failed to save history: %w", err)
		}
		fmt.Fprintf(w, "Saved %q to search history\n", ctrl.State().Query)
	}
	return nil
}

// writeResultArea prints one result per line with the matched part styled
func writeResultArea(w io.Writer, area search.ResultArea) {
	styles := views.NewStyles()
	switch area.Kind {
	case search.AreaEmpty:
		fmt.Fprintln(w, search.EmptyResultMessage)
	case search.AreaResults:
		for _, row := range area.Rows {
			var b strings.Builder
			for _, span := range row.Spans {
				if span.Match {
					b.WriteString(styles.Match.Render(span.Text))
				} else {
					b.WriteString(span.Text)
				}
			}
			fmt.Fprintln(w, b.String())
		}
	}
}
