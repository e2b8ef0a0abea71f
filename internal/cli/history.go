package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"moviesearch/internal/domain"
	"moviesearch/internal/history"
	"moviesearch/internal/ui"
	"moviesearch/internal/ui/views"
)

// Output formats accepted by history list
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
	OutputTOML = "toml"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or edit the search history",
	}
	cmd.AddCommand(
		newHistoryListCmd(a),
		newHistoryRemoveCmd(a),
		newHistoryClearCmd(a),
		newHistoryViewCmd(a),
	)
	return cmd
}

func newHistoryListCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print saved searches, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openHistory()
			if err != nil {
				return err
			}
			return writeHistory(cmd.OutOrStdout(), store.List(), output, time.Now())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", OutputText, "output format: text|json|yaml|toml")
	return cmd
}

func newHistoryRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <createdDate>",
		Short: "Remove the entry saved at createdDate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openHistory()
			if err != nil {
				return err
			}
			entry, ok := store.Get(args[0])
			if !ok {
				return fmt.Errorf("no history entry saved at %s", args[0])
			}
			store.Remove(entry.CreatedDate)
			if err := store.Err(); err != nil {
				return fmt.Errorf("failed to save history: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %q\n", entry.Name)
			return nil
		},
	}
}

func newHistoryClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear search history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openHistory()
			if err != nil {
				return err
			}
			n := store.Len()
			store.Clear()
			if err := store.Err(); err != nil {
				return fmt.Errorf("failed to save history: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d entries\n", n)
			return nil
		},
	}
}

func newHistoryViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Page through the search history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal() {
				return ErrNotTerminal
			}
			store, err := a.openHistory()
			if err != nil {
				return err
			}
			content := history.FormatList(store.List(), time.Now())
			if content == "" {
				content = views.EmptyHistoryLabel + "\n"
			}
			return ui.RunPager(content)
		},
	}
}

// writeHistory prints entries in the requested format
func writeHistory(w io.Writer, entries []domain.HistoryEntry, format string, now time.Time) error {
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case OutputText, "":
		if len(entries) == 0 {
			_, err = fmt.Fprintln(w, views.EmptyHistoryLabel)
			return err
		}
		_, err = io.WriteString(w, history.FormatList(entries, now))
		return err
	case OutputJSON:
		data, err = json.MarshalIndent(entries, "", "  ")
		data = append(data, '\n')
	case OutputYAML:
		data, err = yaml.Marshal(entries)
	case OutputTOML:
		data, err = toml.Marshal(struct {
			History []domain.HistoryEntry `toml:"history"`
		}{entries})
	default:
		return fmt.Errorf("unknown output format %q (expected text, json, yaml or toml)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	_, err = w.Write(data)
	return err
}
