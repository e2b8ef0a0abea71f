// Package cli wires configuration, history and lookup into the moviesearch
// command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"moviesearch/internal/config"
	"moviesearch/internal/eventbus"
	"moviesearch/internal/history"
	"moviesearch/internal/kv"
	"moviesearch/internal/logging"
	"moviesearch/internal/lookup"
	"moviesearch/internal/search"
	"moviesearch/internal/ui"
)

// ErrNotTerminal is returned when an interactive command runs without a TTY
var ErrNotTerminal = errors.New("moviesearch needs an interactive terminal")

// globalOptions holds the persistent flags
type globalOptions struct {
	configPath     string
	historyBackend string
	historyPath    string
	provider       string
	debug          bool
}

func (o *globalOptions) register(fs *pflag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "path to a TOML config file (default <user config dir>/moviesearch/config.toml)")
	fs.StringVar(&o.historyBackend, "history-backend", "", "history storage: file|sqlite|memory")
	fs.StringVar(&o.historyPath, "history-path", "", "history file or database path")
	fs.StringVar(&o.provider, "provider", "", "lookup provider: catalog|omdb")
	fs.BoolVar(&o.debug, "debug", false, "write debug messages to the log file")
}

// apply copies explicitly set flags over the loaded configuration
func (o *globalOptions) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("history-backend") {
		cfg.History.Backend = o.historyBackend
	}
	if fs.Changed("history-path") {
		cfg.History.Path = o.historyPath
	}
	if fs.Changed("provider") {
		cfg.Lookup.Provider = o.provider
	}
	if o.debug {
		cfg.Log.Level = "debug"
	}
}

// app is the state shared by every command of one invocation
type app struct {
	opts globalOptions
	cfg  *config.Config
	bus  eventbus.EventBus

	backend kv.Store
	history *history.Store
}

// load reads the configuration and starts logging
func (a *app) load(cmd *cobra.Command) error {
	a.bus = eventbus.New()

	var svc config.Service
	if a.opts.configPath != "" {
		svc = config.NewServiceAt(a.opts.configPath, a.bus)
	} else {
		svc = config.NewService(a.bus)
	}

	cfg, err := svc.Load()
	if err != nil {
		return err
	}
	a.opts.apply(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	a.cfg = cfg

	if err := logging.Init(logging.Options{Path: cfg.Log.File, Level: cfg.Log.Level}); err != nil {
		return err
	}
	logging.Debug("configuration loaded", "path", svc.Path(), "provider", cfg.Lookup.Provider, "history", cfg.History.Backend)
	return nil
}

// openHistory opens the configured backend and the history store on it
func (a *app) openHistory() (*history.Store, error) {
	if a.history != nil {
		return a.history, nil
	}
	backend, err := kv.Open(a.cfg.History.Backend, a.cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	store, err := history.Open(backend, a.bus)
	if err != nil {
		backend.Close()
		return nil, err
	}
	a.backend = backend
	a.history = store
	return store, nil
}

func (a *app) lookupService() (lookup.Service, error) {
	l := a.cfg.Lookup
	return lookup.New(lookup.Options{
		Provider:    l.Provider,
		MaxResults:  l.MaxResults,
		CatalogPath: l.CatalogPath,
		Latency:     l.Latency(),
		OMDb: lookup.OMDbOptions{
			APIKey:            l.OMDb.APIKey,
			BaseURL:           l.OMDb.BaseURL,
			RequestsPerSecond: l.OMDb.RequestsPerSecond,
			Timeout:           l.OMDb.Timeout(),
		},
	})
}

func (a *app) searchOptions() search.Options {
	return search.Options{
		Debounce:       a.cfg.Search.Debounce(),
		Animation:      a.cfg.Search.Animation(),
		MaxQueryLength: a.cfg.Search.MaxQueryLength,
		Bus:            a.bus,
	}
}

func (a *app) close() {
	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			logging.Warn("failed to close history backend", "err", err)
		}
		a.backend = nil
		a.history = nil
	}
	if a.bus != nil {
		a.bus.Close()
		a.bus = nil
	}
	logging.Close()
}

// NewRootCmd builds the moviesearch command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "moviesearch",
		Short:         "Search movie titles as you type",
		Long:          "moviesearch is a terminal search box for movie titles. Lookups start once typing pauses and every picked title is kept in a search history.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI()
		},
	}
	a.opts.register(root.PersistentFlags())

	root.AddCommand(newHistoryCmd(a), newLookupCmd(a))
	return root
}

// Execute runs the root command and releases what it opened. The post-run
// hook does not run for a failed command.
func Execute(ctx context.Context) error {
	a := &app{}
	defer a.close()
	return newRootCmd(a).ExecuteContext(ctx)
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func (a *app) runTUI() error {
	if !isTerminal() {
		return ErrNotTerminal
	}

	store, err := a.openHistory()
	if err != nil {
		return err
	}
	svc, err := a.lookupService()
	if err != nil {
		return err
	}

	poster := &ui.ProgramPoster{}
	ctrl := search.NewController(svc, store, poster, a.searchOptions())
	model := ui.NewModel(ui.Options{
		Controller:     ctrl,
		History:        store,
		Bus:            a.bus,
		Sender:         poster,
		MaxQueryLength: a.cfg.Search.MaxQueryLength,
		ResultRows:     a.cfg.Search.ResultRows,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	model.SetProgram(p)
	poster.Attach(p)

	logging.Info("starting search ui", "provider", a.cfg.Lookup.Provider, "history", a.cfg.History.Backend)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ui failed: %w", err)
	}
	return nil
}
