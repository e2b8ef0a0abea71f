// Package ui is the terminal front end of the movie search box.
package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"moviesearch/internal/domain"
	"moviesearch/internal/eventbus"
	"moviesearch/internal/history"
	"moviesearch/internal/logging"
	"moviesearch/internal/search"
	"moviesearch/internal/ui/views"
)

// Placeholder is shown in the empty search input
const Placeholder = "Type to search the movie..."

const (
	defaultWidth      = 80
	defaultResultRows = 5
)

// focusRegion is the part of the screen receiving key input
type focusRegion int

const (
	focusSearch focusRegion = iota
	focusHistory
)

// Options wires a Model to its collaborators
type Options struct {
	Controller     *search.Controller
	History        *history.Store
	Bus            eventbus.EventBus
	Sender         Sender // receives bus events as EventMsg, may be nil
	MaxQueryLength int
	ResultRows     int
	Now            func() time.Time
}

// Model represents the UI state
type Model struct {
	ctrl    *search.Controller
	history *history.Store
	now     func() time.Time

	input         textinput.Model
	spinner       spinner.Model
	spinning      bool
	help          help.Model
	searchKeys    searchKeyMap
	historyKeys   historyKeyMap
	renderer      *views.Renderer
	focus         focusRegion
	historyCursor int
	resultRows    int
	status        string
	quitting      bool

	width  int
	height int

	unsubscribe []func()

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(opts Options) *Model {
	if opts.ResultRows <= 0 {
		opts.ResultRows = defaultResultRows
	}
	if opts.MaxQueryLength <= 0 {
		opts.MaxQueryLength = search.DefaultMaxQueryLength
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	input := textinput.New()
	input.Placeholder = Placeholder
	input.CharLimit = opts.MaxQueryLength
	input.Prompt = "🔍 "
	input.Focus()

	m := &Model{
		ctrl:        opts.Controller,
		history:     opts.History,
		now:         opts.Now,
		input:       input,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:        help.New(),
		searchKeys:  newSearchKeyMap(),
		historyKeys: newHistoryKeyMap(),
		renderer:    views.NewRenderer(),
		resultRows:  opts.ResultRows,
		width:       defaultWidth,
	}

	if opts.Bus != nil && opts.Sender != nil {
		forward := func(e eventbus.DomainEvent) { opts.Sender.Send(EventMsg{Event: e}) }
		m.unsubscribe = append(m.unsubscribe,
			opts.Bus.Subscribe(eventbus.EventHistoryPersistFailed, forward),
			opts.Bus.Subscribe(eventbus.EventLookupFailed, forward),
			opts.Bus.Subscribe(eventbus.EventLookupCompleted, forward),
		)
	}
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = msg.Width - 10

	case callbackMsg:
		msg.fn()

	case EventMsg:
		m.handleEvent(msg.Event)

	case historyPagerMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Pager failed: %v", msg.err)
		}

	case spinner.TickMsg:
		if !m.ctrl.State().Fetching {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		cmds = append(cmds, m.handleMouse(msg))

	case tea.KeyMsg:
		var cmd tea.Cmd
		if m.focus == focusHistory {
			cmd = m.handleHistoryKey(msg)
		} else {
			cmd = m.handleSearchKey(msg)
		}
		if m.quitting {
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.startSpinner())
	return m, tea.Batch(cmds...)
}

// View renders the UI
func (m *Model) View() string {
	return m.renderer.Render(m.viewState())
}

// Close stops the controller and detaches from the event bus
func (m *Model) Close() {
	for _, unsub := range m.unsubscribe {
		unsub()
	}
	m.unsubscribe = nil
	m.ctrl.Close()
}

func (m *Model) viewState() views.ViewState {
	state := m.ctrl.State()

	var helpView string
	if m.focus == focusHistory {
		helpView = m.help.View(m.historyKeys)
	} else {
		helpView = m.help.View(m.searchKeys)
	}

	return views.ViewState{
		Width:     m.width,
		Input:     m.input.View(),
		Focused:   m.focus == focusSearch,
		Animating: state.Animating,
		Results: views.ResultsState{
			Visible: m.ctrl.Visible(),
			Height:  m.ctrl.Height(),
			Area:    m.ctrl.ResultArea(),
			Rows:    m.resultRows,
			Spinner: m.spinner.View(),
			Width:   m.width,
		},
		History: views.HistoryState{
			Entries: m.history.List(),
			Cursor:  m.historyCursor,
			Focused: m.focus == focusHistory,
			Now:     m.now(),
			Width:   m.width,
		},
		Status: m.status,
		Help:   helpView,
	}
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.searchKeys.Quit):
		return m.quit()

	case key.Matches(msg, m.searchKeys.Focus):
		m.focusHistory()
		return nil

	case key.Matches(msg, m.searchKeys.Clear):
		m.ctrl.OnClearButtonPressed()
		m.syncInput()
		return nil

	case key.Matches(msg, m.searchKeys.Select):
		// Enter only ever picks a highlighted result
		if m.ctrl.SelectCurrent() {
			m.syncInput()
		}
		return nil

	case key.Matches(msg, m.searchKeys.Up):
		m.ctrl.MoveCursor(-1)
		return nil

	case key.Matches(msg, m.searchKeys.Down):
		m.ctrl.MoveCursor(1)
		return nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		m.status = ""
		m.ctrl.OnQueryChanged(value)
	}
	return cmd
}

func (m *Model) handleHistoryKey(msg tea.KeyMsg) tea.Cmd {
	entries := m.history.List()

	switch {
	case key.Matches(msg, m.historyKeys.Quit):
		return m.quit()

	case key.Matches(msg, m.historyKeys.Back):
		return m.focusSearch()

	case key.Matches(msg, m.historyKeys.Up):
		if m.historyCursor > 0 {
			m.historyCursor--
		}

	case key.Matches(msg, m.historyKeys.Down):
		if m.historyCursor < len(entries)-1 {
			m.historyCursor++
		}

	case key.Matches(msg, m.historyKeys.Reselect):
		if len(entries) == 0 {
			return nil
		}
		name := entries[m.historyCursor].Name
		cmd := m.focusSearch()
		m.input.SetValue(name)
		m.input.CursorEnd()
		m.ctrl.OnQueryChanged(name)
		return cmd

	case key.Matches(msg, m.historyKeys.Remove):
		if len(entries) == 0 {
			return nil
		}
		m.history.Remove(entries[m.historyCursor].CreatedDate)
		m.clampHistoryCursor()

	case key.Matches(msg, m.historyKeys.Clear):
		m.history.Clear()
		m.historyCursor = 0

	case key.Matches(msg, m.historyKeys.View):
		return m.viewHistory()
	}
	return nil
}

// handleMouse treats a press outside the search region as leaving the
// search box. A press on a result row selects it.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}

	state := m.viewState()
	header := lipgloss.Height(m.renderer.Header(state))
	region := lipgloss.Height(m.renderer.SearchRegion(state))

	if msg.Y >= region {
		if m.focus == focusSearch {
			m.focusHistory()
		}
		return nil
	}

	var cmd tea.Cmd
	if m.focus != focusSearch {
		cmd = m.focusSearch()
	}

	area := state.Results.Area
	if msg.Y >= header && area.Kind == search.AreaResults {
		cursor := m.ctrl.Cursor()
		first := views.FirstRow(cursor, len(area.Rows), views.PanelRows(state.Results.Visible, state.Results.Height, m.resultRows))
		row := first + msg.Y - header
		if row < len(area.Rows) {
			m.ctrl.MoveCursor(row - cursor)
			if m.ctrl.SelectCurrent() {
				m.syncInput()
			}
		}
	}
	return cmd
}

func (m *Model) handleEvent(e eventbus.DomainEvent) {
	switch e := e.(type) {
	case domain.HistoryPersistFailedEvent:
		m.status = fmt.Sprintf("Search history was not saved: %v", e.Err)
	case domain.LookupFailedEvent:
		m.status = fmt.Sprintf("Search for %q failed: %v", e.Query, e.Err)
	case domain.LookupCompletedEvent:
		m.status = ""
	}
}

func (m *Model) focusHistory() {
	m.focus = focusHistory
	m.input.Blur()
	m.ctrl.OnFocusLost()
	m.clampHistoryCursor()
}

func (m *Model) focusSearch() tea.Cmd {
	m.focus = focusSearch
	return m.input.Focus()
}

// syncInput copies the controller's query into the text input
func (m *Model) syncInput() {
	m.input.SetValue(m.ctrl.State().Query)
	m.input.CursorEnd()
}

func (m *Model) clampHistoryCursor() {
	n := m.history.Len()
	if m.historyCursor >= n {
		m.historyCursor = n - 1
	}
	if m.historyCursor < 0 {
		m.historyCursor = 0
	}
}

func (m *Model) startSpinner() tea.Cmd {
	if m.spinning || !m.ctrl.State().Fetching {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func (m *Model) viewHistory() tea.Cmd {
	content := history.FormatList(m.history.List(), m.now())
	if content == "" {
		content = views.EmptyHistoryLabel + "\n"
	}
	pager := NewPagerOps(m.program)
	return func() tea.Msg {
		return historyPagerMsg{err: pager.ShowInPager(content)}
	}
}

func (m *Model) quit() tea.Cmd {
	logging.Info("quitting")
	m.quitting = true
	m.Close()
	return tea.Quit
}

