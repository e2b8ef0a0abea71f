package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviesearch/internal/domain"
	"moviesearch/internal/eventbus"
	"moviesearch/internal/eventloop"
	"moviesearch/internal/history"
	"moviesearch/internal/kv"
	"moviesearch/internal/search"
	"moviesearch/internal/ui/views"
)

var fixedNow = time.Date(2026, 10, 15, 12, 30, 0, 0, time.UTC)

type harness struct {
	loop  *eventloop.Loop
	ctrl  *search.Controller
	store *history.Store
	model *Model
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	loop := eventloop.New(64)
	store, err := history.Open(kv.NewMemory(), nil)
	require.NoError(t, err)

	lookup := search.LookupFunc(func(ctx context.Context, query string) ([]string, error) {
		return []string{"Batman", "Batman Begins"}, nil
	})
	ctrl := search.NewController(lookup, store, loop, search.Options{
		Debounce:  10 * time.Millisecond,
		Animation: 10 * time.Millisecond,
		Now:       func() time.Time { return fixedNow },
	})
	m := NewModel(Options{
		Controller: ctrl,
		History:    store,
		Now:        func() time.Time { return fixedNow },
	})

	t.Cleanup(func() {
		m.Close()
		loop.Close()
	})
	return &harness{loop: loop, ctrl: ctrl, store: store, model: m}
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	_, cmd := h.model.Update(msg)
	return cmd
}

func (h *harness) typeText(text string) {
	for _, r := range text {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (h *harness) press(k tea.KeyType) tea.Cmd {
	return h.send(tea.KeyMsg{Type: k})
}

func (h *harness) waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		_ = h.loop.RunOne(ctx)
		cancel()
	}
}

func (h *harness) searchFor(t *testing.T, text string) {
	t.Helper()
	h.typeText(text)
	h.waitFor(t, func() bool {
		s := h.ctrl.State()
		return !s.Fetching && len(s.Items) > 0
	})
}

func TestTypingShowsLoadingThenResults(t *testing.T) {
	h := newHarness(t)

	h.typeText("bat")
	state := h.ctrl.State()
	assert.Equal(t, "bat", state.Query)
	assert.True(t, state.Fetching)
	assert.Contains(t, h.model.View(), "Searching...")

	h.waitFor(t, func() bool { return !h.ctrl.State().Fetching })
	view := h.model.View()
	assert.NotContains(t, view, "Searching...")
	assert.Contains(t, view, "man Begins")
}

func TestEnterSelectsHighlightedResult(t *testing.T) {
	h := newHarness(t)
	h.searchFor(t, "bat")

	h.press(tea.KeyDown)
	h.press(tea.KeyEnter)

	require.Equal(t, 1, h.store.Len())
	entry := h.store.List()[0]
	assert.Equal(t, "Batman Begins", entry.Name)
	assert.Equal(t, "2026-10-15T12:30:00.000Z", entry.CreatedDate)
	assert.Equal(t, "Batman Begins", h.model.input.Value())
	assert.False(t, h.ctrl.Visible())
}

func TestEnterWithoutResultsDoesNothing(t *testing.T) {
	h := newHarness(t)

	h.press(tea.KeyEnter)
	h.typeText("bat")
	h.press(tea.KeyEnter)

	assert.Equal(t, 0, h.store.Len())
	assert.Equal(t, "bat", h.model.input.Value())
}

func TestEscClearsQuery(t *testing.T) {
	h := newHarness(t)
	h.searchFor(t, "bat")

	h.press(tea.KeyEsc)

	assert.Equal(t, "", h.model.input.Value())
	state := h.ctrl.State()
	assert.Equal(t, "", state.Query)
	assert.False(t, state.Active)
	assert.Empty(t, state.Items)
}

func TestTabMovesFocusOutOfSearch(t *testing.T) {
	h := newHarness(t)
	h.searchFor(t, "bat")
	require.True(t, h.ctrl.Visible())

	h.press(tea.KeyTab)

	assert.Equal(t, focusHistory, h.model.focus)
	assert.False(t, h.ctrl.Visible())
	assert.Equal(t, "bat", h.ctrl.State().Query)
	assert.Contains(t, h.model.View(), "remove")

	h.press(tea.KeyTab)
	assert.Equal(t, focusSearch, h.model.focus)
}

func seedHistory(h *harness, names ...string) {
	for i, name := range names {
		h.store.Save(domain.NewHistoryEntry(name, fixedNow.Add(time.Duration(i)*time.Minute)))
	}
}

func TestHistoryRemoveAndClear(t *testing.T) {
	h := newHarness(t)
	seedHistory(h, "Up", "Heat", "Jaws")

	h.press(tea.KeyTab)
	h.press(tea.KeyDown)
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})

	names := []string{}
	for _, e := range h.store.List() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Up", "Jaws"}, names)
	assert.Contains(t, h.model.View(), views.ClearHistoryLabel)

	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("C")})
	assert.Equal(t, 0, h.store.Len())
	assert.Contains(t, h.model.View(), views.EmptyHistoryLabel)
}

func TestHistoryRemoveLastEntryMovesCursorUp(t *testing.T) {
	h := newHarness(t)
	seedHistory(h, "Up", "Heat")

	h.press(tea.KeyTab)
	h.press(tea.KeyDown)
	h.press(tea.KeyDown)
	h.press(tea.KeyDelete)

	assert.Equal(t, 1, h.store.Len())
	assert.Equal(t, 0, h.model.historyCursor)
}

func TestHistoryReselectSearchesAgain(t *testing.T) {
	h := newHarness(t)
	seedHistory(h, "Up", "Inception")

	h.press(tea.KeyTab)
	h.press(tea.KeyDown)
	h.press(tea.KeyEnter)

	assert.Equal(t, focusSearch, h.model.focus)
	assert.Equal(t, "Inception", h.model.input.Value())
	state := h.ctrl.State()
	assert.Equal(t, "Inception", state.Query)
	assert.True(t, state.Fetching)
}

func TestQuitClosesController(t *testing.T) {
	h := newHarness(t)

	cmd := h.press(tea.KeyCtrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, h.ctrl.Closed())
}

func TestQuitFromHistory(t *testing.T) {
	h := newHarness(t)
	h.press(tea.KeyTab)

	cmd := h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, h.ctrl.Closed())
}

func TestMouseClickOutsideSearchRegion(t *testing.T) {
	h := newHarness(t)
	h.searchFor(t, "bat")

	h.send(tea.MouseMsg{X: 2, Y: 200, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	assert.False(t, h.ctrl.Visible())
	assert.Equal(t, focusHistory, h.model.focus)
	assert.Equal(t, "bat", h.ctrl.State().Query)
}

func TestMouseClickOnResultRowSelectsIt(t *testing.T) {
	h := newHarness(t)
	h.searchFor(t, "bat")

	header := lipgloss.Height(h.model.renderer.Header(h.model.viewState()))
	h.send(tea.MouseMsg{X: 4, Y: header + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	require.Equal(t, 1, h.store.Len())
	assert.Equal(t, "Batman Begins", h.store.List()[0].Name)
}

func TestMouseReleaseIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.searchFor(t, "bat")

	h.send(tea.MouseMsg{X: 2, Y: 200, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.True(t, h.ctrl.Visible())
}

func TestCallbackMsgRunsInUpdate(t *testing.T) {
	h := newHarness(t)

	ran := false
	h.send(callbackMsg{fn: func() { ran = true }})
	assert.True(t, ran)
}

func TestEventMsgShowsStatus(t *testing.T) {
	h := newHarness(t)

	h.send(EventMsg{Event: domain.HistoryPersistFailedEvent{Op: "save", Err: errors.New("disk full")}})
	assert.Contains(t, h.model.View(), "disk full")

	h.send(EventMsg{Event: domain.LookupCompletedEvent{Query: "bat", Count: 2}})
	assert.NotContains(t, h.model.View(), "disk full")
}

func TestSpinnerStopsWhenNotFetching(t *testing.T) {
	h := newHarness(t)

	cmd := h.send(h.model.spinner.Tick())
	assert.Nil(t, cmd)
	assert.False(t, h.model.spinning)
}

func TestPlaceholderAndCharLimit(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, Placeholder, h.model.input.Placeholder)
	assert.Equal(t, search.DefaultMaxQueryLength, h.model.input.CharLimit)

	h.typeText(strings.Repeat("a", search.DefaultMaxQueryLength+5))
	assert.Len(t, h.model.input.Value(), search.DefaultMaxQueryLength)
	assert.Len(t, h.ctrl.State().Query, search.DefaultMaxQueryLength)
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

func TestProgramPoster(t *testing.T) {
	var p ProgramPoster
	p.Post(func() {})

	sender := &recordingSender{}
	p.Attach(sender)
	p.Post(func() {})

	require.Equal(t, 1, sender.count())
	assert.IsType(t, callbackMsg{}, sender.msgs[0])
}

func TestModelForwardsBusEvents(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	sender := &recordingSender{}
	store, err := history.Open(kv.NewMemory(), nil)
	require.NoError(t, err)
	ctrl := search.NewController(search.LookupFunc(func(context.Context, string) ([]string, error) {
		return nil, nil
	}), store, eventloop.Immediate, search.Options{})
	m := NewModel(Options{Controller: ctrl, History: store, Bus: bus, Sender: sender})
	defer m.Close()

	bus.Publish(domain.LookupFailedEvent{Query: "bat", Err: errors.New("offline")})
	bus.Publish(domain.ResultSelectedEvent{})

	assert.Eventually(t, func() bool { return sender.count() == 1 }, time.Second, 10*time.Millisecond)
}
