package search

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"moviesearch/internal/debounce"
	"moviesearch/internal/domain"
	"moviesearch/internal/eventbus"
	"moviesearch/internal/eventloop"
	"moviesearch/internal/logging"
)

// Default timings and input limit
const (
	DefaultDebounce       = 500 * time.Millisecond
	DefaultAnimation      = 500 * time.Millisecond
	DefaultMaxQueryLength = 200
)

// Options configures a Controller. Zero values fall back to the defaults.
type Options struct {
	Debounce       time.Duration
	Animation      time.Duration
	MaxQueryLength int
	Now            func() time.Time
	Bus            eventbus.EventBus
}

// Controller is the search box state machine.
//
// Every method must be called from the event queue the Poster feeds.
// Timer firings and lookup responses are posted back onto that queue, so
// the state is never touched concurrently.
type Controller struct {
	state  State
	cursor int

	lookup  Lookup
	history HistoryWriter
	post    eventloop.Poster
	bus     eventbus.EventBus
	now     func() time.Time
	maxLen  int
	log     *log.Logger

	dispatcher *debounce.Debouncer[string]
	animation  *debounce.Timer

	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool
}

// NewController creates a controller in the clean inactive state
func NewController(lookup Lookup, history HistoryWriter, post eventloop.Poster, opts Options) *Controller {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Animation <= 0 {
		opts.Animation = DefaultAnimation
	}
	if opts.MaxQueryLength == 0 {
		opts.MaxQueryLength = DefaultMaxQueryLength
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Bus == nil {
		opts.Bus = eventbus.Null{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		lookup:  lookup,
		history: history,
		post:    post,
		bus:     opts.Bus,
		now:     opts.Now,
		maxLen:  opts.MaxQueryLength,
		log:     logging.WithPrefix("search"),
		ctx:     ctx,
		cancel:  cancel,
	}
	c.dispatcher = debounce.New(opts.Debounce, post, c.dispatch)
	c.animation = debounce.NewTimer(opts.Animation, post, c.endAnimation)
	return c
}

// OnQueryChanged handles a new input value
func (c *Controller) OnQueryChanged(text string) {
	if c.closed.Load() {
		return
	}
	text = truncate(text, c.maxLen)
	c.state.Query = text

	if text != "" {
		c.state.Active = true
		c.state.Fetching = true
		c.dispatcher.Schedule(text)
		return
	}

	// A scheduled or in-flight lookup keeps Fetching set; its response
	// will no longer match the query and is dropped.
	c.startAnimation()
	c.reset("")
}

// OnLookupResult applies a lookup response if it still belongs to the current query
func (c *Controller) OnLookupResult(forQuery string, results []string, err error) {
	if c.closed.Load() {
		return
	}
	if forQuery != c.state.Query {
		c.log.Debug("discarding stale lookup result", "for", forQuery, "current", c.state.Query)
		c.bus.Publish(domain.LookupDiscardedEvent{Query: forQuery, Current: c.state.Query})
		return
	}

	c.state.Fetching = false
	if err != nil {
		c.log.Warn("lookup failed", "query", forQuery, "err", err)
		c.bus.Publish(domain.LookupFailedEvent{Query: forQuery, Err: err})
		return
	}

	c.setItems(results)
	c.bus.Publish(domain.LookupCompletedEvent{Query: forQuery, Count: len(results)})
}

// OnResultSelected records item in history and closes the panel showing item as the query
func (c *Controller) OnResultSelected(item string) {
	if c.closed.Load() {
		return
	}
	entry := domain.NewHistoryEntry(item, c.now())
	if c.history != nil {
		c.history.Save(entry)
	}
	c.bus.Publish(domain.ResultSelectedEvent{Entry: entry})
	c.reset(item)
}

// OnClearButtonPressed empties the query and closes the panel
func (c *Controller) OnClearButtonPressed() {
	if c.closed.Load() {
		return
	}
	c.reset("")
}

// OnFocusLost closes the panel without touching the query or fetching state
func (c *Controller) OnFocusLost() {
	if c.closed.Load() {
		return
	}
	c.setItems(nil)
	c.state.Active = false
}

// MoveCursor moves the dropdown selection by delta, wrapping around
func (c *Controller) MoveCursor(delta int) {
	n := len(c.state.Items)
	if n == 0 {
		c.cursor = 0
		return
	}
	c.cursor = ((c.cursor+delta)%n + n) % n
}

// SelectCurrent selects the item under the cursor. It reports false when
// there is nothing selectable.
func (c *Controller) SelectCurrent() bool {
	if c.state.Fetching || !c.state.Active || len(c.state.Items) == 0 {
		return false
	}
	c.OnResultSelected(c.state.Items[c.cursor])
	return true
}

// State returns a snapshot of the current state
func (c *Controller) State() State {
	s := c.state
	if s.Items != nil {
		s.Items = append([]string(nil), s.Items...)
	}
	return s
}

// Cursor returns the index of the highlighted dropdown row
func (c *Controller) Cursor() int {
	return c.cursor
}

// Visible reports whether the results panel is shown
func (c *Controller) Visible() bool {
	return ComputeVisibility(c.state)
}

// Height returns the results panel size category
func (c *Controller) Height() Height {
	return ComputeHeight(c.state)
}

// ResultArea returns the render-ready results panel content
func (c *Controller) ResultArea() ResultArea {
	return RenderResultArea(c.state, c.cursor)
}

// Close cancels both timers and any in-flight lookup. Callbacks that
// arrive afterwards are ignored.
func (c *Controller) Close() {
	if c.closed.Swap(true) {
		return
	}
	c.dispatcher.Cancel()
	c.animation.Stop()
	c.cancel()
}

// Closed reports whether Close has been called
func (c *Controller) Closed() bool {
	return c.closed.Load()
}

func (c *Controller) reset(query string) {
	c.state.Query = query
	c.setItems(nil)
	c.state.Active = false
}

func (c *Controller) setItems(items []string) {
	if len(items) == 0 {
		c.state.Items = nil
	} else {
		c.state.Items = append([]string(nil), items...)
	}
	c.cursor = 0
}

func (c *Controller) startAnimation() {
	c.state.Animating = true
	c.animation.Start()
}

func (c *Controller) endAnimation() {
	if c.closed.Load() {
		return
	}
	c.state.Animating = false
}

// dispatch runs on the event queue when the debounce window closes
func (c *Controller) dispatch(query string) {
	if c.closed.Load() {
		return
	}
	c.log.Debug("dispatching lookup", "query", query)
	c.bus.Publish(domain.LookupDispatchedEvent{Query: query})

	ctx := c.ctx
	go func() {
		results, err := c.lookup.Lookup(ctx, query)
		c.post.Post(func() {
			c.OnLookupResult(query, results, err)
		})
	}()
}
