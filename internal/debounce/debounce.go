// Package debounce provides the coalescing dispatcher used for lookups and
// the restartable one-shot timer used for the empty-input animation.
package debounce

import (
	"sync"
	"time"

	"moviesearch/internal/eventloop"
)

// Debouncer coalesces bursts of Schedule calls into one action invocation
// carrying the latest argument, fired after the quiet period elapses.
//
// The timer goroutine never calls the action itself; it posts the invocation
// onto the event queue. A generation counter drops invocations that were
// cancelled or superseded after their timer expired but before they ran.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	post    eventloop.Poster
	action  func(T)
	timer   *time.Timer
	gen     uint64
	pending bool
}

// New creates a debouncer with quiet period delay
func New[T any](delay time.Duration, post eventloop.Poster, action func(T)) *Debouncer[T] {
	return &Debouncer[T]{
		delay:  delay,
		post:   post,
		action: action,
	}
}

// Delay returns the quiet period
func (d *Debouncer[T]) Delay() time.Duration {
	return d.delay
}

// Schedule cancels any pending invocation and arms a new one for arg
func (d *Debouncer[T]) Schedule(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = true
	d.timer = time.AfterFunc(d.delay, func() {
		d.post.Post(func() { d.fire(gen, arg) })
	})
}

// Cancel discards any pending invocation without firing it
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.pending = false
}

// Pending reports whether an invocation is armed and has not yet run
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Debouncer[T]) fire(gen uint64, arg T) {
	d.mu.Lock()
	if gen != d.gen || !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.timer = nil
	d.mu.Unlock()

	d.action(arg)
}

// Timer is a restartable one-shot timer. Start re-arms it from zero;
// the action runs once, on the event queue, when the duration elapses
// without another Start.
type Timer struct {
	d *Debouncer[struct{}]
}

// NewTimer creates a stopped timer
func NewTimer(duration time.Duration, post eventloop.Poster, action func()) *Timer {
	return &Timer{
		d: New(duration, post, func(struct{}) { action() }),
	}
}

// Start arms the timer, restarting it if already armed
func (t *Timer) Start() {
	t.d.Schedule(struct{}{})
}

// Stop cancels the timer
func (t *Timer) Stop() {
	t.d.Cancel()
}

// Active reports whether the timer is armed
func (t *Timer) Active() bool {
	return t.d.Pending()
}
