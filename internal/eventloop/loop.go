// Package eventloop serializes deferred callbacks onto a single logical event queue.
//
// Timer firings and asynchronous lookup responses never touch search state
// directly. They post a callback, and the owner of the queue runs it.
package eventloop

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Run when the loop was closed before it started
var ErrClosed = errors.New("event loop closed")

// Poster accepts callbacks to run on the event queue
type Poster interface {
	Post(fn func())
}

// PosterFunc adapts a function to the Poster interface
type PosterFunc func(fn func())

// Post calls f(fn)
func (f PosterFunc) Post(fn func()) { f(fn) }

// Immediate runs callbacks synchronously on the posting goroutine.
// Only suitable when every poster already runs on the owning goroutine.
var Immediate = PosterFunc(func(fn func()) { fn() })

// Loop is a channel-backed serial executor
type Loop struct {
	queue  chan func()
	done   chan struct{}
	once   sync.Once
	closed bool
	mu     sync.Mutex
}

// New creates a loop with the given queue capacity
func New(capacity int) *Loop {
	if capacity <= 0 {
		capacity = 64
	}
	return &Loop{
		queue: make(chan func(), capacity),
		done:  make(chan struct{}),
	}
}

// Post enqueues fn. Posts after Close are dropped.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return
	}
	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// Run executes callbacks in order until ctx is done or Close is called
func (l *Loop) Run(ctx context.Context) error {
	select {
	case <-l.done:
		return ErrClosed
	default:
	}
	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		}
	}
}

// RunOne executes a single queued callback, waiting until one arrives or ctx is done
func (l *Loop) RunOne(ctx context.Context) error {
	select {
	case fn := <-l.queue:
		fn()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrClosed
	}
}

// Drain executes every callback currently queued without waiting for more
func (l *Loop) Drain() int {
	n := 0
	for {
		select {
		case fn := <-l.queue:
			fn()
			n++
		default:
			return n
		}
	}
}

// Close stops the loop. Queued callbacks are discarded.
func (l *Loop) Close() {
	l.once.Do(func() {
		l.mu.Lock()
		l.closed = true
		l.mu.Unlock()
		close(l.done)
	})
}
