package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"moviesearch/internal/eventbus"
	"moviesearch/internal/logging"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// callbackMsg carries a function posted by a timer or a lookup goroutine.
// Update runs it, which keeps all controller access on the program loop.
type callbackMsg struct {
	fn func()
}

// Sender is the part of tea.Program the UI sends messages through
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramPoster posts callbacks and events into a running tea.Program
type ProgramPoster struct {
	mu     sync.RWMutex
	sender Sender
}

// Attach binds the poster to the program that will receive its messages
func (p *ProgramPoster) Attach(s Sender) {
	p.mu.Lock()
	p.sender = s
	p.mu.Unlock()
}

// Post implements eventloop.Poster
func (p *ProgramPoster) Post(fn func()) {
	p.Send(callbackMsg{fn: fn})
}

// Send forwards msg to the attached program. Messages sent before Attach
// are dropped.
func (p *ProgramPoster) Send(msg tea.Msg) {
	p.mu.RLock()
	s := p.sender
	p.mu.RUnlock()
	if s == nil {
		logging.Warn("dropping ui message, no program attached")
		return
	}
	s.Send(msg)
}
