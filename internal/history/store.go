// Package history keeps the ordered list of previously selected search terms
// and flushes it to a key-value backend on every mutation.
package history

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"moviesearch/internal/domain"
	"moviesearch/internal/eventbus"
	"moviesearch/internal/kv"
	"moviesearch/internal/logging"
)

// Key is the backend key the history list is stored under
const Key = "searchHistory"

// Store owns the history list. Entries are kept in chronological order;
// Save appends. createdDate is unique within the list.
// Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries []domain.HistoryEntry
	backend kv.Store
	bus     eventbus.EventBus
	log     *log.Logger
	lastErr error
}

// Open loads the history list from backend. A missing key is an empty
// history; an undecodable value is logged and treated as empty.
func Open(backend kv.Store, bus eventbus.EventBus) (*Store, error) {
	if bus == nil {
		bus = eventbus.Null{}
	}
	s := &Store{
		backend: backend,
		bus:     bus,
		log:     logging.WithPrefix("history"),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory list with the backend's copy
func (s *Store) Reload() error {
	raw, ok, err := s.backend.Get(Key)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	var entries []domain.HistoryEntry
	if ok && len(raw) > 0 {
		if err := json.Unmarshal(raw, &entries); err != nil {
			s.log.Warn("stored history is unreadable, starting empty", "err", err)
			entries = nil
		}
	}
	entries = dedupe(entries)

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	s.log.Debug("history loaded", "entries", len(entries))
	return nil
}

// Save appends entry and persists the list. No deduplication by name.
// A createdDate already present is advanced by a millisecond until unique.
func (s *Store) Save(entry domain.HistoryEntry) {
	s.mu.Lock()
	entry.CreatedDate = s.uniqueDate(entry.CreatedDate)
	s.entries = append(s.entries, entry)
	s.persist("save", s.entries)
	s.mu.Unlock()

	s.bus.Publish(domain.HistoryEntrySavedEvent{Entry: entry})
}

// Remove deletes the entry with the given createdDate. Absent keys are a no-op.
func (s *Store) Remove(createdDate string) {
	s.mu.Lock()
	idx := s.indexOf(createdDate)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.entries = append(s.entries[:idx:idx], s.entries[idx+1:]...)
	s.persist("remove", s.entries)
	s.mu.Unlock()

	s.bus.Publish(domain.HistoryEntryRemovedEvent{CreatedDate: createdDate})
}

// Clear empties the list and persists the empty list
func (s *Store) Clear() {
	s.mu.Lock()
	removed := len(s.entries)
	s.entries = nil
	s.persist("clear", []domain.HistoryEntry{})
	s.mu.Unlock()

	s.bus.Publish(domain.HistoryClearedEvent{Removed: removed})
}

// List returns a copy of the history list in store order
func (s *Store) List() []domain.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// Len returns the number of entries
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Get returns the entry with the given createdDate
func (s *Store) Get(createdDate string) (domain.HistoryEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOf(createdDate); idx >= 0 {
		return s.entries[idx], true
	}
	return domain.HistoryEntry{}, false
}

func (s *Store) snapshot() []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) indexOf(createdDate string) int {
	for i, e := range s.entries {
		if e.CreatedDate == createdDate {
			return i
		}
	}
	return -1
}

// uniqueDate returns createdDate, advanced past any existing entry's; caller holds mu
func (s *Store) uniqueDate(createdDate string) string {
	if s.indexOf(createdDate) < 0 {
		return createdDate
	}
	t, err := domain.ParseCreatedDate(createdDate)
	if err != nil {
		t = time.Now()
	}
	for {
		t = t.Add(time.Millisecond)
		candidate := domain.FormatCreatedDate(t)
		if s.indexOf(candidate) < 0 {
			return candidate
		}
	}
}

// Err returns the error of the most recent write to the backend, or nil
// if it succeeded
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// persist writes entries to the backend; caller holds mu. Failures are
// logged and published, never returned: the in-memory list stays
// authoritative.
func (s *Store) persist(op string, entries []domain.HistoryEntry) {
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	data, err := json.Marshal(entries)
	if err == nil {
		err = s.backend.Set(Key, data)
	}
	s.lastErr = err
	if err != nil {
		s.log.Error("failed to persist history", "op", op, "err", err)
		s.bus.Publish(domain.HistoryPersistFailedEvent{Op: op, Err: err})
	}
}

// dedupe drops entries whose createdDate repeats an earlier one
func dedupe(entries []domain.HistoryEntry) []domain.HistoryEntry {
	seen := make(map[string]bool, len(entries))
	out := entries[:0]
	for _, e := range entries {
		if seen[e.CreatedDate] {
			continue
		}
		seen[e.CreatedDate] = true
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
