package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventLookupDispatched     EventType = "LookupDispatched"
	EventLookupCompleted      EventType = "LookupCompleted"
	EventLookupFailed         EventType = "LookupFailed"
	EventLookupDiscarded      EventType = "LookupDiscarded"
	EventResultSelected       EventType = "ResultSelected"
	EventHistoryEntrySaved    EventType = "HistoryEntrySaved"
	EventHistoryEntryRemoved  EventType = "HistoryEntryRemoved"
	EventHistoryCleared       EventType = "HistoryCleared"
	EventHistoryPersistFailed EventType = "HistoryPersistFailed"
	EventConfigLoaded         EventType = "ConfigLoaded"
	EventConfigSaved          EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// LookupDispatchedEvent is emitted when the debounce window closes and a lookup starts
type LookupDispatchedEvent struct {
	Query string
}

func (e LookupDispatchedEvent) Type() EventType { return EventLookupDispatched }

// LookupCompletedEvent is emitted when a lookup result is applied to the search state
type LookupCompletedEvent struct {
	Query string
	Count int
}

func (e LookupCompletedEvent) Type() EventType { return EventLookupCompleted }

// LookupFailedEvent is emitted when the lookup collaborator returns an error
type LookupFailedEvent struct {
	Query string
	Err   error
}

func (e LookupFailedEvent) Type() EventType { return EventLookupFailed }

// LookupDiscardedEvent is emitted when a response arrives for a query that is no longer current
type LookupDiscardedEvent struct {
	Query   string
	Current string
}

func (e LookupDiscardedEvent) Type() EventType { return EventLookupDiscarded }

// ResultSelectedEvent is emitted when the user picks an item from the results dropdown
type ResultSelectedEvent struct {
	Entry HistoryEntry
}

func (e ResultSelectedEvent) Type() EventType { return EventResultSelected }

// HistoryEntrySavedEvent is emitted after an entry is added to the history list
type HistoryEntrySavedEvent struct {
	Entry HistoryEntry
}

func (e HistoryEntrySavedEvent) Type() EventType { return EventHistoryEntrySaved }

// HistoryEntryRemovedEvent is emitted after an entry is deleted from the history list
type HistoryEntryRemovedEvent struct {
	CreatedDate string
}

func (e HistoryEntryRemovedEvent) Type() EventType { return EventHistoryEntryRemoved }

// HistoryClearedEvent is emitted after the whole history list is emptied
type HistoryClearedEvent struct {
	Removed int
}

func (e HistoryClearedEvent) Type() EventType { return EventHistoryCleared }

// HistoryPersistFailedEvent is emitted when writing the history list to its backend fails
type HistoryPersistFailedEvent struct {
	Op  string
	Err error
}

func (e HistoryPersistFailedEvent) Type() EventType { return EventHistoryPersistFailed }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
